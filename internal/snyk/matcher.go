package snyk

// FindByName returns the first entry whose name attribute equals name.
// Matching is exact and case-sensitive, in list order. Returns nil when
// nothing matches; absence is not an error.
func FindByName(entries []Resource, name string) *Resource {
	for i := range entries {
		if entries[i].Attributes.Name == name {
			return &entries[i]
		}
	}
	return nil
}
