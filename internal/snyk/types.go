package snyk

// Resource is a single JSON:API object as returned by the Snyk REST API.
// Projects and collections share this shape: an opaque id, a type tag and a
// display name under attributes.
type Resource struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	Attributes ResourceAttributes `json:"attributes"`
}

// ResourceAttributes holds the attributes the tool cares about.
type ResourceAttributes struct {
	Name string `json:"name"`
}

// listDocument is the envelope of a paged list response.
type listDocument struct {
	Data  []Resource `json:"data"`
	Links pageLinks  `json:"links"`
}

type pageLinks struct {
	Next string `json:"next"`
}

// singleDocument is the envelope of a single-object response.
type singleDocument struct {
	Data Resource `json:"data"`
}

type collectionCreateRequest struct {
	Data collectionCreateData `json:"data"`
}

type collectionCreateData struct {
	Type          string                   `json:"type"`
	Attributes    collectionAttributes     `json:"attributes"`
	Relationships *collectionRelationships `json:"relationships,omitempty"`
}

type collectionAttributes struct {
	Name string `json:"name"`
}

type collectionRelationships struct {
	Projects relationshipData `json:"projects"`
}

type relationshipData struct {
	Data []relationshipRef `json:"data"`
}

type relationshipRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type attachProjectsRequest struct {
	Data []relationshipRef `json:"data"`
}
