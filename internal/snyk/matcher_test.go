package snyk

import (
	"testing"
)

func collection(id, name string) Resource {
	return Resource{
		ID:         id,
		Type:       "collection",
		Attributes: ResourceAttributes{Name: name},
	}
}

func TestFindByName(t *testing.T) {
	tests := []struct {
		name    string
		entries []Resource
		target  string
		wantID  string
	}{
		{
			name:    "exact match",
			entries: []Resource{collection("c1", "Backend"), collection("c2", "Frontend")},
			target:  "Frontend",
			wantID:  "c2",
		},
		{
			name:    "case sensitive miss",
			entries: []Resource{collection("c1", "Backend")},
			target:  "backend",
			wantID:  "",
		},
		{
			name:    "first of duplicates wins",
			entries: []Resource{collection("c1", "Services"), collection("c2", "Services")},
			target:  "Services",
			wantID:  "c1",
		},
		{
			name:    "not found",
			entries: []Resource{collection("c1", "Backend")},
			target:  "Missing",
			wantID:  "",
		},
		{
			name:    "empty list",
			entries: nil,
			target:  "Backend",
			wantID:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindByName(tt.entries, tt.target)
			if tt.wantID == "" {
				if got != nil {
					t.Fatalf("expected no match, got %q", got.ID)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected match %q, got none", tt.wantID)
			}
			if got.ID != tt.wantID {
				t.Fatalf("expected match %q, got %q", tt.wantID, got.ID)
			}
		})
	}
}
