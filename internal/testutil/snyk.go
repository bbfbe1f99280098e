package testutil

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/vulnops/snyk-collection-sync/internal/snyk"
)

// InMemorySnykAPI is a fake snyk.API for service tests. It records the call
// sequence and keeps collection membership as a set, mirroring the remote's
// idempotent attach semantics.
type InMemorySnykAPI struct {
	Projects    []snyk.Resource
	Collections []snyk.Resource

	// Errors injected per operation. CreateErr fails the combined
	// create-with-relationships request only; CreateNameOnlyErr also fails
	// the name-only fallback.
	ProjectsErr       error
	CollectionsErr    error
	CreateErr         error
	CreateNameOnlyErr error
	AttachErr         error

	// Calls is the ordered trace of operations, e.g.
	// "ListProjects(svc-)" or "CreateCollection(Services,2)".
	Calls []string

	// Members maps collection id to the attached project ids in first-attach
	// order, without duplicates.
	Members map[string][]string

	nextID int
}

func NewInMemorySnykAPI() *InMemorySnykAPI {
	return &InMemorySnykAPI{
		Members: map[string][]string{},
	}
}

func (a *InMemorySnykAPI) ListProjects(_ context.Context, namePrefix string) ([]snyk.Resource, error) {
	a.Calls = append(a.Calls, fmt.Sprintf("ListProjects(%s)", namePrefix))
	if a.ProjectsErr != nil {
		return nil, a.ProjectsErr
	}

	var matched []snyk.Resource
	for _, p := range a.Projects {
		if strings.HasPrefix(p.Attributes.Name, namePrefix) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (a *InMemorySnykAPI) ListCollections(_ context.Context) ([]snyk.Resource, error) {
	a.Calls = append(a.Calls, "ListCollections")
	if a.CollectionsErr != nil {
		return nil, a.CollectionsErr
	}
	return a.Collections, nil
}

func (a *InMemorySnykAPI) CreateCollection(_ context.Context, name string, projectIDs []string) (*snyk.Resource, error) {
	a.Calls = append(a.Calls, fmt.Sprintf("CreateCollection(%s,%d)", name, len(projectIDs)))

	if len(projectIDs) > 0 && a.CreateErr != nil {
		return nil, a.CreateErr
	}
	if len(projectIDs) == 0 && a.CreateNameOnlyErr != nil {
		return nil, a.CreateNameOnlyErr
	}

	a.nextID++
	collection := snyk.Resource{
		ID:         fmt.Sprintf("col-%d", a.nextID),
		Type:       "collection",
		Attributes: snyk.ResourceAttributes{Name: name},
	}
	a.Collections = append(a.Collections, collection)
	a.attach(collection.ID, projectIDs)
	return &collection, nil
}

func (a *InMemorySnykAPI) AddProjectsToCollection(_ context.Context, collectionID string, projectIDs []string) error {
	if len(projectIDs) == 0 {
		return nil
	}
	a.Calls = append(a.Calls, fmt.Sprintf("AddProjectsToCollection(%s,%d)", collectionID, len(projectIDs)))
	if a.AttachErr != nil {
		return a.AttachErr
	}
	a.attach(collectionID, projectIDs)
	return nil
}

func (a *InMemorySnykAPI) attach(collectionID string, projectIDs []string) {
	for _, id := range projectIDs {
		if !lo.Contains(a.Members[collectionID], id) {
			a.Members[collectionID] = append(a.Members[collectionID], id)
		}
	}
}
