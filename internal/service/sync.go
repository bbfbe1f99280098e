package service

import (
	"context"

	"github.com/samber/lo"

	ierr "github.com/vulnops/snyk-collection-sync/internal/errors"
	"github.com/vulnops/snyk-collection-sync/internal/logger"
	"github.com/vulnops/snyk-collection-sync/internal/snyk"
)

// SyncParams are the inputs of one sync run.
type SyncParams struct {
	// Prefix is the server-side name filter for project selection.
	Prefix string
	// CollectionName is the collection to create or reuse.
	CollectionName string
}

// SyncResult is the outcome of one sync run. ProjectIDs is populated whenever
// extraction succeeded, regardless of how collection reconciliation went, so
// the caller can tell "nothing matched" apart from "collections unavailable".
type SyncResult struct {
	ProjectIDs           []string
	Collection           *snyk.Resource
	CollectionsAvailable bool
}

type CollectionSyncService interface {
	// Sync extracts the project ids matching the prefix and reconciles the
	// named collection with them. The returned error is non-nil only for the
	// fatal create-after-fallback failure; every other problem is reported
	// and reflected in the result.
	Sync(ctx context.Context, params SyncParams) (*SyncResult, error)

	// ExtractProjectIDs lists the projects matching namePrefix and returns
	// their ids. List-level failures degrade to an empty result with a
	// diagnostic, they are never returned as errors.
	ExtractProjectIDs(ctx context.Context, namePrefix string) []string

	// EnsureCollection finds or creates the named collection and attaches
	// the given project ids to it. Returns an error marked
	// ErrFeatureUnavailable when collections cannot be listed, and one
	// marked ErrCollectionCreate when creation fails even after the single
	// name-only fallback.
	EnsureCollection(ctx context.Context, name string, projectIDs []string) (*snyk.Resource, error)
}

type collectionSyncService struct {
	api    snyk.API
	logger *logger.Logger
}

func NewCollectionSyncService(api snyk.API, log *logger.Logger) CollectionSyncService {
	return &collectionSyncService{
		api:    api,
		logger: log,
	}
}

func (s *collectionSyncService) Sync(ctx context.Context, params SyncParams) (*SyncResult, error) {
	s.logger.Infow("starting collection sync",
		"prefix", params.Prefix,
		"collection", params.CollectionName)

	result := &SyncResult{CollectionsAvailable: true}

	result.ProjectIDs = s.ExtractProjectIDs(ctx, params.Prefix)
	if len(result.ProjectIDs) == 0 {
		s.logger.Warnf("no projects found with prefix %q", params.Prefix)
		return result, nil
	}

	collection, err := s.EnsureCollection(ctx, params.CollectionName, result.ProjectIDs)
	if err != nil {
		if ierr.IsFeatureUnavailable(err) {
			// Degraded success: the ids were extracted, the grouping
			// feature just is not there to receive them.
			result.CollectionsAvailable = false
			return result, nil
		}
		return result, err
	}

	result.Collection = collection
	s.logger.Infof("successfully processed %d projects into collection %q (ID: %s)",
		len(result.ProjectIDs), params.CollectionName, collection.ID)
	return result, nil
}

func (s *collectionSyncService) ExtractProjectIDs(ctx context.Context, namePrefix string) []string {
	s.logger.Infof("retrieving projects with name prefix %q", namePrefix)

	projects, err := s.api.ListProjects(ctx, namePrefix)
	if err != nil {
		s.reportProjectListError(err)
		return nil
	}

	for _, p := range projects {
		s.logger.Infof("  - %s (ID: %s)", p.Attributes.Name, p.ID)
	}

	ids := lo.Map(projects, func(p snyk.Resource, _ int) string {
		return p.ID
	})
	s.logger.Infof("extracted %d project IDs", len(ids))
	return ids
}

// reportProjectListError logs a list-level failure with an actionable hint.
// The failure degrades to an empty extraction result by design.
func (s *collectionSyncService) reportProjectListError(err error) {
	switch {
	case ierr.IsNotFound(err):
		s.logger.Warnw("projects endpoint not found; this organization may not have projects yet",
			"error", err)
	case ierr.IsUnauthorized(err):
		s.logger.Warnw("unauthorized; check your API token and organization ID",
			"error", err)
	case ierr.IsPermissionDenied(err):
		s.logger.Warnw("forbidden; you may not have permission to access projects",
			"error", err)
	default:
		s.logger.Warnw("failed to list projects", "error", err)
	}
}

func (s *collectionSyncService) EnsureCollection(ctx context.Context, name string, projectIDs []string) (*snyk.Resource, error) {
	collections, err := s.api.ListCollections(ctx)
	if err != nil {
		// Listing failures never abort the run: a 404 means the
		// organization has no collections support at all, anything else is
		// reported and treated the same soft way.
		if ierr.IsNotFound(err) {
			s.logger.Warnw("collections are not available for this organization",
				"error", err)
			return nil, ierr.WithError(err).
				WithHint("collections may be a premium feature or not enabled for this organization").
				Mark(ierr.ErrFeatureUnavailable)
		}
		s.logger.Warnw("failed to list collections", "error", err)
		return nil, ierr.WithError(err).Mark(ierr.ErrFeatureUnavailable)
	}

	collection := snyk.FindByName(collections, name)
	if collection != nil {
		s.logger.Infof("collection %q already exists (ID: %s)", name, collection.ID)
	} else {
		collection, err = s.createCollection(ctx, name, projectIDs)
		if err != nil {
			return nil, err
		}
	}

	// Attach runs even right after a create-with-relationships so the final
	// state does not depend on the remote honoring the inline relationship.
	// The remote treats re-attaching an associated project as a no-op.
	if err := s.api.AddProjectsToCollection(ctx, collection.ID, projectIDs); err != nil {
		s.logger.Warnw("failed to add projects to collection",
			"collection", collection.ID,
			"error", err)
	}

	return collection, nil
}

// createCollection issues the combined create-with-relationships request and,
// when that fails with a non-empty batch, falls back exactly once to creating
// the collection with the name only. A second failure is fatal to the run.
func (s *collectionSyncService) createCollection(ctx context.Context, name string, projectIDs []string) (*snyk.Resource, error) {
	if len(projectIDs) > 0 {
		s.logger.Infof("creating collection %q with %d projects", name, len(projectIDs))
	} else {
		s.logger.Infof("creating collection %q", name)
	}

	collection, err := s.api.CreateCollection(ctx, name, projectIDs)
	if err == nil {
		return collection, nil
	}

	if len(projectIDs) == 0 {
		return nil, ierr.WithError(err).
			WithHintf("the Snyk API rejected creation of collection %q", name).
			Mark(ierr.ErrCollectionCreate)
	}

	s.logger.Warnw("creating collection with projects failed, falling back to name-only creation",
		"collection", name,
		"error", err)

	collection, err = s.api.CreateCollection(ctx, name, nil)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("the Snyk API rejected creation of collection %q twice", name).
			Mark(ierr.ErrCollectionCreate)
	}

	return collection, nil
}
