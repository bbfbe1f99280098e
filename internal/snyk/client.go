package snyk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"

	"github.com/vulnops/snyk-collection-sync/internal/config"
	ierr "github.com/vulnops/snyk-collection-sync/internal/errors"
	"github.com/vulnops/snyk-collection-sync/internal/httpclient"
	"github.com/vulnops/snyk-collection-sync/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// API is the subset of the Snyk REST API this tool drives. The service layer
// depends on this interface so tests can substitute an in-memory fake.
type API interface {
	// ListProjects returns every project of the organization whose name
	// starts with namePrefix, walking all pages.
	ListProjects(ctx context.Context, namePrefix string) ([]Resource, error)
	// ListCollections returns every collection of the organization.
	ListCollections(ctx context.Context) ([]Resource, error)
	// CreateCollection creates a collection, optionally with the given
	// project ids attached inline as a relationship.
	CreateCollection(ctx context.Context, name string, projectIDs []string) (*Resource, error)
	// AddProjectsToCollection attaches the given project ids to an existing
	// collection. Attaching an already-associated id is a no-op on the
	// remote side. An empty batch is a no-op success locally.
	AddProjectsToCollection(ctx context.Context, collectionID string, projectIDs []string) error
}

// Client talks to the Snyk REST API for a single organization. Credentials
// and API settings come from the configuration handed to NewClient; the
// client itself holds no mutable state.
type Client struct {
	http   httpclient.Client
	cfg    *config.Configuration
	logger *logger.Logger
}

func NewClient(httpClient httpclient.Client, cfg *config.Configuration, log *logger.Logger) *Client {
	return &Client{
		http:   httpClient,
		cfg:    cfg,
		logger: log,
	}
}

func (c *Client) ListProjects(ctx context.Context, namePrefix string) ([]Resource, error) {
	q := url.Values{}
	q.Set("names_start_with", namePrefix)

	projects, err := c.listAll(ctx, c.orgURL("projects", q))
	if err != nil {
		return nil, err
	}

	c.logger.Infof("found %d projects matching prefix %q", len(projects), namePrefix)
	return projects, nil
}

func (c *Client) ListCollections(ctx context.Context) ([]Resource, error) {
	collections, err := c.listAll(ctx, c.orgURL("collections", nil))
	if err != nil {
		return nil, err
	}

	c.logger.Infof("found %d existing collections", len(collections))
	return collections, nil
}

func (c *Client) CreateCollection(ctx context.Context, name string, projectIDs []string) (*Resource, error) {
	payload := collectionCreateRequest{
		Data: collectionCreateData{
			Type:       "collection",
			Attributes: collectionAttributes{Name: name},
		},
	}
	if len(projectIDs) > 0 {
		payload.Data.Relationships = &collectionRelationships{
			Projects: relationshipData{Data: projectRefs(projectIDs)},
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrHTTPClient)
	}

	resp, err := c.http.Send(ctx, &httpclient.Request{
		Method:  http.MethodPost,
		URL:     c.orgURL("collections", nil),
		Headers: c.headers(),
		Body:    body,
	})
	if err != nil {
		return nil, classifyError(err)
	}

	var doc singleDocument
	if err := json.Unmarshal(resp.Body, &doc); err != nil {
		return nil, ierr.WithError(err).
			WithHint("unexpected response body from the Snyk API").
			Mark(ierr.ErrHTTPClient)
	}

	return &doc.Data, nil
}

func (c *Client) AddProjectsToCollection(ctx context.Context, collectionID string, projectIDs []string) error {
	if len(projectIDs) == 0 {
		c.logger.Info("no projects to add to collection")
		return nil
	}

	body, err := json.Marshal(attachProjectsRequest{Data: projectRefs(projectIDs)})
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrHTTPClient)
	}

	path := fmt.Sprintf("collections/%s/relationships/projects", collectionID)
	if _, err := c.http.Send(ctx, &httpclient.Request{
		Method:  http.MethodPost,
		URL:     c.orgURL(path, nil),
		Headers: c.headers(),
		Body:    body,
	}); err != nil {
		return classifyError(err)
	}

	c.logger.Infof("added %d projects to collection %s", len(projectIDs), collectionID)
	return nil
}

// listAll walks a paged list endpoint starting from requestURL, following
// links.next until the remote stops providing one, and accumulates every
// returned entry in server order.
func (c *Client) listAll(ctx context.Context, requestURL string) ([]Resource, error) {
	var all []Resource

	next := requestURL
	for next != "" {
		c.logger.Debugw("fetching page", "url", next)

		resp, err := c.http.Send(ctx, &httpclient.Request{
			Method:  http.MethodGet,
			URL:     next,
			Headers: c.headers(),
		})
		if err != nil {
			return nil, classifyError(err)
		}

		var doc listDocument
		if err := json.Unmarshal(resp.Body, &doc); err != nil {
			return nil, ierr.WithError(err).
				WithHint("unexpected response body from the Snyk API").
				Mark(ierr.ErrHTTPClient)
		}

		all = append(all, doc.Data...)
		if doc.Links.Next != "" {
			c.logger.Infow("fetched page, continuing to next",
				"count", len(doc.Data),
				"total", len(all))
		}

		next = c.resolveNext(doc.Links.Next)
	}

	c.logger.Infow("fetched all pages", "total", len(all))
	return all, nil
}

// resolveNext returns the URL for the next page. Absolute links are used
// verbatim; the live API returns path-relative links rooted at the API base,
// so those get the base prefixed.
func (c *Client) resolveNext(next string) string {
	if next == "" || strings.Contains(next, "://") {
		return next
	}
	if !strings.HasPrefix(next, "/") {
		next = "/" + next
	}
	return strings.TrimRight(c.cfg.BaseURL, "/") + next
}

func (c *Client) orgURL(path string, query url.Values) string {
	q := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("version", c.cfg.APIVersion)

	return fmt.Sprintf("%s/orgs/%s/%s?%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.OrgID, path, q.Encode())
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization": "token " + c.cfg.APIToken,
		"Content-Type":  "application/vnd.api+json",
		"Accept":        "application/vnd.api+json",
	}
}

func projectRefs(projectIDs []string) []relationshipRef {
	return lo.Map(projectIDs, func(id string, _ int) relationshipRef {
		return relationshipRef{ID: id, Type: "project"}
	})
}

// classifyError maps HTTP status errors from the transport into the shared
// error taxonomy. Transport-level failures are already marked by the
// httpclient and pass through unchanged.
func classifyError(err error) error {
	httpErr, ok := httpclient.IsHTTPError(err)
	if !ok {
		return err
	}

	switch httpErr.StatusCode {
	case http.StatusUnauthorized:
		return ierr.WithError(err).
			WithHint("Unauthorized. Please check your API token and organization ID").
			Mark(ierr.ErrUnauthorized)
	case http.StatusForbidden:
		return ierr.WithError(err).
			WithHint("Forbidden. You may not have permission to access this resource").
			Mark(ierr.ErrPermissionDenied)
	case http.StatusNotFound:
		return ierr.WithError(err).Mark(ierr.ErrNotFound)
	default:
		return err
	}
}
