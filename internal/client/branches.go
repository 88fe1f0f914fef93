package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/parceldesk-io/parcel-client/internal/constants"
	"github.com/parceldesk-io/parcel-client/internal/http"
	"github.com/parceldesk-io/parcel-client/pkg/parcel"
)

const branchesPath = constants.APIPrefix + "/branches"

// Registry endpoint names for branch reads.
const (
	epBranchesList   = "branches.list"
	epBranchesGet    = "branches.get"
	epBranchesSearch = "branches.search"
)

// BranchesClient implements parcel.BranchesClient.
type BranchesClient struct {
	httpClient *http.Client
	registry   *parcel.Registry
}

// NewBranchesClient creates a new branches client.
func NewBranchesClient(httpClient *http.Client, registry *parcel.Registry) *BranchesClient {
	return &BranchesClient{httpClient: httpClient, registry: registry}
}

// List implements parcel.BranchesClient.List.
func (c *BranchesClient) List(ctx context.Context, page *parcel.PageRequest) (*parcel.Page[parcel.Branch], error) {
	if page == nil {
		page = &parcel.PageRequest{PageSize: constants.DefaultPageSize}
	}

	data, err := c.registry.Fetch(ctx, epBranchesList, page, pageTags[parcel.Branch](parcel.TagBranch),
		func(ctx context.Context) ([]byte, error) {
			resp, err := c.httpClient.Get(ctx, branchesPath, page.ToValues())
			if err != nil {
				return nil, fmt.Errorf("listing branches: %w", err)
			}

			return resp.Body, nil
		})
	if err != nil {
		return nil, err
	}

	return decodePage[parcel.Branch](data, "branches list")
}

// Get implements parcel.BranchesClient.Get.
func (c *BranchesClient) Get(ctx context.Context, id string) (*parcel.Branch, error) {
	path := fmt.Sprintf("%s/%s", branchesPath, id)

	data, err := c.registry.Fetch(ctx, epBranchesGet, id, singleTag(parcel.TagBranch, id),
		func(ctx context.Context) ([]byte, error) {
			resp, err := c.httpClient.Get(ctx, path, nil)
			if err != nil {
				return nil, fmt.Errorf("getting branch: %w", err)
			}

			return resp.Body, nil
		})
	if err != nil {
		return nil, err
	}

	return decodeResource[parcel.Branch](data, "branch")
}

// Search implements parcel.BranchesClient.Search. Search is a cached read
// carrying the same N+1 fan-out as List.
func (c *BranchesClient) Search(ctx context.Context, request *parcel.BranchSearchRequest, page *parcel.PageRequest) (*parcel.Page[parcel.Branch], error) {
	args := searchArgs{Request: request, Page: page}

	data, err := c.registry.Fetch(ctx, epBranchesSearch, args, pageTags[parcel.Branch](parcel.TagBranch),
		func(ctx context.Context) ([]byte, error) {
			resp, err := c.httpClient.Post(ctx, branchesPath+"/search", searchBody(request, page))
			if err != nil {
				return nil, fmt.Errorf("searching branches: %w", err)
			}

			return resp.Body, nil
		})
	if err != nil {
		return nil, err
	}

	return decodePage[parcel.Branch](data, "branch search")
}

// Create implements parcel.BranchesClient.Create. A new branch cannot have
// id-keyed subscribers yet, so only list views are invalidated.
func (c *BranchesClient) Create(ctx context.Context, request *parcel.BranchCreateRequest) (*parcel.Branch, error) {
	resp, err := c.httpClient.Post(ctx, branchesPath, request)
	if err != nil {
		return nil, fmt.Errorf("creating branch: %w", err)
	}

	branch, err := decodeResource[parcel.Branch](resp.Body, "branch")
	if err != nil {
		return nil, err
	}

	c.registry.InvalidateTags(ctx, []parcel.Tag{parcel.ListTag(parcel.TagBranch)})

	return branch, nil
}

// Update implements parcel.BranchesClient.Update.
func (c *BranchesClient) Update(ctx context.Context, id string, request *parcel.BranchUpdateRequest) (*parcel.Branch, error) {
	path := fmt.Sprintf("%s/%s", branchesPath, id)

	resp, err := c.httpClient.Put(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating branch: %w", err)
	}

	branch, err := decodeResource[parcel.Branch](resp.Body, "branch")
	if err != nil {
		return nil, err
	}

	c.registry.InvalidateTags(ctx, parcel.MutationTags(parcel.TagBranch, id))

	return branch, nil
}

// Delete implements parcel.BranchesClient.Delete.
func (c *BranchesClient) Delete(ctx context.Context, id string) error {
	path := fmt.Sprintf("%s/%s", branchesPath, id)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting branch: %w", err)
	}

	c.registry.InvalidateTags(ctx, parcel.MutationTags(parcel.TagBranch, id))

	return nil
}

// Archive implements parcel.BranchesClient.Archive.
func (c *BranchesClient) Archive(ctx context.Context, id string) (*parcel.Branch, error) {
	return c.archiveAction(ctx, id, "archive")
}

// Unarchive implements parcel.BranchesClient.Unarchive.
func (c *BranchesClient) Unarchive(ctx context.Context, id string) (*parcel.Branch, error) {
	return c.archiveAction(ctx, id, "unarchive")
}

func (c *BranchesClient) archiveAction(ctx context.Context, id, action string) (*parcel.Branch, error) {
	path := fmt.Sprintf("%s/%s/%s", branchesPath, id, action)

	resp, err := c.httpClient.Post(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s branch: %w", action, err)
	}

	branch, err := decodeResource[parcel.Branch](resp.Body, "branch")
	if err != nil {
		return nil, err
	}

	c.registry.InvalidateTags(ctx, parcel.MutationTags(parcel.TagBranch, id))

	return branch, nil
}

// searchArgs is the registry argument key for search reads: the filter and
// the page slice together identify the cached view.
type searchArgs struct {
	Request any                 `json:"request"`
	Page    *parcel.PageRequest `json:"page,omitempty"`
}

// searchBody merges the filter payload with paging for POST search
// endpoints.
func searchBody(request any, page *parcel.PageRequest) map[string]any {
	body := map[string]any{"filter": request}
	if page != nil {
		body["pageNumber"] = page.PageNumber
		body["pageSize"] = page.PageSize
	}

	return body
}

// pageTags returns a TagsFunc applying the N+1 fan-out rule to a page
// envelope response.
func pageTags[T parcel.Identifiable](category parcel.TagCategory) parcel.TagsFunc {
	return func(data []byte) []parcel.Tag {
		var page parcel.Page[T]
		if err := json.Unmarshal(data, &page); err != nil {
			return []parcel.Tag{parcel.ListTag(category)}
		}

		return parcel.PageTags(category, &page)
	}
}

// singleTag returns a TagsFunc producing exactly one id tag.
func singleTag(category parcel.TagCategory, id string) parcel.TagsFunc {
	return func([]byte) []parcel.Tag {
		return []parcel.Tag{parcel.IDTag(category, id)}
	}
}

// decodePage unmarshals a page envelope.
func decodePage[T any](data []byte, what string) (*parcel.Page[T], error) {
	var page parcel.Page[T]
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", what, err)
	}

	return &page, nil
}

// decodeResource unmarshals a single resource.
func decodeResource[T any](data []byte, what string) (*T, error) {
	var resource T
	if err := json.Unmarshal(data, &resource); err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", what, err)
	}

	return &resource, nil
}
