package client

import (
	"context"
	"fmt"

	"github.com/parceldesk-io/parcel-client/internal/constants"
	"github.com/parceldesk-io/parcel-client/internal/http"
	"github.com/parceldesk-io/parcel-client/pkg/parcel"
)

const usersPath = constants.APIPrefix + "/users"

const (
	epUsersList   = "users.list"
	epUsersGet    = "users.get"
	epUsersSearch = "users.search"
)

// UsersClient implements parcel.UsersClient.
type UsersClient struct {
	httpClient *http.Client
	registry   *parcel.Registry
}

// NewUsersClient creates a new users client.
func NewUsersClient(httpClient *http.Client, registry *parcel.Registry) *UsersClient {
	return &UsersClient{httpClient: httpClient, registry: registry}
}

// List implements parcel.UsersClient.List.
func (c *UsersClient) List(ctx context.Context, page *parcel.PageRequest) (*parcel.Page[parcel.User], error) {
	if page == nil {
		page = &parcel.PageRequest{PageSize: constants.DefaultPageSize}
	}

	data, err := c.registry.Fetch(ctx, epUsersList, page, pageTags[parcel.User](parcel.TagUser),
		func(ctx context.Context) ([]byte, error) {
			resp, err := c.httpClient.Get(ctx, usersPath, page.ToValues())
			if err != nil {
				return nil, fmt.Errorf("listing users: %w", err)
			}

			return resp.Body, nil
		})
	if err != nil {
		return nil, err
	}

	return decodePage[parcel.User](data, "users list")
}

// Get implements parcel.UsersClient.Get.
func (c *UsersClient) Get(ctx context.Context, id string) (*parcel.User, error) {
	path := fmt.Sprintf("%s/%s", usersPath, id)

	data, err := c.registry.Fetch(ctx, epUsersGet, id, singleTag(parcel.TagUser, id),
		func(ctx context.Context) ([]byte, error) {
			resp, err := c.httpClient.Get(ctx, path, nil)
			if err != nil {
				return nil, fmt.Errorf("getting user: %w", err)
			}

			return resp.Body, nil
		})
	if err != nil {
		return nil, err
	}

	return decodeResource[parcel.User](data, "user")
}

// Search implements parcel.UsersClient.Search.
func (c *UsersClient) Search(ctx context.Context, request *parcel.UserSearchRequest, page *parcel.PageRequest) (*parcel.Page[parcel.User], error) {
	args := searchArgs{Request: request, Page: page}

	data, err := c.registry.Fetch(ctx, epUsersSearch, args, pageTags[parcel.User](parcel.TagUser),
		func(ctx context.Context) ([]byte, error) {
			resp, err := c.httpClient.Post(ctx, usersPath+"/search", searchBody(request, page))
			if err != nil {
				return nil, fmt.Errorf("searching users: %w", err)
			}

			return resp.Body, nil
		})
	if err != nil {
		return nil, err
	}

	return decodePage[parcel.User](data, "user search")
}

// Create implements parcel.UsersClient.Create.
func (c *UsersClient) Create(ctx context.Context, request *parcel.UserCreateRequest) (*parcel.User, error) {
	resp, err := c.httpClient.Post(ctx, usersPath, request)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	user, err := decodeResource[parcel.User](resp.Body, "user")
	if err != nil {
		return nil, err
	}

	c.registry.InvalidateTags(ctx, []parcel.Tag{parcel.ListTag(parcel.TagUser)})

	return user, nil
}

// Update implements parcel.UsersClient.Update.
func (c *UsersClient) Update(ctx context.Context, id string, request *parcel.UserUpdateRequest) (*parcel.User, error) {
	path := fmt.Sprintf("%s/%s", usersPath, id)

	resp, err := c.httpClient.Put(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	user, err := decodeResource[parcel.User](resp.Body, "user")
	if err != nil {
		return nil, err
	}

	c.registry.InvalidateTags(ctx, parcel.MutationTags(parcel.TagUser, id))

	return user, nil
}

// Delete implements parcel.UsersClient.Delete.
func (c *UsersClient) Delete(ctx context.Context, id string) error {
	path := fmt.Sprintf("%s/%s", usersPath, id)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	c.registry.InvalidateTags(ctx, parcel.MutationTags(parcel.TagUser, id))

	return nil
}

// Suspend implements parcel.UsersClient.Suspend. The backend exposes the
// moderation actions with the verb before the id.
func (c *UsersClient) Suspend(ctx context.Context, id string) (*parcel.User, error) {
	return c.moderationAction(ctx, fmt.Sprintf("%s/suspend/%s", usersPath, id), "suspending", id)
}

// Reinstate implements parcel.UsersClient.Reinstate.
func (c *UsersClient) Reinstate(ctx context.Context, id string) (*parcel.User, error) {
	return c.moderationAction(ctx, fmt.Sprintf("%s/reinstate/%s", usersPath, id), "reinstating", id)
}

func (c *UsersClient) moderationAction(ctx context.Context, path, verb, id string) (*parcel.User, error) {
	resp, err := c.httpClient.Patch(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s user: %w", verb, err)
	}

	user, err := decodeResource[parcel.User](resp.Body, "user")
	if err != nil {
		return nil, err
	}

	c.registry.InvalidateTags(ctx, parcel.MutationTags(parcel.TagUser, id))

	return user, nil
}

// Activate implements parcel.UsersClient.Activate.
func (c *UsersClient) Activate(ctx context.Context, id string) (*parcel.User, error) {
	return c.lifecycleAction(ctx, id, "activate")
}

// Deactivate implements parcel.UsersClient.Deactivate.
func (c *UsersClient) Deactivate(ctx context.Context, id string) (*parcel.User, error) {
	return c.lifecycleAction(ctx, id, "deactivate")
}

func (c *UsersClient) lifecycleAction(ctx context.Context, id, action string) (*parcel.User, error) {
	path := fmt.Sprintf("%s/%s/%s", usersPath, id, action)

	resp, err := c.httpClient.Post(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s user: %w", action[:len(action)-1]+"ing", err)
	}

	user, err := decodeResource[parcel.User](resp.Body, "user")
	if err != nil {
		return nil, err
	}

	c.registry.InvalidateTags(ctx, parcel.MutationTags(parcel.TagUser, id))

	return user, nil
}
