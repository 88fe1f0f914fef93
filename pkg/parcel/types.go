package parcel

import (
	"net/url"
	"strconv"
	"time"
)

// Resource represents the base fields shared by all API resources.
type Resource struct {
	ID        string    `json:"id"        yaml:"id"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// PageRequest describes which slice of a paginated collection to read.
type PageRequest struct {
	PageNumber int `json:"pageNumber" yaml:"pageNumber"`
	PageSize   int `json:"pageSize"   yaml:"pageSize"`
}

// ToValues converts the page request to URL query values.
func (p *PageRequest) ToValues() url.Values {
	values := url.Values{}

	values.Set("pageNumber", strconv.Itoa(p.PageNumber))

	if p.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(p.PageSize))
	}

	return values
}

// Page represents the paginated page envelope returned by list and search
// reads.
type Page[T any] struct {
	Content       []T  `json:"content"       yaml:"content"`
	PageNumber    int  `json:"pageNumber"    yaml:"pageNumber"`
	PageSize      int  `json:"pageSize"      yaml:"pageSize"`
	TotalElements int  `json:"totalElements" yaml:"totalElements"`
	TotalPages    int  `json:"totalPages"    yaml:"totalPages"`
	Last          bool `json:"last"          yaml:"last"`
}

// MessageResponse is the `{message, status}` acknowledgement some mutations
// return instead of the updated resource.
type MessageResponse struct {
	Message string `json:"message" yaml:"message"`
	Status  string `json:"status"  yaml:"status"`
}

// CountResponse wraps count endpoints.
type CountResponse struct {
	Count int64 `json:"count" yaml:"count"`
}
