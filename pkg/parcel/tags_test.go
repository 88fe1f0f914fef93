package parcel_test

import (
	"testing"

	"github.com/parceldesk-io/parcel-client/pkg/parcel"
	"github.com/stretchr/testify/assert"
)

func TestTag_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Branch:b-1", parcel.IDTag(parcel.TagBranch, "b-1").String())
	assert.Equal(t, "Parcel:LIST", parcel.ListTag(parcel.TagParcel).String())
	assert.Equal(t, "Parcel:*", parcel.CategoryTag(parcel.TagParcel).String())
}

func TestListTags_FanOut(t *testing.T) {
	t.Parallel()

	branches := []parcel.Branch{
		{Resource: parcel.Resource{ID: "b-1"}},
		{Resource: parcel.Resource{ID: "b-2"}},
		{Resource: parcel.Resource{ID: "b-3"}},
	}

	tags := parcel.ListTags(parcel.TagBranch, branches)

	// N items produce N+1 tags: one per item plus the LIST sentinel.
	assert.Len(t, tags, 4)
	assert.Contains(t, tags, parcel.IDTag(parcel.TagBranch, "b-1"))
	assert.Contains(t, tags, parcel.IDTag(parcel.TagBranch, "b-2"))
	assert.Contains(t, tags, parcel.IDTag(parcel.TagBranch, "b-3"))
	assert.Contains(t, tags, parcel.ListTag(parcel.TagBranch))
}

func TestListTags_EmptyList(t *testing.T) {
	t.Parallel()

	tags := parcel.ListTags(parcel.TagCustomer, []parcel.Customer{})

	assert.Equal(t, []parcel.Tag{parcel.ListTag(parcel.TagCustomer)}, tags)
}

func TestPageTags(t *testing.T) {
	t.Parallel()

	page := &parcel.Page[parcel.User]{
		Content: []parcel.User{
			{Resource: parcel.Resource{ID: "u-1"}},
		},
	}

	tags := parcel.PageTags(parcel.TagUser, page)
	assert.Len(t, tags, 2)
	assert.Contains(t, tags, parcel.IDTag(parcel.TagUser, "u-1"))
	assert.Contains(t, tags, parcel.ListTag(parcel.TagUser))

	assert.Equal(t, []parcel.Tag{parcel.ListTag(parcel.TagUser)},
		parcel.PageTags[parcel.User](parcel.TagUser, nil))
}

func TestMutationTags(t *testing.T) {
	t.Parallel()

	tags := parcel.MutationTags(parcel.TagDispatcher, "d-9")

	assert.Equal(t, []parcel.Tag{
		parcel.IDTag(parcel.TagDispatcher, "d-9"),
		parcel.ListTag(parcel.TagDispatcher),
	}, tags)
}
