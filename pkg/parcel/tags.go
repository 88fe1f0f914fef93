package parcel

// TagCategory names one of the fixed tag categories resource modules
// register against.
type TagCategory string

const (
	TagParcel     TagCategory = "Parcel"
	TagCustomer   TagCategory = "Customer"
	TagDispatcher TagCategory = "Dispatcher"
	TagBranch     TagCategory = "Branch"
	TagUser       TagCategory = "User"
	TagDashboard  TagCategory = "Dashboard"
)

// ListID is the sentinel id tagging whole-collection views. Invalidating
// (category, ListID) does not touch (category, <specific id>) entries;
// the two are independent unless a write declares both.
const ListID = "LIST"

// Tag relates a cache entry to the domain entities it represents.
type Tag struct {
	Category TagCategory
	ID       string
}

// String returns the stable textual form used as an index key.
func (t Tag) String() string {
	return string(t.Category) + ":" + t.ID
}

// ListTag returns the collection sentinel tag for a category.
func ListTag(category TagCategory) Tag {
	return Tag{Category: category, ID: ListID}
}

// IDTag returns the tag for one specific entity.
func IDTag(category TagCategory, id string) Tag {
	return Tag{Category: category, ID: id}
}

// Identifiable is implemented by every resource type carrying an id.
type Identifiable interface {
	Identity() string
}

// Identity implements Identifiable for all embedded Resource types.
func (r Resource) Identity() string {
	return r.ID
}

// ListTags produces the tag set for a list read: one tag per item id plus
// the category's LIST sentinel. An empty or absent list yields exactly the
// LIST tag, so N items always produce N+1 tags.
func ListTags[T Identifiable](category TagCategory, items []T) []Tag {
	tags := make([]Tag, 0, len(items)+1)
	for _, item := range items {
		tags = append(tags, IDTag(category, item.Identity()))
	}

	return append(tags, ListTag(category))
}

// PageTags applies the N+1 fan-out rule to a page envelope.
func PageTags[T Identifiable](category TagCategory, page *Page[T]) []Tag {
	if page == nil {
		return []Tag{ListTag(category)}
	}

	return ListTags(category, page.Content)
}

// MutationTags is the tag set invalidated by update-style writes: the
// specific entry and every list view of the category.
func MutationTags(category TagCategory, id string) []Tag {
	return []Tag{IDTag(category, id), ListTag(category)}
}

// CategoryTag tags or invalidates an entire category regardless of id.
// Parcel status changes use this: a transition ripples into per-customer
// sent/received views, so every parcel-derived entry is considered affected.
func CategoryTag(category TagCategory) Tag {
	return Tag{Category: category, ID: "*"}
}
