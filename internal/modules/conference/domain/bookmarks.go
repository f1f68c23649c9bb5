package domain

import "sort"

// BookmarkSet is the set of bookmarked session ids for one user at one
// conference. Values are snapshots: mutating helpers return a new set.
type BookmarkSet map[string]struct{}

func NewBookmarkSet(ids ...string) BookmarkSet {
	set := make(BookmarkSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (b BookmarkSet) Has(id string) bool {
	_, ok := b[id]
	return ok
}

func (b BookmarkSet) Len() int { return len(b) }

// With returns a copy that also contains id.
func (b BookmarkSet) With(id string) BookmarkSet {
	out := b.clone(len(b) + 1)
	out[id] = struct{}{}
	return out
}

// Without returns a copy that does not contain id.
func (b BookmarkSet) Without(id string) BookmarkSet {
	out := b.clone(len(b))
	delete(out, id)
	return out
}

// IDs returns the members in sorted order.
func (b BookmarkSet) IDs() []string {
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (b BookmarkSet) clone(capacity int) BookmarkSet {
	out := make(BookmarkSet, capacity)
	for id := range b {
		out[id] = struct{}{}
	}
	return out
}
