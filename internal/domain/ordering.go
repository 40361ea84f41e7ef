package domain

import "errors"

// Ordering errors.
var (
	ErrForeignMember   = errors.New("ordering: id is not a member")
	ErrDuplicateMember = errors.New("ordering: id appears more than once")
)

// Ordering is the dense rank of a set of members: the member at index i has
// position i. It is the single place positions are computed.
type Ordering struct {
	ids []string
}

// NewOrdering builds an ordering from members already sorted by position.
func NewOrdering(ids []string) Ordering {
	return Ordering{ids: append([]string(nil), ids...)}
}

// IDs returns the members in rank order.
func (o Ordering) IDs() []string {
	return append([]string(nil), o.ids...)
}

// Len returns the number of members.
func (o Ordering) Len() int {
	return len(o.ids)
}

// Position returns the rank of id.
func (o Ordering) Position(id string) (int, bool) {
	for i, m := range o.ids {
		if m == id {
			return i, true
		}
	}
	return 0, false
}

// Positions maps each member to its rank.
func (o Ordering) Positions() map[string]int {
	out := make(map[string]int, len(o.ids))
	for i, id := range o.ids {
		out[id] = i
	}
	return out
}

// Rerank returns the ordering produced by a client reorder request.
// Every requested id must be a member and appear once; otherwise the
// receiver is unchanged and an error is returned. Members left out of the
// request keep their relative order after the requested ones.
func (o Ordering) Rerank(requested []string) (Ordering, error) {
	members := make(map[string]bool, len(o.ids))
	for _, id := range o.ids {
		members[id] = true
	}

	seen := make(map[string]bool, len(requested))
	next := make([]string, 0, len(o.ids))
	for _, id := range requested {
		if !members[id] {
			return o, ErrForeignMember
		}
		if seen[id] {
			return o, ErrDuplicateMember
		}
		seen[id] = true
		next = append(next, id)
	}
	for _, id := range o.ids {
		if !seen[id] {
			next = append(next, id)
		}
	}
	return Ordering{ids: next}, nil
}

// InsertHead places id at position 0 and shifts every member down by one.
func (o Ordering) InsertHead(id string) Ordering {
	return Ordering{ids: append([]string{id}, o.ids...)}
}

// Remove drops id and closes the gap.
func (o Ordering) Remove(id string) Ordering {
	next := make([]string, 0, len(o.ids))
	for _, m := range o.ids {
		if m != id {
			next = append(next, m)
		}
	}
	return Ordering{ids: next}
}
