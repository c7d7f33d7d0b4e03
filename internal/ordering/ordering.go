// Package ordering maintains dense zero-based position ranks for ordered
// collections (cards within a section, sections within a project).
//
// All functions are pure: they take the current members of one parent and
// return the minimal set of position writes that keeps the parent's
// positions a contiguous 0..n-1 permutation. Callers apply a plan inside a
// single database transaction; a partially applied plan would corrupt the
// invariant for every later read.
package ordering

import (
	"sort"

	"github.com/pkg/errors"
)

// ErrMemberNotFound is returned when the moved member is not part of the
// collection handed to the planner.
var ErrMemberNotFound = errors.New("ordering: member not found in collection")

// Member is one element of an ordered collection.
type Member struct {
	ID       int32
	Position int32
}

// Write is a single position update to persist.
type Write struct {
	ID       int32
	Position int32
}

// Plan is the ordered set of position writes for one parent.
type Plan []Write

// clamp bounds pos to [0, max].
func clamp(pos, max int32) int32 {
	if pos < 0 {
		return 0
	}
	if pos > max {
		return max
	}
	return pos
}

// Reorder plans a same-parent move of memberID to newPos.
//
// Moving to a higher index shifts every member in (old, new] down by one;
// moving to a lower index shifts every member in [new, old) up by one. The
// returned plan is empty when old == new.
func Reorder(members []Member, memberID int32, newPos int32) (Plan, error) {
	var oldPos int32 = -1
	for _, m := range members {
		if m.ID == memberID {
			oldPos = m.Position
			break
		}
	}
	if oldPos < 0 {
		return nil, ErrMemberNotFound
	}

	newPos = clamp(newPos, int32(len(members)-1))
	if oldPos == newPos {
		return Plan{}, nil
	}

	plan := Plan{}
	for _, m := range members {
		if m.ID == memberID {
			continue
		}
		switch {
		case oldPos < newPos && m.Position > oldPos && m.Position <= newPos:
			plan = append(plan, Write{ID: m.ID, Position: m.Position - 1})
		case oldPos > newPos && m.Position >= newPos && m.Position < oldPos:
			plan = append(plan, Write{ID: m.ID, Position: m.Position + 1})
		}
	}
	plan = append(plan, Write{ID: memberID, Position: newPos})
	return plan, nil
}

// Extract plans the removal of memberID from its parent: every member after
// it decrements by one, closing the gap. The moved member itself gets no
// write here; the caller re-homes it via Insert on the target parent.
func Extract(members []Member, memberID int32) (Plan, error) {
	var oldPos int32 = -1
	for _, m := range members {
		if m.ID == memberID {
			oldPos = m.Position
			break
		}
	}
	if oldPos < 0 {
		return nil, ErrMemberNotFound
	}

	plan := Plan{}
	for _, m := range members {
		if m.ID != memberID && m.Position > oldPos {
			plan = append(plan, Write{ID: m.ID, Position: m.Position - 1})
		}
	}
	return plan, nil
}

// Insert plans opening a slot at newPos in the target parent: every member
// at or after newPos increments by one. It returns the plan together with
// the clamped position the inserted member must take.
func Insert(members []Member, newPos int32) (Plan, int32) {
	newPos = clamp(newPos, int32(len(members)))

	plan := Plan{}
	for _, m := range members {
		if m.Position >= newPos {
			plan = append(plan, Write{ID: m.ID, Position: m.Position + 1})
		}
	}
	return plan, newPos
}

// Normalize plans a full dense renumber preserving the current relative
// order. Used to repair a parent after a member is deleted outright.
func Normalize(members []Member) Plan {
	sorted := make([]Member, len(members))
	copy(sorted, members)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Position == sorted[j].Position {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].Position < sorted[j].Position
	})

	plan := Plan{}
	for i, m := range sorted {
		if m.Position != int32(i) {
			plan = append(plan, Write{ID: m.ID, Position: int32(i)})
		}
	}
	return plan
}

// Apply returns a copy of members with the plan applied. Primarily used by
// tests and in-memory stores; SQL drivers apply plans as UPDATE statements.
func Apply(members []Member, plan Plan) []Member {
	out := make([]Member, len(members))
	copy(out, members)
	for i := range out {
		for _, w := range plan {
			if out[i].ID == w.ID {
				out[i].Position = w.Position
			}
		}
	}
	return out
}

// IsDense reports whether positions form exactly {0..n-1} with no
// duplicates.
func IsDense(members []Member) bool {
	seen := make(map[int32]bool, len(members))
	for _, m := range members {
		if m.Position < 0 || m.Position >= int32(len(members)) || seen[m.Position] {
			return false
		}
		seen[m.Position] = true
	}
	return true
}
