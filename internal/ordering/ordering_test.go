package ordering

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDense(n int) []Member {
	members := make([]Member, n)
	for i := range members {
		members[i] = Member{ID: int32(i + 1), Position: int32(i)}
	}
	return members
}

func positionOf(t *testing.T, members []Member, id int32) int32 {
	t.Helper()
	for _, m := range members {
		if m.ID == id {
			return m.Position
		}
	}
	t.Fatalf("member %d not found", id)
	return -1
}

func TestReorderMoveDown(t *testing.T) {
	members := newDense(5)

	plan, err := Reorder(members, 2, 3) // position 1 -> 3
	require.NoError(t, err)

	got := Apply(members, plan)
	assert.True(t, IsDense(got))
	assert.Equal(t, int32(3), positionOf(t, got, 2))
	// Members previously at (1, 3] shifted down by one.
	assert.Equal(t, int32(1), positionOf(t, got, 3))
	assert.Equal(t, int32(2), positionOf(t, got, 4))
	// Untouched edges.
	assert.Equal(t, int32(0), positionOf(t, got, 1))
	assert.Equal(t, int32(4), positionOf(t, got, 5))
}

func TestReorderMoveUp(t *testing.T) {
	members := newDense(5)

	plan, err := Reorder(members, 4, 0) // position 3 -> 0
	require.NoError(t, err)

	got := Apply(members, plan)
	assert.True(t, IsDense(got))
	assert.Equal(t, int32(0), positionOf(t, got, 4))
	assert.Equal(t, int32(1), positionOf(t, got, 1))
	assert.Equal(t, int32(2), positionOf(t, got, 2))
	assert.Equal(t, int32(3), positionOf(t, got, 3))
	assert.Equal(t, int32(4), positionOf(t, got, 5))
}

func TestReorderSamePositionIsNoop(t *testing.T) {
	members := newDense(4)

	plan, err := Reorder(members, 3, 2)
	require.NoError(t, err)
	assert.Empty(t, plan)

	got := Apply(members, plan)
	assert.Equal(t, members, got)
}

func TestReorderUnknownMember(t *testing.T) {
	members := newDense(3)

	_, err := Reorder(members, 99, 0)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestReorderClampsTargetPosition(t *testing.T) {
	members := newDense(3)

	plan, err := Reorder(members, 1, 42)
	require.NoError(t, err)

	got := Apply(members, plan)
	assert.True(t, IsDense(got))
	assert.Equal(t, int32(2), positionOf(t, got, 1))
}

func TestExtractClosesGap(t *testing.T) {
	members := newDense(4)

	plan, err := Extract(members, 2)
	require.NoError(t, err)

	got := Apply(members, plan)
	// Drop the extracted member and verify the remainder is dense.
	rest := make([]Member, 0, 3)
	for _, m := range got {
		if m.ID != 2 {
			rest = append(rest, m)
		}
	}
	assert.True(t, IsDense(rest))
}

func TestInsertOpensSlot(t *testing.T) {
	members := newDense(3)

	plan, pos := Insert(members, 1)
	assert.Equal(t, int32(1), pos)

	got := Apply(members, plan)
	got = append(got, Member{ID: 99, Position: pos})
	assert.True(t, IsDense(got))
}

func TestInsertClampsBeyondEnd(t *testing.T) {
	members := newDense(3)

	plan, pos := Insert(members, 10)
	assert.Empty(t, plan)
	assert.Equal(t, int32(3), pos)
}

func TestInsertIntoEmpty(t *testing.T) {
	plan, pos := Insert(nil, 5)
	assert.Empty(t, plan)
	assert.Equal(t, int32(0), pos)
}

func TestNormalizeRepairsGaps(t *testing.T) {
	members := []Member{
		{ID: 1, Position: 0},
		{ID: 2, Position: 4},
		{ID: 3, Position: 7},
	}

	got := Apply(members, Normalize(members))
	assert.True(t, IsDense(got))
	assert.Equal(t, int32(0), positionOf(t, got, 1))
	assert.Equal(t, int32(1), positionOf(t, got, 2))
	assert.Equal(t, int32(2), positionOf(t, got, 3))
}

// TestRandomMoveSequencesKeepDensity drives two parents through random
// same-parent reorders and cross-parent moves and asserts the contiguity
// invariant after every single operation.
func TestRandomMoveSequencesKeepDensity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	parents := map[string][]Member{
		"a": newDense(6),
		"b": {{ID: 101, Position: 0}, {ID: 102, Position: 1}, {ID: 103, Position: 2}},
	}

	keys := []string{"a", "b"}
	for i := 0; i < 500; i++ {
		src := keys[rng.Intn(2)]
		dst := keys[rng.Intn(2)]
		if len(parents[src]) == 0 {
			continue
		}
		member := parents[src][rng.Intn(len(parents[src]))]

		if src == dst {
			target := int32(rng.Intn(len(parents[src])))
			plan, err := Reorder(parents[src], member.ID, target)
			require.NoError(t, err)
			parents[src] = Apply(parents[src], plan)
		} else {
			extract, err := Extract(parents[src], member.ID)
			require.NoError(t, err)
			shrunk := make([]Member, 0, len(parents[src])-1)
			for _, m := range Apply(parents[src], extract) {
				if m.ID != member.ID {
					shrunk = append(shrunk, m)
				}
			}
			parents[src] = shrunk

			target := int32(rng.Intn(len(parents[dst]) + 1))
			insert, pos := Insert(parents[dst], target)
			parents[dst] = append(Apply(parents[dst], insert), Member{ID: member.ID, Position: pos})
		}

		require.True(t, IsDense(parents["a"]), "parent a broken after op %d", i)
		require.True(t, IsDense(parents["b"]), "parent b broken after op %d", i)
	}
}
