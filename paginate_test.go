package cbadv

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePage struct {
	items   []int
	cursor  string
	hasNext bool
}

func collectPages(t *testing.T, seq func(yield func([]int, error) bool)) [][]int {
	t.Helper()

	var batches [][]int
	for batch, err := range seq {
		require.NoError(t, err)
		batches = append(batches, batch)
	}
	return batches
}

func TestPagesFollowsHasNextFlag(t *testing.T) {
	responses := map[string]fakePage{
		"":   {items: []int{1, 2}, cursor: "c1", hasNext: true},
		"c1": {items: []int{3, 4}, cursor: "c2", hasNext: true},
		"c2": {items: []int{5}, cursor: "", hasNext: false},
	}

	var fetches int
	seq := pages(t.Context(), "",
		func(ctx context.Context, cursor string) (fakePage, error) {
			fetches++
			return responses[cursor], nil
		},
		func(p fakePage) ([]int, string, bool) { return p.items, p.cursor, p.hasNext },
	)

	batches := collectPages(t, seq)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, batches)
	assert.Equal(t, 3, fetches)
}

func TestPagesStopsOnEmptyCursor(t *testing.T) {
	responses := map[string]fakePage{
		"":   {items: []int{1}, cursor: "c1"},
		"c1": {items: []int{2}, cursor: "c2"},
		"c2": {items: []int{3}, cursor: ""},
	}

	seq := pages(t.Context(), "",
		func(ctx context.Context, cursor string) (fakePage, error) {
			return responses[cursor], nil
		},
		// The empty-cursor convention: more pages iff the cursor is set.
		func(p fakePage) ([]int, string, bool) { return p.items, p.cursor, p.cursor != "" },
	)

	batches := collectPages(t, seq)
	assert.Equal(t, [][]int{{1}, {2}, {3}}, batches)
}

func TestPagesYieldsErrorAsTerminalElement(t *testing.T) {
	boom := errors.New("boom")
	seq := pages(t.Context(), "",
		func(ctx context.Context, cursor string) (fakePage, error) {
			if cursor == "c1" {
				return fakePage{}, boom
			}
			return fakePage{items: []int{1}, cursor: "c1", hasNext: true}, nil
		},
		func(p fakePage) ([]int, string, bool) { return p.items, p.cursor, p.hasNext },
	)

	var batches [][]int
	var errs []error
	for batch, err := range seq {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		batches = append(batches, batch)
	}

	assert.Equal(t, [][]int{{1}}, batches, "batches before the failure stay valid")
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], boom)
}

func TestPagesIsLazy(t *testing.T) {
	var fetches int
	seq := pages(t.Context(), "",
		func(ctx context.Context, cursor string) (fakePage, error) {
			fetches++
			return fakePage{items: []int{fetches}, cursor: "next", hasNext: true}, nil
		},
		func(p fakePage) ([]int, string, bool) { return p.items, p.cursor, p.hasNext },
	)

	assert.Zero(t, fetches, "nothing is fetched before the first pull")

	for range seq {
		break
	}
	assert.Equal(t, 1, fetches, "breaking out stops further requests")
}

func TestPagesResumesFromInitialCursor(t *testing.T) {
	var cursors []string
	seq := pages(t.Context(), "resume-here",
		func(ctx context.Context, cursor string) (fakePage, error) {
			cursors = append(cursors, cursor)
			return fakePage{items: []int{1}}, nil
		},
		func(p fakePage) ([]int, string, bool) { return p.items, p.cursor, p.hasNext },
	)

	collectPages(t, seq)
	assert.Equal(t, []string{"resume-here"}, cursors)
}
