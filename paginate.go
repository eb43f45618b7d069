package cbadv

import (
	"context"
	"iter"
)

// pages is the shared cursor-pagination engine behind the list endpoints. It
// yields one batch of T per fetch; a fetch or decode failure is yielded as
// the terminal element. Two termination conventions coexist upstream, so the
// extract callback decides both the next cursor and whether more pages
// remain:
//
//   - accounts and orders report a has_next flag alongside the cursor
//   - fills signal the end with an empty cursor
//
// Fetching is lazy. Nothing is requested until the sequence is pulled, and
// breaking out of the range stops further requests.
func pages[E, T any](
	ctx context.Context,
	cursor string,
	fetch func(ctx context.Context, cursor string) (E, error),
	extract func(envelope E) (batch []T, next string, hasNext bool),
) iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		for {
			envelope, err := fetch(ctx, cursor)
			if err != nil {
				yield(nil, err)
				return
			}

			batch, next, hasNext := extract(envelope)
			if !yield(batch, nil) {
				return
			}
			if !hasNext {
				return
			}
			cursor = next
		}
	}
}
