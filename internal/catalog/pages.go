package catalog

import (
	"context"
	"fmt"

	"github.com/hazelvane/melodex/internal/shared"
)

// collectPages assembles a complete paginated sub-collection: it starts from
// the first page's items and follows continuation cursors until the cursor
// is nil, appending items in page order. A fetch failure fails the whole
// collection; no partial result is returned. Walks longer than maxPages
// abort with shared.ErrPageLimitExceeded.
func collectPages[T any](ctx context.Context, first []T, next *string, maxPages int, fetch func(context.Context, string) ([]T, *string, error)) ([]T, error) {
	items := make([]T, 0, len(first))
	items = append(items, first...)

	pages := 1
	for next != nil && *next != "" {
		if pages >= maxPages {
			return nil, fmt.Errorf("%w: stopped after %d pages", shared.ErrPageLimitExceeded, pages)
		}

		pageItems, pageNext, err := fetch(ctx, *next)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", pages+1, err)
		}

		items = append(items, pageItems...)
		next = pageNext
		pages++
	}

	return items, nil
}
