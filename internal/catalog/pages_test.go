package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hazelvane/melodex/internal/shared"
)

func TestCollectPages(t *testing.T) {
	t.Run("SinglePage", func(t *testing.T) {
		items, err := collectPages(context.Background(), []int{1, 2, 3}, nil, 10,
			func(ctx context.Context, next string) ([]int, *string, error) {
				t.Fatal("fetch should not be called without a cursor")
				return nil, nil, nil
			})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 3 {
			t.Errorf("expected 3 items, got %d", len(items))
		}
	})

	t.Run("FollowsCursors", func(t *testing.T) {
		pages := map[string]struct {
			items []int
			next  *string
		}{
			"p2": {items: []int{3, 4}, next: strPtr("p3")},
			"p3": {items: []int{5}},
		}

		items, err := collectPages(context.Background(), []int{1, 2}, strPtr("p2"), 10,
			func(ctx context.Context, next string) ([]int, *string, error) {
				page, ok := pages[next]
				if !ok {
					return nil, nil, fmt.Errorf("unknown page %s", next)
				}
				return page.items, page.next, nil
			})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []int{1, 2, 3, 4, 5}
		if len(items) != len(want) {
			t.Fatalf("expected %v, got %v", want, items)
		}
		for i := range want {
			if items[i] != want[i] {
				t.Errorf("position %d: expected %d, got %d", i, want[i], items[i])
			}
		}
	})

	t.Run("FetchFailureDiscardsPartial", func(t *testing.T) {
		boom := errors.New("upstream down")
		_, err := collectPages(context.Background(), []int{1}, strPtr("p2"), 10,
			func(ctx context.Context, next string) ([]int, *string, error) {
				return nil, nil, boom
			})
		if !errors.Is(err, boom) {
			t.Errorf("expected wrapped fetch error, got %v", err)
		}
	})

	t.Run("PageLimit", func(t *testing.T) {
		_, err := collectPages(context.Background(), []int{1}, strPtr("loop"), 3,
			func(ctx context.Context, next string) ([]int, *string, error) {
				return []int{1}, strPtr("loop"), nil
			})
		if !errors.Is(err, shared.ErrPageLimitExceeded) {
			t.Errorf("expected ErrPageLimitExceeded, got %v", err)
		}
	})
}

func strPtr(s string) *string { return &s }
