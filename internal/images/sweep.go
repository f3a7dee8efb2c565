package images

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"storeadmin/internal/domain/models"
)

type SweepResult struct {
	Checked     int      `json:"checked"`
	Available   int      `json:"available"`
	Unavailable []string `json:"unavailable,omitempty"`
}

// Sweep checks every url concurrently and returns once all checks settled.
// One failing check never stops the others.
func (r *Resolver) Sweep(ctx context.Context, urls []string) SweepResult {
	res := make([]bool, len(urls))
	var available atomic.Int64

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, u := range urls {
		g.Go(func() error {
			if r.CheckAvailability(ctx, u) {
				res[i] = true
				available.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	out := SweepResult{Checked: len(urls), Available: int(available.Load())}
	for i, ok := range res {
		if !ok {
			out.Unavailable = append(out.Unavailable, urls[i])
		}
	}
	return out
}

// EntityImageURLs lists the resolved URLs of every image of every entity,
// without duplicates.
func EntityImageURLs[T models.Imaged](r *Resolver, entities []T) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range entities {
		for _, img := range e.ImageList() {
			u := r.Resolve(img.URL)
			if u == "" {
				continue
			}
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			out = append(out, u)
		}
	}
	return out
}
