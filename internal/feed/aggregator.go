// Package feed assembles the categorized home feed: one query per
// category fanned out against the store, a featured "Top News" slot,
// and the per-category incremental reveal state.
package feed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/newsdaily/newsdaily/internal/model"
	"github.com/newsdaily/newsdaily/internal/store"
)

// FeaturedMode selects how the "Top News" query result is promoted.
type FeaturedMode string

const (
	// FeaturedRandom promotes one uniformly chosen article as the hero.
	FeaturedRandom FeaturedMode = "random"
	// FeaturedList keeps the returned order: first article is the hero,
	// the next three are secondary highlight cards.
	FeaturedList FeaturedMode = "list"
)

const highlightCount = 3

// ErrStale is returned when Invalidate was called while a load was in
// flight; the caller must drop the result instead of applying it.
var ErrStale = errors.New("feed: load superseded")

// Snapshot is the result of one feed load.
type Snapshot struct {
	// ByCategory holds the full result set per populated category.
	ByCategory map[model.Category][]model.Article
	// Populated lists the categories with at least one article, in
	// display order. Empty categories are omitted entirely.
	Populated []model.Category
	// Hero is the promoted featured article, nil when "Top News" is empty.
	Hero *model.Article
	// Highlights are the secondary featured cards (list mode only).
	Highlights []model.Article
	// Empty is set when there is nothing at all to render, as distinct
	// from a load failure.
	Empty bool
}

// Totals returns the article count per populated category, used to seed
// the reveal controller.
func (s *Snapshot) Totals() map[model.Category]int {
	totals := make(map[model.Category]int, len(s.Populated))
	for c, list := range s.ByCategory {
		totals[c] = len(list)
	}

	return totals
}

// Aggregator loads the feed with one store query per category.
type Aggregator struct {
	store  store.Store
	mode   FeaturedMode
	log    *zap.SugaredLogger
	gen    uint64
	randFn func(n int) int
}

// New returns an Aggregator in the given featured mode.
func New(st store.Store, mode FeaturedMode, log *zap.SugaredLogger) *Aggregator {
	return &Aggregator{
		store:  st,
		mode:   mode,
		log:    log,
		randFn: rand.Intn,
	}
}

// Invalidate marks any in-flight load as stale. Call it when the view
// that requested the load goes away; the late result is then discarded
// rather than applied.
func (a *Aggregator) Invalidate() {
	atomic.AddUint64(&a.gen, 1)
}

// LoadFeed queries every category concurrently and assembles a snapshot.
// Any single query failure fails the whole load; there is no partial
// feed. Store result order is treated as arbitrary.
func (a *Aggregator) LoadFeed(ctx context.Context) (*Snapshot, error) {
	gen := atomic.LoadUint64(&a.gen)

	categories := model.FeedCategories()
	results := make([][]model.Article, len(categories))

	var featured []model.Article

	g, gctx := errgroup.WithContext(ctx)

	for i, c := range categories {
		i, c := i, c

		g.Go(func() error {
			list, err := a.store.QueryByField(gctx, store.FieldCategory, string(c))
			if err != nil {
				return fmt.Errorf("query %s: %w", c.Key(), err)
			}

			results[i] = list

			return nil
		})
	}

	g.Go(func() error {
		list, err := a.store.QueryByField(gctx, store.FieldCategory, string(model.CategoryTop))
		if err != nil {
			return fmt.Errorf("query %s: %w", model.CategoryTop.Key(), err)
		}

		featured = list

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if atomic.LoadUint64(&a.gen) != gen {
		a.log.Debugw("dropping stale feed load")

		return nil, ErrStale
	}

	snap := &Snapshot{ByCategory: make(map[model.Category][]model.Article)}

	for i, c := range categories {
		if len(results[i]) == 0 {
			continue
		}

		snap.ByCategory[c] = results[i]
		snap.Populated = append(snap.Populated, c)
	}

	a.promote(snap, featured)
	snap.Empty = len(snap.Populated) == 0 && snap.Hero == nil

	return snap, nil
}

func (a *Aggregator) promote(snap *Snapshot, featured []model.Article) {
	if len(featured) == 0 {
		return
	}

	switch a.mode {
	case FeaturedList:
		snap.Hero = &featured[0]

		rest := featured[1:]
		if len(rest) > highlightCount {
			rest = rest[:highlightCount]
		}

		snap.Highlights = rest
	default:
		// Selection among one is deterministic; rand.Intn(1) would be
		// valid but the short-circuit mirrors the single-article path.
		idx := 0
		if len(featured) > 1 {
			idx = a.randFn(len(featured))
		}

		snap.Hero = &featured[idx]
	}
}
