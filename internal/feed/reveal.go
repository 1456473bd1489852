package feed

import (
	"sync"

	"github.com/newsdaily/newsdaily/internal/model"
)

// DefaultRevealStep is the number of extra articles exposed per
// "view more" action.
const DefaultRevealStep = 3

// RevealController tracks how many articles are visible per category.
// Counts are independent across categories and only ever grow, clamped
// to the category's total. Revealing is pure slicing; it never fetches.
type RevealController struct {
	mu      sync.Mutex
	step    int
	visible map[model.Category]int
	totals  map[model.Category]int
}

// NewRevealController returns a controller with the given step size;
// step <= 0 falls back to DefaultRevealStep.
func NewRevealController(step int) *RevealController {
	if step <= 0 {
		step = DefaultRevealStep
	}

	return &RevealController{
		step:    step,
		visible: make(map[model.Category]int),
		totals:  make(map[model.Category]int),
	}
}

// Seed resets the controller for a fresh feed load: every populated
// category starts with one page visible.
func (rc *RevealController) Seed(totals map[model.Category]int) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.visible = make(map[model.Category]int, len(totals))
	rc.totals = make(map[model.Category]int, len(totals))

	for c, total := range totals {
		rc.totals[c] = total
		rc.visible[c] = minInt(rc.step, total)
	}
}

// VisibleCount returns the number of articles currently revealed for the
// category; zero for categories the controller was not seeded with.
func (rc *RevealController) VisibleCount(c model.Category) int {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return rc.visible[c]
}

// RevealMore exposes one more page for the category, never exceeding the
// category's article count. Other categories are unaffected.
func (rc *RevealController) RevealMore(c model.Category) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	total, ok := rc.totals[c]
	if !ok {
		return
	}

	rc.visible[c] = minInt(rc.visible[c]+rc.step, total)
}

// HasMore reports whether the "view more" affordance should be shown.
func (rc *RevealController) HasMore(c model.Category) bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return rc.visible[c] < rc.totals[c]
}

// Visible slices the snapshot's articles for the category down to the
// revealed count.
func (rc *RevealController) Visible(snap *Snapshot, c model.Category) []model.Article {
	n := rc.VisibleCount(c)

	list := snap.ByCategory[c]
	if n > len(list) {
		n = len(list)
	}

	return list[:n]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}
