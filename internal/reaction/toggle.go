// Package reaction implements the like/dislike toggle: per-viewer state
// with mutually exclusive reactions, persisted through the store's
// atomic counter increments.
package reaction

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/newsdaily/newsdaily/internal/store"
)

// State is the viewer's current reaction to an article.
type State int8

const (
	Neutral State = iota
	Liked
	Disliked
)

func (s State) String() string {
	switch s {
	case Liked:
		return "liked"
	case Disliked:
		return "disliked"
	default:
		return "neutral"
	}
}

type key struct {
	viewer    string
	articleID string
}

// Toggle tracks reaction state per (viewer, article) for the lifetime of
// the process. Remote mutation happens first; local state is committed
// only once the store confirms, so a failed mutation leaves the viewer's
// state untouched instead of drifting.
type Toggle struct {
	store store.Store
	log   *zap.SugaredLogger

	mu     sync.Mutex
	states map[key]State
}

// NewToggle returns an empty toggle backed by st.
func NewToggle(st store.Store, log *zap.SugaredLogger) *Toggle {
	return &Toggle{
		store:  st,
		log:    log,
		states: make(map[key]State),
	}
}

// State returns the viewer's current reaction to the article.
func (t *Toggle) State(viewer, articleID string) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.states[key{viewer, articleID}]
}

// Forget drops all reaction state for a viewer, e.g. on sign-out.
func (t *Toggle) Forget(viewer string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for k := range t.states {
		if k.viewer == viewer {
			delete(t.states, k)
		}
	}
}

// Like toggles the viewer's like on the article and returns the new
// state. From neutral it adds a like; from liked it undoes the like;
// from disliked it swaps the dislike for a like in one logical update.
func (t *Toggle) Like(ctx context.Context, viewer, articleID string) (State, error) {
	return t.apply(ctx, viewer, articleID, Liked)
}

// Dislike is the mirror of Like.
func (t *Toggle) Dislike(ctx context.Context, viewer, articleID string) (State, error) {
	return t.apply(ctx, viewer, articleID, Disliked)
}

func (t *Toggle) apply(ctx context.Context, viewer, articleID string, pressed State) (State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	k := key{viewer, articleID}
	cur := t.states[k]

	next, likeDelta, dislikeDelta := transition(cur, pressed)

	if err := t.increment(ctx, articleID, likeDelta, dislikeDelta); err != nil {
		return cur, err
	}

	if next == Neutral {
		delete(t.states, k)
	} else {
		t.states[k] = next
	}

	return next, nil
}

// transition returns the next state and the remote counter deltas for a
// button press. A decrement is only ever produced when the tracked state
// proves the matching increment happened, so counters stay non-negative.
func transition(cur, pressed State) (next State, likeDelta, dislikeDelta int) {
	if cur == pressed {
		// Undo.
		if pressed == Liked {
			return Neutral, -1, 0
		}

		return Neutral, 0, -1
	}

	likeDelta, dislikeDelta = 1, 0
	if pressed == Disliked {
		likeDelta, dislikeDelta = 0, 1
	}

	switch cur {
	case Liked:
		likeDelta--
	case Disliked:
		dislikeDelta--
	}

	return pressed, likeDelta, dislikeDelta
}

// increment applies both counter deltas via the store's atomic increment
// primitive. If the second write fails after the first succeeded, the
// first is compensated so the pair stays a single logical update.
func (t *Toggle) increment(ctx context.Context, articleID string, likeDelta, dislikeDelta int) error {
	if likeDelta != 0 {
		if err := t.store.AtomicIncrement(ctx, articleID, store.FieldLikes, likeDelta); err != nil {
			return fmt.Errorf("reaction: %w", err)
		}
	}

	if dislikeDelta != 0 {
		if err := t.store.AtomicIncrement(ctx, articleID, store.FieldDislikes, dislikeDelta); err != nil {
			if likeDelta != 0 {
				if cerr := t.store.AtomicIncrement(ctx, articleID, store.FieldLikes, -likeDelta); cerr != nil {
					t.log.Errorw("failed to compensate like counter",
						"article", articleID, "error", cerr)
				}
			}

			return fmt.Errorf("reaction: %w", err)
		}
	}

	return nil
}
