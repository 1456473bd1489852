package reaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/newsdaily/newsdaily/internal/model"
	"github.com/newsdaily/newsdaily/internal/reaction"
	"github.com/newsdaily/newsdaily/internal/store"
)

func setup(t *testing.T) (*reaction.Toggle, store.Store, string) {
	t.Helper()

	st := store.NewMemory()
	a := &model.Article{
		ID:          uuid.NewString(),
		Title:       "t",
		Author:      "a",
		Description: "d",
		Category:    model.CategorySports,
		Date:        time.Now().UTC(),
		UserID:      "owner",
	}
	require.NoError(t, st.Create(context.Background(), a))

	return reaction.NewToggle(st, zap.NewNop().Sugar()), st, a.ID
}

func counters(t *testing.T, st store.Store, id string) (likes, dislikes int) {
	t.Helper()

	a, err := st.GetByID(context.Background(), id)
	require.NoError(t, err)

	return a.Likes, a.Dislikes
}

func TestLikeFromNeutral(t *testing.T) {
	tg, st, id := setup(t)
	ctx := context.Background()

	state, err := tg.Like(ctx, "v1", id)
	require.NoError(t, err)
	require.Equal(t, reaction.Liked, state)

	likes, dislikes := counters(t, st, id)
	require.Equal(t, 1, likes)
	require.Zero(t, dislikes)
}

func TestLikeTwiceIsNeutralNetZero(t *testing.T) {
	tg, st, id := setup(t)
	ctx := context.Background()

	_, err := tg.Like(ctx, "v1", id)
	require.NoError(t, err)

	state, err := tg.Like(ctx, "v1", id)
	require.NoError(t, err)
	require.Equal(t, reaction.Neutral, state)

	likes, dislikes := counters(t, st, id)
	require.Zero(t, likes)
	require.Zero(t, dislikes)
}

func TestLikeThenDislikeIsExclusive(t *testing.T) {
	tg, st, id := setup(t)
	ctx := context.Background()

	_, err := tg.Like(ctx, "v1", id)
	require.NoError(t, err)

	state, err := tg.Dislike(ctx, "v1", id)
	require.NoError(t, err)
	require.Equal(t, reaction.Disliked, state)

	// Relative to post-like: like -1, dislike +1.
	likes, dislikes := counters(t, st, id)
	require.Zero(t, likes)
	require.Equal(t, 1, dislikes)
}

func TestDislikeThenLikeSwaps(t *testing.T) {
	tg, st, id := setup(t)
	ctx := context.Background()

	_, err := tg.Dislike(ctx, "v1", id)
	require.NoError(t, err)

	state, err := tg.Like(ctx, "v1", id)
	require.NoError(t, err)
	require.Equal(t, reaction.Liked, state)

	likes, dislikes := counters(t, st, id)
	require.Equal(t, 1, likes)
	require.Zero(t, dislikes)
}

func TestViewersCountIndependently(t *testing.T) {
	tg, st, id := setup(t)
	ctx := context.Background()

	_, err := tg.Like(ctx, "v1", id)
	require.NoError(t, err)
	_, err = tg.Like(ctx, "v2", id)
	require.NoError(t, err)

	likes, _ := counters(t, st, id)
	require.Equal(t, 2, likes)
	require.Equal(t, reaction.Liked, tg.State("v1", id))
	require.Equal(t, reaction.Liked, tg.State("v2", id))
}

func TestForgetDropsViewerState(t *testing.T) {
	tg, _, id := setup(t)
	ctx := context.Background()

	_, err := tg.Like(ctx, "v1", id)
	require.NoError(t, err)

	tg.Forget("v1")
	require.Equal(t, reaction.Neutral, tg.State("v1", id))
}

type brokenStore struct {
	store.Store
	failLikes    bool
	failDislikes bool
}

func (b *brokenStore) AtomicIncrement(ctx context.Context, id, field string, delta int) error {
	if field == store.FieldLikes && b.failLikes {
		return errors.New("store down")
	}

	if field == store.FieldDislikes && b.failDislikes {
		return errors.New("store down")
	}

	return b.Store.AtomicIncrement(ctx, id, field, delta)
}

func TestRemoteFailureLeavesLocalStateUnchanged(t *testing.T) {
	_, st, id := setup(t)
	ctx := context.Background()

	broken := &brokenStore{Store: st, failLikes: true}
	tgBroken := reaction.NewToggle(broken, zap.NewNop().Sugar())

	state, err := tgBroken.Like(ctx, "v1", id)
	require.Error(t, err)
	require.Equal(t, reaction.Neutral, state)
	require.Equal(t, reaction.Neutral, tgBroken.State("v1", id))

	likes, _ := counters(t, st, id)
	require.Zero(t, likes)
}

func TestPartialFailureIsCompensated(t *testing.T) {
	tg, st, id := setup(t)
	ctx := context.Background()

	_, err := tg.Like(ctx, "v1", id)
	require.NoError(t, err)

	// Swapping like->dislike needs two increments; fail the second.
	broken := &brokenStore{Store: st, failDislikes: true}
	tgBroken := reaction.NewToggle(broken, zap.NewNop().Sugar())

	_, err = tgBroken.Like(ctx, "v2", id) // v2: neutral -> liked, single write, fine
	require.NoError(t, err)

	_, err = tgBroken.Dislike(ctx, "v2", id) // like -1 ok, dislike +1 fails, like restored
	require.Error(t, err)
	require.Equal(t, reaction.Liked, tgBroken.State("v2", id))

	likes, dislikes := counters(t, st, id)
	require.Equal(t, 2, likes)
	require.Zero(t, dislikes)
}
