package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/newsdaily/newsdaily/internal/model"
	"github.com/newsdaily/newsdaily/internal/store"
)

func newArticle(category model.Category, userID string) *model.Article {
	return &model.Article{
		ID:          uuid.NewString(),
		Title:       "title",
		Author:      "author",
		Description: "description",
		Category:    category,
		Date:        time.Now().UTC().Truncate(time.Second),
		UserID:      userID,
	}
}

// The contract tests run against both backends.
func withStores(t *testing.T, fn func(t *testing.T, st store.Store)) {
	t.Helper()

	t.Run("memory", func(t *testing.T) {
		fn(t, store.NewMemory())
	})

	t.Run("sqlite", func(t *testing.T) {
		st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
		require.NoError(t, err)
		t.Cleanup(func() { st.Close() })

		fn(t, st)
	})
}

func TestCreateAndGet(t *testing.T) {
	withStores(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()
		a := newArticle(model.CategorySports, "u1")

		require.NoError(t, st.Create(ctx, a))

		got, err := st.GetByID(ctx, a.ID)
		require.NoError(t, err)
		require.Equal(t, a.Title, got.Title)
		require.Equal(t, model.CategorySports, got.Category)
		require.Equal(t, "u1", got.UserID)
		require.Zero(t, got.Likes)
		require.Zero(t, got.Dislikes)
	})
}

func TestGetUnknownID(t *testing.T) {
	withStores(t, func(t *testing.T, st store.Store) {
		_, err := st.GetByID(context.Background(), "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestQueryByField(t *testing.T) {
	withStores(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()

		require.NoError(t, st.Create(ctx, newArticle(model.CategorySports, "u1")))
		require.NoError(t, st.Create(ctx, newArticle(model.CategorySports, "u2")))
		require.NoError(t, st.Create(ctx, newArticle(model.CategoryLocal, "u1")))

		sports, err := st.QueryByField(ctx, store.FieldCategory, string(model.CategorySports))
		require.NoError(t, err)
		require.Len(t, sports, 2)

		mine, err := st.QueryByField(ctx, store.FieldUserID, "u1")
		require.NoError(t, err)
		require.Len(t, mine, 2)

		none, err := st.QueryByField(ctx, store.FieldCategory, string(model.CategoryTop))
		require.NoError(t, err)
		require.Empty(t, none)

		_, err = st.QueryByField(ctx, "title", "x")
		require.ErrorIs(t, err, store.ErrBadField)
	})
}

func TestUpdatePartial(t *testing.T) {
	withStores(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()
		a := newArticle(model.CategoryBusiness, "u1")
		require.NoError(t, st.Create(ctx, a))

		title := "new title"
		img := "https://img.example/x.png"
		require.NoError(t, st.Update(ctx, a.ID, store.Update{Title: &title, ImageURL: &img}))

		got, err := st.GetByID(ctx, a.ID)
		require.NoError(t, err)
		require.Equal(t, "new title", got.Title)
		require.Equal(t, img, got.ImageURL)
		// Untouched fields survive.
		require.Equal(t, a.Description, got.Description)
		require.Equal(t, a.Category, got.Category)
		require.Equal(t, a.Author, got.Author)

		require.ErrorIs(t, st.Update(ctx, "nope", store.Update{Title: &title}), store.ErrNotFound)
	})
}

func TestAtomicIncrement(t *testing.T) {
	withStores(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()
		a := newArticle(model.CategoryTrending, "u1")
		require.NoError(t, st.Create(ctx, a))

		require.NoError(t, st.AtomicIncrement(ctx, a.ID, store.FieldLikes, 1))
		require.NoError(t, st.AtomicIncrement(ctx, a.ID, store.FieldLikes, 1))
		require.NoError(t, st.AtomicIncrement(ctx, a.ID, store.FieldDislikes, 1))
		require.NoError(t, st.AtomicIncrement(ctx, a.ID, store.FieldLikes, -1))

		got, err := st.GetByID(ctx, a.ID)
		require.NoError(t, err)
		require.Equal(t, 1, got.Likes)
		require.Equal(t, 1, got.Dislikes)

		// Counters floor at zero.
		require.NoError(t, st.AtomicIncrement(ctx, a.ID, store.FieldDislikes, -5))
		got, err = st.GetByID(ctx, a.ID)
		require.NoError(t, err)
		require.Zero(t, got.Dislikes)

		require.ErrorIs(t, st.AtomicIncrement(ctx, "nope", store.FieldLikes, 1), store.ErrNotFound)
		require.ErrorIs(t, st.AtomicIncrement(ctx, a.ID, "title", 1), store.ErrBadField)
	})
}

func TestDelete(t *testing.T) {
	withStores(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()
		a := newArticle(model.CategoryInternational, "u1")
		require.NoError(t, st.Create(ctx, a))

		require.NoError(t, st.Delete(ctx, a.ID))

		_, err := st.GetByID(ctx, a.ID)
		require.ErrorIs(t, err, store.ErrNotFound)

		require.ErrorIs(t, st.Delete(ctx, a.ID), store.ErrNotFound)
	})
}
