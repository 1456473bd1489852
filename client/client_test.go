//go:build !integration
// +build !integration

package client_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/newsdaily/newsdaily/client"
	"github.com/newsdaily/newsdaily/internal/article"
	"github.com/newsdaily/newsdaily/internal/feed"
	"github.com/newsdaily/newsdaily/internal/images"
	"github.com/newsdaily/newsdaily/internal/model"
	"github.com/newsdaily/newsdaily/internal/reaction"
	"github.com/newsdaily/newsdaily/internal/session"
	"github.com/newsdaily/newsdaily/internal/store"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	st := store.NewMemory()
	sessions := session.NewTokenProvider()
	sugar := zap.NewNop().Sugar()

	host, err := images.NewDirHost(t.TempDir(), "/media")
	require.NoError(t, err)

	rs := &article.Resource{
		Store:  st,
		Feed:   feed.New(st, feed.FeaturedList, sugar),
		Toggle: reaction.NewToggle(st, sugar),
		Images: host,
		Log:    sugar,
	}

	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(session.Middleware(sessions))
	r.Get("/feed", rs.GetFeed)
	r.Mount("/articles", rs.Routes())
	r.Mount("/session", (&session.Resource{Provider: sessions}).Routes())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv
}

func publish(t *testing.T, c *client.Client, category model.Category, titles ...string) {
	t.Helper()

	for _, title := range titles {
		_, err := c.Create(context.Background(), client.NewArticle{
			Title:       title,
			Author:      "Peter",
			Description: "Something happened.",
			Category:    category,
		})
		require.NoError(t, err)
	}
}

func TestFullAuthoringFlow(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()

	c := &client.Client{Addr: srv.URL}
	require.NoError(t, c.SignIn(ctx, "u1"))

	created, err := c.Create(ctx, client.NewArticle{
		Title:       "Big Story",
		Author:      "Peter",
		Description: "Something happened.",
		Category:    model.CategorySports,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "u1", created.UserID)

	mine, err := c.MyArticles(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	title := "Bigger Story"
	updated, err := c.Update(ctx, created.ID, client.ArticleUpdate{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Bigger Story", updated.Title)

	require.NoError(t, c.Delete(ctx, created.ID))

	_, err = c.Article(ctx, created.ID)
	require.Error(t, err)
}

func TestCreateWithoutSessionFails(t *testing.T) {
	srv := newServer(t)

	c := &client.Client{Addr: srv.URL}

	_, err := c.Create(context.Background(), client.NewArticle{
		Title:       "Big Story",
		Author:      "Peter",
		Description: "Something happened.",
		Category:    model.CategorySports,
	})
	require.Error(t, err)
}

func TestFeedRevealIsLocalSlicing(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()

	author := &client.Client{Addr: srv.URL}
	require.NoError(t, author.SignIn(ctx, "u1"))
	publish(t, author, model.CategorySports, "s1", "s2", "s3", "s4", "s5")
	publish(t, author, model.CategoryLocal, "l1", "l2")
	publish(t, author, model.CategoryTop, "hero", "h1", "h2", "h3")

	viewer := &client.Client{Addr: srv.URL}

	f, err := viewer.Feed(ctx)
	require.NoError(t, err)
	require.False(t, f.Empty)

	require.NotNil(t, f.Hero)
	require.Equal(t, "hero", f.Hero.Title)
	require.Len(t, f.Highlights, 3)

	require.Equal(t, []model.Category{model.CategorySports, model.CategoryLocal}, f.Categories())

	// One page visible per category after load.
	require.Len(t, f.Visible(model.CategorySports), 3)
	require.Len(t, f.Visible(model.CategoryLocal), 2)
	require.True(t, f.HasMore(model.CategorySports))
	require.False(t, f.HasMore(model.CategoryLocal))

	// Revealing is local: no request leaves the process.
	srv.Close()

	f.RevealMore(model.CategorySports)
	require.Len(t, f.Visible(model.CategorySports), 5)
	require.False(t, f.HasMore(model.CategorySports))

	// Untouched category keeps its own count.
	require.Len(t, f.Visible(model.CategoryLocal), 2)
}

func TestReactionsRoundTrip(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()

	author := &client.Client{Addr: srv.URL}
	require.NoError(t, author.SignIn(ctx, "u1"))
	publish(t, author, model.CategorySports, "story")

	list, err := author.ByCategory(ctx, model.CategorySports)
	require.NoError(t, err)
	require.Len(t, list, 1)
	id := list[0].ID

	viewer := &client.Client{Addr: srv.URL}
	require.NoError(t, viewer.SignIn(ctx, "viewer"))

	a, err := viewer.Like(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 1, a.Likes)
	require.Equal(t, "liked", a.Reaction)

	a, err = viewer.Like(ctx, id)
	require.NoError(t, err)
	require.Zero(t, a.Likes)
	require.Equal(t, "neutral", a.Reaction)

	a, err = viewer.Dislike(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 1, a.Dislikes)
	require.Equal(t, "disliked", a.Reaction)
}
