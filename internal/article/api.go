// Package article exposes the articles resource: the aggregated feed,
// CRUD for articles, and the like/dislike reactions.
package article

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/newsdaily/newsdaily/internal/articlerequest"
	"github.com/newsdaily/newsdaily/internal/articleresponse"
	"github.com/newsdaily/newsdaily/internal/errresponse"
	"github.com/newsdaily/newsdaily/internal/feed"
	"github.com/newsdaily/newsdaily/internal/images"
	"github.com/newsdaily/newsdaily/internal/model"
	"github.com/newsdaily/newsdaily/internal/reaction"
	"github.com/newsdaily/newsdaily/internal/session"
	"github.com/newsdaily/newsdaily/internal/store"
)

const maxUploadBytes = 10 << 20

// Resource wires the articles handlers to their collaborators.
type Resource struct {
	Store  store.Store
	Feed   *feed.Aggregator
	Toggle *reaction.Toggle
	Images images.Host
	Log    *zap.SugaredLogger
}

// Routes returns the router for the articles resource.
func (rs *Resource) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", rs.ListArticles)
	r.With(session.RequireUser).Post("/", rs.CreateArticle)

	r.Route("/{articleID}", func(r chi.Router) {
		r.Use(rs.ArticleCtx) // Load the *Article on the request context
		r.Get("/", rs.GetArticle)
		r.With(session.RequireUser).Put("/", rs.UpdateArticle)
		r.With(session.RequireUser).Delete("/", rs.DeleteArticle)
		r.With(session.RequireUser).Post("/like", rs.Like)
		r.With(session.RequireUser).Post("/dislike", rs.Dislike)
	})

	return r
}

// GetFeed loads the aggregated home feed: one query per category plus
// the featured slot, all-or-nothing.
func (rs *Resource) GetFeed(w http.ResponseWriter, r *http.Request) {
	snap, err := rs.Feed.LoadFeed(r.Context())
	if err != nil {
		rs.Log.Errorw("feed load failed", "error", err)

		err = render.Render(w, r, errresponse.ErrUpstream(err))
		if err != nil {
			log.Println(err)
		}

		return
	}

	if err := render.Render(w, r, articleresponse.NewFeedResponse(snap)); err != nil {
		err = render.Render(w, r, errresponse.ErrRender(err))
		if err != nil {
			log.Println(err)
		}
	}
}

// ListArticles returns articles filtered by category or user id. An
// unknown category is simply an empty result, not an error.
func (rs *Resource) ListArticles(w http.ResponseWriter, r *http.Request) {
	var (
		field string
		value string
	)

	switch {
	case r.URL.Query().Get("category") != "":
		field, value = store.FieldCategory, r.URL.Query().Get("category")
	case r.URL.Query().Get("user_id") != "":
		field, value = store.FieldUserID, r.URL.Query().Get("user_id")
	default:
		err := render.Render(w, r, errresponse.ErrInvalidRequest(
			errors.New("either category or user_id is required.")))
		if err != nil {
			log.Println(err)
		}

		return
	}

	list, err := rs.Store.QueryByField(r.Context(), field, value)
	if err != nil {
		err = render.Render(w, r, errresponse.ErrUpstream(err))
		if err != nil {
			log.Println(err)
		}

		return
	}

	if err := render.RenderList(w, r, articleresponse.NewArticleListResponse(list)); err != nil {
		err = render.Render(w, r, errresponse.ErrRender(err))
		if err != nil {
			log.Println(err)
		}
	}
}

// CreateArticle persists the posted Article and returns it back to the
// client as an acknowledgement. It accepts JSON, or multipart form data
// with an optional image part; a failed image upload degrades to an
// article without an image rather than aborting.
func (rs *Resource) CreateArticle(w http.ResponseWriter, r *http.Request) {
	data := &articlerequest.ArticleRequest{}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var err error

		data.Article, err = rs.bindMultipart(r)
		if err != nil {
			err = render.Render(w, r, errresponse.ErrInvalidRequest(err))
			if err != nil {
				log.Println(err)
			}

			return
		}

		if err := data.Bind(r); err != nil {
			err = render.Render(w, r, errresponse.ErrInvalidRequest(err))
			if err != nil {
				log.Println(err)
			}

			return
		}
	} else if err := render.Bind(r, data); err != nil {
		err = render.Render(w, r, errresponse.ErrInvalidRequest(err))
		if err != nil {
			log.Println(err)
		}

		return
	}

	userID, _ := session.UserID(r.Context())

	a := data.Article
	a.ID = uuid.NewString()
	a.Date = time.Now().UTC()
	a.UserID = userID

	if err := a.Validate(); err != nil {
		err = render.Render(w, r, errresponse.ErrInvalidRequest(err))
		if err != nil {
			log.Println(err)
		}

		return
	}

	if err := rs.Store.Create(r.Context(), a); err != nil {
		rs.Log.Errorw("create article failed", "error", err)

		err = render.Render(w, r, errresponse.ErrUpstream(err))
		if err != nil {
			log.Println(err)
		}

		return
	}

	render.Status(r, http.StatusCreated)

	err := render.Render(w, r, articleresponse.NewArticleResponse(a))
	if err != nil {
		log.Println(err)
	}
}

// bindMultipart extracts the article fields from a multipart form and
// uploads the optional image part.
func (rs *Resource) bindMultipart(r *http.Request) (*model.Article, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, err
	}

	a := &model.Article{
		Title:       r.FormValue("title"),
		Author:      r.FormValue("author"),
		Description: r.FormValue("description"),
		Content:     r.FormValue("content"),
		Category:    model.Category(r.FormValue("category")),
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return a, nil
		}

		return nil, err
	}
	defer file.Close()

	url, err := rs.Images.Upload(r.Context(), header.Filename, file)
	if err != nil {
		// Non-fatal: publish without an image.
		rs.Log.Warnw("image upload failed, continuing without image", "error", err)

		return a, nil
	}

	a.ImageURL = url

	return a, nil
}

// GetArticle returns the specific Article, with the viewer's own
// reaction state attached when a session is present.
func (rs *Resource) GetArticle(w http.ResponseWriter, r *http.Request) {
	a := fromCtx(r.Context())

	resp := articleresponse.NewArticleResponse(a)
	if viewer, ok := session.Token(r.Context()); ok {
		resp.WithReaction(rs.Toggle.State(viewer, a.ID))
	}

	if err := render.Render(w, r, resp); err != nil {
		err = render.Render(w, r, errresponse.ErrRender(err))
		if err != nil {
			log.Println(err)
		}
	}
}

// UpdateArticle applies the owner's edits. Only title, description,
// content and image are editable; the ownership check happens before
// anything is written.
func (rs *Resource) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	a := fromCtx(r.Context())

	if !rs.ownedByCaller(r, a) {
		err := render.Render(w, r, errresponse.ErrForbidden)
		if err != nil {
			log.Println(err)
		}

		return
	}

	data := &articlerequest.UpdateRequest{}
	if err := render.Bind(r, data); err != nil {
		err = render.Render(w, r, errresponse.ErrInvalidRequest(err))
		if err != nil {
			log.Println(err)
		}

		return
	}

	if err := rs.Store.Update(r.Context(), a.ID, data.StoreUpdate()); err != nil {
		rs.Log.Errorw("update article failed", "article", a.ID, "error", err)

		err = render.Render(w, r, errresponse.ErrUpstream(err))
		if err != nil {
			log.Println(err)
		}

		return
	}

	updated, err := rs.Store.GetByID(r.Context(), a.ID)
	if err != nil {
		err = render.Render(w, r, errresponse.ErrUpstream(err))
		if err != nil {
			log.Println(err)
		}

		return
	}

	err = render.Render(w, r, articleresponse.NewArticleResponse(updated))
	if err != nil {
		log.Println(err)
	}
}

// DeleteArticle removes an existing Article. The ownership check
// precedes the store mutation; deletion is terminal.
func (rs *Resource) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	a := fromCtx(r.Context())

	if !rs.ownedByCaller(r, a) {
		err := render.Render(w, r, errresponse.ErrForbidden)
		if err != nil {
			log.Println(err)
		}

		return
	}

	if err := rs.Store.Delete(r.Context(), a.ID); err != nil {
		rs.Log.Errorw("delete article failed", "article", a.ID, "error", err)

		err = render.Render(w, r, errresponse.ErrUpstream(err))
		if err != nil {
			log.Println(err)
		}

		return
	}

	err := render.Render(w, r, articleresponse.NewArticleResponse(a))
	if err != nil {
		log.Println(err)
	}
}

// Like toggles the viewer's like on the article.
func (rs *Resource) Like(w http.ResponseWriter, r *http.Request) {
	rs.react(w, r, rs.Toggle.Like)
}

// Dislike toggles the viewer's dislike on the article.
func (rs *Resource) Dislike(w http.ResponseWriter, r *http.Request) {
	rs.react(w, r, rs.Toggle.Dislike)
}

func (rs *Resource) react(w http.ResponseWriter, r *http.Request,
	toggle func(ctx context.Context, viewer, articleID string) (reaction.State, error),
) {
	a := fromCtx(r.Context())
	viewer, _ := session.Token(r.Context())

	state, err := toggle(r.Context(), viewer, a.ID)
	if err != nil {
		rs.Log.Errorw("reaction failed", "article", a.ID, "error", err)

		err = render.Render(w, r, errresponse.ErrUpstream(err))
		if err != nil {
			log.Println(err)
		}

		return
	}

	updated, err := rs.Store.GetByID(r.Context(), a.ID)
	if err != nil {
		err = render.Render(w, r, errresponse.ErrUpstream(err))
		if err != nil {
			log.Println(err)
		}

		return
	}

	err = render.Render(w, r, articleresponse.NewArticleResponse(updated).WithReaction(state))
	if err != nil {
		log.Println(err)
	}
}

func (rs *Resource) ownedByCaller(r *http.Request, a *model.Article) bool {
	userID, ok := session.UserID(r.Context())

	return ok && userID == a.UserID
}
