package article

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/newsdaily/newsdaily/internal/errresponse"
	"github.com/newsdaily/newsdaily/internal/model"
	"github.com/newsdaily/newsdaily/internal/store"
)

type ctxKey int8

const articleCtxKey ctxKey = iota

// ArticleCtx middleware is used to load an Article object from
// the URL parameters passed through as the request. In case
// the Article could not be found, we stop here and return a 404.
func (rs *Resource) ArticleCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		articleID := chi.URLParam(r, "articleID")
		if articleID == "" {
			err := render.Render(w, r, errresponse.ErrNotFound)
			if err != nil {
				log.Println(err)
			}

			return
		}

		a, err := rs.Store.GetByID(r.Context(), articleID)
		if err != nil {
			resp := render.Renderer(errresponse.ErrNotFound)
			if !errors.Is(err, store.ErrNotFound) {
				resp = errresponse.ErrUpstream(err)
			}

			err = render.Render(w, r, resp)
			if err != nil {
				log.Println(err)
			}

			return
		}

		ctx := context.WithValue(r.Context(), articleCtxKey, a)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// fromCtx returns the article loaded by ArticleCtx. Handlers below the
// middleware may assume it is present; the Recoverer saves us otherwise.
func fromCtx(ctx context.Context) *model.Article {
	return ctx.Value(articleCtxKey).(*model.Article)
}
