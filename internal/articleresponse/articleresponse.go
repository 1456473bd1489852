// Package articleresponse holds the response payloads for the articles
// resource and the aggregated feed.
package articleresponse

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/newsdaily/newsdaily/internal/feed"
	"github.com/newsdaily/newsdaily/internal/model"
	"github.com/newsdaily/newsdaily/internal/reaction"
)

// ArticleResponse is the response payload for the Article data model.
//
// Render is called in top-down order, like a http handler middleware
// chain; it resolves the computed display fields before marshalling.
type ArticleResponse struct {
	*model.Article

	// Image shadows the raw field: the placeholder is substituted when
	// no image was uploaded, so clients never handle an empty URL.
	Image string `json:"imageUrl"`

	// Body is the display text after the description/content fallback.
	Body string `json:"body"`

	// Reaction is the viewer's own state, when a session is present.
	Reaction string `json:"reaction,omitempty"`
}

func NewArticleResponse(article *model.Article) *ArticleResponse {
	return &ArticleResponse{Article: article}
}

// WithReaction attaches the viewer's reaction state.
func (rd *ArticleResponse) WithReaction(s reaction.State) *ArticleResponse {
	rd.Reaction = s.String()

	return rd
}

func (rd *ArticleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	rd.Image = rd.Article.Image()
	rd.Body = rd.Article.Body()

	return nil
}

func NewArticleListResponse(articles []model.Article) []render.Renderer {
	list := []render.Renderer{}
	for i := range articles {
		list = append(list, NewArticleResponse(&articles[i]))
	}

	return list
}

// CategorySection is one populated category in the feed response.
type CategorySection struct {
	Category model.Category     `json:"category"`
	Key      string             `json:"key"`
	Articles []*ArticleResponse `json:"articles"`
}

// FeedResponse is the aggregated home feed. Categories appear in display
// order and only when populated; Empty distinguishes "nothing published"
// from a failed load.
type FeedResponse struct {
	Hero       *ArticleResponse   `json:"hero,omitempty"`
	Highlights []*ArticleResponse `json:"highlights,omitempty"`
	Categories []CategorySection  `json:"categories"`
	Empty      bool               `json:"empty"`
}

func (rd *FeedResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if rd.Hero != nil {
		if err := rd.Hero.Render(w, r); err != nil {
			return err
		}
	}

	for _, h := range rd.Highlights {
		if err := h.Render(w, r); err != nil {
			return err
		}
	}

	for _, section := range rd.Categories {
		for _, a := range section.Articles {
			if err := a.Render(w, r); err != nil {
				return err
			}
		}
	}

	return nil
}

// NewFeedResponse converts an aggregator snapshot into the wire payload.
func NewFeedResponse(snap *feed.Snapshot) *FeedResponse {
	resp := &FeedResponse{
		Categories: []CategorySection{},
		Empty:      snap.Empty,
	}

	if snap.Hero != nil {
		resp.Hero = NewArticleResponse(snap.Hero)
	}

	for i := range snap.Highlights {
		resp.Highlights = append(resp.Highlights, NewArticleResponse(&snap.Highlights[i]))
	}

	for _, c := range snap.Populated {
		list := snap.ByCategory[c]

		section := CategorySection{Category: c, Key: c.Key()}
		for i := range list {
			section.Articles = append(section.Articles, NewArticleResponse(&list[i]))
		}

		resp.Categories = append(resp.Categories, section)
	}

	return resp
}
