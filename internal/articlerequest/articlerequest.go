// Package articlerequest holds the request payloads for the articles
// resource.
package articlerequest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/newsdaily/newsdaily/internal/model"
	"github.com/newsdaily/newsdaily/internal/store"
)

// ArticleRequest is the request payload for creating an Article.
//
// The identity fields (id, date, userId, counters) are server-assigned;
// whatever the client sends for them is discarded on bind.
type ArticleRequest struct {
	*model.Article

	ProtectedID string `json:"id"` // override 'id' json to have more control
}

// Bind runs after unmarshalling. It normalizes the user-supplied fields
// and rejects the request before anything reaches the store.
func (a *ArticleRequest) Bind(r *http.Request) error {
	// a.Article is nil if no Article fields are sent in the request. Return an
	// error to avoid a nil pointer dereference.
	if a.Article == nil {
		return errors.New("missing required Article fields.")
	}

	a.ProtectedID = ""
	a.Article.ID = ""
	a.Article.UserID = ""
	a.Article.Likes = 0
	a.Article.Dislikes = 0

	a.Article.Title = strings.TrimSpace(a.Article.Title)
	a.Article.Author = strings.TrimSpace(a.Article.Author)
	a.Article.Description = strings.TrimSpace(a.Article.Description)

	if a.Article.Title == "" {
		return fmt.Errorf("%w: title is required", model.ErrValidation)
	}

	if a.Article.Author == "" {
		return fmt.Errorf("%w: author is required", model.ErrValidation)
	}

	if a.Article.Description == "" {
		return fmt.Errorf("%w: description is required", model.ErrValidation)
	}

	if !a.Article.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", model.ErrValidation, a.Article.Category)
	}

	return nil
}

// UpdateRequest is the request payload for the owner edit flow. Only
// title, description, content and image are editable; category and
// author are immutable after creation and deliberately absent here.
type UpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Content     *string `json:"content,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

func (u *UpdateRequest) Bind(r *http.Request) error {
	if u.Title == nil && u.Description == nil && u.Content == nil && u.ImageURL == nil {
		return errors.New("no editable fields in request.")
	}

	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return fmt.Errorf("%w: title must not be blank", model.ErrValidation)
	}

	if u.Description != nil && strings.TrimSpace(*u.Description) == "" {
		return fmt.Errorf("%w: description must not be blank", model.ErrValidation)
	}

	return nil
}

// StoreUpdate converts the payload into the store's partial update.
func (u *UpdateRequest) StoreUpdate() store.Update {
	return store.Update{
		Title:       u.Title,
		Description: u.Description,
		Content:     u.Content,
		ImageURL:    u.ImageURL,
	}
}
