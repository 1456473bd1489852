// Package store provides the document-store interface the feed and
// reaction logic run against, with SQLite and in-memory backends.
package store

import (
	"context"
	"errors"

	"github.com/newsdaily/newsdaily/internal/model"
)

// ErrNotFound is returned when no article exists for the requested id.
var ErrNotFound = errors.New("article not found")

// ErrBadField is returned for a field name outside the known set.
var ErrBadField = errors.New("unknown field")

// Queryable / incrementable field names.
const (
	FieldCategory = "category"
	FieldUserID   = "userId"
	FieldLikes    = "likes"
	FieldDislikes = "dislikes"
)

// Update carries the owner-editable fields. Nil means "leave unchanged";
// category, author, date and userId are immutable after creation and
// deliberately have no place here.
type Update struct {
	Title       *string
	Description *string
	Content     *string
	ImageURL    *string
}

// Store is the narrow document-store surface the application depends on.
// Implementations must make AtomicIncrement safe under concurrent
// writers; callers never read-modify-write the counter fields.
type Store interface {
	// QueryByField returns every article whose field equals value.
	// Result order is arbitrary; callers must not depend on it.
	QueryByField(ctx context.Context, field, value string) ([]model.Article, error)

	// GetByID returns the article or ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.Article, error)

	// Create persists a new article under its pre-assigned id.
	Create(ctx context.Context, a *model.Article) error

	// Update applies the non-nil fields of upd to the article.
	Update(ctx context.Context, id string, upd Update) error

	// AtomicIncrement adds delta to a counter field without a
	// read-modify-write cycle. Counters never go below zero.
	AtomicIncrement(ctx context.Context, id, field string, delta int) error

	// Delete removes the article permanently.
	Delete(ctx context.Context, id string) error

	Close() error
}
