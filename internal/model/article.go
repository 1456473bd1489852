package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category is one of the fixed classifications used to partition the feed.
type Category string

const (
	CategoryTop           Category = "Top News"
	CategoryLatest        Category = "Latest News"
	CategoryTrending      Category = "Trending News"
	CategorySports        Category = "Sports News"
	CategoryBusiness      Category = "Business News"
	CategoryLocal         Category = "Local News"
	CategoryInternational Category = "International News"
)

// PlaceholderImageURL is served when an article has no uploaded image.
const PlaceholderImageURL = "https://via.placeholder.com/150"

// Categories returns every category, featured first.
func Categories() []Category {
	return []Category{
		CategoryTop,
		CategoryLatest,
		CategoryTrending,
		CategorySports,
		CategoryBusiness,
		CategoryLocal,
		CategoryInternational,
	}
}

// FeedCategories returns the scroll-section categories, i.e. everything
// except the featured "Top News" slot, in display order.
func FeedCategories() []Category {
	return Categories()[1:]
}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}

	return false
}

// Key returns the lowercased, space-free form used as a map/URL key,
// e.g. "Latest News" -> "latestnews".
func (c Category) Key() string {
	return strings.ReplaceAll(strings.ToLower(string(c)), " ", "")
}

// ErrValidation is wrapped by every field-validation failure so callers
// can distinguish bad input from store errors.
var ErrValidation = errors.New("invalid article")

// Article data model. Counters are only ever mutated through the store's
// atomic increment primitive, never by writing absolute values.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Content     string    `json:"content,omitempty"`
	Category    Category  `json:"category"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Date        time.Time `json:"date"`
	UserID      string    `json:"userId"`
	Likes       int       `json:"likes"`
	Dislikes    int       `json:"dislikes"`
}

// Body returns the display text for the article, falling back to the
// alternate content field when the description is missing.
func (a *Article) Body() string {
	if a.Description != "" {
		return a.Description
	}

	return a.Content
}

// Image returns the image URL, or the placeholder when none was uploaded.
func (a *Article) Image() string {
	if a.ImageURL != "" {
		return a.ImageURL
	}

	return PlaceholderImageURL
}

// Validate checks the fields required at creation time. It never touches
// the store; a failing article must be rejected before any remote call.
func (a *Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}

	if strings.TrimSpace(a.Author) == "" {
		return fmt.Errorf("%w: author is required", ErrValidation)
	}

	if strings.TrimSpace(a.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}

	if !a.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, a.Category)
	}

	if a.UserID == "" {
		return fmt.Errorf("%w: userId is required", ErrValidation)
	}

	return nil
}
