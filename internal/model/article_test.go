package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/newsdaily/newsdaily/internal/model"
)

func validArticle() *model.Article {
	return &model.Article{
		ID:          "a1",
		Title:       "title",
		Author:      "author",
		Description: "description",
		Category:    model.CategorySports,
		Date:        time.Now(),
		UserID:      "u1",
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validArticle().Validate())

	for name, mutate := range map[string]func(*model.Article){
		"empty title":       func(a *model.Article) { a.Title = "" },
		"blank title":       func(a *model.Article) { a.Title = "   " },
		"empty author":      func(a *model.Article) { a.Author = "" },
		"empty description": func(a *model.Article) { a.Description = "" },
		"unknown category":  func(a *model.Article) { a.Category = "Weather News" },
		"empty category":    func(a *model.Article) { a.Category = "" },
		"missing user":      func(a *model.Article) { a.UserID = "" },
	} {
		t.Run(name, func(t *testing.T) {
			a := validArticle()
			mutate(a)
			require.ErrorIs(t, a.Validate(), model.ErrValidation)
		})
	}
}

func TestBodyFallsBackToContent(t *testing.T) {
	a := validArticle()
	require.Equal(t, "description", a.Body())

	a.Description = ""
	a.Content = "the long form"
	require.Equal(t, "the long form", a.Body())
}

func TestImageFallsBackToPlaceholder(t *testing.T) {
	a := validArticle()
	require.Equal(t, model.PlaceholderImageURL, a.Image())

	a.ImageURL = "https://img.example/x.png"
	require.Equal(t, "https://img.example/x.png", a.Image())
}

func TestCategoryKey(t *testing.T) {
	require.Equal(t, "latestnews", model.CategoryLatest.Key())
	require.Equal(t, "topnews", model.CategoryTop.Key())
}

func TestCategorySets(t *testing.T) {
	all := model.Categories()
	require.Len(t, all, 7)
	require.Equal(t, model.CategoryTop, all[0])

	scroll := model.FeedCategories()
	require.Len(t, scroll, 6)
	require.NotContains(t, scroll, model.CategoryTop)

	require.True(t, model.CategoryBusiness.Valid())
	require.False(t, model.Category("Weather News").Valid())
}
