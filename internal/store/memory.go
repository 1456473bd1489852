package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/newsdaily/newsdaily/internal/model"
)

// Memory is an in-memory Store. It backs tests and the default server
// configuration when no database path is given. Insertion order is
// preserved on queries, which keeps fixtures deterministic.
type Memory struct {
	mu       sync.RWMutex
	articles []*model.Article
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) QueryByField(ctx context.Context, field, value string) ([]model.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.Article

	for _, a := range m.articles {
		match := false

		switch field {
		case FieldCategory:
			match = string(a.Category) == value
		case FieldUserID:
			match = a.UserID == value
		default:
			return nil, fmt.Errorf("%w: %q", ErrBadField, field)
		}

		if match {
			out = append(out, *a)
		}
	}

	return out, nil
}

func (m *Memory) GetByID(ctx context.Context, id string) (*model.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.articles {
		if a.ID == id {
			copied := *a

			return &copied, nil
		}
	}

	return nil, ErrNotFound
}

func (m *Memory) Create(ctx context.Context, a *model.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.articles {
		if existing.ID == a.ID {
			return fmt.Errorf("duplicate article id %q", a.ID)
		}
	}

	copied := *a
	m.articles = append(m.articles, &copied)

	return nil
}

func (m *Memory) Update(ctx context.Context, id string, upd Update) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.articles {
		if a.ID != id {
			continue
		}

		if upd.Title != nil {
			a.Title = *upd.Title
		}

		if upd.Description != nil {
			a.Description = *upd.Description
		}

		if upd.Content != nil {
			a.Content = *upd.Content
		}

		if upd.ImageURL != nil {
			a.ImageURL = *upd.ImageURL
		}

		return nil
	}

	return ErrNotFound
}

func (m *Memory) AtomicIncrement(ctx context.Context, id, field string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.articles {
		if a.ID != id {
			continue
		}

		switch field {
		case FieldLikes:
			a.Likes = clampZero(a.Likes + delta)
		case FieldDislikes:
			a.Dislikes = clampZero(a.Dislikes + delta)
		default:
			return fmt.Errorf("%w: %q", ErrBadField, field)
		}

		return nil
	}

	return ErrNotFound
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, a := range m.articles {
		if a.ID == id {
			m.articles = append(m.articles[:i], m.articles[i+1:]...)

			return nil
		}
	}

	return ErrNotFound
}

func (m *Memory) Close() error {
	return nil
}

func clampZero(n int) int {
	if n < 0 {
		return 0
	}

	return n
}
