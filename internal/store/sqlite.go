package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/newsdaily/newsdaily/internal/model"
	_ "modernc.org/sqlite"
)

// SQLite is a Store backed by a local SQLite database.
type SQLite struct {
	conn *sql.DB
}

// NewSQLite opens or creates the database at path and runs migrations.
func NewSQLite(path string) (*SQLite, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// WAL mode for better concurrency.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		conn.Close()

		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	db := &SQLite{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()

		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

func (db *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		date DATETIME NOT NULL,
		user_id TEXT NOT NULL,
		likes INTEGER NOT NULL DEFAULT 0,
		dislikes INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category);
	CREATE INDEX IF NOT EXISTS idx_articles_user ON articles(user_id);
	`
	_, err := db.conn.Exec(schema)

	return err
}

const articleColumns = "id, title, author, description, content, category, image_url, date, user_id, likes, dislikes"

func scanArticle(row interface{ Scan(...interface{}) error }) (*model.Article, error) {
	var (
		a    model.Article
		cat  string
		date time.Time
	)

	err := row.Scan(&a.ID, &a.Title, &a.Author, &a.Description, &a.Content,
		&cat, &a.ImageURL, &date, &a.UserID, &a.Likes, &a.Dislikes)
	if err != nil {
		return nil, err
	}

	a.Category = model.Category(cat)
	a.Date = date.UTC()

	return &a, nil
}

func queryColumn(field string) (string, error) {
	switch field {
	case FieldCategory:
		return "category", nil
	case FieldUserID:
		return "user_id", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrBadField, field)
	}
}

func counterColumn(field string) (string, error) {
	switch field {
	case FieldLikes:
		return "likes", nil
	case FieldDislikes:
		return "dislikes", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrBadField, field)
	}
}

func (db *SQLite) QueryByField(ctx context.Context, field, value string) ([]model.Article, error) {
	col, err := queryColumn(field)
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+articleColumns+" FROM articles WHERE "+col+" = ?", value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Article

	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *a)
	}

	return out, rows.Err()
}

func (db *SQLite) GetByID(ctx context.Context, id string) (*model.Article, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT "+articleColumns+" FROM articles WHERE id = ?", id)

	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return a, nil
}

func (db *SQLite) Create(ctx context.Context, a *model.Article) error {
	_, err := db.conn.ExecContext(ctx,
		"INSERT INTO articles ("+articleColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		a.ID, a.Title, a.Author, a.Description, a.Content,
		string(a.Category), a.ImageURL, a.Date.UTC(), a.UserID, a.Likes, a.Dislikes)

	return err
}

func (db *SQLite) Update(ctx context.Context, id string, upd Update) error {
	set := ""
	args := []interface{}{}

	add := func(col string, v *string) {
		if v == nil {
			return
		}

		if set != "" {
			set += ", "
		}

		set += col + " = ?"
		args = append(args, *v)
	}

	add("title", upd.Title)
	add("description", upd.Description)
	add("content", upd.Content)
	add("image_url", upd.ImageURL)

	if set == "" {
		return nil
	}

	args = append(args, id)

	res, err := db.conn.ExecContext(ctx, "UPDATE articles SET "+set+" WHERE id = ?", args...)
	if err != nil {
		return err
	}

	return requireRow(res)
}

func (db *SQLite) AtomicIncrement(ctx context.Context, id, field string, delta int) error {
	col, err := counterColumn(field)
	if err != nil {
		return err
	}

	// Single UPDATE keeps the increment atomic under concurrent writers;
	// MAX keeps the counter non-negative.
	res, err := db.conn.ExecContext(ctx,
		"UPDATE articles SET "+col+" = MAX(0, "+col+" + ?) WHERE id = ?", delta, id)
	if err != nil {
		return err
	}

	return requireRow(res)
}

func (db *SQLite) Delete(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id)
	if err != nil {
		return err
	}

	return requireRow(res)
}

func (db *SQLite) Close() error {
	return db.conn.Close()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return ErrNotFound
	}

	return nil
}
