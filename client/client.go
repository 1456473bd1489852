// Package client is a Go client for the newsdaily API. It owns the
// view-side feed state: the incremental per-category reveal happens
// here, by slicing, without further requests.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/newsdaily/newsdaily/internal/feed"
	"github.com/newsdaily/newsdaily/internal/model"
)

type Client struct {
	http.Client
	Addr  string
	Token string

	// RevealStep overrides the page size for feed reveals; zero uses
	// the server default.
	RevealStep int
}

// Article is the wire representation the API returns.
type Article struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Author      string         `json:"author"`
	Description string         `json:"description"`
	Content     string         `json:"content,omitempty"`
	Body        string         `json:"body"`
	Category    model.Category `json:"category"`
	ImageURL    string         `json:"imageUrl"`
	Date        time.Time      `json:"date"`
	UserID      string         `json:"userId"`
	Likes       int            `json:"likes"`
	Dislikes    int            `json:"dislikes"`
	Reaction    string         `json:"reaction,omitempty"`
}

// NewArticle is the authoring payload.
type NewArticle struct {
	Title       string         `json:"title"`
	Author      string         `json:"author"`
	Description string         `json:"description"`
	Content     string         `json:"content,omitempty"`
	Category    model.Category `json:"category"`
}

// ArticleUpdate is the owner edit payload; nil fields are untouched.
type ArticleUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Content     *string `json:"content,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

type categorySection struct {
	Category model.Category `json:"category"`
	Key      string         `json:"key"`
	Articles []Article      `json:"articles"`
}

type feedPayload struct {
	Hero       *Article          `json:"hero"`
	Highlights []Article         `json:"highlights"`
	Categories []categorySection `json:"categories"`
	Empty      bool              `json:"empty"`
}

// Feed is one loaded snapshot of the home feed plus the reveal state.
// RevealMore only changes what Visible returns; nothing is re-fetched.
type Feed struct {
	Hero       *Article
	Highlights []Article
	Empty      bool

	order      []model.Category
	byCategory map[model.Category][]Article
	reveal     *feed.RevealController
}

// Categories returns the populated categories in display order.
func (f *Feed) Categories() []model.Category {
	return f.order
}

// Visible returns the currently revealed slice for the category.
func (f *Feed) Visible(c model.Category) []Article {
	list := f.byCategory[c]

	n := f.reveal.VisibleCount(c)
	if n > len(list) {
		n = len(list)
	}

	return list[:n]
}

// RevealMore exposes one more page for the category.
func (f *Feed) RevealMore(c model.Category) {
	f.reveal.RevealMore(c)
}

// HasMore reports whether a "view more" affordance applies.
func (f *Feed) HasMore(c model.Category) bool {
	return f.reveal.HasMore(c)
}

func (c *Client) Ping() (string, error) {
	req, err := http.NewRequest("GET", c.Addr+"/ping", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), err
}

// SignIn obtains a bearer token and stores it on the client.
func (c *Client) SignIn(ctx context.Context, userID string) error {
	var out struct {
		Token string `json:"token"`
	}

	err := c.do(ctx, "POST", "/session", map[string]string{"userId": userID}, &out)
	if err != nil {
		return err
	}

	c.Token = out.Token

	return nil
}

// SignOut revokes the client's token.
func (c *Client) SignOut(ctx context.Context) error {
	if err := c.do(ctx, "DELETE", "/session", nil, nil); err != nil {
		return err
	}

	c.Token = ""

	return nil
}

// Feed loads the aggregated feed and seeds the reveal state: one page
// visible per populated category.
func (c *Client) Feed(ctx context.Context) (*Feed, error) {
	var payload feedPayload
	if err := c.do(ctx, "GET", "/feed", nil, &payload); err != nil {
		return nil, err
	}

	f := &Feed{
		Hero:       payload.Hero,
		Highlights: payload.Highlights,
		Empty:      payload.Empty,
		byCategory: make(map[model.Category][]Article, len(payload.Categories)),
		reveal:     feed.NewRevealController(c.RevealStep),
	}

	totals := make(map[model.Category]int, len(payload.Categories))

	for _, section := range payload.Categories {
		f.order = append(f.order, section.Category)
		f.byCategory[section.Category] = section.Articles
		totals[section.Category] = len(section.Articles)
	}

	f.reveal.Seed(totals)

	return f, nil
}

// Article fetches one article by id.
func (c *Client) Article(ctx context.Context, id string) (*Article, error) {
	var out Article
	if err := c.do(ctx, "GET", "/articles/"+id, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// ByCategory lists the articles in one category.
func (c *Client) ByCategory(ctx context.Context, category model.Category) ([]Article, error) {
	var out []Article
	err := c.do(ctx, "GET", "/articles?category="+url.QueryEscape(string(category)), nil, &out)

	return out, err
}

// MyArticles lists the articles created by the given user.
func (c *Client) MyArticles(ctx context.Context, userID string) ([]Article, error) {
	var out []Article
	err := c.do(ctx, "GET", "/articles?user_id="+url.QueryEscape(userID), nil, &out)

	return out, err
}

// Create publishes a new article.
func (c *Client) Create(ctx context.Context, a NewArticle) (*Article, error) {
	var out Article
	if err := c.do(ctx, "POST", "/articles", a, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Update edits an owned article.
func (c *Client) Update(ctx context.Context, id string, upd ArticleUpdate) (*Article, error) {
	var out Article
	if err := c.do(ctx, "PUT", "/articles/"+id, upd, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Delete removes an owned article.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", "/articles/"+id, nil, nil)
}

// Like toggles the like reaction and returns the updated article.
func (c *Client) Like(ctx context.Context, id string) (*Article, error) {
	var out Article
	if err := c.do(ctx, "POST", "/articles/"+id+"/like", nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Dislike toggles the dislike reaction and returns the updated article.
func (c *Client) Dislike(ctx context.Context, id string) (*Article, error) {
	var out Article
	if err := c.do(ctx, "POST", "/articles/"+id+"/dislike", nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Addr+path, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		}

		_ = json.NewDecoder(resp.Body).Decode(&apiErr)

		if apiErr.Error != "" {
			return fmt.Errorf("%s: %s (%s)", http.StatusText(resp.StatusCode), apiErr.Status, apiErr.Error)
		}

		return fmt.Errorf("%s: %s", http.StatusText(resp.StatusCode), apiErr.Status)
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
