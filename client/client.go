package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// ListParams carries paging and filter arguments for listing calls.
type ListParams struct {
	Skip            int
	Limit           int
	Search          string
	IncludeInactive bool

	// Entity filters. Zero values are omitted from the query string.
	ThemeID   int64
	AuthorID  int64
	TeacherID int64
	BookID    int64
	SeriesID  int64
	Year      int
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	if p.Skip > 0 {
		q.Set("skip", strconv.Itoa(p.Skip))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if s := strings.TrimSpace(p.Search); s != "" {
		q.Set("search", s)
	}
	if p.IncludeInactive {
		q.Set("include_inactive", "true")
	}
	if p.ThemeID > 0 {
		q.Set("theme_id", strconv.FormatInt(p.ThemeID, 10))
	}
	if p.AuthorID > 0 {
		q.Set("author_id", strconv.FormatInt(p.AuthorID, 10))
	}
	if p.TeacherID > 0 {
		q.Set("teacher_id", strconv.FormatInt(p.TeacherID, 10))
	}
	if p.BookID > 0 {
		q.Set("book_id", strconv.FormatInt(p.BookID, 10))
	}
	if p.SeriesID > 0 {
		q.Set("series_id", strconv.FormatInt(p.SeriesID, 10))
	}
	if p.Year > 0 {
		q.Set("year", strconv.Itoa(p.Year))
	}
	return q
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithToken attaches a bearer token to every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// Client is a typed HTTP client for the lessons API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// New builds a Client against baseURL, e.g. "https://api.example.com/api/v1".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	op := "GET " + path
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiErrorFrom(resp.StatusCode, body)
	}
	return body, nil
}

func apiErrorFrom(status int, body []byte) *APIError {
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	apiErr := &APIError{StatusCode: status}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	} else {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func listEntities[T any](c *Client, ctx context.Context, path, entity string, params ListParams, decode func(json.RawMessage) (T, error)) (*Page[T], error) {
	body, err := c.get(ctx, path, params.query())
	if err != nil {
		return nil, err
	}
	raw, err := decodePage(entity, body)
	if err != nil {
		return nil, err
	}
	page := &Page[T]{
		Items: make([]T, 0, len(raw.Items)),
		Total: *raw.Total,
		Skip:  *raw.Skip,
		Limit: *raw.Limit,
	}
	for _, item := range raw.Items {
		v, err := decode(item)
		if err != nil {
			return nil, err
		}
		page.Items = append(page.Items, v)
	}
	return page, nil
}

func getEntity[T any](c *Client, ctx context.Context, path, entity string, decode func(json.RawMessage) (T, error)) (*T, error) {
	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	v, err := decode(body)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListThemes fetches one page of themes.
func (c *Client) ListThemes(ctx context.Context, params ListParams) (*Page[Theme], error) {
	return listEntities(c, ctx, "/themes", "theme", params, decodeTheme)
}

// GetTheme fetches a single theme by id.
func (c *Client) GetTheme(ctx context.Context, id int64) (*Theme, error) {
	return getEntity(c, ctx, fmt.Sprintf("/themes/%d", id), "theme", decodeTheme)
}

// ListAuthors fetches one page of authors.
func (c *Client) ListAuthors(ctx context.Context, params ListParams) (*Page[Author], error) {
	return listEntities(c, ctx, "/authors", "author", params, decodeAuthor)
}

// GetAuthor fetches a single author by id.
func (c *Client) GetAuthor(ctx context.Context, id int64) (*Author, error) {
	return getEntity(c, ctx, fmt.Sprintf("/authors/%d", id), "author", decodeAuthor)
}

// ListBooks fetches one page of books.
func (c *Client) ListBooks(ctx context.Context, params ListParams) (*Page[Book], error) {
	return listEntities(c, ctx, "/books", "book", params, decodeBook)
}

// GetBook fetches a single book by id.
func (c *Client) GetBook(ctx context.Context, id int64) (*Book, error) {
	return getEntity(c, ctx, fmt.Sprintf("/books/%d", id), "book", decodeBook)
}

// ListTeachers fetches one page of teachers.
func (c *Client) ListTeachers(ctx context.Context, params ListParams) (*Page[Teacher], error) {
	return listEntities(c, ctx, "/teachers", "teacher", params, decodeTeacher)
}

// GetTeacher fetches a single teacher by id.
func (c *Client) GetTeacher(ctx context.Context, id int64) (*Teacher, error) {
	return getEntity(c, ctx, fmt.Sprintf("/teachers/%d", id), "teacher", decodeTeacher)
}

// ListSeries fetches one page of series.
func (c *Client) ListSeries(ctx context.Context, params ListParams) (*Page[Series], error) {
	return listEntities(c, ctx, "/series", "series", params, decodeSeries)
}

// GetSeries fetches a single series by id.
func (c *Client) GetSeries(ctx context.Context, id int64) (*Series, error) {
	return getEntity(c, ctx, fmt.Sprintf("/series/%d", id), "series", decodeSeries)
}

// ListSeriesLessons fetches every lesson of a series. The endpoint returns a
// bare array, not the listing envelope, and its payloads omit series_id, so
// the id is stamped onto each decoded lesson here.
func (c *Client) ListSeriesLessons(ctx context.Context, seriesID int64) ([]Lesson, error) {
	body, err := c.get(ctx, fmt.Sprintf("/series/%d/lessons", seriesID), nil)
	if err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, &DecodeError{Entity: "lesson", Reason: "response is not an array"}
	}
	lessons := make([]Lesson, 0, len(items))
	for _, item := range items {
		lesson, err := decodeLesson(item, seriesID)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}
	return lessons, nil
}

// ListLessons fetches one page of lessons from the general listing. Lessons
// returned here carry series_id only when the series_id filter is set.
func (c *Client) ListLessons(ctx context.Context, params ListParams) (*Page[Lesson], error) {
	return listEntities(c, ctx, "/lessons", "lesson", params, func(raw json.RawMessage) (Lesson, error) {
		return decodeLesson(raw, params.SeriesID)
	})
}

// GetLesson fetches a single lesson by id.
func (c *Client) GetLesson(ctx context.Context, id int64) (*Lesson, error) {
	return getEntity(c, ctx, fmt.Sprintf("/lessons/%d", id), "lesson", func(raw json.RawMessage) (Lesson, error) {
		return decodeLesson(raw, 0)
	})
}

// ListTests fetches one page of tests.
func (c *Client) ListTests(ctx context.Context, params ListParams) (*Page[Test], error) {
	return listEntities(c, ctx, "/tests", "test", params, decodeTest)
}

// GetTest fetches a single test by id.
func (c *Client) GetTest(ctx context.Context, id int64) (*Test, error) {
	return getEntity(c, ctx, fmt.Sprintf("/tests/%d", id), "test", decodeTest)
}
