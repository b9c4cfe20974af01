package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/service"
	"github.com/inkwell/blog-api/internal/infrastructure/config"
)

// memUsers and memPosts stand in for the Mongo repositories with the same
// uniqueness and ownership rules.
type memUsers struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func (m *memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Username]; ok {
		return nil, domain.ErrUserExists
	}
	stored := *u
	stored.ID = fmt.Sprintf("u%d", len(m.users)+1)
	m.users[u.Username] = stored
	return &stored, nil
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

type memPosts struct {
	mu    sync.Mutex
	seq   int
	order []string
	posts map[string]domain.Post
}

func (m *memPosts) Create(_ context.Context, p *domain.Post) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	stored := *p
	stored.ID = fmt.Sprintf("p%d", m.seq)
	m.posts[stored.ID] = stored
	m.order = append(m.order, stored.ID)
	return &stored, nil
}

func (m *memPosts) List(context.Context) ([]domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Post, 0, len(m.posts))
	for _, id := range m.order {
		if p, ok := m.posts[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPosts) FindByID(_ context.Context, id string) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return &p, nil
}

func (m *memPosts) UpdateOwned(_ context.Context, id, author, title, content string) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok || p.Author != author {
		return nil, domain.ErrPostNotFound
	}
	p.Title, p.Content, p.UpdatedAt = title, content, time.Now().UTC()
	m.posts[id] = p
	return &p, nil
}

func (m *memPosts) DeleteOwned(_ context.Context, id, author string) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok || p.Author != author {
		return nil, domain.ErrPostNotFound
	}
	delete(m.posts, id)
	return &p, nil
}

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	log := zerolog.Nop()
	tokens := service.NewTokenService("test-secret", time.Hour)
	auth := service.NewAuthService(&memUsers{users: map[string]domain.User{}}, tokens, bcrypt.MinCost, log)
	posts := service.NewPostService(&memPosts{posts: map[string]domain.Post{}}, nil, log)

	return NewRouter(Deps{
		Auth:   auth,
		Tokens: tokens,
		Posts:  posts,
		HTTP: config.HTTPConfig{
			RequestTimeout: 5 * time.Second,
			BodyLimit:      "1M",
			AllowedOrigins: []string{"*"},
		},
		Logger: log,
	})
}

type client struct {
	t *testing.T
	e *echo.Echo
}

func (c client) do(method, path, token, body string) (int, []byte) {
	c.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

func (c client) login(username, password string) string {
	c.t.Helper()
	creds := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	code, _ := c.do(http.MethodPost, "/register", "", creds)
	require.Equal(c.t, http.StatusCreated, code)

	code, body := c.do(http.MethodPost, "/login", "", creds)
	require.Equal(c.t, http.StatusOK, code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(c.t, json.Unmarshal(body, &resp))
	require.NotEmpty(c.t, resp.Token)
	return resp.Token
}

func (c client) list() []domain.Post {
	c.t.Helper()
	code, body := c.do(http.MethodGet, "/posts", "", "")
	require.Equal(c.t, http.StatusOK, code)
	var posts []domain.Post
	require.NoError(c.t, json.Unmarshal(body, &posts))
	return posts
}

func (c client) createPost(token, title, content string) string {
	c.t.Helper()
	code, body := c.do(http.MethodPost, "/posts", token, fmt.Sprintf(`{"title":%q,"content":%q}`, title, content))
	require.Equal(c.t, http.StatusCreated, code)
	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(c.t, json.Unmarshal(body, &resp))
	require.NotEmpty(c.t, resp.ID)
	return resp.ID
}

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Error
}

func TestRouter_AuthorLifecycle(t *testing.T) {
	c := client{t: t, e: newTestRouter(t)}
	token := c.login("alice", "secret1")

	id := c.createPost(token, "h", "c")
	posts := c.list()
	require.Len(t, posts, 1)
	require.Equal(t, "alice", posts[0].Author)
	require.Equal(t, "h", posts[0].Title)

	code, _ := c.do(http.MethodPut, "/posts/"+id, token, `{"title":"h2","content":"c2"}`)
	require.Equal(t, http.StatusOK, code)
	posts = c.list()
	require.Equal(t, "h2", posts[0].Title)
	require.Equal(t, "c2", posts[0].Content)

	code, body := c.do(http.MethodGet, "/posts/"+id, "", "")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, string(body), `"h2"`)

	code, _ = c.do(http.MethodDelete, "/posts/"+id, token, "")
	require.Equal(t, http.StatusOK, code)
	require.Empty(t, c.list())

	code, body = c.do(http.MethodDelete, "/posts/"+id, token, "")
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "post not found", errorMessage(t, body))
}

func TestRouter_ForeignAuthorCannotModify(t *testing.T) {
	c := client{t: t, e: newTestRouter(t)}
	alice := c.login("alice", "secret1")
	bob := c.login("bob", "secret2")

	id := c.createPost(alice, "h", "c")

	code, _ := c.do(http.MethodPut, "/posts/"+id, bob, `{"title":"pwned","content":"x"}`)
	require.Equal(t, http.StatusNotFound, code)
	code, _ = c.do(http.MethodDelete, "/posts/"+id, bob, "")
	require.Equal(t, http.StatusNotFound, code)

	posts := c.list()
	require.Len(t, posts, 1)
	require.Equal(t, "h", posts[0].Title)
	require.Equal(t, "c", posts[0].Content)
	require.Equal(t, "alice", posts[0].Author)
}

func TestRouter_GuardRejections(t *testing.T) {
	c := client{t: t, e: newTestRouter(t)}

	code, body := c.do(http.MethodPost, "/posts", "", `{"title":"h","content":"c"}`)
	require.Equal(t, http.StatusUnauthorized, code)
	require.NotEmpty(t, errorMessage(t, body))

	code, _ = c.do(http.MethodPost, "/posts", "not-a-jwt", `{"title":"h","content":"c"}`)
	require.Equal(t, http.StatusForbidden, code)

	forged := service.NewTokenService("other-secret", time.Hour)
	tok, err := forged.Issue(domain.Identity{Username: "alice"})
	require.NoError(t, err)
	code, _ = c.do(http.MethodDelete, "/posts/p1", tok, "")
	require.Equal(t, http.StatusForbidden, code)

	require.Empty(t, c.list())
}

func TestRouter_CredentialErrors(t *testing.T) {
	c := client{t: t, e: newTestRouter(t)}
	c.login("alice", "secret1")

	code, body := c.do(http.MethodPost, "/register", "", `{"username":"alice","password":"another1"}`)
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, "user already exists", errorMessage(t, body))

	code, _ = c.do(http.MethodPost, "/login", "", `{"username":"alice","password":"wrong-pw"}`)
	require.Equal(t, http.StatusUnauthorized, code)

	code, _ = c.do(http.MethodPost, "/login", "", `{"username":"nobody","password":"secret1"}`)
	require.Equal(t, http.StatusNotFound, code)

	code, _ = c.do(http.MethodPost, "/register", "", `{"username":"carol"}`)
	require.Equal(t, http.StatusBadRequest, code)
}

func TestRouter_Probes(t *testing.T) {
	c := client{t: t, e: newTestRouter(t)}

	code, _ := c.do(http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodGet, "/health/ready", "", "")
	require.Equal(t, http.StatusOK, code)

	code, body := c.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, string(body), "blog_requests_total")
	require.Contains(t, string(body), "blog_users_registered_total")
}

func TestRouter_MetricsRecordRenderedStatus(t *testing.T) {
	c := client{t: t, e: newTestRouter(t)}

	code, _ := c.do(http.MethodGet, "/posts/missing", "", "")
	require.Equal(t, http.StatusNotFound, code)

	_, body := c.do(http.MethodGet, "/metrics", "", "")
	require.Contains(t, string(body), `blog_requests_total{code="404",`)
	require.Contains(t, string(body), `url="/posts/:id"`)
	require.NotContains(t, string(body), `blog_requests_total{code="500",`)
}
