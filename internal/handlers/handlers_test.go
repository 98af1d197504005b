package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/anonto42/quillpress/backend/internal/middleware"
	"github.com/anonto42/quillpress/backend/internal/models"
	"github.com/anonto42/quillpress/backend/internal/repositories/memory"
	"github.com/anonto42/quillpress/backend/internal/services"
	"github.com/anonto42/quillpress/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserHeader = "X-Test-User"

type testServer struct {
	e     *echo.Echo
	store *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	opts := services.Options{Logger: logrus.NewEntry(logger)}

	store := memory.New()
	notifications := services.NewNotificationService(store, opts)

	e := echo.New()
	e.Validator = validators.NewValidator()
	api := e.Group("/api/v1", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id, err := strconv.ParseUint(c.Request().Header.Get(testUserHeader), 10, 32); err == nil {
				c.Set(middleware.UserIDKey, uint(id))
			}
			return next(c)
		}
	})
	NewClapHandler(services.NewEngagementService(store, opts)).RegisterClapRoutes(api)
	NewCommentHandler(services.NewCommentService(store, notifications, opts)).RegisterCommentRoutes(api)
	NewFollowHandler(services.NewFollowService(store, notifications, opts)).RegisterFollowRoutes(api, api)
	NewTopicHandler(services.NewTopicService(store, opts)).RegisterTopicRoutes(api, api)
	NewNotificationHandler(notifications).RegisterNotificationRoutes(api)
	NewBookmarkHandler(services.NewBookmarkService(store, opts)).RegisterBookmarkRoutes(api)

	return &testServer{e: e, store: store}
}

func (s *testServer) user(t *testing.T, name string) uint {
	t.Helper()
	u := models.User{Username: name}
	require.NoError(t, s.store.Users().CreateUser(context.Background(), &u))
	return u.ID
}

func (s *testServer) post(t *testing.T, owner uint) uint {
	t.Helper()
	p := models.Post{UserID: owner, Title: "post"}
	require.NoError(t, s.store.Posts().CreatePost(context.Background(), &p))
	return p.ID
}

type envelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Message string                 `json:"message"`
}

func (s *testServer) do(t *testing.T, method, path string, userID uint, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if userID != 0 {
		req.Header.Set(testUserHeader, strconv.FormatUint(uint64(userID), 10))
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func TestClapRoutes(t *testing.T) {
	s := newTestServer(t)
	author, reader := s.user(t, "author"), s.user(t, "reader")
	post := s.post(t, author)
	base := "/api/v1/posts/" + strconv.FormatUint(uint64(post), 10)

	code, env := s.do(t, http.MethodPost, base+"/claps", reader, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), env.Data["user_claps"])

	code, env = s.do(t, http.MethodPost, base+"/claps", reader, `{"count":60}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(50), env.Data["user_claps"])

	code, env = s.do(t, http.MethodGet, base+"/claps/count", reader, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(50), env.Data["claps_count"])

	code, env = s.do(t, http.MethodPost, base+"/claps", reader, `{"count":-2}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/posts/999/claps", reader, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodPost, base+"/claps", 0, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/posts/abc/claps/count", reader, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(t, http.MethodDelete, base+"/claps", reader, "")
	require.Equal(t, http.StatusOK, code)
	code, env = s.do(t, http.MethodGet, base+"/claps/user", reader, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), env.Data["user_claps"])
}

func TestCommentAndNotificationRoutes(t *testing.T) {
	s := newTestServer(t)
	author, reader := s.user(t, "author"), s.user(t, "reader")
	post := s.post(t, author)
	commentsPath := "/api/v1/posts/" + strconv.FormatUint(uint64(post), 10) + "/comments"

	code, env := s.do(t, http.MethodPost, commentsPath, reader, `{"content":"great read"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "great read", env.Data["content"])

	code, _ = s.do(t, http.MethodPost, commentsPath, reader, `{"content":""}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(t, http.MethodGet, "/api/v1/notifications/unread-count", author, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), env.Data["count"])

	code, env = s.do(t, http.MethodGet, "/api/v1/notifications?page=1&limit=10", author, "")
	require.Equal(t, http.StatusOK, code)
	list := env.Data["notifications"].([]interface{})
	require.Len(t, list, 1)
	id := uint64(list[0].(map[string]interface{})["id"].(float64))
	path := "/api/v1/notifications/" + strconv.FormatUint(id, 10) + "/read"

	code, _ = s.do(t, http.MethodPut, path, reader, "")
	assert.Equal(t, http.StatusNotFound, code, "other users cannot mark it")

	code, _ = s.do(t, http.MethodPut, path, author, "")
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodGet, "/api/v1/notifications?unreadOnly=true", author, "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, env.Data["notifications"])
}

func TestFollowRoutes(t *testing.T) {
	s := newTestServer(t)
	alice, bob := s.user(t, "alice"), s.user(t, "bob")
	bobPath := "/api/v1/follow/users/" + strconv.FormatUint(uint64(bob), 10)
	alicePath := "/api/v1/follow/users/" + strconv.FormatUint(uint64(alice), 10)

	code, _ := s.do(t, http.MethodPost, alicePath, alice, "")
	assert.Equal(t, http.StatusBadRequest, code, "self follow")

	code, _ = s.do(t, http.MethodPost, bobPath, alice, "")
	require.Equal(t, http.StatusOK, code)

	code, env := s.do(t, http.MethodPost, bobPath, alice, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Already following this user", env.Message)

	code, env = s.do(t, http.MethodGet, bobPath+"/counts", alice, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), env.Data["followers"])

	code, _ = s.do(t, http.MethodDelete, bobPath, alice, "")
	require.Equal(t, http.StatusOK, code)
	code, env = s.do(t, http.MethodGet, bobPath+"/check", alice, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, env.Data["following"])
}

func TestTopicRoutes(t *testing.T) {
	s := newTestServer(t)
	alice, bob := s.user(t, "alice"), s.user(t, "bob")

	code, env := s.do(t, http.MethodPost, "/api/v1/topics", alice, `{"name":"Distributed Systems!","description":"consensus and friends"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "distributed-systems", env.Data["slug"])
	systems := uint64(env.Data["id"].(float64))

	code, env = s.do(t, http.MethodPost, "/api/v1/topics", alice, `{"name":"distributed   systems"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Topic already exists", env.Message)

	code, _ = s.do(t, http.MethodPost, "/api/v1/topics", alice, `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = s.do(t, http.MethodPost, "/api/v1/topics", 0, `{"name":"Go"}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = s.do(t, http.MethodPost, "/api/v1/topics", alice, `{"name":"Go"}`)
	require.Equal(t, http.StatusCreated, code)
	golang := uint64(env.Data["id"].(float64))

	checkPath := "/api/v1/follow/topics/" + strconv.FormatUint(golang, 10) + "/check"
	code, env = s.do(t, http.MethodGet, checkPath, bob, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, env.Data["following"])

	code, _ = s.do(t, http.MethodPost, "/api/v1/follow/topics/"+strconv.FormatUint(golang, 10), bob, "")
	require.Equal(t, http.StatusOK, code)
	code, env = s.do(t, http.MethodGet, checkPath, bob, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, env.Data["following"])

	code, env = s.do(t, http.MethodGet, "/api/v1/topics", 0, "")
	require.Equal(t, http.StatusOK, code)
	topics := env.Data["topics"].([]interface{})
	require.Len(t, topics, 2)
	first := topics[0].(map[string]interface{})
	assert.Equal(t, float64(golang), first["id"], "most followed first")
	assert.Equal(t, float64(1), first["followers_count"])
	assert.Equal(t, float64(systems), topics[1].(map[string]interface{})["id"])

	code, env = s.do(t, http.MethodGet, "/api/v1/topics/go", 0, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Go", env.Data["name"])

	code, _ = s.do(t, http.MethodGet, "/api/v1/topics/missing", 0, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestClapsCountForMissingPostIsZero(t *testing.T) {
	s := newTestServer(t)
	reader := s.user(t, "reader")

	code, env := s.do(t, http.MethodGet, "/api/v1/posts/999/claps/count", reader, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), env.Data["claps_count"])
}

func TestBookmarkRoutes(t *testing.T) {
	s := newTestServer(t)
	author, reader := s.user(t, "author"), s.user(t, "reader")
	post := s.post(t, author)
	path := "/api/v1/bookmarks/" + strconv.FormatUint(uint64(post), 10)

	code, _ := s.do(t, http.MethodPost, path, reader, "")
	require.Equal(t, http.StatusOK, code)
	code, env := s.do(t, http.MethodPost, path, reader, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Already bookmarked", env.Message)

	code, env = s.do(t, http.MethodGet, "/api/v1/bookmarks", reader, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, env.Data["bookmarks"], 1)
}

func TestToHTTPError(t *testing.T) {
	statusOf := func(err error) int {
		var he *echo.HTTPError
		require.ErrorAs(t, toHTTPError(err), &he)
		return he.Code
	}

	assert.Equal(t, http.StatusBadRequest, statusOf(&services.Error{Kind: services.KindValidation}))
	assert.Equal(t, http.StatusBadRequest, statusOf(&services.Error{Kind: services.KindConflict}))
	assert.Equal(t, http.StatusBadRequest, statusOf(&services.Error{Kind: services.KindSelfReference}))
	assert.Equal(t, http.StatusNotFound, statusOf(&services.Error{Kind: services.KindNotFound}))
	assert.Equal(t, http.StatusInternalServerError, statusOf(&services.Error{Kind: services.KindStorage, Err: errors.New("db down")}))
	assert.Equal(t, http.StatusServiceUnavailable, statusOf(&services.Error{Kind: services.KindStorage, Err: context.DeadlineExceeded}))
	assert.Equal(t, http.StatusInternalServerError, statusOf(errors.New("unexpected")))

	var he *echo.HTTPError
	require.ErrorAs(t, toHTTPError(&services.Error{Kind: services.KindStorage, Message: "something went wrong", Err: errors.New("password=secret")}), &he)
	assert.Equal(t, "something went wrong", he.Message)
}
