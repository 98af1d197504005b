package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/quillpress/backend/internal/models"
	"github.com/anonto42/quillpress/backend/internal/repositories/memory"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, userID uint, expires time.Time) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

// serve runs mw in front of a handler echoing the resolved user id.
func serve(mw echo.MiddlewareFunc, authHeader string) (uint, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var got uint
	err := mw(func(c echo.Context) error {
		got = UserID(c)
		return nil
	})(c)
	return got, err
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}

func TestJWTAuthMiddleware(t *testing.T) {
	mw := JWTAuthMiddleware(testSecret)

	id, err := serve(mw, "Bearer "+signToken(t, testSecret, 42, time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"bad signature":  "Bearer " + signToken(t, "other", 42, time.Now().Add(time.Hour)),
		"expired":        "Bearer " + signToken(t, testSecret, 42, time.Now().Add(-time.Hour)),
		"no user id":     "Bearer " + signToken(t, testSecret, 0, time.Now().Add(time.Hour)),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := serve(mw, header)
			assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
		})
	}
}

type fakeVerifier map[string]string

func (f fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	uid, ok := f[idToken]
	if !ok {
		return nil, errors.New("token rejected")
	}
	return &auth.Token{UID: uid}, nil
}

func TestFirebaseAuthMiddleware(t *testing.T) {
	store := memory.New()
	uid := "firebase-uid-1"
	user := models.User{Username: "alice", FirebaseUID: &uid}
	require.NoError(t, store.Users().CreateUser(context.Background(), &user))

	mw := FirebaseAuthMiddleware(fakeVerifier{"good": uid, "orphan": "unknown-uid"}, store.Users())

	id, err := serve(mw, "Bearer good")
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	_, err = serve(mw, "Bearer forged")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	_, err = serve(mw, "Bearer orphan")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestClapRateLimiterPerUser(t *testing.T) {
	rl := NewClapRateLimiter(60, 2)
	e := echo.New()

	call := func(userID uint) error {
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())
		c.Set(UserIDKey, userID)
		return rl.Middleware()(func(echo.Context) error { return nil })(c)
	}

	require.NoError(t, call(1))
	require.NoError(t, call(1))
	assert.Equal(t, http.StatusTooManyRequests, statusOf(t, call(1)))

	require.NoError(t, call(2), "other users have their own bucket")
}

func TestCleanupLimitersKeepsBusyKeys(t *testing.T) {
	rl := NewClapRateLimiter(1, 1)
	rl.GetLimiter("idle")
	rl.GetLimiter("busy").Allow()

	assert.Equal(t, 1, rl.CleanupLimiters())
	_, busy := rl.limiters["busy"]
	assert.True(t, busy)
}
