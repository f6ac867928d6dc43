package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	router "github.com/akozlov/accounts/api/http"
	"github.com/akozlov/accounts/api/http/handlers"
	"github.com/akozlov/accounts/pkg/account"
	"github.com/akozlov/accounts/pkg/health"
	"github.com/akozlov/accounts/pkg/security/jwt"
	"github.com/akozlov/accounts/pkg/security/password"
)

type memoryRepo struct {
	users  map[uuid.UUID]account.User
	hashes map[uuid.UUID]string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		users:  make(map[uuid.UUID]account.User),
		hashes: make(map[uuid.UUID]string),
	}
}

func (m *memoryRepo) Create(_ context.Context, user account.User, passwordHash string) error {
	if _, ok := m.users[user.ID]; ok {
		return account.ErrAlreadyExists
	}
	m.users[user.ID] = user
	m.hashes[user.ID] = passwordHash
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (account.User, error) {
	user, ok := m.users[id]
	if !ok {
		return account.User{}, account.ErrNotFound
	}
	return user, nil
}

func (m *memoryRepo) GetPasswordHash(_ context.Context, id uuid.UUID) (string, error) {
	hash, ok := m.hashes[id]
	if !ok {
		return "", account.ErrNotFound
	}
	return hash, nil
}

func (m *memoryRepo) Search(_ context.Context, filter account.SearchFilter, limit, offset int) ([]account.User, error) {
	var out []account.User
	for _, u := range m.users {
		if filter.FirstNamePrefix != "" && !strings.HasPrefix(u.FirstName, filter.FirstNamePrefix) {
			continue
		}
		if filter.SecondNamePrefix != "" && !strings.HasPrefix(u.SecondName, filter.SecondNamePrefix) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

type okChecker struct{}

func (okChecker) Name() string                  { return "fake" }
func (okChecker) Check(_ context.Context) error { return nil }

type testEnv struct {
	app    *fiber.App
	tokens *jwt.Generator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	hasher := password.NewHasherWithParams(password.Params{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	tokens, err := jwt.NewGenerator("handler-test-secret", "accounts-test", 15*time.Minute)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uc := account.NewService(newMemoryRepo(), hasher, tokens)

	app := fiber.New()
	router.Register(app,
		handlers.NewAuthHandler(uc, logger),
		handlers.NewUserHandler(uc, logger),
		handlers.NewHealthHandler(health.NewService(okChecker{})),
		jwt.NewAuthMiddleware(tokens, logger),
	)
	return &testEnv{app: app, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, method, target, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func (e *testEnv) registerAnn(t *testing.T) (id string) {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/register", "", map[string]any{
		"first_name":  "Ann",
		"second_name": "Lee",
		"birthdate":   "1990-01-01",
		"biography":   "",
		"city":        "Oslo",
		"password":    "p@ss",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	id, _ = body["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func (e *testEnv) login(t *testing.T, id, pass string) (*http.Response, string) {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/login", "", map[string]any{"id": id, "password": pass})
	token, _ := body["token"].(string)
	return resp, token
}

func TestRegisterLoginGetSearchScenario(t *testing.T) {
	env := newTestEnv(t)

	// Register: fresh id, profile echoed, no password material.
	resp, body := env.do(t, http.MethodPost, "/register", "", map[string]any{
		"first_name":  "Ann",
		"second_name": "Lee",
		"birthdate":   "1990-01-01",
		"biography":   "",
		"city":        "Oslo",
		"password":    "p@ss",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, "Ann", body["first_name"])
	assert.Equal(t, "Lee", body["second_name"])
	assert.Equal(t, "1990-01-01", body["birthdate"])
	assert.Equal(t, "Oslo", body["city"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "password_hash")
	assert.NotContains(t, body, "token")

	// Login with correct password.
	resp, token := env.login(t, id, "p@ss")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, token)

	// Login with wrong password: generic failure.
	resp, _ = env.login(t, id, "wrong")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Get with valid token: same profile fields.
	resp, body = env.do(t, http.MethodGet, "/get/"+id, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, id, body["id"])
	assert.Equal(t, "Ann", body["first_name"])
	assert.Equal(t, "Lee", body["second_name"])
	assert.Equal(t, "1990-01-01", body["birthdate"])
	assert.Equal(t, "Oslo", body["city"])

	// Search by first-name prefix: ordered sequence containing Ann Lee.
	req := httptest.NewRequest(http.MethodGet, "/search?f=An", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	searchResp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, searchResp.StatusCode)
	var users []map[string]any
	raw, err := io.ReadAll(searchResp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &users))
	require.Len(t, users, 1)
	assert.Equal(t, id, users[0]["id"])
}

func TestLoginUnknownIDAndWrongPasswordLookAlike(t *testing.T) {
	env := newTestEnv(t)
	id := env.registerAnn(t)

	wrongResp, wrongBody := env.do(t, http.MethodPost, "/login", "", map[string]any{"id": id, "password": "nope"})
	unknownResp, unknownBody := env.do(t, http.MethodPost, "/login", "", map[string]any{"id": uuid.NewString(), "password": "p@ss"})

	assert.Equal(t, http.StatusUnauthorized, wrongResp.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, unknownResp.StatusCode)
	assert.Equal(t, wrongBody["message"], unknownBody["message"])
}

func TestRegisterRejectsBadBirthdate(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodPost, "/register", "", map[string]any{
		"first_name":  "Ann",
		"second_name": "Lee",
		"birthdate":   "01.01.1990",
		"password":    "p@ss",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchWithoutFiltersIsClientError(t *testing.T) {
	env := newTestEnv(t)
	id := env.registerAnn(t)
	resp, token := env.login(t, id, "p@ss")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	searchResp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, searchResp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)
	id := env.registerAnn(t)

	resp, _ := env.do(t, http.MethodGet, "/get/"+id, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/search?f=An", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/get/"+id, "definitely-not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	env := newTestEnv(t)
	id := env.registerAnn(t)

	expired := signExpiredToken(t, "handler-test-secret", id)
	resp, _ := env.do(t, http.MethodGet, "/get/"+id, expired, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func signExpiredToken(t *testing.T, secret, subject string) string {
	t.Helper()
	claims := jwtlib.RegisteredClaims{
		Issuer:    "accounts-test",
		Subject:   subject,
		IssuedAt:  jwtlib.NewNumericDate(time.Now().Add(-16 * time.Minute)),
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(-time.Minute)),
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestGetUnknownUserIs404(t *testing.T) {
	env := newTestEnv(t)
	id := env.registerAnn(t)
	resp, token := env.login(t, id, "p@ss")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, fmt.Sprintf("/get/%s", uuid.NewString()), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
