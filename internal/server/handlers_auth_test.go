package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRegisterAndLogin(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":    "bob@example.com",
		"name":     "Bob",
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var registered struct {
		Token string `json:"token"`
		User  struct {
			UserID string `json:"user_id"`
			Email  string `json:"email"`
		} `json:"user"`
	}
	decodeData(t, rec, &registered)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "bob@example.com", registered.User.Email)

	rec = doRequest(t, srv, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "bob@example.com",
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login struct {
		Token string `json:"token"`
	}
	decodeData(t, rec, &login)
	assert.NotEmpty(t, login.Token)

	// The issued token works against a protected endpoint.
	rec = doRequest(t, srv, http.MethodGet, "/api/investments", login.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRegister_DuplicateEmail(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body := map[string]interface{}{
		"email":    "carol@example.com",
		"password": "password123",
	}
	rec := doRequest(t, srv, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthRegister_WeakPassword(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":    "dave@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthLogin_WrongPassword(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":    "erin@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "erin@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthValidate(t *testing.T) {
	srv, _, token := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/auth/validate", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var data struct {
		User struct {
			UserID string `json:"user_id"`
		} `json:"user"`
	}
	decodeData(t, rec, &data)
	assert.Equal(t, "alice_1", data.User.UserID)
}

func TestAuthValidate_BadToken(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/auth/validate", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerMiddleware_RejectsTamperedToken(t *testing.T) {
	srv, _, token := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/investments", token+"x", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthAndVersion(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/version", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
