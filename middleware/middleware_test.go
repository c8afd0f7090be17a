package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"prakthub/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, userID string, roles []string) string {
	t.Helper()
	claims := &Claims{
		Username: userID,
		UserID:   userID,
		Role:     roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	require.NoError(t, err)
	return s
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	called := false
	h := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
	})

	r := httptest.NewRequest(http.MethodPost, "/api/foodorders/ev1/vote", nil)
	w := httptest.NewRecorder()
	h(w, r, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestAuthenticateRejectsUpgradeHeadersWithoutToken(t *testing.T) {
	// Upgrade headers never stand in for a token: a tokenless request
	// dressed up as a WebSocket handshake must not reach the handler.
	called := false
	h := RequireUser(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
	})

	r := httptest.NewRequest(http.MethodPost, "/api/foodorders/ev1/vote", nil)
	r.Header.Set("Connection", "Upgrade")
	r.Header.Set("Upgrade", "websocket")
	w := httptest.NewRecorder()
	h(w, r, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestAuthenticateSetsIdentity(t *testing.T) {
	var gotID string
	var gotRoles []string
	h := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotID, _ = r.Context().Value(globals.UserIDKey).(string)
		gotRoles, _ = r.Context().Value(globals.RoleKey).([]string)
	})

	r := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, "u42", []string{"user"}))
	w := httptest.NewRecorder()
	h(w, r, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u42", gotID)
	assert.Equal(t, []string{"user"}, gotRoles)
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	called := false
	h := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
	})

	r := httptest.NewRequest(http.MethodPost, "/api/foodorders", nil)
	r.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	h(w, r, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestRequireUserRejectsGuest(t *testing.T) {
	called := false
	h := RequireUser(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
	})

	r := httptest.NewRequest(http.MethodPost, "/api/reservations/2025-07-28/toggle", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, globals.GuestUserID, []string{"user"}))
	w := httptest.NewRecorder()
	h(w, r, nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, called)
}

func TestRequireUserAllowsRegisteredUser(t *testing.T) {
	called := false
	h := RequireUser(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
	})

	r := httptest.NewRequest(http.MethodPost, "/api/reservations/2025-07-28/toggle", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, "u42", []string{"user"}))
	w := httptest.NewRecorder()
	h(w, r, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}

func TestValidateJWTBareToken(t *testing.T) {
	claims, err := ValidateJWT(signToken(t, "u7", []string{"user"}))
	require.NoError(t, err)
	assert.Equal(t, "u7", claims.UserID)

	_, err = ValidateJWT("")
	assert.Error(t, err)
	_, err = ValidateJWT("not-a-token")
	assert.Error(t, err)
}
