package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"prakthub/globals"
	"prakthub/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func TestValidTopic(t *testing.T) {
	for _, topic := range []string{TopicReservations, TopicFoodOrders, TopicUsers} {
		if !validTopic(topic) {
			t.Errorf("expected %q to be a valid topic", topic)
		}
	}
	for _, topic := range []string{"", "portfolio", "Reservations", "ws"} {
		if validTopic(topic) {
			t.Errorf("expected %q to be rejected", topic)
		}
	}
}

func subscriberToken(t *testing.T) string {
	t.Helper()
	claims := &middleware.Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestHandleWSRejectsUnknownCollection(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws/portfolio", nil)
	w := httptest.NewRecorder()
	HandleWS(w, r, httprouter.Params{{Key: "collection", Value: "portfolio"}})

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHandleWSRequiresToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws/reservations", nil)
	w := httptest.NewRecorder()
	HandleWS(w, r, httprouter.Params{{Key: "collection", Value: "reservations"}})

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestHandleWSUpgradeFailureWritesSingleError(t *testing.T) {
	// Authenticated but not a WebSocket handshake: the upgrader reports
	// the failure itself, and exactly once.
	r := httptest.NewRequest(http.MethodGet, "/ws/reservations?token="+subscriberToken(t), nil)
	w := httptest.NewRecorder()
	HandleWS(w, r, httprouter.Params{{Key: "collection", Value: "reservations"}})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if n := strings.Count(w.Body.String(), "\n"); n != 1 {
		t.Errorf("expected a single error line, got %d", n)
	}
}
