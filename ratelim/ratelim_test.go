package ratelim

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestLimitThrottlesPerIP(t *testing.T) {
	rl := NewRateLimiter()
	h := rl.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodPost, "/api/foodorders", nil)
	r.RemoteAddr = "10.0.0.1:1234"

	w := httptest.NewRecorder()
	h(w, r, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Burst of 1: an immediate second request from the same IP is throttled.
	w = httptest.NewRecorder()
	h(w, r, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// A different IP gets its own limiter.
	r2 := httptest.NewRequest(http.MethodPost, "/api/foodorders", nil)
	r2.RemoteAddr = "10.0.0.2:1234"
	w = httptest.NewRecorder()
	h(w, r2, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
