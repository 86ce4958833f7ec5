package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umaimaes/AgroTrace-MS/internal/config"
)

func newProxyRouter(aiURL string) *chi.Mux {
	cfg := &config.Config{}
	cfg.Public.AIServiceURL = aiURL
	h := New(&MockAuthService{}, cfg, nil)
	r := chi.NewRouter()
	r.Post("/detect", h.Detect)
	r.Post("/recommend", h.Recommend)
	return r
}

func TestDetectForwardsBody(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody []byte
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"disease":"rust","confidence":0.93}`))
	}))
	defer upstream.Close()

	router := newProxyRouter(upstream.URL)

	rr := doRequest(t, router, http.MethodPost, "/detect", []byte("raw-image-bytes"),
		[2]string{"Content-Type", "image/jpeg"})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"disease":"rust","confidence":0.93}`, rr.Body.String())
	assert.Equal(t, "/detect", gotPath)
	assert.Equal(t, "image/jpeg", gotContentType)
	assert.Equal(t, "raw-image-bytes", string(gotBody))
}

func TestRecommendRelaysUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"missing field crop"}`))
	}))
	defer upstream.Close()

	router := newProxyRouter(upstream.URL)

	rr := doRequest(t, router, http.MethodPost, "/recommend", []byte(`{"soil":"clay"}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.JSONEq(t, `{"error":"missing field crop"}`, rr.Body.String())
}

func TestProxyWrapsNonJSONUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream blew up"))
	}))
	defer upstream.Close()

	router := newProxyRouter(upstream.URL)

	rr := doRequest(t, router, http.MethodPost, "/recommend", []byte(`{}`))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "upstream blew up")
}

func TestProxyUnreachableUpstream(t *testing.T) {
	router := newProxyRouter("http://127.0.0.1:1")

	rr := doRequest(t, router, http.MethodPost, "/detect", []byte("x"))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "error"))
}
