package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"datahub/internal/platform/metrics"
	"datahub/internal/platform/ratelimit"
	"datahub/pkg/requestcontext"
	"datahub/pkg/testutil"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (v stubValidator) ValidateToken(string) (*JWTClaims, error) {
	return v.claims, v.err
}

type MiddlewareSuite struct {
	suite.Suite
	logger *slog.Logger
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareSuite))
}

func (s *MiddlewareSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func echoActor(w http.ResponseWriter, r *http.Request) {
	_, _ = io.WriteString(w, requestcontext.ActorID(r.Context())+"/"+requestcontext.ActorRole(r.Context()))
}

func (s *MiddlewareSuite) TestRequireAuth() {
	valid := stubValidator{claims: &JWTClaims{ActorID: "5790000000005", ActorRole: "DDM"}}

	s.Run("missing header is 401", func() {
		rec := httptest.NewRecorder()
		RequireAuth(valid, s.logger)(http.HandlerFunc(echoActor)).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("invalid token is 401", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		RequireAuth(stubValidator{err: errors.New("bad")}, s.logger)(http.HandlerFunc(echoActor)).ServeHTTP(rec, req)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("valid token stores the actor", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		RequireAuth(valid, s.logger)(http.HandlerFunc(echoActor)).ServeHTTP(rec, req)
		s.Equal(http.StatusOK, rec.Code)
		s.Equal("5790000000005/DDM", rec.Body.String())
	})
}

func (s *MiddlewareSuite) TestRequireRole() {
	h := RequireRole(s.logger, "DDM")(http.HandlerFunc(echoActor))

	s.Run("allowed role passes", func() {
		req := testutil.WithActor(httptest.NewRequest(http.MethodPost, "/", nil), "a", "DDM")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("other role is 403", func() {
		req := testutil.WithActor(httptest.NewRequest(http.MethodPost, "/", nil), "a", "DDQ")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *MiddlewareSuite) TestRequestID() {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.RequestID(r.Context())
	}))

	s.Run("generates an id", func() {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		s.NotEmpty(seen)
		s.Equal(seen, rec.Header().Get(HeaderRequestID))
	})

	s.Run("reuses the client id", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		s.Equal("abc-123", seen)
	})
}

func (s *MiddlewareSuite) TestRecovery() {
	h := Recovery(s.logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	s.NotPanics(func() { h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil)) })
	s.Equal(http.StatusInternalServerError, rec.Code)
}

func (s *MiddlewareSuite) TestContentTypeJSON() {
	h := ContentTypeJSON(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	s.Run("rejects form bodies", func() {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("a=b"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		s.Equal(http.StatusUnsupportedMediaType, rec.Code)
	})

	s.Run("accepts json with charset", func() {
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("ignores GET", func() {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		s.Equal(http.StatusNoContent, rec.Code)
	})
}

type failingStore struct{}

func (failingStore) Allow(context.Context, string, int, time.Duration) (*ratelimit.Result, error) {
	return nil, errors.New("redis down")
}

func (s *MiddlewareSuite) TestRateLimit() {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	serve := func(h http.Handler, actor string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, testutil.WithActor(httptest.NewRequest(http.MethodGet, "/", nil), actor, "DDM"))
		return rec
	}

	s.Run("over the limit is 429 with Retry-After", func() {
		h := RateLimit(ratelimit.NewInMemoryWindow(), 2, time.Minute, s.logger)(ok)
		s.Equal(http.StatusNoContent, serve(h, "a").Code)
		rec := serve(h, "a")
		s.Equal(http.StatusNoContent, rec.Code)
		s.Equal("0", rec.Header().Get("X-RateLimit-Remaining"))

		rec = serve(h, "a")
		s.Equal(http.StatusTooManyRequests, rec.Code)
		s.NotEmpty(rec.Header().Get("Retry-After"))
		s.Contains(rec.Body.String(), "rate_limit_exceeded")

		s.Equal(http.StatusNoContent, serve(h, "b").Code, "other actors are unaffected")
	})

	s.Run("store failure lets the request through", func() {
		h := RateLimit(failingStore{}, 1, time.Minute, s.logger)(ok)
		s.Equal(http.StatusNoContent, serve(h, "a").Code)
		s.Equal(http.StatusNoContent, serve(h, "a").Code)
	})

	s.Run("zero limit disables the check", func() {
		h := RateLimit(failingStore{}, 0, time.Minute, s.logger)(ok)
		s.Equal(http.StatusNoContent, serve(h, "a").Code)
	})
}

func TestLatencyUsesRoutePattern(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(Latency(m))
	r.Get("/metering-points/{gsrn}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metering-points/570715000000000001", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/metering-points/{gsrn}", "404")))
}
