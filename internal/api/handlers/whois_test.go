package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leozw/whois-lookup/internal/core"
	"github.com/leozw/whois-lookup/internal/lookup"
	"github.com/leozw/whois-lookup/internal/upstream"
)

type stubLookup struct {
	record   core.Record
	err      error
	deadline bool
	gotArgs  []string
}

func (s *stubLookup) Lookup(ctx context.Context, domainName, infoType string) (core.Record, error) {
	_, s.deadline = ctx.Deadline()
	s.gotArgs = []string{domainName, infoType}
	return s.record, s.err
}

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, l Lookuper, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(l, time.Second, zap.NewNop())
	r := gin.New()
	r.POST("/api/whois", h.Whois)

	req := httptest.NewRequest(http.MethodPost, "/api/whois", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestWhois(t *testing.T) {
	t.Run("domain facts", func(t *testing.T) {
		reg := core.Naive(time.Date(1995, 8, 14, 4, 0, 0, 0, time.UTC))
		age := 29
		l := &stubLookup{record: core.DomainFacts{
			DomainName:              "example.com",
			Registrar:               "Example Registrar",
			RegistrationDate:        &reg,
			EstimatedDomainAgeYears: &age,
			HostnamesDisplay:        "a.iana-servers.net",
		}}

		w := serve(t, l, `{"domain_name": "example.com", "info_type": "domain"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"domain_name": "example.com",
			"registrar": "Example Registrar",
			"registration_date": "1995-08-14T04:00:00",
			"expiration_date": null,
			"estimated_domain_age": 29,
			"hostnames": "a.iana-servers.net"
		}`, w.Body.String())
		assert.Equal(t, []string{"example.com", "domain"}, l.gotArgs)
		assert.True(t, l.deadline)
	})

	t.Run("contact facts", func(t *testing.T) {
		l := &stubLookup{record: core.ContactFacts{RegistrantName: "Jane Doe"}}

		w := serve(t, l, `{"domain_name": "example.com", "info_type": "contact"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"registrant_name": "Jane Doe",
			"technical_contact_name": "",
			"administrative_contact_name": "",
			"contact_email": ""
		}`, w.Body.String())
	})

	t.Run("malformed body", func(t *testing.T) {
		l := &stubLookup{}

		for _, body := range []string{`not json`, `{"domain_name": "example.com"}`, `{}`} {
			w := serve(t, l, body)
			assert.Equal(t, http.StatusBadRequest, w.Code, body)
			assert.Contains(t, decode(t, w), "error")
		}
		assert.Nil(t, l.gotArgs)
	})

	t.Run("invalid request", func(t *testing.T) {
		l := &stubLookup{err: &lookup.InvalidRequestError{Field: "info_type", Value: "invalid", Reason: "must be one of domain, contact"}}

		w := serve(t, l, `{"domain_name": "example.com", "info_type": "invalid"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode(t, w)["error"], "info_type")
	})

	t.Run("upstream failure", func(t *testing.T) {
		l := &stubLookup{err: &lookup.UpstreamError{
			Domain: "example.com",
			Err:    &upstream.Error{Kind: upstream.KindStatus, Provider: "whoisxml", StatusCode: 503, Message: "503 Service Unavailable"},
		}}

		w := serve(t, l, `{"domain_name": "example.com", "info_type": "domain"}`)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Upstream lookup failed", body["error"])
		assert.Contains(t, body["detail"], "status 503")
	})

	t.Run("upstream timeout", func(t *testing.T) {
		l := &stubLookup{err: &lookup.UpstreamError{
			Domain: "example.com",
			Err:    &upstream.Error{Kind: upstream.KindCanceled, Provider: "whoisxml", Message: "request timed out", Cause: context.DeadlineExceeded},
		}}

		w := serve(t, l, `{"domain_name": "example.com", "info_type": "domain"}`)
		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
		assert.Equal(t, "Upstream lookup timed out", decode(t, w)["error"])
	})

	t.Run("unexpected error", func(t *testing.T) {
		l := &stubLookup{err: errors.New("boom")}

		w := serve(t, l, `{"domain_name": "example.com", "info_type": "domain"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "boom")
	})
}

func TestHealth(t *testing.T) {
	h := NewHandler(&stubLookup{}, time.Second, zap.NewNop())
	r := gin.New()
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode(t, w)["message"], "Welcome")
}
