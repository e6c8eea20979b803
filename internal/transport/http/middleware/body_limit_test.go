package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBodyLimitCapsMutations(t *testing.T) {
	var readErr error
	handler := BodyLimit(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	r := httptest.NewRequest(http.MethodPut, "/companies/c1/periods/2025-04/variables/w1", strings.NewReader(strings.Repeat("x", 64)))
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if readErr == nil {
		t.Fatal("expected oversized PUT body to be rejected")
	}
}

func TestBodyLimitLeavesReadsAlone(t *testing.T) {
	var readErr error
	handler := BodyLimit(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	r := httptest.NewRequest(http.MethodGet, "/companies/c1/audit", strings.NewReader(strings.Repeat("x", 64)))
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if readErr != nil {
		t.Fatalf("GET body should not be limited: %v", readErr)
	}
}
