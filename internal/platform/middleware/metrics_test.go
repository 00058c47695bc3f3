// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// In-package so the tests can read the unexported collectors directly.
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestInstrument_UsesRoutePattern checks that requests to id-bearing routes
collapse into a single series keyed by the route pattern.
*/
func TestInstrument_UsesRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Instrument)
	router.Get("/widgets/{id}", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	for _, target := range []string{"/widgets/1", "/widgets/2", "/widgets/99"} {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	count := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/widgets/{id}", "200"))
	assert.Equal(t, 3.0, count)
}

/*
TestInstrument_UnmatchedRoutesShareOneLabel keeps arbitrary 404 paths from
minting one series each.
*/
func TestInstrument_UnmatchedRoutesShareOneLabel(t *testing.T) {
	handler := Instrument(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
	}))

	for _, target := range []string{"/nope-1", "/nope-2"} {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	}

	count := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404"))
	assert.Equal(t, 2.0, count)
}

/*
TestInstrument_InFlightSurvivesPanic verifies a panicking handler still
returns the in-flight gauge to its prior value.
*/
func TestInstrument_InFlightSurvivesPanic(t *testing.T) {
	before := testutil.ToFloat64(httpInFlight)

	handler := Instrument(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	assert.Panics(t, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, before, testutil.ToFloat64(httpInFlight))
}
