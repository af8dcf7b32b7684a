package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"wordflow/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type fakeCounter int

func (c fakeCounter) ActiveUsers() int { return int(c) }

func TestHealth(t *testing.T) {
	tests := []struct {
		name           string
		pingErr        error
		expectedCode   int
		expectedStatus string
	}{
		{
			name:           "database reachable",
			expectedCode:   http.StatusOK,
			expectedStatus: "ok",
		},
		{
			name:           "database down",
			pingErr:        errors.New("connection refused"),
			expectedCode:   http.StatusServiceUnavailable,
			expectedStatus: "unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewRouter(fakePinger{err: tt.pingErr}, fakeCounter(3), testutil.NewTestLogger())

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body status
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.expectedStatus, body.Status)
			assert.Equal(t, 3, body.TrainingSessions)
		})
	}
}

func TestHealth_UnknownRoute(t *testing.T) {
	router := NewRouter(fakePinger{}, fakeCounter(0), testutil.NewTestLogger())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
