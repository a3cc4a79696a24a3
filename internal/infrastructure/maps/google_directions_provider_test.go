package maps

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TripPlanner-App/internal/domain/model"
)

func TestGoogleDirectionsProvider_GetRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "34.994900,135.785000", q.Get("origin"))
		assert.Equal(t, "35.005000,135.771000", q.Get("destination"))
		assert.Equal(t, "34.967100,135.772700", q.Get("waypoints"))
		assert.Equal(t, "walking", q.Get("mode"))
		assert.Equal(t, "ja", q.Get("language"))
		assert.Equal(t, "test-key", q.Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"routes": [{
				"overview_polyline": {"points": "encoded_polyline"},
				"waypoint_order": [0],
				"legs": [
					{"duration": {"value": 600}, "distance": {"value": 1500}},
					{"duration": {"value": 900}, "distance": {"value": 2500}}
				]
			}]
		}`))
	}))
	defer server.Close()

	provider := NewGoogleDirectionsProvider("test-key", "walking").WithBaseURL(server.URL)
	details, err := provider.GetRoute(context.Background(),
		model.LatLng{Lat: 34.9949, Lng: 135.7850},
		model.LatLng{Lat: 34.9671, Lng: 135.7727},
		model.LatLng{Lat: 35.0050, Lng: 135.7710},
	)
	require.NoError(t, err)

	assert.Equal(t, "encoded_polyline", details.Polyline)
	assert.Equal(t, 25*time.Minute, details.TotalDuration)
	assert.Equal(t, 4000, details.TotalDistance)
	assert.Equal(t, []int{0}, details.WaypointOrder)
}

func TestGoogleDirectionsProvider_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		notFound bool
	}{
		{name: "HTTPエラー", status: http.StatusInternalServerError, body: `{}`},
		{name: "経路なしステータス", status: http.StatusOK, body: `{"status":"ZERO_RESULTS","routes":[]}`, notFound: true},
		{name: "APIステータスエラー", status: http.StatusOK, body: `{"status":"REQUEST_DENIED","error_message":"bad key"}`},
		{name: "ルートなし", status: http.StatusOK, body: `{"status":"OK","routes":[]}`, notFound: true},
		{name: "不正なJSON", status: http.StatusOK, body: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			provider := NewGoogleDirectionsProvider("k", "").WithBaseURL(server.URL)
			_, err := provider.GetRoute(context.Background(), model.LatLng{}, model.LatLng{Lat: 1, Lng: 1})
			require.Error(t, err)
			assert.Equal(t, tt.notFound, errors.Is(err, model.ErrNotFound))
		})
	}
}

func TestGoogleDirectionsProvider_NoDestination(t *testing.T) {
	_, err := NewGoogleDirectionsProvider("k", "driving").GetRoute(context.Background(), model.LatLng{})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
