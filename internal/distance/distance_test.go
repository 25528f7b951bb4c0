package distance

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	// Бангалор — Ченнаи, около 290 км по прямой.
	blr := Point{Latitude: 12.9716, Longitude: 77.5946}
	chn := Point{Latitude: 13.0827, Longitude: 80.2707}

	got := HaversineKm(blr, chn)
	if math.Abs(got-290) > 10 {
		t.Fatalf("haversine = %f km, want ~290", got)
	}

	if d := HaversineKm(blr, blr); d != 0 {
		t.Fatalf("distance to self = %f, want 0", d)
	}
}

func TestRoadKmUsesAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/route" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"distanceKm": 7.4}`))
	}))
	defer srv.Close()

	e := NewEstimator(srv.URL)

	got := e.RoadKm(context.Background(), Point{12.97, 77.59}, Point{12.93, 77.62})
	if got != 7.4 {
		t.Fatalf("road distance = %f, want 7.4", got)
	}
}

func TestRoadKmFallsBackToHaversine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	origin := Point{12.9716, 77.5946}
	drop := Point{12.9352, 77.6245}

	e := NewEstimator(srv.URL)
	srv.Close() // API недоступен с первого запроса

	got := e.RoadKm(context.Background(), origin, drop)
	want := HaversineKm(origin, drop) * roadFactor

	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("fallback distance = %f, want %f", got, want)
	}
	if got <= 0 {
		t.Fatalf("fallback distance must be positive")
	}
}

func TestRoadKmWithoutBaseURL(t *testing.T) {
	e := NewEstimator("")

	origin := Point{12.9716, 77.5946}
	drop := Point{12.9352, 77.6245}

	got := e.RoadKm(context.Background(), origin, drop)
	want := HaversineKm(origin, drop) * roadFactor

	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("distance = %f, want haversine fallback %f", got, want)
	}
}
