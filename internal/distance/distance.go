// Package distance оценивает дорожное расстояние между точками.
// Основной путь — внешний API маршрутизации; при его недоступности
// используется расчёт по формуле гаверсинусов с дорожным коэффициентом.
package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// roadFactor приближает дорожное расстояние к прямой в городских условиях.
const roadFactor = 1.3

const earthRadiusKm = 6371.0

// Point задаёт географическую точку.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Estimator оценивает расстояние между двумя точками в километрах.
type Estimator struct {
	baseURL    string
	httpClient *retryablehttp.Client
}

// NewEstimator создаёт оценщик расстояний. Запросы к API — идемпотентные чтения,
// поэтому повторяются с экспоненциальной задержкой.
func NewEstimator(baseURL string) *Estimator {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = 5 * time.Second
	client.Logger = nil

	return &Estimator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

type routeResponse struct {
	DistanceKm float64 `json:"distanceKm"`
}

// RoadKm возвращает оценку дорожного расстояния между origin и drop в километрах.
// Ошибка API не фатальна: вызывающий получает гаверсинусный запасной вариант.
func (e *Estimator) RoadKm(ctx context.Context, origin, drop Point) float64 {
	if e != nil && e.baseURL != "" {
		if km, err := e.queryRoute(ctx, origin, drop); err == nil {
			return km
		}
	}
	return HaversineKm(origin, drop) * roadFactor
}

func (e *Estimator) queryRoute(ctx context.Context, origin, drop Point) (float64, error) {
	url := fmt.Sprintf("%s/route?olat=%f&olon=%f&dlat=%f&dlon=%f",
		e.baseURL, origin.Latitude, origin.Longitude, drop.Latitude, drop.Longitude)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}

	if result.DistanceKm <= 0 {
		return 0, fmt.Errorf("non-positive distance: %f", result.DistanceKm)
	}

	return result.DistanceKm, nil
}

// HaversineKm возвращает расстояние по дуге большого круга между двумя точками.
func HaversineKm(a, b Point) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
