package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/SanderSepp/omicron-app/internal/models"
)

// Client fetches current conditions from an OpenWeatherMap-compatible API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type currentResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Dt int64 `json:"dt"`
}

// Current returns the conditions at the coordinate in metric units.
func (c *Client) Current(ctx context.Context, coord models.Coordinate) (*models.WeatherReport, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%.6f", coord.Latitude))
	params.Set("lon", fmt.Sprintf("%.6f", coord.Longitude))
	params.Set("units", "metric")
	params.Set("appid", c.apiKey)

	requestURL := fmt.Sprintf("%s/data/2.5/weather?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("invalid API key")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var data currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}

	report := &models.WeatherReport{
		TemperatureC: data.Main.Temp,
		HumidityPct:  data.Main.Humidity,
		ObservedAt:   time.Unix(data.Dt, 0).UTC(),
	}
	if len(data.Weather) > 0 {
		report.Description = data.Weather[0].Description
	}

	return report, nil
}
