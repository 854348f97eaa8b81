package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SanderSepp/omicron-app/internal/models"
)

// Client queries the Overpass API for points of interest.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

// Query fetches nodes around the center for the given categories. Categories
// outside the known set are ignored; with none left the result is empty.
func (c *Client) Query(ctx context.Context, center models.Coordinate, radiusMeters int, categories []models.Category) ([]models.RawPlace, error) {
	query := buildQuery(center, radiusMeters, categories)
	if query == "" {
		return []models.RawPlace{}, nil
	}

	body := "data=" + url.QueryEscape(fmt.Sprintf("[out:json];\n(\n%s);\nout body;", query))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var data overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}

	places := make([]models.RawPlace, 0, len(data.Elements))
	for _, el := range data.Elements {
		places = append(places, models.RawPlace{
			Name:      el.Tags["name"],
			Latitude:  el.Lat,
			Longitude: el.Lon,
			Tags:      el.Tags,
		})
	}

	return places, nil
}

func buildQuery(center models.Coordinate, radiusMeters int, categories []models.Category) string {
	var b strings.Builder
	for _, cat := range categories {
		selector := tagSelector(cat)
		if selector == "" {
			continue
		}
		fmt.Fprintf(&b, "node[%s](around:%d,%f,%f);\n", selector, radiusMeters, center.Latitude, center.Longitude)
	}
	return b.String()
}

func tagSelector(c models.Category) string {
	switch c {
	case models.CategoryDrinkingWater:
		return `"amenity"="drinking_water"`
	case models.CategoryShelter:
		return `"shelter"="yes"`
	case models.CategoryFoodSupply:
		return `"shop"="supermarket"`
	case models.CategoryPharmacy:
		return `"amenity"="pharmacy"`
	default:
		return ""
	}
}
