package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SanderSepp/omicron-app/internal/models"
)

// Client fetches walking routes from an OSRM instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type osrmResponse struct {
	Code   string      `json:"code"`
	Routes []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64   `json:"distance"` // meters
	Duration float64   `json:"duration"` // seconds
	Legs     []osrmLeg `json:"legs"`
}

type osrmLeg struct {
	Steps []osrmStep `json:"steps"`
}

type osrmStep struct {
	Name     string       `json:"name"`
	Maneuver osrmManeuver `json:"maneuver"`
}

type osrmManeuver struct {
	Type     string `json:"type"`
	Modifier string `json:"modifier"`
}

// Route requests a foot route between origin and destination and returns
// display-ready distance, duration and turn instructions.
func (c *Client) Route(ctx context.Context, origin, dest models.Coordinate) (*models.RouteInfo, error) {
	// OSRM takes lon,lat pairs.
	url := fmt.Sprintf("%s/route/v1/foot/%f,%f;%f,%f?overview=false&steps=true",
		c.baseURL, origin.Longitude, origin.Latitude, dest.Longitude, dest.Latitude)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var data osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}

	if data.Code != "Ok" || len(data.Routes) == 0 {
		return nil, fmt.Errorf("no route found (code %s)", data.Code)
	}

	route := data.Routes[0]
	info := &models.RouteInfo{
		DistanceText: formatDistance(route.Distance),
		DurationText: formatDuration(route.Duration),
	}
	for _, leg := range route.Legs {
		for _, step := range leg.Steps {
			if text := formatStep(step); text != "" {
				info.TurnInstructions = append(info.TurnInstructions, text)
			}
		}
	}

	return info, nil
}

func formatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

func formatDuration(seconds float64) string {
	minutes := int(seconds/60 + 0.5)
	if minutes < 1 {
		minutes = 1
	}
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%d h %d min", minutes/60, minutes%60)
}

func formatStep(step osrmStep) string {
	name := step.Name
	switch step.Maneuver.Type {
	case "depart":
		if name == "" {
			return "Head towards your destination"
		}
		return fmt.Sprintf("Head along %s", name)
	case "arrive":
		return "You have arrived at your destination"
	case "turn", "end of road", "fork":
		dir := step.Maneuver.Modifier
		if dir == "" {
			dir = "ahead"
		}
		if name == "" {
			return fmt.Sprintf("Turn %s", dir)
		}
		return fmt.Sprintf("Turn %s onto %s", dir, name)
	case "continue", "new name":
		if name == "" {
			return "Continue straight"
		}
		return fmt.Sprintf("Continue on %s", name)
	default:
		if name == "" {
			return ""
		}
		return fmt.Sprintf("Follow %s", name)
	}
}
