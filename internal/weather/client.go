// Package weather fetches current conditions from OpenWeatherMap and
// normalizes them into models.WeatherSnapshot.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"plant_buddy/internal/models"
)

const (
	defaultBaseURL  = "https://api.openweathermap.org/data/2.5"
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 1 << 20
)

var (
	// ErrMissingAPIKey means the provider credential is not configured.
	ErrMissingAPIKey = errors.New("weather: OPENWEATHER_KEY not set")
	// ErrUpstream wraps non-2xx provider responses.
	ErrUpstream = errors.New("weather: upstream request failed")
	// ErrMalformed means the provider answered without the fields we need.
	ErrMalformed = errors.New("weather: malformed provider response")
)

// Options configures a Client.
type Options struct {
	APIKey          string
	BaseURL         string
	DefaultLocation string
	Timeout         time.Duration
	HTTPClient      *http.Client
}

// Client talks to the OpenWeatherMap current-weather endpoint.
type Client struct {
	apiKey          string
	baseURL         string
	defaultLocation string
	httpClient      *http.Client
}

func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		apiKey:          strings.TrimSpace(opts.APIKey),
		baseURL:         baseURL,
		defaultLocation: opts.DefaultLocation,
		httpClient:      hc,
	}
}

// Ready reports whether the client can make requests at all.
func (c *Client) Ready() error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// DefaultLocation is the city used when a lookup has no location.
func (c *Client) DefaultLocation() string {
	return c.defaultLocation
}

// Fetch returns current conditions for loc. Coordinates win over a city;
// an empty location falls back to the configured default.
func (c *Client) Fetch(ctx context.Context, loc models.Location) (models.WeatherSnapshot, error) {
	if err := c.Ready(); err != nil {
		return models.WeatherSnapshot{}, err
	}

	q := url.Values{}
	switch {
	case loc.HasCoordinates():
		q.Set("lat", strconv.FormatFloat(*loc.Lat, 'f', -1, 64))
		q.Set("lon", strconv.FormatFloat(*loc.Lon, 'f', -1, 64))
	case strings.TrimSpace(loc.City) != "":
		q.Set("q", strings.TrimSpace(loc.City))
	default:
		q.Set("q", c.defaultLocation)
	}
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather?"+q.Encode(), nil)
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("weather: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("weather: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("weather: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.WeatherSnapshot{}, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	return decodeCurrent(body)
}

// currentResponse is the subset of the provider payload the evaluator uses.
type currentResponse struct {
	Main    *mainBlock         `json:"main"`
	Wind    *windBlock         `json:"wind"`
	Rain    map[string]float64 `json:"rain"`
	Weather []conditionBlock   `json:"weather"`
}

type mainBlock struct {
	Temp     *float64 `json:"temp"`
	Humidity *float64 `json:"humidity"`
}

type windBlock struct {
	Speed *float64 `json:"speed"`
}

type conditionBlock struct {
	Description string `json:"description"`
}

func decodeCurrent(body []byte) (models.WeatherSnapshot, error) {
	var cur currentResponse
	if err := json.Unmarshal(body, &cur); err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if cur.Main == nil || cur.Main.Temp == nil {
		return models.WeatherSnapshot{}, fmt.Errorf("%w: missing main.temp", ErrMalformed)
	}

	snap := models.WeatherSnapshot{
		TempC:    *cur.Main.Temp,
		Humidity: cur.Main.Humidity,
		RainMm:   cur.Rain["1h"],
		Raw:      json.RawMessage(body),
	}
	if cur.Wind != nil {
		snap.WindMs = cur.Wind.Speed
	}
	if len(cur.Weather) > 0 {
		snap.Description = cur.Weather[0].Description
	}
	return snap, nil
}
