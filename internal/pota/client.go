package pota

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/patrickmn/go-cache"
)

// ErrParkNotFound is returned when the API has no park for a reference.
var ErrParkNotFound = errors.New("park not found")

// UpstreamError reports a failed or non-success call to the POTA API.
// Status is zero when no response was received.
type UpstreamError struct {
	Op     string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("pota %s: upstream status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("pota %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Park is park metadata exactly as returned by the API.
type Park map[string]any

// Client is a client for the POTA API.
type Client struct {
	config     Config
	httpClient *http.Client
	parks      *cache.Cache
}

// NewClient creates a new POTA API client.
func NewClient(config Config) *Client {
	config = config.withDefaults()
	return &Client{
		config:     config,
		httpClient: &http.Client{},
		parks:      cache.New(config.ParkCacheTTL, 2*config.ParkCacheTTL),
	}
}

// GetPark retrieves metadata for a park reference such as "K-0001".
func (c *Client) GetPark(ctx context.Context, reference string) (Park, error) {
	key := strings.ToUpper(strings.TrimSpace(reference))
	if key == "" {
		return nil, ErrParkNotFound
	}

	if cached, found := c.parks.Get(key); found {
		if park, ok := cached.(Park); ok {
			slog.Debug("park cache hit", "reference", key)
			return park, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.ParkTimeout)
	defer cancel()

	var park Park
	err := c.getJSON(ctx, "park", "/park/"+url.PathEscape(key), &park)
	var upErr *UpstreamError
	if errors.As(err, &upErr) && upErr.Status == http.StatusNotFound {
		return nil, ErrParkNotFound
	}
	if err != nil {
		return nil, err
	}
	// The API answers unknown references with a JSON null.
	if park == nil {
		return nil, ErrParkNotFound
	}

	c.parks.Set(key, park, cache.DefaultExpiration)
	return park, nil
}

// GetSpots retrieves the current activator spots.
func (c *Client) GetSpots(ctx context.Context) ([]Spot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.SpotTimeout)
	defer cancel()

	var spots []Spot
	if err := c.getJSON(ctx, "spots", "/spot/activator", &spots); err != nil {
		return nil, err
	}
	if spots == nil {
		spots = []Spot{}
	}

	slog.Debug("fetched activator spots", "count", len(spots))
	return spots, nil
}

// getJSON performs a GET and decodes a 200 response into v.
func (c *Client) getJSON(ctx context.Context, op, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &UpstreamError{
			Op:     op,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &UpstreamError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
