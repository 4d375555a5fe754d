package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"providerhub/models"
	"providerhub/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// AddressNotFound is the text shown for a point that could not be resolved.
const AddressNotFound = "Address not found"

const (
	defaultSearchLimit = 5
	maxSearchLimit     = 10
)

var (
	// ErrAddressUnavailable covers every failure to turn input into an
	// address: upstream errors, empty results and out of range points.
	ErrAddressUnavailable = errors.New("address unavailable")
	ErrEmptyQuery         = errors.New("search query is empty")
)

// Client talks to the OpenCage geocoding API.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
	Limiter *rate.Limiter
	// Cache holds reverse lookups by rounded coordinates. Nil disables it.
	Cache    *redis.Client
	CacheTTL time.Duration
}

func NewClient(baseURL, apiKey string, perSecond float64, cache *redis.Client, ttl time.Duration) *Client {
	if perSecond <= 0 {
		perSecond = 1
	}
	return &Client{
		HTTP:     &http.Client{Timeout: 10 * time.Second},
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Limiter:  rate.NewLimiter(rate.Limit(perSecond), 1),
		Cache:    cache,
		CacheTTL: ttl,
	}
}

type openCageResponse struct {
	Results []struct {
		Formatted string `json:"formatted"`
		Geometry  struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geometry"`
	} `json:"results"`
	Status struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"status"`
}

func validPoint(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func cacheKey(lat, lng float64) string {
	return utils.GeocodeCachePrefix + strconv.FormatFloat(lat, 'f', 4, 64) + "," + strconv.FormatFloat(lng, 'f', 4, 64)
}

// ReverseGeocode returns the formatted address at lat,lng.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (models.Address, error) {
	addr := models.Address{Latitude: lat, Longitude: lng}
	if !validPoint(lat, lng) {
		return addr, fmt.Errorf("%w: coordinates out of range", ErrAddressUnavailable)
	}

	key := cacheKey(lat, lng)
	if c.Cache != nil {
		if cached, err := c.Cache.Get(ctx, key).Result(); err == nil {
			addr.Address = cached
			return addr, nil
		} else if err != redis.Nil {
			utils.GetLogger().Warn("geocode cache read failed", zap.Error(err))
		}
	}

	q := strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
	res, err := c.query(ctx, q, 1)
	if err != nil {
		return addr, err
	}
	if len(res.Results) == 0 || res.Results[0].Formatted == "" {
		return addr, fmt.Errorf("%w: no result", ErrAddressUnavailable)
	}
	addr.Address = res.Results[0].Formatted

	if c.Cache != nil {
		if err := c.Cache.Set(ctx, key, addr.Address, c.CacheTTL).Err(); err != nil {
			utils.GetLogger().Warn("geocode cache write failed", zap.Error(err))
		}
	}
	return addr, nil
}

// Search returns up to limit addresses matching a free text query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]models.Address, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	res, err := c.query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]models.Address, 0, len(res.Results))
	for _, r := range res.Results {
		out = append(out, models.Address{
			Address:   r.Formatted,
			Latitude:  r.Geometry.Lat,
			Longitude: r.Geometry.Lng,
		})
	}
	return out, nil
}

func (c *Client) query(ctx context.Context, q string, limit int) (*openCageResponse, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("%w: geocoding key not configured", ErrAddressUnavailable)
	}
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAddressUnavailable, err)
		}
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("key", c.APIKey)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("no_annotations", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAddressUnavailable, err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAddressUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: upstream status %d", ErrAddressUnavailable, resp.StatusCode)
	}
	var body openCageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrAddressUnavailable, err)
	}
	return &body, nil
}
