package prayer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const defaultBaseURL = "https://api.aladhan.com"

// Sentinel errors distinguish user-correctable failures from transient
// ones: a not-found location wants a different city, a service or network
// failure wants a retry. All are recoverable; none crash the app.
var (
	ErrLocationNotFound = errors.New("prayer: location not found")
	ErrService          = errors.New("prayer: service failure")
)

// Timings maps prayer name to a local time-of-day string as reported by
// the AlAdhan service.
type Timings map[string]string

// DisplayOrder is the conventional ordering for rendering timings.
var DisplayOrder = []string{"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha"}

// Method is a named AlAdhan calculation method.
type Method struct {
	ID   int
	Name string
}

// Methods lists the calculation methods offered to the user.
var Methods = []Method{
	{ID: 1, Name: "Muslim World League"},
	{ID: 2, Name: "ISNA (North America)"},
	{ID: 3, Name: "Egyptian General Authority"},
	{ID: 4, Name: "Umm Al-Qura, Makkah"},
	{ID: 5, Name: "University of Islamic Sciences, Karachi"},
	{ID: 12, Name: "UOIF (France)"},
}

// Client fetches prayer timings, caching successful city lookups for the
// rest of the session keyed by (date, city, country) so repeated views
// cost one network call.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	cache map[string]Timings
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the service endpoint. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient substitutes the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		cache:   make(map[string]Timings),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ByCity looks up timings for a date by city and country name.
func (c *Client) ByCity(ctx context.Context, date time.Time, city, country string, method int) (Timings, error) {
	key := cacheKey(date, city, country)

	c.mu.Lock()
	if cached, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	q := url.Values{}
	q.Set("city", city)
	q.Set("country", country)
	q.Set("method", strconv.Itoa(method))
	endpoint := fmt.Sprintf("%s/v1/timingsByCity/%s?%s", c.baseURL, apiDate(date), q.Encode())

	timings, err := c.fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[key] = timings
	c.mu.Unlock()
	return timings, nil
}

// ByCoordinates looks up timings for a date by geographic position.
// Coordinate lookups are not cached: positions vary continuously and the
// session cache contract only covers (date, city, country).
func (c *Client) ByCoordinates(ctx context.Context, date time.Time, lat, lon float64, method int) (Timings, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("method", strconv.Itoa(method))
	endpoint := fmt.Sprintf("%s/v1/timings/%s?%s", c.baseURL, apiDate(date), q.Encode())

	return c.fetch(ctx, endpoint)
}

type apiResponse struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
}

type apiData struct {
	Timings Timings `json:"timings"`
}

func (c *Client) fetch(ctx context.Context, endpoint string) (Timings, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrService, err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrService, err)
	}
	defer res.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: unreadable response: %v", ErrService, err)
	}

	if res.StatusCode == http.StatusNotFound || body.Code == http.StatusNotFound {
		return nil, ErrLocationNotFound
	}
	if res.StatusCode != http.StatusOK || body.Code != http.StatusOK {
		// The service reports errors as a string in data.
		var detail string
		_ = json.Unmarshal(body.Data, &detail)
		if detail != "" {
			return nil, fmt.Errorf("%w: %s", ErrService, detail)
		}
		return nil, fmt.Errorf("%w: status %d", ErrService, res.StatusCode)
	}

	var data apiData
	if err := json.Unmarshal(body.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: unexpected response shape: %v", ErrService, err)
	}
	if len(data.Timings) == 0 {
		return nil, fmt.Errorf("%w: empty timings", ErrService)
	}
	return data.Timings, nil
}

// apiDate formats the date the way the AlAdhan path segment expects
// (DD-MM-YYYY).
func apiDate(t time.Time) string {
	return t.Format("02-01-2006")
}

func cacheKey(date time.Time, city, country string) string {
	return date.Format("2006-01-02") + "|" + city + "|" + country
}
