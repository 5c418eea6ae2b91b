// Package geocode resolves free-text addresses through the Google Geocoding API.
package geocode

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/vaheaslanyan/hoopscoop-backend/internal/apperr"
	dom "github.com/vaheaslanyan/hoopscoop-backend/internal/domain"
)

const (
	msgNoLocation  = "Could not find location for the specified address"
	msgUnavailable = "Could not resolve the address, please try again later"
)

// Result is a resolved address.
type Result struct {
	Address  string       `json:"address"`
	Location dom.Location `json:"location"`
}

// Resolver turns an address into coordinates and a canonical address.
type Resolver interface {
	Resolve(ctx context.Context, address string) (Result, error)
}

// Client calls the geocoding HTTP endpoint. It never retries.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a Client. A zero timeout means no client-side limit.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Resolve fails with a resolution error when the service finds nothing or
// answers with something unparseable.
func (c *Client) Resolve(ctx context.Context, address string) (Result, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", c.apiKey)
	endpoint := c.baseURL
	if strings.Contains(endpoint, "?") {
		endpoint += "&" + q.Encode()
	} else {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{}, apperr.Unknown(msgUnavailable, fmt.Errorf("build geocode request: %w", err))
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, apperr.Unknown(msgUnavailable, fmt.Errorf("geocode request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, apperr.Unknown(msgUnavailable, fmt.Errorf("read geocode response: %w", err))
	}
	return parse(body)
}

func parse(body []byte) (Result, error) {
	if !gjson.ValidBytes(body) {
		return Result{}, apperr.Resolution(msgNoLocation).Wrap(fmt.Errorf("geocode: invalid json payload"))
	}
	doc := gjson.ParseBytes(body)
	status := doc.Get("status").String()

	switch status {
	case "ZERO_RESULTS":
		return Result{}, apperr.Resolution(msgNoLocation)
	case "OK":
	case "":
		return Result{}, apperr.Resolution(msgNoLocation).Wrap(fmt.Errorf("geocode: payload without status"))
	default:
		return Result{}, apperr.Unknown(msgUnavailable,
			fmt.Errorf("geocode status %s: %s", status, doc.Get("error_message").String()))
	}

	first := doc.Get("results.0")
	lat := first.Get("geometry.location.lat")
	lng := first.Get("geometry.location.lng")
	if !first.Exists() || lat.Type != gjson.Number || lng.Type != gjson.Number {
		return Result{}, apperr.Resolution(msgNoLocation)
	}
	return Result{
		Address:  first.Get("formatted_address").String(),
		Location: dom.Location{Lat: lat.Float(), Lng: lng.Float()},
	}, nil
}
