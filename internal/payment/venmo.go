package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/net/publicsuffix"
)

// Ensure VenmoClient implements Client
var _ Client = (*VenmoClient)(nil)

// DefaultBaseURL is the public API root of the payment service.
const DefaultBaseURL = "https://api.venmo.com/v1"

// VenmoClient talks to the payment service's REST API.
type VenmoClient struct {
	baseURL     string
	accessToken string
	http        *http.Client
}

// NewVenmoClient creates a client for baseURL authenticated with accessToken.
// Every HTTP call is bounded by timeout.
func NewVenmoClient(baseURL, accessToken string, timeout time.Duration) (*VenmoClient, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &VenmoClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		http: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}, nil
}

// EnsureSession checks the access token against the account endpoint.
func (c *VenmoClient) EnsureSession(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/me", nil)
	if err != nil {
		return fmt.Errorf("failed to build session request: %w", err)
	}

	if err := c.do(req); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && isAuthStatus(apiErr.Status) {
			return fmt.Errorf("%w: %s", ErrAuth, apiErr.Message)
		}
		return fmt.Errorf("failed to check session: %w", err)
	}
	return nil
}

// RequestMoney charges target by posting a payment with a negative amount.
func (c *VenmoClient) RequestMoney(ctx context.Context, target string, amount decimal.Decimal, note string) error {
	form := url.Values{}
	form.Set("user", target)
	form.Set("amount", amount.Neg().StringFixed(2))
	form.Set("note", note)
	form.Set("audience", "private")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

// do sends req with credentials and converts non-2xx responses into *APIError.
func (c *VenmoClient) do(req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil {
		apiErr.Code = body.Error.Code
		apiErr.Message = body.Error.Message
	}
	return apiErr
}

func isAuthStatus(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}
