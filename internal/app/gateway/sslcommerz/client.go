// internal/app/gateway/sslcommerz/client.go
package sslcommerz

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Error kinds. BadRequest covers rejected input (missing credentials,
// bad amount); UpstreamFailure covers transport errors and responses
// missing the redirect URL.
const (
	KindBadRequest      = "bad-request"
	KindUpstreamFailure = "upstream-failure"
)

// GatewayError is returned for any failed interaction with the payment
// gateway.
type GatewayError struct {
	Kind   string
	Reason string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("sslcommerz: %s: %s", e.Kind, e.Reason)
}

// Config holds gateway credentials and endpoints. Sandbox and live use
// different API hosts; BaseURL carries the chosen one.
type Config struct {
	StoreID       string
	StorePassword string
	BaseURL       string // e.g. https://sandbox.sslcommerz.com
	Timeout       time.Duration
}

// Session describes a payment to initiate. SuccessURL, FailURL and
// CancelURL are where the gateway sends the customer back; IPNURL
// receives the server-to-server status callback.
type Session struct {
	TransactionRef string
	Amount         int // BDT
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	SuccessURL     string
	FailURL        string
	CancelURL      string
	IPNURL         string
}

// InitiatedSession is the result of a successful session creation. The
// browser is redirected to GatewayPageURL; SessionKey identifies the
// session on later status lookups.
type InitiatedSession struct {
	GatewayPageURL string
	SessionKey     string
}

type Client struct {
	config Config
	http   *http.Client
}

func New(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
	}
}

// IsConfigured reports whether store credentials are present.
func (c *Client) IsConfigured() bool {
	return c.config.StoreID != "" && c.config.StorePassword != ""
}

type sessionResponse struct {
	Status         string `json:"status"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
	FailedReason   string `json:"failedreason"`
}

// InitiateSession creates a payment session at the gateway and returns
// the redirect target.
func (c *Client) InitiateSession(ctx context.Context, s Session) (*InitiatedSession, error) {
	if c.config.StoreID == "" || c.config.StorePassword == "" {
		return nil, &GatewayError{Kind: KindBadRequest, Reason: "store credentials not configured"}
	}
	if s.Amount <= 0 {
		return nil, &GatewayError{Kind: KindBadRequest, Reason: "amount must be positive"}
	}
	if s.TransactionRef == "" {
		return nil, &GatewayError{Kind: KindBadRequest, Reason: "missing transaction ref"}
	}

	form := url.Values{
		"store_id":     {c.config.StoreID},
		"store_passwd": {c.config.StorePassword},
		"total_amount": {strconv.Itoa(s.Amount)},
		"currency":     {"BDT"},
		"tran_id":      {s.TransactionRef},
		"success_url":  {s.SuccessURL},
		"fail_url":     {s.FailURL},
		"cancel_url":   {s.CancelURL},
		"ipn_url":      {s.IPNURL},
		"cus_name":     {s.CustomerName},
		"cus_email":    {s.CustomerEmail},
		"cus_phone":    {s.CustomerPhone},
		"cus_add1":     {"Dhaka"},
		"cus_city":     {"Dhaka"},
		"cus_country":  {"Bangladesh"},
		"shipping_method": {"NO"},
		"product_name":     {"Annual Membership Fee"},
		"product_category": {"Membership"},
		"product_profile":  {"non-physical-goods"},
	}

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/gwprocess/v4/api.php"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &GatewayError{Kind: KindBadRequest, Reason: err.Error()}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &GatewayError{Kind: KindUpstreamFailure, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &GatewayError{Kind: KindUpstreamFailure, Reason: fmt.Sprintf("gateway returned %d", resp.StatusCode)}
	}

	var body sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &GatewayError{Kind: KindUpstreamFailure, Reason: "malformed gateway response"}
	}
	if !strings.EqualFold(body.Status, "SUCCESS") {
		reason := body.FailedReason
		if reason == "" {
			reason = "session rejected"
		}
		return nil, &GatewayError{Kind: KindBadRequest, Reason: reason}
	}
	if body.GatewayPageURL == "" {
		return nil, &GatewayError{Kind: KindUpstreamFailure, Reason: "response missing GatewayPageURL"}
	}

	return &InitiatedSession{
		GatewayPageURL: body.GatewayPageURL,
		SessionKey:     body.SessionKey,
	}, nil
}
