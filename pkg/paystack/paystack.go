package paystack

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrGateway wraps every failure reported by, or while talking to, Paystack.
var ErrGateway = errors.New("paystack request failed")

// Config holds Paystack connection details.
type Config struct {
	BaseURL   string
	SecretKey string
	Currency  string
	Timeout   time.Duration
}

// Client talks to the Paystack transaction API.
type Client struct {
	cfg Config
}

// NewClient creates a Paystack client, filling unset fields with defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.paystack.co"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Currency == "" {
		cfg.Currency = "NGN"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{cfg: cfg}
}

// InitializeRequest describes a charge. Amount is in whole currency units.
type InitializeRequest struct {
	Email   string
	Amount  int64
	Summary string
}

// Authorization is returned by a successful initialization.
type Authorization struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// Verification is the state of a transaction. Amount is in minor units (kobo).
type Verification struct {
	Status    string    `json:"status"`
	Reference string    `json:"reference"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Channel   string    `json:"channel"`
	PaidAt    time.Time `json:"paid_at"`
}

// WholeAmount converts the verified amount to whole currency units.
func (v Verification) WholeAmount() int64 {
	return v.Amount / 100
}

type customField struct {
	DisplayName  string `json:"display_name"`
	VariableName string `json:"variable_name"`
	Value        string `json:"value"`
}

type initializeBody struct {
	Email    string `json:"email"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Metadata struct {
		CustomFields []customField `json:"custom_fields"`
	} `json:"metadata"`
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize starts a transaction and returns the hosted payment page.
func (c *Client) Initialize(req InitializeRequest) (*Authorization, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %d", ErrGateway, req.Amount)
	}

	body := initializeBody{
		Email:    req.Email,
		Amount:   req.Amount * 100,
		Currency: c.cfg.Currency,
	}
	body.Metadata.CustomFields = []customField{{
		DisplayName:  "Order Summary",
		VariableName: "order_summary",
		Value:        req.Summary,
	}}

	agent := fiber.Post(c.cfg.BaseURL + "/transaction/initialize").JSON(body)

	var auth Authorization
	if err := c.do(agent, &auth); err != nil {
		return nil, err
	}
	if auth.AuthorizationURL == "" {
		return nil, fmt.Errorf("%w: response has no authorization_url", ErrGateway)
	}
	return &auth, nil
}

// Verify fetches the current state of the transaction with reference.
func (c *Client) Verify(reference string) (*Verification, error) {
	if reference == "" {
		return nil, fmt.Errorf("%w: reference is required", ErrGateway)
	}

	agent := fiber.Get(c.cfg.BaseURL + "/transaction/verify/" + url.PathEscape(reference))

	var v Verification
	if err := c.do(agent, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) do(agent *fiber.Agent, out any) error {
	agent.Set(fiber.HeaderAuthorization, "Bearer "+c.cfg.SecretKey).
		Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON).
		Timeout(c.cfg.Timeout)

	if err := agent.Parse(); err != nil {
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", ErrGateway, errors.Join(errs...))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: HTTP %d: failed to decode response: %v", ErrGateway, code, err)
	}
	if code >= fiber.StatusMultipleChoices || !env.Status {
		return fmt.Errorf("%w: HTTP %d: %s", ErrGateway, code, env.Message)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("%w: response has no data", ErrGateway)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: failed to decode data: %v", ErrGateway, err)
	}
	return nil
}
