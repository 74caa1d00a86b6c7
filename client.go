package straddle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/reoring/straddle-go/apijson"
	"github.com/reoring/straddle-go/transport"
)

// Version is the client version sent in the User-Agent header.
const Version = "0.4.0"

// Environment selects the API host.
type Environment string

const (
	EnvironmentSandbox    Environment = "sandbox"
	EnvironmentProduction Environment = "production"
)

var baseURLs = map[Environment]string{
	EnvironmentSandbox:    "https://sandbox.straddle.io",
	EnvironmentProduction: "https://production.straddle.io",
}

const (
	defaultTimeout    = 60 * time.Second
	defaultMaxRetries = 2
)

// Config holds the client settings.
type Config struct {
	// APIKey is sent as a bearer token. It may be empty only when Transport
	// handles authentication itself.
	APIKey string `validate:"required_without=Transport"`
	// Environment picks the base URL; sandbox when empty.
	Environment Environment `validate:"omitempty,oneof=sandbox production"`
	// BaseURL overrides the environment's base URL.
	BaseURL string `validate:"omitempty,url"`
	// Timeout bounds each HTTP attempt; 60s when zero.
	Timeout time.Duration `validate:"gte=0"`
	// MaxRetries is the number of retries after a failed attempt. Zero uses
	// the default of 2, a negative value disables retries.
	MaxRetries int `validate:"gte=-1,lte=10"`
	// ValidateResponses runs Validate on every decoded response envelope.
	ValidateResponses bool
	// StrictDuplicateKeys rejects response envelopes with repeated keys.
	StrictDuplicateKeys bool
	UserAgent           string
	Logger              *zerolog.Logger     `validate:"-"`
	HTTPClient          *http.Client        `validate:"-"`
	Transport           transport.Transport `validate:"-"`
}

// Client is the entry point to every resource.
type Client struct {
	Accounts        *AccountService
	Representatives *RepresentativeService
	Charges         *ChargeService
	Payouts         *PayoutService
	Customers       *CustomerService
	Paykeys         *PaykeyService
	FundingEvents   *FundingEventService
	Reports         *ReportService

	baseURL   string
	transport transport.Transport
	log       zerolog.Logger
	validate  bool
	parseOpts apijson.ParseOptions
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewClient validates cfg and builds a client.
func NewClient(cfg Config) (*Client, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	base := cfg.BaseURL
	if base == "" {
		env := cfg.Environment
		if env == "" {
			env = EnvironmentSandbox
		}
		base = baseURLs[env]
	}

	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = cfg.Logger.With().Str("component", "straddle").Logger()
	}

	tr := cfg.Transport
	if tr == nil {
		hc := cfg.HTTPClient
		if hc == nil {
			timeout := cfg.Timeout
			if timeout == 0 {
				timeout = defaultTimeout
			}
			hc = &http.Client{Timeout: timeout}
		}
		retries := cfg.MaxRetries
		switch {
		case retries == 0:
			retries = defaultMaxRetries
		case retries < 0:
			retries = 0
		}
		ua := cfg.UserAgent
		if ua == "" {
			ua = "straddle-go/" + Version
		}
		tr = transport.NewHTTP(transport.Options{
			APIKey:     cfg.APIKey,
			UserAgent:  ua,
			HTTPClient: hc,
			MaxRetries: uint(retries),
			Logger:     cfg.Logger,
		})
	}

	c := &Client{
		baseURL:   strings.TrimRight(base, "/"),
		transport: tr,
		log:       log,
		validate:  cfg.ValidateResponses,
	}
	if cfg.StrictDuplicateKeys {
		c.parseOpts.OnDuplicateKey = apijson.Error
	}
	c.Accounts = &AccountService{c: c}
	c.Representatives = &RepresentativeService{c: c}
	c.Charges = &ChargeService{c: c}
	c.Payouts = &PayoutService{c: c}
	c.Customers = &CustomerService{c: c}
	c.Paykeys = &PaykeyService{c: c}
	c.FundingEvents = &FundingEventService{c: c}
	c.Reports = &ReportService{c: c}
	return c, nil
}

// BaseURL returns the API host the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// operation is one API call about to be sent.
type operation struct {
	method string
	path   string
	params *requestParams
	// required lists body keys that must carry a value.
	required []string
}

func (c *Client) newRequest(op operation) (*transport.Request, error) {
	p := op.params
	if p == nil {
		p = &requestParams{}
	}
	if err := p.err(); err != nil {
		return nil, err
	}
	if err := p.requireBody(op.required...); err != nil {
		return nil, err
	}

	u := c.baseURL + op.path
	if q := p.urlQuery(); len(q) > 0 {
		u += "?" + q.Encode()
	}
	req := &transport.Request{
		Method: op.method,
		URL:    u,
		Header: p.httpHeader(),
	}
	if op.method != http.MethodGet && op.method != http.MethodDelete {
		body, err := json.Marshal(p.RawBodyData())
		if err != nil {
			return nil, err
		}
		req.Body = body
	}
	return req, nil
}

func (c *Client) send(ctx context.Context, op operation) ([]byte, error) {
	req, err := c.newRequest(op)
	if err != nil {
		return nil, err
	}
	resp, err := c.transport.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	c.log.Debug().
		Str("method", op.method).
		Str("path", op.path).
		Int("bytes", len(data)).
		Msg("response received")
	return data, nil
}

// do sends op and decodes a single-object envelope.
func do[T any](ctx context.Context, c *Client, op operation) (*Response[T], error) {
	data, err := c.send(ctx, op)
	if err != nil {
		return nil, err
	}
	resp, err := apijson.DecodeModel[Response[T]](data, c.parseOpts)
	if err != nil {
		return nil, err
	}
	if c.validate {
		if err := resp.Validate(); err != nil {
			return nil, err
		}
	}
	return &resp, nil
}

// list sends op and wraps the decoded list envelope in a Page.
func list[T any](ctx context.Context, c *Client, op operation, lp *listParams, fetch func(context.Context, int64) (*Page[T], error)) (*Page[T], error) {
	data, err := c.send(ctx, op)
	if err != nil {
		return nil, err
	}
	resp, err := apijson.DecodeModel[PagedResponse[T]](data, c.parseOpts)
	if err != nil {
		return nil, err
	}
	if c.validate {
		if err := resp.Validate(); err != nil {
			return nil, err
		}
	}
	items, err := resp.Data()
	if err != nil {
		return nil, err
	}
	return &Page[T]{resp: resp, items: items, pageNumber: lp.PageNumber(), fetch: fetch}, nil
}

func pathf(format string, ids ...string) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = url.PathEscape(id)
	}
	return fmt.Sprintf(format, args...)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool { return transport.IsStatus(err, http.StatusNotFound) }

// AsAPIError extracts the API error from err.
func AsAPIError(err error) (*APIError, bool) {
	var e *APIError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
