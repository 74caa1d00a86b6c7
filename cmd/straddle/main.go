// Command straddle is a small command-line client for the Straddle API.
// Every command prints the raw JSON the API returned.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	straddle "github.com/reoring/straddle-go"
	"github.com/reoring/straddle-go/apijson"
	"github.com/reoring/straddle-go/config"
)

type CLI struct {
	Config   string `help:"Path to a YAML config file." short:"c" type:"path"`
	BaseURL  string `help:"Override the API base URL." name:"base-url"`
	Account  string `help:"Act on behalf of this account (Straddle-Account-Id)." name:"account"`
	Validate bool   `help:"Validate decoded responses against the known schema."`
	Debug    bool   `help:"Enable debug logging." short:"d"`

	Get     GetCmd     `cmd:"" help:"Fetch one resource by id."`
	List    ListCmd    `cmd:"" help:"List a resource."`
	Report  ReportCmd  `cmd:"" help:"Run a report."`
	Payouts PayoutsCmd `cmd:"" help:"Payout operations."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

// runtime is bound into every command's Run method.
type runtime struct {
	ctx     context.Context
	out     io.Writer
	log     zerolog.Logger
	cli     *CLI
	client  *straddle.Client
	account string
}

func (r *runtime) Client() (*straddle.Client, error) {
	if r.client != nil {
		return r.client, nil
	}
	cfg, err := config.Load(r.cli.Config)
	if err != nil {
		return nil, err
	}
	if r.cli.BaseURL != "" {
		cfg.BaseURL = r.cli.BaseURL
	}
	if r.cli.Validate {
		cfg.ValidateResponses = true
	}
	if r.cli.Debug {
		r.log = r.log.Level(zerolog.DebugLevel)
	} else if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		r.log = r.log.Level(lvl)
	}
	c, err := cfg.Client(&r.log)
	if err != nil {
		return nil, err
	}
	r.client = c
	return c, nil
}

func (r *runtime) print(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(r.out, string(data))
	return err
}

type headerSetter interface {
	SetStraddleAccountID(string)
}

func (r *runtime) scope(p headerSetter) { p.SetStraddleAccountID(r.cli.Account) }

type VersionCmd struct{}

func (c *VersionCmd) Run(rt *runtime) error {
	_, err := fmt.Fprintf(rt.out, "straddle %s\n", straddle.Version)
	return err
}

type GetCmd struct {
	Resource string `arg:"" enum:"accounts,representatives,customers,paykeys,charges,payouts,funding-events" help:"Resource kind (${enum})."`
	ID       string `arg:"" help:"Resource id."`
	Unmasked bool   `help:"Fetch the unmasked form where the API offers one."`
}

func (c *GetCmd) Run(rt *runtime) error {
	client, err := rt.Client()
	if err != nil {
		return err
	}
	var resp any
	switch c.Resource {
	case "accounts":
		p := &straddle.AccountGetParams{}
		rt.scope(p)
		resp, err = client.Accounts.Get(rt.ctx, c.ID, p)
	case "representatives":
		p := &straddle.RepresentativeGetParams{}
		rt.scope(p)
		if c.Unmasked {
			resp, err = client.Representatives.Unmask(rt.ctx, c.ID, p)
			break
		}
		resp, err = client.Representatives.Get(rt.ctx, c.ID, p)
	case "customers":
		p := &straddle.CustomerGetParams{}
		rt.scope(p)
		if c.Unmasked {
			resp, err = client.Customers.Unmasked(rt.ctx, c.ID, p)
			break
		}
		resp, err = client.Customers.Get(rt.ctx, c.ID, p)
	case "paykeys":
		p := &straddle.PaykeyGetParams{}
		rt.scope(p)
		if c.Unmasked {
			resp, err = client.Paykeys.Unmasked(rt.ctx, c.ID, p)
			break
		}
		resp, err = client.Paykeys.Get(rt.ctx, c.ID, p)
	case "charges":
		p := &straddle.ChargeGetParams{}
		rt.scope(p)
		if c.Unmasked {
			resp, err = client.Charges.Unmask(rt.ctx, c.ID, p)
			break
		}
		resp, err = client.Charges.Get(rt.ctx, c.ID, p)
	case "payouts":
		p := &straddle.PayoutGetParams{}
		rt.scope(p)
		if c.Unmasked {
			resp, err = client.Payouts.Unmask(rt.ctx, c.ID, p)
			break
		}
		resp, err = client.Payouts.Get(rt.ctx, c.ID, p)
	case "funding-events":
		p := &straddle.FundingEventGetParams{}
		rt.scope(p)
		resp, err = client.FundingEvents.Get(rt.ctx, c.ID, p)
	default:
		return fmt.Errorf("unknown resource %q", c.Resource)
	}
	if err != nil {
		return err
	}
	return rt.print(resp)
}

type ListCmd struct {
	Resource   string `arg:"" enum:"accounts,representatives,customers,paykeys,funding-events,capability-requests" help:"Resource kind (${enum})."`
	PageNumber int64  `help:"Page to fetch." default:"1"`
	PageSize   int64  `help:"Items per page." default:"0"`
	SortBy     string `help:"Sort field."`
	SortOrder  string `help:"Sort order (asc or desc)."`
	All        bool   `help:"Follow pages and print one item per line."`
	AccountID  string `help:"Account id for capability-requests and representatives." name:"account-id"`
	CustomerID string `help:"Customer id filter for paykeys." name:"customer-id"`
}

type pageable interface {
	headerSetter
	SetPageNumber(int64)
	SetPageSize(int64)
	SetSortBy(string)
	SetSortOrder(straddle.SortOrder)
}

func (c *ListCmd) apply(rt *runtime, p pageable) {
	rt.scope(p)
	if c.PageNumber > 1 {
		p.SetPageNumber(c.PageNumber)
	}
	if c.PageSize > 0 {
		p.SetPageSize(c.PageSize)
	}
	if c.SortBy != "" {
		p.SetSortBy(c.SortBy)
	}
	if c.SortOrder != "" {
		p.SetSortOrder(straddle.SortOrder(c.SortOrder))
	}
}

func (c *ListCmd) Validate() error {
	if c.SortOrder != "" && !straddle.SortOrder(c.SortOrder).IsKnown() {
		return fmt.Errorf("invalid --sort-order %q (allowed: asc|desc)", c.SortOrder)
	}
	return nil
}

func (c *ListCmd) Run(rt *runtime) error {
	client, err := rt.Client()
	if err != nil {
		return err
	}
	switch c.Resource {
	case "accounts":
		p := &straddle.AccountListParams{}
		c.apply(rt, p)
		return emit[straddle.Account](rt, c.All)(client.Accounts.List(rt.ctx, p))
	case "representatives":
		p := &straddle.RepresentativeListParams{}
		c.apply(rt, p)
		if c.AccountID != "" {
			p.SetAccountID(c.AccountID)
		}
		return emit[straddle.Representative](rt, c.All)(client.Representatives.List(rt.ctx, p))
	case "customers":
		p := &straddle.CustomerListParams{}
		c.apply(rt, p)
		return emit[straddle.Customer](rt, c.All)(client.Customers.List(rt.ctx, p))
	case "paykeys":
		p := &straddle.PaykeyListParams{}
		c.apply(rt, p)
		if c.CustomerID != "" {
			p.SetCustomerID(c.CustomerID)
		}
		return emit[straddle.Paykey](rt, c.All)(client.Paykeys.List(rt.ctx, p))
	case "funding-events":
		p := &straddle.FundingEventListParams{}
		c.apply(rt, p)
		return emit[straddle.FundingEvent](rt, c.All)(client.FundingEvents.List(rt.ctx, p))
	case "capability-requests":
		p := &straddle.CapabilityRequestListParams{}
		c.apply(rt, p)
		return emit[straddle.CapabilityRequest](rt, c.All)(client.Accounts.ListCapabilityRequests(rt.ctx, c.AccountID, p))
	}
	return fmt.Errorf("unknown resource %q", c.Resource)
}

// emit prints a page envelope, or with all set every item across pages.
func emit[T any](rt *runtime, all bool) func(*straddle.Page[T], error) error {
	return func(page *straddle.Page[T], err error) error {
		if err != nil {
			return err
		}
		if !all {
			return rt.print(page.Response())
		}
		for item, err := range page.All(rt.ctx) {
			if err != nil {
				return err
			}
			if err := rt.print(item); err != nil {
				return err
			}
		}
		return nil
	}
}

type ReportCmd struct {
	CustomersByStatus CustomersByStatusCmd `cmd:"" name:"customers-by-status" help:"Count customers per status."`
}

type CustomersByStatusCmd struct{}

func (c *CustomersByStatusCmd) Run(rt *runtime) error {
	client, err := rt.Client()
	if err != nil {
		return err
	}
	p := &straddle.ReportParams{}
	rt.scope(p)
	resp, err := client.Reports.TotalCustomersByStatus(rt.ctx, p)
	if err != nil {
		return err
	}
	return rt.print(resp)
}

type PayoutsCmd struct {
	Create  PayoutCreateCmd  `cmd:"" help:"Create a payout."`
	Cancel  PayoutCancelCmd  `cmd:"" help:"Cancel a payout."`
	Hold    PayoutHoldCmd    `cmd:"" help:"Put a payout on hold."`
	Release PayoutReleaseCmd `cmd:"" help:"Release a held payout."`
}

type PayoutCreateCmd struct {
	Paykey         string            `help:"Paykey to pay out to." required:""`
	Amount         int64             `help:"Amount in cents." required:""`
	Currency       string            `help:"ISO currency code." default:"USD"`
	Description    string            `help:"Payout description." required:""`
	ExternalID     string            `help:"Your id for the payout." name:"external-id" required:""`
	PaymentDate    string            `help:"Payment date (YYYY-MM-DD)." name:"payment-date" required:""`
	IPAddress      string            `help:"Device IP address." name:"ip" default:"127.0.0.1"`
	IdempotencyKey string            `help:"Idempotency key; random when empty." name:"idempotency-key"`
	Metadata       map[string]string `help:"Metadata key=value pairs." mapsep:","`
}

func (c *PayoutCreateCmd) Run(rt *runtime) error {
	client, err := rt.Client()
	if err != nil {
		return err
	}
	date, err := apijson.ParseDate(c.PaymentDate)
	if err != nil {
		return fmt.Errorf("invalid --payment-date: %w", err)
	}
	key := c.IdempotencyKey
	if key == "" {
		key = straddle.NewIdempotencyKey()
	}
	p := &straddle.PayoutCreateParams{}
	rt.scope(p)
	p.SetIdempotencyKey(key)
	p.SetPaykey(c.Paykey)
	p.SetAmount(c.Amount)
	p.SetCurrency(strings.ToUpper(c.Currency))
	p.SetDescription(c.Description)
	p.SetExternalID(c.ExternalID)
	p.SetPaymentDate(date)
	p.SetDevice(straddle.NewDeviceInfo(c.IPAddress))
	if len(c.Metadata) > 0 {
		p.SetMetadata(c.Metadata)
	}
	rt.log.Debug().Str("idempotency_key", key).Msg("creating payout")
	resp, err := client.Payouts.Create(rt.ctx, p)
	if err != nil {
		return err
	}
	return rt.print(resp)
}

type PayoutActionArgs struct {
	ID     string `arg:"" help:"Payout id."`
	Reason string `help:"Reason recorded with the action."`
}

type payoutActionFunc func(*straddle.PayoutService, context.Context, string, *straddle.PayoutActionParams) (*straddle.Response[straddle.Payout], error)

func (a *PayoutActionArgs) run(rt *runtime, fn payoutActionFunc) error {
	client, err := rt.Client()
	if err != nil {
		return err
	}
	p := &straddle.PayoutActionParams{}
	rt.scope(p)
	if a.Reason != "" {
		p.SetReason(&a.Reason)
	}
	resp, err := fn(client.Payouts, rt.ctx, a.ID, p)
	if err != nil {
		return err
	}
	return rt.print(resp)
}

type PayoutCancelCmd struct {
	PayoutActionArgs `embed:""`
}

func (c *PayoutCancelCmd) Run(rt *runtime) error {
	return c.run(rt, (*straddle.PayoutService).Cancel)
}

type PayoutHoldCmd struct {
	PayoutActionArgs `embed:""`
}

func (c *PayoutHoldCmd) Run(rt *runtime) error { return c.run(rt, (*straddle.PayoutService).Hold) }

type PayoutReleaseCmd struct {
	PayoutActionArgs `embed:""`
}

func (c *PayoutReleaseCmd) Run(rt *runtime) error {
	return c.run(rt, (*straddle.PayoutService).Release)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("straddle"),
		kong.Description("Command-line client for the Straddle payments API."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).With().Timestamp().Logger()
	return kctx.Run(&runtime{ctx: ctx, out: stdout, log: logger, cli: cli})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "straddle: %v\n", err)
		if apiErr, ok := straddle.AsAPIError(err); ok && apiErr.RequestID != "" {
			fmt.Fprintf(os.Stderr, "request id: %s\n", apiErr.RequestID)
		}
		os.Exit(1)
	}
}
