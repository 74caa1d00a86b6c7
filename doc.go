// Package straddle is a client for the Straddle payments API.
//
// - Client and Config: construction, environments and response validation
// - Services: one per resource (Accounts, Charges, Payouts, Customers, ...)
// - Models: typed views over the raw JSON the server sent, see package apijson
// - Params: header, query and body stores for outgoing requests
// - Page: page-number pagination over list endpoints
//
// Models keep fields the client does not know about, explicit nulls and enum
// values added by the server after this client was built. Reading a field
// decodes it on demand; Validate checks a whole model at once.
//
// Typical usage:
//
//	client, err := straddle.NewClient(straddle.Config{APIKey: key})
//
//	var params straddle.PayoutCreateParams
//	params.SetAmount(10000)
//	params.SetCurrency("USD")
//	...
//	resp, err := client.Payouts.Create(ctx, &params)
//	payout, err := resp.Data()
//	status, err := payout.Status()
//
//	page, err := client.Customers.List(ctx, nil)
//	for c, err := range page.All(ctx) {
//		...
//	}
package straddle
