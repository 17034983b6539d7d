// Package midtrans implements the gateway adapter against the
// Midtrans Snap and Core APIs.
package midtrans

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"sekolah/config"
	"sekolah/pkg/errs"
	"sekolah/pkg/gateway"
	"sekolah/pkg/logger"
)

const (
	sandboxSnapBaseURL = "https://app.sandbox.midtrans.com"
	productionSnapBase = "https://app.midtrans.com"
	sandboxAPIBaseURL  = "https://api.sandbox.midtrans.com"
	productionAPIBase  = "https://api.midtrans.com"
)

// enabledPayments lists the channels offered on the hosted checkout.
var enabledPayments = []string{
	"credit_card",
	"bca_va",
	"bni_va",
	"bri_va",
	"permata_va",
	"other_va",
	"gopay",
	"shopeepay",
	"qris",
	"indomaret",
	"alfamart",
}

// Client talks to Midtrans over REST. Configuration is injected; the
// client never reads ambient state.
type Client struct {
	snap        *resty.Client
	api         *resty.Client
	serverKey   string
	finishURL   string
	expiryHours int
}

// NewClient builds the gateway client from the injected config.
func NewClient(cfg config.MidtransConfig) *Client {
	snapBase, apiBase := sandboxSnapBaseURL, sandboxAPIBaseURL
	if cfg.IsProduction {
		snapBase, apiBase = productionSnapBase, productionAPIBase
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	expiryHours := cfg.ExpiryHours
	if expiryHours <= 0 {
		expiryHours = 24
	}

	newRestyClient := func(base string) *resty.Client {
		return resty.New().
			SetBaseURL(base).
			SetTimeout(timeout).
			SetBasicAuth(cfg.ServerKey, "").
			SetHeader("Accept", "application/json").
			SetHeader("Content-Type", "application/json")
	}

	return &Client{
		snap:        newRestyClient(snapBase),
		api:         newRestyClient(apiBase),
		serverKey:   cfg.ServerKey,
		finishURL:   cfg.FinishURL,
		expiryHours: expiryHours,
	}
}

// CreateCheckout requests a Snap token for the hosted payment page.
func (c *Client) CreateCheckout(ctx context.Context, req *gateway.CheckoutRequest) (*gateway.Checkout, error) {
	body := snapRequest{
		TransactionDetails: snapTransactionDetails{
			OrderID:     req.OrderID,
			GrossAmount: req.GrossAmount,
		},
		ItemDetails:     req.Items,
		CustomerDetails: req.Customer,
		EnabledPayments: enabledPayments,
		Expiry: &snapExpiry{
			Duration: c.expiryHours,
			Unit:     "hours",
		},
	}
	if c.finishURL != "" {
		body.Callbacks = &snapCallbacks{Finish: c.finishURL}
	}

	var result snapResponse
	resp, err := c.snap.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post("/snap/v1/transactions")
	if err != nil {
		return nil, errs.Gatewayf("checkout", err)
	}
	if resp.IsError() {
		return nil, errs.Gatewayf("checkout", fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
	}
	if result.Token == "" {
		return nil, errs.Gatewayf("checkout", fmt.Errorf("empty snap token in response"))
	}

	return &gateway.Checkout{
		Token:       result.Token,
		RedirectURL: result.RedirectURL,
		ExpiredAt:   time.Now().Add(time.Duration(c.expiryHours) * time.Hour),
	}, nil
}

// QueryStatus pulls the transaction state from the Core API.
func (c *Client) QueryStatus(ctx context.Context, orderID string) (*gateway.StatusReport, error) {
	var raw map[string]interface{}
	resp, err := c.api.R().
		SetContext(ctx).
		SetResult(&raw).
		Get(fmt.Sprintf("/v2/%s/status", orderID))
	if err != nil {
		return nil, errs.Gatewayf("status", err)
	}
	if resp.IsError() {
		return nil, errs.Gatewayf("status", fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
	}

	return ParseStatusReport(raw), nil
}

// Cancel voids the transaction remotely.
func (c *Client) Cancel(ctx context.Context, orderID string) error {
	return c.postAction(ctx, orderID, "cancel", nil)
}

// Refund reverses a completed charge.
func (c *Client) Refund(ctx context.Context, orderID, reason string) error {
	body := map[string]interface{}{}
	if reason != "" {
		body["reason"] = reason
	}
	return c.postAction(ctx, orderID, "refund", body)
}

func (c *Client) postAction(ctx context.Context, orderID, action string, body interface{}) error {
	r := c.api.R().SetContext(ctx)
	if body != nil {
		r = r.SetBody(body)
	}
	resp, err := r.Post(fmt.Sprintf("/v2/%s/%s", orderID, action))
	if err != nil {
		return errs.Gatewayf(action, err)
	}
	if resp.IsError() {
		logger.WarnString("midtrans", action, resp.String())
		return errs.Gatewayf(action, fmt.Errorf("status %d", resp.StatusCode()))
	}
	return nil
}
