/**
 * @description
 * This package provides a client for interacting with the payment processor's
 * API. It encapsulates the logic for making authenticated HTTP requests to the
 * processor's endpoints, handling request body construction, and parsing
 * responses. Money collected for a pledge sits on the processor charge until
 * payout time; transfers carve recipient shares out of that charge.
 *
 * @dependencies
 * - bytes, context, encoding/json, fmt, net/http, time: Standard Go libraries.
 * - github.com/google/uuid: For pledge identifiers in processor metadata.
 * - internal/domain: Charge and invoice shapes returned to the service.
 */
package paymentclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/issuepay/pledge-service/internal/domain"
)

// Client is a client for the payment processor API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a new payment processor client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ErrorResponse represents an error from the processor API.
type ErrorResponse struct {
	Errors []struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
		Status string `json:"status"`
	} `json:"errors"`
}

func (e *ErrorResponse) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("payment api error: %s - %s", e.Errors[0].Title, e.Errors[0].Detail)
	}
	return "unknown payment api error"
}

type chargeRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}

type chargeResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// CreateCharge registers a payment intent for a pay-upfront pledge. The pledge
// id travels in the metadata so webhook confirmations can be correlated.
func (c *Client) CreateCharge(ctx context.Context, amount int64, currency string, pledgeID uuid.UUID) (*domain.Charge, error) {
	payload := chargeRequest{
		Amount:   amount,
		Currency: currency,
		Metadata: map[string]string{"pledge_id": pledgeID.String()},
	}
	var resp chargeResponse
	if err := c.do(ctx, "POST", "/v1/payment_intents", payload, &resp); err != nil {
		return nil, err
	}
	return &domain.Charge{PaymentRef: resp.ID, ClientSecret: resp.ClientSecret}, nil
}

type invoiceRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Email    string            `json:"email"`
	Metadata map[string]string `json:"metadata"`
}

type invoiceResponse struct {
	ID        string `json:"id"`
	HostedURL string `json:"hosted_invoice_url"`
}

// CreateInvoice issues a hosted invoice for a pay-on-completion pledge.
func (c *Client) CreateInvoice(ctx context.Context, amount int64, currency string, pledgeID uuid.UUID, email string) (*domain.Invoice, error) {
	payload := invoiceRequest{
		Amount:   amount,
		Currency: currency,
		Email:    email,
		Metadata: map[string]string{"pledge_id": pledgeID.String()},
	}
	var resp invoiceResponse
	if err := c.do(ctx, "POST", "/v1/invoices", payload, &resp); err != nil {
		return nil, err
	}
	return &domain.Invoice{ID: resp.ID, HostedURL: resp.HostedURL}, nil
}

type transferRequest struct {
	SourcePaymentRef string `json:"source_payment_ref"`
	Destination      string `json:"destination"`
	Amount           int64  `json:"amount"`
}

type transferResponse struct {
	ID string `json:"id"`
}

// CreateBalanceFromPaymentRef moves a recipient's share out of the charge
// identified by paymentRef into the destination processor account.
func (c *Client) CreateBalanceFromPaymentRef(ctx context.Context, paymentRef, destinationProcessorID string, amount int64) (string, error) {
	payload := transferRequest{
		SourcePaymentRef: paymentRef,
		Destination:      destinationProcessorID,
		Amount:           amount,
	}
	var resp transferResponse
	if err := c.do(ctx, "POST", "/v1/transfers", payload, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// CreateFeesReversalBalances reverses the platform fee portion associated with
// a transfer so the recipient is not charged the processor fee twice.
func (c *Client) CreateFeesReversalBalances(ctx context.Context, paymentRef, destinationProcessorID string, amount int64) error {
	payload := transferRequest{
		SourcePaymentRef: paymentRef,
		Destination:      destinationProcessorID,
		Amount:           amount,
	}
	return c.do(ctx, "POST", "/v1/transfers/fee_reversals", payload, nil)
}

type refundRequest struct {
	PaymentRef string `json:"payment_ref"`
	Amount     int64  `json:"amount"`
}

type refundResponse struct {
	ID string `json:"id"`
}

// Refund returns the full pledge amount to the pledger.
func (c *Client) Refund(ctx context.Context, paymentRef string, amount int64) (string, error) {
	payload := refundRequest{PaymentRef: paymentRef, Amount: amount}
	var resp refundResponse
	if err := c.do(ctx, "POST", "/v1/refunds", payload, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// do is a generic helper to execute authenticated processor requests.
func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp ErrorResponse
		if err := json.Unmarshal(bodyBytes, &errResp); err != nil {
			log.Printf("level=warn component=payment_client op=%s status=%d msg=\"non-2xx response (unparsable error body)\"", path, resp.StatusCode)
			return fmt.Errorf("failed to decode error response (status %d)", resp.StatusCode)
		}
		log.Printf("level=warn component=payment_client op=%s status=%d err=%q", path, resp.StatusCode, errResp.Error())
		return &errResp
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode success response: %w", err)
	}
	return nil
}
