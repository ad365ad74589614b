/**
 * @description
 * This package provides a client for communicating with the account-service.
 * It encapsulates the logic for resolving the payout account of a reward
 * recipient, whether the recipient is an organization or a user.
 */
package accountclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/issuepay/pledge-service/internal/domain"
)

// Client is a client for the account service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new account service client.
func NewClient(baseURL string, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// GetOrganizationAccount fetches an organization's payout account.
func (c *Client) GetOrganizationAccount(ctx context.Context, organizationID uuid.UUID) (*domain.Account, error) {
	return c.getAccount(ctx, fmt.Sprintf("/internal/accounts/organizations/%s", organizationID))
}

// GetUserAccount fetches a user's payout account.
func (c *Client) GetUserAccount(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	return c.getAccount(ctx, fmt.Sprintf("/internal/accounts/users/%s", userID))
}

func (c *Client) getAccount(ctx context.Context, path string) (*domain.Account, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("account service base url is empty")
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if strings.TrimSpace(c.apiKey) != "" {
		req.Header.Set("X-Internal-API-Key", strings.TrimSpace(c.apiKey))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request to account service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("account not found")
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("account service returned error status %d", resp.StatusCode)
	}

	var account domain.Account
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &account, nil
}
