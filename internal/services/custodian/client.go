// Package custodian talks to the external Circle-style custodian REST
// API. Only the operations the orchestrator needs are implemented.
package custodian

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ErrUpstream wraps every transport or non-2xx failure from the
// custodian so callers can treat all of them as one class.
var ErrUpstream = errors.New("custodian request failed")

// WalletBalance is the custodian's view of a wallet.
type WalletBalance struct {
	Balance          float64
	AvailableBalance float64
	PendingBalance   float64
}

// Wallet is a newly created custodian wallet.
type Wallet struct {
	WalletID string
	Address  string
}

// Client is the custodian API surface used by the orchestrator.
type Client interface {
	GetWalletBalance(ctx context.Context, custodianWalletID string) (*WalletBalance, error)
	CreateWallet(ctx context.Context, userID uint, description string) (*Wallet, error)
}

// Config holds custodian client configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a Circle REST client. Callers bound individual
// requests through their context; Timeout is only the transport
// ceiling.
func NewClient(cfg Config) Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

type balanceResponse struct {
	Data struct {
		Balance   string `json:"balance"`
		Available string `json:"available"`
		Pending   string `json:"pending"`
	} `json:"data"`
}

func (c *client) GetWalletBalance(ctx context.Context, custodianWalletID string) (*WalletBalance, error) {
	var resp balanceResponse
	url := fmt.Sprintf("%s/v1/wallets/%s/balances", c.baseURL, custodianWalletID)
	if err := c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}

	balance, err := parseAmount(resp.Data.Balance)
	if err != nil {
		return nil, err
	}
	available, err := parseAmount(resp.Data.Available)
	if err != nil {
		return nil, err
	}
	pending, err := parseAmount(resp.Data.Pending)
	if err != nil {
		return nil, err
	}

	return &WalletBalance{
		Balance:          balance,
		AvailableBalance: available,
		PendingBalance:   pending,
	}, nil
}

type createWalletRequest struct {
	IdempotencyKey string `json:"idempotencyKey"`
	EntityID       string `json:"entityId"`
	Description    string `json:"description"`
}

type createWalletResponse struct {
	Data struct {
		WalletID string `json:"walletId"`
		Address  string `json:"address"`
	} `json:"data"`
}

func (c *client) CreateWallet(ctx context.Context, userID uint, description string) (*Wallet, error) {
	req := createWalletRequest{
		IdempotencyKey: uuid.NewString(),
		EntityID:       strconv.FormatUint(uint64(userID), 10),
		Description:    description,
	}

	var resp createWalletResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/v1/wallets", req, &resp); err != nil {
		return nil, err
	}
	if resp.Data.WalletID == "" {
		return nil, fmt.Errorf("%w: response missing wallet id", ErrUpstream)
	}

	return &Wallet{WalletID: resp.Data.WalletID, Address: resp.Data.Address}, nil
}

func (c *client) do(ctx context.Context, method, url string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: invalid response body: %v", ErrUpstream, err)
	}
	return nil
}

// parseAmount parses the custodian's string-encoded decimal amounts.
// An empty field means zero.
func parseAmount(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid amount %q", ErrUpstream, s)
	}
	return v, nil
}
