// Package farcaster looks up account ownership through a Farcaster hub's
// HTTP API. Ownership of an FID is proven by the wallet appearing among the
// account's on-network address verifications.
package farcaster

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/msafer/waitlist/internal/logger"
)

const (
	verificationsPath = "/v1/verificationsByFid"

	requestTimeout = 10 * time.Second

	messageTypeVerification = "MESSAGE_TYPE_VERIFICATION_ADD_ETH_ADDRESS"
)

// Client queries a Farcaster hub over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new hub client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// verificationsResponse mirrors the hub's verificationsByFid payload,
// reduced to the fields we read
type verificationsResponse struct {
	Messages []struct {
		Data struct {
			Type string `json:"type"`
			Body struct {
				Address string `json:"address"`
			} `json:"verificationAddAddressBody"`
		} `json:"data"`
	} `json:"messages"`
}

// VerifiedAddresses returns the wallet addresses the FID has verified on the
// network. An unknown FID yields an empty list, not an error.
func (c *Client) VerifiedAddresses(ctx context.Context, fid int64) ([]string, error) {
	endpoint := c.baseURL + verificationsPath + "?fid=" + url.QueryEscape(strconv.FormatInt(fid, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build hub request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hub request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hub returned status %d", resp.StatusCode)
	}

	var payload verificationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode hub response: %w", err)
	}

	var addresses []string
	for _, msg := range payload.Messages {
		if msg.Data.Type != messageTypeVerification {
			continue
		}
		if addr := msg.Data.Body.Address; addr != "" {
			addresses = append(addresses, addr)
		}
	}

	logger.FromContext(ctx).Debug("Fetched hub verifications", "fid", fid, "count", len(addresses))
	return addresses, nil
}
