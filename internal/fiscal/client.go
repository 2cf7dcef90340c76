package fiscal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/meihub/finance-service/internal/config"
	"github.com/sirupsen/logrus"
)

// Client fetches the opaque fiscal-situation payload from the diagnostics
// provider. The response shape is not guaranteed; it is decoded as-is and
// handed to Normalize.
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new fiscal payload client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.FiscalAPIURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

// FetchPayload retrieves the raw fiscal payload for a company tax id.
func (c *Client) FetchPayload(cnpj string) (any, error) {
	endpoint := fmt.Sprintf("%s?cnpj=%s", c.url, url.QueryEscape(cnpj))
	resp, err := c.client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("fiscal request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code from fiscal provider: %d", resp.StatusCode)
	}

	var raw any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode fiscal payload: %w", err)
	}

	c.log.Debugf("Fetched fiscal payload for %s", cnpj)
	return raw, nil
}
