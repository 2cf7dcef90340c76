package cnpj

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/meihub/finance-service/internal/config"
	"github.com/meihub/finance-service/internal/models"
	"github.com/sirupsen/logrus"
)

// Client handles company registry lookups against the public CNPJ API
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new CNPJ client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.CNPJAPIURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// registryResponse mirrors the registry API's field names.
type registryResponse struct {
	CNPJ             string `json:"cnpj"`
	Nome             string `json:"nome"`
	Fantasia         string `json:"fantasia"`
	NaturezaJuridica string `json:"natureza_juridica"`
	Abertura         string `json:"abertura"`
	Situacao         string `json:"situacao"`
	Status           string `json:"status"`
	Message          string `json:"message"`
}

// Lookup retrieves the registry record for a tax id.
func (c *Client) Lookup(cnpj string) (*models.Company, error) {
	resp, err := c.client.Get(fmt.Sprintf("%s/%s", c.url, cnpj))
	if err != nil {
		return nil, fmt.Errorf("registry request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code from registry: %d", resp.StatusCode)
	}

	var body registryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode registry response: %w", err)
	}
	if body.Status == "ERROR" {
		return nil, fmt.Errorf("registry lookup rejected: %s", body.Message)
	}

	c.log.Infof("Registry lookup for %s: %s", cnpj, body.Nome)
	return &models.Company{
		CNPJ:        body.CNPJ,
		Name:        body.Nome,
		TradeName:   body.Fantasia,
		LegalNature: body.NaturezaJuridica,
		OpeningDate: body.Abertura,
		Situation:   body.Situacao,
	}, nil
}
