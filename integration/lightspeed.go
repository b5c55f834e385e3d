package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"tailor-app/config"

	"github.com/rs/zerolog/log"
)

// LightspeedClient is the narrow surface of the Lightspeed Retail API this
// system needs: pulling completed sales so commission lines can be synced.
// Token refresh and webhook handling live in the retail integration
// service, not here.
type LightspeedClient struct {
	BaseURL   string
	Token     string
	AccountID string
	client    *http.Client
}

func NewLightspeedClient() *LightspeedClient {
	return &LightspeedClient{
		BaseURL:   config.LightspeedBaseURL,
		Token:     config.LightspeedToken,
		AccountID: config.LightspeedAccountID,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether the POS credentials are configured.
func (c *LightspeedClient) Enabled() bool {
	return c.Token != "" && c.AccountID != ""
}

// Sale is one completed POS sale line relevant to commission tracking.
type Sale struct {
	SaleID     string    `json:"saleID"`
	EmployeeID string    `json:"employeeID"`
	Total      float64   `json:"total,string"`
	Completed  bool      `json:"completed"`
	TimeStamp  time.Time `json:"timeStamp"`
}

type salesResponse struct {
	Sales []Sale `json:"Sale"`
}

// FetchSales returns completed sales since the given time.
func (c *LightspeedClient) FetchSales(since time.Time) ([]Sale, error) {
	endpoint := fmt.Sprintf("%s/Account/%s/Sale.json", c.BaseURL, c.AccountID)

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("completed", "true")
	q.Set("timeStamp", ">,"+since.UTC().Format(time.RFC3339))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lightspeed: unexpected status %d", resp.StatusCode)
	}

	var payload salesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	log.Debug().Int("sales", len(payload.Sales)).Time("since", since).Msg("fetched lightspeed sales")
	return payload.Sales, nil
}
