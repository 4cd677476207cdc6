package goldrate

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/config"
)

// Client fetches the current market gold rate from an XML feed. The rate
// feeds collateral valuation on the loan issuance side.
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// Rate is the per-gram rate for one purity level
type Rate struct {
	Purity    string          `json:"purity"`
	RatePerGm decimal.Decimal `json:"rate_per_gm"`
}

// NewClient initializes a new gold rate client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.GoldRateURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// fetch retrieves the raw XML feed
func (c *Client) fetch() ([]byte, error) {
	req, err := http.NewRequest("GET", c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	c.log.Debugf("Gold rate XML response: %s", string(body))
	return body, nil
}

// parseRates extracts per-purity rates from the XML feed
func (c *Client) parseRates(rawBody []byte) ([]Rate, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %v", err)
	}

	elements := doc.FindElements("//metals/metal[@name='gold']/rate")
	if len(elements) == 0 {
		return nil, fmt.Errorf("no gold rate data found in XML")
	}

	var rates []Rate
	for _, el := range elements {
		value, err := strconv.ParseFloat(el.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate: %v", err)
		}
		rates = append(rates, Rate{
			Purity:    el.SelectAttrValue("purity", "24K"),
			RatePerGm: decimal.NewFromFloat(value),
		})
	}
	return rates, nil
}

// GetRates retrieves the current per-gram gold rates by purity
func (c *Client) GetRates() ([]Rate, error) {
	body, err := c.fetch()
	if err != nil {
		return nil, err
	}

	rates, err := c.parseRates(body)
	if err != nil {
		return nil, err
	}

	c.log.Infof("Retrieved %d gold rate(s) from feed", len(rates))
	return rates, nil
}
