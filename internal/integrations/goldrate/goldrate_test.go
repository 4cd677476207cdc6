package goldrate

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maheshkumarbalasubramanian/JewelchitBackend/internal/config"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<metals date="2024-01-15">
  <metal name="gold">
    <rate purity="24K">6250.50</rate>
    <rate purity="22K">5730.00</rate>
  </metal>
  <metal name="silver">
    <rate purity="999">75.20</rate>
  </metal>
</metals>`

func testClient(url string) *Client {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewClient(&config.Config{GoldRateURL: url}, log)
}

func TestParseRates(t *testing.T) {
	c := testClient("")

	rates, err := c.parseRates([]byte(feedXML))
	require.NoError(t, err)
	require.Len(t, rates, 2)

	assert.Equal(t, "24K", rates[0].Purity)
	assert.Equal(t, "6250.5", rates[0].RatePerGm.String())
	assert.Equal(t, "22K", rates[1].Purity)
	assert.Equal(t, "5730", rates[1].RatePerGm.String())
}

func TestParseRatesNoGoldData(t *testing.T) {
	c := testClient("")

	_, err := c.parseRates([]byte(`<metals><metal name="silver"><rate purity="999">75.20</rate></metal></metals>`))
	assert.Error(t, err)

	_, err = c.parseRates([]byte(`not xml at all <<`))
	assert.Error(t, err)
}

func TestGetRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/xml", r.Header.Get("Accept"))
		w.Write([]byte(feedXML))
	}))
	defer srv.Close()

	rates, err := testClient(srv.URL).GetRates()
	require.NoError(t, err)
	assert.Len(t, rates, 2)
}

func TestGetRatesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetRates()
	assert.Error(t, err)
}
