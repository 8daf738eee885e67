package bcb

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/financasapp/financas-service/internal/config"
	"github.com/sirupsen/logrus"
)

// SelicSeries is the SGS series code for the SELIC target rate.
const SelicSeries = 432

// BCBClient fetches rates from the Banco Central do Brasil SGS SOAP service.
// The dashboard uses the SELIC rate to contextualize savings and investment
// figures.
type BCBClient struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewBCBClient initializes a new SGS client
func NewBCBClient(cfg *config.Config, log *logrus.Logger) *BCBClient {
	return &BCBClient{
		url: cfg.BCBURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// buildSOAPRequest creates the getUltimoValorVO request for a series
func (c *BCBClient) buildSOAPRequest(series int) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
		<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/"
		                  xmlns:xsd="http://www.w3.org/2001/XMLSchema">
			<soapenv:Body>
				<getUltimoValorVO soapenv:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/">
					<in0 xsi:type="xsd:long" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">%d</in0>
				</getUltimoValorVO>
			</soapenv:Body>
		</soapenv:Envelope>`, series)
}

// sendRequest posts the SOAP envelope to the SGS endpoint
func (c *BCBClient) sendRequest(soapRequest string) ([]byte, error) {
	req, err := http.NewRequest("POST", c.url, bytes.NewBuffer([]byte(soapRequest)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", "getUltimoValorVO")

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

	c.log.Debugf("SGS XML response: %s", string(body))

	return body, nil
}

// parseXMLResponse extracts the rate value from the SGS response
func (c *BCBClient) parseXMLResponse(rawBody []byte) (float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return 0, fmt.Errorf("failed to parse XML: %v", err)
	}

	valueElement := doc.FindElement("//ultimoValor//valor")
	if valueElement == nil {
		return 0, fmt.Errorf("no rate value found in XML")
	}

	// SGS uses a comma as the decimal separator.
	text := strings.TrimSpace(strings.ReplaceAll(valueElement.Text(), ",", "."))
	rate, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse rate %q: %v", text, err)
	}

	return rate, nil
}

// GetSelicRate retrieves the current SELIC target rate
func (c *BCBClient) GetSelicRate() (float64, error) {
	soapRequest := c.buildSOAPRequest(SelicSeries)
	body, err := c.sendRequest(soapRequest)
	if err != nil {
		return 0, err
	}

	rate, err := c.parseXMLResponse(body)
	if err != nil {
		return 0, err
	}

	c.log.Infof("Retrieved SELIC rate: %.2f%%", rate)
	return rate, nil
}
