// Package translation adapts an external machine-translation capability.
// The remote service is treated as untrusted and unreliable: every
// failure mode degrades to returning the original text.
package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// maxQueryBytes bounds the outgoing request. The public endpoint rejects
// longer queries anyway, so oversized texts skip translation entirely.
const maxQueryBytes = 500

type Client struct {
	endpoint string
	http     *http.Client
	log      *slog.Logger
}

func NewClient(log *slog.Logger, endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

type response struct {
	ResponseStatus  int    `json:"responseStatus"`
	ResponseDetails string `json:"responseDetails"`
	ResponseData    struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
}

// Translate converts text from source to target language.
// Identical languages short-circuit without a network call: a round trip
// through the service can corrupt text that needs no translation.
// Any failure returns text unchanged and is never surfaced to the caller.
func (c *Client) Translate(ctx context.Context, text, source, target string) string {
	if source == target || text == "" {
		return text
	}
	if len(text) > maxQueryBytes {
		c.log.Debug("skipping translation of oversized text", "bytes", len(text))
		return text
	}

	query := url.Values{}
	query.Set("q", text)
	query.Set("langpair", fmt.Sprintf("%s|%s", source, target))
	endpoint := fmt.Sprintf("%s/get?%s", c.endpoint, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.log.Debug("translation request build failed", "error", err)
		return text
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("translation service unreachable", "error", err)
		return text
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Debug("translation service returned non-success", "status", resp.StatusCode)
		return text
	}

	var body response
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.log.Debug("translation response malformed", "error", err)
		return text
	}
	if body.ResponseStatus != http.StatusOK || body.ResponseData.TranslatedText == "" {
		c.log.Debug("translation rejected", "details", body.ResponseDetails)
		return text
	}
	return body.ResponseData.TranslatedText
}
