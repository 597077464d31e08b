// internal/common/mail/provider.go
package mail

import (
	"context"
	"fmt"
	"io"
	"time"

	httpclient "eventdesk-functions/internal/common/http"
	"eventdesk-functions/internal/common/logger"
)

// HTTPProvider sends email through a JSON email API:
// POST {from, to, subject, html} with a bearer key.
type HTTPProvider struct {
	client *httpclient.Client
	logger logger.Logger
	apiURL string
	apiKey string
}

func NewHTTPProvider(apiURL, apiKey string, timeout time.Duration, log logger.Logger) *HTTPProvider {
	return &HTTPProvider{
		client: httpclient.NewClient(timeout),
		logger: log.WithFields(map[string]interface{}{"transport": "http"}),
		apiURL: apiURL,
		apiKey: apiKey,
	}
}

func (p *HTTPProvider) Send(ctx context.Context, msg Message) error {
	resp, err := p.client.PostJSON(ctx, p.apiURL, msg, map[string]string{
		"Authorization": "Bearer " + p.apiKey,
	})
	if err != nil {
		return fmt.Errorf("email provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		p.logger.Warn("email provider rejected message", map[string]interface{}{
			"status": resp.StatusCode,
			"to":     msg.To,
		})
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, string(body))
	}

	p.logger.Debug("email accepted by provider", map[string]interface{}{
		"to":      msg.To,
		"subject": msg.Subject,
	})
	return nil
}
