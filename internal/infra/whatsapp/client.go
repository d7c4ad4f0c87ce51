// internal/infra/whatsapp/client.go
package whatsapp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TwilioClient sends WhatsApp messages through the Twilio Messages API.
type TwilioClient struct {
	apiURL     string
	accountSID string
	authToken  string
	from       string
	httpClient *http.Client
}

func NewTwilioClient(apiURL, accountSID, authToken, from string, timeout time.Duration) *TwilioClient {
	return &TwilioClient{
		apiURL:     strings.TrimRight(apiURL, "/"),
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func whatsappAddress(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}

// Send posts one message to destination (an E.164 phone number). Any 2xx is success.
func (c *TwilioClient) Send(ctx context.Context, destination, text string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.apiURL, url.PathEscape(c.accountSID))
	form := url.Values{}
	form.Set("From", whatsappAddress(c.from))
	form.Set("To", whatsappAddress(destination))
	form.Set("Body", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build twilio request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("twilio request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("twilio responded with status %d", resp.StatusCode)
	}
	return nil
}
