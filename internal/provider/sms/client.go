// Package sms is a thin client for the SMS provider's REST API.
package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/soyeahso/switchboard/internal/config"
	"github.com/soyeahso/switchboard/internal/domain"
)

const providerName = "sms"

// dateSentFormat is the timestamp format the provider uses on message
// resources.
const dateSentFormat = time.RFC1123Z

// Client issues outbound requests against the provider's account-scoped
// message API.
type Client struct {
	accountSID string
	authToken  string
	fromNumber string
	baseURL    string
	client     *http.Client
}

// NewClient creates a provider client from the SMS config.
func NewClient(cfg config.SMSConfig) *Client {
	return &Client{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		fromNumber: cfg.FromNumber,
		baseURL:    strings.TrimSuffix(cfg.APIBaseURL, "/"),
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// FromNumber returns the provisioned number sends originate from.
func (c *Client) FromNumber() string { return c.fromNumber }

type messageResource struct {
	SID      string `json:"sid"`
	To       string `json:"to"`
	From     string `json:"from"`
	Body     string `json:"body"`
	DateSent string `json:"date_sent"`
	Status   string `json:"status"`
}

type messageList struct {
	Messages []messageResource `json:"messages"`
}

type apiError struct {
	Message string `json:"message"`
}

// Send dispatches an SMS to the given number and returns the provider's
// message identifier. mediaURL, when non-empty, must be a publicly
// reachable URL; the provider fetches media itself and cannot accept
// inline binary data.
func (c *Client) Send(ctx context.Context, to, body, mediaURL string) (string, error) {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.fromNumber)
	form.Set("Body", body)
	if mediaURL != "" {
		form.Set("MediaUrl", mediaURL)
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &domain.DeliveryError{Provider: providerName, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &domain.DeliveryError{Provider: providerName, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.DeliveryError{Provider: providerName, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &domain.DeliveryError{Provider: providerName, Detail: errorDetail(resp.StatusCode, respBody)}
	}

	var msg messageResource
	if err := json.Unmarshal(respBody, &msg); err != nil {
		return "", &domain.DeliveryError{Provider: providerName, Err: fmt.Errorf("parsing response: %w", err)}
	}
	return msg.SID, nil
}

// ListSent returns up to limit of the most recent messages sent from the
// given number, normalized and newest first as the provider returns them.
func (c *Client) ListSent(ctx context.Context, from string, limit int) ([]domain.SentMessage, error) {
	if limit <= 0 {
		limit = 20
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json?From=%s&PageSize=%d",
		c.baseURL, c.accountSID, url.QueryEscape(from), limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &domain.ProviderQueryError{Provider: providerName, Err: err}
	}
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.ProviderQueryError{Provider: providerName, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ProviderQueryError{Provider: providerName, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.ProviderQueryError{Provider: providerName, Detail: errorDetail(resp.StatusCode, respBody)}
	}

	var list messageList
	if err := json.Unmarshal(respBody, &list); err != nil {
		return nil, &domain.ProviderQueryError{Provider: providerName, Err: fmt.Errorf("parsing response: %w", err)}
	}

	out := make([]domain.SentMessage, 0, len(list.Messages))
	for _, m := range list.Messages {
		sentAt, _ := time.Parse(dateSentFormat, m.DateSent)
		out = append(out, domain.SentMessage{
			ID:     m.SID,
			To:     m.To,
			From:   m.From,
			Body:   m.Body,
			SentAt: sentAt,
			Status: m.Status,
		})
	}
	return out, nil
}

// errorDetail extracts the provider's error message, falling back to the
// raw body.
func errorDetail(status int, body []byte) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Sprintf("provider returned %d: %s", status, apiErr.Message)
	}
	return fmt.Sprintf("provider returned %d: %s", status, strconv.Quote(string(body)))
}
