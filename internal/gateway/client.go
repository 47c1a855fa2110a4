// Package gateway is the adapter for the external bulk-SMS service. It owns
// the wire format; raw payloads never leak past this boundary.
package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Error is returned for every transport or protocol failure against the SMS
// gateway. It carries the underlying cause.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("sms gateway: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Recipient is the gateway's verdict for one phone number. The gateway may
// omit requested numbers and may report numbers that were never requested.
type Recipient struct {
	Number     string `json:"number"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	MessageID  string `json:"messageId"`
	Cost       string `json:"cost"`
}

// Result is the parsed per-recipient outcome of one send
type Result struct {
	Message    string
	Recipients []Recipient
}

type sendResponse struct {
	SMSMessageData *struct {
		Message    string      `json:"Message"`
		Recipients []Recipient `json:"Recipients"`
	} `json:"SMSMessageData"`
}

// Client talks to an Africa's Talking shaped messaging endpoint
type Client struct {
	baseURL  string
	username string
	apiKey   string
	senderID string
	client   *http.Client
}

// NewClient creates a gateway client. The timeout bounds the full round-trip;
// there is no cancellation once a send is on the wire.
func NewClient(baseURL, username, apiKey, senderID string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:  baseURL,
		username: username,
		apiKey:   apiKey,
		senderID: senderID,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Send delivers message to the given phone numbers and returns the gateway's
// per-recipient report. Numbers are passed through as opaque strings.
func (c *Client) Send(message string, to []string) (*Result, error) {
	if message == "" {
		return nil, &Error{Op: "send", Err: errors.New("message cannot be empty")}
	}
	if len(to) == 0 {
		return nil, &Error{Op: "send", Err: errors.New("recipient list cannot be empty")}
	}

	form := url.Values{}
	form.Set("username", c.username)
	form.Set("to", strings.Join(to, ","))
	form.Set("message", message)
	if c.senderID != "" {
		form.Set("from", c.senderID)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &Error{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apiKey", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Error{Op: "send", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Op:  "send",
			Err: fmt.Errorf("unexpected status code: %d body=%q", resp.StatusCode, string(body)),
		}
	}

	var sr sendResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, &Error{Op: "decode response", Err: fmt.Errorf("%w body=%q", err, string(body))}
	}
	if sr.SMSMessageData == nil {
		return nil, &Error{Op: "decode response", Err: fmt.Errorf("missing SMSMessageData body=%q", string(body))}
	}

	return &Result{
		Message:    sr.SMSMessageData.Message,
		Recipients: sr.SMSMessageData.Recipients,
	}, nil
}
