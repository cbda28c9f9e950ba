// Package tgbot implements the minimal surface of the telegram bot API the
// service needs: long-polling getUpdates and sendMessage.
package tgbot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

// Chat identifies the conversation an update belongs to.
type Chat struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Message is an inbound or outbound chat message.
type Message struct {
	Chat Chat   `json:"chat"`
	Text string `json:"text"`
}

// Update is one inbound event from the getUpdates batch.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

type getUpdatesResponse struct {
	OK          bool     `json:"ok"`
	Result      []Update `json:"result"`
	Description string   `json:"description"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Client talks to the telegram bot API over HTTP.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the given bot token. The default HTTP
// timeout suits plain calls like sendMessage; a long-polling consumer must
// raise it above the poll timeout (NewPoller does).
func NewClient(token string) *Client {
	return &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithBaseURL creates a Client against a custom API host (used for testing).
func NewClientWithBaseURL(token, baseURL string) *Client {
	c := NewClient(token)
	c.baseURL = baseURL
	return c
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}

func (c *Client) get(ctx context.Context, method string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.methodURL(method)+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d: %s", method, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	return nil
}

// GetUpdates fetches a batch of updates starting at offset, long-polling for
// up to timeout seconds.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	params := url.Values{}
	params.Set("offset", strconv.FormatInt(offset, 10))
	params.Set("timeout", strconv.Itoa(timeout))

	var response getUpdatesResponse
	if err := c.get(ctx, "getUpdates", params, &response); err != nil {
		return nil, err
	}
	if !response.OK {
		return nil, fmt.Errorf("getUpdates rejected: %s", response.Description)
	}
	return response.Result, nil
}

// SendMessage sends text to the chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	params := url.Values{}
	params.Set("chat_id", strconv.FormatInt(chatID, 10))
	params.Set("text", text)

	var response sendMessageResponse
	if err := c.get(ctx, "sendMessage", params, &response); err != nil {
		return err
	}
	if !response.OK {
		return fmt.Errorf("sendMessage rejected: %s", response.Description)
	}
	return nil
}
