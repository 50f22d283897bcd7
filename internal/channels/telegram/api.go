// Package telegram connects the engine to the Telegram Bot API: the HTTP
// client, update conversion, the outbound transport, the webhook gateway
// and the long-poll loop.
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	boterrors "github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/errors"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/httpclient"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/logging"
	jsonx "github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/shared/json"
)

const DefaultBaseURL = "https://api.telegram.org"

const (
	// Covers the longest getUpdates hold plus transfer time.
	defaultHTTPTimeout = 90 * time.Second
	maxResponseBytes   = 8 << 20
)

// Update is the subset of the Bot API update object the bot consumes.
type Update struct {
	UpdateID      int64    `json:"update_id"`
	Message       *Message `json:"message,omitempty"`
	EditedMessage *Message `json:"edited_message,omitempty"`
	ChannelPost   *Message `json:"channel_post,omitempty"`
}

type Message struct {
	MessageID       int64       `json:"message_id"`
	MessageThreadID int64       `json:"message_thread_id,omitempty"`
	IsTopicMessage  bool        `json:"is_topic_message,omitempty"`
	Date            int64       `json:"date,omitempty"`
	Chat            *Chat       `json:"chat,omitempty"`
	From            *User       `json:"from,omitempty"`
	Text            string      `json:"text,omitempty"`
	Caption         string      `json:"caption,omitempty"`
	Photo           []PhotoSize `json:"photo,omitempty"`
	Video           *Video      `json:"video,omitempty"`
	Document        *Document   `json:"document,omitempty"`
}

type Chat struct {
	ID      int64  `json:"id"`
	Type    string `json:"type,omitempty"` // private|group|supergroup|channel
	Title   string `json:"title,omitempty"`
	IsForum bool   `json:"is_forum,omitempty"`
}

type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// DisplayName joins first and last name, falling back to the @handle.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	first := strings.TrimSpace(u.FirstName)
	last := strings.TrimSpace(u.LastName)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	case strings.TrimSpace(u.Username) != "":
		return "@" + strings.TrimSpace(u.Username)
	default:
		return ""
	}
}

type PhotoSize struct {
	FileID   string `json:"file_id"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
}

type Video struct {
	FileID   string `json:"file_id"`
	Duration int    `json:"duration,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

type Document struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
}

// WebhookInfo mirrors getWebhookInfo.
type WebhookInfo struct {
	URL                  string `json:"url"`
	HasCustomCertificate bool   `json:"has_custom_certificate"`
	PendingUpdateCount   int    `json:"pending_update_count"`
	LastErrorDate        int64  `json:"last_error_date,omitempty"`
	LastErrorMessage     string `json:"last_error_message,omitempty"`
	MaxConnections       int    `json:"max_connections,omitempty"`
}

type responseParameters struct {
	RetryAfter int `json:"retry_after,omitempty"`
}

type apiResponse struct {
	OK          bool                `json:"ok"`
	Result      jsonx.RawMessage    `json:"result,omitempty"`
	ErrorCode   int                 `json:"error_code,omitempty"`
	Description string              `json:"description,omitempty"`
	Parameters  *responseParameters `json:"parameters,omitempty"`
}

// APIError is a failed Bot API call.
type APIError struct {
	Method      string
	StatusCode  int
	ErrorCode   int
	Description string
	RetryAfter  time.Duration
}

func (e *APIError) Error() string {
	desc := strings.TrimSpace(e.Description)
	if desc == "" {
		desc = "request failed"
	}
	return fmt.Sprintf("telegram %s: http %d: %s", e.Method, e.StatusCode, desc)
}

// HTTPStatus lets the retry classifier read the status.
func (e *APIError) HTTPStatus() int {
	if e.StatusCode > 0 {
		return e.StatusCode
	}
	return e.ErrorCode
}

// ClientConfig configures a Client.
type ClientConfig struct {
	Token   string
	BaseURL string
	// HTTPClient defaults to a breaker-guarded client from httpclient.
	HTTPClient *http.Client
	Logger     logging.Logger
}

// Client is a thin JSON client for the Bot API methods the bot uses.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

// NewClient builds a client. An empty BaseURL selects the public endpoint.
func NewClient(cfg ClientConfig) (*Client, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, fmt.Errorf("telegram client: token is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = httpclient.NewWithCircuitBreaker(defaultHTTPTimeout, cfg.Logger, "telegram")
	}
	return &Client{http: httpClient, baseURL: baseURL, token: token}, nil
}

// call posts body as JSON to method and decodes the result into out.
// Failures are classified as transient or permanent by HTTP status.
func (c *Client) call(ctx context.Context, method string, body any, out any) error {
	var payload []byte
	if body != nil {
		raw, err := jsonx.Marshal(body)
		if err != nil {
			return boterrors.NewPermanentError(err, fmt.Sprintf("telegram %s: encode request: %v", method, err))
		}
		payload = raw
	} else {
		payload = []byte("{}")
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return boterrors.NewPermanentError(err, fmt.Sprintf("telegram %s: build request: %v", method, err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg := strings.ReplaceAll(err.Error(), c.token, "<token>")
		return boterrors.NewTransientError(err, fmt.Sprintf("telegram %s: %s", method, msg))
	}
	raw, readErr := httpclient.ReadAllWithLimit(resp.Body, maxResponseBytes)
	_ = resp.Body.Close()
	if readErr != nil {
		if httpclient.IsResponseTooLarge(readErr) {
			return boterrors.NewPermanentError(readErr, fmt.Sprintf("telegram %s: %v", method, readErr))
		}
		return boterrors.NewTransientError(readErr, fmt.Sprintf("telegram %s: read response: %v", method, readErr))
	}

	var envelope apiResponse
	decodeErr := jsonx.Unmarshal(raw, &envelope)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !envelope.OK {
		apiErr := &APIError{
			Method:      method,
			StatusCode:  resp.StatusCode,
			ErrorCode:   envelope.ErrorCode,
			Description: envelope.Description,
		}
		if apiErr.Description == "" && decodeErr != nil {
			apiErr.Description = strings.TrimSpace(string(raw))
		}
		if envelope.Parameters != nil && envelope.Parameters.RetryAfter > 0 {
			apiErr.RetryAfter = time.Duration(envelope.Parameters.RetryAfter) * time.Second
		}
		return boterrors.FromHTTPStatus(apiErr, apiErr.HTTPStatus(), apiErr.RetryAfter)
	}
	if decodeErr != nil {
		return boterrors.NewPermanentError(decodeErr, fmt.Sprintf("telegram %s: decode response: %v", method, decodeErr))
	}
	if out == nil || len(envelope.Result) == 0 {
		return nil
	}
	if err := jsonx.Unmarshal(envelope.Result, out); err != nil {
		return boterrors.NewPermanentError(err, fmt.Sprintf("telegram %s: decode result: %v", method, err))
	}
	return nil
}

// GetMe returns the bot's own user record.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var me User
	if err := c.call(ctx, "getMe", nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

type getUpdatesRequest struct {
	Offset         int64    `json:"offset,omitempty"`
	Timeout        int      `json:"timeout"`
	AllowedUpdates []string `json:"allowed_updates,omitempty"`
}

// GetUpdates long-polls for updates starting at offset and returns the next
// offset to acknowledge.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, int64, error) {
	secs := int(timeout.Seconds())
	if secs < 0 {
		secs = 0
	}
	reqCtx, cancel := context.WithTimeout(ctx, time.Duration(secs)*time.Second+10*time.Second)
	defer cancel()

	var updates []Update
	req := getUpdatesRequest{Offset: offset, Timeout: secs, AllowedUpdates: []string{"message", "channel_post"}}
	if err := c.call(reqCtx, "getUpdates", req, &updates); err != nil {
		return nil, offset, err
	}
	next := offset
	for _, u := range updates {
		if u.UpdateID >= next {
			next = u.UpdateID + 1
		}
	}
	return updates, next, nil
}

type sendRequest struct {
	ChatID          int64  `json:"chat_id"`
	MessageThreadID int64  `json:"message_thread_id,omitempty"`
	Text            string `json:"text,omitempty"`
	Photo           string `json:"photo,omitempty"`
	Video           string `json:"video,omitempty"`
	Document        string `json:"document,omitempty"`
	Caption         string `json:"caption,omitempty"`
}

// SendMessage posts plain text.
func (c *Client) SendMessage(ctx context.Context, chatID, threadID int64, text string) (*Message, error) {
	return c.send(ctx, "sendMessage", sendRequest{ChatID: chatID, MessageThreadID: threadID, Text: text})
}

// SendPhoto re-sends a photo by file id.
func (c *Client) SendPhoto(ctx context.Context, chatID, threadID int64, fileID, caption string) (*Message, error) {
	return c.send(ctx, "sendPhoto", sendRequest{ChatID: chatID, MessageThreadID: threadID, Photo: fileID, Caption: caption})
}

// SendVideo re-sends a video by file id.
func (c *Client) SendVideo(ctx context.Context, chatID, threadID int64, fileID, caption string) (*Message, error) {
	return c.send(ctx, "sendVideo", sendRequest{ChatID: chatID, MessageThreadID: threadID, Video: fileID, Caption: caption})
}

// SendDocument re-sends a document by file id.
func (c *Client) SendDocument(ctx context.Context, chatID, threadID int64, fileID, caption string) (*Message, error) {
	return c.send(ctx, "sendDocument", sendRequest{ChatID: chatID, MessageThreadID: threadID, Document: fileID, Caption: caption})
}

func (c *Client) send(ctx context.Context, method string, req sendRequest) (*Message, error) {
	var msg Message
	if err := c.call(ctx, method, req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// WebhookOptions configures setWebhook.
type WebhookOptions struct {
	URL                string
	SecretToken        string
	DropPendingUpdates bool
	MaxConnections     int
}

type setWebhookRequest struct {
	URL                string   `json:"url"`
	SecretToken        string   `json:"secret_token,omitempty"`
	AllowedUpdates     []string `json:"allowed_updates,omitempty"`
	DropPendingUpdates bool     `json:"drop_pending_updates,omitempty"`
	MaxConnections     int      `json:"max_connections,omitempty"`
}

// SetWebhook registers url as the update endpoint.
func (c *Client) SetWebhook(ctx context.Context, opts WebhookOptions) error {
	url := strings.TrimSpace(opts.URL)
	if url == "" {
		return fmt.Errorf("telegram setWebhook: url is required")
	}
	return c.call(ctx, "setWebhook", setWebhookRequest{
		URL:                url,
		SecretToken:        opts.SecretToken,
		AllowedUpdates:     []string{"message", "channel_post"},
		DropPendingUpdates: opts.DropPendingUpdates,
		MaxConnections:     opts.MaxConnections,
	}, nil)
}

type deleteWebhookRequest struct {
	DropPendingUpdates bool `json:"drop_pending_updates,omitempty"`
}

// DeleteWebhook switches the bot back to getUpdates delivery.
func (c *Client) DeleteWebhook(ctx context.Context, dropPending bool) error {
	return c.call(ctx, "deleteWebhook", deleteWebhookRequest{DropPendingUpdates: dropPending}, nil)
}

// GetWebhookInfo reports the current webhook registration.
func (c *Client) GetWebhookInfo(ctx context.Context) (*WebhookInfo, error) {
	var info WebhookInfo
	if err := c.call(ctx, "getWebhookInfo", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
