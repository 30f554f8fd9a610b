// Package ticketing provides a client for the external helpdesk CRM.
// The collaborator exposes an authenticate-then-call API: a session token is
// obtained once and reused until the CRM rejects it, at which point the client
// re-authenticates and retries the call.
package ticketing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Request carries the declaration fields submitted as a helpdesk ticket.
type Request struct {
	DeclarationID       int64  `json:"declaration_id"`
	DeclarationGUID     string `json:"declaration_guid"`
	Subject             string `json:"subject"`
	Body                string `json:"body"`
	CommercialReference string `json:"commercial_reference"`
	Principal           string `json:"principal"`
	ImporterCode        string `json:"importer_code"`
	MRN                 string `json:"mrn"`
}

// System defines the contract for ticket creation in the external CRM.
type System interface {
	// Create submits the request and returns the CRM-assigned ticket id.
	Create(ctx context.Context, req Request) (int64, error)
}

type client struct {
	http    *http.Client
	baseURL string
	user    string
	apiKey  string
	timeout time.Duration
	logger  *slog.Logger

	mu    sync.Mutex
	token string
}

// New creates a ticketing client from the given configuration. The client is
// constructed once at process start and injected into consumers; its session
// token is an internal, lazily-refreshed field.
func New(cfg *Config, logger *slog.Logger) System {
	return &client{
		http:    &http.Client{Timeout: cfg.TimeoutDuration()},
		baseURL: cfg.BaseURL,
		user:    cfg.User,
		apiKey:  cfg.APIKey,
		timeout: cfg.TimeoutDuration(),
		logger:  logger.With("system", "ticketing"),
	}
}

func (c *client) Create(ctx context.Context, req Request) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	token, err := c.session(ctx, false)
	if err != nil {
		return 0, err
	}

	id, err := c.create(ctx, token, req)
	if err == nil {
		return id, nil
	}

	// A rejected session is refreshed once; any other failure surfaces as-is.
	if !IsAuthRejected(err) {
		return 0, err
	}

	token, err = c.session(ctx, true)
	if err != nil {
		return 0, err
	}

	return c.create(ctx, token, req)
}

// session returns the cached token, authenticating when none is held or when
// refresh forces a new one. The mutex spans the authentication round-trip so
// concurrent callers never race to refresh.
func (c *client) session(ctx context.Context, refresh bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && !refresh {
		return c.token, nil
	}

	token, err := c.authenticate(ctx)
	if err != nil {
		return "", err
	}

	c.token = token
	c.logger.Info("ticketing session established")
	return token, nil
}

func (c *client) authenticate(ctx context.Context) (string, error) {
	payload := map[string]string{
		"user":    c.user,
		"api_key": c.apiKey,
	}

	var result struct {
		Token string `json:"token"`
	}

	if err := c.post(ctx, "/auth/session", "", payload, &result); err != nil {
		return "", &Error{Op: "authenticate", Message: err.Error()}
	}
	if result.Token == "" {
		return "", &Error{Op: "authenticate", Message: "empty session token"}
	}

	return result.Token, nil
}

func (c *client) create(ctx context.Context, token string, req Request) (int64, error) {
	var result struct {
		ID    int64  `json:"id"`
		Error string `json:"error"`
	}

	if err := c.post(ctx, "/tickets", token, req, &result); err != nil {
		return 0, err
	}
	if result.Error != "" {
		return 0, &Error{Op: "create", Message: result.Error}
	}
	if result.ID == 0 {
		return 0, &Error{Op: "create", Message: "no ticket id in response"}
	}

	return result.ID, nil
}

func (c *client) post(ctx context.Context, path, token string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{Op: "encode", Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &Error{Op: "request", Message: err.Error()}
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: "call", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return &Error{Op: "call", Message: "session rejected", AuthRejected: true}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := readErrorMessage(resp.Body)
		if msg == "" {
			msg = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
		return &Error{Op: "call", Message: msg}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &Error{Op: "decode", Message: err.Error()}
	}

	return nil
}

func readErrorMessage(r io.Reader) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return ""
	}
	return envelope.Error
}
