package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/cbtcompanion/internal/client/credentials"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/models"
	"github.com/dmitrijs2005/cbtcompanion/internal/common"
	"github.com/dmitrijs2005/cbtcompanion/internal/logging"
)

const maxResponseBytes = 1 << 20

// HTTPClient implements Client over the backend REST API. BaseURL includes
// the API prefix, e.g. http://127.0.0.1:8082/api.
type HTTPClient struct {
	baseURL string
	pingURL string
	http    *http.Client
	creds   CredentialSource
	log     logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

// WithTimeout bounds every request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) { h.http.Timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(h *HTTPClient) { h.log = l }
}

// NewHTTPClient builds a client for baseURL that reads and clears the
// bearer token through creds.
func NewHTTPClient(baseURL string, creds CredentialSource, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api base url %q: scheme must be http or https", baseURL)
	}
	root := *u
	root.Path = "/"

	c := &HTTPClient{
		baseURL: u.String(),
		pingURL: root.String(),
		http:    &http.Client{Timeout: 30 * time.Second},
		creds:   creds,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// request describes one call. classify maps a non-2xx, non-401 response to
// a specific error kind; returning nil keeps the generic ErrRejected.
type request struct {
	method   string
	path     string
	url      string
	auth     bool
	body     any
	out      any
	classify func(status int) error
}

func (c *HTTPClient) bearer(ctx context.Context) (string, error) {
	if c.creds == nil {
		return "", ErrUnauthenticated
	}
	cred, err := c.creds.Load(ctx)
	if errors.Is(err, credentials.ErrNoCredential) {
		return "", ErrUnauthenticated
	}
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	if cred.Empty() {
		return "", ErrUnauthenticated
	}
	return cred.Token, nil
}

func (c *HTTPClient) do(ctx context.Context, r request) error {
	target := r.url
	if target == "" {
		target = c.baseURL + r.path
	}

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", common.ContentTypeJSON)
	if r.body != nil {
		req.Header.Set("Content-Type", common.ContentTypeJSON)
	}
	if r.auth {
		token, err := c.bearer(ctx)
		if err != nil {
			return err
		}
		req.Header.Set(common.AuthorizationHeaderName, common.BearerValue(token))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(ctxErr, context.Canceled) {
			return ctxErr
		}
		c.log.Warn(ctx, "backend unreachable", "method", r.method, "url", target, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	c.log.Debug(ctx, "backend call", "method", r.method, "path", r.path, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized && r.auth {
		c.clearCredential(ctx)
		return ErrUnauthenticated
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Detail: parseDetail(data)}
		if r.classify != nil {
			apiErr.Kind = r.classify(resp.StatusCode)
		}
		return apiErr
	}

	if r.out == nil {
		return nil
	}
	if err := json.Unmarshal(data, r.out); err != nil {
		c.log.Error(ctx, "malformed backend response", "method", r.method, "path", r.path, "error", err)
		return fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	return nil
}

func (c *HTTPClient) clearCredential(ctx context.Context) {
	if c.creds == nil {
		return
	}
	if err := c.creds.Clear(context.WithoutCancel(ctx)); err != nil {
		c.log.Error(ctx, "failed to clear refused credential", "error", err)
		return
	}
	c.log.Info(ctx, "credential cleared after 401")
}

// parseDetail extracts a FastAPI style {"detail": ...} message. Validation
// errors carry a list of objects with a "msg" field.
func parseDetail(data []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: "/", url: c.pingURL})
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (models.Credential, error) {
	var out tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   credentialsRequest{Email: email, Password: password},
		out:    &out,
		classify: func(status int) error {
			if status == http.StatusUnauthorized || status == http.StatusForbidden {
				return ErrInvalidCredentials
			}
			return nil
		},
	})
	if err != nil {
		return models.Credential{}, err
	}
	return out.credential()
}

func (c *HTTPClient) Signup(ctx context.Context, email, password string) (models.Credential, error) {
	var out tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/signup",
		body:   credentialsRequest{Email: email, Password: password},
		out:    &out,
	})
	if err != nil {
		return models.Credential{}, err
	}
	return out.credential()
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/forgot-password",
		body:   map[string]string{"email": email},
	})
}

func classifyCode(status int) error {
	if status == http.StatusBadRequest || status == http.StatusNotFound {
		return ErrInvalidCode
	}
	return nil
}

func (c *HTTPClient) VerifyResetCode(ctx context.Context, email, code string) error {
	return c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/auth/verify-reset-code",
		body:     map[string]string{"email": email, "code": code},
		classify: classifyCode,
	})
}

func (c *HTTPClient) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	return c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/auth/reset-password",
		body:     map[string]string{"email": email, "code": code, "new_password": newPassword},
		classify: classifyCode,
	})
}

func (c *HTTPClient) Me(ctx context.Context) (models.User, error) {
	var out userResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me", auth: true, out: &out}); err != nil {
		return models.User{}, err
	}
	return out.user()
}

func (c *HTTPClient) History(ctx context.Context) ([]models.Message, error) {
	var out []messageResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/chat/history", auth: true, out: &out}); err != nil {
		return nil, err
	}
	return toMessages(out)
}

func (c *HTTPClient) Conversations(ctx context.Context) ([]models.Conversation, error) {
	var out []conversationResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/chat/conversations", auth: true, out: &out}); err != nil {
		return nil, err
	}
	result := make([]models.Conversation, 0, len(out))
	for _, conv := range out {
		result = append(result, conv.conversation())
	}
	return result, nil
}

func (c *HTTPClient) ConversationMessages(ctx context.Context, id models.ConversationID) ([]models.Message, error) {
	if id.IsZero() {
		return nil, errors.New("conversation id is required")
	}
	var out []messageResponse
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/chat/conversations/" + url.PathEscape(id.String()) + "/messages",
		auth:   true,
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return toMessages(out)
}

func (c *HTTPClient) Chat(ctx context.Context, text string, id models.ConversationID) (models.ChatReply, error) {
	var out chatResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/chat",
		auth:   true,
		body:   chatRequest{Message: text, ConversationID: id},
		out:    &out,
	})
	if err != nil {
		return models.ChatReply{}, err
	}
	if out.Message == nil {
		return models.ChatReply{}, fmt.Errorf("%w: missing message", ErrProtocol)
	}
	return models.ChatReply{Message: *out.Message, ConversationID: out.ConversationID}, nil
}
