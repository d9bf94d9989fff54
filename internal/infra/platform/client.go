package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bryanwahyu/scanbridge/internal/domain/integration"
)

// integrationsPath is the single platform endpoint this client talks
// to: POST exchanges credentials, PUT commits the session.
const integrationsPath = "/integrations/types/checkov"

// commitBranch is fixed by the wire contract.
const commitBranch = "master"

// Client implements integration.PlatformAPI over HTTP.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     *slog.Logger
}

func NewClient(baseURL string, httpc *http.Client, log *slog.Logger) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
		log:     log,
	}
}

type credentialsResponse struct {
	Path  string `json:"path"`
	Creds struct {
		AccessKeyID     string `json:"AccessKeyId"`
		SecretAccessKey string `json:"SecretAccessKey"`
		SessionToken    string `json:"SessionToken"`
	} `json:"creds"`
}

// RequestCredentials exchanges the API key and repository identifier
// for a session-scoped credential grant. The combined "bucket/path"
// string is split on its first separator; the grant timestamp is the
// final path segment.
func (c *Client) RequestCredentials(ctx context.Context, apiKey, repoID string) (integration.CredentialGrant, error) {
	const op = "setup credentials"

	body, err := c.call(ctx, op, http.MethodPost, apiKey, map[string]string{"repoId": repoID})
	if err != nil {
		return integration.CredentialGrant{}, err
	}

	var resp credentialsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.log.Error("credential exchange returned invalid JSON", "url", c.url(), "err", err)
		return integration.CredentialGrant{}, &integration.MalformedResponseError{
			Op: op, Reason: "body is not valid JSON", Err: err,
		}
	}

	bucket, sessionPath, ok := strings.Cut(resp.Path, "/")
	if !ok || bucket == "" || sessionPath == "" {
		return integration.CredentialGrant{}, &integration.MalformedResponseError{
			Op: op, Reason: fmt.Sprintf("path %q is not of the form bucket/sessionPath", resp.Path),
		}
	}
	creds := integration.Credentials{
		AccessKeyID:     resp.Creds.AccessKeyID,
		SecretAccessKey: resp.Creds.SecretAccessKey,
		SessionToken:    resp.Creds.SessionToken,
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" || creds.SessionToken == "" {
		return integration.CredentialGrant{}, &integration.MalformedResponseError{
			Op: op, Reason: "creds object is missing required fields",
		}
	}

	segments := strings.Split(sessionPath, "/")
	return integration.CredentialGrant{
		Bucket:      bucket,
		Path:        sessionPath,
		Timestamp:   segments[len(segments)-1],
		Credentials: creds,
	}, nil
}

type commitResponse struct {
	Result string `json:"result"`
}

// CommitSession finalizes the session. Acceptance needs both an HTTP
// 201 and a "Success" result token; the result field is only inspected
// once the request succeeded and the body parsed.
func (c *Client) CommitSession(ctx context.Context, apiKey, sessionPath string) error {
	const op = "commit session"

	payload := map[string]string{"path": sessionPath, "branch": commitBranch}
	req, err := c.newRequest(ctx, http.MethodPut, apiKey, payload)
	if err != nil {
		return &integration.TransportError{Op: op, URL: c.url(), Err: err}
	}
	httpResp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Error("commit request failed", "session_path", sessionPath, "err", err)
		return &integration.TransportError{Op: op, URL: c.url(), Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return &integration.TransportError{Op: op, URL: c.url(), Err: err}
	}
	var resp commitResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.log.Error("commit response is not valid JSON", "session_path", sessionPath, "err", err)
		return &integration.MalformedResponseError{
			Op: op, Reason: "body is not valid JSON", Err: err,
		}
	}

	if httpResp.StatusCode != http.StatusCreated || resp.Result != "Success" {
		c.log.Error("platform rejected commit",
			"session_path", sessionPath, "status", httpResp.StatusCode, "result", resp.Result)
		return &integration.CommitRejectedError{
			SessionPath: sessionPath,
			StatusCode:  httpResp.StatusCode,
			Result:      resp.Result,
		}
	}
	c.log.Info("session committed", "session_path", sessionPath)
	return nil
}

// call performs one request/response cycle and returns the body of a
// 2xx response.
func (c *Client) call(ctx context.Context, op, method, apiKey string, payload any) ([]byte, error) {
	req, err := c.newRequest(ctx, method, apiKey, payload)
	if err != nil {
		return nil, &integration.TransportError{Op: op, URL: c.url(), Err: err}
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Error("platform request failed", "op", op, "err", err)
		return nil, &integration.TransportError{Op: op, URL: c.url(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &integration.TransportError{Op: op, URL: c.url(), Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &integration.TransportError{
			Op: op, URL: c.url(),
			Err: fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}
	return body, nil
}

func (c *Client) newRequest(ctx context.Context, method, apiKey string, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) url() string { return c.baseURL + integrationsPath }
