// Package client talks to the CodeRefine analysis service and the optional
// local bridge. It owns the wire format; callers deal in model types.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/coderefine/coderefine/internal/model"
)

// ErrorKind distinguishes failure classes for display and exit codes.
type ErrorKind int

const (
	KindTransport ErrorKind = iota
	KindTimeout
	KindStatus
	KindPayload
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindTimeout:
		return "timeout"
	case KindStatus:
		return "status"
	case KindPayload:
		return "payload"
	default:
		return "unknown"
	}
}

// ServiceError is any failure from the analysis service: transport errors,
// timeouts, non-success responses, and malformed payloads.
type ServiceError struct {
	Kind    ErrorKind
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Client is the HTTP client for the analysis service. BaseURL points at the
// service of record; BridgeURL at the optional local bridge, probed only
// for presentation ("hybrid" vs "cloud-only").
type Client struct {
	baseURL   string
	bridgeURL string
	httpc     *http.Client
}

// New creates a client. The zero http.Client timeout is deliberate; callers
// bound requests with a context.
func New(baseURL, bridgeURL string) *Client {
	return &Client{
		baseURL:   baseURL,
		bridgeURL: bridgeURL,
		httpc:     &http.Client{},
	}
}

type analyzeRequest struct {
	Code        string `json:"code"`
	Language    string `json:"language"`
	Provider    string `json:"provider"`
	Mode        string `json:"mode"`
	Alternative bool   `json:"alternative"`
}

// errorResponse is the service's error shape on non-2xx responses.
type errorResponse struct {
	Detail string `json:"detail"`
}

// Analyze submits code for review and decodes the result. Every failure is
// returned as a *ServiceError.
func (c *Client) Analyze(ctx context.Context, req model.Request) (*model.ReviewResult, error) {
	body, err := json.Marshal(analyzeRequest{
		Code:        req.Code,
		Language:    req.Language,
		Provider:    req.Provider,
		Mode:        req.Mode.String(),
		Alternative: req.Alternative,
	})
	if err != nil {
		return nil, &ServiceError{Kind: KindPayload, Message: fmt.Sprintf("encoding request: %v", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, &ServiceError{Kind: KindTransport, Message: fmt.Sprintf("creating request: %v", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &ServiceError{Kind: KindTimeout, Message: "analysis request timed out"}
		}
		return nil, &ServiceError{Kind: KindTransport, Message: fmt.Sprintf("analysis request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ServiceError{Kind: KindStatus, Message: statusMessage(resp)}
	}

	var result model.ReviewResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ServiceError{Kind: KindPayload, Message: fmt.Sprintf("decoding analysis response: %v", err)}
	}

	return &result, nil
}

func statusMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil {
		var er errorResponse
		if json.Unmarshal(data, &er) == nil && er.Detail != "" {
			return fmt.Sprintf("analysis service: %s (HTTP %d)", er.Detail, resp.StatusCode)
		}
	}
	return fmt.Sprintf("analysis service returned HTTP %d", resp.StatusCode)
}

// BridgeStatus is the local bridge's self-description.
type BridgeStatus struct {
	Status       string   `json:"status"`
	Engine       string   `json:"engine"`
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
}

// BridgeInfo fetches the bridge's status document.
func (c *Client) BridgeInfo(ctx context.Context) (*BridgeStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.bridgeURL+"/", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("bridge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bridge returned HTTP %d", resp.StatusCode)
	}

	var st BridgeStatus
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return nil, fmt.Errorf("decoding bridge status: %w", err)
	}

	return &st, nil
}

const probeTimeout = 5 * time.Second

// CheckStatus reports whether the local bridge is reachable. It never
// returns an error; any failure maps to false.
func (c *Client) CheckStatus(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	st, err := c.BridgeInfo(ctx)
	if err != nil {
		return false
	}
	return st.Status == "online"
}
