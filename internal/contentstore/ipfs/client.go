// Package ipfs implements contentstore.Store against a Kubo node: documents
// are added through the RPC API and read back through the HTTP gateway.
package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ApolloMedTech/shdms/internal/contentstore"
	"github.com/ApolloMedTech/shdms/internal/domain"
)

// MaxDocumentSize bounds the bytes read from the gateway for one document.
const MaxDocumentSize = 64 << 20

// Client talks to a Kubo RPC endpoint and a path gateway.
type Client struct {
	apiURL     string
	gatewayURL string
	http       *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// New returns a client for the RPC API at apiURL (e.g. http://localhost:5001)
// and the gateway at gatewayURL (e.g. http://localhost:8080).
func New(apiURL, gatewayURL string, opts ...Option) *Client {
	c := &Client{
		apiURL:     strings.TrimRight(apiURL, "/"),
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		http:       &http.Client{Timeout: 2 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ contentstore.Store = (*Client)(nil)

type addResponse struct {
	Name string `json:"Name"`
	Hash string `json:"Hash"`
	Size string `json:"Size"`
}

type rpcError struct {
	Message string `json:"Message"`
	Code    int    `json:"Code"`
	Type    string `json:"Type"`
}

// Publish adds and pins data. CIDv1 with raw leaves keeps the identifier of
// small documents equal to contentstore.Identify.
func (c *Client) Publish(ctx context.Context, data []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "report.pdf")
	if err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}

	q := url.Values{}
	q.Set("cid-version", "1")
	q.Set("raw-leaves", "true")
	q.Set("pin", "true")
	endpoint := c.apiURL + "/api/v0/add?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("build add request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ipfs add: %v: %w", err, domain.ErrStoreUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ipfs add: %s: %w", describe(resp), domain.ErrStoreRejected)
	}

	var added addResponse
	if err := json.NewDecoder(resp.Body).Decode(&added); err != nil {
		return "", fmt.Errorf("ipfs add: decode response: %v: %w", err, domain.ErrStoreRejected)
	}
	if !contentstore.Valid(added.Hash) {
		return "", fmt.Errorf("ipfs add: invalid identifier %q: %w", added.Hash, domain.ErrStoreRejected)
	}
	return added.Hash, nil
}

// Fetch reads a document through the gateway and verifies raw identifiers.
func (c *Client) Fetch(ctx context.Context, id string) ([]byte, error) {
	if !contentstore.Valid(id) {
		return nil, fmt.Errorf("content %q: malformed identifier: %w", id, domain.ErrNotFound)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.GatewayURL(id), nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ipfs fetch %s: %v: %w", id, err, domain.ErrStoreUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, fmt.Errorf("content %s: %w", id, domain.ErrNotFound)
	default:
		return nil, fmt.Errorf("ipfs fetch %s: %s: %w", id, describe(resp), domain.ErrStoreUnavailable)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("ipfs fetch %s: read body: %v: %w", id, err, domain.ErrStoreUnavailable)
	}
	if len(data) > MaxDocumentSize {
		return nil, fmt.Errorf("ipfs fetch %s: document exceeds %d bytes: %w", id, MaxDocumentSize, domain.ErrStoreRejected)
	}
	if err := contentstore.Verify(id, data); err != nil {
		return nil, err
	}
	return data, nil
}

// GatewayURL is the browser-openable location of id.
func (c *Client) GatewayURL(id string) string {
	return c.gatewayURL + "/ipfs/" + url.PathEscape(id)
}

func describe(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var e rpcError
	if json.Unmarshal(raw, &e) == nil && e.Message != "" {
		return fmt.Sprintf("%s: %s", resp.Status, e.Message)
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return fmt.Sprintf("%s: %s", resp.Status, msg)
	}
	return resp.Status
}
