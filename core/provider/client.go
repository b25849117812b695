package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// API is the set of provider calls the sync reconciler and account linking
// depend on.
type API interface {
	// Delta returns one page of changes under root since cursor. An empty
	// cursor lists everything under root.
	Delta(ctx context.Context, root, cursor string) (*DeltaPage, error)
	// CreateShareLink returns a public URL for path, reusing an existing link.
	CreateShareLink(ctx context.Context, path string) (string, error)
	// Thumbnail downloads a thumbnail of path.
	Thumbnail(ctx context.Context, path, size, format string) ([]byte, error)
	// CreateFolder creates a folder at path.
	CreateFolder(ctx context.Context, path string) error
}

// Client calls the provider on behalf of one account.
type Client struct {
	http       *http.Client
	apiURL     string
	contentURL string
	limiter    *rate.Limiter
}

// NewClient builds a client authorized with a static access token.
// limiter may be shared across clients; nil disables rate limiting.
func NewClient(cfg Config, token string, limiter *rate.Limiter) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return &Client{
		http: &http.Client{
			Timeout:   cfg.Timeout(),
			Transport: &oauth2.Transport{Source: src, Base: http.DefaultTransport},
		},
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		contentURL: strings.TrimRight(cfg.ContentURL, "/"),
		limiter:    limiter,
	}
}

// Delta implements API.
func (c *Client) Delta(ctx context.Context, root, cursor string) (*DeltaPage, error) {
	var res listFolderResult
	var err error
	if cursor == "" {
		err = c.rpc(ctx, "/2/files/list_folder", listFolderArg{Path: root, Recursive: true, IncludeDeleted: true}, &res)
	} else {
		err = c.rpc(ctx, "/2/files/list_folder/continue", listFolderContinueArg{Cursor: cursor}, &res)
	}
	if err != nil {
		return nil, err
	}

	page := &DeltaPage{
		Entries: make([]Entry, 0, len(res.Entries)),
		Cursor:  res.Cursor,
		HasMore: res.HasMore,
	}
	for i := range res.Entries {
		md := res.Entries[i]
		entry := Entry{Path: strings.ToLower(md.PathLower)}
		if entry.Path == "" {
			entry.Path = strings.ToLower(md.PathDisplay)
		}
		if md.Tag != "deleted" {
			entry.Metadata = &md
		}
		page.Entries = append(page.Entries, entry)
	}
	return page, nil
}

// CreateShareLink implements API.
func (c *Client) CreateShareLink(ctx context.Context, path string) (string, error) {
	var link sharedLink
	err := c.rpc(ctx, "/2/sharing/create_shared_link_with_settings", pathArg{Path: path}, &link)
	if err == nil {
		return link.URL, nil
	}
	if !IsConflict(err) {
		return "", err
	}

	var existing listSharedLinksResult
	if err := c.rpc(ctx, "/2/sharing/list_shared_links", listSharedLinksArg{Path: path, DirectOnly: true}, &existing); err != nil {
		return "", err
	}
	if len(existing.Links) == 0 {
		return "", &Error{Kind: KindNotFound, Summary: "no shared link for " + path}
	}
	return existing.Links[0].URL, nil
}

// Thumbnail implements API.
func (c *Client) Thumbnail(ctx context.Context, path, size, format string) ([]byte, error) {
	arg, err := json.Marshal(thumbnailArg{Path: path, Format: format, Size: size})
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, c.contentURL+"/2/files/get_thumbnail", nil, func(req *http.Request) {
		req.Header.Set("Dropbox-API-Arg", string(arg))
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// CreateFolder implements API.
func (c *Client) CreateFolder(ctx context.Context, path string) error {
	return c.rpc(ctx, "/2/files/create_folder_v2", createFolderArg{Path: path}, nil)
}

// rpc posts a JSON argument to an RPC endpoint and decodes the JSON result
// into out when out is non-nil.
func (c *Client) rpc(ctx context.Context, endpoint string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, c.apiURL+endpoint, bytes.NewReader(body), func(req *http.Request) {
		req.Header.Set("Content-Type", "application/json")
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// do waits for the rate limiter, sends a POST and converts non-2xx responses
// into *Error. The caller owns the returned body.
func (c *Client) do(ctx context.Context, url string, body io.Reader, prepare func(*http.Request)) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	prepare(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return nil, classify(resp.StatusCode, raw)
}

// classify maps an error response onto a provider error kind.
func classify(status int, raw []byte) *Error {
	summary := strings.TrimSpace(string(raw))
	var body apiError
	if json.Unmarshal(raw, &body) == nil && body.ErrorSummary != "" {
		summary = body.ErrorSummary
	}

	kind := KindProvider
	switch {
	case status == http.StatusUnauthorized:
		kind = KindAuth
	case status == http.StatusTooManyRequests:
		kind = KindRateLimited
	case status == http.StatusBadRequest:
		kind = KindBadRequest
	case status == http.StatusConflict:
		switch {
		case strings.HasPrefix(summary, "reset"):
			kind = KindReset
		case strings.Contains(summary, "not_found"):
			kind = KindNotFound
		case strings.Contains(summary, "already_exists"), strings.Contains(summary, "conflict"):
			kind = KindConflict
		}
	}
	return &Error{Kind: kind, Status: status, Summary: summary}
}

// Factory builds per-account clients that share one rate limiter.
type Factory struct {
	cfg     Config
	limiter *rate.Limiter
}

// NewFactory creates a client factory for cfg.
func NewFactory(cfg Config) *Factory {
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return &Factory{cfg: cfg, limiter: limiter}
}

// ForToken returns a client authorized with token.
func (f *Factory) ForToken(token string) API {
	return NewClient(f.cfg, token, f.limiter)
}
