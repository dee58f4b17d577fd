package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"newsview/block"
	"newsview/config"
)

// HTTP fetches documents from remote content service as
// GET {base_url}/{id}. Responses in legacy encodings are converted to UTF-8
// according to Content-Type.
type HTTP struct {
	base   *url.URL
	token  config.SecretString
	client *http.Client
	theme  block.Theme
	log    *zap.Logger
}

func NewHTTP(cfg *config.HTTPStoreConfig, theme block.Theme, log *zap.Logger) (*HTTP, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("content store base url is not configured")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("bad content store base url: %w", err)
	}
	return &HTTP{
		base:   base,
		token:  cfg.Token,
		client: &http.Client{Timeout: cfg.Timeout},
		theme:  theme,
		log:    log.Named("store"),
	}, nil
}

func (s *HTTP) endpoint(id string) string {
	return s.base.JoinPath(url.PathEscape(id)).String()
}

func (s *HTTP) Fetch(ctx context.Context, id string) (*block.Document, error) {
	switch strings.TrimSpace(id) {
	case "":
		return nil, fmt.Errorf("%w: empty identifier", ErrNotFound)
	case ".", "..":
		// would address the service itself, not a document
		return nil, fmt.Errorf("%w: bad identifier %q", ErrNotFound, id)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint(id), nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create request for %q: %w", id, err)
	}
	req.Header.Set("Accept", "application/json")
	if tok := s.token.Value(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch document %q: %w", id, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("content store returned %q for document %q", resp.Status, id)
	}

	ct := resp.Header.Get("Content-Type")
	s.log.Debug("Document received", zap.String("id", id), zap.String("content-type", ct), zap.Int64("length", resp.ContentLength))

	body, err := charset.NewReader(resp.Body, ct)
	if err != nil {
		return nil, fmt.Errorf("unable to read document %q: %w", id, err)
	}
	return decode(body, id, s.theme, s.log)
}

// Close releases idle connections.
func (s *HTTP) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
