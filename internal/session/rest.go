// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-logr/logr"
	"github.com/tidwall/gjson"
)

// apiVersionPrefix is the controller API generation this client speaks.
// The handshake rejects controllers reporting anything else.
const apiVersionPrefix = "1."

var _ Session = (*rest)(nil)

// rest is a Session over the controller's HTTP+JSON API.
type rest struct {
	base   *url.URL
	hc     *http.Client
	apiKey string
	id     string
	logger logr.Logger
}

type Option func(*rest)

// WithHTTPClient sets the HTTP client used for all requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(r *rest) {
		r.hc = hc
	}
}

// WithAPIKey sets the API key sent with every request.
func WithAPIKey(key string) Option {
	return func(r *rest) {
		r.apiKey = key
	}
}

// WithLogger sets a custom logger for the session.
func WithLogger(logger logr.Logger) Option {
	return func(r *rest) {
		r.logger = logger
	}
}

// New opens a session against the controller at baseURL. The constructor
// performs a handshake that allocates a session on the controller and
// verifies that the reported API version is supported by this client.
// By default, requests use [http.DefaultClient] and logs go through
// [slog.Default]. Use the options to override either.
func New(ctx context.Context, baseURL string, opts ...Option) (Session, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("session: invalid controller URL %q: %w", baseURL, err)
	}

	r := &rest{
		base:   u,
		hc:     http.DefaultClient,
		logger: logr.FromSlogHandler(slog.Default().Handler()),
	}
	for _, opt := range opts {
		opt(r)
	}

	res, err := r.do(ctx, http.MethodPost, "/api/v1/sessions", nil)
	if err != nil {
		return nil, err
	}

	version := res.Get("apiVersion").String()
	if !strings.HasPrefix(version, apiVersionPrefix) {
		return nil, fmt.Errorf("%w: unsupported api version %q", ErrSession, version)
	}
	r.id = res.Get("sessionId").String()
	if r.id == "" {
		return nil, fmt.Errorf("%w: controller returned no session id", ErrSession)
	}

	r.logger.V(1).Info("Session established", "sessionId", r.id, "apiVersion", version)
	return r, nil
}

func (r *rest) Create(ctx context.Context, objType, parentRef string, attrs map[string]string) (string, error) {
	body := map[string]any{"objectType": objType}
	if parentRef != "" {
		body["under"] = parentRef
	}
	if len(attrs) > 0 {
		body["attributes"] = attrs
	}
	res, err := r.do(ctx, http.MethodPost, "/api/v1/objects", body)
	if err != nil {
		return "", fmt.Errorf("session: failed to create %s object: %w", objType, err)
	}
	handle := res.Get("handle").String()
	if handle == "" {
		return "", fmt.Errorf("%w: create response carries no handle", ErrSession)
	}
	return handle, nil
}

func (r *rest) Get(ctx context.Context, ref, attr string) (string, error) {
	res, err := r.do(ctx, http.MethodGet, "/api/v1/objects/"+url.PathEscape(ref)+"/attributes/"+url.PathEscape(attr), nil)
	if err != nil {
		return "", fmt.Errorf("session: failed to get %s of %s: %w", attr, ref, err)
	}
	return res.Get("value").String(), nil
}

func (r *rest) GetAll(ctx context.Context, ref string) (map[string]string, error) {
	res, err := r.do(ctx, http.MethodGet, "/api/v1/objects/"+url.PathEscape(ref), nil)
	if err != nil {
		return nil, fmt.Errorf("session: failed to get attributes of %s: %w", ref, err)
	}
	attrs := make(map[string]string)
	res.Get("attributes").ForEach(func(key, value gjson.Result) bool {
		attrs[key.String()] = value.String()
		return true
	})
	return attrs, nil
}

func (r *rest) Set(ctx context.Context, ref string, attrs map[string]string) error {
	if len(attrs) == 0 {
		return nil
	}
	_, err := r.do(ctx, http.MethodPatch, "/api/v1/objects/"+url.PathEscape(ref), map[string]any{"attributes": attrs})
	if err != nil {
		return fmt.Errorf("session: failed to set attributes of %s: %w", ref, err)
	}
	return nil
}

func (r *rest) Apply(ctx context.Context) error {
	if _, err := r.do(ctx, http.MethodPost, "/api/v1/apply", nil); err != nil {
		return fmt.Errorf("session: failed to apply configuration: %w", err)
	}
	return nil
}

func (r *rest) Perform(ctx context.Context, command string, args map[string]string) (map[string]string, error) {
	body := map[string]any{"command": command}
	if len(args) > 0 {
		body["arguments"] = args
	}
	res, err := r.do(ctx, http.MethodPost, "/api/v1/perform", body)
	if err != nil {
		return nil, fmt.Errorf("session: failed to perform %s: %w", command, err)
	}
	result := make(map[string]string)
	res.Get("result").ForEach(func(key, value gjson.Result) bool {
		result[key.String()] = value.String()
		return true
	})
	return result, nil
}

func (r *rest) Children(ctx context.Context, ref, objType string) ([]string, error) {
	path := "/api/v1/objects/" + url.PathEscape(ref) + "/children"
	if objType != "" {
		path += "?type=" + url.QueryEscape(objType)
	}
	res, err := r.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("session: failed to list %s children of %s: %w", objType, ref, err)
	}
	var handles []string
	for _, h := range res.Get("handles").Array() {
		handles = append(handles, h.String())
	}
	return handles, nil
}

// do issues one HTTP round trip and returns the parsed response body.
// Connection-level failures map to [ErrUnavailable], 404 to [ErrNotFound].
func (r *rest) do(ctx context.Context, method, path string, body any) (gjson.Result, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return gjson.Result{}, fmt.Errorf("session: failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	u := *r.base
	if i := strings.IndexByte(path, '?'); i >= 0 {
		u.Path = strings.TrimSuffix(u.Path, "/") + path[:i]
		u.RawQuery = path[i+1:]
	} else {
		u.Path = strings.TrimSuffix(u.Path, "/") + path
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("session: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.apiKey != "" {
		req.Header.Set("X-Api-Key", r.apiKey)
	}
	if r.id != "" {
		req.Header.Set("X-Session-Id", r.id)
	}

	res, err := r.hc.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("session: failed to read response body: %w", err)
	}

	r.logger.V(1).Info("Request", "method", method, "path", path, "status", res.StatusCode)

	switch {
	case res.StatusCode == http.StatusNotFound:
		return gjson.Result{}, ErrNotFound
	case res.StatusCode < 200 || res.StatusCode > 299:
		msg := gjson.GetBytes(b, "error").String()
		if msg == "" {
			msg = strings.TrimSpace(string(b))
		}
		return gjson.Result{}, fmt.Errorf("session: unexpected status %d: %s", res.StatusCode, msg)
	}

	return gjson.ParseBytes(b), nil
}
