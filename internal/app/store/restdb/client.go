// internal/app/store/restdb/client.go

// Package restdb is the REST implementation of datastore.Store. It speaks the
// PostgREST dialect used by hosted Postgres services: one path per table,
// `select=` projections, and `column=eq.value` filters.
package restdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/pghub/internal/app/store/datastore"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxLoggedBody caps how much of a payload or response goes into a log line.
const maxLoggedBody = 2048

// Config holds connection settings for the REST backend.
type Config struct {
	BaseURL        string        // e.g. https://project.example.co/rest/v1
	APIKey         string        // sent as apikey and as the bearer token
	ConnectTimeout time.Duration // dial timeout
	Timeout        time.Duration // whole-request timeout
	PingTable      string        // table read by Ping (default "buildings")
}

// Client is a datastore.Store over HTTP. It never retries; every call is
// attempted exactly once.
type Client struct {
	http      *resty.Client
	pingTable string
	log       *zap.Logger
}

var _ datastore.Store = (*Client)(nil)

// New builds a Client. The auth headers are fixed for the client's lifetime.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("restdb: base URL is empty")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("restdb: invalid base URL: %w", err)
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.PingTable == "" {
		cfg.PingTable = "buildings"
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.Timeout,
		MaxIdleConnsPerHost:   10,
	}

	hc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTransport(transport).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("apikey", cfg.APIKey).
		SetAuthToken(cfg.APIKey)

	return &Client{http: hc, pingTable: cfg.PingTable, log: logger}, nil
}

// Select runs GET /{table}?select=...&col=eq.value.
func (c *Client) Select(ctx context.Context, q datastore.Query) ([]datastore.Row, error) {
	params := filterParams(q.Filters)
	params.Set("select", q.Projection())
	return c.do(ctx, "select", http.MethodGet, q.Table, params, nil)
}

// Insert runs POST /{table} and returns the created rows.
func (c *Client) Insert(ctx context.Context, table string, row datastore.Row) ([]datastore.Row, error) {
	return c.do(ctx, "insert", http.MethodPost, table, url.Values{}, row)
}

// Update runs PATCH /{table}?filters and returns the updated rows.
func (c *Client) Update(ctx context.Context, table string, row datastore.Row, filters ...datastore.Filter) ([]datastore.Row, error) {
	return c.do(ctx, "update", http.MethodPatch, table, filterParams(filters), row)
}

// Delete runs DELETE /{table}?filters and returns the deleted rows.
func (c *Client) Delete(ctx context.Context, table string, filters ...datastore.Filter) ([]datastore.Row, error) {
	return c.do(ctx, "delete", http.MethodDelete, table, filterParams(filters), nil)
}

// Ping reads a single id column from the ping table.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("select", "id")
	params.Set("limit", "1")
	_, err := c.do(ctx, "ping", http.MethodGet, c.pingTable, params, nil)
	return err
}

func (c *Client) do(ctx context.Context, op, method, table string, params url.Values, body datastore.Row) ([]datastore.Row, error) {
	callID := uuid.NewString()
	start := time.Now()

	req := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params)
	if method != http.MethodGet {
		req.SetHeader("Prefer", "return=representation")
	}

	var payload string
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("restdb %s %s: encode body: %w", op, table, err)
		}
		req.SetBody(b)
		payload = string(b)
	}

	resp, err := req.Execute(method, "/"+url.PathEscape(table))

	fields := []zap.Field{
		zap.String("call_id", callID),
		zap.String("method", method),
		zap.String("table", table),
		zap.String("query", params.Encode()),
		zap.String("payload", truncate(payload)),
		zap.Duration("took", time.Since(start)),
	}

	if err != nil {
		c.log.Error("data store call failed", append(fields, zap.Error(err))...)
		return nil, &datastore.TransportError{Op: op, Table: table, Err: err}
	}

	fields = append(fields,
		zap.String("url", resp.Request.URL),
		zap.Int("status", resp.StatusCode()),
		zap.String("response", truncate(string(resp.Body()))),
	)

	if !resp.IsSuccess() {
		c.log.Error("data store returned an error status", fields...)
		return nil, &datastore.APIError{
			Op:     op,
			Table:  table,
			Status: resp.StatusCode(),
			Body:   strings.TrimSpace(string(resp.Body())),
		}
	}

	c.log.Debug("data store call", fields...)

	rows, err := decodeRows(resp.Body())
	if err != nil {
		c.log.Error("data store response not decodable", append(fields, zap.Error(err))...)
		return nil, &datastore.APIError{
			Op:     op,
			Table:  table,
			Status: resp.StatusCode(),
			Body:   "undecodable response: " + err.Error(),
		}
	}
	return rows, nil
}

// filterParams renders equality filters as col=eq.value.
func filterParams(filters []datastore.Filter) url.Values {
	v := url.Values{}
	for _, f := range filters {
		v.Add(f.Column, "eq."+datastore.FormatValue(f.Value))
	}
	return v
}

// decodeRows accepts a JSON array of objects, a single object, or an empty
// body (204 responses to mutations without representation).
func decodeRows(b []byte) ([]datastore.Row, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return []datastore.Row{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if b[0] == '{' {
		var one datastore.Row
		if err := dec.Decode(&one); err != nil {
			return nil, err
		}
		return []datastore.Row{one}, nil
	}
	var rows []datastore.Row
	if err := dec.Decode(&rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []datastore.Row{}
	}
	return rows, nil
}

func truncate(s string) string {
	if len(s) <= maxLoggedBody {
		return s
	}
	return s[:maxLoggedBody] + "…"
}
