package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	gql "github.com/Khan/genqlient/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/studentcatalog/catalog-web/internal/notify"
	"github.com/studentcatalog/catalog-web/pkg/logger"
	"github.com/studentcatalog/catalog-web/pkg/metrics"
)

// Document is a named GraphQL query or mutation.
type Document struct {
	Operation string
	Query     string
}

// Vars maps variable names to values. A nil Vars is sent as {}.
type Vars map[string]interface{}

// Notifier is the user-facing status channel a Transport reports failures to.
type Notifier interface {
	Show(message string, severity notify.Severity)
}

// Requester is what controllers depend on; *Transport implements it.
type Requester interface {
	Request(ctx context.Context, doc Document, vars Vars) (json.RawMessage, error)
}

// Client is the shared, session-independent half of the transport.
type Client struct {
	endpoint string
	gql      gql.Client
}

// NewClient returns a client posting to endpoint. httpClient may be nil.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		endpoint: endpoint,
		gql:      gql.NewClient(endpoint, &envelopeDoer{next: httpClient}),
	}
}

func (c *Client) Endpoint() string { return c.endpoint }

// Bind returns a Transport that reports failures to n.
func (c *Client) Bind(n Notifier) *Transport {
	return &Transport{client: c, notifier: n}
}

// Transport sends one document per call and surfaces every failure to its
// notifier before returning it.
type Transport struct {
	client   *Client
	notifier Notifier
}

// Request posts doc with vars and returns the data payload unchanged.
func (t *Transport) Request(ctx context.Context, doc Document, vars Vars) (json.RawMessage, error) {
	if vars == nil {
		vars = Vars{}
	}
	var data json.RawMessage
	req := &gql.Request{Query: doc.Query, Variables: map[string]interface{}(vars), OpName: doc.Operation}
	resp := &gql.Response{Data: &data}

	start := time.Now()
	err := t.client.gql.MakeRequest(ctx, req, resp)
	metrics.GraphQLDuration.WithLabelValues(doc.Operation).Observe(time.Since(start).Seconds())

	if err != nil {
		err = classify(doc.Operation, err)
		outcome := "transport_error"
		var se *ServerError
		if errors.As(err, &se) {
			outcome = "server_error"
		}
		metrics.GraphQLRequests.WithLabelValues(doc.Operation, outcome).Inc()
		logger.Debugf("graphql %s failed (%s): %v", doc.Operation, outcome, err)
		if t.notifier != nil {
			t.notifier.Show("Error: "+err.Error(), notify.Error)
		}
		return nil, err
	}
	metrics.GraphQLRequests.WithLabelValues(doc.Operation, "ok").Inc()
	return data, nil
}

func classify(op string, err error) error {
	var list gqlerror.List
	if errors.As(err, &list) && len(list) > 0 {
		msgs := make([]string, 0, len(list))
		for _, e := range list {
			msgs = append(msgs, e.Message)
		}
		return &ServerError{Operation: op, Messages: msgs}
	}
	return &TransportError{Operation: op, Err: err}
}

// Decode unmarshals one top-level field of a data payload into T.
// A missing or null field leaves T at its zero value.
func Decode[T any](data json.RawMessage, field string) (T, error) {
	var zero T
	var fields map[string]json.RawMessage
	if len(data) == 0 || string(data) == "null" {
		return zero, nil
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return zero, fmt.Errorf("decode data: %w", err)
	}
	raw, ok := fields[field]
	if !ok || string(raw) == "null" {
		return zero, nil
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("decode %s: %w", field, err)
	}
	return out, nil
}

// envelopeDoer lets error envelopes sent with a non-2xx status reach the
// GraphQL decoder, so they surface as server errors rather than as opaque
// HTTP failures.
type envelopeDoer struct {
	next *http.Client
}

func (d *envelopeDoer) Do(req *http.Request) (*http.Response, error) {
	resp, err := d.next.Do(req)
	if err != nil || (resp.StatusCode >= 200 && resp.StatusCode < 300) {
		return resp, err
	}
	body, rerr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if rerr != nil {
		return nil, fmt.Errorf("read %s response: %w", resp.Status, rerr)
	}
	var env struct {
		Errors []json.RawMessage `json:"errors"`
	}
	if json.Unmarshal(body, &env) == nil && len(env.Errors) > 0 {
		resp.StatusCode = http.StatusOK
		resp.Status = "200 OK"
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
