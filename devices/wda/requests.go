package wda

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const logAPIRequestMsg = "sent api request to WDA"

// PendingRequest describes one HTTP call to WDA. Path is relative to the
// base URL and may embed the session id as "session/<id>/...".
type PendingRequest struct {
	Method string
	Path   string
	Body   interface{}
	JSON   bool
}

func (r PendingRequest) sessionID() (string, bool) {
	rest, ok := strings.CutPrefix(r.Path, "session/")
	if !ok || rest == "" {
		return "", false
	}

	id, _, _ := strings.Cut(rest, "/")
	return id, true
}

// rebind swaps the session id embedded in the path for newID
func (r PendingRequest) rebind(oldID, newID string) PendingRequest {
	prefix := "session/" + oldID
	if r.Path == prefix || strings.HasPrefix(r.Path, prefix+"/") {
		r.Path = "session/" + newID + strings.TrimPrefix(r.Path, prefix)
	}
	return r
}

type Response struct {
	StatusCode int
	Body       []byte
}

// Decode unmarshals the whole response body into v
func (r *Response) Decode(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("invalid JSON response: %w", err)
	}
	return nil
}

// DecodeValue unmarshals the "value" member of a WDA response into v
func (r *Response) DecodeValue(v interface{}) error {
	var envelope struct {
		Value json.RawMessage `json:"value"`
	}
	if err := r.Decode(&envelope); err != nil {
		return err
	}
	if len(envelope.Value) == 0 {
		return fmt.Errorf("no 'value' field found in WDA response")
	}
	if err := json.Unmarshal(envelope.Value, v); err != nil {
		return fmt.Errorf("unexpected 'value' format: %w", err)
	}
	return nil
}

// handleRequest is the only path by which actions reach WDA. Expired
// sessions are reconnected and the request replayed with the new id, once
// per expiry and at most MaxSessionRetries times per call.
func (c *WdaClient) handleRequest(ctx context.Context, req PendingRequest) (*Response, error) {
	return c.dispatch(ctx, req, 0)
}

func (c *WdaClient) dispatch(ctx context.Context, req PendingRequest, attempt int) (*Response, error) {
	resp, err := c.do(ctx, req)
	if err == nil {
		c.log.WithField("method", req.Method).WithField("path", req.Path).Debugf("%s: %s", logAPIRequestMsg, encodeBody(req.Body))
		return resp, nil
	}

	var expired *SessionExpiredError
	var unreachable *BackendUnreachableError

	switch {
	case errors.As(err, &expired):
		if attempt >= c.config.MaxSessionRetries {
			c.log.Errorf("giving up on %s %s after %d reconnects", req.Method, req.Path, attempt)
			c.notifyUnavailable(ctx)
			return nil, fmt.Errorf("%w: %w", ErrRetryLimit, err)
		}

		oldID := expired.SessionID
		if err := c.Connect(ctx); err != nil {
			if ctx.Err() == nil {
				c.notifyUnavailable(ctx)
			}
			return nil, &UnrecoverableError{Err: err}
		}

		retry := req.rebind(oldID, c.SessionID())
		c.log.Infof("session %s expired, replaying %s %s", oldID, retry.Method, retry.Path)
		return c.dispatch(ctx, retry, attempt+1)

	case errors.As(err, &unreachable):
		c.log.Errorf("WDA is not responding: %v", err)
		c.notifyUnavailable(ctx)
		return nil, err

	default:
		c.log.Errorf("failed to send request with error: %v", err)
		return nil, err
	}
}

// do performs a single HTTP exchange and classifies its failure
func (c *WdaClient) do(ctx context.Context, req PendingRequest) (*Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, &RequestError{Method: req.Method, Path: req.Path, Err: fmt.Errorf("failed to marshal data: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	url := fmt.Sprintf("%s/%s", c.BaseURL(), req.Path)
	httpReq, err := http.NewRequestWithContext(callCtx, req.Method, url, body)
	if err != nil {
		return nil, &RequestError{Method: req.Method, Path: req.Path, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	if req.JSON {
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Accept", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// the caller gave up; WDA itself may be fine
		if ctx.Err() != nil {
			return nil, &RequestError{Method: req.Method, Path: req.Path, Err: ctx.Err()}
		}
		return nil, &BackendUnreachableError{Method: req.Method, Path: req.Path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &BackendUnreachableError{Method: req.Method, Path: req.Path, Err: fmt.Errorf("error reading response: %w", err)}
	}

	if resp.StatusCode == http.StatusNotFound {
		if id, ok := req.sessionID(); ok {
			return nil, &SessionExpiredError{SessionID: id, Path: req.Path}
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &RequestError{
			Method:     req.Method,
			Path:       req.Path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

func encodeBody(body interface{}) string {
	if body == nil {
		return "{}"
	}
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Sprintf("%v", body)
	}
	return string(data)
}
