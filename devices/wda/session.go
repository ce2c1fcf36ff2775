package wda

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

const safariBundleID = "com.apple.mobilesafari"

type statusResponse struct {
	SessionID *string                `json:"sessionId"`
	Value     map[string]interface{} `json:"value"`
}

// Connect probes /status and adopts the session id WDA reports there. When
// WDA has no session yet, a fresh one is created. A reconnect drops the
// cached device size.
func (c *WdaClient) Connect(ctx context.Context) error {
	baseURL := getURI(c.config.Host, c.config.Port)
	c.mu.Lock()
	c.baseURL = baseURL
	c.mu.Unlock()
	c.log.Infof("baseUrl: %s", baseURL)

	resp, err := c.do(ctx, PendingRequest{Method: http.MethodGet, Path: "status"})
	if err != nil {
		c.log.Errorf("no valid response from web driver: %v", err)
		return &ConnectError{BaseURL: baseURL, Err: err}
	}

	var status statusResponse
	if err := resp.Decode(&status); err != nil {
		c.log.Errorf("failed to parse status response: %v", err)
		return &ConnectError{BaseURL: baseURL, Err: err}
	}
	if status.Value == nil {
		return &ConnectError{BaseURL: baseURL, Err: errors.New("status response has no 'value' field")}
	}

	sessionId := ""
	if status.SessionID != nil {
		sessionId = *status.SessionID
	}

	if sessionId == "" {
		sessionId, err = c.createSession(ctx, map[string]interface{}{
			"capabilities": map[string]interface{}{
				"alwaysMatch": map[string]interface{}{
					"platformName": "iOS",
				},
			},
		})
		if err != nil {
			return &ConnectError{BaseURL: baseURL, Err: err}
		}
	}

	c.mu.Lock()
	c.sessionId = sessionId
	c.deviceSize = nil
	c.mu.Unlock()

	c.log.Infof("sessionId: %s", sessionId)
	return nil
}

// createSession posts a new session without going through recovery
func (c *WdaClient) createSession(ctx context.Context, body interface{}) (string, error) {
	resp, err := c.do(ctx, PendingRequest{Method: http.MethodPost, Path: "session", Body: body, JSON: true})
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return parseSessionID(resp)
}

func parseSessionID(resp *Response) (string, error) {
	var created struct {
		SessionID string `json:"sessionId"`
		Value     struct {
			SessionID string `json:"sessionId"`
		} `json:"value"`
	}
	if err := resp.Decode(&created); err != nil {
		return "", err
	}

	if created.Value.SessionID != "" {
		return created.Value.SessionID, nil
	}
	if created.SessionID != "" {
		return created.SessionID, nil
	}
	return "", errors.New("session response has no sessionId")
}

// RemoveSession deletes the current session. The base URL is kept so a
// later Connect reuses it.
func (c *WdaClient) RemoveSession(ctx context.Context) error {
	_, err := c.handleRequest(ctx, PendingRequest{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("session/%s", c.SessionID()),
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	c.setSessionID("")
	return nil
}

// OpenURL starts a new Safari session launched with url and adopts its id
func (c *WdaClient) OpenURL(ctx context.Context, url string) error {
	params := map[string]interface{}{
		"desiredCapabilities": map[string]interface{}{
			"bundleId":                safariBundleID,
			"arguments":               []string{"-u", url},
			"shouldWaitForQuiescence": true,
		},
	}

	resp, err := c.handleRequest(ctx, PendingRequest{
		Method: http.MethodPost,
		Path:   "session/",
		Body:   params,
		JSON:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to open URL: %w", err)
	}

	sessionId, err := parseSessionID(resp)
	if err != nil {
		return fmt.Errorf("failed to open URL: %w", err)
	}

	c.setSessionID(sessionId)
	return nil
}

// SessionInfo returns the raw capabilities of the current session, which
// carry the sdkVersion among other things
func (c *WdaClient) SessionInfo(ctx context.Context) (map[string]interface{}, error) {
	resp, err := c.handleRequest(ctx, PendingRequest{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("session/%s", c.SessionID()),
		JSON:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get session info: %w", err)
	}

	var info map[string]interface{}
	if err := resp.DecodeValue(&info); err != nil {
		return nil, err
	}
	return info, nil
}
