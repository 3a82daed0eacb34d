package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TestContext holds the HTTP client and the last response of a scenario.
type TestContext struct {
	BaseURL      string
	HTTPClient   *http.Client
	RunID        string
	lastStatus   int
	lastBody     []byte
	lastHeaders  http.Header
	lastResponse map[string]interface{}
}

// NewTestContext creates a context targeting baseURL. runID keeps usernames
// unique across runs against a persistent backend.
func NewTestContext(baseURL, runID string) *TestContext {
	return &TestContext{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		RunID:      runID,
	}
}

// Reset clears the response state between scenarios.
func (tc *TestContext) Reset() {
	tc.lastStatus = 0
	tc.lastBody = nil
	tc.lastHeaders = nil
	tc.lastResponse = nil
}

func (tc *TestContext) POST(path string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	return tc.POSTRaw(path, string(payload), nil)
}

// POSTRaw sends body as-is so scenarios can submit malformed JSON.
func (tc *TestContext) POSTRaw(path, body string, headers map[string]string) error {
	req, err := http.NewRequest(http.MethodPost, tc.BaseURL+path, strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return tc.do(req, headers)
}

func (tc *TestContext) GET(path string, headers map[string]string) error {
	req, err := http.NewRequest(http.MethodGet, tc.BaseURL+path, nil)
	if err != nil {
		return err
	}
	return tc.do(req, headers)
}

func (tc *TestContext) do(req *http.Request, headers map[string]string) error {
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	tc.lastStatus = resp.StatusCode
	tc.lastBody = body
	tc.lastHeaders = resp.Header
	tc.lastResponse = nil
	if len(bytes.TrimSpace(body)) > 0 {
		var parsed map[string]interface{}
		if err := json.Unmarshal(body, &parsed); err == nil {
			tc.lastResponse = parsed
		}
	}
	return nil
}

func (tc *TestContext) GetResponseField(field string) (interface{}, error) {
	if tc.lastResponse == nil {
		return nil, fmt.Errorf("no JSON response body (status %d): %s", tc.lastStatus, tc.lastBody)
	}
	v, ok := tc.lastResponse[field]
	if !ok {
		return nil, fmt.Errorf("field %q not found in response: %s", field, tc.lastBody)
	}
	return v, nil
}

func (tc *TestContext) ResponseContains(field string) bool {
	_, err := tc.GetResponseField(field)
	return err == nil
}

func (tc *TestContext) GetLastResponseStatus() int {
	return tc.lastStatus
}

func (tc *TestContext) GetLastResponseBody() []byte {
	return tc.lastBody
}

func (tc *TestContext) GetResponseHeader(name string) string {
	if tc.lastHeaders == nil {
		return ""
	}
	return tc.lastHeaders.Get(name)
}

func (tc *TestContext) GetRunID() string {
	return tc.RunID
}
