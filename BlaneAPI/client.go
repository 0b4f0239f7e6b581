package BlaneAPI

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Blane/Constants"

	"github.com/sirupsen/logrus"
)

var httpClient = &http.Client{
	Timeout: 60 * time.Second,
}

// APIError is a non-transport failure reported by the Blane backend.
// Fields carries per-field validation messages for 422 responses.
type APIError struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("blane api: %d %s", e.Status, e.Message)
}

// getJSON issues a GET against the Blane API and returns the decoded body
// as-is, without assuming any envelope shape. Resolution happens later.
func getJSON(path string, params url.Values) (any, error) {
	endpoint := Constants.BlaneAPIURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	setHeaders(req)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	logrus.WithFields(logrus.Fields{
		"path":   path,
		"status": resp.StatusCode,
	}).Debug("Blane API GET")

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return body, nil
}

// putJSON issues a PUT with a JSON body and returns the decoded response.
func putJSON(path string, payload any) (any, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPut, Constants.BlaneAPIURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	setHeaders(req)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	logrus.WithFields(logrus.Fields{
		"path":   path,
		"status": resp.StatusCode,
	}).Debug("Blane API PUT")

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		// Some mutation endpoints answer 200 with an empty body.
		if err == io.EOF {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return body, nil
}

// getBinary fetches a binary export (excel, pdf) and returns the raw bytes
// together with the upstream content type.
func getBinary(path string, params url.Values) ([]byte, string, error) {
	endpoint := Constants.BlaneAPIURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	setHeaders(req)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, "", err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read export body: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func setHeaders(req *http.Request) {
	if Constants.BlaneAPIToken != "" {
		req.Header.Set("Authorization", "Bearer "+Constants.BlaneAPIToken)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Blane-Admin-Sync/1.0")
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return &APIError{Status: resp.StatusCode, Message: "authentication failed - check API token"}
	case resp.StatusCode == http.StatusForbidden:
		return &APIError{Status: resp.StatusCode, Message: "access forbidden - insufficient permissions"}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &APIError{Status: resp.StatusCode, Message: "rate limit exceeded - try again later"}
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return parseValidationError(resp)
	default:
		return parseServerError(resp)
	}
}

// parseValidationError turns a Laravel 422 body into field-level messages.
func parseValidationError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: "validation failed"}

	var body struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return apiErr
	}
	if body.Message != "" {
		apiErr.Message = body.Message
	}
	if len(body.Errors) > 0 {
		apiErr.Fields = make(map[string]string, len(body.Errors))
		for field, messages := range body.Errors {
			if len(messages) > 0 {
				apiErr.Fields[field] = messages[0]
			}
		}
	}
	return TranslateBackendQuirk(apiErr)
}

func parseServerError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: resp.Status}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8192))
	if err == nil && len(data) > 0 {
		var body struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(data, &body) == nil {
			if body.Message != "" {
				apiErr.Message = body.Message
			} else if body.Error != "" {
				apiErr.Message = body.Error
			}
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
	}
	return TranslateBackendQuirk(apiErr)
}
