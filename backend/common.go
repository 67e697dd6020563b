package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// StatusError is a non-2xx reply. Message is extracted from the
// response body so it can be shown to the user as-is.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

/*
A nil body must send an empty request body. Marshaling nil would send
the JSON literal "null", which some endpoints reject; keep the reader
nil instead.
*/
func (c *Client) send(ctx context.Context, method, path string, body any, response any) error {

	var rb io.Reader
	if body != nil {
		bodyByte, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error request body marshaling %w", err)
		}
		rb = bytes.NewBuffer(bodyByte)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rb)
	if err != nil {
		return fmt.Errorf("error making request %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.bearer(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(res.Body)
		return &StatusError{
			Code:    res.StatusCode,
			Message: errorMessage(res.StatusCode, res.Header.Get("Content-Type"), raw),
		}
	}

	if response == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}

	return json.NewDecoder(res.Body).Decode(response)
}

// errorMessage turns an error body into something readable: the JSON
// message/error field if present, else the raw text, else a status
// code fallback.
func errorMessage(status int, contentType string, raw []byte) string {
	if strings.Contains(contentType, "application/json") {
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(raw, &payload); err == nil {
			if payload.Message != "" {
				return payload.Message
			}
			if payload.Error != "" {
				return payload.Error
			}
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}
