package payment

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"commission-service/internal/domain"
)

const maxResponseBody = 1 << 20

// apiError keeps the provider's HTTP status and body for callers that need to
// look at a specific decline reason.
type apiError struct {
	status int
	body   string
	kind   error
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%v: status %d: %s", e.kind, e.status, e.body)
}

func (e *apiError) Unwrap() error { return e.kind }

func doJSON(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", domain.ErrProviderUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 500, resp.StatusCode == http.StatusTooManyRequests:
		return &apiError{status: resp.StatusCode, body: snippet(body), kind: domain.ErrProviderUnavailable}
	case resp.StatusCode >= 400:
		return &apiError{status: resp.StatusCode, body: snippet(body), kind: domain.ErrProviderRejected}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", domain.ErrProviderUnavailable, err)
	}
	return nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 512 {
		return s[:512]
	}
	return s
}
