package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// mapTransportError classifies an error returned before any response was
// read.
func mapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusRequestTimeout:
		return fmt.Errorf("%w: http %d: %s", ErrTimeout, code, body)
	case code == http.StatusTooManyRequests, code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: http %d: %s", ErrTransient, code, body)
	default:
		return &WSError{
			Exception: "http_error",
			ErrorCode: fmt.Sprintf("http%d", code),
			Message:   body,
		}
	}
}

// mapWSException returns the web service exception carried by body, if any.
// The web service answers errors with HTTP 200 and an exception object.
func mapWSException(body []byte) error {
	trimmed := strings.TrimSpace(string(body))
	if !strings.HasPrefix(trimmed, "{") {
		return nil
	}

	var wsErr WSError
	if err := json.Unmarshal(body, &wsErr); err != nil {
		return nil
	}
	if wsErr.Exception == "" && wsErr.ErrorCode == "" {
		return nil
	}
	return &wsErr
}
