package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mailtm/client-go/hydra"
	"github.com/mailtm/client-go/internal/apierrors"
)

// readChecked drains and closes the response body, then checks the status.
// The body is read before the status is evaluated because mail.tm puts its
// diagnostics there.
func readChecked(log zerolog.Logger, resp *http.Response) ([]byte, error) {
	defer func() {
		_ = resp.Body.Close()
	}()

	method, target := requestOf(resp)
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apierrors.TransportError{Method: method, URL: target, Err: fmt.Errorf("read response body: %w", err)}
	}

	log.Trace().
		Int("status", resp.StatusCode).
		Str("url", target).
		Bytes("body", body).
		Msg("Received response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return body, apierrors.NewStatusError(method, target, resp.StatusCode, body)
	}
	return body, nil
}

// decode reads resp and parses its body into T. Values implementing
// hydra.Validator are validated after parsing; a failure there is a
// decode failure like any malformed body.
func decode[T any](log zerolog.Logger, resp *http.Response) (*T, error) {
	body, err := readChecked(log, resp)
	if err != nil {
		return nil, err
	}

	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, &apierrors.DecodeError{Body: string(body), Err: err}
	}
	if val, ok := any(&v).(hydra.Validator); ok {
		if err := val.Validate(); err != nil {
			return nil, &apierrors.DecodeError{Body: string(body), Err: err}
		}
	}
	return &v, nil
}

func requestOf(resp *http.Response) (method, target string) {
	if resp.Request == nil {
		return "", ""
	}
	if resp.Request.URL != nil {
		target = resp.Request.URL.String()
	}
	return resp.Request.Method, target
}
