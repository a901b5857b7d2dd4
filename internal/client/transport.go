package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mediccare/platform/internal/domain"
	apperrors "github.com/mediccare/platform/pkg/util"
)

// envelope mirrors the response body every service writes.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

// caller issues one bounded request per call; nothing is retried.
type caller struct {
	timeout time.Duration
	headers map[string]string
}

// do sends body as JSON (when non-nil) and decodes the data member of a 2xx
// response into out. Transport failures and 5xx map to ErrRemoteUnavailable;
// other non-2xx statuses are returned as the remote DomainError.
func (c caller) do(ctx context.Context, method, url string, body, out any) error {
	timeout, err := c.budget(ctx)
	if err != nil {
		return domain.ErrRemoteUnavailable.Wrap(err)
	}

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(url)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	for k, v := range c.headers {
		agent.Set(k, v)
	}
	if body != nil {
		agent.JSON(body)
	}
	agent.Timeout(timeout)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return domain.ErrRemoteUnavailable.Wrap(err)
	}

	status, raw, errs := agent.Bytes()
	if len(errs) > 0 {
		return domain.ErrRemoteUnavailable.Wrap(errs[0])
	}
	if status >= http.StatusInternalServerError {
		return domain.ErrRemoteUnavailable.Wrap(fmt.Errorf("%s %s: status %d", method, url, status))
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			if status >= 200 && status < 300 {
				return domain.ErrRemoteUnavailable.Wrap(fmt.Errorf("decode response: %w", err))
			}
		}
	}

	if status < 200 || status >= 300 {
		return remoteError(status, env)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return domain.ErrRemoteUnavailable.Wrap(fmt.Errorf("decode response data: %w", err))
	}
	return nil
}

func (c caller) budget(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return 0, context.DeadlineExceeded
	}
	return timeout, nil
}

func remoteError(status int, env envelope) error {
	if env.Error == nil {
		return apperrors.NewDomainError("REMOTE_REJECTED", http.StatusText(status), status, nil)
	}
	code := env.Error.Code
	if code == "" {
		code = "REMOTE_REJECTED"
	}
	return apperrors.NewDomainError(code, env.Error.Message, status, env.Error.Details)
}
