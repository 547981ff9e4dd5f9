package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/utils/logging"
)

// Handle logs the error with a message and reports it to Sentry when a
// client is configured. It is used for failures that have no HTTP response,
// such as background shutdown errors.
func Handle(ctx context.Context, err error, msg string) {
	if err == nil {
		return
	}

	logError(ctx, msg, err)
	capture(ctx, err)
}

type serverErrorResponse struct {
	Message string `json:"message"`
	ErrorID string `json:"error_id"`
}

// HandleHTTP logs the error with its goerr values and stack, reports it to
// Sentry and writes a generic JSON body. The internal message never reaches
// the client; error_id correlates the response with the log entry.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	if err == nil {
		return
	}

	errorID := uuid.NewString()
	logError(ctx, "HTTP error", err, "status", statusCode, "error_id", errorID)
	capture(ctx, err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	resp := serverErrorResponse{Message: "Server error", ErrorID: errorID}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.From(ctx).Error("failed to write error response", "error", err)
	}
}

func logError(ctx context.Context, msg string, err error, attrs ...any) {
	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		attrs = append(attrs,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		attrs = append(attrs, "error", err.Error())
	}
	logger.Error(msg, attrs...)
}

func capture(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}

	var ge *goerr.Error
	if errors.As(err, &ge) {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetContext("goerr", ge.Values())
			hub.CaptureException(err)
		})
		return
	}
	hub.CaptureException(err)
}
