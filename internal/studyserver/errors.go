package studyserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/anatolykoptev/go_study/internal/engine/study"
)

// Response messages.
const (
	msgSuccess      = "Syllabus analyzed and videos fetched successfully"
	msgInvalidInput = "Please provide both syllabus and subject"
	msgBadBody      = "Request body must be a JSON object with syllabus and subject"
	msgMalformed    = "Generated content is not a valid array format"
	msgAuth         = "Invalid API key"
	msgQuota        = "API quota exceeded"
	msgCancelled    = "Request cancelled"
	msgTimeout      = "Request timed out"
)

// mapError turns a pipeline error into an HTTP status and a caller message.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, study.ErrInvalidInput):
		return http.StatusBadRequest, msgInvalidInput
	case errors.Is(err, study.ErrMalformedModelOutput):
		return http.StatusUnprocessableEntity, msgMalformed
	case errors.Is(err, study.ErrUpstreamAuth):
		return http.StatusUnauthorized, msgAuth
	case errors.Is(err, study.ErrUpstreamQuota):
		return http.StatusTooManyRequests, msgQuota
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, msgTimeout
	case errors.Is(err, context.Canceled):
		// 499 is nginx's "client closed request"; nobody reads the body.
		return 499, msgCancelled
	}
	return http.StatusInternalServerError, "Error processing request: " + err.Error()
}
