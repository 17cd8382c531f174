package handlers

import (
	"errors"
	"net/http"

	"github.com/upb/coffee-shop/services"
	"github.com/upb/coffee-shop/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses.
// not_found → 404, validation and conflict → 422, anything else → 500.
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	var writeErr error
	switch {
	case services.IsNotFoundError(err):
		writeErr = utils.WriteNotFound(w, "")

	case services.IsValidationError(err):
		writeErr = utils.WriteUnprocessable(w, "", errorDetails(err))

	case services.IsConflictError(err):
		writeErr = utils.WriteError(w, http.StatusUnprocessableEntity, "", "conflict", errorDetails(err))

	case services.IsInternalError(err):
		logger.Error("internal server error", zap.Error(err))
		writeErr = utils.WriteInternalServerError(w, "")

	default:
		logger.Error("unhandled error type",
			zap.Error(err),
			zap.String("error_type", string(services.GetErrorType(err))))
		writeErr = utils.WriteInternalServerError(w, "")
	}

	if writeErr != nil {
		logger.Error("failed to write error response", zap.Error(writeErr))
	}
}

// errorDetails copies the domain error's details and adds its message as
// "reason". Shared sentinel errors are never mutated.
func errorDetails(err error) map[string]interface{} {
	details := map[string]interface{}{}
	for k, v := range services.GetErrorDetails(err) {
		details[k] = v
	}

	var domainErr *services.DomainError
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		details["reason"] = domainErr.Message
	}
	return details
}

// HandleValidationError handles request body decoding and validation
// failures. Every such failure is a 422.
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var details map[string]interface{}
	if fields := utils.GetValidationFields(err); len(fields) > 0 {
		details = make(map[string]interface{}, len(fields))
		for k, v := range fields {
			details[k] = v
		}
	} else {
		details = map[string]interface{}{"reason": err.Error()}
	}

	if err := utils.WriteUnprocessable(w, "", details); err != nil {
		logger.Error("failed to write validation error response", zap.Error(err))
	}
}
