package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	apperrors "vila-timesheet/internal/errors"
	"vila-timesheet/internal/validation"
)

const maxBodyBytes = 64 << 10

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string              `json:"detail"`
	Code   string              `json:"code"`
	Fields []FieldErrorPayload `json:"fields,omitempty"`
}

// FieldErrorPayload describes one invalid request field.
type FieldErrorPayload struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeDetail(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail, Code: code})
}

// decodeJSON reads a single JSON object, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("invalid request body: %v", err), err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperrors.NewValidationError("invalid request body: expected a single JSON object", nil)
	}
	return nil
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	if validation.IsValidationError(err) {
		return http.StatusBadRequest
	}
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case apperrors.ErrorTypeValidation, apperrors.ErrorTypeInvalidInput, apperrors.ErrorTypePeriodClosed:
		return http.StatusBadRequest
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeDuplicateEntry:
		return http.StatusConflict
	case apperrors.ErrorTypeCapacityExceeded:
		return http.StatusInsufficientStorage
	case apperrors.ErrorTypeNotInitialized:
		return http.StatusServiceUnavailable
	case apperrors.ErrorTypeRemoteStore:
		return http.StatusBadGateway
	case apperrors.ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrorTypePermission:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err with the user-facing message for its type and logs
// the ones that indicate a fault.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := StatusFor(err)

	var ve *validation.ValidationError
	if errors.As(err, &ve) {
		resp := ErrorResponse{Detail: ve.GetUserFriendlyMessage(), Code: "VALIDATION_FAILED"}
		for _, fe := range ve.Errors {
			resp.Fields = append(resp.Fields, FieldErrorPayload{Field: fe.Field, Message: fe.Message})
		}
		writeJSON(w, status, resp)
		return
	}

	if apperrors.ShouldLogError(err) {
		logger.Error("request failed", "request_id", RequestIDFrom(r.Context()), "path", r.URL.Path, "error", err)
	}
	if !apperrors.IsAppError(err) {
		writeDetail(w, status, "INTERNAL_ERROR", "An unexpected error occurred. Please try again.")
		return
	}
	writeDetail(w, status, apperrors.GetErrorCode(err), apperrors.GetUserMessage(err))
}
