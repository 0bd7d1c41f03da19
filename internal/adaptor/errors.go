package adaptor

import (
	"errors"
	"net/http"

	"gym-booking/internal/data/entity"
	"gym-booking/internal/usecase"
	"gym-booking/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps the service error taxonomy onto HTTP responses.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrDuplicateBooking),
		errors.Is(err, usecase.ErrClassFull),
		errors.Is(err, usecase.ErrClassClosed),
		errors.Is(err, usecase.ErrAlreadyProcessed),
		errors.Is(err, entity.ErrInvalidTransition):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
