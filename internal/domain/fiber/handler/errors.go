package handler

import (
	"errors"

	"github.com/fadilmartias/candidate-screener/internal/util"
	"github.com/gofiber/fiber/v2"
)

const (
	msgNotReady         = "Questionnaire is being prepared. Please try again in a few moments."
	msgAlreadyCompleted = "Questionnaire already completed"
	msgInvalidBody      = "Invalid request body"
)

// respondError maps a usecase error onto a status and a client-facing message.
// fallback is used for anything that is not a client error.
func respondError(c *fiber.Ctx, err error, completedStatus int, fallback string, extra fiber.Map) error {
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Code:    util.StatusFromError(err, completedStatus),
		Message: errorMessage(err, fallback),
		Extra:   extra,
	}, err)
}

func errorMessage(err error, fallback string) string {
	var (
		validationErr *util.ValidationError
		notFoundErr   *util.NotFoundError
		notReadyErr   *util.NotReadyError
		completedErr  *util.AlreadyCompletedError
		configErr     *util.ConfigurationError
	)
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.As(err, &notFoundErr):
		if notFoundErr.Message != "" {
			return notFoundErr.Message
		}
		return "Candidate not found"
	case errors.As(err, &notReadyErr):
		return msgNotReady
	case errors.As(err, &completedErr):
		return msgAlreadyCompleted
	case errors.As(err, &configErr):
		return "Evaluator is not configured: " + configErr.Message
	}
	return fallback
}

func badBody(c *fiber.Ctx, err error) error {
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Code:    fiber.StatusBadRequest,
		Message: msgInvalidBody,
	}, err)
}
