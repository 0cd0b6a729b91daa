package util

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/fadilmartias/candidate-screener/internal/config"
	"github.com/gofiber/fiber/v2"
)

const productionLocal = "app.production"

// WithEnvironment pins the environment used by ErrorResponse for requests
// served by this app.
func WithEnvironment(production bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(productionLocal, production)
		return c.Next()
	}
}

func isProduction(c *fiber.Ctx) bool {
	if production, ok := c.Locals(productionLocal).(bool); ok {
		return production
	}
	return config.LoadAppConfig().IsProduction()
}

type ErrorResponseFormat struct {
	Code    int
	Message string
	Details any
	Extra   fiber.Map
}

// SuccessResponse writes a flat JSON body with "success": true merged in.
func SuccessResponse(c *fiber.Ctx, code int, data fiber.Map) error {
	body := fiber.Map{"success": true}
	for k, v := range data {
		body[k] = v
	}
	if code == 0 {
		code = fiber.StatusOK
	}
	return c.Status(code).JSON(body)
}

// ErrorResponse writes {"error": ...}. Raw error text and stack traces are
// attached only outside production.
func ErrorResponse(c *fiber.Ctx, params ErrorResponseFormat, errs ...error) error {
	errorCode := params.Code
	if errorCode == 0 {
		errorCode = fiber.StatusInternalServerError
	}

	body := fiber.Map{"error": params.Message}
	for k, v := range params.Extra {
		body[k] = v
	}
	if params.Details != nil {
		body["details"] = params.Details
	}
	if !isProduction(c) {
		if len(errs) > 0 && errs[0] != nil {
			if _, ok := body["details"]; !ok {
				body["details"] = errs[0].Error()
			}
			if errorCode >= fiber.StatusInternalServerError {
				body["trace"] = string(debug.Stack())
			}
		}
	} else if errorCode >= fiber.StatusInternalServerError {
		delete(body, "details")
	}

	return c.Status(errorCode).JSON(body)
}

// StatusFromError maps the service error taxonomy onto HTTP status codes.
// completedStatus is used for AlreadyCompletedError, which differs between
// the read path (410) and the write paths (400).
func StatusFromError(err error, completedStatus int) int {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		notReadyErr   *NotReadyError
		completedErr  *AlreadyCompletedError
		fiberErr      *fiber.Error
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr), errors.As(err, &notReadyErr):
		return http.StatusNotFound
	case errors.As(err, &completedErr):
		return completedStatus
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	default:
		return http.StatusInternalServerError
	}
}

// FiberErrorHandler is installed as fiber.Config.ErrorHandler.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	code := StatusFromError(err, fiber.StatusBadRequest)

	message := err.Error()
	if message == "" || code >= fiber.StatusInternalServerError {
		message = "Internal Server Error"
	}
	return ErrorResponse(c, ErrorResponseFormat{Code: code, Message: message}, err)
}
