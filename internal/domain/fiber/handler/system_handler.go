package handler

import (
	"time"

	"github.com/fadilmartias/candidate-screener/internal/model"
	"github.com/fadilmartias/candidate-screener/internal/usecase"
	"github.com/fadilmartias/candidate-screener/internal/util"
	"github.com/gofiber/fiber/v2"
)

type SystemHandler struct {
	diagnostics *usecase.DiagnosticsUsecase
	now         func() time.Time
}

func NewSystemHandler(diagnostics *usecase.DiagnosticsUsecase) *SystemHandler {
	return &SystemHandler{diagnostics: diagnostics, now: time.Now}
}

func (h *SystemHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.Health)
	router.Get("/api/diagnostics/evaluator", h.Evaluator)
}

func (h *SystemHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": model.FormatTimestamp(h.now()),
	})
}

// Evaluator reports whether the configured generative API answers at all.
func (h *SystemHandler) Evaluator(c *fiber.Ctx) error {
	status, err := h.diagnostics.EvaluatorStatus(c.UserContext())
	if err != nil {
		return respondError(c, err, fiber.StatusBadRequest, "Evaluator check failed", nil)
	}
	return util.SuccessResponse(c, fiber.StatusOK, fiber.Map{"evaluator": status})
}
