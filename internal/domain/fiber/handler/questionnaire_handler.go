package handler

import (
	"time"

	"github.com/fadilmartias/candidate-screener/internal/dto"
	"github.com/fadilmartias/candidate-screener/internal/middleware"
	"github.com/fadilmartias/candidate-screener/internal/usecase"
	"github.com/fadilmartias/candidate-screener/internal/util"
	"github.com/gofiber/fiber/v2"
)

type QuestionnaireHandler struct {
	uc *usecase.QuestionnaireUsecase
}

func NewQuestionnaireHandler(uc *usecase.QuestionnaireUsecase) *QuestionnaireHandler {
	return &QuestionnaireHandler{uc: uc}
}

func (h *QuestionnaireHandler) RegisterRoutes(router fiber.Router) {
	questionnaire := router.Group("/api/questionnaire")
	questionnaire.Get("/:accessCode", h.Get)
	questionnaire.Post("/:accessCode/submit", middleware.RateLimiter(5, 1*time.Minute, middleware.KeyByParam("accessCode")), h.Submit)
}

func (h *QuestionnaireHandler) Get(c *fiber.Ctx) error {
	view, err := h.uc.GetQuestionnaire(c.UserContext(), c.Params("accessCode"))
	if err != nil {
		if util.IsAlreadyCompleted(err) && view != nil {
			return c.Status(fiber.StatusGone).JSON(fiber.Map{
				"error":          msgAlreadyCompleted,
				"message":        "You have already completed this questionnaire",
				"candidateName":  view.CandidateName,
				"candidateEmail": view.CandidateEmail,
				"position":       view.Position,
				"questions":      view.Questions,
				"status":         view.Status,
			})
		}
		return respondError(c, err, fiber.StatusGone, "Failed to fetch questionnaire", nil)
	}
	return c.JSON(view)
}

func (h *QuestionnaireHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitAnswersRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	result, err := h.uc.SubmitAnswers(c.UserContext(), c.Params("accessCode"), req)
	if err != nil {
		return respondError(c, err, fiber.StatusBadRequest, "Failed to submit questionnaire", nil)
	}
	return util.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"score":    result.Score,
		"status":   result.Status,
		"feedback": result.Feedback,
	})
}
