package handler

import (
	"log"

	"github.com/fadilmartias/candidate-screener/internal/dto"
	"github.com/fadilmartias/candidate-screener/internal/model"
	"github.com/fadilmartias/candidate-screener/internal/usecase"
	"github.com/fadilmartias/candidate-screener/internal/util"
	"github.com/gofiber/fiber/v2"
)

type CandidateHandler struct {
	uc *usecase.CandidateUsecase
}

func NewCandidateHandler(uc *usecase.CandidateUsecase) *CandidateHandler {
	return &CandidateHandler{uc: uc}
}

func (h *CandidateHandler) RegisterRoutes(router fiber.Router) {
	candidates := router.Group("/api/candidates")
	candidates.Post("/", h.Create)
	candidates.Get("/", h.List)
	candidates.Get("/stats", h.Stats)
	candidates.Patch("/:email", h.Patch)
	candidates.Post("/:email/questions", h.AttachQuestions)
	candidates.Post("/:email/notifications", h.RecordNotification)
}

func (h *CandidateHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	result, err := h.uc.CreateCandidate(c.UserContext(), req)
	if err != nil {
		var extra fiber.Map
		if util.StatusFromError(err, fiber.StatusBadRequest) == fiber.StatusBadRequest {
			fields := dto.ReceivedFields(c.Body())
			log.Printf("Rejected candidate submission, received fields: %v", fields)
			extra = fiber.Map{"receivedFields": fields}
		}
		return respondError(c, err, fiber.StatusBadRequest, "Failed to store candidate data", extra)
	}

	return util.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"key":        result.Key,
		"accessCode": result.AccessCode,
	})
}

func (h *CandidateHandler) List(c *fiber.Ctx) error {
	candidates, err := h.uc.ListCandidates(c.UserContext())
	if err != nil {
		return respondError(c, err, fiber.StatusBadRequest, "Failed to fetch candidates", nil)
	}
	if candidates == nil {
		candidates = []model.Candidate{}
	}
	return c.JSON(fiber.Map{"candidates": candidates})
}

func (h *CandidateHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err, fiber.StatusBadRequest, "Failed to compute candidate stats", nil)
	}
	return util.SuccessResponse(c, fiber.StatusOK, fiber.Map{"stats": stats})
}

func (h *CandidateHandler) Patch(c *fiber.Ctx) error {
	var req dto.PatchCandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	candidate, err := h.uc.PatchCandidateStatus(c.UserContext(), c.Params("email"), req)
	if err != nil {
		return respondError(c, err, fiber.StatusBadRequest, "Failed to update candidate", nil)
	}
	return util.SuccessResponse(c, fiber.StatusOK, fiber.Map{"candidate": candidate})
}

func (h *CandidateHandler) AttachQuestions(c *fiber.Ctx) error {
	var req dto.AttachQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "Invalid questions format",
		}, err)
	}

	result, err := h.uc.AttachQuestions(c.UserContext(), c.Params("email"), req)
	if err != nil {
		return respondError(c, err, fiber.StatusBadRequest, "Failed to store questions", nil)
	}
	return util.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"accessCode":    result.AccessCode,
		"questionCount": result.QuestionCount,
	})
}

func (h *CandidateHandler) RecordNotification(c *fiber.Ctx) error {
	var req dto.NotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	candidate, err := h.uc.RecordNotification(c.UserContext(), c.Params("email"), req)
	if err != nil {
		return respondError(c, err, fiber.StatusBadRequest, "Failed to record notification", nil)
	}
	return util.SuccessResponse(c, fiber.StatusOK, fiber.Map{"candidate": candidate})
}
