package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/specialist-marketplace/internal/api/dto"
	"github.com/spec-kit/specialist-marketplace/internal/domain"
	"github.com/spec-kit/specialist-marketplace/internal/service"
	apperrors "github.com/spec-kit/specialist-marketplace/pkg/util"
)

// PlatformFeeHandler manages the tier table endpoints.
type PlatformFeeHandler struct {
	service *service.PlatformFeeService
}

// NewPlatformFeeHandler constructs handler.
func NewPlatformFeeHandler(feeService *service.PlatformFeeService) *PlatformFeeHandler {
	return &PlatformFeeHandler{service: feeService}
}

// Create POST /platform-fees.
func (h *PlatformFeeHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePlatformFeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TierName == "" {
		return apperrors.NewValidationError("tier_name required", nil)
	}

	fee, err := h.service.Create(c.Context(), service.PlatformFeeInput{
		TierName:      domain.TierName(req.TierName),
		MinValue:      req.MinValue,
		MaxValue:      req.MaxValue,
		FeePercentage: req.FeePercentage,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewPlatformFeeResponse(fee)})
}

// List GET /platform-fees.
func (h *PlatformFeeHandler) List(c *fiber.Ctx) error {
	fees, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.PlatformFeeResponse, 0, len(fees))
	for i := range fees {
		items = append(items, dto.NewPlatformFeeResponse(&fees[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /platform-fees/:id.
func (h *PlatformFeeHandler) Get(c *fiber.Ctx) error {
	fee, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPlatformFeeResponse(fee)})
}

// Update PATCH /platform-fees/:id.
func (h *PlatformFeeHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdatePlatformFeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.PlatformFeeUpdateInput{
		MinValue:      req.MinValue,
		MaxValue:      req.MaxValue,
		FeePercentage: req.FeePercentage,
	}
	if req.TierName != nil {
		tier := domain.TierName(*req.TierName)
		input.TierName = &tier
	}

	fee, err := h.service.Update(c.Context(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPlatformFeeResponse(fee)})
}

// Delete DELETE /platform-fees/:id.
func (h *PlatformFeeHandler) Delete(c *fiber.Ctx) error {
	fee, err := h.service.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPlatformFeeResponse(fee)})
}
