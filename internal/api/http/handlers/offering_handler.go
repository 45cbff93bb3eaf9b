package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/specialist-marketplace/internal/api/dto"
	"github.com/spec-kit/specialist-marketplace/internal/service"
	apperrors "github.com/spec-kit/specialist-marketplace/pkg/util"
)

// OfferingHandler manages the service-offerings master catalog endpoints.
type OfferingHandler struct {
	service *service.OfferingService
}

// NewOfferingHandler constructs handler.
func NewOfferingHandler(offeringService *service.OfferingService) *OfferingHandler {
	return &OfferingHandler{service: offeringService}
}

// Create POST /service-offerings-master-list. Accepts an optional icon
// under the "file" multipart field.
func (h *OfferingHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateOfferingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" {
		return apperrors.NewValidationError("title required", nil)
	}

	files, closers, err := formFiles(c, "file")
	if err != nil {
		return err
	}
	defer closeAll(closers)

	input := service.OfferingInput{Title: req.Title, Description: req.Description}
	if len(files) > 0 {
		input.File = &files[0]
	}

	entry, err := h.service.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewMasterEntryResponse(entry)})
}

// List GET /service-offerings-master-list.
func (h *OfferingHandler) List(c *fiber.Ctx) error {
	entries, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.MasterEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.NewMasterEntryResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /service-offerings-master-list/:id.
func (h *OfferingHandler) Get(c *fiber.Ctx) error {
	entry, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMasterEntryResponse(entry)})
}

// Update PATCH /service-offerings-master-list/:id.
func (h *OfferingHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateOfferingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	files, closers, err := formFiles(c, "file")
	if err != nil {
		return err
	}
	defer closeAll(closers)

	input := service.OfferingInput{Description: req.Description}
	if req.Title != nil {
		input.Title = *req.Title
	}
	if len(files) > 0 {
		input.File = &files[0]
	}

	entry, err := h.service.Update(c.Context(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMasterEntryResponse(entry)})
}

// Delete DELETE /service-offerings-master-list/:id.
func (h *OfferingHandler) Delete(c *fiber.Ctx) error {
	entry, err := h.service.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMasterEntryResponse(entry)})
}
