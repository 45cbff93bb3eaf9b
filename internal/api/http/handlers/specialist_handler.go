package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/specialist-marketplace/internal/api/dto"
	"github.com/spec-kit/specialist-marketplace/internal/domain"
	"github.com/spec-kit/specialist-marketplace/internal/service"
	apperrors "github.com/spec-kit/specialist-marketplace/pkg/util"
)

// SpecialistHandler manages specialist profile endpoints.
type SpecialistHandler struct {
	service *service.SpecialistService
}

// NewSpecialistHandler constructs handler.
func NewSpecialistHandler(specialistService *service.SpecialistService) *SpecialistHandler {
	return &SpecialistHandler{service: specialistService}
}

// Create POST /specialists. Accepts multipart form data with optional
// image attachments under the "files" field.
func (h *SpecialistHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSpecialistRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.BasePrice <= 0 {
		return apperrors.NewValidationError("title and a positive base_price required", nil)
	}

	files, closers, err := formFiles(c, "files")
	if err != nil {
		return err
	}
	defer closeAll(closers)

	specialist, err := h.service.Create(c.Context(), service.SpecialistCreateInput{
		Title:          req.Title,
		Description:    req.Description,
		BasePrice:      req.BasePrice,
		DurationDays:   req.DurationDays,
		IsDraft:        req.IsDraft,
		MasterEntryIDs: splitIDs(req.MasterEntryIDs),
		DisplayOrder:   req.DisplayOrder,
		Files:          files,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewSpecialistResponse(specialist)})
}

// List GET /specialists.
func (h *SpecialistHandler) List(c *fiber.Ctx) error {
	query := parseSpecialistQuery(c)
	specialists, meta, err := h.service.List(c.Context(), query)
	if err != nil {
		return err
	}
	items := make([]dto.SpecialistResponse, 0, len(specialists))
	for i := range specialists {
		items = append(items, dto.NewSpecialistResponse(&specialists[i]))
	}
	return c.JSON(fiber.Map{
		"data": items,
		"meta": meta,
	})
}

// Get GET /specialists/:id.
func (h *SpecialistHandler) Get(c *fiber.Ctx) error {
	specialist, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSpecialistResponse(specialist)})
}

// GetBySlug GET /specialists/slug/:slug.
func (h *SpecialistHandler) GetBySlug(c *fiber.Ctx) error {
	specialist, err := h.service.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSpecialistResponse(specialist)})
}

// Update PATCH /specialists/:id. Accepts multipart form data; new
// images go under "files" and removals under "deleted_media_ids".
func (h *SpecialistHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateSpecialistRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	files, closers, err := formFiles(c, "files")
	if err != nil {
		return err
	}
	defer closeAll(closers)

	input := service.SpecialistUpdateInput{
		Title:           req.Title,
		Slug:            req.Slug,
		Description:     req.Description,
		BasePrice:       req.BasePrice,
		DurationDays:    req.DurationDays,
		IsDraft:         req.IsDraft,
		IsVerified:      req.IsVerified,
		DeletedMediaIDs: splitIDs(req.DeletedMediaIDs),
		DisplayOrder:    req.DisplayOrder,
		Files:           files,
	}
	if req.VerificationStatus != nil {
		status := domain.VerificationStatus(*req.VerificationStatus)
		input.VerificationStatus = &status
	}
	if req.MasterEntryIDs != nil {
		ids := splitIDs(*req.MasterEntryIDs)
		input.MasterEntryIDs = &ids
	}

	specialist, err := h.service.Update(c.Context(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSpecialistResponse(specialist)})
}

// Delete DELETE /specialists/:id.
func (h *SpecialistHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "Specialist deleted successfully"},
	})
}

// AddOfferings POST /specialists/:id/service-offerings.
func (h *SpecialistHandler) AddOfferings(c *fiber.Ctx) error {
	var req dto.OfferingIDsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.MasterEntryIDs) == 0 {
		return apperrors.NewValidationError("service_offerings_master_list_ids required", nil)
	}

	specialist, err := h.service.AddOfferings(c.Context(), c.Params("id"), req.MasterEntryIDs)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSpecialistResponse(specialist)})
}

// RemoveOfferings DELETE /specialists/:id/service-offerings.
func (h *SpecialistHandler) RemoveOfferings(c *fiber.Ctx) error {
	var req dto.OfferingIDsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.MasterEntryIDs) == 0 {
		return apperrors.NewValidationError("service_offerings_master_list_ids required", nil)
	}

	specialist, err := h.service.RemoveOfferings(c.Context(), c.Params("id"), req.MasterEntryIDs)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSpecialistResponse(specialist)})
}

func parseSpecialistQuery(c *fiber.Ctx) service.SpecialistQuery {
	query := service.SpecialistQuery{
		Page:  parseInt(c.Query("page"), 1),
		Limit: parseInt(c.Query("limit"), 10),
	}
	if search := c.Query("search"); search != "" {
		query.Search = &search
	}
	if isDraft := parseBool(c.Query("is_draft")); isDraft != nil {
		query.IsDraft = isDraft
	}
	if status := c.Query("verification_status"); status != "" {
		verification := domain.VerificationStatus(status)
		query.VerificationStatus = &verification
	}
	if isVerified := parseBool(c.Query("is_verified")); isVerified != nil {
		query.IsVerified = isVerified
	}
	return query
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func parseBool(val string) *bool {
	if val == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return nil
	}
	return &parsed
}

// splitIDs flattens form values that may arrive either repeated or as a
// single comma-separated string.
func splitIDs(values []string) []string {
	out := make([]string, 0, len(values))
	for _, val := range values {
		for _, part := range strings.Split(val, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

// formFiles opens multipart attachments under the given field. Callers
// must close the returned readers once the upload completes.
func formFiles(c *fiber.Ctx, field string) ([]service.UploadFile, []io.Closer, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// Not a multipart request; JSON-only payloads are fine.
		return nil, nil, nil
	}

	headers := form.File[field]
	files := make([]service.UploadFile, 0, len(headers))
	closers := make([]io.Closer, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			closeAll(closers)
			return nil, nil, apperrors.NewValidationError("could not read uploaded file", nil)
		}
		files = append(files, service.UploadFile{
			Filename:    header.Filename,
			ContentType: headerContentType(header),
			Size:        header.Size,
			Body:        file,
		})
		closers = append(closers, file)
	}
	return files, closers, nil
}

func headerContentType(header *multipart.FileHeader) string {
	return header.Header.Get("Content-Type")
}

func closeAll(closers []io.Closer) {
	for _, closer := range closers {
		_ = closer.Close()
	}
}
