package handlers

import (
	"strconv"
	"strings"

	"peo-doctrack/internal/adapters/http/middleware"
	"peo-doctrack/internal/core/domain"
	"peo-doctrack/internal/core/services"
	"peo-doctrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DocumentHandler handles document endpoints
type DocumentHandler struct {
	documentService *services.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

// CreateDocumentRequest represents create document request body
type CreateDocumentRequest struct {
	Kind        string  `json:"kind"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	DivisionID  uint    `json:"division_id"`
}

// Create handles document creation
// @Summary Create document
// @Description Create a document with the next allocated number for its kind and year
// @Tags Documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateDocumentRequest true "Document data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /documents [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var req CreateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate required fields
	if req.Kind == "" {
		return response.BadRequest(c, "Kind is required")
	}
	if strings.TrimSpace(req.Title) == "" {
		return response.BadRequest(c, "Title is required")
	}
	if req.DivisionID == 0 {
		return response.BadRequest(c, "Division is required")
	}

	input := &services.CreateDocumentInput{
		Kind:        strings.ToUpper(strings.TrimSpace(req.Kind)),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Amount:      req.Amount,
		DivisionID:  req.DivisionID,
	}

	doc, err := h.documentService.Create(c.Context(), input, middleware.Actor(c))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, "Document created successfully", fiber.Map{
		"document": doc.ToResponse(),
	})
}

// List handles document listing
// @Summary List documents
// @Description List documents with pagination and filters
// @Tags Documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param kind query string false "Filter by kind (POW, PR, PROJ)"
// @Param status query string false "Filter by status"
// @Param created_by query int false "Filter by creator user ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	input := &services.ListInput{
		Page:  page,
		Limit: limit,
	}

	if kind := c.Query("kind"); kind != "" {
		parsed, ok := domain.ParseKind(strings.ToUpper(kind))
		if !ok {
			return response.BadRequest(c, "Invalid kind filter")
		}
		input.Kind = &parsed
	}
	if status := c.Query("status"); status != "" {
		parsed, ok := domain.ParseStatus(strings.ToUpper(status))
		if !ok {
			return response.BadRequest(c, "Invalid status filter")
		}
		input.Status = &parsed
	}
	if createdBy := c.Query("created_by"); createdBy != "" {
		id, err := strconv.ParseUint(createdBy, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid created_by filter")
		}
		uid := uint(id)
		input.CreatedBy = &uid
	}

	result, err := h.documentService.List(c.Context(), input, middleware.Actor(c))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Documents retrieved successfully", result)
}

// GetByID handles getting a single document
// @Summary Get document
// @Description Get a document by ID
// @Tags Documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid document ID")
	}

	doc, err := h.documentService.GetByID(c.Context(), uint(id), middleware.Actor(c))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Document retrieved successfully", fiber.Map{
		"document": doc.ToResponse(),
	})
}

// UpdateDocumentRequest represents document field edit request body
type UpdateDocumentRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
}

// Update handles document field edits
// @Summary Update document fields
// @Description Edit document fields while the document is DRAFT or REVISION
// @Tags Documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Param body body UpdateDocumentRequest true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /documents/{id} [patch]
func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid document ID")
	}

	var req UpdateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdateFieldsInput{
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
	}

	doc, err := h.documentService.UpdateFields(c.Context(), uint(id), input, middleware.Actor(c))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Document updated successfully", fiber.Map{
		"document": doc.ToResponse(),
	})
}

// TransitionRequest represents status transition request body
type TransitionRequest struct {
	Status string `json:"status"`
}

// Transition handles document status transitions
// @Summary Transition document status
// @Description Move a document along DRAFT -> FOR_REVIEW -> REVISION/RELEASED
// @Tags Documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Param body body TransitionRequest true "Target status"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /documents/{id}/status [patch]
func (h *DocumentHandler) Transition(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid document ID")
	}

	var req TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Status == "" {
		return response.BadRequest(c, "Status is required")
	}

	doc, err := h.documentService.Transition(
		c.Context(), uint(id), strings.ToUpper(strings.TrimSpace(req.Status)), middleware.Actor(c))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Document status updated successfully", fiber.Map{
		"document": doc.ToResponse(),
	})
}

// Attach handles file attachment upload
// @Summary Attach file
// @Description Upload an attachment for a DRAFT or REVISION document
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Param file formData file true "Attachment file"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /documents/{id}/attachment [post]
func (h *DocumentHandler) Attach(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid document ID")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "File is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "Failed to read uploaded file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")

	doc, err := h.documentService.AttachFile(
		c.Context(), uint(id), fileHeader.Filename, file, fileHeader.Size, contentType, middleware.Actor(c))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "File attached successfully", fiber.Map{
		"document": doc.ToResponse(),
	})
}

// Delete handles document deletion
// @Summary Delete document
// @Description Delete a DRAFT document; its allocated number is never reused
// @Tags Documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid document ID")
	}

	if err := h.documentService.Delete(c.Context(), uint(id), middleware.Actor(c)); err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Document deleted successfully", nil)
}
