package handlers

import (
	"strconv"
	"strings"

	"peo-doctrack/internal/adapters/persistence/models"
	"peo-doctrack/internal/adapters/persistence/repositories"
	"peo-doctrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DivisionHandler handles division master data endpoints
type DivisionHandler struct {
	divisionRepo repositories.DivisionRepository
}

// NewDivisionHandler creates a new division handler
func NewDivisionHandler(divisionRepo repositories.DivisionRepository) *DivisionHandler {
	return &DivisionHandler{
		divisionRepo: divisionRepo,
	}
}

// ListDivisions lists all divisions
// @Summary List divisions
// @Description Get all divisions
// @Tags Divisions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /divisions [get]
func (h *DivisionHandler) ListDivisions(c *fiber.Ctx) error {
	divisions, err := h.divisionRepo.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list divisions")
	}

	return response.Success(c, "Divisions retrieved successfully", fiber.Map{
		"divisions": divisions,
	})
}

// GetDivision gets a division by ID
// @Summary Get division
// @Description Get a division by ID
// @Tags Divisions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Division ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /divisions/{id} [get]
func (h *DivisionHandler) GetDivision(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	division, err := h.divisionRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.NotFound(c, "Division not found")
	}

	return response.Success(c, "Division retrieved successfully", fiber.Map{
		"division": division,
	})
}

// CreateDivisionRequest represents create division request
type CreateDivisionRequest struct {
	Name     string `json:"name"`
	District string `json:"district"`
}

// CreateDivision creates a new division (Admin only)
// @Summary Create division
// @Description Create a new division (Admin only)
// @Tags Divisions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateDivisionRequest true "Division data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /divisions [post]
func (h *DivisionHandler) CreateDivision(c *fiber.Ctx) error {
	var req CreateDivisionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if strings.TrimSpace(req.Name) == "" {
		return response.BadRequest(c, "Name is required")
	}
	if strings.TrimSpace(req.District) == "" {
		return response.BadRequest(c, "District is required")
	}

	division := &models.Division{
		Name:     strings.TrimSpace(req.Name),
		District: strings.TrimSpace(req.District),
		IsActive: true,
	}

	if err := h.divisionRepo.Create(c.Context(), division); err != nil {
		return response.InternalServerError(c, "Failed to create division")
	}

	return response.Created(c, "Division created successfully", fiber.Map{
		"division": division,
	})
}

// UpdateDivisionRequest represents update division request
type UpdateDivisionRequest struct {
	Name     *string `json:"name"`
	District *string `json:"district"`
	IsActive *bool   `json:"is_active"`
}

// UpdateDivision updates a division (Admin only)
// @Summary Update division
// @Description Update a division (Admin only)
// @Tags Divisions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Division ID"
// @Param body body UpdateDivisionRequest true "Division data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /divisions/{id} [put]
func (h *DivisionHandler) UpdateDivision(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	division, err := h.divisionRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.NotFound(c, "Division not found")
	}

	var req UpdateDivisionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name != nil {
		division.Name = strings.TrimSpace(*req.Name)
	}
	if req.District != nil {
		division.District = strings.TrimSpace(*req.District)
	}
	if req.IsActive != nil {
		division.IsActive = *req.IsActive
	}

	if err := h.divisionRepo.Update(c.Context(), division); err != nil {
		return response.InternalServerError(c, "Failed to update division")
	}

	return response.Success(c, "Division updated successfully", fiber.Map{
		"division": division,
	})
}

// DeleteDivision deletes a division (Admin only)
// @Summary Delete division
// @Description Delete a division (Admin only)
// @Tags Divisions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Division ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /divisions/{id} [delete]
func (h *DivisionHandler) DeleteDivision(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	if _, err := h.divisionRepo.GetByID(c.Context(), uint(id)); err != nil {
		return response.NotFound(c, "Division not found")
	}

	if err := h.divisionRepo.Delete(c.Context(), uint(id)); err != nil {
		return response.InternalServerError(c, "Failed to delete division")
	}

	return response.Success(c, "Division deleted successfully", nil)
}
