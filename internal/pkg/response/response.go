package response

import (
	"peo-doctrack/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, code, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error:   message,
		Code:    code,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, "INVALID_INPUT", message)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, "UNAUTHORIZED", message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, "FORBIDDEN", message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, "NOT_FOUND", message)
}

// Conflict sends a 409 conflict response
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, "CONFLICT", message)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, "INTERNAL", message)
}

// DomainError maps a domain error to its HTTP status and stable code.
func DomainError(c *fiber.Ctx, err error) error {
	code := domain.ErrorCode(err)
	status := fiber.StatusInternalServerError

	switch code {
	case "NOT_FOUND":
		status = fiber.StatusNotFound
	case "INVALID_TRANSITION":
		status = fiber.StatusUnprocessableEntity
	case "FORBIDDEN":
		status = fiber.StatusForbidden
	case "CONFLICT", "CAPACITY_EXCEEDED":
		status = fiber.StatusConflict
	case "RESOURCE_CONTENTION":
		status = fiber.StatusServiceUnavailable
	case "UNAUTHORIZED":
		status = fiber.StatusUnauthorized
	case "INVALID_INPUT":
		status = fiber.StatusBadRequest
	}

	msg := err.Error()
	if code == "INTERNAL" {
		msg = "internal server error"
	}
	return Error(c, status, code, msg)
}
