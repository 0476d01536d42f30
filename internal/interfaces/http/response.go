package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/storerating-api/internal/application/dto"
	"github.com/jhoicas/storerating-api/internal/application/validation"
)

var errInvalidBody = &apiError{status: fiber.StatusBadRequest, code: "INVALID_BODY", message: "Invalid request body"}

// apiError is an HTTP-level failure with a fixed status and code (malformed
// input, missing token) rendered by ErrorHandler like any other error.
type apiError struct {
	status  int
	code    string
	message string
}

func (e *apiError) Error() string { return e.message }

// respond writes the success envelope.
func respond(c *fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(dto.APIResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

func ok(c *fiber.Ctx, data any, message string) error {
	return respond(c, fiber.StatusOK, data, message)
}

func created(c *fiber.Ctx, data any, message string) error {
	return respond(c, fiber.StatusCreated, data, message)
}

// parseBody decodes the JSON body into dst and validates it.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return errInvalidBody
	}
	return validation.Struct(dst)
}

// parseQuery decodes the query string into dst and validates it.
func parseQuery(c *fiber.Ctx, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		return &apiError{status: fiber.StatusBadRequest, code: "INVALID_QUERY", message: "Invalid query parameters"}
	}
	return validation.Struct(dst)
}

// idParam returns the route parameter key when it is a UUID. Anything else cannot
// name a row, so it is answered with notFound before reaching the repositories.
func idParam(c *fiber.Ctx, key string, notFound error) (string, error) {
	id := c.Params(key)
	if _, err := uuid.Parse(id); err != nil {
		return "", notFound
	}
	return id, nil
}
