package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storerating-api/internal/application/dto"
	"github.com/jhoicas/storerating-api/internal/application/validation"
	"github.com/jhoicas/storerating-api/internal/domain"
	"github.com/jhoicas/storerating-api/pkg/logger"
)

// ErrorHandler renders every error returned by a handler or middleware.
// Domain categories map to 400/401/403/404/409; anything else is logged and
// answered with a generic 500.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		resp := toErrorResponse(err)
		if resp.StatusCode >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Interface("request_id", c.Locals("requestid")).
				Msg("request failed")
		}
		return c.Status(resp.StatusCode).JSON(resp)
	}
}

func toErrorResponse(err error) dto.ErrorResponse {
	resp := dto.ErrorResponse{StatusCode: fiber.StatusInternalServerError, Code: "INTERNAL", Message: "Internal server error"}

	var (
		ve *validation.Errors
		ae *apiError
		de *domain.Error
		fe *fiber.Error
	)
	switch {
	case errors.As(err, &ve):
		resp.StatusCode, resp.Code, resp.Message = fiber.StatusBadRequest, "VALIDATION_ERROR", "Validation failed"
		resp.Errors = ve.Fields
		return resp
	case errors.As(err, &ae):
		resp.StatusCode, resp.Code, resp.Message = ae.status, ae.code, ae.message
		return resp
	case errors.As(err, &fe):
		resp.StatusCode, resp.Code, resp.Message = fe.Code, statusCode(fe.Code), fe.Message
		return resp
	}

	switch {
	case errors.Is(err, domain.ErrInvalidToken):
		resp.StatusCode, resp.Code = fiber.StatusUnauthorized, "INVALID_TOKEN"
	case errors.Is(err, domain.ErrInvalidCredentials):
		resp.StatusCode, resp.Code = fiber.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, domain.ErrValidation):
		resp.StatusCode, resp.Code = fiber.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, domain.ErrUnauthorized):
		resp.StatusCode, resp.Code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		resp.StatusCode, resp.Code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		resp.StatusCode, resp.Code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrConflict):
		resp.StatusCode, resp.Code = fiber.StatusConflict, "CONFLICT"
	default:
		return resp
	}
	if errors.As(err, &de) {
		resp.Message = de.Message
	} else {
		resp.Message = err.Error()
	}
	return resp
}

func statusCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	case fiber.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	}
	if status >= fiber.StatusInternalServerError {
		return "INTERNAL"
	}
	return "ERROR"
}
