package web

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/filereview/internal/common"
	"github.com/gofiber/fiber/v2"
)

func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, common.ErrConstraintViolation):
		return fiber.StatusConflict
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, common.ErrUnsupportedFormat):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, common.ErrParseFailure):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, common.ErrorNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, common.ErrUploadTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrPasswordMismatch),
		errors.Is(err, common.ErrExtensionNotAllowed),
		errors.Is(err, common.ErrInvalidTransition):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// messageFor is the text shown to the user. Internal failures are not
// described.
func messageFor(err error) string {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Message
	case errors.Is(err, common.ErrConstraintViolation):
		return "Username or Email already exists. Please choose a different one."
	case errors.Is(err, common.ErrPasswordMismatch):
		return "Passwords do not match."
	case errors.Is(err, common.ErrorUnauthorized):
		return "Invalid Login Credentials"
	case errors.Is(err, common.ErrInvalidToken):
		return "Invalid or expired access token."
	case errors.Is(err, common.ErrUnsupportedFormat):
		return "Unsupported file format. Please upload a txt, CSV, or Excel file."
	case errors.Is(err, common.ErrParseFailure):
		return fmt.Sprintf("Unable to parse the file. Details: %s. Please choose a different file or encoding.",
			strings.TrimPrefix(err.Error(), common.ErrParseFailure.Error()+": "))
	case errors.Is(err, common.ErrorNotFound):
		return "File not found."
	case errors.Is(err, common.ErrExtensionNotAllowed):
		return "Only .txt, .csv and .xlsx files can be uploaded."
	case errors.Is(err, common.ErrUploadTooLarge),
		errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrInvalidTransition):
		return err.Error()
	}
	return "Something went wrong. Please try again."
}

// errorHandler handles errors returned by handlers and middleware.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code == fiber.StatusInternalServerError {
		s.reqLogger(c).Error(c.UserContext(), "request failed", "path", c.Path(), "error", err)
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{"error": messageFor(err)})
	}
	return c.Status(code).SendString(messageFor(err))
}
