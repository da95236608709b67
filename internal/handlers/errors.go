// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/product-inventory/internal/i18n"
	"github.com/javajoker/product-inventory/internal/services"
	"github.com/javajoker/product-inventory/internal/utils"
)

// respondError maps a service error onto the HTTP error envelope. resource
// names the entity for NotFound messages.
func respondError(c *gin.Context, err error, resource string) {
	lang := utils.GetLangFromContext(c)

	var dup *services.DuplicateError
	switch {
	case errors.Is(err, services.ErrValidation):
		if details := utils.GetValidationErrors(err); len(details) > 0 {
			utils.ValidationErrorResponse(c, details)
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.As(err, &dup):
		var details interface{}
		if len(dup.Fields) > 0 {
			details = gin.H{"fields": dup.Fields}
		}
		utils.DuplicateResponse(c, i18n.T(lang, i18n.KeyProductDuplicate), details)
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, resource)
	case errors.Is(err, services.ErrUnauthorized):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyProductForbidden))
	case errors.Is(err, services.ErrConflict):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyAuthUserExists))
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.Request.URL.Path,
		}).Error("Request failed")
		utils.InternalErrorResponse(c, "")
	}
}

// bindJSON decodes the body into req, answering 400 on malformed JSON or
// unknown fields.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}
	return true
}

func parseID(c *gin.Context, resource string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyInvalidID, resource), nil)
		return 0, false
	}
	return uint(id), true
}

func currentUserID(c *gin.Context) (uint, bool) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
	}
	return userID, ok
}
