package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	apperrors "studenthub/internal/errors"
	"studenthub/internal/model"
)

// AdminHandler exposes maintenance operations. These sit outside the normal
// auth flow and are gated by a shared secret header instead of a bearer token.
type AdminHandler struct {
	db     *gorm.DB
	secret string
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(db *gorm.DB, secret string) *AdminHandler {
	return &AdminHandler{db: db, secret: secret}
}

// ClearDB godoc
// @Summary Delete all students and users
// @Description Destructive maintenance operation. The X-Admin-Secret header must match the configured admin secret.
// @Tags admin
// @Produce json
// @Param X-Admin-Secret header string true "Admin secret"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/clear-db [post]
func (h *AdminHandler) ClearDB(c echo.Context) error {
	provided := c.Request().Header.Get("X-Admin-Secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) != 1 {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Error: "invalid admin secret",
			Code:  "UNAUTHORIZED",
		})
	}

	ctx := c.Request().Context()
	// Students reference users, so they go first.
	err := h.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Student{}).Error
	if err == nil {
		err = h.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.User{}).Error
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, apperrors.ErrorResponse{
			Error: "failed to clear database",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"action": "delete",
	})
}
