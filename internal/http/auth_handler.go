package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/sash-quote-service/internal/domain/dto"
	"github.com/guttosm/sash-quote-service/internal/i18n"
	"github.com/guttosm/sash-quote-service/internal/middleware"
	"github.com/guttosm/sash-quote-service/internal/service"
)

// AuthHandler provides the admin login route.
type AuthHandler struct {
	auth service.AdminAuthService
}

// NewAuthHandler creates a new authentication handler.
func NewAuthHandler(auth service.AdminAuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login handles POST /api/auth/login requests.
//
// @Summary      Admin login
// @Description  Checks the price administration password and returns a short-lived session token for the admin routes.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "Admin password"
// @Success      200 {object} dto.SuccessResponse{data=dto.LoginResponse} "Session token"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      401 {object} dto.ErrorResponse "Wrong password"
// @Failure      429 {object} dto.ErrorResponse "Too many attempts"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.LoginRequest](c)
	if err != nil {
		builder.Invalid(err)
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		if ls := loggingService(c); ls != nil {
			middleware.AuditLogError(ls, c, middleware.ActionAdminLoginFailed, "Failed admin login", err, map[string]interface{}{
				"name": req.Name,
			})
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			builder.Error(http.StatusUnauthorized, i18n.ErrKeyInvalidCredentials, err)
			return
		}
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}

	if ls := loggingService(c); ls != nil {
		middleware.AuditLog(ls, c, middleware.ActionAdminLogin, "Admin logged in", map[string]interface{}{
			"name": req.Name,
		})
	}
	builder.SuccessOK(resp)
}
