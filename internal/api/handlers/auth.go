package handlers

import (
	"net/http"

	"rental-ops-backend/pkg/jwt"
	"rental-ops-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler issues console session tokens. There is a single operator
// password checked against a bcrypt hash from the environment; the users
// table only scopes and labels work inside the console.
type AuthHandler struct {
	adminHash string
	jwtUtil   *jwt.JWTUtil
	validator *validator.Validate
}

func NewAuthHandler(adminHash string) *AuthHandler {
	return &AuthHandler{
		adminHash: adminHash,
		jwtUtil:   jwt.NewJWTUtil(),
		validator: validator.New(),
	}
}

type SessionRequest struct {
	Name     string `json:"name"`
	Password string `json:"password" validate:"required"`
}

type SessionResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// CreateSession handles POST /api/v1/auth/session.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	if h.adminHash == "" {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "Console login is not configured", nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.adminHash), []byte(req.Password)); err != nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid password", nil)
		return
	}

	name := req.Name
	if name == "" {
		name = "Admin User"
	}

	token, err := h.jwtUtil.GenerateToken(name, "Admin")
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to create session", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Session created", SessionResponse{
		Token: token,
		Name:  name,
		Role:  "Admin",
	})
}

type RefreshRequest struct {
	Token string `json:"token" validate:"required"`
}

// RefreshSession handles POST /api/v1/auth/refresh. Tokens can only be
// refreshed close to expiry.
func (h *AuthHandler) RefreshSession(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	token, err := h.jwtUtil.RefreshToken(req.Token)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Token cannot be refreshed", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Session refreshed", gin.H{"token": token})
}
