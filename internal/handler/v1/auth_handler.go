package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthmate-pk/healthmate-api/internal/domain"
	"github.com/healthmate-pk/healthmate-api/internal/service"
)

type AuthHandler struct {
	authService  *service.AuthService
	auditService *service.AuditService
}

func NewAuthHandler(authService *service.AuthService, auditService *service.AuditService) *AuthHandler {
	return &AuthHandler{authService: authService, auditService: auditService}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type userResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

type authResponse struct {
	User   userResponse      `json:"user"`
	Tokens *domain.TokenPair `json:"tokens"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), service.RegisterCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.auditService.LogAsync(c.Request.Context(), service.AuditEntry{
		UserID:       result.User.ID,
		Action:       string(domain.ActionCreate),
		ResourceType: "user",
		ResourceID:   result.User.ID.String(),
		IPAddress:    c.ClientIP(),
		RequestID:    c.GetString("request_id"),
		UserAgent:    c.Request.UserAgent(),
	})

	respondCreated(c, "registration successful", authResponse{
		User:   toUserResponse(result.User),
		Tokens: result.Tokens,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.auditService.LogAsync(c.Request.Context(), service.AuditEntry{
		UserID:       result.User.ID,
		Action:       string(domain.ActionLogin),
		ResourceType: "user",
		ResourceID:   result.User.ID.String(),
		IPAddress:    c.ClientIP(),
		RequestID:    c.GetString("request_id"),
		UserAgent:    c.Request.UserAgent(),
	})

	respondOK(c, authResponse{
		User:   toUserResponse(result.User),
		Tokens: result.Tokens,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"tokens": tokens})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	claims, ok := ownerClaims(c)
	if !ok {
		return
	}

	user, err := h.authService.GetProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"user": toUserResponse(user)})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	claims, ok := ownerClaims(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), claims.UserID, req.Name, req.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"user": toUserResponse(user)})
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
