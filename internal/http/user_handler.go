package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"auth-api/internal/domain"
	"auth-api/internal/service"
)

const (
	msgValidationFailed   = "Validation failed"
	msgInvalidBody        = "Invalid request body"
	msgEmailInUse         = "Email already in use"
	msgInvalidCredentials = "Invalid credentials"
	msgServerError        = "Server error"
)

// UserHandler mantiene dependencias para endpoints de autenticación.
type UserHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
}

// NewUserHandler crea una instancia de UserHandler con dependencias necesarias.
func NewUserHandler(logger *zap.Logger, userServ *service.UserService) *UserHandler {
	return &UserHandler{
		logger:   logger,
		userServ: userServ,
	}
}

type signupRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8,max=72"`
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// Signup maneja POST /api/auth/signup.
func (h *UserHandler) Signup(c *gin.Context) {
	var req signupRequest
	if !h.bind(c, &req) {
		return
	}

	user, err := h.userServ.Register(c.Request.Context(), service.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"message": msgEmailInUse})
		case errors.Is(err, service.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{
				"message": msgValidationFailed,
				"errors":  []FieldError{{Field: "email", Message: fieldMessages["email.email"]}},
			})
		case errors.Is(err, service.ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{
				"message": msgValidationFailed,
				"errors":  []FieldError{{Field: "password", Message: fieldMessages["password.max"]}},
			})
		default:
			h.logger.Error("signup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": msgServerError})
		}
		return
	}

	h.respondWithToken(c, http.StatusCreated, user)
}

// Login maneja POST /api/auth/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if !h.bind(c, &req) {
		return
	}

	user, err := h.userServ.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": msgInvalidCredentials})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgServerError})
		return
	}

	h.respondWithToken(c, http.StatusOK, user)
}

// Me maneja GET /api/auth/me; requiere JWTAuthMiddleware.
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": msgUnauthorized})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) bind(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	if fields, ok := fieldErrors(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgValidationFailed, "errors": fields})
		return false
	}
	h.logger.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidBody})
	return false
}

func (h *UserHandler) respondWithToken(c *gin.Context, status int, user domain.User) {
	token, err := h.userServ.IssueToken(user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgServerError})
		return
	}
	c.JSON(status, authResponse{User: user, Token: token})
}
