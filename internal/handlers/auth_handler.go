package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dashfinance/internal/config"
	apperrors "dashfinance/internal/errors"
	"dashfinance/internal/middleware"
	"dashfinance/internal/models"
	"dashfinance/internal/services"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userService       services.UserServicer
	loginTokenService services.LoginTokenServicer
	tokenIssuer       *middleware.TokenIssuer
	devExposeToken    bool
}

// NewAuthHandler creates a new AuthHandler. The raw login code is exposed in
// responses only when the dev-expose flag is set and the environment is not
// production.
func NewAuthHandler(
	userService services.UserServicer,
	loginTokenService services.LoginTokenServicer,
	tokenIssuer *middleware.TokenIssuer,
	cfg *config.Config,
) *AuthHandler {
	return &AuthHandler{
		userService:       userService,
		loginTokenService: loginTokenService,
		tokenIssuer:       tokenIssuer,
		devExposeToken:    cfg.LoginTokenDevExpose && !cfg.IsProduction(),
	}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RequestLoginTokenRequest represents the passwordless login request payload
type RequestLoginTokenRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyLoginTokenRequest represents the passwordless login verification payload
type VerifyLoginTokenRequest struct {
	Email string `json:"email" binding:"required,email"`
	Token string `json:"token" binding:"required,min=4,max=12"`
}

// UpdateProfileRequest represents the profile update payload. A nil or empty
// avatar clears the stored one.
type UpdateProfileRequest struct {
	Name      string  `json:"name" binding:"required,min=2,max=100"`
	AvatarURL *string `json:"avatarUrl" binding:"omitempty,avatar_data"`
}

// UpdatePasswordRequest represents the password change payload
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=128"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=NewPassword"`
}

// UserResponse represents the public user profile in responses
type UserResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatarUrl"`
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func userResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
	}
}

// Register handles user registration
// @Summary     Register a new user
// @Description Register a new user; a default system category is created alongside
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} AuthResponse "User registered and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := h.tokenIssuer.Generate(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  userResponse(user),
	})
}

// Login handles password login
// @Summary     Login user
// @Description Authenticate a user with email and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} AuthResponse "User authenticated and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.Authenticate(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := h.tokenIssuer.Generate(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userResponse(user),
	})
}

// RequestLoginToken issues a one-time numeric login code
// @Summary     Request login token
// @Description Email a one-time login code; the response is identical whether or not the email is registered
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RequestLoginTokenRequest true "Account email"
// @Success     200 {object} map[string]string "Generic confirmation"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /auth/login-token/request [post]
func (h *AuthHandler) RequestLoginToken(c *gin.Context) {
	var req RequestLoginTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	issue, err := h.loginTokenService.Request(req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Same message for registered and unregistered emails.
	response := gin.H{"message": "If the email is registered, an access code has been sent."}
	if issue != nil && h.devExposeToken {
		response["devToken"] = issue.RawCode
	}

	c.JSON(http.StatusOK, response)
}

// VerifyLoginToken consumes a one-time login code
// @Summary     Verify login token
// @Description Exchange a one-time login code for a session credential
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body VerifyLoginTokenRequest true "Email and code"
// @Success     200 {object} AuthResponse "User authenticated and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid or expired token"
// @Router      /auth/login-token/verify [post]
func (h *AuthHandler) VerifyLoginToken(c *gin.Context) {
	var req VerifyLoginTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.loginTokenService.Verify(req.Email, req.Token)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := h.tokenIssuer.Generate(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userResponse(user),
	})
}

// Me returns the authenticated user's profile
// @Summary     Get current user
// @Description Get the authenticated user's profile
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, userResponse(user))
}

// UpdateProfile updates the authenticated user's name and avatar
// @Summary     Update profile
// @Description Update display name and avatar for the authenticated user
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateProfileRequest true "Profile data"
// @Success     200 {object} UserResponse "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/profile [patch]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.UpdateProfile(userID, req.Name, req.AvatarURL)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, userResponse(user))
}

// UpdatePassword changes the authenticated user's password
// @Summary     Change password
// @Description Change the authenticated user's password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdatePasswordRequest true "Password data"
// @Success     200 {object} map[string]string "Confirmation"
// @Failure     400 {object} ErrorResponse "Invalid input or same password"
// @Failure     401 {object} ErrorResponse "Wrong current password"
// @Router      /auth/password [patch]
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.userService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully."})
}
