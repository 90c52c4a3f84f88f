// controllers/auth_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/golang-jwt/jwt"
	"github.com/harisapp/haris_backend/config"
	"github.com/harisapp/haris_backend/middleware"
	"github.com/harisapp/haris_backend/models"
	"github.com/harisapp/haris_backend/repositories"
	"github.com/harisapp/haris_backend/services"
	"github.com/harisapp/haris_backend/utils"
)

// AuthController contains authentication logic
type AuthController struct {
	DB       *mongo.Client
	users    *repositories.UserRepository
	activity *services.ActivityService
	logger   *log.Logger
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client, activity *services.ActivityService) *AuthController {
	return &AuthController{
		DB:       db,
		users:    repositories.NewUserRepository(db),
		activity: activity,
		logger:   log.New(os.Stdout, "[AUTH] ", log.LstdFlags),
	}
}

// Signup registers a new client account
func (ac *AuthController) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !utils.IsValidEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email address",
		})
	}
	if !utils.IsStrongPassword(req.Password) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Password must be at least 8 characters and contain upper, lower and numeric characters",
		})
	}

	if existing, err := ac.users.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "An account with this email already exists",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		ac.logger.Printf("Failed to hash password: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create account",
		})
	}

	language := req.PreferredLanguage
	if language != "en" {
		language = "ar"
	}

	user := &models.User{
		FullName:          utils.SanitizeInput(req.FullName),
		Email:             req.Email,
		Password:          string(hashed),
		Phone:             utils.SanitizeInput(req.Phone),
		UserType:          models.UserTypeClient,
		CompanyName:       utils.SanitizeInput(req.CompanyName),
		PreferredLanguage: language,
		IsActive:          true,
	}

	if err := ac.users.Insert(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "An account with this email already exists",
			})
		}
		ac.logger.Printf("Failed to insert user: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create account",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.UserType)
	if err != nil {
		ac.logger.Printf("Failed to generate tokens: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Account created but login failed, please sign in",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Account created successfully",
		Data: models.LoginResponse{
			Token:        token,
			RefreshToken: refreshToken,
			User:         user,
		},
	})
}

// Login authenticates a user and issues a token pair
func (ac *AuthController) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := ac.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}
	if !user.IsActive {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "This account has been deactivated",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.UserType)
	if err != nil {
		ac.logger.Printf("Failed to generate tokens for %s: %v", user.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to log in",
		})
	}

	ac.activity.Log(ctx, models.ActivityLog{
		EntityType: "user",
		EntityID:   user.ID.Hex(),
		Action:     models.ActionUserLogin,
		ActorID:    user.ID.Hex(),
	})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: models.LoginResponse{
			Token:        token,
			RefreshToken: refreshToken,
			User:         user,
		},
	})
}

// Logout blacklists the presented access token until it expires on its own
func (ac *AuthController) Logout(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" || tokenString == authHeader {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Missing token",
		})
	}

	claims := middleware.GetUserFromToken(c)
	expiry := time.Now().Add(24 * time.Hour)
	if claims != nil && claims.ExpiresAt > 0 {
		expiry = time.Unix(claims.ExpiresAt, 0)
	}
	middleware.BlacklistToken(tokenString, expiry)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out",
	})
}

// ValidateToken lets the frontend check whether a session token is still
// usable before issuing authenticated calls
func (ac *AuthController) ValidateToken(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		tokenString = ""
	}

	result, err := utils.ValidateToken(tokenString, ac.DB)
	if err != nil {
		ac.logger.Printf("validate token: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Something went wrong",
		})
	}

	if !result.Valid {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: result.Message,
			Data:    map[string]interface{}{"valid": false},
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Token is valid",
		Data: map[string]interface{}{
			"valid": true,
			"user":  result.User,
		},
	})
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (ac *AuthController) RefreshToken(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Missing refresh token",
		})
	}

	claims := &middleware.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(req.RefreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(middleware.GetJWTSecret()), nil
	})
	if err != nil || !token.Valid {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or expired refresh token",
		})
	}
	if middleware.IsTokenBlacklisted(req.RefreshToken) {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Refresh token has been revoked",
		})
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid refresh token",
		})
	}
	user, err := ac.users.FindByID(c.Request().Context(), userID)
	if err != nil || !user.IsActive {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Account not found or deactivated",
		})
	}

	newToken, newRefresh, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.UserType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to refresh token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Token refreshed",
		Data: map[string]string{
			"token":        newToken,
			"refreshToken": newRefresh,
		},
	})
}

// ForgotPassword emails a one-time code for resetting the password. The
// response is the same whether or not the email exists.
func (ac *AuthController) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "A valid email is required",
		})
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	genericResponse := func() error {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "If the email exists, a reset code has been sent",
		})
	}

	if err := utils.ValidateOTPAttempts(ctx, req.Email, config.RedisClient); err != nil {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: "Too many reset attempts, try again later",
		})
	}

	user, err := ac.users.FindByEmail(ctx, req.Email)
	if err != nil || !user.IsActive {
		return genericResponse()
	}

	otp, err := utils.GenerateSecureOTP()
	if err != nil {
		ac.logger.Printf("Failed to generate OTP: %v", err)
		return genericResponse()
	}
	if err := utils.StoreOTP(ctx, config.RedisClient, req.Email, otp); err != nil {
		ac.logger.Printf("Failed to store OTP: %v", err)
		return genericResponse()
	}

	body := "Your Haris password reset code is: " + otp + "\nIt expires in 10 minutes."
	if err := utils.SendEmail(user.Email, "Password Reset Code", body); err != nil {
		ac.logger.Printf("Failed to send OTP email to %s: %v", user.Email, err)
	}

	return genericResponse()
}

// ResetPassword verifies the emailed code and sets the new password
func (ac *AuthController) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email, code and new password are required",
		})
	}
	if !utils.IsStrongPassword(req.NewPassword) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Password must be at least 8 characters and contain upper, lower and numeric characters",
		})
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := utils.VerifyOTP(ctx, config.RedisClient, req.Email, req.OTP); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or expired reset code",
		})
	}

	user, err := ac.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Account not found",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to reset password",
		})
	}
	if err := ac.users.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		ac.logger.Printf("Failed to update password for %s: %v", user.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to reset password",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Password reset successful",
	})
}

// GetProfile returns the authenticated user's profile
func (ac *AuthController) GetProfile(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	user, err := ac.users.FindByID(context.Background(), userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved",
		Data:    user,
	})
}
