package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/dudhkela/dudhkela_backend/config"
	"github.com/dudhkela/dudhkela_backend/models"
	"github.com/dudhkela/dudhkela_backend/utils"
)

const (
	resetOTPPrefix = "reset_otp:"
	resetOTPTTL    = 15 * time.Minute
)

// PasswordController handles the password reset flow
type PasswordController struct {
	DB     *mongo.Client
	Redis  *redis.Client
	mailer *utils.Mailer
	logger *log.Logger
}

// NewPasswordController creates a new password controller
func NewPasswordController(db *mongo.Client, rdb *redis.Client, mailer *utils.Mailer) *PasswordController {
	return &PasswordController{
		DB:     db,
		Redis:  rdb,
		mailer: mailer,
		logger: log.New(os.Stdout, "[PASSWORD] ", log.LstdFlags),
	}
}

// ForgotPassword emails a short-lived reset code to the account holder
func (pc *PasswordController) ForgotPassword(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var forgotReq models.ForgotPasswordRequest
	if err := c.Bind(&forgotReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&forgotReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "A valid email is required",
		})
	}

	email, err := utils.SanitizeEmail(forgotReq.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	collection := config.GetCollection(pc.DB, "users")
	var user models.User
	err = collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No account associated with this email",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check user",
		})
	}

	otp, err := utils.GenerateSecureOTP()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate reset code",
		})
	}

	if err := pc.Redis.Set(ctx, resetOTPPrefix+email, otp, resetOTPTTL).Err(); err != nil {
		pc.logger.Printf("Failed to store reset code for %s: %v", email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to start password reset, please try again",
		})
	}

	if err := pc.mailer.SendPasswordResetEmail(email, user.FullName, otp); err != nil {
		pc.logger.Printf("Failed to send reset email to %s: %v", email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to send reset email",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Password reset code sent. Please check your email.",
	})
}

// ResetPassword verifies the emailed code and writes the new password.
// The code is consumed only after the password update succeeds.
func (pc *PasswordController) ResetPassword(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var resetReq models.ResetPasswordRequest
	if err := c.Bind(&resetReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&resetReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email, reset code and a password of at least 8 characters are required",
		})
	}

	email, err := utils.SanitizeEmail(resetReq.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	if err := utils.ValidateOTPAttempts(email, pc.Redis); err != nil {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: "Too many reset attempts. Please try again later.",
		})
	}

	storedOTP, err := pc.Redis.Get(ctx, resetOTPPrefix+email).Result()
	if err == redis.Nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No reset request found for this email. It may have expired.",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to look up reset request",
		})
	}

	if storedOTP != resetReq.OTP {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid reset code",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(resetReq.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	collection := config.GetCollection(pc.DB, "users")
	res, err := collection.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{
			"password":  string(hashedPassword),
			"updatedAt": time.Now(),
		}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update password",
		})
	}
	if res.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	if err := pc.Redis.Del(ctx, resetOTPPrefix+email).Err(); err != nil {
		pc.logger.Printf("Failed to clear reset code for %s: %v", email, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Password reset successfully. Please log in with your new password.",
	})
}
