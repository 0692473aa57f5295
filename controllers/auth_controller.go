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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/dudhkela/dudhkela_backend/config"
	"github.com/dudhkela/dudhkela_backend/middleware"
	"github.com/dudhkela/dudhkela_backend/models"
	"github.com/dudhkela/dudhkela_backend/utils"
)

// AuthController contains authentication logic
type AuthController struct {
	DB          *mongo.Client
	Redis       *redis.Client
	signupCache *utils.SignupCache
	mailer      *utils.Mailer
	logger      *log.Logger
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client, rdb *redis.Client, mailer *utils.Mailer) *AuthController {
	return &AuthController{
		DB:          db,
		Redis:       rdb,
		signupCache: utils.NewSignupCache(rdb),
		mailer:      mailer,
		logger:      log.New(os.Stdout, "[AUTH] ", log.LstdFlags),
	}
}

// Signup starts a registration. The profile is parked in Redis and only
// becomes a user document after the emailed OTP is verified.
func (ac *AuthController) Signup(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var signupReq models.SignupRequest
	if err := c.Bind(&signupReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&signupReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	email, err := utils.SanitizeEmail(signupReq.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}
	signupReq.Email = email
	signupReq.FullName = utils.SanitizeInput(signupReq.FullName)
	signupReq.Address = utils.SanitizeInput(signupReq.Address)

	if signupReq.Phone != "" {
		phone, err := utils.SanitizePhone(signupReq.Phone)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid phone number format",
			})
		}
		signupReq.Phone = phone
	}

	if signupReq.Pincode != "" && !utils.IsValidPincode(signupReq.Pincode) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Pincode must be exactly 6 digits",
		})
	}

	// Refuse early when the email is already registered
	collection := config.GetCollection(ac.DB, "users")
	count, err := collection.CountDocuments(ctx, bson.M{"email": signupReq.Email})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check existing users",
		})
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "An account with this email already exists",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(signupReq.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	otp, err := utils.GenerateSecureOTP()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate verification code",
		})
	}

	pending := &utils.PendingSignup{
		SignupRequest:  signupReq,
		HashedPassword: string(hashedPassword),
		OTP:            otp,
		CreatedAt:      time.Now(),
	}
	pending.Password = "" // never persist the plaintext, even transiently

	if err := ac.signupCache.Store(ctx, pending); err != nil {
		ac.logger.Printf("Failed to store pending signup for %s: %v", signupReq.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to start signup, please try again",
		})
	}

	if err := ac.mailer.SendVerificationEmail(signupReq.Email, signupReq.FullName, otp); err != nil {
		ac.logger.Printf("Failed to send verification email to %s: %v", signupReq.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to send verification email",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Verification code sent. Please check your email to complete signup.",
	})
}

// VerifyEmail completes a signup: the OTP is checked against the pending
// record and only then is the user document created. The Redis key is
// cleared after the insert succeeds, never before.
func (ac *AuthController) VerifyEmail(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var verifyReq models.VerifyEmailRequest
	if err := c.Bind(&verifyReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&verifyReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	email, err := utils.SanitizeEmail(verifyReq.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	if err := utils.ValidateOTPAttempts(email, ac.Redis); err != nil {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: "Too many verification attempts. Please try again later.",
		})
	}

	pending, err := ac.signupCache.Load(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to look up pending signup",
		})
	}
	if pending == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No pending signup found for this email. It may have expired; please sign up again.",
		})
	}

	if pending.OTP != verifyReq.OTP {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid verification code",
		})
	}

	referralCode, err := utils.GenerateCustomerReferralCode()
	if err != nil {
		ac.logger.Printf("Failed to generate referral code for %s: %v", email, err)
		referralCode = ""
	}

	now := time.Now()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Email:        pending.Email,
		Password:     pending.HashedPassword,
		FullName:     pending.FullName,
		Role:         models.RoleCustomer,
		Phone:        pending.Phone,
		Address:      pending.Address,
		Pincode:      pending.Pincode,
		ReferralCode: referralCode,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	collection := config.GetCollection(ac.DB, "users")
	if _, err := collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "An account with this email already exists",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create user account",
		})
	}

	// Clearing the cache after the insert means a crash in between leaves
	// a retryable pending signup, not a lost one.
	if err := ac.signupCache.Clear(ctx, email); err != nil {
		ac.logger.Printf("Failed to clear pending signup for %s: %v", email, err)
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Account created but failed to generate token. Please log in.",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Email verified and account created",
		Data: models.LoginResponse{
			Token:        token,
			RefreshToken: refreshToken,
			User:         user,
		},
	})
}

// Login handles email and password login
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var loginReq models.LoginRequest
	if err := c.Bind(&loginReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&loginReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	email, err := utils.SanitizeEmail(loginReq.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	collection := config.GetCollection(ac.DB, "users")
	var user models.User
	err = collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		// Same answer for unknown email and wrong password
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

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginReq.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		ac.logger.Printf("Failed to generate JWT for %s: %v", user.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	user.Password = ""
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
