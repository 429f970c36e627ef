package authController

import (
	"credlyse/config"
	"credlyse/database"
	"credlyse/middleware"
	"credlyse/models"
	"credlyse/utils"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSignup").(*struct {
		FullName string `json:"full_name" validate:"required,min=3"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
		Role     string `json:"role" validate:"omitempty,oneof=STUDENT CREATOR"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	role := reqData.Role
	if role == "" {
		role = models.RoleStudent
	}

	newUser := models.User{
		FullName: reqData.FullName,
		Email:    reqData.Email,
		Password: string(hashedPassword),
		Role:     role,
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	// Send the verification code out of band
	go func(email string) {
		otp, err := utils.CreateOTP(database.Database.Db, email, models.OTPPurposeEmailVerification)
		if err != nil {
			log.Printf("Error creating verification OTP for %s: %v", email, err)
			return
		}
		if err := utils.SendOTPEmail(otp, email); err != nil {
			log.Printf("Error sending verification OTP to %s: %v", email, err)
		}
	}(newUser.Email)

	newUser.Password = ""
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

func Login(c *fiber.Ctx) error {
	reqData := new(struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	token, err := middleware.GenerateJWT(user.ID, user.FullName, user.Role, user.Email)
	if err != nil {
		log.Printf("Error generating JWT: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to login!", nil)
	}

	now := time.Now()
	user.LastLogin = &now
	database.Database.Db.Save(&user)

	user.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// VerifyEmail burns the emailed OTP and marks the account verified.
func VerifyEmail(c *fiber.Ctx) error {
	reqData := new(struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	})

	if err := c.BodyParser(reqData); err != nil || reqData.Email == "" || reqData.Code == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email and code are required!", nil)
	}

	db := database.Database.Db

	if !utils.VerifyOTP(db, reqData.Email, reqData.Code, models.OTPPurposeEmailVerification) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired code!", nil)
	}

	var user models.User
	if err := db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	now := time.Now()
	user.IsEmailVerified = true
	user.EmailVerifiedAt = &now
	db.Save(&user)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Email verified successfully!", nil)
}

// ResendOTP re-sends a verification or reset code, honoring the cooldown.
func ResendOTP(c *fiber.Ctx) error {
	reqData := new(struct {
		Email   string `json:"email"`
		Purpose string `json:"purpose"`
	})

	if err := c.BodyParser(reqData); err != nil || reqData.Email == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email is required!", nil)
	}

	purpose := reqData.Purpose
	if purpose != models.OTPPurposePasswordReset {
		purpose = models.OTPPurposeEmailVerification
	}

	db := database.Database.Db

	if ok, remaining := utils.CanResendOTP(db, reqData.Email, purpose); !ok {
		return middleware.JsonResponse(c, fiber.StatusTooManyRequests, false, "Please wait before requesting another code.", fiber.Map{
			"retry_after_seconds": remaining,
		})
	}

	// Do not leak whether the email is registered
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		otp, err := utils.CreateOTP(db, reqData.Email, purpose)
		if err != nil {
			log.Printf("Error creating OTP for %s: %v", reqData.Email, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send code!", nil)
		}
		go utils.SendOTPEmail(otp, reqData.Email)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "If the email is registered, a code has been sent.", nil)
}

// ResetPassword sets a new password after OTP verification.
func ResetPassword(c *fiber.Ctx) error {
	reqData := new(struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"new_password"`
	})

	if err := c.BodyParser(reqData); err != nil || reqData.Email == "" || reqData.Code == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email, code and new password are required!", nil)
	}
	if len(reqData.NewPassword) < 8 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Password must be at least 8 characters long!", nil)
	}

	db := database.Database.Db

	if !utils.VerifyOTP(db, reqData.Email, reqData.Code, models.OTPPurposePasswordReset) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired code!", nil)
	}

	var user models.User
	if err := db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	user.Password = string(hashedPassword)
	db.Save(&user)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password reset successfully!", nil)
}

// GetProfile returns the authenticated user.
func GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch profile!", nil)
	}

	user.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", user)
}
