package utils

import (
	"credlyse/config"
	"credlyse/models"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"
)

// GenerateOTP generates a 6-digit OTP
func GenerateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand only fails when the system entropy source is broken
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

// HashOTP hashes an OTP code using SHA-256
func HashOTP(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// CreateOTP invalidates any unused codes for the same email and purpose,
// then stores a new hashed code. Returns the plain code for the email.
func CreateOTP(db *gorm.DB, email, purpose string) (string, error) {
	db.Where("email = ? AND purpose = ? AND is_used = ?", email, purpose, false).
		Delete(&models.OTP{})

	plain := GenerateOTP()
	record := models.OTP{
		Email:     email,
		CodeHash:  HashOTP(plain),
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(time.Duration(config.AppConfig.OTPExpireMinutes) * time.Minute),
	}
	if err := db.Create(&record).Error; err != nil {
		return "", err
	}
	return plain, nil
}

// VerifyOTP checks a code and burns it on success.
func VerifyOTP(db *gorm.DB, email, code, purpose string) bool {
	var record models.OTP
	err := db.Where(
		"email = ? AND code_hash = ? AND purpose = ? AND is_used = ? AND expires_at > ?",
		email, HashOTP(code), purpose, false, time.Now(),
	).First(&record).Error
	if err != nil {
		return false
	}

	now := time.Now()
	record.IsUsed = true
	record.UsedAt = &now
	db.Save(&record)

	return true
}

// CanResendOTP enforces the resend cooldown. Returns the seconds remaining
// when the caller has to wait.
func CanResendOTP(db *gorm.DB, email, purpose string) (bool, int) {
	cooldown := time.Duration(config.AppConfig.OTPResendCooldownSeconds) * time.Second

	var recent models.OTP
	err := db.Where("email = ? AND purpose = ? AND created_at > ?", email, purpose, time.Now().Add(-cooldown)).
		Order("created_at desc").
		First(&recent).Error
	if err != nil {
		return true, 0
	}

	remaining := int(cooldown.Seconds() - time.Since(recent.CreatedAt).Seconds())
	if remaining <= 0 {
		return true, 0
	}
	return false, remaining
}

// CleanupExpiredOTPs removes expired and used OTP codes.
func CleanupExpiredOTPs(db *gorm.DB) int64 {
	result := db.Unscoped().
		Where("expires_at < ? OR is_used = ?", time.Now(), true).
		Delete(&models.OTP{})
	return result.RowsAffected
}
