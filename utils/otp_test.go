package utils

import (
	"credlyse/config"
	"credlyse/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupOTPTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a single pooled connection keeps every query on the same in-memory db
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.OTP{}))

	config.AppConfig = &config.Config{
		OTPExpireMinutes:         10,
		OTPResendCooldownSeconds: 60,
	}
	return db
}

func TestGenerateOTPIsSixDigits(t *testing.T) {
	for i := 0; i < 20; i++ {
		otp := GenerateOTP()
		require.Len(t, otp, 6)
		for _, r := range otp {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}

func TestHashOTPIsDeterministic(t *testing.T) {
	assert.Equal(t, HashOTP("123456"), HashOTP("123456"))
	assert.NotEqual(t, HashOTP("123456"), HashOTP("654321"))
}

func TestCreateAndVerifyOTP(t *testing.T) {
	db := setupOTPTestDB(t)

	plain, err := CreateOTP(db, "user@example.com", models.OTPPurposeEmailVerification)
	require.NoError(t, err)
	require.Len(t, plain, 6)

	// stored hashed, never in plain
	var record models.OTP
	require.NoError(t, db.First(&record).Error)
	assert.Equal(t, HashOTP(plain), record.CodeHash)
	assert.NotEqual(t, plain, record.CodeHash)

	assert.False(t, VerifyOTP(db, "user@example.com", "000000", models.OTPPurposeEmailVerification))
	assert.False(t, VerifyOTP(db, "user@example.com", plain, models.OTPPurposePasswordReset))
	assert.True(t, VerifyOTP(db, "user@example.com", plain, models.OTPPurposeEmailVerification))

	// burned after use
	assert.False(t, VerifyOTP(db, "user@example.com", plain, models.OTPPurposeEmailVerification))
}

func TestCreateOTPInvalidatesPreviousCode(t *testing.T) {
	db := setupOTPTestDB(t)

	first, err := CreateOTP(db, "user@example.com", models.OTPPurposeEmailVerification)
	require.NoError(t, err)
	second, err := CreateOTP(db, "user@example.com", models.OTPPurposeEmailVerification)
	require.NoError(t, err)

	assert.False(t, VerifyOTP(db, "user@example.com", first, models.OTPPurposeEmailVerification))
	assert.True(t, VerifyOTP(db, "user@example.com", second, models.OTPPurposeEmailVerification))
}

func TestVerifyOTPRejectsExpiredCode(t *testing.T) {
	db := setupOTPTestDB(t)

	plain, err := CreateOTP(db, "user@example.com", models.OTPPurposeEmailVerification)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.OTP{}).
		Where("email = ?", "user@example.com").
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	assert.False(t, VerifyOTP(db, "user@example.com", plain, models.OTPPurposeEmailVerification))
}

func TestCanResendOTPCooldown(t *testing.T) {
	db := setupOTPTestDB(t)

	ok, _ := CanResendOTP(db, "user@example.com", models.OTPPurposeEmailVerification)
	assert.True(t, ok)

	_, err := CreateOTP(db, "user@example.com", models.OTPPurposeEmailVerification)
	require.NoError(t, err)

	ok, remaining := CanResendOTP(db, "user@example.com", models.OTPPurposeEmailVerification)
	assert.False(t, ok)
	assert.Greater(t, remaining, 0)
}

func TestCleanupExpiredOTPs(t *testing.T) {
	db := setupOTPTestDB(t)

	_, err := CreateOTP(db, "fresh@example.com", models.OTPPurposeEmailVerification)
	require.NoError(t, err)
	_, err = CreateOTP(db, "stale@example.com", models.OTPPurposeEmailVerification)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.OTP{}).
		Where("email = ?", "stale@example.com").
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	removed := CleanupExpiredOTPs(db)
	assert.EqualValues(t, 1, removed)

	var count int64
	db.Model(&models.OTP{}).Count(&count)
	assert.EqualValues(t, 1, count)
}
