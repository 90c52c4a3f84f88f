// utils/otp.go
package utils

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const otpTTL = 10 * time.Minute

func GenerateSecureOTP() (string, error) {
	// Generate 6 random bytes
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	// Convert to base32 string
	return base32.StdEncoding.EncodeToString(bytes)[:6], nil
}

// StoreOTP saves a password-reset OTP for the given email
func StoreOTP(ctx context.Context, rdb *redis.Client, email, otp string) error {
	return rdb.Set(ctx, "password_reset_otp:"+email, otp, otpTTL).Err()
}

// VerifyOTP checks the stored OTP and consumes it on success
func VerifyOTP(ctx context.Context, rdb *redis.Client, email, otp string) error {
	key := "password_reset_otp:" + email
	stored, err := rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return errors.New("OTP expired or not found")
	}
	if err != nil {
		return fmt.Errorf("failed to read OTP: %w", err)
	}
	if stored != otp {
		return errors.New("invalid OTP")
	}
	rdb.Del(ctx, key)
	return nil
}

// ValidateOTPAttempts limits OTP verification attempts per user
func ValidateOTPAttempts(ctx context.Context, userKey string, rdb *redis.Client) error {
	key := "otp_attempts:" + userKey
	attempts, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return err
	}

	// Set expiry if first attempt
	if attempts == 1 {
		rdb.Expire(ctx, key, 1*time.Hour)
	}

	// Limit to 5 attempts per hour
	if attempts > 5 {
		return errors.New("too many OTP attempts")
	}

	return nil
}
