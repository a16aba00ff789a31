package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yesbharath/spinwheel-backend/internal/repositories"
)

// RateLimitService enforces fixed-window limits with block-until semantics.
// Counting is pushed to the storage layer's atomic upsert-increment, so
// parallel requests against the same key are counted accurately.
type RateLimitService struct {
	repo repositories.RateLimitRepository
}

// NewRateLimitService creates a new RateLimitService
func NewRateLimitService(repo repositories.RateLimitRepository) *RateLimitService {
	return &RateLimitService{repo: repo}
}

// limitPolicy is one named limiter configuration
type limitPolicy struct {
	limit         int64
	window        time.Duration
	blockDuration time.Duration
}

// Limiter policies, mirroring the production configuration: key prefix ->
// (requests per window, window, block applied on breach).
var (
	spinPolicy          = limitPolicy{10, 10 * time.Minute, time.Hour}
	otpGenPolicy        = limitPolicy{4, time.Minute, 10 * time.Minute}
	otpVerifyPolicy     = limitPolicy{5, 10 * time.Minute, 15 * time.Minute}
	adminLoginPolicy    = limitPolicy{5, 15 * time.Minute, time.Hour}
	profileUpdatePolicy = limitPolicy{3, time.Hour, time.Hour}
	creationPolicy      = limitPolicy{2, 24 * time.Hour, 24 * time.Hour}
	statusPolicy        = limitPolicy{100, 5 * time.Minute, 10 * time.Minute}
)

// CheckSpin gates spin attempts per phone number
func (s *RateLimitService) CheckSpin(ctx context.Context, phone string) error {
	return s.check(ctx, "spin:"+phone, spinPolicy)
}

// CheckOtpGeneration gates OTP sends per phone number
func (s *RateLimitService) CheckOtpGeneration(ctx context.Context, phone string) error {
	return s.check(ctx, "otp_gen:"+phone, otpGenPolicy)
}

// CheckAdminLogin gates admin login attempts per IP
func (s *RateLimitService) CheckAdminLogin(ctx context.Context, ip string) error {
	return s.check(ctx, "admin_login:"+ip, adminLoginPolicy)
}

// CheckProfileUpdate gates profile updates per participant
func (s *RateLimitService) CheckProfileUpdate(ctx context.Context, participantID string) error {
	return s.check(ctx, "profile:"+participantID, profileUpdatePolicy)
}

// CheckAccountCreation gates new account creation per IP
func (s *RateLimitService) CheckAccountCreation(ctx context.Context, ip string) error {
	return s.check(ctx, "create:"+ip, creationPolicy)
}

// CheckStatus gates status polling per IP (loose)
func (s *RateLimitService) CheckStatus(ctx context.Context, ip string) error {
	return s.check(ctx, "status:"+ip, statusPolicy)
}

// IsOtpVerifyBlocked reports whether OTP verification is locked out for a
// phone number. It only reads the block flag; failures are counted
// separately via RecordOtpVerifyFailure.
func (s *RateLimitService) IsOtpVerifyBlocked(ctx context.Context, phone string) (bool, error) {
	entry, err := s.repo.FindByKey(ctx, "otp_verify:"+phone)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return entry.BlockedUntil.After(time.Now()), nil
}

// RecordOtpVerifyFailure counts one failed OTP verification and applies the
// lockout block when the threshold is reached.
func (s *RateLimitService) RecordOtpVerifyFailure(ctx context.Context, phone string) error {
	key := "otp_verify:" + phone
	now := time.Now()

	if err := s.expireStaleWindow(ctx, key, now); err != nil {
		return err
	}

	entry, err := s.repo.IncrementOrInsert(ctx, key, now.Add(otpVerifyPolicy.window))
	if err != nil {
		return err
	}
	if entry.Count >= otpVerifyPolicy.limit {
		slog.Warn("otp verification lockout applied", "phone", phone, "count", entry.Count)
		blockedUntil := now.Add(otpVerifyPolicy.blockDuration)
		// Keep the document alive past the block so the TTL sweep doesn't
		// lift it early.
		return s.repo.SetBlock(ctx, key, blockedUntil, blockedUntil.Add(time.Minute))
	}
	return nil
}

// ClearOtpVerifyFailures resets the failure counter after a successful
// verification.
func (s *RateLimitService) ClearOtpVerifyFailures(ctx context.Context, phone string) error {
	return s.repo.DeleteByKey(ctx, "otp_verify:"+phone)
}

func (s *RateLimitService) check(ctx context.Context, key string, policy limitPolicy) error {
	now := time.Now()

	entry, err := s.repo.FindByKey(ctx, key)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("rate limit lookup failed: %w", err)
	}
	if entry != nil && entry.BlockedUntil.After(now) {
		return ErrRateLimited
	}

	if err := s.expireStaleWindow(ctx, key, now); err != nil {
		return err
	}

	entry, err = s.repo.IncrementOrInsert(ctx, key, now.Add(policy.window))
	if err != nil {
		return fmt.Errorf("rate limit increment failed: %w", err)
	}

	if entry.Count > policy.limit {
		slog.Warn("rate limit breached, applying block", "key", key, "count", entry.Count)
		blockedUntil := now.Add(policy.blockDuration)
		if err := s.repo.SetBlock(ctx, key, blockedUntil, blockedUntil.Add(time.Minute)); err != nil {
			return err
		}
		return ErrRateLimited
	}
	return nil
}

// expireStaleWindow removes a window document whose fixed window has lapsed
// without a block, so the next increment starts a fresh window. (The TTL
// index does this too, but its sweep granularity is a minute.)
func (s *RateLimitService) expireStaleWindow(ctx context.Context, key string, now time.Time) error {
	entry, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}
	if entry.ExpiresAt.Before(now) && !entry.BlockedUntil.After(now) {
		return s.repo.DeleteByKey(ctx, key)
	}
	return nil
}
