package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories"
	"github.com/yesbharath/spinwheel-backend/internal/utils"
	"github.com/yesbharath/spinwheel-backend/pkg/metrics"
	"github.com/yesbharath/spinwheel-backend/pkg/smsgateway"
)

const otpTTL = 5 * time.Minute

// OtpService generates, stores and verifies phone OTPs. The OTP lives in
// its own collection (TTL-indexed) so a login attempt never touches the
// participant record until verification succeeds.
type OtpService struct {
	otpRepo         repositories.OtpRepository
	participantRepo repositories.ParticipantRepository
	rateLimits      *RateLimitService
	gateway         smsgateway.Gateway
}

// NewOtpService creates a new OtpService
func NewOtpService(
	otpRepo repositories.OtpRepository,
	participantRepo repositories.ParticipantRepository,
	rateLimits *RateLimitService,
	gateway smsgateway.Gateway,
) *OtpService {
	return &OtpService{
		otpRepo:         otpRepo,
		participantRepo: participantRepo,
		rateLimits:      rateLimits,
		gateway:         gateway,
	}
}

// SendOTP validates the phone, rate-limits, generates and stores the OTP
// and hands it to the SMS gateway. The participant is upserted as
// unverified so the admin panel sees every login attempt.
func (s *OtpService) SendOTP(ctx context.Context, phone, name, ip string) error {
	if !utils.IsValidPhone(phone) {
		return fmt.Errorf("%w: invalid phone number", ErrNotEligible)
	}
	if len(name) < 2 {
		return fmt.Errorf("%w: valid name required", ErrNotEligible)
	}

	// A verification lockout also bars new OTP generation: a brute-forcing
	// caller should not be able to mint fresh codes.
	blocked, err := s.rateLimits.IsOtpVerifyBlocked(ctx, phone)
	if err != nil {
		return err
	}
	if blocked {
		return ErrRateLimited
	}
	if err := s.rateLimits.CheckOtpGeneration(ctx, phone); err != nil {
		return err
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return err
	}
	if err := s.otpRepo.Upsert(ctx, phone, code, name, time.Now().Add(otpTTL)); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	message := fmt.Sprintf("Your login OTP for SpinWheel is %s. Yes Bharath Wedding Collections.", code)
	msgID, err := s.gateway.SendSMS(phone, message)
	if err != nil {
		slog.Error("otp sms send failed", "error", err, "phone", utils.MaskPhone(phone))
		return fmt.Errorf("failed to send otp: %w", err)
	}
	metrics.OtpSent.Inc()
	slog.Info("otp sent", "phone", utils.MaskPhone(phone), "msgId", msgID)

	// Record the attempt as an unverified participant.
	existing, err := s.participantRepo.FindByPhone(ctx, phone)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		return s.participantRepo.Create(ctx, &models.Participant{
			Name:      name,
			Phone:     phone,
			IPAddress: ip,
			LoginHistory: []models.LoginRecord{
				{IP: ip, Timestamp: time.Now()},
			},
		})
	}
	// Refresh the name but never downgrade an existing verification.
	existing.Name = name
	return s.participantRepo.Update(ctx, existing)
}

// VerifyOTP checks the submitted code, creates or verifies the
// participant, and returns it. Failed attempts are counted toward the
// verification lockout.
func (s *OtpService) VerifyOTP(ctx context.Context, phone, code, name, ip string) (*models.Participant, error) {
	blocked, err := s.rateLimits.IsOtpVerifyBlocked(ctx, phone)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrRateLimited
	}

	entry, err := s.otpRepo.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, err
	}
	if entry.Code != code || entry.ExpiresAt.Before(time.Now()) {
		if rerr := s.rateLimits.RecordOtpVerifyFailure(ctx, phone); rerr != nil {
			slog.Error("failed to record otp failure", "error", rerr)
		}
		return nil, ErrInvalidOTP
	}

	// Consume the OTP and lift any failure count.
	if err := s.otpRepo.DeleteByPhone(ctx, phone); err != nil {
		slog.Error("failed to delete consumed otp", "error", err)
	}
	if err := s.rateLimits.ClearOtpVerifyFailures(ctx, phone); err != nil {
		slog.Error("failed to clear otp failures", "error", err)
	}

	finalName := name
	if finalName == "" {
		finalName = entry.TempName
	}

	participant, err := s.participantRepo.FindByPhone(ctx, phone)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		participant = &models.Participant{
			Name:          finalName,
			Phone:         phone,
			PhoneVerified: true,
			IPAddress:     ip,
			LoginHistory: []models.LoginRecord{
				{IP: ip, Timestamp: time.Now()},
			},
		}
		if err := s.participantRepo.Create(ctx, participant); err != nil {
			return nil, err
		}
		return participant, nil
	}

	if finalName != "" {
		participant.Name = finalName
	}
	participant.PhoneVerified = true
	participant.IPAddress = ip
	participant.LoginHistory = append(participant.LoginHistory, models.LoginRecord{
		IP:        ip,
		Timestamp: time.Now(),
	})
	if err := s.participantRepo.Update(ctx, participant); err != nil {
		return nil, err
	}
	return participant, nil
}
