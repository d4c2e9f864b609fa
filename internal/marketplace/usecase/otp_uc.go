package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.uber.org/zap"
)

const maxOTPAttempts = 10

// OTPUsecase issues and verifies one-time codes.
type OTPUsecase struct {
	repo   domain.OTPRepository
	mailer Mailer
	logger *logger.Logger

	now      func() time.Time
	generate func() (string, error)
}

// NewOTPUsecase creates a new OTPUsecase.
func NewOTPUsecase(repo domain.OTPRepository, mailer Mailer, log *logger.Logger) *OTPUsecase {
	return &OTPUsecase{
		repo:     repo,
		mailer:   mailer,
		logger:   log.Named("OTPUsecase"),
		now:      func() time.Time { return time.Now().UTC() },
		generate: randomOTPCode,
	}
}

// Generate creates a code for identifier, replacing any live one, and
// returns it in clear. Only its hash is stored. Live codes are unique
// across identifiers, so a collision draws a new code.
func (uc *OTPUsecase) Generate(ctx context.Context, identifier string) (string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", domain.Invalidf("identifier is required")
	}
	for attempt := 1; attempt <= maxOTPAttempts; attempt++ {
		code, err := uc.generate()
		if err != nil {
			return "", fmt.Errorf("generate otp: %w", err)
		}
		err = uc.repo.Upsert(ctx, domain.NewOTP(identifier, code, uc.now()))
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, domain.ErrDuplicateOTP) {
			uc.logger.Error("Failed to store otp", zap.Error(err))
			return "", fmt.Errorf("store otp: %w", err)
		}
		uc.logger.Debug("OTP collided with a live code, retrying", zap.Int("attempt", attempt))
	}
	uc.logger.Error("Could not issue a unique otp", zap.Int("attempts", maxOTPAttempts))
	return "", fmt.Errorf("store otp: %d attempts collided", maxOTPAttempts)
}

// GenerateOtp creates a code and mails it when identifier is an email.
func (uc *OTPUsecase) GenerateOtp(ctx context.Context, identifier string, meta RequestMeta) (domain.OperationResult, error) {
	code, err := uc.Generate(ctx, identifier)
	if err != nil {
		return domain.OperationResult{}, err
	}
	if strings.Contains(identifier, "@") {
		body := otpMailBody("User", code, describeAgent(meta.UserAgent))
		if err := uc.mailer.Send(ctx, strings.TrimSpace(identifier), "Hello, you requested for an OTP", body); err != nil {
			uc.logger.Error("Failed to send otp mail", zap.Error(err))
			return domain.OperationResult{}, fmt.Errorf("send otp mail: %w", err)
		}
	}
	return domain.OperationResult{Success: true, Message: "Successfully generated OTP!"}, nil
}

// Verify consumes code and returns the identifier it was bound to.
// A code can be verified once.
func (uc *OTPUsecase) Verify(ctx context.Context, code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", domain.ErrInvalidOTP
	}
	otp, err := uc.repo.Consume(ctx, domain.HashOTP(code))
	if err != nil {
		return "", err
	}
	if otp.Expired(uc.now()) {
		return "", domain.ErrInvalidOTP
	}
	return otp.Identifier, nil
}

func otpMailBody(name, code, agent string) string {
	return fmt.Sprintf(
		"<p>Hello %s,</p><p>A request was made from a %s.</p><p>Your one-time code is <b>%s</b>. It expires in %d minutes.</p><p>If this was not you, you can ignore this email.</p>",
		html.EscapeString(name), agent, code, int(domain.OTPTTL.Minutes()),
	)
}
