package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	"github.com/jwalitptl/hms-api/pkg/auth"
	apperr "github.com/jwalitptl/hms-api/pkg/errors"
	"github.com/jwalitptl/hms-api/pkg/security"
	"github.com/jwalitptl/hms-api/pkg/validator"
)

const resetTokenExpiry = 10 * time.Minute

type Service struct {
	patientRepo   repository.PatientRepository
	doctorRepo    repository.DoctorRepository
	principalRepo repository.PrincipalRepository
	jwtSvc        auth.JWTService
	hasher        security.PasswordHasher
	emailSvc      EmailSender
	validate      *validator.Validator
	resetBaseURL  string
}

// EmailSender is the slice of the email service registration and password
// reset need.
type EmailSender interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

func NewService(
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	principalRepo repository.PrincipalRepository,
	jwtSvc auth.JWTService,
	hasher security.PasswordHasher,
	emailSvc EmailSender,
	resetBaseURL string,
) *Service {
	return &Service{
		patientRepo:   patientRepo,
		doctorRepo:    doctorRepo,
		principalRepo: principalRepo,
		jwtSvc:        jwtSvc,
		hasher:        hasher,
		emailSvc:      emailSvc,
		validate:      validator.New(),
		resetBaseURL:  resetBaseURL,
	}
}

// Register creates a patient or doctor account. Admin accounts are
// provisioned through the admin service, never self-registered.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) error {
	if err := s.validate.Validate(req); err != nil {
		return apperr.BadRequest(err.Error(), err)
	}
	if req.Role != model.RolePatient && req.Role != model.RoleDoctor {
		return apperr.BadRequest("role must be patient or doctor", nil)
	}

	if _, err := s.principalRepo.GetByEmail(ctx, req.Email); err == nil {
		return apperr.Conflict("user already exists", nil)
	} else if !apperr.IsNotFound(err) {
		return fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return apperr.BadRequest("invalid password", err)
	}

	switch req.Role {
	case model.RolePatient:
		err = s.patientRepo.Create(ctx, &model.Patient{
			Base:         model.Base{ID: uuid.New()},
			Email:        req.Email,
			Name:         req.Name,
			PasswordHash: hash,
			Active:       true,
		})
	case model.RoleDoctor:
		err = s.doctorRepo.Create(ctx, &model.Doctor{
			Base:         model.Base{ID: uuid.New()},
			Email:        req.Email,
			Name:         req.Name,
			PasswordHash: hash,
			Active:       true,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	if s.emailSvc != nil {
		if err := s.emailSvc.SendWelcome(ctx, req.Email, req.Name); err != nil {
			log.Warn().Err(err).Str("email", req.Email).Msg("failed to send welcome email")
		}
	}
	return nil
}

// Login authenticates against whichever account table holds the email.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	principal, err := s.principalRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized(model.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !principal.Active {
		return nil, apperr.Forbidden("account is deactivated", nil)
	}

	if err := s.hasher.Compare(principal.Hash, req.Password); err != nil {
		return nil, apperr.Unauthorized(model.ErrInvalidCredentials)
	}

	if err := s.principalRepo.RecordLogin(ctx, principal.ID, time.Now()); err != nil {
		log.Warn().Err(err).Str("principal_id", principal.ID.String()).Msg("failed to record login time")
	}

	return s.issueTokens(principal)
}

func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized(err)
	}

	principal, err := s.principalRepo.Get(ctx, claims.PrincipalID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized(err)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !principal.Active {
		return nil, apperr.Forbidden("account is deactivated", nil)
	}

	return s.issueTokens(principal)
}

// ValidateToken resolves an access token to its claims.
func (s *Service) ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperr.Unauthorized(err)
	}
	return claims, nil
}

// ForgotPassword stores a short-lived reset token and emails the reset
// link. Unknown emails return NotFound.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	principal, err := s.principalRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	token := security.GeneratePassword()
	expiry := time.Now().Add(resetTokenExpiry)
	if err := s.principalRepo.StoreResetToken(ctx, principal.ID, token, expiry); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/resetpassword/%s", s.resetBaseURL, token)
	if err := s.emailSvc.SendPasswordReset(ctx, email, resetURL); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ResetPassword sets a new password for the account holding a valid,
// unexpired reset token.
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	principal, err := s.principalRepo.GetByResetToken(ctx, token)
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.BadRequest("token is invalid or has expired", err)
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return apperr.BadRequest("invalid password", err)
	}

	if err := s.principalRepo.SetPasswordHash(ctx, principal.ID, hash); err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}
	if err := s.principalRepo.ClearResetToken(ctx, principal.ID); err != nil {
		return fmt.Errorf("failed to clear reset token: %w", err)
	}
	return nil
}

func (s *Service) issueTokens(principal *model.Principal) (*model.TokenResponse, error) {
	accessToken, err := s.jwtSvc.GenerateAccessToken(principal)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwtSvc.GenerateRefreshToken(principal)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Principal:    principal,
	}, nil
}
