package admin

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hms-api/internal/email"
	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	apperr "github.com/jwalitptl/hms-api/pkg/errors"
	"github.com/jwalitptl/hms-api/pkg/security"
)

type Service struct {
	adminRepo     repository.AdminRepository
	principalRepo repository.PrincipalRepository
	hasher        security.PasswordHasher
	emailSvc      email.Service
}

func NewService(
	adminRepo repository.AdminRepository,
	principalRepo repository.PrincipalRepository,
	hasher security.PasswordHasher,
	emailSvc email.Service,
) *Service {
	return &Service{
		adminRepo:     adminRepo,
		principalRepo: principalRepo,
		hasher:        hasher,
		emailSvc:      emailSvc,
	}
}

// AddAdmin provisions an admin account with a generated temporary
// password and emails the credentials.
func (s *Service) AddAdmin(ctx context.Context, req *model.CreateAdminRequest) (*model.Admin, error) {
	if _, err := s.adminRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Conflict("email is already taken", nil)
	} else if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check existing admin: %w", err)
	}

	password := security.GeneratePassword()
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash generated password: %w", err)
	}

	admin := &model.Admin{
		Base:              model.Base{ID: uuid.New()},
		Email:             req.Email,
		Name:              req.Name,
		PasswordHash:      hash,
		GeneratedPassword: password,
		Active:            true,
	}
	if req.Phone != "" {
		admin.Phone = &req.Phone
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	if s.emailSvc != nil {
		if err := s.emailSvc.SendGeneratedCredentials(ctx, admin.Email, password); err != nil {
			log.Warn().Err(err).Str("email", admin.Email).Msg("failed to send credentials email")
		}
	}
	return admin, nil
}

// RegeneratePassword replaces an admin's password with a fresh generated
// one and returns it.
func (s *Service) RegeneratePassword(ctx context.Context, adminID uuid.UUID) (string, error) {
	if _, err := s.adminRepo.Get(ctx, adminID); err != nil {
		return "", err
	}

	password := security.GeneratePassword()
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash generated password: %w", err)
	}

	if err := s.adminRepo.UpdatePassword(ctx, adminID, hash, password); err != nil {
		return "", err
	}
	return password, nil
}

// ToggleTrash flips any account's active flag and reports the new state.
func (s *Service) ToggleTrash(ctx context.Context, principalID uuid.UUID) (bool, error) {
	principal, err := s.principalRepo.Get(ctx, principalID)
	if err != nil {
		return false, err
	}

	active := !principal.Active
	if err := s.principalRepo.SetActive(ctx, principalID, active); err != nil {
		return false, err
	}
	return active, nil
}
