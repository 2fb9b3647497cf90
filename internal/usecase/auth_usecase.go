package usecase

import (
	"context"
	"errors"
	"strings"

	"lesson-booking/internal/converter"
	"lesson-booking/internal/delivery/dto"
	"lesson-booking/internal/domain/entity"
	"lesson-booking/internal/domain/repository"
	"lesson-booking/internal/service"
	"lesson-booking/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, providerID uuid.UUID, accessTokenID string) error
	GetCurrentProvider(ctx context.Context, providerID uuid.UUID) (*dto.ProviderAccountResponse, error)
}

type authUsecase struct {
	log          *logrus.Logger
	providerRepo repository.ProviderRepository
	jwtService   *jwt.JWTService
	tokenStore   service.TokenStore
	auditService service.AuditService
}

func NewAuthUsecase(
	log *logrus.Logger,
	providerRepo repository.ProviderRepository,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		log:          log,
		providerRepo: providerRepo,
		jwtService:   jwtService,
		tokenStore:   tokenStore,
		auditService: auditService,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	provider, err := u.providerRepo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find provider by email: %+v", err)
		return nil, err
	}
	if provider == nil {
		return nil, ErrInvalidCredentials
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(provider.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(provider.ID, provider.Email)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Store(ctx, provider.ID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, service.ProviderActor(provider.ID), entity.AuditActionProviderLogin, "session", accessTokenID, nil); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, providerID uuid.UUID, accessTokenID string) error {
	if accessTokenID == "" {
		return ErrInvalidToken
	}
	if err := u.tokenStore.Revoke(ctx, providerID, accessTokenID); err != nil {
		u.log.Warnf("Failed to delete access token: %+v", err)
		return err
	}
	return nil
}

func (u *authUsecase) GetCurrentProvider(ctx context.Context, providerID uuid.UUID) (*dto.ProviderAccountResponse, error) {
	provider, err := u.providerRepo.FindByID(ctx, providerID)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", providerID, err)
		return nil, err
	}
	if provider == nil {
		return nil, ErrProviderNotFound
	}
	return converter.ProviderToAccountResponse(provider), nil
}
