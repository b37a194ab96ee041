package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rahultripathi17/TimeDesk-sub001/config"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/dto"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/model"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/repository"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/jwt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountDisabled     = errors.New("account is disabled")
	ErrInvalidRefreshToken = errors.New("refresh token is invalid or has been used")
	ErrWrongPassword       = errors.New("current password is incorrect")
	ErrPasswordUnchanged   = errors.New("new password must differ from the current one")
	ErrProfileNotFound     = errors.New("profile not found")
)

// AuthService authentication
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Refresh exchanges a refresh token for a new pair; the old token is revoked.
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout revokes the access token and, when given, the refresh token.
	Logout(ctx context.Context, jti string, exp time.Time, refreshToken string) error
	Me(ctx context.Context, profileID string) (*dto.ProfileDetailResponse, error)
	ChangePassword(ctx context.Context, profileID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	tokens TokenBlacklist
	logger *zap.Logger
}

// NewAuthService creates an AuthService. tokens may be nil.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	tokens TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		tokens: tokens,
		logger: logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	profile, err := s.repo.Profile.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("load profile failed", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !profile.IsActive {
		return nil, ErrAccountDisabled
	}

	return s.issueTokens(profile, req.RememberMe)
}

// ────────────────────── Refresh ──────────────────────

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidRefreshToken
	}

	// role and department are re-read so a refresh picks up admin changes
	profile, err := s.repo.Profile.GetByID(ctx, claims.ProfileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		s.logger.Error("load profile failed", zap.String("profile_id", claims.ProfileID), zap.Error(err))
		return nil, err
	}
	if !profile.IsActive {
		return nil, ErrAccountDisabled
	}

	// one-time use: only the first concurrent refresh wins the claim
	if s.tokens != nil {
		claimed, err := s.tokens.ClaimToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
		if err != nil {
			s.logger.Error("claim refresh token failed", zap.Error(err))
			return nil, err
		}
		if !claimed {
			return nil, ErrInvalidRefreshToken
		}
	}

	return s.issueTokens(profile, claims.RememberMe)
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, jti string, exp time.Time, refreshToken string) error {
	if s.tokens == nil {
		return nil
	}
	if err := s.tokens.BlacklistToken(ctx, jti, time.Until(exp)); err != nil {
		s.logger.Error("blacklist access token failed", zap.Error(err))
		return err
	}
	if refreshToken != "" {
		if claims, err := s.jwtMgr.ParseToken(refreshToken); err == nil && claims.TokenType == jwt.TokenTypeRefresh {
			s.revoke(ctx, claims.ID, claims.ExpiresAt.Time)
		}
	}
	return nil
}

// ────────────────────── Me ──────────────────────

func (s *authService) Me(ctx context.Context, profileID string) (*dto.ProfileDetailResponse, error) {
	profile, err := s.repo.Profile.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("load profile failed", zap.String("profile_id", profileID), zap.Error(err))
		return nil, err
	}
	return toProfileDetail(profile), nil
}

// ────────────────────── ChangePassword ──────────────────────

func (s *authService) ChangePassword(ctx context.Context, profileID string, req *dto.ChangePasswordRequest) error {
	profile, err := s.repo.Profile.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileNotFound
		}
		s.logger.Error("load profile failed", zap.String("profile_id", profileID), zap.Error(err))
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrWrongPassword
	}
	if req.OldPassword == req.NewPassword {
		return ErrPasswordUnchanged
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return err
	}

	if err := s.repo.Profile.UpdatePassword(ctx, profileID, string(hash), false); err != nil {
		s.logger.Error("update password failed", zap.String("profile_id", profileID), zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

func (s *authService) issueTokens(profile *model.Profile, rememberMe bool) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(profile.ProfileID, profile.Role, profile.DeptID())
	if err != nil {
		s.logger.Error("sign access token failed", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(profile.ProfileID, profile.Role, profile.DeptID(), rememberMe)
	if err != nil {
		s.logger.Error("sign refresh token failed", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		Profile:      *toProfileResponse(profile),
	}, nil
}

func (s *authService) revoke(ctx context.Context, jti string, exp time.Time) {
	if s.tokens == nil {
		return
	}
	if err := s.tokens.BlacklistToken(ctx, jti, time.Until(exp)); err != nil {
		s.logger.Warn("blacklist token failed", zap.Error(err))
	}
}
