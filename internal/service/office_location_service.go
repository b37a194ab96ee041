package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/dto"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/model"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/repository"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/geo"
)

// ── office location errors ──

var (
	ErrOfficeLocationNotFound = errors.New("office location not found")
	ErrInvalidCoordinates     = errors.New("invalid coordinates")
	ErrOutsideGeofence        = errors.New("you are not within any office location")
)

const (
	defaultRadiusMeters = 200
	checkinCodePeriod   = 30
)

var checkinCodeOpts = totp.ValidateOpts{
	Period:    checkinCodePeriod,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// OfficeLocationService geo-fenced offices and their rotating check-in codes
type OfficeLocationService interface {
	Create(ctx context.Context, req *dto.CreateOfficeLocationRequest, callerID string) (*dto.OfficeLocationResponse, error)
	GetByID(ctx context.Context, id string) (*dto.OfficeLocationResponse, error)
	List(ctx context.Context, req *dto.OfficeLocationListRequest) ([]dto.OfficeLocationResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateOfficeLocationRequest, callerID string) (*dto.OfficeLocationResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	CurrentCode(ctx context.Context, id string) (*dto.CheckinCodeResponse, error)

	// Match returns the nearest active location whose fence contains p.
	Match(ctx context.Context, p geo.Point) (*model.OfficeLocation, error)
	// VerifyCode checks a check-in code against the location's secret, allowing one period of drift.
	VerifyCode(loc *model.OfficeLocation, code string, at time.Time) bool
}

type officeLocationService struct {
	repo     *repository.Repository
	settings SystemSettingService
	logger   *zap.Logger
	now      func() time.Time
}

// NewOfficeLocationService creates an OfficeLocationService.
func NewOfficeLocationService(repo *repository.Repository, settings SystemSettingService, logger *zap.Logger) OfficeLocationService {
	return &officeLocationService{repo: repo, settings: settings, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *officeLocationService) Create(ctx context.Context, req *dto.CreateOfficeLocationRequest, callerID string) (*dto.OfficeLocationResponse, error) {
	p := geo.Point{Lat: *req.Latitude, Lng: *req.Longitude}
	if !p.Valid() {
		return nil, ErrInvalidCoordinates
	}

	name := strings.TrimSpace(req.Name)
	secret, err := s.newSecret(ctx, name)
	if err != nil {
		s.logger.Error("generate checkin secret failed", zap.Error(err))
		return nil, err
	}

	radius := req.RadiusMeters
	if radius == 0 {
		radius = defaultRadiusMeters
	}

	loc := &model.OfficeLocation{
		Name:          name,
		Address:       req.Address,
		Latitude:      p.Lat,
		Longitude:     p.Lng,
		RadiusMeters:  radius,
		CheckinSecret: secret,
		IsActive:      true,
	}
	loc.CreatedBy = &callerID
	loc.UpdatedBy = &callerID

	if err := s.repo.OfficeLocation.Create(ctx, loc); err != nil {
		s.logger.Error("create office location failed", zap.Error(err))
		return nil, err
	}

	return toOfficeLocationResponse(loc), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *officeLocationService) GetByID(ctx context.Context, id string) (*dto.OfficeLocationResponse, error) {
	loc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOfficeLocationResponse(loc), nil
}

// ────────────────────── List ──────────────────────

func (s *officeLocationService) List(ctx context.Context, req *dto.OfficeLocationListRequest) ([]dto.OfficeLocationResponse, error) {
	locations, err := s.repo.OfficeLocation.List(ctx, req.IncludeInactive)
	if err != nil {
		s.logger.Error("list office locations failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.OfficeLocationResponse, 0, len(locations))
	for i := range locations {
		result = append(result, *toOfficeLocationResponse(&locations[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *officeLocationService) Update(ctx context.Context, id string, req *dto.UpdateOfficeLocationRequest, callerID string) (*dto.OfficeLocationResponse, error) {
	loc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		loc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		loc.Address = *req.Address
	}
	if req.Latitude != nil {
		loc.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		loc.Longitude = *req.Longitude
	}
	if !loc.Center().Valid() {
		return nil, ErrInvalidCoordinates
	}
	if req.RadiusMeters != nil {
		loc.RadiusMeters = *req.RadiusMeters
	}
	if req.IsActive != nil {
		loc.IsActive = *req.IsActive
	}
	if req.RotateSecret {
		secret, err := s.newSecret(ctx, loc.Name)
		if err != nil {
			s.logger.Error("generate checkin secret failed", zap.Error(err))
			return nil, err
		}
		loc.CheckinSecret = secret
	}
	loc.UpdatedBy = &callerID

	if err := s.repo.OfficeLocation.Update(ctx, loc); err != nil {
		s.logger.Error("update office location failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toOfficeLocationResponse(loc), nil
}

// ────────────────────── Delete ──────────────────────

func (s *officeLocationService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	if err := s.repo.OfficeLocation.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("delete office location failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Check-in codes ──────────────────────

func (s *officeLocationService) CurrentCode(ctx context.Context, id string) (*dto.CheckinCodeResponse, error) {
	loc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	code, err := totp.GenerateCodeCustom(loc.CheckinSecret, now, checkinCodeOpts)
	if err != nil {
		s.logger.Error("generate checkin code failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return &dto.CheckinCodeResponse{
		LocationID:   loc.LocationID,
		Code:         code,
		Period:       checkinCodePeriod,
		ValidSeconds: checkinCodePeriod - int(now.Unix()%checkinCodePeriod),
	}, nil
}

func (s *officeLocationService) VerifyCode(loc *model.OfficeLocation, code string, at time.Time) bool {
	if loc == nil || loc.CheckinSecret == "" || code == "" {
		return false
	}
	ok, err := totp.ValidateCustom(code, loc.CheckinSecret, at, checkinCodeOpts)
	return err == nil && ok
}

// ────────────────────── Match ──────────────────────

func (s *officeLocationService) Match(ctx context.Context, p geo.Point) (*model.OfficeLocation, error) {
	if !p.Valid() {
		return nil, ErrInvalidCoordinates
	}

	locations, err := s.repo.OfficeLocation.List(ctx, false)
	if err != nil {
		s.logger.Error("list office locations failed", zap.Error(err))
		return nil, err
	}

	var best *model.OfficeLocation
	bestDist := 0.0
	for i := range locations {
		loc := &locations[i]
		if !loc.IsActive || !loc.Contains(p) {
			continue
		}
		d := geo.DistanceMeters(p, loc.Center())
		if best == nil || d < bestDist {
			best, bestDist = loc, d
		}
	}
	if best == nil {
		return nil, ErrOutsideGeofence
	}
	return best, nil
}

// ── helpers ──

func (s *officeLocationService) load(ctx context.Context, id string) (*model.OfficeLocation, error) {
	loc, err := s.repo.OfficeLocation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfficeLocationNotFound
		}
		s.logger.Error("load office location failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return loc, nil
}

func (s *officeLocationService) newSecret(ctx context.Context, name string) (string, error) {
	issuer := s.settings.String(ctx, model.SettingCompanyName)
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: name,
		Period:      checkinCodePeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("generate totp key: %w", err)
	}
	return key.Secret(), nil
}

func toOfficeLocationResponse(loc *model.OfficeLocation) *dto.OfficeLocationResponse {
	return &dto.OfficeLocationResponse{
		ID:           loc.LocationID,
		Name:         loc.Name,
		Address:      loc.Address,
		Latitude:     loc.Latitude,
		Longitude:    loc.Longitude,
		RadiusMeters: loc.RadiusMeters,
		IsActive:     loc.IsActive,
		CreatedAt:    formatTime(loc.CreatedAt),
		UpdatedAt:    formatTime(loc.UpdatedAt),
	}
}
