package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/dto"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/model"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/repository"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/workday"
)

// ── settings errors ──

var (
	ErrSettingNotFound     = errors.New("setting not found")
	ErrSettingUnknownKey   = errors.New("unknown setting key; custom keys must match x_[a-z0-9_]+")
	ErrSettingInvalidValue = errors.New("invalid setting value")
)

type settingKind int

const (
	kindBool settingKind = iota
	kindInt
	kindReset
	kindText
)

type settingDef struct {
	kind        settingKind
	def         string
	min, max    int
	description string
}

var knownSettings = map[string]settingDef{
	model.SettingLeaveYearReset:      {kind: kindReset, def: "01-01", description: "Month and day (MM-DD) on which leave balances reset"},
	model.SettingGeofenceEnabled:     {kind: kindBool, def: "false", description: "Require check-in coordinates inside an office location"},
	model.SettingCheckinCodeRequired: {kind: kindBool, def: "false", description: "Require the rotating office code at check-in"},
	model.SettingAllowWeekendCheckin: {kind: kindBool, def: "true", description: "Allow check-in on non-working days"},
	model.SettingComplianceThreshold: {kind: kindInt, def: "5", min: 1, max: 1000, description: "Violation score at or above which an employee is flagged"},
	model.SettingCompanyName:         {kind: kindText, def: "TimeDesk", max: 100, description: "Display name used in exports and calendar feeds"},
}

var customKeyPattern = regexp.MustCompile(`^x_[a-z0-9_]{1,60}$`)

const settingCacheTTL = 10 * time.Minute

// SystemSettingService settings plus typed accessors for other services
type SystemSettingService interface {
	List(ctx context.Context) ([]dto.SettingResponse, error)
	Get(ctx context.Context, key string) (*dto.SettingResponse, error)
	Set(ctx context.Context, key string, req *dto.SetSettingRequest, callerID string) (*dto.SettingResponse, error)

	// Typed accessors never fail; they fall back to the built-in default.
	LeaveYearReset(ctx context.Context) workday.Reset
	Bool(ctx context.Context, key string) bool
	Int(ctx context.Context, key string) int
	String(ctx context.Context, key string) string
}

type systemSettingService struct {
	repo   *repository.Repository
	cache  Cache
	logger *zap.Logger
}

// NewSystemSettingService creates a SystemSettingService. cache may be nil.
func NewSystemSettingService(repo *repository.Repository, cache Cache, logger *zap.Logger) SystemSettingService {
	return &systemSettingService{repo: repo, cache: cache, logger: logger}
}

func settingCacheKey(key string) string { return "settings:" + key }

// ────────────────────── List ──────────────────────

func (s *systemSettingService) List(ctx context.Context) ([]dto.SettingResponse, error) {
	rows, err := s.repo.SystemSetting.List(ctx)
	if err != nil {
		s.logger.Error("list settings failed", zap.Error(err))
		return nil, err
	}

	seen := make(map[string]bool, len(rows))
	result := make([]dto.SettingResponse, 0, len(rows)+len(knownSettings))
	for i := range rows {
		seen[rows[i].Key] = true
		result = append(result, toSettingResponse(&rows[i]))
	}
	// known keys missing from the table are reported with their defaults
	for key, known := range knownSettings {
		if !seen[key] {
			result = append(result, dto.SettingResponse{Key: key, Value: known.def, Description: known.description})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

// ────────────────────── Get ──────────────────────

func (s *systemSettingService) Get(ctx context.Context, key string) (*dto.SettingResponse, error) {
	row, err := s.repo.SystemSetting.Get(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if known, ok := knownSettings[key]; ok {
				return &dto.SettingResponse{Key: key, Value: known.def, Description: known.description}, nil
			}
			return nil, ErrSettingNotFound
		}
		s.logger.Error("get setting failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	resp := toSettingResponse(row)
	return &resp, nil
}

// ────────────────────── Set ──────────────────────

func (s *systemSettingService) Set(ctx context.Context, key string, req *dto.SetSettingRequest, callerID string) (*dto.SettingResponse, error) {
	value, err := normalizeSetting(key, *req.Value)
	if err != nil {
		return nil, err
	}

	row := &model.SystemSetting{Key: key, Value: value}
	if existing, err := s.repo.SystemSetting.Get(ctx, key); err == nil {
		row.Description = existing.Description
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("get setting failed", zap.String("key", key), zap.Error(err))
		return nil, err
	} else if known, ok := knownSettings[key]; ok {
		row.Description = known.description
	}
	if req.Description != nil {
		row.Description = *req.Description
	}
	row.CreatedBy = &callerID
	row.UpdatedBy = &callerID

	if err := s.repo.SystemSetting.Upsert(ctx, row); err != nil {
		s.logger.Error("save setting failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, settingCacheKey(key)); err != nil {
			s.logger.Warn("invalidate setting cache failed", zap.String("key", key), zap.Error(err))
		}
	}
	invalidateReports(ctx, s.cache, s.logger)

	saved, err := s.repo.SystemSetting.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	resp := toSettingResponse(saved)
	return &resp, nil
}

// normalizeSetting validates value for key and returns its canonical form.
func normalizeSetting(key, value string) (string, error) {
	value = strings.TrimSpace(value)
	sd, known := knownSettings[key]
	if !known {
		if !customKeyPattern.MatchString(key) {
			return "", ErrSettingUnknownKey
		}
		return value, nil
	}

	switch sd.kind {
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", fmt.Errorf("%w: %s must be true or false", ErrSettingInvalidValue, key)
		}
		return strconv.FormatBool(b), nil
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < sd.min || n > sd.max {
			return "", fmt.Errorf("%w: %s must be an integer in %d-%d", ErrSettingInvalidValue, key, sd.min, sd.max)
		}
		return strconv.Itoa(n), nil
	case kindReset:
		r, err := workday.ParseReset(value)
		if err != nil {
			return "", fmt.Errorf("%w: %s must be MM-DD", ErrSettingInvalidValue, key)
		}
		return r.String(), nil
	default:
		if value == "" || len(value) > sd.max {
			return "", fmt.Errorf("%w: %s must be 1-%d characters", ErrSettingInvalidValue, key, sd.max)
		}
		return value, nil
	}
}

// ── typed accessors ──

// raw returns the stored value for key, going through the cache.
func (s *systemSettingService) raw(ctx context.Context, key string) string {
	def := knownSettings[key].def

	if s.cache != nil {
		var cached string
		found, err := s.cache.GetJSON(ctx, settingCacheKey(key), &cached)
		if err != nil {
			s.logger.Warn("read setting cache failed", zap.String("key", key), zap.Error(err))
		} else if found {
			return cached
		}
	}

	value := def
	row, err := s.repo.SystemSetting.Get(ctx, key)
	switch {
	case err == nil:
		value = row.Value
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		s.logger.Error("get setting failed", zap.String("key", key), zap.Error(err))
		return def
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, settingCacheKey(key), value, settingCacheTTL); err != nil {
			s.logger.Warn("write setting cache failed", zap.String("key", key), zap.Error(err))
		}
	}
	return value
}

func (s *systemSettingService) LeaveYearReset(ctx context.Context) workday.Reset {
	r, err := workday.ParseReset(s.raw(ctx, model.SettingLeaveYearReset))
	if err != nil {
		return workday.DefaultReset
	}
	return r
}

func (s *systemSettingService) Bool(ctx context.Context, key string) bool {
	b, err := strconv.ParseBool(s.raw(ctx, key))
	if err != nil {
		b, _ = strconv.ParseBool(knownSettings[key].def)
	}
	return b
}

func (s *systemSettingService) Int(ctx context.Context, key string) int {
	n, err := strconv.Atoi(s.raw(ctx, key))
	if err != nil {
		n, _ = strconv.Atoi(knownSettings[key].def)
	}
	return n
}

func (s *systemSettingService) String(ctx context.Context, key string) string {
	return s.raw(ctx, key)
}

func toSettingResponse(row *model.SystemSetting) dto.SettingResponse {
	return dto.SettingResponse{
		Key:         row.Key,
		Value:       row.Value,
		Description: row.Description,
		UpdatedAt:   formatTime(row.UpdatedAt),
	}
}
