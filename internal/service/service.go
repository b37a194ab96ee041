package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rahultripathi17/TimeDesk-sub001/config"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/model"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/repository"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/jwt"
)

// Cache is the JSON cache used for settings and reports. *redis.Client
// satisfies it; a nil Cache disables caching.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// TokenBlacklist revokes JWT IDs. A nil TokenBlacklist disables revocation.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	// ClaimToken atomically revokes jti and reports whether this call did so.
	ClaimToken(ctx context.Context, jti string, ttl time.Duration) (bool, error)
}

// Caller is the authenticated identity a request runs as.
type Caller struct {
	ProfileID    string
	Role         string
	DepartmentID string
}

// IsAdmin admin role
func (c Caller) IsAdmin() bool { return c.Role == model.RoleAdmin }

// IsManager manager role
func (c Caller) IsManager() bool { return c.Role == model.RoleManager }

// CanManage reports whether the caller may act on data of a profile in departmentID.
// Admins manage everyone; managers manage their own department.
func (c Caller) CanManage(departmentID string) bool {
	if c.IsAdmin() {
		return true
	}
	return c.IsManager() && c.DepartmentID != "" && c.DepartmentID == departmentID
}

// Service aggregates every service.
type Service struct {
	Auth           AuthService
	Profile        ProfileService
	Department     DepartmentService
	LeaveLimit     LeaveLimitService
	Setting        SystemSettingService
	OfficeLocation OfficeLocationService
	Attendance     AttendanceService
	Leave          LeaveService
	Report         ReportService
	Dashboard      DashboardService
}

// NewService wires the services together.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	tokens TokenBlacklist,
	cache Cache,
	logger *zap.Logger,
) *Service {
	loc := cfg.Server.Location()

	settings := NewSystemSettingService(repo, cache, logger)
	limits := NewLeaveLimitService(repo, cache, logger)
	locations := NewOfficeLocationService(repo, settings, logger)
	attendance := NewAttendanceService(repo, settings, locations, cache, loc, logger)
	leaves := NewLeaveService(repo, settings, limits, cache, loc, logger)

	return &Service{
		Auth:           NewAuthService(cfg, repo, jwtMgr, tokens, logger),
		Profile:        NewProfileService(repo, logger),
		Department:     NewDepartmentService(repo, cache, logger),
		LeaveLimit:     limits,
		Setting:        settings,
		OfficeLocation: locations,
		Attendance:     attendance,
		Leave:          leaves,
		Report:         NewReportService(repo, settings, limits, cache, cfg.Report.CacheTTL, loc, logger),
		Dashboard:      NewDashboardService(repo, attendance, leaves, loc, logger),
	}
}

// ── shared helpers ──

const timeLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func strPtr(s string) *string { return &s }

// reportCachePrefix namespaces every cached report.
const reportCachePrefix = "report:"

// invalidateReports drops cached reports after a write that changes their inputs.
func invalidateReports(ctx context.Context, cache Cache, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.DeletePrefix(ctx, reportCachePrefix); err != nil {
		logger.Warn("invalidate report cache failed", zap.Error(err))
	}
}
