package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/dto"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/model"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/repository"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/geo"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/workday"
)

// ── attendance errors ──

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAlreadyCheckedIn   = errors.New("already checked in today")
	ErrOnLeaveToday       = errors.New("you are on approved leave today")
	ErrNonWorkingDay      = errors.New("check-in is not allowed on a non-working day")
	ErrLocationRequired   = errors.New("location is required to check in")
	ErrInvalidCheckinCode = errors.New("check-in code is invalid or expired")
	ErrNotCheckedIn       = errors.New("no check-in found for today")
	ErrAlreadyCheckedOut  = errors.New("already checked out today")
	ErrInvalidDateRange   = errors.New("from must not be after to")
	ErrDateRangeTooLong   = fmt.Errorf("date range exceeds %d days", maxRangeDays)
	ErrInvalidTimes       = errors.New("check-out must be after check-in, times in RFC 3339")
	ErrInvalidStatus      = errors.New("invalid attendance status")
)

const maxRangeDays = 366

// AttendanceService check-in/out and attendance records
type AttendanceService interface {
	CheckIn(ctx context.Context, profileID string, req *dto.CheckInRequest) (*dto.AttendanceResponse, error)
	CheckOut(ctx context.Context, profileID string, req *dto.CheckOutRequest) (*dto.AttendanceResponse, error)
	Today(ctx context.Context, profileID string) (*dto.TodayResponse, error)
	ListMine(ctx context.Context, profileID string, req *dto.AttendanceMineRequest) ([]dto.AttendanceResponse, error)
	List(ctx context.Context, caller Caller, req *dto.AttendanceListRequest) ([]dto.AttendanceResponse, int64, error)
	Upsert(ctx context.Context, caller Caller, req *dto.UpsertAttendanceRequest) (*dto.AttendanceResponse, error)
	Delete(ctx context.Context, id string) error
}

type attendanceService struct {
	repo      *repository.Repository
	settings  SystemSettingService
	locations OfficeLocationService
	cache     Cache
	loc       *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewAttendanceService creates an AttendanceService. loc is the business timezone.
func NewAttendanceService(
	repo *repository.Repository,
	settings SystemSettingService,
	locations OfficeLocationService,
	cache Cache,
	loc *time.Location,
	logger *zap.Logger,
) AttendanceService {
	return &attendanceService{
		repo:      repo,
		settings:  settings,
		locations: locations,
		cache:     cache,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
	}
}

// ────────────────────── CheckIn ──────────────────────

func (s *attendanceService) CheckIn(ctx context.Context, profileID string, req *dto.CheckInRequest) (*dto.AttendanceResponse, error) {
	now := s.now()
	today := workday.DateOf(now, s.loc)

	profile, err := s.loadProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if !profile.IsActive {
		return nil, ErrAccountDisabled
	}
	sched := profile.EffectiveSchedule(profile.Department)

	existing, err := s.findDay(ctx, profileID, today)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.CheckInAt != nil {
		return nil, ErrAlreadyCheckedIn
	}

	onLeave, err := s.onApprovedLeave(ctx, profileID, today)
	if err != nil {
		return nil, err
	}
	if onLeave {
		return nil, ErrOnLeaveToday
	}

	if !sched.IsWorkday(today) && !s.settings.Bool(ctx, model.SettingAllowWeekendCheckin) {
		return nil, ErrNonWorkingDay
	}

	office, err := s.resolveOffice(ctx, req, now)
	if err != nil {
		return nil, err
	}

	status := model.AttendancePresent
	if now.After(sched.LateAfter(today, s.loc)) {
		status = model.AttendanceLate
	}

	rec := existing
	if rec == nil {
		rec = &model.Attendance{ProfileID: profileID, WorkDate: today}
	}
	checkIn := now.UTC()
	rec.Status = status
	rec.CheckInAt = &checkIn
	rec.CheckInLat = req.Latitude
	rec.CheckInLng = req.Longitude
	rec.Source = model.SourceSelf
	rec.Notes = strings.TrimSpace(req.Notes)
	if office != nil {
		rec.OfficeLocationID = &office.LocationID
	}
	rec.UpdatedBy = &profileID

	if existing == nil {
		rec.CreatedBy = &profileID
		err = s.repo.Attendance.Create(ctx, rec)
	} else {
		err = s.repo.Attendance.Update(ctx, rec)
	}
	if err != nil {
		// the (profile_id, work_date) index catches a concurrent double check-in
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyCheckedIn
		}
		s.logger.Error("save check-in failed", zap.String("profile_id", profileID), zap.Error(err))
		return nil, err
	}

	return toAttendanceResponse(rec), nil
}

// resolveOffice enforces the geofence and check-in code settings and returns the
// office the caller checked in at, or nil when neither is enforced.
func (s *attendanceService) resolveOffice(ctx context.Context, req *dto.CheckInRequest, now time.Time) (*model.OfficeLocation, error) {
	geofence := s.settings.Bool(ctx, model.SettingGeofenceEnabled)
	codeRequired := s.settings.Bool(ctx, model.SettingCheckinCodeRequired)
	hasPoint := req.Latitude != nil && req.Longitude != nil

	var office *model.OfficeLocation
	if geofence {
		if !hasPoint {
			return nil, ErrLocationRequired
		}
		matched, err := s.locations.Match(ctx, geo.Point{Lat: *req.Latitude, Lng: *req.Longitude})
		if err != nil {
			if errors.Is(err, ErrInvalidCoordinates) {
				return nil, ErrLocationRequired
			}
			return nil, err
		}
		office = matched
	}

	if !codeRequired {
		return office, nil
	}
	if req.Code == "" {
		return nil, ErrInvalidCheckinCode
	}
	if office != nil {
		if !s.locations.VerifyCode(office, req.Code, now) {
			return nil, ErrInvalidCheckinCode
		}
		return office, nil
	}

	// without a geofence the code itself identifies the office
	offices, err := s.repo.OfficeLocation.List(ctx, false)
	if err != nil {
		s.logger.Error("list office locations failed", zap.Error(err))
		return nil, err
	}
	for i := range offices {
		if offices[i].IsActive && s.locations.VerifyCode(&offices[i], req.Code, now) {
			return &offices[i], nil
		}
	}
	return nil, ErrInvalidCheckinCode
}

// ────────────────────── CheckOut ──────────────────────

func (s *attendanceService) CheckOut(ctx context.Context, profileID string, req *dto.CheckOutRequest) (*dto.AttendanceResponse, error) {
	now := s.now()
	today := workday.DateOf(now, s.loc)

	rec, err := s.findDay(ctx, profileID, today)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.CheckInAt == nil {
		// a shift that started yesterday may still be open
		prev, err := s.findDay(ctx, profileID, today.AddDate(0, 0, -1))
		if err != nil {
			return nil, err
		}
		if prev == nil || prev.CheckInAt == nil || prev.CheckOutAt != nil {
			return nil, ErrNotCheckedIn
		}
		rec = prev
	}
	if rec.CheckOutAt != nil {
		return nil, ErrAlreadyCheckedOut
	}

	profile, err := s.loadProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	sched := profile.EffectiveSchedule(profile.Department)

	checkOut := now.UTC()
	rec.CheckOutAt = &checkOut
	rec.CheckOutLat = req.Latitude
	rec.CheckOutLng = req.Longitude
	rec.WorkMinutes = workMinutes(*rec.CheckInAt, checkOut)
	rec.Status = checkoutStatus(rec.Status, rec.WorkMinutes, sched)
	if note := strings.TrimSpace(req.Notes); note != "" {
		if rec.Notes != "" {
			rec.Notes += "\n"
		}
		rec.Notes += note
	}
	rec.UpdatedBy = &profileID

	if err := s.repo.Attendance.Update(ctx, rec); err != nil {
		s.logger.Error("save check-out failed", zap.String("profile_id", profileID), zap.Error(err))
		return nil, err
	}

	return toAttendanceResponse(rec), nil
}

// checkoutStatus downgrades a short day to half_day; otherwise the check-in status stands.
func checkoutStatus(current string, minutes int, sched workday.Schedule) string {
	if sched.HalfDayHours > 0 && float64(minutes) < sched.HalfDayHours*60 {
		return model.AttendanceHalfDay
	}
	return current
}

func workMinutes(in, out time.Time) int {
	if out.Before(in) {
		return 0
	}
	return int(out.Sub(in) / time.Minute)
}

// ────────────────────── Today ──────────────────────

func (s *attendanceService) Today(ctx context.Context, profileID string) (*dto.TodayResponse, error) {
	today := workday.DateOf(s.now(), s.loc)

	profile, err := s.loadProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	sched := profile.EffectiveSchedule(profile.Department)

	rec, err := s.findDay(ctx, profileID, today)
	if err != nil {
		return nil, err
	}
	onLeave, err := s.onApprovedLeave(ctx, profileID, today)
	if err != nil {
		return nil, err
	}

	resp := &dto.TodayResponse{
		Date:      workday.FormatDate(today),
		IsWorkday: sched.IsWorkday(today),
		OnLeave:   onLeave,
		Schedule:  sched,
	}
	if rec != nil {
		resp.Record = toAttendanceResponse(rec)
	}
	return resp, nil
}

// ────────────────────── ListMine ──────────────────────

func (s *attendanceService) ListMine(ctx context.Context, profileID string, req *dto.AttendanceMineRequest) ([]dto.AttendanceResponse, error) {
	today := workday.DateOf(s.now(), s.loc)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	from, to, err := parseDateRange(req.From, req.To, monthStart, today)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.Attendance.ListByProfile(ctx, profileID, from, to)
	if err != nil {
		s.logger.Error("list attendance failed", zap.String("profile_id", profileID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.AttendanceResponse, 0, len(rows))
	for i := range rows {
		result = append(result, *toAttendanceResponse(&rows[i]))
	}
	return result, nil
}

// ────────────────────── List ──────────────────────

func (s *attendanceService) List(ctx context.Context, caller Caller, req *dto.AttendanceListRequest) ([]dto.AttendanceResponse, int64, error) {
	filter := repository.AttendanceFilter{
		ProfileID:    req.ProfileID,
		DepartmentID: req.DepartmentID,
		Status:       req.Status,
	}
	if !caller.IsAdmin() {
		if caller.DepartmentID == "" {
			return nil, 0, ErrNoPermission
		}
		filter.DepartmentID = caller.DepartmentID
	}

	if req.From != "" || req.To != "" {
		today := workday.DateOf(s.now(), s.loc)
		from, to, err := parseDateRange(req.From, req.To, today.AddDate(0, 0, -30), today)
		if err != nil {
			return nil, 0, err
		}
		filter.From, filter.To = &from, &to
	}

	rows, total, err := s.repo.Attendance.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list attendance failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.AttendanceResponse, 0, len(rows))
	for i := range rows {
		result = append(result, *toAttendanceResponse(&rows[i]))
	}
	return result, total, nil
}

// ────────────────────── Upsert ──────────────────────

func (s *attendanceService) Upsert(ctx context.Context, caller Caller, req *dto.UpsertAttendanceRequest) (*dto.AttendanceResponse, error) {
	date, err := workday.ParseDate(req.WorkDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if !model.ValidAttendanceStatus(req.Status) {
		return nil, ErrInvalidStatus
	}

	profile, err := s.loadProfile(ctx, req.ProfileID)
	if err != nil {
		return nil, err
	}
	if !caller.CanManage(profile.DeptID()) {
		return nil, ErrNoPermission
	}

	checkIn, err := parseTimestamp(req.CheckInAt)
	if err != nil {
		return nil, err
	}
	checkOut, err := parseTimestamp(req.CheckOutAt)
	if err != nil {
		return nil, err
	}
	if checkOut != nil && (checkIn == nil || !checkOut.After(*checkIn)) {
		return nil, ErrInvalidTimes
	}

	existing, err := s.findDay(ctx, req.ProfileID, date)
	if err != nil {
		return nil, err
	}
	rec := existing
	if rec == nil {
		rec = &model.Attendance{ProfileID: req.ProfileID, WorkDate: date}
		rec.CreatedBy = &caller.ProfileID
	}
	rec.Status = req.Status
	rec.CheckInAt = checkIn
	rec.CheckOutAt = checkOut
	rec.WorkMinutes = 0
	if checkIn != nil && checkOut != nil {
		rec.WorkMinutes = workMinutes(*checkIn, *checkOut)
	}
	rec.Notes = strings.TrimSpace(req.Notes)
	rec.Source = model.SourceAdmin
	rec.UpdatedBy = &caller.ProfileID

	if existing == nil {
		err = s.repo.Attendance.Create(ctx, rec)
	} else {
		err = s.repo.Attendance.Update(ctx, rec)
	}
	if err != nil {
		s.logger.Error("upsert attendance failed",
			zap.String("profile_id", req.ProfileID), zap.String("date", req.WorkDate), zap.Error(err))
		return nil, err
	}

	invalidateReports(ctx, s.cache, s.logger)
	rec.Profile = profile
	return toAttendanceResponse(rec), nil
}

// ────────────────────── Delete ──────────────────────

func (s *attendanceService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Attendance.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttendanceNotFound
		}
		s.logger.Error("load attendance failed", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Attendance.Delete(ctx, id); err != nil {
		s.logger.Error("delete attendance failed", zap.String("id", id), zap.Error(err))
		return err
	}

	invalidateReports(ctx, s.cache, s.logger)
	return nil
}

// ── helpers ──

func (s *attendanceService) loadProfile(ctx context.Context, id string) (*model.Profile, error) {
	profile, err := s.repo.Profile.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("load profile failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return profile, nil
}

// findDay returns the profile's row for date, or nil.
func (s *attendanceService) findDay(ctx context.Context, profileID string, date time.Time) (*model.Attendance, error) {
	rec, err := s.repo.Attendance.GetByProfileDate(ctx, profileID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("load attendance failed", zap.String("profile_id", profileID), zap.Error(err))
		return nil, err
	}
	return rec, nil
}

func (s *attendanceService) onApprovedLeave(ctx context.Context, profileID string, date time.Time) (bool, error) {
	leaves, err := s.repo.Leave.FindOverlapping(ctx, profileID, date, date)
	if err != nil {
		s.logger.Error("load leaves failed", zap.String("profile_id", profileID), zap.Error(err))
		return false, err
	}
	for _, l := range leaves {
		if l.Status == model.LeaveApproved {
			return true, nil
		}
	}
	return false, nil
}

// parseDateRange parses optional YYYY-MM-DD bounds, falling back to the defaults.
func parseDateRange(fromStr, toStr string, defFrom, defTo time.Time) (time.Time, time.Time, error) {
	from, to := defFrom, defTo
	var err error
	if fromStr != "" {
		if from, err = workday.ParseDate(fromStr); err != nil {
			return time.Time{}, time.Time{}, ErrInvalidDate
		}
	}
	if toStr != "" {
		if to, err = workday.ParseDate(toStr); err != nil {
			return time.Time{}, time.Time{}, ErrInvalidDate
		}
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	if workday.DaysInclusive(from, to) > maxRangeDays {
		return time.Time{}, time.Time{}, ErrDateRangeTooLong
	}
	return from, to, nil
}

func parseTimestamp(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, ErrInvalidTimes
	}
	t = t.UTC()
	return &t, nil
}

func toAttendanceResponse(a *model.Attendance) *dto.AttendanceResponse {
	resp := &dto.AttendanceResponse{
		ID:          a.AttendanceID,
		ProfileID:   a.ProfileID,
		WorkDate:    workday.FormatDate(a.WorkDate),
		Status:      a.Status,
		CheckInAt:   formatTimePtr(a.CheckInAt),
		CheckOutAt:  formatTimePtr(a.CheckOutAt),
		WorkMinutes: a.WorkMinutes,
		Notes:       a.Notes,
		Source:      a.Source,
	}
	if a.OfficeLocationID != nil {
		resp.OfficeLocationID = *a.OfficeLocationID
	}
	if a.Profile != nil {
		resp.ProfileName = a.Profile.FullName
	}
	return resp
}
