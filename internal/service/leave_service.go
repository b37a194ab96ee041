package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/dto"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/model"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/repository"
	pkgerrors "github.com/rahultripathi17/TimeDesk-sub001/pkg/errors"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/workday"
)

// ── leave errors ──

var (
	ErrLeaveNotFound       = errors.New("leave request not found")
	ErrLeaveOverlap        = errors.New("leave overlaps an existing pending or approved leave")
	ErrLeaveLimitExceeded  = errors.New("leave limit exceeded")
	ErrLeaveNoWorkingDays  = errors.New("the selected range contains no working days")
	ErrLeaveTooFarInPast   = fmt.Errorf("leave cannot start more than %d days in the past", maxLeaveBackdateDays)
	ErrLeaveTooLong        = fmt.Errorf("leave cannot span more than %d days", maxLeaveSpanDays)
	ErrLeaveCrossesYear    = errors.New("leave must end within the leave year it starts in")
	ErrLeaveNotPending     = errors.New("only pending leave can be decided")
	ErrLeaveNotCancellable = errors.New("only pending or future approved leave can be cancelled")
	ErrLeaveSelfDecision   = errors.New("cannot decide your own leave")
)

const (
	maxLeaveBackdateDays = 30
	maxLeaveSpanDays     = 180
)

// LeaveService leave requests, decisions, balances and the calendar feed
type LeaveService interface {
	Create(ctx context.Context, profileID string, req *dto.CreateLeaveRequest) (*dto.LeaveResponse, error)
	Get(ctx context.Context, caller Caller, id string) (*dto.LeaveResponse, error)
	ListMine(ctx context.Context, profileID string, req *dto.LeaveMineRequest) ([]dto.LeaveResponse, int64, error)
	List(ctx context.Context, caller Caller, req *dto.LeaveListRequest) ([]dto.LeaveResponse, int64, error)
	Cancel(ctx context.Context, caller Caller, id string) (*dto.LeaveResponse, error)
	Approve(ctx context.Context, caller Caller, id string, req *dto.DecideLeaveRequest) (*dto.LeaveResponse, error)
	Reject(ctx context.Context, caller Caller, id string, req *dto.DecideLeaveRequest) (*dto.LeaveResponse, error)
	Balance(ctx context.Context, caller Caller, req *dto.LeaveBalanceRequest) (*dto.LeaveBalanceResponse, error)
	Calendar(ctx context.Context, caller Caller, req *dto.LeaveCalendarRequest) ([]byte, error)
	// Upcoming lists the profile's approved leaves ending on or after today.
	Upcoming(ctx context.Context, profileID string, limit int) ([]dto.LeaveResponse, error)
}

type leaveService struct {
	repo     *repository.Repository
	settings SystemSettingService
	limits   LeaveLimitService
	cache    Cache
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewLeaveService creates a LeaveService. loc is the business timezone.
func NewLeaveService(
	repo *repository.Repository,
	settings SystemSettingService,
	limits LeaveLimitService,
	cache Cache,
	loc *time.Location,
	logger *zap.Logger,
) LeaveService {
	return &leaveService{
		repo:     repo,
		settings: settings,
		limits:   limits,
		cache:    cache,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// ────────────────────── Create ──────────────────────

func (s *leaveService) Create(ctx context.Context, profileID string, req *dto.CreateLeaveRequest) (*dto.LeaveResponse, error) {
	if !model.ValidLeaveType(req.LeaveType) {
		return nil, ErrInvalidLeaveType
	}
	start, err := workday.ParseDate(req.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	end, err := workday.ParseDate(req.EndDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	today := s.today()
	if start.Before(today.AddDate(0, 0, -maxLeaveBackdateDays)) {
		return nil, ErrLeaveTooFarInPast
	}
	if workday.DaysInclusive(start, end) > maxLeaveSpanDays {
		return nil, ErrLeaveTooLong
	}

	yearStart, yearEnd := s.settings.LeaveYearReset(ctx).YearOf(start)
	if end.After(yearEnd) {
		return nil, ErrLeaveCrossesYear
	}

	profile, err := s.loadProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	days := profile.EffectiveSchedule(profile.Department).WorkingDays(start, end)
	if days == 0 {
		return nil, ErrLeaveNoWorkingDays
	}

	overlapping, err := s.repo.Leave.FindOverlapping(ctx, profileID, start, end)
	if err != nil {
		s.logger.Error("find overlapping leaves failed", zap.String("profile_id", profileID), zap.Error(err))
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, ErrLeaveOverlap
	}

	if err := s.checkLimit(ctx, profile, req.LeaveType, yearStart, yearEnd, days, true, ""); err != nil {
		return nil, err
	}

	leave := &model.Leave{
		ProfileID: profileID,
		LeaveType: req.LeaveType,
		StartDate: start,
		EndDate:   end,
		Days:      days,
		Reason:    strings.TrimSpace(req.Reason),
		Status:    model.LeavePending,
	}
	leave.CreatedBy = &profileID
	leave.UpdatedBy = &profileID

	if err := s.repo.Leave.Create(ctx, leave); err != nil {
		s.logger.Error("create leave failed", zap.String("profile_id", profileID), zap.Error(err))
		return nil, err
	}
	// leave summaries report pending days
	invalidateReports(ctx, s.cache, s.logger)

	leave.Profile = profile
	return toLeaveResponse(leave), nil
}

// checkLimit rejects a request of days when it would exceed the quota for the leave year.
// withPending counts other pending requests against the quota; excludeID skips the leave
// being decided.
func (s *leaveService) checkLimit(ctx context.Context, profile *model.Profile, leaveType string, yearStart, yearEnd time.Time, days int, withPending bool, excludeID string) error {
	limit, err := s.limits.LimitFor(ctx, profile.DeptID(), leaveType)
	if err != nil {
		s.logger.Error("load leave limit failed", zap.String("profile_id", profile.ProfileID), zap.Error(err))
		return err
	}
	if limit == model.UnlimitedLeave {
		return nil
	}

	leaves, err := s.repo.Leave.ListRange(ctx, repository.LeaveRangeQuery{
		ProfileIDs: []string{profile.ProfileID},
		Statuses:   []string{model.LeavePending, model.LeaveApproved},
		From:       yearStart,
		To:         yearEnd,
	})
	if err != nil {
		s.logger.Error("load leave usage failed", zap.String("profile_id", profile.ProfileID), zap.Error(err))
		return err
	}

	usage := tallyLeaves(leaves, yearStart, yearEnd, excludeID)[leaveType]
	taken := usage.Used
	if withPending {
		taken += usage.Pending
	}
	if taken+days > limit {
		remaining := limit - taken
		if remaining < 0 {
			remaining = 0
		}
		return fmt.Errorf("%w: %d day(s) remaining", ErrLeaveLimitExceeded, remaining)
	}
	return nil
}

// ────────────────────── Get / List ──────────────────────

func (s *leaveService) Get(ctx context.Context, caller Caller, id string) (*dto.LeaveResponse, error) {
	leave, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if leave.ProfileID != caller.ProfileID {
		owner, err := s.ownerOf(ctx, leave)
		if err != nil {
			return nil, err
		}
		if !caller.CanManage(owner.DeptID()) {
			return nil, ErrNoPermission
		}
	}
	return toLeaveResponse(leave), nil
}

func (s *leaveService) ListMine(ctx context.Context, profileID string, req *dto.LeaveMineRequest) ([]dto.LeaveResponse, int64, error) {
	filter := repository.LeaveFilter{ProfileID: profileID, Status: req.Status}
	return s.list(ctx, filter, req.GetOffset(), req.GetPageSize())
}

func (s *leaveService) List(ctx context.Context, caller Caller, req *dto.LeaveListRequest) ([]dto.LeaveResponse, int64, error) {
	filter := repository.LeaveFilter{
		ProfileID:    req.ProfileID,
		DepartmentID: req.DepartmentID,
		Status:       req.Status,
		LeaveType:    req.LeaveType,
	}
	if !caller.IsAdmin() {
		if caller.DepartmentID == "" {
			return nil, 0, ErrNoPermission
		}
		filter.DepartmentID = caller.DepartmentID
	}
	if req.From != "" || req.To != "" {
		today := s.today()
		from, to, err := parseDateRange(req.From, req.To, today.AddDate(0, 0, -maxRangeDays+1), today)
		if err != nil {
			return nil, 0, err
		}
		filter.From, filter.To = &from, &to
	}
	return s.list(ctx, filter, req.GetOffset(), req.GetPageSize())
}

func (s *leaveService) list(ctx context.Context, filter repository.LeaveFilter, offset, limit int) ([]dto.LeaveResponse, int64, error) {
	leaves, total, err := s.repo.Leave.List(ctx, filter, offset, limit)
	if err != nil {
		s.logger.Error("list leaves failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.LeaveResponse, 0, len(leaves))
	for i := range leaves {
		result = append(result, *toLeaveResponse(&leaves[i]))
	}
	return result, total, nil
}

func (s *leaveService) Upcoming(ctx context.Context, profileID string, limit int) ([]dto.LeaveResponse, error) {
	today := s.today()
	leaves, err := s.repo.Leave.ListRange(ctx, repository.LeaveRangeQuery{
		ProfileIDs: []string{profileID},
		Statuses:   []string{model.LeaveApproved},
		From:       today,
		To:         today.AddDate(1, 0, 0),
	})
	if err != nil {
		s.logger.Error("list upcoming leaves failed", zap.String("profile_id", profileID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.LeaveResponse, 0, len(leaves))
	for i := range leaves {
		if limit > 0 && len(result) == limit {
			break
		}
		result = append(result, *toLeaveResponse(&leaves[i]))
	}
	return result, nil
}

// ────────────────────── Cancel ──────────────────────

func (s *leaveService) Cancel(ctx context.Context, caller Caller, id string) (*dto.LeaveResponse, error) {
	leave, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if leave.ProfileID != caller.ProfileID {
		return nil, ErrNoPermission
	}

	switch {
	case leave.Status == model.LeavePending:
	case leave.Status == model.LeaveApproved && leave.StartDate.After(s.today()):
	default:
		return nil, ErrLeaveNotCancellable
	}

	leave.Status = model.LeaveCancelled
	leave.UpdatedBy = &caller.ProfileID

	if err := s.repo.Leave.Update(ctx, leave); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("cancel leave failed", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	invalidateReports(ctx, s.cache, s.logger)
	return toLeaveResponse(leave), nil
}

// ────────────────────── Approve / Reject ──────────────────────

func (s *leaveService) Approve(ctx context.Context, caller Caller, id string, req *dto.DecideLeaveRequest) (*dto.LeaveResponse, error) {
	return s.decide(ctx, caller, id, req, model.LeaveApproved)
}

func (s *leaveService) Reject(ctx context.Context, caller Caller, id string, req *dto.DecideLeaveRequest) (*dto.LeaveResponse, error) {
	return s.decide(ctx, caller, id, req, model.LeaveRejected)
}

func (s *leaveService) decide(ctx context.Context, caller Caller, id string, req *dto.DecideLeaveRequest, status string) (*dto.LeaveResponse, error) {
	leave, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if leave.ProfileID == caller.ProfileID {
		return nil, ErrLeaveSelfDecision
	}
	owner, err := s.ownerOf(ctx, leave)
	if err != nil {
		return nil, err
	}
	if !caller.CanManage(owner.DeptID()) {
		return nil, ErrNoPermission
	}
	if leave.Status != model.LeavePending {
		return nil, ErrLeaveNotPending
	}
	if req.Version != nil && *req.Version != leave.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	if status == model.LeaveApproved {
		yearStart, yearEnd := s.settings.LeaveYearReset(ctx).YearOf(leave.StartDate)
		if err := s.checkLimit(ctx, owner, leave.LeaveType, yearStart, yearEnd, leave.Days, false, leave.LeaveID); err != nil {
			return nil, err
		}
	}

	decidedAt := s.now().UTC()
	leave.Status = status
	leave.ApproverID = &caller.ProfileID
	leave.DecidedAt = &decidedAt
	leave.DecisionNote = strings.TrimSpace(req.Note)
	leave.UpdatedBy = &caller.ProfileID

	if err := s.repo.Leave.Update(ctx, leave); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("decide leave failed", zap.String("id", id), zap.String("status", status), zap.Error(err))
		}
		return nil, err
	}

	if status == model.LeaveApproved {
		invalidateReports(ctx, s.cache, s.logger)
	}
	return toLeaveResponse(leave), nil
}

// ────────────────────── Balance ──────────────────────

func (s *leaveService) Balance(ctx context.Context, caller Caller, req *dto.LeaveBalanceRequest) (*dto.LeaveBalanceResponse, error) {
	profileID := caller.ProfileID
	if req.ProfileID != "" {
		profileID = req.ProfileID
	}

	profile, err := s.loadProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profileID != caller.ProfileID && !caller.CanManage(profile.DeptID()) {
		return nil, ErrNoPermission
	}

	asOf := s.today()
	if req.AsOf != "" {
		if asOf, err = workday.ParseDate(req.AsOf); err != nil {
			return nil, ErrInvalidDate
		}
	}
	yearStart, yearEnd := s.settings.LeaveYearReset(ctx).YearOf(asOf)

	limits, err := s.limits.Limits(ctx, profile.DeptID())
	if err != nil {
		s.logger.Error("load leave limits failed", zap.String("profile_id", profileID), zap.Error(err))
		return nil, err
	}
	leaves, err := s.repo.Leave.ListRange(ctx, repository.LeaveRangeQuery{
		ProfileIDs: []string{profileID},
		Statuses:   []string{model.LeavePending, model.LeaveApproved},
		From:       yearStart,
		To:         yearEnd,
	})
	if err != nil {
		s.logger.Error("load leave usage failed", zap.String("profile_id", profileID), zap.Error(err))
		return nil, err
	}

	return &dto.LeaveBalanceResponse{
		ProfileID: profileID,
		YearStart: workday.FormatDate(yearStart),
		YearEnd:   workday.FormatDate(yearEnd),
		Balances:  buildBalances(limits, tallyLeaves(leaves, yearStart, yearEnd, "")),
	}, nil
}

// ────────────────────── Calendar ──────────────────────

func (s *leaveService) Calendar(ctx context.Context, caller Caller, req *dto.LeaveCalendarRequest) ([]byte, error) {
	q := repository.LeaveRangeQuery{Statuses: []string{model.LeaveApproved}}
	name := "My leave"

	switch {
	case req.DepartmentID != "":
		if !caller.IsAdmin() && caller.DepartmentID != req.DepartmentID {
			return nil, ErrNoPermission
		}
		q.DepartmentID = req.DepartmentID
		name = "Team leave"
	case req.ProfileID != "" && req.ProfileID != caller.ProfileID:
		profile, err := s.loadProfile(ctx, req.ProfileID)
		if err != nil {
			return nil, err
		}
		if !caller.CanManage(profile.DeptID()) {
			return nil, ErrNoPermission
		}
		q.ProfileIDs = []string{req.ProfileID}
		name = profile.FullName + " leave"
	default:
		q.ProfileIDs = []string{caller.ProfileID}
	}

	today := s.today()
	from, to, err := parseDateRange(req.From, req.To, today.AddDate(0, 0, -90), today.AddDate(0, 0, 270))
	if err != nil {
		return nil, err
	}
	q.From, q.To = from, to

	leaves, err := s.repo.Leave.ListRange(ctx, q)
	if err != nil {
		s.logger.Error("list calendar leaves failed", zap.Error(err))
		return nil, err
	}

	company := s.settings.String(ctx, model.SettingCompanyName)
	return []byte(buildLeaveCalendar(company+" "+name, leaves, s.now())), nil
}

// buildLeaveCalendar renders approved leaves as all-day events.
func buildLeaveCalendar(name string, leaves []model.Leave, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//TimeDesk//Leave Calendar//EN")
	cal.SetXWRCalName(name)

	for i := range leaves {
		l := &leaves[i]
		who := l.ProfileID
		if l.Profile != nil {
			who = l.Profile.FullName
		}

		event := cal.AddEvent(l.LeaveID + "@timedesk")
		event.SetDtStampTime(stamp.UTC())
		event.SetAllDayStartAt(l.StartDate)
		// DTEND of an all-day event is exclusive
		event.SetAllDayEndAt(l.EndDate.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("%s: %s leave", who, l.LeaveType))
		if l.Reason != "" {
			event.SetDescription(l.Reason)
		}
	}
	return cal.Serialize()
}

// ── helpers ──

func (s *leaveService) today() time.Time {
	return workday.DateOf(s.now(), s.loc)
}

func (s *leaveService) load(ctx context.Context, id string) (*model.Leave, error) {
	leave, err := s.repo.Leave.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveNotFound
		}
		s.logger.Error("load leave failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return leave, nil
}

func (s *leaveService) loadProfile(ctx context.Context, id string) (*model.Profile, error) {
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

// ownerOf returns the requesting profile, preferring the preloaded association.
func (s *leaveService) ownerOf(ctx context.Context, leave *model.Leave) (*model.Profile, error) {
	if leave.Profile != nil {
		return leave.Profile, nil
	}
	profile, err := s.loadProfile(ctx, leave.ProfileID)
	if err != nil {
		return nil, err
	}
	leave.Profile = profile
	return profile, nil
}

func toLeaveResponse(l *model.Leave) *dto.LeaveResponse {
	resp := &dto.LeaveResponse{
		ID:           l.LeaveID,
		ProfileID:    l.ProfileID,
		LeaveType:    l.LeaveType,
		StartDate:    workday.FormatDate(l.StartDate),
		EndDate:      workday.FormatDate(l.EndDate),
		Days:         l.Days,
		Reason:       l.Reason,
		Status:       l.Status,
		DecidedAt:    formatTimePtr(l.DecidedAt),
		DecisionNote: l.DecisionNote,
		Version:      l.Version,
		CreatedAt:    formatTime(l.CreatedAt),
	}
	if l.Profile != nil {
		resp.ProfileName = l.Profile.FullName
	}
	if l.ApproverID != nil {
		resp.ApproverID = *l.ApproverID
	}
	if l.Approver != nil {
		resp.ApproverName = l.Approver.FullName
	}
	return resp
}
