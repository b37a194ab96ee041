package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/dto"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/model"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/repository"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/workday"
)

const dashboardUpcomingLimit = 5

// DashboardService landing page summary
type DashboardService interface {
	Summary(ctx context.Context, caller Caller) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	repo       *repository.Repository
	attendance AttendanceService
	leaves     LeaveService
	loc        *time.Location
	logger     *zap.Logger
	now        func() time.Time
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(
	repo *repository.Repository,
	attendance AttendanceService,
	leaves LeaveService,
	loc *time.Location,
	logger *zap.Logger,
) DashboardService {
	return &dashboardService{
		repo:       repo,
		attendance: attendance,
		leaves:     leaves,
		loc:        loc,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *dashboardService) Summary(ctx context.Context, caller Caller) (*dto.DashboardResponse, error) {
	today, err := s.attendance.Today(ctx, caller.ProfileID)
	if err != nil {
		return nil, err
	}
	balance, err := s.leaves.Balance(ctx, caller, &dto.LeaveBalanceRequest{})
	if err != nil {
		return nil, err
	}
	upcoming, err := s.leaves.Upcoming(ctx, caller.ProfileID, dashboardUpcomingLimit)
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.Leave.CountPending(ctx, repository.LeaveFilter{ProfileID: caller.ProfileID})
	if err != nil {
		s.logger.Error("count pending leaves failed", zap.String("profile_id", caller.ProfileID), zap.Error(err))
		return nil, err
	}

	resp := &dto.DashboardResponse{
		Today:           today,
		Balance:         balance,
		UpcomingLeaves:  upcoming,
		PendingRequests: pending,
	}

	if caller.IsAdmin() || (caller.IsManager() && caller.DepartmentID != "") {
		deptID := ""
		if !caller.IsAdmin() {
			deptID = caller.DepartmentID
		}
		if resp.Team, err = s.team(ctx, deptID); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// team summarizes today for one department, or everyone when deptID is empty.
func (s *dashboardService) team(ctx context.Context, deptID string) (*dto.TeamSummary, error) {
	date := workday.DateOf(s.now(), s.loc)

	headcount, err := s.repo.Profile.CountActive(ctx, deptID)
	if err != nil {
		s.logger.Error("count profiles failed", zap.Error(err))
		return nil, err
	}
	byStatus, err := s.repo.Attendance.CountByStatus(ctx, date, deptID)
	if err != nil {
		s.logger.Error("count attendance failed", zap.Error(err))
		return nil, err
	}
	onLeave, err := s.repo.Leave.ListRange(ctx, repository.LeaveRangeQuery{
		DepartmentID: deptID,
		Statuses:     []string{model.LeaveApproved},
		From:         date,
		To:           date,
	})
	if err != nil {
		s.logger.Error("list leaves failed", zap.Error(err))
		return nil, err
	}
	pending, err := s.repo.Leave.CountPending(ctx, repository.LeaveFilter{DepartmentID: deptID})
	if err != nil {
		s.logger.Error("count pending leaves failed", zap.Error(err))
		return nil, err
	}

	return &dto.TeamSummary{
		Headcount:        headcount,
		CheckedIn:        byStatus[model.AttendancePresent] + byStatus[model.AttendanceLate] + byStatus[model.AttendanceHalfDay],
		Late:             byStatus[model.AttendanceLate],
		OnLeave:          int64(len(onLeave)),
		PendingApprovals: pending,
	}, nil
}
