package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/model"
)

func setupTestDashboardService() (DashboardService, *testRepos) {
	repo, m := newTestRepository()
	logger := zap.NewNop()
	settings := NewSystemSettingService(repo, nil, logger)
	limits := NewLeaveLimitService(repo, nil, logger)
	locations := NewOfficeLocationService(repo, settings, logger)

	attendance := NewAttendanceService(repo, settings, locations, nil, time.UTC, logger)
	attendance.(*attendanceService).now = clock(leaveTestNow)
	leaves := NewLeaveService(repo, settings, limits, nil, time.UTC, logger)
	leaves.(*leaveService).now = clock(leaveTestNow)

	svc := NewDashboardService(repo, attendance, leaves, time.UTC, logger)
	svc.(*dashboardService).now = clock(leaveTestNow)
	seedPeople(m)

	// Tuesday 2026-03-10
	m.attendance.rows["a1"] = &model.Attendance{AttendanceID: "a1", ProfileID: "p-emp", WorkDate: date("2026-03-10"), Status: model.AttendanceLate, CheckInAt: ts("2026-03-10T09:30:00Z")}
	m.attendance.rows["a2"] = &model.Attendance{AttendanceID: "a2", ProfileID: "p-ops-mgr", WorkDate: date("2026-03-10"), Status: model.AttendancePresent, CheckInAt: ts("2026-03-10T07:55:00Z")}
	seedLeave(m, "p-mgr", model.LeaveCasual, "2026-03-10", "2026-03-10", 1, model.LeaveApproved)
	seedLeave(m, "p-emp", model.LeaveAnnual, "2026-03-16", "2026-03-17", 2, model.LeaveApproved)
	seedLeave(m, "p-emp", model.LeaveSick, "2026-03-20", "2026-03-20", 1, model.LeavePending)
	return svc, m
}

func TestDashboard_Employee(t *testing.T) {
	svc, _ := setupTestDashboardService()

	resp, err := svc.Summary(context.Background(), empCaller)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if resp.Today == nil || resp.Today.Record == nil || resp.Today.Record.Status != model.AttendanceLate {
		t.Errorf("Today = %+v", resp.Today)
	}
	if len(resp.UpcomingLeaves) != 1 || resp.PendingRequests != 1 {
		t.Errorf("upcoming = %d pending = %d, want 1 and 1", len(resp.UpcomingLeaves), resp.PendingRequests)
	}
	if resp.Balance == nil || len(resp.Balance.Balances) != len(model.LeaveTypes) {
		t.Errorf("Balance = %+v", resp.Balance)
	}
	if resp.Team != nil {
		t.Error("employee got a team summary")
	}
}

func TestDashboard_TeamScope(t *testing.T) {
	svc, _ := setupTestDashboardService()
	ctx := context.Background()

	mgr, err := svc.Summary(ctx, mgrCaller)
	if err != nil {
		t.Fatalf("manager Summary: %v", err)
	}
	team := mgr.Team
	if team == nil {
		t.Fatal("manager has no team summary")
	}
	if team.Headcount != 2 || team.CheckedIn != 1 || team.Late != 1 || team.OnLeave != 1 || team.PendingApprovals != 1 {
		t.Errorf("manager team = %+v", team)
	}

	admin, err := svc.Summary(ctx, adminCaller)
	if err != nil {
		t.Fatalf("admin Summary: %v", err)
	}
	if admin.Team.Headcount != 4 || admin.Team.CheckedIn != 2 {
		t.Errorf("admin team = %+v", admin.Team)
	}
}
