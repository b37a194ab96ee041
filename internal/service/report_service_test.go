package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/dto"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/model"
)

func setupTestReportService() (ReportService, *testRepos, *mockCache) {
	repo, m := newTestRepository()
	logger := zap.NewNop()
	cache := newMockCache()
	settings := NewSystemSettingService(repo, nil, logger)
	limits := NewLeaveLimitService(repo, nil, logger)
	svc := NewReportService(repo, settings, limits, cache, time.Minute, time.UTC, logger)
	svc.(*reportService).now = clock(leaveTestNow)
	seedPeople(m)

	m.attendance.rows["a1"] = &model.Attendance{AttendanceID: "a1", ProfileID: "p-emp", WorkDate: date("2026-03-09"), Status: model.AttendanceLate, WorkMinutes: 480}
	m.attendance.rows["a2"] = &model.Attendance{AttendanceID: "a2", ProfileID: "p-ops-mgr", WorkDate: date("2026-03-09"), Status: model.AttendancePresent, WorkMinutes: 480}
	return svc, m, cache
}

func TestScopeDepartment(t *testing.T) {
	tests := []struct {
		name      string
		caller    Caller
		requested string
		want      string
		wantErr   error
	}{
		{"admin any", adminCaller, "dept-ops", "dept-ops", nil},
		{"admin all", adminCaller, "", "", nil},
		{"manager defaults to own", mgrCaller, "", "dept-eng", nil},
		{"manager other", mgrCaller, "dept-ops", "", ErrNoPermission},
		{"employee", empCaller, "", "", ErrNoPermission},
	}
	for _, tt := range tests {
		got, err := scopeDepartment(tt.caller, tt.requested)
		if !errors.Is(err, tt.wantErr) || got != tt.want {
			t.Errorf("%s: got %q, %v; want %q, %v", tt.name, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestAnalytics_ScopedAndCached(t *testing.T) {
	svc, m, cache := setupTestReportService()

	resp, err := svc.Analytics(context.Background(), mgrCaller, &dto.AnalyticsRequest{Month: "2026-03"})
	if err != nil {
		t.Fatalf("Analytics: %v", err)
	}
	if resp.DepartmentID != "dept-eng" || len(resp.Users) != 2 {
		t.Fatalf("resp = %+v, want the two Engineering profiles", resp)
	}
	if _, ok := cache.data["report:analytics:2026-03:dept-eng:2026-03-10"]; !ok {
		t.Error("result not cached")
	}

	// served from cache until something invalidates it
	delete(m.attendance.rows, "a1")
	cachedResp, err := svc.Analytics(context.Background(), mgrCaller, &dto.AnalyticsRequest{Month: "2026-03"})
	if err != nil {
		t.Fatalf("cached Analytics: %v", err)
	}
	if cachedResp.Totals.Late != resp.Totals.Late {
		t.Errorf("cached Late = %d, want %d", cachedResp.Totals.Late, resp.Totals.Late)
	}

	if _, err := svc.Analytics(context.Background(), adminCaller, &dto.AnalyticsRequest{Month: "March"}); !errors.Is(err, ErrInvalidMonth) {
		t.Errorf("bad month: err = %v, want ErrInvalidMonth", err)
	}
}

func TestCompliance_Report(t *testing.T) {
	svc, _, _ := setupTestReportService()

	resp, err := svc.Compliance(context.Background(), adminCaller, &dto.ComplianceRequest{From: "2026-03-09", To: "2026-03-09"})
	if err != nil {
		t.Fatalf("Compliance: %v", err)
	}
	if resp.Threshold != 5 {
		t.Errorf("Threshold = %d, want default 5", resp.Threshold)
	}
	// everyone without a record on Monday is absent, 3 points each
	if resp.Flagged != 0 {
		t.Errorf("Flagged = %d, want 0", resp.Flagged)
	}
	if len(resp.Users) != 4 {
		t.Fatalf("len(Users) = %d, want 4", len(resp.Users))
	}
	if resp.Users[0].Score != 3 {
		t.Errorf("top score = %d, want 3", resp.Users[0].Score)
	}

	if _, err := svc.Compliance(context.Background(), empCaller, &dto.ComplianceRequest{From: "2026-03-01", To: "2026-03-09"}); !errors.Is(err, ErrNoPermission) {
		t.Errorf("employee: err = %v, want ErrNoPermission", err)
	}
}

func TestLeaveSummary(t *testing.T) {
	svc, m, _ := setupTestReportService()
	m.limits.limits["l1"] = &model.DepartmentLeaveLimit{LimitID: "l1", DepartmentID: "dept-eng", LeaveType: model.LeaveAnnual, AnnualLimit: 20}
	seedLeave(m, "p-emp", model.LeaveAnnual, "2026-02-02", "2026-02-03", 2, model.LeaveApproved)

	resp, err := svc.LeaveSummary(context.Background(), mgrCaller, &dto.LeaveSummaryRequest{})
	if err != nil {
		t.Fatalf("LeaveSummary: %v", err)
	}
	if resp.YearStart != "2026-01-01" || len(resp.Users) != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	for _, u := range resp.Users {
		if u.ProfileID != "p-emp" {
			continue
		}
		for _, b := range u.Types {
			if b.LeaveType == model.LeaveAnnual && (b.Limit != 20 || b.Used != 2 || b.Remaining != 18) {
				t.Errorf("annual = %+v", b)
			}
		}
	}
}

func TestExportAnalytics(t *testing.T) {
	svc, _, _ := setupTestReportService()

	buf, filename, err := svc.ExportAnalytics(context.Background(), adminCaller, &dto.AnalyticsRequest{Month: "2026-03", DepartmentID: "dept-eng"})
	if err != nil {
		t.Fatalf("ExportAnalytics: %v", err)
	}
	if filename != "attendance_2026-03.xlsx" {
		t.Errorf("filename = %q", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Analytics" || sheets[1] != "Compliance" {
		t.Fatalf("sheets = %v", sheets)
	}
	title, _ := f.GetCellValue("Analytics", "A1")
	if title != "TimeDesk attendance 2026-03" {
		t.Errorf("title = %q", title)
	}
	header, _ := f.GetCellValue("Analytics", "D2")
	if header != "Working days" {
		t.Errorf("D2 = %q", header)
	}

	rows, err := f.GetRows("Analytics")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	// title, header, two employees, total
	if len(rows) != 5 {
		t.Errorf("analytics rows = %d, want 5", len(rows))
	}
	if rows[len(rows)-1][0] != "Total" {
		t.Errorf("last row = %v", rows[len(rows)-1])
	}
}
