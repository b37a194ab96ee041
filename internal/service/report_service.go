package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/dto"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/model"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/repository"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/workday"
)

// ── report errors ──

var (
	ErrInvalidMonth       = errors.New("month must be YYYY-MM")
	ErrExportGenerateFail = errors.New("failed to generate the Excel workbook")
)

const defaultReportCacheTTL = 5 * time.Minute

// ReportService attendance analytics, compliance scoring and leave usage.
//
// Every report is computed in memory from one pass over the profiles in scope
// and their attendance and leave rows. Managers only see their own department.
type ReportService interface {
	Analytics(ctx context.Context, caller Caller, req *dto.AnalyticsRequest) (*dto.AnalyticsResponse, error)
	Compliance(ctx context.Context, caller Caller, req *dto.ComplianceRequest) (*dto.ComplianceResponse, error)
	LeaveSummary(ctx context.Context, caller Caller, req *dto.LeaveSummaryRequest) (*dto.LeaveSummaryResponse, error)
	// ExportAnalytics renders the month's analytics and compliance as an .xlsx workbook.
	ExportAnalytics(ctx context.Context, caller Caller, req *dto.AnalyticsRequest) (*bytes.Buffer, string, error)
}

type reportService struct {
	repo     *repository.Repository
	settings SystemSettingService
	limits   LeaveLimitService
	cache    Cache
	ttl      time.Duration
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportService creates a ReportService. cache may be nil.
func NewReportService(
	repo *repository.Repository,
	settings SystemSettingService,
	limits LeaveLimitService,
	cache Cache,
	ttl time.Duration,
	loc *time.Location,
	logger *zap.Logger,
) ReportService {
	if ttl <= 0 {
		ttl = defaultReportCacheTTL
	}
	return &reportService{
		repo:     repo,
		settings: settings,
		limits:   limits,
		cache:    cache,
		ttl:      ttl,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// ────────────────────── Analytics ──────────────────────

func (s *reportService) Analytics(ctx context.Context, caller Caller, req *dto.AnalyticsRequest) (*dto.AnalyticsResponse, error) {
	deptID, err := scopeDepartment(caller, req.DepartmentID)
	if err != nil {
		return nil, err
	}
	from, to, err := workday.MonthRange(req.Month)
	if err != nil {
		return nil, ErrInvalidMonth
	}
	today := s.today()

	// keys carry today because elapsed days change the result
	key := fmt.Sprintf("%sanalytics:%s:%s:%s", reportCachePrefix, req.Month, deptID, workday.FormatDate(today))
	var cached dto.AnalyticsResponse
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	profiles, in, err := s.loadInput(ctx, deptID, from, to, today)
	if err != nil {
		return nil, err
	}
	users, totals := computeAnalytics(profiles, in)

	resp := &dto.AnalyticsResponse{
		Month:        req.Month,
		DepartmentID: deptID,
		Users:        users,
		Totals:       totals,
	}
	s.cacheSet(ctx, key, resp)
	return resp, nil
}

// ────────────────────── Compliance ──────────────────────

func (s *reportService) Compliance(ctx context.Context, caller Caller, req *dto.ComplianceRequest) (*dto.ComplianceResponse, error) {
	deptID, err := scopeDepartment(caller, req.DepartmentID)
	if err != nil {
		return nil, err
	}
	today := s.today()
	from, to, err := parseDateRange(req.From, req.To, today, today)
	if err != nil {
		return nil, err
	}
	return s.compliance(ctx, deptID, from, to, today)
}

func (s *reportService) compliance(ctx context.Context, deptID string, from, to, today time.Time) (*dto.ComplianceResponse, error) {
	threshold := s.settings.Int(ctx, model.SettingComplianceThreshold)

	key := fmt.Sprintf("%scompliance:%s:%s:%s:%d:%s", reportCachePrefix,
		workday.FormatDate(from), workday.FormatDate(to), deptID, threshold, workday.FormatDate(today))
	var cached dto.ComplianceResponse
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	profiles, in, err := s.loadInput(ctx, deptID, from, to, today)
	if err != nil {
		return nil, err
	}
	users := computeCompliance(profiles, in, threshold)

	resp := &dto.ComplianceResponse{
		From:      workday.FormatDate(from),
		To:        workday.FormatDate(to),
		Threshold: threshold,
		Users:     users,
	}
	for _, u := range users {
		if u.Flagged {
			resp.Flagged++
		}
	}
	s.cacheSet(ctx, key, resp)
	return resp, nil
}

// ────────────────────── LeaveSummary ──────────────────────

func (s *reportService) LeaveSummary(ctx context.Context, caller Caller, req *dto.LeaveSummaryRequest) (*dto.LeaveSummaryResponse, error) {
	deptID, err := scopeDepartment(caller, req.DepartmentID)
	if err != nil {
		return nil, err
	}
	asOf := s.today()
	if req.Date != "" {
		if asOf, err = workday.ParseDate(req.Date); err != nil {
			return nil, ErrInvalidDate
		}
	}
	yearStart, yearEnd := s.settings.LeaveYearReset(ctx).YearOf(asOf)

	key := fmt.Sprintf("%sleave-summary:%s:%s", reportCachePrefix, workday.FormatDate(yearStart), deptID)
	var cached dto.LeaveSummaryResponse
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	profiles, err := s.repo.Profile.ListActive(ctx, deptID)
	if err != nil {
		s.logger.Error("list profiles failed", zap.Error(err))
		return nil, err
	}
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ProfileID)
	}

	var leaves []model.Leave
	if len(ids) > 0 {
		leaves, err = s.repo.Leave.ListRange(ctx, repository.LeaveRangeQuery{
			ProfileIDs: ids,
			Statuses:   []string{model.LeavePending, model.LeaveApproved},
			From:       yearStart,
			To:         yearEnd,
		})
		if err != nil {
			s.logger.Error("list leaves failed", zap.Error(err))
			return nil, err
		}
	}
	byProfile := make(map[string][]model.Leave, len(profiles))
	for _, l := range leaves {
		byProfile[l.ProfileID] = append(byProfile[l.ProfileID], l)
	}

	limitsByDept := make(map[string]map[string]int)
	users := make([]dto.UserLeaveSummary, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		limits, ok := limitsByDept[p.DeptID()]
		if !ok {
			if limits, err = s.limits.Limits(ctx, p.DeptID()); err != nil {
				s.logger.Error("load leave limits failed", zap.String("department_id", p.DeptID()), zap.Error(err))
				return nil, err
			}
			limitsByDept[p.DeptID()] = limits
		}
		users = append(users, dto.UserLeaveSummary{
			ProfileID:    p.ProfileID,
			FullName:     p.FullName,
			EmployeeCode: p.EmployeeCode,
			Types:        buildBalances(limits, tallyLeaves(byProfile[p.ProfileID], yearStart, yearEnd, "")),
		})
	}

	resp := &dto.LeaveSummaryResponse{
		YearStart: workday.FormatDate(yearStart),
		YearEnd:   workday.FormatDate(yearEnd),
		Users:     users,
	}
	s.cacheSet(ctx, key, resp)
	return resp, nil
}

// ────────────────────── ExportAnalytics ──────────────────────

func (s *reportService) ExportAnalytics(ctx context.Context, caller Caller, req *dto.AnalyticsRequest) (*bytes.Buffer, string, error) {
	analytics, err := s.Analytics(ctx, caller, req)
	if err != nil {
		return nil, "", err
	}
	from, to, _ := workday.MonthRange(req.Month)
	compliance, err := s.compliance(ctx, analytics.DepartmentID, from, to, s.today())
	if err != nil {
		return nil, "", err
	}

	company := s.settings.String(ctx, model.SettingCompanyName)
	buf, err := buildAnalyticsWorkbook(company, analytics, compliance)
	if err != nil {
		s.logger.Error("write analytics workbook failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, fmt.Sprintf("attendance_%s.xlsx", req.Month), nil
}

// buildAnalyticsWorkbook writes one sheet per report.
func buildAnalyticsWorkbook(company string, analytics *dto.AnalyticsResponse, compliance *dto.ComplianceResponse) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const analyticsSheet, complianceSheet = "Analytics", "Compliance"
	if err := f.SetSheetName("Sheet1", analyticsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(complianceSheet); err != nil {
		return nil, err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	flagStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F8CBAD"}, Pattern: 1},
	})

	// ── analytics ──
	aHeaders := []string{"Employee", "Code", "Department", "Working days", "Present", "Late",
		"Half day", "Absent", "On leave", "Attendance %", "Avg hours"}
	writeTitle(f, analyticsSheet, fmt.Sprintf("%s attendance %s", company, analytics.Month), len(aHeaders), headerStyle)
	writeHeader(f, analyticsSheet, aHeaders, headerStyle)

	row := 3
	for _, u := range analytics.Users {
		writeRow(f, analyticsSheet, row, u.FullName, u.EmployeeCode, u.Department, u.WorkingDays,
			u.Present, u.Late, u.HalfDay, u.Absent, u.OnLeave, u.AttendanceRate, u.AvgWorkHours)
		row++
	}
	t := analytics.Totals
	writeRow(f, analyticsSheet, row, "Total", "", fmt.Sprintf("%d employees", t.Employees), t.WorkingDays,
		t.Present, t.Late, t.HalfDay, t.Absent, t.OnLeave, t.AttendanceRate, "")
	f.SetCellStyle(analyticsSheet, cell("A", row), cell(colName(len(aHeaders)-1), row), headerStyle)

	// ── compliance ──
	cHeaders := []string{"Employee", "Code", "Department", "Late arrivals", "Half days",
		"Missing check-outs", "Unexcused absences", "Score", "Flagged"}
	writeTitle(f, complianceSheet,
		fmt.Sprintf("Compliance %s to %s (threshold %d)", compliance.From, compliance.To, compliance.Threshold),
		len(cHeaders), headerStyle)
	writeHeader(f, complianceSheet, cHeaders, headerStyle)

	row = 3
	for _, u := range compliance.Users {
		flagged := "no"
		if u.Flagged {
			flagged = "yes"
		}
		writeRow(f, complianceSheet, row, u.FullName, u.EmployeeCode, u.Department, u.LateArrivals,
			u.HalfDays, u.MissingCheckouts, u.UnexcusedAbsences, u.Score, flagged)
		if u.Flagged {
			f.SetCellStyle(complianceSheet, cell("A", row), cell(colName(len(cHeaders)-1), row), flagStyle)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeTitle(f *excelize.File, sheet, title string, cols int, style int) {
	f.SetCellValue(sheet, "A1", title)
	f.MergeCell(sheet, "A1", cell(colName(cols-1), 1))
	f.SetCellStyle(sheet, "A1", "A1", style)
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) {
	for i, h := range headers {
		f.SetCellValue(sheet, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheet, "A2", cell(colName(len(headers)-1), 2), style)
	f.SetColWidth(sheet, "A", "A", 24)
	f.SetColWidth(sheet, "B", colName(len(headers)-1), 14)
}

func writeRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, v := range values {
		f.SetCellValue(sheet, cell(colName(i), row), v)
	}
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// scopeDepartment pins managers to their own department.
func scopeDepartment(caller Caller, requested string) (string, error) {
	if caller.IsAdmin() {
		return requested, nil
	}
	if !caller.IsManager() || caller.DepartmentID == "" {
		return "", ErrNoPermission
	}
	if requested != "" && requested != caller.DepartmentID {
		return "", ErrNoPermission
	}
	return caller.DepartmentID, nil
}

func (s *reportService) today() time.Time {
	return workday.DateOf(s.now(), s.loc)
}

// loadInput fetches the profiles in scope plus their attendance and approved leave in [from, to].
func (s *reportService) loadInput(ctx context.Context, deptID string, from, to, today time.Time) ([]model.Profile, *reportInput, error) {
	profiles, err := s.repo.Profile.ListActive(ctx, deptID)
	if err != nil {
		s.logger.Error("list profiles failed", zap.Error(err))
		return nil, nil, err
	}
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ProfileID)
	}
	if len(ids) == 0 {
		return profiles, newReportInput(from, to, today, nil, nil), nil
	}

	records, err := s.repo.Attendance.ListRange(ctx, ids, from, to)
	if err != nil {
		s.logger.Error("list attendance failed", zap.Error(err))
		return nil, nil, err
	}
	leaves, err := s.repo.Leave.ListRange(ctx, repository.LeaveRangeQuery{
		ProfileIDs: ids,
		Statuses:   []string{model.LeaveApproved},
		From:       from,
		To:         to,
	})
	if err != nil {
		s.logger.Error("list leaves failed", zap.Error(err))
		return nil, nil, err
	}
	return profiles, newReportInput(from, to, today, records, leaves), nil
}

func (s *reportService) cacheGet(ctx context.Context, key string, dst interface{}) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.GetJSON(ctx, key, dst)
	if err != nil {
		s.logger.Warn("read report cache failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return found
}

func (s *reportService) cacheSet(ctx context.Context, key string, v interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, v, s.ttl); err != nil {
		s.logger.Warn("write report cache failed", zap.String("key", key), zap.Error(err))
	}
}
