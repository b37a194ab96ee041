package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rahultripathi17/TimeDesk-sub001/config"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/dto"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/service"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	refreshGot    string
	logoutErr     error
	logoutJTI     string
	logoutRefresh string
	meResult      *dto.ProfileDetailResponse
	meErr         error
	changePassErr error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, token string) (*dto.TokenResponse, error) {
	m.refreshGot = token
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, jti string, _ time.Time, refresh string) error {
	m.logoutJTI, m.logoutRefresh = jti, refresh
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ string) (*dto.ProfileDetailResponse, error) {
	return m.meResult, m.meErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock LeaveService ──

type mockLeaveService struct {
	result    *dto.LeaveResponse
	list      []dto.LeaveResponse
	total     int64
	balance   *dto.LeaveBalanceResponse
	calendar  []byte
	err       error
	gotCaller service.Caller
	gotID     string
}

func (m *mockLeaveService) Create(_ context.Context, _ string, _ *dto.CreateLeaveRequest) (*dto.LeaveResponse, error) {
	return m.result, m.err
}
func (m *mockLeaveService) Get(_ context.Context, caller service.Caller, id string) (*dto.LeaveResponse, error) {
	m.gotCaller, m.gotID = caller, id
	return m.result, m.err
}
func (m *mockLeaveService) ListMine(_ context.Context, _ string, _ *dto.LeaveMineRequest) ([]dto.LeaveResponse, int64, error) {
	return m.list, m.total, m.err
}
func (m *mockLeaveService) List(_ context.Context, caller service.Caller, _ *dto.LeaveListRequest) ([]dto.LeaveResponse, int64, error) {
	m.gotCaller = caller
	return m.list, m.total, m.err
}
func (m *mockLeaveService) Cancel(_ context.Context, caller service.Caller, id string) (*dto.LeaveResponse, error) {
	m.gotCaller, m.gotID = caller, id
	return m.result, m.err
}
func (m *mockLeaveService) Approve(_ context.Context, caller service.Caller, id string, _ *dto.DecideLeaveRequest) (*dto.LeaveResponse, error) {
	m.gotCaller, m.gotID = caller, id
	return m.result, m.err
}
func (m *mockLeaveService) Reject(_ context.Context, caller service.Caller, id string, _ *dto.DecideLeaveRequest) (*dto.LeaveResponse, error) {
	m.gotCaller, m.gotID = caller, id
	return m.result, m.err
}
func (m *mockLeaveService) Balance(_ context.Context, _ service.Caller, _ *dto.LeaveBalanceRequest) (*dto.LeaveBalanceResponse, error) {
	return m.balance, m.err
}
func (m *mockLeaveService) Calendar(_ context.Context, _ service.Caller, _ *dto.LeaveCalendarRequest) ([]byte, error) {
	return m.calendar, m.err
}
func (m *mockLeaveService) Upcoming(_ context.Context, _ string, _ int) ([]dto.LeaveResponse, error) {
	return m.list, m.err
}

// ── Mock AttendanceService ──

type mockAttendanceService struct {
	result *dto.AttendanceResponse
	today  *dto.TodayResponse
	list   []dto.AttendanceResponse
	total  int64
	err    error
	gotReq *dto.CheckInRequest
}

func (m *mockAttendanceService) CheckIn(_ context.Context, _ string, req *dto.CheckInRequest) (*dto.AttendanceResponse, error) {
	m.gotReq = req
	return m.result, m.err
}
func (m *mockAttendanceService) CheckOut(_ context.Context, _ string, _ *dto.CheckOutRequest) (*dto.AttendanceResponse, error) {
	return m.result, m.err
}
func (m *mockAttendanceService) Today(_ context.Context, _ string) (*dto.TodayResponse, error) {
	return m.today, m.err
}
func (m *mockAttendanceService) ListMine(_ context.Context, _ string, _ *dto.AttendanceMineRequest) ([]dto.AttendanceResponse, error) {
	return m.list, m.err
}
func (m *mockAttendanceService) List(_ context.Context, _ service.Caller, _ *dto.AttendanceListRequest) ([]dto.AttendanceResponse, int64, error) {
	return m.list, m.total, m.err
}
func (m *mockAttendanceService) Upsert(_ context.Context, _ service.Caller, _ *dto.UpsertAttendanceRequest) (*dto.AttendanceResponse, error) {
	return m.result, m.err
}
func (m *mockAttendanceService) Delete(_ context.Context, _ string) error {
	return m.err
}

// ── Mock ProfileService ──

type mockProfileService struct {
	rows      []service.ImportProfileRow
	parseErr  error
	importRes *dto.ImportProfilesResponse
	err       error
}

func (m *mockProfileService) Create(_ context.Context, _ *dto.CreateProfileRequest, _ service.Caller) (*dto.CreateProfileResponse, error) {
	return nil, m.err
}
func (m *mockProfileService) Get(_ context.Context, _ string, _ service.Caller) (*dto.ProfileDetailResponse, error) {
	return nil, m.err
}
func (m *mockProfileService) List(_ context.Context, _ *dto.ProfileListRequest, _ service.Caller) ([]dto.ProfileResponse, int64, error) {
	return nil, 0, m.err
}
func (m *mockProfileService) Update(_ context.Context, _ string, _ *dto.UpdateProfileRequest, _ service.Caller) (*dto.ProfileDetailResponse, error) {
	return nil, m.err
}
func (m *mockProfileService) UpdateSchedule(_ context.Context, _ string, _ *dto.UpdateScheduleRequest, _ service.Caller) (*dto.ProfileDetailResponse, error) {
	return nil, m.err
}
func (m *mockProfileService) Delete(_ context.Context, _ string, _ service.Caller) error {
	return m.err
}
func (m *mockProfileService) AssignRole(_ context.Context, _ string, _ *dto.AssignRoleRequest, _ service.Caller) error {
	return m.err
}
func (m *mockProfileService) ResetPassword(_ context.Context, _ string, _ service.Caller) (*dto.ResetPasswordResponse, error) {
	return nil, m.err
}
func (m *mockProfileService) ParseImportFile(_ io.Reader) ([]service.ImportProfileRow, error) {
	return m.rows, m.parseErr
}
func (m *mockProfileService) Import(_ context.Context, _ []service.ImportProfileRow, _ service.Caller) (*dto.ImportProfilesResponse, error) {
	return m.importRes, m.err
}

// ── Mock ReportService ──

type mockReportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockReportService) Analytics(_ context.Context, _ service.Caller, _ *dto.AnalyticsRequest) (*dto.AnalyticsResponse, error) {
	return &dto.AnalyticsResponse{}, m.err
}
func (m *mockReportService) Compliance(_ context.Context, _ service.Caller, _ *dto.ComplianceRequest) (*dto.ComplianceResponse, error) {
	return &dto.ComplianceResponse{}, m.err
}
func (m *mockReportService) LeaveSummary(_ context.Context, _ service.Caller, _ *dto.LeaveSummaryRequest) (*dto.LeaveSummaryResponse, error) {
	return &dto.LeaveSummaryResponse{}, m.err
}
func (m *mockReportService) ExportAnalytics(_ context.Context, _ service.Caller, _ *dto.AnalyticsRequest) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context) {
	c.Set(CtxProfileID, "test-profile-id")
	c.Set(CtxRole, "manager")
	c.Set(CtxDepartmentID, "test-dept-id")
	c.Set(CtxTokenJTI, "test-jti")
	c.Set(CtxTokenExp, time.Now().Add(15*time.Minute))
}

func withAuth(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		setAuth(c)
		h(c)
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_SetsCookieByRememberMe(t *testing.T) {
	cfg := &config.AuthConfig{RefreshTokenTTLDefault: 24 * time.Hour, RefreshTokenTTLRemember: 720 * time.Hour}

	tests := []struct {
		name     string
		remember bool
		maxAge   int
	}{
		{"session", false, 86400},
		{"remember me", true, 720 * 3600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockAuthService{loginResult: &dto.TokenResponse{
				AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900,
			}}
			h := NewAuthHandler(mock, cfg)

			r := gin.New()
			r.POST("/auth/login", h.Login)
			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
				Email: "jane@example.com", Password: "Password@123", RememberMe: tt.remember,
			}))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			cookie := findCookie(w, "refresh_token")
			if cookie == nil {
				t.Fatal("expected refresh_token cookie")
			}
			if cookie.Value != "refresh" || !cookie.HttpOnly || cookie.Path != "/api/v1/auth" {
				t.Errorf("unexpected cookie %+v", cookie)
			}
			if cookie.MaxAge != tt.maxAge {
				t.Errorf("MaxAge=%d, want %d", cookie.MaxAge, tt.maxAge)
			}
		})
	}
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		err        error
		wantStatus int
		wantCode   int
	}{
		{"bad email", map[string]string{"email": "nope", "password": "x"}, nil, http.StatusBadRequest, 10001},
		{"invalid credentials", dto.LoginRequest{Email: "a@b.co", Password: "x"}, service.ErrInvalidCredentials, http.StatusUnauthorized, 11001},
		{"disabled", dto.LoginRequest{Email: "a@b.co", Password: "x"}, service.ErrAccountDisabled, http.StatusForbidden, 11002},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthService{loginErr: tt.err}, nil)
			r := gin.New()
			r.POST("/auth/login", h.Login)
			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/auth/login", jsonBody(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestAuthHandler_Refresh_PrefersCookie(t *testing.T) {
	mock := &mockAuthService{refreshResult: &dto.TokenResponse{AccessToken: "a2", RefreshToken: "r2"}}
	h := NewAuthHandler(mock, nil)
	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/refresh", jsonBody(dto.RefreshTokenRequest{RefreshToken: "from-body"}))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "from-cookie"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.refreshGot != "from-cookie" {
		t.Errorf("expected cookie token, got %q", mock.refreshGot)
	}
	if c := findCookie(w, "refresh_token"); c == nil || c.Value != "r2" {
		t.Errorf("expected rotated cookie r2, got %+v", c)
	}
}

func TestAuthHandler_Refresh_MissingToken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)
	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/auth/refresh", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Refresh_InvalidClearsCookie(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{refreshErr: service.ErrInvalidRefreshToken}, nil)
	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "reused"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11003 {
		t.Errorf("expected code 11003, got %d", resp.Code)
	}
	if c := findCookie(w, "refresh_token"); c == nil || c.MaxAge >= 0 {
		t.Errorf("expected cookie to be cleared, got %+v", c)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock, nil)
	r := gin.New()
	r.POST("/auth/logout", withAuth(h.Logout))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "rt"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.logoutJTI != "test-jti" || mock.logoutRefresh != "rt" {
		t.Errorf("logout got jti=%q refresh=%q", mock.logoutJTI, mock.logoutRefresh)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)
	r := gin.New()
	r.GET("/auth/me", h.GetCurrentUser)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/auth/me", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10002 {
		t.Errorf("expected code 10002, got %d", resp.Code)
	}
}

func TestAuthHandler_ChangePassword_Wrong(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{changePassErr: service.ErrWrongPassword}, nil)
	r := gin.New()
	r.PUT("/auth/password", withAuth(h.ChangePassword))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/auth/password", jsonBody(dto.ChangePasswordRequest{
		OldPassword: "old", NewPassword: "NewPassword@1",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11004 {
		t.Errorf("expected code 11004, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// LeaveHandler Tests
// ═══════════════════════════════════════════════════════════

func postLeave(t *testing.T, mock *mockLeaveService) *httptest.ResponseRecorder {
	t.Helper()
	h := NewLeaveHandler(mock)
	r := gin.New()
	r.POST("/leaves", withAuth(h.CreateLeave))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/leaves", jsonBody(dto.CreateLeaveRequest{
		LeaveType: "annual", StartDate: "2026-03-16", EndDate: "2026-03-20",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestLeaveHandler_Create(t *testing.T) {
	w := postLeave(t, &mockLeaveService{result: &dto.LeaveResponse{ID: "l1", Days: 5, Status: "pending"}})
	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestLeaveHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"limit exceeded", fmt.Errorf("%w: %d day(s) remaining", service.ErrLeaveLimitExceeded, 2), http.StatusBadRequest, 18003},
		{"overlap", service.ErrLeaveOverlap, http.StatusConflict, 18002},
		{"no working days", service.ErrLeaveNoWorkingDays, http.StatusBadRequest, 18004},
		{"crosses year", service.ErrLeaveCrossesYear, http.StatusBadRequest, 18005},
		{"unexpected", io.ErrUnexpectedEOF, http.StatusInternalServerError, 50000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postLeave(t, &mockLeaveService{err: tt.err})
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestLeaveHandler_Create_LimitDetails(t *testing.T) {
	w := postLeave(t, &mockLeaveService{err: fmt.Errorf("%w: %d day(s) remaining", service.ErrLeaveLimitExceeded, 2)})
	resp := parseResponse(w)
	if !strings.Contains(resp.Details, "2 day(s) remaining") {
		t.Errorf("expected remaining days in details, got %q", resp.Details)
	}
}

func TestLeaveHandler_Create_InvalidType(t *testing.T) {
	h := NewLeaveHandler(&mockLeaveService{})
	r := gin.New()
	r.POST("/leaves", withAuth(h.CreateLeave))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/leaves", jsonBody(map[string]string{
		"leave_type": "vacation", "start_date": "2026-03-16", "end_date": "2026-03-16",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestLeaveHandler_Approve_PassesCaller(t *testing.T) {
	mock := &mockLeaveService{result: &dto.LeaveResponse{ID: "l1", Status: "approved"}}
	h := NewLeaveHandler(mock)
	r := gin.New()
	r.POST("/leaves/:id/approve", withAuth(h.ApproveLeave))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/leaves/l1/approve", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	want := service.Caller{ProfileID: "test-profile-id", Role: "manager", DepartmentID: "test-dept-id"}
	if mock.gotCaller != want || mock.gotID != "l1" {
		t.Errorf("got caller %+v id %q", mock.gotCaller, mock.gotID)
	}
}

func TestLeaveHandler_Reject_NotPending(t *testing.T) {
	h := NewLeaveHandler(&mockLeaveService{err: service.ErrLeaveNotPending})
	r := gin.New()
	r.POST("/leaves/:id/reject", withAuth(h.RejectLeave))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/leaves/l1/reject", jsonBody(dto.DecideLeaveRequest{Note: "no cover"}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestLeaveHandler_ListLeaves_Paginated(t *testing.T) {
	mock := &mockLeaveService{list: []dto.LeaveResponse{{ID: "l1"}, {ID: "l2"}}, total: 45}
	h := NewLeaveHandler(mock)
	r := gin.New()
	r.GET("/leaves", withAuth(h.ListLeaves))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/leaves?page=2&page_size=20&status=pending", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Data response.PageData `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Pagination.Total != 45 || body.Data.Pagination.TotalPages != 3 || body.Data.Pagination.Page != 2 {
		t.Errorf("unexpected pagination %+v", body.Data.Pagination)
	}
}

func TestLeaveHandler_Calendar(t *testing.T) {
	feed := []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")
	h := NewLeaveHandler(&mockLeaveService{calendar: feed})
	r := gin.New()
	r.GET("/leaves/calendar.ics", withAuth(h.Calendar))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/leaves/calendar.ics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("unexpected content type %q", ct)
	}
	if !bytes.Equal(w.Body.Bytes(), feed) {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

// ═══════════════════════════════════════════════════════════
// AttendanceHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAttendanceHandler_CheckIn_EmptyBody(t *testing.T) {
	mock := &mockAttendanceService{result: &dto.AttendanceResponse{ID: "a1", Status: "present"}}
	h := NewAttendanceHandler(mock)
	r := gin.New()
	r.POST("/attendance/check-in", withAuth(h.CheckIn))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/attendance/check-in", nil))

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if mock.gotReq == nil || mock.gotReq.Latitude != nil {
		t.Errorf("expected empty request, got %+v", mock.gotReq)
	}
}

func TestAttendanceHandler_CheckIn_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"already", service.ErrAlreadyCheckedIn, http.StatusConflict, 17002},
		{"on leave", service.ErrOnLeaveToday, http.StatusBadRequest, 17003},
		{"weekend", service.ErrNonWorkingDay, http.StatusBadRequest, 17004},
		{"no location", service.ErrLocationRequired, http.StatusBadRequest, 17005},
		{"outside", service.ErrOutsideGeofence, http.StatusForbidden, 17006},
		{"bad code", service.ErrInvalidCheckinCode, http.StatusBadRequest, 17007},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAttendanceHandler(&mockAttendanceService{err: tt.err})
			r := gin.New()
			r.POST("/attendance/check-in", withAuth(h.CheckIn))
			w := httptest.NewRecorder()
			lat, lng := 12.97, 77.59
			req := httptest.NewRequest("POST", "/attendance/check-in", jsonBody(dto.CheckInRequest{Latitude: &lat, Longitude: &lng}))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestAttendanceHandler_CheckIn_BadLatitude(t *testing.T) {
	h := NewAttendanceHandler(&mockAttendanceService{})
	r := gin.New()
	r.POST("/attendance/check-in", withAuth(h.CheckIn))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/attendance/check-in", jsonBody(map[string]float64{"latitude": 91, "longitude": 0}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAttendanceHandler_CheckOut_NotCheckedIn(t *testing.T) {
	h := NewAttendanceHandler(&mockAttendanceService{err: service.ErrNotCheckedIn})
	r := gin.New()
	r.POST("/attendance/check-out", withAuth(h.CheckOut))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/attendance/check-out", nil))

	if resp := parseResponse(w); w.Code != http.StatusBadRequest || resp.Code != 17008 {
		t.Errorf("expected 400/17008, got %d/%d", w.Code, resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ProfileHandler Import Tests
// ═══════════════════════════════════════════════════════════

func multipartUpload(t *testing.T, filename string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("PK fake workbook"))
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func postImport(t *testing.T, mock *mockProfileService, filename string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewProfileHandler(mock, 0)
	r := gin.New()
	r.POST("/profiles/import", withAuth(h.ImportProfiles))
	body, ct := multipartUpload(t, filename)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/profiles/import", body)
	req.Header.Set("Content-Type", ct)
	r.ServeHTTP(w, req)
	return w
}

func TestProfileHandler_Import_RejectsWithRowErrors(t *testing.T) {
	mock := &mockProfileService{
		rows: []service.ImportProfileRow{{Row: 2}},
		importRes: &dto.ImportProfilesResponse{
			Total:  1,
			Errors: []dto.ImportRowError{{Row: 2, Message: "email is already registered"}},
		},
	}
	w := postImport(t, mock, "people.xlsx")

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 12011 {
		t.Errorf("expected code 12011, got %d", resp.Code)
	}
}

func TestProfileHandler_Import_Created(t *testing.T) {
	mock := &mockProfileService{
		rows:      []service.ImportProfileRow{{Row: 2}},
		importRes: &dto.ImportProfilesResponse{Total: 1, Imported: 1},
	}
	if w := postImport(t, mock, "people.XLSX"); w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestProfileHandler_Import_WrongExtension(t *testing.T) {
	w := postImport(t, &mockProfileService{}, "people.csv")
	if resp := parseResponse(w); w.Code != http.StatusBadRequest || resp.Code != 12010 {
		t.Errorf("expected 400/12010, got %d/%d", w.Code, resp.Code)
	}
}

func TestProfileHandler_Import_BadHeader(t *testing.T) {
	w := postImport(t, &mockProfileService{parseErr: service.ErrImportBadHeader}, "people.xlsx")
	if resp := parseResponse(w); w.Code != http.StatusBadRequest || resp.Code != 12010 {
		t.Errorf("expected 400/12010, got %d/%d", w.Code, resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ReportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestReportHandler_ExportAnalytics(t *testing.T) {
	mock := &mockReportService{buf: bytes.NewBufferString("xlsx-bytes"), filename: "attendance_2026-03.xlsx"}
	h := NewReportHandler(mock)
	r := gin.New()
	r.GET("/reports/analytics/export", withAuth(h.ExportAnalytics))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/reports/analytics/export?month=2026-03", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attendance_2026-03.xlsx") {
		t.Errorf("unexpected disposition %q", cd)
	}
	if w.Body.String() != "xlsx-bytes" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestReportHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"missing month", "/reports/analytics", nil, http.StatusBadRequest, 10001},
		{"bad month", "/reports/analytics?month=March", service.ErrInvalidMonth, http.StatusBadRequest, 19001},
		{"employee", "/reports/analytics?month=2026-03", service.ErrNoPermission, http.StatusForbidden, 10003},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewReportHandler(&mockReportService{err: tt.err})
			r := gin.New()
			r.GET("/reports/analytics", withAuth(h.Analytics))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}
