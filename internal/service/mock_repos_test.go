package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/model"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/repository"
	pkgerrors "github.com/rahultripathi17/TimeDesk-sub001/pkg/errors"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/workday"
)

// ── test fixtures ──

type testRepos struct {
	profiles    *mockProfileRepo
	departments *mockDepartmentRepo
	attendance  *mockAttendanceRepo
	leaves      *mockLeaveRepo
	limits      *mockLeaveLimitRepo
	settings    *mockSettingRepo
	offices     *mockOfficeLocationRepo
}

func newTestRepository() (*repository.Repository, *testRepos) {
	depts := newMockDepartmentRepo()
	profiles := newMockProfileRepo(depts)
	m := &testRepos{
		profiles:    profiles,
		departments: depts,
		attendance:  newMockAttendanceRepo(profiles),
		leaves:      newMockLeaveRepo(profiles),
		limits:      newMockLeaveLimitRepo(),
		settings:    newMockSettingRepo(),
		offices:     newMockOfficeLocationRepo(),
	}
	repo := &repository.Repository{
		Profile:        m.profiles,
		Department:     m.departments,
		Attendance:     m.attendance,
		Leave:          m.leaves,
		LeaveLimit:     m.limits,
		SystemSetting:  m.settings,
		OfficeLocation: m.offices,
	}
	return repo, m
}

func date(s string) time.Time {
	d, err := workday.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// clock returns a fixed now() at the given UTC instant.
func clock(rfc3339 string) func() time.Time {
	t, err := time.Parse(time.RFC3339, rfc3339)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

// ── Mock DepartmentRepository ──

type mockDepartmentRepo struct {
	departments map[string]*model.Department
	members     map[string]int64
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{
		departments: map[string]*model.Department{
			"dept-eng": {
				DepartmentID:     "dept-eng",
				Name:             "Engineering",
				WorkStartTime:    "09:00",
				WorkEndTime:      "18:00",
				LateGraceMinutes: 15,
				HalfDayHours:     4,
				WorkDays:         model.IntArray{1, 2, 3, 4, 5},
				IsActive:         true,
				VersionedModel:   model.VersionedModel{Version: 1},
			},
		},
		members: make(map[string]int64),
	}
}

func (m *mockDepartmentRepo) Create(_ context.Context, dept *model.Department) error {
	for _, d := range m.departments {
		if d.Name == dept.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if dept.DepartmentID == "" {
		dept.DepartmentID = "dept-" + strings.ToLower(dept.Name)
	}
	dept.Version = 1
	cp := *dept
	m.departments[dept.DepartmentID] = &cp
	return nil
}

func (m *mockDepartmentRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.departments[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) GetByName(_ context.Context, name string) (*model.Department, error) {
	for _, d := range m.departments {
		if d.Name == name {
			cp := *d
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) list(activeOnly bool) []model.Department {
	var result []model.Department
	for _, d := range m.departments {
		if activeOnly && !d.IsActive {
			continue
		}
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func (m *mockDepartmentRepo) List(_ context.Context) ([]model.Department, error) {
	return m.list(true), nil
}

func (m *mockDepartmentRepo) ListAll(_ context.Context) ([]model.Department, error) {
	return m.list(false), nil
}

func (m *mockDepartmentRepo) Update(_ context.Context, dept *model.Department) error {
	stored, ok := m.departments[dept.DepartmentID]
	if !ok || stored.Version != dept.Version {
		return pkgerrors.ErrOptimisticLock
	}
	dept.Version++
	cp := *dept
	m.departments[dept.DepartmentID] = &cp
	return nil
}

func (m *mockDepartmentRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.departments, id)
	return nil
}

func (m *mockDepartmentRepo) CountMembers(_ context.Context, departmentID string) (int64, error) {
	return m.members[departmentID], nil
}

func (m *mockDepartmentRepo) BatchCountMembers(_ context.Context, ids []string) (map[string]int64, error) {
	result := make(map[string]int64, len(ids))
	for _, id := range ids {
		if n := m.members[id]; n > 0 {
			result[id] = n
		}
	}
	return result, nil
}

// ── Mock ProfileRepository ──

type mockProfileRepo struct {
	profiles map[string]*model.Profile
	depts    *mockDepartmentRepo
}

func newMockProfileRepo(depts *mockDepartmentRepo) *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]*model.Profile), depts: depts}
}

// add stores a profile directly, bypassing uniqueness checks.
func (m *mockProfileRepo) add(p *model.Profile) *model.Profile {
	if p.Version == 0 {
		p.Version = 1
	}
	m.profiles[p.ProfileID] = p
	return p
}

// hydrate returns a copy with the department attached, as Preload would.
func (m *mockProfileRepo) hydrate(p *model.Profile) *model.Profile {
	cp := *p
	cp.Department = nil
	if p.DepartmentID != nil {
		if d, ok := m.depts.departments[*p.DepartmentID]; ok {
			dc := *d
			cp.Department = &dc
		}
	}
	return &cp
}

func (m *mockProfileRepo) Create(_ context.Context, p *model.Profile) error {
	for _, existing := range m.profiles {
		if strings.EqualFold(existing.Email, p.Email) || existing.EmployeeCode == p.EmployeeCode {
			return gorm.ErrDuplicatedKey
		}
	}
	if p.ProfileID == "" {
		p.ProfileID = "profile-" + p.EmployeeCode
	}
	p.Version = 1
	cp := *p
	m.profiles[p.ProfileID] = &cp
	return nil
}

func (m *mockProfileRepo) GetByID(_ context.Context, id string) (*model.Profile, error) {
	if p, ok := m.profiles[id]; ok {
		return m.hydrate(p), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) GetByEmail(_ context.Context, email string) (*model.Profile, error) {
	for _, p := range m.profiles {
		if strings.EqualFold(p.Email, email) {
			return m.hydrate(p), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) GetByEmployeeCode(_ context.Context, code string) (*model.Profile, error) {
	for _, p := range m.profiles {
		if p.EmployeeCode == code {
			return m.hydrate(p), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) Update(_ context.Context, p *model.Profile) error {
	stored, ok := m.profiles[p.ProfileID]
	if !ok || stored.Version != p.Version {
		return pkgerrors.ErrOptimisticLock
	}
	p.Version++
	cp := *p
	cp.Department = nil
	m.profiles[p.ProfileID] = &cp
	return nil
}

func (m *mockProfileRepo) UpdatePassword(_ context.Context, id, hash string, mustChange bool) error {
	p, ok := m.profiles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.PasswordHash = hash
	p.MustChangePassword = mustChange
	return nil
}

func (m *mockProfileRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.profiles, id)
	return nil
}

func (m *mockProfileRepo) matching(filter repository.ProfileFilter) []model.Profile {
	var result []model.Profile
	for _, p := range m.profiles {
		if filter.DepartmentID != "" && p.DeptID() != filter.DepartmentID {
			continue
		}
		if filter.Role != "" && p.Role != filter.Role {
			continue
		}
		if filter.IsActive != nil && p.IsActive != *filter.IsActive {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(p.FullName), strings.ToLower(filter.Keyword)) {
			continue
		}
		result = append(result, *m.hydrate(p))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FullName < result[j].FullName })
	return result
}

func (m *mockProfileRepo) List(_ context.Context, filter repository.ProfileFilter, offset, limit int) ([]model.Profile, int64, error) {
	all := m.matching(filter)
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Profile{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockProfileRepo) ListActive(_ context.Context, departmentID string) ([]model.Profile, error) {
	active := true
	return m.matching(repository.ProfileFilter{DepartmentID: departmentID, IsActive: &active}), nil
}

func (m *mockProfileRepo) CountActive(ctx context.Context, departmentID string) (int64, error) {
	profiles, _ := m.ListActive(ctx, departmentID)
	return int64(len(profiles)), nil
}

func (m *mockProfileRepo) deptOf(profileID string) string {
	if p, ok := m.profiles[profileID]; ok {
		return p.DeptID()
	}
	return ""
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	rows     map[string]*model.Attendance
	profiles *mockProfileRepo
	seq      int
}

func newMockAttendanceRepo(profiles *mockProfileRepo) *mockAttendanceRepo {
	return &mockAttendanceRepo{rows: make(map[string]*model.Attendance), profiles: profiles}
}

func (m *mockAttendanceRepo) Create(_ context.Context, a *model.Attendance) error {
	for _, r := range m.rows {
		if r.ProfileID == a.ProfileID && r.WorkDate.Equal(a.WorkDate) {
			return gorm.ErrDuplicatedKey
		}
	}
	if a.AttendanceID == "" {
		m.seq++
		a.AttendanceID = fmt.Sprintf("att-%d", m.seq)
	}
	cp := *a
	m.rows[a.AttendanceID] = &cp
	return nil
}

func (m *mockAttendanceRepo) GetByID(_ context.Context, id string) (*model.Attendance, error) {
	if r, ok := m.rows[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) GetByProfileDate(_ context.Context, profileID string, d time.Time) (*model.Attendance, error) {
	for _, r := range m.rows {
		if r.ProfileID == profileID && workday.FormatDate(r.WorkDate) == workday.FormatDate(d) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) Update(_ context.Context, a *model.Attendance) error {
	cp := *a
	cp.Profile = nil
	m.rows[a.AttendanceID] = &cp
	return nil
}

func (m *mockAttendanceRepo) Delete(_ context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

func (m *mockAttendanceRepo) matching(profileIDs []string, deptID, status string, from, to *time.Time) []model.Attendance {
	ids := make(map[string]bool, len(profileIDs))
	for _, id := range profileIDs {
		ids[id] = true
	}
	var result []model.Attendance
	for _, r := range m.rows {
		if len(ids) > 0 && !ids[r.ProfileID] {
			continue
		}
		if deptID != "" && m.profiles.deptOf(r.ProfileID) != deptID {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		if from != nil && r.WorkDate.Before(*from) {
			continue
		}
		if to != nil && r.WorkDate.After(*to) {
			continue
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WorkDate.After(result[j].WorkDate) })
	return result
}

func (m *mockAttendanceRepo) ListByProfile(_ context.Context, profileID string, from, to time.Time) ([]model.Attendance, error) {
	return m.matching([]string{profileID}, "", "", &from, &to), nil
}

func (m *mockAttendanceRepo) List(_ context.Context, f repository.AttendanceFilter, offset, limit int) ([]model.Attendance, int64, error) {
	var ids []string
	if f.ProfileID != "" {
		ids = []string{f.ProfileID}
	}
	all := m.matching(ids, f.DepartmentID, f.Status, f.From, f.To)
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Attendance{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockAttendanceRepo) ListRange(_ context.Context, profileIDs []string, from, to time.Time) ([]model.Attendance, error) {
	if len(profileIDs) == 0 {
		return nil, nil
	}
	return m.matching(profileIDs, "", "", &from, &to), nil
}

func (m *mockAttendanceRepo) CountByStatus(_ context.Context, d time.Time, deptID string) (map[string]int64, error) {
	result := make(map[string]int64)
	for _, r := range m.matching(nil, deptID, "", &d, &d) {
		result[r.Status]++
	}
	return result, nil
}

// ── Mock LeaveRepository ──

type mockLeaveRepo struct {
	leaves   map[string]*model.Leave
	profiles *mockProfileRepo
	seq      int
}

func newMockLeaveRepo(profiles *mockProfileRepo) *mockLeaveRepo {
	return &mockLeaveRepo{leaves: make(map[string]*model.Leave), profiles: profiles}
}

// add stores a leave directly.
func (m *mockLeaveRepo) add(l *model.Leave) *model.Leave {
	if l.LeaveID == "" {
		m.seq++
		l.LeaveID = fmt.Sprintf("leave-%d", m.seq)
	}
	if l.Version == 0 {
		l.Version = 1
	}
	m.leaves[l.LeaveID] = l
	return l
}

func (m *mockLeaveRepo) hydrate(l *model.Leave) model.Leave {
	cp := *l
	if p, ok := m.profiles.profiles[l.ProfileID]; ok {
		cp.Profile = m.profiles.hydrate(p)
	}
	return cp
}

func (m *mockLeaveRepo) Create(_ context.Context, l *model.Leave) error {
	m.seq++
	l.LeaveID = fmt.Sprintf("leave-%d", m.seq)
	l.Version = 1
	cp := *l
	m.leaves[l.LeaveID] = &cp
	return nil
}

func (m *mockLeaveRepo) GetByID(_ context.Context, id string) (*model.Leave, error) {
	if l, ok := m.leaves[id]; ok {
		cp := m.hydrate(l)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaveRepo) Update(_ context.Context, l *model.Leave) error {
	stored, ok := m.leaves[l.LeaveID]
	if !ok || stored.Version != l.Version {
		return pkgerrors.ErrOptimisticLock
	}
	l.Version++
	cp := *l
	cp.Profile, cp.Approver = nil, nil
	m.leaves[l.LeaveID] = &cp
	return nil
}

func (m *mockLeaveRepo) filter(f repository.LeaveFilter) []model.Leave {
	var result []model.Leave
	for _, l := range m.leaves {
		if f.ProfileID != "" && l.ProfileID != f.ProfileID {
			continue
		}
		if f.DepartmentID != "" && m.profiles.deptOf(l.ProfileID) != f.DepartmentID {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if f.LeaveType != "" && l.LeaveType != f.LeaveType {
			continue
		}
		if f.From != nil && l.EndDate.Before(*f.From) {
			continue
		}
		if f.To != nil && l.StartDate.After(*f.To) {
			continue
		}
		result = append(result, m.hydrate(l))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result
}

func (m *mockLeaveRepo) List(_ context.Context, f repository.LeaveFilter, offset, limit int) ([]model.Leave, int64, error) {
	all := m.filter(f)
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Leave{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockLeaveRepo) FindOverlapping(_ context.Context, profileID string, start, end time.Time) ([]model.Leave, error) {
	var result []model.Leave
	for _, l := range m.filter(repository.LeaveFilter{ProfileID: profileID, From: &start, To: &end}) {
		if l.Status == model.LeavePending || l.Status == model.LeaveApproved {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *mockLeaveRepo) ListRange(_ context.Context, q repository.LeaveRangeQuery) ([]model.Leave, error) {
	ids := make(map[string]bool, len(q.ProfileIDs))
	for _, id := range q.ProfileIDs {
		ids[id] = true
	}
	statuses := make(map[string]bool, len(q.Statuses))
	for _, s := range q.Statuses {
		statuses[s] = true
	}

	var result []model.Leave
	for _, l := range m.filter(repository.LeaveFilter{DepartmentID: q.DepartmentID, From: &q.From, To: &q.To}) {
		if len(ids) > 0 && !ids[l.ProfileID] {
			continue
		}
		if len(statuses) > 0 && !statuses[l.Status] {
			continue
		}
		result = append(result, l)
	}
	return result, nil
}

func (m *mockLeaveRepo) CountPending(_ context.Context, f repository.LeaveFilter) (int64, error) {
	f.Status = model.LeavePending
	return int64(len(m.filter(f))), nil
}

// ── Mock LeaveLimitRepository ──

type mockLeaveLimitRepo struct {
	limits map[string]*model.DepartmentLeaveLimit
}

func newMockLeaveLimitRepo() *mockLeaveLimitRepo {
	return &mockLeaveLimitRepo{limits: make(map[string]*model.DepartmentLeaveLimit)}
}

func (m *mockLeaveLimitRepo) ListByDepartment(_ context.Context, departmentID string) ([]model.DepartmentLeaveLimit, error) {
	var result []model.DepartmentLeaveLimit
	for _, l := range m.limits {
		if l.DepartmentID == departmentID {
			result = append(result, *l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LeaveType < result[j].LeaveType })
	return result, nil
}

func (m *mockLeaveLimitRepo) Get(_ context.Context, departmentID, leaveType string) (*model.DepartmentLeaveLimit, error) {
	for _, l := range m.limits {
		if l.DepartmentID == departmentID && l.LeaveType == leaveType {
			cp := *l
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaveLimitRepo) GetByID(_ context.Context, id string) (*model.DepartmentLeaveLimit, error) {
	if l, ok := m.limits[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaveLimitRepo) Upsert(ctx context.Context, limit *model.DepartmentLeaveLimit) error {
	if existing, err := m.Get(ctx, limit.DepartmentID, limit.LeaveType); err == nil {
		limit.LimitID = existing.LimitID
	} else {
		limit.LimitID = "limit-" + limit.DepartmentID + "-" + limit.LeaveType
	}
	limit.UpdatedAt = time.Now()
	cp := *limit
	m.limits[limit.LimitID] = &cp
	return nil
}

func (m *mockLeaveLimitRepo) Delete(_ context.Context, id string) error {
	delete(m.limits, id)
	return nil
}

// ── Mock SystemSettingRepository ──

type mockSettingRepo struct {
	settings map[string]*model.SystemSetting
}

func newMockSettingRepo() *mockSettingRepo {
	return &mockSettingRepo{settings: make(map[string]*model.SystemSetting)}
}

func (m *mockSettingRepo) set(key, value string) {
	m.settings[key] = &model.SystemSetting{Key: key, Value: value}
}

func (m *mockSettingRepo) List(_ context.Context) ([]model.SystemSetting, error) {
	var result []model.SystemSetting
	for _, s := range m.settings {
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockSettingRepo) Get(_ context.Context, key string) (*model.SystemSetting, error) {
	if s, ok := m.settings[key]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSettingRepo) Upsert(_ context.Context, s *model.SystemSetting) error {
	cp := *s
	m.settings[s.Key] = &cp
	return nil
}

// ── Mock OfficeLocationRepository ──

type mockOfficeLocationRepo struct {
	locations map[string]*model.OfficeLocation
}

func newMockOfficeLocationRepo() *mockOfficeLocationRepo {
	return &mockOfficeLocationRepo{locations: make(map[string]*model.OfficeLocation)}
}

func (m *mockOfficeLocationRepo) Create(_ context.Context, loc *model.OfficeLocation) error {
	if loc.LocationID == "" {
		loc.LocationID = "office-" + strings.ToLower(strings.ReplaceAll(loc.Name, " ", "-"))
	}
	cp := *loc
	m.locations[loc.LocationID] = &cp
	return nil
}

func (m *mockOfficeLocationRepo) GetByID(_ context.Context, id string) (*model.OfficeLocation, error) {
	if l, ok := m.locations[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOfficeLocationRepo) List(_ context.Context, includeInactive bool) ([]model.OfficeLocation, error) {
	var result []model.OfficeLocation
	for _, l := range m.locations {
		if !includeInactive && !l.IsActive {
			continue
		}
		result = append(result, *l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockOfficeLocationRepo) Update(_ context.Context, loc *model.OfficeLocation) error {
	cp := *loc
	m.locations[loc.LocationID] = &cp
	return nil
}

func (m *mockOfficeLocationRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.locations, id)
	return nil
}

// ── Mock Cache / TokenBlacklist ──

type mockCache struct {
	data map[string][]byte
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (c *mockCache) GetJSON(_ context.Context, key string, dst interface{}) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *mockCache) SetJSON(_ context.Context, key string, v interface{}, _ time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *mockCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *mockCache) DeletePrefix(_ context.Context, prefix string) error {
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

type mockBlacklist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{revoked: make(map[string]bool)}
}

func (b *mockBlacklist) BlacklistToken(_ context.Context, jti string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = true
	return nil
}

func (b *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revoked[jti], nil
}

func (b *mockBlacklist) ClaimToken(_ context.Context, jti string, _ time.Duration) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.revoked[jti] {
		return false, nil
	}
	b.revoked[jti] = true
	return true, nil
}
