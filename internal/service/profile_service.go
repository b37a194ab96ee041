package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/dto"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/model"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/repository"
	pkgerrors "github.com/rahultripathi17/TimeDesk-sub001/pkg/errors"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/workday"
)

// ── profile errors ──

var (
	ErrEmailExists        = errors.New("email is already registered")
	ErrEmployeeCodeExists = errors.New("employee code is already in use")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrNoPermission       = errors.New("permission denied")
	ErrProfileSelfDelete  = errors.New("cannot delete your own profile")
	ErrProfileSelfRole    = errors.New("cannot change your own role")
	ErrInvalidSchedule    = errors.New("invalid work schedule")
	ErrInvalidDate        = errors.New("date must be YYYY-MM-DD")
	ErrManagerNeedsDept   = errors.New("a manager must belong to a department")
	ErrFieldNotEditable   = errors.New("only full_name, phone and avatar_url can be changed on your own profile")
)

const tempPasswordLength = 10

// ProfileService employee profiles
type ProfileService interface {
	Create(ctx context.Context, req *dto.CreateProfileRequest, caller Caller) (*dto.CreateProfileResponse, error)
	Get(ctx context.Context, id string, caller Caller) (*dto.ProfileDetailResponse, error)
	List(ctx context.Context, req *dto.ProfileListRequest, caller Caller) ([]dto.ProfileResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateProfileRequest, caller Caller) (*dto.ProfileDetailResponse, error)
	UpdateSchedule(ctx context.Context, id string, req *dto.UpdateScheduleRequest, caller Caller) (*dto.ProfileDetailResponse, error)
	Delete(ctx context.Context, id string, caller Caller) error
	AssignRole(ctx context.Context, id string, req *dto.AssignRoleRequest, caller Caller) error
	ResetPassword(ctx context.Context, id string, caller Caller) (*dto.ResetPasswordResponse, error)
	ParseImportFile(reader io.Reader) ([]ImportProfileRow, error)
	Import(ctx context.Context, rows []ImportProfileRow, caller Caller) (*dto.ImportProfilesResponse, error)
}

// ImportProfileRow one parsed spreadsheet row
type ImportProfileRow struct {
	Row            int
	FullName       string
	Email          string
	EmployeeCode   string
	DepartmentName string
	Designation    string
}

type profileService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(repo *repository.Repository, logger *zap.Logger) ProfileService {
	return &profileService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *profileService) Create(ctx context.Context, req *dto.CreateProfileRequest, caller Caller) (*dto.CreateProfileResponse, error) {
	if !caller.IsAdmin() {
		return nil, ErrNoPermission
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	code := strings.TrimSpace(req.EmployeeCode)
	if err := s.checkUnique(ctx, email, code, ""); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleEmployee
	}

	var deptID *string
	if req.DepartmentID != "" {
		if err := s.requireDepartment(ctx, req.DepartmentID); err != nil {
			return nil, err
		}
		deptID = strPtr(req.DepartmentID)
	} else if role == model.RoleManager {
		return nil, ErrManagerNeedsDept
	}

	joinedOn, err := parseOptionalDate(req.JoinedOn)
	if err != nil {
		return nil, err
	}

	tempPassword, err := generateTempPassword(tempPasswordLength)
	if err != nil {
		s.logger.Error("generate temporary password failed", zap.Error(err))
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	profile := &model.Profile{
		FullName:           strings.TrimSpace(req.FullName),
		Email:              email,
		EmployeeCode:       code,
		PasswordHash:       string(hash),
		Role:               role,
		DepartmentID:       deptID,
		Phone:              req.Phone,
		Designation:        req.Designation,
		JoinedOn:           joinedOn,
		IsActive:           true,
		MustChangePassword: true,
	}
	profile.CreatedBy = &caller.ProfileID
	profile.UpdatedBy = &caller.ProfileID

	if err := s.repo.Profile.Create(ctx, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a race with a concurrent create; report which column collided
			if uerr := s.checkUnique(ctx, email, code, ""); uerr != nil {
				return nil, uerr
			}
			return nil, ErrEmailExists
		}
		s.logger.Error("create profile failed", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.Profile.GetByID(ctx, profile.ProfileID)
	if err != nil {
		return nil, err
	}

	return &dto.CreateProfileResponse{
		Profile:           *toProfileDetail(created),
		TemporaryPassword: tempPassword,
	}, nil
}

// ────────────────────── Get ──────────────────────

func (s *profileService) Get(ctx context.Context, id string, caller Caller) (*dto.ProfileDetailResponse, error) {
	profile, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if id != caller.ProfileID && !caller.CanManage(profile.DeptID()) {
		return nil, ErrNoPermission
	}
	return toProfileDetail(profile), nil
}

// ────────────────────── List ──────────────────────

func (s *profileService) List(ctx context.Context, req *dto.ProfileListRequest, caller Caller) ([]dto.ProfileResponse, int64, error) {
	filter := repository.ProfileFilter{
		DepartmentID: req.DepartmentID,
		Role:         req.Role,
		Keyword:      req.Keyword,
		IsActive:     req.IsActive,
	}

	switch {
	case caller.IsAdmin():
	case caller.IsManager():
		// managers only see their own department
		filter.DepartmentID = caller.DepartmentID
	default:
		return nil, 0, ErrNoPermission
	}

	profiles, total, err := s.repo.Profile.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list profiles failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		result = append(result, *toProfileResponse(&profiles[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *profileService) Update(ctx context.Context, id string, req *dto.UpdateProfileRequest, caller Caller) (*dto.ProfileDetailResponse, error) {
	profile, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() {
		if caller.ProfileID != id {
			return nil, ErrNoPermission
		}
		if req.Designation != nil || req.DepartmentID != nil || req.JoinedOn != nil || req.IsActive != nil {
			return nil, ErrFieldNotEditable
		}
	}

	if req.FullName != nil {
		profile.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}
	if req.Designation != nil {
		profile.Designation = *req.Designation
	}
	if req.DepartmentID != nil {
		if err := s.requireDepartment(ctx, *req.DepartmentID); err != nil {
			return nil, err
		}
		profile.DepartmentID = strPtr(*req.DepartmentID)
	}
	if req.JoinedOn != nil {
		joinedOn, err := parseOptionalDate(*req.JoinedOn)
		if err != nil {
			return nil, err
		}
		profile.JoinedOn = joinedOn
	}
	if req.IsActive != nil {
		if !*req.IsActive && id == caller.ProfileID {
			return nil, ErrProfileSelfDelete
		}
		profile.IsActive = *req.IsActive
	}

	return s.save(ctx, profile, caller)
}

// ────────────────────── UpdateSchedule ──────────────────────

func (s *profileService) UpdateSchedule(ctx context.Context, id string, req *dto.UpdateScheduleRequest, caller Caller) (*dto.ProfileDetailResponse, error) {
	profile, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanManage(profile.DeptID()) {
		return nil, ErrNoPermission
	}

	if req.ResetToDepartment {
		profile.WorkStartTime = nil
		profile.WorkEndTime = nil
		profile.WorkDays = nil
	} else {
		if req.WorkStartTime != nil {
			profile.WorkStartTime = emptyToNil(*req.WorkStartTime)
		}
		if req.WorkEndTime != nil {
			profile.WorkEndTime = emptyToNil(*req.WorkEndTime)
		}
		if req.WorkDays != nil {
			profile.WorkDays = model.IntArray(req.WorkDays)
			if len(req.WorkDays) == 0 {
				profile.WorkDays = nil
			}
		}
	}

	// the merged schedule must be coherent, not only the overridden fields
	if err := profile.EffectiveSchedule(profile.Department).Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	return s.save(ctx, profile, caller)
}

// ────────────────────── Delete ──────────────────────

func (s *profileService) Delete(ctx context.Context, id string, caller Caller) error {
	if !caller.IsAdmin() {
		return ErrNoPermission
	}
	if id == caller.ProfileID {
		return ErrProfileSelfDelete
	}
	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Profile.Delete(ctx, id, caller.ProfileID); err != nil {
		s.logger.Error("delete profile failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── AssignRole ──────────────────────

func (s *profileService) AssignRole(ctx context.Context, id string, req *dto.AssignRoleRequest, caller Caller) error {
	if !caller.IsAdmin() {
		return ErrNoPermission
	}
	if id == caller.ProfileID {
		return ErrProfileSelfRole
	}

	profile, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if req.Role == model.RoleManager && profile.DepartmentID == nil {
		return ErrManagerNeedsDept
	}

	profile.Role = req.Role
	_, err = s.save(ctx, profile, caller)
	return err
}

// ────────────────────── ResetPassword ──────────────────────

func (s *profileService) ResetPassword(ctx context.Context, id string, caller Caller) (*dto.ResetPasswordResponse, error) {
	if !caller.IsAdmin() {
		return nil, ErrNoPermission
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}

	tempPassword, err := generateTempPassword(tempPasswordLength)
	if err != nil {
		s.logger.Error("generate temporary password failed", zap.Error(err))
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	if err := s.repo.Profile.UpdatePassword(ctx, id, string(hash), true); err != nil {
		s.logger.Error("reset password failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return &dto.ResetPasswordResponse{TemporaryPassword: tempPassword}, nil
}

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 1000

var (
	ErrImportNoData      = errors.New("spreadsheet has no data rows (row 1 is the header)")
	ErrImportTooManyRows = fmt.Errorf("spreadsheet exceeds %d data rows", maxImportRows)
	ErrImportBadHeader   = errors.New("header must contain name, email, employee_code and department columns")
	ErrImportBadFile     = errors.New("file is not a readable .xlsx workbook")
)

// ParseImportFile reads the first sheet of an .xlsx upload. Columns are found by header name.
func (s *profileService) ParseImportFile(reader io.Reader) ([]ImportProfileRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportBadFile, err)
	}
	defer f.Close()

	excelRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportBadFile, err)
	}
	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	col := parseHeaderIndex(excelRows[0])
	if col["name"] < 0 || col["email"] < 0 || col["employee_code"] < 0 || col["department"] < 0 {
		return nil, ErrImportBadHeader
	}

	cell := func(row []string, key string) string {
		if idx := col[key]; idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []ImportProfileRow
	for i := 1; i < len(excelRows); i++ {
		item := ImportProfileRow{
			Row:            i + 1,
			FullName:       cell(excelRows[i], "name"),
			Email:          cell(excelRows[i], "email"),
			EmployeeCode:   cell(excelRows[i], "employee_code"),
			DepartmentName: cell(excelRows[i], "department"),
			Designation:    cell(excelRows[i], "designation"),
		}
		if item.FullName == "" && item.Email == "" && item.EmployeeCode == "" && item.DepartmentName == "" {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

// parseHeaderIndex maps known column names to their index, -1 when absent.
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"name":          -1,
		"email":         -1,
		"employee_code": -1,
		"department":    -1,
		"designation":   -1,
	}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "name", "full name", "full_name":
			idx["name"] = i
		case "email", "e-mail":
			idx["email"] = i
		case "employee_code", "employee code", "code", "emp code":
			idx["employee_code"] = i
		case "department", "dept":
			idx["department"] = i
		case "designation", "title":
			idx["designation"] = i
		}
	}
	return idx
}

// ────────────────────── Import ──────────────────────

// Import validates every row first and writes nothing if any row fails.
// Valid files are inserted in one transaction.
func (s *profileService) Import(ctx context.Context, rows []ImportProfileRow, caller Caller) (*dto.ImportProfilesResponse, error) {
	if !caller.IsAdmin() {
		return nil, ErrNoPermission
	}
	resp := &dto.ImportProfilesResponse{
		Total:   len(rows),
		Created: []dto.ImportedProfile{},
		Errors:  []dto.ImportRowError{},
	}

	deptMap, err := s.buildDepartmentMap(ctx)
	if err != nil {
		s.logger.Error("load departments failed", zap.Error(err))
		return nil, err
	}

	// phase one: validation only
	type validatedRow struct {
		row  ImportProfileRow
		dept *model.Department
	}
	var valid []validatedRow
	seenEmail := make(map[string]int)
	seenCode := make(map[string]int)

	fail := func(row int, format string, args ...interface{}) {
		resp.Errors = append(resp.Errors, dto.ImportRowError{Row: row, Message: fmt.Sprintf(format, args...)})
	}

	for _, row := range rows {
		if row.FullName == "" || row.Email == "" || row.EmployeeCode == "" || row.DepartmentName == "" {
			fail(row.Row, "name, email, employee_code and department are required")
			continue
		}
		email := strings.ToLower(row.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			fail(row.Row, "invalid email: %s", row.Email)
			continue
		}
		dept, ok := deptMap[strings.ToLower(row.DepartmentName)]
		if !ok {
			fail(row.Row, "department not found: %s", row.DepartmentName)
			continue
		}
		if first, dup := seenEmail[email]; dup {
			fail(row.Row, "email repeated from row %d", first)
			continue
		}
		if first, dup := seenCode[row.EmployeeCode]; dup {
			fail(row.Row, "employee code repeated from row %d", first)
			continue
		}
		if err := s.checkUnique(ctx, email, row.EmployeeCode, ""); err != nil {
			if errors.Is(err, ErrEmailExists) || errors.Is(err, ErrEmployeeCodeExists) {
				fail(row.Row, "%s", err.Error())
				continue
			}
			return nil, err
		}

		seenEmail[email] = row.Row
		seenCode[row.EmployeeCode] = row.Row
		row.Email = email
		valid = append(valid, validatedRow{row: row, dept: dept})
	}

	if len(resp.Errors) > 0 {
		return resp, nil
	}

	// phase two: insert everything or nothing
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("begin transaction failed", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	for _, vr := range valid {
		tempPassword, err := generateTempPassword(tempPasswordLength)
		if err == nil {
			var hash []byte
			hash, err = bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
			if err == nil {
				profile := &model.Profile{
					FullName:           vr.row.FullName,
					Email:              vr.row.Email,
					EmployeeCode:       vr.row.EmployeeCode,
					PasswordHash:       string(hash),
					Role:               model.RoleEmployee,
					DepartmentID:       strPtr(vr.dept.DepartmentID),
					Designation:        vr.row.Designation,
					IsActive:           true,
					MustChangePassword: true,
				}
				profile.CreatedBy = &caller.ProfileID
				profile.UpdatedBy = &caller.ProfileID

				if err = txRepo.Profile.Create(ctx, profile); err == nil {
					resp.Created = append(resp.Created, dto.ImportedProfile{
						ID:                profile.ProfileID,
						Email:             profile.Email,
						EmployeeCode:      profile.EmployeeCode,
						TemporaryPassword: tempPassword,
					})
				}
			}
		}
		if err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("import row failed, transaction rolled back", zap.Int("row", vr.row.Row), zap.Error(err))
			return nil, fmt.Errorf("row %d could not be written, nothing was imported: %w", vr.row.Row, err)
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("commit transaction failed", zap.Error(err))
			return nil, err
		}
	}

	resp.Imported = len(resp.Created)
	return resp, nil
}

// ── helpers ──

func (s *profileService) load(ctx context.Context, id string) (*model.Profile, error) {
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

func (s *profileService) save(ctx context.Context, profile *model.Profile, caller Caller) (*dto.ProfileDetailResponse, error) {
	profile.UpdatedBy = &caller.ProfileID
	if err := s.repo.Profile.Update(ctx, profile); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("update profile failed", zap.String("id", profile.ProfileID), zap.Error(err))
		}
		return nil, err
	}

	updated, err := s.repo.Profile.GetByID(ctx, profile.ProfileID)
	if err != nil {
		return nil, err
	}
	return toProfileDetail(updated), nil
}

// checkUnique reports ErrEmailExists or ErrEmployeeCodeExists, ignoring selfID.
func (s *profileService) checkUnique(ctx context.Context, email, code, selfID string) error {
	if existing, err := s.repo.Profile.GetByEmail(ctx, email); err == nil {
		if existing.ProfileID != selfID {
			return ErrEmailExists
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup email failed", zap.Error(err))
		return err
	}

	if existing, err := s.repo.Profile.GetByEmployeeCode(ctx, code); err == nil {
		if existing.ProfileID != selfID {
			return ErrEmployeeCodeExists
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup employee code failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *profileService) requireDepartment(ctx context.Context, id string) error {
	if _, err := s.repo.Department.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		s.logger.Error("load department failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// buildDepartmentMap lower-cased department name to department.
func (s *profileService) buildDepartmentMap(ctx context.Context) (map[string]*model.Department, error) {
	departments, err := s.repo.Department.List(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]*model.Department, len(departments))
	for i := range departments {
		m[strings.ToLower(departments[i].Name)] = &departments[i]
	}
	return m, nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := workday.ParseDate(s)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &d, nil
}

func emptyToNil(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strPtr(strings.TrimSpace(s))
}

// generateTempPassword random password with at least one letter and one digit.
func generateTempPassword(length int) (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	const all = letters + digits

	if length < 8 {
		length = 8
	}

	pick := func(set string) (byte, error) {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
		if err != nil {
			return 0, err
		}
		return set[n.Int64()], nil
	}

	result := make([]byte, length)
	var err error
	if result[0], err = pick(letters); err != nil {
		return "", err
	}
	if result[1], err = pick(digits); err != nil {
		return "", err
	}
	for i := 2; i < length; i++ {
		if result[i], err = pick(all); err != nil {
			return "", err
		}
	}

	// Fisher-Yates
	for i := length - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		result[i], result[j.Int64()] = result[j.Int64()], result[i]
	}

	return string(result), nil
}

// ── conversions ──

func toDepartmentBrief(d *model.Department) *dto.DepartmentBrief {
	if d == nil {
		return nil
	}
	return &dto.DepartmentBrief{ID: d.DepartmentID, Name: d.Name}
}

func toProfileResponse(p *model.Profile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		ID:                 p.ProfileID,
		FullName:           p.FullName,
		Email:              p.Email,
		EmployeeCode:       p.EmployeeCode,
		Role:               p.Role,
		Designation:        p.Designation,
		Department:         toDepartmentBrief(p.Department),
		IsActive:           p.IsActive,
		MustChangePassword: p.MustChangePassword,
	}
}

func toProfileDetail(p *model.Profile) *dto.ProfileDetailResponse {
	resp := &dto.ProfileDetailResponse{
		ProfileResponse:     *toProfileResponse(p),
		Phone:               p.Phone,
		AvatarURL:           p.AvatarURL,
		Schedule:            p.EffectiveSchedule(p.Department),
		HasScheduleOverride: p.WorkStartTime != nil || p.WorkEndTime != nil || len(p.WorkDays) > 0,
		Version:             p.Version,
		CreatedAt:           formatTime(p.CreatedAt),
	}
	if p.JoinedOn != nil {
		resp.JoinedOn = workday.FormatDate(*p.JoinedOn)
	}
	return resp
}
