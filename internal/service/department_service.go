package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/dto"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/model"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/repository"
	pkgerrors "github.com/rahultripathi17/TimeDesk-sub001/pkg/errors"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/workday"
)

// ── department errors ──

var (
	ErrDepartmentNameExists = errors.New("department name already exists")
	ErrDepartmentHasMembers = errors.New("department still has members")
)

// DepartmentService departments and their work policy
type DepartmentService interface {
	Create(ctx context.Context, req *dto.CreateDepartmentRequest, callerID string) (*dto.DepartmentDetailResponse, error)
	GetByID(ctx context.Context, id string) (*dto.DepartmentDetailResponse, error)
	List(ctx context.Context, req *dto.DepartmentListRequest) ([]dto.DepartmentDetailResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateDepartmentRequest, callerID string) (*dto.DepartmentDetailResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type departmentService struct {
	repo   *repository.Repository
	cache  Cache
	logger *zap.Logger
}

// NewDepartmentService creates a DepartmentService.
func NewDepartmentService(repo *repository.Repository, cache Cache, logger *zap.Logger) DepartmentService {
	return &departmentService{repo: repo, cache: cache, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *departmentService) Create(ctx context.Context, req *dto.CreateDepartmentRequest, callerID string) (*dto.DepartmentDetailResponse, error) {
	name := strings.TrimSpace(req.Name)
	existing, err := s.repo.Department.GetByName(ctx, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("load department failed", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrDepartmentNameExists
	}

	def := model.DefaultSchedule()
	dept := &model.Department{
		Name:             name,
		Description:      req.Description,
		WorkStartTime:    def.Start,
		WorkEndTime:      def.End,
		LateGraceMinutes: def.GraceMinutes,
		HalfDayHours:     def.HalfDayHours,
		WorkDays:         model.IntArray(def.Days),
		IsActive:         true,
	}
	if req.WorkStartTime != "" {
		dept.WorkStartTime = req.WorkStartTime
	}
	if req.WorkEndTime != "" {
		dept.WorkEndTime = req.WorkEndTime
	}
	if req.LateGraceMinutes != nil {
		dept.LateGraceMinutes = *req.LateGraceMinutes
	}
	if req.HalfDayHours != nil {
		dept.HalfDayHours = *req.HalfDayHours
	}
	if len(req.WorkDays) > 0 {
		dept.WorkDays = model.IntArray(req.WorkDays)
	}
	if err := validatePolicy(dept); err != nil {
		return nil, err
	}

	dept.CreatedBy = &callerID
	dept.UpdatedBy = &callerID

	if err := s.repo.Department.Create(ctx, dept); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDepartmentNameExists
		}
		s.logger.Error("create department failed", zap.Error(err))
		return nil, err
	}

	return s.toDepartmentDetailResponse(ctx, dept), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *departmentService) GetByID(ctx context.Context, id string) (*dto.DepartmentDetailResponse, error) {
	dept, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toDepartmentDetailResponse(ctx, dept), nil
}

// ────────────────────── List ──────────────────────

func (s *departmentService) List(ctx context.Context, req *dto.DepartmentListRequest) ([]dto.DepartmentDetailResponse, error) {
	var depts []model.Department
	var err error

	if req.IncludeInactive {
		depts, err = s.repo.Department.ListAll(ctx)
	} else {
		depts, err = s.repo.Department.List(ctx)
	}
	if err != nil {
		s.logger.Error("list departments failed", zap.Error(err))
		return nil, err
	}

	// one grouped count instead of a query per department
	deptIDs := make([]string, 0, len(depts))
	for _, d := range depts {
		deptIDs = append(deptIDs, d.DepartmentID)
	}
	countMap, err := s.repo.Department.BatchCountMembers(ctx, deptIDs)
	if err != nil {
		s.logger.Error("count department members failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.DepartmentDetailResponse, 0, len(depts))
	for i := range depts {
		resp := toDepartmentDetail(&depts[i])
		resp.MemberCount = countMap[depts[i].DepartmentID]
		result = append(result, *resp)
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *departmentService) Update(ctx context.Context, id string, req *dto.UpdateDepartmentRequest, callerID string) (*dto.DepartmentDetailResponse, error) {
	dept, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != dept.Name {
			existing, err := s.repo.Department.GetByName(ctx, name)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Error("load department failed", zap.Error(err))
				return nil, err
			}
			if existing != nil && existing.DepartmentID != id {
				return nil, ErrDepartmentNameExists
			}
			dept.Name = name
		}
	}
	if req.Description != nil {
		dept.Description = *req.Description
	}
	if req.WorkStartTime != nil {
		dept.WorkStartTime = *req.WorkStartTime
	}
	if req.WorkEndTime != nil {
		dept.WorkEndTime = *req.WorkEndTime
	}
	if req.LateGraceMinutes != nil {
		dept.LateGraceMinutes = *req.LateGraceMinutes
	}
	if req.HalfDayHours != nil {
		dept.HalfDayHours = *req.HalfDayHours
	}
	if req.WorkDays != nil {
		dept.WorkDays = model.IntArray(req.WorkDays)
	}
	if req.IsActive != nil {
		dept.IsActive = *req.IsActive
	}
	if err := validatePolicy(dept); err != nil {
		return nil, err
	}

	dept.UpdatedBy = &callerID

	if err := s.repo.Department.Update(ctx, dept); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDepartmentNameExists
		}
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("update department failed", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	invalidateReports(ctx, s.cache, s.logger)
	return s.toDepartmentDetailResponse(ctx, dept), nil
}

// ────────────────────── Delete ──────────────────────

func (s *departmentService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.Department.CountMembers(ctx, id)
	if err != nil {
		s.logger.Error("count department members failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrDepartmentHasMembers
	}

	if err := s.repo.Department.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("delete department failed", zap.String("id", id), zap.Error(err))
		return err
	}

	invalidateReports(ctx, s.cache, s.logger)
	return nil
}

// ── helpers ──

func (s *departmentService) load(ctx context.Context, id string) (*model.Department, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("load department failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return dept, nil
}

func validatePolicy(dept *model.Department) error {
	if err := dept.Schedule().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	startMin, _ := workday.ParseClock(dept.WorkStartTime)
	endMin, _ := workday.ParseClock(dept.WorkEndTime)
	if dept.HalfDayHours*60 > float64(endMin-startMin) {
		return fmt.Errorf("%w: half_day_hours exceeds the working day", ErrInvalidSchedule)
	}
	return nil
}

func (s *departmentService) toDepartmentDetailResponse(ctx context.Context, dept *model.Department) *dto.DepartmentDetailResponse {
	resp := toDepartmentDetail(dept)
	count, err := s.repo.Department.CountMembers(ctx, dept.DepartmentID)
	if err != nil {
		s.logger.Warn("count department members failed", zap.String("id", dept.DepartmentID), zap.Error(err))
	}
	resp.MemberCount = count
	return resp
}

func toDepartmentDetail(dept *model.Department) *dto.DepartmentDetailResponse {
	days := []int(dept.WorkDays)
	if days == nil {
		days = []int{}
	}
	return &dto.DepartmentDetailResponse{
		ID:               dept.DepartmentID,
		Name:             dept.Name,
		Description:      dept.Description,
		WorkStartTime:    dept.WorkStartTime,
		WorkEndTime:      dept.WorkEndTime,
		LateGraceMinutes: dept.LateGraceMinutes,
		HalfDayHours:     dept.HalfDayHours,
		WorkDays:         days,
		IsActive:         dept.IsActive,
		CreatedAt:        formatTime(dept.CreatedAt),
		UpdatedAt:        formatTime(dept.UpdatedAt),
	}
}
