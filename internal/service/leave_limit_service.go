package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/dto"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/model"
	"github.com/rahultripathi17/TimeDesk-sub001/internal/repository"
)

// ── leave limit errors ──

var (
	ErrLeaveLimitNotFound = errors.New("leave limit not found")
	ErrInvalidLeaveType   = errors.New("invalid leave type")
)

// LeaveLimitService department leave quotas
type LeaveLimitService interface {
	List(ctx context.Context, departmentID string) ([]dto.LeaveLimitResponse, error)
	Upsert(ctx context.Context, departmentID, leaveType string, req *dto.UpsertLeaveLimitRequest, callerID string) (*dto.LeaveLimitResponse, error)
	BulkUpsert(ctx context.Context, departmentID string, req *dto.BulkUpsertLeaveLimitsRequest, callerID string) ([]dto.LeaveLimitResponse, error)
	Delete(ctx context.Context, id string) error

	// LimitFor returns the effective annual quota; model.UnlimitedLeave means no cap.
	LimitFor(ctx context.Context, departmentID, leaveType string) (int, error)
	// Limits returns the effective quota of every leave type.
	Limits(ctx context.Context, departmentID string) (map[string]int, error)
}

type leaveLimitService struct {
	repo   *repository.Repository
	cache  Cache
	logger *zap.Logger
}

// NewLeaveLimitService creates a LeaveLimitService.
func NewLeaveLimitService(repo *repository.Repository, cache Cache, logger *zap.Logger) LeaveLimitService {
	return &leaveLimitService{repo: repo, cache: cache, logger: logger}
}

func (s *leaveLimitService) List(ctx context.Context, departmentID string) ([]dto.LeaveLimitResponse, error) {
	if err := s.requireDepartment(ctx, departmentID); err != nil {
		return nil, err
	}

	configured, err := s.repo.LeaveLimit.ListByDepartment(ctx, departmentID)
	if err != nil {
		s.logger.Error("list leave limits failed", zap.String("department_id", departmentID), zap.Error(err))
		return nil, err
	}
	byType := make(map[string]*model.DepartmentLeaveLimit, len(configured))
	for i := range configured {
		byType[configured[i].LeaveType] = &configured[i]
	}

	result := make([]dto.LeaveLimitResponse, 0, len(model.LeaveTypes))
	for _, t := range model.LeaveTypes {
		if l, ok := byType[t]; ok {
			result = append(result, toLeaveLimitResponse(l))
			continue
		}
		result = append(result, dto.LeaveLimitResponse{
			DepartmentID: departmentID,
			LeaveType:    t,
			AnnualLimit:  model.DefaultLeaveLimits[t],
		})
	}
	return result, nil
}

func (s *leaveLimitService) Upsert(ctx context.Context, departmentID, leaveType string, req *dto.UpsertLeaveLimitRequest, callerID string) (*dto.LeaveLimitResponse, error) {
	if !model.ValidLeaveType(leaveType) {
		return nil, ErrInvalidLeaveType
	}
	if err := s.requireDepartment(ctx, departmentID); err != nil {
		return nil, err
	}

	limit := &model.DepartmentLeaveLimit{
		DepartmentID: departmentID,
		LeaveType:    leaveType,
		AnnualLimit:  *req.AnnualLimit,
	}
	limit.CreatedBy = &callerID
	limit.UpdatedBy = &callerID

	if err := s.repo.LeaveLimit.Upsert(ctx, limit); err != nil {
		s.logger.Error("upsert leave limit failed",
			zap.String("department_id", departmentID), zap.String("leave_type", leaveType), zap.Error(err))
		return nil, err
	}

	invalidateReports(ctx, s.cache, s.logger)
	resp := toLeaveLimitResponse(limit)
	return &resp, nil
}

func (s *leaveLimitService) BulkUpsert(ctx context.Context, departmentID string, req *dto.BulkUpsertLeaveLimitsRequest, callerID string) ([]dto.LeaveLimitResponse, error) {
	seen := make(map[string]bool, len(req.Items))
	for _, item := range req.Items {
		if !model.ValidLeaveType(item.LeaveType) {
			return nil, ErrInvalidLeaveType
		}
		if seen[item.LeaveType] {
			return nil, fmt.Errorf("%w: %s listed twice", ErrInvalidLeaveType, item.LeaveType)
		}
		seen[item.LeaveType] = true
	}
	if err := s.requireDepartment(ctx, departmentID); err != nil {
		return nil, err
	}

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

	for _, item := range req.Items {
		limit := &model.DepartmentLeaveLimit{
			DepartmentID: departmentID,
			LeaveType:    item.LeaveType,
			AnnualLimit:  *item.AnnualLimit,
		}
		limit.CreatedBy = &callerID
		limit.UpdatedBy = &callerID
		if err := txRepo.LeaveLimit.Upsert(ctx, limit); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("bulk upsert leave limit failed",
				zap.String("department_id", departmentID), zap.String("leave_type", item.LeaveType), zap.Error(err))
			return nil, err
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("commit leave limits failed", zap.Error(err))
			return nil, err
		}
	}

	invalidateReports(ctx, s.cache, s.logger)
	return s.List(ctx, departmentID)
}

func (s *leaveLimitService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.LeaveLimit.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLeaveLimitNotFound
		}
		s.logger.Error("load leave limit failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.LeaveLimit.Delete(ctx, id); err != nil {
		s.logger.Error("delete leave limit failed", zap.String("id", id), zap.Error(err))
		return err
	}
	invalidateReports(ctx, s.cache, s.logger)
	return nil
}

// ── quota lookups ──

func (s *leaveLimitService) LimitFor(ctx context.Context, departmentID, leaveType string) (int, error) {
	if !model.ValidLeaveType(leaveType) {
		return 0, ErrInvalidLeaveType
	}
	if departmentID == "" {
		return model.DefaultLeaveLimits[leaveType], nil
	}
	limit, err := s.repo.LeaveLimit.Get(ctx, departmentID, leaveType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.DefaultLeaveLimits[leaveType], nil
		}
		return 0, err
	}
	return limit.AnnualLimit, nil
}

func (s *leaveLimitService) Limits(ctx context.Context, departmentID string) (map[string]int, error) {
	result := make(map[string]int, len(model.DefaultLeaveLimits))
	for t, v := range model.DefaultLeaveLimits {
		result[t] = v
	}
	if departmentID == "" {
		return result, nil
	}
	configured, err := s.repo.LeaveLimit.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	for _, l := range configured {
		result[l.LeaveType] = l.AnnualLimit
	}
	return result, nil
}

func (s *leaveLimitService) requireDepartment(ctx context.Context, departmentID string) error {
	if _, err := s.repo.Department.GetByID(ctx, departmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		s.logger.Error("load department failed", zap.String("department_id", departmentID), zap.Error(err))
		return err
	}
	return nil
}

func toLeaveLimitResponse(l *model.DepartmentLeaveLimit) dto.LeaveLimitResponse {
	resp := dto.LeaveLimitResponse{
		ID:           l.LimitID,
		DepartmentID: l.DepartmentID,
		LeaveType:    l.LeaveType,
		AnnualLimit:  l.AnnualLimit,
		Configured:   true,
	}
	if !l.UpdatedAt.IsZero() {
		resp.UpdatedAt = formatTime(l.UpdatedAt)
	}
	return resp
}
