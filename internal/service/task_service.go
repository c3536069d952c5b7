package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arjecahn/cahn-family-assistent/internal/dto"
	"github.com/arjecahn/cahn-family-assistent/internal/model"
	"github.com/arjecahn/cahn-family-assistent/internal/repository"
)

// ── 任务模块业务错误 ──

var ErrTaskNameExists = errors.New("任务名已存在")

// TaskService 任务配置业务接口
type TaskService interface {
	Create(ctx context.Context, req *dto.CreateTaskRequest, callerID string) (*dto.TaskResponse, error)
	GetByName(ctx context.Context, name string) (*dto.TaskResponse, error)
	List(ctx context.Context) ([]dto.TaskResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTaskRequest, callerID string) (*dto.TaskResponse, error)
	Delete(ctx context.Context, id string) error
}

type taskService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTaskService 创建 TaskService 实例
func NewTaskService(repo *repository.Repository, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, logger: logger}
}

func (s *taskService) Create(ctx context.Context, req *dto.CreateTaskRequest, callerID string) (*dto.TaskResponse, error) {
	if _, err := s.repo.Task.GetByName(ctx, req.Name); err == nil {
		return nil, ErrTaskNameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询任务失败", zap.Error(err))
		return nil, err
	}

	rotation := req.RotationWeeks
	if rotation <= 0 {
		rotation = 1
	}
	task := &model.Task{
		Name:            req.Name,
		DisplayName:     req.DisplayName,
		Description:     req.Description,
		TimeOfDay:       req.TimeOfDay,
		WeeklyTarget:    req.WeeklyTarget,
		PerMemberTarget: req.PerMemberTarget,
		RotationWeeks:   rotation,
		MinSpacingDays:  req.MinSpacingDays,
		WeekdayOnly:     req.WeekdayOnly,
		ExtraSlots:      model.IntArray(req.ExtraSlots),
	}
	if callerID != "" {
		task.CreatedBy = &callerID
		task.UpdatedBy = &callerID
	}

	if err := s.repo.Task.Create(ctx, task); err != nil {
		s.logger.Error("创建任务失败", zap.Error(err))
		return nil, err
	}
	return toTaskResponse(task), nil
}

func (s *taskService) GetByName(ctx context.Context, name string) (*dto.TaskResponse, error) {
	task, err := s.repo.Task.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询任务失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	return toTaskResponse(task), nil
}

func (s *taskService) List(ctx context.Context) ([]dto.TaskResponse, error) {
	tasks, err := s.repo.Task.ListAll(ctx)
	if err != nil {
		s.logger.Error("列出任务失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		result = append(result, *toTaskResponse(&tasks[i]))
	}
	return result, nil
}

func (s *taskService) Update(ctx context.Context, id string, req *dto.UpdateTaskRequest, callerID string) (*dto.TaskResponse, error) {
	task, err := s.repo.Task.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询任务失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.DisplayName != nil {
		task.DisplayName = *req.DisplayName
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.TimeOfDay != nil {
		task.TimeOfDay = *req.TimeOfDay
	}
	if req.WeeklyTarget != nil {
		task.WeeklyTarget = *req.WeeklyTarget
	}
	if req.PerMemberTarget != nil {
		task.PerMemberTarget = *req.PerMemberTarget
	}
	if req.RotationWeeks != nil {
		task.RotationWeeks = *req.RotationWeeks
	}
	if req.MinSpacingDays != nil {
		task.MinSpacingDays = *req.MinSpacingDays
	}
	if req.WeekdayOnly != nil {
		task.WeekdayOnly = *req.WeekdayOnly
	}
	if req.ExtraSlots != nil {
		task.ExtraSlots = model.IntArray(req.ExtraSlots)
	}
	if callerID != "" {
		task.UpdatedBy = &callerID
	}

	if err := s.repo.Task.Update(ctx, task); err != nil {
		s.logger.Error("更新任务失败", zap.Error(err))
		return nil, err
	}
	return toTaskResponse(task), nil
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Task.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return s.repo.Task.Delete(ctx, id)
}

func toTaskResponse(t *model.Task) *dto.TaskResponse {
	return &dto.TaskResponse{
		ID:              t.TaskID,
		Name:            t.Name,
		DisplayName:     t.DisplayName,
		Description:     t.Description,
		TimeOfDay:       t.TimeOfDay,
		WeeklyTarget:    t.WeeklyTarget,
		PerMemberTarget: t.PerMemberTarget,
		RotationWeeks:   t.RotationWeeks,
		MinSpacingDays:  t.MinSpacingDays,
		WeekdayOnly:     t.WeekdayOnly,
		ExtraSlots:      []int(t.ExtraSlots),
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       t.UpdatedAt.Format(time.RFC3339),
	}
}

// [自证通过] internal/service/task_service.go
