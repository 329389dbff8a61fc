package recordio

import (
	"fmt"
	"strconv"
	"strings"

	"course-planner/internal/model"
	apperrors "course-planner/pkg/errors"
)

// ── 结构化日程项 ────────────────────────────────────────────
//
// 记录行以逗号分隔，事件标题或备注中的逗号会改变字段数，
// 因此会话快照与存档保存 Item（JSON），记录行只用于文本导出。
// ─────────────────────────────────────────────────────────────

// Item 日程项的结构化形式，字段逐个保存
type Item struct {
	Kind         model.ActivityKind `json:"kind"`
	Title        string             `json:"title"`
	MeetingDays  string             `json:"meeting_days"`
	StartTime    int                `json:"start_time"`
	EndTime      int                `json:"end_time"`
	Name         string             `json:"name,omitempty"`
	Section      string             `json:"section,omitempty"`
	Credits      int                `json:"credits,omitempty"`
	InstructorID string             `json:"instructor_id,omitempty"`
	EventDetails string             `json:"event_details,omitempty"`
}

// ItemOf 日程项 → Item
func ItemOf(a model.Activity) Item {
	it := Item{
		Kind:        a.Kind(),
		Title:       a.Title(),
		MeetingDays: a.MeetingDays(),
		StartTime:   a.StartTime(),
		EndTime:     a.EndTime(),
	}
	switch v := a.(type) {
	case *model.Course:
		it.Name = v.Name()
		it.Section = v.Section()
		it.Credits = v.Credits()
		it.InstructorID = v.InstructorID()
	case *model.Event:
		it.EventDetails = v.EventDetails()
	}
	return it
}

// ItemsOf 按日程顺序转换，空日程返回空切片（非 nil）
func ItemsOf(activities []model.Activity) []Item {
	items := make([]Item, len(activities))
	for i, a := range activities {
		items[i] = ItemOf(a)
	}
	return items
}

// Activity 重新构造日程项，校验规则与新建时一致
func (it Item) Activity() (model.Activity, error) {
	switch it.Kind {
	case model.KindCourse:
		c, err := model.NewCourse(it.Name, it.Title, it.Section, it.Credits, it.InstructorID, it.MeetingDays, it.StartTime, it.EndTime)
		if err != nil {
			return nil, err
		}
		return c, nil
	case model.KindEvent:
		e, err := model.NewEvent(it.Title, it.MeetingDays, it.StartTime, it.EndTime, it.EventDetails)
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, apperrors.New(apperrors.KindInvalidArgument, fmt.Sprintf("未知日程项类型 %q", it.Kind))
	}
}

// String 记录行形式，仅用于日志与失败报告
func (it Item) String() string {
	start, end := strconv.Itoa(it.StartTime), strconv.Itoa(it.EndTime)
	if it.Kind == model.KindEvent {
		return strings.Join([]string{it.Title, it.MeetingDays, start, end, it.EventDetails}, ",")
	}
	fields := []string{it.Name, it.Title, it.Section, strconv.Itoa(it.Credits), it.InstructorID, it.MeetingDays}
	if it.MeetingDays != model.ArrangedDays {
		fields = append(fields, start, end)
	}
	return strings.Join(fields, ",")
}
