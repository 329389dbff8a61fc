package model

import (
	"errors"
	"testing"

	apperrors "course-planner/pkg/errors"
)

func mustCourse(t *testing.T, name, title, section string, credits int, instructor, days string, start, end int) *Course {
	t.Helper()
	c, err := NewCourse(name, title, section, credits, instructor, days, start, end)
	if err != nil {
		t.Fatalf("NewCourse(%s) 失败: %v", name, err)
	}
	return c
}

func TestNewCourse_Valid(t *testing.T) {
	c := mustCourse(t, "CSC 216", "Software Development Fundamentals", "001", 3, "sesmith5", "MW", 1330, 1445)

	if c.Name() != "CSC 216" || c.Section() != "001" || c.Credits() != 3 || c.InstructorID() != "sesmith5" {
		t.Errorf("字段不符: %+v", c)
	}
	if c.Title() != "Software Development Fundamentals" {
		t.Errorf("Title 不符: %s", c.Title())
	}
	if c.MeetingDays() != "MW" || c.StartTime() != 1330 || c.EndTime() != 1445 {
		t.Errorf("时间不符: %s %d-%d", c.MeetingDays(), c.StartTime(), c.EndTime())
	}
	if c.Kind() != KindCourse {
		t.Errorf("Kind 期望 course, 实际 %s", c.Kind())
	}
}

func TestNewArrangedCourse(t *testing.T) {
	c, err := NewArrangedCourse("CSC 216", "SDF", "601", 3, "jep")
	if err != nil {
		t.Fatalf("NewArrangedCourse 失败: %v", err)
	}
	if c.MeetingDays() != "A" || c.StartTime() != 0 || c.EndTime() != 0 {
		t.Errorf("待定课程时间应为 A 0-0, 实际 %s %d-%d", c.MeetingDays(), c.StartTime(), c.EndTime())
	}
	if c.MeetingString() != "Arranged" {
		t.Errorf("MeetingString 期望 Arranged, 实际 %s", c.MeetingString())
	}
}

func TestCourseName_Validation(t *testing.T) {
	cases := []struct {
		name  string
		valid bool
	}{
		{"CSC 216", true},
		{"E 115", true},
		{"MA 141", true},
		{"HESF 101", true},
		{"CSC216", false},
		{"C 1", false},
		{"CSCII 216", false},
		{"CSC 21", false},
		{"CSC 2160", false},
		{"CSC  216", false},
		{"CS1 216", false},
		{"CSC 21A", false},
		{"", false},
		{" 216", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCourse(tc.name, "Title", "001", 3, "id", "MW", 1330, 1445)
			if tc.valid && err != nil {
				t.Errorf("期望通过, 实际错误: %v", err)
			}
			if !tc.valid && !errors.Is(err, apperrors.ErrInvalidArgument) {
				t.Errorf("期望 InvalidArgument, 实际: %v", err)
			}
		})
	}
}

func TestCourseFields_Validation(t *testing.T) {
	cases := []struct {
		desc       string
		title      string
		section    string
		credits    int
		instructor string
	}{
		{"空标题", "", "001", 3, "id"},
		{"班级号过短", "T", "01", 3, "id"},
		{"班级号过长", "T", "0001", 3, "id"},
		{"班级号含字母", "T", "0a1", 3, "id"},
		{"学分过低", "T", "001", 0, "id"},
		{"学分过高", "T", "001", 6, "id"},
		{"教师为空", "T", "001", 3, ""},
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			c, err := NewCourse("CSC 216", tc.title, tc.section, tc.credits, tc.instructor, "MW", 1330, 1445)
			if !errors.Is(err, apperrors.ErrInvalidArgument) {
				t.Errorf("期望 InvalidArgument, 实际: %v", err)
			}
			if c != nil {
				t.Error("校验失败时不应返回实例")
			}
		})
	}
}

func TestCourseMeeting_Validation(t *testing.T) {
	cases := []struct {
		days       string
		start, end int
		valid      bool
	}{
		{"MWF", 800, 850, true},
		{"TH", 0, 2359, true},
		{"A", 0, 0, true},
		{"A", 1330, 1445, false},
		{"A", 0, 1445, false},
		{"MA", 1330, 1445, false},
		{"MM", 1330, 1445, false},
		{"S", 1330, 1445, false},
		{"U", 1330, 1445, false},
		{"m", 1330, 1445, false},
		{"", 1330, 1445, false},
		{"MW", 2400, 2400, false},
		{"MW", 1360, 1445, false},
		{"MW", 1330, 1460, false},
		{"MW", -1, 1445, false},
		{"MW", 1445, 1330, false},
		{"MW", 1330, 1330, true},
	}
	for _, tc := range cases {
		_, err := NewCourse("CSC 216", "T", "001", 3, "id", tc.days, tc.start, tc.end)
		if tc.valid && err != nil {
			t.Errorf("%s %d-%d 期望通过, 实际: %v", tc.days, tc.start, tc.end, err)
		}
		if !tc.valid && !errors.Is(err, apperrors.ErrInvalidArgument) {
			t.Errorf("%s %d-%d 期望 InvalidArgument, 实际: %v", tc.days, tc.start, tc.end, err)
		}
	}
}

func TestCourse_SettersLeaveStateOnFailure(t *testing.T) {
	c := mustCourse(t, "CSC 216", "SDF", "001", 3, "sesmith5", "MW", 1330, 1445)

	if err := c.SetMeetingDaysAndTime("MX", 900, 1000); err == nil {
		t.Fatal("期望非法星期报错")
	}
	if c.MeetingDays() != "MW" || c.StartTime() != 1330 || c.EndTime() != 1445 {
		t.Error("校验失败后时间字段被修改")
	}

	if err := c.SetSection("1"); err == nil {
		t.Fatal("期望非法班级号报错")
	}
	if c.Section() != "001" {
		t.Error("校验失败后班级号被修改")
	}

	if err := c.SetCredits(9); err == nil || c.Credits() != 3 {
		t.Error("学分校验失败后应保持原值")
	}
	if err := c.SetInstructorID(""); err == nil || c.InstructorID() != "sesmith5" {
		t.Error("教师 ID 校验失败后应保持原值")
	}
	if err := c.SetTitle(""); err == nil || c.Title() != "SDF" {
		t.Error("标题校验失败后应保持原值")
	}

	if err := c.SetMeetingDaysAndTime("A", 0, 0); err != nil {
		t.Fatalf("切换为待定时间失败: %v", err)
	}
	if c.MeetingString() != "Arranged" {
		t.Errorf("期望 Arranged, 实际 %s", c.MeetingString())
	}
}

func TestCourse_MeetingString(t *testing.T) {
	cases := []struct {
		days       string
		start, end int
		want       string
	}{
		{"MW", 1330, 1445, "MW 1:30PM-2:45PM"},
		{"TH", 1100, 1215, "TH 11:00AM-12:15PM"},
		{"F", 0, 5, "F 12:00AM-12:05AM"},
		{"M", 1200, 1259, "M 12:00PM-12:59PM"},
		{"W", 905, 2359, "W 9:05AM-11:59PM"},
	}
	for _, tc := range cases {
		c := mustCourse(t, "CSC 216", "SDF", "001", 3, "id", tc.days, tc.start, tc.end)
		if got := c.MeetingString(); got != tc.want {
			t.Errorf("MeetingString 期望 %q, 实际 %q", tc.want, got)
		}
	}
}

func TestCourse_DisplayArrays(t *testing.T) {
	c := mustCourse(t, "CSC 216", "SDF", "001", 3, "sesmith5", "MW", 1330, 1445)

	short := c.ShortDisplayArray()
	wantShort := []string{"CSC 216", "001", "SDF", "MW 1:30PM-2:45PM"}
	if len(short) != ShortDisplayLen {
		t.Fatalf("短展示行长度期望 %d, 实际 %d", ShortDisplayLen, len(short))
	}
	for i := range wantShort {
		if short[i] != wantShort[i] {
			t.Errorf("short[%d] 期望 %q, 实际 %q", i, wantShort[i], short[i])
		}
	}

	long := c.LongDisplayArray()
	wantLong := []string{"CSC 216", "001", "SDF", "3", "sesmith5", "MW 1:30PM-2:45PM", ""}
	if len(long) != LongDisplayLen {
		t.Fatalf("长展示行长度期望 %d, 实际 %d", LongDisplayLen, len(long))
	}
	for i := range wantLong {
		if long[i] != wantLong[i] {
			t.Errorf("long[%d] 期望 %q, 实际 %q", i, wantLong[i], long[i])
		}
	}
}

func TestCourse_Record(t *testing.T) {
	timed := mustCourse(t, "CSC 216", "SDF", "001", 3, "sesmith5", "MW", 1330, 1445)
	if got := timed.Record(); got != "CSC 216,SDF,001,3,sesmith5,MW,1330,1445" {
		t.Errorf("定时课程记录不符: %s", got)
	}

	arranged, _ := NewArrangedCourse("CSC 216", "SDF", "601", 3, "jep")
	if got := arranged.Record(); got != "CSC 216,SDF,601,3,jep,A" {
		t.Errorf("待定课程记录不符: %s", got)
	}
}

func TestCourse_IsDuplicateAndEqual(t *testing.T) {
	a := mustCourse(t, "CSC 216", "SDF", "001", 3, "sesmith5", "MW", 1330, 1445)
	b := mustCourse(t, "CSC 216", "SDF", "002", 3, "jctetter", "TH", 830, 945)
	c := mustCourse(t, "CSC 226", "Discrete", "001", 3, "tmbarnes", "MWF", 935, 1025)
	same := mustCourse(t, "CSC 216", "SDF", "001", 3, "sesmith5", "MW", 1330, 1445)

	if !a.IsDuplicate(b) || !b.IsDuplicate(a) {
		t.Error("同课程名不同班级应视为重复")
	}
	if a.IsDuplicate(c) {
		t.Error("不同课程名不应视为重复")
	}
	if a.Equal(b) {
		t.Error("班级不同不应结构相等")
	}
	if !a.Equal(same) {
		t.Error("全部字段相同应结构相等")
	}

	ev, _ := NewEvent("CSC 216", "MW", 1330, 1445, "")
	if a.IsDuplicate(ev) || ev.IsDuplicate(a) {
		t.Error("课程与事件不应互为重复")
	}
	if a.Equal(ev) {
		t.Error("课程与事件不应结构相等")
	}
}
