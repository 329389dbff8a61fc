package scheduler

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"course-planner/internal/recordio"
	apperrors "course-planner/pkg/errors"
)

const testCatalog = `CSC 116,Intro to Programming - Java,001,3,jdyoung2,MW,910,1100
CSC 116,Intro to Programming - Java,002,3,spbalik,MW,1120,1310
CSC 216,Software Development Fundamentals,001,3,sesmith5,TH,1330,1445
CSC 216,Software Development Fundamentals,002,3,ixdoming,TH,1330,1445
CSC 216,Software Development Fundamentals,601,3,jep,A
CSC 226,Discrete Mathematics for Computer Scientists,001,3,tmbarnes,MWF,935,1025
CSC 230,C and Software Tools,001,3,dbsturgi,MW,1145,1300
CSC 316,Data Structures and Algorithms,001,3,jtking,MW,1330,1445
this is not a course`

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := LoadFrom(strings.NewReader(testCatalog))
	if err != nil {
		t.Fatalf("LoadFrom 失败: %v", err)
	}
	return s
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, apperrors.ErrCatalogUnavailable) {
		t.Errorf("期望 CatalogUnavailable, 实际: %v", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	s := newTestScheduler(t)

	if s.ScheduleTitle() != DefaultTitle {
		t.Errorf("默认标题期望 %q, 实际 %q", DefaultTitle, s.ScheduleTitle())
	}
	if s.Len() != 0 {
		t.Errorf("新日程应为空, 实际 %d", s.Len())
	}
	if got := len(s.CourseCatalog()); got != 8 {
		t.Errorf("目录期望 8 行, 实际 %d", got)
	}
	row := s.CourseCatalog()[4]
	if row[0] != "CSC 216" || row[1] != "601" || row[3] != "Arranged" {
		t.Errorf("目录行不符: %v", row)
	}

	empty := New(nil)
	if len(empty.Catalog()) != 0 || len(empty.CourseCatalog()) != 0 {
		t.Error("空目录应返回空表")
	}
}

func TestCourseFromCatalog(t *testing.T) {
	s := newTestScheduler(t)

	c := s.CourseFromCatalog("CSC 216", "002")
	if c == nil || c.InstructorID() != "ixdoming" {
		t.Fatalf("未找到 CSC 216-002: %v", c)
	}
	if s.CourseFromCatalog("CSC 216", "003") != nil {
		t.Error("不存在的班级应返回 nil")
	}
	if s.CourseFromCatalog("CSC 999", "001") != nil {
		t.Error("不存在的课程应返回 nil")
	}
}

func TestAddCourseToSchedule(t *testing.T) {
	s := newTestScheduler(t)

	added, err := s.AddCourseToSchedule("CSC 216", "001")
	if err != nil || !added {
		t.Fatalf("添加 CSC 216-001 失败: added=%v err=%v", added, err)
	}

	// 目录中不存在：不报错，返回 false
	added, err = s.AddCourseToSchedule("CSC 492", "001")
	if err != nil || added {
		t.Errorf("不存在的课程期望 (false, nil), 实际 (%v, %v)", added, err)
	}

	// 同课程名不同班级：重复
	_, err = s.AddCourseToSchedule("CSC 216", "601")
	if !errors.Is(err, apperrors.ErrDuplicateActivity) {
		t.Errorf("期望 DuplicateActivity, 实际: %v", err)
	}

	// MW 1330-1445 与 TH 1330-1445 无共同星期
	if _, err := s.AddCourseToSchedule("CSC 316", "001"); err != nil {
		t.Fatalf("添加 CSC 316 失败: %v", err)
	}

	// CSC 116-002 MW 1120-1310 与 CSC 230 MW 1145-1300 冲突
	if _, err := s.AddCourseToSchedule("CSC 116", "002"); err != nil {
		t.Fatalf("添加 CSC 116-002 失败: %v", err)
	}
	_, err = s.AddCourseToSchedule("CSC 230", "001")
	if !errors.Is(err, apperrors.ErrScheduleConflict) {
		t.Errorf("期望 ScheduleConflict, 实际: %v", err)
	}

	if s.Len() != 3 {
		t.Fatalf("日程期望 3 项, 实际 %d", s.Len())
	}
	order := []string{"CSC 216", "CSC 316", "CSC 116"}
	for i, row := range s.ScheduledActivities() {
		if row[0] != order[i] {
			t.Errorf("第 %d 项期望 %s, 实际 %s", i, order[i], row[0])
		}
	}
	if s.TotalCredits() != 9 {
		t.Errorf("学分合计期望 9, 实际 %d", s.TotalCredits())
	}
}

func TestAddCourseToSchedule_ArrangedNeverConflicts(t *testing.T) {
	s := newTestScheduler(t)

	if _, err := s.AddCourseToSchedule("CSC 216", "601"); err != nil {
		t.Fatalf("添加待定课程失败: %v", err)
	}
	if _, err := s.AddEventToSchedule("All week", "MTWHFSU", 0, 2359, ""); err != nil {
		t.Errorf("待定课程不应与任何事件冲突: %v", err)
	}
}

func TestAddEventToSchedule(t *testing.T) {
	s := newTestScheduler(t)
	if _, err := s.AddCourseToSchedule("CSC 226", "001"); err != nil {
		t.Fatalf("添加 CSC 226 失败: %v", err)
	}

	ev, err := s.AddEventToSchedule("Exercise", "SU", 800, 900, "Gym")
	if err != nil {
		t.Fatalf("添加事件失败: %v", err)
	}
	if ev.EventDetails() != "Gym" {
		t.Errorf("事件详情不符: %s", ev.EventDetails())
	}

	// 非法字段：在日程检查前失败
	_, err = s.AddEventToSchedule("Exercise", "A", 0, 0, "")
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Errorf("期望 InvalidArgument, 实际: %v", err)
	}

	_, err = s.AddEventToSchedule("Exercise", "M", 1800, 1900, "")
	if !errors.Is(err, apperrors.ErrDuplicateActivity) {
		t.Errorf("同名事件期望 DuplicateActivity, 实际: %v", err)
	}

	// 与 CSC 226 MWF 935-1025 在 F 冲突
	_, err = s.AddEventToSchedule("Meeting", "F", 1000, 1100, "")
	if !errors.Is(err, apperrors.ErrScheduleConflict) {
		t.Errorf("期望 ScheduleConflict, 实际: %v", err)
	}

	// 标题与课程名相同的事件不算重复
	if _, err := s.AddEventToSchedule("CSC 226", "S", 1200, 1300, ""); err != nil {
		t.Errorf("事件与课程不应互为重复: %v", err)
	}

	if s.Len() != 3 {
		t.Errorf("日程期望 3 项, 实际 %d", s.Len())
	}
	full := s.FullScheduledActivities()
	if len(full[1]) != 7 || full[1][2] != "Exercise" || full[1][6] != "Gym" {
		t.Errorf("完整表行不符: %v", full[1])
	}
}

func TestAddActivity_NilRejected(t *testing.T) {
	s := newTestScheduler(t)
	if err := s.AddActivity(nil); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Errorf("期望 InvalidArgument, 实际: %v", err)
	}
}

func TestRemoveActivityFromSchedule(t *testing.T) {
	s := newTestScheduler(t)
	_, _ = s.AddCourseToSchedule("CSC 216", "001")
	_, _ = s.AddCourseToSchedule("CSC 226", "001")
	_, _ = s.AddEventToSchedule("Exercise", "SU", 800, 900, "")

	for _, idx := range []int{3, 10, -1} {
		if s.RemoveActivityFromSchedule(idx) {
			t.Errorf("越界下标 %d 应返回 false", idx)
		}
	}
	if s.Len() != 3 {
		t.Fatalf("越界删除后长度应不变, 实际 %d", s.Len())
	}

	if !s.RemoveActivityFromSchedule(1) {
		t.Fatal("删除下标 1 失败")
	}
	rows := s.ScheduledActivities()
	if len(rows) != 2 || rows[0][0] != "CSC 216" || rows[1][2] != "Exercise" {
		t.Errorf("删除后顺序不符: %v", rows)
	}
}

func TestResetAndTitle(t *testing.T) {
	s := newTestScheduler(t)
	_, _ = s.AddCourseToSchedule("CSC 216", "001")

	s.SetScheduleTitle("Fall 2026")
	s.ResetSchedule()

	if s.Len() != 0 {
		t.Errorf("重置后日程应为空, 实际 %d", s.Len())
	}
	if s.ScheduleTitle() != "Fall 2026" {
		t.Errorf("重置不应影响标题, 实际 %q", s.ScheduleTitle())
	}

	s.SetScheduleTitle("")
	if s.ScheduleTitle() != "" {
		t.Error("允许设置空标题")
	}

	if _, err := s.AddCourseToSchedule("CSC 216", "001"); err != nil {
		t.Errorf("重置后应可重新添加: %v", err)
	}
}

func TestActivities_ReturnsCopy(t *testing.T) {
	s := newTestScheduler(t)
	_, _ = s.AddCourseToSchedule("CSC 216", "001")

	list := s.Activities()
	list[0] = nil
	if s.Activities()[0] == nil {
		t.Error("修改返回切片不应影响内部日程")
	}
}

func TestExportSchedule_RoundTrip(t *testing.T) {
	s := newTestScheduler(t)
	_, _ = s.AddCourseToSchedule("CSC 216", "601")
	_, _ = s.AddCourseToSchedule("CSC 226", "001")
	_, _ = s.AddEventToSchedule("Exercise", "SU", 800, 900, "Gym")

	var buf bytes.Buffer
	if err := s.ExportSchedule(&buf); err != nil {
		t.Fatalf("ExportSchedule 失败: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("期望 3 行, 实际 %d", len(lines))
	}
	original := s.Activities()
	for i, line := range lines[:2] {
		c, err := recordio.ParseCourse(line)
		if err != nil {
			t.Fatalf("回读第 %d 行失败: %v", i, err)
		}
		if !c.Equal(original[i]) {
			t.Errorf("第 %d 行回读后不相等", i)
		}
	}
	if lines[2] != "Exercise,SU,800,900,Gym" {
		t.Errorf("事件行不符: %s", lines[2])
	}
}

func TestExportScheduleFile(t *testing.T) {
	s := newTestScheduler(t)
	_, _ = s.AddCourseToSchedule("CSC 216", "001")

	path := filepath.Join(t.TempDir(), "schedule.txt")
	if err := s.ExportScheduleFile(path); err != nil {
		t.Fatalf("ExportScheduleFile 失败: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取导出文件失败: %v", err)
	}
	if string(data) != "CSC 216,Software Development Fundamentals,001,3,sesmith5,TH,1330,1445\n" {
		t.Errorf("导出文件内容不符: %q", data)
	}

	err = s.ExportScheduleFile(filepath.Join(t.TempDir(), "missing", "x.txt"))
	if !errors.Is(err, apperrors.ErrExportFailed) {
		t.Errorf("期望 ExportFailed, 实际: %v", err)
	}
}
