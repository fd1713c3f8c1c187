package service

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/model"
)

// ── ICS 时间段解析器 ─────────────────────────────────────────
//
// 职责：将 iCalendar (RFC 5545) 中的每周课节事件解析为 TimeSlot 列表。
//
//   - DTSTART 确定星期与开始时间，DTEND（或 DURATION）确定结束时间
//   - 仅保留周一至周五的事件，全天事件忽略
//   - SUMMARY 含 "lunch" / "午休" 的事件标记为午休时间段
//   - 同一 星期+开始+结束 的事件合并为一个时间段（RRULE 展开的多次事件）
// ─────────────────────────────────────────────────────────────

const icsMaxFileSize = 2 * 1024 * 1024 // 2MB

// ErrICSInvalid ICS 内容无法解析
var ErrICSInvalid = errors.New("ICS 格式解析失败")

// parsedSlotEvent ICS 解析中间结构
type parsedSlotEvent struct {
	Day       model.Weekday
	StartTime string
	EndTime   string
	IsLunch   bool
}

// ParseTimeSlotsICS 解析 ICS 内容并转为 TimeSlot 列表，时间按 loc 解释
func ParseTimeSlotsICS(reader io.Reader, academicYearID string, loc *time.Location) ([]model.TimeSlot, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(reader, icsMaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrICSInvalid, err)
	}
	if loc == nil {
		loc = time.UTC
	}

	var events []parsedSlotEvent
	for _, comp := range cal.Events() {
		evt, ok := parseSlotEvent(comp, loc)
		if !ok {
			continue
		}
		events = append(events, evt)
	}

	merged := mergeSlotEvents(events)
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Day != merged[j].Day {
			return merged[i].Day.Index() < merged[j].Day.Index()
		}
		return merged[i].StartTime < merged[j].StartTime
	})

	result := make([]model.TimeSlot, 0, len(merged))
	for _, evt := range merged {
		result = append(result, model.TimeSlot{
			AcademicYearID: academicYearID,
			DayOfWeek:      evt.Day,
			StartTime:      evt.StartTime,
			EndTime:        evt.EndTime,
			IsLunch:        evt.IsLunch,
		})
	}
	return result, nil
}

// parseSlotEvent 解析单个 VEVENT 组件
func parseSlotEvent(evt *ics.VEvent, loc *time.Location) (parsedSlotEvent, bool) {
	startProp := evt.GetProperty(ics.ComponentPropertyDtStart)
	if startProp == nil || len(startProp.Value) == len("20060102") {
		return parsedSlotEvent{}, false
	}
	dtStart, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
	if err != nil {
		return parsedSlotEvent{}, false
	}

	dtEnd, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, loc)
	if err != nil {
		durProp := evt.GetProperty(ics.ComponentPropertyDuration)
		if durProp == nil {
			return parsedSlotEvent{}, false
		}
		d, err := parseICSDuration(durProp.Value)
		if err != nil {
			return parsedSlotEvent{}, false
		}
		dtEnd = dtStart.Add(d)
	}
	if !dtEnd.After(dtStart) || dtEnd.YearDay() != dtStart.YearDay() {
		return parsedSlotEvent{}, false
	}

	day, ok := model.ParseWeekday(dtStart.Weekday().String())
	if !ok {
		return parsedSlotEvent{}, false
	}

	summary := ""
	if p := evt.GetProperty(ics.ComponentPropertySummary); p != nil {
		summary = strings.ToLower(p.Value)
	}

	return parsedSlotEvent{
		Day:       day,
		StartTime: dtStart.Format("15:04"),
		EndTime:   dtEnd.Format("15:04"),
		IsLunch:   strings.Contains(summary, "lunch") || strings.Contains(summary, "午休"),
	}, true
}

// mergeSlotEvents 合并相同 星期+开始+结束 的事件，任一事件为午休则合并结果为午休
func mergeSlotEvents(events []parsedSlotEvent) []parsedSlotEvent {
	type key struct {
		Day       model.Weekday
		StartTime string
		EndTime   string
	}
	merged := make(map[key]*parsedSlotEvent)
	order := []key{}

	for _, e := range events {
		k := key{Day: e.Day, StartTime: e.StartTime, EndTime: e.EndTime}
		if existing, ok := merged[k]; ok {
			existing.IsLunch = existing.IsLunch || e.IsLunch
			continue
		}
		cp := e
		merged[k] = &cp
		order = append(order, k)
	}

	result := make([]parsedSlotEvent, 0, len(merged))
	for _, k := range order {
		result = append(result, *merged[k])
	}
	return result
}

var icsDurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseICSDuration 解析课节可用的 DURATION 子集（如 PT1H30M）
func parseICSDuration(value string) (time.Duration, error) {
	m := icsDurationPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(value)))
	if m == nil || (m[1] == "" && m[2] == "" && m[3] == "") {
		return 0, fmt.Errorf("不支持的 DURATION: %s", value)
	}
	var d time.Duration
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, _ := strconv.Atoi(m[i+1])
		d += time.Duration(n) * unit
	}
	return d, nil
}

// parseICSDateTime 从 VEVENT 中解析日期时间属性
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range []string{"20060102T150405Z", "20060102T150405", "20060102"} {
		t, err := time.Parse(layout, val)
		if err != nil {
			continue
		}
		if strings.HasSuffix(layout, "Z") {
			return t.In(loc), nil
		}
		if tzid != "" {
			if tzLoc, err := time.LoadLocation(tzid); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc), nil
			}
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}

	return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
}
