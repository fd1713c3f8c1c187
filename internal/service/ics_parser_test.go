package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/model"
)

// 2025-09-01 为周一
const testICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//timetable//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:slot-1\r\n" +
	"SUMMARY:Period 1\r\n" +
	"DTSTART:20250901T090000\r\n" +
	"DTEND:20250901T100000\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:slot-1-week2\r\n" +
	"SUMMARY:Period 1\r\n" +
	"DTSTART:20250908T090000\r\n" +
	"DTEND:20250908T100000\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:lunch\r\n" +
	"SUMMARY:Lunch Break\r\n" +
	"DTSTART:20250902T120000\r\n" +
	"DURATION:PT1H\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:saturday\r\n" +
	"SUMMARY:Weekend\r\n" +
	"DTSTART:20250906T090000\r\n" +
	"DTEND:20250906T100000\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:allday\r\n" +
	"SUMMARY:Holiday\r\n" +
	"DTSTART;VALUE=DATE:20250903\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:utc\r\n" +
	"SUMMARY:Period 3\r\n" +
	"DTSTART:20250901T060000Z\r\n" +
	"DTEND:20250901T070000Z\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParseTimeSlotsICS(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	slots, err := ParseTimeSlotsICS(strings.NewReader(testICS), "year-1", loc)
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}

	// 周一 09:00 合并为一个，周一 14:00（UTC 转换），周二午休；周六与全天事件忽略
	if len(slots) != 3 {
		t.Fatalf("期望 3 个时间段，实际 %d: %+v", len(slots), slots)
	}

	want := []struct {
		day        model.Weekday
		start, end string
		lunch      bool
	}{
		{model.Monday, "09:00", "10:00", false},
		{model.Monday, "14:00", "15:00", false},
		{model.Tuesday, "12:00", "13:00", true},
	}
	for i, w := range want {
		s := slots[i]
		if s.DayOfWeek != w.day || s.StartTime != w.start || s.EndTime != w.end || s.IsLunch != w.lunch {
			t.Errorf("slots[%d] = %+v, want %+v", i, s, w)
		}
		if s.AcademicYearID != "year-1" {
			t.Errorf("slots[%d] 学年未设置", i)
		}
	}
}

func TestParseTimeSlotsICS_Invalid(t *testing.T) {
	_, err := ParseTimeSlotsICS(strings.NewReader("not a calendar"), "year-1", time.UTC)
	if !errors.Is(err, ErrICSInvalid) {
		t.Errorf("期望 ErrICSInvalid，实际 %v", err)
	}
}

func TestParseICSDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"PT1H", time.Hour, false},
		{"PT1H30M", 90 * time.Minute, false},
		{"pt45m", 45 * time.Minute, false},
		{"P1D", 0, true},
		{"PT", 0, true},
	}
	for _, tt := range tests {
		got, err := parseICSDuration(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseICSDuration(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseICSDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
