package model

import "strings"

// ── 封闭枚举：在 HTTP 边界校验，数据库 CHECK 约束兜底 ──

// Weekday 上课日（仅工作日）
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
)

// Weekdays 按一周顺序排列的上课日
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// IsValid 是否为合法上课日
func (d Weekday) IsValid() bool {
	for _, w := range Weekdays {
		if d == w {
			return true
		}
	}
	return false
}

// Index 返回 0-4 的顺序下标；非法值返回 -1
func (d Weekday) Index() int {
	for i, w := range Weekdays {
		if d == w {
			return i
		}
	}
	return -1
}

// ParseWeekday 大小写不敏感地解析上课日
func ParseWeekday(s string) (Weekday, bool) {
	d := Weekday(strings.ToLower(strings.TrimSpace(s)))
	return d, d.IsValid()
}

// LevelName 年级名称
type LevelName string

const (
	LevelFirstYear  LevelName = "First Year"
	LevelSecondYear LevelName = "Second Year"
	LevelThirdYear  LevelName = "Third Year"
	LevelFourthYear LevelName = "Fourth Year"
	LevelFifthYear  LevelName = "Fifth Year"
)

// LevelNames 全部年级名称
var LevelNames = []LevelName{LevelFirstYear, LevelSecondYear, LevelThirdYear, LevelFourthYear, LevelFifthYear}

// IsValid 是否为合法年级名称（精确匹配）
func (n LevelName) IsValid() bool {
	for _, l := range LevelNames {
		if n == l {
			return true
		}
	}
	return false
}

// SemesterTerm 学期类型
type SemesterTerm string

const (
	TermFirst  SemesterTerm = "first"
	TermSecond SemesterTerm = "second"
	TermSummer SemesterTerm = "summer"
)

// IsValid 是否为合法学期类型
func (t SemesterTerm) IsValid() bool {
	return t == TermFirst || t == TermSecond || t == TermSummer
}

// EntryStatus 课表记录状态
type EntryStatus string

const (
	EntryActive   EntryStatus = "active"
	EntryInactive EntryStatus = "inactive"
)

// IsValid 是否为合法状态
func (s EntryStatus) IsValid() bool {
	return s == EntryActive || s == EntryInactive
}
