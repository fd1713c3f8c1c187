package model

import "testing"

func TestIsCSTCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"CST101", true},
		{"CST-200", true},
		{"CS301", false},
		{"CT204", false},
		{"MATH101", true},
		{"ENG200", true},
		{"CS", false},
		{"C", true},
	}
	for _, tt := range tests {
		if got := IsCSTCode(tt.code); got != tt.want {
			t.Errorf("IsCSTCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestLevel_IsFirstYear(t *testing.T) {
	tests := []struct {
		name LevelName
		want bool
	}{
		{LevelFirstYear, true},
		{LevelSecondYear, false},
		{"first year", false},
		{"First Year ", false},
	}
	for _, tt := range tests {
		l := &Level{Name: tt.name}
		if got := l.IsFirstYear(); got != tt.want {
			t.Errorf("Level{%q}.IsFirstYear() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in     string
		want   Weekday
		wantOK bool
	}{
		{"monday", Monday, true},
		{" Friday ", Friday, true},
		{"Saturday", "saturday", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseWeekday(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseWeekday(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
	if Friday.Index() != 4 || Weekday("sunday").Index() != -1 {
		t.Error("Index 顺序错误")
	}
}
