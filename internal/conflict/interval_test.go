package conflict

import (
	"errors"
	"testing"
	"time"
)

func c(s string) ClockTime { return MustParseClock(s) }

func TestParseClock(t *testing.T) {
	tests := []struct {
		in       string
		expected ClockTime
		wantErr  bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"09:30:00", 570, false},
		{"23:59", 1439, false},
		{"24:00", MinutesPerDay, false},
		{"24:00:01", 0, true},
		{"24:01", 0, true},
		{"9:30", 0, true},
		{"09:60", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
		{"09:30:00:00", 0, true},
		{"+9:00", 0, true},
		{"-0:30", 0, true},
		{"+1:+5", 0, true},
		{"09:+5", 0, true},
		{"09:30:-1", 0, true},
		{" 9:30", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidClock) {
				t.Errorf("ParseClock(%q) 期望 ErrInvalidClock，实际 %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q) 应成功: %v", tt.in, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseClock(%q) = %d, 期望 %d", tt.in, got, tt.expected)
		}
	}
}

func TestClockTime_String(t *testing.T) {
	if s := c("09:05:00").String(); s != "09:05" {
		t.Errorf("期望 09:05，实际 %s", s)
	}
	if s := ClockTime(MinutesPerDay).String(); s != "24:00" {
		t.Errorf("期望 24:00，实际 %s", s)
	}
}

func TestNewInterval_RejectsEmptyAndInverted(t *testing.T) {
	if _, err := NewInterval(c("10:00"), c("10:00")); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("start == end 应返回 ErrInvalidRange，实际 %v", err)
	}
	if _, err := NewInterval(c("11:00"), c("10:00")); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("start > end 应返回 ErrInvalidRange，实际 %v", err)
	}
	if _, err := ParseInterval("08:00", "09:00"); err != nil {
		t.Errorf("合法区间不应报错: %v", err)
	}
	if _, err := ParseInterval("8:00", "09:00"); !errors.Is(err, ErrInvalidClock) {
		t.Errorf("非法时间应返回 ErrInvalidClock，实际 %v", err)
	}
}

func TestOverlaps_Cases(t *testing.T) {
	tests := []struct {
		name     string
		a, b     [2]string
		expected bool
	}{
		{"首尾相接不冲突", [2]string{"09:00", "10:00"}, [2]string{"10:00", "11:00"}, false},
		{"差一分钟冲突", [2]string{"09:00", "10:00"}, [2]string{"09:59", "11:00"}, true},
		{"部分重叠", [2]string{"09:00", "10:00"}, [2]string{"09:30", "10:30"}, true},
		{"起点相同", [2]string{"09:00", "10:00"}, [2]string{"09:00", "09:15"}, true},
		{"终点相同", [2]string{"09:00", "10:00"}, [2]string{"09:45", "10:00"}, true},
		{"完全相同", [2]string{"09:00", "10:00"}, [2]string{"09:00", "10:00"}, true},
		{"a 包含 b", [2]string{"08:00", "12:00"}, [2]string{"09:00", "10:00"}, true},
		{"b 包含 a", [2]string{"09:00", "10:00"}, [2]string{"08:00", "12:00"}, true},
		{"完全分离", [2]string{"08:00", "09:00"}, [2]string{"13:00", "14:00"}, false},
		{"到午夜", [2]string{"23:00", "24:00"}, [2]string{"23:30", "23:45"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(c(tt.a[0]), c(tt.a[1]), c(tt.b[0]), c(tt.b[1]))
			if got != tt.expected {
				t.Errorf("Overlaps(%v, %v) = %v, 期望 %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

// 在 15 分钟粒度的网格上穷举，检查对称性以及与"存在公共分钟"定义的一致性
func TestOverlaps_Properties(t *testing.T) {
	const step = 15
	var grid []Interval
	for s := 0; s < MinutesPerDay; s += step * 4 {
		for e := s + step; e <= MinutesPerDay && e <= s+step*12; e += step {
			grid = append(grid, Interval{Start: ClockTime(s), End: ClockTime(e)})
		}
	}

	for _, a := range grid {
		for _, b := range grid {
			ab := a.Overlaps(b)
			if ab != b.Overlaps(a) {
				t.Fatalf("对称性被破坏: %s vs %s", a, b)
			}

			shared := false
			for m := a.Start; m < a.End; m++ {
				if m >= b.Start && m < b.End {
					shared = true
					break
				}
			}
			if ab != shared {
				t.Fatalf("%s vs %s: Overlaps=%v, 公共分钟=%v", a, b, ab, shared)
			}
		}
	}
}

func TestWeekdayOf(t *testing.T) {
	tests := []struct {
		date     time.Time
		expected DayOfWeek
	}{
		{time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), Monday},
		{time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), Thursday},
		{time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), Tuesday},
		{time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), Sunday},
	}
	for _, tt := range tests {
		if got := WeekdayOf(tt.date); got != tt.expected {
			t.Errorf("WeekdayOf(%s) = %d, 期望 %d", tt.date.Format("2006-01-02"), got, tt.expected)
		}
	}
}

func TestWeekStartAndNextOn(t *testing.T) {
	thu := time.Date(2025, 6, 5, 15, 0, 0, 0, time.UTC)
	if ws := WeekStart(thu); !ws.Equal(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("WeekStart 期望 2025-06-02，实际 %s", ws)
	}
	sun := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	if ws := WeekStart(sun); !ws.Equal(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("周日所在周应从 2025-06-02 开始，实际 %s", ws)
	}
	if n := NextOn(thu, Tuesday); !n.Equal(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("NextOn 期望 2025-06-10，实际 %s", n)
	}
	if n := NextOn(thu, Thursday); !n.Equal(time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("NextOn 当天应返回当天，实际 %s", n)
	}
}

func TestDayOfWeek_Valid(t *testing.T) {
	for d := DayOfWeek(0); d <= 8; d++ {
		want := d >= 1 && d <= 7
		if d.Valid() != want {
			t.Errorf("DayOfWeek(%d).Valid() = %v, 期望 %v", d, d.Valid(), want)
		}
	}
}
