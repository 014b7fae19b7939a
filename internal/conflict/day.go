package conflict

import (
	"fmt"
	"time"
)

// DayOfWeek ISO 星期：1=周一 … 7=周日
type DayOfWeek int

const (
	Monday DayOfWeek = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [...]string{"", "周一", "周二", "周三", "周四", "周五", "周六", "周日"}

// Valid 是否在 1-7 之间
func (d DayOfWeek) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d DayOfWeek) String() string {
	if !d.Valid() {
		return fmt.Sprintf("DayOfWeek(%d)", int(d))
	}
	return dayNames[d]
}

// WeekdayOf 将日期换算为 ISO 星期（Go 的 time.Sunday 为 0）
func WeekdayOf(date time.Time) DayOfWeek {
	wd := date.Weekday()
	if wd == time.Sunday {
		return Sunday
	}
	return DayOfWeek(wd)
}

// DateOnly 截断为 loc 时区下的零点
func DateOnly(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// WeekStart 返回 date 所在 ISO 周的周一零点
func WeekStart(date time.Time) time.Time {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	return day.AddDate(0, 0, -int(WeekdayOf(day)-Monday))
}

// NextOn 返回 from 当天或之后第一个落在 day 的日期
func NextOn(from time.Time, day DayOfWeek) time.Time {
	y, m, d := from.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, from.Location())
	diff := (int(day) - int(WeekdayOf(start)) + 7) % 7
	return start.AddDate(0, 0, diff)
}
