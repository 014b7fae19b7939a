package service

import (
	"fmt"
	"time"

	"classroom-portal/internal/conflict"
)

// Clock 业务时钟：提供当前时间与"今天"的判定时区
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// NewClock 使用系统时间
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{Now: time.Now, Location: loc}
}

// Today 返回时区内今天零点
func (c Clock) Today() time.Time {
	return conflict.DateOnly(c.Now(), c.Location)
}

// ParseDate 在业务时区内解析 YYYY-MM-DD
func (c Clock) ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, s, c.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// IsPast 日期是否早于今天（仅比较日期）
func (c Clock) IsPast(date time.Time) bool {
	return conflict.DateOnly(date, c.Location).Before(c.Today())
}

// InZone 保留 date 的年月日，换到业务时区的零点（date 列读出时为 UTC）
func (c Clock) InZone(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.Location)
}
