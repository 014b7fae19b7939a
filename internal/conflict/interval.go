// Package conflict 提供教室/教师时间区间的冲突判定。
//
// 所有时间按"当日零点起的分钟数"比较，区间为左闭右开 [start, end)。
// 存储层校验与只读预览（空闲查询、冲突列表）共用同一个判定函数。
package conflict

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidClock = errors.New("时间格式无效，应为 HH:MM")
	ErrInvalidRange = errors.New("开始时间必须早于结束时间")
)

// MinutesPerDay 一天的分钟数，24:00 作为区间右端点合法
const MinutesPerDay = 24 * 60

// ClockTime 当日零点起的分钟数
type ClockTime int

// ParseClock 解析 "HH:MM" 或 "HH:MM:SS"（PostgreSQL time 列的扫描结果）
func ParseClock(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		// 每段恰好两位数字，不接受符号
		if len(p) != 2 || !isDigit(p[0]) || !isDigit(p[1]) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		nums[i] = int(p[0]-'0')*10 + int(p[1]-'0')
	}

	h, m := nums[0], nums[1]
	sec := 0
	if len(nums) == 3 {
		sec = nums[2]
	}
	if m > 59 || sec > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	total := h*60 + m
	if total > MinutesPerDay || (total == MinutesPerDay && sec != 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return ClockTime(total), nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// MustParseClock 解析失败时 panic，仅用于常量与测试
func MustParseClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ClockOf 取 t 在其所属时区下的时分
func ClockOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*60 + t.Minute())
}

// String 格式化为 HH:MM
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// On 返回 date 当天该时刻
func (c ClockTime) On(date time.Time) time.Time {
	y, mo, d := date.Date()
	return time.Date(y, mo, d, int(c)/60, int(c)%60, 0, 0, date.Location())
}

// Interval 左闭右开的时间区间
type Interval struct {
	Start ClockTime
	End   ClockTime
}

// NewInterval 构造区间，start >= end 视为调用方错误
func NewInterval(start, end ClockTime) (Interval, error) {
	if start >= end {
		return Interval{}, fmt.Errorf("%w: %s-%s", ErrInvalidRange, start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// ParseInterval 解析一对 HH:MM 字符串
func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	return NewInterval(s, e)
}

// Overlaps 两个区间是否冲突。
// 起点相同、终点相同、包含都算冲突；首尾相接（aEnd == bStart）不算。
func Overlaps(aStart, aEnd, bStart, bEnd ClockTime) bool {
	return aStart < bEnd && aEnd > bStart
}

// Overlaps 与另一区间是否冲突
func (i Interval) Overlaps(o Interval) bool {
	return Overlaps(i.Start, i.End, o.Start, o.End)
}

// Minutes 区间时长
func (i Interval) Minutes() int {
	return int(i.End - i.Start)
}

func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}
