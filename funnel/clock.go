package funnel

import "time"

// Clock 提供“今天”，推进阶段时用于补齐日期
type Clock interface {
	Now() time.Time
}

// ClockFunc 函数适配器
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock 使用系统时间
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Today 以 YYYY-MM-DD 返回时钟当天
func Today(c Clock) string {
	if c == nil {
		c = SystemClock{}
	}
	return c.Now().Format(dateLayout)
}
