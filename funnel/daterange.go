package funnel

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/BerniceZTT/course_funnel/models"
)

const dateLayout = "2006-01-02"

var dateSeparator = regexp.MustCompile(`[/-]`)

// NormalizeDate 将 YYYY/M/D、YYYY-M-D 或 D/M/YYYY 解析为日期
func NormalizeDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	parts := dateSeparator.Split(s, -1)
	if len(parts) != 3 {
		return time.Time{}, false
	}

	y, m, d := parts[0], parts[1], parts[2]
	// 试算表偶尔会给出日在前、年在后的格式
	if len(y) < 4 && len(d) == 4 {
		y, d = d, y
	}

	normalized := fmt.Sprintf("%s-%s-%s", y, padTwo(m), padTwo(d))
	t, err := time.Parse(dateLayout, normalized)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// InRange 判断日期字串是否落在区间内（含端点）
func InRange(dateStr string, r *models.DateRange) bool {
	if r.IsZero() {
		return true
	}

	date, ok := NormalizeDate(dateStr)
	if !ok {
		return false
	}

	if r.From != "" {
		if from, ok := NormalizeDate(r.From); ok && date.Before(from) {
			return false
		}
	}
	if r.To != "" {
		if to, ok := NormalizeDate(r.To); ok && date.After(to) {
			return false
		}
	}
	return true
}

func padTwo(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
