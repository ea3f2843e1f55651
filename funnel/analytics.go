package funnel

import (
	"math"
	"sort"

	"github.com/BerniceZTT/course_funnel/models"
)

// studentInfo 学员的洽询日期与分类结果
type studentInfo struct {
	date   string
	source string
	method string
}

type dimCounter struct {
	inq  int
	conv int
}

// ComputeFunnelAnalytics 计算漏斗分析。纯函数，不做任何 I/O。
func ComputeFunnelAnalytics(students []models.Student, records []models.FunnelRecord, r *models.DateRange) models.FunnelAnalytics {
	sourceStats := newDimCounters(categoryNames(SourceCategories))
	methodStats := newDimCounters(categoryNames(MethodCategories))
	courseStats := newDimCounters(Courses)
	infoByStudent := make(map[string]studentInfo, len(students))

	// 1-2. 分类并统计洽询数
	for _, s := range students {
		info := studentInfo{
			date:   s.InquiryDate,
			source: Classify(s, SourceCategories),
			method: Classify(s, MethodCategories),
		}
		if s.StudentID != "" {
			infoByStudent[s.StudentID] = info
		}

		if InRange(info.date, r) {
			if info.source != "" {
				sourceStats[info.source].inq++
			}
			if info.method != "" {
				methodStats[info.method].inq++
			}
		}
	}

	// 3. 依日期区间筛选
	filtered := make([]models.FunnelRecord, 0, len(records))
	for _, rec := range records {
		if r.IsZero() || recordInRange(rec, r, infoByStudent) {
			filtered = append(filtered, rec)
		}
	}

	stageCounts := make(map[string]int, len(models.Stages))
	convCourseCounts := make(map[string]int)
	var totalAmount float64

	for _, rec := range filtered {
		// 4. 阶段计数，未知阶段忽略
		if stage := effectiveStage(rec.CurrentStage); IsKnownStage(stage) {
			stageCounts[stage]++
		}

		// 5. 课程
		if rec.MainCourse != "" && isCourse(rec.MainCourse) {
			courseStats[rec.MainCourse].inq++
			if rec.ConversionStatus {
				courseStats[rec.MainCourse].conv++
			}
		}

		if !rec.ConversionStatus {
			continue
		}

		// 6. 成交课程与金额
		if rec.ConversionCourse != "" {
			convCourseCounts[rec.ConversionCourse]++
		}
		totalAmount += rec.ConversionAmount

		// 7. 来源/方式成交
		if info, ok := infoByStudent[rec.StudentID]; ok {
			if info.source != "" {
				sourceStats[info.source].conv++
			}
			if info.method != "" {
				methodStats[info.method].conv++
			}
		}
	}

	total := len(filtered)
	stages := make([]models.StageStat, 0, len(models.Stages))
	for _, s := range models.Stages {
		count := stageCounts[string(s)]
		pct := percent(count, total)
		stages = append(stages, models.StageStat{
			Stage:          string(s),
			Count:          count,
			Percentage:     pct,
			ConversionRate: pct,
		})
	}

	return models.FunnelAnalytics{
		TotalStudents:         total,
		TotalConversionAmount: totalAmount,
		Stages:                stages,
		ByCourse:              dimStats(Courses, courseStats),
		BySource:              dimStats(categoryNames(SourceCategories), sourceStats),
		ByMethod:              dimStats(categoryNames(MethodCategories), methodStats),
		ByConversionCourse:    conversionCourseStats(convCourseCounts),
	}
}

// recordInRange 以记录“最近到达的阶段”日期判断：成交 > 到访 > 邀约 > 联系 > 洽询日期
func recordInRange(rec models.FunnelRecord, r *models.DateRange, infoByStudent map[string]studentInfo) bool {
	switch {
	case rec.ConversionStatus:
		return InRange(rec.ConversionDate, r)
	case rec.VisitStatus:
		return InRange(rec.VisitDate, r)
	case rec.AppointmentStatus:
		return InRange(rec.AppointmentDate, r)
	case rec.ContactStatus:
		return InRange(rec.ContactDate, r)
	}

	if info, ok := infoByStudent[rec.StudentID]; ok && info.date != "" {
		return InRange(info.date, r)
	}
	return false
}

func newDimCounters(names []string) map[string]*dimCounter {
	m := make(map[string]*dimCounter, len(names))
	for _, n := range names {
		m[n] = &dimCounter{}
	}
	return m
}

func dimStats(names []string, counters map[string]*dimCounter) []models.DimStats {
	out := make([]models.DimStats, 0, len(names))
	for _, n := range names {
		c := counters[n]
		if c.inq == 0 {
			continue
		}
		out = append(out, models.DimStats{
			Name:            n,
			InquiryCount:    c.inq,
			ConversionCount: c.conv,
			ConversionRate:  percent(c.conv, c.inq),
		})
	}
	return out
}

func conversionCourseStats(counts map[string]int) []models.ConversionCourseStat {
	out := make([]models.ConversionCourseStat, 0, len(counts))
	for course, count := range counts {
		out = append(out, models.ConversionCourseStat{Course: course, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Course < out[j].Course
	})
	return out
}

func categoryNames(categories []Category) []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names
}

// percent 四舍五入的百分比，分母为0时返回0
func percent(n, d int) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(d) * 100))
}
