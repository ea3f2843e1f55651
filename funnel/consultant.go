package funnel

import (
	"sort"

	"github.com/BerniceZTT/course_funnel/models"
)

// ComputeConsultantPerformance 按顾问分组计算漏斗转化，按总转化率降序
func ComputeConsultantPerformance(records []models.FunnelRecord, r *models.DateRange) []models.ConsultantPerformance {
	var order []string
	groups := make(map[string][]models.FunnelRecord)
	for _, rec := range records {
		if rec.Consultant == "" {
			continue
		}
		if _, ok := groups[rec.Consultant]; !ok {
			order = append(order, rec.Consultant)
		}
		groups[rec.Consultant] = append(groups[rec.Consultant], rec)
	}

	performance := make([]models.ConsultantPerformance, 0, len(order))
	for _, name := range order {
		filtered := groups[name]
		if !r.IsZero() {
			filtered = filterByLatestStage(filtered, r)
		}

		total := len(filtered)
		if total == 0 {
			continue
		}

		var s2, s3, s4, s5 int
		for _, rec := range filtered {
			if rec.ContactStatus {
				s2++
			}
			if rec.AppointmentStatus {
				s3++
			}
			if rec.VisitStatus {
				s4++
			}
			if rec.ConversionStatus {
				s5++
			}
		}

		performance = append(performance, models.ConsultantPerformance{
			Name:            name,
			Total:           total,
			Stage2Count:     s2,
			Stage3Count:     s3,
			Stage4Count:     s4,
			Stage5Count:     s5,
			ContactRate:     percent(s2, total),
			AppointmentRate: percent(s3, s2),
			VisitRate:       percent(s4, s3),
			ConversionRate:  percent(s5, s4),
			OverallRate:     percent(s5, total),
		})
	}

	sort.SliceStable(performance, func(i, j int) bool {
		return performance[i].OverallRate > performance[j].OverallRate
	})
	return performance
}

// filterByLatestStage 没有任何阶段旗标的记录没有可比较的日期，保留
func filterByLatestStage(records []models.FunnelRecord, r *models.DateRange) []models.FunnelRecord {
	out := make([]models.FunnelRecord, 0, len(records))
	for _, rec := range records {
		keep := true
		switch {
		case rec.ConversionStatus:
			keep = InRange(rec.ConversionDate, r)
		case rec.VisitStatus:
			keep = InRange(rec.VisitDate, r)
		case rec.AppointmentStatus:
			keep = InRange(rec.AppointmentDate, r)
		case rec.ContactStatus:
			keep = InRange(rec.ContactDate, r)
		}
		if keep {
			out = append(out, rec)
		}
	}
	return out
}
