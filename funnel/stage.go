package funnel

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/BerniceZTT/course_funnel/models"
)

// 阶段门槛
const (
	thresholdContact     = 2
	thresholdAppointment = 3
	thresholdVisit       = 4
	thresholdConversion  = 5
)

var stagePrefix = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)`)

// StageNumber 解析阶段标签的数字前缀，例如 "3.1 邀約成功" -> 3.1
func StageNumber(label string) (float64, bool) {
	m := stagePrefix.FindStringSubmatch(label)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsKnownStage 是否为八个标准阶段之一
func IsKnownStage(label string) bool {
	for _, s := range models.Stages {
		if string(s) == label {
			return true
		}
	}
	return false
}

// NewFunnelRecord 学员首次洽询时的初始记录
func NewFunnelRecord(student models.Student) models.FunnelRecord {
	return models.FunnelRecord{
		StudentID:    student.StudentID,
		Name:         student.Name,
		CurrentStage: string(models.StageInquiry),
		Consultant:   student.Consultant,
	}
}

// AdvanceStage 将记录推进到目标阶段。
// 门槛以下的阶段旗标全部设为 true（累积），不做回退校验。
func AdvanceStage(rec models.FunnelRecord, target string, d models.StageDetails, clock Clock) models.FunnelRecord {
	rec.CurrentStage = target
	rec.Name = firstNonEmpty(d.Name, rec.Name)
	rec.MainCourse = firstNonEmpty(d.MainCourse, rec.MainCourse)
	rec.Consultant = firstNonEmpty(d.Consultant, rec.Consultant)

	n, ok := StageNumber(target)
	if !ok {
		return rec
	}
	today := Today(clock)

	if n >= thresholdContact {
		rec.ContactStatus = true
		rec.ContactDate = firstNonEmpty(d.ContactDate, rec.ContactDate, today)
		rec.ContactMethod = firstNonEmpty(d.ContactMethod, rec.ContactMethod)
		rec.ContactNotes = firstNonEmpty(d.ContactNotes, rec.ContactNotes)
	}

	if n >= thresholdAppointment {
		rec.AppointmentStatus = true
		rec.AppointmentDate = firstNonEmpty(d.AppointmentDate, rec.AppointmentDate, today)
		rec.AppointmentNotes = firstNonEmpty(d.AppointmentNotes, rec.AppointmentNotes)
	}

	if n >= thresholdVisit {
		rec.VisitStatus = true
		rec.VisitDate = firstNonEmpty(d.VisitDate, rec.VisitDate, today)
		rec.VisitNotes = firstNonEmpty(d.VisitNotes, rec.VisitNotes)
	}

	if n >= thresholdConversion {
		rec.ConversionStatus = true
		rec.ConversionDate = firstNonEmpty(d.ConversionDate, rec.ConversionDate, today)
		rec.ConversionCourse = firstNonEmpty(d.ConversionCourse, rec.MainCourse)
		rec.ConversionAmount = d.ConversionAmount
		rec.ConversionNotes = firstNonEmpty(d.ConversionNotes, rec.ConversionNotes)
	}

	return rec
}

// effectiveStage 空白阶段视为首次洽询
func effectiveStage(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return string(models.StageInquiry)
	}
	return label
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
