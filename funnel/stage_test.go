package funnel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/course_funnel/models"
)

var fixedClock = ClockFunc(func() time.Time {
	return time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)
})

func TestStageNumber(t *testing.T) {
	tests := []struct {
		label string
		want  float64
		ok    bool
	}{
		{"1. 首次洽詢", 1, true},
		{"2.2 聯繫失敗", 2.2, true},
		{"3.1 邀約成功", 3.1, true},
		{"5. 成交", 5, true},
		{" 4.1 到訪成功", 4.1, true},
		{"成交", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := StageNumber(tt.label)
		assert.Equal(t, tt.ok, ok, tt.label)
		assert.InDelta(t, tt.want, got, 1e-9, tt.label)
	}
}

func TestIsKnownStage(t *testing.T) {
	for _, s := range models.Stages {
		assert.True(t, IsKnownStage(string(s)))
	}
	assert.False(t, IsKnownStage("6. 續報"))
}

func TestAdvanceStage_CumulativeFlags(t *testing.T) {
	rec := models.FunnelRecord{StudentID: "S1", CurrentStage: string(models.StageInquiry)}

	got := AdvanceStage(rec, string(models.StageVisitSuccess), models.StageDetails{}, fixedClock)

	assert.Equal(t, string(models.StageVisitSuccess), got.CurrentStage)
	assert.True(t, got.ContactStatus)
	assert.True(t, got.AppointmentStatus)
	assert.True(t, got.VisitStatus)
	assert.False(t, got.ConversionStatus)
	assert.Equal(t, "2024-05-10", got.ContactDate)
	assert.Equal(t, "2024-05-10", got.AppointmentDate)
	assert.Equal(t, "2024-05-10", got.VisitDate)
	assert.Empty(t, got.ConversionDate)
}

func TestAdvanceStage_FailureStagesStillCountAsReached(t *testing.T) {
	got := AdvanceStage(models.FunnelRecord{}, string(models.StageAppointmentFailure), models.StageDetails{}, fixedClock)

	assert.True(t, got.ContactStatus)
	assert.True(t, got.AppointmentStatus)
	assert.False(t, got.VisitStatus)
}

func TestAdvanceStage_KeepsExistingDates(t *testing.T) {
	rec := models.FunnelRecord{
		StudentID:     "S1",
		ContactStatus: true,
		ContactDate:   "2024/4/1",
	}

	got := AdvanceStage(rec, string(models.StageAppointmentSuccess), models.StageDetails{}, fixedClock)

	assert.Equal(t, "2024/4/1", got.ContactDate)
	assert.Equal(t, "2024-05-10", got.AppointmentDate)
}

func TestAdvanceStage_SuppliedDatesWin(t *testing.T) {
	rec := models.FunnelRecord{ContactDate: "2024-04-01"}
	d := models.StageDetails{
		ContactDate:     "2024-04-02",
		AppointmentDate: "2024-04-03",
		VisitDate:       "2024-04-04",
		ConversionDate:  "2024-04-05",
	}

	got := AdvanceStage(rec, string(models.StageConverted), d, fixedClock)

	assert.Equal(t, "2024-04-02", got.ContactDate)
	assert.Equal(t, "2024-04-03", got.AppointmentDate)
	assert.Equal(t, "2024-04-04", got.VisitDate)
	assert.Equal(t, "2024-04-05", got.ConversionDate)
}

func TestAdvanceStage_Conversion(t *testing.T) {
	rec := models.FunnelRecord{StudentID: "S1", Name: "張三", Consultant: "Amy"}
	d := models.StageDetails{
		MainCourse:       "美甲",
		ConversionAmount: 32000,
		ConversionNotes:  "分期",
	}

	got := AdvanceStage(rec, string(models.StageConverted), d, fixedClock)

	require.True(t, got.ConversionStatus)
	assert.Equal(t, "美甲", got.MainCourse)
	assert.Equal(t, "美甲", got.ConversionCourse)
	assert.Equal(t, float64(32000), got.ConversionAmount)
	assert.Equal(t, "分期", got.ConversionNotes)
	assert.Equal(t, "張三", got.Name)
	assert.Equal(t, "Amy", got.Consultant)

	d.ConversionCourse = "美睫"
	got = AdvanceStage(rec, string(models.StageConverted), d, fixedClock)
	assert.Equal(t, "美睫", got.ConversionCourse)
}

func TestAdvanceStage_Idempotent(t *testing.T) {
	rec := models.FunnelRecord{StudentID: "S1"}
	d := models.StageDetails{
		MainCourse:      "紋繡",
		Consultant:      "Ben",
		ContactMethod:   "電話",
		AppointmentDate: "2024-05-01",
		VisitDate:       "2024-05-03",
	}

	once := AdvanceStage(rec, string(models.StageVisitSuccess), d, fixedClock)
	twice := AdvanceStage(once, string(models.StageVisitSuccess), d, fixedClock)

	assert.Equal(t, once, twice)
}

func TestAdvanceStage_BackwardOnlyRewritesStage(t *testing.T) {
	rec := AdvanceStage(models.FunnelRecord{StudentID: "S1"}, string(models.StageConverted), models.StageDetails{}, fixedClock)

	got := AdvanceStage(rec, string(models.StageInquiry), models.StageDetails{}, fixedClock)

	assert.Equal(t, string(models.StageInquiry), got.CurrentStage)
	assert.True(t, got.ContactStatus)
	assert.True(t, got.ConversionStatus)
}

func TestAdvanceStage_UnparseableStage(t *testing.T) {
	got := AdvanceStage(models.FunnelRecord{StudentID: "S1"}, "待確認", models.StageDetails{Consultant: "Amy"}, fixedClock)

	assert.Equal(t, "待確認", got.CurrentStage)
	assert.Equal(t, "Amy", got.Consultant)
	assert.False(t, got.ContactStatus)
}

func TestNewFunnelRecord(t *testing.T) {
	rec := NewFunnelRecord(models.Student{StudentID: "S9", Name: "孫七", Consultant: "Amy"})

	assert.Equal(t, "S9", rec.StudentID)
	assert.Equal(t, string(models.StageInquiry), rec.CurrentStage)
	assert.Equal(t, "Amy", rec.Consultant)
	assert.False(t, rec.ContactStatus)
}
