package models

// DateRange 日期区间（YYYY-MM-DD，两端皆可省略，含端点）
type DateRange struct {
	From string `json:"from,omitempty" form:"from"`
	To   string `json:"to,omitempty" form:"to"`
}

// IsZero 两端都未设置
func (r *DateRange) IsZero() bool {
	return r == nil || (r.From == "" && r.To == "")
}

// StageStat 阶段统计
type StageStat struct {
	Stage          string `json:"stage"`
	Count          int    `json:"count"`
	Percentage     int    `json:"percentage"`
	ConversionRate int    `json:"conversionRate"` // 与 Percentage 相同，保留以兼容前端
}

// DimStats 维度统计（来源/方式/课程）
type DimStats struct {
	Name            string `json:"name"`
	InquiryCount    int    `json:"inquiryCount"`
	ConversionCount int    `json:"conversionCount"`
	ConversionRate  int    `json:"conversionRate"`
}

// ConversionCourseStat 成交课程统计
type ConversionCourseStat struct {
	Course string `json:"course"`
	Count  int    `json:"count"`
}

// FunnelAnalytics 漏斗分析结果
type FunnelAnalytics struct {
	TotalStudents         int                    `json:"totalStudents"`
	TotalConversionAmount float64                `json:"totalConversionAmount"`
	Stages                []StageStat            `json:"stages"`
	ByCourse              []DimStats             `json:"byCourse"`
	BySource              []DimStats             `json:"bySource"`
	ByMethod              []DimStats             `json:"byMethod"`
	ByConversionCourse    []ConversionCourseStat `json:"byConversionCourse"`
}

// ConsultantPerformance 顾问业绩
type ConsultantPerformance struct {
	Name            string `json:"name"`
	Total           int    `json:"total"`
	Stage2Count     int    `json:"stage2Count"`
	Stage3Count     int    `json:"stage3Count"`
	Stage4Count     int    `json:"stage4Count"`
	Stage5Count     int    `json:"stage5Count"`
	ContactRate     int    `json:"contactRate"`
	AppointmentRate int    `json:"appointmentRate"`
	VisitRate       int    `json:"visitRate"`
	ConversionRate  int    `json:"conversionRate"`
	OverallRate     int    `json:"overallRate"`
}

// StudentSalesRow 数据看板中的学员列
type StudentSalesRow struct {
	StudentID   string         `json:"studentId"`
	Name        string         `json:"name"`
	Phone       string         `json:"phone"`
	Source      string         `json:"source"`
	IsConverted bool           `json:"isConverted"`
	Sales       map[string]int `json:"sales"` // productId -> 数量
}

// SalesDashboard 学员 x 课程 成交矩阵
type SalesDashboard struct {
	Students []StudentSalesRow `json:"students"`
	Products []Product         `json:"products"`
}
