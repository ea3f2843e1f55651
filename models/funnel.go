package models

// Stage 漏斗阶段标签，前缀数字用于比较
type Stage string

const (
	StageInquiry            Stage = "1. 首次洽詢"
	StageContactSuccess     Stage = "2.1 聯繫成功"
	StageContactFailure     Stage = "2.2 聯繫失敗"
	StageAppointmentSuccess Stage = "3.1 邀約成功"
	StageAppointmentFailure Stage = "3.2 邀約失敗"
	StageVisitSuccess       Stage = "4.1 到訪成功"
	StageNoVisit            Stage = "4.2 未到訪"
	StageConverted          Stage = "5. 成交"
)

// Stages 固定的八个阶段，按顺序
var Stages = []Stage{
	StageInquiry,
	StageContactSuccess,
	StageContactFailure,
	StageAppointmentSuccess,
	StageAppointmentFailure,
	StageVisitSuccess,
	StageNoVisit,
	StageConverted,
}

// FunnelRecord 流程追踪记录，每位学员一笔
type FunnelRecord struct {
	StudentID    string `json:"studentId" bson:"_id" db:"student_id"`
	Name         string `json:"name" bson:"name" db:"name"`
	MainCourse   string `json:"mainCourse" bson:"mainCourse" db:"main_course"`
	CurrentStage string `json:"currentStage" bson:"currentStage" db:"current_stage"`
	Consultant   string `json:"consultant" bson:"consultant" db:"consultant"`

	// 阶段2：联系
	ContactStatus bool   `json:"contactStatus" bson:"contactStatus" db:"contact_status"`
	ContactDate   string `json:"contactDate" bson:"contactDate" db:"contact_date"`
	ContactMethod string `json:"contactMethod" bson:"contactMethod" db:"contact_method"`
	ContactNotes  string `json:"contactNotes" bson:"contactNotes" db:"contact_notes"`

	// 阶段3：邀约
	AppointmentStatus bool   `json:"appointmentStatus" bson:"appointmentStatus" db:"appointment_status"`
	AppointmentDate   string `json:"appointmentDate" bson:"appointmentDate" db:"appointment_date"`
	AppointmentNotes  string `json:"appointmentNotes" bson:"appointmentNotes" db:"appointment_notes"`

	// 阶段4：到访
	VisitStatus bool   `json:"visitStatus" bson:"visitStatus" db:"visit_status"`
	VisitDate   string `json:"visitDate" bson:"visitDate" db:"visit_date"`
	VisitNotes  string `json:"visitNotes" bson:"visitNotes" db:"visit_notes"`

	// 阶段5：成交
	ConversionStatus bool    `json:"conversionStatus" bson:"conversionStatus" db:"conversion_status"`
	ConversionDate   string  `json:"conversionDate" bson:"conversionDate" db:"conversion_date"`
	ConversionCourse string  `json:"conversionCourse" bson:"conversionCourse" db:"conversion_course"`
	ConversionAmount float64 `json:"conversionAmount" bson:"conversionAmount" db:"conversion_amount"`
	ConversionNotes  string  `json:"conversionNotes" bson:"conversionNotes" db:"conversion_notes"`
}

// StageDetails 推进阶段时附带的资料，空值表示未提供
type StageDetails struct {
	Name       string
	MainCourse string
	Consultant string

	ContactDate   string
	ContactMethod string
	ContactNotes  string

	AppointmentDate  string
	AppointmentNotes string

	VisitDate  string
	VisitNotes string

	ConversionDate   string
	ConversionCourse string
	ConversionAmount float64
	ConversionNotes  string
}

// UpdateStageRequest 更新学员阶段请求
type UpdateStageRequest struct {
	Stage            string  `json:"stage" binding:"required"`
	MainCourse       string  `json:"mainCourse"`
	Consultant       string  `json:"consultant"`
	Notes            string  `json:"notes"`
	ContactMethod    string  `json:"contactMethod"`
	ContactDate      string  `json:"contactDate"`
	AppointmentDate  string  `json:"appointmentDate"`
	VisitDate        string  `json:"visitDate"`
	ConversionDate   string  `json:"conversionDate"`
	ConversionCourse string  `json:"conversionCourse"`
	ConversionAmount float64 `json:"conversionAmount"`
}
