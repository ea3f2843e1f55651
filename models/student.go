package models

import (
	"time"
)

// Student 学员（来自总表）
type Student struct {
	StudentID   string `json:"studentId" bson:"studentId" db:"student_id"`
	Name        string `json:"name" bson:"name" db:"name"`
	Phone       string `json:"phone" bson:"phone" db:"phone"`
	Source      string `json:"source" bson:"source" db:"source"` // 申报来源，可能为空
	Method      string `json:"method" bson:"method" db:"method"` // 洽询方式，可能为空
	Consultant  string `json:"consultant" bson:"consultant" db:"consultant"`
	InquiryDate string `json:"inquiryDate" bson:"inquiryDate" db:"inquiry_date"`

	// 来源/方式勾选栏位，key 为分类名称，value 为原始储存格内容
	SourceFlags map[string]string `json:"sourceFlags,omitempty" bson:"sourceFlags,omitempty" db:"-"`
	MethodFlags map[string]string `json:"methodFlags,omitempty" bson:"methodFlags,omitempty" db:"-"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt" db:"created_at"`
}
