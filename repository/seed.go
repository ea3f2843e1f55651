package repository

import (
	"github.com/BerniceZTT/course_funnel/models"
)

// SeedStudents 开发环境的示范学员
func SeedStudents() []models.Student {
	return []models.Student{
		{StudentID: "S001", Name: "張三", Phone: "0912345678", Source: "FB", Consultant: "Amy", InquiryDate: "2024-03-01"},
		{StudentID: "S002", Name: "李四", Phone: "0923456789", Method: "Line", Consultant: "Amy", InquiryDate: "2024-03-04"},
		{StudentID: "S003", Name: "王五", Phone: "0934567890", Source: "官網", Consultant: "Ben", InquiryDate: "2024/3/8"},
		{StudentID: "S004", Name: "趙六", Phone: "0945678901", Source: "介紹", Consultant: "Ben", InquiryDate: "2024-03-12"},
		{StudentID: "S005", Name: "孫七", Phone: "0956789012", Source: "FB", InquiryDate: "2024-03-15"},
	}
}
