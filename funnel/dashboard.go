package funnel

import (
	"github.com/BerniceZTT/course_funnel/models"
)

// BuildSalesDashboard 组出学员 x 课程的成交数量表
func BuildSalesDashboard(students []models.Student, products []models.Product, sales []models.SaleRecord) models.SalesDashboard {
	byStudent := make(map[string][]models.SaleRecord)
	for _, sale := range sales {
		byStudent[sale.StudentID] = append(byStudent[sale.StudentID], sale)
	}

	rows := make([]models.StudentSalesRow, 0, len(students))
	for _, s := range students {
		salesMap := make(map[string]int, len(products))
		for _, p := range products {
			salesMap[p.ID] = 0
		}

		total := 0
		for _, sale := range byStudent[s.StudentID] {
			total += sale.Quantity
			if _, ok := salesMap[sale.ProductID]; ok {
				salesMap[sale.ProductID] += sale.Quantity
			}
		}

		rows = append(rows, models.StudentSalesRow{
			StudentID:   s.StudentID,
			Name:        s.Name,
			Phone:       s.Phone,
			Source:      firstNonEmpty(s.Source, Classify(s, SourceCategories)),
			IsConverted: total > 0,
			Sales:       salesMap,
		})
	}

	if products == nil {
		products = []models.Product{}
	}
	return models.SalesDashboard{Students: rows, Products: products}
}
