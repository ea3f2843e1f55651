package models

import (
	"time"
)

// Product 课程
type Product struct {
	ID    string  `json:"id" bson:"_id" db:"id"`
	Name  string  `json:"name" bson:"name" db:"name"`
	Price float64 `json:"price" bson:"price" db:"price"`
}

// SaleRecord 成交回报，只追加
type SaleRecord struct {
	ID        string    `json:"id" bson:"_id" db:"id"`
	StudentID string    `json:"studentId" bson:"studentId" db:"student_id"`
	ProductID string    `json:"productId" bson:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" bson:"quantity" db:"quantity"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp" db:"created_at"`
}

// CreateSaleRequest 新增成交请求
type CreateSaleRequest struct {
	StudentID string `json:"studentId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"gte=0"` // 0 表示预设 1
}

// DefaultProducts 课程清单（静态参考资料）
func DefaultProducts() []Product {
	return []Product{
		{ID: "美容丙級", Name: "美容丙級", Price: 0},
		{ID: "美容乙級", Name: "美容乙級", Price: 0},
		{ID: "紋繡全科", Name: "紋繡全科", Price: 0},
		{ID: "美甲全科", Name: "美甲全科", Price: 0},
		{ID: "美睫全科", Name: "美睫全科", Price: 0},
	}
}
