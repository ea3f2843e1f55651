package funnel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/course_funnel/models"
)

func TestBuildSalesDashboard(t *testing.T) {
	students := []models.Student{
		{StudentID: "S001", Name: "張三", Phone: "0912345678", Source: "FB"},
		{StudentID: "S002", Name: "李四", SourceFlags: map[string]string{"PTT": "TRUE"}},
		{StudentID: "S003", Name: "王五"},
	}
	products := []models.Product{{ID: "美甲全科", Name: "美甲全科"}, {ID: "美睫全科", Name: "美睫全科"}}
	sales := []models.SaleRecord{
		{StudentID: "S001", ProductID: "美甲全科", Quantity: 1},
		{StudentID: "S001", ProductID: "美甲全科", Quantity: 2},
		{StudentID: "S002", ProductID: "已下架課程", Quantity: 1},
	}

	got := BuildSalesDashboard(students, products, sales)

	require.Len(t, got.Students, 3)
	assert.Equal(t, products, got.Products)

	assert.True(t, got.Students[0].IsConverted)
	assert.Equal(t, map[string]int{"美甲全科": 3, "美睫全科": 0}, got.Students[0].Sales)
	assert.Equal(t, "FB", got.Students[0].Source)

	// 已下架课程不列入栏位，但仍算作成交
	assert.True(t, got.Students[1].IsConverted)
	assert.Equal(t, map[string]int{"美甲全科": 0, "美睫全科": 0}, got.Students[1].Sales)
	assert.Equal(t, "PTT", got.Students[1].Source)

	assert.False(t, got.Students[2].IsConverted)
}

func TestBuildSalesDashboard_Empty(t *testing.T) {
	got := BuildSalesDashboard(nil, nil, nil)

	assert.NotNil(t, got.Students)
	assert.NotNil(t, got.Products)
	assert.Empty(t, got.Students)
}
