package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/course_funnel/models"
)

func TestMemoryStoreFunnelRecords(t *testing.T) {
	store := NewMemoryStore(SeedStudents(), nil)
	ctx := context.Background()

	rec, err := store.GetFunnelRecord(ctx, "S001")
	require.NoError(t, err)
	assert.Nil(t, rec)

	require.NoError(t, store.SaveFunnelRecord(ctx, "S002", models.FunnelRecord{CurrentStage: string(models.StageInquiry)}))
	require.NoError(t, store.SaveFunnelRecord(ctx, "S001", models.FunnelRecord{CurrentStage: string(models.StageInquiry)}))
	require.NoError(t, store.SaveFunnelRecord(ctx, "S002", models.FunnelRecord{CurrentStage: string(models.StageContactSuccess)}))

	records, err := store.ListFunnelRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	// 依首次写入顺序
	assert.Equal(t, "S002", records[0].StudentID)
	assert.Equal(t, string(models.StageContactSuccess), records[0].CurrentStage)
	assert.Equal(t, "S001", records[1].StudentID)

	rec, err = store.GetFunnelRecord(ctx, "S002")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "S002", rec.StudentID)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore(SeedStudents(), nil)
	ctx := context.Background()

	students, err := store.ListStudents(ctx)
	require.NoError(t, err)
	students[0].Name = "changed"

	again, err := store.ListStudents(ctx)
	require.NoError(t, err)
	assert.Equal(t, "張三", again[0].Name)

	products, err := store.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultProducts(), products)
}

func TestMemoryStoreSales(t *testing.T) {
	store := NewMemoryStore(nil, []models.Product{})
	store.now = func() time.Time { return time.Date(2024, 3, 1, 8, 0, 0, 0, time.FixedZone("CST", 8*3600)) }
	ctx := context.Background()

	sale, err := store.AppendSale(ctx, "S001", "美甲全科", 2)
	require.NoError(t, err)
	assert.NotEmpty(t, sale.ID)
	assert.Equal(t, time.UTC, sale.Timestamp.Location())
	assert.Equal(t, 2, sale.Quantity)

	sales, err := store.ListSales(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.SaleRecord{sale}, sales)

	products, err := store.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestMemoryStoreConcurrentSaves(t *testing.T) {
	store := NewMemoryStore(SeedStudents(), nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.SaveFunnelRecord(ctx, "S001", models.FunnelRecord{CurrentStage: string(models.StageContactSuccess)})
			_, _ = store.AppendSale(ctx, "S001", "美睫全科", 1)
		}()
	}
	wg.Wait()

	records, err := store.ListFunnelRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	sales, err := store.ListSales(ctx)
	require.NoError(t, err)
	assert.Len(t, sales, 50)
}

func TestMemoryStoreAddStudent(t *testing.T) {
	store := NewMemoryStore(SeedStudents(), nil)
	ctx := context.Background()

	store.AddStudent(models.Student{StudentID: "S006", Name: "周八", Consultant: "Ben", InquiryDate: "2024-03-20"})

	students, err := store.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 6)
	assert.Equal(t, "S006", students[5].StudentID)
}
