package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BerniceZTT/course_funnel/models"
)

// MemoryStore 内存实现，开发与测试使用
type MemoryStore struct {
	mu          sync.RWMutex
	students    []models.Student
	products    []models.Product
	funnel      map[string]models.FunnelRecord
	funnelOrder []string
	sales       []models.SaleRecord
	now         func() time.Time
}

var _ RecordStore = (*MemoryStore)(nil)

// NewMemoryStore 以给定学员与课程建立内存储存；products 为 nil 时使用默认课程
func NewMemoryStore(students []models.Student, products []models.Product) *MemoryStore {
	if products == nil {
		products = models.DefaultProducts()
	}
	return &MemoryStore{
		students: append([]models.Student(nil), students...),
		products: append([]models.Product(nil), products...),
		funnel:   make(map[string]models.FunnelRecord),
		now:      time.Now,
	}
}

// AddStudent 新增学员
func (s *MemoryStore) AddStudent(student models.Student) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students = append(s.students, student)
}

func (s *MemoryStore) ListStudents(ctx context.Context) ([]models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Student{}, s.students...), nil
}

func (s *MemoryStore) ListFunnelRecords(ctx context.Context) ([]models.FunnelRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.FunnelRecord, 0, len(s.funnelOrder))
	for _, id := range s.funnelOrder {
		out = append(out, s.funnel[id])
	}
	return out, nil
}

func (s *MemoryStore) GetFunnelRecord(ctx context.Context, studentID string) (*models.FunnelRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.funnel[studentID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *MemoryStore) SaveFunnelRecord(ctx context.Context, studentID string, rec models.FunnelRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.StudentID = studentID
	if _, ok := s.funnel[studentID]; !ok {
		s.funnelOrder = append(s.funnelOrder, studentID)
	}
	s.funnel[studentID] = rec
	return nil
}

func (s *MemoryStore) AppendSale(ctx context.Context, studentID, courseID string, quantity int) (models.SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale := models.SaleRecord{
		ID:        uuid.NewString(),
		StudentID: studentID,
		ProductID: courseID,
		Quantity:  quantity,
		Timestamp: s.now().UTC(),
	}
	s.sales = append(s.sales, sale)
	return sale, nil
}

func (s *MemoryStore) ListSales(ctx context.Context) ([]models.SaleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.SaleRecord{}, s.sales...), nil
}

func (s *MemoryStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Product{}, s.products...), nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }
