package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BerniceZTT/course_funnel/funnel"
	"github.com/BerniceZTT/course_funnel/models"
	"github.com/BerniceZTT/course_funnel/repository"
	"github.com/BerniceZTT/course_funnel/utils"
)

var (
	ErrStudentNotFound      = errors.New("student not found")
	ErrFunnelRecordNotFound = errors.New("funnel record not found")
	ErrInvalidStage         = errors.New("stage is required")
	ErrInvalidSale          = errors.New("studentId and productId are required")
)

// FunnelService 组合储存层与漏斗计算
type FunnelService struct {
	Store repository.RecordStore
	Clock funnel.Clock
}

// NewFunnelService 建立服务，clock 为 nil 时使用系统时间
func NewFunnelService(store repository.RecordStore, clock funnel.Clock) *FunnelService {
	if clock == nil {
		clock = funnel.SystemClock{}
	}
	return &FunnelService{Store: store, Clock: clock}
}

// Analytics 漏斗分析
func (s *FunnelService) Analytics(ctx context.Context, r *models.DateRange) (models.FunnelAnalytics, error) {
	students, err := s.Store.ListStudents(ctx)
	if err != nil {
		return models.FunnelAnalytics{}, err
	}
	records, err := s.Store.ListFunnelRecords(ctx)
	if err != nil {
		return models.FunnelAnalytics{}, err
	}
	return funnel.ComputeFunnelAnalytics(students, records, r), nil
}

// ConsultantPerformance 顾问业绩
func (s *FunnelService) ConsultantPerformance(ctx context.Context, r *models.DateRange) ([]models.ConsultantPerformance, error) {
	records, err := s.Store.ListFunnelRecords(ctx)
	if err != nil {
		return nil, err
	}
	return funnel.ComputeConsultantPerformance(records, r), nil
}

// GetStudentFunnel 查询单一学员的流程追踪记录
func (s *FunnelService) GetStudentFunnel(ctx context.Context, studentID string) (*models.FunnelRecord, error) {
	rec, err := s.Store.GetFunnelRecord(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%s: %w", studentID, ErrFunnelRecordNotFound)
	}
	return rec, nil
}

// AdvanceStudentStage 推进学员阶段，记录不存在时新建
func (s *FunnelService) AdvanceStudentStage(ctx context.Context, studentID string, req models.UpdateStageRequest) (models.FunnelRecord, error) {
	stage := strings.TrimSpace(req.Stage)
	if stage == "" {
		return models.FunnelRecord{}, ErrInvalidStage
	}

	student, err := s.findStudent(ctx, studentID)
	if err != nil {
		return models.FunnelRecord{}, err
	}

	existing, err := s.Store.GetFunnelRecord(ctx, studentID)
	if err != nil {
		return models.FunnelRecord{}, err
	}
	rec := funnel.NewFunnelRecord(*student)
	if existing != nil {
		rec = *existing
	}

	// 单一备注栏位套用到各阶段
	details := models.StageDetails{
		Name:             student.Name,
		MainCourse:       req.MainCourse,
		Consultant:       req.Consultant,
		ContactDate:      req.ContactDate,
		ContactMethod:    req.ContactMethod,
		ContactNotes:     req.Notes,
		AppointmentDate:  req.AppointmentDate,
		AppointmentNotes: req.Notes,
		VisitDate:        req.VisitDate,
		VisitNotes:       req.Notes,
		ConversionDate:   req.ConversionDate,
		ConversionCourse: req.ConversionCourse,
		ConversionAmount: req.ConversionAmount,
		ConversionNotes:  req.Notes,
	}
	rec = funnel.AdvanceStage(rec, stage, details, s.Clock)

	if err := s.Store.SaveFunnelRecord(ctx, studentID, rec); err != nil {
		return models.FunnelRecord{}, err
	}

	utils.Logger.Info().
		Str("studentId", studentID).
		Str("stage", rec.CurrentStage).
		Msg("学员阶段已更新")
	return rec, nil
}

// RecordSale 新增成交回报，数量预设为 1
func (s *FunnelService) RecordSale(ctx context.Context, req models.CreateSaleRequest) (models.SaleRecord, error) {
	studentID := strings.TrimSpace(req.StudentID)
	productID := strings.TrimSpace(req.ProductID)
	if studentID == "" || productID == "" {
		return models.SaleRecord{}, ErrInvalidSale
	}
	if req.Quantity < 0 {
		return models.SaleRecord{}, fmt.Errorf("quantity %d: %w", req.Quantity, ErrInvalidSale)
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	sale, err := s.Store.AppendSale(ctx, studentID, productID, quantity)
	if err != nil {
		return models.SaleRecord{}, err
	}

	utils.Logger.Info().
		Str("studentId", studentID).
		Str("productId", productID).
		Int("quantity", quantity).
		Msg("新增成交回报")
	return sale, nil
}

func (s *FunnelService) ListStudents(ctx context.Context) ([]models.Student, error) {
	return s.Store.ListStudents(ctx)
}

func (s *FunnelService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Store.ListProducts(ctx)
}

// SalesDashboard 学员 × 课程成交矩阵
func (s *FunnelService) SalesDashboard(ctx context.Context) (models.SalesDashboard, error) {
	students, err := s.Store.ListStudents(ctx)
	if err != nil {
		return models.SalesDashboard{}, err
	}
	products, err := s.Store.ListProducts(ctx)
	if err != nil {
		return models.SalesDashboard{}, err
	}
	sales, err := s.Store.ListSales(ctx)
	if err != nil {
		return models.SalesDashboard{}, err
	}
	return funnel.BuildSalesDashboard(students, products, sales), nil
}

// SyncFunnelRecords 为尚无流程追踪记录的学员建立首次洽询记录，返回新建数量
func (s *FunnelService) SyncFunnelRecords(ctx context.Context) (int, error) {
	students, err := s.Store.ListStudents(ctx)
	if err != nil {
		return 0, err
	}
	records, err := s.Store.ListFunnelRecords(ctx)
	if err != nil {
		return 0, err
	}

	tracked := make(map[string]bool, len(records))
	for _, rec := range records {
		tracked[rec.StudentID] = true
	}

	created := 0
	for _, st := range students {
		if st.StudentID == "" || tracked[st.StudentID] {
			continue
		}
		if err := s.Store.SaveFunnelRecord(ctx, st.StudentID, funnel.NewFunnelRecord(st)); err != nil {
			return created, err
		}
		tracked[st.StudentID] = true
		created++
	}
	return created, nil
}

func (s *FunnelService) findStudent(ctx context.Context, studentID string) (*models.Student, error) {
	students, err := s.Store.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	for i := range students {
		if students[i].StudentID == studentID {
			return &students[i], nil
		}
	}
	return nil, fmt.Errorf("%s: %w", studentID, ErrStudentNotFound)
}
