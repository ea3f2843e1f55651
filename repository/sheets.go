package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/BerniceZTT/course_funnel/funnel"
	"github.com/BerniceZTT/course_funnel/models"
	"github.com/BerniceZTT/course_funnel/utils"
)

// 工作表范围
const (
	studentsRange    = "'總表'!A2:Z"
	funnelSheet      = "'流程追蹤'"
	funnelRange      = funnelSheet + "!A2:T"
	funnelAppendCols = funnelSheet + "!A:T"
	salesRange       = "'成交回報_DB'!A2:D"
	salesAppendCols  = "'成交回報_DB'!A:D"

	valueInputOption = "USER_ENTERED"
	sheetsRetries    = 3
)

// 总表栏位
const (
	studentColID          = 0  // A - 學號
	studentColName        = 1  // B - 姓名
	studentColPhone       = 2  // C - 電話
	studentColConsultant  = 4  // E - 首次接待人
	studentColInquiryDate = 5  // F - 洽詢日期
	studentColMethodStart = 7  // H..Q - 洽詢方式勾選
	studentColSourceStart = 17 // R..Z - 來源勾選
)

// 流程追踪栏位
const (
	funnelColStudentID         = 0  // A - 學號
	funnelColName              = 1  // B - 姓名
	funnelColMainCourse        = 2  // C - 主洽課程
	funnelColCurrentStage      = 3  // D - 當前階段
	funnelColConsultant        = 4  // E - 首次接待人
	funnelColContactStatus     = 5  // F
	funnelColContactDate       = 6  // G
	funnelColContactMethod     = 7  // H
	funnelColContactNotes      = 8  // I
	funnelColAppointmentStatus = 9  // J
	funnelColAppointmentDate   = 10 // K
	funnelColAppointmentNotes  = 11 // L
	funnelColVisitStatus       = 12 // M
	funnelColVisitDate         = 13 // N
	funnelColVisitNotes        = 14 // O
	funnelColConversionStatus  = 15 // P
	funnelColConversionDate    = 16 // Q
	funnelColConversionCourse  = 17 // R
	funnelColConversionAmount  = 18 // S
	funnelColConversionNotes   = 19 // T
)

// SheetsStore 以 Google 试算表作为记录来源
type SheetsStore struct {
	srv           *sheets.Service
	spreadsheetID string
	products      []models.Product
}

var _ RecordStore = (*SheetsStore)(nil)

// NewSheetsStore 建立试算表储存；opts 为空时使用预设凭证
func NewSheetsStore(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*SheetsStore, error) {
	if spreadsheetID == "" {
		return nil, errors.New("缺少试算表ID")
	}

	opts = append([]option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}, opts...)
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, unavailable("建立 Sheets 服务失败", err)
	}

	utils.Logger.Info().Str("spreadsheetId", spreadsheetID).Msg("已连接到Google试算表")
	return &SheetsStore{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		products:      models.DefaultProducts(),
	}, nil
}

// SheetsCredentials 依设定选择凭证来源：JSON 字串优先，其次档案
func SheetsCredentials(credentialsJSON, credentialsFile string) []option.ClientOption {
	if credentialsJSON != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(credentialsJSON))}
	}
	if credentialsFile != "" {
		return []option.ClientOption{option.WithCredentialsFile(credentialsFile)}
	}
	return nil
}

func (s *SheetsStore) ListStudents(ctx context.Context) ([]models.Student, error) {
	rows, err := s.getValues(ctx, studentsRange)
	if err != nil {
		return nil, unavailable("读取总表失败", err)
	}

	students := make([]models.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, rowToStudent(row))
	}
	return students, nil
}

func (s *SheetsStore) ListFunnelRecords(ctx context.Context) ([]models.FunnelRecord, error) {
	rows, err := s.getValues(ctx, funnelRange)
	if err != nil {
		return nil, unavailable("读取流程追踪失败", err)
	}

	records := make([]models.FunnelRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, rowToFunnelRecord(row))
	}
	return records, nil
}

func (s *SheetsStore) GetFunnelRecord(ctx context.Context, studentID string) (*models.FunnelRecord, error) {
	records, err := s.ListFunnelRecords(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].StudentID == studentID {
			return &records[i], nil
		}
	}
	return nil, nil
}

// SaveFunnelRecord 写入当下才定位列号；A、B、E 栏由公式同步，不覆写
func (s *SheetsStore) SaveFunnelRecord(ctx context.Context, studentID string, rec models.FunnelRecord) error {
	rows, err := s.getValues(ctx, funnelRange)
	if err != nil {
		return unavailable("读取流程追踪失败", err)
	}

	rowNumber := 0
	for i, row := range rows {
		if cell(row, funnelColStudentID) == studentID {
			rowNumber = i + 2
			break
		}
	}

	rec.StudentID = studentID
	full := funnelRecordToRow(rec)

	if rowNumber == 0 {
		_, err = ExecuteDbOperation(ctx, sheetsRetries, isRetryableSheetsError, func() (*sheets.AppendValuesResponse, error) {
			return s.srv.Spreadsheets.Values.Append(s.spreadsheetID, funnelAppendCols, &sheets.ValueRange{
				Values: [][]interface{}{full},
			}).ValueInputOption(valueInputOption).Context(ctx).Do()
		})
		if err != nil {
			return unavailable("新增流程追踪列失败", err)
		}
		return nil
	}

	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: valueInputOption,
		Data: []*sheets.ValueRange{
			{
				Range:  fmt.Sprintf("%s!C%d:D%d", funnelSheet, rowNumber, rowNumber),
				Values: [][]interface{}{full[funnelColMainCourse : funnelColCurrentStage+1]},
			},
			{
				Range:  fmt.Sprintf("%s!F%d:T%d", funnelSheet, rowNumber, rowNumber),
				Values: [][]interface{}{full[funnelColContactStatus:]},
			},
		},
	}
	_, err = ExecuteDbOperation(ctx, sheetsRetries, isRetryableSheetsError, func() (*sheets.BatchUpdateValuesResponse, error) {
		return s.srv.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
	})
	if err != nil {
		return unavailable("更新流程追踪列失败", err)
	}
	return nil
}

func (s *SheetsStore) AppendSale(ctx context.Context, studentID, courseID string, quantity int) (models.SaleRecord, error) {
	sale := models.SaleRecord{
		ID:        uuid.NewString(),
		StudentID: studentID,
		ProductID: courseID,
		Quantity:  quantity,
		Timestamp: time.Now().UTC(),
	}
	values := [][]interface{}{{sale.Timestamp.Format(time.RFC3339), studentID, courseID, quantity}}

	_, err := ExecuteDbOperation(ctx, sheetsRetries, isRetryableSheetsError, func() (*sheets.AppendValuesResponse, error) {
		return s.srv.Spreadsheets.Values.Append(s.spreadsheetID, salesAppendCols, &sheets.ValueRange{
			Values: values,
		}).ValueInputOption(valueInputOption).Context(ctx).Do()
	})
	if err != nil {
		return models.SaleRecord{}, unavailable("新增成交回报失败", err)
	}
	return sale, nil
}

func (s *SheetsStore) ListSales(ctx context.Context) ([]models.SaleRecord, error) {
	rows, err := s.getValues(ctx, salesRange)
	if err != nil {
		return nil, unavailable("读取成交回报失败", err)
	}

	sales := make([]models.SaleRecord, 0, len(rows))
	for _, row := range rows {
		sales = append(sales, rowToSale(row))
	}
	return sales, nil
}

// ListProducts 课程清单是静态资料
func (s *SheetsStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	return append([]models.Product{}, s.products...), nil
}

func (s *SheetsStore) Close(ctx context.Context) error { return nil }

func (s *SheetsStore) getValues(ctx context.Context, readRange string) ([][]interface{}, error) {
	resp, err := ExecuteDbOperation(ctx, sheetsRetries, isRetryableSheetsError, func() (*sheets.ValueRange, error) {
		return s.srv.Spreadsheets.Values.Get(s.spreadsheetID, readRange).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	utils.LogDbOperation("values.get", readRange, nil, len(resp.Values))
	return resp.Values, nil
}

// isRetryableSheetsError 限流与服务端错误可以重试
func isRetryableSheetsError(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}
	return isNetworkError(err)
}

func rowToStudent(row []interface{}) models.Student {
	student := models.Student{
		StudentID:   cell(row, studentColID),
		Name:        cell(row, studentColName),
		Phone:       cell(row, studentColPhone),
		Consultant:  cell(row, studentColConsultant),
		InquiryDate: cell(row, studentColInquiryDate),
		SourceFlags: make(map[string]string),
		MethodFlags: make(map[string]string),
	}
	for i, c := range funnel.MethodCategories {
		if v := cell(row, studentColMethodStart+i); v != "" {
			student.MethodFlags[c.Name] = v
		}
	}
	for i, c := range funnel.SourceCategories {
		if v := cell(row, studentColSourceStart+i); v != "" {
			student.SourceFlags[c.Name] = v
		}
	}
	return student
}

func rowToFunnelRecord(row []interface{}) models.FunnelRecord {
	stage := cell(row, funnelColCurrentStage)
	if stage == "" {
		stage = string(models.StageInquiry)
	}
	amount, _ := strconv.ParseFloat(strings.ReplaceAll(cell(row, funnelColConversionAmount), ",", ""), 64)

	return models.FunnelRecord{
		StudentID:    cell(row, funnelColStudentID),
		Name:         cell(row, funnelColName),
		MainCourse:   cell(row, funnelColMainCourse),
		CurrentStage: stage,
		Consultant:   cell(row, funnelColConsultant),

		ContactStatus: cell(row, funnelColContactStatus) == "TRUE",
		ContactDate:   cell(row, funnelColContactDate),
		ContactMethod: cell(row, funnelColContactMethod),
		ContactNotes:  cell(row, funnelColContactNotes),

		AppointmentStatus: cell(row, funnelColAppointmentStatus) == "TRUE",
		AppointmentDate:   cell(row, funnelColAppointmentDate),
		AppointmentNotes:  cell(row, funnelColAppointmentNotes),

		VisitStatus: cell(row, funnelColVisitStatus) == "TRUE",
		VisitDate:   cell(row, funnelColVisitDate),
		VisitNotes:  cell(row, funnelColVisitNotes),

		ConversionStatus: cell(row, funnelColConversionStatus) == "TRUE",
		ConversionDate:   cell(row, funnelColConversionDate),
		ConversionCourse: cell(row, funnelColConversionCourse),
		ConversionAmount: amount,
		ConversionNotes:  cell(row, funnelColConversionNotes),
	}
}

func funnelRecordToRow(rec models.FunnelRecord) []interface{} {
	return []interface{}{
		rec.StudentID,
		rec.Name,
		rec.MainCourse,
		rec.CurrentStage,
		rec.Consultant,
		boolCell(rec.ContactStatus),
		rec.ContactDate,
		rec.ContactMethod,
		rec.ContactNotes,
		boolCell(rec.AppointmentStatus),
		rec.AppointmentDate,
		rec.AppointmentNotes,
		boolCell(rec.VisitStatus),
		rec.VisitDate,
		rec.VisitNotes,
		boolCell(rec.ConversionStatus),
		rec.ConversionDate,
		rec.ConversionCourse,
		rec.ConversionAmount,
		rec.ConversionNotes,
	}
}

func rowToSale(row []interface{}) models.SaleRecord {
	ts, _ := time.Parse(time.RFC3339, cell(row, 0))
	// 空白或无效数量视为 0，不计入成交
	qty, err := strconv.Atoi(cell(row, 3))
	if err != nil || qty < 0 {
		qty = 0
	}
	return models.SaleRecord{
		Timestamp: ts,
		StudentID: cell(row, 1),
		ProductID: cell(row, 2),
		Quantity:  qty,
	}
}

func cell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	if s, ok := row[i].(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}

func boolCell(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}
