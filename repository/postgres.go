package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for sqlx
	"github.com/jmoiron/sqlx"

	"github.com/BerniceZTT/course_funnel/models"
	"github.com/BerniceZTT/course_funnel/utils"
)

//go:embed postgres_schema.sql
var postgresSchema string

const postgresRetries = 3

// PostgresStore PostgreSQL 实现
type PostgresStore struct {
	db *sqlx.DB
}

var _ RecordStore = (*PostgresStore)(nil)

// NewPostgresStore 连接数据库并建立资料表
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, unavailable("连接PostgreSQL失败", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, unavailable("ping PostgreSQL失败", err)
	}

	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		return nil, unavailable("建立资料表失败", err)
	}

	utils.Logger.Info().Msg("已连接到PostgreSQL")
	return &PostgresStore{db: db}, nil
}

type studentFlagRow struct {
	StudentID string `db:"student_id"`
	Kind      string `db:"kind"`
	Category  string `db:"category"`
	Value     string `db:"value"`
}

const sqlListStudents = `
SELECT student_id, name, phone, source, method, consultant, inquiry_date, created_at
FROM students
ORDER BY created_at ASC
`

const sqlListStudentFlags = `
SELECT student_id, kind, category, value
FROM student_flags
`

func (s *PostgresStore) ListStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := s.selectAll(ctx, &students, sqlListStudents); err != nil {
		return nil, unavailable("查询学员失败", err)
	}

	var flags []studentFlagRow
	if err := s.selectAll(ctx, &flags, sqlListStudentFlags); err != nil {
		return nil, unavailable("查询学员勾选栏位失败", err)
	}

	index := make(map[string]int, len(students))
	for i := range students {
		index[students[i].StudentID] = i
	}
	for _, f := range flags {
		i, ok := index[f.StudentID]
		if !ok {
			continue
		}
		st := &students[i]
		switch f.Kind {
		case "source":
			if st.SourceFlags == nil {
				st.SourceFlags = make(map[string]string)
			}
			st.SourceFlags[f.Category] = f.Value
		case "method":
			if st.MethodFlags == nil {
				st.MethodFlags = make(map[string]string)
			}
			st.MethodFlags[f.Category] = f.Value
		}
	}
	return students, nil
}

const funnelColumns = `
student_id, name, main_course, current_stage, consultant,
contact_status, contact_date, contact_method, contact_notes,
appointment_status, appointment_date, appointment_notes,
visit_status, visit_date, visit_notes,
conversion_status, conversion_date, conversion_course, conversion_amount, conversion_notes
`

const sqlListFunnelRecords = `SELECT` + funnelColumns + `FROM funnel_records ORDER BY created_at ASC`

const sqlGetFunnelRecord = `SELECT` + funnelColumns + `FROM funnel_records WHERE student_id = $1`

const sqlUpsertFunnelRecord = `
INSERT INTO funnel_records (` + funnelColumns + `)
VALUES (
	:student_id, :name, :main_course, :current_stage, :consultant,
	:contact_status, :contact_date, :contact_method, :contact_notes,
	:appointment_status, :appointment_date, :appointment_notes,
	:visit_status, :visit_date, :visit_notes,
	:conversion_status, :conversion_date, :conversion_course, :conversion_amount, :conversion_notes
)
ON CONFLICT (student_id) DO UPDATE SET
	name = EXCLUDED.name,
	main_course = EXCLUDED.main_course,
	current_stage = EXCLUDED.current_stage,
	consultant = EXCLUDED.consultant,
	contact_status = EXCLUDED.contact_status,
	contact_date = EXCLUDED.contact_date,
	contact_method = EXCLUDED.contact_method,
	contact_notes = EXCLUDED.contact_notes,
	appointment_status = EXCLUDED.appointment_status,
	appointment_date = EXCLUDED.appointment_date,
	appointment_notes = EXCLUDED.appointment_notes,
	visit_status = EXCLUDED.visit_status,
	visit_date = EXCLUDED.visit_date,
	visit_notes = EXCLUDED.visit_notes,
	conversion_status = EXCLUDED.conversion_status,
	conversion_date = EXCLUDED.conversion_date,
	conversion_course = EXCLUDED.conversion_course,
	conversion_amount = EXCLUDED.conversion_amount,
	conversion_notes = EXCLUDED.conversion_notes,
	updated_at = NOW()
`

func (s *PostgresStore) ListFunnelRecords(ctx context.Context) ([]models.FunnelRecord, error) {
	var records []models.FunnelRecord
	if err := s.selectAll(ctx, &records, sqlListFunnelRecords); err != nil {
		return nil, unavailable("查询流程追踪记录失败", err)
	}
	return records, nil
}

func (s *PostgresStore) GetFunnelRecord(ctx context.Context, studentID string) (*models.FunnelRecord, error) {
	rec, err := ExecuteDbOperation(ctx, postgresRetries, isNetworkError, func() (*models.FunnelRecord, error) {
		var rec models.FunnelRecord
		err := s.db.GetContext(ctx, &rec, sqlGetFunnelRecord, studentID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &rec, nil
	})
	if err != nil {
		return nil, unavailable("查询流程追踪记录失败", err)
	}
	return rec, nil
}

func (s *PostgresStore) SaveFunnelRecord(ctx context.Context, studentID string, rec models.FunnelRecord) error {
	rec.StudentID = studentID
	_, err := ExecuteDbOperation(ctx, postgresRetries, isNetworkError, func() (sql.Result, error) {
		return s.db.NamedExecContext(ctx, sqlUpsertFunnelRecord, rec)
	})
	if err != nil {
		return unavailable("保存流程追踪记录失败", err)
	}
	return nil
}

const sqlInsertSale = `
INSERT INTO sales (id, student_id, product_id, quantity, created_at)
VALUES ($1, $2, $3, $4, $5)
`

const sqlListSales = `
SELECT id, student_id, product_id, quantity, created_at
FROM sales
ORDER BY created_at ASC
`

func (s *PostgresStore) AppendSale(ctx context.Context, studentID, courseID string, quantity int) (models.SaleRecord, error) {
	sale := models.SaleRecord{
		ID:        uuid.NewString(),
		StudentID: studentID,
		ProductID: courseID,
		Quantity:  quantity,
		Timestamp: time.Now().UTC(),
	}
	_, err := ExecuteDbOperation(ctx, postgresRetries, isNetworkError, func() (sql.Result, error) {
		return s.db.ExecContext(ctx, sqlInsertSale, sale.ID, sale.StudentID, sale.ProductID, sale.Quantity, sale.Timestamp)
	})
	if err != nil {
		return models.SaleRecord{}, unavailable("新增成交记录失败", err)
	}
	return sale, nil
}

func (s *PostgresStore) ListSales(ctx context.Context) ([]models.SaleRecord, error) {
	var sales []models.SaleRecord
	if err := s.selectAll(ctx, &sales, sqlListSales); err != nil {
		return nil, unavailable("查询成交记录失败", err)
	}
	return sales, nil
}

const sqlListProducts = `SELECT id, name, price FROM products ORDER BY name ASC`

func (s *PostgresStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.selectAll(ctx, &products, sqlListProducts); err != nil {
		return nil, unavailable("查询课程失败", err)
	}
	return products, nil
}

func (s *PostgresStore) Close(ctx context.Context) error {
	return s.db.Close()
}

func (s *PostgresStore) selectAll(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	_, err := ExecuteDbOperation(ctx, postgresRetries, isNetworkError, func() (struct{}, error) {
		return struct{}{}, s.db.SelectContext(ctx, dest, query, args...)
	})
	return err
}
