package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BerniceZTT/course_funnel/models"
	"github.com/BerniceZTT/course_funnel/utils"
)

// ErrStoreUnavailable 储存层无法连线或读写失败
var ErrStoreUnavailable = errors.New("record store unavailable")

// RecordStore 学员、课程、成交与流程追踪记录的来源
type RecordStore interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	ListFunnelRecords(ctx context.Context) ([]models.FunnelRecord, error)
	// GetFunnelRecord 不存在时返回 nil, nil
	GetFunnelRecord(ctx context.Context, studentID string) (*models.FunnelRecord, error)
	// SaveFunnelRecord 建立或整笔取代
	SaveFunnelRecord(ctx context.Context, studentID string, rec models.FunnelRecord) error
	AppendSale(ctx context.Context, studentID, courseID string, quantity int) (models.SaleRecord, error)
	ListSales(ctx context.Context) ([]models.SaleRecord, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	Close(ctx context.Context) error
}

// unavailable 包装 I/O 错误，errors.Is 可同时辨识 ErrStoreUnavailable 与原始错误
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// ExecuteDbOperation 执行储存操作，对可重试的错误做退避重试
func ExecuteDbOperation[T any](ctx context.Context, retries int, retryable func(error) bool, operation func() (T, error)) (T, error) {
	if retries <= 0 {
		retries = 3
	}

	var zero T
	var lastErr error
	for i := 0; i < retries; i++ {
		result, err := operation()
		if err == nil {
			return result, nil
		}

		lastErr = err

		// 不可重试的错误立即返回
		if retryable == nil || !retryable(err) {
			utils.Logger.Error().Err(err).Msg("储存操作失败")
			break
		}
		if i == retries-1 {
			utils.Logger.Error().Err(err).Int("attempts", retries).Msg("储存操作失败，重试次数已用尽")
			break
		}
		utils.Logger.Warn().Err(err).Msgf("储存操作失败，重试 (%d/%d)", i+1, retries-1)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(time.Duration(500*(i+1)) * time.Millisecond):
		}
	}

	return zero, lastErr
}

// isNetworkError 检查是否是网络错误
func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	networkErrors := []string{
		"connection refused",
		"connection reset",
		"connection closed",
		"no reachable servers",
		"timeout",
		"server selection error",
		"broken pipe",
	}
	for _, ne := range networkErrors {
		if strings.Contains(errMsg, ne) {
			return true
		}
	}
	return false
}
