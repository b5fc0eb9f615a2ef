package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/growthpath/backend/internal/config"
	"github.com/growthpath/backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

var ErrReportNotFound = errors.New("import report not found")

// ImportReports 把导入结果保存在 redis 中，过期后自动删除
type ImportReports struct {
	cfg *config.Config
	rdb *redis.Client
}

func NewImportReports(cfg *config.Config, rdb *redis.Client) *ImportReports {
	return &ImportReports{
		cfg: cfg,
		rdb: rdb,
	}
}

func importReportKey(runID string) string {
	return fmt.Sprintf("import_run_%s", runID)
}

func (s *ImportReports) Save(report *domain.ImportReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.Redis.OperationTimeout)*time.Second)
	defer cancel()

	expiration := time.Duration(s.cfg.Import.ReportExpiration) * time.Hour
	return s.rdb.Set(ctx, importReportKey(report.RunID), data, expiration).Err()
}

// Get 在报告不存在或已过期时返回 ErrReportNotFound
func (s *ImportReports) Get(runID string) (*domain.ImportReport, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.Redis.OperationTimeout)*time.Second)
	defer cancel()

	data, err := s.rdb.Get(ctx, importReportKey(runID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	report := &domain.ImportReport{}
	if err := json.Unmarshal(data, report); err != nil {
		return nil, err
	}

	return report, nil
}
