package importer

import (
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/growthpath/backend/internal/config"
	"github.com/growthpath/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Tx 是导入事务内可用的操作，查询不到时返回 sql.ErrNoRows
type Tx interface {
	GetUserByEmail(email string) (*domain.User, error)
	CreateUser(user *domain.User) error
	GetCompetencyByName(name string) (*domain.Competency, error)
	CreateCompetency(competency *domain.Competency) error
	AssessmentExists(userID, competencyID int64, level domain.ProficiencyLevel) (bool, error)
	CreateAssessment(assessment *domain.Assessment) error
}

type Store interface {
	// RunImport 在一个事务中执行 fn，fn 返回错误时整个事务回滚
	RunImport(fn func(tx Tx) error) error
}

// StagedRow 是通过校验、等待写入的一行数据
type StagedRow struct {
	Index       int
	Name        string
	Email       string
	Skillset    string
	Description string
	Category    domain.CompetencyCategory
	Level       LevelMapping
}

type Batch struct {
	Rows       []*StagedRow
	Statistics *domain.ImportStatistics
}

type Importer struct {
	store           Store
	emailDomain     string
	placeholderHash string
}

func NewImporter(cfg *config.Config, store Store) (*Importer, error) {
	// 所有导入创建的用户共用一个占位密码哈希
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Import.PlaceholderPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &Importer{
		store:           store,
		emailDomain:     cfg.Import.EmailDomain,
		placeholderHash: string(hash),
	}, nil
}

// Import 读取工作簿，校验所有行后在一个事务中写入
func (im *Importer) Import(r io.Reader) (*domain.ImportStatistics, error) {
	sheet, err := ReadSheet(r)
	if err != nil {
		return nil, err
	}

	batch, err := im.Stage(sheet)
	if err != nil {
		return nil, err
	}

	if err := im.Persist(batch); err != nil {
		return nil, err
	}

	return batch.Statistics, nil
}

// Stage 不访问数据库，跳过的行和无法识别的等级记录在统计中
func (im *Importer) Stage(sheet *Sheet) (*Batch, error) {
	if missing := sheet.MissingColumns(RequiredColumns); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	batch := &Batch{
		Rows:       make([]*StagedRow, 0, len(sheet.Rows)),
		Statistics: domain.NewImportStatistics(),
	}
	stats := batch.Statistics

	for idx, row := range sheet.Rows {
		// 单元格原样使用，姓名决定派生的邮箱
		name := sheet.Value(row, ColumnName)
		skillset := sheet.Value(row, ColumnSkillset)
		if name == "" || skillset == "" {
			stats.RowsSkipped++
			continue
		}

		level := MapSkillsetLevel(sheet.Value(row, ColumnLevel))
		if !level.Mapped {
			stats.UnmappedLevels = append(stats.UnmappedLevels, domain.UnmappedLevel{Row: idx, Value: level.Original})
		}

		batch.Rows = append(batch.Rows, &StagedRow{
			Index:       idx,
			Name:        name,
			Email:       DeriveEmail(name, im.emailDomain),
			Skillset:    skillset,
			Description: sheet.Value(row, ColumnDescription),
			Category:    MapCategory(sheet.Value(row, ColumnCategory)),
			Level:       level,
		})
	}

	return batch, nil
}

// Persist 任何一行写入失败都会回滚整个文件
func (im *Importer) Persist(batch *Batch) error {
	counts := domain.ImportStatistics{}

	err := im.store.RunImport(func(tx Tx) error {
		counts = domain.ImportStatistics{}
		for _, row := range batch.Rows {
			if err := im.persistRow(tx, row, &counts); err != nil {
				return fmt.Errorf("row %d: %w", row.Index, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	stats := batch.Statistics
	stats.UsersCreated += counts.UsersCreated
	stats.UsersExisting += counts.UsersExisting
	stats.CompetenciesCreated += counts.CompetenciesCreated
	stats.CompetenciesExisting += counts.CompetenciesExisting
	stats.AssessmentsCreated += counts.AssessmentsCreated
	stats.AssessmentsExisting += counts.AssessmentsExisting
	stats.RowsProcessed += counts.RowsProcessed

	return nil
}

func (im *Importer) persistRow(tx Tx, row *StagedRow, counts *domain.ImportStatistics) error {
	// 查找或创建用户
	user, err := tx.GetUserByEmail(row.Email)
	switch {
	case err == nil:
		counts.UsersExisting++
	case errors.Is(err, sql.ErrNoRows):
		user = &domain.User{
			Email:        row.Email,
			Name:         row.Name,
			Role:         domain.RoleEmployee,
			PasswordHash: im.placeholderHash,
		}
		if err := tx.CreateUser(user); err != nil {
			return fmt.Errorf("create user %s: %w", row.Email, err)
		}
		counts.UsersCreated++
	default:
		return fmt.Errorf("get user %s: %w", row.Email, err)
	}

	// 查找或创建能力
	competency, err := tx.GetCompetencyByName(row.Skillset)
	switch {
	case err == nil:
		counts.CompetenciesExisting++
	case errors.Is(err, sql.ErrNoRows):
		competency = &domain.Competency{
			Name:        row.Skillset,
			Description: row.Description,
			Category:    row.Category,
		}
		if err := tx.CreateCompetency(competency); err != nil {
			return fmt.Errorf("create competency %s: %w", row.Skillset, err)
		}
		counts.CompetenciesCreated++
	default:
		return fmt.Errorf("get competency %s: %w", row.Skillset, err)
	}

	// 完全相同的 (用户, 能力, 等级) 不重复记录，等级变化时追加一条历史
	exists, err := tx.AssessmentExists(user.ID, competency.ID, row.Level.Level)
	if err != nil {
		return fmt.Errorf("check assessment: %w", err)
	}
	if exists {
		counts.AssessmentsExisting++
	} else {
		assessment := &domain.Assessment{
			UserID:           user.ID,
			CompetencyID:     competency.ID,
			ProficiencyLevel: row.Level.Level,
		}
		if err := tx.CreateAssessment(assessment); err != nil {
			return fmt.Errorf("create assessment: %w", err)
		}
		counts.AssessmentsCreated++
	}

	counts.RowsProcessed++
	return nil
}
