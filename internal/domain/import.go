package domain

import "time"

// UnmappedLevel 记录无法识别的 Skillset Level，导入时按 beginner 处理
type UnmappedLevel struct {
	Row   int    `json:"row"`
	Value string `json:"value"`
}

type ImportStatistics struct {
	UsersCreated         int             `json:"users_created"`
	UsersExisting        int             `json:"users_existing"`
	CompetenciesCreated  int             `json:"competencies_created"`
	CompetenciesExisting int             `json:"competencies_existing"`
	AssessmentsCreated   int             `json:"assessments_created"`
	AssessmentsExisting  int             `json:"assessments_existing"`
	RowsProcessed        int             `json:"rows_processed"`
	RowsSkipped          int             `json:"rows_skipped"`
	Errors               []string        `json:"errors"`
	UnmappedLevels       []UnmappedLevel `json:"unmapped_levels"`
}

func NewImportStatistics() *ImportStatistics {
	return &ImportStatistics{
		Errors:         []string{},
		UnmappedLevels: []UnmappedLevel{},
	}
}

// ImportReport 是一次导入的结果，保存在 redis 中供之后查询
type ImportReport struct {
	RunID      string            `json:"run_id"`
	FileName   string            `json:"file_name"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Statistics *ImportStatistics `json:"statistics"`
}

// DatabaseCounts 是 /import/status 返回的统计
type DatabaseCounts struct {
	Users        int `json:"users"`
	Competencies int `json:"competencies"`
	Assessments  int `json:"assessments"`
}
