package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/growthpath/backend/internal/config"
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

func (r *Repository) queryContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
}

func (r *Repository) txContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
}

// 约束名称，handler 据此区分唯一性冲突和外键冲突
const (
	ConstraintUsersEmail            = "users_email_key"
	ConstraintCompetenciesName      = "competencies_name_key"
	ConstraintAssessmentsUser       = "assessments_user_id_fkey"
	ConstraintAssessmentsCompetency = "assessments_competency_id_fkey"
	ConstraintUserSkillsUser        = "user_skills_user_id_fkey"
	ConstraintUserSkillsSkill       = "user_skills_skill_id_fkey"
)
