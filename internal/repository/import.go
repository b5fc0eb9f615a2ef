package repository

import (
	"context"
	"database/sql"

	"github.com/growthpath/backend/internal/domain"
	"github.com/growthpath/backend/internal/importer"
)

// RunImport 把整个导入放在一个事务中，fn 返回错误时全部回滚
func (r *Repository) RunImport(fn func(tx importer.Tx) error) error {
	ctx, cancel := r.txContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&importTx{ctx: ctx, tx: tx}); err != nil {
		return err
	}

	return tx.Commit()
}

type importTx struct {
	ctx context.Context
	tx  *sql.Tx
}

func (t *importTx) GetUserByEmail(email string) (*domain.User, error) {
	query := `
		SELECT id, name, role, password_hash, created_at FROM users WHERE email = $1
	`

	user := &domain.User{
		Email: email,
	}
	dst := []any{&user.ID, &user.Name, &user.Role, &user.PasswordHash, &user.CreatedAt}
	if err := t.tx.QueryRowContext(t.ctx, query, email).Scan(dst...); err != nil {
		return nil, err
	}

	return user, nil
}

func (t *importTx) CreateUser(user *domain.User) error {
	query := `
		INSERT INTO users (email, name, role, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	args := []any{user.Email, user.Name, user.Role, user.PasswordHash}
	return t.tx.QueryRowContext(t.ctx, query, args...).Scan(&user.ID, &user.CreatedAt)
}

func (t *importTx) GetCompetencyByName(name string) (*domain.Competency, error) {
	query := `
		SELECT id, description, category FROM competencies WHERE name = $1
	`

	c := &domain.Competency{
		Name: name,
	}
	if err := t.tx.QueryRowContext(t.ctx, query, name).Scan(&c.ID, &c.Description, &c.Category); err != nil {
		return nil, err
	}

	return c, nil
}

func (t *importTx) CreateCompetency(competency *domain.Competency) error {
	query := `
		INSERT INTO competencies (name, description, category)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	args := []any{competency.Name, competency.Description, competency.Category}
	return t.tx.QueryRowContext(t.ctx, query, args...).Scan(&competency.ID)
}

func (t *importTx) AssessmentExists(userID, competencyID int64, level domain.ProficiencyLevel) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM assessments
			WHERE user_id = $1 AND competency_id = $2 AND proficiency_level = $3
		)
	`

	exists := false
	if err := t.tx.QueryRowContext(t.ctx, query, userID, competencyID, level).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (t *importTx) CreateAssessment(assessment *domain.Assessment) error {
	query := `
		INSERT INTO assessments (user_id, competency_id, proficiency_level)
		VALUES ($1, $2, $3)
		RETURNING id, assessed_at
	`

	args := []any{assessment.UserID, assessment.CompetencyID, assessment.ProficiencyLevel}
	return t.tx.QueryRowContext(t.ctx, query, args...).Scan(&assessment.ID, &assessment.AssessedAt)
}

func (r *Repository) GetDatabaseCounts() (*domain.DatabaseCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM competencies),
			(SELECT COUNT(*) FROM assessments)
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	counts := &domain.DatabaseCounts{}
	if err := r.dbpool.QueryRowContext(ctx, query).Scan(&counts.Users, &counts.Competencies, &counts.Assessments); err != nil {
		return nil, err
	}

	return counts, nil
}
