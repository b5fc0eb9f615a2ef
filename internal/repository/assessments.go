package repository

import (
	"github.com/growthpath/backend/internal/domain"
)

func (r *Repository) CreateAssessment(assessment *domain.Assessment) error {
	query := `
		INSERT INTO assessments (user_id, competency_id, proficiency_level)
		VALUES ($1, $2, $3)
		RETURNING id, assessed_at
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{assessment.UserID, assessment.CompetencyID, assessment.ProficiencyLevel}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&assessment.ID, &assessment.AssessedAt)
}

// GetAssessmentsByUser 返回完整的评估历史，按评估时间排序
func (r *Repository) GetAssessmentsByUser(userID int64) ([]*domain.AssessmentDetail, error) {
	query := `
		SELECT
			a.id,
			a.competency_id,
			a.proficiency_level,
			a.assessed_at,
			c.name,
			c.description,
			c.category
		FROM assessments a
		JOIN competencies c ON c.id = a.competency_id
		WHERE a.user_id = $1
		ORDER BY a.assessed_at, a.id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]*domain.AssessmentDetail, 0)
	for rows.Next() {
		d := &domain.AssessmentDetail{}
		d.UserID = userID
		dst := []any{&d.ID, &d.CompetencyID, &d.ProficiencyLevel, &d.AssessedAt, &d.Competency.Name, &d.Competency.Description, &d.Competency.Category}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		d.Competency.ID = d.CompetencyID
		details = append(details, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return details, nil
}

func (r *Repository) GetAssessmentsByCompetency(competencyID int64) ([]*domain.UserAssessment, error) {
	query := `
		SELECT
			a.id,
			a.user_id,
			a.proficiency_level,
			a.assessed_at,
			u.name,
			u.email,
			u.role
		FROM assessments a
		JOIN users u ON u.id = a.user_id
		WHERE a.competency_id = $1
		ORDER BY a.id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, competencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.UserAssessment, 0)
	for rows.Next() {
		a := &domain.Assessment{CompetencyID: competencyID}
		u := &domain.User{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.ProficiencyLevel, &a.AssessedAt, &u.Name, &u.Email, &u.Role); err != nil {
			return nil, err
		}
		u.ID = a.UserID
		result = append(result, &domain.UserAssessment{User: u, Assessment: a})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
