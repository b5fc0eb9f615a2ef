package repository

import (
	"github.com/growthpath/backend/internal/domain"
)

func (r *Repository) CreateCompetency(competency *domain.Competency) error {
	query := `
		INSERT INTO competencies (name, description, category)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{competency.Name, competency.Description, competency.Category}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&competency.ID)
}

func (r *Repository) GetCompetencyByID(id int64) (*domain.Competency, error) {
	query := `
		SELECT name, description, category FROM competencies WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	c := &domain.Competency{
		ID: id,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&c.Name, &c.Description, &c.Category); err != nil {
		return nil, err
	}

	return c, nil
}

func (r *Repository) GetAllCompetencies() ([]*domain.Competency, error) {
	query := `
		SELECT id, name, description, category FROM competencies ORDER BY id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	competencies := make([]*domain.Competency, 0)
	for rows.Next() {
		c := &domain.Competency{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Category); err != nil {
			return nil, err
		}
		competencies = append(competencies, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return competencies, nil
}

func (r *Repository) CountCompetencies() (int, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	count := 0
	if err := r.dbpool.QueryRowContext(ctx, `SELECT COUNT(*) FROM competencies`).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
