package repository

import (
	"github.com/growthpath/backend/internal/domain"
)

func (r *Repository) CareerLevelsExist() (bool, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	exists := false
	if err := r.dbpool.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM career_levels)`).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// GetCareerLevels 按级别排序，track 为空时返回所有路线
func (r *Repository) GetCareerLevels(track string) ([]*domain.CareerLevel, error) {
	query := `
		SELECT id, track, level, title, pay_class, summary, impact_scope, project_category
		FROM career_levels
		WHERE $1 = '' OR track = $1
		ORDER BY level, id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, track)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	levels := make([]*domain.CareerLevel, 0)
	for rows.Next() {
		l := &domain.CareerLevel{}
		dst := []any{&l.ID, &l.Track, &l.Level, &l.Title, &l.PayClass, &l.Summary, &l.ImpactScope, &l.ProjectCategory}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return levels, nil
}

func (r *Repository) GetAllCompetencyAreas() ([]*domain.CompetencyArea, error) {
	query := `
		SELECT id, area_key, name, description FROM competency_areas ORDER BY id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	areas := make([]*domain.CompetencyArea, 0)
	for rows.Next() {
		a := &domain.CompetencyArea{}
		if err := rows.Scan(&a.ID, &a.AreaKey, &a.Name, &a.Description); err != nil {
			return nil, err
		}
		areas = append(areas, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return areas, nil
}

// GetCompetencyAreaDetails 返回带期望的能力维度，payClass 不为空时只保留该 pay class 的期望，
// 没有任何期望的维度不会出现在结果中
func (r *Repository) GetCompetencyAreaDetails(payClass string) ([]*domain.CompetencyAreaDetail, error) {
	query := `
		SELECT
			ca.id,
			ca.area_key,
			ca.name,
			ca.description,
			ce.id,
			ce.pay_class,
			ce.expectations,
			ce.scope
		FROM competency_areas ca
		JOIN competency_expectations ce ON ce.competency_area_id = ca.id
		WHERE $1 = '' OR ce.pay_class = $1
		ORDER BY ca.id, ce.id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, payClass)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]*domain.CompetencyAreaDetail, 0)
	var current *domain.CompetencyAreaDetail
	for rows.Next() {
		var area domain.CompetencyArea
		e := &domain.CompetencyExpectation{}
		dst := []any{&area.ID, &area.AreaKey, &area.Name, &area.Description, &e.ID, &e.PayClass, &e.Expectations, &e.Scope}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		e.CompetencyAreaID = area.ID

		// 结果按维度排序，维度变化时开始新的一组
		if current == nil || current.ID != area.ID {
			current = &domain.CompetencyAreaDetail{
				CompetencyArea: area,
				Expectations:   make([]*domain.CompetencyExpectation, 0),
			}
			details = append(details, current)
		}
		current.Expectations = append(current.Expectations, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return details, nil
}

func (r *Repository) GetCompetencyExpectationsByPayClass(payClass string) (map[int64]*domain.CompetencyExpectation, error) {
	query := `
		SELECT DISTINCT ON (competency_area_id) id, competency_area_id, pay_class, expectations, scope
		FROM competency_expectations
		WHERE pay_class = $1
		ORDER BY competency_area_id, id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, payClass)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expectations := make(map[int64]*domain.CompetencyExpectation)
	for rows.Next() {
		e := &domain.CompetencyExpectation{}
		if err := rows.Scan(&e.ID, &e.CompetencyAreaID, &e.PayClass, &e.Expectations, &e.Scope); err != nil {
			return nil, err
		}
		expectations[e.CompetencyAreaID] = e
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return expectations, nil
}

// CreateCareerFramework 在一个事务中写入职业级别、能力维度以及期望
func (r *Repository) CreateCareerFramework(levels []*domain.CareerLevel, areas []*domain.CompetencyAreaDetail) error {
	ctx, cancel := r.txContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	levelQuery := `
		INSERT INTO career_levels (track, level, title, pay_class, summary, impact_scope, project_category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	for _, l := range levels {
		args := []any{l.Track, l.Level, l.Title, l.PayClass, l.Summary, l.ImpactScope, l.ProjectCategory}
		if err := tx.QueryRowContext(ctx, levelQuery, args...).Scan(&l.ID); err != nil {
			return err
		}
	}

	areaQuery := `
		INSERT INTO competency_areas (area_key, name, description)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	expectationQuery := `
		INSERT INTO competency_expectations (competency_area_id, pay_class, expectations, scope)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	for _, a := range areas {
		if err := tx.QueryRowContext(ctx, areaQuery, a.AreaKey, a.Name, a.Description).Scan(&a.ID); err != nil {
			return err
		}
		for _, e := range a.Expectations {
			e.CompetencyAreaID = a.ID
			if err := tx.QueryRowContext(ctx, expectationQuery, e.CompetencyAreaID, e.PayClass, e.Expectations, e.Scope).Scan(&e.ID); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// ClearCareerData 删除计划、用户技能、技能目录以及职业框架，用户和评估不受影响
func (r *Repository) ClearCareerData() error {
	ctx, cancel := r.txContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 顺序需要满足外键约束
	tables := []string{
		"learning_objectives",
		"development_plans",
		"user_skills",
		"skills",
		"competency_expectations",
		"competency_areas",
		"career_levels",
	}
	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	return tx.Commit()
}
