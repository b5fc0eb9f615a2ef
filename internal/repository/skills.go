package repository

import (
	"database/sql"
	"time"

	"github.com/growthpath/backend/internal/domain"
)

const skillColumns = `id, name, parent_category, description, category, roles, is_data_skill`

func scanSkill(scanner interface{ Scan(dest ...any) error }, s *domain.Skill) error {
	return scanner.Scan(&s.ID, &s.Name, &s.ParentCategory, &s.Description, &s.Category, &s.Roles, &s.IsDataSkill)
}

// CreateSkills 在一个事务中批量写入技能目录
func (r *Repository) CreateSkills(skills []*domain.Skill) error {
	ctx, cancel := r.txContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO skills (name, parent_category, description, category, roles, is_data_skill)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	for _, s := range skills {
		args := []any{s.Name, s.ParentCategory, s.Description, s.Category, s.Roles, s.IsDataSkill}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&s.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) GetSkillByID(id int64) (*domain.Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM skills WHERE id = $1`

	ctx, cancel := r.queryContext()
	defer cancel()

	s := &domain.Skill{}
	if err := scanSkill(r.dbpool.QueryRowContext(ctx, query, id), s); err != nil {
		return nil, err
	}

	return s, nil
}

// GetSkills 按类型、父类别以及名称或描述的模糊搜索过滤
func (r *Repository) GetSkills(filter domain.SkillFilter) ([]*domain.Skill, error) {
	query := `
		SELECT ` + skillColumns + `
		FROM skills
		WHERE ($1 = 'all' OR ($1 = 'data' AND is_data_skill) OR ($1 = 'tech' AND NOT is_data_skill))
			AND ($2 = '' OR parent_category = $2)
			AND ($3 = '' OR name ILIKE '%' || $3 || '%' OR description ILIKE '%' || $3 || '%')
		ORDER BY id
	`

	skillType := filter.Type
	if skillType == "" {
		skillType = domain.SkillTypeAll
	}

	return r.querySkills(query, string(skillType), filter.ParentCategory, filter.Search)
}

// GetSkillsByCategories 不会返回 Inactive 的技能
func (r *Repository) GetSkillsByCategories(categories []string) ([]*domain.Skill, error) {
	query := `
		SELECT ` + skillColumns + `
		FROM skills
		WHERE category = ANY($1) AND category <> 'Inactive'
		ORDER BY id
	`

	return r.querySkills(query, categories)
}

func (r *Repository) querySkills(query string, args ...any) ([]*domain.Skill, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := make([]*domain.Skill, 0)
	for rows.Next() {
		s := &domain.Skill{}
		if err := scanSkill(rows, s); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return skills, nil
}

// GetSkillCategoryCounts 分别统计父类别和技能分类，空的父类别记为 Uncategorized
func (r *Repository) GetSkillCategoryCounts() ([]domain.CategoryCount, []domain.CategoryCount, error) {
	parentQuery := `
		SELECT COALESCE(NULLIF(parent_category, ''), 'Uncategorized'), COUNT(*)
		FROM skills
		GROUP BY 1
		ORDER BY 1
	`
	categoryQuery := `
		SELECT category, COUNT(*)
		FROM skills
		WHERE category <> ''
		GROUP BY category
		ORDER BY category
	`

	parents, err := r.queryCategoryCounts(parentQuery)
	if err != nil {
		return nil, nil, err
	}
	categories, err := r.queryCategoryCounts(categoryQuery)
	if err != nil {
		return nil, nil, err
	}

	return parents, categories, nil
}

func (r *Repository) queryCategoryCounts(query string) ([]domain.CategoryCount, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]domain.CategoryCount, 0)
	for rows.Next() {
		c := domain.CategoryCount{}
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

// UpsertUserSkill 同一用户同一技能只保留一条记录，再次评估时更新等级和日期
func (r *Repository) UpsertUserSkill(us *domain.UserSkill) error {
	query := `
		INSERT INTO user_skills (user_id, skill_id, proficiency_level, last_assessed)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, skill_id) DO UPDATE
		SET proficiency_level = EXCLUDED.proficiency_level, last_assessed = EXCLUDED.last_assessed
		RETURNING id, last_assessed
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	var lastAssessed time.Time
	args := []any{us.UserID, us.SkillID, us.ProficiencyLevel, us.LastAssessed}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&us.ID, &lastAssessed); err != nil {
		return err
	}
	us.LastAssessed = &lastAssessed

	return nil
}

func (r *Repository) GetUserSkills(userID int64) ([]*domain.UserSkill, error) {
	query := `
		SELECT
			us.id,
			us.proficiency_level,
			us.last_assessed,
			s.id,
			s.name,
			s.parent_category,
			s.description,
			s.category,
			s.roles,
			s.is_data_skill
		FROM user_skills us
		JOIN skills s ON s.id = us.skill_id
		WHERE us.user_id = $1
		ORDER BY us.id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.UserSkill, 0)
	for rows.Next() {
		us := &domain.UserSkill{UserID: userID, Skill: &domain.Skill{}}
		var lastAssessed sql.NullTime
		dst := []any{
			&us.ID, &us.ProficiencyLevel, &lastAssessed,
			&us.Skill.ID, &us.Skill.Name, &us.Skill.ParentCategory, &us.Skill.Description, &us.Skill.Category, &us.Skill.Roles, &us.Skill.IsDataSkill,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		us.SkillID = us.Skill.ID
		if lastAssessed.Valid {
			us.LastAssessed = &lastAssessed.Time
		}
		result = append(result, us)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
