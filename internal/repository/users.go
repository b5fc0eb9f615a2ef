package repository

import (
	"github.com/growthpath/backend/internal/domain"
)

func (r *Repository) CreateUser(user *domain.User) error {
	query := `
		INSERT INTO users (email, name, role, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{user.Email, user.Name, user.Role, user.PasswordHash}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.CreatedAt)
}

func (r *Repository) GetUserByID(id int64) (*domain.User, error) {
	query := `
		SELECT email, name, role, password_hash, created_at
		FROM users WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	user := &domain.User{
		ID: id,
	}

	dst := []any{&user.Email, &user.Name, &user.Role, &user.PasswordHash, &user.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return user, nil
}

// ListUsers 返回当前页的用户以及符合条件的总数，search 不区分大小写地匹配姓名或邮箱
func (r *Repository) ListUsers(filter domain.UserFilter) ([]*domain.UserSummary, int, error) {
	countQuery := `
		SELECT COUNT(*) FROM users
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'
	`
	query := `
		SELECT u.id, u.name, u.email, u.role,
			(SELECT COUNT(*) FROM assessments a WHERE a.user_id = u.id)
		FROM users u
		WHERE $1 = '' OR u.name ILIKE '%' || $1 || '%' OR u.email ILIKE '%' || $1 || '%'
		ORDER BY u.id
		OFFSET $2 LIMIT $3
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	total := 0
	if err := r.dbpool.QueryRowContext(ctx, countQuery, filter.Search).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.dbpool.QueryContext(ctx, query, filter.Search, filter.Skip, filter.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]*domain.UserSummary, 0)
	for rows.Next() {
		u := &domain.UserSummary{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.SkillsCount); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *Repository) CountAssessmentsByCategory(userID int64) (map[domain.CompetencyCategory]int, error) {
	query := `
		SELECT c.category, COUNT(*)
		FROM assessments a
		JOIN competencies c ON c.id = a.competency_id
		WHERE a.user_id = $1
		GROUP BY c.category
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.CompetencyCategory]int)
	for rows.Next() {
		var category domain.CompetencyCategory
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		counts[category] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}
