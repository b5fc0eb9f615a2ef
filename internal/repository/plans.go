package repository

import (
	"database/sql"

	"github.com/growthpath/backend/internal/domain"
)

// CreateDevelopmentPlan 在一个事务中插入计划及其目标，并回填 id
func (r *Repository) CreateDevelopmentPlan(plan *domain.DevelopmentPlan) error {
	ctx, cancel := r.txContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	planQuery := `
		INSERT INTO development_plans (user_id, current_level, target_level, created_date, target_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	args := []any{plan.UserID, plan.CurrentLevel, plan.TargetLevel, plan.CreatedDate, plan.TargetDate, plan.Status}
	if err := tx.QueryRowContext(ctx, planQuery, args...).Scan(&plan.ID); err != nil {
		return err
	}

	objectiveQuery := `
		INSERT INTO learning_objectives (plan_id, competency_area_id, description, priority, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	for _, obj := range plan.Objectives {
		obj.PlanID = plan.ID
		args := []any{obj.PlanID, obj.CompetencyAreaID, obj.Description, obj.Priority, obj.Status}
		if err := tx.QueryRowContext(ctx, objectiveQuery, args...).Scan(&obj.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

const planWithObjectivesQuery = `
	SELECT
		dp.id,
		dp.user_id,
		dp.current_level,
		dp.target_level,
		dp.created_date,
		dp.target_date,
		dp.status,
		lo.id,
		lo.competency_area_id,
		ca.name,
		lo.description,
		lo.priority,
		lo.status
	FROM development_plans dp
	LEFT JOIN learning_objectives lo ON lo.plan_id = dp.id
	LEFT JOIN competency_areas ca ON ca.id = lo.competency_area_id
`

func (r *Repository) GetDevelopmentPlan(id int64) (*domain.DevelopmentPlan, error) {
	query := planWithObjectivesQuery + `
		WHERE dp.id = $1
		ORDER BY lo.id
	`

	plans, err := r.queryPlans(query, id)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, sql.ErrNoRows
	}

	return plans[0], nil
}

// GetDevelopmentPlansByUser 最新创建的计划排在前面
func (r *Repository) GetDevelopmentPlansByUser(userID int64) ([]*domain.DevelopmentPlan, error) {
	query := planWithObjectivesQuery + `
		WHERE dp.user_id = $1
		ORDER BY dp.created_date DESC, dp.id DESC, lo.id
	`

	return r.queryPlans(query, userID)
}

func (r *Repository) queryPlans(query string, args ...any) ([]*domain.DevelopmentPlan, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]*domain.DevelopmentPlan, 0)
	var current *domain.DevelopmentPlan
	for rows.Next() {
		var row struct {
			PlanID       int64
			UserID       int64
			CurrentLevel string
			TargetLevel  string
			CreatedDate  sql.NullTime
			TargetDate   sql.NullTime
			Status       string

			ObjectiveID      sql.NullInt64
			CompetencyAreaID sql.NullInt64
			AreaName         sql.NullString
			Description      sql.NullString
			Priority         sql.NullString
			ObjectiveStatus  sql.NullString
		}

		dst := []any{
			&row.PlanID,
			&row.UserID,
			&row.CurrentLevel,
			&row.TargetLevel,
			&row.CreatedDate,
			&row.TargetDate,
			&row.Status,
			&row.ObjectiveID,
			&row.CompetencyAreaID,
			&row.AreaName,
			&row.Description,
			&row.Priority,
			&row.ObjectiveStatus,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if current == nil || current.ID != row.PlanID {
			current = &domain.DevelopmentPlan{
				ID:           row.PlanID,
				UserID:       row.UserID,
				CurrentLevel: row.CurrentLevel,
				TargetLevel:  row.TargetLevel,
				CreatedDate:  row.CreatedDate.Time,
				Status:       domain.PlanStatus(row.Status),
				Objectives:   make([]*domain.LearningObjective, 0),
			}
			if row.TargetDate.Valid {
				t := row.TargetDate.Time
				current.TargetDate = &t
			}
			plans = append(plans, current)
		}

		// 没有目标的计划只有一行且目标字段为空
		if !row.ObjectiveID.Valid {
			continue
		}

		obj := &domain.LearningObjective{
			ID:             row.ObjectiveID.Int64,
			PlanID:         row.PlanID,
			CompetencyName: row.AreaName.String,
			Description:    row.Description.String,
			Priority:       domain.Priority(row.Priority.String),
			Status:         domain.ObjectiveStatus(row.ObjectiveStatus.String),
		}
		if row.CompetencyAreaID.Valid {
			areaID := row.CompetencyAreaID.Int64
			obj.CompetencyAreaID = &areaID
		}
		current.Objectives = append(current.Objectives, obj)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}

// UpdateLearningObjectiveStatus 目标不存在时返回 sql.ErrNoRows
func (r *Repository) UpdateLearningObjectiveStatus(id int64, status domain.ObjectiveStatus) (*domain.LearningObjective, error) {
	query := `
		UPDATE learning_objectives SET status = $1
		WHERE id = $2
		RETURNING plan_id, competency_area_id, description, priority, status
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	obj := &domain.LearningObjective{
		ID: id,
	}
	var areaID sql.NullInt64
	dst := []any{&obj.PlanID, &areaID, &obj.Description, &obj.Priority, &obj.Status}
	if err := r.dbpool.QueryRowContext(ctx, query, status, id).Scan(dst...); err != nil {
		return nil, err
	}
	if areaID.Valid {
		obj.CompetencyAreaID = &areaID.Int64
	}

	return obj, nil
}

// UpdateDevelopmentPlanStatus 计划不存在时返回 sql.ErrNoRows
func (r *Repository) UpdateDevelopmentPlanStatus(id int64, status domain.PlanStatus) (*domain.DevelopmentPlan, error) {
	query := `
		UPDATE development_plans SET status = $1
		WHERE id = $2
		RETURNING user_id, current_level, target_level, created_date, target_date, status
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	plan := &domain.DevelopmentPlan{
		ID: id,
	}
	var targetDate sql.NullTime
	dst := []any{&plan.UserID, &plan.CurrentLevel, &plan.TargetLevel, &plan.CreatedDate, &targetDate, &plan.Status}
	if err := r.dbpool.QueryRowContext(ctx, query, status, id).Scan(dst...); err != nil {
		return nil, err
	}
	if targetDate.Valid {
		plan.TargetDate = &targetDate.Time
	}

	return plan, nil
}
