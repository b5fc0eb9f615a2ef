package repository

// 没有迁移工具，启动时按需建表
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'employee',
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS competencies (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS assessments (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users (id),
		competency_id BIGINT NOT NULL REFERENCES competencies (id),
		proficiency_level SMALLINT NOT NULL CHECK (proficiency_level BETWEEN 1 AND 4),
		assessed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS assessments_user_competency_idx ON assessments (user_id, competency_id)`,
	`CREATE TABLE IF NOT EXISTS career_levels (
		id BIGSERIAL PRIMARY KEY,
		track TEXT NOT NULL,
		level INTEGER NOT NULL,
		title TEXT NOT NULL,
		pay_class TEXT NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		impact_scope TEXT NOT NULL DEFAULT '',
		project_category TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS competency_areas (
		id BIGSERIAL PRIMARY KEY,
		area_key TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS competency_expectations (
		id BIGSERIAL PRIMARY KEY,
		competency_area_id BIGINT NOT NULL REFERENCES competency_areas (id),
		pay_class TEXT NOT NULL,
		expectations TEXT NOT NULL,
		scope TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS skills (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		parent_category TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		roles TEXT NOT NULL DEFAULT '',
		is_data_skill BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS user_skills (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users (id),
		skill_id BIGINT NOT NULL REFERENCES skills (id),
		proficiency_level TEXT NOT NULL,
		last_assessed DATE,
		UNIQUE (user_id, skill_id)
	)`,
	`CREATE TABLE IF NOT EXISTS development_plans (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		current_level TEXT NOT NULL,
		target_level TEXT NOT NULL,
		created_date DATE NOT NULL,
		target_date DATE,
		status TEXT NOT NULL DEFAULT 'active'
	)`,
	`CREATE TABLE IF NOT EXISTS learning_objectives (
		id BIGSERIAL PRIMARY KEY,
		plan_id BIGINT NOT NULL REFERENCES development_plans (id),
		competency_area_id BIGINT REFERENCES competency_areas (id),
		description TEXT NOT NULL,
		priority TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'not_started'
	)`,
}

func (r *Repository) EnsureSchema() error {
	ctx, cancel := r.txContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return tx.Commit()
}
