package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS customers (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(255) NOT NULL,
		address TEXT,
		phone VARCHAR(32),
		email VARCHAR(255)
	);`,
	`CREATE TABLE IF NOT EXISTS employees (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		full_name VARCHAR(255) NOT NULL,
		phone VARCHAR(32),
		active BOOLEAN NOT NULL DEFAULT TRUE
	);`,
	`CREATE TABLE IF NOT EXISTS recurring_contracts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		customer_id UUID NOT NULL REFERENCES customers(id),
		title VARCHAR(255) NOT NULL,
		description TEXT,
		frequency VARCHAR(32),
		start_date DATE NOT NULL,
		end_date DATE,
		hourly_rate NUMERIC(10,2),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_contract_dates CHECK (end_date IS NULL OR end_date >= start_date)
	);`,
	`CREATE TABLE IF NOT EXISTS contract_schedule_days (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		contract_id UUID NOT NULL REFERENCES recurring_contracts(id) ON DELETE CASCADE,
		position INT NOT NULL,
		weekday VARCHAR(16) NOT NULL,
		start_time VARCHAR(8),
		duration_minutes INT NOT NULL,
		tasks JSONB
	);`,
	`CREATE INDEX IF NOT EXISTS idx_schedule_days_contract ON contract_schedule_days (contract_id, position);`,
	`CREATE TABLE IF NOT EXISTS contract_staff (
		contract_id UUID NOT NULL REFERENCES recurring_contracts(id) ON DELETE CASCADE,
		employee_id UUID NOT NULL REFERENCES employees(id),
		position INT NOT NULL DEFAULT 0,
		PRIMARY KEY (contract_id, employee_id)
	);`,
	`CREATE TABLE IF NOT EXISTS job_instances (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		contract_id UUID NOT NULL REFERENCES recurring_contracts(id),
		customer_id UUID NOT NULL REFERENCES customers(id),
		scheduled_start TIMESTAMPTZ NOT NULL,
		scheduled_end TIMESTAMPTZ NOT NULL,
		assignee_id UUID REFERENCES employees(id),
		pay NUMERIC(10,2),
		status VARCHAR(16) NOT NULL DEFAULT 'scheduled',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_job_instances_contract ON job_instances (contract_id);`,
	`CREATE INDEX IF NOT EXISTS idx_job_instances_assignee ON job_instances (assignee_id) WHERE assignee_id IS NOT NULL;`,
	// Backstop against concurrent generation runs: the engine only guards
	// against duplicates within a single call.
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_job_instance_contract_day
		ON job_instances (contract_id, ((scheduled_start AT TIME ZONE 'UTC')::date));`,
	`CREATE TABLE IF NOT EXISTS job_tasks (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		instance_id UUID NOT NULL REFERENCES job_instances(id) ON DELETE CASCADE,
		position INT NOT NULL,
		title VARCHAR(255) NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_job_tasks_instance ON job_tasks (instance_id, position);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
