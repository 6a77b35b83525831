package db

import (
	"fmt"

	"gorm.io/gorm"
)

// The partial unique indexes on the two assignment ledgers are the
// enforcement point for the one-live-row-per-pair invariants; application
// pre-checks alone would race under concurrent writers.
var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'actor_role') THEN
			CREATE TYPE actor_role AS ENUM ('ADMINISTRATOR', 'SUPERVISOR', 'COORDINATOR', 'OPERARIO');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'contract_state') THEN
			CREATE TYPE contract_state AS ENUM ('ACTIVE', 'SUSPENDED', 'FINALIZED');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'zone_assignment_state') THEN
			CREATE TYPE zone_assignment_state AS ENUM ('ACTIVE', 'SUSPENDED', 'COMPLETED', 'CANCELLED');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'property_assignment_state') THEN
			CREATE TYPE property_assignment_state AS ENUM ('PENDING', 'ASSIGNED', 'COMPLETED', 'CANCELLED');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS actors (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL UNIQUE DEFAULT uuid_generate_v4(),
		username VARCHAR(50) NOT NULL UNIQUE,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		email VARCHAR(100) NOT NULL UNIQUE,
		phone VARCHAR(20),
		role actor_role NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS zones (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL UNIQUE DEFAULT uuid_generate_v4(),
		code VARCHAR(20) NOT NULL UNIQUE,
		name VARCHAR(100) NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);`,
	`CREATE TABLE IF NOT EXISTS plans (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL UNIQUE DEFAULT uuid_generate_v4(),
		code VARCHAR(20) NOT NULL UNIQUE,
		name VARCHAR(100) NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);`,
	`CREATE TABLE IF NOT EXISTS properties (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL UNIQUE DEFAULT uuid_generate_v4(),
		code VARCHAR(30) NOT NULL UNIQUE,
		address VARCHAR(200) NOT NULL,
		type VARCHAR(10) NOT NULL DEFAULT 'URBAN',
		active BOOLEAN NOT NULL DEFAULT TRUE
	);`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL UNIQUE DEFAULT uuid_generate_v4(),
		code VARCHAR(50) NOT NULL UNIQUE,
		objective TEXT NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		state contract_state NOT NULL DEFAULT 'ACTIVE',
		supervisor_id BIGINT REFERENCES actors(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_contract_dates CHECK (start_date <= end_date)
	);`,
	`CREATE TABLE IF NOT EXISTS zone_assignments (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL UNIQUE DEFAULT uuid_generate_v4(),
		contract_id BIGINT NOT NULL REFERENCES contracts(id),
		zone_id BIGINT NOT NULL REFERENCES zones(id),
		plan_id BIGINT NOT NULL REFERENCES plans(id),
		zone_coordinator_id BIGINT REFERENCES actors(id),
		operational_coordinator_id BIGINT REFERENCES actors(id),
		state zone_assignment_state NOT NULL DEFAULT 'ACTIVE',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_zone_assignment_live
		ON zone_assignments (contract_id, zone_id) WHERE state <> 'CANCELLED';`,
	`CREATE INDEX IF NOT EXISTS idx_zone_assignments_contract ON zone_assignments (contract_id);`,
	`CREATE INDEX IF NOT EXISTS idx_zone_assignments_zone_coordinator
		ON zone_assignments (zone_coordinator_id) WHERE zone_coordinator_id IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_zone_assignments_operational_coordinator
		ON zone_assignments (operational_coordinator_id) WHERE operational_coordinator_id IS NOT NULL;`,
	`CREATE TABLE IF NOT EXISTS property_assignments (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL UNIQUE DEFAULT uuid_generate_v4(),
		contract_id BIGINT NOT NULL REFERENCES contracts(id),
		property_id BIGINT NOT NULL REFERENCES properties(id),
		operario_id BIGINT REFERENCES actors(id),
		state property_assignment_state NOT NULL DEFAULT 'PENDING',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_property_assignment_live
		ON property_assignments (contract_id, property_id) WHERE state <> 'CANCELLED';`,
	`CREATE INDEX IF NOT EXISTS idx_property_assignments_contract ON property_assignments (contract_id);`,
	`CREATE INDEX IF NOT EXISTS idx_property_assignments_operario
		ON property_assignments (operario_id) WHERE operario_id IS NOT NULL;`,
	`CREATE TABLE IF NOT EXISTS activities (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL UNIQUE DEFAULT uuid_generate_v4(),
		property_assignment_id BIGINT NOT NULL REFERENCES property_assignments(id),
		description TEXT NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_activities_property_assignment
		ON activities (property_assignment_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
