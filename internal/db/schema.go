package db

// SchemaSQL is the complete schema for fresh installs.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// it via GetSchemaSQL(), so repository code referencing a column that does
// not exist here fails immediately with "no such column" at test time.
//
// Foreign-key actions follow the reference-data rules: parents that other
// entities merely point at (emails, operators, uhub_orgs, systems, cases,
// steps, campaigns, campaign_runs) RESTRICT deletion while referenced;
// strictly-owned children (steps under a case, history under a bug, runs
// under a case run, join rows) CASCADE with their owner.
const SchemaSQL = `
-- Environments (tenancy boundary)
CREATE TABLE IF NOT EXISTS environments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	description TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	modified_by TEXT NOT NULL
);

-- Global lookups (not environment-scoped)
CREATE TABLE IF NOT EXISTS systems (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	description TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	modified_by TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sections (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	modified_by TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS reasons (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	modified_by TEXT NOT NULL
);

-- Reference data: email -> operator -> drone ownership chain
CREATE TABLE IF NOT EXISTS emails (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	environment_id INTEGER NOT NULL,
	address TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	modified_by TEXT NOT NULL,
	FOREIGN KEY (environment_id) REFERENCES environments(id),
	UNIQUE(environment_id, address)
);

CREATE TABLE IF NOT EXISTS operators (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	environment_id INTEGER NOT NULL,
	email_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	easa_id TEXT,
	phone TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	modified_by TEXT NOT NULL,
	FOREIGN KEY (environment_id) REFERENCES environments(id),
	FOREIGN KEY (email_id) REFERENCES emails(id) ON DELETE RESTRICT,
	UNIQUE(environment_id, name)
);

CREATE TABLE IF NOT EXISTS drones (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	environment_id INTEGER NOT NULL,
	operator_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	serial_number TEXT NOT NULL,
	manufacturer TEXT,
	model TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	modified_by TEXT NOT NULL,
	FOREIGN KEY (environment_id) REFERENCES environments(id),
	FOREIGN KEY (operator_id) REFERENCES operators(id) ON DELETE RESTRICT,
	UNIQUE(environment_id, serial_number)
);

-- U-Space hub organisations and users
CREATE TABLE IF NOT EXISTS uhub_orgs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	environment_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	external_id TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	modified_by TEXT NOT NULL,
	FOREIGN KEY (environment_id) REFERENCES environments(id),
	UNIQUE(environment_id, name)
);

CREATE TABLE IF NOT EXISTS uhub_users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	environment_id INTEGER NOT NULL,
	uhub_org_id INTEGER NOT NULL,
	username TEXT NOT NULL,
	email TEXT,
	role TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	modified_by TEXT NOT NULL,
	FOREIGN KEY (environment_id) REFERENCES environments(id),
	FOREIGN KEY (uhub_org_id) REFERENCES uhub_orgs(id) ON DELETE RESTRICT,
	UNIQUE(environment_id, username)
);

-- UAS zones
CREATE TABLE IF NOT EXISTS uas_zones (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	environment_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	area_type TEXT NOT NULL CHECK(area_type IN ('CIRCLE', 'POLYGON', 'CORRIDOR')),
	radius_m REAL,
	width_m REAL,
	lower_limit_m REAL,
	upper_limit_m REAL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	modified_by TEXT NOT NULL,
	FOREIGN KEY (environment_id) REFERENCES environments(id),
	UNIQUE(environment_id, name)
);

CREATE TABLE IF NOT EXISTS zone_orgs (
	uas_zone_id INTEGER NOT NULL,
	uhub_org_id INTEGER NOT NULL,
	PRIMARY KEY (uas_zone_id, uhub_org_id),
	FOREIGN KEY (uas_zone_id) REFERENCES uas_zones(id) ON DELETE CASCADE,
	FOREIGN KEY (uhub_org_id) REFERENCES uhub_orgs(id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS zone_reasons (
	uas_zone_id INTEGER NOT NULL,
	reason_id INTEGER NOT NULL,
	PRIMARY KEY (uas_zone_id, reason_id),
	FOREIGN KEY (uas_zone_id) REFERENCES uas_zones(id) ON DELETE CASCADE,
	FOREIGN KEY (reason_id) REFERENCES reasons(id) ON DELETE RESTRICT
);

-- Requirements
CREATE TABLE IF NOT EXISTS requirements (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	environment_id INTEGER NOT NULL,
	code TEXT NOT NULL,
	definition TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	modified_by TEXT NOT NULL,
	FOREIGN KEY (environment_id) REFERENCES environments(id),
	UNIQUE(environment_id, code)
);

CREATE TABLE IF NOT EXISTS requirement_systems (
	requirement_id INTEGER NOT NULL,
	system_id INTEGER NOT NULL,
	PRIMARY KEY (requirement_id, system_id),
	FOREIGN KEY (requirement_id) REFERENCES requirements(id) ON DELETE CASCADE,
	FOREIGN KEY (system_id) REFERENCES systems(id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS requirement_sections (
	requirement_id INTEGER NOT NULL,
	section_id INTEGER NOT NULL,
	PRIMARY KEY (requirement_id, section_id),
	FOREIGN KEY (requirement_id) REFERENCES requirements(id) ON DELETE CASCADE,
	FOREIGN KEY (section_id) REFERENCES sections(id) ON DELETE RESTRICT
);

-- Cases and steps
CREATE TABLE IF NOT EXISTS cases (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	environment_id INTEGER NOT NULL,
	code TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	modified_by TEXT NOT NULL,
	FOREIGN KEY (environment_id) REFERENCES environments(id),
	UNIQUE(environment_id, code)
);

CREATE TABLE IF NOT EXISTS steps (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	case_id INTEGER NOT NULL,
	position INTEGER NOT NULL,
	action TEXT NOT NULL,
	expected_result TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	modified_by TEXT NOT NULL,
	FOREIGN KEY (case_id) REFERENCES cases(id) ON DELETE CASCADE,
	UNIQUE(case_id, position)
);

CREATE TABLE IF NOT EXISTS step_requirements (
	step_id INTEGER NOT NULL,
	requirement_id INTEGER NOT NULL,
	PRIMARY KEY (step_id, requirement_id),
	FOREIGN KEY (step_id) REFERENCES steps(id) ON DELETE CASCADE,
	FOREIGN KEY (requirement_id) REFERENCES requirements(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS case_operators (
	case_id INTEGER NOT NULL,
	operator_id INTEGER NOT NULL,
	PRIMARY KEY (case_id, operator_id),
	FOREIGN KEY (case_id) REFERENCES cases(id) ON DELETE CASCADE,
	FOREIGN KEY (operator_id) REFERENCES operators(id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS case_drones (
	case_id INTEGER NOT NULL,
	drone_id INTEGER NOT NULL,
	PRIMARY KEY (case_id, drone_id),
	FOREIGN KEY (case_id) REFERENCES cases(id) ON DELETE CASCADE,
	FOREIGN KEY (drone_id) REFERENCES drones(id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS case_uhub_users (
	case_id INTEGER NOT NULL,
	uhub_user_id INTEGER NOT NULL,
	PRIMARY KEY (case_id, uhub_user_id),
	FOREIGN KEY (case_id) REFERENCES cases(id) ON DELETE CASCADE,
	FOREIGN KEY (uhub_user_id) REFERENCES uhub_users(id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS case_uas_zones (
	case_id INTEGER NOT NULL,
	uas_zone_id INTEGER NOT NULL,
	PRIMARY KEY (case_id, uas_zone_id),
	FOREIGN KEY (case_id) REFERENCES cases(id) ON DELETE CASCADE,
	FOREIGN KEY (uas_zone_id) REFERENCES uas_zones(id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS case_systems (
	case_id INTEGER NOT NULL,
	system_id INTEGER NOT NULL,
	PRIMARY KEY (case_id, system_id),
	FOREIGN KEY (case_id) REFERENCES cases(id) ON DELETE CASCADE,
	FOREIGN KEY (system_id) REFERENCES systems(id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS case_sections (
	case_id INTEGER NOT NULL,
	section_id INTEGER NOT NULL,
	PRIMARY KEY (case_id, section_id),
	FOREIGN KEY (case_id) REFERENCES cases(id) ON DELETE CASCADE,
	FOREIGN KEY (section_id) REFERENCES sections(id) ON DELETE RESTRICT
);

-- Blocks and campaigns
CREATE TABLE IF NOT EXISTS blocks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	environment_id INTEGER NOT NULL,
	system_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	modified_by TEXT NOT NULL,
	FOREIGN KEY (environment_id) REFERENCES environments(id),
	FOREIGN KEY (system_id) REFERENCES systems(id) ON DELETE RESTRICT,
	UNIQUE(environment_id, name)
);

CREATE TABLE IF NOT EXISTS block_cases (
	block_id INTEGER NOT NULL,
	case_id INTEGER NOT NULL,
	PRIMARY KEY (block_id, case_id),
	FOREIGN KEY (block_id) REFERENCES blocks(id) ON DELETE CASCADE,
	FOREIGN KEY (case_id) REFERENCES cases(id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS campaigns (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	environment_id INTEGER NOT NULL,
	system_id INTEGER NOT NULL,
	code TEXT NOT NULL,
	title TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('DRAFT', 'RUNNING', 'FINISHED', 'CANCELLED')) DEFAULT 'DRAFT',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	modified_by TEXT NOT NULL,
	FOREIGN KEY (environment_id) REFERENCES environments(id),
	FOREIGN KEY (system_id) REFERENCES systems(id) ON DELETE RESTRICT,
	UNIQUE(environment_id, code)
);

CREATE TABLE IF NOT EXISTS campaign_blocks (
	campaign_id INTEGER NOT NULL,
	block_id INTEGER NOT NULL,
	PRIMARY KEY (campaign_id, block_id),
	FOREIGN KEY (campaign_id) REFERENCES campaigns(id) ON DELETE CASCADE,
	FOREIGN KEY (block_id) REFERENCES blocks(id) ON DELETE RESTRICT
);

-- Execution snapshots
CREATE TABLE IF NOT EXISTS campaign_runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	environment_id INTEGER NOT NULL,
	campaign_id INTEGER NOT NULL,
	status TEXT NOT NULL DEFAULT 'RUNNING',
	started_at DATETIME,
	finished_at DATETIME,
	notes TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	modified_by TEXT NOT NULL,
	FOREIGN KEY (environment_id) REFERENCES environments(id),
	FOREIGN KEY (campaign_id) REFERENCES campaigns(id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS case_runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	campaign_run_id INTEGER NOT NULL,
	case_id INTEGER NOT NULL,
	result TEXT,
	executed_by TEXT,
	executed_at DATETIME,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	modified_by TEXT NOT NULL,
	FOREIGN KEY (campaign_run_id) REFERENCES campaign_runs(id) ON DELETE RESTRICT,
	FOREIGN KEY (case_id) REFERENCES cases(id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS step_runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	case_run_id INTEGER NOT NULL,
	step_id INTEGER NOT NULL,
	result TEXT CHECK(result IN ('PASS', 'FAIL', 'BLOCKED', 'SKIPPED')),
	comment TEXT,
	file_id INTEGER,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	modified_by TEXT NOT NULL,
	FOREIGN KEY (case_run_id) REFERENCES case_runs(id) ON DELETE CASCADE,
	FOREIGN KEY (step_id) REFERENCES steps(id) ON DELETE RESTRICT,
	FOREIGN KEY (file_id) REFERENCES files(id) ON DELETE SET NULL
);

-- Files (generic attachments)
CREATE TABLE IF NOT EXISTS files (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	environment_id INTEGER NOT NULL,
	owner_type TEXT NOT NULL,
	filename TEXT NOT NULL,
	stored_name TEXT NOT NULL UNIQUE,
	path TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	size_bytes INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	modified_by TEXT NOT NULL,
	FOREIGN KEY (environment_id) REFERENCES environments(id)
);

-- Bugs
CREATE TABLE IF NOT EXISTS bugs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	environment_id INTEGER NOT NULL,
	system_id INTEGER NOT NULL,
	campaign_run_id INTEGER,
	title TEXT NOT NULL,
	description TEXT,
	severity TEXT NOT NULL CHECK(severity IN ('LOW', 'MEDIUM', 'HIGH', 'CRITICAL')) DEFAULT 'MEDIUM',
	status TEXT NOT NULL CHECK(status IN ('OPEN', 'FIXED', 'REJECTED', 'CLOSED')) DEFAULT 'OPEN',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	modified_by TEXT NOT NULL,
	FOREIGN KEY (environment_id) REFERENCES environments(id),
	FOREIGN KEY (system_id) REFERENCES systems(id) ON DELETE RESTRICT,
	FOREIGN KEY (campaign_run_id) REFERENCES campaign_runs(id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS bug_requirements (
	bug_id INTEGER NOT NULL,
	requirement_id INTEGER NOT NULL,
	PRIMARY KEY (bug_id, requirement_id),
	FOREIGN KEY (bug_id) REFERENCES bugs(id) ON DELETE CASCADE,
	FOREIGN KEY (requirement_id) REFERENCES requirements(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS bug_files (
	bug_id INTEGER NOT NULL,
	file_id INTEGER NOT NULL,
	PRIMARY KEY (bug_id, file_id),
	FOREIGN KEY (bug_id) REFERENCES bugs(id) ON DELETE CASCADE,
	FOREIGN KEY (file_id) REFERENCES files(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS bug_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	bug_id INTEGER NOT NULL,
	actor TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	summary TEXT NOT NULL,
	FOREIGN KEY (bug_id) REFERENCES bugs(id) ON DELETE CASCADE
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_emails_environment ON emails(environment_id);
CREATE INDEX IF NOT EXISTS idx_operators_environment ON operators(environment_id);
CREATE INDEX IF NOT EXISTS idx_operators_email ON operators(email_id);
CREATE INDEX IF NOT EXISTS idx_drones_operator ON drones(operator_id);
CREATE INDEX IF NOT EXISTS idx_uhub_users_org ON uhub_users(uhub_org_id);
CREATE INDEX IF NOT EXISTS idx_uas_zones_environment ON uas_zones(environment_id);
CREATE INDEX IF NOT EXISTS idx_requirements_environment ON requirements(environment_id);
CREATE INDEX IF NOT EXISTS idx_cases_environment ON cases(environment_id);
CREATE INDEX IF NOT EXISTS idx_steps_case ON steps(case_id);
CREATE INDEX IF NOT EXISTS idx_blocks_environment ON blocks(environment_id);
CREATE INDEX IF NOT EXISTS idx_campaigns_environment ON campaigns(environment_id);
CREATE INDEX IF NOT EXISTS idx_campaign_runs_campaign ON campaign_runs(campaign_id);
CREATE INDEX IF NOT EXISTS idx_case_runs_campaign_run ON case_runs(campaign_run_id);
CREATE INDEX IF NOT EXISTS idx_step_runs_case_run ON step_runs(case_run_id);
CREATE INDEX IF NOT EXISTS idx_bugs_environment ON bugs(environment_id);
CREATE INDEX IF NOT EXISTS idx_bugs_system ON bugs(system_id);
CREATE INDEX IF NOT EXISTS idx_bugs_campaign_run ON bugs(campaign_run_id);
CREATE INDEX IF NOT EXISTS idx_bug_history_bug ON bug_history(bug_id);
CREATE INDEX IF NOT EXISTS idx_files_stored_name ON files(stored_name);
`

// DropSQL removes every table, children first so foreign keys never block.
const DropSQL = `
DROP TABLE IF EXISTS bug_history;
DROP TABLE IF EXISTS bug_files;
DROP TABLE IF EXISTS bug_requirements;
DROP TABLE IF EXISTS bugs;
DROP TABLE IF EXISTS step_runs;
DROP TABLE IF EXISTS case_runs;
DROP TABLE IF EXISTS campaign_runs;
DROP TABLE IF EXISTS files;
DROP TABLE IF EXISTS campaign_blocks;
DROP TABLE IF EXISTS campaigns;
DROP TABLE IF EXISTS block_cases;
DROP TABLE IF EXISTS blocks;
DROP TABLE IF EXISTS case_sections;
DROP TABLE IF EXISTS case_systems;
DROP TABLE IF EXISTS case_uas_zones;
DROP TABLE IF EXISTS case_uhub_users;
DROP TABLE IF EXISTS case_drones;
DROP TABLE IF EXISTS case_operators;
DROP TABLE IF EXISTS step_requirements;
DROP TABLE IF EXISTS steps;
DROP TABLE IF EXISTS cases;
DROP TABLE IF EXISTS requirement_sections;
DROP TABLE IF EXISTS requirement_systems;
DROP TABLE IF EXISTS requirements;
DROP TABLE IF EXISTS zone_reasons;
DROP TABLE IF EXISTS zone_orgs;
DROP TABLE IF EXISTS uas_zones;
DROP TABLE IF EXISTS uhub_users;
DROP TABLE IF EXISTS uhub_orgs;
DROP TABLE IF EXISTS drones;
DROP TABLE IF EXISTS operators;
DROP TABLE IF EXISTS emails;
DROP TABLE IF EXISTS reasons;
DROP TABLE IF EXISTS sections;
DROP TABLE IF EXISTS systems;
DROP TABLE IF EXISTS environments;
`

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
