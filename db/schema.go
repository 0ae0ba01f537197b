// ABOUTME: Database schema definitions
// ABOUTME: Creates the companies, contacts, deals, and activities tables
package db

import (
	"database/sql"
)

// Money columns are TEXT so decimals survive without float rounding.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS companies (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	sector TEXT NOT NULL,
	country TEXT NOT NULL,
	ebitda_ltm TEXT,
	ingresos_ltm TEXT,
	website TEXT,
	metadata TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_companies_name ON companies(name);

CREATE TABLE IF NOT EXISTS contacts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT,
	role TEXT,
	language TEXT,
	company_id TEXT,
	influence INTEGER,
	metadata TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	FOREIGN KEY (company_id) REFERENCES companies(id)
);

CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email);
CREATE INDEX IF NOT EXISTS idx_contacts_company_id ON contacts(company_id);

CREATE TABLE IF NOT EXISTS deals (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	mandate_type TEXT NOT NULL,
	sector TEXT NOT NULL,
	ev_min TEXT NOT NULL,
	ev_max TEXT NOT NULL,
	stage TEXT NOT NULL,
	probability_pct INTEGER NOT NULL,
	fee_model TEXT,
	close_target_date TEXT,
	company_id TEXT,
	contact_id TEXT,
	metadata TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	FOREIGN KEY (company_id) REFERENCES companies(id),
	FOREIGN KEY (contact_id) REFERENCES contacts(id)
);

CREATE INDEX IF NOT EXISTS idx_deals_stage ON deals(stage);
CREATE INDEX IF NOT EXISTS idx_deals_company_id ON deals(company_id);

CREATE TABLE IF NOT EXISTS activities (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	type TEXT NOT NULL,
	description TEXT,
	result TEXT,
	next_step TEXT,
	due_date TEXT,
	deal_id TEXT,
	contact_id TEXT,
	metadata TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	FOREIGN KEY (deal_id) REFERENCES deals(id),
	FOREIGN KEY (contact_id) REFERENCES contacts(id)
);

CREATE INDEX IF NOT EXISTS idx_activities_deal_id ON activities(deal_id);
CREATE INDEX IF NOT EXISTS idx_activities_contact_id ON activities(contact_id);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schemaSQL)
	return err
}
