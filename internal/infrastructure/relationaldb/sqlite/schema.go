package sqlite

const entitySchema = `
CREATE TABLE IF NOT EXISTS companies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS employees (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL CHECK (title IN ('Developer', 'Manager', 'Tester')),
	created_at TIMESTAMP NOT NULL
);

-- Title is denormalized so one title per company is enforced by the index.
CREATE TABLE IF NOT EXISTS company_employees (
	company_id INTEGER NOT NULL REFERENCES companies(id),
	employee_id INTEGER NOT NULL REFERENCES employees(id),
	employee_title TEXT NOT NULL,
	PRIMARY KEY (company_id, employee_id),
	UNIQUE (company_id, employee_title)
);
CREATE INDEX IF NOT EXISTS idx_company_employees_employee ON company_employees(employee_id);
`

const auditSchema = `
CREATE TABLE IF NOT EXISTS audit_log (
	id TEXT PRIMARY KEY,
	resource_type TEXT NOT NULL,
	event_type TEXT NOT NULL,
	unique_identifier_value TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	changeset TEXT NOT NULL,
	comment TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_log_resource ON audit_log(resource_type, unique_identifier_value);
CREATE INDEX IF NOT EXISTS idx_audit_log_created ON audit_log(created_at);
`
