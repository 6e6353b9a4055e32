package postgres

import "database/sql"

// Schema creates the five record tables if they do not exist. Date and time
// columns are TEXT holding ISO-8601 strings, matching what the workflow
// compares and renders.
const Schema = `
CREATE TABLE IF NOT EXISTS customers (
	customer_id    TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	email          TEXT NOT NULL,
	phone          TEXT NOT NULL DEFAULT '',
	membership     TEXT NOT NULL DEFAULT 'standard',
	wallet_balance DOUBLE PRECISION NOT NULL DEFAULT 0,
	location       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS orders (
	order_id          TEXT PRIMARY KEY,
	customer_id       TEXT NOT NULL,
	status            TEXT NOT NULL,
	total_amount      DOUBLE PRECISION NOT NULL,
	order_date        TEXT NOT NULL,
	expected_delivery TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders (customer_id);

CREATE TABLE IF NOT EXISTS payments (
	payment_id  TEXT PRIMARY KEY,
	order_id    TEXT NOT NULL,
	customer_id TEXT NOT NULL,
	status      TEXT NOT NULL,
	amount      DOUBLE PRECISION NOT NULL DEFAULT 0,
	refund_date TEXT
);
CREATE INDEX IF NOT EXISTS idx_payments_order ON payments (order_id);
CREATE INDEX IF NOT EXISTS idx_payments_customer ON payments (customer_id);

CREATE TABLE IF NOT EXISTS subscriptions (
	subscription_id   TEXT PRIMARY KEY,
	customer_id       TEXT NOT NULL,
	items             JSONB NOT NULL DEFAULT '[]',
	delivery_date     TEXT NOT NULL,
	subscription_type TEXT NOT NULL DEFAULT 'weekly',
	status            TEXT NOT NULL DEFAULT 'active',
	created_at        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_subscriptions_customer ON subscriptions (customer_id);

CREATE TABLE IF NOT EXISTS escalations (
	case_id         TEXT PRIMARY KEY,
	customer_id     TEXT NOT NULL,
	issue_details   TEXT NOT NULL,
	status          TEXT NOT NULL DEFAULT 'pending',
	escalation_time TEXT NOT NULL,
	resolution      TEXT,
	resolved_at     TEXT
);
CREATE INDEX IF NOT EXISTS idx_escalations_customer ON escalations (customer_id);
`

// EnsureSchema applies the bootstrap DDL.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
