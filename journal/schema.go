// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS fills (
	order_id TEXT NOT NULL,
	pair TEXT NOT NULL,
	side TEXT NOT NULL,
	qty REAL NOT NULL,
	price REAL NOT NULL,
	status TEXT NOT NULL,
	time DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS positions (
	position_id TEXT PRIMARY KEY,
	pair TEXT NOT NULL,
	side TEXT NOT NULL,
	size REAL NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	leverage REAL NOT NULL,
	margin REAL NOT NULL,
	collateral TEXT NOT NULL,
	realized_pnl REAL NOT NULL,
	open_time DATETIME NOT NULL,
	close_time DATETIME NOT NULL,
	reason TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS equity (
	time DATETIME NOT NULL,
	portfolio_value REAL NOT NULL,
	locked_value REAL NOT NULL,
	unrealized_pnl REAL NOT NULL,
	holding_pnl REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fills_time ON fills(time);
CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);

CREATE TABLE IF NOT EXISTS snapshot_account (
	account_id TEXT PRIMARY KEY,
	mode TEXT NOT NULL,
	saved_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshot_balances (
	account_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	available REAL NOT NULL,
	locked REAL NOT NULL,
	avg_cost REAL NOT NULL,
	PRIMARY KEY (account_id, symbol)
);

CREATE TABLE IF NOT EXISTS snapshot_orders (
	account_id TEXT NOT NULL,
	id TEXT NOT NULL,
	base TEXT NOT NULL,
	quote TEXT NOT NULL,
	side TEXT NOT NULL,
	type TEXT NOT NULL,
	status TEXT NOT NULL,
	limit_price REAL NOT NULL,
	trigger_price REAL NOT NULL,
	trigger_above INTEGER NOT NULL,
	triggered INTEGER NOT NULL,
	qty REAL NOT NULL,
	filled_qty REAL NOT NULL,
	last_fill REAL NOT NULL,
	reserve_price REAL NOT NULL,
	kind TEXT NOT NULL,
	leverage REAL NOT NULL,
	tx_id TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	PRIMARY KEY (account_id, id)
);

CREATE TABLE IF NOT EXISTS snapshot_positions (
	account_id TEXT NOT NULL,
	id TEXT NOT NULL,
	base TEXT NOT NULL,
	quote TEXT NOT NULL,
	side TEXT NOT NULL,
	size REAL NOT NULL,
	entry_price REAL NOT NULL,
	leverage REAL NOT NULL,
	margin REAL NOT NULL,
	liquidation_price REAL NOT NULL,
	collateral_kind TEXT NOT NULL,
	collateral_symbol TEXT NOT NULL,
	collateral_usd REAL NOT NULL,
	opened_at DATETIME NOT NULL,
	PRIMARY KEY (account_id, id)
);
`
