package sqlite

// latestSchema is the full schema for fresh installations.
//
// user_context and plan deliberately carry no UNIQUE(user_uid, kind)
// constraint: single-row-per-(user, kind) is enforced by the
// update-then-insert upsert in this driver, mirroring the read-before-write
// merge the chat core performs.
const latestSchema = `
-- user
CREATE TABLE user (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	refresh_token TEXT NOT NULL DEFAULT '',
	created_ts BIGINT NOT NULL
);

-- chat_turn
CREATE TABLE chat_turn (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	user_uid TEXT NOT NULL,
	message TEXT NOT NULL,
	reply TEXT NOT NULL,
	message_ts BIGINT NOT NULL,
	reply_ts BIGINT NOT NULL
);

CREATE INDEX idx_chat_turn_user_uid ON chat_turn (user_uid);

-- user_context
CREATE TABLE user_context (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_uid TEXT NOT NULL,
	kind TEXT NOT NULL,
	summary TEXT NOT NULL,
	updated_ts BIGINT NOT NULL
);

CREATE INDEX idx_user_context_user_uid ON user_context (user_uid);

-- medicine
CREATE TABLE medicine (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	user_uid TEXT NOT NULL,
	name TEXT NOT NULL,
	dosage TEXT NOT NULL,
	hour INTEGER NOT NULL,
	minute INTEGER NOT NULL,
	usage TEXT NOT NULL DEFAULT ''
);

CREATE INDEX idx_medicine_user_uid ON medicine (user_uid);

-- plan
CREATE TABLE plan (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_uid TEXT NOT NULL,
	kind TEXT NOT NULL,
	content TEXT NOT NULL,
	generalized INTEGER NOT NULL DEFAULT 0,
	created_ts BIGINT NOT NULL
);

CREATE INDEX idx_plan_user_uid ON plan (user_uid);
`
