package postgres

// latestSchema is the full schema for fresh installations.
//
// "user" is quoted since it is a reserved word in PostgreSQL. As in the
// SQLite driver, user_context and plan carry no UNIQUE(user_uid, kind):
// single-row-per-(user, kind) is owned by the update-then-insert upsert.
const latestSchema = `
-- user
CREATE TABLE "user" (
	id SERIAL PRIMARY KEY,
	uid TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	refresh_token TEXT NOT NULL DEFAULT '',
	created_ts BIGINT NOT NULL
);

-- chat_turn
CREATE TABLE chat_turn (
	id SERIAL PRIMARY KEY,
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
	id SERIAL PRIMARY KEY,
	user_uid TEXT NOT NULL,
	kind TEXT NOT NULL,
	summary TEXT NOT NULL,
	updated_ts BIGINT NOT NULL
);

CREATE INDEX idx_user_context_user_uid ON user_context (user_uid);

-- medicine
CREATE TABLE medicine (
	id SERIAL PRIMARY KEY,
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
	id SERIAL PRIMARY KEY,
	user_uid TEXT NOT NULL,
	kind TEXT NOT NULL,
	content TEXT NOT NULL,
	generalized BOOLEAN NOT NULL DEFAULT FALSE,
	created_ts BIGINT NOT NULL
);

CREATE INDEX idx_plan_user_uid ON plan (user_uid);
`
