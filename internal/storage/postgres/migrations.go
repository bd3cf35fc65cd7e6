package postgres

// Schema for the platform. CREATE IF NOT EXISTS keeps startup idempotent;
// Migrate runs this on every boot.
//
// Course and user rows are soft-deleted only, so the unique index on
// courses.code keeps every code reserved forever. The composite primary
// keys on enrollments, progress and achievement_unlocks are the durable
// uniqueness guarantees the services rely on.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    name          TEXT NOT NULL DEFAULT '',
    role          TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMP WITH TIME ZONE NOT NULL,
    updated_at    TIMESTAMP WITH TIME ZONE NOT NULL,
    deleted_at    TIMESTAMP WITH TIME ZONE,

    CONSTRAINT valid_role CHECK (role IN ('student', 'teacher'))
);

CREATE TABLE IF NOT EXISTS courses (
    id             TEXT PRIMARY KEY,
    owner_id       TEXT NOT NULL REFERENCES users(id),
    title          TEXT NOT NULL,
    description    TEXT NOT NULL DEFAULT '',
    visibility     TEXT NOT NULL,
    password_hash  TEXT NOT NULL DEFAULT '',
    code           TEXT NOT NULL DEFAULT '',
    content_ref    TEXT NOT NULL DEFAULT '',
    total_sections INTEGER NOT NULL DEFAULT 0,
    created_at     TIMESTAMP WITH TIME ZONE NOT NULL,
    updated_at     TIMESTAMP WITH TIME ZONE NOT NULL,
    deleted_at     TIMESTAMP WITH TIME ZONE,

    CONSTRAINT valid_visibility CHECK (visibility IN ('public', 'private'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_courses_code ON courses(code) WHERE code <> '';
CREATE INDEX IF NOT EXISTS idx_courses_owner ON courses(owner_id);

CREATE TABLE IF NOT EXISTS enrollments (
    id          TEXT NOT NULL,
    user_id     TEXT NOT NULL REFERENCES users(id),
    course_id   TEXT NOT NULL REFERENCES courses(id),
    enrolled_at TIMESTAMP WITH TIME ZONE NOT NULL,

    PRIMARY KEY (user_id, course_id)
);

CREATE INDEX IF NOT EXISTS idx_enrollments_user ON enrollments(user_id);

CREATE TABLE IF NOT EXISTS progress (
    user_id            TEXT NOT NULL REFERENCES users(id),
    course_id          TEXT NOT NULL REFERENCES courses(id),
    sections_viewed    JSONB NOT NULL DEFAULT '{}'::jsonb,
    time_spent_seconds BIGINT NOT NULL DEFAULT 0,
    quiz_scores        JSONB NOT NULL DEFAULT '{}'::jsonb,
    started_at         TIMESTAMP WITH TIME ZONE NOT NULL,
    updated_at         TIMESTAMP WITH TIME ZONE NOT NULL,
    version            BIGINT NOT NULL DEFAULT 1,

    PRIMARY KEY (user_id, course_id)
);

CREATE INDEX IF NOT EXISTS idx_progress_user ON progress(user_id);

CREATE TABLE IF NOT EXISTS achievement_unlocks (
    user_id        TEXT NOT NULL REFERENCES users(id),
    achievement_id TEXT NOT NULL,
    unlocked_at    TIMESTAMP WITH TIME ZONE NOT NULL,
    snapshot       JSONB NOT NULL DEFAULT '{}'::jsonb,

    PRIMARY KEY (user_id, achievement_id)
);

CREATE INDEX IF NOT EXISTS idx_unlocks_user ON achievement_unlocks(user_id);
`
