package store

// Schema is the complete creatorscope schema. Idempotent; applied at
// startup via dbopen.WithSchema.
const Schema = `
-- Tracked creators
CREATE TABLE IF NOT EXISTS creators (
    id              TEXT PRIMARY KEY,
    handle          TEXT NOT NULL UNIQUE,
    niche           TEXT NOT NULL DEFAULT '',
    follower_count  INTEGER NOT NULL DEFAULT 0,
    created_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_creators_handle ON creators(handle);

-- Videos owned by a creator; re-scrapes update counts in place
CREATE TABLE IF NOT EXISTS videos (
    id              TEXT PRIMARY KEY,
    creator_id      TEXT NOT NULL REFERENCES creators(id) ON DELETE CASCADE,
    video_id        TEXT NOT NULL,
    caption         TEXT NOT NULL DEFAULT '',
    hashtags        TEXT NOT NULL DEFAULT '',
    views           INTEGER NOT NULL DEFAULT 0,
    likes           INTEGER NOT NULL DEFAULT 0,
    comments        INTEGER NOT NULL DEFAULT 0,
    shares          INTEGER NOT NULL DEFAULT 0,
    duration        REAL NOT NULL DEFAULT 0,
    posted_at       INTEGER,
    created_at      INTEGER NOT NULL,
    UNIQUE(creator_id, video_id)
);
CREATE INDEX IF NOT EXISTS idx_videos_creator ON videos(creator_id, posted_at DESC);

-- Acquisition log: one row per scrape attempt
CREATE TABLE IF NOT EXISTS scrape_log (
    id              TEXT PRIMARY KEY,
    creator_id      TEXT NOT NULL DEFAULT '',
    handle          TEXT NOT NULL,
    status          TEXT NOT NULL,
    videos_found    INTEGER NOT NULL DEFAULT 0,
    videos_upserted INTEGER NOT NULL DEFAULT 0,
    videos_skipped  INTEGER NOT NULL DEFAULT 0,
    demo_data       INTEGER NOT NULL DEFAULT 0,
    error_message   TEXT NOT NULL DEFAULT '',
    duration_ms     INTEGER NOT NULL DEFAULT 0,
    scraped_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scrape_log_creator ON scrape_log(creator_id, scraped_at DESC);
`
