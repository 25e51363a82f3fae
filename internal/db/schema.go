package db

const createServicesTable = `
CREATE TABLE IF NOT EXISTS services (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    position INTEGER NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    formats TEXT,
    deletion_required INTEGER NOT NULL DEFAULT 0,
    process_time TEXT,
    notes TEXT,
    export_link TEXT,
    last_verified_date TEXT
);

CREATE INDEX IF NOT EXISTS idx_services_position ON services(position);
`

const insertService = `
INSERT INTO services (
    position, name, formats, deletion_required,
    process_time, notes, export_link, last_verified_date
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

const deleteAllServices = `DELETE FROM services`

const selectServices = `
SELECT
    name,
    formats,
    deletion_required,
    COALESCE(process_time, ''),
    COALESCE(notes, ''),
    COALESCE(export_link, ''),
    COALESCE(last_verified_date, '')
FROM services
ORDER BY position ASC, id ASC
`

const selectServiceCount = `SELECT COUNT(*) FROM services`

// Key/value metadata about the last import
const createMetaTable = `
CREATE TABLE IF NOT EXISTS catalog_meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

const upsertMeta = `
INSERT INTO catalog_meta (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`

const selectMeta = `SELECT value FROM catalog_meta WHERE key = ?`
