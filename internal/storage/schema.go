// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines the events log and the garmin_daily biometric table.
package storage

// initSchema creates or updates the database schema.
//
// events is append-only from the application's perspective. garmin_daily
// is written only by the Garmin sync adapter, one row per calendar date,
// joined to events on date(events.timestamp) = garmin_daily.day.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		tag TEXT NOT NULL,
		name TEXT NOT NULL,
		value REAL,
		category TEXT,
		notes TEXT,
		source TEXT NOT NULL DEFAULT 'cli',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS garmin_daily (
		day TEXT PRIMARY KEY,
		steps INTEGER,
		resting_hr REAL,
		avg_hr REAL,
		stress_avg INTEGER,
		sleep_total_sec INTEGER,
		sleep_rem_sec INTEGER,
		active_calories INTEGER,
		synced_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_events_tag ON events(tag);
	CREATE INDEX IF NOT EXISTS idx_events_tag_timestamp ON events(tag, timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_events_day ON events(date(timestamp));
	`

	_, err := d.db.Exec(schema)
	return err
}
