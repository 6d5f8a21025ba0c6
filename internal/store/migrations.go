package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per analysis session
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			ended_at DATETIME
		)`,

		// Engagement log - one row per confirmed track per frame
		`CREATE TABLE IF NOT EXISTS engagement_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			person_id INTEGER NOT NULL,
			recorded_at DATETIME NOT NULL,
			attention REAL NOT NULL,
			stress REAL NOT NULL,
			curiosity REAL NOT NULL,
			bad_sign INTEGER NOT NULL DEFAULT 0,
			body_language TEXT NOT NULL
		)`,

		// Settings table - application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_engagement_log_session_id ON engagement_log(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_engagement_log_person_id ON engagement_log(session_id, person_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
