package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per completed exercise session. The full
		// metrics report is stored as JSON; the queryable columns are
		// duplicated out of it for listing and aggregation.
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			game TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME NOT NULL,
			duration_seconds REAL NOT NULL DEFAULT 0,
			metrics TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - application settings as key-value pairs. Holds
		// the persisted calibration result among other things.
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for the dashboard queries
		`CREATE INDEX IF NOT EXISTS idx_sessions_game ON sessions(game)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
