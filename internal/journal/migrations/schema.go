package migrations

func sqliteMigrations() []Migration {
	return []Migration{
		{
			Version:     "001",
			Description: "Probe outcomes table",
			UpSQL: `
				CREATE TABLE IF NOT EXISTS probe_outcomes (
					id TEXT PRIMARY KEY,
					session_id TEXT NOT NULL,
					target TEXT NOT NULL,
					found BOOLEAN NOT NULL,
					clicked BOOLEAN NOT NULL,
					candidate_index INTEGER NOT NULL,
					candidate_label TEXT NOT NULL DEFAULT '',
					attempts INTEGER NOT NULL DEFAULT 0,
					radius INTEGER NOT NULL DEFAULT 0,
					confidence TEXT NOT NULL DEFAULT 'unknown',
					image_x INTEGER NOT NULL DEFAULT 0,
					image_y INTEGER NOT NULL DEFAULT 0,
					logical_x INTEGER NOT NULL DEFAULT 0,
					logical_y INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME NOT NULL
				);

				CREATE INDEX IF NOT EXISTS idx_probe_outcomes_created_at ON probe_outcomes(created_at DESC);
				CREATE INDEX IF NOT EXISTS idx_probe_outcomes_session ON probe_outcomes(session_id);
			`,
		},
	}
}

func postgresMigrations() []Migration {
	return []Migration{
		{
			Version:     "001",
			Description: "Probe outcomes table",
			UpSQL: `
				CREATE TABLE IF NOT EXISTS probe_outcomes (
					id VARCHAR(64) PRIMARY KEY,
					session_id VARCHAR(64) NOT NULL,
					target TEXT NOT NULL,
					found BOOLEAN NOT NULL,
					clicked BOOLEAN NOT NULL,
					candidate_index INTEGER NOT NULL,
					candidate_label VARCHAR(32) NOT NULL DEFAULT '',
					attempts INTEGER NOT NULL DEFAULT 0,
					radius INTEGER NOT NULL DEFAULT 0,
					confidence VARCHAR(16) NOT NULL DEFAULT 'unknown',
					image_x INTEGER NOT NULL DEFAULT 0,
					image_y INTEGER NOT NULL DEFAULT 0,
					logical_x INTEGER NOT NULL DEFAULT 0,
					logical_y INTEGER NOT NULL DEFAULT 0,
					created_at TIMESTAMP WITH TIME ZONE NOT NULL
				);

				CREATE INDEX IF NOT EXISTS idx_probe_outcomes_created_at ON probe_outcomes(created_at DESC);
				CREATE INDEX IF NOT EXISTS idx_probe_outcomes_session ON probe_outcomes(session_id);
			`,
		},
	}
}
