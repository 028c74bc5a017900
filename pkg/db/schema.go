package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- One row per successful compression run
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    input_path TEXT NOT NULL,
    output_path TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

    -- Settings the run used
    max_mappings INTEGER NOT NULL,
    scanner TEXT NOT NULL,

    -- Sizes in bytes
    original_size INTEGER NOT NULL,
    compressed_size INTEGER NOT NULL,
    package_size INTEGER NOT NULL,
    mapping_size INTEGER NOT NULL,

    savings_percent REAL NOT NULL,
    net_savings_percent REAL NOT NULL,

    -- Serialized mapping: tag coded N at position N-1, comma-joined
    mapping_list TEXT NOT NULL,
    hazard_count INTEGER DEFAULT 0,
    title TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_runs_input ON runs(input_path);

-- Tag frequency table of each run
CREATE TABLE IF NOT EXISTS run_tags (
    run_id TEXT NOT NULL,
    tag TEXT NOT NULL,
    count INTEGER NOT NULL,
    savings INTEGER NOT NULL,
    code TEXT,
    PRIMARY KEY (run_id, tag),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);
`
