package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx, so
// the same store code serves both transactional and plain use.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// DBVersionStore implements TxVersionStore on PostgreSQL.
type DBVersionStore struct {
	db *sql.DB
	q  querier
}

// NewDBVersionStore creates a PostgreSQL-backed version store and ensures
// its table exists.
func NewDBVersionStore(db *sql.DB) (*DBVersionStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	store := &DBVersionStore{db: db, q: db}
	if err := store.ensureTable(); err != nil {
		return nil, fmt.Errorf("failed to ensure content_versions table: %w", err)
	}

	return store, nil
}

// ensureTable creates the content_versions table if it doesn't exist.
func (s *DBVersionStore) ensureTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS content_versions (
		content_id VARCHAR(100) NOT NULL,
		version_id VARCHAR(100) NOT NULL,
		latest BOOLEAN NOT NULL DEFAULT FALSE,
		published BOOLEAN NOT NULL DEFAULT FALSE,
		content_type VARCHAR(255),
		display_text TEXT,
		data JSONB,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		PRIMARY KEY (content_id, version_id)
	);

	CREATE INDEX IF NOT EXISTS idx_content_versions_latest ON content_versions(content_id) WHERE latest;
	CREATE INDEX IF NOT EXISTS idx_content_versions_published ON content_versions(content_id) WHERE published;
	`

	_, err := s.db.Exec(query)
	return err
}

// InTx runs fn against a store bound to one transaction.
func (s *DBVersionStore) InTx(ctx context.Context, fn func(VersionStore) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&DBVersionStore{db: s.db, q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (after: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Latest returns the version flagged latest for contentID, or nil.
func (s *DBVersionStore) Latest(ctx context.Context, contentID string) (*Snapshot, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT content_id, version_id, latest, published, content_type, display_text, data
		FROM content_versions
		WHERE content_id = $1 AND latest
	`, contentID)

	return scanSnapshot(row)
}

// Get returns the version keyed by (contentID, versionID), or nil.
func (s *DBVersionStore) Get(ctx context.Context, contentID, versionID string) (*Snapshot, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT content_id, version_id, latest, published, content_type, display_text, data
		FROM content_versions
		WHERE content_id = $1 AND version_id = $2
	`, contentID, versionID)

	return scanSnapshot(row)
}

// UnsetLatest clears the latest flag via compare-and-swap.
func (s *DBVersionStore) UnsetLatest(ctx context.Context, contentID, versionID string) (bool, error) {
	result, err := s.q.ExecContext(ctx, `
		UPDATE content_versions SET latest = FALSE
		WHERE content_id = $1 AND version_id = $2 AND latest
	`, contentID, versionID)
	if err != nil {
		return false, fmt.Errorf("failed to unset latest version: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected == 1, nil
}

// CreateDraft persists the snapshot as the new latest, unpublished version.
func (s *DBVersionStore) CreateDraft(ctx context.Context, snap *Snapshot) (string, error) {
	versionID := uuid.NewString()

	var dataArg interface{}
	if snap.Data != nil {
		dataJSON, err := json.Marshal(snap.Data)
		if err != nil {
			return "", fmt.Errorf("failed to marshal snapshot data: %w", err)
		}
		dataArg = dataJSON
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO content_versions (content_id, version_id, latest, published, content_type, display_text, data)
		VALUES ($1, $2, TRUE, FALSE, $3, $4, $5)
	`, snap.ContentID, versionID, snap.ContentType, snap.DisplayText, dataArg)
	if err != nil {
		return "", fmt.Errorf("failed to create draft version: %w", err)
	}

	return versionID, nil
}

// Save persists changes to an existing version row.
func (s *DBVersionStore) Save(ctx context.Context, snap *Snapshot) error {
	var dataJSON []byte
	if snap.Data != nil {
		var err error
		dataJSON, err = json.Marshal(snap.Data)
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot data: %w", err)
		}
	}

	_, err := s.q.ExecContext(ctx, `
		UPDATE content_versions
		SET latest = $3, published = $4, content_type = $5, display_text = $6, data = $7
		WHERE content_id = $1 AND version_id = $2
	`, snap.ContentID, snap.VersionID, snap.Latest, snap.Published, snap.ContentType, snap.DisplayText, dataJSON)
	if err != nil {
		return fmt.Errorf("failed to save version: %w", err)
	}
	return nil
}

// scanSnapshot scans one version row, returning nil on sql.ErrNoRows.
func scanSnapshot(row *sql.Row) (*Snapshot, error) {
	var (
		snap        Snapshot
		contentType sql.NullString
		displayText sql.NullString
		dataJSON    []byte
	)

	err := row.Scan(&snap.ContentID, &snap.VersionID, &snap.Latest, &snap.Published, &contentType, &displayText, &dataJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan version row: %w", err)
	}

	snap.ContentType = contentType.String
	snap.DisplayText = displayText.String
	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &snap.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot data: %w", err)
		}
	}

	return &snap, nil
}
