package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/libsync/internal/models"
	"github.com/desertthunder/libsync/internal/shared"
)

const decisionColumns = `id, sequence, run_id, candidate_id, artist, album, title, should_upload, reason,
		strategy, matched_remote_id, error, created_at, updated_at, deleted_at`

// DecisionRepository implements models.Repository[*models.DecisionRecord] for the audit log.
type DecisionRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.DecisionRecord] = (*DecisionRepository)(nil)

// NewDecisionRepository creates a new DecisionRepository with the given database connection
func NewDecisionRepository(db *sql.DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

// RunSummary aggregates the recorded decisions of one batch run.
type RunSummary struct {
	RunID      string
	Total      int
	ToUpload   int
	Duplicates int
	Failed     int
	StartedAt  time.Time
}

// Create inserts a new [models.DecisionRecord] with generated ID and sequence
func (r *DecisionRepository) Create(record *models.DecisionRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "decisions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	record.SetID(id)
	record.SetSequence(sequence)

	var matched sql.NullString
	if remoteID := record.MatchedRemoteID(); remoteID != "" {
		matched = sql.NullString{String: remoteID, Valid: true}
	}

	fields := record.Fields()
	query := `
		INSERT INTO decisions (id, sequence, run_id, candidate_id, artist, album, title, should_upload, reason,
			strategy, matched_remote_id, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		record.RunID(),
		record.CandidateID(),
		fields.Artist,
		fields.Album,
		fields.Title,
		record.ShouldUpload(),
		record.Reason(),
		record.Strategy().String(),
		matched,
		record.Error(),
		record.CreatedAt(),
		record.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert decision: %w", err)
	}

	return nil
}

// Get retrieves a decision by ID, excluding soft-deleted records
func (r *DecisionRepository) Get(id string) (*models.DecisionRecord, error) {
	query := `SELECT ` + decisionColumns + ` FROM decisions WHERE id = ? AND deleted_at IS NULL`

	record, err := scanDecision(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("decision not found: %s", id)
	}
	return record, err
}

// Delete soft-deletes a decision by ID
func (r *DecisionRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE decisions
		SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete decision: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("decision not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves decisions matching the given criteria in sequence order, excluding soft-deleted records.
//
// Recognized criteria: "run_id" (string), "strategy" ([models.DetectionStrategy] or its string form),
// "should_upload" (bool) and "limit" (int).
func (r *DecisionRepository) List(criteria map[string]any) ([]*models.DecisionRecord, error) {
	query := `SELECT ` + decisionColumns + ` FROM decisions WHERE deleted_at IS NULL`
	args := []any{}

	if runID, ok := criteria["run_id"].(string); ok && runID != "" {
		query += " AND run_id = ?"
		args = append(args, runID)
	}

	switch strategy := criteria["strategy"].(type) {
	case models.DetectionStrategy:
		query += " AND strategy = ?"
		args = append(args, strategy.String())
	case string:
		if strategy != "" {
			parsed, err := models.ParseStrategy(strategy)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
			}
			query += " AND strategy = ?"
			args = append(args, parsed.String())
		}
	}

	if upload, ok := criteria["should_upload"].(bool); ok {
		query += " AND should_upload = ?"
		args = append(args, upload)
	}

	query += " ORDER BY sequence ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	var records []*models.DecisionRecord
	for rows.Next() {
		record, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// Runs summarizes recorded runs, most recent first.
func (r *DecisionRepository) Runs() ([]RunSummary, error) {
	query := `
		SELECT run_id,
			COUNT(*),
			COALESCE(SUM(CASE WHEN should_upload = 1 AND error = '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN should_upload = 0 AND error = '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN error != '' THEN 1 ELSE 0 END), 0),
			MIN(sequence)
		FROM decisions
		WHERE deleted_at IS NULL
		GROUP BY run_id
		ORDER BY MIN(sequence) DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var (
		runs      []RunSummary
		sequences []int
	)
	for rows.Next() {
		var (
			run      RunSummary
			sequence int
		)
		if err := rows.Scan(&run.RunID, &run.Total, &run.ToUpload, &run.Duplicates, &run.Failed, &sequence); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
		sequences = append(sequences, sequence)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	for i, sequence := range sequences {
		if err := r.db.QueryRow(`SELECT created_at FROM decisions WHERE sequence = ?`, sequence).Scan(&runs[i].StartedAt); err != nil {
			return nil, fmt.Errorf("failed to read run start: %w", err)
		}
	}

	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanDecision scans a single row into a [models.DecisionRecord]
func scanDecision(row rowScanner) (*models.DecisionRecord, error) {
	var (
		id           string
		sequence     int
		runID        string
		candidateID  string
		fields       models.TrackFields
		shouldUpload bool
		reason       string
		strategy     string
		matched      sql.NullString
		errMessage   string
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := row.Scan(&id, &sequence, &runID, &candidateID, &fields.Artist, &fields.Album, &fields.Title,
		&shouldUpload, &reason, &strategy, &matched, &errMessage, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan decision: %w", err)
	}

	parsed, err := models.ParseStrategy(strategy)
	if err != nil {
		return nil, fmt.Errorf("failed to scan decision %s: %w", id, err)
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RestoreDecisionRecord(id, sequence, runID, candidateID, fields, shouldUpload, reason,
		parsed, matched.String, errMessage, createdAt, updatedAt, deleted), nil
}
