package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/libsync/internal/models"
	"github.com/desertthunder/libsync/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func candidate(id, title string) models.Candidate {
	return models.Candidate{
		ID:     id,
		Fields: models.TrackFields{Artist: "The Beatles", Album: "Abbey Road", Title: title},
	}
}

func skipRecord(runID, candidateID, remoteID string) *models.DecisionRecord {
	decision := models.NewSkipDecision(models.StrategyMusicBrainzID, remoteID, "musicbrainz id abc already in library")
	return models.NewDecisionRecord(runID, candidate(candidateID, "Come Together"), decision)
}

func uploadRecord(runID, candidateID string) *models.DecisionRecord {
	return models.NewDecisionRecord(runID, candidate(candidateID, "Something"), models.NewUploadDecision("no matching track in library"))
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "decisions")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for unknown sequence table")
	}
}

func TestDecisionRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewDecisionRepository(db)
		record := skipRecord("run-1", "c1", "42")

		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create decision: %v", err)
		}
		if record.ID() == "" {
			t.Error("decision ID should be set after creation")
		}
		if record.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", record.Sequence())
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewDecisionRepository(db)
		record := skipRecord("run-1", "c1", "42")
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create decision: %v", err)
		}

		retrieved, err := repo.Get(record.ID())
		if err != nil {
			t.Fatalf("failed to get decision: %v", err)
		}

		if retrieved.RunID() != "run-1" || retrieved.CandidateID() != "c1" {
			t.Errorf("unexpected run/candidate %s/%s", retrieved.RunID(), retrieved.CandidateID())
		}
		if retrieved.ShouldUpload() {
			t.Error("expected skip decision")
		}
		if retrieved.Strategy() != models.StrategyMusicBrainzID {
			t.Errorf("expected musicbrainz strategy, got %v", retrieved.Strategy())
		}
		if retrieved.MatchedRemoteID() != "42" {
			t.Errorf("expected remote id 42, got %q", retrieved.MatchedRemoteID())
		}
		if retrieved.Fields().Title != "Come Together" {
			t.Errorf("expected title to round trip, got %q", retrieved.Fields().Title)
		}
		if retrieved.DeletedAt() != nil {
			t.Error("expected no deleted_at")
		}
	})

	t.Run("Get Upload Without Remote", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewDecisionRepository(db)
		record := uploadRecord("run-1", "c2")
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create decision: %v", err)
		}

		retrieved, err := repo.Get(record.ID())
		if err != nil {
			t.Fatalf("failed to get decision: %v", err)
		}
		if !retrieved.ShouldUpload() || retrieved.MatchedRemoteID() != "" {
			t.Errorf("expected upload without remote id, got %v/%q", retrieved.ShouldUpload(), retrieved.MatchedRemoteID())
		}
		if retrieved.Strategy() != models.StrategyNone {
			t.Errorf("expected strategy none, got %v", retrieved.Strategy())
		}
	})

	t.Run("Failed Record", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewDecisionRepository(db)
		record := models.NewFailedDecisionRecord("run-1", candidate("c3", ""), shared.ErrInvalidTrack)
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create decision: %v", err)
		}

		retrieved, err := repo.Get(record.ID())
		if err != nil {
			t.Fatalf("failed to get decision: %v", err)
		}
		if retrieved.Error() != shared.ErrInvalidTrack.Error() {
			t.Errorf("expected error message to round trip, got %q", retrieved.Error())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewDecisionRepository(db)
		record := skipRecord("run-1", "c1", "42")
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create decision: %v", err)
		}

		if err := repo.Delete(record.ID()); err != nil {
			t.Fatalf("failed to delete decision: %v", err)
		}

		if _, err := repo.Get(record.ID()); err == nil {
			t.Error("expected error when getting deleted decision")
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewDecisionRepository(db)
		records := []*models.DecisionRecord{
			skipRecord("run-1", "a", "1"),
			uploadRecord("run-1", "b"),
			uploadRecord("run-2", "c"),
		}
		for _, record := range records {
			if err := repo.Create(record); err != nil {
				t.Fatalf("failed to create decision: %v", err)
			}
		}

		tt := []struct {
			name     string
			criteria map[string]any
			want     []string
		}{
			{name: "all", criteria: map[string]any{}, want: []string{"a", "b", "c"}},
			{name: "by run", criteria: map[string]any{"run_id": "run-1"}, want: []string{"a", "b"}},
			{name: "by strategy", criteria: map[string]any{"strategy": models.StrategyMusicBrainzID}, want: []string{"a"}},
			{name: "by strategy name", criteria: map[string]any{"strategy": "none"}, want: []string{"b", "c"}},
			{name: "by upload", criteria: map[string]any{"should_upload": false}, want: []string{"a"}},
			{name: "limit", criteria: map[string]any{"limit": 2}, want: []string{"a", "b"}},
			{name: "no match", criteria: map[string]any{"run_id": "run-3"}, want: nil},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				got, err := repo.List(tc.criteria)
				if err != nil {
					t.Fatalf("failed to list decisions: %v", err)
				}
				if len(got) != len(tc.want) {
					t.Fatalf("expected %d decisions, got %d", len(tc.want), len(got))
				}
				for i, id := range tc.want {
					if got[i].CandidateID() != id {
						t.Errorf("position %d: expected %s, got %s", i, id, got[i].CandidateID())
					}
				}
			})
		}
	})

	t.Run("Runs", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewDecisionRepository(db)
		records := []*models.DecisionRecord{
			skipRecord("run-1", "a", "1"),
			uploadRecord("run-1", "b"),
			models.NewFailedDecisionRecord("run-1", candidate("c", ""), errors.New("boom")),
			uploadRecord("run-2", "d"),
		}
		for _, record := range records {
			if err := repo.Create(record); err != nil {
				t.Fatalf("failed to create decision: %v", err)
			}
		}

		runs, err := repo.Runs()
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(runs))
		}
		if runs[0].RunID != "run-2" {
			t.Errorf("expected most recent run first, got %s", runs[0].RunID)
		}

		first := runs[1]
		if first.Total != 3 || first.ToUpload != 1 || first.Duplicates != 1 || first.Failed != 1 {
			t.Errorf("unexpected summary %+v", first)
		}
		if first.StartedAt.IsZero() {
			t.Error("expected start time")
		}
	})
}

func TestDecisionRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewDecisionRepository(db)
			record := models.NewDecisionRecord("", candidate("c1", "x"), models.NewUploadDecision("no match"))

			if err := repo.Create(record); err == nil {
				t.Error("expected validation error for missing run id")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			if _, err := NewDecisionRepository(db).Get("missing"); err == nil {
				t.Error("expected error for missing decision")
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			if err := NewDecisionRepository(db).Delete("missing"); err == nil {
				t.Error("expected error for missing decision")
			}
		})

		t.Run("AlreadyDeleted", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewDecisionRepository(db)
			record := uploadRecord("run-1", "c1")
			if err := repo.Create(record); err != nil {
				t.Fatalf("failed to create decision: %v", err)
			}
			if err := repo.Delete(record.ID()); err != nil {
				t.Fatalf("failed to delete decision: %v", err)
			}
			if err := repo.Delete(record.ID()); err == nil {
				t.Error("expected error when deleting twice")
			}
		})
	})

	t.Run("List", func(t *testing.T) {
		t.Run("ExcludesDeleted", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewDecisionRepository(db)
			keep := uploadRecord("run-1", "keep")
			drop := uploadRecord("run-1", "drop")
			for _, record := range []*models.DecisionRecord{keep, drop} {
				if err := repo.Create(record); err != nil {
					t.Fatalf("failed to create decision: %v", err)
				}
			}
			if err := repo.Delete(drop.ID()); err != nil {
				t.Fatalf("failed to delete decision: %v", err)
			}

			records, err := repo.List(map[string]any{})
			if err != nil {
				t.Fatalf("failed to list decisions: %v", err)
			}
			if len(records) != 1 || records[0].CandidateID() != "keep" {
				t.Errorf("expected only kept decision, got %d", len(records))
			}
		})

		t.Run("UnknownStrategy", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			_, err := NewDecisionRepository(db).List(map[string]any{"strategy": "fuzzy"})
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	})
}
