package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchfeed/internal/domain/normalization"
	qb "github.com/riskibarqy/matchfeed/internal/platform/querybuilder"
)

// eventInsertChunk keeps one statement well below the 65535 bind parameter
// limit of the Postgres protocol.
const eventInsertChunk = 1000

type NormalizationRepository struct {
	db *sqlx.DB
}

func NewNormalizationRepository(db *sqlx.DB) *NormalizationRepository {
	return &NormalizationRepository{db: db}
}

func (r *NormalizationRepository) CreateRun(ctx context.Context, run normalization.Run) error {
	query, args, err := qb.InsertModel("normalization_runs", runToModel(run), "")
	if err != nil {
		return fmt.Errorf("build create run query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create run id=%s: %w", run.ID, err)
	}
	return nil
}

func (r *NormalizationRepository) FinishRun(ctx context.Context, run normalization.Run) error {
	model := runToModel(run)
	query, args, err := qb.Update("normalization_runs").
		Set("status", model.Status).
		Set("records", model.Records).
		Set("emitted", model.Emitted).
		Set("markers", model.Markers).
		Set("skipped", model.Skipped).
		Set("filtered", model.Filtered).
		Set("error", model.Error).
		Set("finished_at", model.FinishedAt).
		Where(qb.Eq("id", model.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build finish run query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("finish run id=%s: %w", run.ID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("finish run id=%s: run not found", run.ID)
	}
	return nil
}

func (r *NormalizationRepository) GetRun(ctx context.Context, id string) (normalization.Run, bool, error) {
	query, args, err := qb.Select(qb.Columns(runTableModel{})...).
		From("normalization_runs").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return normalization.Run{}, false, fmt.Errorf("build get run query: %w", err)
	}

	var row runTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return normalization.Run{}, false, nil
		}
		return normalization.Run{}, false, fmt.Errorf("get run id=%s: %w", id, err)
	}
	return runFromModel(row), true, nil
}

// InsertEvents writes all rows in one transaction, chunked into multi-row
// inserts.
func (r *NormalizationRepository) InsertEvents(ctx context.Context, rows []normalization.EventRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx insert events: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for start := 0; start < len(rows); start += eventInsertChunk {
		end := min(start+eventInsertChunk, len(rows))
		models := make([]eventTableModel, 0, end-start)
		for _, row := range rows[start:end] {
			models = append(models, eventToModel(row))
		}

		query, args, err := qb.InsertModels("normalized_events", models, "ON CONFLICT (run_id, seq) DO NOTHING")
		if err != nil {
			return fmt.Errorf("build insert events query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert events run=%s offset=%d: %w", rows[start].RunID, start, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert events tx: %w", err)
	}
	return nil
}

func (r *NormalizationRepository) ListEvents(ctx context.Context, runID string) ([]normalization.EventRow, error) {
	query, args, err := qb.Select(qb.Columns(eventTableModel{})...).
		From("normalized_events").
		Where(qb.Eq("run_id", runID)).
		OrderBy("seq").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list events query: %w", err)
	}

	var rows []eventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list events run=%s: %w", runID, err)
	}

	out := make([]normalization.EventRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, eventFromModel(row))
	}
	return out, nil
}
