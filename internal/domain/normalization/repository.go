package normalization

import "context"

type Repository interface {
	CreateRun(ctx context.Context, run Run) error
	FinishRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	InsertEvents(ctx context.Context, rows []EventRow) error
	ListEvents(ctx context.Context, runID string) ([]EventRow, error)
}
