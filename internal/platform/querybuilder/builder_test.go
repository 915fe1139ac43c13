package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := Select("run_id", "seq", "kind").
		From("normalized_events").
		Where(Eq("run_id", "r1"), Eq("kind", "PASS")).
		OrderBy("seq").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT run_id, seq, kind FROM normalized_events WHERE run_id = $1 AND kind = $2 ORDER BY seq"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "r1" || args[1] != "PASS" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := InsertInto("normalization_runs").
		Columns("id", "provider").
		Values("r1", "uefa").
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO normalization_runs (id, provider) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "r1" || args[1] != "uefa" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertInto("t").Columns("a", "b").Values(1).ToSQL(); err == nil {
		t.Fatalf("expected error for short row")
	}
}

func TestUpdateBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := Update("normalization_runs").
		Set("status", "succeeded").
		SetRaw("finished_at", "NOW()").
		Where(Eq("id", "r1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE normalization_runs SET status = $1, finished_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "succeeded" || args[1] != "r1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

type rowModel struct {
	RunID   string   `db:"run_id"`
	Seq     int      `db:"seq"`
	X       *float64 `db:"x"`
	Ignored string   `db:"-"`
	hidden  string
}

func TestInsertModels(t *testing.T) {
	t.Parallel()

	x := 12.5
	rows := []rowModel{{RunID: "r1", Seq: 0, X: &x}, {RunID: "r1", Seq: 1, hidden: "skip"}}
	query, args, err := InsertModels("normalized_events", rows, "")
	if err != nil {
		t.Fatalf("build insert models query: %v", err)
	}

	wantQuery := "INSERT INTO normalized_events (run_id, seq, x) VALUES ($1, $2, $3), ($4, $5, $6)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 || args[3] != "r1" || args[4] != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}
	if got := Columns(rowModel{}); len(got) != 3 || got[2] != "x" {
		t.Fatalf("unexpected columns: %v", got)
	}

	if _, _, err := InsertModels[rowModel]("normalized_events", nil, ""); err == nil {
		t.Fatalf("expected error for empty models")
	}
}
