package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries holds the statements used by the stores.
type Queries struct {
	db DBTX
}

// New binds the queries to a connection or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a copy bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Task is a row of the tasks table.
type Task struct {
	ID                   string
	Title                string
	DueDate              sql.NullString
	SessionLengthMinutes sql.NullInt64
	Status               string
	CreatedAt            int64
	UpdatedAt            int64
	CompletedAt          sql.NullInt64
	DroppedAt            sql.NullInt64
}

// Idea is a row of the ideas table.
type Idea struct {
	ID           string
	Title        string
	ReferenceURL sql.NullString
	Rank         int64
	Status       string
	CreatedAt    int64
	UpdatedAt    int64
	ArchivedAt   sql.NullInt64
}

// Daily is a row of the daily table. CommitmentTaskIDs is a JSON array.
type Daily struct {
	DateKey            string
	CommitmentTaskIDs  string
	MorningCompletedAt sql.NullInt64
	EveningCompletedAt sql.NullInt64
	ResetCompletedAt   sql.NullInt64
	UpdatedAt          int64
}

type rowScanner interface {
	Scan(dest ...any) error
}

// ---- tasks ----

const taskColumns = `id, title, due_date, session_length_minutes, status,
	created_at, updated_at, completed_at, dropped_at`

func scanTask(r rowScanner) (Task, error) {
	var t Task
	err := r.Scan(
		&t.ID, &t.Title, &t.DueDate, &t.SessionLengthMinutes, &t.Status,
		&t.CreatedAt, &t.UpdatedAt, &t.CompletedAt, &t.DroppedAt,
	)
	return t, err
}

func (q *Queries) InsertTask(ctx context.Context, t Task) error {
	_, err := q.db.ExecContext(ctx, `INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.DueDate, t.SessionLengthMinutes, t.Status,
		t.CreatedAt, t.UpdatedAt, t.CompletedAt, t.DroppedAt,
	)
	return err
}

func (q *Queries) GetTask(ctx context.Context, id string) (Task, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

type UpdateTaskParams struct {
	ID                   string
	Title                string
	DueDate              sql.NullString
	SessionLengthMinutes sql.NullInt64
	UpdatedAt            int64
}

// UpdateTask rewrites the editable columns and reports rows affected.
func (q *Queries) UpdateTask(ctx context.Context, arg UpdateTaskParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `UPDATE tasks
		SET title = ?, due_date = ?, session_length_minutes = ?, updated_at = ?
		WHERE id = ?`,
		arg.Title, arg.DueDate, arg.SessionLengthMinutes, arg.UpdatedAt, arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type FinishTaskParams struct {
	ID     string
	Status string
	At     int64
}

// FinishTask moves an active task to a terminal status. Zero rows affected
// means the task is missing or no longer active.
func (q *Queries) FinishTask(ctx context.Context, arg FinishTaskParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `UPDATE tasks
		SET status = ?,
		    updated_at = ?,
		    completed_at = CASE WHEN ? = 'done' THEN ? ELSE completed_at END,
		    dropped_at = CASE WHEN ? = 'dropped' THEN ? ELSE dropped_at END
		WHERE id = ? AND status = 'active'`,
		arg.Status, arg.At, arg.Status, arg.At, arg.Status, arg.At, arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type ListTasksParams struct {
	Status       string
	OrderColumn  string // created_at, due_date or updated_at
	Ascending    bool
	UpdatedSince int64 // zero disables the bound
	Limit        int64 // zero means no limit
}

var taskOrderColumns = map[string]bool{
	"created_at": true,
	"due_date":   true,
	"updated_at": true,
}

func (q *Queries) ListTasks(ctx context.Context, arg ListTasksParams) ([]Task, error) {
	col := arg.OrderColumn
	if col == "" {
		col = "created_at"
	}
	if !taskOrderColumns[col] {
		return nil, fmt.Errorf("unsupported task order column %q", col)
	}

	dir := "DESC"
	if arg.Ascending {
		dir = "ASC"
	}

	var (
		sb   strings.Builder
		args = []any{arg.Status}
	)
	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE status = ?`)
	if arg.UpdatedSince > 0 {
		sb.WriteString(` AND updated_at >= ?`)
		args = append(args, arg.UpdatedSince)
	}
	fmt.Fprintf(&sb, ` ORDER BY %s %s, id %s LIMIT ?`, col, dir, dir)

	limit := arg.Limit
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit)

	rows, err := q.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// ---- ideas ----

const ideaColumns = `id, title, reference_url, rank, status, created_at, updated_at, archived_at`

func scanIdea(r rowScanner) (Idea, error) {
	var i Idea
	err := r.Scan(
		&i.ID, &i.Title, &i.ReferenceURL, &i.Rank, &i.Status,
		&i.CreatedAt, &i.UpdatedAt, &i.ArchivedAt,
	)
	return i, err
}

func (q *Queries) InsertIdea(ctx context.Context, i Idea) error {
	_, err := q.db.ExecContext(ctx, `INSERT INTO ideas (`+ideaColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		i.ID, i.Title, i.ReferenceURL, i.Rank, i.Status,
		i.CreatedAt, i.UpdatedAt, i.ArchivedAt,
	)
	return err
}

func (q *Queries) GetIdea(ctx context.Context, id string) (Idea, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+ideaColumns+` FROM ideas WHERE id = ?`, id)
	return scanIdea(row)
}

// MaxActiveIdeaRank returns the highest active rank, or zero when there are
// no active ideas.
func (q *Queries) MaxActiveIdeaRank(ctx context.Context) (int64, error) {
	var rank int64
	err := q.db.QueryRowContext(ctx,
		`SELECT rank FROM ideas WHERE status = 'active' ORDER BY rank DESC LIMIT 1`,
	).Scan(&rank)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return rank, err
}

func (q *Queries) ListIdeasByStatus(ctx context.Context, status string) ([]Idea, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+ideaColumns+` FROM ideas WHERE status = ? ORDER BY rank ASC, created_at ASC`, status)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Idea
	for rows.Next() {
		i, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

type UpdateIdeaRankParams struct {
	ID        string
	Rank      int64
	UpdatedAt int64
}

func (q *Queries) UpdateIdeaRank(ctx context.Context, arg UpdateIdeaRankParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE ideas SET rank = ?, updated_at = ? WHERE id = ? AND status = 'active'`,
		arg.Rank, arg.UpdatedAt, arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type ArchiveIdeaParams struct {
	ID string
	At int64
}

// ArchiveIdea archives an active idea. Zero rows affected means the idea is
// missing or already archived.
func (q *Queries) ArchiveIdea(ctx context.Context, arg ArchiveIdeaParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE ideas SET status = 'archived', archived_at = ?, updated_at = ?
		WHERE id = ? AND status = 'active'`,
		arg.At, arg.At, arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ---- daily ----

const dailyColumns = `date_key, commitment_task_ids, morning_completed_at,
	evening_completed_at, reset_completed_at, updated_at`

func scanDaily(r rowScanner) (Daily, error) {
	var d Daily
	err := r.Scan(
		&d.DateKey, &d.CommitmentTaskIDs, &d.MorningCompletedAt,
		&d.EveningCompletedAt, &d.ResetCompletedAt, &d.UpdatedAt,
	)
	return d, err
}

func (q *Queries) GetDaily(ctx context.Context, dateKey string) (Daily, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+dailyColumns+` FROM daily WHERE date_key = ?`, dateKey)
	return scanDaily(row)
}

// InsertDaily creates an empty ledger. An existing row is left alone.
func (q *Queries) InsertDaily(ctx context.Context, dateKey string, updatedAt int64) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO daily (date_key, commitment_task_ids, updated_at) VALUES (?, '[]', ?)
		ON CONFLICT (date_key) DO NOTHING`,
		dateKey, updatedAt,
	)
	return err
}

type UpdateDailyCommitmentsParams struct {
	DateKey           string
	CommitmentTaskIDs string
	UpdatedAt         int64
}

func (q *Queries) UpdateDailyCommitments(ctx context.Context, arg UpdateDailyCommitmentsParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE daily SET commitment_task_ids = ?, updated_at = ? WHERE date_key = ?`,
		arg.CommitmentTaskIDs, arg.UpdatedAt, arg.DateKey,
	)
	return err
}

var ritualColumns = map[string]string{
	"morning": "morning_completed_at",
	"evening": "evening_completed_at",
	"reset":   "reset_completed_at",
}

type MarkDailyRitualParams struct {
	DateKey string
	Ritual  string // morning, evening or reset
	At      int64
}

func (q *Queries) MarkDailyRitual(ctx context.Context, arg MarkDailyRitualParams) error {
	col, ok := ritualColumns[arg.Ritual]
	if !ok {
		return fmt.Errorf("unknown ritual %q", arg.Ritual)
	}
	_, err := q.db.ExecContext(ctx,
		`UPDATE daily SET `+col+` = ?, updated_at = ? WHERE date_key = ?`,
		arg.At, arg.At, arg.DateKey,
	)
	return err
}

type ListDailyParams struct {
	Through     string // empty disables the bound
	EveningOnly bool
	Limit       int64 // zero means no limit
}

func (q *Queries) ListDaily(ctx context.Context, arg ListDailyParams) ([]Daily, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + dailyColumns + ` FROM daily WHERE 1 = 1`)
	if arg.Through != "" {
		sb.WriteString(` AND date_key <= ?`)
		args = append(args, arg.Through)
	}
	if arg.EveningOnly {
		sb.WriteString(` AND evening_completed_at IS NOT NULL`)
	}
	sb.WriteString(` ORDER BY date_key DESC LIMIT ?`)

	limit := arg.Limit
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit)

	rows, err := q.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Daily
	for rows.Next() {
		d, err := scanDaily(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
