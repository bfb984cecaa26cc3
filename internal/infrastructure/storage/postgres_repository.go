package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"BosonNLP/internal/domain"
	"BosonNLP/internal/ports"
)

const groupsTable = "analysis_groups"

const schema = `CREATE TABLE IF NOT EXISTS analysis_groups (
    task_id    TEXT NOT NULL,
    analyzer   TEXT NOT NULL,
    group_id   TEXT NOT NULL,
    num        INTEGER NOT NULL,
    opinion    TEXT NOT NULL DEFAULT '',
    members    TEXT[] NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (task_id, analyzer, group_id)
)`

// PostgresRepository persists cluster and opinion groups into Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.GroupRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Open connects to Postgres through lib/pq and checks the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the groups table when it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveGroups upserts one row per group of the outcome.
func (r *PostgresRepository) SaveGroups(ctx context.Context, outcome domain.Outcome) error {
	if r.db == nil || len(outcome.Groups) == 0 {
		return nil
	}

	query, args, err := buildInsert(outcome)
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert groups: %w", err)
	}
	return nil
}

func buildInsert(outcome domain.Outcome) (string, []any, error) {
	insert := sq.Insert(groupsTable).
		Columns("task_id", "analyzer", "group_id", "num", "opinion", "members").
		PlaceholderFormat(sq.Dollar)

	for _, g := range outcome.Groups {
		members := g.Members
		if members == nil {
			members = []string{}
		}
		insert = insert.Values(outcome.TaskID, outcome.Analyzer, g.ID, g.Num, g.Opinion, pq.StringArray(members))
	}

	return insert.
		Suffix(`ON CONFLICT (task_id, analyzer, group_id) DO UPDATE
              SET num = EXCLUDED.num,
                  opinion = EXCLUDED.opinion,
                  members = EXCLUDED.members`).
		ToSql()
}
