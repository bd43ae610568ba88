package auditlog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) Append(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_log (id, ts, username, action, medicine_name, details)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		e.ID, e.Timestamp, e.User, e.Action, e.MedicineName, e.Details)
	return err
}

func (r *repoPG) List(ctx context.Context, q Query) ([]*Entry, error) {
	var where []string
	var args []interface{}

	if q.User != "" {
		args = append(args, q.User)
		where = append(where, fmt.Sprintf("username = $%d", len(args)))
	}
	if q.Action != "" {
		args = append(args, q.Action)
		where = append(where, fmt.Sprintf("action = $%d", len(args)))
	}
	if !q.From.IsZero() {
		args = append(args, q.From)
		where = append(where, fmt.Sprintf("ts >= $%d", len(args)))
	}
	if !q.To.IsZero() {
		args = append(args, q.To)
		where = append(where, fmt.Sprintf("ts <= $%d", len(args)))
	}

	query := `SELECT id, ts, username, action, medicine_name, details FROM audit_log`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	// seq keeps same-timestamp entries in insertion order, newest first.
	query += " ORDER BY ts DESC, seq DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.User, &e.Action, &e.MedicineName, &e.Details); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
