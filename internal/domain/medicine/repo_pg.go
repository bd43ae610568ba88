package medicine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns the Postgres-backed repository.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const cols = `id, name, batch_number, expiry, stock, reorder_level, consumed,
	country, district, chiefdom, facility, created_at, updated_at`

func scanRecord(row pgx.Row) (*Record, error) {
	var r Record
	err := row.Scan(&r.ID, &r.Name, &r.BatchNumber, &r.Expiry, &r.Stock, &r.ReorderLevel, &r.Consumed,
		&r.Country, &r.District, &r.Chiefdom, &r.Facility, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &r, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (repo *repoPG) Create(ctx context.Context, r *Record) error {
	r.ID = uuid.New()
	_, err := repo.pool.Exec(ctx, `
		INSERT INTO medicines (id, name, batch_number, expiry, stock, reorder_level, consumed,
			country, district, chiefdom, facility)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		r.ID, r.Name, r.BatchNumber, r.Expiry, r.Stock, r.ReorderLevel, r.Consumed,
		r.Country, r.District, r.Chiefdom, r.Facility)
	if isUniqueViolation(err) {
		return ErrDuplicateBatch
	}
	return err
}

func (repo *repoPG) CreateBatch(ctx context.Context, records []*Record) error {
	tx, err := repo.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		r.ID = uuid.New()
		_, err := tx.Exec(ctx, `
			INSERT INTO medicines (id, name, batch_number, expiry, stock, reorder_level, consumed,
				country, district, chiefdom, facility)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			r.ID, r.Name, r.BatchNumber, r.Expiry, r.Stock, r.ReorderLevel, r.Consumed,
			r.Country, r.District, r.Chiefdom, r.Facility)
		if isUniqueViolation(err) {
			return ErrDuplicateBatch
		}
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (repo *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	return scanRecord(repo.pool.QueryRow(ctx, `SELECT `+cols+` FROM medicines WHERE id = $1`, id))
}

func (repo *repoPG) GetByBatchNumber(ctx context.Context, batchNumber string) (*Record, error) {
	return scanRecord(repo.pool.QueryRow(ctx, `SELECT `+cols+` FROM medicines WHERE batch_number = $1`, batchNumber))
}

func (repo *repoPG) Update(ctx context.Context, r *Record) error {
	tag, err := repo.pool.Exec(ctx, `
		UPDATE medicines SET name=$2, expiry=$3, stock=$4, reorder_level=$5, consumed=$6,
			country=$7, district=$8, chiefdom=$9, facility=$10, updated_at=NOW()
		WHERE id = $1`,
		r.ID, r.Name, r.Expiry, r.Stock, r.ReorderLevel, r.Consumed,
		r.Country, r.District, r.Chiefdom, r.Facility)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := repo.pool.Exec(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// searchColumns maps query params to exact-match columns.
var searchColumns = map[string]string{
	"country":  "country",
	"district": "district",
	"chiefdom": "chiefdom",
	"facility": "facility",
}

func (repo *repoPG) Search(ctx context.Context, params map[string]string) ([]*Record, error) {
	var where []string
	var args []interface{}

	for param, col := range searchColumns {
		if v := params[param]; v != "" {
			args = append(args, v)
			where = append(where, fmt.Sprintf("%s = $%d", col, len(args)))
		}
	}
	if term := strings.TrimSpace(params["search"]); term != "" {
		args = append(args, "%"+term+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR batch_number ILIKE $%d OR facility ILIKE $%d)", n, n, n))
	}

	query := `SELECT ` + cols + ` FROM medicines`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, batch_number"

	rows, err := repo.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (repo *repoPG) ExistingBatchNumbers(ctx context.Context, batchNumbers []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(batchNumbers) == 0 {
		return existing, nil
	}
	rows, err := repo.pool.Query(ctx,
		`SELECT batch_number FROM medicines WHERE batch_number = ANY($1)`, batchNumbers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var bn string
		if err := rows.Scan(&bn); err != nil {
			return nil, err
		}
		existing[bn] = true
	}
	return existing, rows.Err()
}

func (repo *repoPG) Districts(ctx context.Context) ([]string, error) {
	rows, err := repo.pool.Query(ctx, `SELECT DISTINCT district FROM medicines ORDER BY district`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var districts []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		districts = append(districts, d)
	}
	return districts, rows.Err()
}
