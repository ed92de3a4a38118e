// Package repo contains all database access logic for the trek booking API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trek-booking/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txStarter is satisfied by *pgxpool.Pool and by pgx.Tx (as a savepoint).
type txStarter interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// Stores bundles the trek aggregate stores bound to one connection or
// transaction. It is passed explicitly to every unit-of-work function.
type Stores struct {
	Treks     TrekRepo
	Dates     TrekDateRepo
	Prices    PriceRepo
	Timelines TimelineRepo
	Types     TrekTypeRepo
}

// NewStores builds a Stores whose repos all share db.
func NewStores(db db) Stores {
	return Stores{
		Treks:     NewTrekRepo(db),
		Dates:     NewTrekDateRepo(db),
		Prices:    NewPriceRepo(db),
		Timelines: NewTimelineRepo(db),
		Types:     NewTrekTypeRepo(db),
	}
}

// UnitOfWork runs a function against Stores bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(s Stores) error) error
}

type pgUnitOfWork struct {
	db txStarter
}

// NewUnitOfWork returns a UnitOfWork that opens its transactions on db.
// Passing a pgx.Tx nests each unit of work in a savepoint, which the
// integration tests rely on for rollback isolation.
func NewUnitOfWork(db txStarter) UnitOfWork {
	return &pgUnitOfWork{db: db}
}

func (u *pgUnitOfWork) Do(ctx context.Context, fn func(s Stores) error) error {
	err := pgx.BeginFunc(ctx, u.db, func(tx pgx.Tx) error {
		return fn(NewStores(tx))
	})
	if err != nil {
		return fmt.Errorf("repo.UnitOfWork.Do: %w", err)
	}
	return nil
}

// Snapshot runs read-only functions against Stores that all see one
// consistent view of the database.
type Snapshot interface {
	View(ctx context.Context, fn func(s Stores) error) error
}

// optionStarter is satisfied by *pgxpool.Pool but not by pgx.Tx.
type optionStarter interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

var snapshotTx = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// NewSnapshot returns a Snapshot that reads inside a read-only REPEATABLE
// READ transaction on db. Given a pgx.Tx it reads in a savepoint and sees
// whatever the enclosing transaction sees.
func NewSnapshot(db txStarter) Snapshot {
	return &pgUnitOfWork{db: db}
}

func (u *pgUnitOfWork) View(ctx context.Context, fn func(s Stores) error) error {
	run := func(tx pgx.Tx) error { return fn(NewStores(tx)) }

	var err error
	if b, ok := u.db.(optionStarter); ok {
		err = pgx.BeginTxFunc(ctx, b, snapshotTx, run)
	} else {
		err = pgx.BeginFunc(ctx, u.db, run)
	}
	if err != nil {
		return fmt.Errorf("repo.Snapshot.View: %w", err)
	}
	return nil
}

// uuidArray converts ids for binding to a uuid[] parameter. The result is never
// nil so an empty list is stored as '{}' rather than NULL.
func uuidArray(ids []uuid.UUID) []pgtype.UUID {
	out := make([]pgtype.UUID, len(ids))
	for i, id := range ids {
		out[i] = pgtype.UUID{Bytes: id, Valid: true}
	}
	return out
}

func fromUUIDArray(in []pgtype.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(in))
	for _, id := range in {
		if id.Valid {
			out = append(out, uuid.UUID(id.Bytes))
		}
	}
	return out
}

func nullableUUID(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

// nonNil keeps text[] and jsonb columns from receiving NULL.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// notFound maps pgx.ErrNoRows to domain.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

const uniqueViolation = "23505"

// conflict maps a unique-constraint violation to domain.ErrConflict.
func conflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	}
	return err
}

// collect drains rows through scan. The returned slice is never nil.
func collect[T any](rows pgx.Rows, scan func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
