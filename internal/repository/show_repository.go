// Package repository contains data access logic for Show domain operations.
// Shows are read-only from the booking lifecycle's perspective except as a
// join target for cascaded cancellation and the show-removal cascade.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Show represents a scheduled screening of a movie.
// NOTE: Date/time strings are stored in DB format ("2006-01-02" for the
// date, "15:04:05" for start/end) in UTC.
type Show struct {
	ID       uint64 // ID is the primary key of the show
	MovieID  uint64 // MovieID references the movie being screened
	ShowDate string // ShowDate is the calendar date of the screening
	StartsAt string // StartsAt is the start time
	EndsAt   string // EndsAt is the end time
}

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// GetByID retrieves a show by its ID.  It returns ErrShowNotFound if
// there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*Show, error) {
	const q = `SELECT id, movie_id, show_date, starts_at, ends_at FROM shows WHERE id = ?`
	var s Show
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.MovieID, &s.ShowDate, &s.StartsAt, &s.EndsAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}

// DeletePlaysOnDateTx removes the theater assignments of every show playing
// on the given date.  Runs before DeleteOnDateTx in the removal cascade.
func (r *ShowRepo) DeletePlaysOnDateTx(ctx context.Context, tx *sql.Tx, date string) (int64, error) {
	const q = `DELETE p FROM plays p
	           JOIN shows s ON s.id = p.show_id
	           WHERE s.show_date = ?`
	res, err := tx.ExecContext(ctx, q, date)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteOnDateTx removes every show on the given date.  Dependent bookings,
// payments, ledger rows and play assignments must already be gone.
func (r *ShowRepo) DeleteOnDateTx(ctx context.Context, tx *sql.Tx, date string) (int64, error) {
	const q = `DELETE FROM shows WHERE show_date = ?`
	res, err := tx.ExecContext(ctx, q, date)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
