package store

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ayusman/darpan/internal/engage"
)

// Record is one engagement log entry for one person at one moment.
type Record struct {
	ID           int64
	SessionID    string
	PersonID     int
	RecordedAt   time.Time
	Attention    float64
	Stress       float64
	Curiosity    float64
	BadSign      bool
	BodyLanguage string
}

// RecordRepository provides append and query operations for the engagement log.
type RecordRepository struct {
	db *sql.DB
}

// Records returns the engagement record repository for this store.
func (s *Store) Records() *RecordRepository {
	return &RecordRepository{db: s.db}
}

// Append inserts one engagement record.
func (r *RecordRepository) Append(rec *Record) error {
	result, err := r.db.Exec(
		`INSERT INTO engagement_log
		 (session_id, person_id, recorded_at, attention, stress, curiosity, bad_sign, body_language)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.PersonID, rec.RecordedAt,
		rec.Attention, rec.Stress, rec.Curiosity, rec.BadSign, rec.BodyLanguage,
	)
	if err != nil {
		return err
	}

	rec.ID, err = result.LastInsertId()
	return err
}

// ListBySession retrieves a session's engagement log in recording order.
func (r *RecordRepository) ListBySession(sessionID string) ([]Record, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, person_id, recorded_at, attention, stress, curiosity, bad_sign, body_language
		 FROM engagement_log
		 WHERE session_id = ?
		 ORDER BY recorded_at, id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.PersonID, &rec.RecordedAt,
			&rec.Attention, &rec.Stress, &rec.Curiosity, &rec.BadSign, &rec.BodyLanguage,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Summarize aggregates a session's log into per-person summaries.
func (r *RecordRepository) Summarize(sessionID string) ([]engage.PersonSummary, error) {
	records, err := r.ListBySession(sessionID)
	if err != nil {
		return nil, err
	}

	samples := make([]engage.Sample, len(records))
	for i, rec := range records {
		samples[i] = engage.Sample{
			ID:           rec.PersonID,
			Attention:    rec.Attention,
			Stress:       rec.Stress,
			Curiosity:    rec.Curiosity,
			BodyLanguage: rec.BodyLanguage,
		}
	}

	return engage.Summarize(samples), nil
}

// WriteCSV streams a session's engagement log as CSV. Metric columns carry
// two decimal places so exported values survive a parse round-trip.
func (r *RecordRepository) WriteCSV(w io.Writer, sessionID string) error {
	records, err := r.ListBySession(sessionID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"timestamp", "person", "attention", "stress", "curiosity", "bad_sign", "body_language",
	}); err != nil {
		return err
	}

	for _, rec := range records {
		row := []string{
			rec.RecordedAt.UTC().Format(time.RFC3339),
			strconv.Itoa(rec.PersonID),
			fmt.Sprintf("%.2f", rec.Attention),
			fmt.Sprintf("%.2f", rec.Stress),
			fmt.Sprintf("%.2f", rec.Curiosity),
			strconv.FormatBool(rec.BadSign),
			rec.BodyLanguage,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
