package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Equivalents returns every recorded clause sharing a signature.
// Results are ordered deterministically: ORDER BY unit_id, clause,
// both with binary collation.
//
// Returns an empty slice (not nil) if the signature is unknown.
func (s *Store) Equivalents(ctx context.Context, signature string) ([]SignatureRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT unit_id, clause, signature, fully_normalised
		FROM clause_signatures
		WHERE signature = ?
		ORDER BY unit_id COLLATE BINARY ASC, clause COLLATE BINARY ASC
	`, signature)
	if err != nil {
		return nil, fmt.Errorf("query equivalents: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListUnit returns every signature recorded for a translation unit,
// ordered by clause text.
func (s *Store) ListUnit(ctx context.Context, unitID string) ([]SignatureRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT unit_id, clause, signature, fully_normalised
		FROM clause_signatures
		WHERE unit_id = ?
		ORDER BY clause COLLATE BINARY ASC
	`, unitID)
	if err != nil {
		return nil, fmt.Errorf("query unit signatures: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]SignatureRecord, error) {
	records := []SignatureRecord{}
	for rows.Next() {
		var rec SignatureRecord
		var fully int
		if err := rows.Scan(&rec.UnitID, &rec.Clause, &rec.Signature, &fully); err != nil {
			return nil, fmt.Errorf("scan signature record: %w", err)
		}
		rec.FullyNormalised = fully != 0
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signature records: %w", err)
	}
	return records, nil
}
