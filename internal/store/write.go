package store

import (
	"context"
	"fmt"
)

// SignatureRecord is one persisted clause fingerprint.
type SignatureRecord struct {
	UnitID          string // translation unit identity
	Clause          string // surface syntax of the clause
	Signature       string // content-addressed fingerprint
	FullyNormalised bool
}

// RecordSignature inserts a clause signature.
// Uses ON CONFLICT DO NOTHING for idempotency - writing the same
// (unit, clause) twice is silently ignored.
func (s *Store) RecordSignature(ctx context.Context, rec SignatureRecord) error {
	fully := 0
	if rec.FullyNormalised {
		fully = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clause_signatures
		(unit_id, clause, signature, fully_normalised)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(unit_id, clause) DO NOTHING
	`,
		rec.UnitID,
		rec.Clause,
		rec.Signature,
		fully,
	)
	if err != nil {
		return fmt.Errorf("record signature: %w", err)
	}

	return nil
}
