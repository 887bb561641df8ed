package models

// -----------------------------------------------------------------------------
// Mutation command (transient). Each field is present-or-absent; absent
// fields leave the corresponding state field untouched. When both
// AbsoluteCents and DeltaCents are present the absolute set applies first.
// -----------------------------------------------------------------------------

type MMutation struct {
	AbsoluteCents *int64
	DeltaCents    *int64
	Currency      *string
}

// IsEmpty reports whether the mutation carries no fields at all.
func (m MMutation) IsEmpty() bool {
	return m.AbsoluteCents == nil && m.DeltaCents == nil && m.Currency == nil
}
