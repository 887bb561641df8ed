package mutation

import (
	"time"

	"pigdevice/src/models"
)

// -----------------------------------------------------------------------------
// Mutation Applier
// -----------------------------------------------------------------------------

// Apply returns the state with the mutation's present fields applied and
// UpdatedAt set to now. Pure transformation: the input state is not touched.
//
// Field order when both amount fields are present: absolute set first, then
// delta (both effects combined, last write wins for the amount).
func Apply(state models.MDeviceState, m models.MMutation, now time.Time) models.MDeviceState {
	if m.AbsoluteCents != nil {
		state.AmountCents = *m.AbsoluteCents
	}
	if m.DeltaCents != nil {
		state.AmountCents += *m.DeltaCents
	}
	if m.Currency != nil {
		state.Currency = *m.Currency
	}
	state.UpdatedAt = now
	return state
}
