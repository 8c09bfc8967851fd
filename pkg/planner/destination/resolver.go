// Package destination owns the origin/destination selection state for a
// trip being created, including the round-trip defaulting rules.
package destination

import (
	"errors"

	"github.com/wayfarer-app/wayfarer/pkg/models"
)

var (
	// ErrMissingOrigin blocks submission when no origin candidate was picked.
	ErrMissingOrigin = errors.New("origin is required: select a validated place")
	// ErrMissingDestination blocks submission of a one-way trip with no
	// destination candidate.
	ErrMissingDestination = errors.New("destination is required: select a validated place")
)

// Resolver tracks which place candidates are bound to the origin and
// destination fields. An endpoint is either resolved (a candidate was
// selected) or not; free text alone never counts as a destination.
type Resolver struct {
	origin      *models.PlaceCandidate
	destination *models.PlaceCandidate
	roundTrip   bool
}

func NewResolver() *Resolver {
	return &Resolver{}
}

// SetOrigin binds the origin. With round trip enabled and no destination
// chosen yet, the destination follows the origin. The sync is one-way:
// changing the destination afterwards never touches the origin.
func (r *Resolver) SetOrigin(c models.PlaceCandidate) {
	r.origin = &c
	if r.roundTrip && r.destination == nil {
		dst := c
		r.destination = &dst
	}
}

// ClearOrigin drops the resolved origin, for when the user edits the field
// text without selecting a candidate.
func (r *Resolver) ClearOrigin() {
	r.origin = nil
}

func (r *Resolver) SetDestination(c models.PlaceCandidate) {
	r.destination = &c
}

// ClearDestination drops the resolved destination. An unresolved
// destination is never silently treated as valid.
func (r *Resolver) ClearDestination() {
	r.destination = nil
}

// SetRoundTrip toggles the round-trip flag. Toggling it on with an origin
// selected and no destination copies the origin into the destination at
// that moment.
func (r *Resolver) SetRoundTrip(on bool) {
	r.roundTrip = on
	if on && r.origin != nil && r.destination == nil {
		dst := *r.origin
		r.destination = &dst
	}
}

func (r *Resolver) IsRoundTrip() bool {
	return r.roundTrip
}

func (r *Resolver) Origin() *models.PlaceCandidate {
	return r.origin
}

func (r *Resolver) Destination() *models.PlaceCandidate {
	return r.destination
}

// ResolveForSubmission validates the selection and returns the final
// origin/destination pair. The round-trip default is re-applied here, not
// just at toggle time, in case the state drifted in between.
func (r *Resolver) ResolveForSubmission() (origin, dest models.PlaceCandidate, err error) {
	if r.origin == nil {
		return origin, dest, ErrMissingOrigin
	}
	if r.destination == nil {
		if !r.roundTrip {
			return origin, dest, ErrMissingDestination
		}
		return *r.origin, *r.origin, nil
	}
	return *r.origin, *r.destination, nil
}

// Apply resolves the selection and writes it into a trip creation request.
func (r *Resolver) Apply(req *models.CreateTripRequest) error {
	origin, dest, err := r.ResolveForSubmission()
	if err != nil {
		return err
	}
	o := origin.ToPlace()
	d := dest.ToPlace()
	req.Origin = &o
	req.Destination = &d
	req.IsRoundTrip = r.roundTrip
	return nil
}
