// Package taxonomy implements the core logic over the nested
// region/division/city tree: the activation cascade, the nearest-city
// geo resolver and the calculated-field binder.  Everything in this
// package is pure in-memory computation over an already-loaded region
// tree; persistence belongs to the repository layer.
package taxonomy

import "errors"

// ErrRegionNotFound is returned by Lookup when the id triple names a
// region absent from the loaded tree.
var ErrRegionNotFound = errors.New("region not found in taxonomy")

// ErrDivisionNotFound is returned when a cascade targets a division
// id the region does not own.  Handlers translate it into a 404.
var ErrDivisionNotFound = errors.New("division not found")

// ErrCityNotFound is returned when a cascade targets a city id the
// division does not own.  Handlers translate it into a 404.
var ErrCityNotFound = errors.New("city not found")

// ErrNoCandidates is returned by Resolve when the taxonomy contains
// no cities at all.  Callers must not fall back to an empty triple.
var ErrNoCandidates = errors.New("taxonomy has no cities to resolve against")

// ErrInvalidCoordinates is returned by Resolve before any traversal
// when the input latitude or longitude is not a finite number.
var ErrInvalidCoordinates = errors.New("invalid coordinates")
