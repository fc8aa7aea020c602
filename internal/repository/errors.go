// Package repository contains data access logic separated from HTTP
// handlers.  This file defines error values reused across multiple
// repositories so handlers can translate failures into precise HTTP
// responses: not-found sentinels become 404, ErrInvalidArgument
// becomes 400, ErrConcurrentUpdate becomes 409.
package repository

import "errors"

// ErrRegionNotFound is returned when a region id matches no row.
var ErrRegionNotFound = errors.New("region not found")

// ErrLocationNotFound is returned when a location id matches no row.
var ErrLocationNotFound = errors.New("location not found")

// ErrOrganizerNotFound is returned when an organizer id matches no row.
var ErrOrganizerNotFound = errors.New("organizer not found")

// ErrEventNotFound is returned when an event id matches no row.
var ErrEventNotFound = errors.New("event not found")

// ErrInvalidArgument is returned (usually wrapped with the offending
// field name) when a required input is missing or malformed.  Handlers
// should translate it into an HTTP 400 response.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrConcurrentUpdate is returned when the optimistic retry budget for
// a cascade write is exhausted because another writer kept winning the
// version race on the same region row.  Handlers should translate it
// into an HTTP 409 response.
var ErrConcurrentUpdate = errors.New("concurrent update conflict")
