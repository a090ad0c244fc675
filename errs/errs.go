// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package errs collects the sentinel errors shared across the scanner's
// decode, ingest, and routing paths. They are built with
// github.com/cockroachdb/errors; call sites in this module return them
// unwrapped, and a caller that wraps one keeps the sentinel identity
// seen by errors.Is.
package errs

import "github.com/cockroachdb/errors"

var (
	// ErrCodec marks a base64/zstd framing failure in the decoder.
	ErrCodec = errors.New("codec: malformed encoding")
	// ErrInsufficientBytes marks a decompressed payload shorter than the
	// DEX family's packed struct.
	ErrInsufficientBytes = errors.New("codec: insufficient bytes for layout")
	// ErrLayout marks a decoded payload that cannot be mapped onto a
	// packed layout; codec.Decode returns it for an unknown DEX kind.
	ErrLayout = errors.New("codec: layout mismatch")
	// ErrUnsupportedEncoding marks a data-encoding tag other than
	// base64+zstd.
	ErrUnsupportedEncoding = errors.New("ingest: unsupported encoding")

	// ErrUnknownPool marks an ingest update for a pool absent from the
	// registry's existence table.
	ErrUnknownPool = errors.New("ingest: unknown pool")
	// ErrStaleSlot marks an update whose slot is not newer than the
	// slot already stored for the same pool and commitment level.
	ErrStaleSlot = errors.New("ingest: stale slot")

	// ErrNoActivePool marks a router hop with no active candidate.
	ErrNoActivePool = errors.New("router: no active pool for hop")
	// ErrGraphMissing marks a recomputation request against a
	// commitment level with no graph.
	ErrGraphMissing = errors.New("router: graph missing")

	// ErrCatalogFetchFailed marks a bootstrap HTTP failure after retry.
	ErrCatalogFetchFailed = errors.New("bootstrap: catalog fetch failed")
	// ErrCatalogMalformed marks a bootstrap payload that is not a JSON
	// object or array.
	ErrCatalogMalformed = errors.New("bootstrap: catalog malformed")
)
