// Package transfer implements the bulk transfer selector of spec §4.2:
// given two endpoints and the append flag, it picks the cheapest transfer
// primitive from internal/zerocopy consistent with correctness.
package transfer

import (
	"os"

	"github.com/mako10k/ow/internal/endpoint"
	"github.com/mako10k/ow/internal/zerocopy"
)

// Primitive transfers at most cap bytes from src to dst.
type Primitive func(dst, src *os.File, cap int64) (int64, error)

// Select implements the first-match rule of spec §4.2:
//
//  1. append ⇒ byte-copy (append semantics interact poorly with zero-copy
//     primitives on some systems, and the overwrite-append cap must be
//     the input's original size, computed by the caller).
//  2. else either endpoint is a pipe/FIFO ⇒ pipe-splice.
//  3. else the input is a regular file ⇒ file-send.
//  4. else byte-copy.
func Select(dst, src *endpoint.Endpoint, appendMode bool) Primitive {
	switch {
	case appendMode:
		return zerocopy.CopyN
	case src.Kind == endpoint.KindPipe || dst.Kind == endpoint.KindPipe:
		return zerocopy.SpliceN
	case src.Kind == endpoint.KindRegular:
		return zerocopy.SendFileN
	default:
		return zerocopy.CopyN
	}
}

// Run selects a primitive and transfers at most cap bytes, matching the
// "first match wins" rule exactly.
func Run(dst, src *endpoint.Endpoint, appendMode bool, cap int64) (int64, error) {
	return Select(dst, src, appendMode)(dst.File, src.File, cap)
}
