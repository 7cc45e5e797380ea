// Package corrid provides correlation identifiers for invocation tracing.
// A root id is a UUID v7 rendered in canonical form (time-sortable, better
// for log-store indexes than v4). Child ids derive from a parent as
// "parent:index" so fan-out items remain traceable to the call that
// spawned them.
package corrid

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// ID is an opaque correlation token. The zero value means "no id".
type ID string

// New generates a fresh root correlation id from a UUID v7.
// UUID v7 format (as per draft-ietf-uuidrev-rfc4122bis):
// - 48 bits: UNIX timestamp in milliseconds
// - 12 bits: random "sub_ms_seq_hi_and_version"
// - 2 bits: variant
// - 62 bits: random "sub_ms_seq_low"
func New() ID {
	now := time.Now().UnixMilli()

	var u [16]byte

	// Timestamp (48 bits, ms precision) — bytes 0-5
	u[0] = byte(now >> 40)
	u[1] = byte(now >> 32)
	u[2] = byte(now >> 24)
	u[3] = byte(now >> 16)
	u[4] = byte(now >> 8)
	u[5] = byte(now)

	// Random part (64 bits) — bytes 6-13
	// Sub-ms seq hi (4 bits) + version 0111 (4 bits) = 0x7n
	randomVal := rand.Uint64()
	u[6] = 0x70 | byte((randomVal>>56)&0x0f)

	// Variant 10xxxxxx per RFC 4122, then random filler
	u[7] = 0x80 | byte((randomVal>>48)&0x3f)
	u[8] = byte(randomVal >> 40)
	u[9] = byte(randomVal >> 32)
	u[10] = byte(randomVal >> 24)
	u[11] = byte(randomVal >> 16)
	u[12] = byte(randomVal >> 8)
	u[13] = byte(randomVal)

	// Final 2 random bytes
	u[14] = byte(rand.Intn(256))
	u[15] = byte(rand.Intn(256))

	return ID(fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		u[0:4],
		u[4:6],
		u[6:8],
		u[8:10],
		u[10:16],
	))
}

// Child derives the correlation id for the index-th item of a fan-out
// batch: "parent:index". Nested derivation is allowed and keeps every
// ancestor visible in the token.
func (id ID) Child(index int) ID {
	return ID(string(id) + ":" + strconv.Itoa(index))
}

// Root strips all child suffixes and returns the originating root id.
func (id ID) Root() ID {
	s := string(id)
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return ID(s[:i])
	}
	return id
}

// String returns the token text.
func (id ID) String() string { return string(id) }

// ctxKey is the unexported named type for the context key. Using a named
// type avoids collisions with string keys from other packages at runtime
// (context.Value compares both type and value).
type ctxKey struct{}

// NewContext returns a context carrying id. Nested invocations read the
// id back with FromContext, so fan-out children inherit their parent's
// correlation scope.
func NewContext(ctx context.Context, id ID) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the correlation id carried by ctx, or ("", false)
// when none was set.
func FromContext(ctx context.Context) (ID, bool) {
	id, ok := ctx.Value(ctxKey{}).(ID)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// EnsureContext returns ctx unchanged when it already carries a
// correlation id, otherwise it attaches a fresh root id. The returned id
// is the one in effect.
func EnsureContext(ctx context.Context) (context.Context, ID) {
	if id, ok := FromContext(ctx); ok {
		return ctx, id
	}
	id := New()
	return NewContext(ctx, id), id
}
