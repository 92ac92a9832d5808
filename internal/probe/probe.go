// Package probe tests candidate passwords against an encrypted document.
// A Prober answers one question per call: does this candidate open the
// target? Wrong passwords are an expected outcome, not an error; errors are
// reserved for probes that could not be evaluated at all.
package probe

import (
	"context"
	"errors"
)

// Sentinel errors for target validation.
var (
	// ErrNotEncrypted indicates a target that opens without any password.
	ErrNotEncrypted = errors.New("target document is not encrypted")
	// ErrUnsupported indicates a target whose format or encryption cannot be
	// probed.
	ErrUnsupported = errors.New("target document cannot be probed")
)

// Prober tests candidate passwords against one target document.
// Implementations must be safe for concurrent use: every worker probes
// through the same instance.
type Prober interface {
	// Try reports whether candidate opens the target. A false result with a
	// nil error means the candidate was definitively wrong.
	Try(ctx context.Context, candidate string) (bool, error)
}
