package zenith

import (
	"errors"

	"github.com/zenithbuild/zenith-runtime/lib/encoding"
)

// Sentinel errors for hydration operations.
var (
	ErrNoContainer      = errors.New("zenith: hydrate requires a container node")
	ErrUnknownComponent = errors.New("zenith: component not registered")
	ErrPropsDecode      = errors.New("zenith: props payload could not be decoded")
	ErrMalformedMarker  = errors.New("zenith: malformed marker")
)

// IsPropsDecodeError checks whether err came from decoding a props payload,
// including tampering and format failures surfaced by the codec.
func IsPropsDecodeError(err error) bool {
	return errors.Is(err, ErrPropsDecode) ||
		errors.Is(err, encoding.ErrInvalidFormat) ||
		errors.Is(err, encoding.ErrSignatureInvalid) ||
		errors.Is(err, encoding.ErrDecryptFailed)
}

// IsMalformedMarker checks whether err is a marker-structure error from the
// scan pass.
func IsMalformedMarker(err error) bool {
	return errors.Is(err, ErrMalformedMarker)
}

// ErrorContext identifies where a contained failure happened. Every call
// site that can fail routes through containment with one of these attached.
type ErrorContext struct {
	// Activity names the phase: "scan", "evaluate", "apply", "mount",
	// "unmount", "instantiate", "event".
	Activity string

	// ExprID is the expression involved, -1 when not applicable.
	ExprID int

	// Component is the component name involved, empty when not applicable.
	Component string

	// Stack holds the panic stack when the failure was a recovered panic.
	Stack string
}
