package zenith

import "github.com/zenithbuild/zenith-runtime/lib/encoding"

// Encoder is an alias for encoding.Encoder for convenience.
type Encoder = encoding.Encoder

// Props payload protection modes, re-exported so callers configuring a
// runtime need not import lib/encoding.
const (
	PropsPlain     = encoding.ModePlain
	PropsSigned    = encoding.ModeSigned
	PropsEncrypted = encoding.ModeEncrypted
)

// NewEncoder creates a standalone props encoder. Build tooling uses this to
// produce data-zen-props payloads; the runtime side is configured with
// WithSignedProps or WithEncryptedProps instead.
func NewEncoder(mode encoding.Mode, key []byte) (*Encoder, error) {
	return encoding.NewEncoder(mode, key)
}
