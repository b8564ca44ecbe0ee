// Package encoding implements the props payload codec.
//
// Component markers carry their props as a compact string produced by the
// build step. The payload is msgpack wrapped in url-safe base64, in one of
// three modes:
//   - Plain: base64 msgpack only; used when no key is configured.
//   - Signed: payload plus a truncated HMAC-SHA256 tag - visible but
//     tamper-proof.
//   - Encrypted: AES-256-GCM - fully opaque.
package encoding

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Mode selects how props payloads are protected.
type Mode string

const (
	// ModePlain encodes without integrity protection.
	ModePlain Mode = "plain"

	// ModeSigned appends an HMAC-SHA256 tag; payload stays readable.
	ModeSigned Mode = "signed"

	// ModeEncrypted seals the payload with AES-256-GCM.
	ModeEncrypted Mode = "encrypted"
)

// Sentinel errors for payload decoding.
var (
	ErrInvalidFormat    = errors.New("encoding: invalid payload format")
	ErrSignatureInvalid = errors.New("encoding: signature verification failed")
	ErrDecryptFailed    = errors.New("encoding: payload decryption failed")
)

// Encoder encodes and decodes props payloads in a fixed mode.
type Encoder struct {
	mode Mode
	key  []byte
	gcm  cipher.AEAD
}

// NewEncoder creates an encoder. Signed and encrypted modes require a key;
// keys shorter than 32 bytes are stretched with SHA-256. ModePlain ignores
// the key entirely.
func NewEncoder(mode Mode, key []byte) (*Encoder, error) {
	e := &Encoder{mode: mode}
	if mode == ModePlain {
		return e, nil
	}
	if len(key) == 0 {
		return nil, errors.New("encoding: " + string(mode) + " mode requires a key")
	}
	if len(key) < 32 {
		h := sha256.Sum256(key)
		key = h[:]
	}
	e.key = key

	if mode == ModeEncrypted {
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		gcm, err := cipher.NewGCM(block)
		if err != nil {
			return nil, err
		}
		e.gcm = gcm
	}
	return e, nil
}

// Mode returns the encoder's configured mode.
func (e *Encoder) Mode() Mode {
	return e.mode
}

// Encode serializes props into a payload string.
func (e *Encoder) Encode(props map[string]any) (string, error) {
	packed, err := msgpack.Marshal(props)
	if err != nil {
		return "", err
	}
	switch e.mode {
	case ModeSigned:
		return e.sign(packed), nil
	case ModeEncrypted:
		return e.encrypt(packed)
	default:
		return base64.RawURLEncoding.EncodeToString(packed), nil
	}
}

// Decode parses a payload string back into props.
func (e *Encoder) Decode(payload string) (map[string]any, error) {
	var packed []byte
	var err error
	switch e.mode {
	case ModeSigned:
		packed, err = e.verify(payload)
	case ModeEncrypted:
		packed, err = e.decrypt(payload)
	default:
		packed, err = base64.RawURLEncoding.DecodeString(payload)
		if err != nil {
			err = ErrInvalidFormat
		}
	}
	if err != nil {
		return nil, err
	}

	var props map[string]any
	if err := msgpack.Unmarshal(packed, &props); err != nil {
		return nil, ErrInvalidFormat
	}
	return props, nil
}

// sign produces base64.signature with a 128-bit truncated tag.
func (e *Encoder) sign(data []byte) string {
	b64 := base64.RawURLEncoding.EncodeToString(data)
	mac := hmac.New(sha256.New, e.key)
	mac.Write(data)
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil)[:16])
	return b64 + "." + sig
}

func (e *Encoder) verify(payload string) ([]byte, error) {
	parts := strings.SplitN(payload, ".", 2)
	if len(parts) != 2 {
		return nil, ErrInvalidFormat
	}

	data, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, ErrInvalidFormat
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrInvalidFormat
	}

	mac := hmac.New(sha256.New, e.key)
	mac.Write(data)
	expected := mac.Sum(nil)[:16]

	if !hmac.Equal(sig, expected) {
		return nil, ErrSignatureInvalid
	}
	return data, nil
}

func (e *Encoder) encrypt(data []byte) (string, error) {
	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	ciphertext := e.gcm.Seal(nonce, nonce, data, nil)
	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

func (e *Encoder) decrypt(payload string) ([]byte, error) {
	ciphertext, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	if len(ciphertext) < e.gcm.NonceSize() {
		return nil, ErrInvalidFormat
	}

	nonce := ciphertext[:e.gcm.NonceSize()]
	ciphertext = ciphertext[e.gcm.NonceSize():]

	plain, err := e.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plain, nil
}
