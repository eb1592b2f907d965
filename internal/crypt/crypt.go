package crypt

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"filippo.io/age"
	"filippo.io/age/armor"

	rerrors "github.com/PolarWolf314/rimu/internal/errors"
)

// binaryHeader opens every binary age v1 payload.
const binaryHeader = "age-encryption.org/v1"

// IsAgePayload reports whether data looks like an age payload, binary or
// armored. Filters use this to pass unencrypted content through untouched,
// so plaintext committed before rimu was configured still checks out.
func IsAgePayload(data []byte) bool {
	if bytes.HasPrefix(data, []byte(binaryHeader)) {
		return true
	}
	return bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte(armor.Header))
}

// payloadReader wraps an age payload for decryption, unwrapping armor when
// present. The armor reader does not detect armor by itself.
func payloadReader(data []byte) io.Reader {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte(armor.Header)) {
		return armor.NewReader(bytes.NewReader(trimmed))
	}
	return bytes.NewReader(data)
}

// Encrypt encrypts plaintext into a single binary age payload readable by
// every recipient.
func Encrypt(plaintext []byte, recipients []age.Recipient) ([]byte, error) {
	if len(recipients) == 0 {
		return nil, fmt.Errorf("%w: no recipients", rerrors.ErrEncryptFailed)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipients...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rerrors.ErrEncryptFailed, err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("%w: %v", rerrors.ErrEncryptFailed, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", rerrors.ErrEncryptFailed, err)
	}

	return buf.Bytes(), nil
}

// Decrypt opens an age payload with the given identities.
//
// Returns ErrNoMatchingIdentity if none of the identities can open it.
// Returns ErrDecryptFailed if the payload is damaged.
func Decrypt(payload []byte, identities []age.Identity) ([]byte, error) {
	if len(identities) == 0 {
		return nil, rerrors.ErrNoMatchingIdentity
	}

	r, err := age.Decrypt(payloadReader(payload), identities...)
	if err != nil {
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) {
			return nil, rerrors.ErrNoMatchingIdentity
		}
		return nil, fmt.Errorf("%w: %v", rerrors.ErrDecryptFailed, err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rerrors.ErrDecryptFailed, err)
	}

	return plaintext, nil
}
