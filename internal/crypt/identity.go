package crypt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"filippo.io/age"
	"filippo.io/age/agessh"
	"golang.org/x/crypto/ssh"

	rerrors "github.com/PolarWolf314/rimu/internal/errors"
)

// IdentityState describes what loading learned about an identity file.
type IdentityState int

const (
	// PlaintextValid is a plaintext identity file that parsed cleanly.
	PlaintextValid IdentityState = iota

	// PlaintextInvalid matched no supported format, or could not be read.
	PlaintextInvalid

	// EncryptedValidatedOk is an encrypted identity the passphrase unwrapped.
	EncryptedValidatedOk

	// EncryptedValidatedFail is an encrypted identity the passphrase did not
	// unwrap, or whose payload is damaged.
	EncryptedValidatedFail

	// EncryptedUntested is an encrypted identity left untried because no
	// passphrase was available.
	EncryptedUntested
)

func (s IdentityState) String() string {
	switch s {
	case PlaintextValid:
		return "plaintext, valid"
	case PlaintextInvalid:
		return "invalid"
	case EncryptedValidatedOk:
		return "encrypted, decryption ok"
	case EncryptedValidatedFail:
		return "encrypted, decryption failed"
	case EncryptedUntested:
		return "encrypted, untested"
	}
	return "unknown"
}

// Identity is one configured identity file in its loaded state.
type Identity struct {
	Path  string
	State IdentityState
	Note  string

	ids []age.Identity
}

// Usable reports whether the file yielded identities for decryption.
func (i *Identity) Usable() bool {
	return len(i.ids) > 0
}

// Identities returns the parsed age identities, if any.
func (i *Identity) Identities() []age.Identity {
	return i.ids
}

// LoadIdentity reads and classifies one identity file. It never fails hard:
// problems land in State and Note so that status reporting can render every
// configured file. Notes never contain passphrase or key material.
func LoadIdentity(path, passphrase string) *Identity {
	id := &Identity{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		id.State = PlaintextInvalid
		id.Note = fmt.Sprintf("cannot read file: %v", err)
		return id
	}

	if IsAgePayload(data) {
		if passphrase == "" {
			id.State = EncryptedUntested
			id.Note = "no passphrase available, decryption was not tested"
			return id
		}

		ids, err := decryptIdentityData(data, passphrase)
		if err != nil {
			id.State = EncryptedValidatedFail
			id.Note = err.Error()
			return id
		}
		id.State = EncryptedValidatedOk
		id.ids = ids
		return id
	}

	ids, err := parsePlaintextIdentities(data)
	if err != nil {
		id.State = PlaintextInvalid
		id.Note = err.Error()
		return id
	}
	id.State = PlaintextValid
	id.ids = ids
	return id
}

// LoadIdentities loads every configured identity file for decryption.
//
// Encrypted files without an available passphrase are loaded as untested and
// skipped during decryption. Anything worse is fatal:
//
// Returns ErrIdentityParse if a file matches no supported format.
// Returns ErrIdentityDecrypt if the passphrase fails to unwrap a file.
func LoadIdentities(paths []string, passphrase string) ([]*Identity, error) {
	identities := make([]*Identity, 0, len(paths))
	for _, path := range paths {
		id := LoadIdentity(path, passphrase)
		switch id.State {
		case PlaintextInvalid:
			return nil, fmt.Errorf("%w: %s: %s", rerrors.ErrIdentityParse, path, id.Note)
		case EncryptedValidatedFail:
			return nil, fmt.Errorf("%w: %s: %s", rerrors.ErrIdentityDecrypt, path, id.Note)
		}
		identities = append(identities, id)
	}
	return identities, nil
}

// UsableIdentities flattens loaded files into age identities for decryption,
// preserving configuration order.
func UsableIdentities(identities []*Identity) []age.Identity {
	var ids []age.Identity
	for _, id := range identities {
		ids = append(ids, id.ids...)
	}
	return ids
}

// SkippedForPassphrase returns the paths of encrypted identity files that
// were left untested because no passphrase was available.
func SkippedForPassphrase(identities []*Identity) []string {
	var paths []string
	for _, id := range identities {
		if id.State == EncryptedUntested {
			paths = append(paths, id.Path)
		}
	}
	return paths
}

// decryptIdentityData unwraps a passphrase-encrypted identity file and parses
// the plaintext inside as an identity file.
func decryptIdentityData(data []byte, passphrase string) ([]age.Identity, error) {
	scrypt, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("building passphrase identity: %v", err)
	}

	r, err := age.Decrypt(payloadReader(data), scrypt)
	if err != nil {
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) {
			return nil, fmt.Errorf("incorrect passphrase")
		}
		return nil, fmt.Errorf("corrupt payload: %v", err)
	}

	inner, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("corrupt payload: %v", err)
	}

	ids, err := age.ParseIdentities(bytes.NewReader(inner))
	if err != nil {
		return nil, fmt.Errorf("decrypted content is not an identity file: %v", err)
	}
	return ids, nil
}

// parsePlaintextIdentities parses plaintext identity data: a native age
// identity file, or an unencrypted OpenSSH private key in PEM form.
func parsePlaintextIdentities(data []byte) ([]age.Identity, error) {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("-----BEGIN")) {
		id, err := agessh.ParseIdentity(data)
		if err != nil {
			var missing *ssh.PassphraseMissingError
			if errors.As(err, &missing) {
				return nil, fmt.Errorf("passphrase-protected SSH keys are not supported, use an age-encrypted identity instead")
			}
			return nil, fmt.Errorf("unsupported PEM key: %v", err)
		}
		return []age.Identity{id}, nil
	}

	ids, err := age.ParseIdentities(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("not an identity file: %v", err)
	}
	return ids, nil
}
