package crypt

import (
	"fmt"
	"strings"

	"filippo.io/age"
	"filippo.io/age/agessh"
	"filippo.io/age/plugin"

	rerrors "github.com/PolarWolf314/rimu/internal/errors"
)

// RecipientKind classifies the textual form of a recipient key.
type RecipientKind int

const (
	// RecipientAge is a native X25519 recipient ("age1...").
	RecipientAge RecipientKind = iota

	// RecipientSSHEd25519 is an OpenSSH ed25519 public key.
	RecipientSSHEd25519

	// RecipientPlugin is a plugin-backed recipient ("age1yubikey1...").
	RecipientPlugin

	// RecipientOpaque is any other form. Parsing makes a final SSH attempt,
	// which covers ssh-rsa keys, before rejecting the key.
	RecipientOpaque
)

func (k RecipientKind) String() string {
	switch k {
	case RecipientAge:
		return "age"
	case RecipientSSHEd25519:
		return "ssh-ed25519"
	case RecipientPlugin:
		return "plugin"
	case RecipientOpaque:
		return "opaque"
	}
	return "unknown"
}

// Recipient pairs a literal key with its classification. Classification is
// done once when the policy is resolved; encryption dispatches on Kind.
type Recipient struct {
	Raw  string
	Kind RecipientKind
}

// pluginUI carries no interaction callbacks. Plugins run non-interactively:
// a git filter has no terminal to prompt on.
var pluginUI = &plugin.ClientUI{}

// ClassifyRecipient inspects a literal key string.
func ClassifyRecipient(raw string) Recipient {
	s := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(s, "ssh-ed25519 "):
		return Recipient{Raw: s, Kind: RecipientSSHEd25519}
	case strings.HasPrefix(s, "age1"):
		if _, err := age.ParseX25519Recipient(s); err == nil {
			return Recipient{Raw: s, Kind: RecipientAge}
		}
		return Recipient{Raw: s, Kind: RecipientPlugin}
	default:
		return Recipient{Raw: s, Kind: RecipientOpaque}
	}
}

// Parse converts the recipient into its age implementation.
// Returns ErrInvalidRecipient naming the key if no form accepts it.
func (r Recipient) Parse() (age.Recipient, error) {
	switch r.Kind {
	case RecipientAge:
		rec, err := age.ParseX25519Recipient(r.Raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", rerrors.ErrInvalidRecipient, r.Raw, err)
		}
		return rec, nil
	case RecipientSSHEd25519:
		rec, err := agessh.ParseRecipient(r.Raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", rerrors.ErrInvalidRecipient, r.Raw, err)
		}
		return rec, nil
	case RecipientPlugin:
		rec, err := plugin.NewRecipient(r.Raw, pluginUI)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", rerrors.ErrInvalidRecipient, r.Raw, err)
		}
		return rec, nil
	default:
		rec, err := agessh.ParseRecipient(r.Raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", rerrors.ErrInvalidRecipient, r.Raw)
		}
		return rec, nil
	}
}

// ParseRecipients classifies and parses every literal key, preserving order.
func ParseRecipients(keys []string) ([]age.Recipient, error) {
	recipients := make([]age.Recipient, 0, len(keys))
	for _, key := range keys {
		rec, err := ClassifyRecipient(key).Parse()
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, rec)
	}
	return recipients, nil
}
