// Package crypt wraps the age encryption library for Rimu's filter pipeline.
//
// # Payloads
//
// Encrypt produces one binary age payload readable by every recipient of a
// path. Decrypt accepts binary and ASCII-armored payloads; IsAgePayload is
// the sniff the filters use to pass non-age content through untouched.
//
// # Recipients
//
// Recipient keys are classified once into age, ssh-ed25519, plugin, and
// opaque forms. Opaque keys get a final generic SSH parse, which is how
// ssh-rsa keys are supported, before being rejected as invalid.
//
// # Identities
//
// An identity file is either plaintext (a native age identity file or an
// unencrypted OpenSSH private key) or an age payload encrypted with a
// passphrase whose plaintext is an identity file. Loading classifies each
// file into a state:
//
//	PlaintextValid          parsed, ready to decrypt
//	PlaintextInvalid        matches no supported format
//	EncryptedValidatedOk    passphrase unwrapped it
//	EncryptedValidatedFail  passphrase did not unwrap it
//	EncryptedUntested       encrypted, no passphrase available
//
// LoadIdentity never fails hard so status can render every file;
// LoadIdentities applies the strict rules decryption needs. Untested files
// are skipped, not fatal: decryption proceeds with the rest and the skipped
// paths are reported only if nothing else opens the payload.
//
// Error messages name files and keys. Passphrase text and private key
// material never appear in them.
package crypt
