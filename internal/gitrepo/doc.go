// Package gitrepo is rimu's narrow view of the surrounding git repository.
//
// It exposes exactly what the filter pipeline and the setup commands need:
// where the work tree and .git directory live, the bytes staged for a path
// in the index, and registration of the clean/smudge filter and textconv
// diff driver in the repository-local config. Everything goes through
// go-git; rimu never shells out to a git binary.
//
// The staged-object query backs the determinism cache: a cached plaintext
// hash is only honored while the index still holds the ciphertext that
// clean produced for it.
package gitrepo
