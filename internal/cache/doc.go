// Package cache persists a plaintext content hash per filtered path, so
// an unchanged file can reuse the ciphertext already staged in the index
// instead of being re-encrypted.
//
// Encryption produces different bytes every run. Without the cache, every
// clean pass would rewrite every encrypted file and git would report the
// whole tree as modified. A record here says "the last clean of this path
// saw this plaintext"; when the hash still matches and the staged object
// is still present, the pipeline returns the staged bytes verbatim.
//
// Records live one per path in an unversioned directory under .git, named
// by a digest of the path. Writes go through a temp file and a rename.
// A missing, stale, or corrupt record only ever costs one re-encryption;
// nothing in this package is allowed to fail a filter operation.
package cache
