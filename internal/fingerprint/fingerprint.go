// Package fingerprint derives stable cache keys from JSON-like values.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Fingerprint canonicalizes v and returns the SHA-256 hex digest of the
// canonical serialization. Two values that differ only in map key insertion
// order produce the same fingerprint; any difference in values or in array
// order produces a different one. Time values serialize as RFC 3339 strings
// through their standard JSON encoding.
func Fingerprint(v any) (string, error) {
	canonical, err := canonicalize(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// canonicalize round-trips v through encoding/json: the first pass flattens
// structs and time values into plain JSON, the second re-encodes the generic
// tree, at which point map keys come out sorted lexicographically.
func canonicalize(v any) ([]byte, error) {
	flat, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("fingerprint: marshal: %w", err)
	}
	var tree any
	if err := json.Unmarshal(flat, &tree); err != nil {
		return nil, fmt.Errorf("fingerprint: normalize: %w", err)
	}
	canonical, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("fingerprint: canonical marshal: %w", err)
	}
	return canonical, nil
}
