package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainArtifact is the hash domain for artifact fingerprints.
// The version suffix allows a future algorithm change.
const DomainArtifact = "eventdash/artifact/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ArtifactKey fingerprints one recomputation: the artifact name, the
// controls it reads, and the pointer event it consumed (nil if none).
//
// Two recomputations with the same key produce identical artifacts over the
// same table, so the key doubles as an HTTP ETag.
func ArtifactKey(name string, controls IRObject, pointer *PointerEvent) (string, error) {
	obj := IRObject{
		"artifact": IRString(name),
		"controls": controls,
		"version":  IRString(ArtifactVersion),
	}
	if pointer != nil {
		obj["pointer"] = pointer.toIR()
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ArtifactKey: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainArtifact, canonical), nil
}

// MustArtifactKey is like ArtifactKey but panics on error.
// Inputs built from Controls and PointerEvent never fail to marshal.
func MustArtifactKey(name string, controls IRObject, pointer *PointerEvent) string {
	key, err := ArtifactKey(name, controls, pointer)
	if err != nil {
		panic(err)
	}
	return key
}
