package project

import (
	"crypto/sha256"
	"slices"

	"gmlsem/internal/yy"
)

// Digest is a sha256 value, the same width as source.File.Hash.
type Digest [32]byte

// Combine hashes content followed by parts. Callers pass parts in a
// deterministic order.
func Combine(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// identityDigest covers what Reconcile acts on: resource paths and audio
// group names. Folder edits and reformatting leave it unchanged.
func identityDigest(resources []yy.ResourceEntry, audioGroups []string) Digest {
	paths := make([]string, 0, len(resources))
	for _, r := range resources {
		paths = append(paths, r.ID.Path)
	}
	slices.Sort(paths)
	parts := make([]Digest, 0, len(paths)+len(audioGroups))
	for _, p := range paths {
		parts = append(parts, sha256.Sum256([]byte("resource:"+p)))
	}
	groups := slices.Clone(audioGroups)
	slices.Sort(groups)
	for _, g := range groups {
		parts = append(parts, sha256.Sum256([]byte("audiogroup:"+g)))
	}
	return Combine(Digest{}, parts...)
}
