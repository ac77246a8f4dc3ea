package models

import "fmt"

// Depth is the deepest comparison stage requested for a run
type Depth string

const (
	// DepthStructure compares file existence only
	DepthStructure Depth = "structure"
	// DepthContent compares file fingerprints
	DepthContent Depth = "content"
	// DepthText produces line-level diffs
	DepthText Depth = "text"
	// DepthAuto selects the depth from the target types:
	// two directories -> structure, two files -> text
	DepthAuto Depth = "auto"
)

// ParseDepth parses a depth string
func ParseDepth(s string) (Depth, error) {
	switch Depth(s) {
	case DepthStructure, DepthContent, DepthText, DepthAuto:
		return Depth(s), nil
	case "":
		return DepthAuto, nil
	default:
		return "", fmt.Errorf("invalid depth %q (use: structure, content, text, auto)", s)
	}
}

// Includes reports whether this depth covers the given stage
// (text covers content and structure, content covers structure)
func (d Depth) Includes(stage Depth) bool {
	rank := map[Depth]int{DepthStructure: 1, DepthContent: 2, DepthText: 3}
	return rank[d] >= rank[stage]
}

// HashAlgorithm selects the content fingerprint digest
type HashAlgorithm string

const (
	// HashSHA256 is the default 256-bit cryptographic digest
	HashSHA256 HashAlgorithm = "sha256"
	// HashMD5 is a faster, weaker digest for large-scale comparisons
	HashMD5 HashAlgorithm = "md5"
)

// ParseHashAlgorithm parses a hash algorithm string
func ParseHashAlgorithm(s string) (HashAlgorithm, error) {
	switch HashAlgorithm(s) {
	case HashSHA256, HashMD5:
		return HashAlgorithm(s), nil
	case "":
		return HashSHA256, nil
	default:
		return "", fmt.Errorf("invalid hash algorithm %q (use: sha256, md5)", s)
	}
}
