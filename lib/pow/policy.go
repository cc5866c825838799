// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package pow

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/helix-storage/helix/lib/fault"
)

// PolicyKind names a difficulty policy in records and configuration.
type PolicyKind string

const (
	// KindPrefix selects [PrefixPolicy].
	KindPrefix PolicyKind = "prefix"

	// KindThreshold selects [ThresholdPolicy].
	KindThreshold PolicyKind = "threshold"
)

// Policy decides whether a digest qualifies as proof of work. The
// interface is closed: the only implementations are [PrefixPolicy] and
// [ThresholdPolicy].
type Policy interface {
	// Kind returns the policy's tag.
	Kind() PolicyKind

	// Token returns the difficulty token recorded in [Record.Difficulty].
	Token() string

	// Qualifies reports whether digest satisfies the policy. Safe for
	// concurrent use.
	Qualifies(digest Digest) bool

	policy()
}

// PrefixPolicy qualifies digests whose lowercase hex form starts with
// a fixed prefix.
type PrefixPolicy struct {
	prefix string
}

// NewPrefixPolicy validates prefix as 1 to 64 hex characters. Upper
// case is folded to lower case because digests are compared in their
// lowercase form; the folded prefix becomes the policy token.
func NewPrefixPolicy(prefix string) (PrefixPolicy, error) {
	if prefix == "" {
		return PrefixPolicy{}, fault.InvalidArgument("prefix difficulty must not be empty")
	}
	if len(prefix) > DigestSize*2 {
		return PrefixPolicy{}, fault.InvalidArgument("prefix difficulty %q is longer than a %d-character digest", prefix, DigestSize*2)
	}
	if !isHex(prefix) {
		return PrefixPolicy{}, fault.InvalidArgument("prefix difficulty %q is not hexadecimal", prefix)
	}
	return PrefixPolicy{prefix: strings.ToLower(prefix)}, nil
}

func (p PrefixPolicy) Kind() PolicyKind { return KindPrefix }
func (p PrefixPolicy) Token() string    { return p.prefix }
func (PrefixPolicy) policy()            {}

// Qualifies hex-encodes only the leading bytes the prefix covers.
func (p PrefixPolicy) Qualifies(digest Digest) bool {
	var encoded [DigestSize * 2]byte
	covered := (len(p.prefix) + 1) / 2
	hex.Encode(encoded[:covered*2], digest[:covered])
	return string(encoded[:len(p.prefix)]) == p.prefix
}

// ThresholdPolicy qualifies digests numerically below a threshold.
type ThresholdPolicy struct {
	token string

	// target is the threshold as a big-endian 256-bit value. Unused
	// when unbounded is set.
	target Digest

	// unbounded is set when the threshold is at least 2^256, so every
	// digest is below it.
	unbounded bool
}

// NewThresholdPolicy parses token as an unsigned hexadecimal integer.
// The token is kept verbatim for the record. A zero threshold is legal
// and accepts no digest; searching under it never terminates on its
// own.
func NewThresholdPolicy(token string) (ThresholdPolicy, error) {
	if token == "" {
		return ThresholdPolicy{}, fault.InvalidArgument("threshold difficulty must not be empty")
	}
	if !isHex(token) {
		return ThresholdPolicy{}, fault.InvalidArgument("threshold difficulty %q is not hexadecimal", token)
	}

	value, ok := new(big.Int).SetString(token, 16)
	if !ok {
		return ThresholdPolicy{}, fault.InvalidArgument("threshold difficulty %q is not hexadecimal", token)
	}

	policy := ThresholdPolicy{token: token}
	if value.BitLen() > DigestSize*8 {
		policy.unbounded = true
		return policy, nil
	}
	value.FillBytes(policy.target[:])
	return policy, nil
}

func (p ThresholdPolicy) Kind() PolicyKind { return KindThreshold }
func (p ThresholdPolicy) Token() string    { return p.token }
func (ThresholdPolicy) policy()            {}

// Qualifies compares big-endian bytes, which orders the same as the
// integers they encode.
func (p ThresholdPolicy) Qualifies(digest Digest) bool {
	if p.unbounded {
		return true
	}
	return bytes.Compare(digest[:], p.target[:]) < 0
}

// ParsePolicy builds the policy named by kind from token.
func ParsePolicy(kind PolicyKind, token string) (Policy, error) {
	switch kind {
	case KindPrefix:
		return NewPrefixPolicy(token)
	case KindThreshold:
		return NewThresholdPolicy(token)
	case "":
		return nil, fault.InvalidArgument("difficulty policy kind is required (%q or %q)", KindPrefix, KindThreshold)
	default:
		return nil, fault.InvalidArgument("unknown difficulty policy %q (want %q or %q)", kind, KindPrefix, KindThreshold)
	}
}

func isHex(s string) bool {
	for i := range len(s) {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
