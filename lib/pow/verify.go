// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package pow

import (
	"context"
	"errors"
	"fmt"
)

// ErrVerification is wrapped by every verification failure.
var ErrVerification = errors.New("proof-of-work verification failed")

// Verify checks record against data under the policy the record
// names. It costs one hash.
func Verify(data []byte, record *Record) error {
	policy, err := record.PolicyFor()
	if err != nil {
		return err
	}
	return VerifyWith(data, record, policy)
}

// VerifyWith checks that record.Hash is the digest of data at
// record.Nonce and that the digest satisfies policy.
func VerifyWith(data []byte, record *Record, policy Policy) error {
	digest := HashNonce(data, record.Nonce)
	if digest.String() != record.Hash {
		return fmt.Errorf("%w: nonce %d hashes to %s, record says %s",
			ErrVerification, record.Nonce, digest, record.Hash)
	}
	if !policy.Qualifies(digest) {
		return fmt.Errorf("%w: hash %s does not satisfy %s difficulty %q",
			ErrVerification, digest, policy.Kind(), policy.Token())
	}
	return nil
}

// VerifyMinimal runs [VerifyWith] and then rescans [0, record.Nonce)
// to prove no smaller nonce qualifies. This costs as much as the
// original search.
func VerifyMinimal(ctx context.Context, data []byte, record *Record, policy Policy) error {
	if err := VerifyWith(data, record, policy); err != nil {
		return err
	}
	if record.Nonce == 0 {
		return nil
	}

	sinceCheck := 0
	for nonce, digest := range Candidates(data, 0, 1) {
		if nonce >= record.Nonce {
			return nil
		}
		if policy.Qualifies(digest) {
			return fmt.Errorf("%w: nonce %d qualifies before recorded nonce %d",
				ErrVerification, nonce, record.Nonce)
		}
		sinceCheck++
		if sinceCheck == cancelCheckInterval {
			sinceCheck = 0
			if err := ctx.Err(); err != nil {
				return cancelled(err)
			}
		}
	}
	return nil
}
