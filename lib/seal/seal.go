// Copyright 2026 The Helix Authors
// SPDX-License-Identifier: Apache-2.0

package seal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"filippo.io/age"

	"github.com/helix-storage/helix/lib/fault"
	"github.com/helix-storage/helix/lib/secret"
)

// Header is the first line of every age file.
const Header = "age-encryption.org/v1\n"

// ErrNoIdentity is returned when none of the supplied identities can
// decrypt a file, or none were supplied.
var ErrNoIdentity = errors.New("no matching age identity")

// Keypair is an age X25519 keypair. Close releases the private key.
type Keypair struct {
	// PrivateKey is the AGE-SECRET-KEY-1... form. Never log it.
	PrivateKey *secret.Buffer

	// PublicKey is the age1... recipient string.
	PublicKey string
}

// Close releases the private key memory.
func (k *Keypair) Close() error {
	if k.PrivateKey != nil {
		return k.PrivateKey.Close()
	}
	return nil
}

// GenerateKeypair creates a new X25519 keypair.
func GenerateKeypair() (*Keypair, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generating age keypair: %w", err)
	}
	privateKey, err := secret.NewFromBytes([]byte(identity.String()))
	if err != nil {
		return nil, fmt.Errorf("protecting private key: %w", err)
	}
	return &Keypair{
		PrivateKey: privateKey,
		PublicKey:  identity.Recipient().String(),
	}, nil
}

// ParseRecipients parses age1... public keys. At least one is
// required.
func ParseRecipients(keys []string) ([]age.Recipient, error) {
	if len(keys) == 0 {
		return nil, fault.InvalidArgument("at least one recipient is required")
	}
	recipients := make([]age.Recipient, 0, len(keys))
	for _, key := range keys {
		recipient, err := age.ParseX25519Recipient(strings.TrimSpace(key))
		if err != nil {
			return nil, fault.InvalidArgument("parsing recipient %q: %v", key, err)
		}
		recipients = append(recipients, recipient)
	}
	return recipients, nil
}

// NewWriter returns a WriteCloser that encrypts everything written to
// it for recipientKeys and writes the ciphertext to destination. The
// caller must Close it to flush the final chunk.
func NewWriter(destination io.Writer, recipientKeys []string) (io.WriteCloser, error) {
	recipients, err := ParseRecipients(recipientKeys)
	if err != nil {
		return nil, err
	}
	writer, err := age.Encrypt(destination, recipients...)
	if err != nil {
		return nil, fmt.Errorf("creating age encryptor: %w", err)
	}
	return writer, nil
}

// Encrypt encrypts plaintext for recipientKeys.
func Encrypt(plaintext []byte, recipientKeys []string) ([]byte, error) {
	var ciphertext bytes.Buffer
	writer, err := NewWriter(&ciphertext, recipientKeys)
	if err != nil {
		return nil, err
	}
	if _, err := writer.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing plaintext to age encryptor: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing age encryption: %w", err)
	}
	return ciphertext.Bytes(), nil
}

// Decrypt decrypts ciphertext with any of identities. Each identity
// buffer holds an age identity file: one or more AGE-SECRET-KEY-1
// lines, with # comments allowed. The buffers are borrowed, not
// closed.
func Decrypt(ciphertext []byte, identities []*secret.Buffer) ([]byte, error) {
	var parsed []age.Identity
	for _, buffer := range identities {
		fileIdentities, err := age.ParseIdentities(bytes.NewReader(buffer.Bytes()))
		if err != nil {
			return nil, fault.InvalidArgument("parsing age identity: %v", err)
		}
		parsed = append(parsed, fileIdentities...)
	}
	if len(parsed) == 0 {
		return nil, ErrNoIdentity
	}

	reader, err := age.Decrypt(bytes.NewReader(ciphertext), parsed...)
	if err != nil {
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) {
			return nil, fmt.Errorf("%w: %v", ErrNoIdentity, err)
		}
		return nil, fmt.Errorf("decrypting: %w", err)
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted plaintext: %w", err)
	}
	return plaintext, nil
}

// IsEncrypted reports whether data starts with the age header.
func IsEncrypted(data []byte) bool {
	return bytes.HasPrefix(data, []byte(Header))
}
