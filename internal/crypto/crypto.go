package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrCipher covers every decryption failure: malformed envelope, tampered
// ciphertext, wrong key. Callers must not learn which one it was.
var ErrCipher = errors.New("cipher failure")

const nonceLength = 16

// Codec encrypts and decrypts message bodies with AES-256-GCM. The key is
// derived once from the configured secret via SHA-256, so the secret does
// not have to be a fixed-length key. Envelopes are stored as
// hex(nonce):hex(ciphertext):hex(tag) and survive a plain text column.
type Codec struct {
	aead cipher.AEAD
}

func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("encryption key is required")
	}

	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}

	aead, err := cipher.NewGCMWithNonceSize(block, nonceLength)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}

	return &Codec{aead: aead}, nil
}

func (c *Codec) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, nonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("draw nonce: %w", err)
	}

	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	tagStart := len(sealed) - c.aead.Overhead()

	return hex.EncodeToString(nonce) +
		":" + hex.EncodeToString(sealed[:tagStart]) +
		":" + hex.EncodeToString(sealed[tagStart:]), nil
}

func (c *Codec) Decrypt(envelope string) (string, error) {
	if envelope == "" {
		return "", nil
	}

	parts := strings.Split(envelope, ":")
	if len(parts) != 3 {
		return "", ErrCipher
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil || len(nonce) != nonceLength {
		return "", ErrCipher
	}
	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", ErrCipher
	}
	tag, err := hex.DecodeString(parts[2])
	if err != nil || len(tag) != c.aead.Overhead() {
		return "", ErrCipher
	}

	plaintext, err := c.aead.Open(nil, nonce, append(ciphertext, tag...), nil)
	if err != nil {
		return "", ErrCipher
	}

	return string(plaintext), nil
}
