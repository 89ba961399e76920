package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"github.com/0xlayout/privacypuzzle/internal/failure"
)

const (
	SaltSize   = 16
	NonceSize  = 12
	TagSize    = 16
	KeySize    = 32
	Iterations = 100000

	// HeaderSize is the fixed prefix of every envelope: salt, nonce, tag.
	HeaderSize = SaltSize + NonceSize + TagSize
)

// Envelope is a parsed view over serialized envelope bytes. The fields alias
// the input slice.
type Envelope struct {
	Salt       []byte
	Nonce      []byte
	Tag        []byte
	Ciphertext []byte
}

// ParseEnvelope splits b into salt(16) | nonce(12) | tag(16) | ciphertext.
func ParseEnvelope(b []byte) (Envelope, error) {
	if len(b) < HeaderSize {
		return Envelope{}, fmt.Errorf("%w: envelope is %d bytes, need at least %d", failure.ErrFormat, len(b), HeaderSize)
	}
	return Envelope{
		Salt:       b[:SaltSize],
		Nonce:      b[SaltSize : SaltSize+NonceSize],
		Tag:        b[SaltSize+NonceSize : HeaderSize],
		Ciphertext: b[HeaderSize:],
	}, nil
}

// Bytes serializes e in wire order.
func (e Envelope) Bytes() []byte {
	out := make([]byte, 0, HeaderSize+len(e.Ciphertext))
	out = append(out, e.Salt...)
	out = append(out, e.Nonce...)
	out = append(out, e.Tag...)
	out = append(out, e.Ciphertext...)
	return out
}

// DeriveKey stretches password with PBKDF2-HMAC-SHA256 into a 32-byte key.
func DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, Iterations, KeySize, sha256.New)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, NonceSize)
}

// Encrypt seals plaintext under a key derived from password and returns the
// envelope salt | nonce | tag | ciphertext. Salt and nonce are fresh on
// every call.
func Encrypt(plaintext []byte, password string) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: password must not be empty", failure.ErrValidation)
	}

	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	gcm, err := newGCM(DeriveKey(password, salt))
	if err != nil {
		return nil, err
	}

	// Seal appends the tag after the ciphertext; the envelope wants it first.
	sealed := gcm.Seal(nil, nonce, plaintext, nil)
	ctLen := len(sealed) - TagSize

	out := make([]byte, 0, HeaderSize+ctLen)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, sealed[ctLen:]...)
	out = append(out, sealed[:ctLen]...)
	return out, nil
}

// Decrypt opens an envelope produced by Encrypt. A wrong password and any
// modification of the envelope both surface as failure.ErrAuthentication.
func Decrypt(envelope []byte, password string) ([]byte, error) {
	env, err := ParseEnvelope(envelope)
	if err != nil {
		return nil, err
	}

	gcm, err := newGCM(DeriveKey(password, env.Salt))
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(env.Ciphertext)+TagSize)
	sealed = append(sealed, env.Ciphertext...)
	sealed = append(sealed, env.Tag...)

	plain, err := gcm.Open(nil, env.Nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", failure.ErrAuthentication, err)
	}
	if plain == nil {
		plain = []byte{}
	}
	return plain, nil
}
