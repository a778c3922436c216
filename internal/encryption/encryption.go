package encryption

import (
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

var ErrMalformed = errors.New("повреждённый шифротекст")

// Encryptor protects values at rest. Equal plaintexts encrypt to equal
// ciphertexts, so encrypted columns can still be compared for equality.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

type sivEncryptor struct {
	aead   cipher.AEAD
	macKey []byte
}

// New derives the cipher and nonce keys from secret with HKDF-SHA256. The
// nonce of every message is HMAC-SHA256(plaintext) truncated to the nonce
// size.
func New(secret string) (Encryptor, error) {
	if secret == "" {
		return nil, errors.New("ключ шифрования не задан")
	}

	encKey, err := derive(secret, "enc", chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(encKey)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации шифра: %w", err)
	}

	macKey, err := derive(secret, "mac", sha256.Size)
	if err != nil {
		return nil, err
	}

	return &sivEncryptor{
		aead:   aead,
		macKey: macKey,
	}, nil
}

func derive(secret, label string, size int) ([]byte, error) {
	key := make([]byte, size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(label)), key); err != nil {
		return nil, fmt.Errorf("ошибка вывода ключа %s: %w", label, err)
	}
	return key, nil
}

func (e *sivEncryptor) nonce(plaintext []byte) []byte {
	mac := hmac.New(sha256.New, e.macKey)
	mac.Write(plaintext)
	return mac.Sum(nil)[:e.aead.NonceSize()]
}

func (e *sivEncryptor) Encrypt(plaintext string) (string, error) {
	pt := []byte(plaintext)
	nonce := e.nonce(pt)

	out := make([]byte, 0, len(nonce)+len(pt)+e.aead.Overhead())
	out = append(out, nonce...)
	out = e.aead.Seal(out, nonce, pt, nil)

	return base64.RawURLEncoding.EncodeToString(out), nil
}

func (e *sivEncryptor) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	nonceSize := e.aead.NonceSize()
	if len(raw) < nonceSize+e.aead.Overhead() {
		return "", ErrMalformed
	}

	nonce, sealed := raw[:nonceSize], raw[nonceSize:]
	pt, err := e.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if !hmac.Equal(nonce, e.nonce(pt)) {
		return "", ErrMalformed
	}

	return string(pt), nil
}
