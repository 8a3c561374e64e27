package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kasimali67/ai-call-agent/pkg/domain"
	"github.com/kasimali67/ai-call-agent/pkg/ports"
)

// encryptedPrefix marks a field value sealed by this middleware.
const encryptedPrefix = "enc:v1:"

// ErrNotEncrypted is returned by Load when a stored answer is in plain text.
var ErrNotEncrypted = fmt.Errorf("%w: state field is not encrypted", domain.ErrCorruptState)

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.CallStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that seals the caller's answers
// (location, dates, room type) with AES-GCM before they reach the backend.
// The step stays readable so operators can still inspect call progress.
func NewEncryptionMiddleware(config EncryptionConfig) (Middleware, error) {
	if len(config.ActiveKey) != 32 {
		return nil, errors.New("active key must be 32 bytes (AES-256)")
	}
	for i, k := range config.FallbackKeys {
		if len(k) != 32 {
			return nil, fmt.Errorf("fallback key %d must be 32 bytes (AES-256)", i)
		}
	}
	return func(next ports.CallStore) ports.CallStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}, nil
}

func (m *encryptionMiddleware) Save(ctx context.Context, callID string, state domain.ConversationState) error {
	sealed := state
	for _, f := range answerFields(&sealed) {
		if *f == "" {
			continue
		}
		ciphertext, err := encrypt([]byte(*f), m.config.ActiveKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt state: %w", err)
		}
		*f = encryptedPrefix + base64.StdEncoding.EncodeToString(ciphertext)
	}
	return m.next.Save(ctx, callID, sealed)
}

func (m *encryptionMiddleware) Load(ctx context.Context, callID string) (domain.ConversationState, error) {
	state, err := m.next.Load(ctx, callID)
	if err != nil {
		return domain.ConversationState{}, err
	}

	for _, f := range answerFields(&state) {
		if *f == "" {
			continue
		}
		encoded, ok := strings.CutPrefix(*f, encryptedPrefix)
		if !ok {
			return domain.ConversationState{}, ErrNotEncrypted
		}
		ciphertext, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return domain.ConversationState{}, fmt.Errorf("%w: failed to decode ciphertext base64: %w", domain.ErrCorruptState, err)
		}
		plain, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
		if err != nil {
			return domain.ConversationState{}, fmt.Errorf("%w: failed to decrypt state: %w", domain.ErrCorruptState, err)
		}
		*f = string(plain)
	}
	return state, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, callID string) error {
	return m.next.Delete(ctx, callID)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// Helpers

func answerFields(s *domain.ConversationState) []*string {
	return []*string{&s.Location, &s.Dates, &s.RoomType}
}

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}

	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	ciphertextBytes := ciphertext[gcm.NonceSize():]

	return gcm.Open(nil, nonce, ciphertextBytes, nil)
}
