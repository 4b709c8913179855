package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Cipher encrypts journal content at rest with AES-CBC and authenticates the
// result with HMAC-SHA256. Constructed once at startup from config keys.
type Cipher struct {
	key     []byte
	hmacKey []byte
	tagSize int
}

// NewCipher creates a Cipher from an AES key and an HMAC secret
func NewCipher(key []byte, hmacSecret string) (*Cipher, error) {
	if len(key) != 16 && len(key) != 24 && len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 16, 24, or 32 bytes, got %d", len(key))
	}
	if hmacSecret == "" {
		return nil, fmt.Errorf("hmac secret is empty")
	}
	return &Cipher{
		key:     key,
		hmacKey: []byte(hmacSecret),
		tagSize: sha256.Size,
	}, nil
}

// Encrypt encrypts plaintext and returns hex(IV || ciphertext || tag).
// Empty plaintext is valid and round-trips to empty.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	// Generate IV
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}

	// Add PKCS#5/PKCS#7 padding
	dataBytes := []byte(plaintext)
	padding := aes.BlockSize - len(dataBytes)%aes.BlockSize
	for i := 0; i < padding; i++ {
		dataBytes = append(dataBytes, byte(padding))
	}

	// Encrypt
	ciphertext := make([]byte, len(dataBytes))
	mode := cipher.NewCBCEncrypter(block, iv)
	mode.CryptBlocks(ciphertext, dataBytes)

	// Authenticate IV and ciphertext
	final := append(iv, ciphertext...)
	mac := hmac.New(sha256.New, c.hmacKey)
	mac.Write(final)
	final = mac.Sum(final)

	return hex.EncodeToString(final), nil
}

// Decrypt verifies and decrypts a value produced by Encrypt
func (c *Cipher) Decrypt(encrypted string) (string, error) {
	if len(encrypted) == 0 {
		return "", fmt.Errorf("encrypted data is empty")
	}

	data, err := hex.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("failed to decode hex: %w", err)
	}
	if len(data) < aes.BlockSize+c.tagSize {
		return "", fmt.Errorf("encrypted data too short: %d bytes", len(data))
	}

	// Verify tag before touching the ciphertext
	body := data[:len(data)-c.tagSize]
	tag := data[len(data)-c.tagSize:]
	mac := hmac.New(sha256.New, c.hmacKey)
	mac.Write(body)
	if !hmac.Equal(tag, mac.Sum(nil)) {
		return "", fmt.Errorf("authentication failed")
	}

	iv := body[:aes.BlockSize]
	ciphertext := body[aes.BlockSize:]
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("invalid ciphertext length: %d bytes", len(ciphertext))
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	mode := cipher.NewCBCDecrypter(block, iv)
	mode.CryptBlocks(plaintext, ciphertext)

	// Remove PKCS#5/PKCS#7 padding
	padding := int(plaintext[len(plaintext)-1])
	if padding > aes.BlockSize || padding == 0 {
		return "", fmt.Errorf("invalid padding value: %d", padding)
	}
	for i := len(plaintext) - padding; i < len(plaintext); i++ {
		if int(plaintext[i]) != padding {
			return "", fmt.Errorf("invalid padding bytes: expected %d, got %d at position %d", padding, plaintext[i], i)
		}
	}

	return string(plaintext[:len(plaintext)-padding]), nil
}
