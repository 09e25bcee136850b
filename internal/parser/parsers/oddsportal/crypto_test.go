package oddsportal

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"testing"

	"golang.org/x/crypto/pbkdf2"
)

// encryptPayload builds a wire payload the way the site's backend does:
// AES-256-CBC over PKCS#7-padded plaintext, then
// base64(base64(ciphertext) ":" hex(iv)).
func encryptPayload(t *testing.T, plaintext string) string {
	t.Helper()

	key := pbkdf2.Key([]byte(cryptoPassword), []byte(cryptoSalt), pbkdf2Iterations, aesKeyLen, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatalf("aes.NewCipher: %v", err)
	}

	iv := bytes.Repeat([]byte{0x42}, aes.BlockSize)

	padding := aes.BlockSize - len(plaintext)%aes.BlockSize
	padded := append([]byte(plaintext), bytes.Repeat([]byte{byte(padding)}, padding)...)

	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	inner := base64.StdEncoding.EncodeToString(ciphertext) + ":" + hex.EncodeToString(iv)
	return base64.StdEncoding.EncodeToString([]byte(inner))
}

func TestDecryptPayloadRoundTrip(t *testing.T) {
	payload := encryptPayload(t, `{"s":1,"d":{"bt":1,"sc":2,"refresh":15}}`)

	resp, err := DecryptPayload(payload)
	if err != nil {
		t.Fatalf("DecryptPayload() error: %v", err)
	}
	if resp.Status != 1 {
		t.Errorf("Status = %d, want 1", resp.Status)
	}
	if resp.Data.BettingTypeID != 1 || resp.Data.ScopeID != 2 {
		t.Errorf("bt/sc = %d/%d, want 1/2", resp.Data.BettingTypeID, resp.Data.ScopeID)
	}
	if resp.Data.Refresh != 15 {
		t.Errorf("Refresh = %d, want 15", resp.Data.Refresh)
	}
}

func TestDecryptPayloadTrimsWhitespace(t *testing.T) {
	payload := "\n  " + encryptPayload(t, `{"s":1,"d":{}}`) + "  \n"
	if _, err := DecryptPayload(payload); err != nil {
		t.Fatalf("DecryptPayload() with surrounding whitespace: %v", err)
	}
}

func TestDecryptPayloadFormatErrors(t *testing.T) {
	wrap := func(inner string) string {
		return base64.StdEncoding.EncodeToString([]byte(inner))
	}

	tests := []struct {
		name    string
		payload string
		want    error
	}{
		{"not base64", "!!!not-base64!!!", ErrDecrypt},
		{"no separator", wrap("just-one-part"), ErrPayloadFormat},
		{"too many separators", wrap("a:b:c"), ErrPayloadFormat},
		{"iv not hex", wrap("QUJD:zz"), ErrDecrypt},
		{"iv wrong length", wrap("QUJD:0102"), ErrDecrypt},
		{"ciphertext not base64", wrap("***:" + hex.EncodeToString(bytes.Repeat([]byte{1}, 16))), ErrDecrypt},
		{"ciphertext not block-aligned", wrap(base64.StdEncoding.EncodeToString([]byte("short")) + ":" + hex.EncodeToString(bytes.Repeat([]byte{1}, 16))), ErrDecrypt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecryptPayload(tt.payload)
			if !errors.Is(err, tt.want) {
				t.Errorf("DecryptPayload() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecryptPayloadNonJSONPlaintext(t *testing.T) {
	payload := encryptPayload(t, "this decrypts fine but is not json")
	_, err := DecryptPayload(payload)
	if !errors.Is(err, ErrDecrypt) {
		t.Errorf("DecryptPayload() error = %v, want ErrDecrypt", err)
	}
}

func TestDecryptPayloadFormatErrorIsNotDecryptError(t *testing.T) {
	// The two sentinels are distinct so callers can tell a malformed
	// envelope from a cryptographic failure.
	payload := base64.StdEncoding.EncodeToString([]byte("no-separator-here"))
	_, err := DecryptPayload(payload)
	if !errors.Is(err, ErrPayloadFormat) {
		t.Fatalf("want ErrPayloadFormat, got %v", err)
	}
	if errors.Is(err, ErrDecrypt) {
		t.Error("format error must not match ErrDecrypt")
	}
}
