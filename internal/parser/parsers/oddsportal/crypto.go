package oddsportal

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/pbkdf2"
)

// The odds endpoints return their JSON wrapped in AES. Password and salt
// are fixed shared secrets baked into the site's own client; changing
// them breaks interoperability, so they are constants, not configuration.
const (
	cryptoPassword = "%RtR8AB&nWsh=AQC+v!=pgAe@dSQG3kQ"
	cryptoSalt     = "orieC_jQQWRmhkPvR6u2kzXeTube6aYupiOddsPortal"

	pbkdf2Iterations = 1000
	aesKeyLen        = 32 // AES-256
)

var (
	// ErrPayloadFormat means the payload did not contain exactly one ':'
	// separator after base64 decoding. Fatal for this payload; the fetch
	// may be retried, decryption must not.
	ErrPayloadFormat = errors.New("oddsportal: invalid payload format")

	// ErrDecrypt covers every failure inside the cryptographic pipeline:
	// bad base64, bad padding, non-UTF8 plaintext, non-JSON plaintext.
	// A client cannot tell "wrong key" from "corrupted response", so
	// they all collapse into one kind.
	ErrDecrypt = errors.New("oddsportal: payload decrypt failed")
)

// DecryptPayload decrypts one encrypted odds response body.
//
// Wire format: base64(  base64(ciphertext) ":" hex(iv)  ). The key is
// derived with PBKDF2-HMAC-SHA256 from the fixed password/salt, the
// ciphertext is AES-256-CBC with PKCS#7 padding. Pure function, safe
// for concurrent use; retry policy belongs to the caller.
func DecryptPayload(payload string) (*DecryptedResponse, error) {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: outer base64: %v", ErrDecrypt, err)
	}

	parts := strings.Split(string(decoded), ":")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: want <ciphertext>:<iv>, got %d parts", ErrPayloadFormat, len(parts))
	}

	iv, err := hex.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: iv hex: %v", ErrDecrypt, err)
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("%w: iv length %d", ErrDecrypt, len(iv))
	}

	ciphertext, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext base64: %v", ErrDecrypt, err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d", ErrDecrypt, len(ciphertext))
	}

	key := pbkdf2.Key([]byte(cryptoPassword), []byte(cryptoSalt), pbkdf2Iterations, aesKeyLen, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	plaintext, err = stripPKCS7(plaintext)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(plaintext) {
		return nil, fmt.Errorf("%w: plaintext is not valid UTF-8", ErrDecrypt)
	}

	var resp DecryptedResponse
	if err := json.Unmarshal(plaintext, &resp); err != nil {
		return nil, fmt.Errorf("%w: json: %v", ErrDecrypt, err)
	}
	return &resp, nil
}

func stripPKCS7(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty plaintext", ErrDecrypt)
	}
	padding := int(data[len(data)-1])
	if padding < 1 || padding > aes.BlockSize || padding > len(data) {
		return nil, fmt.Errorf("%w: bad padding %d", ErrDecrypt, padding)
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("%w: bad padding bytes", ErrDecrypt)
		}
	}
	return data[:len(data)-padding], nil
}
