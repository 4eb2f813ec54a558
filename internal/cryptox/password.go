package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

const (
	hashVariant = "argon2id"
	hashVersion = "v=19"

	saltLength          = 16
	argonTime    uint32 = 3
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
)

var ErrInvalidHashFormat = errors.New("invalid password hash format")

// HashPassword generates an Argon2id hash for the provided password.
// The returned string embeds the parameters, salt, and hash:
//
//	argon2id$v=19$m=<memory>,t=<iterations>,p=<parallelism>$<salt>$<hash>
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	sum := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	encoded := strings.Join([]string{
		hashVariant,
		hashVersion,
		fmt.Sprintf("m=%d,t=%d,p=%d", argonMemory, argonTime, argonThreads),
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	}, "$")

	return encoded, nil
}

// VerifyPassword compares the provided password against a stored Argon2id
// hash in constant time. The parameters are taken from the encoded hash,
// so hashes produced with older settings keep verifying.
func VerifyPassword(password, encoded string) (bool, error) {
	if password == "" || encoded == "" {
		return false, nil
	}

	time, memory, threads, salt, expected, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

var (
	decoyOnce    sync.Once
	decoyEncoded string
)

// VerifyDecoy runs a full Argon2id verification against a throwaway hash
// and discards the result. Callers use it when no account matches a
// login attempt, so the work profile stays in line with a real check.
func VerifyDecoy(password string) {
	decoyOnce.Do(func() {
		buf := make([]byte, 16)
		if _, err := rand.Read(buf); err != nil {
			return
		}
		if h, err := HashPassword(hex.EncodeToString(buf)); err == nil {
			decoyEncoded = h
		}
	})
	_, _ = VerifyPassword(password, decoyEncoded)
}

func decodeHash(encoded string) (time, memory uint32, threads uint8, salt, hash []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 {
		return 0, 0, 0, nil, nil, ErrInvalidHashFormat
	}

	if parts[0] != hashVariant {
		return 0, 0, 0, nil, nil, fmt.Errorf("%w: unexpected variant %q", ErrInvalidHashFormat, parts[0])
	}
	if parts[1] != hashVersion {
		return 0, 0, 0, nil, nil, fmt.Errorf("%w: unsupported version %q", ErrInvalidHashFormat, parts[1])
	}

	time, memory, threads, err = parseParams(parts[2])
	if err != nil {
		return 0, 0, 0, nil, nil, err
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("decode salt: %w", err)
	}

	hash, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("decode hash: %w", err)
	}

	return time, memory, threads, salt, hash, nil
}

func parseParams(segment string) (time, memory uint32, threads uint8, err error) {
	entries := strings.Split(segment, ",")
	if len(entries) != 3 {
		return 0, 0, 0, ErrInvalidHashFormat
	}

	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			return 0, 0, 0, ErrInvalidHashFormat
		}

		switch key {
		case "m":
			v, perr := strconv.ParseUint(value, 10, 32)
			if perr != nil {
				return 0, 0, 0, fmt.Errorf("parse m: %w", perr)
			}
			memory = uint32(v)
		case "t":
			v, perr := strconv.ParseUint(value, 10, 32)
			if perr != nil {
				return 0, 0, 0, fmt.Errorf("parse t: %w", perr)
			}
			time = uint32(v)
		case "p":
			v, perr := strconv.ParseUint(value, 10, 8)
			if perr != nil {
				return 0, 0, 0, fmt.Errorf("parse p: %w", perr)
			}
			threads = uint8(v)
		default:
			return 0, 0, 0, ErrInvalidHashFormat
		}
	}

	if time == 0 || memory == 0 || threads == 0 {
		return 0, 0, 0, ErrInvalidHashFormat
	}

	return time, memory, threads, nil
}
