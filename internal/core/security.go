// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Current argon2id cost. Stored digests with other values are upgraded on
// the next successful login.
const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
	saltLength          = 16
)

var ErrMalformedHash = errors.New("malformed password hash")

var b64 = base64.RawStdEncoding

// argonDigest is the parsed form of "$argon2id$v=19$m=..,t=..,p=..$salt$key".
type argonDigest struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

func (d argonDigest) String() string {
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, d.memory, d.time, d.threads,
		b64.EncodeToString(d.salt), b64.EncodeToString(d.key),
	)
}

func (d argonDigest) derive(password string) []byte {
	//nolint:gosec // G115: key length is bounded by the stored digest
	return argon2.IDKey([]byte(password), d.salt, d.time, d.memory, d.threads, uint32(len(d.key)))
}

func (d argonDigest) current() bool {
	return d.memory == argonMemory &&
		d.time == argonTime &&
		d.threads == argonThreads &&
		len(d.key) == int(argonKeyLen)
}

func parseArgonDigest(encoded string) (argonDigest, error) {
	var d argonDigest

	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" {
		return d, ErrMalformedHash
	}
	if fields[1] != "argon2id" {
		return d, fmt.Errorf("%w: algorithm %q", ErrMalformedHash, fields[1])
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil || version != argon2.Version {
		return d, fmt.Errorf("%w: version %q", ErrMalformedHash, fields[2])
	}
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &d.memory, &d.time, &d.threads); err != nil {
		return d, fmt.Errorf("%w: params: %w", ErrMalformedHash, err)
	}

	var err error
	if d.salt, err = b64.DecodeString(fields[4]); err != nil {
		return d, fmt.Errorf("%w: salt: %w", ErrMalformedHash, err)
	}
	if d.key, err = b64.DecodeString(fields[5]); err != nil || len(d.key) == 0 {
		return d, fmt.Errorf("%w: key", ErrMalformedHash)
	}
	return d, nil
}

func isBcrypt(encoded string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(encoded, prefix) {
			return true
		}
	}
	return false
}

// HashPassword returns an argon2id digest with a random salt.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}

	d := argonDigest{
		memory:  argonMemory,
		time:    argonTime,
		threads: argonThreads,
		salt:    salt,
	}
	d.key = argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return d.String(), nil
}

// VerifyPassword accepts argon2id digests and bcrypt digests carried over
// from imported accounts.
func VerifyPassword(password, encoded string) (bool, error) {
	ok, _, err := verify(password, encoded)
	return ok, err
}

// verify also reports whether the stored digest should be replaced.
func verify(password, encoded string) (ok bool, stale bool, err error) {
	if isBcrypt(encoded) {
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, true, nil
		case err != nil:
			return false, true, fmt.Errorf("bcrypt compare: %w", err)
		}
		return true, true, nil
	}

	d, err := parseArgonDigest(encoded)
	if err != nil {
		return false, true, err
	}
	match := subtle.ConstantTimeCompare(d.key, d.derive(password)) == 1
	return match, !d.current(), nil
}

// VerifyPasswordWithRehash returns a fresh argon2id digest alongside a
// successful match when the stored one is outdated.
func VerifyPasswordWithRehash(password, encoded string) (bool, string, error) {
	ok, stale, err := verify(password, encoded)
	if err != nil || !ok {
		return false, "", err
	}
	if !stale {
		return true, "", nil
	}

	upgraded, err := HashPassword(password)
	if err != nil {
		return true, "", nil //nolint:nilerr // login still succeeds
	}
	return true, upgraded, nil
}

var decoyDigest = sync.OnceValue(func() string {
	d, err := HashPassword("decoy-password-for-unknown-accounts")
	if err != nil {
		panic(fmt.Sprintf("security: decoy digest: %v", err))
	}
	return d
})

// VerifyPasswordTimingSafe runs one derivation even when no digest is
// stored, so unknown emails and wrong passwords take the same time.
func VerifyPasswordTimingSafe(password string, encoded *string) (bool, string, error) {
	if encoded == nil || *encoded == "" {
		_, _, _ = verify(password, decoyDigest()) //nolint:errcheck // timing only
		return false, "", nil
	}
	return VerifyPasswordWithRehash(password, *encoded)
}
