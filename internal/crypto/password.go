package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrCorruptDigest is returned when a stored password digest cannot be parsed.
// A plain mismatch is not an error; callers get (false, nil).
var ErrCorruptDigest = errors.New("corrupt password digest")

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

// HashPassword derives an argon2id digest and encodes it in the PHC string
// format: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash)), nil
}

// VerifyPassword re-derives the digest with the parameters embedded in the
// stored string and compares in constant time.
func VerifyPassword(password, digest string) (bool, error) {
	sections := strings.Split(digest, "$")
	// Leading "$" yields an empty first section.
	if len(sections) != 6 || sections[1] != "argon2id" {
		return false, ErrCorruptDigest
	}

	var version int
	if _, err := fmt.Sscanf(sections[2], "v=%d", &version); err != nil {
		return false, ErrCorruptDigest
	}

	var m, t uint32
	var p uint8
	if _, err := fmt.Sscanf(sections[3], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return false, ErrCorruptDigest
	}

	salt, err := base64.RawStdEncoding.DecodeString(sections[4])
	if err != nil {
		return false, ErrCorruptDigest
	}
	want, err := base64.RawStdEncoding.DecodeString(sections[5])
	if err != nil {
		return false, ErrCorruptDigest
	}

	got := argon2.IDKey([]byte(password), salt, t, m, p, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
