// AngelaMos | 2026
// keys.go

package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
)

const (
	privateKeyMode os.FileMode = 0o600
	publicKeyMode  os.FileMode = 0o644
	keyIDLength                = 8
)

// loadSigningKey reads an EC private key in PEM form and pins it to ES256.
// A key without a kid gets a short random one.
func loadSigningKey(path string) (jwk.Key, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // operator supplied path
	if err != nil {
		return nil, fmt.Errorf("read signing key %s: %w", path, err)
	}

	key, err := jwk.ParseKey(raw, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse signing key: %w", err)
	}

	if err := key.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
		return nil, fmt.Errorf("pin algorithm: %w", err)
	}

	if keyIDOf(key) == "" {
		kid := uuid.NewString()[:keyIDLength]
		if err := key.Set(jwk.KeyIDKey, kid); err != nil {
			return nil, fmt.Errorf("assign kid: %w", err)
		}
	}

	return key, nil
}

// publishedSet derives the public half of key and wraps it as a JWKS.
func publishedSet(key jwk.Key) (jwk.Key, jwk.Set, error) {
	public, err := key.PublicKey()
	if err != nil {
		return nil, nil, fmt.Errorf("derive public key: %w", err)
	}
	if err := public.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, nil, fmt.Errorf("mark key usage: %w", err)
	}

	set := jwk.NewSet()
	if err := set.AddKey(public); err != nil {
		return nil, nil, fmt.Errorf("build key set: %w", err)
	}
	return public, set, nil
}

func keyIDOf(key jwk.Key) string {
	var kid string
	if err := key.Get(jwk.KeyIDKey, &kid); err != nil {
		return ""
	}
	return kid
}

// GenerateKeyPair writes a new P-256 key pair to the given paths. The
// private half is readable by the owner only.
func GenerateKeyPair(privatePath, publicPath string) error {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate P-256 key: %w", err)
	}

	private, err := jwk.Import(ecKey)
	if err != nil {
		return fmt.Errorf("wrap private key: %w", err)
	}
	if err := private.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
		return fmt.Errorf("pin algorithm: %w", err)
	}

	public, err := private.PublicKey()
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}

	for _, out := range []struct {
		key  jwk.Key
		path string
		mode os.FileMode
	}{
		{private, privatePath, privateKeyMode},
		{public, publicPath, publicKeyMode},
	} {
		pem, err := jwk.Pem(out.key)
		if err != nil {
			return fmt.Errorf("encode %s: %w", out.path, err)
		}
		if err := os.WriteFile(out.path, pem, out.mode); err != nil {
			return fmt.Errorf("write %s: %w", out.path, err)
		}
	}
	return nil
}
