package security

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const rsaKeyBits = 2048

var (
	// ErrKeyMaterialInconsistent reports that exactly one of the two key
	// artifacts exists. Partial state is never repaired silently.
	ErrKeyMaterialInconsistent = errors.New("key material inconsistent: exactly one key file present")
	// ErrKeyMaterialUnavailable reports that the key directory cannot be
	// created or written.
	ErrKeyMaterialUnavailable = errors.New("key material unavailable")
)

// KeyMaterial holds the signing keypair. It is immutable after
// LoadOrCreateKeys and safe for unsynchronized concurrent reads.
type KeyMaterial struct {
	private *rsa.PrivateKey
	public  *rsa.PublicKey
}

func (k *KeyMaterial) Private() *rsa.PrivateKey { return k.private }
func (k *KeyMaterial) Public() *rsa.PublicKey   { return k.public }

// LoadOrCreateKeys loads the PEM keypair from dir, generating and persisting
// a fresh one when neither file exists yet.
func LoadOrCreateKeys(dir, privateName, publicName string) (*KeyMaterial, error) {
	privatePath := filepath.Join(dir, privateName)
	publicPath := filepath.Join(dir, publicName)

	privateExists, err := fileExists(privatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyMaterialUnavailable, err)
	}
	publicExists, err := fileExists(publicPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyMaterialUnavailable, err)
	}

	switch {
	case privateExists && publicExists:
		return loadKeys(privatePath, publicPath)
	case !privateExists && !publicExists:
		return generateKeys(dir, privatePath, publicPath)
	default:
		return nil, fmt.Errorf("%w: dir %s", ErrKeyMaterialInconsistent, dir)
	}
}

func loadKeys(privatePath, publicPath string) (*KeyMaterial, error) {
	privatePEM, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyMaterialUnavailable, err)
	}
	publicPEM, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyMaterialUnavailable, err)
	}

	private, err := parsePrivateKey(privatePEM)
	if err != nil {
		return nil, err
	}
	public, err := parsePublicKey(publicPEM)
	if err != nil {
		return nil, err
	}
	return &KeyMaterial{private: private, public: public}, nil
}

func generateKeys(dir, privatePath, publicPath string) (*KeyMaterial, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyMaterialUnavailable, err)
	}

	private, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, fmt.Errorf("generate rsa key: %w", err)
	}

	privateDER, err := x509.MarshalPKCS8PrivateKey(private)
	if err != nil {
		return nil, fmt.Errorf("marshal private key: %w", err)
	}
	publicDER, err := x509.MarshalPKIXPublicKey(&private.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("marshal public key: %w", err)
	}

	privatePEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privateDER})
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})

	if err := os.WriteFile(privatePath, privatePEM, 0o600); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyMaterialUnavailable, err)
	}
	if err := os.WriteFile(publicPath, publicPEM, 0o644); err != nil {
		// Do not leave a half-written pair behind.
		_ = os.Remove(privatePath)
		return nil, fmt.Errorf("%w: %v", ErrKeyMaterialUnavailable, err)
	}

	return &KeyMaterial{private: private, public: &private.PublicKey}, nil
}

func parsePrivateKey(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("invalid private key PEM")
	}
	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New("private key is not RSA")
		}
		return rsaKey, nil
	}
	// Legacy PKCS#1 keys are still accepted on load.
	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return key, nil
}

func parsePublicKey(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("invalid public key PEM")
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not RSA")
	}
	return rsaKey, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
