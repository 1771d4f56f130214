package mpesa

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"time"

	"mpesa-gateway/internal/pkg/logger"
)

var ErrMissingCredential = errors.New("mpesa: initiator password or certificate not configured")

const credentialTTL = 24 * time.Hour

// LoadCertificateKey reads the gateway's RSA public key from a PEM encoded
// X.509 certificate.
func LoadCertificateKey(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate file: %w", err)
	}
	return parseCertificateKey(data)
}

func parseCertificateKey(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block")
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}

	key, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("certificate public key is not RSA")
	}
	return key, nil
}

// EncryptCredential encrypts the initiator password with PKCS#1 v1.5 and
// base64 encodes the result.
func EncryptCredential(key *rsa.PublicKey, password string) (string, error) {
	encrypted, err := rsa.EncryptPKCS1v15(rand.Reader, key, []byte(password))
	if err != nil {
		return "", fmt.Errorf("failed to encrypt initiator password: %w", err)
	}
	return base64.StdEncoding.EncodeToString(encrypted), nil
}

// SecurityCredential returns the encrypted initiator password, reusing a
// cached value for up to a day.
func (c *Client) SecurityCredential() (string, error) {
	if c.config.InitiatorPassword == "" || c.config.CertificatePath == "" {
		return "", ErrMissingCredential
	}

	key := c.credentialKey()
	cached, err := c.cache.Get(key)
	if err != nil {
		logger.Warning.Printf("mpesa: credential cache read failed: %v", err)
	}
	if cached != "" {
		var credential string
		if err := json.Unmarshal([]byte(cached), &credential); err == nil && credential != "" {
			return credential, nil
		}
	}

	publicKey, err := LoadCertificateKey(c.config.CertificatePath)
	if err != nil {
		return "", fmt.Errorf("mpesa: %w", err)
	}
	credential, err := EncryptCredential(publicKey, c.config.InitiatorPassword)
	if err != nil {
		return "", fmt.Errorf("mpesa: %w", err)
	}

	if err := c.cache.Set(key, credential, credentialTTL); err != nil {
		logger.Warning.Printf("mpesa: credential cache write failed: %v", err)
	}
	return credential, nil
}

func (c *Client) credentialKey() string {
	sum := sha256.Sum256([]byte(c.config.InitiatorPassword))
	return fmt.Sprintf("mpesa_security_credential:%s:%s", c.config.Environment, hex.EncodeToString(sum[:]))
}
