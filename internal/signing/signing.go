// Package signing wraps manifest documents into signed PKCS#7 envelopes.
package signing

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/smallstep/pkcs7"
)

// ErrNoCertificate is returned when a PEM bundle doesn't contain any certificate.
var ErrNoCertificate = errors.New("no certificate found")

// ErrNoPrivateKey is returned when a PEM bundle doesn't contain a usable private key.
var ErrNoPrivateKey = errors.New("no private key found")

// Sign produces a DER encoded PKCS#7 SignedData embedding content.
//
// certPEM holds the signing certificate first, followed by any intermediate needed to
// chain it to the CA used on the verifying side.
func Sign(content []byte, certPEM []byte, keyPEM []byte) ([]byte, error) {
	certs, err := parseCertificates(certPEM)
	if err != nil {
		return nil, err
	}

	key, err := parsePrivateKey(keyPEM)
	if err != nil {
		return nil, err
	}

	sd, err := pkcs7.NewSignedData(content)
	if err != nil {
		return nil, err
	}

	sd.SetDigestAlgorithm(pkcs7.OIDDigestAlgorithmSHA256)

	err = sd.AddSignerChain(certs[0], key, certs[1:], pkcs7.SignerInfoConfig{})
	if err != nil {
		return nil, fmt.Errorf("unable to add signer: %w", err)
	}

	return sd.Finish()
}

// Verify checks a PKCS#7 envelope against the CA certificate(s) in caPEM and returns the signed content.
func Verify(signed []byte, caPEM []byte) ([]byte, error) {
	cas, err := parseCertificates(caPEM)
	if err != nil {
		return nil, err
	}

	pool := x509.NewCertPool()
	for _, ca := range cas {
		pool.AddCert(ca)
	}

	p7, err := pkcs7.Parse(signed)
	if err != nil {
		return nil, fmt.Errorf("unable to parse signed manifest: %w", err)
	}

	if len(p7.Content) == 0 {
		return nil, errors.New("signed manifest doesn't embed any content")
	}

	err = p7.VerifyWithChain(pool)
	if err != nil {
		return nil, fmt.Errorf("signature verification failed: %w", err)
	}

	return p7.Content, nil
}

func parseCertificates(data []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate

	for {
		var block *pem.Block

		block, data = pem.Decode(data)
		if block == nil {
			break
		}

		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, err
		}

		certs = append(certs, cert)
	}

	if len(certs) == 0 {
		return nil, ErrNoCertificate
	}

	return certs, nil
}

func parsePrivateKey(data []byte) (crypto.PrivateKey, error) {
	for {
		var block *pem.Block

		block, data = pem.Decode(data)
		if block == nil {
			return nil, ErrNoPrivateKey
		}

		switch block.Type {
		case "PRIVATE KEY":
			return x509.ParsePKCS8PrivateKey(block.Bytes)
		case "EC PRIVATE KEY":
			return x509.ParseECPrivateKey(block.Bytes)
		case "RSA PRIVATE KEY":
			return x509.ParsePKCS1PrivateKey(block.Bytes)
		}
	}
}
