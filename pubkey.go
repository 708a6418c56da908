package atecc508a

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"math/big"
)

// PublicKeyECDSA returns the most recently generated public key as a P-256
// ECDSA key.
//
// Like PublicKey, it returns ErrKeyNotReady until a CreateKeyPair exchange
// has completed.
func (d *Dev) PublicKeyECDSA() (*ecdsa.PublicKey, error) {
	raw, err := d.PublicKey()
	if err != nil {
		return nil, err
	}

	// The device returns the raw X and Y coordinates, 32 bytes each.
	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(raw[:publicKeySize/2]),
		Y:     new(big.Int).SetBytes(raw[publicKeySize/2:]),
	}, nil
}
