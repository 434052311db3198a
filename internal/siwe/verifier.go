// Package siwe implements Sign-In with Ethereum signature verification:
// EIP-191 personal-message hashing, public-key recovery and address
// comparison. Verification is a pure function of its inputs plus the wall
// clock for expiry checks.
package siwe

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"

	"github.com/msafer/waitlist/internal/domain"
)

const (
	// signatureLength is R(32) || S(32) || V(1)
	signatureLength = 65

	personalMessagePrefix = "\x19Ethereum Signed Message:\n"
)

// HashPersonalMessage returns the EIP-191 hash of msg
func HashPersonalMessage(msg []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(personalMessagePrefix + strconv.Itoa(len(msg))))
	h.Write(msg)
	return h.Sum(nil)
}

// AddressFromPublicKey derives the 0x-prefixed Ethereum address for a
// secp256k1 public key
func AddressFromPublicKey(pub *secp256k1.PublicKey) string {
	h := sha3.NewLegacyKeccak256()
	// Skip the 0x04 uncompressed-point marker
	h.Write(pub.SerializeUncompressed()[1:])
	sum := h.Sum(nil)
	return "0x" + hex.EncodeToString(sum[len(sum)-20:])
}

// RecoverAddress recovers the signing address from an EIP-191 personal
// signature over message. The signature is hex encoded R || S || V with V in
// {0, 1, 27, 28}.
func RecoverAddress(message string, signature string) (string, error) {
	sig, err := decodeSignature(signature)
	if err != nil {
		return "", err
	}

	v := sig[signatureLength-1]
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return "", fmt.Errorf("%w: invalid recovery id", domain.ErrInvalidSignature)
	}

	// RecoverCompact wants the recovery code first: [27+v, R, S]
	compact := make([]byte, signatureLength)
	compact[0] = 27 + v
	copy(compact[1:], sig[:signatureLength-1])

	pub, _, err := ecdsa.RecoverCompact(compact, HashPersonalMessage([]byte(message)))
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidSignature, err)
	}

	return AddressFromPublicKey(pub), nil
}

// Verify checks that signature over message was produced by expectedAddress.
// Address comparison is case-insensitive on the hex encoding.
func Verify(message, signature, expectedAddress string) error {
	recovered, err := RecoverAddress(message, signature)
	if err != nil {
		return err
	}
	if !strings.EqualFold(recovered, expectedAddress) {
		return fmt.Errorf("%w: got %s", domain.ErrAddressMismatch, recovered)
	}
	return nil
}

func decodeSignature(signature string) ([]byte, error) {
	s := strings.TrimPrefix(strings.TrimSpace(signature), "0x")
	sig, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: not hex encoded", domain.ErrInvalidSignature)
	}
	if len(sig) != signatureLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", domain.ErrInvalidSignature, signatureLength, len(sig))
	}
	return sig, nil
}
