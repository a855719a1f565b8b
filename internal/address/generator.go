package address

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	"github.com/btcsuite/btcutil/bech32"
	"golang.org/x/crypto/sha3"
)

// Generate synthesizes a fresh receiving address in the network's format.
func Generate(network Network) (string, error) {
	switch network.Format {
	case FormatHex:
		return generateHex()
	case FormatBase58:
		return generateBase58()
	case FormatBech32:
		return generateBech32(network.HRP)
	default:
		return "", fmt.Errorf("unknown address format %q", network.Format)
	}
}

// generateHex mimics EVM address derivation: keccak-256 over random material,
// keeping the trailing 20 bytes.
func generateHex() (string, error) {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return "", err
	}
	digest := sha3.NewLegacyKeccak256()
	digest.Write(seed)
	sum := digest.Sum(nil)
	return "0x" + hex.EncodeToString(sum[len(sum)-20:]), nil
}

func generateBase58() (string, error) {
	payload := make([]byte, 20)
	if _, err := rand.Read(payload); err != nil {
		return "", err
	}
	return base58.CheckEncode(payload, 0x00), nil
}

func generateBech32(hrp string) (string, error) {
	if hrp == "" {
		hrp = "wallet"
	}
	payload := make([]byte, 20)
	if _, err := rand.Read(payload); err != nil {
		return "", err
	}
	conv, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrp, conv)
}
