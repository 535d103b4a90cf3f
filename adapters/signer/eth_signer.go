package signer

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/arbit-labs/arbit/core"
	"github.com/arbit-labs/arbit/ports"
)

// EthSigner signs EIP-712 typed data with a secp256k1 private key.
type EthSigner struct{}

// New creates a new Ethereum typed-data signer.
func New() ports.Signer {
	return &EthSigner{}
}

// DeriveAddress recovers the checksummed wallet address for a private key.
func (s *EthSigner) DeriveAddress(privateKey string) (string, error) {
	key, err := parseKey(privateKey)
	if err != nil {
		return "", err
	}
	return crypto.PubkeyToAddress(key.PublicKey).Hex(), nil
}

// SignTypedData hashes the challenge per EIP-712 and signs the digest.
// The message is signed exactly as received; callers must not re-fetch or
// rebuild it between signing and submission, since the remote binds the
// challenge to its timestamp.
func (s *EthSigner) SignTypedData(message *core.ChallengeMessage, privateKey string) (string, error) {
	key, err := parseKey(privateKey)
	if err != nil {
		return "", err
	}

	typed, err := toTypedData(message)
	if err != nil {
		return "", err
	}

	domainSeparator, err := typed.HashStruct("EIP712Domain", typed.Domain.Map())
	if err != nil {
		return "", fmt.Errorf("%w: hash domain: %v", core.ErrSigningFailed, err)
	}
	messageHash, err := typed.HashStruct(typed.PrimaryType, typed.Message)
	if err != nil {
		return "", fmt.Errorf("%w: hash message: %v", core.ErrSigningFailed, err)
	}

	rawData := []byte{0x19, 0x01}
	rawData = append(rawData, domainSeparator...)
	rawData = append(rawData, messageHash...)
	digest := crypto.Keccak256(rawData)

	sig, err := crypto.Sign(digest, key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrSigningFailed, err)
	}
	// Recovery ID to Ethereum V value.
	sig[64] += 27

	return hexutil.Encode(sig), nil
}

func parseKey(privateKey string) (*ecdsa.PrivateKey, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(privateKey), "0x")
	key, err := crypto.HexToECDSA(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidKeyFormat, err)
	}
	return key, nil
}

func toTypedData(message *core.ChallengeMessage) (*apitypes.TypedData, error) {
	if message == nil {
		return nil, fmt.Errorf("%w: nil challenge message", core.ErrSigningFailed)
	}

	raw, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("%w: encode challenge: %v", core.ErrSigningFailed, err)
	}

	var typed apitypes.TypedData
	if err := json.Unmarshal(raw, &typed); err != nil {
		return nil, fmt.Errorf("%w: malformed challenge schema: %v", core.ErrSigningFailed, err)
	}

	if typed.PrimaryType == "" {
		primary, err := inferPrimaryType(typed.Types)
		if err != nil {
			return nil, err
		}
		typed.PrimaryType = primary
	}
	if _, ok := typed.Types[typed.PrimaryType]; !ok {
		return nil, fmt.Errorf("%w: primary type %q not declared in schema", core.ErrSigningFailed, typed.PrimaryType)
	}

	return &typed, nil
}

// inferPrimaryType picks the message type when the remote omits primaryType.
// Unambiguous only when exactly one non-domain type is declared.
func inferPrimaryType(types apitypes.Types) (string, error) {
	var candidate string
	count := 0
	for name := range types {
		if name == "EIP712Domain" {
			continue
		}
		candidate = name
		count++
	}
	if count != 1 {
		return "", fmt.Errorf("%w: cannot infer primary type from %d candidates", core.ErrSigningFailed, count)
	}
	return candidate, nil
}
