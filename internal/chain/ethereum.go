package chain

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const challengeTimeFormat = "2006-01-02T15:04:05Z"

var timeNow = time.Now

// EthereumChain verifies secp256k1 personal-message signatures and confirms
// transfers through an RPC client.
type EthereumChain struct {
	site   Site
	client EthClient
}

func NewEthereumChain(site Site, client EthClient) *EthereumChain {
	return &EthereumChain{
		site:   site,
		client: client,
	}
}

// ChallengeMessage builds the sign-in text the wallet is asked to sign.
// The chain id is fixed to mainnet; the login flow is not multi-network aware.
func (e *EthereumChain) ChallengeMessage(address, nonce string) string {
	return fmt.Sprintf("Sign in to %s\n\nURI: %s\nVersion: 1\nChain ID: 1\nNonce: %s\nIssued At: %s\nAddress: %s",
		e.site.Name,
		e.site.URI,
		nonce,
		timeNow().UTC().Format(challengeTimeFormat),
		address)
}

// VerifySignature recovers the signer from a 65-byte recoverable signature
// over the personal-message hash of message and compares it to the claimed
// address. Wallets emit the recovery id as 27/28; both forms are accepted.
func (e *EthereumChain) VerifySignature(claimedAddress, message, signature string) bool {
	sig, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil || len(sig) != crypto.SignatureLength {
		return false
	}

	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	if !common.IsHexAddress(claimedAddress) {
		return false
	}

	hash := accounts.TextHash([]byte(message))
	pubKey, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return false
	}

	return crypto.PubkeyToAddress(*pubKey) == common.HexToAddress(claimedAddress)
}

// VerifyTransaction looks the transaction up by hash and requires its "to"
// field to equal the expected recipient. Contract creations carry no "to" and
// are rejected.
func (e *EthereumChain) VerifyTransaction(ctx context.Context, txHash, expectedRecipient string) bool {
	hashBytes, err := hex.DecodeString(strings.TrimPrefix(txHash, "0x"))
	if err != nil || len(hashBytes) != common.HashLength {
		return false
	}

	if !common.IsHexAddress(expectedRecipient) {
		return false
	}

	tx, _, err := e.client.TransactionByHash(ctx, common.BytesToHash(hashBytes))
	if err != nil || tx == nil {
		return false
	}

	to := tx.To()
	if to == nil {
		return false
	}

	return *to == common.HexToAddress(expectedRecipient)
}
