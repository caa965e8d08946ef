package chain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Chain name identifiers as they appear in requests and configuration.
const (
	Ethereum = "ethereum"
	Solana   = "solana"
)

// SignatureVerifier proves ownership of a wallet address. Malformed input of
// any kind is "not valid", never an error: callers get a uniform yes/no and a
// forged signature leaks nothing about which part of it was broken.
type SignatureVerifier interface {
	ChallengeMessage(address, nonce string) string
	VerifySignature(claimedAddress, message, signature string) bool
}

// TransactionVerifier confirms a claimed transfer against the chain's ledger.
// RPC failures and not-found results collapse to false.
type TransactionVerifier interface {
	VerifyTransaction(ctx context.Context, txHash, expectedRecipient string) bool
}

// EthClient is the slice of ethclient.Client the ethereum verifier needs.
type EthClient interface {
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
}

// Site identifies this service inside challenge messages.
type Site struct {
	Name string
	URI  string
}
