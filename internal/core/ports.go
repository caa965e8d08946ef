package core

import (
	"context"

	"tipjar/internal/chain"
	"tipjar/internal/repository"
	"tipjar/internal/verify"
	tokenIssuer "tipjar/pkg/jwt"

	"github.com/golang-jwt/jwt"
)

type Repository interface {
	GetOrCreateUser(ctx context.Context, walletAddress, walletType string) (repository.User, error)
	UpdateUserNonce(ctx context.Context, userID uint64, nonce string) error
	RecordUserLogin(ctx context.Context, user repository.User) error
	CreateTip(ctx context.Context, tip repository.Tip) (uint64, error)
	GetVerifiedTips(ctx context.Context, postID *int64, limit int) ([]repository.Tip, error)
	GetTipByID(ctx context.Context, tipID uint64) (repository.Tip, error)
}

type JWTIssuer interface {
	Generate(data tokenIssuer.TokenInfo) *jwt.Token
	Sign(token *jwt.Token) (string, error)
}

type ChainRegistry interface {
	SignatureVerifier(name string) (chain.SignatureVerifier, bool)
	Supported(name string) bool
}

// TipVerifier hands a verification job to the background pool. Enqueue must
// not block request handling.
type TipVerifier interface {
	Enqueue(job verify.Job) bool
}
