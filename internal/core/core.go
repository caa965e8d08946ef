package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tipjar/internal/repository"
	"tipjar/internal/verify"
	tokenIssuer "tipjar/pkg/jwt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrUnsupportedChain error = errors.New("unsupported chain")
var ErrTipNotFound error = errors.New("tip not found")

const verifiedTipsPageSize = 50
const sessionTokenTTL = 24 * time.Hour

// TipJar orchestrates the wallet challenge/response login and the tip
// submission/verification lifecycle.
type TipJar struct {
	logs       *zap.SugaredLogger
	repo       Repository
	chains     ChainRegistry
	jwtIssuer  JWTIssuer
	tipVerify  TipVerifier
	recipients map[string]string
}

// NewTipJar wires the service. recipients maps a chain name to the author
// wallet address that tips on that chain must be sent to; it is configuration,
// never client input.
func NewTipJar(
	logger *zap.SugaredLogger,
	repo Repository,
	chains ChainRegistry,
	jwt JWTIssuer,
	tipVerifier TipVerifier,
	recipients map[string]string,
) *TipJar {
	return &TipJar{
		logs:       logger,
		repo:       repo,
		chains:     chains,
		jwtIssuer:  jwt,
		tipVerify:  tipVerifier,
		recipients: recipients,
	}
}

// IssueNonce rotates the wallet's login nonce and returns the challenge the
// wallet must sign. The previous nonce stops authenticating the moment the
// new one is persisted.
func (t *TipJar) IssueNonce(ctx context.Context, walletAddress, walletType string) (Challenge, error) {
	sv, ok := t.chains.SignatureVerifier(walletType)
	if !ok {
		return Challenge{}, fmt.Errorf("%w: %s", ErrUnsupportedChain, walletType)
	}

	user, err := t.repo.GetOrCreateUser(ctx, walletAddress, walletType)
	if err != nil {
		return Challenge{}, fmt.Errorf("get or create user: %w", err)
	}

	nonce := uuid.NewString()
	if err := t.repo.UpdateUserNonce(ctx, user.ID, nonce); err != nil {
		return Challenge{}, fmt.Errorf("update user nonce: %w", err)
	}

	t.logs.Infow("nonce issued",
		"wallet", walletAddress,
		"wallet_type", walletType)

	return Challenge{
		Nonce:   nonce,
		Message: sv.ChallengeMessage(walletAddress, nonce),
	}, nil
}

// VerifyLogin checks the echoed challenge message and its signature. The
// nonce embedded in the message must equal the stored one, so a message
// signed against an earlier nonce fails once a fresh nonce has been issued.
func (t *TipJar) VerifyLogin(ctx context.Context, msg LoginMessage) (LoginResult, error) {
	sv, ok := t.chains.SignatureVerifier(msg.WalletType)
	if !ok {
		return LoginResult{}, fmt.Errorf("%w: %s", ErrUnsupportedChain, msg.WalletType)
	}

	user, err := t.repo.GetOrCreateUser(ctx, msg.WalletAddress, msg.WalletType)
	if err != nil {
		return LoginResult{}, fmt.Errorf("get or create user: %w", err)
	}

	if !nonceMatches(msg.Message, user.Nonce) {
		t.logs.Infow("login rejected, nonce mismatch",
			"wallet", msg.WalletAddress,
			"wallet_type", msg.WalletType)
		return LoginResult{Success: false, Message: "Invalid or expired nonce"}, nil
	}

	if !sv.VerifySignature(msg.WalletAddress, msg.Message, msg.Signature) {
		t.logs.Infow("login rejected, invalid signature",
			"wallet", msg.WalletAddress,
			"wallet_type", msg.WalletType)
		return LoginResult{Success: false, Message: "Invalid signature"}, nil
	}

	if err := t.repo.RecordUserLogin(ctx, user); err != nil {
		return LoginResult{}, fmt.Errorf("record user login: %w", err)
	}

	token := t.jwtIssuer.Generate(tokenIssuer.TokenInfo{
		WalletAddress: msg.WalletAddress,
		Subject:       strconv.FormatUint(user.ID, 10),
		Expiration:    sessionTokenTTL,
	})
	signed, err := t.jwtIssuer.Sign(token)
	if err != nil {
		return LoginResult{}, fmt.Errorf("signing token: %w", err)
	}

	t.logs.Infow("wallet authenticated",
		"wallet", msg.WalletAddress,
		"wallet_type", msg.WalletType,
		"login_count", user.LoginCount+1)

	return LoginResult{
		Success:      true,
		Message:      "Authentication successful",
		SessionToken: signed,
	}, nil
}

// SubmitTip persists the tip unverified and hands confirmation to the
// background pool. The caller gets the tip id back immediately; whether the
// ledger check ever succeeds is invisible to this request.
func (t *TipJar) SubmitTip(ctx context.Context, sub TipSubmission) (uint64, error) {
	recipient, ok := t.recipients[sub.Chain]
	if !ok || recipient == "" {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedChain, sub.Chain)
	}

	tipID, err := t.repo.CreateTip(ctx, repository.Tip{
		PostID:      sub.PostID,
		FromAddress: sub.FromAddress,
		ToAddress:   recipient,
		Amount:      sub.Amount,
		Currency:    sub.Currency,
		Chain:       sub.Chain,
		TxHash:      sub.TxHash,
		Verified:    false,
	})
	if err != nil {
		return 0, fmt.Errorf("create tip: %w", err)
	}

	queued := t.tipVerify.Enqueue(verify.Job{
		TipID:     tipID,
		Chain:     sub.Chain,
		TxHash:    sub.TxHash,
		Recipient: recipient,
	})

	t.logs.Infow("tip submitted",
		"tip_id", tipID,
		"chain", sub.Chain,
		"amount", sub.Amount,
		"queued", queued)

	return tipID, nil
}

// VerifiedTips lists confirmed tips, newest first, one page only.
func (t *TipJar) VerifiedTips(ctx context.Context, postID *int64) ([]TipRecord, error) {
	tips, err := t.repo.GetVerifiedTips(ctx, postID, verifiedTipsPageSize)
	if err != nil {
		return nil, fmt.Errorf("get verified tips: %w", err)
	}

	records := make([]TipRecord, len(tips))
	for i, tip := range tips {
		records[i] = tipToRecord(tip)
	}
	return records, nil
}

// TipByID returns the tip whatever its verification state.
func (t *TipJar) TipByID(ctx context.Context, tipID uint64) (TipRecord, error) {
	tip, err := t.repo.GetTipByID(ctx, tipID)
	if err != nil {
		if errors.Is(err, repository.ErrTipNotFound) {
			return TipRecord{}, ErrTipNotFound
		}
		return TipRecord{}, fmt.Errorf("get tip by id: %w", err)
	}
	return tipToRecord(tip), nil
}

func tipToRecord(tip repository.Tip) TipRecord {
	return TipRecord{
		ID:          tip.ID,
		PostID:      tip.PostID,
		FromAddress: tip.FromAddress,
		ToAddress:   tip.ToAddress,
		Amount:      tip.Amount,
		Currency:    tip.Currency,
		Chain:       tip.Chain,
		TxHash:      tip.TxHash,
		Verified:    tip.Verified,
		CreatedAt:   tip.CreatedAt,
	}
}

// nonceMatches pulls the "Nonce:" line out of the echoed message and compares
// it to the stored nonce. The signature covers the whole message, so a true
// result binds the signature to this nonce.
func nonceMatches(message, nonce string) bool {
	if nonce == "" {
		return false
	}
	for _, line := range strings.Split(message, "\n") {
		if rest, ok := strings.CutPrefix(line, "Nonce: "); ok {
			return rest == nonce
		}
	}
	return false
}
