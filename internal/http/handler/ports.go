package handler

import (
	"context"
	"net/http"

	"tipjar/internal/core"
)

type RequestValidator interface {
	DecodeJSONPayload(r *http.Request, object any) error
}

type TipJarService interface {
	IssueNonce(ctx context.Context, walletAddress, walletType string) (core.Challenge, error)
	VerifyLogin(ctx context.Context, msg core.LoginMessage) (core.LoginResult, error)
	SubmitTip(ctx context.Context, sub core.TipSubmission) (uint64, error)
	VerifiedTips(ctx context.Context, postID *int64) ([]core.TipRecord, error)
	TipByID(ctx context.Context, tipID uint64) (core.TipRecord, error)
}
