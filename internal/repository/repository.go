package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tipjar/internal/db"

	"github.com/google/uuid"
)

var ErrTipNotFound error = errors.New("tip not found")

var timeNow = time.Now

type WalletRepository struct {
	db Storage
}

func NewWalletRepository(db Storage) *WalletRepository {
	return &WalletRepository{
		db: db,
	}
}

func (r *WalletRepository) MigrateTables() error {
	err := r.db.MigrateTables(&User{}, &Tip{})
	if err != nil {
		return fmt.Errorf("migrate table(s): %w", err)
	}

	return nil
}

// GetOrCreateUser resolves the user row for a wallet identity, creating it
// with a fresh nonce on first sight. It never rotates the nonce of an
// existing user.
func (r *WalletRepository) GetOrCreateUser(ctx context.Context, walletAddress, walletType string) (User, error) {
	var user User

	conds := map[string]any{
		"wallet_address": walletAddress,
		"wallet_type":    walletType,
	}

	err := r.db.GetOneWhere(ctx, conds, &user)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return User{}, fmt.Errorf("get user by wallet: %w", err)
	}

	user = User{
		WalletAddress: walletAddress,
		WalletType:    walletType,
		Nonce:         uuid.NewString(),
		CreatedAt:     timeNow().UTC(),
	}
	if err := r.db.SaveRecord(ctx, &user); err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (r *WalletRepository) UpdateUserNonce(ctx context.Context, userID uint64, nonce string) error {
	err := r.db.UpdateWhere(ctx, &User{},
		map[string]any{"id": userID},
		map[string]any{"nonce": nonce})
	if err != nil {
		return fmt.Errorf("update user nonce: %w", err)
	}
	return nil
}

// RecordUserLogin stamps last_login and bumps login_count. The count is taken
// from the caller's read of the row; simultaneous logins for one wallet are
// not coordinated here.
func (r *WalletRepository) RecordUserLogin(ctx context.Context, user User) error {
	now := timeNow().UTC()
	err := r.db.UpdateWhere(ctx, &User{},
		map[string]any{"id": user.ID},
		map[string]any{
			"last_login":  now,
			"login_count": user.LoginCount + 1,
		})
	if err != nil {
		return fmt.Errorf("record user login: %w", err)
	}
	return nil
}

// CreateTip persists the tip and returns its id. The caller decides the
// verified flag; submission always passes false.
func (r *WalletRepository) CreateTip(ctx context.Context, tip Tip) (uint64, error) {
	tip.CreatedAt = timeNow().UTC()
	if err := r.db.SaveRecord(ctx, &tip); err != nil {
		return 0, fmt.Errorf("create tip: %w", err)
	}
	return tip.ID, nil
}

func (r *WalletRepository) MarkTipVerified(ctx context.Context, tipID uint64) error {
	err := r.db.UpdateWhere(ctx, &Tip{},
		map[string]any{"id": tipID},
		map[string]any{"verified": true})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrTipNotFound
		}
		return fmt.Errorf("mark tip verified: %w", err)
	}
	return nil
}

// GetVerifiedTips lists confirmed tips, newest first, capped at limit.
// A non-nil postID narrows the list to a single post.
func (r *WalletRepository) GetVerifiedTips(ctx context.Context, postID *int64, limit int) ([]Tip, error) {
	conds := map[string]any{"verified": true}
	if postID != nil {
		conds["post_id"] = *postID
	}

	tips := []Tip{}
	err := r.db.GetAllWhere(ctx, conds, "created_at DESC", limit, &tips)
	if err != nil {
		return nil, fmt.Errorf("get verified tips: %w", err)
	}
	return tips, nil
}

// GetTipByID returns the tip regardless of its verified state.
func (r *WalletRepository) GetTipByID(ctx context.Context, tipID uint64) (Tip, error) {
	var tip Tip
	err := r.db.GetOneWhere(ctx, map[string]any{"id": tipID}, &tip)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return Tip{}, ErrTipNotFound
		}
		return Tip{}, fmt.Errorf("get tip by id: %w", err)
	}
	return tip, nil
}
