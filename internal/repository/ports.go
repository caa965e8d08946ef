package repository

import "context"

type Storage interface {
	MigrateTables(tbl ...any) error
	SaveRecord(ctx context.Context, record any) error
	GetOneWhere(ctx context.Context, conds map[string]any, entity any) error
	GetAllWhere(ctx context.Context, conds map[string]any, orderBy string, limit int, entity any) error
	UpdateWhere(ctx context.Context, model any, conds map[string]any, updates map[string]any) error
}
