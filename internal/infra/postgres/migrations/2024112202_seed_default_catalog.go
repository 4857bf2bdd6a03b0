package migrations

import (
	"context"

	"mock-interview-service/internal/bank"
	"mock-interview-service/internal/domain"

	"github.com/uptrace/bun"
)

type questionCatalog struct {
	bun.BaseModel `bun:"table:question_catalogs"`

	ID   string         `bun:"id,pk"`
	Data domain.Catalog `bun:"data,type:jsonb"`
}

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			catalog := bank.DefaultCatalog()
			row := &questionCatalog{ID: catalog.ID, Data: catalog}
			_, err := db.NewInsert().Model(row).On("CONFLICT (id) DO NOTHING").Exec(ctx)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.NewDelete().
				Model((*questionCatalog)(nil)).
				Where("id = ?", bank.DefaultCatalogID).
				Exec(ctx)
			return err
		},
	)
}
