package postgres

import (
	"escrow/internal/adapters/out/postgres/disputerepo"
	"escrow/internal/adapters/out/postgres/memberrepo"
	"escrow/internal/adapters/out/postgres/orderrepo"
	"escrow/internal/adapters/out/postgres/proofrepo"
	"escrow/internal/adapters/out/postgres/transactionrepo"

	"gorm.io/gorm"
)

// Models lists every table the engine owns, in dependency order.
func Models() []any {
	return []any{
		&orderrepo.OrderDTO{},
		&orderrepo.HistoryDTO{},
		&disputerepo.DisputeDTO{},
		&proofrepo.ProofDTO{},
		&transactionrepo.TransactionDTO{},
		&memberrepo.MemberDTO{},
		&memberrepo.RatingDTO{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
