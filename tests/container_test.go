package listview_test

import (
	"context"
	"database/sql"

	"github.com/friendsofgo/errors"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// purchasesSchema mirrors the repair-shop purchases table. voided_at is set
// when a purchase is cancelled; such rows stay in the table.
const purchasesSchema = `
	CREATE TABLE purchases (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		customer_name VARCHAR(255) NOT NULL,
		vehicle_plate VARCHAR(32) NOT NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'open',
		amount_cents BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		voided_at TIMESTAMP
	);

	CREATE INDEX idx_purchases_created_at ON purchases(created_at DESC, id DESC);
	CREATE INDEX idx_purchases_live ON purchases(created_at DESC) WHERE voided_at IS NULL;
`

// shopDB is a throwaway PostgreSQL holding the purchases table.
type shopDB struct {
	pg  *postgres.PostgresContainer
	DB  *sql.DB
	DSN string
}

func startShopDB(ctx context.Context) (_ *shopDB, err error) {
	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("shop"),
		postgres.WithUsername("shop"),
		postgres.WithPassword("shop"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "start postgres")
	}

	db := &shopDB{pg: pg}
	defer func() {
		if err != nil {
			_ = db.Close(ctx)
		}
	}()

	if db.DSN, err = pg.ConnectionString(ctx, "sslmode=disable"); err != nil {
		return nil, errors.Wrap(err, "connection string")
	}
	if db.DB, err = sql.Open("postgres", db.DSN); err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	if err = db.DB.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "ping database")
	}
	if _, err = db.DB.ExecContext(ctx, purchasesSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	return db, nil
}

// Close closes the connection pool and removes the container.
func (s *shopDB) Close(ctx context.Context) error {
	if s.DB != nil {
		_ = s.DB.Close()
	}
	return testcontainers.TerminateContainer(s.pg, testcontainers.StopContext(ctx))
}
