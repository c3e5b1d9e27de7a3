package models

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/aarondl/sqlboiler/v4/queries/qm"
	"github.com/friendsofgo/errors"
)

// Purchase is an object representing the database table.
type Purchase struct {
	ID           string    `boil:"id" json:"id"`
	CustomerName string    `boil:"customer_name" json:"customer_name"`
	VehiclePlate string    `boil:"vehicle_plate" json:"vehicle_plate"`
	Status       string    `boil:"status" json:"status"`
	AmountCents  int64     `boil:"amount_cents" json:"amount_cents"`
	CreatedAt    time.Time `boil:"created_at" json:"created_at"`
	VoidedAt     null.Time `boil:"voided_at" json:"voided_at,omitempty"`
}

// PurchaseColumns holds the column names of the purchases table.
var PurchaseColumns = struct {
	ID           string
	CustomerName string
	VehiclePlate string
	Status       string
	AmountCents  string
	CreatedAt    string
	VoidedAt     string
}{
	ID:           "id",
	CustomerName: "customer_name",
	VehiclePlate: "vehicle_plate",
	Status:       "status",
	AmountCents:  "amount_cents",
	CreatedAt:    "created_at",
	VoidedAt:     "voided_at",
}

// IsVoided reports whether the purchase was voided.
func (o *Purchase) IsVoided() bool {
	return o.VoidedAt.Valid
}

type purchaseQuery struct {
	*queries.Query
}

// Purchases retrieves all the records using an executor.
func Purchases(mods ...qm.QueryMod) purchaseQuery {
	mods = append(mods, qm.From("\"purchases\""))
	q := NewQuery(mods...)
	if len(queries.GetSelect(q)) == 0 {
		queries.SetSelect(q, []string{"\"purchases\".*"})
	}

	return purchaseQuery{q}
}

// All returns all Purchase records from the query.
func (q purchaseQuery) All(ctx context.Context, exec boil.ContextExecutor) ([]*Purchase, error) {
	var o []*Purchase

	err := q.Bind(ctx, exec, &o)
	if err != nil {
		return nil, errors.Wrap(err, "models: failed to assign all query results to Purchase slice")
	}

	return o, nil
}

// Count returns the count of all Purchase records in the query.
func (q purchaseQuery) Count(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	var count int64

	queries.SetSelect(q.Query, nil)
	queries.SetCount(q.Query)

	err := q.Query.QueryRowContext(ctx, exec).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "models: failed to count purchases rows")
	}

	return count, nil
}
