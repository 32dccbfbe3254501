package postgres

import (
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

var listingCols = []string{
	"id", "seller_id", "username", "title", "description", "price", "category",
	"condition", "city", "district", "country", "sold", "created_at", "updated_at",
}

func listingValues(id, seller uuid.UUID, title string, price float64) []any {
	return []any{
		id, seller, "seller", title, "desc", price, "sport",
		"lightly_used", "Izmir", "Bornova", "TR", false, testTime, testTime,
	}
}
