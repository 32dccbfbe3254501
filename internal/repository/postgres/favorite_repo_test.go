package postgres

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/errs"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
)

func TestFavoriteRepo_Create(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewFavoriteRepo(db)
	ctx := context.Background()
	f := &model.Favorite{ID: uuid.Must(uuid.NewV4()), UserID: uuid.Must(uuid.NewV4()), ListingID: uuid.Must(uuid.NewV4())}

	mock.ExpectQuery(`INSERT INTO favorites`).
		WithArgs(f.ID, f.UserID, f.ListingID).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, r.Create(ctx, f), errs.ErrConflict)

	mock.ExpectQuery(`INSERT INTO favorites`).
		WithArgs(f.ID, f.UserID, f.ListingID).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	require.ErrorIs(t, r.Create(ctx, f), errs.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepo_GetAndDelete(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewFavoriteRepo(db)
	ctx := context.Background()
	id, user, listing := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`SELECT id, user_id, listing_id, created_at FROM favorites WHERE id=\$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "listing_id", "created_at"}).AddRow(id, user, listing, testTime))
	f, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, user, f.UserID)
	require.Nil(t, f.Listing)

	mock.ExpectQuery(`FROM favorites WHERE id=\$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByID(ctx, id)
	require.ErrorIs(t, err, errs.ErrNotFound)

	mock.ExpectExec(`DELETE FROM favorites WHERE id=\$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, r.Delete(ctx, id))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepo_ListByUser_IncludesListing(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewFavoriteRepo(db)
	user, listing, seller := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())

	cols := append([]string{"f_id", "f_user_id", "f_listing_id", "f_created_at"}, listingCols...)
	vals := append([]any{uuid.Must(uuid.NewV4()), user, listing, testTime}, listingValues(listing, seller, "Lamp", 25)...)
	mock.ExpectQuery(`FROM favorites f JOIN listings l ON l.id = f.listing_id .* WHERE f.user_id=\$1`).
		WithArgs(user).
		WillReturnRows(pgxmock.NewRows(cols).AddRow(vals...))

	out, err := r.ListByUser(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Listing)
	require.Equal(t, "Lamp", out[0].Listing.Title)
	require.Equal(t, model.ConditionLightlyUsed, out[0].Listing.Condition)
	require.NoError(t, mock.ExpectationsWereMet())
}
