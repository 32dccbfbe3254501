package service

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/errs"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
)

func TestSales_PurchasesAndSalesOf(t *testing.T) {
	t.Parallel()
	f := newPurchaseFixture(t)
	ctx := context.Background()
	l2 := f.store.addListing(f.seller, "Kettle")

	_, err := f.svc.Create(ctx, f.l1, f.b1, "")
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, f.l1, f.seller, uuid.Nil)
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, l2, f.b1, "")
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, l2, f.seller, f.b1)
	require.NoError(t, err)

	sales := NewSalesService(memSales{f.store})

	bought, err := sales.Purchases(ctx, f.b1)
	require.NoError(t, err)
	require.Len(t, bought, 2)
	require.Equal(t, "Kettle", bought[0].ListingTitle)
	require.Equal(t, "seller", bought[0].SellerUsername)

	sold, err := sales.SalesOf(ctx, f.seller)
	require.NoError(t, err)
	require.Len(t, sold, 2)
	require.Equal(t, "buyer1", sold[1].BuyerUsername)

	none, err := sales.Purchases(ctx, f.b2)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestFavorites(t *testing.T) {
	t.Parallel()
	st := newMemStore()
	svc := NewFavoriteService(memFavorites{st})
	ctx := context.Background()
	u := st.addUser("u")
	other := st.addUser("other")
	l := st.addListing(other, "Chair")

	fav, err := svc.Add(ctx, u, l)
	require.NoError(t, err)
	_, err = svc.Add(ctx, u, l)
	require.ErrorIs(t, err, errs.ErrConflict)
	_, err = svc.Add(ctx, u, uuid.Must(uuid.NewV4()))
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, err = svc.Add(ctx, u, uuid.Nil)
	require.ErrorIs(t, err, errs.ErrValidation)

	list, err := svc.List(ctx, u)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Chair", list[0].Listing.Title)

	require.ErrorIs(t, svc.Remove(ctx, fav.ID, other), errs.ErrForbidden)
	require.NoError(t, svc.Remove(ctx, fav.ID, u))
	require.ErrorIs(t, svc.Remove(ctx, fav.ID, u), errs.ErrNotFound)
}

func TestNotifications(t *testing.T) {
	t.Parallel()
	st := newMemStore()
	repo := memNotifications{st}
	svc := NewNotificationService(repo)
	ctx := context.Background()
	u := st.addUser("u")
	other := st.addUser("other")

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		n := &model.Notification{ID: uuid.Must(uuid.NewV4()), UserID: u, Kind: model.KindRequestReceived, Message: "m"}
		require.NoError(t, repo.Create(ctx, n))
		ids = append(ids, n.ID)
	}
	require.NoError(t, repo.Create(ctx, &model.Notification{ID: uuid.Must(uuid.NewV4()), UserID: other, Kind: model.KindSaleCancelled}))

	cnt, err := svc.UnreadCount(ctx, u)
	require.NoError(t, err)
	require.EqualValues(t, 3, cnt)

	require.ErrorIs(t, svc.MarkRead(ctx, ids[0], other), errs.ErrForbidden)
	require.ErrorIs(t, svc.MarkRead(ctx, uuid.Must(uuid.NewV4()), u), errs.ErrNotFound)
	require.NoError(t, svc.MarkRead(ctx, ids[0], u))
	require.NoError(t, svc.MarkRead(ctx, ids[0], u))

	unread, err := svc.List(ctx, u, true)
	require.NoError(t, err)
	require.Len(t, unread, 2)
	all, err := svc.List(ctx, u, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, ids[2], all[0].ID, "newest first")

	changed, err := svc.MarkAllRead(ctx, u)
	require.NoError(t, err)
	require.EqualValues(t, 2, changed)
	cnt, err = svc.UnreadCount(ctx, u)
	require.NoError(t, err)
	require.Zero(t, cnt)

	cnt, err = svc.UnreadCount(ctx, other)
	require.NoError(t, err)
	require.EqualValues(t, 1, cnt)
}
