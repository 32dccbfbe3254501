package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/errs"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/repository"
)

// memStore is an in-memory backend for every repository the services use.
// WithTx serializes transactions and restores a snapshot when fn fails.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	users         map[uuid.UUID]model.User
	listings      map[uuid.UUID]model.Listing
	requests      map[uuid.UUID]model.PurchaseRequest
	sales         map[uuid.UUID]model.Sale // by listing
	favorites     map[uuid.UUID]model.Favorite
	notifications map[uuid.UUID]model.Notification

	tick  int
	fails map[string]error

	// listings locked with GetForUpdate inside a transaction, in call order
	locked []uuid.UUID

	commits, rollbacks int
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[uuid.UUID]model.User{},
		listings:      map[uuid.UUID]model.Listing{},
		requests:      map[uuid.UUID]model.PurchaseRequest{},
		sales:         map[uuid.UUID]model.Sale{},
		favorites:     map[uuid.UUID]model.Favorite{},
		notifications: map[uuid.UUID]model.Notification{},
		fails:         map[string]error{},
	}
}

func (m *memStore) failOn(op string, err error) { m.fails[op] = err }

func (m *memStore) fail(op string) error { return m.fails[op] }

func (m *memStore) nextTime() time.Time {
	m.tick++
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(m.tick) * time.Second)
}

type snapshot struct {
	listings      map[uuid.UUID]model.Listing
	requests      map[uuid.UUID]model.PurchaseRequest
	sales         map[uuid.UUID]model.Sale
	notifications map[uuid.UUID]model.Notification
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

type memTxKey struct{}

func (m *memStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snap := snapshot{
		listings:      cloneMap(m.listings),
		requests:      cloneMap(m.requests),
		sales:         cloneMap(m.sales),
		notifications: cloneMap(m.notifications),
	}
	m.mu.Unlock()

	if err := fn(context.WithValue(ctx, memTxKey{}, true)); err != nil {
		m.mu.Lock()
		m.listings, m.requests, m.sales, m.notifications = snap.listings, snap.requests, snap.sales, snap.notifications
		m.rollbacks++
		m.mu.Unlock()
		return err
	}
	m.mu.Lock()
	m.commits++
	m.mu.Unlock()
	return nil
}

var _ repository.UnitOfWork = (*memStore)(nil)

// users

type memUsers struct{ *memStore }

var _ repository.UserRepository = memUsers{}

func (r memUsers) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("users.Create"); err != nil {
		return err
	}
	for _, x := range r.users {
		if x.Username == u.Username || x.Email == u.Email {
			return errs.ErrAlreadyExists
		}
	}
	u.CreatedAt = r.nextTime()
	r.users[u.ID] = *u
	return nil
}

func (r memUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &u, nil
}

func (r memUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("users.GetByUsername"); err != nil {
		return nil, err
	}
	for _, u := range r.users {
		if u.Username == username {
			c := u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			c := u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r memUsers) UpdatePassword(_ context.Context, id uuid.UUID, hash, salt []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return errs.ErrNotFound
	}
	u.PwdHash, u.SaltAuth = hash, salt
	r.users[id] = u
	return nil
}

func (r memUsers) UpdateEmail(_ context.Context, id uuid.UUID, email string) error {
	return r.update(id, "users.UpdateEmail", func(x model.User) bool { return x.Email == email },
		func(u *model.User) { u.Email = email })
}

func (r memUsers) UpdateUsername(_ context.Context, id uuid.UUID, username string) error {
	return r.update(id, "users.UpdateUsername", func(x model.User) bool { return x.Username == username },
		func(u *model.User) { u.Username = username })
}

func (r memUsers) update(id uuid.UUID, op string, taken func(model.User) bool, set func(*model.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail(op); err != nil {
		return err
	}
	u, ok := r.users[id]
	if !ok {
		return errs.ErrNotFound
	}
	for xid, x := range r.users {
		if xid != id && taken(x) {
			return errs.ErrAlreadyExists
		}
	}
	set(&u)
	r.users[id] = u
	return nil
}

// listings

type memListings struct{ *memStore }

var _ repository.ListingRepository = memListings{}

func (r memListings) withSeller(l model.Listing) *model.Listing {
	if u, ok := r.users[l.SellerID]; ok {
		l.SellerUsername = u.Username
	}
	return &l
}

func (r memListings) Create(_ context.Context, l *model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[l.SellerID]; !ok {
		return errs.ErrNotFound
	}
	l.CreatedAt = r.nextTime()
	l.UpdatedAt = l.CreatedAt
	l.Sold = false
	r.listings[l.ID] = *l
	return nil
}

func (r memListings) GetByID(_ context.Context, id uuid.UUID) (*model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return r.withSeller(l), nil
}

func (r memListings) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	r.mu.Lock()
	if ctx.Value(memTxKey{}) != nil {
		r.locked = append(r.locked, id)
	}
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r memListings) Search(_ context.Context, f model.ListingFilter) ([]model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Listing{}
	q := strings.ToLower(f.Query)
	for _, l := range r.listings {
		v := r.withSeller(l)
		if v.Sold {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(v.Title+" "+v.Description+" "+v.Category+" "+v.SellerUsername), q) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(v.Category, f.Category) {
			continue
		}
		if f.Condition != "" && v.Condition != f.Condition {
			continue
		}
		if f.MinPrice != nil && v.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && v.Price > *f.MaxPrice {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memListings) Update(_ context.Context, l *model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.listings[l.ID]
	if !ok {
		return errs.ErrNotFound
	}
	l.CreatedAt = cur.CreatedAt
	l.UpdatedAt = r.nextTime()
	r.listings[l.ID] = *l
	return nil
}

func (r memListings) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.listings, id)
	for k, pr := range r.requests {
		if pr.ListingID == id {
			delete(r.requests, k)
		}
	}
	for k, f := range r.favorites {
		if f.ListingID == id {
			delete(r.favorites, k)
		}
	}
	return nil
}

func (r memListings) SetSold(_ context.Context, id uuid.UUID, sold bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("listings.SetSold"); err != nil {
		return err
	}
	l, ok := r.listings[id]
	if !ok {
		return errs.ErrNotFound
	}
	l.Sold = sold
	r.listings[id] = l
	return nil
}

// purchase requests

type memRequests struct{ *memStore }

var _ repository.RequestRepository = memRequests{}

func (r memRequests) Create(_ context.Context, pr *model.PurchaseRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.requests {
		if x.ListingID == pr.ListingID && x.BuyerID == pr.BuyerID && x.Status.Active() {
			return errs.ErrConflict
		}
	}
	pr.CreatedAt = r.nextTime()
	pr.UpdatedAt = pr.CreatedAt
	r.requests[pr.ID] = *pr
	return nil
}

func (r memRequests) FindActive(_ context.Context, listingID, buyerID uuid.UUID) (*model.PurchaseRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.requests {
		if x.ListingID == listingID && x.BuyerID == buyerID && x.Status.Active() {
			c := x
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r memRequests) FindPending(_ context.Context, listingID, buyerID uuid.UUID) (*model.PurchaseRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *model.PurchaseRequest
	for _, x := range r.requests {
		if x.ListingID != listingID || x.Status != model.StatusPending {
			continue
		}
		if buyerID != uuid.Nil && x.BuyerID != buyerID {
			continue
		}
		if best == nil || x.CreatedAt.Before(best.CreatedAt) {
			c := x
			best = &c
		}
	}
	if best == nil {
		return nil, errs.ErrNotFound
	}
	return best, nil
}

func (r memRequests) UpdateStatus(_ context.Context, id uuid.UUID, status model.RequestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pr, ok := r.requests[id]
	if !ok {
		return errs.ErrNotFound
	}
	pr.Status = status
	pr.UpdatedAt = r.nextTime()
	r.requests[id] = pr
	return nil
}

func (r memRequests) RejectOtherPending(_ context.Context, listingID, keepID uuid.UUID) ([]model.PurchaseRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.PurchaseRequest{}
	for id, x := range r.requests {
		if x.ListingID == listingID && id != keepID && x.Status == model.StatusPending {
			x.Status = model.StatusRejected
			r.requests[id] = x
			out = append(out, x)
		}
	}
	return out, nil
}

func (r memRequests) GetByID(_ context.Context, id uuid.UUID) (*model.PurchaseRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	x, ok := r.requests[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &x, nil
}

func (r memRequests) DeletePending(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if x, ok := r.requests[id]; !ok || x.Status != model.StatusPending {
		return errs.ErrNotFound
	}
	delete(r.requests, id)
	return nil
}

func (r memRequests) DeleteByListing(_ context.Context, listingID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("requests.DeleteByListing"); err != nil {
		return 0, err
	}
	var n int64
	for id, x := range r.requests {
		if x.ListingID == listingID {
			delete(r.requests, id)
			n++
		}
	}
	return n, nil
}

func (r memRequests) LatestStatus(_ context.Context, listingID, buyerID uuid.UUID) (model.RequestStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *model.PurchaseRequest
	for _, x := range r.requests {
		if x.ListingID == listingID && x.BuyerID == buyerID {
			if latest == nil || x.CreatedAt.After(latest.CreatedAt) {
				c := x
				latest = &c
			}
		}
	}
	if latest == nil {
		return "", errs.ErrNotFound
	}
	return latest.Status, nil
}

func (r memRequests) ListByListing(_ context.Context, listingID uuid.UUID) ([]model.PurchaseRequestView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.PurchaseRequestView{}
	for _, x := range r.requests {
		if x.ListingID == listingID {
			out = append(out, model.PurchaseRequestView{PurchaseRequest: x, BuyerUsername: r.users[x.BuyerID].Username})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// sales

type memSales struct{ *memStore }

var _ repository.SaleRepository = memSales{}

func (r memSales) Create(_ context.Context, s *model.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("sales.Create"); err != nil {
		return err
	}
	if _, ok := r.sales[s.ListingID]; ok {
		return errs.ErrConflict
	}
	s.CreatedAt = r.nextTime()
	r.sales[s.ListingID] = *s
	return nil
}

func (r memSales) GetByListing(_ context.Context, listingID uuid.UUID) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[listingID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &s, nil
}

func (r memSales) DeleteByListing(_ context.Context, listingID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sales[listingID]; !ok {
		return errs.ErrNotFound
	}
	delete(r.sales, listingID)
	return nil
}

func (r memSales) view(s model.Sale) model.SaleView {
	l := r.listings[s.ListingID]
	return model.SaleView{
		Sale:           s,
		ListingTitle:   l.Title,
		Price:          l.Price,
		SellerID:       l.SellerID,
		SellerUsername: r.users[l.SellerID].Username,
		BuyerUsername:  r.users[s.BuyerID].Username,
	}
}

func (r memSales) ListByBuyer(_ context.Context, buyerID uuid.UUID) ([]model.SaleView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.SaleView{}
	for _, s := range r.sales {
		if s.BuyerID == buyerID {
			out = append(out, r.view(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memSales) ListBySeller(_ context.Context, sellerID uuid.UUID) ([]model.SaleView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.SaleView{}
	for _, s := range r.sales {
		if r.listings[s.ListingID].SellerID == sellerID {
			out = append(out, r.view(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// favorites

type memFavorites struct{ *memStore }

var _ repository.FavoriteRepository = memFavorites{}

func (r memFavorites) Create(_ context.Context, f *model.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[f.ListingID]; !ok {
		return errs.ErrNotFound
	}
	for _, x := range r.favorites {
		if x.UserID == f.UserID && x.ListingID == f.ListingID {
			return errs.ErrConflict
		}
	}
	f.CreatedAt = r.nextTime()
	r.favorites[f.ID] = *f
	return nil
}

func (r memFavorites) GetByID(_ context.Context, id uuid.UUID) (*model.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.favorites[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &f, nil
}

func (r memFavorites) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.favorites[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.favorites, id)
	return nil
}

func (r memFavorites) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Favorite{}
	for _, f := range r.favorites {
		if f.UserID == userID {
			l := r.listings[f.ListingID]
			f.Listing = &l
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// notifications

type memNotifications struct{ *memStore }

var _ repository.NotificationRepository = memNotifications{}

func (r memNotifications) Create(_ context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.CreatedAt = r.nextTime()
	r.notifications[n.ID] = *n
	return nil
}

func (r memNotifications) GetByID(_ context.Context, id uuid.UUID) (*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &n, nil
}

func (r memNotifications) ListByUser(_ context.Context, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Notification{}
	for _, n := range r.notifications {
		if n.UserID == userID && (!unreadOnly || !n.Read) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memNotifications) MarkRead(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return errs.ErrNotFound
	}
	n.Read = true
	r.notifications[id] = n
	return nil
}

func (r memNotifications) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var c int64
	for id, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			r.notifications[id] = n
			c++
		}
	}
	return c, nil
}

func (r memNotifications) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var c int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			c++
		}
	}
	return c, nil
}

func (r memNotifications) DeleteByReference(_ context.Context, kind model.NotificationKind, refID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("notifications.DeleteByReference"); err != nil {
		return err
	}
	for id, n := range r.notifications {
		if n.Kind == kind && n.ReferenceID == refID {
			delete(r.notifications, id)
		}
	}
	return nil
}

// helpers

func (m *memStore) addUser(name string) uuid.UUID {
	id := uuid.Must(uuid.NewV4())
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id] = model.User{ID: id, Username: name, Email: name + "@example.com", CreatedAt: m.nextTime()}
	return id
}

func (m *memStore) addListing(sellerID uuid.UUID, title string) uuid.UUID {
	id := uuid.Must(uuid.NewV4())
	m.mu.Lock()
	defer m.mu.Unlock()
	ts := m.nextTime()
	m.listings[id] = model.Listing{
		ID:        id,
		SellerID:  sellerID,
		Title:     title,
		Price:     100,
		Category:  "books",
		Condition: model.ConditionLightlyUsed,
		Location:  model.Location{City: "Istanbul", District: "Kadikoy", Country: "TR"},
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	return id
}

func (m *memStore) listing(id uuid.UUID) model.Listing {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listings[id]
}

func (m *memStore) salesFor(listingID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.sales {
		if s.ListingID == listingID {
			n++
		}
	}
	return n
}

func (m *memStore) requestsFor(listingID uuid.UUID) []model.PurchaseRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PurchaseRequest
	for _, pr := range m.requests {
		if pr.ListingID == listingID {
			out = append(out, pr)
		}
	}
	return out
}

// capturePublisher records published events.
type capturePublisher struct {
	mu     sync.Mutex
	events []model.Event
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, ev model.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *capturePublisher) kinds() []model.NotificationKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.NotificationKind, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Kind)
	}
	return out
}

func (p *capturePublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
