package httpapi

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/service"
)

// Fakes embed the service interface so unused methods panic if hit.

type fakeAuth struct {
	service.AuthService
	registerFn func(username, email, password string) (model.User, error)
	loginFn    func(login, password, ip string) (model.Tokens, model.User, error)
	profileFn  func(uuid.UUID) (model.User, error)
	passwordFn func(id uuid.UUID, current, next, confirm string) error
	emailFn    func(id uuid.UUID, password, email string) (model.User, error)
	usernameFn func(id uuid.UUID, password, username string) (model.User, error)
}

func (f *fakeAuth) Register(_ context.Context, u, e, p string) (model.User, error) {
	return f.registerFn(u, e, p)
}

func (f *fakeAuth) LoginWithIP(_ context.Context, l, p, ip string) (model.Tokens, model.User, error) {
	return f.loginFn(l, p, ip)
}

func (f *fakeAuth) Profile(_ context.Context, id uuid.UUID) (model.User, error) {
	return f.profileFn(id)
}

func (f *fakeAuth) ChangePassword(_ context.Context, id uuid.UUID, c, n, cf string) error {
	return f.passwordFn(id, c, n, cf)
}

func (f *fakeAuth) ChangeEmail(_ context.Context, id uuid.UUID, p, e string) (model.User, error) {
	return f.emailFn(id, p, e)
}

func (f *fakeAuth) ChangeUsername(_ context.Context, id uuid.UUID, p, u string) (model.User, error) {
	return f.usernameFn(id, p, u)
}

type fakeListings struct {
	service.ListingService
	createFn func(uuid.UUID, service.ListingDraft) (model.Listing, error)
	getFn    func(uuid.UUID) (model.Listing, error)
	searchFn func(model.ListingFilter) ([]model.Listing, error)
	deleteFn func(id, seller uuid.UUID) error
}

func (f *fakeListings) Create(_ context.Context, seller uuid.UUID, d service.ListingDraft) (model.Listing, error) {
	return f.createFn(seller, d)
}

func (f *fakeListings) Get(_ context.Context, id uuid.UUID) (model.Listing, error) {
	return f.getFn(id)
}

func (f *fakeListings) Search(_ context.Context, flt model.ListingFilter) ([]model.Listing, error) {
	return f.searchFn(flt)
}

func (f *fakeListings) Delete(_ context.Context, id, seller uuid.UUID) error {
	return f.deleteFn(id, seller)
}

type fakePurchases struct {
	service.PurchaseService
	createFn  func(listing, buyer uuid.UUID, msg string) (model.PurchaseRequest, error)
	approveFn func(listing, seller, buyer uuid.UUID) (model.Sale, error)
	rejectFn  func(listing, seller, buyer uuid.UUID) error
	statusFn  func(listing, buyer uuid.UUID) (model.RequestStatus, error)
}

func (f *fakePurchases) Create(_ context.Context, l, b uuid.UUID, msg string) (model.PurchaseRequest, error) {
	return f.createFn(l, b, msg)
}

func (f *fakePurchases) Approve(_ context.Context, l, s, b uuid.UUID) (model.Sale, error) {
	return f.approveFn(l, s, b)
}

func (f *fakePurchases) Reject(_ context.Context, l, s, b uuid.UUID) error {
	return f.rejectFn(l, s, b)
}

func (f *fakePurchases) Status(_ context.Context, l, b uuid.UUID) (model.RequestStatus, error) {
	return f.statusFn(l, b)
}

type fakeNotifications struct {
	service.NotificationService
	listFn  func(user uuid.UUID, unread bool) ([]model.Notification, error)
	countFn func(user uuid.UUID) (int64, error)
}

func (f *fakeNotifications) List(_ context.Context, u uuid.UUID, unread bool) ([]model.Notification, error) {
	return f.listFn(u, unread)
}

func (f *fakeNotifications) UnreadCount(_ context.Context, u uuid.UUID) (int64, error) {
	return f.countFn(u)
}
