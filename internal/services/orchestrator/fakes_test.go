package orchestrator

import (
	"context"
	"strconv"
	"time"

	"monay/internal/models"
	"monay/internal/repositories"
	"monay/internal/services/custodian"
)

// fakeLinkRepo is an in-memory CustodialLinkRepository.
type fakeLinkRepo struct {
	links     map[uint]*models.CustodialLink
	decisions []*models.RoutingDecision
	nextID    uint
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[uint]*models.CustodialLink), nextID: 1}
}

func (f *fakeLinkRepo) GetActiveByUserID(userID uint) (*models.CustodialLink, error) {
	for _, l := range f.links {
		if l.UserID == userID && l.Status == models.LinkStatusActive {
			cp := *l
			return &cp, nil
		}
	}
	return nil, repositories.ErrLinkNotFound
}

func (f *fakeLinkRepo) Create(link *models.CustodialLink) error {
	if link.ID == 0 {
		link.ID = f.nextID
		f.nextID++
	}
	cp := *link
	f.links[link.ID] = &cp
	return nil
}

func (f *fakeLinkRepo) UpdateSyncedBalances(id uint, balance, available, pending float64) error {
	l, ok := f.links[id]
	if !ok {
		return repositories.ErrLinkNotFound
	}
	now := time.Now()
	l.USDCBalance = balance
	l.AvailableBalance = available
	l.PendingBalance = pending
	l.LastSyncedAt = &now
	return nil
}

func (f *fakeLinkRepo) CreateRoutingDecision(decision *models.RoutingDecision) error {
	decision.ID = uint(len(f.decisions) + 1)
	f.decisions = append(f.decisions, decision)
	return nil
}

// fakeCustodian is an in-memory custodian.Client.
type fakeCustodian struct {
	wallet      *custodian.Wallet
	createErr   error
	createCalls int

	balance    *custodian.WalletBalance
	balanceErr error
}

func (f *fakeCustodian) GetWalletBalance(ctx context.Context, custodianWalletID string) (*custodian.WalletBalance, error) {
	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	cp := *f.balance
	return &cp, nil
}

func (f *fakeCustodian) CreateWallet(ctx context.Context, userID uint, description string) (*custodian.Wallet, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	cp := *f.wallet
	return &cp, nil
}

// fakeUserRepo is an in-memory repositories.UserRepository.
type fakeUserRepo struct {
	users map[uint]*models.User
}

func (f *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByPhone(string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByUsername(string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

// fakeWalletRepo covers the slice of repositories.WalletRepository the
// orchestrator and its ledger exercise.
type fakeWalletRepo struct {
	wallets map[uint]*models.Wallet
	limits  map[uint]*models.WalletLimits
	entries []*models.LedgerEntry
	nextID  uint
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{
		wallets: make(map[uint]*models.Wallet),
		limits:  make(map[uint]*models.WalletLimits),
		nextID:  1,
	}
}

func (f *fakeWalletRepo) Create(wallet *models.Wallet) error {
	if wallet.ID == 0 {
		wallet.ID = f.nextID
		f.nextID++
	}
	f.wallets[wallet.ID] = wallet
	return nil
}

func (f *fakeWalletRepo) GetByID(id uint) (*models.Wallet, error) {
	w, ok := f.wallets[id]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	cp := *w
	return &cp, nil
}

func (f *fakeWalletRepo) GetByIDForOwner(id, ownerID uint) (*models.Wallet, error) {
	w, err := f.GetByID(id)
	if err != nil || w.UserID != ownerID {
		return nil, repositories.ErrWalletNotFound
	}
	return w, nil
}

func (f *fakeWalletRepo) GetByIDForUpdate(id uint) (*models.Wallet, error) {
	return f.GetByID(id)
}

func (f *fakeWalletRepo) GetByUserIDAndType(userID uint, walletType string) (*models.Wallet, error) {
	for _, w := range f.wallets {
		if w.UserID == userID && w.Type == walletType {
			cp := *w
			return &cp, nil
		}
	}
	return nil, repositories.ErrWalletNotFound
}

func (f *fakeWalletRepo) Update(wallet *models.Wallet) error {
	cp := *wallet
	f.wallets[wallet.ID] = &cp
	return nil
}

func (f *fakeWalletRepo) UpdateStatus(walletID uint, status, reason string) error {
	w, ok := f.wallets[walletID]
	if !ok {
		return repositories.ErrWalletNotFound
	}
	w.Status = status
	w.StatusReason = reason
	return nil
}

func (f *fakeWalletRepo) CreateLedgerEntry(entry *models.LedgerEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeWalletRepo) GetPendingTotals(ctx context.Context, walletID uint) (*repositories.PendingTotals, error) {
	return &repositories.PendingTotals{}, nil
}

func (f *fakeWalletRepo) GetLimits(walletID uint) (*models.WalletLimits, error) {
	l, ok := f.limits[walletID]
	if !ok {
		return nil, repositories.ErrLimitsNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeWalletRepo) GetLimitsForUpdate(walletID uint) (*models.WalletLimits, error) {
	return f.GetLimits(walletID)
}

func (f *fakeWalletRepo) CreateLimits(limits *models.WalletLimits) error {
	cp := *limits
	f.limits[limits.WalletID] = &cp
	return nil
}

func (f *fakeWalletRepo) SaveLimits(limits *models.WalletLimits) error {
	return f.CreateLimits(limits)
}

func (f *fakeWalletRepo) Transfers() repositories.TransferRepository {
	return nil
}

func (f *fakeWalletRepo) ExecuteInTransaction(fn func(repositories.WalletRepository) error) error {
	return fn(f)
}

// noopCache satisfies the balance cache without storing anything.
type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}

func (noopCache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (noopCache) Delete(ctx context.Context, keys ...string) error { return nil }

func (noopCache) BalanceKey(walletID uint) string {
	return "balance:wallet:" + strconv.FormatUint(uint64(walletID), 10)
}
