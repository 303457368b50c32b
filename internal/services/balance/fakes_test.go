package balance

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"monay/internal/models"
	"monay/internal/repositories"
)

// fakeWalletRepo is an in-memory WalletRepository. Transactions take a
// deep copy of the state up front and restore it when the closure
// errors, mirroring a database rollback.
type fakeWalletRepo struct {
	mu      sync.Mutex
	wallets map[uint]*models.Wallet
	limits  map[uint]*models.WalletLimits
	entries []*models.LedgerEntry

	nextWalletID uint
	nextLimitsID uint

	failUpdate      error
	failSaveLimits  error
	failCreateEntry error
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{
		wallets:      make(map[uint]*models.Wallet),
		limits:       make(map[uint]*models.WalletLimits),
		nextWalletID: 1,
		nextLimitsID: 1,
	}
}

func (f *fakeWalletRepo) addWallet(w *models.Wallet) *models.Wallet {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w.ID == 0 {
		w.ID = f.nextWalletID
		f.nextWalletID++
	}
	f.wallets[w.ID] = w
	return w
}

func (f *fakeWalletRepo) Create(wallet *models.Wallet) error {
	f.addWallet(wallet)
	return nil
}

func (f *fakeWalletRepo) GetByID(id uint) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.wallets[id]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	cp := *w
	return &cp, nil
}

func (f *fakeWalletRepo) GetByIDForOwner(id, ownerID uint) (*models.Wallet, error) {
	w, err := f.GetByID(id)
	if err != nil {
		return nil, err
	}
	if w.UserID != ownerID {
		return nil, repositories.ErrWalletNotFound
	}
	return w, nil
}

func (f *fakeWalletRepo) GetByIDForUpdate(id uint) (*models.Wallet, error) {
	return f.GetByID(id)
}

func (f *fakeWalletRepo) GetByUserIDAndType(userID uint, walletType string) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.wallets {
		if w.UserID == userID && w.Type == walletType {
			cp := *w
			return &cp, nil
		}
	}
	return nil, repositories.ErrWalletNotFound
}

func (f *fakeWalletRepo) Update(wallet *models.Wallet) error {
	if f.failUpdate != nil {
		return f.failUpdate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.wallets[wallet.ID]; !ok {
		return repositories.ErrWalletNotFound
	}
	cp := *wallet
	f.wallets[wallet.ID] = &cp
	return nil
}

func (f *fakeWalletRepo) UpdateStatus(walletID uint, status, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.wallets[walletID]
	if !ok {
		return repositories.ErrWalletNotFound
	}
	w.Status = status
	w.StatusReason = reason
	return nil
}

func (f *fakeWalletRepo) CreateLedgerEntry(entry *models.LedgerEntry) error {
	if f.failCreateEntry != nil {
		return f.failCreateEntry
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = uint(len(f.entries) + 1)
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeWalletRepo) GetPendingTotals(ctx context.Context, walletID uint) (*repositories.PendingTotals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	totals := &repositories.PendingTotals{}
	for _, e := range f.entries {
		if e.WalletID != walletID || e.Status != models.EntryStatusPending {
			continue
		}
		switch e.Type {
		case models.EntryTypeDebit:
			totals.Debit += e.Amount
		case models.EntryTypeCredit:
			totals.Credit += e.Amount
		}
	}
	return totals, nil
}

func (f *fakeWalletRepo) GetLimits(walletID uint) (*models.WalletLimits, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
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
	f.mu.Lock()
	defer f.mu.Unlock()
	if limits.ID == 0 {
		limits.ID = f.nextLimitsID
		f.nextLimitsID++
	}
	cp := *limits
	f.limits[limits.WalletID] = &cp
	return nil
}

func (f *fakeWalletRepo) SaveLimits(limits *models.WalletLimits) error {
	if f.failSaveLimits != nil {
		return f.failSaveLimits
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *limits
	f.limits[limits.WalletID] = &cp
	return nil
}

func (f *fakeWalletRepo) Transfers() repositories.TransferRepository {
	return nil
}

func (f *fakeWalletRepo) ExecuteInTransaction(fn func(repositories.WalletRepository) error) error {
	f.mu.Lock()
	walletSnap := make(map[uint]*models.Wallet, len(f.wallets))
	for id, w := range f.wallets {
		cp := *w
		walletSnap[id] = &cp
	}
	limitSnap := make(map[uint]*models.WalletLimits, len(f.limits))
	for id, l := range f.limits {
		cp := *l
		limitSnap[id] = &cp
	}
	entrySnap := len(f.entries)
	f.mu.Unlock()

	if err := fn(f); err != nil {
		f.mu.Lock()
		f.wallets = walletSnap
		f.limits = limitSnap
		f.entries = f.entries[:entrySnap]
		f.mu.Unlock()
		return err
	}
	return nil
}

// fakeCache is an in-memory balance cache keyed like the Redis one.
type fakeCache struct {
	mu     sync.Mutex
	values map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = raw
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func (c *fakeCache) BalanceKey(walletID uint) string {
	return "balance:wallet:" + strconv.FormatUint(uint64(walletID), 10)
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok
}
