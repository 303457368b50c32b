package transfer

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"monay/internal/models"
	"monay/internal/repositories"
)

// fakeStore is the in-memory backing for both repository fakes so a
// transaction can snapshot wallets, limits, ledger entries and
// transfer rows together and restore all of them on rollback.
type fakeStore struct {
	mu        sync.Mutex
	wallets   map[uint]*models.Wallet
	limits    map[uint]*models.WalletLimits
	entries   []*models.LedgerEntry
	transfers map[uint]*models.Transfer
	users     map[uint]*models.User

	nextWalletID   uint
	nextTransferID uint

	// failUpdateWalletID makes wallet saves for one wallet fail, to
	// exercise mid-settlement rollback.
	failUpdateWalletID uint

	// beforeClaimRetry runs before a retry claim, so tests can slip in
	// a concurrent state change.
	beforeClaimRetry func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		wallets:        make(map[uint]*models.Wallet),
		limits:         make(map[uint]*models.WalletLimits),
		transfers:      make(map[uint]*models.Transfer),
		users:          make(map[uint]*models.User),
		nextWalletID:   1,
		nextTransferID: 1,
	}
}

func (st *fakeStore) addUser(u *models.User) *models.User {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.users[u.ID] = u
	return u
}

func (st *fakeStore) addWallet(w *models.Wallet) *models.Wallet {
	st.mu.Lock()
	defer st.mu.Unlock()
	if w.ID == 0 {
		w.ID = st.nextWalletID
		st.nextWalletID++
	} else if w.ID >= st.nextWalletID {
		st.nextWalletID = w.ID + 1
	}
	st.wallets[w.ID] = w
	return w
}

func (st *fakeStore) snapshot() *fakeStore {
	st.mu.Lock()
	defer st.mu.Unlock()
	snap := newFakeStore()
	for id, w := range st.wallets {
		cp := *w
		snap.wallets[id] = &cp
	}
	for id, l := range st.limits {
		cp := *l
		snap.limits[id] = &cp
	}
	for id, t := range st.transfers {
		cp := *t
		snap.transfers[id] = &cp
	}
	snap.entries = append([]*models.LedgerEntry(nil), st.entries...)
	return snap
}

func (st *fakeStore) restore(snap *fakeStore) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.wallets = snap.wallets
	st.limits = snap.limits
	st.transfers = snap.transfers
	st.entries = snap.entries
}

// fakeWalletRepo implements repositories.WalletRepository over a
// fakeStore.
type fakeWalletRepo struct {
	store *fakeStore
}

func (f *fakeWalletRepo) Create(wallet *models.Wallet) error {
	f.store.addWallet(wallet)
	return nil
}

func (f *fakeWalletRepo) GetByID(id uint) (*models.Wallet, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	w, ok := f.store.wallets[id]
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
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, w := range f.store.wallets {
		if w.UserID == userID && w.Type == walletType {
			cp := *w
			return &cp, nil
		}
	}
	return nil, repositories.ErrWalletNotFound
}

func (f *fakeWalletRepo) Update(wallet *models.Wallet) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if f.store.failUpdateWalletID != 0 && wallet.ID == f.store.failUpdateWalletID {
		return repositories.ErrTransactionFailed
	}
	if _, ok := f.store.wallets[wallet.ID]; !ok {
		return repositories.ErrWalletNotFound
	}
	cp := *wallet
	f.store.wallets[wallet.ID] = &cp
	return nil
}

func (f *fakeWalletRepo) UpdateStatus(walletID uint, status, reason string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	w, ok := f.store.wallets[walletID]
	if !ok {
		return repositories.ErrWalletNotFound
	}
	w.Status = status
	w.StatusReason = reason
	return nil
}

func (f *fakeWalletRepo) CreateLedgerEntry(entry *models.LedgerEntry) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	entry.ID = uint(len(f.store.entries) + 1)
	f.store.entries = append(f.store.entries, entry)
	return nil
}

func (f *fakeWalletRepo) GetPendingTotals(ctx context.Context, walletID uint) (*repositories.PendingTotals, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	totals := &repositories.PendingTotals{}
	for _, e := range f.store.entries {
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
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	l, ok := f.store.limits[walletID]
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
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	cp := *limits
	f.store.limits[limits.WalletID] = &cp
	return nil
}

func (f *fakeWalletRepo) SaveLimits(limits *models.WalletLimits) error {
	return f.CreateLimits(limits)
}

func (f *fakeWalletRepo) Transfers() repositories.TransferRepository {
	return &fakeTransferRepo{store: f.store}
}

func (f *fakeWalletRepo) ExecuteInTransaction(fn func(repositories.WalletRepository) error) error {
	snap := f.store.snapshot()
	if err := fn(f); err != nil {
		f.store.restore(snap)
		return err
	}
	return nil
}

// fakeTransferRepo implements repositories.TransferRepository over the
// same fakeStore.
type fakeTransferRepo struct {
	store *fakeStore
}

func (f *fakeTransferRepo) Create(transfer *models.Transfer) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if transfer.ID == 0 {
		transfer.ID = f.store.nextTransferID
		f.store.nextTransferID++
	}
	cp := *transfer
	f.store.transfers[transfer.ID] = &cp
	return nil
}

func (f *fakeTransferRepo) GetByID(id uint) (*models.Transfer, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	t, ok := f.store.transfers[id]
	if !ok {
		return nil, repositories.ErrTransferNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTransferRepo) GetByRef(ref string) (*models.Transfer, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, t := range f.store.transfers {
		if t.TransferRef == ref {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repositories.ErrTransferNotFound
}

func (f *fakeTransferRepo) UpdateStatusCAS(id uint, expected, next string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	t, ok := f.store.transfers[id]
	if !ok {
		return repositories.ErrTransferNotFound
	}
	if t.Status != expected {
		return repositories.ErrInvalidStateTransition
	}
	t.Status = next
	now := time.Now()
	switch next {
	case models.TransferStatusCompleted:
		t.CompletedAt = &now
	case models.TransferStatusFailed:
		t.FailedAt = &now
	}
	return nil
}

func (f *fakeTransferRepo) SetFailureReason(id uint, reason string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	t, ok := f.store.transfers[id]
	if !ok {
		return repositories.ErrTransferNotFound
	}
	t.FailureReason = reason
	return nil
}

func (f *fakeTransferRepo) ClaimRetry(id uint) error {
	if f.store.beforeClaimRetry != nil {
		f.store.beforeClaimRetry()
	}
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	t, ok := f.store.transfers[id]
	if !ok {
		return repositories.ErrTransferNotFound
	}
	if t.Status != models.TransferStatusFailed || t.RetryCount >= t.MaxRetries {
		return repositories.ErrInvalidStateTransition
	}
	t.Status = models.TransferStatusProcessing
	t.RetryCount++
	return nil
}

func (f *fakeTransferRepo) History(ctx context.Context, userID uint, filter repositories.TransferHistoryFilter) ([]models.Transfer, int64, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var matched []models.Transfer
	for _, t := range f.store.transfers {
		switch filter.Type {
		case "sent":
			if t.SenderID != userID {
				continue
			}
		case "received":
			if t.RecipientID != userID {
				continue
			}
		default:
			if t.SenderID != userID && t.RecipientID != userID {
				continue
			}
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		matched = append(matched, *t)
	}
	total := int64(len(matched))
	if filter.Offset > 0 && filter.Offset < len(matched) {
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

// fakeUserRepo implements repositories.UserRepository over the store.
type fakeUserRepo struct {
	store *fakeStore
}

func (f *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	u, ok := f.store.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) findBy(match func(*models.User) bool) (*models.User, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, u := range f.store.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	return f.findBy(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (f *fakeUserRepo) GetByPhone(phone string) (*models.User, error) {
	return f.findBy(func(u *models.User) bool { return u.Phone == phone })
}

func (f *fakeUserRepo) GetByUsername(username string) (*models.User, error) {
	return f.findBy(func(u *models.User) bool { return strings.EqualFold(u.Username, username) })
}

// fakeCache mirrors the Redis balance cache.
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

// fakeNotifier records emitted notifications.
type fakeNotifier struct {
	mu        sync.Mutex
	completed []*models.Transfer
}

func (n *fakeNotifier) TransferCompleted(ctx context.Context, t *models.Transfer) {
	n.mu.Lock()
	defer n.mu.Unlock()
	cp := *t
	n.completed = append(n.completed, &cp)
}
