package mocks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

// MockCustomerRepository is a mock implementation of CustomerRepository with
// in-memory default behavior. Any Func field overrides the corresponding
// method.
type MockCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer
	order     []string

	CreateFunc  func(ctx context.Context, customer *domain.Customer) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Customer, error)
	UpdateFunc  func(ctx context.Context, customer *domain.Customer) (bool, error)
	DeleteFunc  func(ctx context.Context, id string) error
	ListFunc    func(ctx context.Context, limit, offset int) ([]*domain.Customer, error)
}

func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{customers: make(map[string]*domain.Customer)}
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, customer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *customer
	m.customers[c.ID] = &c
	m.order = append(m.order, c.ID)
	return nil
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.customers[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, domain.ErrCustomerNotFound
}

func (m *MockCustomerRepository) GetByLegacyID(ctx context.Context, legacyID string) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.order {
		if c := m.customers[id]; c != nil && c.LegacyID == legacyID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}

func (m *MockCustomerRepository) GetByName(ctx context.Context, name string) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.order {
		if c := m.customers[id]; c != nil && c.Name == name {
			copied := *c
			return &copied, nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *domain.Customer) (bool, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, customer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.customers[customer.ID]
	if !ok {
		return false, domain.ErrCustomerNotFound
	}
	changed := *existing != *customer
	copied := *customer
	m.customers[customer.ID] = &copied
	return changed, nil
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[id]; !ok {
		return domain.ErrCustomerNotFound
	}
	delete(m.customers, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockCustomerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Customer
	for i, id := range m.order {
		if i < offset {
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		copied := *m.customers[id]
		out = append(out, &copied)
	}
	return out, nil
}

func (m *MockCustomerRepository) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.customers)), nil
}

func (m *MockCustomerRepository) snapshot() func() {
	m.mu.RLock()
	saved := make(map[string]*domain.Customer, len(m.customers))
	for id, c := range m.customers {
		copied := *c
		saved[id] = &copied
	}
	order := append([]string(nil), m.order...)
	m.mu.RUnlock()
	return func() {
		m.mu.Lock()
		m.customers = saved
		m.order = order
		m.mu.Unlock()
	}
}

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	order    []string

	CreateFunc  func(ctx context.Context, product *domain.Product) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Product, error)
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{products: make(map[string]*domain.Product)}
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, product)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p := *product
	m.products[p.ID] = &p
	m.order = append(m.order, p.ID)
	return nil
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.products[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, domain.ErrProductNotFound
}

func (m *MockProductRepository) GetByLegacyID(ctx context.Context, legacyID string) (*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.order {
		if p := m.products[id]; p != nil && p.LegacyID == legacyID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (m *MockProductRepository) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.order {
		if p := m.products[id]; p != nil && p.Name == name {
			copied := *p
			return &copied, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.products[product.ID]
	if !ok {
		return false, domain.ErrProductNotFound
	}
	changed := !productsEqual(existing, product)
	copied := *product
	m.products[product.ID] = &copied
	return changed, nil
}

func productsEqual(a, b *domain.Product) bool {
	return a.Name == b.Name &&
		a.Description == b.Description &&
		a.UnitPrice.Equal(b.UnitPrice) &&
		a.RetailPrice.Equal(b.RetailPrice) &&
		a.BatchNumber == b.BatchNumber &&
		a.Expiry == b.Expiry
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(m.products, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockProductRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Product
	for i, id := range m.order {
		if i < offset {
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		copied := *m.products[id]
		out = append(out, &copied)
	}
	return out, nil
}

func (m *MockProductRepository) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.products)), nil
}

func (m *MockProductRepository) snapshot() func() {
	m.mu.RLock()
	saved := make(map[string]*domain.Product, len(m.products))
	for id, p := range m.products {
		copied := *p
		saved[id] = &copied
	}
	order := append([]string(nil), m.order...)
	m.mu.RUnlock()
	return func() {
		m.mu.Lock()
		m.products = saved
		m.order = order
		m.mu.Unlock()
	}
}

// MockEntryRepository is a mock implementation of EntryRepository. Create
// assigns monotonically increasing insertion sequences like a real store.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.Entry
	nextSeq int64

	CreateFunc func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	ListFunc   func(ctx context.Context, filter domain.EntryFilter) ([]*domain.Entry, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{entries: make(map[string]*domain.Entry)}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSeq++
	entry.Seq = m.nextSeq
	copied := *entry
	m.entries[copied.ID] = &copied
	return nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) GetByLegacyID(ctx context.Context, legacyID string) (*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.LegacyID == legacyID {
			copied := *e
			return &copied, nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[entry.ID]; !ok {
		return domain.ErrEntryNotFound
	}
	copied := *entry
	m.entries[entry.ID] = &copied
	return nil
}

func (m *MockEntryRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *MockEntryRepository) List(ctx context.Context, filter domain.EntryFilter) ([]*domain.Entry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matched []*domain.Entry
	for _, e := range m.entries {
		if filter.Matches(e) {
			copied := *e
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return domain.LedgerLess(matched[i], matched[j]) })
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (m *MockEntryRepository) ListInLedgerOrder(ctx context.Context, tx usecase.Transaction) ([]*domain.Entry, error) {
	return m.List(ctx, domain.EntryFilter{})
}

func (m *MockEntryRepository) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, e := range m.entries {
		if e.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

func (m *MockEntryRepository) CountByProduct(ctx context.Context, productID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, e := range m.entries {
		if e.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func (m *MockEntryRepository) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.entries)), nil
}

func (m *MockEntryRepository) snapshot() func() {
	m.mu.RLock()
	saved := make(map[string]*domain.Entry, len(m.entries))
	for id, e := range m.entries {
		copied := *e
		saved[id] = &copied
	}
	seq := m.nextSeq
	m.mu.RUnlock()
	return func() {
		m.mu.Lock()
		m.entries = saved
		m.nextSeq = seq
		m.mu.Unlock()
	}
}

// MockTransactionRepository is a mock implementation of
// TransactionRepository with real position-range semantics so ledger tests
// exercise the actual re-stamping math.
type MockTransactionRepository struct {
	mu   sync.RWMutex
	txns map[string]*domain.Transaction

	CreateFunc             func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	ShiftBalancesAfterFunc func(ctx context.Context, tx usecase.Transaction, pos domain.Position, delta decimal.Decimal) (int64, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{txns: make(map[string]*domain.Transaction)}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *txn
	m.txns[copied.ID] = &copied
	return nil
}

func (m *MockTransactionRepository) GetByEntryID(ctx context.Context, entryID string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.txns {
		if t.EntryID == entryID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByLegacyID(ctx context.Context, legacyID string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.txns {
		if t.LegacyID == legacyID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) DeleteByEntryID(ctx context.Context, tx usecase.Transaction, entryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.txns {
		if t.EntryID == entryID {
			delete(m.txns, id)
			return nil
		}
	}
	return domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) DeleteAll(ctx context.Context, tx usecase.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns = make(map[string]*domain.Transaction)
	return nil
}

func (m *MockTransactionRepository) LastBefore(ctx context.Context, tx usecase.Transaction, pos domain.Position) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var last *domain.Transaction
	for _, t := range m.txns {
		if !t.Position().Before(pos) {
			continue
		}
		if last == nil || last.Position().Before(t.Position()) {
			last = t
		}
	}
	if last == nil {
		return nil, domain.ErrTransactionNotFound
	}
	copied := *last
	return &copied, nil
}

func (m *MockTransactionRepository) Last(ctx context.Context) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var last *domain.Transaction
	for _, t := range m.txns {
		if last == nil || last.Position().Before(t.Position()) {
			last = t
		}
	}
	if last == nil {
		return nil, domain.ErrTransactionNotFound
	}
	copied := *last
	return &copied, nil
}

func (m *MockTransactionRepository) ShiftBalancesAfter(ctx context.Context, tx usecase.Transaction, pos domain.Position, delta decimal.Decimal) (int64, error) {
	if m.ShiftBalancesAfterFunc != nil {
		return m.ShiftBalancesAfterFunc(ctx, tx, pos, delta)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, t := range m.txns {
		if pos.Before(t.Position()) {
			t.Balance = t.Balance.Add(delta)
			n++
		}
	}
	return n, nil
}

func (m *MockTransactionRepository) ListInLedgerOrder(ctx context.Context) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Transaction, 0, len(m.txns))
	for _, t := range m.txns {
		copied := *t
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position().Before(out[j].Position()) })
	return out, nil
}

func (m *MockTransactionRepository) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.txns)), nil
}

func (m *MockTransactionRepository) snapshot() func() {
	m.mu.RLock()
	saved := make(map[string]*domain.Transaction, len(m.txns))
	for id, t := range m.txns {
		copied := *t
		saved[id] = &copied
	}
	m.mu.RUnlock()
	return func() {
		m.mu.Lock()
		m.txns = saved
		m.mu.Unlock()
	}
}

// MockAuditRepository records audit logs in memory.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *log
	m.logs = append(m.logs, &copied)
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AuditLog
	for _, l := range m.logs {
		if filter.Username != "" && l.Username != filter.Username {
			continue
		}
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.ResourceType != "" && l.ResourceType != filter.ResourceType {
			continue
		}
		if filter.ResourceID != "" && l.ResourceID != filter.ResourceID {
			continue
		}
		copied := *l
		out = append(out, &copied)
	}
	return out, nil
}

func (m *MockAuditRepository) snapshot() func() {
	m.mu.RLock()
	saved := append([]*domain.AuditLog(nil), m.logs...)
	m.mu.RUnlock()
	return func() {
		m.mu.Lock()
		m.logs = saved
		m.mu.Unlock()
	}
}

// MockTransaction is a no-op transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	return nil
}

// MockTransactionManager hands out no-op transactions.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator produces sequential deterministic IDs.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return "id-" + itoa(m.next)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

var errCacheMiss = errors.New("cache miss")

// MockCache is an in-memory cache.
type MockCache struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", errCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// MockStore bundles the in-memory repositories into a usecase.Store. Used
// as source and target fixture in migration tests.
type MockStore struct {
	CustomerRepo    *MockCustomerRepository
	ProductRepo     *MockProductRepository
	EntryRepo       *MockEntryRepository
	TransactionRepo *MockTransactionRepository
	AuditRepo       *MockAuditRepository
	TxMgr           *MockTransactionManager
}

func NewMockStore() *MockStore {
	return &MockStore{
		CustomerRepo:    NewMockCustomerRepository(),
		ProductRepo:     NewMockProductRepository(),
		EntryRepo:       NewMockEntryRepository(),
		TransactionRepo: NewMockTransactionRepository(),
		AuditRepo:       NewMockAuditRepository(),
		TxMgr:           NewMockTransactionManager(),
	}
}

// EnableTxRollback makes transactions handed out by the store's manager
// snapshot the repositories on Begin and restore them on Rollback, so a
// mutation that fails mid-sequence leaves no partial writes behind.
func (s *MockStore) EnableTxRollback() {
	s.TxMgr.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
		restore := s.snapshot()
		committed := false
		return &MockTransaction{
			CommitFunc: func(ctx context.Context) error {
				committed = true
				return nil
			},
			RollbackFunc: func(ctx context.Context) error {
				if !committed {
					restore()
				}
				return nil
			},
		}, nil
	}
}

func (s *MockStore) snapshot() func() {
	restores := []func(){
		s.CustomerRepo.snapshot(),
		s.ProductRepo.snapshot(),
		s.EntryRepo.snapshot(),
		s.TransactionRepo.snapshot(),
		s.AuditRepo.snapshot(),
	}
	return func() {
		for _, r := range restores {
			r()
		}
	}
}

func (s *MockStore) Customers() usecase.CustomerRepository       { return s.CustomerRepo }
func (s *MockStore) Products() usecase.ProductRepository         { return s.ProductRepo }
func (s *MockStore) Entries() usecase.EntryRepository            { return s.EntryRepo }
func (s *MockStore) Transactions() usecase.TransactionRepository { return s.TransactionRepo }
func (s *MockStore) Audits() usecase.AuditRepository             { return s.AuditRepo }
func (s *MockStore) TxManager() usecase.TransactionManager       { return s.TxMgr }
