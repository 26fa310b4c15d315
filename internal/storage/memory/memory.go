// Package memory is a map-backed implementation of the storage interfaces.
// Unit tests run against it, and it keeps the same contract as the postgres
// implementation: sentinel errors, all-or-nothing WithinTx, serialized
// transitions (a transaction holds the store-wide lock until it finishes).
package memory

import (
	"sort"
	"sync"
	"time"

	"drtc/licensing/internal/models"
	"drtc/licensing/internal/storage"
)

type state struct {
	users       map[uint]models.User
	companies   map[uint]models.Company
	drivers     map[uint]models.Driver
	requests    map[uint]models.AuthorizationRequest
	fees        map[uint]models.FeeScheduleEntry
	payments    map[uint]models.Payment
	audits      []models.AuditEntry
	driverLogs  []models.DriverLogEntry
	requestLogs []models.RequestLogEntry
	seq         uint
}

func newState() *state {
	return &state{
		users:     make(map[uint]models.User),
		companies: make(map[uint]models.Company),
		drivers:   make(map[uint]models.Driver),
		requests:  make(map[uint]models.AuthorizationRequest),
		fees:      make(map[uint]models.FeeScheduleEntry),
		payments:  make(map[uint]models.Payment),
	}
}

func (st *state) clone() *state {
	c := newState()
	for k, v := range st.users {
		c.users[k] = v
	}
	for k, v := range st.companies {
		c.companies[k] = v
	}
	for k, v := range st.drivers {
		c.drivers[k] = v
	}
	for k, v := range st.requests {
		c.requests[k] = v
	}
	for k, v := range st.fees {
		c.fees[k] = v
	}
	for k, v := range st.payments {
		c.payments[k] = v
	}
	c.audits = append([]models.AuditEntry(nil), st.audits...)
	c.driverLogs = append([]models.DriverLogEntry(nil), st.driverLogs...)
	c.requestLogs = append([]models.RequestLogEntry(nil), st.requestLogs...)
	c.seq = st.seq
	return c
}

func (st *state) nextID() uint {
	st.seq++
	return st.seq
}

type Store struct {
	mu sync.Mutex
	st *state

	// tx views operate on a cloned state and never touch the mutex; the
	// root store holds it for the whole transaction.
	isTxView bool
}

func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) lock() {
	if !s.isTxView {
		s.mu.Lock()
	}
}

func (s *Store) unlock() {
	if !s.isTxView {
		s.mu.Unlock()
	}
}

// WithinTx clones the state, runs fn against the clone and swaps it in only
// on success. The store lock is held throughout, so concurrent transitions
// are fully serialized.
func (s *Store) WithinTx(fn func(storage.IStorage) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := &Store{st: s.st.clone(), isTxView: true}
	if err := fn(view); err != nil {
		return err
	}
	s.st = view.st
	return nil
}

func (s *Store) User() storage.IUserStorage       { return &userStore{s} }
func (s *Store) Company() storage.ICompanyStorage { return &companyStore{s} }
func (s *Store) Driver() storage.IDriverStorage   { return &driverStore{s} }
func (s *Store) Request() storage.IRequestStorage { return &requestStore{s} }
func (s *Store) Fee() storage.IFeeStorage         { return &feeStore{s} }
func (s *Store) Payment() storage.IPaymentStorage { return &paymentStore{s} }
func (s *Store) Audit() storage.IAuditStorage     { return &auditStore{s} }

func stamp(id uint) (uint, time.Time) {
	return id, time.Now()
}

// --- users ---

type userStore struct{ root *Store }

func (s *userStore) Create(user *models.User) error {
	s.root.lock()
	defer s.root.unlock()
	for _, existing := range s.root.st.users {
		if existing.Email == user.Email {
			return storage.ErrDuplicate
		}
	}
	id, now := stamp(s.root.st.nextID())
	user.ID, user.CreatedAt, user.UpdatedAt = id, now, now
	s.root.st.users[id] = *user
	return nil
}

func (s *userStore) GetByID(id uint) (*models.User, error) {
	s.root.lock()
	defer s.root.unlock()
	user, ok := s.root.st.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &user, nil
}

func (s *userStore) GetByEmail(email string) (*models.User, error) {
	s.root.lock()
	defer s.root.unlock()
	for _, user := range s.root.st.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *userStore) List() ([]models.User, error) {
	s.root.lock()
	defer s.root.unlock()
	users := make([]models.User, 0, len(s.root.st.users))
	for _, user := range s.root.st.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *userStore) Update(user *models.User) error {
	s.root.lock()
	defer s.root.unlock()
	if _, ok := s.root.st.users[user.ID]; !ok {
		return storage.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	s.root.st.users[user.ID] = *user
	return nil
}

// --- companies ---

type companyStore struct{ root *Store }

func (s *companyStore) Create(company *models.Company) error {
	s.root.lock()
	defer s.root.unlock()
	for _, existing := range s.root.st.companies {
		if existing.TaxID == company.TaxID {
			return storage.ErrDuplicate
		}
	}
	id, now := stamp(s.root.st.nextID())
	company.ID, company.CreatedAt, company.UpdatedAt = id, now, now
	s.root.st.companies[id] = *company
	return nil
}

func (s *companyStore) GetByID(id uint) (*models.Company, error) {
	s.root.lock()
	defer s.root.unlock()
	company, ok := s.root.st.companies[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &company, nil
}

func (s *companyStore) GetByTaxID(taxID string) (*models.Company, error) {
	s.root.lock()
	defer s.root.unlock()
	for _, company := range s.root.st.companies {
		if company.TaxID == taxID {
			c := company
			return &c, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *companyStore) List() ([]models.Company, error) {
	s.root.lock()
	defer s.root.unlock()
	companies := make([]models.Company, 0, len(s.root.st.companies))
	for _, company := range s.root.st.companies {
		companies = append(companies, company)
	}
	sort.Slice(companies, func(i, j int) bool { return companies[i].ID < companies[j].ID })
	return companies, nil
}

func (s *companyStore) Update(company *models.Company) error {
	s.root.lock()
	defer s.root.unlock()
	if _, ok := s.root.st.companies[company.ID]; !ok {
		return storage.ErrNotFound
	}
	company.UpdatedAt = time.Now()
	s.root.st.companies[company.ID] = *company
	return nil
}

// --- drivers ---

type driverStore struct{ root *Store }

func (s *driverStore) Create(driver *models.Driver) error {
	s.root.lock()
	defer s.root.unlock()
	for _, existing := range s.root.st.drivers {
		if existing.NationalID == driver.NationalID || existing.LicenseNumber == driver.LicenseNumber {
			return storage.ErrDuplicate
		}
	}
	id, now := stamp(s.root.st.nextID())
	driver.ID, driver.CreatedAt, driver.UpdatedAt = id, now, now
	s.root.st.drivers[id] = *driver
	return nil
}

func (s *driverStore) GetByID(id uint) (*models.Driver, error) {
	s.root.lock()
	defer s.root.unlock()
	driver, ok := s.root.st.drivers[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if company, ok := s.root.st.companies[driver.CompanyID]; ok {
		driver.Company = company
	}
	return &driver, nil
}

func (s *driverStore) GetByNationalID(nationalID string) (*models.Driver, error) {
	s.root.lock()
	defer s.root.unlock()
	for _, driver := range s.root.st.drivers {
		if driver.NationalID == nationalID {
			d := driver
			return &d, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *driverStore) List() ([]models.Driver, error) {
	s.root.lock()
	defer s.root.unlock()
	drivers := make([]models.Driver, 0, len(s.root.st.drivers))
	for _, driver := range s.root.st.drivers {
		drivers = append(drivers, driver)
	}
	sort.Slice(drivers, func(i, j int) bool { return drivers[i].ID < drivers[j].ID })
	return drivers, nil
}

func (s *driverStore) ListByCompany(companyID uint) ([]models.Driver, error) {
	s.root.lock()
	defer s.root.unlock()
	var drivers []models.Driver
	for _, driver := range s.root.st.drivers {
		if driver.CompanyID == companyID {
			drivers = append(drivers, driver)
		}
	}
	sort.Slice(drivers, func(i, j int) bool { return drivers[i].ID < drivers[j].ID })
	return drivers, nil
}

func (s *driverStore) ListExpiring(by time.Time) ([]models.Driver, error) {
	s.root.lock()
	defer s.root.unlock()
	var drivers []models.Driver
	for _, driver := range s.root.st.drivers {
		expiring := !driver.LicenseExpiry.After(by)
		if driver.MedicalCertExpiry != nil && !driver.MedicalCertExpiry.After(by) {
			expiring = true
		}
		if expiring {
			drivers = append(drivers, driver)
		}
	}
	sort.Slice(drivers, func(i, j int) bool { return drivers[i].LicenseExpiry.Before(drivers[j].LicenseExpiry) })
	return drivers, nil
}

func (s *driverStore) Update(driver *models.Driver) error {
	s.root.lock()
	defer s.root.unlock()
	if _, ok := s.root.st.drivers[driver.ID]; !ok {
		return storage.ErrNotFound
	}
	driver.UpdatedAt = time.Now()
	stored := *driver
	stored.Company = models.Company{}
	stored.Log = nil
	s.root.st.drivers[driver.ID] = stored
	return nil
}

func (s *driverStore) AppendLog(entry *models.DriverLogEntry) error {
	s.root.lock()
	defer s.root.unlock()
	id, now := stamp(s.root.st.nextID())
	entry.ID, entry.CreatedAt, entry.UpdatedAt = id, now, now
	s.root.st.driverLogs = append(s.root.st.driverLogs, *entry)
	return nil
}

func (s *driverStore) ListLog(driverID uint) ([]models.DriverLogEntry, error) {
	s.root.lock()
	defer s.root.unlock()
	var entries []models.DriverLogEntry
	for _, entry := range s.root.st.driverLogs {
		if entry.DriverID == driverID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// --- requests ---

type requestStore struct{ root *Store }

func (s *requestStore) Create(request *models.AuthorizationRequest) error {
	s.root.lock()
	defer s.root.unlock()
	for _, existing := range s.root.st.requests {
		if existing.Code == request.Code {
			return storage.ErrDuplicate
		}
	}
	id, now := stamp(s.root.st.nextID())
	request.ID, request.CreatedAt, request.UpdatedAt = id, now, now
	stored := *request
	stored.Driver = models.Driver{}
	stored.Log = nil
	s.root.st.requests[id] = stored
	return nil
}

func (s *requestStore) get(id uint) (*models.AuthorizationRequest, error) {
	request, ok := s.root.st.requests[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if driver, ok := s.root.st.drivers[request.DriverID]; ok {
		if company, ok := s.root.st.companies[driver.CompanyID]; ok {
			driver.Company = company
		}
		request.Driver = driver
	}
	return &request, nil
}

func (s *requestStore) GetByID(id uint) (*models.AuthorizationRequest, error) {
	s.root.lock()
	defer s.root.unlock()
	return s.get(id)
}

func (s *requestStore) GetByIDForUpdate(id uint) (*models.AuthorizationRequest, error) {
	s.root.lock()
	defer s.root.unlock()
	return s.get(id)
}

func (s *requestStore) GetActiveByDriver(driverID uint) (*models.AuthorizationRequest, error) {
	s.root.lock()
	defer s.root.unlock()
	var found *models.AuthorizationRequest
	for _, request := range s.root.st.requests {
		if request.DriverID != driverID || models.IsTerminalRequestState(request.State) {
			continue
		}
		if found == nil || request.ID > found.ID {
			r := request
			found = &r
		}
	}
	if found == nil {
		return nil, storage.ErrNotFound
	}
	return found, nil
}

func (s *requestStore) CodeExists(code string) (bool, error) {
	s.root.lock()
	defer s.root.unlock()
	for _, request := range s.root.st.requests {
		if request.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *requestStore) List() ([]models.AuthorizationRequest, error) {
	s.root.lock()
	defer s.root.unlock()
	requests := make([]models.AuthorizationRequest, 0, len(s.root.st.requests))
	for _, request := range s.root.st.requests {
		requests = append(requests, request)
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].ID > requests[j].ID })
	return requests, nil
}

func (s *requestStore) ListByState(state models.RequestState) ([]models.AuthorizationRequest, error) {
	s.root.lock()
	defer s.root.unlock()
	var requests []models.AuthorizationRequest
	for _, request := range s.root.st.requests {
		if request.State == state {
			requests = append(requests, request)
		}
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].ID < requests[j].ID })
	return requests, nil
}

func (s *requestStore) Update(request *models.AuthorizationRequest) error {
	s.root.lock()
	defer s.root.unlock()
	if _, ok := s.root.st.requests[request.ID]; !ok {
		return storage.ErrNotFound
	}
	request.UpdatedAt = time.Now()
	stored := *request
	stored.Driver = models.Driver{}
	stored.Log = nil
	s.root.st.requests[request.ID] = stored
	return nil
}

func (s *requestStore) AppendLog(entry *models.RequestLogEntry) error {
	s.root.lock()
	defer s.root.unlock()
	id, now := stamp(s.root.st.nextID())
	entry.ID, entry.CreatedAt, entry.UpdatedAt = id, now, now
	s.root.st.requestLogs = append(s.root.st.requestLogs, *entry)
	return nil
}

func (s *requestStore) ListLog(requestID uint) ([]models.RequestLogEntry, error) {
	s.root.lock()
	defer s.root.unlock()
	var entries []models.RequestLogEntry
	for _, entry := range s.root.st.requestLogs {
		if entry.RequestID == requestID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// --- fee schedule ---

type feeStore struct{ root *Store }

func (s *feeStore) Create(entry *models.FeeScheduleEntry) error {
	s.root.lock()
	defer s.root.unlock()
	id, now := stamp(s.root.st.nextID())
	entry.ID, entry.CreatedAt, entry.UpdatedAt = id, now, now
	s.root.st.fees[id] = *entry
	return nil
}

func (s *feeStore) GetByID(id uint) (*models.FeeScheduleEntry, error) {
	s.root.lock()
	defer s.root.unlock()
	entry, ok := s.root.st.fees[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &entry, nil
}

func (s *feeStore) ListByCode(code string) ([]models.FeeScheduleEntry, error) {
	s.root.lock()
	defer s.root.unlock()
	var entries []models.FeeScheduleEntry
	for _, entry := range s.root.st.fees {
		if entry.Code == code {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ValidFrom.After(entries[j].ValidFrom) })
	return entries, nil
}

func (s *feeStore) ListActive() ([]models.FeeScheduleEntry, error) {
	s.root.lock()
	defer s.root.unlock()
	var entries []models.FeeScheduleEntry
	for _, entry := range s.root.st.fees {
		if entry.Active {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

// --- payments ---

type paymentStore struct{ root *Store }

func (s *paymentStore) Create(payment *models.Payment) error {
	s.root.lock()
	defer s.root.unlock()
	for _, existing := range s.root.st.payments {
		if existing.RequestID == payment.RequestID || existing.ReceiptNumber == payment.ReceiptNumber {
			return storage.ErrDuplicate
		}
	}
	id, now := stamp(s.root.st.nextID())
	payment.ID, payment.CreatedAt, payment.UpdatedAt = id, now, now
	stored := *payment
	stored.FeeEntry = models.FeeScheduleEntry{}
	stored.Request = models.AuthorizationRequest{}
	s.root.st.payments[id] = stored
	return nil
}

func (s *paymentStore) get(id uint) (*models.Payment, error) {
	payment, ok := s.root.st.payments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if entry, ok := s.root.st.fees[payment.FeeEntryID]; ok {
		payment.FeeEntry = entry
	}
	return &payment, nil
}

func (s *paymentStore) GetByID(id uint) (*models.Payment, error) {
	s.root.lock()
	defer s.root.unlock()
	return s.get(id)
}

func (s *paymentStore) GetByIDForUpdate(id uint) (*models.Payment, error) {
	s.root.lock()
	defer s.root.unlock()
	return s.get(id)
}

func (s *paymentStore) GetByRequestID(requestID uint) (*models.Payment, error) {
	s.root.lock()
	defer s.root.unlock()
	for id, payment := range s.root.st.payments {
		if payment.RequestID == requestID {
			return s.get(id)
		}
	}
	return nil, storage.ErrNotFound
}

func (s *paymentStore) ListByPeriod(from, to time.Time) ([]models.Payment, error) {
	s.root.lock()
	defer s.root.unlock()
	var payments []models.Payment
	for _, payment := range s.root.st.payments {
		if payment.PaidOn.Before(from) || payment.PaidOn.After(to) {
			continue
		}
		payments = append(payments, payment)
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].PaidOn.Before(payments[j].PaidOn) })
	return payments, nil
}

func (s *paymentStore) ReceiptExists(receiptNumber string) (bool, error) {
	s.root.lock()
	defer s.root.unlock()
	for _, payment := range s.root.st.payments {
		if payment.ReceiptNumber == receiptNumber {
			return true, nil
		}
	}
	return false, nil
}

func (s *paymentStore) Update(payment *models.Payment) error {
	s.root.lock()
	defer s.root.unlock()
	if _, ok := s.root.st.payments[payment.ID]; !ok {
		return storage.ErrNotFound
	}
	payment.UpdatedAt = time.Now()
	stored := *payment
	stored.FeeEntry = models.FeeScheduleEntry{}
	stored.Request = models.AuthorizationRequest{}
	s.root.st.payments[payment.ID] = stored
	return nil
}

// --- audit ---

type auditStore struct{ root *Store }

func (s *auditStore) Append(entry *models.AuditEntry) error {
	s.root.lock()
	defer s.root.unlock()
	id, now := stamp(s.root.st.nextID())
	entry.ID, entry.CreatedAt, entry.UpdatedAt = id, now, now
	s.root.st.audits = append(s.root.st.audits, *entry)
	return nil
}

func (s *auditStore) List(limit, offset int) ([]models.AuditEntry, error) {
	s.root.lock()
	defer s.root.unlock()
	if limit <= 0 {
		limit = 100
	}
	entries := append([]models.AuditEntry(nil), s.root.st.audits...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID > entries[j].ID })
	if offset >= len(entries) {
		return []models.AuditEntry{}, nil
	}
	entries = entries[offset:]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
