package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/farmportal/internal/common"
	"github.com/dmitrijs2005/farmportal/internal/dbx"
	"github.com/dmitrijs2005/farmportal/internal/server/config"
	"github.com/dmitrijs2005/farmportal/internal/server/models"
	"github.com/dmitrijs2005/farmportal/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/farmportal/internal/server/repositories/officials"
	"github.com/dmitrijs2005/farmportal/internal/server/repositories/schemes"
	"github.com/dmitrijs2005/farmportal/internal/server/repositories/sessions"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// --- accounts ---

type fakeAccounts struct {
	mu                            sync.Mutex
	rows                          map[string]*models.Account
	getN                          int
	getErr, createErr, profileErr error
	// createConflictOnce simulates a concurrent insert of the same username.
	createConflictOnce bool
}

func newFakeAccounts() *fakeAccounts { return &fakeAccounts{rows: map[string]*models.Account{}} }

func (f *fakeAccounts) Create(_ context.Context, a *models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if f.createConflictOnce {
		f.createConflictOnce = false
		f.rows[a.Username] = &models.Account{Username: a.Username, PasswordHash: a.PasswordHash}
		return common.ErrorAlreadyExists
	}
	if _, ok := f.rows[a.Username]; ok {
		return common.ErrorAlreadyExists
	}
	cp := *a
	cp.Profile = nil
	f.rows[a.Username] = &cp
	return nil
}

func (f *fakeAccounts) CreateProfile(_ context.Context, username string, p *models.FarmerProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profileErr != nil {
		return f.profileErr
	}
	for _, r := range f.rows {
		if r.Profile != nil && r.Profile.ID == p.ID {
			return common.ErrorAlreadyExists
		}
	}
	cp := *p
	f.rows[username].Profile = &cp
	return nil
}

func (f *fakeAccounts) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getN++
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.rows[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

var _ accounts.Repository = (*fakeAccounts)(nil)

// --- officials ---

type fakeOfficials struct {
	rows      map[string]*models.Official
	existsErr error
	getErr    error
}

func newFakeOfficials() *fakeOfficials { return &fakeOfficials{rows: map[string]*models.Official{}} }

func (f *fakeOfficials) Create(_ context.Context, o *models.Official) error {
	cp := *o
	f.rows[o.Username] = &cp
	return nil
}

func (f *fakeOfficials) GetByUsername(_ context.Context, username string) (*models.Official, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	o, ok := f.rows[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return o, nil
}

func (f *fakeOfficials) Exists(_ context.Context, empID, username string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, o := range f.rows {
		if o.EmpID == empID || o.Username == username {
			return true, nil
		}
	}
	return false, nil
}

var _ officials.Repository = (*fakeOfficials)(nil)

// --- schemes ---

type fakeSchemes struct {
	rows   map[int64]*models.SchemeApplication
	nextID int64
	names  map[int64]string
	err    error
}

func newFakeSchemes() *fakeSchemes {
	return &fakeSchemes{rows: map[int64]*models.SchemeApplication{}, names: map[int64]string{}}
}

func (f *fakeSchemes) Create(_ context.Context, app *models.SchemeApplication) (*models.SchemeApplication, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	cp := *app
	cp.ID = f.nextID
	f.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeSchemes) view(a *models.SchemeApplication) *models.SchemeApplication {
	cp := *a
	cp.FarmerName = f.names[a.FarmID]
	return &cp
}

func (f *fakeSchemes) Get(_ context.Context, id int64) (*models.SchemeApplication, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return f.view(a), nil
}

func (f *fakeSchemes) list(keep func(*models.SchemeApplication) bool) []*models.SchemeApplication {
	out := []*models.SchemeApplication{}
	for _, a := range f.rows {
		if keep(a) {
			out = append(out, f.view(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeSchemes) ListAll(context.Context) ([]*models.SchemeApplication, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list(func(*models.SchemeApplication) bool { return true }), nil
}

func (f *fakeSchemes) ListByFarmID(_ context.Context, farmID int64) ([]*models.SchemeApplication, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list(func(a *models.SchemeApplication) bool { return a.FarmID == farmID }), nil
}

func (f *fakeSchemes) SetApproved(_ context.Context, id int64, approved bool) error {
	if f.err != nil {
		return f.err
	}
	a, ok := f.rows[id]
	if !ok {
		return common.ErrorNotFound
	}
	v := approved
	a.Approved = &v
	return nil
}

var _ schemes.Repository = (*fakeSchemes)(nil)

// --- sessions ---

type fakeSessions struct {
	rows     map[string]*models.Session
	touched  map[string]time.Time
	err      error
	touchErr error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{rows: map[string]*models.Session{}, touched: map[string]time.Time{}}
}

func (f *fakeSessions) Create(_ context.Context, s *models.Session) error {
	if f.err != nil {
		return f.err
	}
	cp := *s
	f.rows[s.ID] = &cp
	return nil
}

func (f *fakeSessions) Find(_ context.Context, id string) (*models.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessions) Touch(_ context.Context, id string, at time.Time) error {
	if f.touchErr != nil {
		return f.touchErr
	}
	f.touched[id] = at
	if s, ok := f.rows[id]; ok {
		s.ValidatedAt = at
	}
	return nil
}

func (f *fakeSessions) Revoke(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if s, ok := f.rows[id]; ok {
		s.Revoked = true
	}
	return nil
}

func (f *fakeSessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for id, s := range f.rows {
		if s.ExpiresAt.Before(now) {
			delete(f.rows, id)
			n++
		}
	}
	return n, nil
}

var _ sessions.Repository = (*fakeSessions)(nil)

// --- manager ---

type fakeRepoManager struct {
	a  *fakeAccounts
	o  *fakeOfficials
	sc *fakeSchemes
	se *fakeSessions
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{a: newFakeAccounts(), o: newFakeOfficials(), sc: newFakeSchemes(), se: newFakeSessions()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository        { return m.a }
func (m *fakeRepoManager) Officials(dbx.DBTX) officials.Repository      { return m.o }
func (m *fakeRepoManager) Schemes(dbx.DBTX) schemes.Repository          { return m.sc }
func (m *fakeRepoManager) Sessions(dbx.DBTX) sessions.Repository        { return m.se }

func testConfig() *config.Config {
	return &config.Config{
		SessionSecret:             "k",
		SessionTTL:                time.Hour,
		SessionRevalidateInterval: 5 * time.Minute,
	}
}
