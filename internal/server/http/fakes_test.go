package http

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/farmportal/internal/common"
	"github.com/dmitrijs2005/farmportal/internal/logging"
	"github.com/dmitrijs2005/farmportal/internal/server/models"
	"github.com/dmitrijs2005/farmportal/internal/server/oauth"
	"github.com/dmitrijs2005/farmportal/internal/server/services"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type fakeAuth struct {
	mu        sync.Mutex
	accounts  map[string]string
	officials map[string]string
	empIDs    map[string]bool
	farmerIDs map[int64]bool
	sessions  map[string]*models.Session
	nextToken int

	registerErr error
	loginErr    error
	sessionErr  error

	forced []bool
	ended  []string
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		accounts:  map[string]string{},
		officials: map[string]string{},
		empIDs:    map[string]bool{},
		farmerIDs: map[int64]bool{},
		sessions:  map[string]*models.Session{},
	}
}

func (f *fakeAuth) Register(_ context.Context, in services.RegisterInput) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	if _, ok := f.accounts[in.Username]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if in.Profile != nil {
		if f.farmerIDs[in.Profile.ID] {
			return nil, common.ErrorFarmerIDTaken
		}
		f.farmerIDs[in.Profile.ID] = true
	}
	f.accounts[in.Username] = in.Password
	return &models.Account{Username: in.Username, Profile: in.Profile}, nil
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	pw, ok := f.accounts[username]
	if !ok || pw != password || pw == common.OAuthPasswordSentinel {
		return nil, common.ErrorUnauthorized
	}
	return &models.Account{Username: username}, nil
}

func (f *fakeAuth) RegisterOfficial(_ context.Context, in services.RegisterOfficialInput) (*models.Official, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	if _, ok := f.officials[in.Username]; ok || f.empIDs[in.EmpID] {
		return nil, common.ErrorAlreadyExists
	}
	f.officials[in.Username] = in.Password
	f.empIDs[in.EmpID] = true
	return &models.Official{EmpID: in.EmpID, Username: in.Username}, nil
}

func (f *fakeAuth) LoginOfficial(_ context.Context, username, password string) (*models.Official, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	pw, ok := f.officials[username]
	if !ok || pw != password {
		return nil, common.ErrorUnauthorized
	}
	return &models.Official{Username: username}, nil
}

func (f *fakeAuth) ResolveOAuth(_ context.Context, p *oauth.Profile) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p == nil || p.Email == "" {
		return nil, common.ErrorUnauthorized
	}
	if _, ok := f.accounts[p.Email]; !ok {
		f.accounts[p.Email] = common.OAuthPasswordSentinel
	}
	return &models.Account{Username: p.Email, PasswordHash: common.OAuthPasswordSentinel}, nil
}

func (f *fakeAuth) StartSession(_ context.Context, kind models.PrincipalKind, username string) (string, *models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sessionErr != nil {
		return "", nil, f.sessionErr
	}
	f.nextToken++
	token := fmt.Sprintf("tok-%d", f.nextToken)
	s := &models.Session{ID: token, Kind: kind, Username: username}
	f.sessions[token] = s
	return token, s, nil
}

func (f *fakeAuth) ResolveSession(_ context.Context, token string, force bool) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forced = append(f.forced, force)
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	s, ok := f.sessions[token]
	if !ok || s.Revoked {
		return nil, common.ErrSessionExpired
	}
	return s, nil
}

func (f *fakeAuth) EndSession(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ended = append(f.ended, token)
	if s, ok := f.sessions[token]; ok {
		s.Revoked = true
	}
	return nil
}

type fakeSchemes struct {
	mu     sync.Mutex
	rows   []*models.SchemeApplication
	names  map[int64]string
	err    error
	nextID int64
}

func newFakeSchemes() *fakeSchemes { return &fakeSchemes{names: map[int64]string{}} }

func (f *fakeSchemes) Apply(_ context.Context, farmID int64, date, name string) (*models.SchemeApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	a := &models.SchemeApplication{ID: f.nextID, FarmID: farmID, DateApplied: date, Name: name}
	f.rows = append(f.rows, a)
	return a, nil
}

func (f *fakeSchemes) view(keep func(*models.SchemeApplication) bool) []*models.SchemeApplication {
	var out []*models.SchemeApplication
	for _, a := range f.rows {
		if keep(a) {
			cp := *a
			cp.FarmerName = f.names[a.FarmID]
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeSchemes) ListAll(context.Context) ([]*models.SchemeApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.view(func(*models.SchemeApplication) bool { return true }), nil
}

func (f *fakeSchemes) ListByFarmer(_ context.Context, farmID int64) ([]*models.SchemeApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.view(func(a *models.SchemeApplication) bool { return a.FarmID == farmID }), nil
}

func (f *fakeSchemes) Transition(_ context.Context, id int64, action models.SchemeAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if !action.Valid() {
		return common.ErrorValidation
	}
	for _, a := range f.rows {
		if a.ID == id {
			v := action.Approved()
			a.Approved = &v
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeProvider struct {
	profiles map[string]*oauth.Profile
}

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://idp.example/auth?state=" + state
}

func (p *fakeProvider) Profile(_ context.Context, code string) (*oauth.Profile, error) {
	prof, ok := p.profiles[code]
	if !ok {
		return nil, fmt.Errorf("invalid_grant")
	}
	return prof, nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }
