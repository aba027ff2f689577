package admin

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/farmportal/internal/common"
	"github.com/dmitrijs2005/farmportal/internal/server/config"
	"github.com/dmitrijs2005/farmportal/internal/server/models"
	"github.com/dmitrijs2005/farmportal/internal/server/services"
)

type fakeBackend struct {
	migrated   bool
	migrateErr error
	officials  []services.RegisterOfficialInput
	officerErr error
	apps       []*models.SchemeApplication
	listedFor  int64
	decisions  map[int64]models.SchemeAction
	closed     bool
}

func (f *fakeBackend) Migrate(context.Context) error {
	f.migrated = true
	return f.migrateErr
}

func (f *fakeBackend) RegisterOfficial(_ context.Context, in services.RegisterOfficialInput) (*models.Official, error) {
	if f.officerErr != nil {
		return nil, f.officerErr
	}
	f.officials = append(f.officials, in)
	return &models.Official{EmpID: in.EmpID, Username: in.Username}, nil
}

func (f *fakeBackend) ListSchemes(_ context.Context, farmID int64) ([]*models.SchemeApplication, error) {
	f.listedFor = farmID
	return f.apps, nil
}

func (f *fakeBackend) GetScheme(_ context.Context, id int64) (*models.SchemeApplication, error) {
	for _, a := range f.apps {
		if a.ID == id {
			cp := *a
			if action, ok := f.decisions[id]; ok {
				approved := action.Approved()
				cp.Approved = &approved
			}
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeBackend) Transition(_ context.Context, id int64, action models.SchemeAction) error {
	for _, a := range f.apps {
		if a.ID == id {
			f.decisions[id] = action
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeBackend) Close() error {
	f.closed = true
	return nil
}

func run(t *testing.T, b *fakeBackend, stdin string, args ...string) (string, *config.Config, error) {
	t.Helper()
	cfg := &config.Config{DatabaseDSN: "postgres://default"}
	var opened *config.Config
	open := func(_ context.Context, c *config.Config) (Backend, error) {
		opened = c
		return b, nil
	}

	cmd := NewRootCommand(cfg, open, strings.NewReader(stdin))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), opened, err
}

func stubPassword(t *testing.T, pw string, err error) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) {
		if err != nil {
			return nil, err
		}
		return []byte(pw), nil
	}
	t.Cleanup(func() { readPassword = orig })
}

func newBackend() *fakeBackend {
	return &fakeBackend{decisions: map[int64]models.SchemeAction{}}
}

func TestMigrate(t *testing.T) {
	b := newBackend()
	out, cfg, err := run(t, b, "", "migrate", "--dsn", "postgres://other")
	require.NoError(t, err)
	assert.True(t, b.migrated)
	assert.True(t, b.closed)
	assert.Equal(t, "postgres://other", cfg.DatabaseDSN)
	assert.Contains(t, out, "migrations applied")

	b = newBackend()
	b.migrateErr = errors.New("boom")
	_, _, err = run(t, b, "", "migrate")
	assert.ErrorContains(t, err, "boom")
}

func TestOfficialAdd_WithFlags(t *testing.T) {
	stubPassword(t, "s3cret", nil)
	b := newBackend()

	out, _, err := run(t, b, "", "official", "add", "--emp-id", "E1", "--username", "officer", "--profession", "Agri Officer")
	require.NoError(t, err)
	require.Len(t, b.officials, 1)
	assert.Equal(t, services.RegisterOfficialInput{
		EmpID: "E1", Username: "officer", Password: "s3cret", Profession: "Agri Officer",
	}, b.officials[0])
	assert.Contains(t, out, "official officer (E1) registered")
}

func TestOfficialAdd_Prompts(t *testing.T) {
	stubPassword(t, "pw", nil)
	b := newBackend()

	out, _, err := run(t, b, "E2\nclerk\n", "official", "add")
	require.NoError(t, err)
	require.Len(t, b.officials, 1)
	assert.Equal(t, "E2", b.officials[0].EmpID)
	assert.Equal(t, "clerk", b.officials[0].Username)
	assert.Contains(t, out, "Employee ID")
	assert.Contains(t, out, "Enter password:")
}

func TestOfficialAdd_Errors(t *testing.T) {
	stubPassword(t, "pw", nil)
	b := newBackend()
	b.officerErr = common.ErrorAlreadyExists
	_, _, err := run(t, b, "", "official", "add", "--emp-id", "E1", "--username", "officer")
	assert.ErrorContains(t, err, "already registered")

	stubPassword(t, "", errors.New("not a terminal"))
	_, _, err = run(t, newBackend(), "", "official", "add", "--emp-id", "E1", "--username", "officer")
	assert.ErrorContains(t, err, "read password")
}

func TestSchemeListAndReview(t *testing.T) {
	b := newBackend()
	b.apps = []*models.SchemeApplication{
		{ID: 1, FarmID: 7, FarmerName: "Ravi", Name: "Irrigation Grant", DateApplied: "2024-01-01"},
	}

	out, _, err := run(t, b, "", "scheme", "list", "--farmer", "7")
	require.NoError(t, err)
	assert.Equal(t, int64(7), b.listedFor)
	assert.Contains(t, out, "Irrigation Grant")
	assert.Contains(t, out, "pending")

	out, _, err = run(t, b, "", "scheme", "approve", "1")
	require.NoError(t, err)
	assert.Equal(t, models.ActionApprove, b.decisions[1])
	assert.Contains(t, out, "scheme 1 approved")

	_, _, err = run(t, b, "", "scheme", "disapprove", "1")
	require.NoError(t, err)
	assert.Equal(t, models.ActionDisapprove, b.decisions[1])

	_, _, err = run(t, b, "", "scheme", "approve", "99")
	assert.ErrorContains(t, err, "scheme 99 not found")

	_, _, err = run(t, b, "", "scheme", "approve", "abc")
	assert.ErrorContains(t, err, "invalid scheme id")
}

func TestSchemeShow(t *testing.T) {
	b := newBackend()
	b.apps = []*models.SchemeApplication{
		{ID: 3, FarmID: 7, Name: "Seed Subsidy", DateApplied: "2024-02-10"},
	}

	out, _, err := run(t, b, "", "scheme", "show", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Seed Subsidy")
	assert.Contains(t, out, "2024-02-10")
	assert.Contains(t, out, "pending")

	_, _, err = run(t, b, "", "scheme", "disapprove", "3")
	require.NoError(t, err)
	out, _, err = run(t, b, "", "scheme", "show", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "disapproved")

	_, _, err = run(t, b, "", "scheme", "show", "42")
	assert.ErrorContains(t, err, "scheme 42 not found")

	_, _, err = run(t, b, "", "scheme", "show", "0")
	assert.ErrorContains(t, err, "invalid scheme id")
}
