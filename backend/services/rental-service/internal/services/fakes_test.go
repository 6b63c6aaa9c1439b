package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/shopspring/decimal"

	"github.com/trying-dev/properties/backend/services/rental-service/internal/config"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/models"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/repositories"
	shared_models "github.com/trying-dev/properties/backend/shared/go-models"
	shared_repos "github.com/trying-dev/properties/backend/shared/go-repositories"
)

var fixedNow = time.Date(2026, 3, 2, 15, 4, 5, 0, time.UTC)

/* ───────────── processes ───────────── */

type memProcessRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*models.Process
}

func newMemProcessRepo() *memProcessRepo {
	return &memProcessRepo{rows: map[uuid.UUID]*models.Process{}}
}

func copyProcess(p *models.Process) *models.Process {
	cp := *p
	cp.Payload = p.Payload.Clone()
	return &cp
}

func (r *memProcessRepo) Create(_ context.Context, p *models.Process) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.RowVersion = 1
	p.CreatedAt = fixedNow
	p.UpdatedAt = fixedNow
	r.rows[p.ID] = copyProcess(p)
	return nil
}

func (r *memProcessRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return copyProcess(p), nil
}

func (r *memProcessRepo) UpdateIfVersion(_ context.Context, p *models.Process, expected int64) (pgconn.CommandTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.rows[p.ID]
	if !ok || cur.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	next := copyProcess(p)
	next.RowVersion = expected + 1
	r.rows[p.ID] = next
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (r *memProcessRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Process) error) error {
	return shared_repos.WithRetry(ctx, shared_repos.DefaultMaxRetries, id.String(),
		func(ctx context.Context, s string) (*models.Process, error) {
			return r.GetByID(ctx, uuid.MustParse(s))
		},
		r.UpdateIfVersion,
		mutate,
	)
}

func (r *memProcessRepo) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]*models.Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Process
	for _, p := range r.rows {
		if p.OwnedBy(tenantID) {
			out = append(out, copyProcess(p))
		}
	}
	return out, nil
}

func (r *memProcessRepo) ListByStatuses(_ context.Context, statuses []models.ProcessStatus) ([]*models.Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Process
	for _, p := range r.rows {
		for _, st := range statuses {
			if p.Status == st {
				out = append(out, copyProcess(p))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (r *memProcessRepo) FindOpenByTenantAndUnit(_ context.Context, tenantID, unitID uuid.UUID) (*models.Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.OwnedBy(tenantID) && p.UnitID != nil && *p.UnitID == unitID && !p.Status.IsClosed() {
			return copyProcess(p), nil
		}
	}
	return nil, nil
}

func (r *memProcessRepo) DeleteForTenant(_ context.Context, id, tenantID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok || !p.OwnedBy(tenantID) {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

/* ───────────── contracts ───────────── */

type memContractRepo struct {
	units *memUnitRepo
	rows  map[uuid.UUID]*models.Contract
}

func (r *memContractRepo) CreateForUnit(ctx context.Context, unitID uuid.UUID, build repositories.BuildContractFunc) (*models.Contract, error) {
	unit, _ := r.units.GetByID(ctx, unitID)
	c, err := build(unit)
	if err != nil {
		return nil, err
	}
	r.rows[c.ID] = c
	return c, nil
}

func (r *memContractRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Contract, error) {
	return r.rows[id], nil
}

func (r *memContractRepo) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]*models.Contract, error) {
	var out []*models.Contract
	for _, c := range r.rows {
		if c.TenantID == tenantID {
			out = append(out, c)
		}
	}
	return out, nil
}

/* ───────────── directory ───────────── */

type memUnitRepo struct {
	shared_repos.UnitRepository
	rows map[uuid.UUID]*shared_models.Unit
}

func (r *memUnitRepo) GetByID(_ context.Context, id uuid.UUID) (*shared_models.Unit, error) {
	return r.rows[id], nil
}

type memTenantRepo struct {
	rows map[uuid.UUID]*shared_models.Tenant
}

func (r *memTenantRepo) Create(_ context.Context, t *shared_models.Tenant) error {
	r.rows[t.ID] = t
	return nil
}

func (r *memTenantRepo) GetByID(_ context.Context, id uuid.UUID) (*shared_models.Tenant, error) {
	return r.rows[id], nil
}

func (r *memTenantRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*shared_models.Tenant, error) {
	for _, t := range r.rows {
		if t.UserID == userID {
			return t, nil
		}
	}
	return nil, nil
}

type memAdminRepo struct {
	shared_repos.AdminRepository
	rows map[uuid.UUID]*shared_models.Admin
}

func (r *memAdminRepo) GetByID(_ context.Context, id uuid.UUID) (*shared_models.Admin, error) {
	return r.rows[id], nil
}

func (r *memAdminRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*shared_models.Admin, error) {
	for _, a := range r.rows {
		if a.UserID == userID {
			return a, nil
		}
	}
	return nil, nil
}

type memUserRepo struct {
	shared_repos.UserRepository
	rows map[uuid.UUID]*shared_models.User
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*shared_models.User, error) {
	return r.rows[id], nil
}

func (r *memUserRepo) SetRegistrationToken(_ context.Context, id uuid.UUID, hash string, expiresAt time.Time) error {
	u, ok := r.rows[id]
	if !ok {
		return errors.New("no such user")
	}
	u.RegistrationTokenHash = &hash
	u.RegistrationTokenExpiresAt = &expiresAt
	return nil
}

type memAuditRepo struct {
	entries []*shared_models.AdminAuditLog
}

func (r *memAuditRepo) Create(_ context.Context, e *shared_models.AdminAuditLog) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *memAuditRepo) ListByTarget(_ context.Context, targetID uuid.UUID) ([]*shared_models.AdminAuditLog, error) {
	var out []*shared_models.AdminAuditLog
	for _, e := range r.entries {
		if e.TargetID == targetID {
			out = append(out, e)
		}
	}
	return out, nil
}

/* ───────────── notifications ───────────── */

type sentEmail struct {
	Kind  string
	To    string
	Name  string
	Link  string
	Token string
}

type fakeNotifier struct {
	readyErr  error
	sms       bool
	failEmail map[string]bool
	emails    []sentEmail
	texts     []string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{failEmail: map[string]bool{}}
}

func (n *fakeNotifier) Ready() error     { return n.readyErr }
func (n *fakeNotifier) SMSEnabled() bool { return n.sms }

func (n *fakeNotifier) send(e sentEmail) error {
	if n.failEmail[e.To] {
		return fmt.Errorf("sendgrid rejected %s", e.To)
	}
	n.emails = append(n.emails, e)
	return nil
}

func (n *fakeNotifier) SendConfirmationEmail(_ context.Context, to, confirmURL, name string) error {
	return n.send(sentEmail{Kind: NotifyCoDebtorEmail, To: to, Name: name, Link: confirmURL})
}

func (n *fakeNotifier) SendRegistrationEmail(_ context.Context, to, name, token string) error {
	return n.send(sentEmail{Kind: NotifyRegistration, To: to, Name: name, Token: token})
}

func (n *fakeNotifier) SendContinueEmail(_ context.Context, to, name string) error {
	return n.send(sentEmail{Kind: NotifyContinue, To: to, Name: name})
}

func (n *fakeNotifier) SendConfirmationSMS(_ context.Context, to, _ string) error {
	n.texts = append(n.texts, to)
	return nil
}

func (n *fakeNotifier) sent(kind string) []sentEmail {
	var out []sentEmail
	for _, e := range n.emails {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

/* ───────────── fixture ───────────── */

type fixture struct {
	cfg       *config.Config
	processes *memProcessRepo
	contracts *memContractRepo
	units     *memUnitRepo
	tenants   *memTenantRepo
	admins    *memAdminRepo
	users     *memUserRepo
	audit     *memAuditRepo
	notifier  *fakeNotifier

	coDebtorSvc *CoDebtorService
	contractSvc *ContractService
	svc         *ProcessService

	tenantUser *shared_models.User
	tenant     *shared_models.Tenant
	adminUser  *shared_models.User
	admin      *shared_models.Admin
	unit       *shared_models.Unit

	tokenSeq int
}

func newFixture() *fixture {
	f := &fixture{
		cfg: &config.Config{
			AppUrl:           "https://rental.example.test",
			OrganizationName: "Arriendos",
		},
		processes: newMemProcessRepo(),
		units:     &memUnitRepo{rows: map[uuid.UUID]*shared_models.Unit{}},
		tenants:   &memTenantRepo{rows: map[uuid.UUID]*shared_models.Tenant{}},
		admins:    &memAdminRepo{rows: map[uuid.UUID]*shared_models.Admin{}},
		users:     &memUserRepo{rows: map[uuid.UUID]*shared_models.User{}},
		audit:     &memAuditRepo{},
		notifier:  newFakeNotifier(),
	}
	f.contracts = &memContractRepo{units: f.units, rows: map[uuid.UUID]*models.Contract{}}

	f.tenantUser = &shared_models.User{ID: uuid.New(), Email: "ana@example.com", FirstName: "Ana", LastName: "Rojas"}
	f.users.rows[f.tenantUser.ID] = f.tenantUser
	f.tenant = &shared_models.Tenant{ID: uuid.New(), UserID: f.tenantUser.ID}
	f.tenants.rows[f.tenant.ID] = f.tenant

	f.adminUser = &shared_models.User{ID: uuid.New(), Email: "admin@example.com"}
	f.users.rows[f.adminUser.ID] = f.adminUser
	f.admin = &shared_models.Admin{ID: uuid.New(), UserID: f.adminUser.ID, Username: "ops", AccountStatus: shared_models.AccountStatusActive}
	f.admins.rows[f.admin.ID] = f.admin

	rent := decimal.NewFromInt(2_000_000)
	f.unit = &shared_models.Unit{ID: uuid.New(), BaseRent: &rent}
	f.units.rows[f.unit.ID] = f.unit

	f.coDebtorSvc = NewCoDebtorService(f.cfg, f.processes, f.notifier)
	f.coDebtorSvc.now = func() time.Time { return fixedNow }
	f.coDebtorSvc.newToken = func() (string, error) {
		f.tokenSeq++
		return fmt.Sprintf("%064x", f.tokenSeq), nil
	}

	f.contractSvc = NewContractService(f.contracts, f.tenants, f.admins)
	f.contractSvc.now = func() time.Time { return fixedNow }

	f.svc = NewProcessService(f.cfg, f.processes, f.tenants, f.units, f.admins,
		f.users, f.audit, f.coDebtorSvc, f.contractSvc, f.notifier)
	f.svc.now = func() time.Time { return fixedNow }
	f.svc.newToken = func() (string, error) { return "registration-token", nil }
	return f
}

// addTenant registers another tenant with its own user.
func (f *fixture) addTenant(email string) *shared_models.Tenant {
	u := &shared_models.User{ID: uuid.New(), Email: email}
	f.users.rows[u.ID] = u
	t := &shared_models.Tenant{ID: uuid.New(), UserID: u.ID}
	f.tenants.rows[t.ID] = t
	return t
}
