package authcore

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"sync"
	"testing"
	"time"

	"github.com/adminkit/authcore/password"
	"github.com/adminkit/authcore/permission"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// fakeCredentialStore is an in-memory CredentialStore with call counters
// for observing which paths the engine exercised.
type fakeCredentialStore struct {
	mu        sync.Mutex
	users     map[string]*Credentials
	rows      map[int64][]permission.Row
	credCalls int
	rowCalls  int
}

func newFakeCredentialStore() *fakeCredentialStore {
	return &fakeCredentialStore{
		users: make(map[string]*Credentials),
		rows:  make(map[int64][]permission.Row),
	}
}

func (f *fakeCredentialStore) FindCredentials(_ context.Context, userName string) (*Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.credCalls++
	creds, ok := f.users[userName]
	if !ok {
		return nil, nil
	}
	copied := *creds
	return &copied, nil
}

func (f *fakeCredentialStore) FindUserPermissionRows(_ context.Context, userID int64) ([]permission.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rowCalls++
	return append([]permission.Row(nil), f.rows[userID]...), nil
}

func (f *fakeCredentialStore) setDisabled(userName string, disabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if creds, ok := f.users[userName]; ok {
		creds.Disabled = disabled
	}
}

func (f *fakeCredentialStore) credentialCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.credCalls
}

type engineFixture struct {
	engine *Engine
	store  *fakeCredentialStore
	mr     *miniredis.Miniredis
	rdb    *redis.Client
	hasher *password.Hasher
}

func (fx *engineFixture) close() {
	fx.engine.Close()
	fx.rdb.Close()
	fx.mr.Close()
}

// addUser seeds a user with the given password and permission rows.
func (fx *engineFixture) addUser(t *testing.T, id int64, userName, pass string, rows []permission.Row) {
	t.Helper()
	hash, err := fx.hasher.Hash(pass)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	fx.store.users[userName] = &Credentials{ID: id, UserName: userName, PasswordHash: hash}
	fx.store.rows[id] = rows
}

// seedCaptcha plants a known captcha code for the client fingerprint,
// bypassing image rendering.
func (fx *engineFixture) seedCaptcha(t *testing.T, fingerprint, code string) {
	t.Helper()
	fx.mr.Set("ac:captcha:"+fingerprint, code)
	fx.mr.SetTTL("ac:captcha:"+fingerprint, time.Minute)
}

func newEngineFixture(t *testing.T, mutate func(*Config)) *engineFixture {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	cfg := DefaultConfig()
	cfg.JWT.PrivateKey = priv
	cfg.JWT.PublicKey = pub
	cfg.Audit.Enabled = false
	if mutate != nil {
		mutate(&cfg)
	}

	store := newFakeCredentialStore()
	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithCredentialStore(store).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}

	// Cheap argon2 costs keep test logins fast; the engine verifies with
	// the parameters embedded in each PHC string.
	hasher, err := password.NewHasher(password.Config{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 16})
	if err != nil {
		t.Fatalf("new hasher: %v", err)
	}

	return &engineFixture{engine: engine, store: store, mr: mr, rdb: rdb, hasher: hasher}
}

func adminRows(userName string) []permission.Row {
	return []permission.Row{
		{RoleNames: "administrator", UserName: userName, NickName: "Root", ID: 1, PID: 0, Name: "System", Type: permission.TypeDirectory, Sort: 1},
		{RoleNames: "administrator", UserName: userName, ID: 2, PID: 1, Name: "Users", Path: "/system/users", Type: permission.TypeMenu, Sort: 2},
		{RoleNames: "administrator", UserName: userName, ID: 3, PID: 2, Name: "Add User", Type: permission.TypeButton, Permission: "system:user:add"},
	}
}

func editorRows(userName string) []permission.Row {
	return []permission.Row{
		{RoleNames: "editor", UserName: userName, NickName: "Eddie", Avatar: "/a.png", ID: 10, PID: 0, Name: "Content", Type: permission.TypeDirectory, Sort: 1},
		{RoleNames: "editor", UserName: userName, ID: 11, PID: 10, Name: "Articles", Path: "/content/articles", Type: permission.TypeMenu, Sort: 2},
		{RoleNames: "editor", UserName: userName, ID: 12, PID: 11, Name: "Publish", Type: permission.TypeButton, Permission: "content:article:publish"},
		{RoleNames: "editor", UserName: userName, ID: 13, PID: 11, Name: "Edit", Type: permission.TypeButton, Permission: "content:article:edit"},
	}
}

// login is the happy-path helper: seeds a captcha and performs a login that
// is expected to succeed.
func (fx *engineFixture) login(t *testing.T, userName, pass, ip, ua string) TokenPair {
	t.Helper()
	fx.seedCaptcha(t, Fingerprint(ip, ua), "ok1234")
	pair, err := fx.engine.Login(context.Background(), userName, pass, "ok1234", ip, ua)
	if err != nil {
		t.Fatalf("login %s: %v", userName, err)
	}
	return pair
}
