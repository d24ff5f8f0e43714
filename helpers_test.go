package alder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// Shared test types and constructors used across test files.

// mustRegister calls t.Fatal if registration fails.
func mustRegister(t *testing.T, c Container, constructor interface{}, opts ...Option) {
	t.Helper()
	require.NoError(t, c.Register(constructor, opts...))
}

// mustRegisterNamed calls t.Fatal if named registration fails.
func mustRegisterNamed(t *testing.T, c Container, name string, constructor interface{}, opts ...Option) {
	t.Helper()
	require.NoError(t, c.RegisterNamed(name, constructor, opts...))
}

// mustBuild calls t.Fatal if build fails.
func mustBuild(t *testing.T, c Container) {
	t.Helper()
	require.NoError(t, c.Build())
}

type testLogger struct{ Prefix string }
type testConfig struct{ DSN string }

type testDatabase struct {
	Config *testConfig
	Logger *testLogger
}

type testRepository interface {
	Kind() string
}

type testSQLRepository struct {
	DB *testDatabase
}

func (r *testSQLRepository) Kind() string { return "sql" }

// Non-zero size so distinct instances have distinct addresses; assert.Same
// and assert.NotSame compare pointers, and the runtime gives all zero-size
// allocations the same address.
type testMemRepository struct{ _ byte }

func (r *testMemRepository) Kind() string { return "memory" }

type testOrderService struct {
	Repo testRepository
}

type testSession struct{ ID int }

type testUnitOfWork struct {
	Session *testSession
	Repo    testRepository
}

type testCircA struct{ B *testCircB }
type testCircB struct{ C *testCircC }
type testCircC struct{ A *testCircA }

func newTestLogger() *testLogger { return &testLogger{Prefix: "app"} }
func newTestConfig() *testConfig { return &testConfig{DSN: "postgres://localhost"} }

func newTestDatabase(cfg *testConfig, log *testLogger) *testDatabase {
	return &testDatabase{Config: cfg, Logger: log}
}

func newTestSQLRepository(db *testDatabase) *testSQLRepository {
	return &testSQLRepository{DB: db}
}

func newTestOrderService(repo testRepository) *testOrderService {
	return &testOrderService{Repo: repo}
}

func newTestSession() *testSession { return &testSession{} }

func newTestUnitOfWork(sess *testSession, repo testRepository) *testUnitOfWork {
	return &testUnitOfWork{Session: sess, Repo: repo}
}

func newTestCircA(b *testCircB) *testCircA { return &testCircA{B: b} }
func newTestCircB(c *testCircC) *testCircB { return &testCircB{C: c} }
func newTestCircC(a *testCircA) *testCircC { return &testCircC{A: a} }

// testClosable records its close order through a shared slice.
type testClosable struct {
	Name   string
	Closed bool
	Order  *[]string
}

func (c *testClosable) Close() error {
	c.Closed = true
	if c.Order != nil {
		*c.Order = append(*c.Order, c.Name)
	}
	return nil
}

// testFailCloser implements io.Closer but returns an error.
type testFailCloser struct{}

func (f *testFailCloser) Close() error {
	return errors.New("close failed")
}
