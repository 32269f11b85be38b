// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/cashsplit/backend/config"
	"github.com/cashsplit/backend/internal/infra/dependency"
	"github.com/cashsplit/backend/internal/integration/cache"
	"github.com/cashsplit/backend/internal/integration/email"
	"github.com/cashsplit/backend/internal/integration/persistence/model"
	"github.com/cashsplit/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

var (
	suiteInit sync.Once
	testDB    *mock.Db
	testRedis *redis.Client
	resendAPI *mock.ApiMock
)

// TestContext holds the state of one scenario.
type TestContext struct {
	cfg      *config.Config
	db       *mock.Db
	redis    *redis.Client
	resend   *mock.ApiMock
	injector *dependency.Injector
	server   *httptest.Server
	client   *http.Client

	headers      map[string]string
	accessToken  string
	refreshToken string
	response     *response

	users       map[string]*scenarioUser
	groupID     uuid.UUID
	groupOwner  string
	version     int64
	lastExpense uuid.UUID
	expenses    map[string]uuid.UUID
}

type scenarioUser struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Password     string
	AccessToken  string
	RefreshToken string
}

type response struct {
	status int
	header http.Header
	body   any
	raw    []byte
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	ctx.AfterSuite(func() {
		if resendAPI != nil {
			resendAPI.Close()
		}
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	test := &TestContext{
		client: &http.Client{Timeout: 10 * time.Second},
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		test.after()
		return ctx, nil
	})

	test.registerHTTPSteps(ctx)
	test.registerLedgerSteps(ctx)
	test.registerEmailSteps(ctx)
}

func openSuiteResources() {
	testDB = mock.NewDb(model.All())
	testRedis = mock.NewRedis()
	resendAPI = mock.NewApiServer()
	resendAPI.Start()
}

func newTestConfig(resendURL string) *config.Config {
	cfg := config.Load()
	cfg.Server.Environment = "test"
	cfg.Server.AuthRateLimit = 1000
	cfg.Server.PasswordHashCost = bcrypt.MinCost
	cfg.Database.Driver = "sqlite"
	cfg.Database.URL = "file::memory:"
	cfg.Redis.Enabled = true
	cfg.Redis.BalanceTTL = time.Minute
	cfg.JWT.Secret = testJWTSecret
	cfg.Email.ResendAPIKey = "re_test"
	cfg.Email.ResendBaseURL = resendURL
	cfg.Email.FromName = "CashSplit"
	cfg.Email.FromEmail = "noreply@cashsplit.test"
	cfg.Email.AppBaseURL = "https://cashsplit.test"
	cfg.Email.WorkerEnabled = false
	return cfg
}

func (t *TestContext) before() error {
	suiteInit.Do(openSuiteResources)

	t.db = testDB
	t.redis = testRedis
	t.resend = resendAPI

	if err := t.db.ClearDB(); err != nil {
		return err
	}
	if err := mock.ClearRedis(t.redis); err != nil {
		return err
	}
	t.resend.Clear()
	t.resend.SetResponse(-1, http.MethodPost, "/emails", http.StatusOK, map[string]any{"id": "resend-test"})

	t.cfg = newTestConfig(t.resend.GetUrl())

	sender, err := email.NewResendClient(t.cfg.Email)
	if err != nil {
		return err
	}
	balanceCache := cache.NewRedisBalanceCacheWithClient(t.redis, t.cfg.Redis.BalanceTTL)

	injector, err := dependency.NewInjector(t.cfg, t.db.Database, balanceCache, sender)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	t.injector = injector
	t.server = httptest.NewServer(injector.Router.Setup(t.cfg.Server.Environment))

	t.headers = make(map[string]string)
	t.accessToken = ""
	t.refreshToken = ""
	t.response = nil
	t.users = make(map[string]*scenarioUser)
	t.groupID = uuid.Nil
	t.groupOwner = ""
	t.version = 0
	t.lastExpense = uuid.Nil
	t.expenses = make(map[string]uuid.UUID)

	return nil
}

func (t *TestContext) after() {
	if t.server != nil {
		t.server.Close()
		t.server = nil
	}
}

func (t *TestContext) theAPIServerIsRunning() error {
	if t.server == nil {
		return fmt.Errorf("test server is not running")
	}
	resp, err := t.client.Get(t.server.URL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}
