// Package dependency provides dependency injection for the application.
package dependency

import (
	"fmt"

	"github.com/cashsplit/backend/config"
	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/application/usecase/auth"
	"github.com/cashsplit/backend/internal/application/usecase/balance"
	"github.com/cashsplit/backend/internal/application/usecase/expense"
	"github.com/cashsplit/backend/internal/application/usecase/group"
	"github.com/cashsplit/backend/internal/application/usecase/profile"
	"github.com/cashsplit/backend/internal/application/usecase/settlement"
	"github.com/cashsplit/backend/internal/infra/db"
	"github.com/cashsplit/backend/internal/infra/server/router"
	"github.com/cashsplit/backend/internal/integration/adapters"
	"github.com/cashsplit/backend/internal/integration/cache"
	"github.com/cashsplit/backend/internal/integration/email"
	"github.com/cashsplit/backend/internal/integration/email/templates"
	"github.com/cashsplit/backend/internal/integration/entrypoint/controller"
	"github.com/cashsplit/backend/internal/integration/entrypoint/middleware"
	"github.com/cashsplit/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config      *config.Config
	Database    *db.Database
	Router      *router.Router
	EmailWorker *email.Worker
}

// NewInjector wires repositories, use cases and controllers. redisCache may
// be nil, in which case balances are recomputed on every read.
func NewInjector(cfg *config.Config, database *db.Database, redisCache *cache.RedisBalanceCache, sender adapter.EmailSender) (*Injector, error) {
	gormDB := database.DB()
	timeout := cfg.Database.QueryTimeout

	// Create repositories
	userRepo := persistence.NewUserRepository(gormDB, timeout)
	tokenRepo := persistence.NewTokenRepository(gormDB)
	groupRepo := persistence.NewGroupRepository(gormDB, timeout)
	ledgerRepo := persistence.NewLedgerRepository(gormDB, timeout)
	emailQueueRepo := persistence.NewEmailQueueRepository(gormDB)

	// Create adapters/services
	passwordService := adapters.NewPasswordService(cfg.Server.PasswordHashCost)
	tokenService := adapters.NewTokenService(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
		tokenRepo,
	)
	emailService := email.NewService(emailQueueRepo, cfg.Email.AppBaseURL)

	var balanceCache adapter.BalanceCache = cache.NoopBalanceCache{}
	var cacheHealth controller.HealthCheck
	if redisCache != nil {
		balanceCache = redisCache
		cacheHealth = redisCache.Ping
	}
	calculator := balance.NewCalculator(balanceCache)

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	worker := email.NewWorker(emailQueueRepo, sender, renderer, email.WorkerConfig{
		PollInterval:  cfg.Email.PollInterval,
		BatchSize:     cfg.Email.BatchSize,
		RetentionDays: cfg.Email.RetentionDays,
	})

	// Create controllers
	healthController := controller.NewHealthController(database.Ping, cacheHealth)

	authController := controller.NewAuthController(
		auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService),
		auth.NewLoginUserUseCase(userRepo, passwordService, tokenService),
		auth.NewRefreshTokenUseCase(userRepo, tokenService),
		auth.NewLogoutUserUseCase(tokenService),
	)

	profileController := controller.NewProfileController(
		profile.NewGetProfileUseCase(userRepo),
		profile.NewUpdateProfileUseCase(userRepo),
		profile.NewListSuggestionsUseCase(userRepo),
	)

	groupController := controller.NewGroupController(
		group.NewCreateGroupUseCase(groupRepo, userRepo),
		group.NewListGroupsUseCase(groupRepo, ledgerRepo, calculator),
		group.NewGetGroupUseCase(ledgerRepo),
		group.NewAddMemberUseCase(ledgerRepo, userRepo, emailService),
		group.NewLeaveGroupUseCase(ledgerRepo, calculator),
	)

	expenseController := controller.NewExpenseController(
		expense.NewCreateExpenseUseCase(ledgerRepo),
		expense.NewGetExpenseUseCase(ledgerRepo),
		expense.NewUpdateExpenseUseCase(ledgerRepo),
		expense.NewDeleteExpenseUseCase(ledgerRepo),
	)

	balanceController := controller.NewBalanceController(
		balance.NewGetBalancesUseCase(ledgerRepo, calculator),
		settlement.NewRecordSettlementUseCase(ledgerRepo, calculator, emailService),
	)

	// Create middleware
	authRateLimiter := middleware.NewRateLimiter(cfg.Server.AuthRateLimit, cfg.Server.AuthRateWindow)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	r := router.NewRouter(
		healthController,
		authController,
		profileController,
		groupController,
		expenseController,
		balanceController,
		authRateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config:      cfg,
		Database:    database,
		Router:      r,
		EmailWorker: worker,
	}, nil
}
