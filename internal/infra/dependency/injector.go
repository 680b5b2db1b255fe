// Package dependency provides dependency injection for the application.
package dependency

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/expense-tracker/backend/config"
	"github.com/expense-tracker/backend/internal/application/usecase/auth"
	"github.com/expense-tracker/backend/internal/application/usecase/category"
	"github.com/expense-tracker/backend/internal/application/usecase/expense"
	"github.com/expense-tracker/backend/internal/application/usecase/statistics"
	"github.com/expense-tracker/backend/internal/infra/server/router"
	"github.com/expense-tracker/backend/internal/integration/adapters"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/controller"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/middleware"
	"github.com/expense-tracker/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Router *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil, login rate limiting then falls back to process memory.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Injector {
	// Create repositories
	userRepo := persistence.NewUserRepository(db)
	tokenRepo := persistence.NewTokenRepository(db)
	categoryRepo := persistence.NewCategoryRepository(db)
	expenseRepo := persistence.NewExpenseRepository(db)

	// Create adapters/services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
		tokenRepo,
	)

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, categoryRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)
	getCurrentUserUseCase := auth.NewGetCurrentUserUseCase(userRepo)

	// Create category use cases
	createCategoryUseCase := category.NewCreateCategoryUseCase(categoryRepo)
	listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo)
	updateCategoryUseCase := category.NewUpdateCategoryUseCase(categoryRepo)
	deleteCategoryUseCase := category.NewDeleteCategoryUseCase(categoryRepo, expenseRepo)

	// Create expense use cases
	createExpenseUseCase := expense.NewCreateExpenseUseCase(expenseRepo, categoryRepo)
	listExpensesUseCase := expense.NewListExpensesUseCase(
		expenseRepo,
		cfg.Pagination.DefaultPageSize,
		cfg.Pagination.MaxPageSize,
	)
	getExpenseUseCase := expense.NewGetExpenseUseCase(expenseRepo)
	updateExpenseUseCase := expense.NewUpdateExpenseUseCase(expenseRepo, categoryRepo)
	deleteExpenseUseCase := expense.NewDeleteExpenseUseCase(expenseRepo)

	// Create statistics use cases
	getStatisticsUseCase := statistics.NewGetStatisticsUseCase(expenseRepo)
	categoryTrendUseCase := statistics.NewGetCategoryTrendUseCase(expenseRepo, categoryRepo)
	monthlyComparisonUseCase := statistics.NewGetMonthlyComparisonUseCase(expenseRepo)
	todaySummaryUseCase := statistics.NewGetTodaySummaryUseCase(expenseRepo)

	// Create controllers
	healthController := controller.NewHealthController()
	authController := controller.NewAuthController(
		registerUseCase,
		loginUseCase,
		refreshTokenUseCase,
		logoutUseCase,
		getCurrentUserUseCase,
	)
	categoryController := controller.NewCategoryController(
		createCategoryUseCase,
		listCategoriesUseCase,
		updateCategoryUseCase,
		deleteCategoryUseCase,
	)
	expenseController := controller.NewExpenseController(
		createExpenseUseCase,
		listExpensesUseCase,
		getExpenseUseCase,
		updateExpenseUseCase,
		deleteExpenseUseCase,
	)
	statisticsController := controller.NewStatisticsController(
		getStatisticsUseCase,
		categoryTrendUseCase,
		monthlyComparisonUseCase,
		todaySummaryUseCase,
	)

	// Create middleware
	loginRateLimiter := middleware.NewRateLimiter(
		redisClient,
		middleware.DefaultMaxLoginAttempts,
		middleware.DefaultLoginWindow,
	)
	authMiddleware := middleware.AuthMiddleware(tokenService)

	appRouter := router.NewRouter(
		healthController,
		authController,
		categoryController,
		expenseController,
		statisticsController,
		loginRateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config: cfg,
		DB:     db,
		Router: appRouter,
	}
}
