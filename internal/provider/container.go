package provider

import (
	"github.com/loyalty-next/internal/authz"
	"github.com/loyalty-next/internal/cache"
	"github.com/loyalty-next/internal/config"
	"github.com/loyalty-next/internal/logger"
	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/queue"
	"github.com/loyalty-next/internal/repository"
	"github.com/loyalty-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo     repository.AdminRepository
	UserRepo      repository.UserRepository
	BusinessRepo  repository.BusinessRepository
	CustomerRepo  repository.CustomerRepository
	CardRepo      repository.LoyaltyCardRepository
	ProgramRepo   repository.LoyaltyProgramRepository
	RewardRepo    repository.RewardRepository
	CodeRepo      repository.RedemptionCodeRepository
	QRCodeRepo    repository.QRCodeRepository
	SettingRepo   repository.SettingRepository
	TxnRepo       repository.TransactionRepository
	DashboardRepo repository.DashboardRepository

	// Services
	AuthzService     *authz.Service
	AuthService      *service.AuthService
	UserAuthService  *service.UserAuthService
	EmailService     *service.EmailService
	CaptchaService   *service.CaptchaService
	BusinessService  *service.BusinessService
	ProgramService   *service.LoyaltyProgramService
	RewardService    *service.RewardService
	CodeService      *service.RedemptionCodeService
	QRCodeService    *service.QRCodeService
	SettingService   *service.SettingService
	CustomerService  *service.CustomerService
	PointsService    *service.PointsService
	DashboardService *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.BusinessRepo = repository.NewBusinessRepository(db)
	c.CustomerRepo = repository.NewCustomerRepository(db)
	c.CardRepo = repository.NewLoyaltyCardRepository(db)
	c.ProgramRepo = repository.NewLoyaltyProgramRepository(db)
	c.RewardRepo = repository.NewRewardRepository(db)
	c.CodeRepo = repository.NewRedemptionCodeRepository(db)
	c.QRCodeRepo = repository.NewQRCodeRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
	c.TxnRepo = repository.NewTransactionRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.SettingService = service.NewSettingService(c.SettingRepo)
	c.PointsService = service.NewPointsService(c.Config, c.CustomerRepo, c.CardRepo, c.ProgramRepo, c.TxnRepo, c.QueueClient)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.CustomerRepo, c.BusinessRepo, c.PointsService, c.QueueClient)
	c.BusinessService = service.NewBusinessService(c.BusinessRepo, c.UserRepo)
	c.ProgramService = service.NewLoyaltyProgramService(c.ProgramRepo, c.BusinessRepo)
	c.RewardService = service.NewRewardService(c.RewardRepo, c.ProgramRepo)
	c.CodeService = service.NewRedemptionCodeService(c.Config, c.CodeRepo, c.RewardRepo, c.CustomerRepo, c.PointsService, c.QueueClient)
	c.QRCodeService = service.NewQRCodeService(c.QRCodeRepo)
	c.CustomerService = service.NewCustomerService(c.CustomerRepo, c.PointsService)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}
