package cmd

import (
	"github.com/redis/rueidis"
	"gorm.io/gorm"

	config "repair-pool.com/repair-pool/internal/configs"
	"repair-pool.com/repair-pool/internal/lease"
	"repair-pool.com/repair-pool/internal/notify"
	repository "repair-pool.com/repair-pool/internal/repositories"
	"repair-pool.com/repair-pool/internal/services"
)

// application holds the wiring shared by every command.
type application struct {
	cfg       config.Config
	db        *gorm.DB
	residents *repository.ResidentRepository
	workflow  *services.WorkflowService
	scheduler *services.AwardScheduler
	redis     rueidis.Client
}

func bootstrap() *application {
	cfg := config.Load(configPath)
	db := config.NewDatabaseClient(cfg.DatabaseDSN)

	app := &application{
		cfg:       cfg,
		db:        db,
		residents: repository.NewResidentRepository(db),
	}

	var (
		notifier notify.Notifier = notify.NewLogNotifier()
		leases   lease.Manager   = lease.NewLocalManager(cfg.AwardScanInterval())
	)
	if cfg.RedisEnabled {
		app.redis = config.NewRedisClient(cfg)
		notifier = notify.NewRedisNotifier(app.redis, cfg.RedisNotifyChannel)
		leases = lease.NewRedisManager(app.redis, cfg.RedisLeaseKey, cfg.AwardScanInterval())
	}

	app.workflow = services.NewWorkflowService(
		repository.NewTaskRepository(db),
		app.residents,
		notifier,
		services.Options{
			MinApprovals:     cfg.CouncilMinApprovals,
			MaxStartingPrice: cfg.MaxStartingPrice,
			MaxAttempts:      cfg.SaveMaxAttempts,
			BiddingWindow:    cfg.BiddingWindow(),
		},
	)
	app.scheduler = services.NewAwardScheduler(app.workflow, leases, cfg.AwardScanInterval())

	return app
}

func (a *application) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
