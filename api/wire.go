package api

import (
	"context"
	"errors"
	"fmt"

	"genassist/internal/ai"
	"genassist/internal/clock"
	"genassist/internal/config"
	"genassist/internal/infra"
	"genassist/internal/infra/queue"
	"genassist/internal/intent"
	"genassist/internal/notification"
	"genassist/internal/storage"
	"genassist/internal/user"
	"genassist/internal/worker"
	"genassist/internal/workflow"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// AppContainer 应用依赖容器
type AppContainer struct {
	Config     *config.Config
	Store      storage.Store
	Redis      redis.UniversalClient
	Classifier *intent.Classifier
	Workflows  *workflow.Service
	Users      *user.Service
	Hub        *notification.ActivityHub
	// Worker 仅在 asynq 调度模式下存在
	Worker *worker.Server

	closers []func() error
}

// BuildContainer 按配置初始化存储、Redis、分类器、编排器与推送 Hub
func BuildContainer(ctx context.Context, cfg *config.Config, zl *zap.Logger) (_ *AppContainer, err error) {
	if zl == nil {
		zl = zap.NewNop()
	}
	c := &AppContainer{Config: cfg}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	store, err := openStore(ctx, &cfg.Database, zl)
	if err != nil {
		return nil, err
	}
	c.Store = store
	c.onClose(store.Close)

	useAsynq := cfg.Workflow.Scheduler == "asynq"
	redisCache := cfg.Classifier.CacheEnabled && cfg.Classifier.CacheBackend == "redis"
	if redisCache || useAsynq {
		rdb, err := infra.OpenRedis(ctx, &cfg.Redis, zl)
		switch {
		case err == nil:
			c.Redis = rdb
			c.onClose(rdb.Close)
		case useAsynq:
			return nil, err
		default:
			zl.Warn("Redis 不可用，意图缓存改用进程内 LFU", zap.Error(err))
		}
	}

	c.Users = user.NewService(store, zl.Named("user"))
	if err := c.Users.EnsureSeed(ctx, cfg.Workflow.DefaultUserID); err != nil {
		return nil, err
	}

	c.Classifier = newClassifier(cfg, c.Redis, zl)

	templates, err := loadTemplates(cfg.Workflow.TemplatesPath)
	if err != nil {
		return nil, err
	}

	c.Hub = notification.NewActivityHub(notification.WithHubLogger(zl))
	c.onClose(func() error { c.Hub.Close(); return nil })

	var (
		scheduler workflow.Scheduler
		local     *workflow.LocalScheduler
	)
	if useAsynq {
		q := queue.NewAsynqScheduler(&cfg.Redis, zl)
		c.onClose(q.Close)
		scheduler = q
	} else {
		local = workflow.NewLocalScheduler(clock.NewReal(), zl)
		c.onClose(func() error { local.Stop(); return nil })
		scheduler = local
	}

	c.Workflows = workflow.NewService(store, templates, scheduler,
		workflow.WithCompletionDelay(cfg.Workflow.CompletionDelay),
		workflow.WithPublisher(c.Hub),
		workflow.WithLogger(zl.Named("workflow")),
	)
	if local != nil {
		local.SetHandler(c.Workflows.RunCompletion)
	} else {
		c.Worker = worker.NewServer(&cfg.Redis, c.Workflows, zl)
	}

	zl.Info("应用依赖初始化完成",
		zap.String("storage", cfg.Database.Driver),
		zap.String("scheduler", cfg.Workflow.Scheduler),
		zap.Bool("intent_cache", cfg.Classifier.CacheEnabled),
	)
	return c, nil
}

// ReadinessDeps 就绪检查依赖
func (c *AppContainer) ReadinessDeps() map[string]Pinger {
	deps := map[string]Pinger{"storage": c.Store}
	if c.Redis != nil {
		rdb := c.Redis
		deps["redis"] = PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}
	return deps
}

// Close 按初始化的逆序释放资源
func (c *AppContainer) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *AppContainer) onClose(f func() error) {
	c.closers = append(c.closers, f)
}

func openStore(ctx context.Context, cfg *config.DatabaseConfig, zl *zap.Logger) (storage.Store, error) {
	if cfg.Driver == "" || cfg.Driver == "memory" {
		zl.Info("使用内存存储，数据随进程退出丢失")
		return storage.NewMemoryStore(), nil
	}

	db, err := infra.OpenDatabase(cfg, zl)
	if err != nil {
		return nil, err
	}
	gs := storage.NewGormStore(db)
	if cfg.AutoMigrate {
		if err := gs.Migrate(ctx); err != nil {
			_ = gs.Close()
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	} else {
		zl.Info("跳过自动迁移（配置已禁用）")
	}
	return gs, nil
}

func newClassifier(cfg *config.Config, rdb redis.UniversalClient, zl *zap.Logger) *intent.Classifier {
	opts := []intent.Option{intent.WithLogger(zl)}
	if cfg.Classifier.CacheEnabled {
		if rdb != nil && cfg.Classifier.CacheBackend == "redis" {
			opts = append(opts, intent.WithCache(intent.NewRedisCache(rdb, cfg.Classifier.CacheTTL)))
		} else {
			opts = append(opts, intent.WithCache(intent.NewLocalCache(cfg.Classifier.CacheCapacity, cfg.Classifier.CacheTTL)))
		}
	}

	client, err := ai.NewModelClient(cfg.AI.OpenAI, zl)
	if err != nil {
		zl.Warn("语言模型未就绪，意图识别仅使用本地规则", zap.Error(err))
		return intent.NewClassifier(nil, opts...)
	}
	return intent.NewClassifier(client, opts...)
}

func loadTemplates(path string) (*workflow.TemplateTable, error) {
	if path == "" {
		return workflow.DefaultTemplates()
	}
	return workflow.LoadTemplates(path)
}
