package worker

import (
	"context"

	"genassist/internal/config"
	"genassist/internal/infra"
	"genassist/internal/worker/handlers"
	"genassist/internal/worker/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type Server struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

// NewServer 创建消费工作流完成任务的 asynq Worker
func NewServer(
	cfg *config.RedisConfig,
	runner handlers.CompletionRunner,
	logger *zap.Logger,
) *Server {
	logger = logger.Named("worker")
	srv := asynq.NewServer(
		infra.AsynqRedisOpt(cfg),
		asynq.Config{
			Concurrency: 10, // 并发 worker 数
			Queues: map[string]int{
				tasks.QueueWorkflow: 6,
				"default":           1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("任务执行失败",
					zap.String("type", task.Type()),
					zap.Error(err),
				)
			}),
		},
	)

	mux := asynq.NewServeMux()

	workflowHandler := handlers.NewWorkflowHandler(runner, logger)
	mux.HandleFunc(tasks.TypeCompleteWorkflow, workflowHandler.HandleCompleteWorkflow)

	return &Server{
		server: srv,
		mux:    mux,
		logger: logger,
	}
}

// Run 启动 Worker 服务器
func (s *Server) Run() error {
	s.logger.Info("Worker 服务器启动中...")
	return s.server.Run(s.mux)
}

// Start 非阻塞启动
func (s *Server) Start() error {
	s.logger.Info("Worker 服务器启动中 (后台)...")
	return s.server.Start(s.mux)
}

// Shutdown 停止 Worker 服务器
func (s *Server) Shutdown() {
	s.logger.Info("Worker 服务器停止中...")
	s.server.Shutdown()
}
