// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"daily-report-ai-api/internal/application/report"
	"daily-report-ai-api/internal/application/room"
	"daily-report-ai-api/internal/application/team"
	"daily-report-ai-api/internal/config"
	"daily-report-ai-api/internal/domain/repository"
	"daily-report-ai-api/internal/infrastructure/llm"
	"daily-report-ai-api/internal/infrastructure/persistence/postgres"
	"daily-report-ai-api/internal/infrastructure/persistence/redis"
	"daily-report-ai-api/internal/interfaces/http/handler"
	"daily-report-ai-api/internal/interfaces/http/middleware"
	"daily-report-ai-api/internal/interfaces/http/router"
	workflowprompt "daily-report-ai-api/internal/workflow/prompt"
	"daily-report-ai-api/pkg/logger"
)

// PostgresSet 数据库提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewUserRepository,
	postgres.NewChatRoomRepository,
	postgres.NewMessageRepository,
	postgres.NewReportContextRepository,
	postgres.NewReportRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.UserRepository), new(*postgres.UserRepository)),
	wire.Bind(new(repository.ChatRoomRepository), new(*postgres.ChatRoomRepository)),
	wire.Bind(new(repository.MessageRepository), new(*postgres.MessageRepository)),
	wire.Bind(new(repository.ReportContextRepository), new(*postgres.ReportContextRepository)),
	wire.Bind(new(repository.ReportRepository), new(*postgres.ReportRepository)),
)

// RedisSet 可选 Redis（未启用或不可达时退化为进程内锁、无缓存、不限流）
var RedisSet = wire.NewSet(
	ProvideRedisClientOptional,
	ProvideStatusCache,
	ProvideRoomLocker,
	ProvideRateLimiter,
)

// LLMSet 模型客户端提供者集合
var LLMSet = wire.NewSet(
	llm.NewEinoFactory,
	llm.NewRoleClients,
	workflowprompt.NewRegistry,
)

// ReportSet 日报流程提供者集合
var ReportSet = wire.NewSet(
	report.OptionsFromConfig,
	ProvideClassifier,
	ProvideOrchestrator,
	ProvideSynthesizer,
	report.NewStatusService,
)

// RoomSet 房间服务提供者集合
var RoomSet = wire.NewSet(
	ProvideRoomService,
)

// TeamSet 日报查询提供者集合
var TeamSet = wire.NewSet(
	team.NewService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideAuthHandler,
	ProvideHealthHandler,
	handler.NewUserHandler,
	handler.NewChatRoomHandler,
	handler.NewReportHandler,
	wire.Struct(new(router.RouterHandlers), "*"),
	router.NewWithDeps,
)

// ProvidePostgresClient 提供数据库客户端
func ProvidePostgresClient(ctx context.Context, cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.Postgres.AutoMigrate {
		if err := client.AutoMigrate(ctx); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClientOptional 提供 Redis 客户端，未启用或不可达时返回 nil
func ProvideRedisClientOptional(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		logger.Info(ctx, "redis disabled, using in-process room locks")
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(ctx, &cfg.Cache.Redis)
	if err != nil {
		logger.Warn(ctx, "redis not available, using in-process room locks", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideStatusCache 提供完成度缓存，无 Redis 时返回 nil 接口
func ProvideStatusCache(client *redis.Client) report.KVCache {
	if client == nil {
		return nil
	}
	return redis.NewCache(client)
}

// ProvideRoomLocker 提供房间锁，无 Redis 时使用进程内锁
func ProvideRoomLocker(client *redis.Client, cfg *config.Config) report.Locker {
	if client == nil {
		return report.NewLocalLocker(cfg.Report.LockWait)
	}
	return redis.NewRoomLocker(client, cfg.Report.LockTTL, cfg.Report.LockWait)
}

// ProvideRateLimiter 提供限流器，无 Redis 时返回 nil 接口（不限流）
func ProvideRateLimiter(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return redis.NewRateLimiter(client)
}

// ProvideClassifier 提供话语分类器
func ProvideClassifier(clients *llm.RoleClients, registry *workflowprompt.Registry, opts report.Options) report.Classifier {
	return report.NewLLMClassifier(clients.Classifier, registry, opts.Language)
}

// ProvideOrchestrator 提供对话编排器
func ProvideOrchestrator(
	tx repository.Transactor,
	rooms repository.ChatRoomRepository,
	messages repository.MessageRepository,
	contexts repository.ReportContextRepository,
	classifier report.Classifier,
	clients *llm.RoleClients,
	locker report.Locker,
	cache report.KVCache,
	registry *workflowprompt.Registry,
	opts report.Options,
) *report.Orchestrator {
	return report.NewOrchestrator(tx, rooms, messages, contexts, classifier, clients.Responder, locker, cache, registry, opts)
}

// ProvideSynthesizer 提供日报生成器
func ProvideSynthesizer(
	tx repository.Transactor,
	rooms repository.ChatRoomRepository,
	contexts repository.ReportContextRepository,
	reports repository.ReportRepository,
	clients *llm.RoleClients,
	locker report.Locker,
	cache report.KVCache,
	registry *workflowprompt.Registry,
	opts report.Options,
) *report.Synthesizer {
	return report.NewSynthesizer(tx, rooms, contexts, reports, clients.Reporter, locker, cache, registry, opts)
}

// ProvideRoomService 提供房间服务
func ProvideRoomService(
	tx repository.Transactor,
	rooms repository.ChatRoomRepository,
	messages repository.MessageRepository,
	contexts repository.ReportContextRepository,
	reports repository.ReportRepository,
	cache report.KVCache,
	locker report.Locker,
	cfg *config.Config,
) (*room.Service, error) {
	return room.NewService(tx, rooms, messages, contexts, reports, cache, locker, room.Options{
		Greeting:       cfg.Report.Greeting,
		OwnerCacheSize: cfg.Report.OwnerCacheSize,
	})
}

// ProvideAuthHandler 提供认证处理器
func ProvideAuthHandler(cfg *config.Config, users repository.UserRepository) *handler.AuthHandler {
	return handler.NewAuthHandler(cfg.Security.JWT, users)
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, pg *postgres.Client, redisClient *redis.Client) *handler.HealthHandler {
	return handler.NewHealthHandler(pg, redisClient, cfg.App.Version)
}
