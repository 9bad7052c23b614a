// Package main 初始化数据库结构与演示账号
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"daily-report-ai-api/internal/application/room"
	"daily-report-ai-api/internal/config"
	"daily-report-ai-api/internal/domain/entity"
	"daily-report-ai-api/internal/wire"
)

const (
	defaultTeamID   uint64 = 1
	defaultRoomName        = "첫 번째 대화"
)

type seedUser struct {
	username string
	name     string
	role     entity.UserRole
}

var seedUsers = []seedUser{
	{username: "user", name: "김팀원", role: entity.UserRoleMember},
	{username: "leader", name: "박팀장", role: entity.UserRoleLeader},
}

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. 初始化数据层并同步表结构
	dataLayer, cleanup, err := wire.InitializePostgresOnly(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	if err := dataLayer.PgClient.AutoMigrate(ctx); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	rooms, err := room.NewService(
		dataLayer.TxManager,
		dataLayer.ChatRoomRepo,
		dataLayer.MessageRepo,
		dataLayer.ReportContextRepo,
		dataLayer.ReportRepo,
		nil,
		nil,
		room.Options{Greeting: cfg.Report.Greeting},
	)
	if err != nil {
		log.Fatalf("failed to create room service: %v", err)
	}

	// 3. 创建演示账号，密码可通过环境变量覆盖
	password := os.Getenv("BOOTSTRAP_PASSWORD")
	if password == "" {
		password = "password" // 生产环境请务必通过环境变量设置
	}

	for _, su := range seedUsers {
		existing, err := dataLayer.UserRepo.GetByUsername(ctx, su.username)
		if err != nil {
			log.Fatalf("failed to check user %s: %v", su.username, err)
		}
		if existing != nil {
			fmt.Printf("User %s already exists.\n", su.username)
			continue
		}

		teamID := defaultTeamID
		u := entity.NewUser(su.username, su.name, su.role, &teamID)
		if err := u.SetPassword(password); err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		if err := dataLayer.UserRepo.Create(ctx, u); err != nil {
			log.Fatalf("failed to create user %s: %v", su.username, err)
		}
		fmt.Printf("User %s (%s) created with ID: %d\n", su.username, su.role, u.ID)

		// 4. 为新用户创建默认房间（含空上下文与开场白）
		r, err := rooms.Create(ctx, u.ID, defaultRoomName)
		if err != nil {
			log.Fatalf("failed to create default room for %s: %v", su.username, err)
		}
		fmt.Printf("Default room created with ID: %d\n", r.ID)
	}

	fmt.Println("Bootstrap completed successfully.")
}
