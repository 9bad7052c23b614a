// Package wire 提供依赖注入配置
package wire

import (
	"daily-report-ai-api/internal/infrastructure/persistence/postgres"
)

// PostgresOnlyDataLayer 仅包含数据库的数据层（用于 bootstrap）
type PostgresOnlyDataLayer struct {
	PgClient          *postgres.Client
	TxManager         *postgres.TxManager
	UserRepo          *postgres.UserRepository
	ChatRoomRepo      *postgres.ChatRoomRepository
	MessageRepo       *postgres.MessageRepository
	ReportContextRepo *postgres.ReportContextRepository
	ReportRepo        *postgres.ReportRepository
}
