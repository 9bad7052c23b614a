package postgres

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"daily-report-ai-api/internal/domain/entity"
)

// AutoMigrate 同步表结构
func (c *Client) AutoMigrate(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "postgres.AutoMigrate",
		trace.WithAttributes(attribute.String("db.system", c.driver)))
	defer span.End()

	if err := c.db.WithContext(ctx).AutoMigrate(
		&entity.User{},
		&entity.ChatRoom{},
		&entity.Message{},
		&entity.ReportContext{},
		&entity.Report{},
	); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
