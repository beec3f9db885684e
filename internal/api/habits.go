package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/flowday/flowday/internal/constants"
	"github.com/flowday/flowday/internal/logger"
	"github.com/flowday/flowday/internal/models"
)

// CreateHabitBatch submits a weekly meal habit. Each call carries a fresh
// idempotency key; the request is sent at most once.
func (c *Client) CreateHabitBatch(ctx context.Context, req models.HabitBatchRequest) (models.HabitBatchResult, error) {
	if len(req.SubEntities) == 0 {
		return models.HabitBatchResult{}, ErrEmptySubEntities
	}

	key := uuid.New().String()
	header := http.Header{}
	header.Set(constants.IdempotencyHeader, key)

	var result models.HabitBatchResult
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   constants.PathHabitBatch,
		body:   req,
		header: header,
	}, &result)
	if err != nil {
		logger.Error("Habit batch rejected", "meal", req.EntityID, "idempotency_key", key, "error", err)
		return models.HabitBatchResult{}, err
	}

	logger.Info("Habit batch created",
		"meal", req.EntityID,
		"weekday", req.TargetWeekday,
		"user_configured", result.UserConfiguredCount,
		"auto_added", result.AutoAddedCount,
	)
	return result, nil
}
