package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/simaogato/vehicleplan-backend/internal/domain"
)

// goalRepository implements domain.GoalRepository
type goalRepository struct {
	db *DB
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *DB) domain.GoalRepository {
	return &goalRepository{db: db}
}

// Save stores the goal as a JSON document
func (r *goalRepository) Save(ctx context.Context, record *domain.GoalRecord) error {
	query := `
		INSERT INTO user_goals (id, user_id, goal_data, created_at)
		VALUES ($1, $2, $3, $4)
	`

	data, err := json.Marshal(record.Goal)
	if err != nil {
		return fmt.Errorf("failed to encode goal: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		string(data),
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save goal: %w", err)
	}

	return nil
}
