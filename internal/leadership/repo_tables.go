package leadership

import (
	"context"
	"errors"
	"fmt"

	"pathways-backend/internal/baas"
)

// TablesRepo keeps predictions in the BaaS table.
type TablesRepo struct {
	Tables baas.Tables
}

func (r *TablesRepo) Insert(ctx context.Context, p Prediction) (Prediction, error) {
	var created []Prediction
	if err := r.Tables.Insert(ctx, Table, p, &created); err != nil {
		return Prediction{}, fmt.Errorf("insert prediction: %w", err)
	}
	if len(created) == 0 {
		return Prediction{}, errors.New("insert prediction: empty representation")
	}
	return created[0], nil
}

// List returns rows untouched so legacy layouts still reach the normalizer.
func (r *TablesRepo) List(ctx context.Context, userID string, limit int) ([]map[string]any, error) {
	var rows []map[string]any
	q := baas.Where(baas.Eq("user_id", userID)).Newest().WithLimit(limit)
	if err := r.Tables.Select(ctx, Table, q, &rows); err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	return rows, nil
}
