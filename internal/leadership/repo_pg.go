package leadership

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// PGRepo keeps predictions in Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Insert(ctx context.Context, p Prediction) (Prediction, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	factors, err := json.Marshal(p.Factors)
	if err != nil {
		return Prediction{}, fmt.Errorf("encode factors: %w", err)
	}
	const query = `
INSERT INTO leadership_predictions
  (id, user_id, prediction_score, behavioral_score, performance_score, engagement_score, factors, model, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9)`
	_, err = r.DB.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		nullableFloat(p.PredictionScore),
		nullableFloat(p.BehavioralScore),
		nullableFloat(p.PerformanceScore),
		nullableFloat(p.EngagementScore),
		string(factors),
		p.Model,
		p.CreatedAt,
	)
	if err != nil {
		return Prediction{}, err
	}
	return p, nil
}

func (r *PGRepo) List(ctx context.Context, userID string, limit int) ([]map[string]any, error) {
	if limit <= 0 {
		limit = 1
	}
	const query = `
SELECT id, user_id, prediction_score, behavioral_score, performance_score, engagement_score, factors, model, created_at
FROM leadership_predictions
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]map[string]any, 0)
	for rows.Next() {
		var p Prediction
		var prediction, behavioral, perf, eng sql.NullFloat64
		var factors, model sql.NullString
		if err := rows.Scan(&p.ID, &p.UserID, &prediction, &behavioral, &perf, &eng, &factors, &model, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.PredictionScore = fromNull(prediction)
		p.BehavioralScore = fromNull(behavioral)
		p.PerformanceScore = fromNull(perf)
		p.EngagementScore = fromNull(eng)
		p.Model = model.String
		if factors.Valid && factors.String != "" {
			// A malformed factors column degrades to empty narrative.
			_ = json.Unmarshal([]byte(factors.String), &p.Factors)
		}
		out = append(out, p.Record())
	}
	return out, rows.Err()
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
