package leadership

import "context"

// Repo stores predictions and returns them as raw records, newest first.
type Repo interface {
	Insert(ctx context.Context, p Prediction) (Prediction, error)
	List(ctx context.Context, userID string, limit int) ([]map[string]any, error)
}
