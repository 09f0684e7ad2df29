package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ansh-jadav/Movie-Review-system/internal/domain"
)

// keyPrefix namespaces this app's rows in the shared key/value table. The
// prefix is the sole isolation mechanism and the enumeration mechanism for
// ClearAll.
const keyPrefix = "criticscut_reviews_"

// ReviewsRepository persists review collections: one slot per movie
// identifier, holding the JSON-encoded array of review records, newest first.
type ReviewsRepository struct {
	pool *pgxpool.Pool
}

func storageKey(movieID string) string {
	return keyPrefix + movieID
}

// Get returns the collection stored for movieID. An absent slot is an empty
// collection, never an error. Malformed stored JSON is a defect state and
// surfaces as an error; this process is the sole writer.
func (r *ReviewsRepository) Get(ctx context.Context, movieID string) ([]domain.Review, error) {
	const query = `SELECT value FROM kv_store WHERE key = $1`

	var payload []byte
	err := r.pool.QueryRow(ctx, query, storageKey(movieID)).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return []domain.Review{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read review collection for %s: %w", movieID, err)
	}

	var reviews []domain.Review
	if err := json.Unmarshal(payload, &reviews); err != nil {
		return nil, fmt.Errorf("decode review collection for %s: %w", movieID, err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}

// Set serializes and overwrites the full collection for movieID. There is no
// partial update.
func (r *ReviewsRepository) Set(ctx context.Context, movieID string, reviews []domain.Review) error {
	if reviews == nil {
		reviews = []domain.Review{}
	}
	payload, err := json.Marshal(reviews)
	if err != nil {
		return fmt.Errorf("encode review collection for %s: %w", movieID, err)
	}

	const query = `
        INSERT INTO kv_store (key, value) VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
    `
	if _, err := r.pool.Exec(ctx, query, storageKey(movieID), payload); err != nil {
		return fmt.Errorf("write review collection for %s: %w", movieID, err)
	}
	return nil
}

// Add prepends review to movieID's collection (newest first) and persists it,
// returning the updated collection.
func (r *ReviewsRepository) Add(ctx context.Context, movieID string, review domain.Review) ([]domain.Review, error) {
	reviews, err := r.Get(ctx, movieID)
	if err != nil {
		return nil, err
	}
	reviews = append([]domain.Review{review}, reviews...)
	if err := r.Set(ctx, movieID, reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// Delete removes the review with reviewID from movieID's collection,
// preserving the order of the rest. It reports whether a record was removed.
func (r *ReviewsRepository) Delete(ctx context.Context, movieID, reviewID string) ([]domain.Review, bool, error) {
	reviews, err := r.Get(ctx, movieID)
	if err != nil {
		return nil, false, err
	}

	kept := make([]domain.Review, 0, len(reviews))
	removed := false
	for _, review := range reviews {
		if review.ID == reviewID {
			removed = true
			continue
		}
		kept = append(kept, review)
	}
	if !removed {
		return reviews, false, nil
	}

	if err := r.Set(ctx, movieID, kept); err != nil {
		return nil, false, err
	}
	return kept, true, nil
}

// ClearAll removes every slot in the namespace and reports how many were
// removed. Rows outside the namespace are untouched. Irreversible; callers
// must have confirmed with the user.
func (r *ReviewsRepository) ClearAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM kv_store WHERE key LIKE $1`, keyPrefix+"%")
	if err != nil {
		return 0, fmt.Errorf("clear review namespace: %w", err)
	}
	return tag.RowsAffected(), nil
}
