package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Thumb is a review's sentiment flag.
type Thumb string

const (
	ThumbUp   Thumb = "up"
	ThumbDown Thumb = "down"
)

// Valid reports whether t is one of the two accepted values.
func (t Thumb) Valid() bool {
	return t == ThumbUp || t == ThumbDown
}

// Review is a single user-authored review. Immutable once created; deleted
// individually or in bulk, never updated.
type Review struct {
	ID    string    `json:"id"`
	Text  string    `json:"text"`
	Thumb Thumb     `json:"thumb"`
	TS    time.Time `json:"ts"`
}

// NewReview builds a review with a fresh identifier and UTC creation
// timestamp. Identifier uniqueness within a collection relies on the UUID
// collision probability being negligible.
func NewReview(text string, thumb Thumb) Review {
	return Review{
		ID:    uuid.NewString(),
		Text:  strings.TrimSpace(text),
		Thumb: thumb,
		TS:    time.Now().UTC(),
	}
}

// SentimentPercent returns round(100 * upCount / total) for a collection, or
// 0 when it is empty.
func SentimentPercent(reviews []Review) int {
	if len(reviews) == 0 {
		return 0
	}
	up := 0
	for _, r := range reviews {
		if r.Thumb == ThumbUp {
			up++
		}
	}
	return int(math.Round(float64(up) / float64(len(reviews)) * 100))
}
