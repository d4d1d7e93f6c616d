package recommender

import "errors"

// ErrScoreMismatch is returned when the scorer does not return one score per hour.
var ErrScoreMismatch = errors.New("scorer returned wrong number of scores")
