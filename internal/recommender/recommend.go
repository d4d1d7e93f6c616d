package recommender

import (
	"context"
	"fmt"
	"math"
	"sort"

	"timely-scheduler/internal/model"
)

const (
	durationEpsilon = 0.01
	minPropensity   = 0.01
)

// Recommend ranks candidateHours with the user's policy and expands the ranked
// hours into at most topK candidates. With probability epsilon the ranking is
// a uniform shuffle instead of the policy order.
func (uc *implUseCase) Recommend(ctx context.Context, userID string, pc model.PolicyContext, candidateHours []int, topK int, preferSplitting bool) (Recommendation, error) {
	if len(candidateHours) == 0 {
		return Recommendation{}, nil
	}
	if topK <= 0 {
		topK = uc.cfg.TopK
	}

	hours := make([]int, len(candidateHours))
	copy(hours, candidateHours)
	sort.Ints(hours)

	scores, err := uc.scorer.Score(ctx, userID, pc, hours)
	if err != nil {
		uc.l.Warnf(ctx, "Recommend: score %d hours: %v", len(hours), err)
		return Recommendation{}, err
	}
	if len(scores) != len(hours) {
		return Recommendation{}, fmt.Errorf("%w: got %d scores for %d hours", ErrScoreMismatch, len(scores), len(hours))
	}
	scoreOf := make(map[int]float64, len(hours))
	for i, h := range hours {
		scoreOf[h] = scores[i]
	}

	// The greedy pick is the highest score, lowest offset on ties.
	best := hours[0]
	for _, h := range hours[1:] {
		if scoreOf[h] > scoreOf[best] {
			best = h
		}
	}

	ranked := make([]int, len(hours))
	copy(ranked, hours)
	explored := uc.explore()
	if explored {
		uc.shuffle(ranked)
	} else {
		sort.SliceStable(ranked, func(i, j int) bool { return scoreOf[ranked[i]] > scoreOf[ranked[j]] })
	}

	n := float64(len(hours))
	eps := uc.cfg.Epsilon
	propensity := func(h int) float64 {
		p := eps / n
		if h == best {
			p += 1 - eps
		}
		if p <= 0 {
			// Greedy-only ranking never picks h; keep its outcome trainable.
			p = minPropensity
		}
		return p
	}

	duration := pc.TaskDuration
	split := preferSplitting && duration > uc.cfg.MaxChunkHours

	out := make([]Candidate, 0, topK)
	for _, h := range ranked {
		if len(out) >= topK {
			break
		}
		root := Candidate{RootOffset: h, Probability: propensity(h), Score: scoreOf[h]}
		if !split {
			root.Offset, root.ChunkDuration = h, duration
			out = append(out, root)
			continue
		}
		offset, remain := h, duration
		for remain > durationEpsilon && len(out) < topK {
			chunk := math.Min(uc.cfg.MaxChunkHours, remain)
			c := root
			// Feedback trains the chunk's own offset, so it carries that
			// offset's propensity rather than the root's.
			c.Offset, c.ChunkDuration, c.Probability = offset, chunk, propensity(offset)
			out = append(out, c)
			remain -= chunk
			offset += int(math.Ceil(chunk))
		}
	}

	uc.l.Debugf(ctx, "Recommend: %d hours -> %d candidates (explored=%v)", len(hours), len(out), explored)
	return Recommendation{Candidates: out, Explored: explored}, nil
}

func (uc *implUseCase) explore() bool {
	if uc.cfg.Epsilon <= 0 {
		return false
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.rng.Float64() < uc.cfg.Epsilon
}

func (uc *implUseCase) shuffle(xs []int) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.rng.Shuffle(len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })
}
