package recommender

// Config holds the recommender's tunables.
type Config struct {
	Epsilon         float64
	MaxChunkHours   float64
	TopK            int
	PreferSplitting bool
	Seed            uint64
}

// DefaultConfig mirrors the production defaults.
func DefaultConfig() Config {
	return Config{
		Epsilon:         0.20,
		MaxChunkHours:   2,
		TopK:            6,
		PreferSplitting: true,
	}
}

// Candidate is a proposed, uncommitted slice of a task.
type Candidate struct {
	Offset        int
	ChunkDuration float64
	// Probability is the epsilon-greedy propensity of Offset: the chance the
	// ranking would put that hour first.
	Probability float64
	// Score is the policy preference of the root hour.
	Score float64
	// RootOffset is the ranked hour the candidate was expanded from.
	RootOffset int
}

// Recommendation is the ordered output of one Recommend call.
type Recommendation struct {
	Candidates []Candidate
	Explored   bool
}
