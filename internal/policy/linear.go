package policy

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"timely-scheduler/internal/model"
)

const (
	modelVersion = 1

	// PriorCost is the predicted cost of an action the model knows nothing about.
	PriorCost = 0.5

	DefaultHashBits     = 16
	DefaultLearningRate = 0.5

	minProbability = 0.01
)

// Linear is a hashed linear contextual bandit. It regresses the cost of
// (context, action) pairs on binary hashed features and predicts
// clamp(PriorCost + w·φ, 0, 1).
type Linear struct {
	hashBits     int
	mask         uint32
	learningRate float64
	weights      map[uint32]float64
	updates      int64
}

// NewLinear returns an untrained model. Zero values fall back to defaults.
func NewLinear(hashBits int, learningRate float64) *Linear {
	if hashBits <= 0 || hashBits > 24 {
		hashBits = DefaultHashBits
	}
	if learningRate <= 0 {
		learningRate = DefaultLearningRate
	}
	return &Linear{
		hashBits:     hashBits,
		mask:         uint32(1)<<hashBits - 1,
		learningRate: learningRate,
		weights:      make(map[uint32]float64),
	}
}

// Updates returns the number of training steps applied so far.
func (m *Linear) Updates() int64 { return m.updates }

func (m *Linear) Score(pc model.PolicyContext, actions []int) ([]float64, error) {
	if err := validateContext(pc); err != nil {
		return nil, err
	}
	out := make([]float64, len(actions))
	for i, a := range actions {
		if a < 0 {
			return nil, fmt.Errorf("%w: negative action %d", ErrScoring, a)
		}
		out[i] = 1 - clamp01(m.raw(m.features(pc, a)))
	}
	return out, nil
}

// Update moves the prediction for (pc, action) towards cost. The step uses the
// importance-aware closed form for squared loss so that a large importance
// weight never overshoots the target.
func (m *Linear) Update(pc model.PolicyContext, action int, cost, probability float64) error {
	if err := validateContext(pc); err != nil {
		return err
	}
	if action < 0 {
		return fmt.Errorf("%w: negative action %d", ErrScoring, action)
	}
	if math.IsNaN(cost) || cost < 0 || cost > 1 {
		return fmt.Errorf("%w: cost %v outside [0,1]", ErrScoring, cost)
	}
	if math.IsNaN(probability) || probability <= 0 || probability > 1 {
		return fmt.Errorf("%w: probability %v outside (0,1]", ErrScoring, probability)
	}

	phi := m.features(pc, action)
	var norm float64
	for _, v := range phi {
		norm += v * v
	}
	importance := 1 / math.Max(probability, minProbability)
	step := (cost - m.raw(phi)) * (1 - math.Exp(-m.learningRate*importance*norm)) / norm
	for idx, v := range phi {
		m.weights[idx] += step * v
	}
	m.updates++
	return nil
}

type linearState struct {
	Version      int                `json:"version"`
	HashBits     int                `json:"hash_bits"`
	LearningRate float64            `json:"learning_rate"`
	Updates      int64              `json:"updates"`
	Weights      map[uint32]float64 `json:"weights"`
}

func (m *Linear) Save() ([]byte, error) {
	return json.Marshal(linearState{
		Version:      modelVersion,
		HashBits:     m.hashBits,
		LearningRate: m.learningRate,
		Updates:      m.updates,
		Weights:      m.weights,
	})
}

// Load replaces the model state. The learning rate of the receiver is kept so
// that configuration changes apply to restored models.
func (m *Linear) Load(data []byte) error {
	var st linearState
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	if st.Version != modelVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidModel, st.Version)
	}
	if st.HashBits != m.hashBits {
		return fmt.Errorf("%w: hash bits %d, want %d", ErrInvalidModel, st.HashBits, m.hashBits)
	}
	weights := make(map[uint32]float64, len(st.Weights))
	for idx, w := range st.Weights {
		if idx > m.mask || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: bad weight at %d", ErrInvalidModel, idx)
		}
		weights[idx] = w
	}
	m.weights = weights
	m.updates = st.Updates
	return nil
}

func (m *Linear) raw(phi map[uint32]float64) float64 {
	sum := PriorCost
	for idx, v := range phi {
		sum += m.weights[idx] * v
	}
	return sum
}

// features hashes the context/action pair into sparse binary features.
// Colliding names accumulate into the same index.
func (m *Linear) features(pc model.PolicyContext, action int) map[uint32]float64 {
	slotHour := (pc.OriginHour + action) % 24
	slotDay := (pc.OriginWeekday + (pc.OriginHour+action)/24) % 7
	weekend := "0"
	if slotDay >= 5 {
		weekend = "1"
	}
	hod := strconv.Itoa(slotHour)

	names := []string{
		"bias",
		"off=" + strconv.Itoa(action),
		"hod=" + hod,
		"dow=" + strconv.Itoa(slotDay),
		"cat=" + pc.TaskCategory + "|hod=" + hod,
		"wkend=" + weekend + "|hod=" + hod,
		"due=" + strconv.Itoa(logBucket(pc.HoursUntilDue)) + "|off=" + strconv.Itoa(logBucket(float64(action))),
		"dur=" + strconv.FormatFloat(halfHour(pc.TaskDuration), 'f', 1, 64) + "|hod=" + hod,
	}

	phi := make(map[uint32]float64, len(names))
	for _, n := range names {
		phi[uint32(xxhash.Sum64String(n))&m.mask] += 1
	}
	return phi
}

func validateContext(pc model.PolicyContext) error {
	switch {
	case math.IsNaN(pc.TaskDuration) || math.IsInf(pc.TaskDuration, 0) || pc.TaskDuration < 0:
		return fmt.Errorf("%w: task duration %v", ErrScoring, pc.TaskDuration)
	case math.IsNaN(pc.HoursUntilDue) || math.IsInf(pc.HoursUntilDue, 0):
		return fmt.Errorf("%w: hours until due %v", ErrScoring, pc.HoursUntilDue)
	case pc.OriginHour < 0 || pc.OriginHour > 23:
		return fmt.Errorf("%w: origin hour %d", ErrScoring, pc.OriginHour)
	case pc.OriginWeekday < 0 || pc.OriginWeekday > 6:
		return fmt.Errorf("%w: origin weekday %d", ErrScoring, pc.OriginWeekday)
	}
	return nil
}

func logBucket(x float64) int {
	if x <= 0 {
		return 0
	}
	return int(math.Floor(math.Log2(x + 1)))
}

func halfHour(x float64) float64 {
	return math.Round(x*2) / 2
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
