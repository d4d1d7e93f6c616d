package policy

import (
	"errors"
	"math"
	"testing"

	"timely-scheduler/internal/model"
)

func testContext() model.PolicyContext {
	return model.PolicyContext{
		TaskCategory:  "School",
		TaskDuration:  2,
		HoursUntilDue: 24,
		DayOfWeek:     0,
		OriginHour:    9,
		OriginWeekday: 0,
	}
}

func TestLinearUntrainedScoresPrior(t *testing.T) {
	m := NewLinear(0, 0)
	scores, err := m.Score(testContext(), []int{0, 1, 2, 30})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	for i, s := range scores {
		if s != 1-PriorCost {
			t.Errorf("scores[%d] = %v, want %v", i, s, 1-PriorCost)
		}
	}
}

func TestLinearDeclineNeverRaisesPreference(t *testing.T) {
	m := NewLinear(16, 0.5)
	pc := testContext()

	for i := 0; i < 20; i++ {
		before, _ := m.Score(pc, []int{3})
		if err := m.Update(pc, 3, 1, 0.2); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		after, _ := m.Score(pc, []int{3})
		if after[0] > before[0] {
			t.Fatalf("step %d: preference rose from %v to %v after decline", i, before[0], after[0])
		}
	}
	final, _ := m.Score(pc, []int{3})
	if final[0] >= 1-PriorCost {
		t.Errorf("preference after repeated declines = %v, want below prior", final[0])
	}
}

func TestLinearAcceptRaisesPreference(t *testing.T) {
	m := NewLinear(16, 0.5)
	pc := testContext()

	if err := m.Update(pc, 5, 0, 0.84); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	scores, _ := m.Score(pc, []int{5, 40})
	if scores[0] <= scores[1] {
		t.Errorf("accepted offset scored %v, untouched offset %v", scores[0], scores[1])
	}
}

func TestLinearImportanceDoesNotOvershoot(t *testing.T) {
	m := NewLinear(16, 10)
	pc := testContext()

	if err := m.Update(pc, 2, 1, minProbability); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	raw := m.raw(m.features(pc, 2))
	if raw > 1+1e-9 {
		t.Errorf("raw prediction %v overshot the target cost", raw)
	}
}

func TestLinearValidation(t *testing.T) {
	m := NewLinear(16, 0.5)

	tests := []struct {
		name string
		run  func() error
	}{
		{"nan duration", func() error {
			pc := testContext()
			pc.TaskDuration = math.NaN()
			_, err := m.Score(pc, []int{0})
			return err
		}},
		{"bad origin hour", func() error {
			pc := testContext()
			pc.OriginHour = 24
			_, err := m.Score(pc, []int{0})
			return err
		}},
		{"negative action", func() error {
			_, err := m.Score(testContext(), []int{-1})
			return err
		}},
		{"cost out of range", func() error {
			return m.Update(testContext(), 0, 2, 0.5)
		}},
		{"zero probability", func() error {
			return m.Update(testContext(), 0, 1, 0)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, ErrScoring) {
				t.Errorf("error = %v, want ErrScoring", err)
			}
		})
	}
}

func TestLinearSaveLoad(t *testing.T) {
	m := NewLinear(12, 0.5)
	pc := testContext()
	_ = m.Update(pc, 1, 0, 0.5)
	_ = m.Update(pc, 7, 1, 0.05)

	data, err := m.Save()
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	restored := NewLinear(12, 0.5)
	if err := restored.Load(data); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want, _ := m.Score(pc, []int{1, 7, 9})
	got, _ := restored.Score(pc, []int{1, 7, 9})
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("score[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if restored.Updates() != 2 {
		t.Errorf("Updates() = %d, want 2", restored.Updates())
	}

	t.Run("hash bits mismatch", func(t *testing.T) {
		if err := NewLinear(16, 0.5).Load(data); !errors.Is(err, ErrInvalidModel) {
			t.Errorf("Load() error = %v, want ErrInvalidModel", err)
		}
	})
	t.Run("garbage", func(t *testing.T) {
		if err := NewLinear(12, 0.5).Load([]byte("{")); !errors.Is(err, ErrInvalidModel) {
			t.Errorf("Load() error = %v, want ErrInvalidModel", err)
		}
	})
}
