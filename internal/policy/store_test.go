package policy

import (
	"context"
	"errors"
	"sync"
	"testing"

	"timely-scheduler/pkg/log"
)

type memBlobStore struct {
	mu       sync.Mutex
	data     map[string][]byte
	saves    int
	failSave bool
	failLoad bool
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{data: make(map[string][]byte)}
}

func (m *memBlobStore) Load(_ context.Context, userID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failLoad {
		return nil, errors.New("disk on fire")
	}
	d, ok := m.data[userID]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return d, nil
}

func (m *memBlobStore) Save(_ context.Context, userID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return errors.New("disk full")
	}
	m.data[userID] = append([]byte(nil), data...)
	m.saves++
	return nil
}

func newTestStore(t *testing.T, cfg Config, blobs BlobStore) *implStore {
	t.Helper()
	s, err := New(cfg, blobs, log.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	s := newTestStore(t, Config{}, newMemBlobStore())
	ctx := context.Background()

	var wg sync.WaitGroup
	handles := make([]*Handle, 16)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := s.GetOrCreate(ctx, "alice")
			if err != nil {
				t.Errorf("GetOrCreate() error = %v", err)
			}
			handles[i] = h
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(handles); i++ {
		if handles[i] != handles[0] {
			t.Fatalf("handle %d differs from handle 0", i)
		}
	}
	if _, err := s.GetOrCreate(ctx, ""); !errors.Is(err, ErrEmptyUserID) {
		t.Errorf("GetOrCreate(\"\") error = %v, want ErrEmptyUserID", err)
	}
}

func TestUpdateWritesThroughAndSurvivesRestart(t *testing.T) {
	blobs := newMemBlobStore()
	ctx := context.Background()
	pc := testContext()

	s := newTestStore(t, Config{}, blobs)
	if err := s.Update(ctx, "alice", pc, 4, 0, 0.8); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if blobs.saves != 1 {
		t.Errorf("saves = %d, want 1", blobs.saves)
	}
	want, _ := s.Score(ctx, "alice", pc, []int{4, 10})

	restarted := newTestStore(t, Config{}, blobs)
	got, err := restarted.Score(ctx, "alice", pc, []int{4, 10})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("restored score[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestUsersAreIsolated(t *testing.T) {
	s := newTestStore(t, Config{}, newMemBlobStore())
	ctx := context.Background()
	pc := testContext()

	before, _ := s.Score(ctx, "bob", pc, []int{2})
	for i := 0; i < 5; i++ {
		if err := s.Update(ctx, "alice", pc, 2, 1, 0.1); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}
	after, _ := s.Score(ctx, "bob", pc, []int{2})
	if before[0] != after[0] {
		t.Errorf("bob's score moved from %v to %v after alice's feedback", before[0], after[0])
	}
}

func TestDeclineDoesNotRaiseScore(t *testing.T) {
	s := newTestStore(t, Config{}, newMemBlobStore())
	ctx := context.Background()
	pc := testContext()
	actions := []int{0, 3, 6}

	_ = s.Update(ctx, "carol", pc, 3, 0, 0.5)
	before, _ := s.Score(ctx, "carol", pc, actions)

	if err := s.Update(ctx, "carol", pc, 3, 1, 0.5); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	after, _ := s.Score(ctx, "carol", pc, actions)
	if after[1] > before[1] {
		t.Errorf("declined offset score rose from %v to %v", before[1], after[1])
	}
}

func TestBaselineClone(t *testing.T) {
	blobs := newMemBlobStore()
	ctx := context.Background()
	pc := testContext()

	s := newTestStore(t, Config{BaselineUserID: "global"}, blobs)
	if err := s.Update(ctx, "global", pc, 8, 0, 1); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	base, _ := s.Score(ctx, "global", pc, []int{8})
	fresh, _ := s.Score(ctx, "dave", pc, []int{8})
	if fresh[0] != base[0] {
		t.Errorf("new user score = %v, want baseline %v", fresh[0], base[0])
	}

	// The clone is independent of the baseline afterwards.
	_ = s.Update(ctx, "dave", pc, 8, 1, 1)
	again, _ := s.Score(ctx, "global", pc, []int{8})
	if again[0] != base[0] {
		t.Errorf("baseline changed after clone update: %v -> %v", base[0], again[0])
	}
}

func TestPersistenceFailures(t *testing.T) {
	ctx := context.Background()
	pc := testContext()

	t.Run("save failure marks dirty and PersistAll retries", func(t *testing.T) {
		blobs := newMemBlobStore()
		s := newTestStore(t, Config{}, blobs)

		blobs.failSave = true
		if err := s.Update(ctx, "erin", pc, 1, 1, 0.5); !errors.Is(err, ErrPersistence) {
			t.Fatalf("Update() error = %v, want ErrPersistence", err)
		}
		if err := s.PersistAll(ctx); !errors.Is(err, ErrPersistence) {
			t.Fatalf("PersistAll() error = %v, want ErrPersistence", err)
		}

		blobs.failSave = false
		if err := s.PersistAll(ctx); err != nil {
			t.Fatalf("PersistAll() error = %v", err)
		}
		if _, ok := blobs.data["erin"]; !ok {
			t.Errorf("model not written after recovery")
		}
	})

	t.Run("load failure is a persistence error", func(t *testing.T) {
		blobs := newMemBlobStore()
		blobs.failLoad = true
		s := newTestStore(t, Config{}, blobs)
		if _, err := s.Score(ctx, "frank", pc, []int{0}); !errors.Is(err, ErrPersistence) {
			t.Errorf("Score() error = %v, want ErrPersistence", err)
		}
	})

	t.Run("corrupt blob", func(t *testing.T) {
		blobs := newMemBlobStore()
		blobs.data["gina"] = []byte("not json")
		s := newTestStore(t, Config{}, blobs)
		if _, err := s.GetOrCreate(ctx, "gina"); !errors.Is(err, ErrPersistence) {
			t.Errorf("GetOrCreate() error = %v, want ErrPersistence", err)
		}
	})
}

func TestEvictionPersistsDirtyModels(t *testing.T) {
	blobs := newMemBlobStore()
	s := newTestStore(t, Config{CacheSize: 1}, blobs)
	ctx := context.Background()
	pc := testContext()

	blobs.failSave = true
	_ = s.Update(ctx, "hank", pc, 2, 1, 0.5)
	blobs.failSave = false

	// Loading a second user pushes hank out of the single-slot cache.
	if _, err := s.GetOrCreate(ctx, "ivy"); err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if _, ok := blobs.data["hank"]; !ok {
		t.Errorf("evicted dirty model was not persisted")
	}
}

func TestLoadKeepsUnsavedChanges(t *testing.T) {
	ctx := context.Background()
	pc := testContext()
	blobs := newMemBlobStore()
	s := newTestStore(t, Config{}, blobs)

	blobs.failSave = true
	_ = s.Update(ctx, "kate", pc, 2, 1, 0.5)
	before, _ := s.Score(ctx, "kate", pc, []int{2})

	if err := s.Load(ctx, "kate"); !errors.Is(err, ErrPersistence) {
		t.Fatalf("Load() error = %v, want ErrPersistence while the write fails", err)
	}
	if got, _ := s.Score(ctx, "kate", pc, []int{2}); got[0] != before[0] {
		t.Errorf("score after failed Load = %v, want unsaved %v", got[0], before[0])
	}

	blobs.failSave = false
	if err := s.Load(ctx, "kate"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := blobs.data["kate"]; !ok {
		t.Fatal("dirty model was not written before reload")
	}
	if got, _ := s.Score(ctx, "kate", pc, []int{2}); got[0] != before[0] {
		t.Errorf("score after Load = %v, want trained %v", got[0], before[0])
	}
}

func TestEvict(t *testing.T) {
	blobs := newMemBlobStore()
	s := newTestStore(t, Config{}, blobs)
	ctx := context.Background()

	h1, _ := s.GetOrCreate(ctx, "jane")
	if err := s.Evict(ctx, "jane"); err != nil {
		t.Fatalf("Evict() error = %v", err)
	}
	h2, _ := s.GetOrCreate(ctx, "jane")
	if h1 == h2 {
		t.Errorf("GetOrCreate after Evict returned the evicted handle")
	}
	if _, ok := blobs.data["jane"]; !ok {
		t.Errorf("Evict did not persist the model")
	}
}

func TestConcurrentUpdatesSameUser(t *testing.T) {
	s := newTestStore(t, Config{}, newMemBlobStore())
	ctx := context.Background()
	pc := testContext()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cost := float64(i % 2)
			if err := s.Update(ctx, "kim", pc, i%5, cost, 0.5); err != nil {
				t.Errorf("Update() error = %v", err)
			}
			if _, err := s.Score(ctx, "kim", pc, []int{0, 1, 2}); err != nil {
				t.Errorf("Score() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	h, _ := s.GetOrCreate(ctx, "kim")
	if got := h.scorer.(*Linear).Updates(); got != n {
		t.Errorf("Updates() = %d, want %d", got, n)
	}
}
