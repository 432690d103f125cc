package repository

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/okian/skillwheel/internal/domain/selection"
	"github.com/okian/skillwheel/pkg/metrics"
)

// Snapshot is one immutable version of the served dataset together with its
// per-dataset index. Readers hold on to a Snapshot for a whole redraw.
type Snapshot struct {
	Dataset  model.Dataset
	Index    *selection.Index
	Version  uint64
	Source   string
	LoadedAt time.Time
}

// DatasetStore publishes dataset snapshots. Reads are lock-free; Replace
// swaps the snapshot atomically so a redraw never sees a half-loaded dataset.
type DatasetStore struct {
	mu       sync.Mutex // serialises writers
	snapshot atomic.Pointer[Snapshot]
	now      func() time.Time
}

// NewDatasetStore creates a store serving ds as version 1.
func NewDatasetStore(ds model.Dataset, source string) *DatasetStore {
	s := &DatasetStore{now: time.Now}
	s.publish(ds, source, 1)
	return s
}

// Current returns the snapshot being served.
func (s *DatasetStore) Current() *Snapshot {
	return s.snapshot.Load()
}

// Replace publishes ds as the next version and returns the new snapshot.
func (s *DatasetStore) Replace(ds model.Dataset, source string) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := uint64(1)
	if cur := s.snapshot.Load(); cur != nil {
		next = cur.Version + 1
	}
	return s.publish(ds, source, next)
}

func (s *DatasetStore) publish(ds model.Dataset, source string, version uint64) *Snapshot {
	if ds == nil {
		ds = model.Dataset{}
	}
	snap := &Snapshot{
		Dataset:  ds,
		Index:    selection.NewIndex(ds),
		Version:  version,
		Source:   source,
		LoadedAt: s.now(),
	}
	s.snapshot.Store(snap)

	metrics.UpdateDatasetVersion(version)
	metrics.UpdateRingSize(string(model.RingSkill), len(snap.Index.Skills()))
	metrics.UpdateRingSize(string(model.RingCompetence), len(ds))
	return snap
}
