package inmemory

import (
	"sync"

	"hearthfield/internal/domain/forage"
)

type Snapshot struct {
	ActionTotal     uint64            `json:"action_total"`
	ActionPerformed uint64            `json:"action_performed"`
	ActionRejected  uint64            `json:"action_rejected"`
	UnlockTotal     uint64            `json:"unlock_total"`
	UnlockSuccess   uint64            `json:"unlock_success"`
	Failure         uint64            `json:"failure"`
	ByAction        map[string]uint64 `json:"by_action"`
}

type Recorder struct {
	mu        sync.Mutex
	performed uint64
	rejected  uint64
	unlocks   uint64
	unlocked  uint64
	failure   uint64
	byAction  map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byAction: map[string]uint64{},
	}
}

func (r *Recorder) RecordAction(action forage.ActionType, performed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if performed {
		r.performed++
		r.byAction[string(action)]++
		return
	}
	r.rejected++
}

func (r *Recorder) RecordUnlock(unlocked bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unlocks++
	if unlocked {
		r.unlocked++
	}
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		ActionPerformed: r.performed,
		ActionRejected:  r.rejected,
		ActionTotal:     r.performed + r.rejected,
		UnlockTotal:     r.unlocks,
		UnlockSuccess:   r.unlocked,
		Failure:         r.failure,
		ByAction:        make(map[string]uint64, len(r.byAction)),
	}
	for k, v := range r.byAction {
		out.ByAction[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
