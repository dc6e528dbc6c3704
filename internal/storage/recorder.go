package storage

import (
	"github.com/san-kum/studio/internal/renderstate"
	"github.com/san-kum/studio/internal/signal"
)

// Recorder captures one sample per snapshot change of a registry.
type Recorder struct {
	effect  *signal.Effect
	samples []renderstate.ViewState
	limit   int
}

// NewRecorder starts recording reg. The current snapshot is the first
// sample. A positive limit keeps only the most recent samples.
func NewRecorder(reg *renderstate.Registry, limit int) *Recorder {
	r := &Recorder{limit: limit}
	r.effect = signal.NewEffect(reg.Runtime(), func() {
		r.add(reg.Snapshot())
	})
	return r
}

func (r *Recorder) add(v renderstate.ViewState) {
	r.samples = append(r.samples, v)
	if r.limit > 0 && len(r.samples) > r.limit {
		r.samples = append(r.samples[:0], r.samples[len(r.samples)-r.limit:]...)
	}
}

// Samples returns a copy of the recorded samples.
func (r *Recorder) Samples() []renderstate.ViewState {
	out := make([]renderstate.ViewState, len(r.samples))
	copy(out, r.samples)
	return out
}

func (r *Recorder) Len() int { return len(r.samples) }

// Stop detaches the recorder; samples stay available.
func (r *Recorder) Stop() {
	r.effect.Dispose()
}

// Replay writes each sample into reg through SetAll. step is called after
// every write and may stop the replay by returning false.
func Replay(reg *renderstate.Registry, samples []renderstate.ViewState, step func(i int) bool) int {
	for i, v := range samples {
		reg.Set(v)
		if step != nil && !step(i) {
			return i + 1
		}
	}
	return len(samples)
}
