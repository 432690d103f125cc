package render

import "github.com/okian/skillwheel/internal/domain/types"

// Recorder keeps every call it receives as an instruction, in order.
type Recorder struct {
	calls []types.Instruction
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// ClearCanvas records a clear.
func (r *Recorder) ClearCanvas() {
	r.calls = append(r.calls, types.Instruction{Op: types.OpClear})
}

// DrawNode records a node.
func (r *Recorder) DrawNode(n types.Node) {
	r.calls = append(r.calls, types.Instruction{Op: types.OpNode, Node: &n})
}

// DrawCurve records a curve.
func (r *Recorder) DrawCurve(c types.Curve) {
	r.calls = append(r.calls, types.Instruction{Op: types.OpCurve, Curve: &c})
}

// Calls returns the recorded calls.
func (r *Recorder) Calls() []types.Instruction { return r.calls }

// Ops returns the opcode of each recorded call.
func (r *Recorder) Ops() []types.Op {
	out := make([]types.Op, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Op
	}
	return out
}
