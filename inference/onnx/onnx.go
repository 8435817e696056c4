// Package onnx runs the move prediction network with ONNX Runtime.
package onnx

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"maia-engine/encode"
	"maia-engine/inference"
)

// Feed names of the exported model.
var (
	InputNames  = []string{"boards", "elo_self", "elo_oppo"}
	OutputNames = []string{"logits_maia", "logits_value"}
)

// Options configure New.
type Options struct {
	ModelPath   string
	LibraryPath string
	// PolicySize is the number of policy logits, the move vocabulary size.
	PolicySize int
	// Threads bounds intra-op parallelism; 0 leaves the runtime default.
	Threads int
}

// Session owns one ONNX Runtime session and its bound buffers. Run calls are
// serialized.
type Session struct {
	mu      sync.Mutex
	session *ort.AdvancedSession

	boards  *ort.Tensor[float32]
	eloSelf *ort.Tensor[int64]
	eloOppo *ort.Tensor[int64]
	policy  *ort.Tensor[float32]
	value   *ort.Tensor[float32]
}

var (
	initOnce sync.Once
	initErr  error
)

// initEnvironment loads the shared library once per process. A failed load is
// not retried.
func initEnvironment(libPath string) error {
	initOnce.Do(func() {
		if ort.IsInitialized() {
			return
		}
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		initErr = ort.InitializeEnvironment()
	})
	return initErr
}

// New loads the model and binds its input and output tensors.
func New(opts Options) (*Session, error) {
	if opts.PolicySize <= 0 {
		return nil, fmt.Errorf("%w: policy size %d", inference.ErrEngine, opts.PolicySize)
	}
	if err := initEnvironment(opts.LibraryPath); err != nil {
		return nil, fmt.Errorf("%w: init onnxruntime: %w", inference.ErrEngine, err)
	}

	s := &Session{}
	var err error
	shape := make([]int64, len(encode.Shape))
	for i, d := range encode.Shape {
		shape[i] = int64(d)
	}
	if s.boards, err = ort.NewEmptyTensor[float32](ort.NewShape(shape...)); err != nil {
		return nil, s.fail(err)
	}
	if s.eloSelf, err = ort.NewEmptyTensor[int64](ort.NewShape(1)); err != nil {
		return nil, s.fail(err)
	}
	if s.eloOppo, err = ort.NewEmptyTensor[int64](ort.NewShape(1)); err != nil {
		return nil, s.fail(err)
	}
	if s.policy, err = ort.NewEmptyTensor[float32](ort.NewShape(1, int64(opts.PolicySize))); err != nil {
		return nil, s.fail(err)
	}
	if s.value, err = ort.NewEmptyTensor[float32](ort.NewShape(1)); err != nil {
		return nil, s.fail(err)
	}

	so, err := ort.NewSessionOptions()
	if err != nil {
		return nil, s.fail(err)
	}
	defer so.Destroy()
	if opts.Threads > 0 {
		if err := so.SetIntraOpNumThreads(opts.Threads); err != nil {
			return nil, s.fail(err)
		}
	}

	s.session, err = ort.NewAdvancedSession(opts.ModelPath, InputNames, OutputNames,
		[]ort.Value{s.boards, s.eloSelf, s.eloOppo},
		[]ort.Value{s.policy, s.value}, so)
	if err != nil {
		return nil, s.fail(err)
	}
	return s, nil
}

func (s *Session) fail(err error) error {
	s.Close()
	return fmt.Errorf("%w: onnx session: %w", inference.ErrEngine, err)
}

// Run copies in into the bound inputs, runs the session and copies the
// outputs out. ctx is checked before the call; a running session cannot be
// interrupted.
func (s *Session) Run(ctx context.Context, in inference.Input) (inference.Output, error) {
	if err := ctx.Err(); err != nil {
		return inference.Output{}, inference.Wrap(err)
	}
	planes, err := in.Planes()
	if err != nil {
		return inference.Output{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return inference.Output{}, fmt.Errorf("%w: session closed", inference.ErrEngine)
	}

	copy(s.boards.GetData(), planes)
	s.eloSelf.GetData()[0] = int64(in.EloSelf)
	s.eloOppo.GetData()[0] = int64(in.EloOppo)
	if err := s.session.Run(); err != nil {
		return inference.Output{}, fmt.Errorf("%w: onnx run: %w", inference.ErrEngine, err)
	}

	out := inference.Output{
		PolicyLogits: append([]float32(nil), s.policy.GetData()...),
		ValueLogit:   s.value.GetData()[0],
	}
	return out, nil
}

// Close releases the session and its tensors. It is safe to call twice.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		s.session.Destroy()
		s.session = nil
	}
	if s.boards != nil {
		s.boards.Destroy()
	}
	if s.eloSelf != nil {
		s.eloSelf.Destroy()
	}
	if s.eloOppo != nil {
		s.eloOppo.Destroy()
	}
	if s.policy != nil {
		s.policy.Destroy()
	}
	if s.value != nil {
		s.value.Destroy()
	}
	s.boards, s.eloSelf, s.eloOppo, s.policy, s.value = nil, nil, nil, nil, nil
	return nil
}
