package bridge

import "sync"

// ApprovalState is the bridge collaborator's answer at directive-detection
// time.
type ApprovalState struct {
	AutoApprove bool
}

// ApprovalSource reports whether directives may execute without
// confirmation. Queried synchronously when a directive is detected.
type ApprovalSource interface {
	ApprovalState() ApprovalState
}

// StaticSource is a toggleable in-process approval source.
type StaticSource struct {
	mu   sync.Mutex
	auto bool
}

// NewStaticSource creates a source with the given initial setting.
func NewStaticSource(autoApprove bool) *StaticSource {
	return &StaticSource{auto: autoApprove}
}

// ApprovalState implements ApprovalSource.
func (s *StaticSource) ApprovalState() ApprovalState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ApprovalState{AutoApprove: s.auto}
}

// SetAutoApprove flips the auto-approval flag.
func (s *StaticSource) SetAutoApprove(auto bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auto = auto
}
