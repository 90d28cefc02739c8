package core

import "fmt"

// stubT captures assertion failures so tests can inspect them. Fatalf
// panics to stop the code path under test, the way a real Fatalf would.
type stubT struct {
	failed bool
	msg    string
}

func (s *stubT) Helper() {}

func (s *stubT) Fatalf(format string, args ...any) {
	s.failed = true
	s.msg = fmt.Sprintf(format, args...)
	panic("stubT failed: " + s.msg)
}

// expectFailure runs fn and reports whether it triggered a stubT failure.
func expectFailure(s *stubT, fn func()) (failed bool) {
	defer func() {
		_ = recover()

		failed = s.failed
	}()

	fn()

	return s.failed
}
