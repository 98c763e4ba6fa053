package worker_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/xavierca1/lead-funnel/internal/infra/worker"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type scriptedRelay struct {
	mu        sync.Mutex
	access    []bool
	setupErrs []error
	verifies  int
	setups    int
}

func (s *scriptedRelay) VerifySheetAccess(context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.access[min(s.verifies, len(s.access)-1)]
	s.verifies++
	return ok
}

func (s *scriptedRelay) SetupSheetHeaders(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if len(s.setupErrs) > 0 {
		err = s.setupErrs[min(s.setups, len(s.setupErrs)-1)]
	}
	s.setups++
	return err
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestBootstrapSucceedsImmediately(t *testing.T) {
	relay := &scriptedRelay{access: []bool{true}}

	ok := worker.NewSheetsBootstrapWorker(relay, quietLogger()).Start(context.Background())
	assert.True(t, ok)
	assert.Equal(t, 1, relay.verifies)
	assert.Equal(t, 1, relay.setups)
}

func TestBootstrapRetriesUntilReady(t *testing.T) {
	relay := &scriptedRelay{
		access:    []bool{false, true, true},
		setupErrs: []error{errors.New("403"), nil},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ok := worker.NewSheetsBootstrapWorker(relay, quietLogger()).WithInterval(5 * time.Millisecond).Start(ctx)
	assert.True(t, ok)
	assert.Equal(t, 3, relay.verifies)
	assert.Equal(t, 2, relay.setups)
}

func TestBootstrapStopsOnContextCancel(t *testing.T) {
	relay := &scriptedRelay{access: []bool{false}}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	ok := worker.NewSheetsBootstrapWorker(relay, quietLogger()).WithInterval(5 * time.Millisecond).Start(ctx)
	assert.False(t, ok)
	assert.Zero(t, relay.setups)
}
