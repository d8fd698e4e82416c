package log

import (
	"bytes"
	"io"
	"testing"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newDiscardEntry() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

// The adapter must satisfy badger's logger contract.
var _ badger.Logger = (*BadgerAdapter)(nil)

func TestBadgerAdapter_Methods(t *testing.T) {
	adapter := NewBadgerAdapter(newDiscardEntry())

	assert.NotPanics(t, func() { adapter.Errorf("error %s", "test") })
	assert.NotPanics(t, func() { adapter.Warningf("warning %d", 42) })
	assert.NotPanics(t, func() { adapter.Infof("info %v", true) })
	assert.NotPanics(t, func() { adapter.Debugf("debug") })
}

func TestBadgerAdapter_ForwardsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)

	adapter := NewBadgerAdapter(logger.WithField("component", "badgerdb"))
	adapter.Infof("compaction %s", "done")

	out := buf.String()
	assert.Contains(t, out, "component=badgerdb")
	assert.Contains(t, out, "compaction done")
}
