package log

import "github.com/sirupsen/logrus"

// BadgerAdapter routes BadgerDB's internal logging through a logrus entry,
// satisfying the badger.Logger interface. Badger chats at Info level, so
// hand it an entry whose level the operator controls.
type BadgerAdapter struct {
	entry *logrus.Entry
}

// NewBadgerAdapter wraps entry for use as a badger.Logger.
func NewBadgerAdapter(entry *logrus.Entry) *BadgerAdapter {
	return &BadgerAdapter{entry: entry}
}

func (a *BadgerAdapter) Errorf(format string, args ...interface{}) {
	a.entry.Errorf(format, args...)
}

func (a *BadgerAdapter) Warningf(format string, args ...interface{}) {
	a.entry.Warningf(format, args...)
}

func (a *BadgerAdapter) Infof(format string, args ...interface{}) {
	a.entry.Infof(format, args...)
}

func (a *BadgerAdapter) Debugf(format string, args ...interface{}) {
	a.entry.Debugf(format, args...)
}
