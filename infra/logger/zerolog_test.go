package logger

import (
	"testing"
)

func TestZerologLoggerMethods(t *testing.T) {
	t.Setenv("FS_ENV", "dev")
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLoggerDefaultsToJSON(t *testing.T) {
	t.Setenv("FS_ENV", "")
	l := NewZerologLogger("test")
	l.Infof("shipped as JSON")
}

func TestNewReturnsComponentLogger(t *testing.T) {
	l := New("engine")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Infof("hello")
}

func TestNopLoggerIsSilent(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debugf("x")
	l.Debugw("x", nil)
	l.Infof("x")
	l.Warnf("x")
	l.Errorf("x")
}
