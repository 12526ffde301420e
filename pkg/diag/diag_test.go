package diag

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerVerbosity(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, LevelWarn)

	Debugf(l, "hidden %d", 1)
	Warnf(l, KindDegenerate, "face %d skipped", 7)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "degenerate-geometry: face 7 skipped")

	l.SetVerbosity(LevelDebug)
	Debugf(l, "now visible")
	assert.Contains(t, buf.String(), "now visible")
	assert.Equal(t, LevelDebug, l.Verbosity())
}

func TestLoggerConcurrent(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, LevelDebug)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			Debugf(l, "worker %d", i)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 16)
}

func TestRecorderCount(t *testing.T) {
	r := &Recorder{}
	Warnf(r, KindInsufficientData, "vertex %d", 1)
	Warnf(r, KindInsufficientData, "vertex %d", 2)
	Warnf(r, KindMalformed, "edge")

	assert.Equal(t, 2, r.Count(KindInsufficientData))
	assert.Equal(t, 1, r.Count(KindMalformed))
	require.Len(t, r.Entries(), 3)

	r.Reset()
	assert.Empty(t, r.Entries())
}

func TestBufferFlushOrder(t *testing.T) {
	r := &Recorder{}
	b := NewBuffer(r, 3)

	var wg sync.WaitGroup
	for i := 2; i >= 0; i-- {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			Debugf(b.Slot(i), "task %d", i)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 3, b.Len())

	b.Flush()
	entries := r.Entries()
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, "task "+string(rune('0'+i)), e.Message)
	}
	assert.Equal(t, 0, b.Len())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want Level
		ok   bool
	}{
		{"error", LevelError, true},
		{"warning", LevelWarn, true},
		{"info", LevelInfo, true},
		{"debug", LevelDebug, true},
		{"loud", LevelWarn, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTeeAndNil(t *testing.T) {
	r1, r2 := &Recorder{}, &Recorder{}
	Logf(Tee{r1, nil, r2}, LevelInfo, KindNone, "hello")
	Logf(nil, LevelInfo, KindNone, "ignored")
	Discard.Emit(Entry{Message: "dropped"})

	assert.Len(t, r1.Entries(), 1)
	assert.Len(t, r2.Entries(), 1)
	assert.Equal(t, "[info] hello", r1.Entries()[0].String())
}
