package gekko2d

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerStreams(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo("host", false, &out, &errOut)

	l.Debugf("hidden %d", 1)
	l.Infof("ready %d", 2)
	l.Warnf("slow")
	l.Errorf("broken")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[host] INFO: ready 2")
	assert.Contains(t, errOut.String(), "[host] WARN: slow")
	assert.Contains(t, errOut.String(), "[host] ERROR: broken")
}

func TestDefaultLoggerSetDebug(t *testing.T) {
	var out bytes.Buffer
	l := NewLoggerTo("", false, &out, &out)

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("now visible")
	assert.Contains(t, out.String(), "DEBUG: now visible")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(on bool) {
			defer wg.Done()
			l.SetDebug(on)
			_ = l.DebugEnabled()
		}(i%2 == 0)
	}
	wg.Wait()

	l.SetDebug(false)
	out.Reset()
	l.Debugf("gone")
	assert.Empty(t, out.String())
}
