package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCaptureLogger(t *testing.T) {
	logger, logs := NewCaptureLogger()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			logger.Debug("tab changed", "n", i)
		}(i)
	}
	wg.Wait()

	assert.True(t, logs.Contains("level=DEBUG"))
	assert.True(t, logs.Contains("n=3"))
	assert.False(t, logs.Contains("level=ERROR"))
}
