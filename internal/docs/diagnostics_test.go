package docs

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerationLogs_AddTake(t *testing.T) {
	logs := NewGenerationLogs()

	logs.Add("1.9.0", "first")
	logs.Add("1.9.0", "second")
	logs.Add("1.8.0", "other")
	logs.Add("", "dropped")

	assert.Equal(t, []string{"first", "second"}, logs.Take("1.9.0"))
	assert.Empty(t, logs.Take("1.9.0"))
	assert.Equal(t, []string{"other"}, logs.Take("1.8.0"))
	assert.Empty(t, logs.Take(""))
}

func TestGenerationLogs_ConcurrentVersions(t *testing.T) {
	logs := NewGenerationLogs()

	var wg sync.WaitGroup
	for _, version := range []string{"1.8.0", "1.9.0"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				logs.Add(version, fmt.Sprintf("%s #%d", version, i))
			}
		}()
	}
	wg.Wait()

	for _, version := range []string{"1.8.0", "1.9.0"} {
		msgs := logs.Take(version)
		assert.Len(t, msgs, 50)
		for i, msg := range msgs {
			assert.Equal(t, fmt.Sprintf("%s #%d", version, i), msg)
		}
	}
}
