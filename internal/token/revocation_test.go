package token

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRevoke(t *testing.T) {
	registry := NewRegistry()

	assert.False(t, registry.IsRevoked("tok"))

	registry.Revoke("tok")
	assert.True(t, registry.IsRevoked("tok"))
	assert.False(t, registry.IsRevoked("other"))

	// Idempotent: a second revoke changes nothing.
	registry.Revoke("tok")
	assert.True(t, registry.IsRevoked("tok"))
	assert.Equal(t, 1, registry.Len())
}

func TestRevokeConcurrent(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok := fmt.Sprintf("token-%d", i%10)
			registry.Revoke(tok)
			registry.IsRevoked(tok)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, registry.Len())
	for i := 0; i < 10; i++ {
		assert.True(t, registry.IsRevoked(fmt.Sprintf("token-%d", i)))
	}
}
