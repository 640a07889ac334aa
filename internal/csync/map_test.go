package csync

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap_SetGetDelete(t *testing.T) {
	m := NewMap[string, int]()
	m.Set("a", 1)
	m.Set("b", 2)

	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	m.Delete("a")
	_, ok = m.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestMap_DeleteAllAndSortedKeys(t *testing.T) {
	m := NewMap[string, struct{}]()
	for _, k := range []string{"c", "a", "b", "d"} {
		m.Set(k, struct{}{})
	}

	keys := m.SortedKeys(func(a, b string) bool { return a < b })
	assert.Equal(t, []string{"a", "b", "c", "d"}, keys)

	m.DeleteAll("a", "c", "missing")
	assert.ElementsMatch(t, []string{"b", "d"}, m.Keys())
}

func TestMap_ConcurrentSet(t *testing.T) {
	m := NewMap[int, int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Set(i, i*i)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, m.Len())
}
