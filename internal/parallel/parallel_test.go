package parallel

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestFor(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 16}

	var counter int64
	n := 1000
	out := make([]int, n)

	For(n, cfg, func(i int) {
		atomic.AddInt64(&counter, 1)
		out[i] = i * 2
	})

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
	for i, v := range out {
		if v != i*2 {
			t.Fatalf("out[%d] = %d, want %d", i, v, i*2)
		}
	}
}

func TestRanges_Chunks(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 10}

	var (
		mu     sync.Mutex
		chunks [][2]int
	)
	Ranges(100, cfg, func(start, end int) {
		mu.Lock()
		chunks = append(chunks, [2]int{start, end})
		mu.Unlock()
	})

	if len(chunks) != 4 {
		t.Fatalf("Expected 4 chunks, got %d: %v", len(chunks), chunks)
	}
	covered := make([]bool, 100)
	for _, c := range chunks {
		if c[1]-c[0] != 25 {
			t.Errorf("chunk %v has size %d, want 25", c, c[1]-c[0])
		}
		for i := c[0]; i < c[1]; i++ {
			if covered[i] {
				t.Fatalf("index %d covered twice", i)
			}
			covered[i] = true
		}
	}
}

func TestRanges_Inline(t *testing.T) {
	tests := []struct {
		name string
		n    int
		cfg  Config
	}{
		{"disabled", 100_000, Config{Enabled: false, NumWorkers: 8, MinChunkSize: 1}},
		{"sequential", 100_000, Sequential()},
		{"small", 100, DefaultConfig()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			Ranges(tt.n, tt.cfg, func(start, end int) {
				calls++
				if start != 0 || end != tt.n {
					t.Errorf("got chunk [%d, %d), want [0, %d)", start, end, tt.n)
				}
			})
			if calls != 1 {
				t.Errorf("Expected one inline call, got %d", calls)
			}
		})
	}
}

func TestRanges_Empty(t *testing.T) {
	Ranges(0, DefaultConfig(), func(_, _ int) {
		t.Error("f must not run for n = 0")
	})
}

func BenchmarkFor(b *testing.B) {
	n := 1 << 16
	out := make([]float64, n)

	b.Run("parallel", func(b *testing.B) {
		cfg := DefaultConfig()
		for i := 0; i < b.N; i++ {
			For(n, cfg, func(j int) { out[j] = float64(j) * 1.5 })
		}
	})

	b.Run("sequential", func(b *testing.B) {
		cfg := Sequential()
		for i := 0; i < b.N; i++ {
			For(n, cfg, func(j int) { out[j] = float64(j) * 1.5 })
		}
	})
}
