package gapbuffer

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"testing"
)

var benchSizes = []int{1 << 10, 1 << 16, 1 << 20}

func newBenchBuffer(b *testing.B, size int) *GapBuffer {
	b.Helper()
	gb, err := NewFromString(strings.Repeat("x", size))
	if err != nil {
		b.Fatalf("NewFromString() error = %v", err)
	}
	b.Cleanup(gb.Release)
	return gb
}

func BenchmarkInsertAtPoint(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			gb := newBenchBuffer(b, size)
			gb.SetPoint(size / 2)
			payload := []byte("a")

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := gb.Insert(payload); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkTypeAndBackspace(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			gb := newBenchBuffer(b, size)
			gb.SetPoint(size / 3)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = gb.InsertString("word ")
				gb.DeleteBackward(2)
			}
		})
	}
}

func BenchmarkLocalizedEdits(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			gb := newBenchBuffer(b, size)
			rng := rand.New(rand.NewSource(1))
			center := size / 2

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				gb.SetPoint(center + rng.Intn(128) - 64)
				_ = gb.InsertString("z")
				gb.DeleteForward(1)
			}
		})
	}
}

func BenchmarkRandomEdits(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			gb := newBenchBuffer(b, size)
			rng := rand.New(rand.NewSource(1))

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				gb.SetPoint(rng.Intn(gb.Len() + 1))
				_ = gb.InsertString("z")
				gb.DeleteBackward(1)
			}
		})
	}
}

func BenchmarkReadAll(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			gb := newBenchBuffer(b, size)
			gb.SetPoint(size / 2)
			_ = gb.InsertString("split")

			b.SetBytes(int64(gb.Len()))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				gb.Seeker().SeekTo(0)
				if _, err := io.Copy(io.Discard, gb.Reader()); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
