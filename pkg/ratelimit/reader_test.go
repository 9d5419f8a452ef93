package ratelimit

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

// TestNewLimiter tests the Limiter constructor
func TestNewLimiter(t *testing.T) {
	t.Run("ValidBytesPerSecond", func(t *testing.T) {
		limiter := NewLimiter(1024 * 1024) // 1 MB/s
		if limiter == nil {
			t.Error("NewLimiter() returned nil for valid input")
		}
		if limiter.bytesPerSecond != 1024*1024 {
			t.Errorf("bytesPerSecond = %d, want %d", limiter.bytesPerSecond, 1024*1024)
		}
	})

	t.Run("ZeroBytesPerSecond", func(t *testing.T) {
		limiter := NewLimiter(0)
		if limiter != nil {
			t.Error("NewLimiter(0) should return nil (no limiting)")
		}
	})

	t.Run("NegativeBytesPerSecond", func(t *testing.T) {
		limiter := NewLimiter(-100)
		if limiter != nil {
			t.Error("NewLimiter(-100) should return nil (no limiting)")
		}
	})

	t.Run("SmallBytesPerSecond", func(t *testing.T) {
		limiter := NewLimiter(1000) // 1KB/s
		if limiter == nil {
			t.Error("NewLimiter() returned nil")
		}
		// Bucket size should be at least 64KB for smooth transfers
		if limiter.bucketSize < 65536 {
			t.Errorf("bucketSize = %d, want at least 65536", limiter.bucketSize)
		}
	})
}

// TestNewReader tests the Reader constructor
func TestNewReader(t *testing.T) {
	t.Run("WithLimiter", func(t *testing.T) {
		limiter := NewLimiter(1024 * 1024)
		baseReader := strings.NewReader("test content")
		ctx := context.Background()

		reader := NewReader(ctx, baseReader, limiter)
		if _, ok := reader.(*Reader); !ok {
			t.Error("NewReader() should return *Reader when limiter is provided")
		}
	})

	t.Run("NilLimiter", func(t *testing.T) {
		baseReader := strings.NewReader("test content")
		ctx := context.Background()

		reader := NewReader(ctx, baseReader, nil)
		if reader != baseReader {
			t.Error("NewReader() should return original reader when limiter is nil")
		}
	})
}

// TestReaderRead tests the Read method
func TestReaderRead(t *testing.T) {
	t.Run("BasicRead", func(t *testing.T) {
		content := []byte("hello world")
		limiter := NewLimiter(1024 * 1024) // 1 MB/s - fast enough to not delay
		baseReader := bytes.NewReader(content)
		ctx := context.Background()

		reader := NewReader(ctx, baseReader, limiter)

		buf := make([]byte, 100)
		n, err := reader.Read(buf)
		if err != nil && err != io.EOF {
			t.Fatalf("Read() error = %v", err)
		}
		if n != len(content) {
			t.Errorf("Read() n = %d, want %d", n, len(content))
		}
		if !bytes.Equal(buf[:n], content) {
			t.Errorf("Read() content = %s, want %s", string(buf[:n]), string(content))
		}
	})

	t.Run("ContextCancellation", func(t *testing.T) {
		content := make([]byte, 1024)
		limiter := NewLimiter(1024 * 1024)
		baseReader := bytes.NewReader(content)
		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		reader := NewReader(ctx, baseReader, limiter)

		buf := make([]byte, 100)
		if _, err := reader.Read(buf); err == nil {
			t.Error("Read() should return error on cancelled context")
		}
	})

	t.Run("MultipleReads", func(t *testing.T) {
		content := []byte("0123456789abcdef")
		limiter := NewLimiter(1024 * 1024)
		baseReader := bytes.NewReader(content)
		ctx := context.Background()

		reader := NewReader(ctx, baseReader, limiter)

		var result []byte
		buf := make([]byte, 4)
		for {
			n, err := reader.Read(buf)
			if n > 0 {
				result = append(result, buf[:n]...)
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
		}

		if !bytes.Equal(result, content) {
			t.Errorf("Read() accumulated = %s, want %s", string(result), string(content))
		}
	})
}

// TestTokenBucket tests the token bucket algorithm
func TestTokenBucket(t *testing.T) {
	t.Run("InitialTokens", func(t *testing.T) {
		limiter := NewLimiter(1024 * 1024) // 1 MB/s
		// Bucket should start full
		if limiter.tokens != limiter.bucketSize {
			t.Errorf("Initial tokens = %d, want %d", limiter.tokens, limiter.bucketSize)
		}
	})

	t.Run("ConsumeTokens", func(t *testing.T) {
		limiter := NewLimiter(1024 * 1024)
		initialTokens := limiter.tokens

		limiter.consumeTokens(1000)

		if limiter.tokens != initialTokens-1000 {
			t.Errorf("After consume, tokens = %d, want %d", limiter.tokens, initialTokens-1000)
		}
	})

	t.Run("ConsumeMoreThanAvailable", func(t *testing.T) {
		limiter := NewLimiter(1024)
		limiter.tokens = 100

		limiter.consumeTokens(200)

		// Should clamp to 0
		if limiter.tokens != 0 {
			t.Errorf("After over-consume, tokens = %d, want 0", limiter.tokens)
		}
	})

	t.Run("RefillTokens", func(t *testing.T) {
		limiter := NewLimiter(1000) // 1000 bytes/second
		limiter.tokens = 0
		limiter.lastUpdate = time.Now().Add(-100 * time.Millisecond) // 100ms ago

		limiter.refillTokens()

		// Should have refilled ~100 tokens (100ms * 1000 bytes/s)
		if limiter.tokens < 50 || limiter.tokens > 150 {
			t.Errorf("After refill, tokens = %d, expected ~100", limiter.tokens)
		}
	})

	t.Run("RefillCapped", func(t *testing.T) {
		limiter := NewLimiter(1000)
		limiter.tokens = limiter.bucketSize - 10
		limiter.lastUpdate = time.Now().Add(-1 * time.Second) // 1 second ago

		limiter.refillTokens()

		// Should be capped at bucket size
		if limiter.tokens != limiter.bucketSize {
			t.Errorf("After capped refill, tokens = %d, want %d", limiter.tokens, limiter.bucketSize)
		}
	})
}

// TestParseRate tests the rate string parser
func TestParseRate(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"", 0, false},
		{"1000", 1000, false},
		{"500K", 500 * 1024, false},
		{"500k", 500 * 1024, false},
		{"10M", 10 * 1024 * 1024, false},
		{"1G", 1024 * 1024 * 1024, false},
		{" 10M ", 10 * 1024 * 1024, false},
		{"abc", 0, true},
		{"10X", 0, true},
		{"-5M", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseRate(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
