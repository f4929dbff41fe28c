package gpucompute

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
)

func TestVerifyEnoughMemory(t *testing.T) {
	tests := []struct {
		name    string
		total   uint64
		outputs []uint64
		ok      bool
	}{
		{"no outputs", 1000, nil, true},
		{"below", 1000, []uint64{100, 200}, true},
		{"exactly 90 percent", 1000, []uint64{400, 500}, true},
		{"one byte over", 1000, []uint64{400, 501}, false},
		{"zero memory", 0, []uint64{1}, false},
		{"large budget", math.MaxUint64, []uint64{math.MaxUint64 / 10 * 9}, true},
		{"sum overflows", math.MaxUint64, []uint64{math.MaxUint64, 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyEnoughMemory(RAMLimit{TotalMem: tt.total}, tt.outputs...)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok {
				var insufficient *InsufficientMemoryError
				if !errors.As(err, &insufficient) {
					t.Fatalf("got %v, want InsufficientMemoryError", err)
				}
				if insufficient.Available != tt.total {
					t.Errorf("Available: got %d, want %d", insufficient.Available, tt.total)
				}
			}
		})
	}
}

func TestInsufficientMemoryMessage(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)

	gb := uint64(1 << 30)
	err := VerifyEnoughMemory(RAMLimit{TotalMem: gb}, gb)
	if err == nil {
		t.Fatal("expected error")
	}
	want := "not enough memory to store all gpu compute task outputs: available 1.000 GB, max output size 1.000 GB"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
	if !strings.Contains(buf.String(), "level=ERROR") || !strings.Contains(buf.String(), "available_gb=1") {
		t.Errorf("error not logged: %q", buf.String())
	}
}
