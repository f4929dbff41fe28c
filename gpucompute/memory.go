package gpucompute

import (
	"fmt"
	"math/bits"
)

// RAMLimit is the memory available to hold task outputs.
type RAMLimit struct {
	TotalMem uint64
}

// InsufficientMemoryError reports outputs that would not fit in the budget.
type InsufficientMemoryError struct {
	Available uint64
	Required  uint64
}

func (e *InsufficientMemoryError) Error() string {
	return fmt.Sprintf("not enough memory to store all gpu compute task outputs: available %.3f GB, max output size %.3f GB",
		gigabytes(e.Available), gigabytes(e.Required))
}

func gigabytes(n uint64) float64 {
	return float64(n) / 1024 / 1024 / 1024
}

// VerifyEnoughMemory checks that the summed maximum output bytes of all tasks
// stay within 90% of the limit. Exactly 90% passes.
func VerifyEnoughMemory(limit RAMLimit, maxOutputBytes ...uint64) error {
	var total uint64
	overflow := false
	for _, n := range maxOutputBytes {
		var carry uint64
		total, carry = bits.Add64(total, n, 0)
		overflow = overflow || carry != 0
	}

	// total > 0.9 * available, compared as total*10 > available*9 in 128 bits
	totalHi, totalLo := bits.Mul64(total, 10)
	availHi, availLo := bits.Mul64(limit.TotalMem, 9)
	exceeded := overflow || totalHi > availHi || (totalHi == availHi && totalLo > availLo)
	if exceeded {
		err := &InsufficientMemoryError{Available: limit.TotalMem, Required: total}
		logger().Error("gpucompute: not enough memory to store all gpu compute task outputs",
			"available_gb", gigabytes(limit.TotalMem), "max_output_gb", gigabytes(total))
		return err
	}
	return nil
}
