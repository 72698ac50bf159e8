// internal/runutil/runutil.go
package runutil

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/KHajji/distle/internal/engine"
)

// recordBytes approximates one engine.Record held in a chunk batch
// (two string headers and an int).
const recordBytes = 40

// availableMemory is swapped in tests.
var availableMemory = func() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Available, nil
}

// EffectiveThreads resolves the --threads value: <1 means every CPU.
func EffectiveThreads(threads int) int {
	if threads < 1 {
		return runtime.NumCPU()
	}
	return threads
}

// ChunkFootprint estimates the bytes held by the largest chunk batch for n
// rows: the last chunk in lower-triangle mode, any chunk in full mode.
func ChunkFootprint(n, chunk int, mode engine.Mode) uint64 {
	if n <= 0 || chunk <= 0 {
		return 0
	}
	if chunk > n {
		chunk = n
	}
	var pairs uint64
	switch mode {
	case engine.Full:
		pairs = uint64(chunk) * uint64(n)
	default:
		// rows n-chunk .. n-1 each hold i records
		first := uint64(n - chunk)
		last := uint64(n - 1)
		pairs = (first + last) * uint64(chunk) / 2
	}
	return pairs * recordBytes
}

// ValidateRun returns warnings for a planned run. Rules:
//   - --threads above the CPU count oversubscribes
//   - a chunk batch larger than half the available memory risks swapping
//
// A failed memory probe is not reported.
func ValidateRun(n, threads int, mode engine.Mode) []string {
	var warns []string
	if cpus := runtime.NumCPU(); threads > cpus {
		warns = append(warns, fmt.Sprintf("--threads %d exceeds the %d available CPUs", threads, cpus))
	}
	need := ChunkFootprint(n, engine.ChunkSize(n, threads), mode)
	if avail, err := availableMemory(); err == nil && avail > 0 && need > avail/2 {
		warns = append(warns, fmt.Sprintf("one chunk of results needs ~%d MiB but only %d MiB is available; consider --maxdist or fewer --threads",
			need>>20, avail>>20))
	}
	return warns
}
