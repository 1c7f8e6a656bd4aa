package cmd

import (
	"fmt"

	"github.com/klauspost/cpuid/v2"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"
)

// InfoCommand reports the host's CPU/memory headroom relevant to sizing
// convolver/resampler FFT buffers (spec.md §4.4/§4.6 size the FFT by the
// host's own cost model; this surfaces the inputs a host would plug into
// one).
func InfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print host CPU and memory info relevant to DSP buffer sizing",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("CPU: %s\n", cpuid.CPU.BrandName)
			fmt.Printf("  physical cores: %d, logical cores: %d\n", cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores)
			fmt.Printf("  AVX2: %v, FMA3: %v\n", cpuid.CPU.Supports(cpuid.AVX2), cpuid.CPU.Supports(cpuid.FMA3))

			vm, err := mem.VirtualMemory()
			if err != nil {
				return fmt.Errorf("read memory info: %w", err)
			}
			fmt.Printf("Memory: %d MiB total, %d MiB available\n", vm.Total/(1<<20), vm.Available/(1<<20))
			return nil
		},
	}
}
