/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v2"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"
)

func benchCmd() *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "bench <n>",
		Short: "push n elements and report throughput plus compression ratio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])

			if err != nil {
				return fmt.Errorf("cvec bench: invalid n %q: %w", args[0], err)
			}

			return runBench(n, pattern)
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "ascending", "data pattern: ascending, random, constant")
	return cmd
}

func runBench(n int, pattern string) error {
	cfg, err := loadConfig()

	if err != nil {
		return err
	}

	c, err := buildVec(cfg)

	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(1))
	isTTY := terminal.IsTerminal(int(os.Stdout.Fd()))

	var bar *progressbar.ProgressBar

	if isTTY {
		bar = progressbar.NewOptions(n, progressbar.OptionSetPredictTime(true))
	}

	start := time.Now()

	for i := 0; i < n; i++ {
		v, genErr := benchValue(pattern, i, rng)

		if genErr != nil {
			return genErr
		}

		if err := c.PushBack(v); err != nil {
			return err
		}

		if bar != nil {
			bar.Add(1)
		}
	}

	elapsed := time.Since(start)

	if bar != nil {
		fmt.Println()
	}

	fmt.Printf("pushed %d elements in %s (%.0f elements/sec)\n", n, elapsed, float64(n)/elapsed.Seconds())
	fmt.Printf("compression ratio: %.4f\n", c.CompressionRatio())

	fp := c.MemoryFootprint()
	fmt.Printf("memory footprint: compressed=%d context=%d overhead=%d total=%d\n",
		fp.CompressedBytes, fp.ContextBytes, fp.Overhead, fp.Total())

	return nil
}

func benchValue(pattern string, i int, rng *rand.Rand) (uint32, error) {
	switch pattern {
	case "ascending":
		return uint32(i), nil
	case "random":
		return rng.Uint32(), nil
	case "constant":
		return 42, nil
	default:
		return 0, fmt.Errorf("cvec bench: unknown pattern %q", pattern)
	}
}
