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
	"strconv"

	"github.com/cvecio/cvec/store"
	"github.com/spf13/cobra"
)

func sortDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort-demo <n>",
		Short: "shuffle then sort a bench container, printing before/after compression ratio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])

			if err != nil {
				return fmt.Errorf("cvec sort-demo: invalid n %q: %w", args[0], err)
			}

			return runSortDemo(n)
		},
	}

	return cmd
}

func runSortDemo(n int) error {
	cfg, err := loadConfig()

	if err != nil {
		return err
	}

	c, err := buildVec(cfg)

	if err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		if err := c.PushBack(uint32(i)); err != nil {
			return err
		}
	}

	rng := rand.New(rand.NewSource(1))

	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		a, err := c.At(i)

		if err != nil {
			return err
		}

		b, err := c.At(j)

		if err != nil {
			return err
		}

		if err := store.Swap[uint32](a, b); err != nil {
			return err
		}
	}

	fmt.Printf("compression ratio after shuffle: %.4f\n", c.CompressionRatio())

	c.Sort(func(a, b uint32) bool { return a < b }, cfg.SortHint())

	fmt.Printf("compression ratio after sort:    %.4f\n", c.CompressionRatio())
	return nil
}
