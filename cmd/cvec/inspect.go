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
	"os"

	"github.com/cvecio/cvec/codec"
	"github.com/cvecio/cvec/store"
	"github.com/spf13/cobra"
)

// inspectListener logs every context-pool event seen while a snapshot
// is deserialized and walked.
type inspectListener struct{}

func (inspectListener) ProcessEvent(evt store.Event) {
	fmt.Printf("[event] %-18s bucket=%-6d %s\n", evt.Type, evt.Bucket, evt.Detail)
}

func inspectCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "deserialize a snapshot and print per-bucket row-type histograms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0], verbose)
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "log container events as they occur")
	return cmd
}

func runInspect(path string, verbose bool) error {
	f, err := os.Open(path)

	if err != nil {
		return fmt.Errorf("cvec inspect: open %s: %w", path, err)
	}

	defer f.Close()

	opts := []store.Option{}

	if verbose {
		opts = append(opts, store.WithListener(inspectListener{}))
	}

	c, err := store.Deserialize[uint32](f, store.Uint32Codec{}, true, opts...)

	if err != nil {
		return fmt.Errorf("cvec inspect: deserialize: %w", err)
	}

	fmt.Printf("elements: %d, buckets: %d\n", c.Len(), c.BucketCount())
	fmt.Printf("%-8s %-10s %-10s %-10s\n", "bucket", "all_same", "all_raw", "normal")

	var totalSame, totalRaw, totalNormal int

	for i := 0; i < c.BucketCount(); i++ {
		if i == c.BucketCount()-1 && c.Len()%codec.B != 0 {
			// A partial last bucket's payload is raw element bytes, not a
			// compressed block; it has no row-type header to report.
			continue
		}

		payload, err := c.CompressedBucket(i)

		if err != nil {
			return fmt.Errorf("cvec inspect: bucket %d: %w", i, err)
		}

		same, raw, normal, err := codec.RowHistogram(payload, 4)

		if err != nil {
			return fmt.Errorf("cvec inspect: bucket %d histogram: %w", i, err)
		}

		totalSame += same
		totalRaw += raw
		totalNormal += normal
		fmt.Printf("%-8d %-10d %-10d %-10d\n", i, same, raw, normal)
	}

	fmt.Printf("total    %-10d %-10d %-10d\n", totalSame, totalRaw, totalNormal)
	return nil
}
