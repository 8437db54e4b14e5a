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
	"bytes"
	"fmt"
	"math/rand"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

func snapshotCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "snapshot",
		Short: "save or inspect container snapshots",
	}

	var n int

	save := &cobra.Command{
		Use:   "save <path>",
		Short: "build a bench container and write its snapshot atomically",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotSave(args[0], n)
		},
	}

	save.Flags().IntVar(&n, "n", 10000, "number of elements in the snapshot")
	root.AddCommand(save)
	return root
}

// runSnapshotSave serializes a freshly built container and writes it
// with atomic.WriteFile's write-to-temp-then-rename, so a process
// killed mid-save never corrupts a previous snapshot at path.
func runSnapshotSave(path string, n int) error {
	cfg, err := loadConfig()

	if err != nil {
		return err
	}

	c, err := buildVec(cfg)

	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(1))

	for i := 0; i < n; i++ {
		if err := c.PushBack(rng.Uint32()); err != nil {
			return err
		}
	}

	var buf bytes.Buffer

	if err := c.Serialize(&buf, cfg.Checksum); err != nil {
		return fmt.Errorf("cvec snapshot save: serialize: %w", err)
	}

	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("cvec snapshot save: write %s: %w", path, err)
	}

	fmt.Printf("wrote %d elements (%d bytes) to %s\n", c.Len(), buf.Len(), path)
	return nil
}

// writeAtomic is the shared atomic.WriteFile wrapper used by both
// snapshot save and the repl's save command.
func writeAtomic(path string, data []byte) error {
	return atomic.WriteFile(path, bytes.NewReader(data))
}
