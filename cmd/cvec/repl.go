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
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cvecio/cvec/sortkernel"
	"github.com/cvecio/cvec/store"
	"github.com/mattn/go-runewidth"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

// replCmds lists the interactive shell's commands, used both for
// dispatch and for the liner completer.
var replCmds = []string{"push", "pop", "get", "set", "sort", "stats", "save", "load", "help", "exit"}

// repl is the interactive container shell: push, pop, get, set, sort,
// stats, save, load, driven by a liner Prompt/AppendHistory/completer
// loop.
type repl struct {
	c     *store.CVec[uint32]
	liner *liner.State
	hint  sortkernel.BufferHint
}

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "interactive shell over a compressed container",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()

			if err != nil {
				return err
			}

			c, err := buildVec(cfg)

			if err != nil {
				return err
			}

			r := &repl{c: c, hint: cfg.SortHint()}
			return r.run()
		},
	}
}

func replHistoryFile() string {
	home, err := os.UserHomeDir()

	if err != nil {
		return ""
	}

	return filepath.Join(home, ".cvec_history")
}

func (r *repl) completer(line string) []string {
	var matches []string

	for _, c := range replCmds {
		if strings.HasPrefix(c, line) {
			matches = append(matches, c)
		}
	}

	return matches
}

func (r *repl) run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(replHistoryFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Println("cvec - compressed container shell")
	fmt.Println("Type 'help' for available commands.")

	for {
		line, err := r.liner.Prompt("cvec> ")

		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")
				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)
		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			r.saveHistory()
			return nil
		case "help", "?":
			r.printHelp()
		case "push":
			r.cmdPush(args)
		case "pop":
			r.cmdPop()
		case "get":
			r.cmdGet(args)
		case "set":
			r.cmdSet(args)
		case "sort":
			r.cmdSort()
		case "stats":
			r.cmdStats()
		case "save":
			r.cmdSave(args)
		case "load":
			r.cmdLoad(args)
		default:
			fmt.Printf("unknown command %q, type 'help'\n", cmd)
		}
	}

	return nil
}

func (r *repl) saveHistory() {
	if f, err := os.Create(replHistoryFile()); err == nil {
		r.liner.WriteHistory(f)
		f.Close()
	}
}

func (r *repl) printHelp() {
	fmt.Println("push <v>      append v")
	fmt.Println("pop           remove the last element")
	fmt.Println("get <i>       print element i")
	fmt.Println("set <i> <v>   overwrite element i with v")
	fmt.Println("sort          sort ascending")
	fmt.Println("stats         print size, bucket count, compression ratio")
	fmt.Println("save <path>   atomically write a snapshot")
	fmt.Println("load <path>   replace the container with a snapshot")
	fmt.Println("exit          quit")
}

func (r *repl) cmdPush(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: push <v>")
		return
	}

	v, err := strconv.ParseUint(args[0], 10, 32)

	if err != nil {
		fmt.Printf("invalid value: %v\n", err)
		return
	}

	if err := r.c.PushBack(uint32(v)); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func (r *repl) cmdPop() {
	if err := r.c.PopBack(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func (r *repl) cmdGet(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: get <i>")
		return
	}

	i, err := strconv.Atoi(args[0])

	if err != nil {
		fmt.Printf("invalid index: %v\n", err)
		return
	}

	ref, err := r.c.At(i)

	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	v, err := ref.Load()

	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	fmt.Println(v)
}

func (r *repl) cmdSet(args []string) {
	if len(args) != 2 {
		fmt.Println("usage: set <i> <v>")
		return
	}

	i, err := strconv.Atoi(args[0])

	if err != nil {
		fmt.Printf("invalid index: %v\n", err)
		return
	}

	v, err := strconv.ParseUint(args[1], 10, 32)

	if err != nil {
		fmt.Printf("invalid value: %v\n", err)
		return
	}

	ref, err := r.c.At(i)

	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	if err := ref.Store(uint32(v)); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func (r *repl) cmdSort() {
	r.c.Sort(func(a, b uint32) bool { return a < b }, r.hint)
}

// cmdStats prints a two-column table whose value column is aligned by
// display width rather than byte count, via go-runewidth - the one
// place the REPL's output isn't guaranteed ASCII-only (a future locale
// widget could report a wide-glyph label here).
func (r *repl) cmdStats() {
	rows := [][2]string{
		{"size", strconv.Itoa(r.c.Len())},
		{"buckets", strconv.Itoa(r.c.BucketCount())},
		{"compression_ratio", fmt.Sprintf("%.4f", r.c.CompressionRatio())},
	}

	labelWidth := 0

	for _, row := range rows {
		if w := runewidth.StringWidth(row[0]); w > labelWidth {
			labelWidth = w
		}
	}

	for _, row := range rows {
		pad := labelWidth - runewidth.StringWidth(row[0])
		fmt.Printf("%s%s  %s\n", row[0], strings.Repeat(" ", pad), row[1])
	}
}

func (r *repl) cmdSave(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: save <path>")
		return
	}

	var buf bytes.Buffer

	if err := r.c.Serialize(&buf, true); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	if err := writeAtomic(args[0], buf.Bytes()); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func (r *repl) cmdLoad(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: load <path>")
		return
	}

	f, err := os.Open(args[0])

	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	defer f.Close()

	c, err := store.Deserialize[uint32](f, store.Uint32Codec{}, true)

	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	r.c = c
	fmt.Printf("loaded %d elements\n", c.Len())
}
