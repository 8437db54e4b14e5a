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

// Command cvec is the CLI surface over the store/cvecconfig/coldstore/
// telemetry packages: bench, inspect, sort-demo, repl and snapshot
// save, plus optional S3 archival and Jaeger tracing.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/cvecio/cvec/coldstore"
	"github.com/cvecio/cvec/cvecconfig"
	"github.com/cvecio/cvec/store"
	"github.com/cvecio/cvec/telemetry"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
	"v.io/x/lib/cmd/flagvar"
)

// globalFlags holds the tuning knobs accepted as CLI flags via
// v.io/x/lib/cmd/flagvar's struct-tag registration.
type globalFlags struct {
	Acceleration int    `cmd:"accel,0,'codec acceleration level, 0-7'"`
	BufferHint   string `cmd:"buffer-hint,default,'sort buffer tier: default, medium, small, tiny, null'"`
}

var (
	cli             globalFlags
	configPath      string
	coldstoreBucket string
	coldstorePrefix string
	jaegerEndpoint  string
	rootCtx         context.Context
	rootSpan        trace.Span
)

func newGoFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("cvec", flag.ContinueOnError)
	return fs
}

// mustRegisterGlobalFlags registers the struct-tagged flags onto a
// stdlib flag.FlagSet, which is then bridged into cobra's
// pflag.FlagSet via AddGoFlagSet.
func mustRegisterGlobalFlags(fs *flag.FlagSet, v *globalFlags) {
	if err := flagvar.RegisterFlagsInStruct(fs, "cmd", v, nil, nil); err != nil {
		panic(fmt.Sprintf("cvec: registering global flags: %v", err))
	}
}

func main() {
	root := &cobra.Command{
		Use:   "cvec",
		Short: "inspect, benchmark and drive a compressed random-access container",
	}

	goFlags := newGoFlagSet()
	mustRegisterGlobalFlags(goFlags, &cli)
	root.PersistentFlags().AddGoFlagSet(goFlags)

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a cvecconfig JSONC tuning file")
	root.PersistentFlags().StringVar(&coldstoreBucket, "coldstore-bucket", "", "S3 bucket to mirror evicted buckets into")
	root.PersistentFlags().StringVar(&coldstorePrefix, "coldstore-prefix", "", "key prefix within --coldstore-bucket")
	root.PersistentFlags().StringVar(&jaegerEndpoint, "jaeger-endpoint", "", "Jaeger collector endpoint for OpenTelemetry tracing")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if jaegerEndpoint != "" {
			if err := telemetry.InitTracing(jaegerEndpoint); err != nil {
				return err
			}

			tracer := telemetry.GetTracer("cvec-cli")
			rootCtx, rootSpan = tracer.Start(context.Background(), cmd.Name())
		}

		return nil
	}

	root.AddCommand(benchCmd(), inspectCmd(), sortDemoCmd(), replCmd(), snapshotCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if jaegerEndpoint != "" {
		if rootSpan != nil {
			rootSpan.End()
		}

		_ = telemetry.Shutdown(context.Background())
	}
}

// loadConfig resolves --config into a cvecconfig.Config, overlaying the
// flagvar-registered globalFlags: a non-zero --accel and a --buffer-hint
// other than "default" override the file; the flags' default values
// leave the file's values in place.
func loadConfig() (cvecconfig.Config, error) {
	cfg, err := cvecconfig.Load(configPath)

	if err != nil {
		return cvecconfig.Config{}, err
	}

	if cli.Acceleration != 0 {
		cfg.Acceleration = cli.Acceleration
	}

	if cli.BufferHint != "" && cli.BufferHint != "default" {
		cfg.BufferHint = cli.BufferHint
	}

	return cfg, nil
}

// newArchiver returns a coldstore.Archiver when --coldstore-bucket was
// set, nil otherwise.
func newArchiver() (*coldstore.Archiver, error) {
	if coldstoreBucket == "" {
		return nil, nil
	}

	return coldstore.New(coldstoreBucket, coldstorePrefix)
}

// buildVec constructs a uint32 container from the resolved config and,
// when --coldstore-bucket is set, registers a Listener that mirrors
// every evicted bucket to S3.
func buildVec(cfg cvecconfig.Config) (*store.CVec[uint32], error) {
	c := store.New[uint32](store.Uint32Codec{}, cfg.Options()...)

	arc, err := newArchiver()

	if err != nil {
		return nil, err
	}

	if arc != nil {
		c.AddListener(&coldstoreListener{c: c, arc: arc})
	}

	if jaegerEndpoint != "" && rootCtx != nil {
		c.AddListener(telemetry.NewSpanListener(rootCtx))
	}

	return c, nil
}

// coldstoreListener archives a bucket's current compressed bytes to S3
// whenever the pool steals or shrinks its context, so evicted clean
// contexts are mirrored to S3.
// Archival errors are logged, not propagated: coldstore is a
// best-effort mirror, never load-bearing for local correctness.
type coldstoreListener struct {
	c   *store.CVec[uint32]
	arc *coldstore.Archiver
}

func (l *coldstoreListener) ProcessEvent(evt store.Event) {
	if evt.Type != store.EvtContextSteal && evt.Type != store.EvtContextShrink {
		return
	}

	if evt.Bucket < 0 {
		// EvtContextShrink's container-wide "shrink_to_fit" summary event
		// carries no single bucket index; nothing to archive.
		return
	}

	bucket := evt.Bucket

	if evt.Type == store.EvtContextSteal {
		// A steal event's Bucket is the bucket receiving the context;
		// the evicted bucket's index is carried in Detail.
		if _, err := fmt.Sscanf(evt.Detail, "stolen from bucket %d", &bucket); err != nil {
			return
		}
	}

	payload, err := l.c.CompressedBucket(bucket)

	if err != nil {
		fmt.Fprintf(os.Stderr, "coldstore: read bucket %d: %v\n", bucket, err)
		return
	}

	if err := l.arc.Archive(bucket, payload); err != nil {
		fmt.Fprintf(os.Stderr, "coldstore: archive bucket %d: %v\n", bucket, err)
	}
}
