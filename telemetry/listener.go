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

package telemetry

import (
	"context"

	"github.com/cvecio/cvec/store"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SpanListener adapts store.Event notifications into zero-duration
// span events on a single parent span, so a trace viewer shows every
// attach/steal/shrink/compress/decompress a container performed during
// the span's lifetime. Install with store.WithListener after calling
// StartSpan.
type SpanListener struct {
	ctx context.Context
}

// NewSpanListener returns a store.Listener that records container
// events against the span active in ctx.
func NewSpanListener(ctx context.Context) *SpanListener {
	return &SpanListener{ctx: ctx}
}

func (s *SpanListener) ProcessEvent(evt store.Event) {
	span := trace.SpanFromContext(s.ctx)

	if !span.IsRecording() {
		return
	}

	span.AddEvent(evt.Type.String(), trace.WithAttributes(
		attribute.Int("cvec.bucket", evt.Bucket),
		attribute.String("cvec.detail", evt.Detail),
	))
}
