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

package cvecconfig

import (
	"github.com/cvecio/cvec/sortkernel"
	"github.com/cvecio/cvec/store"
)

// Options converts a parsed Config into the store.Option slice that
// builds a CVec with the same tuning. ContextCeilingRatio, when set,
// takes precedence over the absolute ContextCeiling, matching the
// more dynamic of the two ceiling knobs.
func (c Config) Options() []store.Option {
	opts := []store.Option{
		store.WithAcceleration(c.Acceleration),
		store.WithDispersionTuning(c.DispersionIncDecomp, c.DispersionDecWrite),
	}

	if c.ContextCeilingRatio > 0 {
		opts = append(opts, store.WithContextCeilingRatio(c.ContextCeilingRatio))
	} else if c.ContextCeiling > 0 {
		opts = append(opts, store.WithContextCeiling(c.ContextCeiling))
	}

	// Checksum governs Serialize/Deserialize framing, not construction,
	// so it has no store.Option counterpart; callers read c.Checksum
	// directly when calling CVec.Serialize.
	return opts
}

// SortHint maps the buffer_hint field onto the sort kernel's buffer
// tiers. An unrecognized value falls back to the default
// tier, consistent with merge's unset-means-default rule.
func (c Config) SortHint() sortkernel.BufferHint {
	switch c.BufferHint {
	case "medium":
		return sortkernel.BufferMedium
	case "small":
		return sortkernel.BufferSmall
	case "tiny":
		return sortkernel.BufferTiny
	case "null":
		return sortkernel.BufferNull
	default:
		return sortkernel.BufferDefault
	}
}
