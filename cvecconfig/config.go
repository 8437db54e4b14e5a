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

// Package cvecconfig loads the JSONC tuning file for a CVec's codec
// acceleration, context ceiling, and dispersion constants, using the
// two-step hujson.Standardize-then-json.Unmarshal pattern: JSONC bytes
// are standardized to strict JSON before unmarshaling.
package cvecconfig

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// Config is the on-disk tuning surface for a CVec instantiation. A
// zero value of any field means "unset, use the built-in default" (a
// JSONC file can't distinguish "0" from "absent" without pointer
// fields, which this config avoids for readability).
type Config struct {
	Acceleration        int    `json:"acceleration,omitempty"`
	ContextCeiling      int    `json:"context_ceiling,omitempty"`
	ContextCeilingRatio int    `json:"context_ceiling_ratio,omitempty"`
	DispersionIncDecomp int    `json:"dispersion_inc_decompress,omitempty"`
	DispersionDecWrite  int    `json:"dispersion_dec_write,omitempty"`
	BufferHint          string `json:"buffer_hint,omitempty"`
	Checksum            bool   `json:"checksum,omitempty"`
}

// Default returns the built-in configuration: acceleration 0, an
// absolute context ceiling of 16, the stock dispersion constants
// (+512/-4), the default buffer hint, no checksum.
func Default() Config {
	return Config{
		Acceleration:        0,
		ContextCeiling:      16,
		DispersionIncDecomp: 512,
		DispersionDecWrite:  4,
		BufferHint:          "default",
		Checksum:            false,
	}
}

// Load reads path as JSONC, standardizes it to JSON via hujson, and
// merges it on top of Default(). A missing path is not an error: it
// returns Default() unchanged, so a bare CLI invocation runs on
// built-in defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled by design
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return Config{}, fmt.Errorf("cvecconfig: read %s: %w", path, err)
	}

	return Parse(data)
}

// Parse standardizes JSONC bytes to JSON and merges the result on top
// of Default(). Exported separately from Load so callers embedding a
// config blob (rather than a file path) can reuse the same merge rule.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("cvecconfig: invalid JSONC: %w", err)
	}

	var overlay Config

	if err := json.Unmarshal(standardized, &overlay); err != nil {
		return Config{}, fmt.Errorf("cvecconfig: invalid JSON: %w", err)
	}

	return merge(cfg, overlay), nil
}

func merge(base, overlay Config) Config {
	if overlay.Acceleration != 0 {
		base.Acceleration = overlay.Acceleration
	}

	if overlay.ContextCeiling != 0 {
		base.ContextCeiling = overlay.ContextCeiling
	}

	if overlay.ContextCeilingRatio != 0 {
		base.ContextCeilingRatio = overlay.ContextCeilingRatio
	}

	if overlay.DispersionIncDecomp != 0 {
		base.DispersionIncDecomp = overlay.DispersionIncDecomp
	}

	if overlay.DispersionDecWrite != 0 {
		base.DispersionDecWrite = overlay.DispersionDecWrite
	}

	if overlay.BufferHint != "" {
		base.BufferHint = overlay.BufferHint
	}

	if overlay.Checksum {
		base.Checksum = true
	}

	return base
}
