// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/cloudherder/cloudherder/pkg/defaults"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Port)
				assert.Equal(t, rate.Limit(100), cfg.RateLimit)
				assert.Equal(t, 200, cfg.RateLimitBurst)
				assert.Equal(t, defaults.ServerReadHeaderTimeout, cfg.ReadHeaderTimeout)
				assert.Equal(t, defaults.ServerShutdownTimeout, cfg.ShutdownTimeout)
			},
		},
		{
			name: "herderd deployment overrides",
			env: map[string]string{
				"PORT":                     "9090",
				"RATE_LIMIT":               "5",
				"RATE_LIMIT_BURST":         "12",
				"SHUTDOWN_TIMEOUT_SECONDS": "45",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Port)
				assert.Equal(t, rate.Limit(5), cfg.RateLimit)
				assert.Equal(t, 12, cfg.RateLimitBurst)
				assert.Equal(t, 45*time.Second, cfg.ShutdownTimeout)
			},
		},
		{
			name: "burst override alone keeps the rate",
			env:  map[string]string{"RATE_LIMIT_BURST": "1"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, rate.Limit(100), cfg.RateLimit)
				assert.Equal(t, 1, cfg.RateLimitBurst)
			},
		},
		{
			name: "malformed and non-positive values are ignored",
			env: map[string]string{
				"PORT":                     "http",
				"RATE_LIMIT":               "0",
				"RATE_LIMIT_BURST":         "-3",
				"SHUTDOWN_TIMEOUT_SECONDS": "1.5",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Port)
				assert.Equal(t, rate.Limit(100), cfg.RateLimit)
				assert.Equal(t, 200, cfg.RateLimitBurst)
				assert.Equal(t, defaults.ServerShutdownTimeout, cfg.ShutdownTimeout)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"PORT", "RATE_LIMIT", "RATE_LIMIT_BURST", "SHUTDOWN_TIMEOUT_SECONDS"} {
				t.Setenv(k, tt.env[k])
			}
			tt.check(t, NewConfig())
		})
	}
}
