// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package verifier

import (
	"context"
	"fmt"
	"time"

	"github.com/consensys/go-bcverify/pkg/bytecode"
	"github.com/consensys/go-bcverify/pkg/bytecode/report"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Config determines how a verifier runs.
type Config struct {
	// Maximum number of methods verified concurrently (0 means unlimited).
	Workers uint
	// Maximum time allowed for verifying a single method (0 means no limit).
	Timeout time.Duration
	// Determines whether reports are memoised by method fingerprint.
	Cache bool
}

// DefaultConfig returns a configuration with caching enabled, no timeout and
// a single worker.
func DefaultConfig() Config {
	return Config{Workers: 1, Timeout: 0, Cache: true}
}

// Verifier verifies methods according to a given configuration.  A verifier
// can be shared between goroutines.
type Verifier struct {
	config Config
	// Report cache (nil if disabled)
	cache *Cache
}

// New constructs a verifier for a given configuration.
func New(config Config) *Verifier {
	var cache *Cache
	//
	if config.Cache {
		cache = NewCache()
	}
	//
	return &Verifier{config, cache}
}

// Config returns the configuration of this verifier.
func (p *Verifier) Config() Config {
	return p.config
}

// Cache returns the report cache of this verifier, or nil if caching is
// disabled.
func (p *Verifier) Cache() *Cache {
	return p.cache
}

// Verify checks a single method.  An error is returned only when verification
// could not complete (e.g. the context was cancelled, or the configured
// timeout expired); a rejected method is not an error.
func (p *Verifier) Verify(ctx context.Context, method bytecode.Method) (report.Report, error) {
	var fingerprint Fingerprint
	//
	if p.cache != nil {
		fingerprint = FingerprintOf(&method)
		//
		if rep, ok := p.cache.Get(fingerprint); ok {
			log.Debugf("cache hit for %s", method.Name)
			return rep, nil
		}
	}
	//
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		//
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}
	//
	rep, err := verify(ctx, &method)
	//
	if err != nil {
		return rep, fmt.Errorf("verifying %s: %w", method.Name, err)
	} else if p.cache != nil {
		p.cache.Put(fingerprint, rep)
	}
	//
	return rep, nil
}

// VerifyAll checks a batch of independent methods, returning one report per
// method (in the given order).  Methods are verified concurrently, subject to
// the configured worker limit.  The first error encountered aborts the batch.
func (p *Verifier) VerifyAll(ctx context.Context, methods []bytecode.Method) ([]report.Report, error) {
	var reports = make([]report.Report, len(methods))
	//
	group, ctx := errgroup.WithContext(ctx)
	//
	if p.config.Workers > 0 {
		group.SetLimit(int(p.config.Workers))
	}
	//
	for i := range methods {
		i := i
		group.Go(func() error {
			var err error
			//
			reports[i], err = p.Verify(ctx, methods[i])
			//
			return err
		})
	}
	//
	if err := group.Wait(); err != nil {
		return nil, err
	}
	//
	return reports, nil
}
