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
	"sync"

	"github.com/consensys/go-bcverify/pkg/bytecode/report"
)

// Cache memoises verification reports by method fingerprint.  Since
// verification is deterministic, a method which has been verified once need
// not be verified again.  A cache is safe for concurrent use.
type Cache struct {
	mux     sync.Mutex
	reports map[Fingerprint]report.Report
	hits    uint
	misses  uint
}

// NewCache constructs an empty cache.
func NewCache() *Cache {
	return &Cache{reports: make(map[Fingerprint]report.Report)}
}

// Get looks up the report for a given fingerprint.
func (p *Cache) Get(fingerprint Fingerprint) (report.Report, bool) {
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	rep, ok := p.reports[fingerprint]
	//
	if ok {
		p.hits++
	} else {
		p.misses++
	}
	//
	return rep, ok
}

// Put records the report for a given fingerprint.
func (p *Cache) Put(fingerprint Fingerprint, rep report.Report) {
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	p.reports[fingerprint] = rep
}

// Len returns the number of reports held in this cache.
func (p *Cache) Len() uint {
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	return uint(len(p.reports))
}

// Stats returns the number of cache hits and misses so far.
func (p *Cache) Stats() (hits uint, misses uint) {
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	return p.hits, p.misses
}
