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
package report

import "fmt"

// Report is the outcome of verifying a single method.  A method is either
// verified, or rejected with exactly one violation.  There is no partial
// outcome: a rejected method must not be linked or executed.
type Report struct {
	violation *Violation
}

// Verified constructs a report for a method which passed verification.
func Verified() Report {
	return Report{nil}
}

// Rejected constructs a report for a method which failed verification.
func Rejected(violation Violation) Report {
	return Report{&violation}
}

// IsVerified determines whether the method passed verification.
func (p Report) IsVerified() bool {
	return p.violation == nil
}

// Kind returns the kind of violation for a rejected method.  This panics for
// a verified method.
func (p Report) Kind() Kind {
	return p.Violation().Kind
}

// Index returns the index of the offending instruction for a rejected method.
// This panics for a verified method.
func (p Report) Index() uint {
	return p.Violation().Index
}

// Message returns a description of the violation, or the empty string for a
// verified method.
func (p Report) Message() string {
	if p.violation == nil {
		return ""
	}
	//
	return p.violation.Message
}

// Violation returns the violation for a rejected method.  This panics for a
// verified method.
func (p Report) Violation() Violation {
	if p.violation == nil {
		panic("verified method has no violation")
	}
	//
	return *p.violation
}

// Err returns the violation as an error, or nil for a verified method.
func (p Report) Err() error {
	if p.violation == nil {
		return nil
	}
	//
	return p.violation
}

// Equals determines whether two reports have the same outcome.
func (p Report) Equals(other Report) bool {
	if p.violation == nil || other.violation == nil {
		return p.violation == other.violation
	}
	//
	return *p.violation == *other.violation
}

func (p Report) String() string {
	if p.violation == nil {
		return "Verified"
	}
	//
	return fmt.Sprintf("Rejected(%s, %d)", p.violation.Kind, p.violation.Index)
}
