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
	"encoding/hex"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr/mimc"
	"github.com/consensys/go-bcverify/pkg/bytecode"
	"github.com/consensys/go-bcverify/pkg/bytecode/lattice"
)

// Fingerprint is a MiMC digest identifying everything about a method which
// can affect its verification outcome.  Specifically, this covers the shape
// of its register file, its declared return type and its instructions (but
// not its name).
type Fingerprint [fr.Bytes]byte

func (p Fingerprint) String() string {
	return hex.EncodeToString(p[:])
}

// FingerprintOf computes the fingerprint of a given method.
func FingerprintOf(method *bytecode.Method) Fingerprint {
	var (
		hasher      = newHasher()
		fingerprint Fingerprint
	)
	// Register file
	hasher.writeUint(method.Registers.Size())
	hasher.writeUint(uint(len(method.Registers.Params())))
	//
	for _, param := range method.Registers.Params() {
		hasher.writeUint(param.Slot.Unwrap())
		hasher.writeType(param.Type)
	}
	//
	hasher.writeType(method.Returns)
	// Instructions
	hasher.writeUint(uint(len(method.Code)))
	//
	for _, instr := range method.Code {
		hasher.writeString(instr.Opcode.Name())
		hasher.writeUint(uint(len(instr.Registers)))
		//
		for _, reg := range instr.Registers {
			hasher.writeUint(reg.Unwrap())
		}
		//
		hasher.writeUint(uint(len(instr.Targets)))
		//
		for _, target := range instr.Targets {
			hasher.writeUint(target)
		}
		//
		hasher.writeInt(instr.Literal)
	}
	//
	copy(fingerprint[:], hasher.Sum(nil))
	//
	return fingerprint
}

// hasher feeds method components into MiMC, one field element at a time.
type hasher struct {
	mimc interface {
		Write([]byte) (int, error)
		Sum([]byte) []byte
	}
}

func newHasher() hasher {
	return hasher{mimc.NewMiMC()}
}

func (p hasher) writeElement(element *fr.Element) {
	bytes := element.Bytes()
	// Canonical elements are always accepted.
	if _, err := p.mimc.Write(bytes[:]); err != nil {
		panic(err.Error())
	}
}

func (p hasher) writeUint(val uint) {
	element := fr.NewElement(uint64(val))
	p.writeElement(&element)
}

func (p hasher) writeInt(val int64) {
	var element fr.Element
	//
	element.SetInt64(val)
	p.writeElement(&element)
}

func (p hasher) writeType(typ lattice.Type) {
	p.writeString(typ.String())
}

func (p hasher) writeString(val string) {
	var element fr.Element
	// Mnemonics are short enough to fit within a single element.
	element.SetBytes([]byte(val))
	p.writeElement(&element)
}

// Sum returns the digest of everything written so far.
func (p hasher) Sum(b []byte) []byte {
	return p.mimc.Sum(b)
}
