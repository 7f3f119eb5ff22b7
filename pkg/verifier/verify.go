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

	"github.com/consensys/go-bcverify/pkg/bytecode"
	"github.com/consensys/go-bcverify/pkg/bytecode/cfg"
	"github.com/consensys/go-bcverify/pkg/bytecode/dfa"
	"github.com/consensys/go-bcverify/pkg/bytecode/report"
	log "github.com/sirupsen/logrus"
)

// Verify checks a single method, returning either a Verified report or a
// Rejected report identifying the first violation encountered.  Verification
// is a forward dataflow analysis over the method's control-flow graph.  The
// abstract register state on entry to every reachable block is first computed
// to a fixed point, after which every reachable block is checked (in order of
// position) against its final entry state.
func Verify(method bytecode.Method) report.Report {
	// A background context cannot be cancelled, hence no error can arise.
	rep, _ := verify(context.Background(), &method)
	//
	return rep
}

// verify implements Verify, whilst checking for cancellation between block
// visits.
func verify(ctx context.Context, method *bytecode.Method) (report.Report, error) {
	graph, violation := cfg.Build(method.Code, method.Registers)
	//
	if violation != nil {
		log.Debugf("rejected %s (cfg): %s", method.Name, violation.Error())
		//
		return report.Rejected(*violation), nil
	}
	// Determine entry states
	worklist, err := solve(ctx, method, &graph)
	if err != nil {
		return report.Report{}, err
	}
	// Check reachable blocks
	for index, n := uint(0), graph.Blocks(); index < n; index++ {
		if err := ctx.Err(); err != nil {
			return report.Report{}, err
		} else if !worklist.Visited(index) {
			log.Debugf("skipping unreachable %s block #%d", method.Name, index)
			continue
		}
		//
		block := graph.Block(index)
		state := worklist.EntryOf(index).Unwrap().Clone()
		//
		for pc := block.Start(); pc < block.End(); pc++ {
			if violation := transfer(method, pc, state); violation != nil {
				log.Debugf("rejected %s (block #%d): %s", method.Name, graph.BlockOf(pc).Index(), violation.Error())
				//
				return report.Rejected(*violation), nil
			}
		}
	}
	//
	return report.Verified(), nil
}

// solve computes the entry state of every reachable block, by propagating
// the effects of instructions around the control-flow graph until nothing
// changes.  No checking is performed at this stage, since an entry state is
// not final until the fixed point is reached.
func solve(ctx context.Context, method *bytecode.Method, graph *cfg.Graph) (dfa.Worklist, error) {
	worklist := dfa.NewWorklist(graph.Blocks(), graph.Entry().Index(), initialState(method))
	//
	for !worklist.Empty() {
		if err := ctx.Err(); err != nil {
			return worklist, err
		}
		//
		index, state := worklist.Pop()
		block := graph.Block(index)
		//
		log.Debugf("visiting %s block #%d %s", method.Name, index, state.String())
		//
		for pc := block.Start(); pc < block.End(); pc++ {
			apply(method, pc, state)
		}
		// Propagate exit state
		for _, succ := range block.Successors() {
			worklist.Join(succ, state)
		}
	}
	//
	return worklist, nil
}

// initialState constructs the abstract state on entry to a method.  Incoming
// parameters hold their declared values, whilst all other registers are
// uninitialized.
func initialState(method *bytecode.Method) dfa.State {
	state := dfa.NewState(method.Registers.Size())
	//
	for _, param := range method.Registers.Params() {
		value := param.Type.Value()
		state.Set(param.Slot, value)
		//
		if value.IsWideLow() {
			state.Set(param.Slot.Next(), value.High())
		}
	}
	//
	return state
}
