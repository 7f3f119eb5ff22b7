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
package asm

import (
	"fmt"
	"strconv"

	"github.com/consensys/go-bcverify/pkg/bytecode"
	"github.com/consensys/go-bcverify/pkg/bytecode/insn"
	"github.com/consensys/go-bcverify/pkg/bytecode/lattice"
	"github.com/consensys/go-bcverify/pkg/bytecode/register"
	"github.com/consensys/go-bcverify/pkg/util/source"
	"github.com/consensys/go-bcverify/pkg/util/source/lex"
)

// Method is an assembled method, along with enough source information to
// report problems against the original text.
type Method struct {
	bytecode.Method
	// File from which this method was assembled.
	File *source.File
	// Span of the method header.
	Span source.Span
	// Span of each instruction.
	Spans []source.Span
}

// Error constructs an error positioned on a given instruction of this method
// (or on the method header, if the index is out of bounds).
func (p *Method) Error(index uint, msg string) *source.SyntaxError {
	if index < uint(len(p.Spans)) {
		return p.File.SyntaxError(p.Spans[index], msg)
	}
	//
	return p.File.SyntaxError(p.Span, msg)
}

// Parse accepts a given source file containing zero or more methods written in
// assembly language, and assembles them into instruction sequences which can
// then be verified.
func Parse(srcfile *source.File) ([]Method, []source.SyntaxError) {
	parser := NewParser(srcfile)
	// Parse methods
	return parser.Parse()
}

// ============================================================================
// Parser
// ============================================================================

// Parser is a parser for assembly language.
type Parser struct {
	srcfile *source.File
	tokens  []lex.Token
	// Position within the tokens
	index int
}

// NewParser constructs a new parser for a given source file.
func NewParser(srcfile *source.File) *Parser {
	return &Parser{srcfile, nil, 0}
}

// Parse the given source file into a sequence of zero or more methods and/or
// some number of syntax errors.
func (p *Parser) Parse() ([]Method, []source.SyntaxError) {
	var (
		methods []Method
		method  Method
		names   = make(map[string]bool)
		errors  []source.SyntaxError
	)
	// Convert source file into tokens
	if p.tokens, errors = Lex(*p.srcfile); len(errors) > 0 {
		return nil, errors
	}
	// Continue going until all consumed
	for p.lookahead().Kind != END_OF {
		lookahead := p.lookahead()
		// Determine type of declaration
		switch lookahead.Kind {
		case KEYWORD_METHOD:
			method, errors = p.parseMethod()
		default:
			errors = p.syntaxErrors(lookahead, "unknown declaration")
		}
		//
		if len(errors) > 0 {
			return nil, errors
		} else if names[method.Name] {
			return nil, []source.SyntaxError{*p.srcfile.SyntaxError(method.Span, "duplicate method")}
		}
		//
		names[method.Name] = true
		methods = append(methods, method)
	}
	//
	return methods, nil
}

func (p *Parser) parseMethod() (Method, []source.SyntaxError) {
	var (
		first       = p.index
		static      bool
		name        string
		desc, count lex.Token
		registers   register.File
		returns     lattice.Type
		errs        []source.SyntaxError
		code        []insn.Instruction
		spans       []source.Span
		instr       insn.Instruction
		span        source.Span
		nregs       uint64
		err         error
		header      source.Span
		method      bytecode.Method
	)
	// Parse method declaration
	if _, errs = p.expect(KEYWORD_METHOD); len(errs) > 0 {
		return Method{}, errs
	}
	// Parse modifiers
	for p.lookahead().Kind == IDENTIFIER && !p.follows(IDENTIFIER, DESCRIPTOR) {
		static = static || p.string(p.lookahead()) == "static"
		p.index++
	}
	// Parse method name
	if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return Method{}, errs
	} else if desc, errs = p.expect(DESCRIPTOR); len(errs) > 0 {
		return Method{}, errs
	}
	//
	header = p.spanOf(first, p.index-1)
	// Parse register count
	if _, errs = p.expect(KEYWORD_REGISTERS); len(errs) > 0 {
		return Method{}, errs
	} else if count, errs = p.expect(NUMBER); len(errs) > 0 {
		return Method{}, errs
	} else if nregs, err = strconv.ParseUint(p.string(count), 0, 16); err != nil {
		return Method{}, p.syntaxErrors(count, "invalid register count")
	}
	// Determine register file shape
	if registers, returns, err = register.FromDescriptor(uint(nregs), static, p.string(desc)); err != nil {
		return Method{}, p.syntaxErrors(desc, err.Error())
	}
	//
	env := NewEnvironment(registers)
	// Parse instructions until end of method
	for p.lookahead().Kind != KEYWORD_END {
		if p.lookahead().Kind == COLON {
			if errs = p.parseLabel(uint(len(code)), &env); len(errs) > 0 {
				return Method{}, errs
			}
			//
			continue
		} else if instr, span, errs = p.parseInstruction(&env); len(errs) > 0 {
			return Method{}, errs
		}
		//
		code = append(code, instr)
		spans = append(spans, span)
	}
	// Parse ".end method"
	if _, errs = p.expect(KEYWORD_END); len(errs) > 0 {
		return Method{}, errs
	} else if errs = p.parseKeyword("method"); len(errs) > 0 {
		return Method{}, errs
	}
	// Finalise labels
	if label := env.BindLabels(code); label != nil {
		msg := fmt.Sprintf("unknown label \"%s\"", label.Name())
		return Method{}, []source.SyntaxError{*p.srcfile.SyntaxError(label.Span(), msg)}
	}
	//
	method = bytecode.NewMethod(name, registers, returns, code...)
	// Done
	return Method{method, p.srcfile, header, spans}, nil
}

func (p *Parser) parseLabel(pc uint, env *Environment) []source.SyntaxError {
	var (
		first = p.index
		name  string
		errs  []source.SyntaxError
	)
	//
	if _, errs = p.expect(COLON); len(errs) > 0 {
		return errs
	} else if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return errs
	}
	//
	span := p.spanOf(first, p.index-1)
	//
	if !env.DeclareLabel(name, pc, span) {
		return []source.SyntaxError{*p.srcfile.SyntaxError(span, "duplicate label")}
	}
	//
	return nil
}

// Parse an instruction of the form "mnemonic r1, ..., rn[, literal|target]".
// The number of register operands is determined by the mnemonic.
func (p *Parser) parseInstruction(env *Environment) (insn.Instruction, source.Span, []source.SyntaxError) {
	var (
		first   = p.index
		regs    []register.Id
		targets []uint
		literal int64
		errs    []source.SyntaxError
	)
	//
	mnemonic, errs := p.expect(IDENTIFIER)
	if len(errs) > 0 {
		return insn.Instruction{}, source.Span{}, errs
	}
	//
	opcode, ok := insn.Lookup(p.string(mnemonic))
	if !ok {
		return insn.Instruction{}, source.Span{}, p.syntaxErrors(mnemonic, "unknown instruction")
	}
	// Parse register operands
	for i := range opcode.Operands() {
		var reg register.Id
		//
		if i != 0 {
			if _, errs = p.expect(COMMA); len(errs) > 0 {
				return insn.Instruction{}, source.Span{}, errs
			}
		}
		//
		if reg, errs = p.parseRegister(env); len(errs) > 0 {
			return insn.Instruction{}, source.Span{}, errs
		}
		//
		regs = append(regs, reg)
	}
	// Parse literal or targets (if applicable)
	if (opcode.HasLiteral() || opcode.Branches()) && len(regs) > 0 {
		if _, errs = p.expect(COMMA); len(errs) > 0 {
			return insn.Instruction{}, source.Span{}, errs
		}
	}
	//
	switch {
	case opcode.HasLiteral():
		literal, errs = p.parseLiteral()
	case opcode.Family() == insn.SWITCH:
		targets, errs = p.parseTargetTable(env)
	case opcode.Branches():
		var target uint
		//
		target, errs = p.parseTarget(env)
		targets = []uint{target}
	}
	//
	if len(errs) > 0 {
		return insn.Instruction{}, source.Span{}, errs
	}
	// Parse optional class or array type (e.g. for check-cast)
	family := opcode.Family()
	if (family == insn.OBJECT || family == insn.ARRAY) && p.follows(COMMA, TYPE) {
		p.index += 2
	}
	//
	span := p.spanOf(first, p.index-1)
	//
	switch {
	case opcode.Branches():
		return insn.Branch(opcode, targets, regs...), span, nil
	case opcode.HasLiteral():
		return insn.NewLiteral(opcode, literal, regs...), span, nil
	default:
		return insn.New(opcode, regs...), span, nil
	}
}

func (p *Parser) parseRegister(env *Environment) (register.Id, []source.SyntaxError) {
	tok, errs := p.expect(IDENTIFIER)
	//
	if len(errs) > 0 {
		return register.Id{}, errs
	} else if reg, ok := env.LookupRegister(p.string(tok)); ok {
		return reg, nil
	}
	//
	return register.Id{}, p.syntaxErrors(tok, "unknown register")
}

// Parse a literal, which is either an integer or a string / type constant.
// The latter are not tracked beyond their category, hence are given the value
// zero.
func (p *Parser) parseLiteral() (int64, []source.SyntaxError) {
	var (
		lookahead = p.lookahead()
		negative  = p.match(MINUS)
	)
	//
	if !negative && (lookahead.Kind == STRING || lookahead.Kind == TYPE) {
		p.index++
		return 0, nil
	}
	//
	tok, errs := p.expect(NUMBER)
	if len(errs) > 0 {
		return 0, errs
	}
	//
	text := p.string(tok)
	if negative {
		text = "-" + text
	}
	//
	val, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return 0, p.syntaxErrors(tok, "invalid number")
	}
	//
	return val, nil
}

// Parse a list of targets of the form "{ :l1, ..., :ln }".
func (p *Parser) parseTargetTable(env *Environment) ([]uint, []source.SyntaxError) {
	var targets []uint
	//
	if _, errs := p.expect(LCURLY); len(errs) > 0 {
		return nil, errs
	}
	//
	for !p.match(RCURLY) {
		if len(targets) != 0 {
			if _, errs := p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		target, errs := p.parseTarget(env)
		if len(errs) > 0 {
			return nil, errs
		}
		//
		targets = append(targets, target)
	}
	//
	return targets, nil
}

// Parse a target label of the form ":label", returning its label index.
func (p *Parser) parseTarget(env *Environment) (uint, []source.SyntaxError) {
	var first = p.index
	//
	if _, errs := p.expect(COLON); len(errs) > 0 {
		return 0, errs
	}
	//
	name, errs := p.parseIdentifier()
	if len(errs) > 0 {
		return 0, errs
	}
	//
	return env.BindLabel(name, p.spanOf(first, p.index-1)), nil
}

func (p *Parser) parseKeyword(keyword string) []source.SyntaxError {
	tok, errs := p.expect(IDENTIFIER)
	//
	if len(errs) > 0 {
		return errs
	} else if p.string(tok) != keyword {
		return p.syntaxErrors(tok, fmt.Sprintf("expected \"%s\"", keyword))
	}
	//
	return nil
}

func (p *Parser) parseIdentifier() (string, []source.SyntaxError) {
	tok, errs := p.expect(IDENTIFIER)
	//
	if len(errs) > 0 {
		return "", errs
	}
	//
	return p.string(tok), nil
}

func (p *Parser) string(token lex.Token) string {
	return p.srcfile.Text(token.Span)
}

func (p *Parser) lookahead() lex.Token {
	return p.tokens[p.index]
}

// Expect reurns an arror if the next token is not what was expected.
func (p *Parser) expect(kind uint) (lex.Token, []source.SyntaxError) {
	lookahead := p.lookahead()
	//
	if lookahead.Kind != kind {
		errs := p.syntaxErrors(lookahead, "unexpected token")
		return lookahead, errs
	}
	//
	p.index++
	//
	return lookahead, nil
}

// Match attempts to match the given token.
func (p *Parser) match(kind uint) bool {
	if p.lookahead().Kind == kind {
		p.index++
		return true
	}
	//
	return false
}

// Follows attempts to check what follows the current position.
func (p *Parser) follows(kinds ...uint) bool {
	for i, kind := range kinds {
		n := i + p.index
		if n >= len(p.tokens) {
			return false
		} else if p.tokens[n].Kind != kind {
			return false
		}
	}
	//
	return true
}

func (p *Parser) spanOf(firstToken, lastToken int) source.Span {
	start := p.tokens[firstToken].Span.Start()
	end := p.tokens[lastToken].Span.End()
	//
	return source.NewSpan(start, end)
}

func (p *Parser) syntaxErrors(token lex.Token, msg string) []source.SyntaxError {
	return []source.SyntaxError{*p.srcfile.SyntaxError(token.Span, msg)}
}
