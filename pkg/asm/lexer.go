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
	"github.com/consensys/go-bcverify/pkg/util/source"
	"github.com/consensys/go-bcverify/pkg/util/source/lex"
)

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals whitespace
const WHITESPACE uint = 1

// COMMENT signals "# ... \n"
const COMMENT uint = 2

// LCURLY signals "{"
const LCURLY uint = 3

// RCURLY signals "}"
const RCURLY uint = 4

// COMMA signals ","
const COMMA uint = 5

// COLON signals ":"
const COLON uint = 6

// MINUS signals "-"
const MINUS uint = 7

// NUMBER signals an integer number
const NUMBER uint = 10

// STRING signals a quoted string
const STRING uint = 11

// DESCRIPTOR signals a method descriptor, such as "(JI)V"
const DESCRIPTOR uint = 12

// TYPE signals a class or array type, such as "Ljava/lang/Object;"
const TYPE uint = 13

// IDENTIFIER signals a mnemonic, register, label or method name
const IDENTIFIER uint = 20

// KEYWORD_METHOD signals the start of a method declaration
const KEYWORD_METHOD uint = 21

// KEYWORD_REGISTERS signals a register count declaration
const KEYWORD_REGISTERS uint = 22

// KEYWORD_END signals the end of a declaration
const KEYWORD_END uint = 23

// Rule for describing whitespace
var whitespace lex.Scanner[rune] = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\r'), lex.Unit('\n')))

// Rule for describing numbers
// A number is either a hexadecimal, binary, or decimal one.
// Allowing (and ignoring) '_' in the middle of a number for readability.
var (
	binaryStart = lex.Sequence(lex.String("0b"), lex.Within('0', '1'))
	binaryRest  = lex.Or(
		lex.Within('0', '1'),
		lex.Unit('_'),
	)

	decimalStart = lex.Within('0', '9')
	decimalRest  = lex.Or(
		lex.Within('0', '9'),
		lex.Unit('_'),
	)

	hexDigit = lex.Or(
		lex.Within('0', '9'),
		lex.Within('A', 'F'),
		lex.Within('a', 'f'),
	)
	hexStart = lex.Sequence(lex.String("0x"), hexDigit)
	hexRest  = lex.Or(
		hexDigit,
		lex.Unit('_'),
	)

	number = lex.Or(
		lex.SequenceNullableLast(binaryStart, lex.Many(binaryRest)),
		lex.SequenceNullableLast(hexStart, lex.Many(hexRest)),
		lex.SequenceNullableLast(decimalStart, lex.Many(decimalRest)),
	)
)

var identifierStart lex.Scanner[rune] = lex.Or(
	lex.Unit('_'),
	lex.Unit('$'),
	lex.Unit('<'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

var identifierRest lex.Scanner[rune] = lex.Many(lex.Or(
	lex.Unit('_'),
	lex.Unit('$'),
	lex.Unit('<'),
	lex.Unit('>'),
	lex.Unit('-'),
	lex.Unit('/'),
	lex.Within('0', '9'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z')))

// Rule for describing identifiers (including mnemonics such as
// "add-long/2addr")
var identifier lex.Scanner[rune] = lex.And(identifierStart, identifierRest)

// Characters which can make up a class name
var className lex.Scanner[rune] = lex.Many(lex.Or(
	lex.Unit('_'),
	lex.Unit('$'),
	lex.Unit('/'),
	lex.Within('0', '9'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z')))

// Rule for describing class and array types
var typeName lex.Scanner[rune] = lex.Or(
	lex.Sequence(lex.Unit('L'), className, lex.Unit(';')),
	lex.Sequence(lex.Unit('['), lex.Many(lex.Or(lex.Unit('['), lex.Unit(';'), className))),
)

// Rule for describing method descriptors.  Parameter and return types are
// checked by the parser.
var descriptor lex.Scanner[rune] = lex.Sequence(
	lex.Unit('('),
	lex.Or(lex.Unit(')'), lex.Sequence(lex.Many(lex.Not(')', '\n')), lex.Unit(')'))),
	lex.Many(lex.Or(lex.Unit('['), lex.Unit(';'), className)))

// Rule for describing strings in quotes
var strung lex.Scanner[rune] = lex.Or(
	lex.String("\"\""),
	lex.Sequence(lex.Unit('"'), lex.Many(lex.Not('"', '\n')), lex.Unit('"')))

// Comments start with '#' and continue until a newline or EOF.
var comment lex.Scanner[rune] = lex.SequenceNullableLast(lex.Unit('#'), lex.Until('\n'))

// lexing rules
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(comment, COMMENT),
	lex.Rule(lex.Unit('{'), LCURLY),
	lex.Rule(lex.Unit('}'), RCURLY),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(lex.Unit(':'), COLON),
	lex.Rule(lex.Unit('-'), MINUS),
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(number, NUMBER),
	lex.Rule(strung, STRING),
	lex.Rule(descriptor, DESCRIPTOR),
	lex.Rule(lex.String(".method"), KEYWORD_METHOD),
	lex.Rule(lex.String(".registers"), KEYWORD_REGISTERS),
	lex.Rule(lex.String(".end"), KEYWORD_END),
	lex.Rule(typeName, TYPE),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(lex.Eof[rune](), END_OF),
}

// Lex a given source file into a sequence of zero or more tokens, along with
// any syntax errors arising.  Whitespace and comments are dropped.
func Lex(srcfile source.File) ([]lex.Token, []source.SyntaxError) {
	var (
		lexer = lex.NewLexer(srcfile.Contents(), rules...)
		// Lex as many tokens as possible
		tokens = lexer.Collect(WHITESPACE, COMMENT)
	)
	// Check whether anything was left (if so this is an error)
	if lexer.Remaining() != 0 {
		start, end := lexer.Index(), lexer.Index()+lexer.Remaining()
		err := srcfile.SyntaxError(source.NewSpan(int(start), int(end)), "unknown text encountered")
		// errors
		return nil, []source.SyntaxError{*err}
	}
	// Done
	return tokens, nil
}
