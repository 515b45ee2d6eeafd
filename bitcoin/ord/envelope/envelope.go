// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package envelope parses ord-protocol envelopes out of a witness script
// by walking its opcodes directly, rather than round-tripping through
// disassembly text. Unlike a single-envelope, disasm-string scan, this
// finds every envelope present in a script, in order, and records the
// curse-relevant shape of each one (duplicate fields, an unterminated
// field, an even unrecognized tag, a small-int push standing in for a
// tag or value, and back-to-back envelope headers) for the indexer to
// turn into charms.
package envelope

import (
	"errors"

	"github.com/btcsuite/btcd/txscript"

	"github.com/BoostyLabs/ord-index/bitcoin/ord/inscriptions"
)

// ordTag is the data pushed immediately after OP_FALSE OP_IF that marks
// an envelope as belonging to the inscription protocol, as opposed to
// any other use of the OP_FALSE OP_IF ... OP_ENDIF envelope idiom.
const ordTag = "ord"

// ErrMalformedEnvelope defines that an opcode inside an open envelope
// could not be interpreted as either a field tag or a field value.
var ErrMalformedEnvelope = errors.New("envelope: malformed opcode in field position")

// knownTags is the set of tags the protocol assigns meaning to. A tag
// outside this set that is nonetheless even-valued marks the inscription
// unrecognized-even-field cursed, per spec.
var knownTags = map[inscriptions.Tag]struct{}{
	inscriptions.TagContentType:    {},
	inscriptions.TagPointer:        {},
	inscriptions.TagParent:         {},
	inscriptions.TagMetadata:       {},
	inscriptions.TagMetaprotocol:   {},
	inscriptions.TagContentEncoding: {},
	inscriptions.TagDelegate:       {},
	inscriptions.TagRune:           {},
	inscriptions.TagNote:           {},
	inscriptions.TagNop:            {},
	inscriptions.TagUnbound:        {},
}

// listTags may legitimately repeat across one envelope without tripping
// the duplicate-field curse (ord allows multiple parents per child).
var listTags = map[inscriptions.Tag]struct{}{
	inscriptions.TagParent: {},
}

// Envelope is one OP_FALSE OP_IF "ord" ... OP_ENDIF block found in a
// witness script, decoded into its tag/value fields and body, together
// with the curse-relevant shape flags the indexer needs to classify it.
type Envelope struct {
	// Input is the index of the transaction input the envelope's
	// witness belongs to.
	Input uint32
	// Offset is the byte offset of the envelope's OP_FALSE within the
	// witness script it was found in.
	Offset uint32

	Fields map[inscriptions.Tag][][]byte
	Body   []byte

	// Pushnum is set when any field tag or value inside the envelope
	// used a small-integer opcode (OP_1..OP_16, OP_1NEGATE) instead of
	// a canonical data push.
	Pushnum bool
	// Stutter is set when this envelope's OP_FALSE OP_IF immediately
	// follows the previous envelope's OP_ENDIF with no intervening
	// opcode.
	Stutter bool
	// DuplicateField is set when a non-list tag appears more than once.
	DuplicateField bool
	// IncompleteField is set when the script ran out of opcodes, or hit
	// OP_ENDIF, while a tag was still waiting for its value.
	IncompleteField bool
	// UnrecognizedEvenField is set when a tag outside the known set has
	// an even value.
	UnrecognizedEvenField bool
}

// Value returns the single value stored for tag, if present.
func (e Envelope) Value(tag inscriptions.Tag) ([]byte, bool) {
	values, ok := e.Fields[tag]
	if !ok || len(values) == 0 {
		return nil, false
	}

	return values[0], true
}

// Cursed reports whether the envelope's fields (a duplicate, incomplete
// or unrecognized even field) or a missing body make it cursed. Pushnum
// and Stutter, and contextual position within a block or transaction,
// are not included; the indexer combines them separately.
func (e Envelope) Cursed() bool {
	return e.DuplicateField || e.IncompleteField || e.UnrecognizedEvenField || len(e.Body) == 0
}

// ParseEnvelopes walks script opcode-by-opcode and returns every ord
// envelope found, in the order their OP_FALSE opcodes appear. Unframed
// envelopes (OP_FALSE OP_IF not followed by a push of "ord") are not
// inscriptions at all and are skipped rather than rejected outright,
// matching canonical ord behavior of only recognizing framed envelopes.
func ParseEnvelopes(script []byte, inputIndex uint32) ([]Envelope, error) {
	var envelopes []Envelope

	tok := txscript.MakeScriptTokenizer(0, script)

	var prevEnvelopeEnd int32 = -1
	for tok.Next() {
		if tok.Opcode() != txscript.OP_FALSE {
			continue
		}
		falseIdx := tok.ByteIndex() - 1

		if !tok.Next() || tok.Opcode() != txscript.OP_IF {
			continue
		}
		if !tok.Next() {
			break
		}
		data, _, ok := pushedBytes(tok)
		if !ok || string(data) != ordTag {
			continue
		}

		env, err := parseEnvelopeBody(&tok, inputIndex, uint32(falseIdx))
		if err != nil {
			return nil, err
		}
		env.Stutter = prevEnvelopeEnd >= 0 && falseIdx == prevEnvelopeEnd
		envelopes = append(envelopes, env)
		prevEnvelopeEnd = tok.ByteIndex()
	}
	if err := tok.Err(); err != nil {
		return nil, err
	}

	return envelopes, nil
}

// parseEnvelopeBody consumes tok starting immediately after the "ord"
// frame tag, reading tag/value pairs until OP_ENDIF or a body marker.
func parseEnvelopeBody(tok *txscript.ScriptTokenizer, inputIndex, offset uint32) (Envelope, error) {
	env := Envelope{Input: inputIndex, Offset: offset, Fields: map[inscriptions.Tag][][]byte{}}

	for tok.Next() {
		if tok.Opcode() == txscript.OP_ENDIF {
			return env, nil
		}

		tagBytes, pushnum, ok := pushedBytes(tok)
		if !ok {
			return env, ErrMalformedEnvelope
		}
		if pushnum {
			env.Pushnum = true
		}

		if len(tagBytes) == 0 {
			body, terminated, err := readBody(tok)
			if err != nil {
				return env, err
			}
			env.Body = body
			if !terminated {
				env.IncompleteField = true
			}
			return env, nil
		}

		tag := inscriptions.Tag(tagBytes[0])

		if !tok.Next() {
			env.IncompleteField = true
			return env, nil
		}
		if tok.Opcode() == txscript.OP_ENDIF {
			env.IncompleteField = true
			return env, nil
		}
		value, valuePushnum, ok := pushedBytes(tok)
		if !ok {
			env.IncompleteField = true
			return env, nil
		}
		if valuePushnum {
			env.Pushnum = true
		}

		if _, known := knownTags[tag]; !known && tag%2 == 0 {
			env.UnrecognizedEvenField = true
		}
		if _, isList := listTags[tag]; !isList {
			if _, dup := env.Fields[tag]; dup {
				env.DuplicateField = true
			}
		}
		env.Fields[tag] = append(env.Fields[tag], value)
	}

	env.IncompleteField = true

	return env, nil
}

// readBody concatenates data pushes up to OP_ENDIF. terminated is false
// if the script ran out of opcodes first.
func readBody(tok *txscript.ScriptTokenizer) (body []byte, terminated bool, err error) {
	for tok.Next() {
		if tok.Opcode() == txscript.OP_ENDIF {
			return body, true, nil
		}

		data, _, ok := pushedBytes(tok)
		if !ok {
			return body, false, ErrMalformedEnvelope
		}
		body = append(body, data...)
	}

	return body, false, nil
}

// pushedBytes decodes the data pushed by tok's current opcode, treating
// small-integer opcodes (OP_0, OP_1NEGATE, OP_1..OP_16) as pushes of
// their numeric value and flagging them as pushnum.
func pushedBytes(tok *txscript.ScriptTokenizer) (data []byte, pushnum bool, ok bool) {
	op := tok.Opcode()

	switch {
	case op == txscript.OP_0:
		return nil, false, true
	case op == txscript.OP_1NEGATE:
		return []byte{0x81}, true, true
	case op >= txscript.OP_1 && op <= txscript.OP_16:
		return []byte{byte(op - txscript.OP_1 + 1)}, true, true
	case op >= txscript.OP_DATA_1 && op <= txscript.OP_DATA_75:
		return tok.Data(), false, true
	case op == txscript.OP_PUSHDATA1 || op == txscript.OP_PUSHDATA2 || op == txscript.OP_PUSHDATA4:
		return tok.Data(), false, true
	default:
		return nil, false, false
	}
}
