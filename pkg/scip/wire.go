// Copyright 2025 KrakLabs
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
//
// SPDX-License-Identifier: Apache-2.0

// Package scip decodes the semantic index files emitted by external
// indexers. The wire format is the upstream SCIP protobuf schema; this
// file decodes only the three observable invariants synthia relies on
// — it is
// deliberately not a full SCIP implementation.
//
// Decoding uses google.golang.org/protobuf/encoding/protowire directly
// rather than a full protoc-generated package: the SCIP index is a
// read-only external artifact we consume, not a type we own or need to
// construct, so a minimal field-by-field wire walk is the idiomatic
// choice (c.f. how LSP clients hand-decode JSON-RPC rather than
// generating types for a protocol they only partially use).
package scip

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Occurrence is one appearance of a symbol at a range within a
// Document. RoleDefinition is bit 0 of the role bitmask.
type Occurrence struct {
	Symbol string
	Range  [4]int32 // startLine, startCol, endLine, endCol (0-indexed)
	Roles  int32
}

const RoleDefinition int32 = 1

// IsDefinition reports whether bit 0 of the role bitmask is set.
func (o Occurrence) IsDefinition() bool {
	return o.Roles&RoleDefinition != 0
}

// SymbolInformation carries documentation for a symbol string.
type SymbolInformation struct {
	Symbol        string
	Documentation []string
	Kind          int32
}

// Document is one source file's occurrences and symbol informations.
type Document struct {
	RelativePath       string
	Occurrences        []Occurrence
	SymbolInformations []SymbolInformation
}

// Index is the root message: a list of documents, emitted in the
// indexer's original order.
type Index struct {
	Documents []Document
}

// Top-level field numbers of the SCIP Index message.
const (
	fieldIndexDocuments = 3
)

// Document field numbers.
const (
	fieldDocRelativePath       = 2
	fieldDocOccurrences        = 3
	fieldDocSymbolInformations = 4
)

// Occurrence field numbers.
const (
	fieldOccRange       = 1
	fieldOccSymbol      = 2
	fieldOccSymbolRoles = 3
)

// SymbolInformation field numbers.
const (
	fieldSymInfoSymbol        = 1
	fieldSymInfoDocumentation = 3
	fieldSymInfoKind          = 5
)

// Decode parses raw SCIP protobuf bytes into an Index. It tolerates
// unknown fields (future schema fields) by skipping them, matching the
// tolerant-reader stance the rest of synthia takes toward external
// artifacts it doesn't own.
func Decode(data []byte) (*Index, error) {
	idx := &Index{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("decode index: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case fieldIndexDocuments:
			msg, n2, err := consumeBytes(data, typ)
			if err != nil {
				return nil, fmt.Errorf("decode index.documents: %w", err)
			}
			data = data[n2:]
			doc, err := decodeDocument(msg)
			if err != nil {
				return nil, err
			}
			idx.Documents = append(idx.Documents, *doc)
		default:
			n2, err := skipField(data, typ)
			if err != nil {
				return nil, err
			}
			data = data[n2:]
		}
	}
	return idx, nil
}

func decodeDocument(data []byte) (*Document, error) {
	doc := &Document{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("decode document: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case fieldDocRelativePath:
			s, n2, err := consumeString(data, typ)
			if err != nil {
				return nil, err
			}
			doc.RelativePath = s
			data = data[n2:]
		case fieldDocOccurrences:
			msg, n2, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			data = data[n2:]
			occ, err := decodeOccurrence(msg)
			if err != nil {
				return nil, err
			}
			doc.Occurrences = append(doc.Occurrences, *occ)
		case fieldDocSymbolInformations:
			msg, n2, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			data = data[n2:]
			si, err := decodeSymbolInformation(msg)
			if err != nil {
				return nil, err
			}
			doc.SymbolInformations = append(doc.SymbolInformations, *si)
		default:
			n2, err := skipField(data, typ)
			if err != nil {
				return nil, err
			}
			data = data[n2:]
		}
	}
	return doc, nil
}

func decodeOccurrence(data []byte) (*Occurrence, error) {
	occ := &Occurrence{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("decode occurrence: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case fieldOccRange:
			ints, n2, err := consumePackedInt32(data, typ)
			if err != nil {
				return nil, err
			}
			data = data[n2:]
			for i := 0; i < len(ints) && i < 4; i++ {
				occ.Range[i] = ints[i]
			}
			if len(ints) == 3 {
				// Single-line range omits the redundant end line.
				occ.Range[3] = occ.Range[2]
				occ.Range[2] = occ.Range[0]
			}
		case fieldOccSymbol:
			s, n2, err := consumeString(data, typ)
			if err != nil {
				return nil, err
			}
			occ.Symbol = s
			data = data[n2:]
		case fieldOccSymbolRoles:
			v, n2, err := consumeVarint(data, typ)
			if err != nil {
				return nil, err
			}
			occ.Roles = int32(v)
			data = data[n2:]
		default:
			n2, err := skipField(data, typ)
			if err != nil {
				return nil, err
			}
			data = data[n2:]
		}
	}
	return occ, nil
}

func decodeSymbolInformation(data []byte) (*SymbolInformation, error) {
	si := &SymbolInformation{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("decode symbol_information: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case fieldSymInfoSymbol:
			s, n2, err := consumeString(data, typ)
			if err != nil {
				return nil, err
			}
			si.Symbol = s
			data = data[n2:]
		case fieldSymInfoDocumentation:
			s, n2, err := consumeString(data, typ)
			if err != nil {
				return nil, err
			}
			si.Documentation = append(si.Documentation, s)
			data = data[n2:]
		case fieldSymInfoKind:
			v, n2, err := consumeVarint(data, typ)
			if err != nil {
				return nil, err
			}
			si.Kind = int32(v)
			data = data[n2:]
		default:
			n2, err := skipField(data, typ)
			if err != nil {
				return nil, err
			}
			data = data[n2:]
		}
	}
	return si, nil
}

func consumeBytes(data []byte, typ protowire.Type) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, fmt.Errorf("expected bytes-typed field, got wire type %d", typ)
	}
	b, n := protowire.ConsumeBytes(data)
	if n < 0 {
		return nil, 0, protowire.ParseError(n)
	}
	return b, n, nil
}

func consumeString(data []byte, typ protowire.Type) (string, int, error) {
	b, n, err := consumeBytes(data, typ)
	if err != nil {
		return "", 0, err
	}
	return string(b), n, nil
}

func consumeVarint(data []byte, typ protowire.Type) (uint64, int, error) {
	if typ != protowire.VarintType {
		return 0, 0, fmt.Errorf("expected varint-typed field, got wire type %d", typ)
	}
	v, n := protowire.ConsumeVarint(data)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

// consumePackedInt32 reads a packed repeated int32 field (SCIP ranges
// are emitted packed).
func consumePackedInt32(data []byte, typ protowire.Type) ([]int32, int, error) {
	if typ != protowire.BytesType {
		// Some encoders emit ranges unpacked; fall back to a single value.
		v, n, err := consumeVarint(data, typ)
		if err != nil {
			return nil, 0, err
		}
		return []int32{int32(v)}, n, nil
	}
	b, n := protowire.ConsumeBytes(data)
	if n < 0 {
		return nil, 0, protowire.ParseError(n)
	}
	var out []int32
	for len(b) > 0 {
		v, vn := protowire.ConsumeVarint(b)
		if vn < 0 {
			return nil, 0, protowire.ParseError(vn)
		}
		out = append(out, int32(v))
		b = b[vn:]
	}
	return out, n, nil
}

func skipField(data []byte, typ protowire.Type) (int, error) {
	n := protowire.ConsumeFieldValue(0, typ, data)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return n, nil
}
