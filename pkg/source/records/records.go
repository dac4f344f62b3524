// Package records ingests entity and relationship documents exported
// from a document store into a graph.
//
// The input is a BSON document stream in dump format: each document is
// length-prefixed BSON, concatenated back to back (the format produced
// by mongodump and by bson.Marshal outputs written in sequence).
// Documents carrying string "from" and "to" fields decode as edges;
// everything else decodes as a node.
//
// Exports are messy in practice, so decoding is tolerant: documents that
// fail to decode, nodes without IDs, and edges without endpoints are
// counted and skipped rather than failing the whole import. Repeated IDs
// keep the first occurrence. Only a broken stream frame is a hard error,
// since the reader cannot resynchronize past it.
package records

import (
	"encoding/binary"
	"io"
	"os"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/imran31415/forcefield/pkg/errors"
	"github.com/imran31415/forcefield/pkg/graph"
)

// maxDocSize caps a single document frame, matching the BSON spec limit.
const maxDocSize = 16 * 1024 * 1024

// Result is a decoded graph plus how many malformed documents were
// dropped on the way.
type Result struct {
	Graph   graph.Graph
	Skipped int
}

// ReadFile decodes a BSON dump file into a graph.
func ReadFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "records file %s", path)
		}
		return Result{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "open records file %s", path)
	}
	defer f.Close()

	res, err := DecodeStream(f)
	if err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode records file %s", path)
	}
	return res, nil
}

// DecodeStream decodes a length-prefixed BSON document stream.
func DecodeStream(r io.Reader) (Result, error) {
	var docs []bson.Raw
	for {
		doc, err := readDocument(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, err
		}
		docs = append(docs, doc)
	}
	return DecodeDocs(docs), nil
}

// DecodeDocs classifies and decodes raw documents into a graph.
func DecodeDocs(docs []bson.Raw) Result {
	var res Result
	nodeSeen := make(map[string]bool)
	edgeSeen := make(map[string]bool)

	for _, doc := range docs {
		if doc.Validate() != nil {
			res.Skipped++
			continue
		}

		if isEdgeDocument(doc) {
			var e graph.Edge
			if err := bson.Unmarshal(doc, &e); err != nil || e.From == "" || e.To == "" {
				res.Skipped++
				continue
			}
			if e.ID != "" {
				if edgeSeen[e.ID] {
					res.Skipped++
					continue
				}
				edgeSeen[e.ID] = true
			}
			res.Graph.Edges = append(res.Graph.Edges, e)
			continue
		}

		var n graph.Node
		if err := bson.Unmarshal(doc, &n); err != nil || n.ID == "" {
			res.Skipped++
			continue
		}
		if nodeSeen[n.ID] {
			res.Skipped++
			continue
		}
		nodeSeen[n.ID] = true
		res.Graph.Nodes = append(res.Graph.Nodes, n)
	}

	return res
}

// isEdgeDocument reports whether the document carries string from/to
// fields. Presence classifies the document; endpoint validity is checked
// after decoding, so an edge with a blank endpoint is a skipped edge,
// not a node.
func isEdgeDocument(doc bson.Raw) bool {
	_, okFrom := doc.Lookup("from").StringValueOK()
	_, okTo := doc.Lookup("to").StringValueOK()
	return okFrom && okTo
}

// readDocument reads one framed document: a little-endian int32 total
// length (self-inclusive) followed by the document body.
func readDocument(r io.Reader) (bson.Raw, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "truncated document frame")
		}
		return nil, err
	}

	length := int(int32(binary.LittleEndian.Uint32(header[:])))
	if length < 5 || length > maxDocSize {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "implausible document length %d", length)
	}

	doc := make([]byte, length)
	copy(doc, header[:])
	if _, err := io.ReadFull(r, doc[4:]); err != nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "truncated document body: wanted %d bytes", length)
	}
	return bson.Raw(doc), nil
}
