// Package local loads graphs from files, detecting the format by
// extension: .bson selects the record-dump reader, everything else is
// treated as a JSON graph document.
//
// The loader also reports a content hash of the raw file bytes so
// callers can key caches without reading the file twice.
package local

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/imran31415/forcefield/pkg/cache"
	"github.com/imran31415/forcefield/pkg/errors"
	"github.com/imran31415/forcefield/pkg/graph"
	"github.com/imran31415/forcefield/pkg/source/records"
)

// Result is a loaded graph plus provenance: the content hash of the
// source file and how many malformed records were skipped. JSON inputs
// either load fully or fail, so Skipped is nonzero only for dumps.
type Result struct {
	Graph   graph.Graph
	Hash    string
	Skipped int
}

// ReadFile loads a graph from path.
func ReadFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s", path)
		}
		return Result{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read graph file %s", path)
	}

	res := Result{Hash: cache.Hash(data)}

	if strings.EqualFold(filepath.Ext(path), ".bson") {
		decoded, err := records.DecodeStream(bytes.NewReader(data))
		if err != nil {
			return Result{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "graph dump %s", path)
		}
		res.Graph = decoded.Graph
		res.Skipped = decoded.Skipped
		return res, nil
	}

	g, err := graph.UnmarshalGraph(data)
	if err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "graph file %s", path)
	}
	res.Graph = g
	return res, nil
}
