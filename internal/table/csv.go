// Package table persists observation stores and signals as flat CSV tables
// with fixed headers and column order.
package table

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/marketintel/internal/errors"
)

const (
	MarketFile = "market_dynamics.csv"
	VendorFile = "hyperscaler_metrics.csv"
	SignalFile = "context_signals.csv"

	defaultDirPerm  = 0o755
	defaultFilePerm = 0o644
)

// writeAtomic writes header and records to a temporary file next to path and
// renames it into place, so readers never see a partial table.
func writeAtomic(path string, header []string, records [][]string) (err error) {
	errFactory := errors.New()
	fail := func(cause error) error {
		return errFactory.Wrap(ErrWriteFailed, cause).WithMessage("failed to write " + path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
		return fail(err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fail(err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		return fail(err)
	}
	if err := w.WriteAll(records); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(defaultFilePerm); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		return fail(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fail(err)
	}

	return nil
}

// record is one data row addressed by column name.
type record struct {
	fields []string
	index  map[string]int
	line   int
}

func (r record) get(column string) string {
	i, ok := r.index[column]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

// readTable reads path, mapping columns by header name. A missing file
// yields found=false and no error.
func readTable(path string, required []string) (rows []record, found bool, err error) {
	errFactory := errors.New()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errFactory.Wrap(ErrReadFailed, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, true, errFactory.WithData(ErrMissingColumn, location{Path: path, Line: 1})
		}
		return nil, true, malformed(path, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, column := range required {
		if _, ok := index[column]; !ok {
			return nil, true, errFactory.WithData(ErrMissingColumn, location{Path: path, Line: 1, Column: column})
		}
	}

	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, true, malformed(path, err)
		}
		line, _ := r.FieldPos(0)
		rows = append(rows, record{fields: fields, index: index, line: line})
	}

	return rows, true, nil
}

func malformed(path string, err error) error {
	loc := location{Path: path}
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		loc.Line = parseErr.Line
	}
	return errors.New().Wrap(ErrMalformed, err).WithData(loc)
}
