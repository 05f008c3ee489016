package store

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadCSV reads a header-first CSV table from r. name is used in error
// messages only.
func LoadCSV(r io.Reader, name string, opts Options) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeUnreadable, Path: name, Message: "read failed", Err: err}
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	// Width is checked in newTable so the error carries our code.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &LoadError{Code: ErrCodeMalformed, Path: name, Line: 1, Message: "empty input: no header row"}
	}
	if err != nil {
		return nil, csvError(name, err)
	}

	var records [][]string
	var lines []int
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(name, err)
		}
		line, _ := cr.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}

	return newTable(name, header, records, lines, opts)
}

func csvError(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &LoadError{Code: ErrCodeMalformed, Path: name, Line: pe.Line,
			Message: fmt.Sprintf("invalid CSV at column %d", pe.Column), Err: pe.Err}
	}
	return &LoadError{Code: ErrCodeMalformed, Path: name, Message: "invalid CSV", Err: err}
}
