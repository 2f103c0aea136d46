package scenario

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ulikunitz/xz"
)

// Paths is one scenario's price paths, one row per underlying in term sheet
// order. Single-asset products use a single row.
type Paths [][]float64

// PathFeed yields one scenario's paths at a time. Implementations should be
// deterministic and return (ok=false, err=nil) at EOF.
type PathFeed interface {
	Next() (p Paths, ok bool, err error)
	Close() error
}

// CSVPathFeed reads path rows from a CSV file:
//
//	price_1,price_2,...,price_N
//
// one row per observation path. For a product with K underlyings, K
// consecutive rows form one scenario, in term sheet order. A header row
// (first cell non-numeric) is allowed and skipped. Empty rows are skipped.
//
// Files ending in .xz are decompressed transparently, so large simulated
// batches can be stored compressed.
type CSVPathFeed struct {
	f      *os.File
	r      *csv.Reader
	assets int

	sawFirst bool
}

func NewCSVPathFeed(path string, assets int) (*CSVPathFeed, error) {
	if assets < 1 {
		return nil, fmt.Errorf("scenario: assets must be >= 1, got %d", assets)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var src io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("scenario: open xz %s: %w", path, err)
		}
		src = xr
	}

	r := csv.NewReader(src)
	r.FieldsPerRecord = -1

	return &CSVPathFeed{f: f, r: r, assets: assets}, nil
}

func (f *CSVPathFeed) Close() error {
	if f.f != nil {
		return f.f.Close()
	}
	return nil
}

// Next reads the next scenario (assets rows). EOF in the middle of a
// scenario is an error; EOF on a row boundary ends the feed.
func (f *CSVPathFeed) Next() (Paths, bool, error) {
	paths := make(Paths, 0, f.assets)

	for len(paths) < f.assets {
		row, err := f.r.Read()
		if err == io.EOF {
			if len(paths) == 0 {
				return nil, false, nil
			}
			return nil, false, fmt.Errorf("scenario: truncated scenario: got %d of %d path rows",
				len(paths), f.assets)
		}
		if err != nil {
			return nil, false, err
		}
		if len(row) == 0 {
			continue
		}

		// Allow a single header row.
		if !f.sawFirst {
			f.sawFirst = true
			if _, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64); err != nil {
				continue
			}
		}

		path, err := parsePathRow(row)
		if err != nil {
			return nil, false, err
		}
		paths = append(paths, path)
	}

	return paths, true, nil
}

func parsePathRow(row []string) ([]float64, error) {
	path := make([]float64, 0, len(row))
	for i, cell := range row {
		s := strings.TrimSpace(cell)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("scenario: bad price %q at column %d: %w", cell, i, err)
		}
		path = append(path, v)
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("scenario: empty path row")
	}
	return path, nil
}
