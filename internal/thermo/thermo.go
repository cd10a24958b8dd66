// Package thermo reads the time-averaged output files the engine writes
// for averaging fixes. Comment lines start with '#' and the last comment
// line names the columns.
//
// Scalar files (fix ave/time in scalar mode) hold one row per timestep.
// Vector files (fix ave/time in vector mode, fix ave/chunk) declare a
// second comment line starting with "TimeStep" and are made of blocks: a
// "timestep count" line followed by count rows.
package thermo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type Table struct {
	Columns []string
	Rows    [][]float64
	// Vector is set for block-structured files.
	Vector bool
	// Steps holds one timestep per block, vector files only.
	Steps []float64
	// starts[i] is the index in Rows of block i's first row.
	starts []int
}

func Read(r io.Reader) (*Table, error) {
	t := &Table{}
	sc := bufio.NewScanner(r)
	var comments [][]string
	lineNo := 0
	remaining := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if len(t.Rows) == 0 && len(t.Steps) == 0 {
				comments = append(comments, strings.Fields(strings.TrimPrefix(line, "#")))
				t.Columns = comments[len(comments)-1]
				t.Vector = isVectorHeader(comments)
			}
			continue
		}
		row, err := parseRow(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if t.Vector && remaining == 0 {
			if len(row) < 2 {
				return nil, fmt.Errorf("line %d: block header needs a timestep and a row count", lineNo)
			}
			n := int(row[1])
			if float64(n) != row[1] || n < 0 {
				return nil, fmt.Errorf("line %d: bad row count %v", lineNo, row[1])
			}
			t.Steps = append(t.Steps, row[0])
			t.starts = append(t.starts, len(t.Rows))
			remaining = n
			continue
		}
		t.Rows = append(t.Rows, row)
		if remaining > 0 {
			remaining--
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if remaining > 0 {
		return nil, fmt.Errorf("last block is missing %d rows", remaining)
	}
	return t, nil
}

// isVectorHeader reports whether the comment lines read so far describe a
// block-structured file: at least three lines, the second one starting
// with the timestep column.
func isVectorHeader(comments [][]string) bool {
	if len(comments) < 3 || len(comments[1]) < 2 {
		return false
	}
	return strings.EqualFold(comments[1][0], "TimeStep")
}

func parseRow(line string) ([]float64, error) {
	fields := strings.Fields(line)
	row := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Length is the number of rows per block for vector files, taken from the
// first block, and the number of rows otherwise.
func (t *Table) Length() int {
	if !t.Vector {
		return len(t.Rows)
	}
	if len(t.starts) == 0 {
		return 0
	}
	return t.blockEnd(0) - t.starts[0]
}

// Blocks is the number of blocks, zero for scalar files.
func (t *Table) Blocks() int { return len(t.starts) }

// Block returns the rows of block i of a vector file.
func (t *Table) Block(i int) ([][]float64, error) {
	if i < 0 || i >= len(t.starts) {
		return nil, fmt.Errorf("block %d out of range (%d blocks)", i, len(t.starts))
	}
	return t.Rows[t.starts[i]:t.blockEnd(i)], nil
}

func (t *Table) blockEnd(i int) int {
	if i+1 < len(t.starts) {
		return t.starts[i+1]
	}
	return len(t.Rows)
}

// Index returns the position of the named column.
func (t *Table) Index(name string) (int, error) {
	for i, c := range t.Columns {
		if c == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("unknown column: %s (available: %v)", name, t.Columns)
}

// Column extracts column i; rows too short for it are skipped.
func (t *Table) Column(i int) []float64 {
	out := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if i < len(row) {
			out = append(out, row[i])
		}
	}
	return out
}
