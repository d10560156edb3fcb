package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"
	"regexp"
	"strconv"
	"strings"
)

const (
	pathPrefix = "./results/pairs/wts/find_"
	pathSuffix = "/result.log"

	maxLineSize = 64 * 1024 * 1024
)

var tookRe = regexp.MustCompile(`took (\d+) seconds`)

var errIsDirectory = errors.New("is a directory")

// FileAccessError is returned when the log file cannot be opened or read.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("log file: %v", e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// ValueRangeError is returned when a runtime, or the sum of runtimes, does
// not fit in a uint64.
type ValueRangeError struct {
	Value string
	Err   error
}

func (e *ValueRangeError) Error() string {
	return fmt.Sprintf("runtime out of range: %v", e.Value)
}

func (e *ValueRangeError) Unwrap() error {
	return e.Err
}

type scanResult struct {
	Samples []uint64
	Lines   int
}

// resolvePath builds the log path for the given run length. The id is used
// verbatim, the path is neither cleaned nor checked.
func resolvePath(id string) string {
	return pathPrefix + id + pathSuffix
}

// extract returns the seconds of the first "took N seconds" on the line.
func extract(line string) (uint64, bool, error) {
	m := tookRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false, nil
	}

	v, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, false, &ValueRangeError{Value: m[1], Err: err}
	}

	return v, true, nil
}

func scan(r io.Reader) (scanResult, error) {
	var res scanResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)

	for scanner.Scan() {
		res.Lines++

		v, ok, err := extract(scanner.Text())
		if err != nil {
			return scanResult{}, fmt.Errorf("line# %v: %w", res.Lines, err)
		}
		if !ok {
			continue
		}

		res.Samples = append(res.Samples, v)
	}

	if err := scanner.Err(); err != nil {
		return scanResult{}, err
	}

	return res, nil
}

func collect(path string) (scanResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return scanResult{}, &FileAccessError{Path: path, Err: err}
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return scanResult{}, &FileAccessError{Path: path, Err: err}
	}
	if fi.IsDir() {
		return scanResult{}, &FileAccessError{
			Path: path,
			Err:  &os.PathError{Op: "read", Path: path, Err: errIsDirectory},
		}
	}

	res, err := scan(f)
	if err != nil {
		var rangeErr *ValueRangeError
		if errors.As(err, &rangeErr) {
			return scanResult{}, err
		}

		return scanResult{}, &FileAccessError{Path: path, Err: err}
	}

	return res, nil
}

func total(samples []uint64) (uint64, error) {
	var sum uint64
	for _, v := range samples {
		var carry uint64
		sum, carry = bits.Add64(sum, v, 0)
		if carry != 0 {
			return 0, &ValueRangeError{Value: "total", Err: strconv.ErrRange}
		}
	}

	return sum, nil
}

// report writes the runtimes followed by their total. Nothing is written if
// the total overflows.
func report(w io.Writer, samples []uint64) error {
	sum, err := total(samples)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Runtimes:")
	fmt.Fprintln(w, formatSamples(samples))
	fmt.Fprintf(w, "Total runtime: %v seconds\n", sum)

	return nil
}

func formatSamples(samples []uint64) string {
	var b strings.Builder

	b.WriteByte('[')
	for i, v := range samples {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatUint(v, 10))
	}
	b.WriteByte(']')

	return b.String()
}
