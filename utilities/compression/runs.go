package compression

import (
	"bufio"
	"io"
)

// ByteRun represents a single run of a particular byte value.
type ByteRun struct {
	// Byte is the byte value for this run.
	Byte byte
	// RunLength gives the number of times the byte occurs in the run (not the
	// number of times it's repeated). It's at least 1 for a valid run.
	RunLength int
}

// InvalidRun is returned alongside any error, including EOF.
var InvalidRun = ByteRun{}

// RunReader splits a byte stream into maximal runs of the same byte.
type RunReader struct {
	rd *bufio.Reader
}

func NewRunReader(rd io.Reader) RunReader {
	return RunReader{rd: bufio.NewReader(rd)}
}

// NextRun returns the next run in the stream. Adjacent runs always have
// different bytes. Once the input is exhausted it returns io.EOF.
func (runs RunReader) NextRun() (ByteRun, error) {
	first, err := runs.rd.ReadByte()
	if err != nil {
		return InvalidRun, err
	}

	run := ByteRun{Byte: first, RunLength: 1}
	for {
		current, err := runs.rd.ReadByte()
		if err == io.EOF {
			return run, nil
		} else if err != nil {
			return InvalidRun, err
		}

		if current != first {
			// Start of the next run; leave it for the next call.
			runs.rd.UnreadByte()
			return run, nil
		}
		run.RunLength++
	}
}
