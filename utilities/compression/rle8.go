package compression

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

const maxRepeatCount = 255

// maxGroupLength is the longest run one three-byte group can encode.
const maxGroupLength = maxRepeatCount + 2

// CompressRLE8 reads bytes from the input and writes compressed data to the
// output until the input is exhausted. The return value is the number of bytes
// written.
func CompressRLE8(input io.Reader, output io.Writer) (int64, error) {
	runs := NewRunReader(input)
	totalBytesWritten := int64(0)

	emit := func(group ...byte) error {
		n, err := output.Write(group)
		totalBytesWritten += int64(n)
		return err
	}

	for {
		run, err := runs.NextRun()
		if errors.Is(err, io.EOF) {
			return totalBytesWritten, nil
		} else if err != nil {
			return totalBytesWritten, err
		}

		for remaining := run.RunLength; remaining > 0; {
			if remaining == 1 {
				err = emit(run.Byte)
				remaining = 0
			} else {
				groupLength := min(remaining, maxGroupLength)
				err = emit(run.Byte, run.Byte, byte(groupLength-2))
				remaining -= groupLength
			}
			if err != nil {
				return totalBytesWritten, err
			}
		}
	}
}

// DecompressRLE8 expands RLE8 data from the input into the output. The return
// value is the number of bytes written.
func DecompressRLE8(input io.Reader, output io.Writer) (int64, error) {
	source := bufio.NewReader(input)
	previous := -1
	totalBytesWritten := int64(0)

	for {
		current, err := source.ReadByte()
		if errors.Is(err, io.EOF) {
			return totalBytesWritten, nil
		} else if err != nil {
			return totalBytesWritten, fmt.Errorf("error reading input: %w", err)
		}

		chunk := []byte{current}
		if int(current) == previous {
			// Second copy of the same byte; a repeat count follows. The first
			// copy was already written on the previous iteration.
			repeatCount, err := source.ReadByte()
			if errors.Is(err, io.EOF) {
				return totalBytesWritten, fmt.Errorf(
					"%w: missing repeat count after two %02x bytes",
					io.ErrUnexpectedEOF,
					current)
			} else if err != nil {
				return totalBytesWritten, fmt.Errorf("error reading input: %w", err)
			}

			chunk = bytes.Repeat(chunk, int(repeatCount)+1)
			// The group is closed. Without this, a run split across groups
			// followed by a single byte would be misread as another group.
			previous = -1
		} else {
			previous = int(current)
		}

		n, err := output.Write(chunk)
		totalBytesWritten += int64(n)
		if err != nil {
			return totalBytesWritten, fmt.Errorf("failed to write to output: %w", err)
		}
	}
}
