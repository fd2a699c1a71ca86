// SPDX-License-Identifier: MPL-2.0

package nix

import (
	"bytes"

	"github.com/goccy/go-json"
)

// lineSplitter reassembles newline-delimited records from a chunked byte
// stream. Bytes after the last newline are carried over until the next feed,
// so a record split across two reads is never lost or duplicated, whatever
// the chunk boundaries.
type lineSplitter struct {
	carry []byte
	lines [][]byte
}

// feed appends a chunk and queues every line it completes.
func (b *lineSplitter) feed(chunk []byte) {
	b.carry = append(b.carry, chunk...)
	for {
		i := bytes.IndexByte(b.carry, '\n')
		if i < 0 {
			return
		}
		line := bytes.TrimSuffix(b.carry[:i], []byte("\r"))
		b.lines = append(b.lines, bytes.Clone(line))
		b.carry = b.carry[i+1:]
	}
}

// next pops the oldest completed line.
func (b *lineSplitter) next() ([]byte, bool) {
	if len(b.lines) == 0 {
		return nil, false
	}
	line := b.lines[0]
	b.lines = b.lines[1:]
	return line, true
}

// flush returns the trailing bytes as a final line: input ending without a
// newline is still one record.
func (b *lineSplitter) flush() ([]byte, bool) {
	tail := bytes.TrimSuffix(b.carry, []byte("\r"))
	b.carry = nil
	if len(tail) == 0 {
		return nil, false
	}
	return tail, true
}

// Stream is a lazy, finite sequence of newline-delimited JSON records read
// from a live invocation's stdout. Consume it scanner-style:
//
//	stream, err := nix.RunStream[record](ctx, client, cmd)
//	if err != nil { ... }
//	defer stream.Close()
//	for stream.Next() {
//		rec, err := stream.Record()
//		if err != nil {
//			// one malformed line; the rest of the stream is intact
//			continue
//		}
//		...
//	}
//	if err := stream.Err(); err != nil { ... }
//
// Records are yielded in the exact order their lines appeared in the byte
// stream. A malformed line surfaces as a RecordParseError from Record
// without terminating the stream. Err reports the terminal state once Next
// has returned false: nil on clean exit, an ExitError when the process
// exited non-zero (yielded records are then diagnostic at best), or a
// CanceledError. The stream ends at process exit and is not restartable.
//
// A Stream is not safe for concurrent use. Close releases the process early;
// it is a no-op after the stream is exhausted.
type Stream[T any] struct {
	exe   *execution
	split lineSplitter
	n     int

	cur    T
	curErr error

	done bool
	err  error
}

// Next advances to the following record. It returns false when the stream
// has terminated; Err then reports how.
func (s *Stream[T]) Next() bool {
	if s.done {
		return false
	}

	for {
		if line, ok := s.split.next(); ok {
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			s.decode(line)
			return true
		}

		chunk, ok := <-s.exe.inv.Stdout()
		if !ok {
			if tail, ok := s.split.flush(); ok && len(bytes.TrimSpace(tail)) > 0 {
				s.decode(tail)
				return true
			}
			s.finish()
			return false
		}
		s.split.feed(chunk)
	}
}

// Record returns the current record, or a RecordParseError when its line was
// malformed. The error is scoped to this record only.
func (s *Stream[T]) Record() (T, error) {
	return s.cur, s.curErr
}

// Err returns the terminal state of the stream, valid once Next has
// returned false.
func (s *Stream[T]) Err() error {
	return s.err
}

// Close cancels the invocation if it is still running, discards any
// remaining output, and releases the process. It is idempotent.
func (s *Stream[T]) Close() error {
	if s.done {
		return nil
	}
	s.exe.cancel()
	for range s.exe.inv.Stdout() {
		// discard
	}
	s.finish()
	return nil
}

// decode unmarshals one line into the current record slot.
func (s *Stream[T]) decode(line []byte) {
	s.n++

	var rec T
	if err := json.Unmarshal(line, &rec); err != nil {
		var zero T
		s.cur = zero
		s.curErr = &RecordParseError{Line: s.n, Raw: bytes.Clone(line), Cause: err}
		return
	}
	s.cur = rec
	s.curErr = nil
}

// finish observes the exit status and records the terminal state.
func (s *Stream[T]) finish() {
	s.done = true
	s.err = s.exe.finish(nil)
}
