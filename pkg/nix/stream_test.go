// SPDX-License-Identifier: MPL-2.0

package nix

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"
)

type countRecord struct {
	N int `json:"n"`
}

// splitAll feeds data to a lineSplitter in the given chunks and returns
// every line, flush included.
func splitAll(chunks ...[]byte) [][]byte {
	var b lineSplitter
	var lines [][]byte
	for _, chunk := range chunks {
		b.feed(chunk)
		for {
			line, ok := b.next()
			if !ok {
				break
			}
			lines = append(lines, line)
		}
	}
	if tail, ok := b.flush(); ok {
		lines = append(lines, tail)
	}
	return lines
}

func TestLineSplitterChunkingEquivalence(t *testing.T) {
	t.Parallel()

	data := []byte("{\"n\":1}\n{\"n\":2}\n{\"n\":3}\n")
	want := splitAll(data)
	if len(want) != 3 {
		t.Fatalf("single-chunk split produced %d lines, want 3", len(want))
	}

	// Every split offset, including mid-record, must yield the same lines.
	for i := 0; i <= len(data); i++ {
		got := splitAll(data[:i], data[i:])
		if !reflect.DeepEqual(got, want) {
			t.Errorf("split at offset %d: lines = %q, want %q", i, got, want)
		}
	}

	// Byte-at-a-time delivery.
	var chunks [][]byte
	for i := range data {
		chunks = append(chunks, data[i:i+1])
	}
	if got := splitAll(chunks...); !reflect.DeepEqual(got, want) {
		t.Errorf("byte-at-a-time: lines = %q, want %q", got, want)
	}
}

func TestLineSplitterTrailingRecordAndCRLF(t *testing.T) {
	t.Parallel()

	got := splitAll([]byte("a\r\nb\nc"))
	want := [][]byte{[]byte("a"), []byte("b"), []byte("c")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
}

func TestRunStreamYieldsRecordsInOrder(t *testing.T) {
	t.Parallel()

	c := New(Config{Path: writeScript(t,
		`printf '{"n":1}\n{"n":2}\n{"n":3}\n'`)})
	stream, err := RunStream[countRecord](context.Background(), c, Cmdline{})
	if err != nil {
		t.Fatalf("RunStream: %v", err)
	}
	defer stream.Close()

	var got []int
	for stream.Next() {
		rec, err := stream.Record()
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
		got = append(got, rec.N)
	}
	if err := stream.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	if want := []int{1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("records = %v, want %v", got, want)
	}
}

func TestRunStreamRecordsAreIncremental(t *testing.T) {
	t.Parallel()

	// The stub emits one record, then blocks until a sentinel file appears.
	// Observing the first record while the process is still running proves
	// delivery does not wait for process exit.
	dir := t.TempDir()
	c := New(Config{Path: writeScript(t, fmt.Sprintf(
		`printf '{"n":1}\n'; while [ ! -e %q ]; do sleep 0.05; done; printf '{"n":2}\n'`,
		dir+"/go"))})

	stream, err := RunStream[countRecord](context.Background(), c, Cmdline{})
	if err != nil {
		t.Fatalf("RunStream: %v", err)
	}
	defer stream.Close()

	if !stream.Next() {
		t.Fatalf("Next returned false before first record; Err = %v", stream.Err())
	}
	rec, err := stream.Record()
	if err != nil || rec.N != 1 {
		t.Fatalf("first record = (%+v, %v)", rec, err)
	}

	if err := touch(dir + "/go"); err != nil {
		t.Fatalf("touch sentinel: %v", err)
	}
	if !stream.Next() {
		t.Fatalf("Next returned false before second record; Err = %v", stream.Err())
	}
	rec, err = stream.Record()
	if err != nil || rec.N != 2 {
		t.Fatalf("second record = (%+v, %v)", rec, err)
	}

	if stream.Next() {
		t.Error("Next returned true past the final record")
	}
	if err := stream.Err(); err != nil {
		t.Errorf("Err: %v", err)
	}
}

func TestRunStreamMalformedRecordIsScoped(t *testing.T) {
	t.Parallel()

	c := New(Config{Path: writeScript(t,
		`printf '{"n":1}\nnot-json\n{"n":3}\n'`)})
	stream, err := RunStream[countRecord](context.Background(), c, Cmdline{})
	if err != nil {
		t.Fatalf("RunStream: %v", err)
	}
	defer stream.Close()

	type step struct {
		n       int
		wantErr bool
	}
	var got []step
	for stream.Next() {
		rec, recErr := stream.Record()
		got = append(got, step{n: rec.N, wantErr: recErr != nil})
		if recErr != nil {
			if !errors.Is(recErr, ErrRecordParse) {
				t.Errorf("record error is not ErrRecordParse: %v", recErr)
			}
			var rpe *RecordParseError
			if !errors.As(recErr, &rpe) || rpe.Line != 2 || string(rpe.Raw) != "not-json" {
				t.Errorf("RecordParseError = %+v", recErr)
			}
		}
	}

	want := []step{{n: 1}, {n: 0, wantErr: true}, {n: 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("steps = %+v, want %+v", got, want)
	}
	if err := stream.Err(); err != nil {
		t.Errorf("stream terminal error: %v", err)
	}
}

func TestRunStreamNonZeroExitSurfacesAsTerminalError(t *testing.T) {
	t.Parallel()

	c := New(Config{Path: writeScript(t,
		`printf '{"n":1}\n'; printf 'midway failure' 1>&2; exit 2`)})
	stream, err := RunStream[countRecord](context.Background(), c, Cmdline{})
	if err != nil {
		t.Fatalf("RunStream: %v", err)
	}
	defer stream.Close()

	var count int
	for stream.Next() {
		count++
	}
	if count != 1 {
		t.Errorf("yielded %d records, want 1", count)
	}

	var exitErr *ExitError
	if !errors.As(stream.Err(), &exitErr) {
		t.Fatalf("terminal error is not *ExitError: %v", stream.Err())
	}
	if exitErr.Code != 2 || string(exitErr.Stderr) != "midway failure" {
		t.Errorf("ExitError = code %d, stderr %q", exitErr.Code, exitErr.Stderr)
	}
}

func TestRunStreamCloseReleasesProcess(t *testing.T) {
	t.Parallel()

	c := New(Config{
		Path:      writeScript(t, `while :; do printf '{"n":1}\n'; done`),
		KillGrace: time.Second,
	})
	stream, err := RunStream[countRecord](context.Background(), c, Cmdline{})
	if err != nil {
		t.Fatalf("RunStream: %v", err)
	}

	for i := 0; i < 3; i++ {
		if !stream.Next() {
			t.Fatalf("Next returned false on record %d; Err = %v", i+1, stream.Err())
		}
	}

	done := make(chan struct{})
	go func() {
		stream.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(15 * time.Second):
		t.Fatal("Close did not return; process not released")
	}

	if !errors.Is(stream.Err(), ErrCanceled) {
		t.Errorf("terminal error after Close is not ErrCanceled: %v", stream.Err())
	}
	if stream.Next() {
		t.Error("Next returned true after Close")
	}
}

func TestRunStreamTrailingRecordWithoutNewline(t *testing.T) {
	t.Parallel()

	c := New(Config{Path: writeScript(t, `printf '{"n":7}'`)})
	stream, err := RunStream[countRecord](context.Background(), c, Cmdline{})
	if err != nil {
		t.Fatalf("RunStream: %v", err)
	}
	defer stream.Close()

	if !stream.Next() {
		t.Fatalf("Next returned false; Err = %v", stream.Err())
	}
	rec, recErr := stream.Record()
	if recErr != nil || rec.N != 7 {
		t.Errorf("record = (%+v, %v)", rec, recErr)
	}
	if stream.Next() {
		t.Error("Next returned true past the trailing record")
	}
}
