package csv_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	pcsv "scrub/internal/parser/csv"
)

// readAll drains a reader, returning every record.
func readAll(t *testing.T, r *pcsv.Reader) [][]string {
	t.Helper()
	var out [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		out = append(out, rec)
	}
}

func TestReader_QuotedMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		comma byte
		want  [][]string
	}{
		{
			name:  "basic_comma",
			input: "a,b,c\n1,\"2\",3\n",
			comma: ',',
			want:  [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
		},
		{
			name:  "pipe_delimiter",
			input: "a|b|c\n1|2|3\n",
			comma: '|',
			want:  [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
		},
		{
			name:  "variable_width_is_not_an_error",
			input: "a,b,c\n1,2\n1,2,3,4\n",
			comma: ',',
			want:  [][]string{{"a", "b", "c"}, {"1", "2"}, {"1", "2", "3", "4"}},
		},
		{
			name:  "quoted_delimiter_and_newline",
			input: "a,b\n\"Paris, France\",\"x\ny\"\n",
			comma: ',',
			want:  [][]string{{"a", "b"}, {"Paris, France", "x\ny"}},
		},
		{
			name:  "bom_stripped",
			input: "\xef\xbb\xbfa,b\n1,2\n",
			comma: ',',
			want:  [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:  "missing_final_newline",
			input: "a,b\n1,2",
			comma: ',',
			want:  [][]string{{"a", "b"}, {"1", "2"}},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := pcsv.NewReader(strings.NewReader(tc.input), pcsv.ReaderOptions{
				Comma:  tc.comma,
				Quoted: true,
			})
			got := readAll(t, r)
			assertRecords(t, got, tc.want)
		})
	}
}

func TestReader_RawMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		comma byte
		want  [][]string
	}{
		{
			name:  "quotes_are_literal",
			input: "a,b\n\"1\",2\n",
			comma: ',',
			want:  [][]string{{"a", "b"}, {`"1"`, "2"}},
		},
		{
			name:  "crlf_terminators",
			input: "a,b\r\n1,2\r\n",
			comma: ',',
			want:  [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:  "blank_lines_skipped",
			input: "a,b\n\n1,2\n",
			comma: ',',
			want:  [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:  "tab_delimiter",
			input: "a\tb\n1\t2",
			comma: '\t',
			want:  [][]string{{"a", "b"}, {"1", "2"}},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := pcsv.NewReader(strings.NewReader(tc.input), pcsv.ReaderOptions{
				Comma:  tc.comma,
				Quoted: false,
			})
			got := readAll(t, r)
			assertRecords(t, got, tc.want)
		})
	}
}

func TestReader_BytesRead(t *testing.T) {
	t.Parallel()

	input := "\xef\xbb\xbfa,b\n1,2\n"
	r := pcsv.NewReader(strings.NewReader(input), pcsv.ReaderOptions{Comma: ',', Quoted: true})
	readAll(t, r)
	if got, want := r.BytesRead(), uint64(len(input)); got != want {
		t.Fatalf("BytesRead = %d, want %d", got, want)
	}
}

func assertRecords(t *testing.T, got, want [][]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d (%q vs %q)", len(got), len(want), got, want)
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("record %d: got %q, want %q", i, got[i], want[i])
		}
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Fatalf("record %d field %d: got %q, want %q", i, j, got[i][j], want[i][j])
			}
		}
	}
}
