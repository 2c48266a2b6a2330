package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/papapumpkin/manpower/internal/alloc"
)

func TestFormatFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"plan.json", FormatJSON, false},
		{"dir/Plan.TOML", FormatTOML, false},
		{"plan.yaml", "", true},
		{"plan", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			got, err := FormatFor(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatFor(%q) err = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("err = %v, want ErrUnknownFormat", err)
			}
			if got != tt.want {
				t.Errorf("FormatFor(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"plan.json", "plan.toml"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "nested", name)
			want := Demo()

			if err := WriteDocument(path, want); err != nil {
				t.Fatalf("WriteDocument: %v", err)
			}
			if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
				t.Errorf("temp file left behind: %v", err)
			}
			got, err := ReadDocument(path)
			if err != nil {
				t.Fatalf("ReadDocument: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWorkspaceDocumentMatchesInput(t *testing.T) {
	t.Parallel()
	want := Demo()
	got := New(want).Document()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Document (-want +got):\n%s", diff)
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		data    string
		format  Format
		wantErr error
		cells   int
	}{
		{
			name:   "minimal json",
			data:   `{"teams":[],"projects":[],"timePoints":[]}`,
			format: FormatJSON,
		},
		{
			name:   "json with allocations",
			data:   `{"teams":[],"projects":[],"timePoints":[],"allocations":{"t":{"p":{"x":{"occupied":2,"prerelease":1}}}}}`,
			format: FormatJSON,
			cells:  1,
		},
		{
			name:    "missing time points",
			data:    `{"teams":[],"projects":[]}`,
			format:  FormatJSON,
			wantErr: ErrMalformedDocument,
		},
		{
			name:    "not json",
			data:    `teams = []`,
			format:  FormatJSON,
			wantErr: ErrMalformedDocument,
		},
		{
			name:   "toml integers",
			data:   "teams = [{id = \"a\", name = \"A\", capacity = 3, color = \"#fff\"}]\nprojects = []\ntime_points = []\n[allocations.t.p.a]\noccupied = 2\n",
			format: FormatTOML,
			cells:  1,
		},
		{
			name:    "unknown format",
			data:    `{}`,
			format:  "yaml",
			wantErr: ErrUnknownFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc, err := Decode([]byte(tt.data), tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Decode err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got := alloc.FromNested(doc.Allocations).Len(); got != tt.cells {
				t.Errorf("cells = %d, want %d", got, tt.cells)
			}
		})
	}
}

func TestEncodeEmptyDocument(t *testing.T) {
	t.Parallel()
	for _, f := range []Format{FormatJSON, FormatTOML} {
		data, err := Encode(Document{}, f)
		if err != nil {
			t.Fatalf("Encode(%s): %v", f, err)
		}
		doc, err := Decode(data, f)
		if err != nil {
			t.Fatalf("Decode(%s) of empty document: %v\n%s", f, err, data)
		}
		if len(doc.Teams)+len(doc.Projects)+len(doc.TimePoints) != 0 {
			t.Errorf("%s: empty document decoded with entities: %+v", f, doc)
		}
	}
	data, _ := Encode(Document{}, FormatJSON)
	if !strings.HasSuffix(string(data), "}\n") {
		t.Errorf("JSON output missing trailing newline: %q", data)
	}
}
