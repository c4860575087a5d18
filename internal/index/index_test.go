package index

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteProducesHeaderAndNaturalDecimals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "index.csv")
	rows := []Row{
		{Filename: "gaze_pxm15_pym15_256.webp", PupilX: -15, PupilY: -15},
		{Filename: "gaze_px2p5_py0_256.webp", PupilX: 2.5, PupilY: 0},
	}
	if err := Write(path, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "filename,pupil_x,pupil_y\n" +
		"gaze_pxm15_pym15_256.webp,-15,-15\n" +
		"gaze_px2p5_py0_256.webp,2.5,0\n"
	if string(data) != want {
		t.Fatalf("expected:\n%s\ngot:\n%s", want, string(data))
	}
}

func TestWriteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.csv")
	if err := Write(path, []Row{{Filename: "a.webp", PupilX: 1, PupilY: 2}}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := Write(path, []Row{{Filename: "b.webp", PupilX: 3, PupilY: 4}}); err != nil {
		t.Fatalf("second write: %v", err)
	}
	rows, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 1 || rows[0].Filename != "b.webp" {
		t.Fatalf("expected single row b.webp, got %+v", rows)
	}
}

func TestReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.csv")
	in := []Row{
		{Filename: "gaze_pxm7p5_py12p5_256.webp", PupilX: -7.5, PupilY: 12.5},
		{Filename: "gaze_px0_py0_256.webp", PupilX: 0, PupilY: 0},
	}
	if err := Write(path, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d rows, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("row %d: expected %+v, got %+v", i, in[i], out[i])
		}
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatalf("expected error for missing index")
	}
}
