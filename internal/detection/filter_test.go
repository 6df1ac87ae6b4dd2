package detection

import (
	"testing"

	"github.com/ironsheep/signature-tools-mcp/internal/geometry"
)

func blobAt(minX, minY, maxX, maxY int) Blob {
	return Blob{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

func TestClassify(t *testing.T) {
	// 80x60 grid: noise below 4 cells wide or 1.2 cells tall, page above
	// 72x54, vertical when taller than 4x its width.
	tests := []struct {
		name string
		blob Blob
		want Reason
	}{
		{"signature", blobAt(10, 20, 30, 24), ""},
		{"narrow speck", blobAt(5, 5, 7, 10), RejectNoise},
		{"single cell", blobAt(5, 5, 5, 5), RejectNoise},
		{"minimum size", blobAt(5, 5, 8, 6), ""},
		{"whole page", blobAt(0, 0, 75, 56), RejectPage},
		{"wide but not tall", blobAt(0, 0, 79, 40), ""},
		{"vertical rule", blobAt(40, 5, 44, 25), RejectVertical},
		{"tall at aspect limit", blobAt(40, 5, 44, 24), ""},
		{"full height rule is vertical not page", blobAt(40, 0, 44, 59), RejectVertical},
	}

	opts := DefaultOptions()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.blob, 80, 60, opts); got != tt.want {
				t.Errorf("Classify(%dx%d): got %q, want %q", tt.blob.Width(), tt.blob.Height(), got, tt.want)
			}
		})
	}
}

func TestClassify_NoiseFirst(t *testing.T) {
	// Size is checked before shape: thin lines are noise, not rules.
	opts := DefaultOptions()
	if got := Classify(blobAt(0, 10, 79, 10), 80, 60, opts); got != RejectNoise {
		t.Errorf("full-width line: got %q, want %q", got, RejectNoise)
	}
	if got := Classify(blobAt(0, 0, 2, 59), 80, 60, opts); got != RejectNoise {
		t.Errorf("full-height sliver: got %q, want %q", got, RejectNoise)
	}
}

func TestFilterBlobs(t *testing.T) {
	blobs := []Blob{
		blobAt(10, 20, 30, 24),
		blobAt(0, 0, 79, 59),
		blobAt(40, 5, 44, 30),
		blobAt(1, 1, 1, 1),
		blobAt(50, 40, 70, 45),
	}

	kept, rejected := FilterBlobs(blobs, 80, 60, DefaultOptions())
	if len(kept) != 2 {
		t.Fatalf("kept: got %d, want 2", len(kept))
	}
	if kept[0] != blobs[0] || kept[1] != blobs[4] {
		t.Errorf("kept blobs out of order: %+v", kept)
	}
	want := map[Reason]int{RejectPage: 1, RejectVertical: 1, RejectNoise: 1}
	for reason, n := range want {
		if rejected[reason] != n {
			t.Errorf("rejected[%s]: got %d, want %d", reason, rejected[reason], n)
		}
	}
}

func TestMapBlob(t *testing.T) {
	opts := DefaultOptions()

	tests := []struct {
		name          string
		blob          Blob
		scale         float64
		width, height int
		want          geometry.NaturalRect
	}{
		{
			name:  "analysis resolution",
			blob:  blobAt(10, 20, 30, 24),
			scale: 1, width: 800, height: 600,
			want: geometry.NaturalRect{X: 100, Y: 200, Width: 230, Height: 70},
		},
		{
			name:  "double resolution",
			blob:  blobAt(10, 20, 30, 24),
			scale: 2, width: 1600, height: 1200,
			want: geometry.NaturalRect{X: 200, Y: 400, Width: 460, Height: 140},
		},
		{
			name:  "clamped at right and bottom",
			blob:  blobAt(75, 55, 79, 59),
			scale: 1, width: 800, height: 600,
			want: geometry.NaturalRect{X: 750, Y: 550, Width: 50, Height: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapBlob(tt.blob, opts, tt.scale, tt.width, tt.height)
			if got != tt.want {
				t.Errorf("MapBlob: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapBlob_NoPadding(t *testing.T) {
	opts := DefaultOptions()
	opts.Padding = 0

	got := MapBlob(blobAt(10, 20, 30, 24), opts, 1, 800, 600)
	want := geometry.NaturalRect{X: 100, Y: 200, Width: 210, Height: 50}
	if got != want {
		t.Errorf("MapBlob: got %v, want %v", got, want)
	}
}
