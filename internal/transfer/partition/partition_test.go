package partition

import "testing"

func TestEvenSplit(t *testing.T) {
	// F=16, N=2, CHUNK_SIZE=4: each thread owns 8 bytes -> two 4-byte chunks.
	p := New(16, 2, 4)
	if got := p.TrueChunkCount(); got != 4 {
		t.Fatalf("expected 4 chunks, got %d", got)
	}
	offsets := offsetsOf(p)
	want := []uint64{0, 4, 8, 12}
	assertOffsets(t, offsets, want)
}

func TestUnevenSplitScenario6(t *testing.T) {
	// F=15, N=2, CHUNK_SIZE=4: thread 0 = 8 bytes (chunks at 0,4), thread 1 = 7
	// bytes (chunks at 8 [size 4] and 12 [size 3]).
	p := New(15, 2, 4)
	if len(p.Ranges) != 2 {
		t.Fatalf("expected 2 ranges, got %d", len(p.Ranges))
	}
	if p.Ranges[0].Size != 8 {
		t.Fatalf("expected thread 0 range size 8, got %d", p.Ranges[0].Size)
	}
	if p.Ranges[1].Size != 7 {
		t.Fatalf("expected thread 1 range size 7, got %d", p.Ranges[1].Size)
	}

	chunks := p.AllChunks()
	wantOffsets := []uint64{0, 4, 8, 12}
	wantSizes := []int{4, 4, 4, 3}
	if len(chunks) != len(wantOffsets) {
		t.Fatalf("expected %d chunks, got %d", len(wantOffsets), len(chunks))
	}
	for i, c := range chunks {
		if c.Offset != wantOffsets[i] {
			t.Fatalf("chunk %d: expected offset %d, got %d", i, wantOffsets[i], c.Offset)
		}
		if c.Size != wantSizes[i] {
			t.Fatalf("chunk %d: expected size %d, got %d", i, wantSizes[i], c.Size)
		}
	}

	// Every byte [0,15) must be covered exactly once.
	covered := make([]bool, 15)
	for _, c := range chunks {
		for i := 0; i < c.Size; i++ {
			idx := c.Offset + uint64(i)
			if covered[idx] {
				t.Fatalf("byte %d covered twice", idx)
			}
			covered[idx] = true
		}
	}
	for i, ok := range covered {
		if !ok {
			t.Fatalf("byte %d never covered", i)
		}
	}
}

func TestCoverageIsExhaustiveForVariousSizes(t *testing.T) {
	for _, fileSize := range []uint64{0, 1, 3, 4, 5, 17, 100, 4095, 4096, 4097, 100003} {
		for _, n := range []int{1, 2, 3, 5, 8} {
			p := New(fileSize, n, 4096)
			covered := make([]bool, fileSize)
			for _, c := range p.AllChunks() {
				for i := 0; i < c.Size; i++ {
					idx := c.Offset + uint64(i)
					if idx >= fileSize {
						t.Fatalf("fileSize=%d n=%d: chunk overruns file bounds at %d", fileSize, n, idx)
					}
					if covered[idx] {
						t.Fatalf("fileSize=%d n=%d: byte %d covered twice", fileSize, n, idx)
					}
					covered[idx] = true
				}
			}
			for i, ok := range covered {
				if !ok {
					t.Fatalf("fileSize=%d n=%d: byte %d never covered", fileSize, n, i)
				}
			}
		}
	}
}

func offsetsOf(p Plan) []uint64 {
	var out []uint64
	for _, c := range p.AllChunks() {
		out = append(out, c.Offset)
	}
	return out
}

func assertOffsets(t *testing.T, got, want []uint64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d offsets, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("offset %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}
