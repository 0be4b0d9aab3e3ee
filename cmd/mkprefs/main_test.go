package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const seed = `
[pocketos]
weather_city = "Oslo"
sleep_idx = 2
clock_24h = false
`

func TestWriteAndDump(t *testing.T) {
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.toml")
	if err := os.WriteFile(seedPath, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}
	img := filepath.Join(dir, "Flash.bin")
	if err := writeImage(img, seedPath, 64*1024, 4096); err != nil {
		t.Fatalf("writeImage: %v", err)
	}
	if fi, err := os.Stat(img); err != nil || fi.Size() != 64*1024 {
		t.Fatalf("image: %v %v", fi, err)
	}

	var out bytes.Buffer
	if err := dumpImage(&out, img); err != nil {
		t.Fatalf("dumpImage: %v", err)
	}
	for _, want := range []string{"[pocketos]", "Oslo", "sleep_idx = 2", "clock_24h = false"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("dump missing %q:\n%s", want, out.String())
		}
	}
}

func TestBuildImageRejects(t *testing.T) {
	tests := []struct {
		name        string
		seed        string
		size, erase uint32
	}{
		{"unaligned", seed, 10000, 4096},
		{"too small", seed, 4096, 4096},
		{"bad toml", "[pocketos\n", 64 * 1024, 4096},
	}
	for _, tt := range tests {
		if _, err := buildImage([]byte(tt.seed), tt.size, tt.erase); err == nil {
			t.Errorf("%s: no error", tt.name)
		}
	}
}

func TestBuildImageTailErased(t *testing.T) {
	img, err := buildImage([]byte(seed), 64*1024, 4096)
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range img[16*1024:] {
		if b != 0xFF {
			t.Fatalf("byte %d = %#x, want erased", 16*1024+i, b)
		}
	}
}
