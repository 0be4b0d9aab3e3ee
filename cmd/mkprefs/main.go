//go:build !tinygo

// Command mkprefs writes a flash image whose preferences region is seeded
// from a TOML file, or prints the preferences held by an existing image.
//
//	mkprefs -o Flash.bin seed.toml
//	mkprefs --dump Flash.bin
package main

import (
	"fmt"
	"io"
	"os"

	"pocket/app"
	"pocket/hal"
	"pocket/internal/logging"
	"pocket/pocketos/prefs"

	toml "github.com/pelletier/go-toml/v2"
	flag "github.com/spf13/pflag"
)

const (
	defaultImagePath = "Flash.bin"
	defaultImageSize = 2 * 1024 * 1024
	defaultEraseSize = 4096
)

func main() {
	var (
		out   string
		size  uint32
		erase uint32
		dump  bool
	)
	flag.StringVarP(&out, "out", "o", defaultImagePath, "Output image path.")
	flag.Uint32Var(&size, "size", defaultImageSize, "Image size in bytes.")
	flag.Uint32Var(&erase, "erase", defaultEraseSize, "Erase block size in bytes.")
	flag.BoolVar(&dump, "dump", false, "Print the preferences of the image given as argument.")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: mkprefs [-o image] seed.toml\n       mkprefs --dump image\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	var err error
	if dump {
		err = dumpImage(os.Stdout, flag.Arg(0))
	} else {
		err = writeImage(out, flag.Arg(0), size, erase)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "mkprefs:", err)
		os.Exit(1)
	}
}

func writeImage(out, seedPath string, size, erase uint32) error {
	seed, err := os.ReadFile(seedPath)
	if err != nil {
		return err
	}
	img, err := buildImage(seed, size, erase)
	if err != nil {
		return fmt.Errorf("%s: %w", seedPath, err)
	}
	return os.WriteFile(out, img, 0o644)
}

// buildImage returns an erased flash image of size bytes with the
// preferences region holding seed.
func buildImage(seed []byte, size, erase uint32) ([]byte, error) {
	if erase == 0 || size == 0 || size%erase != 0 {
		return nil, fmt.Errorf("size %d is not a multiple of erase block %d", size, erase)
	}
	if size < app.PrefsOffset+app.PrefsSize {
		return nil, fmt.Errorf("size %d is smaller than the preferences region", size)
	}

	doc := map[string]map[string]any{}
	if err := toml.Unmarshal(seed, &doc); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	f := hal.NewMemFlash(size, erase)
	store, err := loadPrefs(f)
	if err != nil {
		return nil, err
	}
	if err := store.Import(doc); err != nil {
		return nil, err
	}

	img := make([]byte, size)
	if _, err := f.ReadAt(img, 0); err != nil {
		return nil, err
	}
	return img, nil
}

func dumpImage(w io.Writer, path string) error {
	img, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	size := uint32(len(img))
	if size < app.PrefsOffset+app.PrefsSize {
		return fmt.Errorf("%s: image too small (%d bytes)", path, size)
	}
	f := hal.NewMemFlash(size, defaultEraseSize)
	if _, err := f.WriteAt(img, 0); err != nil {
		return err
	}
	store, err := loadPrefs(f)
	if err != nil {
		return err
	}
	return toml.NewEncoder(w).Encode(store.Export())
}

func loadPrefs(f hal.Flash) (*prefs.Store, error) {
	return prefs.Load(f, app.PrefsOffset, app.PrefsSize, logging.New(os.Stderr))
}
