package pipeline

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/t14raptor/fastfront/parser"
)

// LoadFile reads a source file from disk. A UTF-8 or UTF-16 byte order mark
// selects the decoding and is dropped; text without one is taken as UTF-8.
// The source type is inferred from the file name.
func LoadFile(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, errors.Wrapf(err, "reading %s", path)
	}
	src, err := Decode(raw)
	if err != nil {
		return File{}, errors.Wrapf(err, "decoding %s", path)
	}
	st := parser.SourceTypeFromPath(path)
	return File{Path: path, Source: src, SourceType: &st}, nil
}

// Decode converts raw file bytes to UTF-8 text, honoring a byte order mark.
func Decode(raw []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(out), nil
}

// LoadFiles loads every path, stopping at the first failure.
func LoadFiles(paths []string) ([]File, error) {
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		f, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}
