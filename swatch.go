/*
Package swatch is a library for extracting the dominant colors of images.

Images are decoded into a lazy stream of RGBA pixels by the pixel package,
the opaque pixels are quantized and the resulting colors are cached in a
database keyed by the SHA-1 of the image file.
*/
package swatch

import (
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/bodgit/swatch/source"
)

// ImageError records a file that could not be decoded or had no colors
// to extract.
type ImageError struct {
	File string
	Err  error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *ImageError) Unwrap() error {
	return e.Err
}

// Swatch ties together the color cache and the extraction options.
type Swatch struct {
	db      *DB
	logger  *log.Logger
	options Options
}

// New opens the color database in file and returns a Swatch using it.
func New(file string, logger *log.Logger, options Options) (*Swatch, error) {
	db, err := NewDB(file)
	if err != nil {
		return nil, err
	}
	return &Swatch{
		db:      db,
		logger:  logger,
		options: options,
	}, nil
}

// Close closes the underlying database.
func (s *Swatch) Close() error {
	return s.db.Close()
}

// File returns the dominant colors of the named image file, using the
// cached result if the file has been seen before.
func (s *Swatch) File(file string) ([]Color, error) {
	f, err := source.Open(file)
	if err != nil {
		var pe *fs.PathError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, &ImageError{file, err}
	}

	colors, err := s.db.Lookup(f.SHA1)
	if err != nil {
		return nil, err
	}
	if colors != nil {
		s.logger.Printf("Cached \"%s\", with SHA1 \"%s\"\n", file, f.SHA1)
		return colors, nil
	}

	if colors, err = ExtractImage(f.Image, s.options); err != nil {
		return nil, &ImageError{file, err}
	}

	if err := s.db.Store(f.SHA1, f.Image.Width, f.Image.Height, colors); err != nil {
		return nil, err
	}
	s.logger.Printf("Extracted %d colors from \"%s\"\n", len(colors), file)

	return colors, nil
}

// Lookup returns the cached colors of the named image file without
// decoding it. It returns nil if the file has not been seen.
func (s *Swatch) Lookup(file string) ([]Color, error) {
	sha, err := hashFile(file)
	if err != nil {
		return nil, err
	}
	return s.db.Lookup(sha)
}
