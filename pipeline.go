package swatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/bodgit/swatch/metadata"
	"github.com/bodgit/swatch/source"
)

const workers = 4

func (s *Swatch) findDirectories(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(dir string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && dir != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a directory
			if !info.Mode().IsDir() {
				return nil
			}

			select {
			case out <- dir:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (s *Swatch) scanDirectory(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	db := metadata.New()
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Ignore hidden files, anything that isn't a normal file and
		// anything we can't decode
		if entry.Name()[0] == '.' || !entry.Type().IsRegular() || !source.Supported(entry.Name()) {
			continue
		}

		file := filepath.Join(dir, entry.Name())
		colors, err := s.File(file)
		if err != nil {
			var ie *ImageError
			if errors.As(err, &ie) {
				s.logger.Printf("Skipping \"%s\": %v\n", file, ie.Err)
				continue
			}
			return err
		}

		if len(colors) > metadata.MaxColors {
			colors = colors[:metadata.MaxColors]
		}
		argb := make([]uint32, len(colors))
		for i, c := range colors {
			argb[i] = c.ARGB()
		}
		if err := db.Set(metadata.CRCFilename(entry.Name()), argb); err != nil {
			return err
		}
	}

	if db.Length() == 0 {
		return nil
	}

	b, err := db.MarshalBinary()
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, metadata.Filename), b, 0o644)
}

func (s *Swatch) directoryWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for dir := range in {
			if err := s.scanDirectory(ctx, dir); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

// waitForPipeline returns the first error from any stage. On error it
// cancels the pipeline and keeps draining until every stage has finished.
func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	var first error
	for err := range mergeErrors(errs...) {
		if err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks the directory tree rooted at path, extracting the colors of
// every supported image and writing a metadata.Filename index into each
// directory that contains at least one.
func (s *Swatch) Scan(ctx context.Context, path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	dirs, errc, err := s.findDirectories(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < workers; i++ {
		errc, err := s.directoryWorker(ctx, dirs)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(cancelFunc, errcList...)
}
