package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// BuildZip packages the given files into a single archive at zipPath,
// storing each entry under its base name. A failed build removes the
// half-written archive.
func BuildZip(paths []string, zipPath string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return errors.Wrap(err, "create zip")
	}

	zw := zip.NewWriter(out)
	for _, path := range paths {
		if err := addFile(zw, path); err != nil {
			zw.Close()
			out.Close()
			os.Remove(zipPath)
			return errors.Wrapf(err, "add %s", path)
		}
	}

	if err := zw.Close(); err != nil {
		out.Close()
		os.Remove(zipPath)
		return errors.Wrap(err, "close zip writer")
	}
	return out.Close()
}

func addFile(zw *zip.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := zw.Create(filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
