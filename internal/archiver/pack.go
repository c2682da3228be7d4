package archiver

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	iofs "io/fs"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/raoulx24/ghe-archiver/internal/snapshot"
)

// Packer streams a directory tree into w.
type Packer interface {
	Pack(ctx context.Context, tree iofs.FS, w io.Writer) ([]snapshot.Artifact, error)
}

// TarPacker writes a tar stream, optionally compressed with gzip or zstd.
type TarPacker struct {
	Compression string
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func (p TarPacker) compressor(w io.Writer) (io.WriteCloser, error) {
	switch p.Compression {
	case "", "none":
		return nopWriteCloser{w}, nil
	case "gzip":
		return gzip.NewWriter(w), nil
	case "zstd":
		return zstd.NewWriter(w)
	default:
		return nil, fmt.Errorf("unknown compression %q", p.Compression)
	}
}

// Pack writes every entry of tree with paths relative to its root. Symlinks
// are stored as links and sockets are skipped.
func (p TarPacker) Pack(ctx context.Context, tree iofs.FS, w io.Writer) ([]snapshot.Artifact, error) {
	cw, err := p.compressor(w)
	if err != nil {
		return nil, err
	}
	tw := tar.NewWriter(cw)

	var artifacts []snapshot.Artifact
	walkErr := iofs.WalkDir(tree, ".", func(rel string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Mode()&iofs.ModeSocket != 0 {
			return nil
		}

		var link string
		if info.Mode()&iofs.ModeSymlink != 0 {
			if link, err = iofs.ReadLink(tree, rel); err != nil {
				return err
			}
		}

		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return fmt.Errorf("header for %s: %w", rel, err)
		}
		hdr.Name = rel
		if d.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}

		if info.Mode().IsRegular() {
			if err := copyFile(tw, tree, rel, hdr.Size); err != nil {
				return fmt.Errorf("writing %s: %w", rel, err)
			}
		}

		artifacts = append(artifacts, snapshot.FromFileInfo(rel, info))
		return nil
	})
	if walkErr != nil {
		return artifacts, walkErr
	}

	if err := tw.Close(); err != nil {
		return artifacts, err
	}
	if err := cw.Close(); err != nil {
		return artifacts, err
	}
	return artifacts, nil
}

func copyFile(w io.Writer, tree iofs.FS, name string, size int64) error {
	in, err := tree.Open(name)
	if err != nil {
		return err
	}
	defer in.Close()

	_, err = io.CopyN(w, in, size)
	return err
}
