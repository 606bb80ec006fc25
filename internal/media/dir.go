package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"time"
)

// DirStore keeps uploads as plain files under a root directory.
type DirStore struct {
	root string
}

func NewDirStore(root string) *DirStore {
	return &DirStore{root: root}
}

func (d *DirStore) file(p string) string {
	return filepath.Join(d.root, filepath.FromSlash(p))
}

func (d *DirStore) Put(ctx context.Context, p string, r io.Reader, contentType string) (Object, error) {
	if err := CheckPath(p); err != nil {
		return Object{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	dst := d.file(p)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return Object{}, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return Object{}, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Object{}, fmt.Errorf("writing %s: %w", p, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return Object{}, err
	}
	return Object{Path: p, Size: n, ContentType: contentType, UpdatedAt: time.Now().UTC()}, nil
}

func (d *DirStore) Open(ctx context.Context, p string) (io.ReadCloser, Object, error) {
	if err := CheckPath(p); err != nil {
		return nil, Object{}, err
	}
	f, err := os.Open(d.file(p))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Object{}, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, Object{}, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, Object{}, err
	}
	ct := mime.TypeByExtension(path.Ext(p))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return f, Object{Path: p, Size: info.Size(), ContentType: ct, UpdatedAt: info.ModTime().UTC()}, nil
}
