// Package media stores admin uploads (posters, intro videos, header and
// maintenance images) and serves them back by path.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("media not found")
	ErrInvalid  = errors.New("invalid upload")
)

// Folders are the upload destinations the admin panel uses.
var Folders = []string{"posters", "intros", "headers", "maintenance"}

const maxNameLen = 100

// Object describes one stored file. Path is slash separated, e.g.
// "posters/dune_1718000000000.jpg".
type Object struct {
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store persists uploaded bytes under a path.
type Store interface {
	Put(ctx context.Context, path string, r io.Reader, contentType string) (Object, error)
	// Open returns ErrNotFound when nothing is stored under path.
	Open(ctx context.Context, path string) (io.ReadCloser, Object, error)
}

// ObjectPath builds "<folder>/<name>_<unix ms><ext>" from a client file name.
func ObjectPath(folder, filename string, now time.Time) (string, error) {
	if !slices.Contains(Folders, folder) {
		return "", fmt.Errorf("%w: unknown folder %q", ErrInvalid, folder)
	}
	base := filename
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	ext := strings.ToLower(sanitize(path.Ext(base)))
	stem := sanitize(strings.TrimSuffix(base, path.Ext(base)))
	stem = strings.TrimLeft(stem, ".")
	if len(stem) > maxNameLen {
		stem = stem[:maxNameLen]
	}
	if stem == "" {
		stem = "upload"
	}
	return folder + "/" + stem + "_" + strconv.FormatInt(now.UnixMilli(), 10) + ext, nil
}

// CheckPath rejects anything that ObjectPath could not have produced.
func CheckPath(p string) error {
	folder, name, ok := strings.Cut(p, "/")
	if !ok || !slices.Contains(Folders, folder) || name == "" ||
		strings.HasPrefix(name, ".") || sanitize(name) != name {
		return fmt.Errorf("%w: bad path %q", ErrNotFound, p)
	}
	return nil
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

// Sniff detects the content type from the first bytes of r and returns a
// reader that still yields the whole stream.
func Sniff(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("reading upload: %w", err)
	}
	head = head[:n]
	return http.DetectContentType(head), io.MultiReader(bytes.NewReader(head), r), nil
}

// Upload stores an image or video under folder. The content type is sniffed
// from the data, never taken from the client.
func Upload(ctx context.Context, s Store, folder, filename string, r io.Reader, now time.Time) (Object, error) {
	p, err := ObjectPath(folder, filename, now)
	if err != nil {
		return Object{}, err
	}
	ct, body, err := Sniff(r)
	if err != nil {
		return Object{}, err
	}
	if !strings.HasPrefix(ct, "image/") && !strings.HasPrefix(ct, "video/") {
		return Object{}, fmt.Errorf("%w: unsupported content type %s", ErrInvalid, ct)
	}
	obj, err := s.Put(ctx, p, body, ct)
	if err != nil {
		return Object{}, fmt.Errorf("storing %s: %w", p, err)
	}
	return obj, nil
}

// URL joins the public base (scheme and host) with the media route.
func URL(base, p string) string {
	return strings.TrimRight(base, "/") + "/media/" + p
}
