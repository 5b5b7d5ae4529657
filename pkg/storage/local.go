package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shashiranjanraj/sweetshop/config"
)

// localDisk stores files under a root directory on the server's filesystem.
// It is always registered so catalog exports work without any cloud setup.
type localDisk struct {
	root    string
	baseURL string
}

func newLocalDisk() *localDisk {
	root := config.Get("STORAGE_LOCAL_ROOT", "storage")
	if !filepath.IsAbs(root) {
		cwd, _ := os.Getwd()
		root = filepath.Join(cwd, root)
	}
	base := config.Get("STORAGE_URL", "http://localhost:8080/storage")
	return &localDisk{root: root, baseURL: strings.TrimRight(base, "/")}
}

// resolve maps a slash path onto the disk root.
func (d *localDisk) resolve(path string) string {
	return filepath.Join(d.root, filepath.FromSlash(path))
}

func (d *localDisk) wrap(op, path string, err error) error {
	return fmt.Errorf("local disk: %s %s: %w", op, path, err)
}

func (d *localDisk) Put(path string, content []byte) error {
	full := d.resolve(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return d.wrap("mkdir", path, err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return d.wrap("write", path, err)
	}
	return nil
}

func (d *localDisk) PutStream(path string, r io.Reader) error {
	full := d.resolve(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return d.wrap("mkdir", path, err)
	}
	f, err := os.Create(full)
	if err != nil {
		return d.wrap("create", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return d.wrap("stream", path, err)
	}
	return f.Close()
}

func (d *localDisk) Get(path string) ([]byte, error) {
	data, err := os.ReadFile(d.resolve(path))
	if err != nil {
		return nil, d.wrap("read", path, err)
	}
	return data, nil
}

func (d *localDisk) GetStream(path string) (io.ReadCloser, error) {
	f, err := os.Open(d.resolve(path))
	if err != nil {
		return nil, d.wrap("open", path, err)
	}
	return f, nil
}

func (d *localDisk) Exists(path string) bool {
	_, err := os.Stat(d.resolve(path))
	return err == nil
}

func (d *localDisk) Size(path string) (int64, error) {
	info, err := os.Stat(d.resolve(path))
	if err != nil {
		return 0, d.wrap("stat", path, err)
	}
	return info.Size(), nil
}

func (d *localDisk) LastModified(path string) (time.Time, error) {
	info, err := os.Stat(d.resolve(path))
	if err != nil {
		return time.Time{}, d.wrap("stat", path, err)
	}
	return info.ModTime(), nil
}

func (d *localDisk) URL(path string) string {
	return d.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(path), "/")
}

func (d *localDisk) Delete(path string) error {
	if err := os.Remove(d.resolve(path)); err != nil && !os.IsNotExist(err) {
		return d.wrap("delete", path, err)
	}
	return nil
}

func (d *localDisk) Files(directory string) ([]string, error) {
	entries, err := os.ReadDir(d.resolve(directory))
	if err != nil {
		return nil, d.wrap("list", directory, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out = append(out, filepath.ToSlash(filepath.Join(directory, e.Name())))
	}
	return out, nil
}
