package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/MKhiriev/go-course-sync/internal/config"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/utils"
	"github.com/MKhiriev/go-course-sync/models"
)

const poolIndexFile = ".pool.json"

// poolIndex maps a file URL to the modification time of its local copy.
type poolIndex map[string]int64

type diskFilePool struct {
	client *utils.HTTPClient
	root   string

	// mu serializes work on the same package directory.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewDiskFilePool returns a [FilePool] writing package files under
// storageCfg.FilesDir/<site>/<package id>/.
func NewDiskFilePool(storageCfg config.ClientStorage, adapterCfg config.ClientAdapter) FilePool {
	client := utils.NewHTTPClient(adapterCfg.RequestTimeout, adapterCfg.RetryCount)

	return &diskFilePool{
		client: client,
		root:   storageCfg.FilesDir,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (p *diskFilePool) packageDir(siteID string, ref models.PackageRef) string {
	return filepath.Join(p.root, siteID, ref.PackageID())
}

func (p *diskFilePool) lock(dir string) func() {
	p.mu.Lock()
	l, ok := p.locks[dir]
	if !ok {
		l = &sync.Mutex{}
		p.locks[dir] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// AddFilesToQueueByURL implements [FilePool]. Files are downloaded one after
// another; a file whose local copy has the same modification time is
// skipped.
func (p *diskFilePool) AddFilesToQueueByURL(ctx context.Context, site models.Site, ref models.PackageRef, files []models.RemoteFile) error {
	log := logger.FromContext(ctx).With().
		Str("func", "diskFilePool.AddFilesToQueueByURL").
		Str("site_id", site.ID).
		Str("component", ref.Component).
		Int64("component_id", ref.ComponentID).
		Logger()

	dir := p.packageDir(site.ID, ref)
	defer p.lock(dir)()

	index, err := readPoolIndex(dir)
	if err != nil {
		return err
	}

	for _, f := range files {
		if downloaded, ok := index[f.FileURL]; ok && downloaded == f.TimeModified {
			continue
		}

		target, err := localPath(dir, f)
		if err != nil {
			return err
		}
		if err = os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create package dir: %w", err)
		}

		resp, err := p.client.R().
			SetContext(ctx).
			SetQueryParam("token", site.Token).
			SetOutput(target).
			Get(f.FileURL)
		if err != nil {
			log.Warn().Err(err).Str("file", f.FileName).Msg("file download failed")
			return mapTransportError(err)
		}
		if err = mapHTTPError(resp); err != nil {
			_ = os.Remove(target)
			return err
		}

		index[f.FileURL] = f.TimeModified
		if err = writePoolIndex(dir, index); err != nil {
			return err
		}
	}

	log.Debug().Int("files", len(files)).Msg("package files are up to date")
	return nil
}

// InvalidateAllFiles implements [FilePool].
func (p *diskFilePool) InvalidateAllFiles(_ context.Context, siteID string, ref models.PackageRef) error {
	dir := p.packageDir(siteID, ref)
	defer p.lock(dir)()

	if err := os.Remove(filepath.Join(dir, poolIndexFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("invalidate package files: %w", err)
	}
	return nil
}

// RemoveFiles implements [FilePool].
func (p *diskFilePool) RemoveFiles(_ context.Context, siteID string, ref models.PackageRef) error {
	dir := p.packageDir(siteID, ref)
	defer p.lock(dir)()

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove package files: %w", err)
	}
	return nil
}

// GetDownloadedSize implements [FilePool].
func (p *diskFilePool) GetDownloadedSize(_ context.Context, siteID string, ref models.PackageRef) (int64, error) {
	dir := p.packageDir(siteID, ref)

	var size int64
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() == poolIndexFile {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		size += info.Size()
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("measure package files: %w", err)
	}
	return size, nil
}

// localPath places f inside dir, refusing paths that climb out of it.
func localPath(dir string, f models.RemoteFile) (string, error) {
	name := f.FileName
	if name == "" {
		name = filepath.Base(f.FileURL)
	}
	rel := filepath.Clean("/" + f.FilePath + "/" + name)
	target := filepath.Join(dir, rel)
	if !strings.HasPrefix(target, filepath.Clean(dir)+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrFileOutsideDir, f.FilePath+name)
	}
	return target, nil
}

func readPoolIndex(dir string) (poolIndex, error) {
	data, err := os.ReadFile(filepath.Join(dir, poolIndexFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return poolIndex{}, nil
		}
		return nil, fmt.Errorf("read package index: %w", err)
	}

	index := poolIndex{}
	if err = json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("decode package index: %w", err)
	}
	return index, nil
}

func writePoolIndex(dir string, index poolIndex) error {
	data, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("encode package index: %w", err)
	}
	if err = os.WriteFile(filepath.Join(dir, poolIndexFile), data, 0o600); err != nil {
		return fmt.Errorf("write package index: %w", err)
	}
	return nil
}
