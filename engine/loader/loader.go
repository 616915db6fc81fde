// Package loader imports model files into CPU-side model.ImportedModel values and decodes
// their material textures. GPU upload is left to the scene.
package loader

import (
	"io"
	"maps"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/pkg/errors"
)

// TextureDecoder turns an imported texture into RGBA staging pixels.
type TextureDecoder func(tex *common.ImportedTexture) (common.TextureStagingData, error)

type loader struct {
	mu sync.RWMutex

	modelCache map[string]*model.ImportedModel

	backend loaderBackend
	decode  TextureDecoder

	workers int
	pool    worker.DynamicWorkerPool
}

// Loader loads and caches models. Only Wavefront OBJ with MTL materials is supported.
type Loader interface {
	// LoadOBJ imports an OBJ file and its material library, caching the result by path.
	// The material library named by the OBJ's mtllib line is resolved next to it; a missing
	// library leaves every mesh on a default white material.
	//
	// Parameters:
	//   - path: the file path to the .obj file
	//
	// Returns:
	//   - *model.ImportedModel: the triangulated meshes and their materials
	//   - error: a KindAssetLoad error if the file is missing or malformed
	LoadOBJ(path string) (*model.ImportedModel, error)

	// LoadOBJReader imports OBJ data from readers. It is not cached.
	//
	// Parameters:
	//   - objReader: the OBJ text
	//   - mtlReader: the MTL text, or nil when there is none
	//   - baseDir: the directory texture paths in the MTL are relative to
	//
	// Returns:
	//   - *model.ImportedModel: the triangulated meshes and their materials
	//   - error: a KindAssetLoad error if the data is malformed
	LoadOBJReader(objReader, mtlReader io.Reader, baseDir string) (*model.ImportedModel, error)

	// DecodeTextures decodes every material's diffuse texture in parallel and stores the
	// pixels on ImportedMaterial.Staging. Materials without a texture are skipped.
	//
	// Parameters:
	//   - m: the model whose materials are decoded in place
	//
	// Returns:
	//   - error: the first KindAssetLoad error, after every decode has finished
	DecodeTextures(m *model.ImportedModel) error

	// Get returns a cached model by path, or nil.
	Get(path string) *model.ImportedModel

	// Models returns a copy of the model cache.
	Models() map[string]*model.ImportedModel

	// Close stops the decode workers.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a Loader with the OBJ backend.
//
// Parameters:
//   - options: functional options to configure the Loader
//
// Returns:
//   - Loader: the new loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		modelCache: make(map[string]*model.ImportedModel),
		backend:    newOBJLoaderBackend(),
		decode:     (*common.ImportedTexture).Decode,
		workers:    4,
	}
	for _, option := range options {
		option(l)
	}
	l.workers = max(l.workers, 1)
	l.pool = worker.NewDynamicWorkerPool(l.workers, 64, 1*time.Second)
	return l
}

func (l *loader) LoadOBJ(path string) (*model.ImportedModel, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".obj" {
		return nil, common.Errorf(common.KindAssetLoad, "loader.LoadOBJ", "unsupported model format %q", ext)
	}

	m, err := l.backend.Load(path)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.modelCache[path] = m
	l.mu.Unlock()

	common.Logger().Info("model loaded", "path", path, "meshes", len(m.Meshes), "materials", len(m.Materials))
	return m, nil
}

func (l *loader) LoadOBJReader(objReader, mtlReader io.Reader, baseDir string) (*model.ImportedModel, error) {
	return l.backend.LoadReader(objReader, mtlReader, baseDir)
}

func (l *loader) DecodeTextures(m *model.ImportedModel) error {
	if m == nil {
		return nil
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i := range m.Materials {
		mat := &m.Materials[i]
		if mat.DiffuseTexture == nil {
			continue
		}
		wg.Add(1)
		l.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				staging, err := l.decode(mat.DiffuseTexture)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return nil, err
				}
				mat.Staging = &staging
				return nil, nil
			},
		})
	}
	wg.Wait()

	if firstErr != nil {
		if _, ok := common.KindOf(firstErr); !ok {
			firstErr = common.NewError(common.KindAssetLoad, "loader.DecodeTextures", errors.Wrap(firstErr, m.Name))
		}
		return firstErr
	}
	return nil
}

func (l *loader) Get(path string) *model.ImportedModel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[path]
}

func (l *loader) Models() map[string]*model.ImportedModel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.modelCache)
}

func (l *loader) Close() {
	l.pool.Stop()
}
