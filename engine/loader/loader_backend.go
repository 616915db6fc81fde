package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// loaderBackend parses one model format. Concrete implementations (e.g., objLoaderBackend)
// handle format-specific details.
type loaderBackend interface {
	// Load imports a model from the given file path, resolving its material library and
	// texture paths relative to the file.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: a KindAssetLoad error if loading fails
	Load(path string) (*model.ImportedModel, error)

	// LoadReader imports a model from reader streams.
	//
	// Parameters:
	//   - r: the reader providing model data
	//   - materials: the reader providing material data, or nil
	//   - baseDir: the directory relative texture paths resolve against
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: a KindAssetLoad error if loading fails
	LoadReader(r, materials io.Reader, baseDir string) (*model.ImportedModel, error)
}
