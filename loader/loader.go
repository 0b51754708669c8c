// Package loader turns model paths into scene nodes and animation clips.
//
// Paths are resolved against a search path, trying the path as given and with
// .gltf and .glb extensions. Paths that match no file fall back to the
// procedural builtins registered with RegisterBuiltin.
package loader

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/plus3/pandawalk/anim"
	"github.com/plus3/pandawalk/scene"
	"github.com/qmuntal/gltf"
)

// ErrModelNotFound is returned when a path matches neither a file nor a
// builtin.
var ErrModelNotFound = errors.New("model not found")

var extensions = []string{"", ".gltf", ".glb"}

// Loader loads models and clips, caching decoded documents by resolved file.
type Loader struct {
	SearchPath []string

	docs map[string]*gltf.Document
}

// New creates a loader searching the given directories in order. An empty
// search path means the working directory.
func New(searchPath ...string) *Loader {
	if len(searchPath) == 0 {
		searchPath = []string{"."}
	}
	return &Loader{
		SearchPath: searchPath,
		docs:       make(map[string]*gltf.Document),
	}
}

// Resolve returns the file a model path refers to.
func (l *Loader) Resolve(path string) (string, error) {
	candidates := []string{path}
	if !filepath.IsAbs(path) {
		candidates = candidates[:0]
		for _, dir := range l.SearchPath {
			candidates = append(candidates, filepath.Join(dir, path))
		}
	}

	for _, base := range candidates {
		for _, ext := range extensions {
			name := base + ext
			if info, err := os.Stat(name); err == nil && !info.IsDir() {
				return name, nil
			}
		}
	}
	return "", errors.Wrapf(ErrModelNotFound, "%s", path)
}

func (l *Loader) document(path string) (*gltf.Document, string, error) {
	file, err := l.Resolve(path)
	if err != nil {
		return nil, "", err
	}
	if doc, ok := l.docs[file]; ok {
		return doc, file, nil
	}

	doc, err := gltf.Open(file)
	if err != nil {
		return nil, "", errors.Wrapf(err, "failed to read model %s", file)
	}
	l.docs[file] = doc
	slog.Debug("model decoded", "path", path, "file", file, "nodes", len(doc.Nodes), "animations", len(doc.Animations))
	return doc, file, nil
}

// CacheLen returns the number of decoded documents held by the loader.
func (l *Loader) CacheLen() int {
	return len(l.docs)
}

// LoadModel instantiates the model at path as a new detached node in g named
// after the path. Every call creates fresh nodes.
func (l *Loader) LoadModel(g *scene.Graph, path string) (scene.NodePath, error) {
	doc, _, err := l.document(path)
	if err == nil {
		root := g.NewNode(modelName(path))
		if err := buildScene(doc, root); err != nil {
			root.RemoveNode()
			return scene.NodePath{}, errors.Wrapf(err, "failed to build model %s", path)
		}
		return root, nil
	}
	if !errors.Is(err, ErrModelNotFound) {
		return scene.NodePath{}, err
	}

	b, ok := lookupBuiltin(path)
	if !ok || b.model == nil {
		return scene.NodePath{}, err
	}
	slog.Warn("using builtin model", "path", path)
	root := g.NewNode(modelName(path))
	b.model(root)
	return root, nil
}

// LoadClips reads every animation in the file at path, keyed by clip name.
func (l *Loader) LoadClips(path string) (map[string]*anim.Clip, error) {
	doc, _, err := l.document(path)
	if err == nil {
		clips, err := readClips(doc, modelName(path))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read animations of %s", path)
		}
		if len(clips) == 0 {
			return nil, errors.Errorf("%s contains no animations", path)
		}
		return clips, nil
	}
	if !errors.Is(err, ErrModelNotFound) {
		return nil, err
	}

	b, ok := lookupBuiltin(path)
	if !ok || b.clips == nil {
		return nil, err
	}
	slog.Warn("using builtin animation", "path", path)
	return b.clips(), nil
}

func modelName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
