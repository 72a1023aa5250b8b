package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/anima-vector/engine/core"
	"github.com/spaghettifunk/anima-vector/engine/systems"
)

var ErrLibraryClosed = errors.New("shape library already closed")

/**
 * @brief Indexes every shape file below a directory and keeps them up to
 * date. Files are watched recursively; a file that changes is reloaded
 * and EVENT_CODE_SHAPE_RELOADED is fired from the watcher goroutine.
 */
type ShapeLibrary struct {
	assets  map[string]*Asset
	names   map[string]string
	loaders map[AssetType]Loader
	jobs    *systems.JobSystem

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	started  bool
}

// NewShapeLibrary creates an empty library. When jobs is not nil the
// initial load runs on its workers.
func NewShapeLibrary(jobs *systems.JobSystem) (*ShapeLibrary, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	sl := &ShapeLibrary{
		assets:   make(map[string]*Asset),
		names:    make(map[string]string),
		loaders:  make(map[AssetType]Loader),
		jobs:     jobs,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	sl.registerLoader(AssetTypeShape, ShapeLoader{})
	return sl, nil
}

// Initialize loads every shape below assetsDir and starts watching it.
func (sl *ShapeLibrary) Initialize(assetsDir string) error {
	sl.mutex.RLock()
	isClosed, started := sl.isClosed, sl.started
	sl.mutex.RUnlock()
	if isClosed {
		return ErrLibraryClosed
	}
	if started {
		return fmt.Errorf("shape library already initialized")
	}
	files, err := sl.watchRecursive(assetsDir)
	if err != nil {
		return err
	}
	sl.loadAll(files)

	sl.mutex.Lock()
	sl.started = true
	sl.mutex.Unlock()
	go sl.start()

	core.LogInfo("shape library indexed %d shapes from '%s'", len(sl.Names()), assetsDir)
	return nil
}

func (sl *ShapeLibrary) registerLoader(assetType AssetType, loader Loader) {
	sl.loaders[assetType] = loader
}

// Get returns the current version of the named shape.
func (sl *ShapeLibrary) Get(name string) (*Asset, error) {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()
	path, ok := sl.names[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownAsset, name)
	}
	return sl.assets[path], nil
}

// Names returns the loaded shape names in sorted order.
func (sl *ShapeLibrary) Names() []string {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()
	names := make([]string, 0, len(sl.names))
	for name := range sl.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close stops the watcher. The loaded shapes stay available.
func (sl *ShapeLibrary) Close() error {
	sl.mutex.Lock()
	if sl.isClosed {
		sl.mutex.Unlock()
		return nil
	}
	sl.isClosed = true
	started := sl.started
	sl.mutex.Unlock()

	close(sl.done)
	if started {
		<-sl.stopped
		return nil
	}
	return sl.fsnotify.Close()
}

func (sl *ShapeLibrary) loadAll(files []string) {
	if sl.jobs == nil {
		for _, f := range files {
			sl.handleFileEvent(f, false)
		}
		return
	}
	var wg sync.WaitGroup
	for _, f := range files {
		f := f
		wg.Add(1)
		err := sl.jobs.Submit(systems.JobTask{
			Name: "load " + f,
			OnStart: func() error {
				sl.handleFileEvent(f, false)
				return nil
			},
			OnCompletionCallback: wg.Done,
		})
		if err != nil {
			wg.Done()
			sl.handleFileEvent(f, false)
		}
	}
	wg.Wait()
}

func (sl *ShapeLibrary) start() {
	defer close(sl.stopped)
	for {
		select {
		case e, ok := <-sl.fsnotify.Events:
			if !ok {
				return
			}
			sl.handleWatchEvent(e)

		case err, ok := <-sl.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("shape library watcher: %s", err)

		case <-sl.done:
			sl.fsnotify.Close()
			return
		}
	}
}

func (sl *ShapeLibrary) handleWatchEvent(e fsnotify.Event) {
	s, err := os.Stat(e.Name)
	if err == nil && s.IsDir() {
		if e.Has(fsnotify.Create) {
			files, err := sl.watchRecursive(e.Name)
			if err != nil {
				core.LogError("failed to watch %s: %s", e.Name, err)
			}
			for _, f := range files {
				sl.handleFileEvent(f, true)
			}
		}
		return
	}
	if e.Has(fsnotify.Create) || e.Has(fsnotify.Write) {
		sl.handleFileEvent(e.Name, true)
	}
	// a deleted directory cannot be stat'ed, so removal covers both cases
	if e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename) {
		sl.removeAsset(e.Name)
		_ = sl.fsnotify.Remove(e.Name)
	}
}

// watchRecursive adds path and its sub-directories to the watcher and
// returns the shape files found below it.
func (sl *ShapeLibrary) watchRecursive(path string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(path, func(walkPath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return sl.fsnotify.Add(walkPath)
		}
		if determineAssetType(walkPath) != AssetTypeNone {
			files = append(files, filepath.Clean(walkPath))
		}
		return nil
	})
	return files, err
}

// handleFileEvent (re)loads a file. A file that fails to load keeps the
// previous version of its shape.
func (sl *ShapeLibrary) handleFileEvent(path string, notify bool) {
	path = filepath.Clean(path)
	assetType := determineAssetType(path)
	if assetType == AssetTypeNone {
		return
	}
	loader, ok := sl.loaders[assetType]
	if !ok {
		core.LogWarn("no loader registered for asset type %d", assetType)
		return
	}
	asset, err := loader.Load(path)
	if err != nil {
		core.LogWarn("keeping previous version of %s: %s", path, err)
		return
	}

	sl.mutex.Lock()
	if old, exists := sl.assets[path]; exists && old.Name != asset.Name {
		delete(sl.names, old.Name)
	}
	if other, taken := sl.names[asset.Name]; taken && other != path {
		core.LogWarn("shape %q from %s replaces the one from %s", asset.Name, path, other)
		delete(sl.assets, other)
	}
	sl.assets[path] = asset
	sl.names[asset.Name] = path
	sl.mutex.Unlock()

	core.LogDebug("loaded shape %q from %s", asset.Name, path)
	if notify {
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_SHAPE_RELOADED,
			Data: &core.AssetEvent{Name: asset.Name, Path: path},
		})
	}
}

// removeAsset drops the asset of a deleted file.
func (sl *ShapeLibrary) removeAsset(path string) {
	path = filepath.Clean(path)
	sl.mutex.Lock()
	defer sl.mutex.Unlock()

	if asset, ok := sl.assets[path]; ok {
		delete(sl.names, asset.Name)
		delete(sl.assets, path)
	}
}
