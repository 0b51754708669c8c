package framework

import (
	"log/slog"
	"maps"
	"slices"
	"sort"

	"github.com/pkg/errors"
	"github.com/plus3/pandawalk/anim"
	"github.com/plus3/pandawalk/scene"
)

// Window is a view of the framework's scene through a camera.
type Window struct {
	fw     *Framework
	title  string
	render scene.NodePath
	camera scene.NodePath
	actors map[scene.NodeId]*anim.Actor
}

// Framework returns the framework that opened the window.
func (w *Window) Framework() *Framework {
	return w.fw
}

// Title returns the window title.
func (w *Window) Title() string {
	return w.title
}

// Render returns the root of the scene drawn by this window.
func (w *Window) Render() scene.NodePath {
	return w.render
}

// Camera returns the camera node. It starts at the origin looking down +Y.
func (w *Window) Camera() scene.NodePath {
	return w.camera
}

// LoadModel loads the model at path and parents it to parent.
func (w *Window) LoadModel(parent scene.NodePath, path string) (scene.NodePath, error) {
	np, err := w.fw.loader.LoadModel(w.fw.graph, path)
	if err != nil {
		return scene.NodePath{}, err
	}
	np.ReparentTo(parent)
	slog.Debug("model loaded", "path", path, "node", np.Id())
	return np, nil
}

// LoadAnimation binds every clip in the file at path to model and returns the
// bound clip names.
func (w *Window) LoadAnimation(model scene.NodePath, path string) ([]string, error) {
	clips, err := w.fw.loader.LoadClips(path)
	if err != nil {
		return nil, err
	}

	actor := w.Actor(model)
	names := make([]string, 0, len(clips))
	for name, clip := range clips {
		if _, err := actor.BindClip(name, clip); err != nil {
			return nil, errors.Wrapf(err, "failed to bind %s", path)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Actor returns the actor for model, creating it and registering it with the
// animation player on first use.
func (w *Window) Actor(model scene.NodePath) *anim.Actor {
	w.pruneActors()
	actor, ok := w.actors[model.Id()]
	if !ok {
		actor = anim.NewActor(model)
		w.actors[model.Id()] = actor
		w.fw.animations.Add(actor)
	}
	return actor
}

// Actors returns the window's actors whose models are still in the scene, in
// creation order.
func (w *Window) Actors() []*anim.Actor {
	w.pruneActors()
	ids := slices.Sorted(maps.Keys(w.actors))
	actors := make([]*anim.Actor, 0, len(ids))
	for _, id := range ids {
		actors = append(actors, w.actors[id])
	}
	return actors
}

// pruneActors forgets actors whose models have been removed.
func (w *Window) pruneActors() {
	maps.DeleteFunc(w.actors, func(_ scene.NodeId, a *anim.Actor) bool {
		return !a.Node().Valid()
	})
}

// LoopAnimations loops every clip bound to every actor of the window.
func (w *Window) LoopAnimations() {
	for _, actor := range w.Actors() {
		actor.LoopAll()
	}
}
