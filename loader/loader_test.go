package loader_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/pandawalk/anim"
	"github.com/plus3/pandawalk/loader"
	"github.com/plus3/pandawalk/scene"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinModels(t *testing.T) {
	l := loader.New(t.TempDir())
	g := scene.NewGraph()

	assert.Equal(t, []string{"models/environment", "models/panda-model", "models/panda-walk4"}, loader.Builtins())

	env, err := l.LoadModel(g, "models/environment")
	require.NoError(t, err)
	assert.Equal(t, "environment", env.Name())
	assert.True(t, env.Parent().IsEmpty(), "loaded models start detached")
	assert.NotNil(t, env.Find("ground").Geometry())

	panda, err := l.LoadModel(g, "models/panda-model.gltf")
	require.NoError(t, err)
	for _, joint := range []string{loader.JointBody, loader.JointHead, loader.JointLeftFrontLeg, loader.JointRightBackLeg} {
		assert.False(t, panda.Find(joint).IsEmpty(), joint)
	}

	again, err := l.LoadModel(g, "models/panda-model")
	require.NoError(t, err)
	assert.NotEqual(t, panda.Id(), again.Id(), "every load creates new nodes")
}

func TestBuiltinWalkBindsToBuiltinPanda(t *testing.T) {
	l := loader.New()
	panda, err := l.LoadModel(scene.NewGraph(), "models/panda-model")
	require.NoError(t, err)

	clips, err := l.LoadClips("models/panda-walk4")
	require.NoError(t, err)
	require.Contains(t, clips, "walk")
	assert.Equal(t, 1.0, clips["walk"].Duration())

	actor := anim.NewActor(panda)
	_, err = actor.BindClip("walk", clips["walk"])
	require.NoError(t, err)
	require.NoError(t, actor.Loop("walk"))

	actor.Update(0.25)
	leg := panda.Find(loader.JointLeftFrontLeg)
	assert.InDelta(t, 30, leg.Hpr()[1], 1e-6)
	assert.InDelta(t, 20, panda.Find(loader.JointBody).Pos()[2], 1e-9)
}

func TestMissingModel(t *testing.T) {
	l := loader.New(t.TempDir())

	_, err := l.LoadModel(scene.NewGraph(), "models/teapot")
	require.Error(t, err)
	assert.True(t, errors.Is(err, loader.ErrModelNotFound))
	assert.Contains(t, err.Error(), "models/teapot")

	_, err = l.LoadClips("models/environment")
	assert.True(t, errors.Is(err, loader.ErrModelNotFound), "environment has no builtin clips")
}

func TestExportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	g := scene.NewGraph()

	model := g.NewNode("crate")
	model.SetGeometry(scene.Box(mgl64.Vec3{-1, -1, 0}, mgl64.Vec3{1, 1, 2}))
	lid := model.AttachNewNode("lid")
	lid.SetPos(0, 0, 2)
	lid.SetHpr(90, 0, 0)
	lid.SetScale(0.5)
	lid.SetGeometry(scene.Grid(2, 2))

	require.NoError(t, loader.Export(model, filepath.Join(dir, "crate.glb")))

	l := loader.New(dir)
	loaded, err := l.LoadModel(g, "crate")
	require.NoError(t, err)
	assert.Equal(t, 1, l.CacheLen())

	crate := loaded.Find("crate")
	require.False(t, crate.IsEmpty())
	require.NotNil(t, crate.Geometry())
	assert.Len(t, crate.Geometry().Edges, 12)

	got := loaded.Find("lid")
	require.False(t, got.IsEmpty())
	assert.Len(t, got.Geometry().Edges, len(lid.Geometry().Edges))
	for i := range 3 {
		assert.InDelta(t, lid.Pos()[i], got.Pos()[i], 1e-5)
		assert.InDelta(t, lid.Hpr()[i], got.Hpr()[i], 1e-3)
		assert.InDelta(t, lid.Scale()[i], got.Scale()[i], 1e-6)
	}

	_, err = l.LoadModel(g, "crate.glb")
	require.NoError(t, err)
	assert.Equal(t, 1, l.CacheLen(), "the decoded document is reused")

	_, err = l.LoadClips("crate")
	assert.Error(t, err)
}

func TestLoadModelTurnsYUpToZUp(t *testing.T) {
	dir := t.TempDir()

	doc := gltf.NewDocument()
	doc.Nodes = []*gltf.Node{
		{Name: "head", Translation: [3]float32{0, 1, 0}, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}, Children: []uint32{1}},
		{Name: "nose", Translation: [3]float32{0, 0, 1}, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}},
	}
	doc.Scenes[0].Nodes = []uint32{0}
	require.NoError(t, gltf.SaveBinary(doc, filepath.Join(dir, "head.glb")))

	g := scene.NewGraph()
	loaded, err := loader.New(dir).LoadModel(g, "head")
	require.NoError(t, err)

	head := loaded.Find("head")
	require.False(t, head.IsEmpty())
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, head.Pos(), "local transforms are kept")

	// glTF +Y becomes +Z and glTF +Z becomes -Y.
	tests := map[string]mgl64.Vec3{
		"head": {0, 0, 1},
		"nose": {0, -1, 1},
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			got := loaded.Find(name).NetTransform().Col(3).Vec3()
			for i := range 3 {
				assert.InDelta(t, want[i], got[i], 1e-6)
			}
		})
	}

	t.Run("export and reload keeps the pose", func(t *testing.T) {
		require.NoError(t, loader.Export(loaded, filepath.Join(dir, "again.glb")))
		reloaded, err := loader.New(dir).LoadModel(scene.NewGraph(), "again")
		require.NoError(t, err)
		got := reloaded.Find("nose").NetTransform().Col(3).Vec3()
		for i, want := range []float64{0, -1, 1} {
			assert.InDelta(t, want, got[i], 1e-6)
		}
	})
}
