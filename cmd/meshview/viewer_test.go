package main

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/meshview/internal/config"
	"github.com/taigrr/meshview/pkg/models"
	"github.com/taigrr/meshview/pkg/render"
	"github.com/taigrr/meshview/pkg/scene"
)

func newTestViewer(t *testing.T, cfg config.Config, withModel bool) *viewer {
	t.Helper()
	sc := scene.New()
	if withModel {
		sc.AddModel(models.NewCube(2), "cube")
	}
	return newViewer(cfg, sc, render.NewCompositor(render.DefaultOptions()), render.NewTextureCache())
}

func TestFramesPerSecond(t *testing.T) {
	tests := []struct {
		tick time.Duration
		want int
	}{
		{15 * time.Millisecond, 66},
		{time.Second, 1},
		{2 * time.Second, 1},
		{0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.tick.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, framesPerSecond(tt.tick))
		})
	}
}

func TestViewerTurntable(t *testing.T) {
	cfg := config.Default()
	cfg.Viewer.Spin = true
	v := newTestViewer(t, cfg, true)

	v.advance()
	want := turntableRate * cfg.Viewer.Tick().Seconds()
	assert.InDelta(t, want, v.scene.ActiveModel().Mesh.Transform.Rotation.Y, 1e-12)

	cfg.Viewer.Spin = false
	still := newTestViewer(t, cfg, true)
	still.advance()
	assert.Zero(t, still.scene.ActiveModel().Mesh.Transform.Rotation.Y)
}

func TestViewerSlowTickStaysFinite(t *testing.T) {
	cfg := config.Default()
	cfg.Viewer.TickMS = 2000
	v := newTestViewer(t, cfg, true)

	v.spin.Impulse(0.15)
	v.speed.Scale(4)
	for range 20 {
		v.advance()
	}
	rot := v.scene.ActiveModel().Mesh.Transform.Rotation.Y
	assert.False(t, math.IsNaN(rot) || math.IsInf(rot, 0), "rotation = %v", rot)
	assert.False(t, math.IsNaN(v.speed.Current), "speed = %v", v.speed.Current)
}

func TestViewerReportsSceneErrors(t *testing.T) {
	t.Run("last camera", func(t *testing.T) {
		v := newTestViewer(t, config.Default(), true)
		v.removeCamera()
		assert.Contains(t, v.notice, scene.ErrLastCamera.Error())
		assert.Len(t, v.scene.Cameras(), 1)
	})

	t.Run("hide without model", func(t *testing.T) {
		v := newTestViewer(t, config.Default(), false)
		v.toggleVisible()
		assert.Equal(t, errNoModel.Error(), v.notice)
	})

	t.Run("hide active model", func(t *testing.T) {
		v := newTestViewer(t, config.Default(), true)
		v.toggleVisible()
		assert.Empty(t, v.notice)
		require.NotNil(t, v.scene.ActiveModel())
		assert.False(t, v.scene.ActiveModel().Visible)
	})
}
