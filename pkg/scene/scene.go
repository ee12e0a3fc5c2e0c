// Package scene keeps the ordered list of models and cameras the viewer
// works with, and decides what each frame draws.
package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/meshview/pkg/models"
	"github.com/taigrr/meshview/pkg/render"
)

var (
	// ErrNotFound is returned for ids that are not in the scene.
	ErrNotFound = errors.New("not in scene")
	// ErrLastCamera is returned when removing the only camera.
	ErrLastCamera = errors.New("cannot remove the last camera")
)

// DefaultGizmoScale sizes camera gizmos relative to the unit camera model.
const DefaultGizmoScale = 0.25

// Model is a mesh placed in the scene. IDs are positions in the model
// list and are renumbered when a model is removed.
type Model struct {
	ID      int
	Name    string
	Mesh    *models.Mesh
	Visible bool
}

// Camera is a named viewpoint. IDs are assigned once and never reused.
type Camera struct {
	ID     int
	Name   string
	Camera *render.Camera

	gizmo *models.Mesh
}

// Scene is an ordered set of models and cameras with one active model and
// one active camera. There is always at least one camera.
type Scene struct {
	models      []*Model
	activeModel *Model

	cameras      []*Camera
	activeCamera *Camera
	nextCameraID int

	// GizmoScale is the uniform scale of the meshes drawn for inactive
	// cameras. Zero hides them.
	GizmoScale float64
}

// New creates an empty scene with a default camera.
func New() *Scene {
	s := &Scene{GizmoScale: DefaultGizmoScale}
	s.AddCamera(render.NewCamera(), "Camera 1")
	return s
}

// AddModel appends mesh as a visible model. The first model added
// becomes active.
func (s *Scene) AddModel(mesh *models.Mesh, name string) *Model {
	m := &Model{ID: len(s.models), Name: name, Mesh: mesh, Visible: true}
	s.models = append(s.models, m)
	if s.activeModel == nil {
		s.activeModel = m
	}
	render.Logger().Debug("model added", "id", m.ID, "name", name,
		"vertices", mesh.VertexCount(), "polygons", len(mesh.Polygons))
	return m
}

// RemoveModel drops the model with the given id and renumbers the rest.
// Removing the active model activates the first remaining one.
func (s *Scene) RemoveModel(id int) error {
	if id < 0 || id >= len(s.models) {
		return fmt.Errorf("model %d: %w", id, ErrNotFound)
	}
	removed := s.models[id]
	s.models = append(s.models[:id], s.models[id+1:]...)
	for i, m := range s.models {
		m.ID = i
	}
	if s.activeModel == removed {
		s.activeModel = nil
		if len(s.models) > 0 {
			s.activeModel = s.models[0]
		}
	}
	render.Logger().Debug("model removed", "name", removed.Name)
	return nil
}

// Model returns the model with the given id.
func (s *Scene) Model(id int) (*Model, bool) {
	if id < 0 || id >= len(s.models) {
		return nil, false
	}
	return s.models[id], true
}

// Models returns the models in draw order. The slice is a copy.
func (s *Scene) Models() []*Model {
	return append([]*Model(nil), s.models...)
}

// ModelCount returns the number of models.
func (s *Scene) ModelCount() int { return len(s.models) }

// SetActiveModel selects the model with the given id. Unknown ids leave
// the selection unchanged and return false.
func (s *Scene) SetActiveModel(id int) bool {
	m, ok := s.Model(id)
	if ok {
		s.activeModel = m
	}
	return ok
}

// ActiveModel returns the selected model, or nil in an empty scene.
func (s *Scene) ActiveModel() *Model { return s.activeModel }

// CycleModel selects the next model, wrapping around.
func (s *Scene) CycleModel() *Model {
	if len(s.models) == 0 {
		return nil
	}
	next := 0
	if s.activeModel != nil {
		next = (s.activeModel.ID + 1) % len(s.models)
	}
	s.activeModel = s.models[next]
	return s.activeModel
}

// SetVisible shows or hides a model. Selection is unaffected.
func (s *Scene) SetVisible(id int, visible bool) error {
	m, ok := s.Model(id)
	if !ok {
		return fmt.Errorf("model %d: %w", id, ErrNotFound)
	}
	m.Visible = visible
	return nil
}

// AddCamera appends a camera. The first camera added becomes active.
func (s *Scene) AddCamera(cam *render.Camera, name string) *Camera {
	c := &Camera{
		ID:     s.nextCameraID,
		Name:   name,
		Camera: cam,
		gizmo:  models.NewCameraModel(),
	}
	s.nextCameraID++
	s.cameras = append(s.cameras, c)
	if s.activeCamera == nil {
		s.activeCamera = c
	}
	return c
}

// RemoveCamera drops the camera with the given id. The last camera cannot
// be removed. Removing the active camera activates the first remaining one.
func (s *Scene) RemoveCamera(id int) error {
	i := s.cameraIndex(id)
	if i < 0 {
		return fmt.Errorf("camera %d: %w", id, ErrNotFound)
	}
	if len(s.cameras) == 1 {
		return ErrLastCamera
	}
	removed := s.cameras[i]
	s.cameras = append(s.cameras[:i], s.cameras[i+1:]...)
	if s.activeCamera == removed {
		s.activeCamera = s.cameras[0]
	}
	return nil
}

// SetActiveCamera switches to the camera with the given id.
func (s *Scene) SetActiveCamera(id int) bool {
	i := s.cameraIndex(id)
	if i < 0 {
		return false
	}
	s.activeCamera = s.cameras[i]
	return true
}

// CycleCamera switches to the next camera, wrapping around.
func (s *Scene) CycleCamera() *Camera {
	i := s.cameraIndex(s.activeCamera.ID)
	s.activeCamera = s.cameras[(i+1)%len(s.cameras)]
	return s.activeCamera
}

// ActiveCamera returns the camera frames are rendered through.
func (s *Scene) ActiveCamera() *Camera { return s.activeCamera }

// Cameras returns every camera in insertion order. The slice is a copy.
func (s *Scene) Cameras() []*Camera {
	return append([]*Camera(nil), s.cameras...)
}

func (s *Scene) cameraIndex(id int) int {
	for i, c := range s.cameras {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Drawables returns the meshes of every visible model in order, followed
// by a gizmo for each camera other than the active one.
func (s *Scene) Drawables() []*models.Mesh {
	out := make([]*models.Mesh, 0, len(s.models)+len(s.cameras))
	for _, m := range s.models {
		if m.Visible {
			out = append(out, m.Mesh)
		}
	}
	if s.GizmoScale <= 0 {
		return out
	}
	for _, c := range s.cameras {
		if c == s.activeCamera {
			continue
		}
		c.gizmo.Transform = c.Camera.Pose()
		c.gizmo.Transform.Scale = s.GizmoScale
		out = append(out, c.gizmo)
	}
	return out
}

// Render draws the scene through the active camera.
func (s *Scene) Render(c *render.Compositor, width, height int) (render.FrameStats, error) {
	return c.RenderScene(s.activeCamera.Camera, width, height, s)
}
