package results

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"bodyfit/internal/camera"
	"bodyfit/pkg/geometry"
)

var _ Camera = (*camera.Pinhole)(nil)

type fakeModel struct {
	orient   []float64
	pose     []float64
	faces    [][3]int
	out      *ModelOutput
	forwards [][]float64
}

func (m *fakeModel) Faces() [][3]int         { return m.faces }
func (m *fakeModel) GlobalOrient() []float64 { return m.orient }
func (m *fakeModel) BodyPose() []float64     { return m.pose }
func (m *fakeModel) Forward(bodyPose []float64) (*ModelOutput, error) {
	m.forwards = append(m.forwards, append([]float64(nil), bodyPose...))
	return m.out, nil
}

type fakeDecoder struct {
	pose []float64
	err  error
}

func (d fakeDecoder) Decode(embedding []float64) ([]float64, error) {
	return d.pose, d.err
}

// shiftCamera drops z and offsets x, so tests can tell views apart.
type shiftCamera struct {
	dx float64
}

func (c shiftCamera) Project(points []r3.Vector) []geometry.Point2D {
	out := make([]geometry.Point2D, len(points))
	for i, p := range points {
		out[i] = geometry.NewPoint2D(p.X+c.dx, p.Y)
	}
	return out
}

type recordingRenderer struct {
	views []View
}

func (r *recordingRenderer) Render(v View) error {
	r.views = append(r.views, v)
	return nil
}

type recordingMesh struct {
	path     string
	vertices []r3.Vector
}

func (m *recordingMesh) Export(path string, vertices []r3.Vector, faces [][3]int) error {
	m.path = path
	m.vertices = vertices
	return nil
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

func newModel() *fakeModel {
	return &fakeModel{
		orient: []float64{0.1, 0.2, 0.3},
		pose:   ones(69),
		faces:  [][3]int{{0, 1, 2}},
		out: &ModelOutput{
			Vertices: []r3.Vector{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}, {X: 7, Y: 8, Z: 9}},
			Joints:   []r3.Vector{{X: 10, Y: 20, Z: 1}},
		},
	}
}

func assertZeroed(t *testing.T, pose []float64) {
	t.Helper()
	for i, v := range pose {
		unreliable := (i >= 18 && i < 24) || (i >= 27 && i < 33) || i >= 57
		if unreliable {
			test.That(t, v, test.ShouldEqual, 0.0)
		} else {
			test.That(t, v, test.ShouldEqual, 1.0)
		}
	}
}

func TestZeroUnreliable(t *testing.T) {
	pose := ones(69)
	ZeroUnreliable(pose)
	assertZeroed(t, pose)

	short := ones(20)
	ZeroUnreliable(short)
	test.That(t, short[17], test.ShouldEqual, 1.0)
	test.That(t, short[18], test.ShouldEqual, 0.0)
	test.That(t, short[19], test.ShouldEqual, 0.0)
}

func TestSaveWithoutDecoder(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(Settings{ResultFolder: root, Model: newModel()})

	res := Result{
		KeyBodyPose:     ones(69),
		KeyGlobalOrient: []float64{1, 2, 3},
		"betas":         {0.5, -0.5},
	}
	err := w.Save(context.Background(), Input{Serial: "S01", Frame: "00042"}, res, Options{ModelType: "smpl"})
	test.That(t, err, test.ShouldBeNil)

	test.That(t, res[KeyBodyPose][18], test.ShouldEqual, 0.0)
	test.That(t, res[KeyBodyPose][60], test.ShouldEqual, 0.0)
	assertZeroed(t, res[KeyBodyPose])
	test.That(t, res[KeyPose], test.ShouldHaveLength, 72)
	test.That(t, res[KeyPose][:3], test.ShouldResemble, []float64{1, 2, 3})
	test.That(t, res[KeyPose][3+18], test.ShouldEqual, 0.0)

	rec := readRecordFile(t, filepath.Join(root, "S01", "00042", "000.pkl"))
	test.That(t, rec, test.ShouldHaveLength, 4)
	test.That(t, rec[KeyBodyPose], test.ShouldHaveLength, 69)
	assertZeroed(t, rec[KeyBodyPose])
	test.That(t, rec[KeyPose], test.ShouldHaveLength, 72)
	test.That(t, rec[KeyPose][:3], test.ShouldResemble, []float64{1, 2, 3})
	assertZeroed(t, rec[KeyPose][3:])
	test.That(t, rec[KeyGlobalOrient], test.ShouldResemble, []float64{1, 2, 3})
	test.That(t, rec["betas"], test.ShouldResemble, []float64{0.5, -0.5})
}

func TestSaveWithDecoder(t *testing.T) {
	root := t.TempDir()
	model := newModel()
	w := NewWriter(Settings{
		ResultFolder: root,
		Model:        model,
		Decoder:      fakeDecoder{pose: ones(63)},
	})

	embedding := []float64{0.3, 0.4}
	res := Result{KeyPoseEmbedding: embedding}
	err := w.Save(context.Background(), Input{Serial: "S01", Frame: "f1"}, res, Options{UseDecoder: true})
	test.That(t, err, test.ShouldBeNil)

	test.That(t, res[KeyBodyPose], test.ShouldHaveLength, 63)
	assertZeroed(t, res[KeyBodyPose])
	test.That(t, res[KeyPose], test.ShouldHaveLength, 66)
	test.That(t, res[KeyPose][:3], test.ShouldResemble, model.orient)
	test.That(t, res[KeyPoseEmbedding], test.ShouldResemble, embedding)
	test.That(t, model.forwards, test.ShouldBeEmpty)

	rec := readRecordFile(t, filepath.Join(root, "S01", "f1", "000.pkl"))
	test.That(t, rec[KeyPoseEmbedding], test.ShouldResemble, embedding)
	test.That(t, rec[KeyBodyPose], test.ShouldResemble, res[KeyBodyPose])
	test.That(t, rec[KeyPose], test.ShouldResemble, res[KeyPose])
}

func TestSaveDecoderErrors(t *testing.T) {
	w := NewWriter(Settings{ResultFolder: t.TempDir(), Model: newModel(), Decoder: fakeDecoder{}})
	err := w.Save(context.Background(), Input{Serial: "s", Frame: "f"}, Result{}, Options{UseDecoder: true})
	test.That(t, errors.Is(err, ErrMissingField), test.ShouldBeTrue)

	boom := errors.New("boom")
	w = NewWriter(Settings{ResultFolder: t.TempDir(), Model: newModel(), Decoder: fakeDecoder{err: boom}})
	err = w.Save(context.Background(), Input{Serial: "s", Frame: "f"}, Result{KeyPoseEmbedding: {1}}, Options{UseDecoder: true})
	test.That(t, errors.Is(err, boom), test.ShouldBeTrue)

	w = NewWriter(Settings{ResultFolder: t.TempDir(), Model: newModel()})
	err = w.Save(context.Background(), Input{Serial: "s", Frame: "f"}, Result{KeyPoseEmbedding: {1}}, Options{UseDecoder: true})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSaveMissingFields(t *testing.T) {
	w := NewWriter(Settings{ResultFolder: t.TempDir()})
	in := Input{Serial: "s", Frame: "f"}

	err := w.Save(context.Background(), in, Result{KeyGlobalOrient: {0, 0, 0}}, Options{})
	test.That(t, errors.Is(err, ErrMissingField), test.ShouldBeTrue)

	err = w.Save(context.Background(), in, Result{KeyBodyPose: ones(69)}, Options{})
	test.That(t, errors.Is(err, ErrMissingField), test.ShouldBeTrue)
}

func TestSaveImagesAndMesh(t *testing.T) {
	root := t.TempDir()
	model := newModel()
	renderer := &recordingRenderer{}
	meshes := &recordingMesh{}
	w := NewWriter(Settings{
		ResultFolder: filepath.Join(root, "results"),
		ImageFolder:  filepath.Join(root, "images"),
		MeshFolder:   filepath.Join(root, "meshes"),
		Model:        model,
		Cameras:      []Camera{shiftCamera{}, shiftCamera{dx: 100}},
		Renderer:     renderer,
		Mesh:         meshes,
	})

	in := Input{
		Serial:     "S02",
		Frame:      "0007",
		ImagePaths: []string{`D:\data\cam00\0007.jpg`, "/data/cam01/0007.jpg"},
		Keypoints: [][]geometry.Point2D{
			{{X: 1, Y: 1}},
			{{X: 2, Y: 2}},
		},
	}
	res := Result{KeyBodyPose: ones(69), KeyGlobalOrient: {0, 0, 0}}
	err := w.Save(context.Background(), in, res, Options{SaveImages: true, SaveMeshes: true})
	test.That(t, err, test.ShouldBeNil)

	test.That(t, model.forwards, test.ShouldHaveLength, 1)
	assertZeroed(t, model.forwards[0])
	test.That(t, model.pose[18], test.ShouldEqual, 1.0)

	imgDir := filepath.Join(root, "images", "S02", "0007")
	test.That(t, renderer.views, test.ShouldHaveLength, 2)
	test.That(t, renderer.views[0].OutPath, test.ShouldEqual, filepath.Join(imgDir, "cam00.jpg"))
	test.That(t, renderer.views[1].OutPath, test.ShouldEqual, filepath.Join(imgDir, "cam01.jpg"))
	test.That(t, renderer.views[1].ImagePath, test.ShouldEqual, "/data/cam01/0007.jpg")
	test.That(t, renderer.views[0].Joints, test.ShouldResemble, []geometry.Point2D{{X: 10, Y: 20}})
	test.That(t, renderer.views[1].Joints, test.ShouldResemble, []geometry.Point2D{{X: 110, Y: 20}})
	test.That(t, renderer.views[1].Vertices, test.ShouldHaveLength, 3)
	test.That(t, renderer.views[1].Keypoints, test.ShouldResemble, in.Keypoints[1])
	test.That(t, renderer.views[0].Faces, test.ShouldResemble, model.faces)

	test.That(t, meshes.path, test.ShouldEqual, filepath.Join(root, "meshes", "S02", "0007", "000.obj"))
	test.That(t, meshes.vertices, test.ShouldResemble, model.out.Vertices)
}

func TestSaveImagesNeedsCameras(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(Settings{
		ResultFolder: root,
		ImageFolder:  root,
		Model:        newModel(),
		Renderer:     &recordingRenderer{},
	})
	in := Input{Serial: "s", Frame: "f", ImagePaths: []string{"a/cam0/x.jpg"}, Keypoints: [][]geometry.Point2D{nil}}
	res := Result{KeyBodyPose: ones(69), KeyGlobalOrient: {0, 0, 0}}
	err := w.Save(context.Background(), in, res, Options{SaveImages: true})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSaveImagesCancelled(t *testing.T) {
	root := t.TempDir()
	renderer := &recordingRenderer{}
	w := NewWriter(Settings{
		ResultFolder: root,
		ImageFolder:  root,
		Model:        newModel(),
		Cameras:      []Camera{shiftCamera{}},
		Renderer:     renderer,
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := Input{Serial: "s", Frame: "f", ImagePaths: []string{"a/cam0/x.jpg"}, Keypoints: [][]geometry.Point2D{nil}}
	res := Result{KeyBodyPose: ones(69), KeyGlobalOrient: {0, 0, 0}}
	err := w.Save(ctx, in, res, Options{SaveImages: true})
	test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
	test.That(t, renderer.views, test.ShouldBeEmpty)
}

func TestViewName(t *testing.T) {
	for path, want := range map[string]string{
		`C:\capture\cam03\000001.jpg`: "cam03",
		"/capture/cam04/000001.jpg":   "cam04",
		`capture/cam05\000001.jpg`:    "cam05",
	} {
		got, err := ViewName(path)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got, test.ShouldEqual, want)
	}

	_, err := ViewName("000001.jpg")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = ViewName("/000001.jpg")
	test.That(t, err, test.ShouldNotBeNil)
}
