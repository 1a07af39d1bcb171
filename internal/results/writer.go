package results

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"bodyfit/internal/logging"
)

// personID is fixed: only single-person fits are supported.
const personID = 0

// Writer saves fit results under the folders in its Settings.
type Writer struct {
	settings Settings
	logger   *zap.SugaredLogger
}

// NewWriter creates a Writer.
func NewWriter(settings Settings) *Writer {
	return &Writer{
		settings: settings,
		logger:   logging.OrNop(settings.Logger),
	}
}

// Save finalises res and writes it out. res is updated in place: body_pose
// has its foot and hand ranges zeroed and pose is set to global_orient
// followed by body_pose.
func (w *Writer) Save(ctx context.Context, in Input, res Result, opts Options) error {
	logger := w.logger.With("serial", in.Serial, "frame", in.Frame, "model_type", opts.ModelType)

	var bodyPose []float64
	if opts.UseDecoder {
		decoded, err := w.decodePose(res)
		if err != nil {
			return err
		}
		bodyPose = decoded
	} else {
		bp, ok := res[KeyBodyPose]
		if !ok {
			return errors.Wrap(ErrMissingField, KeyBodyPose)
		}
		orient, ok := res[KeyGlobalOrient]
		if !ok {
			return errors.Wrap(ErrMissingField, KeyGlobalOrient)
		}
		ZeroUnreliable(bp)
		res[KeyPose] = fullPose(orient, bp)
	}

	dir, err := frameDir(w.settings.ResultFolder, in)
	if err != nil {
		return err
	}
	recordPath := filepath.Join(dir, personFile("pkl"))
	if err := writeRecordFile(recordPath, res); err != nil {
		return errors.Wrapf(err, "save %s", recordPath)
	}
	logger.Debugw("saved result", "path", recordPath)

	if !opts.SaveMeshes && !opts.SaveImages {
		return nil
	}

	model := w.settings.Model
	if model == nil {
		return errors.New("a body model is required to save meshes or images")
	}
	if !opts.UseDecoder {
		bodyPose = append([]float64(nil), model.BodyPose()...)
		ZeroUnreliable(bodyPose)
	}
	out, err := model.Forward(bodyPose)
	if err != nil {
		return errors.Wrap(err, "body model forward")
	}

	if opts.SaveImages {
		if err := w.saveImages(ctx, logger, in, model.Faces(), out); err != nil {
			return err
		}
	}

	if opts.SaveMeshes {
		if w.settings.Mesh == nil {
			return errors.New("no mesh exporter configured")
		}
		dir, err := frameDir(w.settings.MeshFolder, in)
		if err != nil {
			return err
		}
		meshPath := filepath.Join(dir, personFile("obj"))
		if err := w.settings.Mesh.Export(meshPath, out.Vertices, model.Faces()); err != nil {
			return errors.Wrapf(err, "export mesh %s", meshPath)
		}
		logger.Debugw("saved mesh", "path", meshPath)
	}
	return nil
}

// decodePose decodes the embedding in res, zeroes the unreliable ranges and
// stores body_pose and pose back into res.
func (w *Writer) decodePose(res Result) ([]float64, error) {
	embedding, ok := res[KeyPoseEmbedding]
	if !ok {
		return nil, errors.Wrap(ErrMissingField, KeyPoseEmbedding)
	}
	if w.settings.Decoder == nil {
		return nil, errors.New("no pose decoder configured")
	}
	if w.settings.Model == nil {
		return nil, errors.New("a body model is required to decode the pose")
	}

	decoded, err := w.settings.Decoder.Decode(embedding)
	if err != nil {
		return nil, errors.Wrap(err, "decode pose embedding")
	}
	bodyPose := append([]float64(nil), decoded...)
	ZeroUnreliable(bodyPose)

	res[KeyBodyPose] = bodyPose
	res[KeyPose] = fullPose(w.settings.Model.GlobalOrient(), bodyPose)
	res[KeyPoseEmbedding] = embedding
	return bodyPose, nil
}

func (w *Writer) saveImages(ctx context.Context, logger *zap.SugaredLogger, in Input, faces [][3]int, out *ModelOutput) error {
	if w.settings.Renderer == nil {
		return errors.New("no overlay renderer configured")
	}
	n := len(in.ImagePaths)
	if len(w.settings.Cameras) < n {
		return errors.Errorf("%d image paths but only %d cameras", n, len(w.settings.Cameras))
	}
	if len(in.Keypoints) < n {
		return errors.Errorf("%d image paths but only %d keypoint sets", n, len(in.Keypoints))
	}

	dir, err := frameDir(w.settings.ImageFolder, in)
	if err != nil {
		return err
	}

	for v, imgPath := range in.ImagePaths {
		if err := ctx.Err(); err != nil {
			return err
		}
		name, err := ViewName(imgPath)
		if err != nil {
			return err
		}
		cam := w.settings.Cameras[v]
		view := View{
			ImagePath: imgPath,
			OutPath:   filepath.Join(dir, name+".jpg"),
			Faces:     faces,
			Vertices:  cam.Project(out.Vertices),
			Joints:    cam.Project(out.Joints),
			Keypoints: in.Keypoints[v],
		}
		if err := w.settings.Renderer.Render(view); err != nil {
			return errors.Wrapf(err, "render view %s", name)
		}
		logger.Debugw("saved overlay", "path", view.OutPath)
	}
	return nil
}

// ViewName is the directory holding the source image, which names the
// camera view. Both `\` and `/` separate segments.
func ViewName(imagePath string) (string, error) {
	parts := strings.Split(strings.ReplaceAll(imagePath, "/", `\`), `\`)
	if len(parts) < 2 || parts[len(parts)-2] == "" {
		return "", errors.Errorf("cannot derive a view name from %q", imagePath)
	}
	return parts[len(parts)-2], nil
}

// frameDir creates and returns <root>/<serial>/<frame>.
func frameDir(root string, in Input) (string, error) {
	dir := filepath.Join(root, in.Serial, in.Frame)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create output directory")
	}
	return dir, nil
}

func personFile(ext string) string {
	return fmt.Sprintf("%03d.%s", personID, ext)
}
