package p3d

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/odol2mlod/pack/p3d/common"
	"github.com/mogaika/odol2mlod/pack/p3d/convert"
	"github.com/mogaika/odol2mlod/pack/p3d/mlod"
	"github.com/mogaika/odol2mlod/pack/p3d/odol"
	"github.com/mogaika/odol2mlod/utils"
)

const (
	Extension = ".p3d"
	// OutSuffix replaces the extension of converted models
	OutSuffix = "_mlod.p3d"
)

// Model is a decoded file, exactly one of ODOL and MLOD is set.
type Model struct {
	Signature uint32
	ODOL      *odol.Shape
	MLOD      *mlod.Shape
}

func (m *Model) TextureNames() []string {
	if m.ODOL != nil {
		return m.ODOL.TextureNames()
	}
	return m.MLOD.TextureNames()
}

// PeekSignature returns the file signature without consuming it.
func PeekSignature(br *bufio.Reader) (uint32, error) {
	raw, err := br.Peek(4)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, errors.Wrap(common.ErrTruncatedInput, "signature")
		}
		return 0, errors.Wrap(err, "signature")
	}
	return binary.LittleEndian.Uint32(raw), nil
}

func Load(r io.Reader) (*Model, error) {
	return LoadWithLogger(r, nil)
}

// LoadWithLogger picks the decoder by the file signature.
func LoadWithLogger(r io.Reader, log *utils.Logger) (*Model, error) {
	br := bufio.NewReader(r)
	sig, err := PeekSignature(br)
	if err != nil {
		return nil, err
	}

	m := &Model{Signature: sig}
	switch sig {
	case common.SignatureODOL:
		m.ODOL, err = odol.DecodeWithLogger(br, log)
	case common.SignatureMLOD:
		m.MLOD, err = mlod.DecodeWithLogger(br, log)
	default:
		return nil, errors.Wrapf(common.ErrUnsupportedSignature, "incorrect file type %s", common.FormatSignature(sig))
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func LoadFile(path string) (*Model, error) {
	return LoadFileWithLogger(path, nil)
}

func LoadFileWithLogger(path string, log *utils.Logger) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.NewIOError(common.OpOpen, path, err)
	}
	defer f.Close()

	m, err := LoadWithLogger(f, log)
	if err != nil {
		return nil, errors.Wrapf(err, "load %q", path)
	}
	return m, nil
}

// OutPath replaces the extension of path with suffix, or appends suffix when there is none.
func OutPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix
}

// WriteFileAtomic writes into a temporary file next to path and renames it over path
// once write returns without error. On failure path is left untouched.
func WriteFileAtomic(path string, write func(w io.Writer) error) error {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return common.NewIOError(common.OpCreate, path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return common.NewIOError(common.OpWrite, path, err)
	}
	if err := tmp.Close(); err != nil {
		return common.NewIOError(common.OpWrite, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return common.NewIOError(common.OpRename, path, err)
	}
	return nil
}

// ConvertModel writes an odol model as mlod into out. Mlod models are copied as they are.
func ConvertModel(m *Model, in, out string, opts convert.Options) error {
	if m.MLOD != nil {
		return CopyFile(in, out)
	}
	return WriteFileAtomic(out, func(w io.Writer) error {
		return convert.Convert(w, m.ODOL, opts)
	})
}

func ConvertFile(in, out string, opts convert.Options) error {
	m, err := LoadFile(in)
	if err != nil {
		return err
	}
	if err := ConvertModel(m, in, out, opts); err != nil {
		return errors.Wrapf(err, "convert %q", in)
	}
	return nil
}

func CopyFile(in, out string) error {
	f, err := os.Open(in)
	if err != nil {
		return common.NewIOError(common.OpOpen, in, err)
	}
	defer f.Close()

	return WriteFileAtomic(out, func(w io.Writer) error {
		if _, err := io.Copy(w, f); err != nil {
			return errors.Wrapf(err, "copy %q", in)
		}
		return nil
	})
}
