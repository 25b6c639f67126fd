package batch

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/mogaika/odol2mlod/config"
	"github.com/mogaika/odol2mlod/pack/p3d"
	"github.com/mogaika/odol2mlod/pack/p3d/common"
	"github.com/mogaika/odol2mlod/pack/p3d/convert"
	"github.com/mogaika/odol2mlod/pack/p3d/report"
	"github.com/mogaika/odol2mlod/status"
	"github.com/mogaika/odol2mlod/utils"
	"github.com/mogaika/odol2mlod/vfs"
)

const (
	SingleLogName         = "odol2mlod.txt"
	SingleTextureListName = "odol2mlod_texture_list.txt"
	ReportExtension       = ".txt"
	TraceExtension        = ".log"
)

const separator = "\n\n====================================\n\n"

// Batch keeps the state shared by the files of one run.
type Batch struct {
	Options config.Options
	// OutputDir receives the single log and the single texture list, working directory when empty
	OutputDir string
	// Status is optional
	Status *status.Hub
	// Trace writes a parse trace of every model into <name>.log
	Trace bool

	FilesOK    int
	FilesTotal int

	skip      map[string]struct{}
	textures  report.TextureSet
	logOpened bool
}

func New(opts config.Options) *Batch {
	return &Batch{
		Options: opts,
		skip:    make(map[string]struct{}),
	}
}

func (b *Batch) outputPath(name string) string {
	if b.OutputDir == "" {
		return name
	}
	return filepath.Join(b.OutputDir, name)
}

// Skip excludes path from directory scans of this batch.
func (b *Batch) Skip(path string) {
	b.skip[filepath.Clean(path)] = struct{}{}
}

func (b *Batch) skipped(path string) bool {
	_, ok := b.skip[filepath.Clean(path)]
	return ok
}

// Textures returns the textures collected for the single texture list.
func (b *Batch) Textures() []string {
	return b.textures.Names()
}

// ProcessFile converts or reports one model and returns its status code.
func (b *Batch) ProcessFile(path string) (int, error) {
	b.FilesTotal++
	log.Printf("[batch] %s", path)
	b.Status.Progress(float32(b.FilesOK)/float32(b.FilesTotal), "Processing %s", path)

	err := b.processFile(path)
	if err != nil {
		log.Printf("[batch] %s: %v", path, err)
		b.Status.Error("%s: %v", path, err)
		return common.StatusCode(err), err
	}
	b.FilesOK++
	return common.StatusOK, nil
}

func (b *Batch) processFile(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return common.NewIOError(common.OpOpen, path, err)
	}

	m, err := b.load(path)
	if err != nil {
		return err
	}

	if !b.Options.Report() {
		out := p3d.OutPath(path, p3d.OutSuffix)
		if err := p3d.ConvertModel(m, path, out, convert.OptionsFromConfig(&b.Options)); err != nil {
			return errors.Wrapf(err, "convert %q", path)
		}
		b.Skip(out)
		return nil
	}

	if b.Options.TextureList {
		if b.Options.SingleTextureList {
			b.textures.Add(m.TextureNames()...)
			return nil
		}
		lists := report.Textures(m, b.Options.TextureListPerLod)
		return b.output(path, func(w io.Writer) error {
			return report.WriteTextures(w, path, lists)
		})
	}

	r := report.FromModel(path, m)
	r.Info = FileInfoOf(fi)
	return b.output(path, func(w io.Writer) error {
		return r.Write(w, b.Options.FullInfo)
	})
}

func (b *Batch) load(path string) (*p3d.Model, error) {
	if !b.Trace {
		return p3d.LoadFile(path)
	}

	name := p3d.OutPath(path, TraceExtension)
	f, err := os.Create(name)
	if err != nil {
		return nil, common.NewIOError(common.OpCreate, name, err)
	}
	defer f.Close()

	m, err := p3d.LoadFileWithLogger(path, utils.NewLogger(f))
	if err != nil {
		fmt.Fprintf(f, "error: %v\n", err)
	}
	return m, err
}

// output writes a report next to the model, or appends it to the single log.
func (b *Batch) output(path string, write func(w io.Writer) error) error {
	if !b.Options.SingleLog {
		out := p3d.OutPath(path, ReportExtension)
		return p3d.WriteFileAtomic(out, write)
	}

	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}

	name := b.outputPath(SingleLogName)
	flags := os.O_WRONLY | os.O_CREATE | os.O_APPEND
	if !b.logOpened {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(name, flags, 0666)
	if err != nil {
		return common.NewIOError(common.OpCreate, name, err)
	}
	if b.logOpened {
		if _, err := io.WriteString(f, separator); err != nil {
			f.Close()
			return common.NewIOError(common.OpWrite, name, err)
		}
	}
	b.logOpened = true

	if _, err := buf.WriteTo(f); err != nil {
		f.Close()
		return common.NewIOError(common.OpWrite, name, err)
	}
	if err := f.Close(); err != nil {
		return common.NewIOError(common.OpWrite, name, err)
	}
	return nil
}

// ProcessPath handles a file or a directory of models.
// Per-file failures are counted and reported, only a path that cannot be read is returned as error.
func (b *Batch) ProcessPath(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return common.NewIOError(common.OpOpen, path, err)
	}

	if !fi.IsDir() {
		if !vfs.HasExtension(path, p3d.Extension) {
			log.Printf("[batch] %s: not a %s file, skipped", path, p3d.Extension)
			return nil
		}
		b.ProcessFile(path)
		return nil
	}

	err = vfs.Walk(vfs.NewDirectoryDriver(path), b.Options.Recursive, func(f vfs.File) error {
		if !vfs.HasExtension(f.Name(), p3d.Extension) {
			return nil
		}
		full := f.Name()
		if p, ok := f.(vfs.Pather); ok {
			full = p.Path()
		}
		if b.skipped(full) {
			return nil
		}
		b.ProcessFile(full)
		return nil
	})
	if err != nil {
		return common.NewIOError(common.OpOpen, path, err)
	}
	return nil
}

// Finish writes the single texture list when it was requested.
func (b *Batch) Finish() error {
	if !b.Options.Report() || !b.Options.TextureList || !b.Options.SingleTextureList {
		return nil
	}
	name := b.outputPath(SingleTextureListName)
	return p3d.WriteFileAtomic(name, func(w io.Writer) error {
		for _, t := range b.textures.Names() {
			if _, err := io.WriteString(w, t+"\n"); err != nil {
				return err
			}
		}
		return nil
	})
}
