package web

import (
	"bytes"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/odol2mlod/config"
	"github.com/mogaika/odol2mlod/pack/p3d"
	"github.com/mogaika/odol2mlod/pack/p3d/batch"
	"github.com/mogaika/odol2mlod/pack/p3d/convert"
	"github.com/mogaika/odol2mlod/pack/p3d/report"
	"github.com/mogaika/odol2mlod/utils/gltfutils"
	"github.com/mogaika/odol2mlod/vfs"
	"github.com/mogaika/odol2mlod/webutils"
)

func (s *Server) loadModel(file string) (*p3d.Model, error) {
	f, err := vfs.DirectoryGetFile(s.Directory, file)
	if err != nil {
		return nil, err
	}
	r, err := vfs.OpenFileAndGetReader(f)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := p3d.Load(r)
	if err != nil {
		return nil, errors.Wrapf(err, "load %q", file)
	}
	return m, nil
}

// convertOptions applies an optional ?merge= override to the server options.
func (s *Server) convertOptions(r *http.Request) (convert.Options, error) {
	opts := convert.OptionsFromConfig(&s.Options)
	if merge := r.URL.Query().Get("merge"); merge != "" {
		var mp config.MergePolicy
		if err := mp.UnmarshalText([]byte(merge)); err != nil {
			return opts, err
		}
		opts.Merge = mp
	}
	return opts, nil
}

func (s *Server) HandlerAjaxModels(w http.ResponseWriter, r *http.Request) {
	if files, err := vfs.ListFiles(s.Directory, p3d.Extension); err != nil {
		webutils.WriteError(w, err)
	} else {
		webutils.WriteJson(w, files)
	}
}

func (s *Server) HandlerAjaxModel(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	m, err := s.loadModel(file)
	if err != nil {
		log.Printf("[web] Error loading model: %v", err)
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, report.FromModel(file, m))
}

func (s *Server) HandlerDumpModel(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	f, err := vfs.DirectoryGetFile(s.Directory, file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	if reader, err := vfs.OpenFileAndGetReader(f); err == nil {
		defer f.Close()
		webutils.WriteFile(w, reader, file)
	} else {
		webutils.WriteError(w, errors.Wrapf(err, "Error getting file reader"))
	}
}

func (s *Server) HandlerDumpModelMlod(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	opts, err := s.convertOptions(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	m, err := s.loadModel(file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	if m.MLOD != nil {
		s.HandlerDumpModel(w, r)
		return
	}

	var buf bytes.Buffer
	if err := convert.Convert(&buf, m.ODOL, opts); err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "convert %q", file))
		return
	}
	webutils.WriteFile(w, &buf, filepath.Base(p3d.OutPath(file, p3d.OutSuffix)))
}

func (s *Server) HandlerDumpModelGltf(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	param := mux.Vars(r)["lod"]
	iLod, err := strconv.Atoi(param)
	if err != nil {
		webutils.WriteError(w, errors.Errorf("lod '%s' is not integer", param))
		return
	}
	m, err := s.loadModel(file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	if m.ODOL == nil {
		webutils.WriteError(w, errors.Errorf("File %s is not an odol model", file))
		return
	}

	doc, err := m.ODOL.ExportGLTF(iLod)
	if err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Error when exporting lod %d as gltf", iLod))
		return
	}
	var buf bytes.Buffer
	if err := gltfutils.ExportBinary(&buf, doc); err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Failed to encode gltf"))
		return
	}
	webutils.WriteFile(w, &buf, p3d.OutPath(file, "_"+param+".glb"))
}

type convertResult struct {
	Status int    `json:"status"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// HandlerActionConvert writes <name>_mlod.p3d next to the model.
func (s *Server) HandlerActionConvert(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	opts, err := s.convertOptions(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	f, err := vfs.DirectoryGetFile(s.Directory, file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	path := f.(vfs.Pather).Path()

	bopts := config.Options{Merge: opts.Merge, OnlyUserValue: opts.OnlyUserValue}
	b := batch.New(bopts)
	b.Status = s.Status

	var res convertResult
	res.Status, err = b.ProcessFile(path)
	if err != nil {
		res.Error = err.Error()
	} else {
		res.Output = filepath.Base(p3d.OutPath(path, p3d.OutSuffix))
		s.Status.Info("Converted %s to %s", file, res.Output)
	}
	webutils.WriteJson(w, &res)
}

func (s *Server) HandlerStatus(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] ws upgrade error: %v", err)
		return
	}
	s.Status.Attach(conn)
}
