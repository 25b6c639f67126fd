package web

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mogaika/odol2mlod/config"
	"github.com/mogaika/odol2mlod/status"
	"github.com/mogaika/odol2mlod/vfs"
)

// Server browses and converts the models of one directory.
type Server struct {
	Directory *vfs.DirectoryDriver
	Options   config.Options
	Status    *status.Hub
	// WebPath holds static files served under "/", nothing is served when empty
	WebPath string

	upgrader websocket.Upgrader
}

func NewServer(d *vfs.DirectoryDriver, opts config.Options) *Server {
	return &Server{
		Directory: d,
		Options:   opts,
		Status:    status.NewHub(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/json/models", s.HandlerAjaxModels)
	r.HandleFunc("/json/model/{file}", s.HandlerAjaxModel)
	r.HandleFunc("/dump/model/{file}", s.HandlerDumpModel)
	r.HandleFunc("/dump/model/{file}/mlod", s.HandlerDumpModelMlod)
	r.HandleFunc("/dump/model/{file}/gltf/{lod}", s.HandlerDumpModelGltf)
	r.HandleFunc("/action/convert/{file}", s.HandlerActionConvert).Methods("POST")
	r.HandleFunc("/ws/status", s.HandlerStatus)

	if s.WebPath != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(filepath.Join(s.WebPath, "data"))))
	}
	return r
}

// Handler wraps the router with panic recovery and request logging.
func (s *Server) Handler() http.Handler {
	h := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(s.Router())
	return handlers.LoggingHandler(os.Stdout, h)
}

func (s *Server) ListenAndServe(addr string) error {
	log.Printf("[web] Starting server %v, serving %v", addr, s.Directory.Path())
	return http.ListenAndServe(addr, s.Handler())
}
