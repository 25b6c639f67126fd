package main

import (
	"flag"
	"log"

	"github.com/mogaika/odol2mlod/config"
	"github.com/mogaika/odol2mlod/vfs"
	"github.com/mogaika/odol2mlod/web"
)

func main() {
	var addr, dir, webPath, configPath, encoding string
	flag.StringVar(&addr, "i", ":8000", "Address of server")
	flag.StringVar(&dir, "dir", "", "Path to directory with p3d models")
	flag.StringVar(&webPath, "web", "", "Path to folder with static files (data/ inside)")
	flag.StringVar(&configPath, "config", "", "Path to yaml options file")
	flag.StringVar(&encoding, "encoding", "", "Code page of names inside models")
	flag.Parse()

	if dir == "" {
		flag.PrintDefaults()
		return
	}

	var opts config.Options
	if configPath != "" {
		o, err := config.LoadFile(configPath)
		if err != nil {
			log.Fatal(err)
		}
		opts = *o
	}
	if encoding != "" {
		if err := config.SetEncoding(encoding); err != nil {
			log.Fatal(err)
		}
	}

	s := web.NewServer(vfs.NewDirectoryDriver(dir), opts)
	s.WebPath = webPath
	if err := s.ListenAndServe(addr); err != nil {
		log.Fatal(err)
	}
}
