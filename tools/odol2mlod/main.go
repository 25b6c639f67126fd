package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mogaika/odol2mlod/config"
	"github.com/mogaika/odol2mlod/pack/p3d/batch"
	"github.com/mogaika/odol2mlod/pack/p3d/common"
)

var usage = `Converts OFP/CWA P3D model from the ODOL format to the MLOD format

Usage: odol2mlod [-config file.yaml] [-encoding name] [-trace] [options] <file or dir> ...

Options:
	-m merge vertices (instead of splitting them)
	-M merge vertices only for the functional lods and not the graphical ones
	-u use only user value for vertex lighting (instead of lighting selection)
	-r scan directories recursively
	-i create info file (instead of converting)
	-I create full info file (instead of converting)
	-s create a single info file (instead of one for each model)
	-t create info file only with a texture list
	-T create info file only with a texture list from each LOD
	-l create single info only with a texture list without p3d names
`

const (
	exitOK       = 0
	exitUsage    = 1
	exitNoInput  = 2
	exitAllError = 3
)

func main() {
	var configPath, encoding string
	var trace bool
	flag.StringVar(&configPath, "config", "", "Path to yaml options file")
	flag.StringVar(&encoding, "encoding", "", "Code page of names inside models")
	flag.BoolVar(&trace, "trace", false, "Write a parse trace of every model into <name>.log")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		fmt.Fprintf(flag.CommandLine.Output(), "\nEncodings: %v\n", config.ListEncodings())
	}
	flag.Parse()

	log.SetFlags(0)
	os.Exit(run(configPath, encoding, trace, flag.Args()))
}

func run(configPath, encoding string, trace bool, args []string) int {
	var opts config.Options
	if configPath != "" {
		o, err := config.LoadFile(configPath)
		if err != nil {
			log.Printf("%v", err)
			return exitUsage
		}
		opts = *o
	}
	if encoding != "" {
		if err := config.SetEncoding(encoding); err != nil {
			log.Printf("%v", err)
			return exitUsage
		}
	}

	// option groups apply to the whole run, wherever they appear
	var paths []string
	for _, arg := range args {
		if config.IsFlagGroup(arg) {
			if err := opts.ParseFlags(arg); err != nil {
				log.Printf("%v", err)
				return exitUsage
			}
		} else {
			paths = append(paths, arg)
		}
	}
	if len(paths) == 0 {
		flag.Usage()
		return exitUsage
	}

	b := batch.New(opts)
	b.Trace = trace
	code := exitOK
	for _, path := range paths {
		if err := b.ProcessPath(path); err != nil {
			log.Printf("%v", err)
			code = exitNoInput
		}
	}

	if err := b.Finish(); err != nil {
		log.Printf("%v", err)
		code = common.StatusCode(err)
	}

	if b.FilesTotal > 1 {
		log.Printf("Files ok: %d/%d", b.FilesOK, b.FilesTotal)
	}
	if code == exitOK && b.FilesTotal > 0 && b.FilesOK == 0 {
		code = exitAllError
	}
	return code
}
