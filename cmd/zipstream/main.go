// Command zipstream archives files and directories into a streaming
// Zip64 archive written to a file or to standard output.
//
// Usage:
//
//	zipstream [-o out.zip] [-m store|deflate] [-comment text] path...
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/meigma/zipstream"
)

type config struct {
	output  string
	method  string
	comment string
	verbose bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.output, "o", "", "output file (default standard output)")
	flag.StringVar(&cfg.method, "m", "deflate", "compression method: store or deflate")
	flag.StringVar(&cfg.comment, "comment", "", "archive comment")
	flag.BoolVar(&cfg.verbose, "v", false, "log progress to stderr")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: zipstream [-o out.zip] [-m store|deflate] [-comment text] path...")
		os.Exit(2)
	}

	if err := run(cfg, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "zipstream:", err)
		os.Exit(1)
	}
}

func run(cfg config, args []string) error {
	var method zipstream.Method
	switch cfg.method {
	case "store":
		method = zipstream.MethodStore
	case "deflate":
		method = zipstream.MethodDeflate
	default:
		return fmt.Errorf("unknown method %q", cfg.method)
	}

	opts := []zipstream.Option{
		zipstream.WithMethod(method),
		zipstream.WithComment(cfg.comment),
	}
	name := "archive.zip"
	if cfg.output != "" {
		name = filepath.Base(cfg.output)
		opts = append(opts, zipstream.WithOutput(zipstream.NewFileSink(cfg.output)))
	}
	if cfg.verbose {
		opts = append(opts, zipstream.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))
	}

	_, err := zipstream.Send(name, func(a *zipstream.Archive) error {
		for _, arg := range args {
			if err := addPath(a, arg); err != nil {
				return err
			}
		}
		return nil
	}, opts...)
	return err
}

// addPath adds a file, or a directory tree rooted at arg, to the
// archive. Directory trees keep the argument's base name as their
// top-level member prefix.
func addPath(a *zipstream.Archive, arg string) error {
	info, err := os.Stat(arg)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return a.AddFile(filepath.Base(arg), arg)
	}

	base := filepath.Base(filepath.Clean(arg))
	return filepath.WalkDir(arg, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(arg, p)
		if err != nil {
			return err
		}
		name := base
		if rel != "." {
			name = path.Join(base, filepath.ToSlash(rel))
		}
		if d.IsDir() {
			return a.AddDir(name)
		}
		return a.AddFile(name, p)
	})
}
