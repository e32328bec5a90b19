package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/systemshift/corpus-seal/internal/seal"
	"github.com/systemshift/corpus-seal/internal/store"
)

// Exit codes. A mismatch is a verdict, kept apart from operational failures.
const (
	exitOK       = 0
	exitMismatch = 1
	exitError    = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "corpus-seal: ", 0)

	var (
		out        string
		verify     bool
		artifact   string
		epoch      int64
		archiveDir string
	)

	fs := flag.NewFlagSet("corpus-seal", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&out, "out", "", "Seal document to write, or to read with --verify (required)")
	fs.BoolVar(&verify, "verify", false, "Verify an existing seal instead of writing one")
	fs.StringVar(&artifact, "artifact", "vm-umbrella", "Artifact name recorded in the seal")
	fs.Int64Var(&epoch, "epoch", 1, "Format epoch recorded in the seal")
	fs.StringVar(&archiveDir, "archive", "", "Also keep a CID-addressed copy of the seal in this directory")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: corpus-seal [--verify] --out <file> [flags] [--] <path>...")
		fmt.Fprintln(stderr, "flags must precede paths; use -- before a path starting with -")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}

	paths := fs.Args()
	// flag stops at the first path; anything flag-like after it was misplaced
	if i := len(args) - len(paths); i == 0 || args[i-1] != "--" {
		for _, p := range paths {
			if len(p) > 1 && p[0] == '-' {
				logger.Printf("flag %s given after paths", p)
				fs.Usage()
				return exitError
			}
		}
	}

	if out == "" {
		logger.Print("--out is required")
		fs.Usage()
		return exitError
	}
	if len(paths) == 0 {
		logger.Print("at least one path is required")
		fs.Usage()
		return exitError
	}

	if verify {
		return runVerify(logger, stdout, out, paths)
	}
	return runSeal(logger, stdout, out, paths, artifact, epoch, archiveDir)
}

func runSeal(logger *log.Logger, stdout io.Writer, out string, paths []string, artifact string, epoch int64, archiveDir string) int {
	c, entries, root, err := seal.SealPaths(paths)
	if err != nil {
		logger.Printf("seal failed: %v", err)
		return exitError
	}
	warnSkipped(logger, c.Skipped)

	doc := seal.NewDocument(artifact, epoch, entries, root, time.Now())

	// archive first so a failed run never leaves a fresh seal at out
	var archived string
	if archiveDir != "" {
		a, err := store.NewArchive(archiveDir)
		if err != nil {
			logger.Printf("open archive: %v", err)
			return exitError
		}
		cid, err := seal.ArchiveDocument(a, doc)
		if err != nil {
			logger.Printf("archive seal: %v", err)
			return exitError
		}
		archived = cid.String()
	}

	if err := seal.WriteDocument(out, doc); err != nil {
		logger.Printf("write seal: %v", err)
		return exitError
	}
	fmt.Fprintf(stdout, "Wrote %s root: %s\n", out, root)
	if archived != "" {
		fmt.Fprintf(stdout, "Archived %s\n", archived)
	}
	return exitOK
}

func runVerify(logger *log.Logger, stdout io.Writer, out string, paths []string) int {
	v, err := seal.Verify(out, paths)
	if err != nil {
		switch {
		case errors.Is(err, seal.ErrParse):
			logger.Printf("malformed seal: %v", err)
		default:
			logger.Printf("verify failed: %v", err)
		}
		return exitError
	}
	warnSkipped(logger, v.Skipped)

	if !v.Match() {
		fmt.Fprintln(stdout, "VERIFY: MISMATCH")
		return exitMismatch
	}
	fmt.Fprintln(stdout, "VERIFY: OK")
	return exitOK
}

func warnSkipped(logger *log.Logger, skipped []string) {
	for _, p := range skipped {
		logger.Printf("warning: %s does not exist, skipped", p)
	}
}
