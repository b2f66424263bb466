// Package fio writes fio job files that replay the disk sweep, so the
// harness numbers can be cross-checked with an independent tool.
package fio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/runningwild/microbench/pkg/config"
	"github.com/runningwild/microbench/pkg/engine"
)

// Job describes one pattern over every size of a sweep.
type Job struct {
	Pattern   engine.Pattern
	Engine    string // "sync" or "uring"
	BlockSize int
	Sizes     []int  // In blocks
	Dir       string // Directory fio creates its data file in; empty means fio's default
}

// GenerateJob creates the fio job file content for j. Every size gets a
// write section followed by a read section; stonewall keeps them ordered.
func GenerateJob(j Job) string {
	var sb strings.Builder

	sb.WriteString("[global]\n")
	switch j.Engine {
	case config.EngineUring:
		sb.WriteString("ioengine=io_uring\n")
	default:
		sb.WriteString("ioengine=sync\n")
	}
	if j.Dir != "" {
		sb.WriteString(fmt.Sprintf("directory=%s\n", j.Dir))
	}
	sb.WriteString(fmt.Sprintf("bs=%d\n", j.BlockSize))
	sb.WriteString("direct=0\n")
	sb.WriteString("iodepth=1\n")
	sb.WriteString("numjobs=1\n")
	if j.Pattern == engine.Random {
		// Visit every block exactly once, in one seeded order for both phases.
		sb.WriteString("randrepeat=1\n")
	}

	write, read := "write", "read"
	if j.Pattern == engine.Random {
		write, read = "randwrite", "randread"
	}

	for _, n := range j.Sizes {
		file := fmt.Sprintf("microbench_%s_%d.fio.bin", j.Pattern, n)
		size := n * j.BlockSize

		sb.WriteString(fmt.Sprintf("\n[%s@%d]\n", j.Pattern.WriteOp(), n))
		sb.WriteString("stonewall\n")
		sb.WriteString(fmt.Sprintf("filename=%s\n", file))
		sb.WriteString(fmt.Sprintf("size=%d\n", size))
		sb.WriteString(fmt.Sprintf("rw=%s\n", write))
		if j.Pattern.NeedsAppend() {
			sb.WriteString("file_append=1\n")
		}

		sb.WriteString(fmt.Sprintf("\n[%s@%d]\n", j.Pattern.ReadOp(), n))
		sb.WriteString("stonewall\n")
		sb.WriteString(fmt.Sprintf("filename=%s\n", file))
		sb.WriteString(fmt.Sprintf("size=%d\n", size))
		sb.WriteString(fmt.Sprintf("rw=%s\n", read))
	}
	return sb.String()
}

// WriteJobs writes one <pattern>.fio file per configured pattern into dir
// and returns their paths.
func WriteJobs(dir string, cfg config.Disk, sizes []int) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", dir)
	}
	var paths []string
	for _, name := range cfg.Patterns {
		job := Job{
			Pattern:   engine.Pattern(name),
			Engine:    cfg.Engine,
			BlockSize: cfg.BlockSize,
			Sizes:     sizes,
			Dir:       cfg.TempDir,
		}
		path := filepath.Join(dir, name+".fio")
		if err := os.WriteFile(path, []byte(GenerateJob(job)), 0644); err != nil {
			return nil, errors.Wrapf(err, "failed to write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
