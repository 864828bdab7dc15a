package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"tso2mqo/internal/convert"
	"tso2mqo/internal/log"
)

var logger = log.New("batch")

// Config holds all shared settings for a batch run.
type Config struct {
	// OutputDir receives every target; empty writes each target next to
	// its source.
	OutputDir string
	Options   convert.Options
	Workers   int

	// Progress is the interval between progress log lines; zero disables
	// them.
	Progress time.Duration
}

// Result holds the outcome of converting one input.
type Result struct {
	Source   string
	Target   string
	Sidecar  string
	Objects  int
	Vertices int
	Faces    int
	Success  bool
	Error    string
}

// Target returns the target path for source under outputDir.
func Target(outputDir, source string) string {
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(source)
	}
	base := filepath.Base(source)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".mqo")
}

// Run converts all inputs using a worker pool. Each conversion is
// independent; results are in input order.
func Run(cfg Config, inputs []string) []Result {
	total := len(inputs)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	// Two inputs mapping to one target would race on the same files.
	targets := make([]string, total)
	owner := make(map[string]int, total)
	for i, in := range inputs {
		targets[i] = Target(cfg.OutputDir, in)
		if prev, dup := owner[targets[i]]; dup {
			results[i] = Result{Source: in, Target: targets[i], Error: fmt.Sprintf("target also produced by %s", inputs[prev])}
			continue
		}
		owner[targets[i]] = i
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Progress)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						rate := float64(p) / elapsed
						logger.Infof("[%d/%d] %.1f files/sec", p, total, rate)
					}
				}
			}
		}()
	}

	// Worker pool
	inputChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range inputChan {
				results[idx] = processInput(cfg, inputs[idx], targets[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range inputs {
		if results[i].Error != "" {
			processed.Add(1)
			continue
		}
		inputChan <- i
	}
	close(inputChan)

	wg.Wait()
	close(done)

	logger.Infof("converted %d files in %s", total, time.Since(start).Round(time.Millisecond))
	return results
}

func processInput(cfg Config, source, target string) Result {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return Result{
			Source: source,
			Target: target,
			Error:  err.Error(),
		}
	}

	res, err := convert.Convert(source, target, cfg.Options)
	if err != nil {
		logger.Errorf("%s: %v", source, err)
		return Result{
			Source: source,
			Target: target,
			Error:  err.Error(),
		}
	}

	return Result{
		Source:   source,
		Target:   target,
		Sidecar:  res.Sidecar,
		Objects:  res.Objects,
		Vertices: res.Vertices,
		Faces:    res.Faces,
		Success:  true,
	}
}
