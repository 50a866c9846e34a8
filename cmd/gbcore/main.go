// Command gbcore runs a ROM headlessly for a fixed number of frames,
// exercising the Session API: it loads battery RAM from (and saves it
// back to) disk, and can dump a screenshot and a frame-time plot at the
// end of the run. Presentation (a real display loop) is a host concern
// out of scope for this repository (spec 1).
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brackenmoor/gbcore"
	"github.com/brackenmoor/gbcore/pkg/diag"
	"github.com/brackenmoor/gbcore/pkg/log"
	"github.com/brackenmoor/gbcore/pkg/screenshot"
)

// fileStore persists battery RAM as one file per key under a directory.
type fileStore struct {
	dir string
}

func (f fileStore) Load(key string) ([]byte, bool) {
	data, err := os.ReadFile(f.dir + "/" + key + ".sav")
	if err != nil {
		return nil, false
	}
	return data, true
}

func (f fileStore) Save(key string, data []byte) {
	_ = os.WriteFile(f.dir+"/"+key+".sav", data, 0o644)
}

func main() {
	romPath := flag.String("rom", "", "path to the ROM image to run")
	saveDir := flag.String("save-dir", ".", "directory for battery-RAM .sav files")
	frames := flag.Int("frames", 600, "number of frames to run before exiting")
	screenshotPath := flag.String("screenshot", "", "if set, write the final frame as a PNG here")
	plotPath := flag.String("frametime-plot", "", "if set, write a frame-time plot PNG here")
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "gbcore: -rom is required")
		os.Exit(2)
	}

	rom, err := os.ReadFile(*romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gbcore: %v\n", err)
		os.Exit(1)
	}

	logger := log.New()
	session, err := gbcore.Load(rom, gbcore.WithSaveStore(fileStore{dir: *saveDir}), gbcore.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "gbcore: %v\n", err)
		os.Exit(1)
	}

	tracker := diag.NewFrameTimeTracker(*frames)
	for i := 0; i < *frames; i++ {
		start := time.Now()
		session.StepFrame()
		tracker.Record(time.Since(start))
	}

	if *screenshotPath != "" {
		img, err := screenshot.FromRGBA(session.Framebuffer(), 160, 144)
		if err != nil {
			logger.Errorf("screenshot: %v", err)
		} else if png, err := screenshot.EncodePNG(img); err != nil {
			logger.Errorf("screenshot: %v", err)
		} else if err := os.WriteFile(*screenshotPath, png, 0o644); err != nil {
			logger.Errorf("screenshot: %v", err)
		}
	}

	if *plotPath != "" {
		png, err := tracker.PlotPNG(640, 480)
		if err != nil {
			logger.Errorf("frametime-plot: %v", err)
		} else if err := os.WriteFile(*plotPath, png, 0o644); err != nil {
			logger.Errorf("frametime-plot: %v", err)
		}
	}

	logger.Infof("ran %d frames", *frames)
}
