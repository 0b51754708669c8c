// Command pandaview opens a window onto a scene described by an HCL scene
// file. With -watch the scene is rebuilt whenever the file changes.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/plus3/pandawalk/framework"
	"github.com/plus3/pandawalk/scenefile"
)

func main() {
	scenePath := flag.String("scene", "", "The HCL scene file to show.")
	configPath := flag.String("config", "", "A YAML or TOML framework config. Defaults to $"+framework.ConfigEnv+".")
	watch := flag.Bool("watch", false, "Rebuild the scene when the scene file changes.")
	frames := flag.Int("frames", 0, "Run this many frames without a window, then exit.")
	flag.Parse()

	if *scenePath == "" {
		fmt.Fprintln(os.Stderr, "pandaview: -scene is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err == nil {
		err = cfg.SetupLogging(os.Stderr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(cfg, *scenePath, *watch, *frames); err != nil {
		slog.Error("pandaview failed", "err", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (framework.Config, error) {
	if path == "" {
		return framework.LoadConfigFromEnv()
	}
	return framework.LoadConfig(path)
}

func run(cfg framework.Config, scenePath string, watch bool, frames int) error {
	manifest, err := scenefile.Load(scenePath)
	if err != nil {
		return err
	}

	fw, err := framework.Open(cfg)
	if err != nil {
		return err
	}
	defer fw.Close()

	scene, err := scenefile.Build(fw, manifest)
	if err != nil {
		return err
	}
	slog.Info("scene loaded", "file", scenePath, "nodes", fw.Graph().Len())

	if watch {
		w, err := newWatcher(scenePath)
		if err != nil {
			return err
		}
		defer w.Close()
		fw.Tasks().Add("scene-reload", w.reloadTask(fw, scene))
	}

	if frames > 0 {
		fw.RunFrames(frames)
		cam := scene.Window.Camera()
		slog.Info("frames done", "frames", frames, "camera_pos", cam.Pos(), "camera_hpr", cam.Hpr())
		return nil
	}

	if err := fw.MainLoop(); err != nil {
		return errors.Wrap(err, "pandaview")
	}
	return nil
}
