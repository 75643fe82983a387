package main

import (
	"flag"
	"log"
	"time"

	"github.com/glimt/levelforge/config"
	"github.com/glimt/levelforge/web"
)

func main() {
	var addr, cfgPath, projectsDir, webDir, apiBase string
	flag.StringVar(&addr, "i", "", "Address of server (overrides config)")
	flag.StringVar(&cfgPath, "config", "levelforge.yaml", "Path to config file")
	flag.StringVar(&projectsDir, "projects", "", "Path to the project store (overrides config)")
	flag.StringVar(&webDir, "web", "", "Path to the editor UI files (overrides config)")
	flag.StringVar(&apiBase, "api", "", "Remote hosting backend base URL; empty for self-hosted")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	if addr != "" {
		cfg.Listen = addr
	}
	if projectsDir != "" {
		cfg.ProjectsDir = projectsDir
	}
	if webDir != "" {
		cfg.WebDir = webDir
	}
	if apiBase != "" {
		cfg.APIBase = apiBase
	}

	if err := web.StartServer(cfg.Listen, web.Config{
		ProjectsDir:   cfg.ProjectsDir,
		WebDir:        cfg.WebDir,
		APIBase:       cfg.APIBase,
		Persistence:   cfg.Persistence,
		FrameInterval: time.Duration(cfg.FrameInterval),
	}); err != nil {
		log.Fatal(err)
	}
}
