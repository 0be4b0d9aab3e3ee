//go:build !tinygo

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"pocket/app"
	"pocket/hal"
	"pocket/internal/buildinfo"
	"pocket/internal/config"
	"pocket/internal/logging"

	flag "github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	defPath, err := config.Path()
	if err != nil {
		defPath = ""
	}

	var (
		headless  hal.HeadlessConfig
		confPath  string
		logLevel  string
		flashPath string
		offline   bool
		scale     int
		otaAddr   string
		launch    string
		script    string
		version   bool
	)
	flag.StringVarP(&confPath, "config", "c", defPath, "Config file (TOML).")
	flag.BoolVar(&headless.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&headless.Hz, "hz", 0, "Tick rate (default from config).")
	flag.Uint64Var(&headless.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&script, "script", "", `Headless button script, e.g. "10:+A,20:-A".`)
	flag.StringVar(&flashPath, "flash", "", "Flash image path (default from config or "+hal.FlashPathEnv+").")
	flag.StringVarP(&logLevel, "log-level", "l", "", "Log level: debug, info, warn or error.")
	flag.BoolVar(&offline, "offline", false, "Run without network access.")
	flag.IntVar(&scale, "scale", 0, "Window scale factor.")
	flag.StringVar(&otaAddr, "ota-addr", "", "Listen address of the update app.")
	flag.StringVar(&launch, "launch", "", "Open the named app after boot.")
	flag.BoolVarP(&version, "version", "v", false, "Print the version and exit.")
	flag.Parse()

	if version {
		fmt.Println("pocketos", buildinfo.Long())
		return nil
	}

	conf := config.Default()
	if confPath != "" {
		if conf, err = config.Load(confPath); err != nil {
			return err
		}
	}
	set := func(name string) bool { return flag.CommandLine.Changed(name) }
	if set("log-level") {
		conf.Log.Level = logLevel
	}
	if set("flash") {
		conf.Flash.Path = flashPath
	}
	if set("offline") {
		conf.Network.Offline = offline
	}
	if set("scale") {
		conf.Display.Scale = scale
	}
	if set("hz") {
		conf.Display.Hz = headless.Hz
	}
	if set("ota-addr") {
		conf.Network.OTAAddr = otaAddr
	}

	lvl, err := logging.ParseLevel(conf.Log.Level)
	if err != nil {
		return err
	}
	logging.Level.Set(lvl)
	log := logging.New(os.Stderr)
	slog.SetDefault(log)

	if headless.Script, err = hal.ParseScript(script); err != nil {
		return err
	}

	host := hal.HostOptions{FlashPath: conf.Flash.Path, Offline: conf.Network.Offline}
	newApp := func(h hal.HAL) func() error {
		return app.New(h, app.Config{OTAAddr: conf.Network.OTAAddr, Launch: launch, Log: log})
	}
	log.Info("starting", "version", buildinfo.Short(), "headless", headless.Enabled, "config", confPath)

	if headless.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		headless.Hz = conf.Display.Hz
		headless.Host = host
		return hal.RunHeadless(ctx, newApp, headless)
	}
	return hal.RunWindow(newApp, hal.WindowConfig{Host: host, Scale: conf.Display.Scale, TPS: conf.Display.Hz})
}
