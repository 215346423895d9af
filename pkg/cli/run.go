package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/hypium-runner/pkg/config"
	"github.com/devicelab-dev/hypium-runner/pkg/device"
	"github.com/devicelab-dev/hypium-runner/pkg/logger"
	"github.com/devicelab-dev/hypium-runner/pkg/report"
	"github.com/devicelab-dev/hypium-runner/pkg/workflow"
)

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "Run workflow files on a device",
	ArgsUsage: "<flow-file-or-folder>...",
	Description: `Run one or more workflow YAML files on a connected device.

A result.json artifact is written per flow under the output directory.

Examples:
  hypium-runner run flow.yaml
  hypium-runner run flows/
  hypium-runner run login.yaml checkout.yaml -e USER=test -e PASS=secret
  hypium-runner run flows/ --output ./results`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to workspace config.yaml",
		},
		&cli.StringSliceFlag{
			Name:    "env",
			Aliases: []string{"e"},
			Usage:   "Variables for ${...} interpolation (KEY=VALUE)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output directory for result artifacts",
		},
		&cli.IntFlag{
			Name:  "screen-width",
			Usage: "Screen width in px for scroll gestures",
		},
		&cli.IntFlag{
			Name:  "screen-height",
			Usage: "Screen height in px for scroll gestures",
		},
		&cli.IntFlag{
			Name:  "wait-timeout",
			Usage: "Default extendedWaitUntil budget in ms",
		},
	},
	Action: runRun,
}

func runRun(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("no flow files specified")
	}

	cfg, err := loadRunConfig(c)
	if err != nil {
		return err
	}

	flows, err := discoverFlows(c.Args().Slice())
	if err != nil {
		return err
	}
	if len(flows) == 0 {
		return fmt.Errorf("no flow files found")
	}

	dev, err := device.New(c.String("target"), c.String("hdc"))
	if err != nil {
		return err
	}
	logger.Info("connected to target %s", dev.Target())

	outputDir := c.String("output")
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	if outputDir == "" {
		outputDir = config.GetOutputDir()
	}

	engine := workflow.New(dev, engineOptions(c, cfg))

	failed := 0
	start := time.Now()
	for _, path := range flows {
		flow, err := workflow.ParseFile(path)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		logger.Info("running flow %s (%d steps)", path, len(flow.Steps))
		result := engine.RunFlow(flow)

		fmt.Println(report.RenderSteps(result, !c.Bool("no-ansi")))

		dir := filepath.Join(outputDir, flowArtifactName(path))
		if artifact, err := report.Write(dir, dev.Target(), start, result); err != nil {
			logger.Warn("write artifact: %v", err)
		} else {
			logger.Info("wrote %s", artifact)
		}

		if !result.Success {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d flows failed", failed, len(flows))
	}
	fmt.Printf("All %d flows passed\n", len(flows))
	return nil
}

// loadRunConfig merges config file, .env and -e flags. Later sources win.
func loadRunConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromDir(".")
	}
	if err != nil {
		return nil, err
	}

	for _, kv := range c.StringSlice("env") {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid env flag %q, expected KEY=VALUE", kv)
		}
		if cfg.Env == nil {
			cfg.Env = map[string]string{}
		}
		cfg.Env[key] = value
	}

	return cfg, nil
}

func engineOptions(c *cli.Context, cfg *config.Config) workflow.Options {
	opts := workflow.Options{
		ScreenWidth:   cfg.ScreenWidth,
		ScreenHeight:  cfg.ScreenHeight,
		LaunchTimeout: time.Duration(cfg.LaunchTimeoutMs) * time.Millisecond,
		WaitTimeout:   time.Duration(cfg.WaitTimeoutMs) * time.Millisecond,
		PollInterval:  time.Duration(cfg.PollIntervalMs) * time.Millisecond,
		Env:           cfg.Env,
	}
	if v := c.Int("screen-width"); v > 0 {
		opts.ScreenWidth = v
	}
	if v := c.Int("screen-height"); v > 0 {
		opts.ScreenHeight = v
	}
	if v := c.Int("wait-timeout"); v > 0 {
		opts.WaitTimeout = time.Duration(v) * time.Millisecond
	}
	return opts
}

// discoverFlows expands file and directory arguments into a sorted list
// of flow files. Directories are searched recursively for .yaml/.yml.
func discoverFlows(args []string) ([]string, error) {
	var flows []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			flows = append(flows, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ext := filepath.Ext(path)
			base := filepath.Base(path)
			if (ext == ".yaml" || ext == ".yml") && base != "config.yaml" && base != "config.yml" {
				flows = append(flows, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(flows)
	return flows, nil
}

// flowArtifactName derives a per-flow artifact directory name.
func flowArtifactName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
