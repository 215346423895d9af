package cli

import (
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/hypium-runner/pkg/device"
	"github.com/devicelab-dev/hypium-runner/pkg/input"
	"github.com/devicelab-dev/hypium-runner/pkg/report"
	"github.com/devicelab-dev/hypium-runner/pkg/resolver"
	"github.com/devicelab-dev/hypium-runner/pkg/rstree"
)

var dumpCommand = &cli.Command{
	Name:  "dump",
	Usage: "Print the render tree of the connected device",
	Description: `Dump the RenderService tree and print it as JSON, grouped by
process id.

Examples:
  hypium-runner dump
  hypium-runner dump --depth 2`,
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "depth",
			Usage: "Truncate subtrees below this depth (0 = full tree)",
		},
	},
	Action: runDump,
}

var findCommand = &cli.Command{
	Name:  "find",
	Usage: "Resolve elements on the current screen",
	Description: `Dump the render tree and resolve elements against it. At least
one of --text, --type or --property must be given; combining them scores
elements across all conditions.

Examples:
  hypium-runner find --text Login
  hypium-runner find --text Login --exact
  hypium-runner find --type Button
  hypium-runner find --property backgroundColor=#FF0000
  hypium-runner find --text Submit --type Button --json`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "text",
			Usage: "Match by node name",
		},
		&cli.BoolFlag{
			Name:  "exact",
			Usage: "Require exact name equality (with --text)",
		},
		&cli.StringFlag{
			Name:  "type",
			Usage: "Match by node type",
		},
		&cli.StringSliceFlag{
			Name:  "property",
			Usage: "Match by property (key=value)",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print matches as JSON",
		},
	},
	Action: runFind,
}

var tapCommand = &cli.Command{
	Name:      "tap",
	Usage:     "Tap at screen coordinates",
	ArgsUsage: "<x> <y>",
	Action:    runTap,
}

var swipeCommand = &cli.Command{
	Name:      "swipe",
	Usage:     "Swipe between two points",
	ArgsUsage: "<x1> <y1> <x2> <y2>",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "duration",
			Usage: "Gesture duration in ms",
			Value: 300,
		},
	},
	Action: runSwipe,
}

var keyCommand = &cli.Command{
	Name:      "key",
	Usage:     "Press a key by numeric code",
	ArgsUsage: "<code>",
	Description: `Inject a key event. Common codes: 1 = home, 2 = back.

Examples:
  hypium-runner key 2`,
	Action: runKey,
}

var screenshotCommand = &cli.Command{
	Name:      "screenshot",
	Usage:     "Capture a screenshot to a local file",
	ArgsUsage: "<path>",
	Action:    runScreenshot,
}

var stopCommand = &cli.Command{
	Name:      "stop",
	Usage:     "Force-stop an app by bundle name",
	ArgsUsage: "<bundle>",
	Action:    runStop,
}

var infoCommand = &cli.Command{
	Name:   "info",
	Usage:  "Print connected device information",
	Action: runInfo,
}

func connect(c *cli.Context) (*device.HarmonyDevice, error) {
	return device.New(c.String("target"), c.String("hdc"))
}

func currentForest(dev *device.HarmonyDevice) (rstree.Forest, error) {
	dump, err := dev.DumpRenderTree()
	if err != nil {
		return nil, err
	}
	return rstree.Parse(dump), nil
}

func runDump(c *cli.Context) error {
	dev, err := connect(c)
	if err != nil {
		return err
	}

	forest, err := currentForest(dev)
	if err != nil {
		return err
	}

	data, err := forest.Export(c.Int("depth"))
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runFind(c *cli.Context) error {
	cond := resolver.Conditions{
		Text: c.String("text"),
		Type: c.String("type"),
	}
	for _, kv := range c.StringSlice("property") {
		key, value, err := splitProperty(kv)
		if err != nil {
			return err
		}
		if cond.Properties == nil {
			cond.Properties = map[string]string{}
		}
		cond.Properties[key] = value
	}
	if cond.Count() == 0 {
		return fmt.Errorf("at least one of --text, --type or --property is required")
	}

	dev, err := connect(c)
	if err != nil {
		return err
	}
	forest, err := currentForest(dev)
	if err != nil {
		return err
	}

	matches := findMatches(forest, cond, c.Bool("exact"))

	if c.Bool("json") {
		data, err := resolver.ExportMatches(matches)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(matches) == 0 {
		fmt.Println("No matches")
		return nil
	}
	fmt.Println(report.RenderMatches(matches))
	return nil
}

// findMatches resolves the conditions per process root and merges the
// results into one descending list.
func findMatches(forest rstree.Forest, cond resolver.Conditions, exact bool) []resolver.Match {
	pids := make([]int, 0, len(forest))
	for pid := range forest {
		pids = append(pids, pid)
	}
	sort.Ints(pids)

	var matches []resolver.Match
	for _, pid := range pids {
		root := forest[pid]
		switch {
		case cond.Count() > 1:
			matches = append(matches, resolver.FindByConditions(root, cond)...)
		case cond.Text != "":
			matches = append(matches, resolver.FindByText(root, cond.Text, exact)...)
		case cond.Type != "":
			matches = append(matches, resolver.FindByType(root, cond.Type)...)
		default:
			for key, value := range cond.Properties {
				matches = append(matches, resolver.FindByProperty(root, key, value)...)
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

func runTap(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: tap <x> <y>")
	}
	x, err := parseCoord(c.Args().Get(0))
	if err != nil {
		return err
	}
	y, err := parseCoord(c.Args().Get(1))
	if err != nil {
		return err
	}

	dev, err := connect(c)
	if err != nil {
		return err
	}

	if _, err := input.New(dev).Tap(x, y); err != nil {
		return err
	}
	fmt.Printf("Tapped (%d, %d)\n", x, y)
	return nil
}

func runSwipe(c *cli.Context) error {
	if c.NArg() != 4 {
		return fmt.Errorf("usage: swipe <x1> <y1> <x2> <y2>")
	}
	coords := make([]int, 4)
	for i := 0; i < 4; i++ {
		v, err := parseCoord(c.Args().Get(i))
		if err != nil {
			return err
		}
		coords[i] = v
	}

	dev, err := connect(c)
	if err != nil {
		return err
	}

	duration := c.Int("duration")
	if _, err := input.New(dev).Swipe(coords[0], coords[1], coords[2], coords[3], duration); err != nil {
		return err
	}
	fmt.Printf("Swiped (%d, %d) -> (%d, %d) in %dms\n",
		coords[0], coords[1], coords[2], coords[3], duration)
	return nil
}

func runKey(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: key <code>")
	}
	code, err := parseCoord(c.Args().Get(0))
	if err != nil {
		return err
	}

	dev, err := connect(c)
	if err != nil {
		return err
	}

	if _, err := input.New(dev).PressKey(code); err != nil {
		return err
	}
	fmt.Printf("Pressed key %d\n", code)
	return nil
}

func runScreenshot(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: screenshot <path>")
	}
	path := c.Args().Get(0)

	dev, err := connect(c)
	if err != nil {
		return err
	}

	if err := dev.Screenshot(path); err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", path)
	return nil
}

func runStop(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: stop <bundle>")
	}
	bundle := c.Args().Get(0)

	dev, err := connect(c)
	if err != nil {
		return err
	}

	if _, err := dev.StopApp(bundle); err != nil {
		return err
	}
	fmt.Printf("Stopped %s\n", bundle)
	return nil
}

func runInfo(c *cli.Context) error {
	dev, err := connect(c)
	if err != nil {
		return err
	}

	info, err := dev.Info()
	if err != nil {
		return err
	}
	fmt.Printf("Target:  %s\n", info.Target)
	fmt.Printf("Name:    %s\n", info.Name)
	fmt.Printf("Version: %s\n", info.Version)
	return nil
}

func parseCoord(s string) (int, error) {
	var v int
	if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func splitProperty(kv string) (string, string, error) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			if i == 0 {
				break
			}
			return kv[:i], kv[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("invalid property %q, expected key=value", kv)
}
