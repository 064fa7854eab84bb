package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/smazurov/encodecfg/internal/controller"
	"github.com/smazurov/encodecfg/internal/encoders"
	"github.com/smazurov/encodecfg/internal/ffmpeg"
	"github.com/smazurov/encodecfg/internal/logging"
	"github.com/smazurov/encodecfg/internal/presets"
	"github.com/smazurov/encodecfg/internal/settings"
	"github.com/smazurov/encodecfg/internal/task"
)

// staticSettings answers controller lookups from command line flags.
type staticSettings map[string]any

func (s staticSettings) Float(key string, def float64) float64 {
	if v, ok := s[key].(float64); ok {
		return v
	}
	return def
}

func (s staticSettings) Bool(key string, def bool) bool {
	if v, ok := s[key].(bool); ok {
		return v
	}
	return def
}

type applyPresetOptions struct {
	presetsFile   string
	step          float64
	advancedTab   bool
	newerHardware bool
	width, height int
	list          bool
	verbose       bool
}

// CreateApplyPresetCmd creates the apply-preset command, which prints the
// task a preset produces when applied to a fresh default task.
func CreateApplyPresetCmd() *cobra.Command {
	var opts applyPresetOptions

	cmd := &cobra.Command{
		Use:   "apply-preset [preset-name]",
		Short: "Print the task a preset produces",
		Long: `Applies a preset from the presets file (or the built-ins) to the default task ` +
			`and prints the resulting task as TOML. Use --list to show the available presets.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			logging.Initialize(logging.Config{Level: level, Format: "text"})

			store := presets.NewTOML(opts.presetsFile)
			if err := store.Load(); err != nil {
				return err
			}

			if opts.list || len(args) == 0 {
				return listPresets(c.OutOrStdout(), store)
			}
			return applyPreset(c.OutOrStdout(), store, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.presetsFile, "presets", "presets.toml", "Preset definitions file")
	flags.Float64Var(&opts.step, "step", encoders.DefaultQualityStep, "Rate factor step for x264 and x265")
	flags.BoolVar(&opts.advancedTab, "advanced-tab", false, "Allow manual advanced options")
	flags.BoolVar(&opts.newerHardware, "newer-hardware", false, "Hardware encoder supports the Quality preset")
	flags.IntVar(&opts.width, "width", 0, "Source width")
	flags.IntVar(&opts.height, "height", 0, "Source height")
	flags.BoolVarP(&opts.list, "list", "l", false, "List presets")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log controller decisions")
	cmd.SetOut(os.Stdout)
	return cmd
}

func listPresets(w io.Writer, store presets.Store) error {
	for _, p := range store.List() {
		if _, err := fmt.Fprintf(w, "%-10s %-24s %s\n", p.Category, p.Name, p.Description); err != nil {
			return err
		}
	}
	return nil
}

func applyPreset(w io.Writer, store presets.Store, name string, opts applyPresetOptions) error {
	p, err := store.Get(name)
	if err != nil {
		return err
	}

	c := controller.New(controller.Options{
		Settings: staticSettings{
			settings.KeyQualityStep:     opts.step,
			settings.KeyShowAdvancedTab: opts.advancedTab,
		},
		Builder: ffmpeg.NewX264ParamsBuilder(),
		Caps:    task.HostCapabilities{NewerHardwareGeneration: opts.newerHardware},
	})
	if opts.width > 0 || opts.height > 0 {
		c.SetSourceResolution(&opts.width, &opts.height)
	}

	if _, applied := c.ApplyPreset(&p); !applied {
		return fmt.Errorf("preset %q carries no task", name)
	}

	state := c.State()
	out, err := toml.Marshal(struct {
		Preset string             `toml:"preset"`
		Slider int                `toml:"quality_slider"`
		Task   *task.EncodingTask `toml:"task"`
	}{Preset: p.Name, Slider: state.Slider, Task: state.Task})
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}
	_, err = w.Write(out)
	return err
}
