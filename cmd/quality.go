package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/smazurov/encodecfg/internal/encoders"
	"github.com/smazurov/encodecfg/internal/types"
)

// CreateQualityCmd creates the quality command, which converts between
// slider positions and native encoder quality.
func CreateQualityCmd() *cobra.Command {
	var step float64
	var native float64
	var slider int

	cmd := &cobra.Command{
		Use:   "quality [encoder]",
		Short: "Convert between slider positions and native quality",
		Long: `Prints the slider bounds of an encoder. With --slider the native quality of that position ` +
			`is printed, with --native the nearest slider position.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			enc, err := types.ParseEncoder(args[0])
			if err != nil {
				return err
			}
			return printQuality(c.OutOrStdout(), enc, step,
				flagSet(c, "slider"), slider,
				flagSet(c, "native"), native)
		},
	}

	cmd.Flags().Float64Var(&step, "step", encoders.DefaultQualityStep, "Rate factor step for x264 and x265")
	cmd.Flags().IntVar(&slider, "slider", 0, "Slider position to convert")
	cmd.Flags().Float64Var(&native, "native", 0, "Native quality to convert")
	cmd.MarkFlagsMutuallyExclusive("slider", "native")
	cmd.SetOut(os.Stdout)
	return cmd
}

func flagSet(c *cobra.Command, name string) bool {
	f := c.Flags().Lookup(name)
	return f != nil && f.Changed
}

func printQuality(w io.Writer, enc types.Encoder, step float64, hasSlider bool, slider int, hasNative bool, native float64) error {
	step = encoders.NormalizeStep(step)
	minV, maxV := encoders.Bounds(enc, step)
	if _, err := fmt.Fprintf(w, "%s: slider %d..%d (step %g)\n", enc, minV, maxV, step); err != nil {
		return err
	}

	switch {
	case hasSlider:
		q := encoders.ToNative(enc, slider, step)
		_, err := fmt.Fprintf(w, "slider %d = quality %g%s\n", encoders.Clamp(enc, slider, step), q, losslessSuffix(enc, q))
		return err
	case hasNative:
		_, err := fmt.Fprintf(w, "quality %g = slider %d%s\n", native, encoders.ToSlider(enc, native, step), losslessSuffix(enc, native))
		return err
	}
	return nil
}

func losslessSuffix(enc types.Encoder, q float64) string {
	if encoders.IsLossless(enc, q) {
		return " (lossless)"
	}
	return ""
}
