package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/youthsite/internal/motion"
	"github.com/ziadkadry99/youthsite/internal/progress"
)

var motionCmd = &cobra.Command{
	Use:   "motion",
	Short: "Preview the animation curves used by the site",
}

var (
	countUpEnd      float64
	countUpDuration time.Duration
	countUpSuffix   string
	countUpFPS      int
)

var motionCountUpCmd = &cobra.Command{
	Use:   "countup",
	Short: "Run a count-up animation in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		sched := motion.NewTickerScheduler(countUpFPS)
		defer sched.Close()

		final, err := progress.CountUp(cmd.Context(), progress.NewReporter(os.Stderr), sched, countUpEnd,
			motion.WithDuration(countUpDuration),
			motion.WithSuffix(countUpSuffix),
		)
		if err != nil {
			return err
		}
		fmt.Printf("%d%s\n", final, countUpSuffix)
		return nil
	},
}

var (
	grayscaleVH    float64
	grayscaleSteps int
	grayscaleSafe  float64
	grayscaleFade  float64
)

var motionGrayscaleCmd = &cobra.Command{
	Use:   "grayscale",
	Short: "Print the grayscale ramp for a viewport height",
	RunE: func(cmd *cobra.Command, args []string) error {
		if grayscaleVH <= 0 {
			return fmt.Errorf("--vh must be positive")
		}
		if grayscaleSteps < 1 {
			grayscaleSteps = 1
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "DISTANCE(px)\tGRAYSCALE(%)")
		maxDist := grayscaleVH
		for i := 0; i <= grayscaleSteps; i++ {
			d := maxDist * float64(i) / float64(grayscaleSteps)
			fmt.Fprintf(tw, "%.0f\t%.1f\n", d, motion.GrayscaleZones(d, grayscaleVH, grayscaleSafe, grayscaleFade))
		}
		return tw.Flush()
	},
}

func init() {
	motionCountUpCmd.Flags().Float64Var(&countUpEnd, "end", 100, "target value")
	motionCountUpCmd.Flags().DurationVar(&countUpDuration, "duration", motion.DefaultCountUpDuration, "animation length")
	motionCountUpCmd.Flags().StringVar(&countUpSuffix, "suffix", "", "suffix such as % or K+")
	motionCountUpCmd.Flags().IntVar(&countUpFPS, "fps", 60, "frames per second")

	motionGrayscaleCmd.Flags().Float64Var(&grayscaleVH, "vh", 800, "viewport height in px")
	motionGrayscaleCmd.Flags().IntVar(&grayscaleSteps, "steps", 10, "rows to print")
	motionGrayscaleCmd.Flags().Float64Var(&grayscaleSafe, "safe-zone", motion.DefaultSafeZone, "fraction of the viewport that stays in full color")
	motionGrayscaleCmd.Flags().Float64Var(&grayscaleFade, "fade-zone", motion.DefaultFadeZone, "fraction of the viewport over which color fades out")

	motionCmd.AddCommand(motionCountUpCmd, motionGrayscaleCmd)
	rootCmd.AddCommand(motionCmd)
}
