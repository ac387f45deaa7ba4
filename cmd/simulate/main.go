package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/everforgeworks/wave-idle/internal/game"
)

type options struct {
	duration    time.Duration
	step        time.Duration
	balanceFile string
	buysPerStep int
	quiet       bool
}

func main() {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Headless greedy playthrough of the wave economy",
		Long: `Runs the economy against a fake clock, buying the cheapest affordable
item after every step and taking reset-tier upgrades as soon as they are
affordable, then prints where the run ended up.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), opts)
		},
	}
	rootCmd.Flags().DurationVar(&opts.duration, "duration", 2*time.Hour, "simulated play time")
	rootCmd.Flags().DurationVar(&opts.step, "step", time.Second, "simulated time per tick")
	rootCmd.Flags().StringVar(&opts.balanceFile, "balance", "", "balance YAML (default: embedded)")
	rootCmd.Flags().IntVar(&opts.buysPerStep, "buys-per-step", 50, "maximum purchases after each tick")
	rootCmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "only print the final summary")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(out io.Writer, opts options) error {
	if opts.step <= 0 || opts.duration < opts.step {
		return fmt.Errorf("step must be positive and not longer than duration")
	}
	balance, err := game.LoadBalance(opts.balanceFile)
	if err != nil {
		return err
	}

	clock := game.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	engine := game.NewEngine(balance,
		game.WithClock(clock),
		game.WithLogger(log.New(os.Stderr, "simulate: ", 0)),
	)

	titleColor := color.New(color.FgCyan, color.Bold)
	successColor := color.New(color.FgGreen, color.Bold)
	titleColor.Fprintf(out, "\nWave Idle simulation: %s in steps of %s\n\n", opts.duration, opts.step)

	purchases := 0
	sinceScan := time.Duration(0)
	for elapsed := time.Duration(0); elapsed < opts.duration; elapsed += opts.step {
		clock.Advance(opts.step)
		if err := engine.Tick(); err != nil {
			return err
		}
		purchases += len(engine.AutoBuy(opts.buysPerStep))

		sinceScan += opts.step
		if sinceScan >= time.Second {
			sinceScan = 0
			for _, a := range engine.ScanAchievements() {
				if !opts.quiet {
					fmt.Fprintf(out, "[%8s] achievement: %s\n", elapsed+opts.step, a.Name)
				}
			}
		}
	}

	snap := engine.Snapshot()
	successColor.Fprintf(out, "\nDone: %d purchases\n", purchases)
	printSummary(out, snap)
	if !opts.quiet {
		printGenerators(out, snap)
		printAchievements(out, snap)
	}
	return nil
}

func printSummary(out io.Writer, snap game.Snapshot) {
	fmt.Fprintf(out, "   Primary:   %.4g\n", snap.Resources.Primary)
	fmt.Fprintf(out, "   Secondary: %.4g\n", snap.Resources.Secondary)
	fmt.Fprintf(out, "   Income:    %.4g/s (5s average %.4g/s)\n", snap.TotalIncome, snap.Stats.IncomePerSecond)
	fmt.Fprintf(out, "   Multipliers: m1=%.3g m2=%.3g m3=%d m4=%.3g\n",
		snap.Multipliers.M1, snap.Multipliers.M2, snap.Multipliers.M3, snap.Multipliers.M4)
	for i, r := range snap.Resets {
		fmt.Fprintf(out, "   Reset %d:   %d times\n", i+1, r.Count)
	}
	for _, u := range snap.ResetUpgrades {
		fmt.Fprintf(out, "   %-13s level %d\n", u.Name, u.OwnedCount)
	}
	fmt.Fprintln(out)
}

func printGenerators(out io.Writer, snap game.Snapshot) {
	table := tablewriter.NewTable(out,
		tablewriter.WithHeader([]string{"Generator", "Owned", "Next Cost", "Growth", "Benefit", "Income/s"}),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	for _, g := range snap.Generators {
		row := []string{
			g.Name,
			fmt.Sprintf("%d", g.OwnedCount),
			fmt.Sprintf("%.4g", g.Cost),
			fmt.Sprintf("%.3g", g.CostGrowth),
			fmt.Sprintf("%.3g", g.EffectiveBenefit()),
			fmt.Sprintf("%.4g", g.Income),
		}
		_ = table.Append(row)
	}
	_ = table.Render()
	fmt.Fprintln(out)
}

func printAchievements(out io.Writer, snap game.Snapshot) {
	table := tablewriter.NewTable(out,
		tablewriter.WithHeader([]string{"ID", "Achievement", "Unlocked"}),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	for _, a := range snap.Achievements {
		mark := "-"
		if a.Unlocked {
			mark = "yes"
		}
		_ = table.Append([]string{string(a.ID), a.Name, mark})
	}
	_ = table.Render()
}
