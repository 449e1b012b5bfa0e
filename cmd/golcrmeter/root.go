package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kacperjurak/golcrmeter"
	"github.com/kacperjurak/golcrmeter/internal/processing"
	"github.com/kacperjurak/golcrmeter/pkg/config"
	"github.com/kacperjurak/golcrmeter/pkg/models"
)

var (
	cfg        = config.DefaultConfig()
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "golcrmeter [flags] freq delta_t v_in v_dut",
	Short: "Measure an unknown capacitor or inductor with a scope and a reference resistor",
	Long: `golcrmeter converts four oscilloscope readings into the equivalent
circuit of an unknown two-terminal component.

Connect the signal generator through the reference resistor to the DUT
in series to GND, drive a sine wave, then measure the time between
rising zero crossings of V_dut and V_in (negative for capacitors,
positive for inductors) and the two amplitudes (peak to peak is fine).

Example, a ~1 mH inductor behind a 327.8 Ohm reference at 1 kHz:

  golcrmeter -r 327.8 1e3 217e-6 8.81 0.17827`,
	Args:          cobra.ExactArgs(4),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			return nil
		}
		solver, server, err := config.Load(configPath)
		if err != nil {
			return err
		}
		// Flags win over the config file.
		if !cmd.Flags().Changed("rref") {
			cfg.Rref = solver.Rref
		}
		if !cmd.Flags().Changed("digits") {
			cfg.Digits = solver.Digits
		}
		if !cmd.Flags().Changed("numeric") {
			cfg.Numeric = solver.Numeric
		}
		if !cmd.Flags().Changed("quiet") {
			cfg.Quiet = solver.Quiet
		}
		if !cmd.Flags().Changed("json") {
			cfg.JSONOut = solver.JSONOut
		}
		srvCfg = server
		return nil
	},
	RunE: runSolve,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Float64VarP(&cfg.Rref, "rref", "r", cfg.Rref, "reference resistor value in Ohms")
	pf.IntVar(&cfg.Digits, "digits", cfg.Digits, "significant digits for displayed values")
	pf.BoolVarP(&cfg.Numeric, "numeric", "n", false, "print exponents instead of SI prefixes")
	pf.BoolVarP(&cfg.Quiet, "quiet", "q", false, "suppress operational log output")
	pf.StringVar(&configPath, "config", "", "path to YAML config file")

	rootCmd.Flags().BoolVar(&cfg.JSONOut, "json", false, "print the result as JSON instead of the text report")
}

func runSolve(cmd *cobra.Command, args []string) error {
	vals := make([]float64, len(args))
	names := []string{"freq", "delta_t", "v_in", "v_dut"}
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("%s: not a number: %q", names[i], arg)
		}
		vals[i] = v
	}

	m := golcrmeter.Measurement{
		Rref:   cfg.Rref,
		Freq:   vals[0],
		DeltaT: vals[1],
		Vin:    vals[2],
		Vdut:   vals[3],
	}
	if err := m.Validate(); err != nil {
		return err
	}

	sc, warn := golcrmeter.Solve(m)
	if warn != nil {
		fmt.Fprintf(os.Stderr, "**Warning: %s\n", warn)
	}

	if cfg.JSONOut {
		req := models.MeasurementRequest{Rref: m.Rref, Freq: m.Freq, DeltaT: m.DeltaT, Vin: m.Vin, Vdut: m.Vdut}
		quiet := *cfg
		quiet.Quiet = true
		payload, err := processing.NewProcessor(&quiet).Process(req)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	report, err := golcrmeter.Report(m, sc, cfg.Digits, cfg.Numeric)
	if err != nil {
		return err
	}
	fmt.Print(report)
	return nil
}
