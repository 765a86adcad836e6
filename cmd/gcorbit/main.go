package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/fusionsim/gcorbit/internal/config"
	"github.com/fusionsim/gcorbit/internal/coords"
	"github.com/fusionsim/gcorbit/internal/drift"
	"github.com/fusionsim/gcorbit/internal/export"
	"github.com/fusionsim/gcorbit/internal/logging"
	"github.com/fusionsim/gcorbit/internal/metrics"
	"github.com/fusionsim/gcorbit/internal/orbit"
	"github.com/fusionsim/gcorbit/internal/scan"
	"github.com/fusionsim/gcorbit/internal/storage"
	"github.com/fusionsim/gcorbit/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	logFile    string

	energy float64
	pitch  float64
	radius float64
	zpos   float64
	amu    float64
	charge int

	steps int
	tMax  float64
	rTol  float64
	maxR  float64

	noSave bool

	// scan ranges
	pitchMin, pitchMax float64
	pitchN             int
	radMin, radMax     float64
	radN               int

	svgOut string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gcorbit",
		Short: "guiding-center drift orbit tracer",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logFile != "" {
				logging.SetOutput(logging.RotatingFile(logFile))
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "runs", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "rotate logs into this file")

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "trace a drift orbit by time integration",
		RunE:  runTrace,
	}
	addParticleFlags(traceCmd)
	traceCmd.Flags().IntVar(&steps, "steps", 0, "time grid samples")
	traceCmd.Flags().Float64Var(&tMax, "t-max", 0, "integration window in seconds")
	traceCmd.Flags().Float64Var(&rTol, "r-tol", 0, "closure radius tolerance in meters")
	traceCmd.Flags().Float64Var(&maxR, "max-r", 0, "radial loss cap in meters")
	traceCmd.Flags().BoolVar(&noSave, "no-save", false, "skip storing the run")

	contourCmd := &cobra.Command{
		Use:   "contour",
		Short: "trace a drift orbit by level-set following",
		RunE:  runContour,
	}
	addParticleFlags(contourCmd)
	contourCmd.Flags().BoolVar(&noSave, "no-save", false, "skip storing the run")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "classify orbit topology over a pitch/radius grid",
		RunE:  runScan,
	}
	scanCmd.Flags().Float64Var(&energy, "energy", config.DefaultEnergy, "energy in keV")
	scanCmd.Flags().Float64Var(&amu, "amu", config.DefaultAmu, "mass in atomic units")
	scanCmd.Flags().IntVar(&charge, "charge", config.DefaultCharge, "charge number")
	scanCmd.Flags().Float64Var(&pitchMin, "pitch-min", -1.0, "lowest pitch")
	scanCmd.Flags().Float64Var(&pitchMax, "pitch-max", 1.0, "highest pitch")
	scanCmd.Flags().IntVar(&pitchN, "pitch-n", 9, "pitch samples")
	scanCmd.Flags().Float64Var(&radMin, "r-min", 0, "lowest launch radius")
	scanCmd.Flags().Float64Var(&radMax, "r-max", 0, "highest launch radius")
	scanCmd.Flags().IntVar(&radN, "r-n", 9, "radius samples")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	svgCmd := &cobra.Command{
		Use:   "svg",
		Short: "render an orbit cross section to SVG",
		RunE:  renderSVG,
	}
	addParticleFlags(svgCmd)
	svgCmd.Flags().StringVar(&svgOut, "out", "orbit.svg", "output file")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "replay an orbit in the terminal",
		RunE:  runLive,
	}
	addParticleFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list particle presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Printf("  %-16s E=%g keV  pitch=%g  r=%g m  amu=%g  q=%d\n",
					name, p.Particle.Energy, p.Particle.Pitch, p.Particle.R, p.Particle.Amu, p.Particle.Charge)
			}
		},
	}

	rootCmd.AddCommand(traceCmd, contourCmd, scanCmd, listCmd, showCmd, exportCmd, svgCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addParticleFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "particle preset")
	cmd.Flags().Float64Var(&energy, "energy", config.DefaultEnergy, "energy in keV")
	cmd.Flags().Float64Var(&pitch, "pitch", config.DefaultPitch, "pitch v_para/v at launch")
	cmd.Flags().Float64Var(&radius, "r", 1.8, "launch major radius in meters")
	cmd.Flags().Float64Var(&zpos, "z", 0.0, "launch vertical position in meters")
	cmd.Flags().Float64Var(&amu, "amu", config.DefaultAmu, "mass in atomic units")
	cmd.Flags().IntVar(&charge, "charge", config.DefaultCharge, "charge number")
}

// loadConfig assembles the effective config from defaults, preset, file,
// and flags, in increasing precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		fileCfg.Particle = cfg.Particle
		cfg = fileCfg
	}

	if cmd.Flags().Changed("energy") {
		cfg.Particle.Energy = energy
	}
	if cmd.Flags().Changed("pitch") {
		cfg.Particle.Pitch = pitch
	}
	if cmd.Flags().Changed("r") {
		cfg.Particle.R = radius
	}
	if cmd.Flags().Changed("z") {
		cfg.Particle.Z = zpos
	}
	if cmd.Flags().Changed("amu") {
		cfg.Particle.Amu = amu
	}
	if cmd.Flags().Changed("charge") {
		cfg.Particle.Charge = charge
	}
	if steps > 0 {
		cfg.Tracer.Steps = steps
	}
	if tMax > 0 {
		cfg.Tracer.TMax = tMax
	}
	if rTol > 0 {
		cfg.Tracer.RTol = rTol
	}
	if maxR > 0 {
		cfg.Tracer.MaxR = maxR
	}
	if !cmd.Flags().Changed("data") && cfg.StoreDir != "" {
		dataDir = cfg.StoreDir
	}

	return cfg, nil
}

func particle(cfg *config.Config) coords.EPRCoordinate {
	p := cfg.Particle
	return coords.NewEPR(p.Energy, p.Pitch, p.R, p.Z, p.Amu, p.Charge)
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	eq := cfg.BuildEquilibrium()
	c := particle(cfg)
	tracer := orbit.NewTracer(eq, cfg.BuildTraceOptions())

	start := time.Now()
	o, err := tracer.Trace(c)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	hc := o.Coordinate()
	field := drift.New(eq, hc)
	vals := metrics.Evaluate(o, metrics.NewEnergyDrift(field), metrics.NewMuDrift(eq, hc))

	printSummary(o, elapsed, vals)
	plotOrbit(o)

	if !noSave {
		return saveRun(cfg, c, o, vals)
	}
	return nil
}

func runContour(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	eq := cfg.BuildEquilibrium()
	c := particle(cfg)

	rc, err := orbit.ReferenceFrom(eq, c, cfg.BuildTraceOptions())
	if err != nil {
		return err
	}
	if rc == nil {
		fmt.Println("orbit is neither closed nor lost; no reference point to follow")
		return nil
	}

	ct := orbit.NewContourTracer(eq, cfg.BuildContourOptions())
	start := time.Now()
	o, err := ct.Trace(*rc)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	if o == nil {
		fmt.Println("no contour found at the requested energy")
		return nil
	}

	hc := o.Coordinate()
	field := drift.New(eq, hc)
	vals := metrics.Evaluate(o, metrics.NewEnergyDrift(field), metrics.NewMuDrift(eq, hc))

	printSummary(o, elapsed, vals)
	plotOrbit(o)

	if !noSave {
		return saveRun(cfg, c, o, vals)
	}
	return nil
}

var classGlyphs = map[scan.Class]rune{
	scan.ClassPassing:   'p',
	scan.ClassTrapped:   't',
	scan.ClassStagnant:  's',
	scan.ClassLost:      'x',
	scan.ClassAmbiguous: '?',
	scan.ClassInvalid:   '!',
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	eq := cfg.BuildEquilibrium()

	if radMin == 0 || radMax == 0 {
		lo, hi := eq.RadialDomain()
		span := hi - lo
		radMin, radMax = lo+0.05*span, hi-0.05*span
	}

	g := scan.Grid{
		Energies: []float64{energy},
		Pitches:  linspace(pitchMin, pitchMax, pitchN),
		Radii:    linspace(radMin, radMax, radN),
		Amu:      amu,
		Charge:   charge,
	}

	fmt.Printf("scanning %d x %d at %g keV...\n\n", pitchN, radN, energy)
	start := time.Now()
	points := scan.Run(eq, g, cfg.BuildTraceOptions())
	elapsed := time.Since(start)

	// Rows are pitches, columns are radii; Run emits cells in that order.
	fmt.Printf("%8s", "pitch\\r")
	for _, r := range g.Radii {
		fmt.Printf(" %5.2f", r)
	}
	fmt.Println()
	i := 0
	for _, p := range g.Pitches {
		fmt.Printf("%8.2f", p)
		for range g.Radii {
			fmt.Printf("     %c", classGlyphs[points[i].Class])
			i++
		}
		fmt.Println()
	}
	fmt.Printf("\np=passing t=trapped s=stagnation x=lost ?=ambiguous !=invalid\n")
	fmt.Printf("completed in %v\n", elapsed)
	return nil
}

func linspace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return xs
}

func saveRun(cfg *config.Config, c coords.EPRCoordinate, o *orbit.Orbit, vals map[string]float64) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save("solovev", c, o, vals)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func printSummary(o *orbit.Orbit, elapsed time.Duration, vals map[string]float64) {
	status := "incomplete"
	if o.Complete() {
		status = "closed"
	}
	if o.HitsBoundary() {
		status = "lost"
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("orbit: %s\n", status)
	fmt.Printf("samples: %d\n", o.Len())
	fmt.Printf("period: %.3f us\n", o.Period()*1e6)
	fmt.Println("\nmetrics:")
	for name, val := range vals {
		fmt.Printf("  %s: %.3e\n", name, val)
	}
	fmt.Println()
}

func plotOrbit(o *orbit.Orbit) {
	if o.Len() < 2 {
		return
	}
	rGraph := asciigraph.Plot(o.R(),
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("R [m] vs sample"),
	)
	fmt.Println(rGraph)
	fmt.Println()
	zGraph := asciigraph.Plot(o.Z(),
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("Z [m] vs sample"),
	)
	fmt.Println(zGraph)
	fmt.Println()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tE[keV]\tPITCH\tR[m]\tAMU\tCLOSED\tLOST\tPERIOD[us]")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%.2f\t%.3f\t%.0f\t%v\t%v\t%.3f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Energy,
			run.Pitch,
			run.R,
			run.Amu,
			run.Complete,
			run.HitsBoundary,
			run.Period*1e6,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples.R) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particle: %.1f keV, pitch %.2f, launched at (%.3f, %.3f)\n\n",
		meta.Energy, meta.Pitch, meta.R, meta.Z)

	for _, plot := range []struct {
		data    []float64
		caption string
	}{
		{samples.R, "R [m]"},
		{samples.Z, "Z [m]"},
		{samples.Phi, "phi [rad]"},
	} {
		graph := asciigraph.Plot(plot.data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(plot.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func renderSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	eq := cfg.BuildEquilibrium()
	o, err := orbit.NewTracer(eq, cfg.BuildTraceOptions()).Trace(particle(cfg))
	if err != nil {
		return err
	}

	svg := export.OrbitToSVG(o, eq.Boundary(128), 600, 600)
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	eq := cfg.BuildEquilibrium()
	o, err := orbit.NewTracer(eq, cfg.BuildTraceOptions()).Trace(particle(cfg))
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%.0f keV pitch %.2f", cfg.Particle.Energy, cfg.Particle.Pitch)
	m := viz.NewModel(o, eq.Boundary(128), title)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
