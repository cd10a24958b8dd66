package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/san-kum/lmpkit/internal/config"
	"github.com/san-kum/lmpkit/internal/engine"
	"github.com/san-kum/lmpkit/internal/lmp"
	"github.com/san-kum/lmpkit/internal/scriptfile"
	"github.com/san-kum/lmpkit/internal/section"
	"github.com/san-kum/lmpkit/internal/session"
	"github.com/san-kum/lmpkit/internal/storage"
	"github.com/san-kum/lmpkit/internal/thermo"
	"github.com/san-kum/lmpkit/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	dataDir    string
	verbose    bool
	// render
	format      string
	output      string
	header      string
	pretty      bool
	renderWidth int
	// exec
	engineName  string
	mode        string
	commandLine string
	preset      string
	noArchive   bool
	// plot
	columns   []string
	plotWidth int
	height    int
	block     int
	// config init
	initPreset string
	force      bool
)

var (
	cfg    = config.DefaultConfig()
	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "lmpkit"})
)

// main registers the lmpkit commands and exits with status 1 if the
// selected command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "lmpkit",
		Short:         "build and run molecular-dynamics engine scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
			if configFile != "" {
				loaded, err := config.Load(configFile)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if cmd.Flags().Changed("data") || cfg.DataDir == "" {
				cfg.DataDir = dataDir
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory for run archives")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	renderCmd := &cobra.Command{
		Use:   "render [script.yaml]",
		Short: "write a script as engine input or markdown",
		Args:  cobra.ExactArgs(1),
		RunE:  renderScript,
	}
	renderCmd.Flags().StringVarP(&format, "format", "f", "", "plain, annotated or markdown")
	renderCmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when empty)")
	renderCmd.Flags().StringVar(&header, "header", "", "banner header")
	renderCmd.Flags().BoolVar(&pretty, "pretty", false, "style stdout output for the terminal")
	renderCmd.Flags().IntVar(&renderWidth, "width", 100, "word wrap for pretty markdown")

	execCmd := &cobra.Command{
		Use:   "exec [script.yaml]",
		Short: "execute a script against the engine",
		Args:  cobra.ExactArgs(1),
		RunE:  execScript,
	}
	execCmd.Flags().StringVar(&engineName, "engine", "", "engine: process or recorder")
	execCmd.Flags().StringVar(&mode, "mode", "", "nopipe, runzero, runone or dryrun")
	execCmd.Flags().StringVar(&commandLine, "cmd", "", "engine command line")
	execCmd.Flags().StringVar(&preset, "preset", "", "use engine preset")
	execCmd.Flags().BoolVar(&noArchive, "no-archive", false, "do not archive the run")

	refsCmd := &cobra.Command{
		Use:   "refs [script.yaml]",
		Short: "list declared variables and computes with their references",
		Args:  cobra.ExactArgs(1),
		RunE:  listRefs,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		RunE:  listRuns,
	}

	historyCmd := &cobra.Command{
		Use:   "history [run_id]",
		Short: "print the commands an archived run sent",
		Args:  cobra.ExactArgs(1),
		RunE:  showHistory,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id] [path]",
		Short: "export an archived run to JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(cfg.DataDir).ExportJSON(args[1], args[0])
		},
	}

	plotCmd := &cobra.Command{
		Use:   "plot [file]",
		Short: "plot columns of an averaged output file",
		Args:  cobra.ExactArgs(1),
		RunE:  plotFile,
	}
	plotCmd.Flags().StringSliceVarP(&columns, "column", "c", nil, "columns to plot (default: all but the first)")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&height, "height", 10, "plot height")
	plotCmd.Flags().IntVar(&block, "block", -1, "block of a vector file to plot (default: last)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage the lmpkit config file",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	configInitCmd.Flags().StringVar(&initPreset, "preset", "", "take the engine settings from a preset")
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list engine presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tENGINE\tMODE\tCOMMAND")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, p.Name, p.Mode, p.Command)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(renderCmd, execCmd, refsCmd, listCmd, historyCmd, exportJSONCmd, plotCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func buildSession(path string) (*session.Manager, error) {
	doc, err := scriptfile.Load(path)
	if err != nil {
		return nil, err
	}
	h := header
	if h == "" && doc.Header == "" {
		h = cfg.Header
	}
	return doc.Build(session.Options{Header: h, Logger: logger})
}

func renderScript(cmd *cobra.Command, args []string) error {
	if format == "" {
		format = cfg.Output.Format
	}
	f, err := section.ParseFormat(format)
	if err != nil {
		return err
	}
	if output == "" {
		output = cfg.Output.Path
	}

	m, err := buildSession(args[0])
	if err != nil {
		return err
	}

	if output != "" && output != "-" {
		return m.OutputAll(f, output)
	}

	var buf bytes.Buffer
	if err := m.WriteTo(&buf, f); err != nil {
		return err
	}
	text := buf.String()
	if pretty {
		if f == section.Markdown {
			text, err = viz.Markdown(text, renderWidth)
			if err != nil {
				return err
			}
		} else {
			text = viz.Highlight(text)
		}
	}
	_, err = fmt.Fprint(os.Stdout, text)
	return err
}

func execScript(cmd *cobra.Command, args []string) error {
	ec := cfg.Engine
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		ec = *p
	}
	if engineName != "" {
		ec.Name = engineName
	}
	if mode != "" {
		ec.Mode = mode
	}
	if commandLine != "" {
		ec.Command = commandLine
	}
	if noArchive {
		ec.Archive = false
	}

	md, err := engine.ParseMode(ec.Mode)
	if err != nil {
		return err
	}
	if md == engine.DryRun {
		ec.Name = "recorder"
	}

	m, err := buildSession(args[0])
	if err != nil {
		return err
	}

	var moded *engine.Moded
	reg := engine.NewRegistry()
	m.SetOpener(func(ctx context.Context) (engine.Engine, error) {
		inner, err := reg.Open(ctx, ec.Name, engine.Options{
			CommandLine: ec.Command,
			Stdout:      os.Stdout,
			Stderr:      os.Stderr,
		})
		if err != nil {
			return nil, err
		}
		moded = engine.WithMode(inner, md)
		return moded, nil
	})

	logger.Info("executing", "script", args[0], "engine", ec.Name, "mode", md)
	runErr := m.ExecuteAll(cmd.Context())
	if closeErr := m.Close(); runErr == nil {
		runErr = closeErr
	}

	if ec.Archive && moded != nil {
		meta := storage.RunMetadata{
			Script:   args[0],
			Header:   m.Header(),
			Engine:   ec.Name,
			Mode:     string(md),
			Sections: len(m.Sections()),
		}
		if runErr != nil {
			meta.Error = runErr.Error()
		}
		st := storage.New(cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(meta, moded.History())
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", viz.MetricLabel.Render("run:"), viz.MetricValue.Render(runID))
		fmt.Printf("%s %d\n", viz.MetricLabel.Render("commands:"), len(moded.History()))
	}

	return runErr
}

func listRefs(cmd *cobra.Command, args []string) error {
	m, err := buildSession(args[0])
	if err != nil {
		return err
	}

	reg := m.Registry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tREFERENCE")
	for _, name := range reg.Names() {
		kind, _ := reg.Kind(name)
		ref, err := reg.Resolve(lmp.Name(name))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, kind, ref)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCRIPT\tTIME\tENGINE\tMODE\tSECTIONS\tCOMMANDS\tSTATUS")

	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID,
			run.Script,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Engine,
			run.Mode,
			run.Sections,
			run.Commands,
			status,
		)
	}

	return w.Flush()
}

func showHistory(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	lines, err := st.LoadHistory(args[0])
	if err != nil {
		return err
	}

	fmt.Println(viz.HeaderStyle.Render(fmt.Sprintf("%s (%s, %s)", meta.ID, meta.Engine, meta.Mode)))
	if meta.Error != "" {
		fmt.Println(viz.ErrorText.Render(meta.Error))
	}
	fmt.Println(viz.Highlight(strings.Join(lines, "\n")))
	return nil
}

func plotFile(cmd *cobra.Command, args []string) error {
	tab, err := thermo.Load(args[0])
	if err != nil {
		return err
	}
	if len(tab.Rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	names := columns
	if len(names) == 0 && len(tab.Columns) > 1 {
		names = tab.Columns[1:]
	}

	rows := tab
	fmt.Println(viz.Title.Render(args[0]))
	if tab.Vector {
		i := block
		if i < 0 {
			i = tab.Blocks() - 1
		}
		data, err := tab.Block(i)
		if err != nil {
			return err
		}
		rows = &thermo.Table{Columns: tab.Columns, Rows: data}
		fmt.Printf("%s %d  %s %d  %s %g\n\n",
			viz.MetricLabel.Render("blocks:"), tab.Blocks(),
			viz.MetricLabel.Render("rows:"), tab.Length(),
			viz.MetricLabel.Render("timestep:"), tab.Steps[i])
	} else {
		fmt.Printf("%s %d\n\n", viz.MetricLabel.Render("samples:"), tab.Length())
	}

	for _, name := range names {
		i, err := rows.Index(name)
		if err != nil {
			return err
		}
		data := rows.Column(i)
		fmt.Println(viz.Plot(data, name, plotWidth, height))
		fmt.Println(viz.SparklineChart(data, plotWidth))
		fmt.Println(viz.Separator(plotWidth))
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "lmpkit.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	c, err := config.Init(path, initPreset, force)
	if err != nil {
		return err
	}
	logger.Info("config written", "path", path, "engine", c.Engine.Name, "mode", c.Engine.Mode)
	return nil
}
