package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/born-ml/ragged/backend/cpu"
	"github.com/born-ml/ragged/backend/typetracer"
	"github.com/born-ml/ragged/broadcast"
	"github.com/born-ml/ragged/layout"
	"github.com/born-ml/ragged/ops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// cliFlags holds the persistent flags shared by every command.
type cliFlags struct {
	shapeOnly bool
	format    string
	verbose   bool
	op        string
	out       string
}

// applyConfig is the YAML document read by the apply command.
type applyConfig struct {
	Op            string `yaml:"op"`
	ParameterRule string `yaml:"parameter_rule"`
	X             any    `yaml:"x"`
	Y             any    `yaml:"y"`
}

var kernels = map[string]ops.Kernel{
	ops.Add.Name:     ops.Add,
	ops.Sub.Name:     ops.Sub,
	ops.Mul.Name:     ops.Mul,
	ops.Div.Name:     ops.Div,
	ops.Equal.Name:   ops.Equal,
	ops.Greater.Name: ops.Greater,
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}
	root := &cobra.Command{
		Use:   "ragged",
		Short: "Broadcast nested, jagged and optional arrays",
		Long: `ragged applies element-wise operations to nested arrays of
variable-length lists, missing values and records, broadcasting them
against each other first.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&flags.shapeOnly, "shape-only", false, "evaluate on the typetracer backend and report touched buffers")
	root.PersistentFlags().StringVar(&flags.format, "format", "yaml", "output format (yaml or json)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log every broadcasting dispatch to stderr")
	root.PersistentFlags().StringVarP(&flags.out, "out", "o", "", "also save an array result to this .ragd file")

	root.AddCommand(newVersionCmd(), newDemoCmd(flags), newApplyCmd(flags), newInspectCmd(flags))
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ragged %s\n", version)
		},
	}
}

func newDemoCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Add [10, 20, 30, 40] to [[1.1, 2.2, 3.3], [], None, [4.4, 5.5]]",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := applyConfig{
				Op: ops.Add.Name,
				X:  []any{[]any{1.1, 2.2, 3.3}, []any{}, nil, []any{4.4, 5.5}},
				Y:  []any{10, 20, 30, 40},
			}
			return runApply(cmd, flags, cfg)
		},
	}
}

func newApplyCmd(flags *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [config.yaml]",
		Short: "Apply an element-wise operation to the arrays x and y of a YAML file",
		Long: `apply reads a YAML document with an op and two operands x and y.
An operand is a nested list, a scalar, or the path of a .ragd file written
by --out.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			var cfg applyConfig
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}
			if flags.op != "" {
				cfg.Op = flags.op
			}
			return runApply(cmd, flags, cfg)
		},
	}
	cmd.Flags().StringVar(&flags.op, "op", "", "operation, overriding the file's op")
	return cmd
}

func runApply(cmd *cobra.Command, flags *cliFlags, cfg applyConfig) error {
	kernel, ok := kernels[cfg.Op]
	if !ok {
		return fmt.Errorf("unknown op %q, expected one of %v", cfg.Op, kernelNames())
	}
	opts := broadcast.DefaultOptions()
	if cfg.ParameterRule != "" {
		rule, err := broadcast.ParseParameterRule(cfg.ParameterRule)
		if err != nil {
			return err
		}
		opts.ParameterRule = rule
	}
	if flags.verbose {
		opts.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	var tracer *typetracer.Backend
	if flags.shapeOnly {
		tracer = typetracer.New()
	}
	x, err := operand(cfg.X, tracer)
	if err != nil {
		return fmt.Errorf("x: %w", err)
	}
	y, err := operand(cfg.Y, tracer)
	if err != nil {
		return fmt.Errorf("y: %w", err)
	}

	out, err := ops.Apply(kernel, x, y, opts)
	if err != nil {
		return err
	}
	res, err := newResult(out)
	if err != nil {
		return err
	}
	if tracer != nil {
		res.TouchedShape = tracer.Report().TouchedShape()
		res.TouchedData = tracer.Report().TouchedData()
	}
	if flags.out != "" {
		if err := saveResult(flags.out, out, cfg); err != nil {
			return err
		}
	}
	return writeResult(cmd.OutOrStdout(), flags.format, res)
}

func saveResult(path string, out any, cfg applyConfig) error {
	array, ok := out.(layout.Content)
	if !ok {
		return fmt.Errorf("--out: result is a %T scalar, not an array", out)
	}
	if !array.Backend().KnownData() {
		return fmt.Errorf("--out: cannot save a shape-only result")
	}
	return layout.Save(path, array, map[string]string{"op": cfg.Op})
}

func newInspectCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file.ragd]",
		Short: "Show the form, buffers and values stored in a .ragd file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			array, header, err := layout.Load(args[0], cpu.New())
			if err != nil {
				return err
			}
			res, err := newResult(array)
			if err != nil {
				return err
			}
			res.Length = header.Length
			res.Metadata = header.Metadata
			for _, b := range header.Buffers {
				res.Buffers = append(res.Buffers, fmt.Sprintf("%s (%d bytes)", b.Name, b.Size))
			}
			return writeResult(cmd.OutOrStdout(), flags.format, res)
		},
	}
}

// operand turns a decoded YAML value or a .ragd path into a layout, moved
// to tracer when one is given, or passes a scalar through.
func operand(v any, tracer *typetracer.Backend) (any, error) {
	var (
		array layout.Content
		err   error
	)
	switch x := v.(type) {
	case nil:
		return nil, fmt.Errorf("missing value")
	case []any:
		array, err = layout.FromList(x, cpu.New())
	case string:
		if !strings.HasSuffix(x, ".ragd") {
			return v, nil
		}
		array, _, err = layout.Load(x, cpu.New())
	default:
		return v, nil
	}
	if err != nil {
		return nil, err
	}
	if tracer == nil {
		return array, nil
	}
	return layout.ToBackend(array, tracer)
}

func kernelNames() []string {
	names := make([]string, 0, len(kernels))
	for name := range kernels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
