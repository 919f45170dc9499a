package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/RithishKumarK/supreme/application/services"
	"github.com/RithishKumarK/supreme/domain/core/valueobjects"
	domainservices "github.com/RithishKumarK/supreme/domain/services"
	"github.com/RithishKumarK/supreme/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type rootOptions struct {
	configDir string
	verbose   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "diagramctl",
		Short: "Sketch data-model diagrams and turn them into code skeletons",
		Long: `diagramctl works on diagrams of typed nodes and labeled edges.
It can generate a TypeScript/SQL skeleton from a diagram file or run the
assistant's prompt interpreter and print the resulting diagram.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", "", "configuration directory (default $CONFIG_DIR or ./config)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	rootCmd.AddCommand(
		newGenerateCmd(opts),
		newPromptCmd(opts),
		newKindsCmd(),
		newRulesCmd(opts),
	)
	return rootCmd
}

func (o *rootOptions) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// loadConfig falls back to defaults when no configuration directory exists
func (o *rootOptions) loadConfig() (*config.Config, error) {
	dir := o.configDir
	if dir == "" {
		dir = os.Getenv("CONFIG_DIR")
	}
	return config.NewLoader(dir, config.EnvironmentFromEnv()).Load()
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	var (
		file   string
		header string
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the code skeleton for a diagram file",
		Example: `  diagramctl generate --file blog.yaml
  cat blog.yaml | diagramctl generate --file -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if header == "" {
				header = cfg.Generator.Header
			}

			graph, err := readDiagram(file)
			if err != nil {
				return err
			}

			artifact := domainservices.NewCodeGenerator(domainservices.WithHeader(header)).Generate(graph.Snapshot())
			root.logger().Debug("Generated code",
				zap.Int("nodes", graph.NodeCount()),
				zap.Int("edges", graph.EdgeCount()),
				zap.Int("warnings", len(artifact.Warnings)),
			)

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			_, err = io.WriteString(out, artifact.Text)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "diagram file (YAML or JSON), - for stdin")
	cmd.Flags().StringVar(&header, "header", "", "header comment for the generated code")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newPromptCmd(root *rootOptions) *cobra.Command {
	var (
		file        string
		withLatency bool
	)

	cmd := &cobra.Command{
		Use:   "prompt [text]",
		Short: "Run the assistant on a prompt and print the resulting diagram as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			logger := root.logger()

			interpreter, err := services.NewInterpreter(cfg.Prompt.Rules)
			if err != nil {
				return err
			}
			opts := services.SessionOptions{
				Timeout:      cfg.Prompt.Timeout,
				SeedLabel:    cfg.Session.SeedLabel,
				SeedPosition: valueobjects.Position{X: cfg.Session.SeedX, Y: cfg.Session.SeedY},
			}
			if withLatency {
				opts.Latency = cfg.Prompt.Latency
			}

			session, err := services.NewEditorSession("cli", interpreter, domainservices.NewCodeGenerator(), opts, nil, logger)
			if err != nil {
				return err
			}
			if file != "" {
				graph, err := readDiagram(file)
				if err != nil {
					return err
				}
				if err := session.Load(graph.Snapshot()); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			reply, err := session.SubmitPrompt(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", reply)
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(session.Graph()); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "start from this diagram instead of the empty session")
	cmd.Flags().BoolVar(&withLatency, "latency", false, "wait the configured assistant latency")
	return cmd
}

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List node kinds and their default labels",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, k := range valueobjects.AllNodeKinds() {
				entity := ""
				if k.IsDataEntity() {
					entity = " (data entity)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-13s %s%s\n", k.String(), k.DefaultLabel(), entity)
			}
		},
	}
}

func newRulesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Validate the configured prompt rules and list them in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			rules, err := services.BuildRules(cfg.Prompt.Rules)
			if err != nil {
				return err
			}
			interpreter, err := domainservices.NewRuleInterpreter(rules, nil, nil)
			if err != nil {
				return err
			}

			for _, r := range interpreter.Rules() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s [%s] %d nodes, %d edges\n",
					r.Name, strings.Join(r.Keywords, " "), len(r.Command.Nodes), len(r.Command.Edges))
			}
			return nil
		},
	}
}
