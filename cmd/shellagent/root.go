package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/Cyclone1070/shellagent/internal/config"
	"github.com/Cyclone1070/shellagent/internal/policy"
	"github.com/Cyclone1070/shellagent/internal/tool/service/executor"
	"github.com/Cyclone1070/shellagent/internal/tool/shell"
	"github.com/Cyclone1070/shellagent/internal/workflow"
	"github.com/Cyclone1070/shellagent/internal/workflow/loop"
	"github.com/Cyclone1070/shellagent/internal/workflow/toolmanager"
	"github.com/Cyclone1070/shellagent/internal/workspace"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// eventBuffer lets the loop run a little ahead of a slow renderer.
const eventBuffer = 64

type options struct {
	path          string
	model         string
	configPath    string
	maxIterations int
	timeout       time.Duration
	plain         bool
}

func processGlobalFlags(rootCmd *cobra.Command) error {
	logrus.SetOutput(os.Stderr)
	// stdout belongs to the renderer; only warnings are logged by default
	logrus.SetLevel(logrus.WarnLevel)

	// --log-level will override --debug
	if debug, _ := rootCmd.Flags().GetBool("debug"); debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	l, _ := rootCmd.Flags().GetString("log-level")
	if l != "" {
		lvl, err := logrus.ParseLevel(l)
		if err != nil {
			return err
		}
		logrus.SetLevel(lvl)
	}

	logFormat, _ := rootCmd.Flags().GetString("log-format")
	switch logFormat {
	case "json":
		logrus.StandardLogger().SetFormatter(new(logrus.JSONFormatter))
	case "text":
		formatter := new(logrus.TextFormatter)
		if runtime.GOOS == "windows" && isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			formatter.ForceColors = true
		}
		logrus.StandardLogger().SetFormatter(formatter)
	default:
		return fmt.Errorf("unsupported log-format: %q", logFormat)
	}
	return nil
}

func newApp(deps Dependencies) *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "shellagent [flags] <prompt>",
		Short: "Answer a prompt by running shell commands through a language model",
		Example: `  List the largest files in a project:
  $ shellagent -p ~/src/project -m lm_studio/qwen2.5-7b-instruct "which files are the largest?"

  Use Gemini:
  $ GEMINI_API_KEY=... shellagent -m gemini/gemini-2.5-flash "what changed in the last commit?"`,
		Args:              cobra.ExactArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().String("log-level", "", "Set the logging level [trace, debug, info, warn, error]")
	rootCmd.PersistentFlags().String("log-format", "text", "Set the logging format [text, json]")
	rootCmd.PersistentFlags().Bool("debug", false, "Debug mode")

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.path, "path", "p", ".", "Working directory for shell commands")
	flags.StringVarP(&opts.model, "model", "m", "", "Model to use, e.g. lm_studio/<id> or gemini/<id>")
	flags.StringVar(&opts.configPath, "config", "", "Config file (default ~/.config/shellagent/config.yaml)")
	flags.IntVar(&opts.maxIterations, "max-iterations", 0, "Maximum commands to run before giving up (default from config)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Per-command timeout (default from config)")
	flags.BoolVar(&opts.plain, "plain", false, "Print plain lines instead of the interactive display")
	_ = rootCmd.MarkFlagRequired("model")

	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return processGlobalFlags(rootCmd)
	}
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return run(cmd, deps, opts, args[0])
	}

	return rootCmd
}

// validatePath returns the absolute form of path, which must be an existing
// directory.
func validatePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("path does not exist: %s", abs)
		}
		return "", fmt.Errorf("cannot access path %s: %w", abs, err)
	}
	if !st.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", abs)
	}
	return abs, nil
}

// chdir switches to dir and returns a function restoring the previous
// working directory.
func chdir(dir string) (func(), error) {
	prev, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	if err := os.Chdir(dir); err != nil {
		return nil, err
	}
	return func() {
		if err := os.Chdir(prev); err != nil {
			logrus.WithError(err).Warnf("Failed to restore working directory %s", prev)
		}
	}, nil
}

// applyFlags overrides config values with flags the user set.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts options) error {
	if cmd.Flags().Changed("max-iterations") {
		cfg.Agent.MaxIterations = opts.maxIterations
	}
	if cmd.Flags().Changed("timeout") {
		if opts.timeout <= 0 {
			return fmt.Errorf("--timeout must be positive, got %s", opts.timeout)
		}
		cfg.Shell.TimeoutSeconds = int(math.Ceil(opts.timeout.Seconds()))
	}
	return cfg.Validate()
}

func run(cmd *cobra.Command, deps Dependencies, opts options, prompt string) error {
	ctx := cmd.Context()

	dir, err := validatePath(opts.path)
	if err != nil {
		return err
	}

	// A missing file already yields defaults; a broken one must not.
	cfg, err := deps.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyFlags(cmd, cfg, opts); err != nil {
		return err
	}

	restore, err := chdir(dir)
	if err != nil {
		return err
	}
	defer restore()

	llm, err := deps.ProviderFactory(ctx, cfg, opts.model)
	if err != nil {
		return err
	}

	denylist := policy.NewDenylist(cfg.Policy.Deny)
	shellTool := shell.NewShellTool(denylist, executor.NewOSCommandExecutor(cfg), cfg, dir)
	tools := toolmanager.NewToolManager(shellTool)

	info, err := workspace.Describe(dir, cfg.Shell.Interpreter+" "+cfg.Shell.InterpreterFlag)
	if err != nil {
		logrus.WithError(err).Debug("Failed to inspect workspace")
	}

	logrus.WithFields(logrus.Fields{
		"dir":            dir,
		"model":          opts.model,
		"max_iterations": cfg.Agent.MaxIterations,
		"timeout":        cfg.Shell.TimeoutSeconds,
	}).Debug("Starting agent run")

	events := make(chan workflow.Event, eventBuffer)
	agent := loop.NewLoop(llm, tools, events, cfg.Agent.MaxIterations, workspace.SystemPrompt(info, denylist.Patterns()))
	renderer := deps.RendererFactory(cmd.OutOrStdout(), opts.plain)

	return runConcurrently(ctx, agent, renderer, events, prompt)
}

type agentRunner interface {
	Run(ctx context.Context, prompt string) (*loop.Result, error)
}

type eventRenderer interface {
	Run(ctx context.Context, events <-chan workflow.Event) error
}

// runConcurrently runs the agent and the renderer side by side. The agent
// owns events and closes it when done. A renderer error cancels the run; the
// channel is then drained so the agent never blocks on a send.
func runConcurrently(ctx context.Context, agent agentRunner, renderer eventRenderer, events chan workflow.Event, prompt string) error {
	g, gctx := errgroup.WithContext(ctx)

	var runErr error
	g.Go(func() error {
		defer close(events)
		_, runErr = agent.Run(gctx, prompt)
		return nil
	})

	g.Go(func() error {
		if err := renderer.Run(gctx, events); err != nil {
			go func() {
				for range events {
				}
			}()
			return err
		}
		for range events {
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return runErr
}
