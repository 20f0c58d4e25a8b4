// gojudge — a sandboxed competitive-programming judge core.
//
// Builds and runs an untrusted submission against a task's test battery
// under a hardened Linux sandbox, grades the result, and reports it as
// JSON or a colored terminal summary.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nughm3/gojudge/internal/contest"
	"github.com/nughm3/gojudge/internal/judge"
	"github.com/nughm3/gojudge/internal/judgelog"
	"github.com/nughm3/gojudge/internal/judgeout"
	"github.com/nughm3/gojudge/internal/mcpsrv"
	"github.com/nughm3/gojudge/internal/sandbox"
)

var version = "0.1.0"

func main() {
	// Must run before any other startup: a re-exec'd sandbox child never
	// returns from this call.
	sandbox.MaybeRunTrampoline()

	rootCmd := &cobra.Command{
		Use:     "gojudge",
		Short:   "Sandboxed competitive-programming judge core",
		Version: version,
	}

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		judgelog.Verbose.Store(verbose)
	}

	rootCmd.AddCommand(newJudgeCmd(), newContestCmd(), newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newJudgeCmd() *cobra.Command {
	judgeCmd := &cobra.Command{Use: "judge", Short: "Grade submissions"}
	judgeCmd.AddCommand(newJudgeRunCmd())
	return judgeCmd
}

func newJudgeRunCmd() *cobra.Command {
	var (
		contestDir string
		taskName   string
		submission string
		language   string
		configPath string
		outputPath string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build, run, and grade one submission against a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := contest.Load(contestDir)
			if err != nil {
				return fmt.Errorf("load contest: %w", err)
			}

			task, ok := c.Task(taskName)
			if !ok {
				return fmt.Errorf("unknown task: %s", taskName)
			}

			if !c.LanguageAllowed(language) {
				return &judge.Error{Kind: judge.ErrUnknownLanguage, Language: language}
			}

			cfg, err := judge.LoadConfig(configPath)
			if err != nil {
				return err
			}

			source, err := os.ReadFile(submission)
			if err != nil {
				return fmt.Errorf("read submission: %w", err)
			}

			results, err := judge.Run(cfg, judge.Submission{Source: string(source), Language: language}, task, c.ResourceLimits)
			if err != nil {
				var jerr *judge.Error
				if errors.As(err, &jerr) && jerr.Kind == judge.ErrCompileError {
					if jsonOutput {
						return judgeout.WriteJSON(judge.GradedTask{Verdict: judge.CompileError}, outputPath)
					}
					fmt.Fprintf(os.Stderr, "%s\n%s\n", judgeout.Colored(judge.CompileError), jerr.Stderr)
					os.Exit(1)
				}
				return err
			}

			graded := judge.Grade(task, results)

			if jsonOutput {
				return judgeout.WriteJSON(graded, outputPath)
			}

			fmt.Printf("%s (score %d)\n", judgeout.Colored(graded.Verdict), graded.Score)
			for i, subtask := range graded.Subtasks {
				fmt.Printf("  subtask %d: %s (%d/%d)\n", i+1, judgeout.Colored(subtask.Verdict), subtask.Score, len(subtask.Tests))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&contestDir, "contest", "", "Contest directory")
	cmd.Flags().StringVar(&taskName, "task", "", "Task name")
	cmd.Flags().StringVar(&submission, "submission", "", "Path to the submission source file")
	cmd.Flags().StringVar(&language, "language", "", "Language name, as declared in the judge config")
	cmd.Flags().StringVar(&configPath, "config", "judge.toml", "Path to the judge configuration file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "-", "Output file path (- for stdout); only used with --json")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Write the graded task as JSON instead of a terminal summary")
	cmd.MarkFlagRequired("contest")
	cmd.MarkFlagRequired("task")
	cmd.MarkFlagRequired("submission")
	cmd.MarkFlagRequired("language")

	return cmd
}

func newContestCmd() *cobra.Command {
	contestCmd := &cobra.Command{Use: "contest", Short: "Inspect contest directories"}

	var dir string
	validateCmd := &cobra.Command{
		Use:   "validate <dir>",
		Short: "Load a contest and report its task/test counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir = args[0]
			c, err := contest.Load(dir)
			if err != nil {
				return err
			}
			fmt.Printf("contest %q: %d task(s)\n", c.Name, len(c.Tasks))
			for _, task := range c.Tasks {
				fmt.Printf("  %-20s %d subtask(s), %d test(s)\n", task.Name, len(task.Subtasks), len(task.Tests))
			}
			return nil
		},
	}
	contestCmd.AddCommand(validateCmd)
	return contestCmd
}

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{Use: "serve", Short: "Run long-lived servers"}

	var configPath string
	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the Model Context Protocol server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := judge.LoadConfig(configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := mcpsrv.NewServer(version, cfg)
			return srv.Start(ctx)
		},
	}
	mcpCmd.Flags().StringVar(&configPath, "config", "judge.toml", "Path to the judge configuration file")
	serveCmd.AddCommand(mcpCmd)
	return serveCmd
}
