package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/epistemic-frontier/metamath-logic/build"
	"github.com/epistemic-frontier/metamath-logic/formatter"
	"github.com/epistemic-frontier/metamath-logic/internal"
	tt "github.com/epistemic-frontier/metamath-logic/internal/types"
)

var (
	buildJsonOutput bool
	buildOutPath    string
	outDirOverride  string
	noCache         bool
	watchMode       bool
)

var buildCmd = &cobra.Command{
	Use:   "build [paths...]",
	Short: "Assemble logic packages and write their artifacts",
	Run: func(cmd *cobra.Command, args []string) {
		config := loadConfig(logger, cfgFile)
		if outDirOverride != "" {
			config.OutDir = outDirOverride
		}
		if noCache {
			config.CacheDir = ""
		}

		runner, err := build.New(logger, config)
		if err != nil {
			logger.Fatal("Failed to initialize build runner", zap.Error(err))
		}

		if watchMode {
			runWatchedBuild(logger, runner, args)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		runBuildProcess(ctx, logger, runner, loadSpecs(logger, args), buildJsonOutput, buildOutPath)
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildJsonOutput, "json", false, "Output issues in JSON format")
	buildCmd.Flags().StringVarP(&buildOutPath, "output", "o", "", "Output path (when using JSON)")
	buildCmd.Flags().StringVar(&outDirOverride, "out-dir", "", "Override the artifact output directory")
	buildCmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable the build cache")
	buildCmd.Flags().BoolVar(&watchMode, "watch", false, "Rebuild when package manifests change")
}

// loadConfig reads the workspace configuration, falling back to
// .mlc.yaml in the working directory and then to the defaults.
func loadConfig(logger *zap.Logger, path string) build.Config {
	if path == "" {
		if _, err := os.Stat(build.ConfigFileName); err != nil {
			return build.DefaultConfig()
		}
		path = build.ConfigFileName
	}
	config, err := build.ParseConfigFile(path)
	if err != nil {
		logger.Fatal("Failed to read workspace configuration", zap.String("path", path), zap.Error(err))
	}
	return config
}

// loadSpecs resolves the build set: manifests under the given paths, or
// the packages shipped with the compiler when no paths are named.
func loadSpecs(logger *zap.Logger, paths []string) []internal.PackageSpec {
	if len(paths) == 0 {
		return build.DefaultWorkspace()
	}
	specs, err := build.LoadManifests(paths)
	if err != nil {
		logger.Fatal("Failed to load package manifests", zap.Error(err))
	}
	if len(specs) == 0 {
		logger.Fatal("No package manifests found", zap.Strings("paths", paths))
	}
	return specs
}

func runBuildProcess(ctx context.Context, logger *zap.Logger, runner *build.Runner, specs []internal.PackageSpec, isJson bool, jsonOutput string) {
	results, err := runner.BuildSpecs(ctx, specs)
	if err != nil {
		logger.Error("Build failed", zap.Error(err))
		os.Exit(1)
	}

	if printResults(logger, results, isJson, jsonOutput) > 0 {
		os.Exit(1)
	}
}

// printResults reports the build outcome and returns the issue count.
func printResults(logger *zap.Logger, results []build.Result, isJson bool, jsonOutput string) int {
	issuesByPackage := make(map[string][]tt.Issue)
	total := 0
	for _, res := range results {
		if len(res.Issues) > 0 {
			issuesByPackage[res.Package] = res.Issues
			total += len(res.Issues)
		}
	}

	if !isJson {
		// text output
		for _, res := range results {
			status := fmt.Sprintf("%d statements", len(res.Artifact.Statements))
			if res.Cached {
				status += " (cached)"
			}
			if res.Path != "" {
				fmt.Printf("%s: %s -> %s\n", res.Package, status, res.Path)
			} else {
				fmt.Printf("%s: %s\n", res.Package, status)
			}
		}
		for _, res := range results {
			if len(res.Issues) == 0 {
				continue
			}
			fmt.Println(formatter.GenerateFormattedIssue(res.Issues))
		}
		return total
	}

	// JSON output
	d, err := json.Marshal(issuesByPackage)
	if err != nil {
		logger.Error("Error marshalling issues to JSON", zap.Error(err))
		return total
	}
	if jsonOutput == "" {
		fmt.Println(string(d))
		return total
	}
	f, err := os.Create(jsonOutput)
	if err != nil {
		logger.Error("Error creating JSON output file", zap.Error(err))
		return total
	}
	defer f.Close()
	if _, err := f.Write(d); err != nil {
		logger.Error("Error writing JSON output", zap.Error(err))
	}
	return total
}

// runWatchedBuild rebuilds the manifest workspace whenever a manifest
// under the given roots changes, until interrupted. Each rebuild gets
// its own timeout.
func runWatchedBuild(logger *zap.Logger, runner *build.Runner, paths []string) {
	if len(paths) == 0 {
		logger.Fatal("Watch mode requires manifest paths to watch")
	}

	rebuild := func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		specs, err := build.LoadManifests(paths)
		if err != nil {
			logger.Error("Failed to load package manifests", zap.Error(err))
			return
		}
		results, err := runner.BuildSpecs(ctx, specs)
		if err != nil {
			logger.Error("Build failed", zap.Error(err))
			return
		}
		printResults(logger, results, false, "")
	}

	rebuild()

	watcher, err := internal.NewWatcher(logger, paths, func(string) { rebuild() })
	if err != nil {
		logger.Fatal("Failed to create watcher", zap.Error(err))
	}
	if err := watcher.StartWatching(); err != nil {
		logger.Fatal("Failed to start watching", zap.Error(err))
	}
	defer func() { _ = watcher.StopWatching() }()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-sigCtx.Done()
}
