package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/epistemic-frontier/metamath-logic/build"
	"github.com/epistemic-frontier/metamath-logic/internal/analysis/dag"
)

// variable for flags
var (
	graphLabel  string
	graphOutput string
)

var graphCmd = &cobra.Command{
	Use:   "graph [paths...]",
	Short: "Render a proof dependency graph",
	Long: `Outputs the justification graph of the named assertion in GraphViz dot
form, or renders it to an image file.
Example) mlc graph --label syl -o syl.svg`,
	Run: func(cmd *cobra.Command, args []string) {
		if graphLabel == "" {
			fmt.Println("error: Please provide an assertion label with --label")
			os.Exit(1)
		}
		// timeout is a global variable declared in root.go
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		runGraphAnalysis(ctx, logger, args, graphLabel, graphOutput)
	},
}

func init() {
	graphCmd.Flags().StringVar(&graphLabel, "label", "", "Assertion label to graph")
	graphCmd.Flags().StringVarP(&graphOutput, "output", "o", "", "Output path for rendered GraphViz file")
}

func runGraphAnalysis(ctx context.Context, logger *zap.Logger, paths []string, label string, output string) {
	config := loadConfig(logger, cfgFile)
	// graphing needs the in-memory assembly, not the disk artifact
	config.OutDir = ""
	config.CacheDir = ""

	runner, err := build.New(logger, config)
	if err != nil {
		logger.Fatal("Failed to initialize build runner", zap.Error(err))
	}

	specs := loadSpecs(logger, paths)
	if _, err := runner.BuildSpecs(ctx, specs); err != nil {
		logger.Error("Build failed", zap.Error(err))
		os.Exit(1)
	}

	labelFound := false
	for _, spec := range specs {
		pkg, ok := runner.Package(spec.Name)
		if !ok {
			continue
		}
		entry, ok := pkg.Lookup(label)
		if !ok {
			continue
		}
		labelFound = true

		if entry.Lowered == nil {
			logger.Error("Assertion carries no proof",
				zap.String("label", label), zap.String("package", spec.Name))
			os.Exit(1)
		}

		graph := dag.FromProof(entry.Lowered, pkg.Skeleton())
		var buf strings.Builder
		graph.PrintDot(&buf, nil)

		if output != "" {
			if err := dag.RenderToGraphVizFile([]byte(buf.String()), output); err != nil {
				logger.Error("Failed to render graph", zap.Error(err))
				os.Exit(1)
			}
			fmt.Printf("Graph rendered to %s\n", output)
		} else {
			fmt.Println(buf.String())
		}
		break
	}

	if !labelFound {
		logger.Error("Assertion not found in workspace", zap.String("label", label))
		os.Exit(1)
	}
}
