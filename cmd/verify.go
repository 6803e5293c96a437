package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/epistemic-frontier/metamath-logic/build"
	"github.com/epistemic-frontier/metamath-logic/formatter"
	"github.com/epistemic-frontier/metamath-logic/internal/artifact"
	"github.com/epistemic-frontier/metamath-logic/internal/checker"
	"github.com/epistemic-frontier/metamath-logic/internal/verifier"
)

var skipExternal bool

var verifyCmd = &cobra.Command{
	Use:   "verify [artifacts...]",
	Short: "Check emitted artifacts for structural defects",
	Long: `Runs the structural checker over artifact files, registering each
artifact's exports so later arguments may import earlier ones. With a
verifier binary configured, each artifact is also re-checked externally.
Example) mlc verify dist/hilbert.json dist/predicate.json`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		config := loadConfig(logger, cfgFile)
		paths := args
		if len(paths) == 0 {
			matches, err := filepath.Glob(filepath.Join(config.OutDir, "*.json"))
			if err != nil {
				logger.Fatal("Failed to list artifacts", zap.String("out_dir", config.OutDir), zap.Error(err))
			}
			for _, m := range matches {
				// skip the name-mapping sidecars
				if strings.HasSuffix(m, ".names.json") {
					continue
				}
				paths = append(paths, m)
			}
			if len(paths) == 0 {
				logger.Fatal("No artifacts to verify", zap.String("out_dir", config.OutDir))
			}
		}

		runVerifyProcess(ctx, logger, config, paths)
	},
}

func init() {
	verifyCmd.Flags().BoolVar(&skipExternal, "skip-external", false, "Skip the configured external verifier")
}

func runVerifyProcess(ctx context.Context, logger *zap.Logger, config build.Config, paths []string) {
	chk := checker.NewArtifactChecker()

	// read everything first so artifacts may import each other
	// regardless of argument order
	arts := make(map[string]artifact.Artifact, len(paths))
	defects := 0
	for _, path := range paths {
		art, err := artifact.ReadArtifact(path)
		if err != nil {
			logger.Error("Failed to read artifact", zap.String("path", path), zap.Error(err))
			defects++
			continue
		}
		arts[path] = art
		chk.RegisterImport(art.Package, art.Exported...)
	}

	for _, path := range paths {
		art, ok := arts[path]
		if !ok {
			continue
		}

		findings := chk.Check(art)
		for _, f := range findings {
			fmt.Printf("%s: %s\n", path, f)
		}
		defects += len(findings)

		if config.Verifier != "" && !skipExternal {
			issues, err := verifier.External{Binary: config.Verifier}.Verify(ctx, path)
			if err != nil {
				logger.Error("External verifier failed", zap.String("path", path), zap.Error(err))
				defects++
				continue
			}
			if len(issues) > 0 {
				fmt.Println(formatter.GenerateFormattedIssue(issues))
				defects += len(issues)
			}
		}
	}

	if defects > 0 {
		os.Exit(1)
	}
	fmt.Printf("verified %d artifact(s)\n", len(paths))
}
