// Package logic is the programmatic entry point to the logic-package
// compiler: thin wrappers over the build runner and the structural
// checker for embedding in other tools. The mlc command drives the same
// machinery through the cmd package.
package logic

import (
	"context"

	"go.uber.org/zap"

	"github.com/epistemic-frontier/metamath-logic/build"
	"github.com/epistemic-frontier/metamath-logic/internal"
	"github.com/epistemic-frontier/metamath-logic/internal/artifact"
	"github.com/epistemic-frontier/metamath-logic/internal/checker"
)

// Build assembles the given package specs in memory and returns the
// per-package results sorted by name. With no specs it builds the
// workspace shipped with the compiler. A nil logger runs silent.
func Build(ctx context.Context, logger *zap.Logger, specs ...internal.PackageSpec) ([]build.Result, error) {
	config := build.DefaultConfig()
	config.OutDir = ""
	config.CacheDir = ""

	runner, err := build.New(logger, config)
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		specs = build.DefaultWorkspace()
	}
	return runner.BuildSpecs(ctx, specs)
}

// Check runs the structural checker over the given artifacts. Every
// artifact's exports are registered before checking, so the set may
// import among itself in any order.
func Check(arts ...artifact.Artifact) []checker.Finding {
	chk := checker.NewArtifactChecker()
	for _, art := range arts {
		chk.RegisterImport(art.Package, art.Exported...)
	}

	var found []checker.Finding
	for _, art := range arts {
		found = append(found, chk.Check(art)...)
	}
	return found
}
