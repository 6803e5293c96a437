// Package build runs workspace builds: it orders package specs by their
// imports, assembles them through the internal pipeline, and writes the
// artifact and name-mapping files. It is the programmatic surface the
// mlc commands drive.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/epistemic-frontier/metamath-logic/hilbert"
	"github.com/epistemic-frontier/metamath-logic/hilbert/predicate"
	"github.com/epistemic-frontier/metamath-logic/internal"
	"github.com/epistemic-frontier/metamath-logic/internal/artifact"
	"github.com/epistemic-frontier/metamath-logic/internal/proof"
	"github.com/epistemic-frontier/metamath-logic/internal/symbols"
	tt "github.com/epistemic-frontier/metamath-logic/internal/types"
	"github.com/epistemic-frontier/metamath-logic/scanner"
)

// ConfigFileName is the workspace configuration file the commands look
// for in the working directory.
const ConfigFileName = ".mlc.yaml"

// PolicyConfig is the `policy` block of a workspace configuration.
type PolicyConfig struct {
	// AutoRegisterCanonical lets canonical-form spellings register
	// themselves on first use instead of failing resolution.
	AutoRegisterCanonical bool `yaml:"auto_register_canonical"`
	// AllowStubs permits unproven stub assertions in assembled
	// packages. When off, every stub becomes an error issue.
	AllowStubs bool `yaml:"allow_stubs"`
}

// Config represents the workspace configuration read from .mlc.yaml.
type Config struct {
	Name     string                   `yaml:"name"`
	OutDir   string                   `yaml:"out_dir"`
	CacheDir string                   `yaml:"cache_dir"`
	Verifier string                   `yaml:"verifier"`
	Policy   PolicyConfig             `yaml:"policy"`
	Rules    map[string]tt.ConfigRule `yaml:"rules"`
}

// DefaultConfig is the configuration used when no .mlc.yaml exists.
func DefaultConfig() Config {
	return Config{
		Name:     "metamath-logic",
		OutDir:   "dist",
		CacheDir: filepath.Join("dist", ".cache"),
		Policy:   PolicyConfig{AllowStubs: true},
	}
}

// ParseConfigFile reads a workspace configuration file. Absent keys keep
// their defaults.
func ParseConfigFile(configurationPath string) (Config, error) {
	config := DefaultConfig()

	f, err := os.Open(configurationPath)
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&config); err != nil {
		return config, err
	}

	return config, nil
}

// Result is one package's build outcome. Path and NamesPath are empty
// when the runner writes no files (empty OutDir).
type Result struct {
	Package   string
	Artifact  artifact.Artifact
	Hash      string
	Path      string
	NamesPath string
	Issues    []tt.Issue
	Cached    bool
}

// Runner builds workspaces of logic packages.
type Runner struct {
	logger    *zap.Logger
	config    Config
	assembler *internal.Assembler
	cache     *internal.Cache

	mu       sync.Mutex
	packages map[string]*internal.Package
}

// New creates a runner for the given configuration. An empty CacheDir
// disables the build cache.
func New(logger *zap.Logger, config Config) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		logger: logger,
		config: config,
		assembler: internal.NewAssembler(symbols.Policy{
			AutoRegisterCanonical: config.Policy.AutoRegisterCanonical,
		}, config.Rules),
		packages: make(map[string]*internal.Package),
	}
	if config.CacheDir != "" {
		cache, err := internal.NewCache(config.CacheDir)
		if err != nil {
			return nil, err
		}
		r.cache = cache
	}
	return r, nil
}

// DefaultWorkspace returns the shipped content packages.
func DefaultWorkspace() []internal.PackageSpec {
	return []internal.PackageSpec{hilbert.Spec(), predicate.Spec()}
}

// LoadManifests discovers and parses every package manifest under the
// given roots. A root may be a directory tree or a single manifest path.
func LoadManifests(roots []string) ([]internal.PackageSpec, error) {
	var specs []internal.PackageSpec
	for _, root := range roots {
		paths, err := scanner.FindManifests(root)
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			spec, err := internal.LoadManifest(path)
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
		}
	}
	return specs, nil
}

// BuildSpecs assembles the specs in dependency order: upstream waves
// complete before the packages importing them start, packages within a
// wave build in parallel under a worker bound. Results come back sorted
// by package name. Policy violations abort the run; per-assertion
// failures are collected on the results instead.
func (r *Runner) BuildSpecs(ctx context.Context, specs []internal.PackageSpec) ([]Result, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	g, err := newDepGraph(specs)
	if err != nil {
		return nil, err
	}
	waves, err := g.waves()
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	results := make(map[string]Result, len(specs))

	// lookupUpstream serves one import, preferring this run's results
	// and falling back to a previously written artifact.
	lookupUpstream := func(name string) (artifact.Artifact, string, error) {
		mu.Lock()
		res, ok := results[name]
		mu.Unlock()
		if ok {
			return res.Artifact, res.Hash, nil
		}
		if r.config.OutDir == "" {
			return artifact.Artifact{}, "", fmt.Errorf("import %q: not in this workspace and no output directory to load it from", name)
		}
		art, err := artifact.ReadArtifact(filepath.Join(r.config.OutDir, name+".json"))
		if err != nil {
			return artifact.Artifact{}, "", fmt.Errorf("import %q: %w", name, err)
		}
		data, err := artifact.Encode(art)
		if err != nil {
			return artifact.Artifact{}, "", err
		}
		return art, artifact.Hash(data), nil
	}

	maxWorkers := runtime.NumCPU()
	sem := make(chan struct{}, maxWorkers)

	bar := progressbar.NewOptions(len(specs),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(r.config.Name),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	for _, wave := range waves {
		resultChan := make(chan Result, len(wave))
		errorChan := make(chan error, len(wave))

		for _, spec := range wave {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
				sem <- struct{}{}
				go func(spec internal.PackageSpec) {
					defer func() { <-sem }()

					res, err := r.buildOne(spec, lookupUpstream)
					if err != nil {
						r.logger.Error("package build failed",
							zap.String("package", spec.Name), zap.Error(err))
						errorChan <- err
						resultChan <- Result{}
					} else {
						errorChan <- nil
						resultChan <- res
					}
					bar.Add(1)
				}(spec)
			}
		}

		var firstErr error
		for range wave {
			if err := <-errorChan; err != nil && firstErr == nil {
				firstErr = err
			}
			if res := <-resultChan; res.Package != "" {
				mu.Lock()
				results[res.Package] = res
				mu.Unlock()
			}
		}
		if firstErr != nil {
			fmt.Fprintln(os.Stderr)
			return nil, firstErr
		}
	}
	fmt.Fprintln(os.Stderr)

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	ordered := make([]Result, 0, len(results))
	for _, name := range names {
		ordered = append(ordered, results[name])
	}
	return ordered, nil
}

// Package returns the in-memory assembly of a package built by this
// runner. Cache hits restore no assembly; disable the cache when entry
// access is needed.
func (r *Runner) Package(name string) (*internal.Package, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pkg, ok := r.packages[name]
	return pkg, ok
}

// Build assembles a single spec, resolving its imports from previously
// written artifacts.
func (r *Runner) Build(ctx context.Context, spec internal.PackageSpec) (Result, error) {
	results, err := r.BuildSpecs(ctx, []internal.PackageSpec{spec})
	if err != nil {
		return Result{}, err
	}
	return results[0], nil
}

func (r *Runner) buildOne(spec internal.PackageSpec, lookupUpstream func(string) (artifact.Artifact, string, error)) (Result, error) {
	imports := make(map[string]proof.Imported)
	upstreamHashes := make(map[string]string, len(spec.Imports))
	for _, imp := range spec.Imports {
		art, hash, err := lookupUpstream(imp)
		if err != nil {
			return Result{}, fmt.Errorf("package %s: %w", spec.Name, err)
		}
		upstreamHashes[imp] = hash
		for label, bound := range internal.ImportedSet(art) {
			if _, ok := imports[label]; ok {
				return Result{}, fmt.Errorf("package %s: label %q arrives from two imports", spec.Name, label)
			}
			imports[label] = bound
		}
	}

	fingerprint := spec.Fingerprint()
	if r.cache != nil {
		if entry, ok := r.cache.Get(spec.Name, fingerprint, upstreamHashes); ok {
			r.logger.Debug("cache hit", zap.String("package", spec.Name))
			res := Result{
				Package:  spec.Name,
				Artifact: entry.Artifact,
				Hash:     entry.Hash,
				Issues:   entry.Issues,
				Cached:   true,
			}
			var err error
			res.Path, res.NamesPath, err = r.writeOutputs(entry.Artifact, entry.Names)
			if err != nil {
				return Result{}, err
			}
			return res, nil
		}
	}

	pkg, err := r.assembler.Assemble(spec, imports)
	if err != nil {
		return Result{}, err
	}
	r.mu.Lock()
	r.packages[spec.Name] = pkg
	r.mu.Unlock()

	issues := pkg.Issues
	if !r.config.Policy.AllowStubs {
		for _, e := range pkg.Entries {
			if !e.Stub {
				continue
			}
			issues = append(issues, tt.Issue{
				Rule:     "stub-present",
				Package:  spec.Name,
				Label:    e.Assertion.Label,
				Step:     -1,
				Severity: tt.SeverityError,
				Message:  "unproven stub in a workspace that forbids stubs",
			})
		}
	}

	art := pkg.Artifact()
	names := pkg.NameMapping()
	data, err := artifact.Encode(art)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Package:  spec.Name,
		Artifact: art,
		Hash:     artifact.Hash(data),
		Issues:   issues,
	}
	res.Path, res.NamesPath, err = r.writeOutputs(art, names)
	if err != nil {
		return Result{}, err
	}

	if r.cache != nil {
		if err := r.cache.Set(spec.Name, internal.CacheEntry{
			Fingerprint:    fingerprint,
			UpstreamHashes: upstreamHashes,
			Artifact:       art,
			Names:          names,
			Hash:           res.Hash,
			Issues:         issues,
		}); err != nil {
			r.logger.Warn("cache write failed", zap.String("package", spec.Name), zap.Error(err))
		}
	}

	r.logger.Info("package assembled",
		zap.String("package", spec.Name),
		zap.Int("statements", len(art.Statements)),
		zap.Int("issues", len(issues)))
	return res, nil
}

func (r *Runner) writeOutputs(art artifact.Artifact, names artifact.NameMapping) (string, string, error) {
	if r.config.OutDir == "" {
		return "", "", nil
	}
	path, _, err := artifact.WriteArtifact(r.config.OutDir, art)
	if err != nil {
		return "", "", err
	}
	namesPath, err := artifact.WriteNameMapping(r.config.OutDir, names)
	if err != nil {
		return "", "", err
	}
	return path, namesPath, nil
}
