package project

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"runtime"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"golang.org/x/sync/errgroup"

	"gmlsem/internal/ast"
	"gmlsem/internal/diag"
	"gmlsem/internal/native"
	"gmlsem/internal/observ"
	"gmlsem/internal/parser"
	"gmlsem/internal/project/dag"
	"gmlsem/internal/source"
	"gmlsem/internal/symbols"
	"gmlsem/internal/yy"
)

// Initialize (re)loads the whole project: manifest and native spec at the
// same time, then every asset, then global discovery, full resolution and
// diagnostics over all code in processing order.
func (p *Project) Initialize(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	return p.initialize(ctx)
}

func (p *Project) initialize(ctx context.Context) error {
	p.reset()
	p.timer = observ.NewTimer()
	log := p.log

	setup := p.timer.Begin("setup")
	var (
		manifestData []byte
		manifest     *yy.Project
		nat          *native.Native
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := util.ReadFile(p.fs, p.manifestPath)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%s: %w", p.manifestPath, ErrNoManifest)
			}
			return fmt.Errorf("read manifest: %w", err)
		}
		m, err := yy.ParseProject(data)
		if err != nil {
			return fmt.Errorf("%s: %w", p.manifestPath, err)
		}
		manifestData, manifest = data, m
		p.progress(5, "Loaded project file")
		return nil
	})
	g.Go(func() error {
		files, err := native.ListSpecFiles(native.ListOptions{
			RuntimeVersion: p.runtimeVersion(),
			SearchPaths:    p.searchPaths(),
			FS:             p.opts.specFS,
		})
		if err != nil {
			return err
		}
		// only the native tables are written here; the manifest side
		// touches none of them
		loaded, err := native.Load(files, p.global, p.natives, p.cache)
		if loaded == nil {
			return fmt.Errorf("load native spec: %w", err)
		}
		if err != nil {
			log.Warn("spec cache write failed", "err", err)
		}
		nat = loaded
		p.progress(5, "Loaded GML spec")
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	p.native = nat
	p.manifest = manifest
	p.manifestID, _ = p.files.Add(p.manifestPath, manifestData, 0)
	if nat.Fallback {
		p.manifestDiags = append(p.manifestDiags, diag.NewWarning(diag.PrjNativeSpecFallback,
			source.Span{File: p.manifestID},
			fmt.Sprintf("no GmlSpec.xml found for runtime %q; using the bundled spec", p.runtimeVersion())))
	}
	log.Info("native spec loaded", "files", nat.Files, "functions", nat.Functions, "fallback", nat.Fallback)
	p.timer.End(setup, fmt.Sprintf("%d builtins", nat.Functions+nat.Variables+nat.Constants))

	load := p.timer.Begin("load")
	resources, err := manifest.Resources()
	if err != nil {
		return fmt.Errorf("%s: resources: %w", p.manifestPath, err)
	}
	groups, err := manifest.AudioGroups()
	if err != nil {
		log.Warn("manifest audio groups unreadable", "err", err)
	}
	p.identity = identityDigest(resources, groups)
	p.syncAudioGroups(groups)
	added, err := p.loadAssets(ctx, resources, 80)
	if err != nil {
		return err
	}
	p.linkParents()
	p.timer.End(load, fmt.Sprintf("%d assets", len(p.assets)))
	p.progress(1, "Parsing resource code...")

	if err := p.processNew(added); err != nil {
		return err
	}
	// every file has just been resolved
	clear(p.dirty)
	clear(p.rediscover)
	if err := p.emitManifestDiagnostics(); err != nil {
		return err
	}
	log.Info("project loaded", "assets", len(p.assets), "files", len(p.codes), "ms", p.timer.Report().TotalMS)
	return nil
}

func (p *Project) runtimeVersion() string {
	if p.opts.runtime != "" {
		return p.opts.runtime
	}
	return p.cfg.Runtime.Version
}

func (p *Project) searchPaths() []string {
	if len(p.opts.searchPaths) > 0 {
		return p.opts.searchPaths
	}
	return p.cfg.Runtime.SearchPaths
}

// progress forwards to the progress callback one call at a time.
func (p *Project) progress(inc float64, msg string) {
	if p.opts.progress == nil {
		return
	}
	p.progMu.Lock()
	defer p.progMu.Unlock()
	p.opts.progress(Progress{Increment: inc, Message: msg})
}

// loaded is what one asset load read from disk. skip is set when the
// resource has to be left out.
type loaded struct {
	entry yy.ResourceEntry
	res   *yy.Resource
	files []loadedFile
	skip  string
}

type loadedFile struct {
	path  string
	id    source.FileID
	tree  *ast.File
	diags []diag.Diagnostic
}

// loadAssets reads and parses the entries not yet registered, in parallel,
// then registers them in manifest order. budget is the progress share of
// the whole batch.
func (p *Project) loadAssets(ctx context.Context, entries []yy.ResourceEntry, budget float64) ([]*Asset, error) {
	var todo []yy.ResourceEntry
	for _, e := range entries {
		if _, ok := p.assets[foldName(assetName(e))]; !ok {
			todo = append(todo, e)
		}
	}
	results := make([]*loaded, len(todo))
	inc := 0.0
	if len(todo) > 0 {
		inc = budget / float64(len(todo))
	}
	workers := p.opts.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0) * 2
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, e := range todo {
		i, e := i, e
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			l, err := p.loadAsset(e)
			if err != nil {
				return err
			}
			results[i] = l
			p.progress(inc, "Loaded asset "+assetName(e))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var added []*Asset
	for _, l := range results {
		if l.skip != "" {
			p.log.Warn("skipping resource", "name", assetName(l.entry), "reason", l.skip)
			p.manifestDiags = append(p.manifestDiags, diag.NewWarning(diag.PrjMissingResourceFile,
				p.manifestSpan(l.entry.ID.Path),
				fmt.Sprintf("resource %q skipped: %s", assetName(l.entry), l.skip)))
			continue
		}
		a, err := p.register(l)
		if err != nil {
			return nil, err
		}
		added = append(added, a)
	}
	return added, nil
}

func assetName(e yy.ResourceEntry) string {
	if e.ID.Name != "" {
		return e.ID.Name
	}
	parts := strings.Split(e.ID.Path, "/")
	if len(parts) > 1 {
		return parts[1]
	}
	return e.ID.Path
}

// loadAsset reads the resource's .yy file and, for scripts and objects,
// parses its GML files. It runs on a worker goroutine and touches no
// project state except the FileSet.
func (p *Project) loadAsset(e yy.ResourceEntry) (*loaded, error) {
	l := &loaded{entry: e}
	res, err := yy.ReadResource(p.fs, e.ID.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.skip = e.ID.Path + " is missing"
		} else {
			l.skip = err.Error()
		}
		return l, nil
	}
	l.res = res
	dir := path.Dir(e.ID.Path)
	var names []string
	switch e.Kind() {
	case KindScripts:
		names = []string{path.Join(dir, assetName(e)+".gml")}
	case KindObjects:
		infos, err := p.fs.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", dir, err)
		}
		for _, info := range infos {
			if !info.IsDir() && strings.EqualFold(path.Ext(info.Name()), ".gml") {
				names = append(names, path.Join(dir, info.Name()))
			}
		}
		slices.Sort(names)
	}
	for _, name := range names {
		data, err := readText(p.fs, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				l.skip = name + " is missing"
				return l, nil
			}
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		id, _ := p.files.Add(name, data, 0)
		tree, diags := parse(p.files.Get(id))
		l.files = append(l.files, loadedFile{path: name, id: id, tree: tree, diags: diags})
	}
	return l, nil
}

func readText(fsys billy.Filesystem, name string) ([]byte, error) {
	return util.ReadFile(fsys, name)
}

func parse(f *source.File) (*ast.File, []diag.Diagnostic) {
	bag := diag.NewBag(0)
	res := parser.ParseFile(f, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	return res.File, bag.Items()
}

// register adds a loaded asset to the registry. A name that is already
// taken is a broken manifest and fails the load.
func (p *Project) register(l *loaded) (*Asset, error) {
	name := assetName(l.entry)
	key := foldName(name)
	if prev, ok := p.assets[key]; ok {
		return nil, fmt.Errorf("%w: %q (%s and %s)", ErrDuplicateAsset, name, prev.YyPath, l.entry.ID.Path)
	}
	a := &Asset{
		Name:         name,
		Key:          key,
		Kind:         l.entry.Kind(),
		YyPath:       l.entry.ID.Path,
		ResourceType: l.res.ResourceType(),
	}
	if a.ResourceType == "" {
		a.ResourceType = resourceTypes[a.Kind]
	}
	if a.Kind == KindObjects {
		a.Self = symbols.NewInstanceSelf(name)
		if ref, err := l.res.ParentObject(); err != nil {
			p.log.Warn("unreadable parent object", "object", name, "err", err)
		} else if ref != nil {
			a.Parent = ref.Name
		}
	}
	if a.Kind != KindScripts {
		a.Global = p.declareAssetGlobal(a)
	}
	for _, f := range l.files {
		c := &Code{
			Path:       f.path,
			File:       f.id,
			Asset:      a,
			State:      CodeParsed,
			tree:       f.tree,
			parseDiags: f.diags,
		}
		a.Codes = append(a.Codes, c)
		p.codes[f.id] = c
	}
	p.assets[key] = a
	p.log.Debug("registered asset", "name", name, "kind", a.Kind, "files", len(a.Codes))
	return a, nil
}

// declareAssetGlobal binds the asset name as a read-only global. A name
// some code already declared keeps its declaration.
func (p *Project) declareAssetGlobal(a *Asset) *symbols.Signifier {
	if p.global.User(a.Name) != nil || p.global.Native().Get(a.Name) != nil {
		p.log.Debug("asset name shadowed", "name", a.Name)
		return nil
	}
	sig := symbols.NewSignifier(a.Name, symbols.KindAsset, p.manifestSpan(a.YyPath))
	sig.Flags = symbols.FlagGlobal
	sig.Type = symbols.NewAsset(a.ResourceType)
	p.global.Members().Add(sig)
	return sig
}

// syncAudioGroups makes the manifest's audio groups read-only globals and
// drops the ones that disappeared.
func (p *Project) syncAudioGroups(groups []string) []*symbols.Signifier {
	want := make(map[string]struct{}, len(groups))
	for _, name := range groups {
		want[name] = struct{}{}
		if _, ok := p.audioGroups[name]; ok || p.global.User(name) != nil {
			continue
		}
		sig := symbols.NewSignifier(name, symbols.KindAsset, p.manifestSpan(name))
		sig.Flags = symbols.FlagGlobal
		sig.Type = symbols.NewAsset("GMAudioGroup")
		p.global.Members().Add(sig)
		p.audioGroups[name] = sig
	}
	var released []*symbols.Signifier
	for name, sig := range p.audioGroups {
		if _, ok := want[name]; ok {
			continue
		}
		if p.global.User(name) == sig {
			p.global.Members().Remove(name)
			released = append(released, sig)
		}
		delete(p.audioGroups, name)
	}
	return released
}

// manifestSpan locates the quoted text in the manifest, or the start of
// the file when it does not appear.
func (p *Project) manifestSpan(text string) source.Span {
	f := p.files.Get(p.manifestID)
	if f == nil {
		return source.Span{}
	}
	needle := []byte(`"` + text + `"`)
	if i := bytes.Index(f.Content, needle); i >= 0 {
		start := uint32(i) // #nosec G115 -- file size checked by FileSet
		return source.Span{File: f.ID, Start: start, End: start + uint32(len(needle))}
	}
	return source.Span{File: f.ID}
}

// linkParents points every object's instance context at its parent and
// records unknown or cyclic parents. It returns the objects whose parent
// link changed.
func (p *Project) linkParents() []*Asset {
	var changed []*Asset
	for _, a := range p.objectsInOrder() {
		a.problems = nil
		var parent *Asset
		if a.Parent != "" {
			parent = p.assets[foldName(a.Parent)]
			if parent == nil || parent.Self == nil {
				parent = nil
				a.problems = append(a.problems, p.objectProblem(a,
					fmt.Sprintf("parent object %q of %q does not exist", a.Parent, a.Name)))
			}
		}
		var want *symbols.InstanceSelf
		if parent != nil {
			want = parent.Self
		}
		if a.Self.Parent() == want {
			continue
		}
		if !a.Self.SetParent(want) {
			a.problems = append(a.problems, p.objectProblem(a,
				fmt.Sprintf("parent object %q of %q forms a cycle", a.Parent, a.Name)))
			if a.Self.Parent() != nil {
				a.Self.SetParent(nil)
			} else {
				continue
			}
		}
		changed = append(changed, a)
	}
	return changed
}

func (p *Project) objectProblem(a *Asset, msg string) diag.Diagnostic {
	span := p.manifestSpan(a.YyPath)
	if len(a.Codes) > 0 {
		span = source.Span{File: a.Codes[0].File}
	}
	return diag.NewWarning(diag.SemaUnknownParent, span, msg)
}

// objectsInOrder lists every object asset parents first.
func (p *Project) objectsInOrder() []*Asset {
	var nodes []dag.Node
	for _, a := range p.assets {
		if a.Kind == KindObjects {
			nodes = append(nodes, dag.Node{Name: a.Key, Parent: foldName(a.Parent)})
		}
	}
	order, _, cycles := dag.Order(nodes)
	if len(cycles) > 0 {
		p.log.Warn("object parent cycle", "objects", cycles)
	}
	out := make([]*Asset, 0, len(order))
	for _, key := range order {
		out = append(out, p.assets[key])
	}
	return out
}

// codesInOrder returns the code of the given assets in processing order:
// objects parents first, then scripts by name. nil means all assets.
func (p *Project) codesInOrder(only map[*Asset]bool) []*Code {
	var out []*Code
	for _, a := range p.objectsInOrder() {
		if only == nil || only[a] {
			out = append(out, a.Codes...)
		}
	}
	var scripts []*Asset
	for _, a := range p.assets {
		if a.Kind == KindScripts && (only == nil || only[a]) {
			scripts = append(scripts, a)
		}
	}
	slices.SortFunc(scripts, func(x, y *Asset) int { return strings.Compare(x.Key, y.Key) })
	for _, a := range scripts {
		out = append(out, a.Codes...)
	}
	return out
}
