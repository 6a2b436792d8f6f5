package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5/util"

	"gmlsem/internal/diag"
	"gmlsem/internal/observ"
	"gmlsem/internal/source"
	"gmlsem/internal/symbols"
	"gmlsem/internal/yy"
)

// UpdateFile records new text for a GML file and queues it. Nothing is
// resolved until Flush. Text identical to the current content is a no-op.
// A new event file of a known object becomes part of that object.
func (p *Project) UpdateFile(name string, text []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	return p.update(name, text)
}

// Flush drains the dirty queue.
func (p *Project) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	return p.drain()
}

// ReloadFile is UpdateFile followed by Flush, under one lock.
func (p *Project) ReloadFile(name string, text []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if err := p.update(name, text); err != nil {
		return err
	}
	return p.drain()
}

func (p *Project) update(name string, text []byte) error {
	rel := p.rel(name)
	c := p.codeAt(rel)
	if c == nil {
		var err error
		if c, err = p.newEventFile(rel); err != nil {
			return err
		}
	}
	_, changed := p.files.Add(c.Path, text, 0)
	if !changed && c.State != CodeUnparsed {
		return nil
	}
	c.State = CodeUnparsed
	p.queue(c)
	return nil
}

// newEventFile adds a GML file that appeared in an object's directory.
func (p *Project) newEventFile(rel string) (*Code, error) {
	parts := strings.Split(rel, "/")
	if len(parts) != 3 || !strings.EqualFold(path.Ext(rel), ".gml") {
		return nil, fmt.Errorf("%s: %w", rel, ErrUnknownFile)
	}
	a := p.assets[foldName(parts[1])]
	if a == nil || !strings.EqualFold(parts[0], a.Kind) {
		return nil, fmt.Errorf("%s: %w", rel, ErrUnknownFile)
	}
	switch a.Kind {
	case KindObjects:
	case KindScripts:
		// a script owns exactly one file, <name>.gml
		if len(a.Codes) > 0 || !strings.EqualFold(parts[2], a.Name+".gml") {
			return nil, fmt.Errorf("%s: %w", rel, ErrUnknownFile)
		}
	default:
		return nil, fmt.Errorf("%s: %w", rel, ErrUnknownFile)
	}
	name := path.Join(a.Dir(), parts[2])
	id, _ := p.files.Add(name, nil, 0)
	c := &Code{Path: name, File: id, Asset: a}
	a.Codes = append(a.Codes, c)
	p.codes[id] = c
	return c, nil
}

// RemoveFile forgets a deleted GML file. Files that used what it declared
// are resolved again.
func (p *Project) RemoveFile(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	c := p.codeAt(p.rel(name))
	if c == nil {
		return fmt.Errorf("%s: %w", name, ErrUnknownFile)
	}
	a := c.Asset
	for i, have := range a.Codes {
		if have == c {
			a.Codes = append(a.Codes[:i:i], a.Codes[i+1:]...)
			break
		}
	}
	p.releaseCode(c)
	return p.drain()
}

// AddFolder ensures the virtual folder at folderPath ("Scripts/Utils")
// exists in the manifest and saves it.
func (p *Project) AddFolder(folderPath string) (yy.Folder, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return yy.Folder{}, ErrClosed
	}
	return p.addFolder(splitAssetPath(folderPath))
}

func (p *Project) addFolder(parts []string) (yy.Folder, error) {
	folder, added, err := p.manifest.EnsureFolder(parts)
	if err != nil {
		return yy.Folder{}, err
	}
	if err := p.saveManifest(); err != nil {
		return yy.Folder{}, err
	}
	if added {
		p.log.Info("added folder", "folder", folder.FolderPath)
	}
	return folder, nil
}

// AddScript creates a script; see AddResource.
func (p *Project) AddScript(assetPath string) (*Asset, error) {
	return p.AddResource(assetPath, KindScripts)
}

// AddObject creates an object with a Create event; see AddResource.
func (p *Project) AddObject(assetPath string) (*Asset, error) {
	return p.AddResource(assetPath, KindObjects)
}

// AddResource creates a script or object at assetPath: every segment but
// the last is a folder, the last is the asset name. It writes the .yy file
// and a stub GML file, saves the manifest, then loads and resolves the new
// asset.
func (p *Project) AddResource(assetPath, kind string) (*Asset, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}
	parts := splitAssetPath(assetPath)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%q: empty asset name", assetPath)
	}
	name := parts[len(parts)-1]
	folders := parts[:len(parts)-1]
	if existing, ok := p.assets[foldName(name)]; ok {
		return nil, fmt.Errorf("%w: %q (%s)", ErrNameCollision, name, existing.Kind)
	}
	if len(folders) == 0 {
		return nil, fmt.Errorf("%q: %w", assetPath, ErrRootResource)
	}
	var gml string
	switch kind {
	case KindScripts:
		gml = name + ".gml"
	case KindObjects:
		gml = "Create_0.gml"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownResourceKind, kind)
	}

	folder, err := p.addFolder(folders)
	if err != nil {
		return nil, err
	}
	var res *yy.Resource
	if kind == KindScripts {
		res, err = yy.NewScript(name, folder)
	} else {
		res, err = yy.NewObject(name, folder)
	}
	if err != nil {
		return nil, err
	}
	yyPath := yy.ResourcePath(kind, name)
	if err := yy.WriteResource(p.fs, yyPath, res); err != nil {
		return nil, fmt.Errorf("write %s: %w", yyPath, err)
	}
	gmlPath := path.Join(path.Dir(yyPath), gml)
	if err := util.WriteFile(p.fs, gmlPath, []byte("/// "), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", gmlPath, err)
	}
	entry, err := p.manifest.AddResource(yyPath)
	if err != nil {
		return nil, err
	}
	if err := p.saveManifest(); err != nil {
		return nil, err
	}

	p.timer = observ.NewTimer()
	added, err := p.loadAssets(context.Background(), []yy.ResourceEntry{entry}, 0)
	if err != nil {
		return nil, err
	}
	resources, _ := p.manifest.Resources()
	groups, _ := p.manifest.AudioGroups()
	p.identity = identityDigest(resources, groups)
	if err := p.settle(added); err != nil {
		return nil, err
	}
	p.log.Info("added resource", "name", name, "kind", kind, "path", yyPath)
	if len(added) == 0 {
		return nil, fmt.Errorf("%s: new resource could not be loaded", yyPath)
	}
	return added[0], nil
}

// settle wires freshly registered assets in: parents are relinked, the new
// code is discovered and resolved, and the dirty queue drained.
func (p *Project) settle(added []*Asset) error {
	for _, a := range p.linkParents() {
		for _, c := range a.Codes {
			p.queue(c)
		}
	}
	if err := p.processNew(added); err != nil {
		return err
	}
	if err := p.drain(); err != nil {
		return err
	}
	return p.emitManifestDiagnostics()
}

func splitAssetPath(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (p *Project) saveManifest() error {
	if err := yy.WriteProject(p.fs, p.manifestPath, p.manifest); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	data, err := readText(p.fs, p.manifestPath)
	if err != nil {
		return err
	}
	p.manifestID, _ = p.files.Add(p.manifestPath, data, 0)
	return nil
}

// Reconcile re-reads the manifest and brings the registry in line with it:
// vanished assets release their symbols and are dropped, new ones are
// loaded, discovered and resolved, then the dirty queue is drained. A
// manifest that no longer parses keeps the current state and is reported
// as a diagnostic.
func (p *Project) Reconcile(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	data, err := readText(p.fs, p.manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", p.manifestPath, ErrNoManifest)
		}
		return fmt.Errorf("read manifest: %w", err)
	}
	p.manifestID, _ = p.files.Add(p.manifestPath, data, 0)
	p.manifestDiags = dropCode(p.manifestDiags, diag.PrjManifestParse)

	manifest, err := yy.ParseProject(data)
	var resources []yy.ResourceEntry
	if err == nil {
		resources, err = manifest.Resources()
	}
	if err != nil {
		p.log.Warn("manifest unreadable; keeping the loaded project", "err", err)
		p.manifestDiags = append(p.manifestDiags, diag.NewError(diag.PrjManifestParse,
			source.Span{File: p.manifestID}, err.Error()))
		return p.emitManifestDiagnostics()
	}
	groups, _ := manifest.AudioGroups()
	p.manifest = manifest
	identity := identityDigest(resources, groups)
	if identity == p.identity {
		return p.emitManifestDiagnostics()
	}
	p.identity = identity
	p.timer = observ.NewTimer()

	keep := make(map[string]struct{}, len(resources))
	for _, e := range resources {
		keep[strings.ToLower(e.ID.Path)] = struct{}{}
	}
	var removed int
	for _, a := range p.sortedAssets() {
		if _, ok := keep[strings.ToLower(a.YyPath)]; !ok {
			p.removeAsset(a)
			removed++
		}
	}
	p.manifestDiags = dropCode(p.manifestDiags, diag.PrjMissingResourceFile)
	released := p.syncAudioGroups(groups)
	p.queueReferrers(released, nil)

	added, err := p.loadAssets(ctx, resources, 0)
	if err != nil {
		return err
	}
	p.queueNewGlobals(added)
	p.log.Info("reconciled manifest", "added", len(added), "removed", removed)
	return p.settle(added)
}

// queueNewGlobals queues files that failed to resolve a name the new
// assets or audio groups now bind.
func (p *Project) queueNewGlobals(added []*Asset) {
	var sigs []*symbols.Signifier
	for _, sig := range p.audioGroups {
		sigs = append(sigs, sig)
	}
	for _, a := range added {
		if a.Global != nil {
			sigs = append(sigs, a.Global)
		}
	}
	p.queueUnresolved(sigs, nil)
}

// codeAt finds the code file registered under the project-relative path.
func (p *Project) codeAt(rel string) *Code {
	id, ok := p.files.Lookup(rel)
	if !ok {
		return nil
	}
	return p.codes[id]
}

func dropCode(diags []diag.Diagnostic, code diag.Code) []diag.Diagnostic {
	return slices.DeleteFunc(diags, func(d diag.Diagnostic) bool { return d.Code == code })
}

// sortedAssets lists every asset by key.
func (p *Project) sortedAssets() []*Asset {
	out := make([]*Asset, 0, len(p.assets))
	for _, a := range p.assets {
		out = append(out, a)
	}
	slices.SortFunc(out, func(x, y *Asset) int { return strings.Compare(x.Key, y.Key) })
	return out
}
