package project

import (
	"cmp"
	"fmt"
	"slices"

	"gmlsem/internal/diag"
	"gmlsem/internal/symbols"
)

// processNew runs discovery over every code file of assets, then full
// resolution, then diagnostics. Passes never interleave.
func (p *Project) processNew(assets []*Asset) error {
	only := make(map[*Asset]bool, len(assets))
	for _, a := range assets {
		only[a] = true
	}
	codes := p.codesInOrder(only)

	idx := p.timer.Begin("discover")
	for _, c := range codes {
		p.discover(c)
	}
	p.timer.End(idx, fmt.Sprintf("%d files", len(codes)))
	p.progress(1, "Discovered globals")

	idx = p.timer.Begin("resolve")
	for _, c := range codes {
		p.resolve(c)
	}
	p.timer.End(idx, "")
	p.progress(1, "Resolved symbols")

	idx = p.timer.Begin("diagnose")
	for _, c := range codes {
		if err := p.diagnose(c); err != nil {
			return err
		}
	}
	p.timer.End(idx, "")
	p.progress(1, "Updated diagnostics")
	return nil
}

func (p *Project) parse(c *Code) {
	c.tree, c.parseDiags = parse(p.files.Get(c.File))
	c.State = CodeParsed
}

// discover is pass 1 for one file.
func (p *Project) discover(c *Code) {
	d := symbols.DiscoverGlobals(c.unit(p.files), p.env, c.discovery)
	c.discovery = d
	delete(p.rediscover, c)
	p.queueReferrers(d.Released, c)
	p.queueLosers(d.Released, c)
	p.queueUnresolved(d.Created, c)
}

// resolve is pass 2 for one file.
func (p *Project) resolve(c *Code) {
	r := symbols.ResolveFile(c.unit(p.files), p.env, c.resolution)
	c.resolution = r
	c.State = CodeResolved
	p.queueReferrers(r.Released, c)
	p.queueLosers(r.Released, c)
	p.queueUnresolved(r.Created, c)
}

// diagnose rebuilds the file's diagnostic list and emits it.
func (p *Project) diagnose(c *Code) error {
	var out []diag.Diagnostic
	out = append(out, c.parseDiags...)
	if c.discovery != nil {
		out = append(out, c.discovery.Diagnostics...)
	}
	if c.resolution != nil {
		out = append(out, c.resolution.Diagnostics...)
		if p.unresolvedOn {
			out = append(out, c.resolution.UnresolvedDiagnostics(p.unresolvedSev)...)
		}
	}
	if len(c.Asset.Codes) > 0 && c.Asset.Codes[0] == c {
		out = append(out, c.Asset.problems...)
	}
	diag.SortDiagnostics(out)
	if limit := p.cfg.Diagnostics.Max; limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	c.diags = out
	c.State = CodeDiagnosed
	return p.emit(c.Path, c.File, out)
}

// queue marks c for the next drain. Files waiting in the running batch are
// left alone: they resolve against the current tables anyway.
func (p *Project) queue(c *Code) {
	if c == nil {
		return
	}
	if _, waiting := p.pending[c]; waiting {
		return
	}
	p.dirty[c] = struct{}{}
}

// queueReferrers queues every file holding a reference to one of sigs.
func (p *Project) queueReferrers(sigs []*symbols.Signifier, except *Code) {
	for _, s := range sigs {
		for _, id := range s.Files() {
			if c := p.codes[id]; c != nil && c != except {
				p.queue(c)
			}
		}
	}
}

// queueLosers marks for rediscovery every file that lost one of the names
// of sigs to another declarer. The freed name goes to whichever of them
// runs first. Such files are queued even when they wait in the running
// batch, since resolving alone would not declare anything.
func (p *Project) queueLosers(sigs []*symbols.Signifier, except *Code) {
	if len(sigs) == 0 {
		return
	}
	names := make(map[string]struct{}, len(sigs))
	for _, s := range sigs {
		names[s.Name] = struct{}{}
	}
	for _, c := range p.codes {
		if c == except || !c.discovery.LostAny(names) {
			continue
		}
		p.rediscover[c] = struct{}{}
		p.dirty[c] = struct{}{}
	}
}

// queueUnresolved queues every file that failed to resolve one of the
// names just declared.
func (p *Project) queueUnresolved(sigs []*symbols.Signifier, except *Code) {
	if len(sigs) == 0 {
		return
	}
	names := make(map[string]struct{}, len(sigs))
	for _, s := range sigs {
		names[s.Name] = struct{}{}
	}
	for _, c := range p.codes {
		if c == except || c.resolution == nil {
			continue
		}
		for _, u := range c.resolution.Unresolved {
			if _, ok := names[u.Name]; ok {
				p.queue(c)
				break
			}
		}
	}
}

// drain processes the dirty queue until it stays empty: edited files are
// parsed and rediscovered, as are files waiting for a name another file
// released, then every queued file is resolved and its diagnostics
// emitted. Resolving may queue more files.
func (p *Project) drain() error {
	limit := len(p.codes) + 2
	for round := 0; len(p.dirty) > 0; round++ {
		if round >= limit {
			p.log.Warn("dirty queue did not settle", "files", len(p.dirty))
			clear(p.dirty)
			clear(p.rediscover)
			break
		}
		batch := p.takeDirty()
		p.pending = make(map[*Code]struct{}, len(batch))
		for _, c := range batch {
			p.pending[c] = struct{}{}
		}
		for _, c := range batch {
			_, again := p.rediscover[c]
			switch {
			case c.State == CodeUnparsed:
				p.parse(c)
				p.discover(c)
			case again:
				p.discover(c)
			}
		}
		for _, c := range batch {
			p.resolve(c)
			delete(p.pending, c)
		}
		for _, c := range batch {
			if err := p.diagnose(c); err != nil {
				p.pending = nil
				return err
			}
		}
		p.log.Debug("drained dirty files", "round", round, "files", len(batch))
	}
	p.pending = nil
	return nil
}

// takeDirty empties the queue in processing order.
func (p *Project) takeDirty() []*Code {
	out := make([]*Code, 0, len(p.dirty))
	for c := range p.dirty {
		out = append(out, c)
	}
	clear(p.dirty)
	slices.SortFunc(out, func(a, b *Code) int {
		if r := cmp.Compare(kindRank(a.Asset.Kind), kindRank(b.Asset.Kind)); r != 0 {
			return r
		}
		return cmp.Compare(a.Path, b.Path)
	})
	return out
}

// releaseCode takes the file's declarations out of the shared tables,
// drops its references and queues the files that used what it declared.
func (p *Project) releaseCode(c *Code) {
	released := c.resolution.Release(c.File, p.types)
	released = append(released, c.discovery.Release(p.types)...)
	c.resolution, c.discovery = nil, nil
	delete(p.codes, c.File)
	delete(p.dirty, c)
	delete(p.rediscover, c)
	p.files.Forget(c.Path)
	p.queueReferrers(released, c)
	p.queueLosers(released, c)
	// subscribers drop what they showed for the file
	c.diags = nil
	_ = p.emit(c.Path, c.File, nil)
}

// removeAsset is onRemove: it releases everything the asset declared and
// forgets it.
func (p *Project) removeAsset(a *Asset) {
	for _, c := range a.Codes {
		p.releaseCode(c)
	}
	if a.Global != nil && p.global.User(a.Global.Name) == a.Global {
		p.global.Members().Remove(a.Global.Name)
		p.queueReferrers([]*symbols.Signifier{a.Global}, nil)
		p.queueLosers([]*symbols.Signifier{a.Global}, nil)
	}
	if a.Self != nil {
		for _, other := range p.assets {
			if other.Self != nil && other.Self.Parent() == a.Self {
				other.Self.SetParent(nil)
				for _, c := range other.Codes {
					p.queue(c)
				}
			}
		}
	}
	delete(p.assets, a.Key)
	p.log.Debug("removed asset", "name", a.Name)
}

// emitManifestDiagnostics publishes the project-level diagnostics.
func (p *Project) emitManifestDiagnostics() error {
	diag.SortDiagnostics(p.manifestDiags)
	return p.emit(p.manifestPath, p.manifestID, p.manifestDiags)
}
