package project

import (
	"path"
	"strings"

	"golang.org/x/text/cases"

	"gmlsem/internal/ast"
	"gmlsem/internal/diag"
	"gmlsem/internal/source"
	"gmlsem/internal/symbols"
)

const (
	KindScripts = "scripts"
	KindObjects = "objects"
)

// resourceTypes maps a resource directory to the GameMaker type name used
// when the .yy file does not say.
var resourceTypes = map[string]string{
	"scripts":    "GMScript",
	"objects":    "GMObject",
	"sprites":    "GMSprite",
	"sounds":     "GMSound",
	"rooms":      "GMRoom",
	"paths":      "GMPath",
	"fonts":      "GMFont",
	"tilesets":   "GMTileSet",
	"timelines":  "GMTimeline",
	"shaders":    "GMShader",
	"sequences":  "GMSequence",
	"animcurves": "GMAnimCurve",
	"notes":      "GMNotes",
	"extensions": "GMExtension",
	"particles":  "GMParticleSystem",
}

// foldName is the case-insensitive key of an asset name.
func foldName(name string) string {
	return cases.Fold().String(name)
}

// Asset is one manifest resource. Only scripts and objects own code.
type Asset struct {
	Name         string
	Key          string
	Kind         string
	YyPath       string
	ResourceType string
	// Parent is the parent object's name as written in the .yy file.
	Parent string
	Codes  []*Code
	// Self is the instance context of an object, nil for other kinds.
	Self *symbols.InstanceSelf
	// Global is the asset-name global; scripts have none.
	Global *symbols.Signifier

	// problems are project-level diagnostics attached to the first code file.
	problems []diag.Diagnostic
}

// Dir is the resource directory, e.g. "objects/o_player".
func (a *Asset) Dir() string { return path.Dir(a.YyPath) }

// HasCode reports whether the asset kind owns GML files.
func (a *Asset) HasCode() bool { return a.Kind == KindScripts || a.Kind == KindObjects }

func (a *Asset) code(p string) *Code {
	for _, c := range a.Codes {
		if strings.EqualFold(c.Path, p) {
			return c
		}
	}
	return nil
}

type CodeState uint8

const (
	CodeUnparsed CodeState = iota
	CodeParsed
	CodeResolved
	CodeDiagnosed
)

func (s CodeState) String() string {
	switch s {
	case CodeParsed:
		return "parsed"
	case CodeResolved:
		return "resolved"
	case CodeDiagnosed:
		return "diagnosed"
	}
	return "unparsed"
}

// Code is one GML file of an asset.
type Code struct {
	Path  string
	File  source.FileID
	Asset *Asset
	State CodeState

	tree       *ast.File
	parseDiags []diag.Diagnostic
	discovery  *symbols.Discovery
	resolution *symbols.Resolution
	diags      []diag.Diagnostic
}

func (c *Code) Tree() *ast.File { return c.tree }

func (c *Code) Ranges() symbols.ScopeRanges {
	if c.resolution == nil {
		return nil
	}
	return c.resolution.Ranges
}

func (c *Code) Refs() []symbols.RefEntry {
	if c.resolution == nil {
		return nil
	}
	return c.resolution.Refs
}

func (c *Code) Unresolved() []symbols.Unresolved {
	if c.resolution == nil {
		return nil
	}
	return c.resolution.Unresolved
}

// Diagnostics returns the list last emitted for the file.
func (c *Code) Diagnostics() []diag.Diagnostic {
	return append([]diag.Diagnostic(nil), c.diags...)
}

// self is the top-level context of the file: nil (global) for scripts.
func (c *Code) self() symbols.Self {
	if c.Asset.Self == nil {
		return nil
	}
	return c.Asset.Self
}

func (c *Code) unit(files *source.FileSet) symbols.Unit {
	return symbols.Unit{File: files.Get(c.File), Tree: c.tree, Self: c.self()}
}

// kindRank orders kinds for the passes: assets without code, then objects,
// then scripts.
func kindRank(kind string) int {
	switch kind {
	case KindObjects:
		return 1
	case KindScripts:
		return 2
	}
	return 0
}
