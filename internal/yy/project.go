package yy

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// Ref is the {name, path} pair GameMaker uses to point at another file.
type Ref struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// ResourceEntry is one item of the manifest's "resources" list.
type ResourceEntry struct {
	ID Ref `json:"id"`
}

// Kind is the resource directory: "scripts", "objects", "sprites", ...
func (e ResourceEntry) Kind() string {
	kind, _, _ := strings.Cut(e.ID.Path, "/")
	return kind
}

// Folder is a virtual folder of the IDE's asset browser.
type Folder struct {
	Name       string `json:"name"`
	FolderPath string `json:"folderPath"`
}

// Project is a parsed .yyp manifest.
type Project struct {
	Object
}

// ReadProject reads the manifest at name.
func ReadProject(fs billy.Filesystem, name string) (*Project, error) {
	var p Project
	if err := readFile(fs, name, &p.Object); err != nil {
		return nil, err
	}
	return &p, nil
}

// ParseProject decodes manifest text already in memory.
func ParseProject(data []byte) (*Project, error) {
	var p Project
	if err := Unmarshal(data, &p.Object); err != nil {
		return nil, err
	}
	return &p, nil
}

// WriteProject writes p to name.
func WriteProject(fs billy.Filesystem, name string, p *Project) error {
	return writeFile(fs, name, p.Object)
}

func (p *Project) Name() string { return p.String("name") }

// IDEVersion is MetaData.IDEVersion, or "" for manifests without it.
func (p *Project) IDEVersion() string {
	var meta struct {
		IDEVersion string `json:"IDEVersion"`
	}
	if err := p.Get("MetaData", &meta); err != nil {
		return ""
	}
	return meta.IDEVersion
}

// Resources lists the manifest's resources in file order.
func (p *Project) Resources() ([]ResourceEntry, error) {
	var out []ResourceEntry
	if err := p.Get("resources", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddResource appends an entry for the .yy file at yyPath
// ("scripts/foo/foo.yy"). An entry with the same path is not duplicated.
func (p *Project) AddResource(yyPath string) (ResourceEntry, error) {
	parts := strings.Split(path.Clean(yyPath), "/")
	if len(parts) < 3 || !strings.HasSuffix(yyPath, ".yy") {
		return ResourceEntry{}, fmt.Errorf("resource path %q: want <kind>/<name>/<name>.yy", yyPath)
	}
	parts = parts[len(parts)-3:]
	entry := ResourceEntry{ID: Ref{Name: parts[1], Path: strings.Join(parts, "/")}}

	var raw []json.RawMessage
	if err := p.Get("resources", &raw); err != nil {
		return ResourceEntry{}, err
	}
	have, err := p.Resources()
	if err != nil {
		return ResourceEntry{}, err
	}
	for _, r := range have {
		if r.ID.Path == entry.ID.Path {
			return r, nil
		}
	}
	enc, err := json.Marshal(entry)
	if err != nil {
		return ResourceEntry{}, err
	}
	raw = append(raw, enc)
	return entry, p.Set("resources", raw)
}

// Folders lists the manifest's virtual folders.
func (p *Project) Folders() ([]Folder, error) {
	var out []Folder
	if err := p.Get("Folders", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureFolder makes sure "folders/<parts...>.yy" exists for every prefix
// of parts and returns the innermost folder. added reports whether the
// manifest changed.
func (p *Project) EnsureFolder(parts []string) (folder Folder, added bool, err error) {
	var raw []json.RawMessage
	if err := p.Get("Folders", &raw); err != nil {
		return Folder{}, false, err
	}
	have, err := p.Folders()
	if err != nil {
		return Folder{}, false, err
	}
	known := make(map[string]Folder, len(have))
	for _, f := range have {
		known[f.FolderPath] = f
	}
	current := "folders/"
	for _, part := range parts {
		if part == "" {
			continue
		}
		fp := current + part + ".yy"
		f, ok := known[fp]
		if !ok {
			f = Folder{Name: part, FolderPath: fp}
			var obj Object
			for _, kv := range []struct {
				k string
				v any
			}{
				{"$GMFolder", ""},
				{"%Name", part},
				{"folderPath", fp},
				{"name", part},
				{"resourceType", "GMFolder"},
				{"resourceVersion", "2.0"},
			} {
				if err := obj.Set(kv.k, kv.v); err != nil {
					return Folder{}, false, err
				}
			}
			enc, err := json.Marshal(obj)
			if err != nil {
				return Folder{}, false, err
			}
			raw = append(raw, enc)
			known[fp] = f
			added = true
		}
		folder = f
		current += part + "/"
	}
	if folder.FolderPath == "" {
		return Folder{}, false, fmt.Errorf("empty folder path")
	}
	if added {
		if err := p.Set("Folders", raw); err != nil {
			return Folder{}, false, err
		}
	}
	return folder, added, nil
}

// AudioGroups lists the names of the manifest's audio groups.
func (p *Project) AudioGroups() ([]string, error) {
	var groups []struct {
		Name string `json:"name"`
	}
	if err := p.Get("AudioGroups", &groups); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		if g.Name != "" {
			out = append(out, g.Name)
		}
	}
	return out, nil
}
