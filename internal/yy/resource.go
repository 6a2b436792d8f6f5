package yy

import (
	"fmt"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// Event is one entry of an object's eventList.
type Event struct {
	EventType int  `json:"eventType"`
	EventNum  int  `json:"eventNum"`
	Collision *Ref `json:"collisionObjectId"`
}

var eventNames = map[int]string{
	0:  "Create",
	1:  "Destroy",
	2:  "Alarm",
	3:  "Step",
	4:  "Collision",
	5:  "Keyboard",
	6:  "Mouse",
	7:  "Other",
	8:  "Draw",
	9:  "KeyPress",
	10: "KeyRelease",
	12: "CleanUp",
	13: "Gesture",
}

// FileName is the .gml file holding the event's code, e.g. "Step_0.gml"
// or "Collision_obj_wall.gml".
func (e Event) FileName() string {
	name, ok := eventNames[e.EventType]
	if !ok {
		name = fmt.Sprintf("Event%d", e.EventType)
	}
	if e.EventType == 4 && e.Collision != nil {
		return name + "_" + e.Collision.Name + ".gml"
	}
	return fmt.Sprintf("%s_%d.gml", name, e.EventNum)
}

// Resource is a parsed .yy file.
type Resource struct {
	Object
}

func ReadResource(fs billy.Filesystem, name string) (*Resource, error) {
	var r Resource
	if err := readFile(fs, name, &r.Object); err != nil {
		return nil, err
	}
	return &r, nil
}

func WriteResource(fs billy.Filesystem, name string, r *Resource) error {
	return writeFile(fs, name, r.Object)
}

func (r *Resource) Name() string         { return r.String("name") }
func (r *Resource) ResourceType() string { return r.String("resourceType") }

// Folder returns the resource's folder in the asset browser.
func (r *Resource) Folder() (Ref, error) {
	var ref Ref
	err := r.Get("parent", &ref)
	return ref, err
}

// ParentObject returns the parent object of an object resource, or nil.
func (r *Resource) ParentObject() (*Ref, error) {
	var ref *Ref
	if err := r.Get("parentObjectId", &ref); err != nil {
		return nil, err
	}
	if ref == nil || ref.Name == "" {
		return nil, nil
	}
	return ref, nil
}

// Events returns an object's event list.
func (r *Resource) Events() ([]Event, error) {
	var out []Event
	if err := r.Get("eventList", &out); err != nil {
		return nil, err
	}
	return out, nil
}

type field struct {
	key string
	val any
}

func build(fields []field) (*Resource, error) {
	var r Resource
	for _, f := range fields {
		if err := r.Set(f.key, f.val); err != nil {
			return nil, err
		}
	}
	return &r, nil
}

func folderRef(f Folder) Ref {
	return Ref{Name: f.Name, Path: f.FolderPath}
}

// NewScript returns the .yy content of a new script.
func NewScript(name string, folder Folder) (*Resource, error) {
	return build([]field{
		{"$GMScript", ""},
		{"%Name", name},
		{"isCompatibility", false},
		{"isDnD", false},
		{"name", name},
		{"parent", folderRef(folder)},
		{"resourceType", "GMScript"},
		{"resourceVersion", "2.0"},
	})
}

// NewObject returns the .yy content of a new object with a Create event.
func NewObject(name string, folder Folder) (*Resource, error) {
	create := map[string]any{
		"$GMEvent":          "",
		"%Name":             "",
		"collisionObjectId": nil,
		"eventNum":          0,
		"eventType":         0,
		"isDnD":             false,
		"name":              "",
		"resourceType":      "GMEvent",
		"resourceVersion":   "2.0",
	}
	return build([]field{
		{"$GMObject", ""},
		{"%Name", name},
		{"eventList", []any{create}},
		{"managed", true},
		{"name", name},
		{"overriddenProperties", []any{}},
		{"parent", folderRef(folder)},
		{"parentObjectId", nil},
		{"persistent", false},
		{"physicsObject", false},
		{"properties", []any{}},
		{"resourceType", "GMObject"},
		{"resourceVersion", "2.0"},
		{"solid", false},
		{"spriteId", nil},
		{"spriteMaskId", nil},
		{"visible", true},
	})
}

// ResourcePath returns "<kind>/<name>/<name>.yy".
func ResourcePath(kind, name string) string {
	return strings.Join([]string{kind, name, name + ".yy"}, "/")
}
