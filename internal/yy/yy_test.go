package yy

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

const manifest = `{
  "$GMProject": "",
  "%Name": "Demo",
  "AudioGroups": [
    {"$GMAudioGroup":"v1","%Name":"audiogroup_default","name":"audiogroup_default","resourceType":"GMAudioGroup","targets":-1,},
    {"name":"ag_music",},
  ],
  "Folders": [
    {"$GMFolder":"","%Name":"Scripts","folderPath":"folders/Scripts.yy","name":"Scripts","resourceType":"GMFolder","resourceVersion":"2.0",},
  ],
  "MetaData": {"IDEVersion":"2024.2.0.132",},
  "name": "Demo",
  "resources": [
    {"id":{"name":"scr_util","path":"scripts/scr_util/scr_util.yy",},},
    {"id":{"name":"obj_player","path":"objects/obj_player/obj_player.yy",},},
    {"id":{"name":"spr_player","path":"sprites/spr_player/spr_player.yy",},},
  ],
  "templateType": "game, with, commas,",
  "bigNumber": 9007199254740993,
}`

func TestStripTrailingCommas(t *testing.T) {
	cases := map[string]string{
		`[1,2,]`:             `[1,2]`,
		`{"a":1 , }`:         `{"a":1  }`,
		`{"s":",]"}`:         `{"s":",]"}`,
		`{"s":"q\",}",}`:     `{"s":"q\",}"}`,
		"[\r\n  1,\r\n]":     "[\r\n  1\r\n]",
		`{"a":[1,],"b":{},}`: `{"a":[1],"b":{}}`,
	}
	for in, want := range cases {
		if got := string(StripTrailingCommas([]byte(in))); got != want {
			t.Fatalf("StripTrailingCommas(%q) = %q, want %q", in, got, want)
		}
	}
}

func writeManifest(t *testing.T) *Project {
	t.Helper()
	fs := memfs.New()
	if err := util.WriteFile(fs, "Demo.yyp", []byte(manifest), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err := ReadProject(fs, "Demo.yyp")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return p
}

func TestReadProject(t *testing.T) {
	p := writeManifest(t)
	if p.Name() != "Demo" || p.IDEVersion() != "2024.2.0.132" {
		t.Fatalf("name=%q ide=%q", p.Name(), p.IDEVersion())
	}
	res, err := p.Resources()
	if err != nil || len(res) != 3 {
		t.Fatalf("resources = %v, %v", res, err)
	}
	if res[1].ID.Name != "obj_player" || res[1].Kind() != "objects" {
		t.Fatalf("entry = %+v", res[1])
	}
	groups, _ := p.AudioGroups()
	if len(groups) != 2 || groups[1] != "ag_music" {
		t.Fatalf("audio groups = %v", groups)
	}
}

func TestProjectRoundTrip(t *testing.T) {
	fs := memfs.New()
	p := writeManifest(t)
	if _, err := p.AddResource("scripts/scr_new/scr_new.yy"); err != nil {
		t.Fatalf("add resource: %v", err)
	}
	if _, err := p.AddResource("scripts/scr_new/scr_new.yy"); err != nil {
		t.Fatalf("re-add resource: %v", err)
	}
	folder, added, err := p.EnsureFolder([]string{"Scripts", "Util"})
	if err != nil || !added || folder.FolderPath != "folders/Scripts/Util.yy" {
		t.Fatalf("folder = %+v added=%v err=%v", folder, added, err)
	}
	if _, added, _ := p.EnsureFolder([]string{"Scripts", "Util"}); added {
		t.Fatalf("EnsureFolder is not idempotent")
	}
	if err := WriteProject(fs, "out/Demo.yyp", p); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, _ := util.ReadFile(fs, "out/Demo.yyp")
	if !bytes.Contains(data, []byte("\r\n    \"%Name\": \"Demo\"")) {
		t.Fatalf("output is not CRLF with 4-space indent:\n%s", data)
	}
	if bytes.Contains(bytes.ReplaceAll(data, []byte("\r\n"), nil), []byte("\n")) {
		t.Fatalf("bare LF in output")
	}
	if !bytes.Contains(data, []byte("9007199254740993")) {
		t.Fatalf("large integer lost precision")
	}
	if strings.Index(string(data), "$GMProject") > strings.Index(string(data), "resources") {
		t.Fatalf("key order not preserved")
	}

	back, err := ReadProject(fs, "out/Demo.yyp")
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	res, _ := back.Resources()
	if len(res) != 4 || res[3].ID.Name != "scr_new" {
		t.Fatalf("resources after round trip = %+v", res)
	}
	folders, _ := back.Folders()
	if len(folders) != 2 {
		t.Fatalf("folders after round trip = %+v", folders)
	}
	if back.String("templateType") != "game, with, commas," {
		t.Fatalf("string content with commas was altered")
	}
	if entries, _ := fs.ReadDir("out"); len(entries) != 1 {
		t.Fatalf("temporary files left behind: %d entries", len(entries))
	}
}

func TestAddResourceRejectsBadPath(t *testing.T) {
	p := writeManifest(t)
	if _, err := p.AddResource("scr_new.yy"); err == nil {
		t.Fatalf("short path accepted")
	}
	if _, err := p.AddResource("scripts/a/a.gml"); err == nil {
		t.Fatalf("non-yy path accepted")
	}
}

func TestObjectResource(t *testing.T) {
	fs := memfs.New()
	src := `{"name":"obj_boss","parentObjectId":{"name":"obj_enemy","path":"objects/obj_enemy/obj_enemy.yy",},
"eventList":[{"eventNum":0,"eventType":0,"collisionObjectId":null,},{"eventNum":0,"eventType":4,"collisionObjectId":{"name":"obj_wall","path":"objects/obj_wall/obj_wall.yy",},},{"eventNum":2,"eventType":2,"collisionObjectId":null,},],
"resourceType":"GMObject",}`
	if err := util.WriteFile(fs, "objects/obj_boss/obj_boss.yy", []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, err := ReadResource(fs, "objects/obj_boss/obj_boss.yy")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	parent, err := r.ParentObject()
	if err != nil || parent == nil || parent.Name != "obj_enemy" {
		t.Fatalf("parent = %+v, %v", parent, err)
	}
	events, _ := r.Events()
	var names []string
	for _, e := range events {
		names = append(names, e.FileName())
	}
	if got := strings.Join(names, ","); got != "Create_0.gml,Collision_obj_wall.gml,Alarm_2.gml" {
		t.Fatalf("event files = %s", got)
	}
}

func TestNewResources(t *testing.T) {
	folder := Folder{Name: "Util", FolderPath: "folders/Scripts/Util.yy"}
	s, err := NewScript("scr_math", folder)
	if err != nil {
		t.Fatalf("new script: %v", err)
	}
	if s.Name() != "scr_math" || s.ResourceType() != "GMScript" {
		t.Fatalf("script = %v", s.Keys())
	}
	if ref, _ := s.Folder(); ref.Path != folder.FolderPath {
		t.Fatalf("script folder = %+v", ref)
	}
	o, err := NewObject("obj_new", folder)
	if err != nil {
		t.Fatalf("new object: %v", err)
	}
	events, _ := o.Events()
	if len(events) != 1 || events[0].FileName() != "Create_0.gml" {
		t.Fatalf("object events = %+v", events)
	}
	if p, _ := o.ParentObject(); p != nil {
		t.Fatalf("new object has a parent")
	}
	if ResourcePath("objects", "obj_new") != "objects/obj_new/obj_new.yy" {
		t.Fatalf("ResourcePath = %s", ResourcePath("objects", "obj_new"))
	}
}
