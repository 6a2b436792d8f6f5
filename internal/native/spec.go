package native

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// specSchemaVersion is bumped whenever Spec changes shape, so stale disk
// cache entries are ignored.
const specSchemaVersion uint16 = 1

// Spec is the parsed content of one GmlSpec.xml. It is plain data so the
// disk cache can store it as msgpack.
type Spec struct {
	XMLName xml.Name `xml:"GameMakerLanguageSpec" msgpack:"-"`
	Schema  uint16   `xml:"-"`

	Functions    []Function    `xml:"Functions>Function"`
	Variables    []Variable    `xml:"Variables>Variable"`
	Constants    []Constant    `xml:"Constants>Constant"`
	Structures   []Structure   `xml:"Structures>Structure"`
	Enumerations []Enumeration `xml:"Enumerations>Enumeration"`
}

type Function struct {
	Name        string  `xml:"Name,attr"`
	ReturnType  string  `xml:"ReturnType,attr"`
	Deprecated  bool    `xml:"Deprecated,attr"`
	Pure        bool    `xml:"Pure,attr"`
	Description string  `xml:"Description"`
	Params      []Param `xml:"Parameter"`
}

type Param struct {
	Name        string `xml:"Name,attr"`
	Type        string `xml:"Type,attr"`
	Optional    bool   `xml:"Optional,attr"`
	Description string `xml:",chardata"`
}

// Variable is a builtin variable. Instance variables (x, speed, ...) exist
// only on object instances; the rest are global.
type Variable struct {
	Name        string `xml:"Name,attr"`
	Type        string `xml:"Type,attr"`
	Deprecated  bool   `xml:"Deprecated,attr"`
	Get         bool   `xml:"Get,attr"`
	Set         bool   `xml:"Set,attr"`
	Instance    bool   `xml:"Instance,attr"`
	Description string `xml:",chardata"`
}

type Constant struct {
	Name        string `xml:"Name,attr"`
	Class       string `xml:"Class,attr"`
	Type        string `xml:"Type,attr"`
	Deprecated  bool   `xml:"Deprecated,attr"`
	Description string `xml:",chardata"`
}

type Structure struct {
	Name   string  `xml:"Name,attr"`
	Fields []Field `xml:"Field"`
}

type Field struct {
	Name        string `xml:"Name,attr"`
	Type        string `xml:"Type,attr"`
	Get         bool   `xml:"Get,attr"`
	Set         bool   `xml:"Set,attr"`
	Description string `xml:",chardata"`
}

type Enumeration struct {
	Name    string       `xml:"Name,attr"`
	Members []EnumMember `xml:"Member"`
}

type EnumMember struct {
	Name        string `xml:"Name,attr"`
	Value       int64  `xml:"Value,attr"`
	Deprecated  bool   `xml:"Deprecated,attr"`
	Description string `xml:",chardata"`
}

// ParseSpec decodes a GmlSpec.xml document.
func ParseSpec(data []byte) (*Spec, error) {
	var s Spec
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse GmlSpec: %w", err)
	}
	s.Schema = specSchemaVersion
	return &s, nil
}
