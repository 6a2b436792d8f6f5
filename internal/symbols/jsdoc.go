package symbols

import (
	"strings"
)

// docInfo is what the resolver reads out of a /// comment block.
type docInfo struct {
	Desc       string
	Params     []docParam
	Returns    string
	Deprecated bool
}

type docParam struct {
	Name     string
	Type     string
	Optional bool
}

func (d docInfo) param(name string) (docParam, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return docParam{}, false
}

// parseDoc reads the @-tags GameMaker's feather understands. Unknown tags are
// ignored; lines without a tag extend the description.
func parseDoc(text string) docInfo {
	var out docInfo
	var desc []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "@") {
			if line != "" {
				desc = append(desc, line)
			}
			continue
		}
		tag, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		switch strings.ToLower(tag) {
		case "@desc", "@description":
			desc = append(desc, rest)
		case "@param", "@arg", "@argument":
			if p, ok := parseDocParam(rest); ok {
				out.Params = append(out.Params, p)
			}
		case "@return", "@returns":
			if typ, _, ok := docBraces(rest); ok {
				out.Returns = typ
			}
		case "@deprecated":
			out.Deprecated = true
		}
	}
	out.Desc = strings.Join(desc, "\n")
	return out
}

// parseDocParam reads "{Type} name desc", "{Type} [name] desc" or "name desc".
func parseDocParam(rest string) (docParam, bool) {
	var p docParam
	if typ, after, ok := docBraces(rest); ok {
		p.Type = typ
		rest = after
	}
	name, _, _ := strings.Cut(strings.TrimSpace(rest), " ")
	if strings.HasPrefix(name, "[") {
		p.Optional = true
		name = strings.Trim(name, "[]")
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name = name[:eq]
		}
	}
	p.Name = name
	return p, name != ""
}

// docBraces splits "{Type} rest" into Type and rest.
func docBraces(s string) (typ, rest string, ok bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return "", s, false
	}
	end := strings.IndexByte(s, '}')
	if end < 0 {
		return "", s, false
	}
	return strings.TrimSpace(s[1:end]), strings.TrimSpace(s[end+1:]), true
}
