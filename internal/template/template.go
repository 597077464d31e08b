// internal/template/template.go

// Package template implements the marker substitution engine used by the
// notification emails. Templates carry three marker kinds: simple
// placeholders {{NAME}}, conditional blocks {{#if NAME}}...{{/if}} and
// repeating blocks {{#each NAME}}...{{/each}} whose body references
// {{this.prop}}.
//
// The template is parsed once into a small node tree and evaluated against
// the variable bag. Rendering is permissive: keys absent from the bag leave
// their markers as literal text, and malformed markers are passed through
// unchanged. Render never fails.
package template

import "strings"

type nodeKind int

const (
	nodeLiteral nodeKind = iota
	nodeVar
	nodeIf
	nodeEach
)

type node struct {
	kind nodeKind
	// text holds literal content, and for variable nodes the raw marker
	// emitted when the reference does not resolve.
	text     string
	name     string
	path     string
	rawOpen  string
	rawClose string
	body     []node
}

// Template is an immutable parsed template.
type Template struct {
	nodes []node
}

// Render parses src and renders it against vars in one call.
func Render(src string, vars Vars) string {
	return Parse(src).Render(vars)
}

// Parse builds the node tree for src. Parsing never fails: anything that is
// not a well-formed marker stays literal text, and blocks left open at the
// end of input are unwound back into literals.
func Parse(src string) *Template {
	type frame struct {
		block node
		nodes []node
	}
	stack := []frame{{}}

	push := func(n node) {
		top := &stack[len(stack)-1]
		top.nodes = append(top.nodes, n)
	}
	literal := func(s string) {
		if s == "" {
			return
		}
		top := &stack[len(stack)-1]
		// merge adjacent literals to keep the tree small
		if len(top.nodes) > 0 && top.nodes[len(top.nodes)-1].kind == nodeLiteral {
			top.nodes[len(top.nodes)-1].text += s
			return
		}
		top.nodes = append(top.nodes, node{kind: nodeLiteral, text: s})
	}

	i := 0
	for i < len(src) {
		start := strings.Index(src[i:], "{{")
		if start < 0 {
			literal(src[i:])
			break
		}
		start += i
		literal(src[i:start])

		end := strings.Index(src[start+2:], "}}")
		if end < 0 {
			literal(src[start:])
			break
		}
		end += start + 2
		raw := src[start : end+2]
		inner := strings.TrimSpace(src[start+2 : end])
		i = end + 2

		switch {
		case strings.HasPrefix(inner, "#if "):
			name, path, ok := splitRef(strings.TrimSpace(inner[len("#if "):]))
			if !ok {
				literal(raw)
				continue
			}
			stack = append(stack, frame{block: node{kind: nodeIf, name: name, path: path, rawOpen: raw}})

		case strings.HasPrefix(inner, "#each "):
			name, path, ok := splitRef(strings.TrimSpace(inner[len("#each "):]))
			if !ok || path != "" {
				literal(raw)
				continue
			}
			stack = append(stack, frame{block: node{kind: nodeEach, name: name, rawOpen: raw}})

		case inner == "/if", inner == "/each":
			want := nodeIf
			if inner == "/each" {
				want = nodeEach
			}
			top := stack[len(stack)-1]
			if len(stack) == 1 || top.block.kind != want {
				// closer without a matching innermost open block
				literal(raw)
				continue
			}
			stack = stack[:len(stack)-1]
			blk := top.block
			blk.body = top.nodes
			blk.rawClose = raw
			push(blk)

		default:
			name, path, ok := splitRef(inner)
			if !ok {
				literal(raw)
				continue
			}
			push(node{kind: nodeVar, text: raw, name: name, path: path})
		}
	}

	// Unclosed blocks unwind innermost-first: the open marker becomes a
	// literal and the body splices into the parent.
	for len(stack) > 1 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		parent := &stack[len(stack)-1]
		parent.nodes = append(parent.nodes, node{kind: nodeLiteral, text: top.block.rawOpen})
		parent.nodes = append(parent.nodes, top.nodes...)
	}

	return &Template{nodes: stack[0].nodes}
}

// Render substitutes vars into the parsed template. Pure and deterministic;
// unresolved markers remain as literal text.
func (t *Template) Render(vars Vars) string {
	var sb strings.Builder
	renderNodes(&sb, t.nodes, vars, nil)
	return sb.String()
}

func renderNodes(sb *strings.Builder, nodes []node, vars Vars, this Entity) {
	for _, n := range nodes {
		switch n.kind {
		case nodeLiteral:
			sb.WriteString(n.text)

		case nodeVar:
			v, ok := lookup(n.name, vars, this)
			if !ok {
				sb.WriteString(n.text)
				continue
			}
			if n.path == "" {
				if v.scalar() {
					sb.WriteString(v.text())
				} else {
					sb.WriteString(n.text)
				}
				continue
			}
			if v.Kind() == KindEntity {
				// missing or non-scalar fields of a known entity render empty
				if f, ok := v.field(n.path); ok && f.scalar() {
					sb.WriteString(f.text())
				}
				continue
			}
			sb.WriteString(n.text)

		case nodeIf:
			v, ok := resolveCondition(n, vars, this)
			if !ok {
				sb.WriteString(n.rawOpen)
				renderNodes(sb, n.body, vars, this)
				sb.WriteString(n.rawClose)
				continue
			}
			if v.Truthy() {
				renderNodes(sb, n.body, vars, this)
			}

		case nodeEach:
			v, ok := vars[n.name]
			if !ok || v.Kind() != KindList {
				sb.WriteString(n.rawOpen)
				renderNodes(sb, n.body, vars, this)
				sb.WriteString(n.rawClose)
				continue
			}
			for _, item := range v.items {
				renderNodes(sb, n.body, vars, item)
			}
		}
	}
}

// lookup resolves a base reference against the bag, or the current loop
// element for "this".
func lookup(name string, vars Vars, this Entity) (Value, bool) {
	if name == "this" {
		if this == nil {
			return Value{}, false
		}
		return Object(this), true
	}
	v, ok := vars[name]
	return v, ok
}

// resolveCondition evaluates the reference of a conditional block. A base
// key absent from the bag reports not-ok, which keeps the block literal. A
// missing field of a present entity is falsy rather than literal.
func resolveCondition(n node, vars Vars, this Entity) (Value, bool) {
	v, ok := lookup(n.name, vars, this)
	if !ok {
		return Value{}, false
	}
	if n.path == "" {
		return v, true
	}
	if v.Kind() != KindEntity {
		return Value{}, true
	}
	f, ok := v.field(n.path)
	if !ok {
		return Value{}, true
	}
	return f, true
}

// splitRef splits NAME or NAME.prop, accepting only identifier segments.
func splitRef(s string) (name, path string, ok bool) {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		if !isIdent(s) {
			return "", "", false
		}
		return s, "", true
	}
	name, path = s[:dot], s[dot+1:]
	if !isIdent(name) || !isIdent(path) {
		return "", "", false
	}
	return name, path, true
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
