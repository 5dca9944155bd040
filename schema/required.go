package schema

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// serviceSections are the top-level keys holding service instances
var serviceSections = []string{"radarr", "sonarr"}

// checkRequired walks a document that already decoded cleanly and reports the
// first required field that is absent. The struct decoder cannot tell an
// absent string from an empty one, the node tree can.
func checkRequired(version Version, doc *yaml.Node) *MismatchError {
	root := resolve(doc)
	if root == nil || root.Kind != yaml.MappingNode {
		return nil
	}

	for _, section := range serviceSections {
		for _, inst := range instanceNodes(section, lookup(root, section)) {
			if inst.key != nil && strings.TrimSpace(inst.key.Value) == "" {
				return &MismatchError{
					Version: version,
					Line:    inst.key.Line,
					Field:   inst.path,
					Reason:  "instance name must not be empty",
				}
			}
			if err := checkInstance(version, inst.path, inst.node); err != nil {
				return err
			}
		}
	}

	return nil
}

type instanceNode struct {
	path string
	key  *yaml.Node // nil for list entries
	node *yaml.Node
}

// instanceNodes lists the instances of a section in document order, whether
// the section is a map (current) or a list (legacy)
func instanceNodes(section string, n *yaml.Node) []instanceNode {
	n = resolve(n)
	if n == nil {
		return nil
	}

	var out []instanceNode
	switch n.Kind {
	case yaml.MappingNode:
		for _, p := range pairs(n) {
			out = append(out, instanceNode{
				path: section + "." + p.key.Value,
				key:  p.key,
				node: p.value,
			})
		}
	case yaml.SequenceNode:
		for i, item := range n.Content {
			out = append(out, instanceNode{
				path: fmt.Sprintf("%s[%d]", section, i),
				node: item,
			})
		}
	}
	return out
}

func checkInstance(version Version, path string, n *yaml.Node) *MismatchError {
	if err := requireField(version, path, n, "base_url", true); err != nil {
		return err
	}
	if err := requireField(version, path, n, "api_key", false); err != nil {
		return err
	}

	for i, cf := range items(lookup(n, "custom_formats")) {
		cfPath := fmt.Sprintf("%s.custom_formats[%d]", path, i)
		for j, score := range items(lookup(cf, "quality_profiles")) {
			scorePath := fmt.Sprintf("%s.quality_profiles[%d]", cfPath, j)
			if err := requireField(version, scorePath, score, "name", false); err != nil {
				return err
			}
		}
	}

	if qd := lookup(n, "quality_definition"); qd != nil && !isNull(qd) {
		if err := requireField(version, path+".quality_definition", qd, "type", false); err != nil {
			return err
		}
	}

	for i, qp := range items(lookup(n, "quality_profiles")) {
		qpPath := fmt.Sprintf("%s.quality_profiles[%d]", path, i)
		if err := requireField(version, qpPath, qp, "name", false); err != nil {
			return err
		}
	}

	return nil
}

// requireField reports key as missing when it is absent or null on the mapping n.
// A null or empty n counts as a mapping without keys.
func requireField(version Version, path string, n *yaml.Node, key string, nonEmpty bool) *MismatchError {
	value := lookup(n, key)
	if value == nil || isNull(value) {
		line := 0
		if n = resolve(n); n != nil {
			line = n.Line
		}
		return &MismatchError{
			Version: version,
			Line:    line,
			Field:   path + "." + key,
			Reason:  "missing required field",
		}
	}
	if nonEmpty && strings.TrimSpace(value.Value) == "" {
		return &MismatchError{
			Version: version,
			Line:    value.Line,
			Field:   path + "." + key,
			Reason:  "must not be empty",
		}
	}
	return nil
}

// lookup returns the value of key on a mapping node, or nil
func lookup(n *yaml.Node, key string) *yaml.Node {
	for _, p := range pairs(n) {
		if p.key.Value == key {
			return resolve(p.value)
		}
	}
	return nil
}

type pair struct {
	key, value *yaml.Node
}

// pairs returns the effective entries of a mapping node with << merge keys
// expanded. Explicit keys win over merged ones, and earlier merge sources win
// over later ones, matching how the decoder applies them.
func pairs(n *yaml.Node) []pair {
	n = resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}

	var out []pair
	var merges []*yaml.Node
	seen := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if isMerge(key) {
			merges = append(merges, value)
			continue
		}
		seen[key.Value] = true
		out = append(out, pair{key: key, value: value})
	}

	for _, merge := range merges {
		sources := []*yaml.Node{merge}
		if m := resolve(merge); m != nil && m.Kind == yaml.SequenceNode {
			sources = m.Content
		}
		for _, src := range sources {
			for _, p := range pairs(src) {
				if !seen[p.key.Value] {
					seen[p.key.Value] = true
					out = append(out, p)
				}
			}
		}
	}
	return out
}

func isMerge(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!merge"
}

// items returns the entries of a sequence node, or nil
func items(n *yaml.Node) []*yaml.Node {
	n = resolve(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	return n.Content
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

// resolve unwraps document and alias nodes
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}
