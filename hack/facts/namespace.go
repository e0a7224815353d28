package facts

import "strings"

type useKind int

const (
	useClass useKind = iota
	useFunction
	useConst
)

// namespaceContext tracks the current namespace and the aliases introduced
// by use declarations since it was entered. Alias lookups ignore case, as
// class and namespace names do.
type namespaceContext struct {
	current string
	aliases [3]map[string]string
}

func (c *namespaceContext) enter(name string) {
	c.current = strings.TrimPrefix(name, `\`)
	c.aliases = [3]map[string]string{}
}

func (c *namespaceContext) addUse(kind useKind, name, alias string) {
	name = strings.TrimPrefix(name, `\`)
	if name == "" {
		return
	}
	if alias == "" {
		alias = lastSegment(name)
	}
	if c.aliases[kind] == nil {
		c.aliases[kind] = make(map[string]string)
	}
	c.aliases[kind][strings.ToLower(alias)] = name
}

// declare qualifies a name being declared in the current namespace.
func (c *namespaceContext) declare(name string) string {
	if c.current == "" {
		return name
	}
	return c.current + `\` + name
}

// resolveType qualifies a referenced class-like name.
func (c *namespaceContext) resolveType(name string) string {
	switch {
	case name == "":
		return ""
	case strings.HasPrefix(name, `\`):
		return name[1:]
	case len(name) > len(`namespace\`) && strings.EqualFold(name[:len(`namespace\`)], `namespace\`):
		return c.declare(name[len(`namespace\`):])
	}

	first, rest, qualified := strings.Cut(name, `\`)
	if !qualified && isReservedTypeName(name) {
		return name
	}
	if target, ok := c.aliases[useClass][strings.ToLower(first)]; ok {
		if qualified {
			return target + `\` + rest
		}
		return target
	}
	return c.declare(name)
}

func lastSegment(name string) string {
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		return name[i+1:]
	}
	return name
}

var reservedTypeNames = map[string]bool{
	"arraykey": true, "bool": true, "boolean": true, "darray": true, "dict": true,
	"double": true, "dynamic": true, "float": true, "int": true, "integer": true,
	"keyset": true, "mixed": true, "nonnull": true, "noreturn": true, "nothing": true,
	"null": true, "num": true, "parent": true, "real": true, "resource": true,
	"self": true, "static": true, "string": true, "this": true, "varray": true,
	"varray_or_darray": true, "vec": true, "vec_or_dict": true, "void": true,
	"array": true, "callable": true, "classname": true, "object": true, "iterable": true,
}

func isReservedTypeName(name string) bool {
	return reservedTypeNames[strings.ToLower(name)]
}
