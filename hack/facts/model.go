package facts

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type TypeKind string

const (
	TypeKindClass     TypeKind = "class"
	TypeKindInterface TypeKind = "interface"
	TypeKindTrait     TypeKind = "trait"
	TypeKindEnum      TypeKind = "enum"
)

type Flag string

const (
	FlagAbstract Flag = "abstract"
	FlagFinal    Flag = "final"
)

// Attributes maps an attribute name to its argument values in the order
// they were written. Scalar literal arguments are decoded to string,
// int64, float64 or bool; anything else keeps its source text.
type Attributes = *orderedmap.OrderedMap[string, []any]

func NewAttributes() Attributes {
	return orderedmap.New[string, []any]()
}

// TypeFacts summarizes one class, interface, trait or enum.
type TypeFacts struct {
	Kind              TypeKind   `json:"kind"`
	Flags             []Flag     `json:"flags"`
	BaseTypes         []string   `json:"base_types"`
	Interfaces        []string   `json:"interfaces"`
	Traits            []string   `json:"traits"`
	RequireExtends    []string   `json:"require_extends"`
	RequireImplements []string   `json:"require_implements"`
	TypeParameters    []string   `json:"type_parameters"`
	Attributes        Attributes `json:"attributes"`

	// Offset is where the declaration starts in the decoded source.
	Offset int `json:"-"`
	End    int `json:"-"`
}

// Symbol is a function, constant or type alias.
type Symbol struct {
	Name       string     `json:"name"`
	Attributes Attributes `json:"attributes"`

	Offset int `json:"-"`
	End    int `json:"-"`
}

// Facts is the declaration summary of one file. Types keep the order in
// which they were first declared; a repeated name replaces the earlier
// facts in place.
type Facts struct {
	Types          *orderedmap.OrderedMap[string, *TypeFacts] `json:"types"`
	Functions      []Symbol                                   `json:"functions"`
	Constants      []Symbol                                   `json:"constants"`
	TypeAliases    []Symbol                                   `json:"type_aliases"`
	FileAttributes Attributes                                 `json:"file_attributes"`
	ContentHash    string                                     `json:"content_hash"`
	HadErrors      bool                                       `json:"had_errors"`
}

// New returns facts with every collection empty.
func New() *Facts {
	return &Facts{
		Types:          orderedmap.New[string, *TypeFacts](),
		Functions:      []Symbol{},
		Constants:      []Symbol{},
		TypeAliases:    []Symbol{},
		FileAttributes: NewAttributes(),
	}
}

// NewTypeFacts returns facts of the given kind with empty lists.
func NewTypeFacts(kind TypeKind, attrs Attributes) *TypeFacts {
	return &TypeFacts{
		Kind:              kind,
		Flags:             []Flag{},
		BaseTypes:         []string{},
		Interfaces:        []string{},
		Traits:            []string{},
		RequireExtends:    []string{},
		RequireImplements: []string{},
		TypeParameters:    []string{},
		Attributes:        attrs,
	}
}

// TypeNames returns the declared type names in declaration order.
func (f *Facts) TypeNames() []string {
	names := make([]string, 0, f.Types.Len())
	for pair := f.Types.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// DeclarationCount is the number of distinct declared names of any kind.
func (f *Facts) DeclarationCount() int {
	return f.Types.Len() + len(f.Functions) + len(f.Constants) + len(f.TypeAliases)
}
