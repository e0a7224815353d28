package facts

import (
	"encoding/json"
)

// Empty collections always encode as {} or [], never null, so consumers
// can index into a record without checking.

func (f *Facts) MarshalJSON() ([]byte, error) {
	type plain Facts
	out := plain(*f)
	if out.Types == nil {
		out.Types = New().Types
	}
	out.Functions = nonNilSymbols(out.Functions)
	out.Constants = nonNilSymbols(out.Constants)
	out.TypeAliases = nonNilSymbols(out.TypeAliases)
	out.FileAttributes = nonNilAttributes(out.FileAttributes)
	return json.Marshal(out)
}

func (t *TypeFacts) MarshalJSON() ([]byte, error) {
	type plain TypeFacts
	out := plain(*t)
	if out.Flags == nil {
		out.Flags = []Flag{}
	}
	out.BaseTypes = nonNil(out.BaseTypes)
	out.Interfaces = nonNil(out.Interfaces)
	out.Traits = nonNil(out.Traits)
	out.RequireExtends = nonNil(out.RequireExtends)
	out.RequireImplements = nonNil(out.RequireImplements)
	out.TypeParameters = nonNil(out.TypeParameters)
	out.Attributes = nonNilAttributes(out.Attributes)
	return json.Marshal(out)
}

func (s Symbol) MarshalJSON() ([]byte, error) {
	type plain Symbol
	out := plain(s)
	out.Attributes = nonNilAttributes(out.Attributes)
	return json.Marshal(out)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilSymbols(s []Symbol) []Symbol {
	if s == nil {
		return []Symbol{}
	}
	return s
}

func nonNilAttributes(a Attributes) Attributes {
	if a == nil {
		return NewAttributes()
	}
	for pair := a.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == nil {
			a.Set(pair.Key, []any{})
		}
	}
	return a
}
