package dialect

import (
	"cmp"
	"errors"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type validator struct {
	root       *jsonschema.Schema
	dialectURI string
	table      *Table
	loader     *loader
}

var printer = message.NewPrinter(language.English)

func (v *validator) Interpret(instance any, mode OutputMode) (*Output, error) {
	out := &Output{Valid: true}
	err := v.root.Validate(instance)
	if err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			return nil, err
		}
		out.Valid = false
		if mode == OutputBasic {
			out.Errors = v.units(verr, nil)
		}
	}
	if mode == OutputBasic {
		a := &annotator{v: v, seen: map[visit]bool{}}
		a.walk(v.root, instance, "")
		out.Annotations = a.out
	}
	return out, nil
}

// units flattens the error tree in pre-order. Schema, group and reference
// nodes only carry their causes, as does allOf whose failure is exactly
// the failures of its subschemas; every other node is reported.
func (v *validator) units(e *jsonschema.ValidationError, res []OutputUnit) []OutputUnit {
	switch e.ErrorKind.(type) {
	case *kind.Schema, *kind.Group, *kind.Reference, *kind.AllOf:
	default:
		tok, abs := v.keyword(e)
		res = append(res, OutputUnit{
			Keyword:                 v.keywordID(tok),
			AbsoluteKeywordLocation: abs,
			InstanceLocation:        instancePointer(e.InstanceLocation),
			Message:                 e.ErrorKind.LocalizedString(printer),
		})
	}
	for _, c := range e.Causes {
		res = v.units(c, res)
	}
	return res
}

// keyword returns the token of the failing keyword and its absolute
// location. Kinds without a keyword path, such as a false schema, are
// attributed to the nearest keyword of the schema location.
func (v *validator) keyword(e *jsonschema.ValidationError) (string, string) {
	path := e.ErrorKind.KeywordPath()
	if _, ok := e.ErrorKind.(*kind.Not); ok && len(path) == 0 {
		path = []string{"not"}
	}
	if len(path) > 0 {
		abs := e.SchemaURL
		if !strings.Contains(abs, "#") {
			abs += "#"
		}
		for _, tok := range path {
			abs += "/" + url.PathEscape(jsonpointer.Escape(tok))
		}
		return path[0], abs
	}
	tok := ""
	if i := strings.IndexByte(e.SchemaURL, '#'); i != -1 {
		frag, err := url.PathUnescape(e.SchemaURL[i+1:])
		if err == nil {
			segs := strings.Split(frag, "/")
			for j := len(segs) - 1; j > 0; j-- {
				seg := jsonpointer.Unescape(segs[j])
				if v.table != nil && v.table.Has(seg) {
					tok = seg
					break
				}
			}
		}
	}
	return tok, e.SchemaURL
}

func (v *validator) keywordID(tok string) string {
	if v.table != nil {
		if id, err := v.table.ID(tok); err == nil {
			return id
		}
	}
	return keywordBase + strings.TrimPrefix(tok, "$")
}

func instancePointer(tokens []string) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteByte('/')
		sb.WriteString(jsonpointer.Escape(tok))
	}
	return sb.String()
}

type visit struct {
	sch *jsonschema.Schema
	loc string
}

// annotator collects the annotations the compiled schema attaches to an
// instance. Only applicators whose outcome does not depend on evaluation
// order are followed; anyOf, oneOf and if branches are followed when they
// validate the instance.
type annotator struct {
	v    *validator
	seen map[visit]bool
	out  []Annotation
}

func (a *annotator) emit(keyword, loc string, val any) {
	a.out = append(a.out, Annotation{
		Keyword:          keyword,
		DialectURI:       a.v.dialectURI,
		InstanceLocation: loc,
		Value:            val,
	})
}

func (a *annotator) walk(sch *jsonschema.Schema, inst any, loc string) {
	if sch == nil || sch.Bool != nil {
		return
	}
	k := visit{sch: sch, loc: loc}
	if a.seen[k] {
		return
	}
	a.seen[k] = true

	if sch.Title != "" {
		a.emit("title", loc, sch.Title)
	}
	if sch.Description != "" {
		a.emit("description", loc, sch.Description)
	}
	if sch.Default != nil {
		a.emit("default", loc, *sch.Default)
	}
	if sch.Deprecated {
		a.emit("deprecated", loc, true)
		if msg, ok := a.raw(sch, "x-deprecationMessage").(string); ok {
			a.emit("x-deprecationMessage", loc, msg)
		}
	}
	if sch.ReadOnly {
		a.emit("readOnly", loc, true)
	}
	if sch.WriteOnly {
		a.emit("writeOnly", loc, true)
	}
	if len(sch.Examples) != 0 {
		a.emit("examples", loc, sch.Examples)
	}

	a.walk(sch.Ref, inst, loc)
	if sch.RecursiveRef != nil {
		target := sch.RecursiveRef
		if target.RecursiveAnchor && a.v.root.RecursiveAnchor {
			target = a.v.root
		}
		a.walk(target, inst, loc)
	}
	if sch.DynamicRef != nil {
		target := sch.DynamicRef.Ref
		if sch.DynamicRef.Anchor != "" && a.v.root.DynamicAnchor == sch.DynamicRef.Anchor {
			target = a.v.root
		}
		a.walk(target, inst, loc)
	}
	for _, s := range sch.AllOf {
		a.walk(s, inst, loc)
	}
	for _, s := range sch.AnyOf {
		if s.Validate(inst) == nil {
			a.walk(s, inst, loc)
		}
	}
	for _, s := range sch.OneOf {
		if s.Validate(inst) == nil {
			a.walk(s, inst, loc)
		}
	}
	if sch.If != nil {
		if sch.If.Validate(inst) == nil {
			a.walk(sch.If, inst, loc)
			a.walk(sch.Then, inst, loc)
		} else {
			a.walk(sch.Else, inst, loc)
		}
	}

	switch inst := inst.(type) {
	case map[string]any:
		a.object(sch, inst, loc)
	case []any:
		a.array(sch, inst, loc)
	}
}

func (a *annotator) object(sch *jsonschema.Schema, obj map[string]any, loc string) {
	patterns := slices.SortedFunc(maps.Keys(sch.PatternProperties), func(x, y jsonschema.Regexp) int {
		return cmp.Compare(x.String(), y.String())
	})
	for _, name := range slices.Sorted(maps.Keys(obj)) {
		val := obj[name]
		ploc := loc + "/" + jsonpointer.Escape(name)
		matched := false
		if s, ok := sch.Properties[name]; ok {
			matched = true
			a.walk(s, val, ploc)
		}
		for _, re := range patterns {
			if re.MatchString(name) {
				matched = true
				a.walk(sch.PatternProperties[re], val, ploc)
			}
		}
		if !matched {
			if s, ok := sch.AdditionalProperties.(*jsonschema.Schema); ok {
				a.walk(s, val, ploc)
			}
		}
	}
}

func (a *annotator) array(sch *jsonschema.Schema, arr []any, loc string) {
	for i, val := range arr {
		iloc := loc + "/" + strconv.Itoa(i)
		switch {
		case i < len(sch.PrefixItems):
			a.walk(sch.PrefixItems[i], val, iloc)
		case sch.Items2020 != nil:
			a.walk(sch.Items2020, val, iloc)
		}
		switch items := sch.Items.(type) {
		case *jsonschema.Schema:
			a.walk(items, val, iloc)
		case []*jsonschema.Schema:
			if i < len(items) {
				a.walk(items[i], val, iloc)
			} else if s, ok := sch.AdditionalItems.(*jsonschema.Schema); ok {
				a.walk(s, val, iloc)
			}
		}
	}
}

// raw looks up a keyword the compiler does not keep, reading the schema
// document when it is already loaded.
func (a *annotator) raw(sch *jsonschema.Schema, keyword string) any {
	u := docURL(sch.Location)
	a.v.loader.mu.RLock()
	doc, ok := a.v.loader.docs[u]
	a.v.loader.mu.RUnlock()
	if !ok {
		return nil
	}
	frag := ""
	if i := strings.IndexByte(sch.Location, '#'); i != -1 {
		frag = sch.Location[i+1:]
	}
	frag, err := url.PathUnescape(frag)
	if err != nil {
		return nil
	}
	p, err := jsonpointer.New(frag)
	if err != nil {
		return nil
	}
	v, _, err := p.Get(doc)
	if err != nil {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return m[keyword]
}
