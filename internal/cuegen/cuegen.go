package cuegen

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/format"
	"cuelang.org/go/cue/token"

	"github.com/roach88/jsonshape/internal/shape"
	"github.com/roach88/jsonshape/internal/value"
)

// DefinitionPrefix is prepended to a shape identifier to name its definition.
const DefinitionPrefix = "#T"

// Error reports a catalog entry that cannot be expressed in CUE, or
// generated source that CUE rejects.
type Error struct {
	Entry   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%d:%d: %s", e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	if e.Entry != "" {
		return fmt.Sprintf("entry %s: %s", e.Entry, e.Message)
	}
	return e.Message
}

// Definition returns the CUE definition name for shape id.
func Definition(id int) string {
	return DefinitionPrefix + shape.Reference(id)
}

// Generate renders catalog as formatted CUE source and checks that the
// result compiles.
func Generate(catalog *value.Object) ([]byte, error) {
	f, err := File(catalog)
	if err != nil {
		return nil, err
	}

	src, err := format.Node(f, format.Simplify())
	if err != nil {
		return nil, fmt.Errorf("format cue: %w", err)
	}

	v := cuecontext.New().CompileBytes(src, cue.Filename("shapes.cue"))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return src, nil
}

// File builds the CUE syntax tree for catalog without formatting it.
func File(catalog *value.Object) (*ast.File, error) {
	f := &ast.File{}
	if catalog == nil {
		return f, nil
	}

	for _, m := range catalog.Members {
		id, ok := shape.ParseReference(m.Key)
		if !ok {
			return nil, &Error{Entry: m.Key, Message: "catalog keys must be shape identifiers"}
		}
		expr, err := toExpr(m.Value, m.Key)
		if err != nil {
			return nil, err
		}
		f.Decls = append(f.Decls, &ast.Field{
			Label: ast.NewIdent(Definition(id)),
			Value: expr,
		})
	}
	return f, nil
}

func toExpr(v any, entry string) (ast.Expr, error) {
	switch val := v.(type) {
	case string:
		if id, ok := shape.ParseReference(val); ok {
			return ast.NewIdent(Definition(id)), nil
		}
		kind, ok := shape.ParseKind(val)
		if !ok {
			return nil, &Error{Entry: entry, Message: fmt.Sprintf("unknown kind %q", val)}
		}
		return kindExpr(kind), nil

	case *value.Object:
		st := &ast.StructLit{}
		if val == nil {
			return st, nil
		}
		for _, m := range val.Members {
			child, err := toExpr(m.Value, entry)
			if err != nil {
				return nil, err
			}
			st.Elts = append(st.Elts, &ast.Field{Label: label(m.Key), Value: child})
		}
		return st, nil

	case []any:
		if len(val) != 1 {
			return nil, &Error{Entry: entry, Message: fmt.Sprintf("array shape must have exactly one element, got %d", len(val))}
		}
		if s, ok := val[0].(string); ok && s == shape.Unknown.String() {
			return ast.NewList(&ast.Ellipsis{}), nil
		}
		elem, err := toExpr(val[0], entry)
		if err != nil {
			return nil, err
		}
		return ast.NewList(&ast.Ellipsis{Type: elem}), nil
	}

	return nil, &Error{Entry: entry, Message: fmt.Sprintf("unexpected %T in catalog", v)}
}

func kindExpr(k shape.Kind) ast.Expr {
	switch k {
	case shape.Null:
		return ast.NewNull()
	case shape.Boolean:
		return ast.NewIdent("bool")
	case shape.Number:
		return ast.NewIdent("number")
	case shape.String:
		return ast.NewIdent("string")
	}
	return ast.NewIdent("_")
}

// label quotes names that would not read back as a plain regular field.
func label(name string) ast.Label {
	if isPlainIdent(name) && !keywords[name] {
		return ast.NewIdent(name)
	}
	return ast.NewString(name)
}

var keywords = map[string]bool{
	"_":       true,
	"null":    true,
	"true":    true,
	"false":   true,
	"if":      true,
	"for":     true,
	"in":      true,
	"let":     true,
	"import":  true,
	"package": true,
	"func":    true,
	"bool":    true,
	"number":  true,
	"string":  true,
	"int":     true,
	"float":   true,
	"bytes":   true,
}

func isPlainIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '_'):
		default:
			return false
		}
	}
	return true
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	e := &Error{Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		e.Pos = positions[0]
	}
	return e
}
