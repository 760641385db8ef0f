package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/wippyai/hostconv/host"
)

// callSpec is one call block of a call file:
//
//	call "read_u64" {
//	  args      = [4096]
//	  byteorder = "big"
//	}
//
// The optional "args" attribute holds positional arguments; every other
// attribute is passed by keyword.
type callSpec struct {
	Kwargs map[string]host.Value
	Func   string
	Args   []host.Value
	Range  hcl.Range
}

var callFileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "call", LabelNames: []string{"func"}},
	},
}

var pathLikeType = host.NewType("PathLike", nil).Define(host.MethodFSPath,
	func(h *host.Heap, self host.Borrowed) (*host.Owned, error) {
		return h.GetAttr(self, "path")
	})

var indexableType = host.NewType("Indexable", nil).Define(host.MethodIndex,
	func(h *host.Heap, self host.Borrowed) (*host.Owned, error) {
		return h.GetAttr(self, "value")
	})

// evalContext returns the functions available to call file expressions.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"bytes":     bytesFunc,
			"pathlike":  wrapperFunc(pathLikeType, "path"),
			"indexable": wrapperFunc(indexableType, "value"),
			"enum":      enumFunc,
		},
	}
}

var bytesFunc = function.New(&function.Spec{
	Params: []function.Parameter{{Name: "text", Type: cty.String}},
	Type:   function.StaticReturnType(host.CtyBytes),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return host.BytesVal([]byte(args[0].AsString())), nil
	},
})

// wrapperFunc builds a function returning an instance of typ that stores its
// argument in attr.
func wrapperFunc(typ *host.Type, attr string) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: attr, Type: cty.DynamicPseudoType, AllowNull: true}},
		Type:   function.StaticReturnType(host.CtyObject),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			v, err := host.FromCty(args[0])
			if err != nil {
				return cty.NilVal, err
			}
			return host.ObjectVal(host.NewObject(typ, map[string]host.Value{attr: v})), nil
		},
	})
}

// enumFunc resolves enum("Type", "MEMBER"). Members may be combined with "|".
var enumFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "type", Type: cty.String},
		{Name: "member", Type: cty.String},
	},
	Type: function.StaticReturnType(host.CtyObject),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		name := args[0].AsString()
		info, ok := enums[name]
		if !ok {
			return cty.NilVal, function.NewArgErrorf(0, "unknown enum type %q", name)
		}

		names := strings.Split(args[1].AsString(), "|")
		if len(names) == 1 {
			obj, ok := info.members[strings.TrimSpace(names[0])]
			if !ok {
				return cty.NilVal, function.NewArgErrorf(1, "%s has no member %q", name, names[0])
			}
			return host.ObjectVal(obj), nil
		}

		var value uint64
		for i, n := range names {
			n = strings.TrimSpace(n)
			obj, ok := info.members[n]
			if !ok {
				return cty.NilVal, function.NewArgErrorf(1, "%s has no member %q", name, n)
			}
			attr, _ := obj.Attr("value")
			v, err := host.AsUint64(attr)
			if err != nil {
				return cty.NilVal, err
			}
			value |= v
			names[i] = n
		}
		return host.ObjectVal(host.NewObject(info.typ, map[string]host.Value{
			"name":  host.Str(strings.Join(names, "|")),
			"value": host.NewUint(value),
		})), nil
	},
})

// callLoader parses call files and keeps their sources for diagnostics.
type callLoader struct {
	parser *hclparse.Parser
}

func newCallLoader() *callLoader {
	return &callLoader{parser: hclparse.NewParser()}
}

// Files returns the parsed sources by filename.
func (l *callLoader) Files() map[string]*hcl.File {
	return l.parser.Files()
}

// ParseFile reads the call blocks of the file at path.
func (l *callLoader) ParseFile(path string) ([]callSpec, hcl.Diagnostics) {
	file, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, diags
	}
	return decodeCalls(file.Body)
}

// Parse reads the call blocks of src.
func (l *callLoader) Parse(src []byte, filename string) ([]callSpec, hcl.Diagnostics) {
	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	return decodeCalls(file.Body)
}

func decodeCalls(body hcl.Body) ([]callSpec, hcl.Diagnostics) {
	content, diags := body.Content(callFileSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	ctx := evalContext()
	calls := make([]callSpec, 0, len(content.Blocks))
	for _, block := range content.Blocks {
		call, blockDiags := decodeCall(block, ctx)
		diags = append(diags, blockDiags...)
		if blockDiags.HasErrors() {
			continue
		}
		calls = append(calls, call)
	}
	if diags.HasErrors() {
		return nil, diags
	}
	return calls, diags
}

func decodeCall(block *hcl.Block, ctx *hcl.EvalContext) (callSpec, hcl.Diagnostics) {
	call := callSpec{
		Func:   block.Labels[0],
		Kwargs: make(map[string]host.Value),
		Range:  block.DefRange,
	}

	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return call, diags
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		attr := attrs[name]
		val, valDiags := attr.Expr.Value(ctx)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}

		if name == "args" {
			args, err := positionalArgs(val)
			if err != nil {
				diags = append(diags, valueDiag(attr, err))
				continue
			}
			call.Args = args
			continue
		}

		v, err := host.FromCty(val)
		if err != nil {
			diags = append(diags, valueDiag(attr, err))
			continue
		}
		call.Kwargs[name] = v
	}
	return call, diags
}

func positionalArgs(val cty.Value) ([]host.Value, error) {
	ty := val.Type()
	if val.IsNull() || !(ty.IsTupleType() || ty.IsListType()) {
		return nil, fmt.Errorf("args must be a list, got %s", ty.FriendlyName())
	}
	args := make([]host.Value, 0, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		v, err := host.FromCty(elem)
		if err != nil {
			return nil, fmt.Errorf("args[%d]: %w", len(args), err)
		}
		args = append(args, v)
	}
	return args, nil
}

// parseValue evaluates a single expression, as typed in interactive mode.
func parseValue(src string) (host.Value, hcl.Diagnostics) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "input", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, diags
	}
	val, valDiags := expr.Value(evalContext())
	diags = append(diags, valDiags...)
	if diags.HasErrors() {
		return nil, diags
	}
	v, err := host.FromCty(val)
	if err != nil {
		return nil, diags.Append(&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unsupported value",
			Detail:   err.Error(),
			Subject:  expr.Range().Ptr(),
		})
	}
	return v, diags
}

func valueDiag(attr *hcl.Attribute, err error) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  fmt.Sprintf("Unsupported value for %q", attr.Name),
		Detail:   err.Error(),
		Subject:  attr.Expr.Range().Ptr(),
	}
}
