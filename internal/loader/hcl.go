// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/tfctl/treediff/internal/snapshot"
)

// parseHCL decodes native HCL syntax. Attributes keep source order. A block
// becomes a tree nested under its type and then each of its labels, so
// `resource "a" "b" { ... }` lands at resource.a.b. Expressions are evaluated
// without variables or functions; ones that need them are errors.
func parseHCL(data []byte) (any, error) {
	file, diags := hclsyntax.ParseConfig(data, "input.hcl", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, diags
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("unexpected HCL body type %T", file.Body)
	}
	return bodyToTree(body)
}

func bodyToTree(body *hclsyntax.Body) (*snapshot.Tree, error) {
	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, a := range body.Attributes {
		attrs = append(attrs, a)
	}
	slices.SortFunc(attrs, func(a, b *hclsyntax.Attribute) int {
		return a.SrcRange.Start.Byte - b.SrcRange.Start.Byte
	})

	t := snapshot.Empty()
	for _, a := range attrs {
		val, diags := a.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		v, err := fromCty(val)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", a.Name, err)
		}
		t = t.With(a.Name, v)
	}

	for _, b := range body.Blocks {
		inner, err := bodyToTree(b.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Type, err)
		}
		keys := append([]string{b.Type}, b.Labels...)
		if t, err = t.SetKeys(keys, inner); err != nil {
			return nil, fmt.Errorf("block %s: %w", b.Type, err)
		}
	}
	return t, nil
}

func fromCty(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f, nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty.IsObjectType() || ty.IsMapType():
		m := v.AsValueMap()
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		b := snapshot.NewBuilder(len(keys))
		for _, k := range keys {
			e, err := fromCty(m[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			b.Add(k, e)
		}
		return b.Tree(), nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		list := []any{}
		for i, ev := range v.AsValueSlice() {
			e, err := fromCty(ev)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list = append(list, e)
		}
		return list, nil
	}
	return nil, fmt.Errorf("unsupported HCL value type %s", ty.FriendlyName())
}
