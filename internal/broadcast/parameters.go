package broadcast

import "github.com/born-ml/ragged/internal/content"

// ParametersFactory returns the parameters for n sibling outputs.
type ParametersFactory func(n int) ([]content.Parameters, error)

func parametersFactory(rule ParameterRule, inputs []any, function string) (ParametersFactory, error) {
	switch rule {
	case Intersect:
		return intersectionFactory(inputs), nil
	case AllOrNothing:
		return allOrNothingFactory(inputs), nil
	case OneToOne:
		return oneToOneFactory(inputs, function), nil
	case NoParameters:
		return repeatParameters(nil), nil
	default:
		return nil, content.Errorf(content.ErrInvalidConfiguration, function,
			"parameter rule should be one of [intersect one_to_one all_or_nothing none], got %d", int(rule))
	}
}

func contentParameters(inputs []any) []content.Parameters {
	var out []content.Parameters
	for _, x := range inputs {
		if c, ok := x.(content.Content); ok {
			out = append(out, c.Parameters())
		}
	}
	return out
}

func repeatParameters(p content.Parameters) ParametersFactory {
	return func(n int) ([]content.Parameters, error) {
		out := make([]content.Parameters, n)
		for i := range out {
			out[i] = p
		}
		return out, nil
	}
}

func intersectionFactory(inputs []any) ParametersFactory {
	all := contentParameters(inputs)
	var intersected content.Parameters
	for i, p := range all {
		if p.Empty() {
			intersected = nil
			break
		}
		if i == 0 {
			intersected = p
		} else {
			intersected = content.ParametersIntersect(intersected, p)
		}
	}
	return repeatParameters(intersected)
}

func allOrNothingFactory(inputs []any) ParametersFactory {
	all := contentParameters(inputs)
	var out content.Parameters
	if len(all) > 0 {
		out = all[0]
		for _, p := range all[1:] {
			if !content.ParametersEqual(all[0], p) {
				out = nil
				break
			}
		}
	}
	return repeatParameters(out)
}

func oneToOneFactory(inputs []any, function string) ParametersFactory {
	params := make([]content.Parameters, len(inputs))
	for i, x := range inputs {
		if c, ok := x.(content.Content); ok {
			params[i] = c.Parameters()
		}
	}
	return func(n int) ([]content.Parameters, error) {
		if n != len(params) {
			return nil, content.Errorf(content.ErrInvalidConfiguration, function,
				"cannot follow one-to-one parameter broadcasting rule for actions which change the number of outputs (%d inputs, %d outputs)", len(params), n)
		}
		return params, nil
	}
}
