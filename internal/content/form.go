package content

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Form is the data-free description of a content tree: node classes, index
// types, leaf primitives, parameters and form keys.
type Form struct {
	Class      string     `json:"class" yaml:"class"`
	Primitive  string     `json:"primitive,omitempty" yaml:"primitive,omitempty"`
	InnerShape []int      `json:"inner_shape,omitempty" yaml:"inner_shape,omitempty,flow"`
	Offsets    string     `json:"offsets,omitempty" yaml:"offsets,omitempty"`
	Starts     string     `json:"starts,omitempty" yaml:"starts,omitempty"`
	Stops      string     `json:"stops,omitempty" yaml:"stops,omitempty"`
	Index      string     `json:"index,omitempty" yaml:"index,omitempty"`
	Mask       string     `json:"mask,omitempty" yaml:"mask,omitempty"`
	Tags       string     `json:"tags,omitempty" yaml:"tags,omitempty"`
	Size       *int       `json:"size,omitempty" yaml:"size,omitempty"`
	ValidWhen  *bool      `json:"valid_when,omitempty" yaml:"valid_when,omitempty"`
	LSBOrder   *bool      `json:"lsb_order,omitempty" yaml:"lsb_order,omitempty"`
	Fields     []string   `json:"fields,omitempty" yaml:"fields,omitempty,flow"`
	Content    *Form      `json:"content,omitempty" yaml:"content,omitempty"`
	Contents   []*Form    `json:"contents,omitempty" yaml:"contents,omitempty"`
	Parameters Parameters `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	FormKey    string     `json:"form_key,omitempty" yaml:"form_key,omitempty"`
}

// JSON encodes the form with two-space indentation.
func (f *Form) JSON() ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// YAML encodes the form as a YAML document.
func (f *Form) YAML() ([]byte, error) {
	return yaml.Marshal(f)
}

// String returns the compact JSON encoding.
func (f *Form) String() string {
	b, err := json.Marshal(f)
	if err != nil {
		return fmt.Sprintf("<form: %v>", err)
	}
	return string(b)
}

// Type returns a short type string such as "var * ?float64".
func (f *Form) Type() string {
	switch f.Class {
	case "EmptyArray":
		return "unknown"
	case "NumpyArray":
		out := f.Primitive
		for i := len(f.InnerShape) - 1; i >= 0; i-- {
			out = fmt.Sprintf("%d * %s", f.InnerShape[i], out)
		}
		return out
	case "RegularArray":
		return fmt.Sprintf("%d * %s", *f.Size, f.Content.Type())
	case "ListArray", "ListOffsetArray":
		return "var * " + f.Content.Type()
	case "IndexedArray":
		return f.Content.Type()
	case "IndexedOptionArray", "ByteMaskedArray", "BitMaskedArray", "UnmaskedArray":
		return "?" + f.Content.Type()
	case "RecordArray":
		out := "("
		if f.Fields != nil {
			out = "{"
		}
		for i, c := range f.Contents {
			if i > 0 {
				out += ", "
			}
			if f.Fields != nil {
				out += f.Fields[i] + ": "
			}
			out += c.Type()
		}
		if f.Fields != nil {
			return out + "}"
		}
		return out + ")"
	case "UnionArray":
		out := "union["
		for i, c := range f.Contents {
			if i > 0 {
				out += ", "
			}
			out += c.Type()
		}
		return out + "]"
	default:
		return f.Class
	}
}

func baseForm(c Content) *Form {
	return &Form{Class: c.Kind().String(), Parameters: c.Parameters(), FormKey: c.Key()}
}

func (e *Empty) Form() *Form { return baseForm(e) }

func (n *Numpy) Form() *Form {
	f := baseForm(n)
	f.Primitive = n.dtype.String()
	f.InnerShape = n.inner.Clone()
	return f
}

func (r *Regular) Form() *Form {
	f := baseForm(r)
	size := r.size
	f.Size = &size
	f.Content = r.content.Form()
	return f
}

func (l *List) Form() *Form {
	f := baseForm(l)
	f.Starts, f.Stops = "i64", "i64"
	f.Content = l.content.Form()
	return f
}

func (l *ListOffset) Form() *Form {
	f := baseForm(l)
	f.Offsets = "i64"
	f.Content = l.content.Form()
	return f
}

func (x *Indexed) Form() *Form {
	f := baseForm(x)
	f.Index = "i64"
	f.Content = x.content.Form()
	return f
}

func (x *IndexedOption) Form() *Form {
	f := baseForm(x)
	f.Index = "i64"
	f.Content = x.content.Form()
	return f
}

func (x *ByteMasked) Form() *Form {
	f := baseForm(x)
	f.Mask = "i8"
	validWhen := x.validWhen
	f.ValidWhen = &validWhen
	f.Content = x.content.Form()
	return f
}

func (x *BitMasked) Form() *Form {
	f := baseForm(x)
	f.Mask = "u8"
	validWhen, lsbOrder := x.validWhen, x.lsbOrder
	f.ValidWhen, f.LSBOrder = &validWhen, &lsbOrder
	f.Content = x.content.Form()
	return f
}

func (x *Unmasked) Form() *Form {
	f := baseForm(x)
	f.Content = x.content.Form()
	return f
}

func (r *Record) Form() *Form {
	f := baseForm(r)
	if r.fields != nil {
		f.Fields = append([]string{}, r.fields...)
	}
	f.Contents = make([]*Form, len(r.contents))
	for i, c := range r.contents {
		f.Contents[i] = c.Form()
	}
	return f
}

func (u *Union) Form() *Form {
	f := baseForm(u)
	f.Tags, f.Index = "i8", "i64"
	f.Contents = make([]*Form, len(u.contents))
	for i, c := range u.contents {
		f.Contents[i] = c.Form()
	}
	return f
}
