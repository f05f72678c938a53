package broadcast

import "github.com/born-ml/ragged/internal/content"

// CustomBroadcast re-chunks a list to the given offsets in place of the
// default BroadcastToOffsets64, returning the content one level down.
type CustomBroadcast func(c content.Content, offsets content.Index) (content.Content, error)

// Behavior maps "__list__" parameter values to custom list broadcasting.
type Behavior struct {
	broadcasts map[string]CustomBroadcast
}

// NewBehavior creates an empty behavior table.
func NewBehavior() *Behavior {
	return &Behavior{broadcasts: map[string]CustomBroadcast{}}
}

// RegisterBroadcast installs fn for lists whose "__list__" parameter is name.
func (b *Behavior) RegisterBroadcast(name string, fn CustomBroadcast) {
	b.broadcasts[name] = fn
}

// FindCustomBroadcast returns the custom broadcast registered for c, or nil.
func FindCustomBroadcast(c content.Content, b *Behavior) CustomBroadcast {
	if b == nil {
		return nil
	}
	name, ok := c.Parameter("__list__").(string)
	if !ok {
		return nil
	}
	return b.broadcasts[name]
}
