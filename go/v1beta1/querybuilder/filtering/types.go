package filtering

// Filter is a node of a filter tree: either a *Leaf or a *Group
type Filter interface {
	filter()
}

// Leaf is a single condition on a field
type Leaf struct {
	Key      string
	Operator Operator
	Values   []string
}

// Group combines child filters. Every And child must match and at least one Or child
// should match. A group may carry its own Leaf condition, which is conjoined with the And children.
type Group struct {
	And  []Filter
	Or   []Filter
	Leaf *Leaf
}

func (*Leaf) filter()  {}
func (*Group) filter() {}

// FilterInput is the wire representation of a filter node
type FilterInput struct {
	Key      string        `json:"key,omitempty"`
	Operator Operator      `json:"operator,omitempty"`
	Values   []string      `json:"values,omitempty"`
	And      []FilterInput `json:"and,omitempty"`
	Or       []FilterInput `json:"or,omitempty"`
}

// Filter converts the wire representation into a filter tree. Without a key the operator and
// values are ignored and only the children are kept.
func (in *FilterInput) Filter() Filter {
	var leaf *Leaf
	if in.Key != "" {
		leaf = &Leaf{
			Key:      in.Key,
			Operator: in.Operator,
			Values:   append([]string(nil), in.Values...),
		}
	}

	if len(in.And) == 0 && len(in.Or) == 0 && leaf != nil {
		return leaf
	}

	return &Group{
		And:  filterInputs(in.And).filters(),
		Or:   filterInputs(in.Or).filters(),
		Leaf: leaf,
	}
}

type filterInputs []FilterInput

func (inputs filterInputs) filters() []Filter {
	if len(inputs) == 0 {
		return nil
	}

	filters := make([]Filter, len(inputs))
	for i := range inputs {
		filters[i] = inputs[i].Filter()
	}

	return filters
}
