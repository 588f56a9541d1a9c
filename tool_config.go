package vcbuild

import (
	"strconv"

	"shanhu.io/misc/errcode"
)

// ToolConfig binds a rule to the attribute values set by one
// configuration, and gives it an execution bucket.
type ToolConfig struct {
	Name              string
	Bucket            int
	AdditionalOptions string
	Attrs             map[string]string

	rule *Rule
}

// Attributes of a tool entry that are not rule properties.
const (
	attrName              = "Name"
	attrAdditionalOptions = "AdditionalOptions"
	attrExecutionBucket   = "ExecutionBucket"
)

type attr struct {
	name  string
	value string
}

// newToolConfig binds the rule with the given attributes. index is the
// 1-based position of the tool in its configuration, used as the bucket
// when none is given.
func newToolConfig(rule *Rule, attrs []*attr, index int) (
	*ToolConfig, error,
) {
	t := &ToolConfig{
		Name:   rule.Name,
		Bucket: index,
		Attrs:  make(map[string]string),
		rule:   rule,
	}
	for _, a := range attrs {
		switch a.name {
		case attrName:
			continue
		case attrAdditionalOptions:
			t.AdditionalOptions = a.value
		case attrExecutionBucket:
			b, err := strconv.Atoi(a.value)
			if err != nil {
				return nil, errcode.InvalidArgf(
					"invalid execution bucket %q", a.value,
				)
			}
			t.Bucket = b
		default:
			if rule.property(a.name) == nil {
				return nil, errcode.InvalidArgf(
					"attribute %q is not defined in rule %q",
					a.name, rule.Name,
				)
			}
			t.Attrs[a.name] = a.value
		}
	}
	return t, nil
}

// Rule returns the rule the tool is bound to.
func (t *ToolConfig) Rule() *Rule { return t.rule }

func (t *ToolConfig) build(ctx *buildContext, files []string) error {
	return t.rule.build(ctx, t, files)
}

func (t *ToolConfig) clean(ctx *buildContext, files []string) error {
	return t.rule.clean(ctx, t, files)
}
