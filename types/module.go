package types

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Outcome is embedded in every module result. It carries the fields the
// automation controller inspects to decide pass/fail and changed status.
type Outcome struct {
	Changed bool   `json:"changed"`
	Failed  bool   `json:"failed,omitempty"`
	Msg     string `json:"msg,omitempty"`
}

func (o *Outcome) Base() *Outcome { return o }

// Fail marks the result failed with err as its message.
func (o *Outcome) Fail(err error) {
	o.Failed = true
	o.Msg = err.Error()
}

// Result is implemented by every module result through its embedded Outcome.
type Result interface {
	Base() *Outcome
}

// CommonArgs are the controller-internal keys that accompany module args.
type CommonArgs struct {
	CheckMode bool `yaml:"_ansible_check_mode"`
	Verbosity int  `yaml:"_ansible_verbosity"`
}

// StringList accepts either a YAML sequence or a scalar. A scalar holding
// commas is split the way list-typed module options are.
type StringList []string

func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = splitScalarList(s)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
	}
}

func splitScalarList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Initiator stores information about who ran a module - a user, a service
// account or a CI pipeline
type Initiator struct {
	Type   string `json:"type"` // "user", "service", "ci"
	Id     string `json:"id"`
	Tenant string `json:"tenant"`
}

// Lines accepts either a block of text or a list of lines.
type Lines []string

func (l *Lines) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = strings.Split(strings.TrimSuffix(s, "\n"), "\n")
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: expected text or a list of lines", node.Line)
	}
}
