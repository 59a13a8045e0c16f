package process

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v2"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the accepted output formats
var Formats = []string{FormatText, FormatJSON, FormatYAML}

type snapshotDoc struct {
	PID         int    `json:"pid" yaml:"pid"`
	Policy      string `json:"policy" yaml:"policy"`
	PolicyValue int    `json:"policy_value" yaml:"policy_value"`
	Priority    int    `json:"priority" yaml:"priority"`
	Nice        int    `json:"nice" yaml:"nice"`
	Affinity    string `json:"affinity,omitempty" yaml:"affinity,omitempty"`
	CPUs        string `json:"cpus,omitempty" yaml:"cpus,omitempty"`
}

// Renderer writes snapshots to a stream
type Renderer interface {
	Render(w io.Writer, s *Snapshot) error
}

// NewRenderer returns the renderer of format
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case "", FormatText:
		return textRenderer{}, nil
	case FormatJSON:
		return jsonRenderer{}, nil
	case FormatYAML:
		return yamlRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q, use one of %v", format, Formats)
}

func toDoc(s *Snapshot) snapshotDoc {
	d := snapshotDoc{
		PID:         s.PID,
		Policy:      s.Class.Name(),
		PolicyValue: int(s.Class),
		Priority:    s.Priority,
		Nice:        s.Nice,
	}
	if s.Affinity != nil {
		d.Affinity = s.Affinity.ToString()
		d.CPUs = s.Affinity.ToHumanString()
	}
	return d
}

type textRenderer struct{}

func (textRenderer) Render(w io.Writer, s *Snapshot) error {
	_, err := fmt.Fprintln(w, s.String())
	return err
}

// one object per line
type jsonRenderer struct{}

func (jsonRenderer) Render(w io.Writer, s *Snapshot) error {
	return json.NewEncoder(w).Encode(toDoc(s))
}

// one document per snapshot
type yamlRenderer struct{}

func (yamlRenderer) Render(w io.Writer, s *Snapshot) error {
	out, err := yaml.Marshal(toDoc(s))
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, "---\n"); err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
