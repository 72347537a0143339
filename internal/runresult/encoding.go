package runresult

import "gopkg.in/yaml.v3"

// record is the serialized form of a Result.
type record struct {
	Command  string `yaml:"command"`
	WorkDir  string `yaml:"cwd"`
	ExitCode int    `yaml:"exit_code"`
	Stdout   string `yaml:"stdout"`
	Stderr   string `yaml:"stderr"`
}

// MarshalYAML implements yaml.Marshaler.
func (r Result) MarshalYAML() (interface{}, error) {
	return record{
		Command:  r.command,
		WorkDir:  r.workDir,
		ExitCode: r.exitCode,
		Stdout:   r.stdout,
		Stderr:   r.stderr,
	}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Missing streams decode as
// empty strings.
func (r *Result) UnmarshalYAML(node *yaml.Node) error {
	var rec record
	if err := node.Decode(&rec); err != nil {
		return err
	}
	*r = New(rec.Command, rec.WorkDir, rec.Stdout, rec.Stderr, rec.ExitCode)
	return nil
}
