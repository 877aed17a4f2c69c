// Package manifest declares container bindings in YAML.
//
//	bindings:
//	  - name: mailer
//	    concrete: SmtpMailer
//	    singleton: true
//	instances:
//	  app.name: demo
//	tags:
//	  reports: [CpuReport, MemoryReport]
//
// Every entry is validated before anything is applied, and all failures
// are reported together.
package manifest

import (
	"bytes"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/http/validation"
)

// Manifest is the root of a bindings file.
type Manifest struct {
	Bindings  []Binding           `yaml:"bindings"`
	Instances map[string]any      `yaml:"instances"`
	Tags      map[string][]string `yaml:"tags"`
}

// Binding is one Bind or Singleton call. An empty Concrete binds the
// name to itself.
type Binding struct {
	Name      string `yaml:"name"`
	Concrete  string `yaml:"concrete"`
	Singleton bool   `yaml:"singleton"`
}

var (
	bindingRules = validation.Rules{
		"name":     "required|identifier|max:255",
		"concrete": "nullable|identifier|max:255",
	}
	nameRules = validation.Rules{"name": "required|identifier|max:255"}
)

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "manifest: read")
	}
	m, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest: %s", path)
	}
	return m, nil
}

// Parse decodes and validates a manifest. Unknown keys are rejected.
// An empty document is an empty manifest.
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "parse")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks every entry and returns the combined failures.
func (m *Manifest) Validate() error {
	var err error

	seen := make(map[string]int, len(m.Bindings))
	for i, b := range m.Bindings {
		v := validation.Make(map[string]string{"name": b.Name, "concrete": b.Concrete}, bindingRules)
		if verr := v.Validate(); verr != nil {
			err = multierr.Append(err, errors.Wrapf(verr, "bindings[%d]", i))
			continue
		}
		if prev, dup := seen[b.Name]; dup {
			err = multierr.Append(err, errors.Errorf("bindings[%d]: [%s] is already declared by bindings[%d]", i, b.Name, prev))
			continue
		}
		seen[b.Name] = i
	}

	for _, name := range sortedKeys(m.Instances) {
		if verr := validateName(name); verr != nil {
			err = multierr.Append(err, errors.Wrapf(verr, "instances[%s]", name))
		}
	}

	for _, tag := range sortedKeys(m.Tags) {
		if verr := validateName(tag); verr != nil {
			err = multierr.Append(err, errors.Wrapf(verr, "tags[%s]", tag))
		}
		for i, name := range m.Tags[tag] {
			if verr := validateName(name); verr != nil {
				err = multierr.Append(err, errors.Wrapf(verr, "tags[%s][%d]", tag, i))
			}
		}
	}
	return err
}

// Apply validates the manifest and registers it on c: bindings first,
// then instances, then tags in name order.
func (m *Manifest) Apply(c *container.Container) error {
	if err := m.Validate(); err != nil {
		return err
	}

	var err error
	for _, b := range m.Bindings {
		var concrete any
		if b.Concrete != "" {
			concrete = b.Concrete
		}
		bind := c.Bind
		if b.Singleton {
			bind = c.Singleton
		}
		err = multierr.Append(err, bind(b.Name, concrete))
	}
	for _, name := range sortedKeys(m.Instances) {
		c.Instance(name, m.Instances[name])
	}
	for _, tag := range sortedKeys(m.Tags) {
		c.Tag(m.Tags[tag], tag)
	}
	return err
}

func validateName(name string) error {
	return validation.Make(map[string]string{"name": name}, nameRules).Validate()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
