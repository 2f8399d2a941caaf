package namespace

import (
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/davidmrtn/jobtree/pkg/errors"
)

// Seed describes an initial namespace layout, loaded from a YAML document.
type Seed struct {
	Items []SeedNode `yaml:"items"`
}

// SeedNode is one entry of a seed file. Kind defaults to "folder" when
// children are present, "job" otherwise.
type SeedNode struct {
	Name     string      `yaml:"name"`
	Kind     string      `yaml:"kind,omitempty"`
	Config   string      `yaml:"config,omitempty"`
	Builds   []SeedBuild `yaml:"builds,omitempty"`
	Children []SeedNode  `yaml:"children,omitempty"`
}

// SeedBuild is one build history entry of a seeded job.
type SeedBuild struct {
	Number  int       `yaml:"number"`
	Status  string    `yaml:"status"`
	Started time.Time `yaml:"started,omitempty"`
}

// LoadSeed parses a YAML seed document.
func LoadSeed(r io.Reader) (*Seed, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "failed to read seed file")
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "failed to parse seed file")
	}
	return &seed, nil
}

// Apply creates the seed's folders, jobs and build history in the store.
func (s *Seed) Apply(store Store) error {
	return applySeedNodes(store, nil, s.Items)
}

func applySeedNodes(store Store, parent *Node, nodes []SeedNode) error {
	for _, sn := range nodes {
		kind := sn.Kind
		if kind == "" {
			kind = "job"
			if len(sn.Children) > 0 {
				kind = "folder"
			}
		}

		switch kind {
		case "folder":
			folder, err := store.CreateFolder(parent, sn.Name)
			if err != nil {
				return err
			}
			if err := applySeedNodes(store, folder, sn.Children); err != nil {
				return err
			}
		case "job":
			job, err := store.CreateJob(parent, sn.Name, sn.Config)
			if err != nil {
				return err
			}
			for _, b := range sn.Builds {
				build := Build{Number: b.Number, Status: b.Status, Started: b.Started}
				if err := store.RecordBuild(job, build); err != nil {
					return err
				}
			}
		default:
			return errors.Newf(errors.ErrInvalidInput, "seed entry '%s' has unknown kind %q", sn.Name, sn.Kind)
		}
	}
	return nil
}
