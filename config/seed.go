package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML document read by the seed-workflow command and by
// the in-memory development store.
//
//	workflow:
//	  stages: [Screening, Technical, Final]
//	users:
//	  - id: 1
//	    email: admin@example.com
//	    name: Portal Admin
//	    role: admin
type SeedFile struct {
	Workflow struct {
		CreatedBy uint     `yaml:"created_by"`
		Stages    []string `yaml:"stages"`
	} `yaml:"workflow"`
	Users []SeedUser `yaml:"users"`
}

type SeedUser struct {
	ID    uint   `yaml:"id"`
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
	Role  string `yaml:"role"`
}

// LoadSeedFile parses a seed document from path.
func LoadSeedFile(path string) (*SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed SeedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	for i, user := range seed.Users {
		if user.ID == 0 {
			return nil, fmt.Errorf("seed file %s: users[%d] has no id", path, i)
		}
	}
	return &seed, nil
}
