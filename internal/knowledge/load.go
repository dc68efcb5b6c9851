package knowledge

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidData marks knowledge files that fail to parse or validate.
var ErrInvalidData = errors.New("invalid knowledge data")

//go:embed data/*.yaml
var embedded embed.FS

// Embedded returns the knowledge files compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err)
	}
	return sub
}

// DomainFiles describes which files make up a domain.
type DomainFiles struct {
	Name   string
	Stores []string // primary first
	Topics string   // optional
}

// Layout is the default mapping from domains to knowledge files.
var Layout = []DomainFiles{
	{Name: DomainConcept, Stores: []string{"concepts.yaml", "concepts_extra.yaml"}, Topics: "topics.yaml"},
	{Name: DomainPlayer, Stores: []string{"players.yaml"}},
	{Name: DomainStat, Stores: []string{"stats.yaml"}},
	{Name: DomainTerm, Stores: []string{"terms.yaml"}},
	{Name: DomainZone, Stores: []string{"zones.yaml"}},
}

type entryFile struct {
	Entries []Entry `yaml:"entries"`
}

type topicFile struct {
	Topics []Topic `yaml:"topics"`
}

var validate = validator.New()

// Load reads every file named in layout from fsys and builds a Registry.
func Load(fsys fs.FS, layout []DomainFiles) (*Registry, error) {
	reg := &Registry{
		domains:  make(map[string]*Domain, len(layout)),
		LoadedAt: time.Now().UTC(),
	}
	for _, df := range layout {
		stores := make([]*Store, 0, len(df.Stores))
		for _, file := range df.Stores {
			s, err := loadStore(fsys, file)
			if err != nil {
				return nil, err
			}
			stores = append(stores, s)
		}
		var topics []Topic
		if df.Topics != "" {
			t, err := loadTopics(fsys, df.Topics)
			if err != nil {
				return nil, err
			}
			topics = t
		}
		d, err := NewDomain(df.Name, stores, topics)
		if err != nil {
			return nil, err
		}
		reg.domains[df.Name] = d
		reg.order = append(reg.order, df.Name)
	}
	return reg, nil
}

func loadStore(fsys fs.FS, file string) (*Store, error) {
	raw, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	var ef entryFile
	if err := yaml.Unmarshal(raw, &ef); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidData, file, err)
	}
	for i := range ef.Entries {
		if err := validate.Struct(&ef.Entries[i]); err != nil {
			return nil, fmt.Errorf("%w: %s: entry %q: %v", ErrInvalidData, file, ef.Entries[i].Key, err)
		}
	}
	return NewStore(strings.TrimSuffix(path.Base(file), path.Ext(file)), ef.Entries)
}

func loadTopics(fsys fs.FS, file string) ([]Topic, error) {
	raw, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	var tf topicFile
	if err := yaml.Unmarshal(raw, &tf); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidData, file, err)
	}
	for i := range tf.Topics {
		if err := validate.Struct(&tf.Topics[i]); err != nil {
			return nil, fmt.Errorf("%w: %s: topic %q: %v", ErrInvalidData, file, tf.Topics[i].Name, err)
		}
	}
	return tf.Topics, nil
}
