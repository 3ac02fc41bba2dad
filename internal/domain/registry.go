package domain

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Collection kinds reported in attribution evidence.
const (
	CollectionKindCharacterRepo = "character_repository"
	CollectionKindTagLibrary    = "tag_library"
)

// CollectionRegistry holds the externally configured sets of collection
// identifiers whose entries are included by membership rather than by
// content matching.
type CollectionRegistry struct {
	CharacterRepositories []string `yaml:"character_repositories"`
	TagLibraries          []string `yaml:"tag_libraries"`

	charRepos map[string]struct{}
	tagLibs   map[string]struct{}
}

// NewCollectionRegistry builds a registry from explicit identifier lists.
func NewCollectionRegistry(characterRepos, tagLibraries []string) *CollectionRegistry {
	r := &CollectionRegistry{
		CharacterRepositories: characterRepos,
		TagLibraries:          tagLibraries,
	}
	r.index()
	return r
}

// LoadCollectionRegistry reads a registry YAML file. A missing path returns
// an empty registry rather than an error; a present but unparseable file is
// an error.
func LoadCollectionRegistry(path string) (*CollectionRegistry, error) {
	if path == "" {
		return NewCollectionRegistry(nil, nil), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewCollectionRegistry(nil, nil), nil
		}
		return nil, fmt.Errorf("read collection registry: %w", err)
	}

	var r CollectionRegistry
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse collection registry: %w", err)
	}
	r.index()
	return &r, nil
}

func (r *CollectionRegistry) index() {
	r.charRepos = make(map[string]struct{}, len(r.CharacterRepositories))
	for _, name := range r.CharacterRepositories {
		r.charRepos[name] = struct{}{}
	}
	r.tagLibs = make(map[string]struct{}, len(r.TagLibraries))
	for _, name := range r.TagLibraries {
		r.tagLibs[name] = struct{}{}
	}
}

func (r *CollectionRegistry) IsCharacterRepository(world string) bool {
	if r == nil || world == "" {
		return false
	}
	_, ok := r.charRepos[world]
	return ok
}

func (r *CollectionRegistry) IsTagLibrary(world string) bool {
	if r == nil || world == "" {
		return false
	}
	_, ok := r.tagLibs[world]
	return ok
}

func (r *CollectionRegistry) CharacterRepositoryCount() int {
	if r == nil {
		return 0
	}
	return len(r.CharacterRepositories)
}

func (r *CollectionRegistry) TagLibraryCount() int {
	if r == nil {
		return 0
	}
	return len(r.TagLibraries)
}
