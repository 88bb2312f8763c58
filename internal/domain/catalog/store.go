package catalog

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Store holds the parsed material catalog. Immutable after load.
type Store struct {
	items map[string]MaterialDescription
}

// NewStore builds a Store from already-constructed descriptions. Used by
// tests; production loads, including offline snapshot replay, go through
// LoadDescriptions.
func NewStore(items map[string]MaterialDescription) *Store {
	copied := make(map[string]MaterialDescription, len(items))
	for name, desc := range items {
		copied[name] = desc
	}
	return &Store{items: copied}
}

// LoadDescriptions reads and parses the catalog document at path.
func LoadDescriptions(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open descriptions file: %w", err)
	}
	defer f.Close()

	store, err := ParseDescriptions(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse descriptions file %s: %w", path, err)
	}
	return store, nil
}

// rawEntry mirrors one catalog entry as it appears on disk. Unknown keys
// are ignored; explicit nulls decode to nil the same as absent keys.
type rawEntry struct {
	PostID  *int64             `yaml:"post_id"`
	Vendor  *int64             `yaml:"vendor"`
	Recipes []map[string]int64 `yaml:"recipes"`
}

// ParseDescriptions parses a catalog document: a top-level mapping from
// item name to {post_id, vendor, recipes}.
func ParseDescriptions(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptions document: %w", err)
	}

	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("descriptions document is not a valid YAML mapping: %w", err)
	}

	items := make(map[string]MaterialDescription, len(doc))
	for name, node := range doc {
		desc, err := decodeEntry(name, node)
		if err != nil {
			return nil, err
		}
		items[name] = desc
	}

	return &Store{items: items}, nil
}

func decodeEntry(name string, node yaml.Node) (MaterialDescription, error) {
	var raw rawEntry
	if err := node.Decode(&raw); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return MaterialDescription{}, &SchemaError{Item: name, Reason: typeErr.Error()}
		}
		return MaterialDescription{}, fmt.Errorf("failed to decode catalog entry for %q: %w", name, err)
	}

	postID, err := toU32(name, "post_id", raw.PostID)
	if err != nil {
		return MaterialDescription{}, err
	}
	vendor, err := toU32(name, "vendor", raw.Vendor)
	if err != nil {
		return MaterialDescription{}, err
	}

	recipes := make([]Recipe, 0, len(raw.Recipes))
	for _, rawRecipe := range raw.Recipes {
		recipe := make(Recipe, len(rawRecipe))
		for input, quantity := range rawRecipe {
			if quantity <= 0 || quantity > math.MaxUint32 {
				return MaterialDescription{}, &SchemaError{
					Item:   name,
					Field:  "recipes",
					Reason: fmt.Sprintf("quantity %d for input %q is not a positive 32-bit integer", quantity, input),
				}
			}
			recipe[input] = uint32(quantity)
		}
		recipes = append(recipes, recipe)
	}

	return MaterialDescription{PostID: postID, Vendor: vendor, Recipes: recipes}, nil
}

func toU32(item, field string, value *int64) (*uint32, error) {
	if value == nil {
		return nil, nil
	}
	if *value < 0 || *value > math.MaxUint32 {
		return nil, &SchemaError{
			Item:   item,
			Field:  field,
			Reason: fmt.Sprintf("%d does not fit an unsigned 32-bit integer", *value),
		}
	}
	v := uint32(*value)
	return &v, nil
}

// Get returns the description for an item name.
func (s *Store) Get(name string) (MaterialDescription, bool) {
	desc, ok := s.items[name]
	return desc, ok
}

// Names returns all item names in the catalog, sorted for deterministic
// iteration.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.items))
	for name := range s.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of catalog entries.
func (s *Store) Len() int {
	return len(s.items)
}

// CheckCycles rejects catalogs whose recipe graph refers back to itself.
// Inputs with no catalog entry are not followed here; the listing gather
// reports those as missing descriptions.
func (s *Store) CheckCycles() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(s.items))

	var visit func(name string, chain []string) error
	visit = func(name string, chain []string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return &RecipeCycleError{Chain: append(chain, name)}
		}
		state[name] = visiting
		chain = append(chain, name)

		desc := s.items[name]
		for _, recipe := range desc.Recipes {
			for _, input := range recipe.SortedInputs() {
				if _, ok := s.items[input]; !ok {
					continue
				}
				if err := visit(input, chain); err != nil {
					return err
				}
			}
		}

		state[name] = done
		return nil
	}

	for _, name := range s.Names() {
		if err := visit(name, nil); err != nil {
			return err
		}
	}
	return nil
}
