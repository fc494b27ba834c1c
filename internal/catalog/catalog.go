// internal/catalog/catalog.go
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"gymovoo/workout-engine/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed exercises.yaml
var builtinData []byte

// ErrInvalidExercise is returned (wrapped) when a catalog entry fails validation.
var ErrInvalidExercise = errors.New("invalid exercise definition")

// Catalog is the immutable exercise registry. It is built once and shared
// read-only between concurrent plan generations.
type Catalog struct {
	exercises         []domain.Exercise // Sorted by ID
	byID              map[string]int
	contraindications map[string]bool // Every injury tag used by at least one exercise
}

// catalogFile is the on-disk document shape. JSON documents decode through the
// same YAML decoder.
type catalogFile struct {
	Exercises []domain.Exercise `yaml:"exercises" json:"exercises"`
}

// New validates the definitions and builds a catalog from them.
// The input slice is copied; later changes to it do not affect the catalog.
func New(exercises []domain.Exercise) (*Catalog, error) {
	c := &Catalog{
		exercises:         make([]domain.Exercise, 0, len(exercises)),
		byID:              make(map[string]int, len(exercises)),
		contraindications: make(map[string]bool),
	}
	seen := make(map[string]bool, len(exercises))
	for i, ex := range exercises {
		if err := validate(ex); err != nil {
			return nil, fmt.Errorf("exercise #%d (%q): %w", i, ex.ID, err)
		}
		if seen[ex.ID] {
			return nil, fmt.Errorf("exercise #%d: %w: duplicate id %q", i, ErrInvalidExercise, ex.ID)
		}
		seen[ex.ID] = true
		c.exercises = append(c.exercises, copyExercise(ex))
	}

	sort.Slice(c.exercises, func(i, j int) bool { return c.exercises[i].ID < c.exercises[j].ID })
	for i, ex := range c.exercises {
		c.byID[ex.ID] = i
		for _, tag := range ex.Contraindications {
			c.contraindications[tag] = true
		}
	}
	return c, nil
}

// MustNew is New for static data; it panics on invalid definitions.
func MustNew(exercises []domain.Exercise) *Catalog {
	c, err := New(exercises)
	if err != nil {
		panic(err)
	}
	return c
}

// Load decodes a YAML (or JSON) catalog document with a top-level "exercises" list.
func Load(r io.Reader) (*Catalog, error) {
	var doc catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog document is empty")
		}
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return New(doc.Exercises)
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog shipped with the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		var doc catalogFile
		if err := yaml.Unmarshal(builtinData, &doc); err != nil {
			panic(fmt.Sprintf("built-in exercise catalog is malformed: %v", err))
		}
		defaultCatalog = MustNew(doc.Exercises)
	})
	return defaultCatalog
}

// Get looks an exercise up by id.
func (c *Catalog) Get(id string) (domain.Exercise, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Exercise{}, false
	}
	return c.exercises[i], true
}

// All returns the exercises sorted by id. The returned slice is a copy,
// the exercises themselves must be treated as read-only.
func (c *Catalog) All() []domain.Exercise {
	return append([]domain.Exercise(nil), c.exercises...)
}

// Len returns the number of exercises.
func (c *Catalog) Len() int {
	return len(c.exercises)
}

// HasContraindication reports whether any exercise is tagged with the injury.
func (c *Catalog) HasContraindication(tag string) bool {
	return c.contraindications[tag]
}

// Filter returns a new catalog holding only the exercises keep accepts.
// Entries were validated already, so this cannot fail.
func (c *Catalog) Filter(keep func(domain.Exercise) bool) *Catalog {
	var kept []domain.Exercise
	for _, ex := range c.exercises {
		if keep(ex) {
			kept = append(kept, ex)
		}
	}
	return MustNew(kept)
}

// Encode writes the catalog as a YAML document that Load accepts.
func (c *Catalog) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(catalogFile{Exercises: c.exercises}); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return enc.Close()
}

func validate(ex domain.Exercise) error {
	switch {
	case ex.ID == "":
		return fmt.Errorf("%w: id is required", ErrInvalidExercise)
	case ex.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidExercise)
	case !ex.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidExercise, ex.Category)
	case len(ex.TargetMuscles) == 0:
		return fmt.Errorf("%w: at least one target muscle is required", ErrInvalidExercise)
	case !ex.Difficulty.Valid():
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidExercise, ex.Difficulty)
	case ex.DefaultSets < 1:
		return fmt.Errorf("%w: defaultSets must be positive", ErrInvalidExercise)
	case ex.DefaultReps.Min < 1 || ex.DefaultReps.Max < ex.DefaultReps.Min:
		return fmt.Errorf("%w: defaultReps must satisfy 1 <= min <= max", ErrInvalidExercise)
	case ex.DefaultRestSeconds < 0:
		return fmt.Errorf("%w: defaultRestSeconds must not be negative", ErrInvalidExercise)
	}
	for _, m := range ex.TargetMuscles {
		if !m.Valid() {
			return fmt.Errorf("%w: unknown muscle group %q", ErrInvalidExercise, m)
		}
	}
	for _, id := range ex.RequiredEquipment {
		if !domain.KnownEquipment(id) {
			return fmt.Errorf("%w: unknown equipment %q", ErrInvalidExercise, id)
		}
	}
	return nil
}

func copyExercise(ex domain.Exercise) domain.Exercise {
	ex.RequiredEquipment = append([]string(nil), ex.RequiredEquipment...)
	ex.TargetMuscles = append([]domain.MuscleGroup(nil), ex.TargetMuscles...)
	ex.Contraindications = append([]string(nil), ex.Contraindications...)
	return ex
}
