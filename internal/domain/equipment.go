package domain

import (
	"encoding/json"
	"errors"
	"sort"

	"gopkg.in/yaml.v3"
)

// Location is where the user trains.
type Location string

const (
	LocationHomeBodyweight Location = "home_bodyweight"
	LocationHomeEquipment  Location = "home_equipment"
	LocationGym            Location = "gym"
)

// Valid reports whether l is one of the three recognized locations.
func (l Location) Valid() bool {
	_, ok := equipmentByLocation[l]
	return ok
}

// Environment classifies a resolved equipment set.
type Environment string

const (
	EnvironmentBodyweightOnly Environment = "bodyweight_only"
	EnvironmentHomeEquipped   Environment = "home_equipped"
	EnvironmentFullGym        Environment = "full_gym"
)

var (
	bodyweightEquipment = []string{"chair", "pull_up_bar", "yoga_mat"}
	homeEquipment       = []string{"ab_wheel", "bench", "dumbbells", "exercise_ball", "jump_rope", "kettlebell", "resistance_bands", "trx"}
	gymOnlyEquipment    = []string{
		"barbell", "cable_machine", "ez_bar", "lat_pulldown_machine", "leg_curl_machine", "leg_press_machine",
		"rowing_machine", "smith_machine", "squat_rack", "stationary_bike", "treadmill",
	}
)

// equipmentByLocation is the allow-list of equipment ids per location.
var equipmentByLocation = map[Location]map[string]bool{
	LocationHomeBodyweight: toSet(bodyweightEquipment),
	LocationHomeEquipment:  toSet(bodyweightEquipment, homeEquipment),
	LocationGym:            toSet(bodyweightEquipment, homeEquipment, gymOnlyEquipment),
}

var gymOnlySet = toSet(gymOnlyEquipment)

// EquipmentAllowed reports whether id is valid for the given location.
func EquipmentAllowed(location Location, id string) bool {
	return equipmentByLocation[location][id]
}

// EquipmentVocabulary returns the sorted allow-list for a location.
func EquipmentVocabulary(location Location) []string {
	ids := make([]string, 0, len(equipmentByLocation[location]))
	for id := range equipmentByLocation[location] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// KnownEquipment reports whether id appears in any location's vocabulary.
func KnownEquipment(id string) bool {
	return equipmentByLocation[LocationGym][id]
}

// ClassifyEnvironment derives the environment from a resolved id set.
func ClassifyEnvironment(ids []string) Environment {
	if len(ids) == 0 {
		return EnvironmentBodyweightOnly
	}
	for _, id := range ids {
		if gymOnlySet[id] {
			return EnvironmentFullGym
		}
	}
	return EnvironmentHomeEquipped
}

// EquipmentProfile is the normalized (location, equipment set) pair.
// EquipmentIDs is sorted, deduplicated and a subset of the location's vocabulary.
type EquipmentProfile struct {
	Location     Location    `bson:"location" json:"location"`
	EquipmentIDs []string    `bson:"equipmentIds" json:"equipmentIds"`
	Environment  Environment `bson:"environment" json:"environment"`
}

// Has reports whether id is part of the profile.
func (p EquipmentProfile) Has(id string) bool {
	i := sort.SearchStrings(p.EquipmentIDs, id)
	return i < len(p.EquipmentIDs) && p.EquipmentIDs[i] == id
}

// Covers reports whether every required id is available. An empty
// requirement is always covered.
func (p EquipmentProfile) Covers(required []string) bool {
	for _, id := range required {
		if !p.Has(id) {
			return false
		}
	}
	return true
}

// EquipmentSelection is one raw equipment answer. The questionnaire has
// stored both bare ids ("dumbbells") and {id, label} objects; both decode here.
type EquipmentSelection struct {
	ID    string `bson:"id" json:"id" yaml:"id"`
	Label string `bson:"label,omitempty" json:"label,omitempty" yaml:"label,omitempty"`
}

// Selections wraps bare ids as selections.
func Selections(ids ...string) []EquipmentSelection {
	out := make([]EquipmentSelection, len(ids))
	for i, id := range ids {
		out[i] = EquipmentSelection{ID: id}
	}
	return out
}

type equipmentSelectionObject EquipmentSelection

// UnmarshalJSON accepts either a JSON string or an {id,label} object.
func (s *EquipmentSelection) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*s = EquipmentSelection{ID: id}
		return nil
	}
	var obj equipmentSelectionObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return errors.New("equipment selection must be a string or an object with an id")
	}
	*s = EquipmentSelection(obj)
	return nil
}

// UnmarshalYAML accepts either a scalar or an {id,label} mapping.
func (s *EquipmentSelection) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*s = EquipmentSelection{ID: node.Value}
		return nil
	}
	var obj equipmentSelectionObject
	if err := node.Decode(&obj); err != nil {
		return errors.New("equipment selection must be a string or a mapping with an id")
	}
	*s = EquipmentSelection(obj)
	return nil
}

func toSet(lists ...[]string) map[string]bool {
	set := make(map[string]bool)
	for _, list := range lists {
		for _, id := range list {
			set[id] = true
		}
	}
	return set
}
