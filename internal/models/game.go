package models

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// StringList accepts either a single string or an array of strings on
// decode and always normalizes to a list. Older catalog documents store
// characters as a plain string, newer ones as an array.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = nil
		return nil
	}

	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = StringList{one}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("characters must be a string or an array of strings: %w", err)
	}
	*s = StringList(many)
	return nil
}

func (s *StringList) UnmarshalBSONValue(t byte, value []byte) error {
	rv := bson.RawValue{Type: bson.Type(t), Value: value}

	switch rv.Type {
	case bson.TypeNull, bson.TypeUndefined:
		*s = nil
		return nil
	case bson.TypeString:
		*s = StringList{rv.StringValue()}
		return nil
	case bson.TypeArray:
		var many []string
		if err := rv.Unmarshal(&many); err != nil {
			return fmt.Errorf("failed to decode characters array: %w", err)
		}
		*s = StringList(many)
		return nil
	default:
		return fmt.Errorf("characters must be a string or an array of strings, got BSON type %s", rv.Type)
	}
}

type Game struct {
	ID          bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string        `json:"title" bson:"title"`
	Genre       string        `json:"genre,omitempty" bson:"genre,omitempty"`
	Franchise   string        `json:"franchise,omitempty" bson:"franchise,omitempty"`
	Console     string        `json:"console,omitempty" bson:"console,omitempty"`
	Description string        `json:"description,omitempty" bson:"description,omitempty"`
	Characters  StringList    `json:"characters,omitempty" bson:"characters,omitempty"`
	Developer   string        `json:"developer,omitempty" bson:"developer,omitempty"`
	Publisher   string        `json:"publisher,omitempty" bson:"publisher,omitempty"`
	ReleaseDate string        `json:"release_date,omitempty" bson:"release_date,omitempty"`
	Image       string        `json:"image,omitempty" bson:"image,omitempty"`
}

// Facets holds the distinct option sets offered for catalog filtering.
type Facets struct {
	Genres     []string `json:"genres"`
	Franchises []string `json:"franchises"`
	Consoles   []string `json:"consoles"`
}
