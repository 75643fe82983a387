package saved

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Document is the durable description of one editable project: the asset
// catalog plus an ordered list of levels. It is loaded once per editing
// session, mutated in place by commands and cloned for every persistence
// write. Field names follow the wire format of the project store.
type Document struct {
	Models     []ModelAsset     `json:"models"`
	Textures   []TextureAsset   `json:"textures,omitempty"`
	Landscapes []LandscapeAsset `json:"landscapes,omitempty"`
	Stats      []StatTemplate   `json:"stats,omitempty"`
	Levels     []*Level         `json:"levels"`
}

type ModelAsset struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
}

type TextureAsset struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
}

type LandscapeAsset struct {
	ID        string   `json:"id"`
	Heightmap *FileRef `json:"heightmap,omitempty"`
}

type FileRef struct {
	FileName string `json:"fileName"`
}

// StatTemplate is a reusable stat block referenced by collectables.
type StatTemplate struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Health  float32 `json:"health"`
	Stamina float32 `json:"stamina"`
}

func NewDocument() *Document {
	return &Document{Levels: []*Level{NewLevel()}}
}

func Unmarshal(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrapf(err, "Failed to unmarshal document")
	}
	return &d, nil
}

func (d *Document) Marshal() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to marshal document")
	}
	return data, nil
}

// Clone returns a deep copy safe to hand to the persistence scheduler while
// the original keeps being mutated by later commands.
func (d *Document) Clone() *Document {
	data, err := json.Marshal(d)
	if err != nil {
		panic(errors.Wrapf(err, "Document not serializable"))
	}
	var c Document
	if err := json.Unmarshal(data, &c); err != nil {
		panic(errors.Wrapf(err, "Document clone roundtrip"))
	}
	return &c
}

// ActiveLevel is the level commands operate on. The current design edits a
// single level per session.
func (d *Document) ActiveLevel() *Level {
	if len(d.Levels) == 0 {
		d.Levels = append(d.Levels, NewLevel())
	}
	return d.Levels[0]
}

// FindModel looks a model asset up by catalog id.
func (d *Document) FindModel(assetID string) *ModelAsset {
	for i := range d.Models {
		if d.Models[i].ID == assetID {
			return &d.Models[i]
		}
	}
	return nil
}

func (d *Document) FindTexture(assetID string) *TextureAsset {
	for i := range d.Textures {
		if d.Textures[i].ID == assetID {
			return &d.Textures[i]
		}
	}
	return nil
}

func (d *Document) FindLandscapeAsset(assetID string) *LandscapeAsset {
	for i := range d.Landscapes {
		if d.Landscapes[i].ID == assetID {
			return &d.Landscapes[i]
		}
	}
	return nil
}

// FirstStat returns the default stat template used when a spawn command does
// not name one.
func (d *Document) FirstStat() *StatTemplate {
	if len(d.Stats) == 0 {
		return nil
	}
	return &d.Stats[0]
}

// SetLandscapeHeightmap points the landscape asset with the given id at a
// heightmap file, creating the asset entry if it does not exist yet.
func (d *Document) SetLandscapeHeightmap(assetID, fileName string) *LandscapeAsset {
	if la := d.FindLandscapeAsset(assetID); la != nil {
		la.Heightmap = &FileRef{FileName: fileName}
		return la
	}
	d.Landscapes = append(d.Landscapes, LandscapeAsset{
		ID:        assetID,
		Heightmap: &FileRef{FileName: fileName},
	})
	return &d.Landscapes[len(d.Landscapes)-1]
}
