package scene

import (
	"encoding/json"
	"fmt"

	"github.com/nthery/qdtracer/radiance"
	"github.com/nthery/qdtracer/vec3"
)

// ParsedBlock is the property-bag contract a scene element's FillProperties
// reads from. It never panics on a missing optional property — GetXxxProp
// reports (zero, false) instead — and surfaces missing *required* properties
// as a typed *SceneError through RequiredProp, matching the tolerance
// contract recovered from the original parser (spec.md §4.8).
type ParsedBlock interface {
	GetDoubleProp(name string, dst *float64) bool
	GetIntProp(name string, dst *int) bool
	GetBoolProp(name string, dst *bool) bool
	GetStringProp(name string, dst *string) bool
	GetColorProp(name string, dst *radiance.Color) bool
	GetVectorProp(name string, dst *vec3.Vec3) bool
	RequiredProp(name string) error
}

// jsonBlock adapts a decoded JSON object into a ParsedBlock.
type jsonBlock struct {
	element string
	raw     map[string]json.RawMessage
}

func newJSONBlock(element string, raw map[string]json.RawMessage) *jsonBlock {
	return &jsonBlock{element: element, raw: raw}
}

func (b *jsonBlock) get(name string, dst interface{}) bool {
	v, ok := b.raw[name]
	if !ok {
		return false
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return false
	}
	return true
}

func (b *jsonBlock) GetDoubleProp(name string, dst *float64) bool { return b.get(name, dst) }
func (b *jsonBlock) GetIntProp(name string, dst *int) bool        { return b.get(name, dst) }
func (b *jsonBlock) GetBoolProp(name string, dst *bool) bool      { return b.get(name, dst) }
func (b *jsonBlock) GetStringProp(name string, dst *string) bool  { return b.get(name, dst) }

func (b *jsonBlock) GetColorProp(name string, dst *radiance.Color) bool {
	var triplet [3]float64
	if !b.get(name, &triplet) {
		return false
	}
	*dst = radiance.Color{R: triplet[0], G: triplet[1], B: triplet[2]}
	return true
}

func (b *jsonBlock) GetVectorProp(name string, dst *vec3.Vec3) bool {
	var triplet [3]float64
	if !b.get(name, &triplet) {
		return false
	}
	*dst = vec3.New(triplet[0], triplet[1], triplet[2])
	return true
}

func (b *jsonBlock) RequiredProp(name string) error {
	return newSceneError(b.element, name, fmt.Errorf("required property missing"))
}
