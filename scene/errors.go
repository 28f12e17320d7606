package scene

import "fmt"

// SceneError reports a problem with a scene description: a missing required
// property, a reference to an undefined named element, or a value outside
// its documented range. It always names the element and property involved.
type SceneError struct {
	Element  string
	Property string
	Cause    error
}

func (e *SceneError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("scene: %s: %v", e.Element, e.Cause)
	}
	return fmt.Sprintf("scene: %s: property %q: %v", e.Element, e.Property, e.Cause)
}

func (e *SceneError) Unwrap() error { return e.Cause }

func newSceneError(element, property string, cause error) *SceneError {
	return &SceneError{Element: element, Property: property, Cause: cause}
}
