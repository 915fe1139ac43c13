package event

// PitchDimensions describes the coordinate bounds of a pitch.
type PitchDimensions struct {
	XMin   float64
	XMax   float64
	YMin   float64
	YMax   float64
	Length float64
	Width  float64
}

type CoordinateSystem struct {
	Name            string
	PitchDimensions PitchDimensions
}

// Transformer converts event coordinates into a target coordinate system.
type Transformer interface {
	TransformEvent(e Event) Event
	TargetCoordinateSystem() CoordinateSystem
}

// TransformerFactory builds a Transformer for a provider that declares the
// given source pitch length and width in meters.
type TransformerFactory func(length, width float64) Transformer

// IdentityTransformer keeps events in the provider's percentage system.
type IdentityTransformer struct {
	system CoordinateSystem
}

func NewIdentityTransformer(length, width float64) Transformer {
	return IdentityTransformer{
		system: CoordinateSystem{
			Name: "provider_percentage",
			PitchDimensions: PitchDimensions{
				XMin:   0,
				XMax:   100,
				YMin:   0,
				YMax:   100,
				Length: length,
				Width:  width,
			},
		},
	}
}

func (t IdentityTransformer) TransformEvent(e Event) Event {
	return e
}

func (t IdentityTransformer) TargetCoordinateSystem() CoordinateSystem {
	return t.system
}

// Predicate decides whether a constructed event is kept.
type Predicate func(e Event) bool

func IncludeAll(Event) bool { return true }

// KindFilter keeps only events of the given kinds. An empty list keeps all.
func KindFilter(kinds ...Kind) Predicate {
	if len(kinds) == 0 {
		return IncludeAll
	}
	allowed := make(map[Kind]struct{}, len(kinds))
	for _, kind := range kinds {
		allowed[kind] = struct{}{}
	}
	return func(e Event) bool {
		if e == nil {
			return false
		}
		_, ok := allowed[e.Kind()]
		return ok
	}
}
