package synth

import (
	"fmt"
	"math"

	"github.com/shapegen/shapegen/internal/errors"
	"github.com/shapegen/shapegen/internal/models"
)

// infer determines the type descriptor for one field value. Object values
// synthesize a new nested class, appended to the enclosing class under
// construction, and return a reference to it by name.
func (s *Synthesizer) infer(value models.Value, fieldName string, enclosing *models.ClassSpec, depth int) (models.TypeDescriptor, error) {
	switch value.Kind {
	case models.String:
		return models.TypeDescriptor{Kind: models.TypeString}, nil

	case models.Int:
		return integralDescriptor(value.Int), nil

	case models.Bool:
		return models.TypeDescriptor{Kind: models.TypeBool}, nil

	case models.Double:
		return models.TypeDescriptor{Kind: models.TypeDouble}, nil

	case models.Array:
		if len(value.Items) == 0 {
			if s.opts.EmptyArrays == EmptyArrayStringList {
				return models.ListOf(models.TypeDescriptor{Kind: models.TypeString}), nil
			}
			return models.TypeDescriptor{}, errors.ErrEmptyArray
		}
		if depth+1 > s.opts.MaxDepth {
			return models.TypeDescriptor{}, errors.ErrMaxDepthExceeded
		}
		// Only the first element determines the element type; heterogeneous
		// arrays are not reconciled.
		elem, err := s.infer(value.Items[0], fieldName, enclosing, depth+1)
		if err != nil {
			return models.TypeDescriptor{}, err
		}
		return models.ListOf(elem), nil

	case models.Object:
		nestedName := enclosing.Name + identifier(fieldName)
		if err := s.registerClassName(nestedName); err != nil {
			return models.TypeDescriptor{}, err
		}
		nested, err := s.synthesizeClass(value, nestedName, depth+1)
		if err != nil {
			return models.TypeDescriptor{}, err
		}
		enclosing.Nested = append(enclosing.Nested, nested)
		return models.ClassRef(nestedName), nil

	case models.Null:
		// A null carries no type information; String is the documented
		// conservative fallback.
		return models.TypeDescriptor{Kind: models.TypeString}, nil

	default:
		return models.TypeDescriptor{}, fmt.Errorf("unexpected value kind %d", value.Kind)
	}
}

// integralDescriptor picks an integer width wide enough to hold the observed
// magnitude losslessly: Int for values in the int32 range, Long otherwise.
func integralDescriptor(n int64) models.TypeDescriptor {
	if n >= math.MinInt32 && n <= math.MaxInt32 {
		return models.TypeDescriptor{Kind: models.TypeInt}
	}
	return models.TypeDescriptor{Kind: models.TypeLong}
}
