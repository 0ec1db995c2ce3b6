package middleware

import (
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/yigit/internhub/internal/pkg/validation"
)

// structValidator runs gin binding through the shared validator so custom
// tags and translated messages apply to every request struct
type structValidator struct{}

func (structValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	return validation.Struct(obj)
}

func (structValidator) Engine() any {
	return validation.Validate
}

var installOnce sync.Once

// InstallValidator replaces gin's default validator
func InstallValidator() {
	installOnce.Do(func() {
		binding.Validator = structValidator{}
	})
}
