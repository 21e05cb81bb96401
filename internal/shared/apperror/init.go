package apperror

import (
	"reflect"
	"strings"

	"go-thread/internal/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// bindingTags are the workforce enums accepted in request bodies.
var bindingTags = map[string]validator.Func{
	"presence": func(fl validator.FieldLevel) bool {
		return domain.Presence(fl.Field().String()).Valid()
	},
	"wage_type": func(fl validator.FieldLevel) bool {
		return domain.WageType(fl.Field().String()).Valid()
	},
	"leave_decision": func(fl validator.FieldLevel) bool {
		return domain.LeaveStatus(fl.Field().String()).Decided()
	},
}

// Init configures gin's validator: fields are reported by json name and the
// presence, wage_type and leave_decision tags become available to DTOs. It
// must run before any handler binds a request.
func Init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(jsonFieldName)
	for tag, fn := range bindingTags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}
