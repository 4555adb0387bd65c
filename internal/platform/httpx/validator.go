package httpx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidatorFields flattens go-playground validator errors into the field
// map shape the error taxonomy carries. Field names are lowercased to match
// their JSON form.
func ValidatorFields(err error) map[string]string {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["general"] = err.Error()
		return fields
	}
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = fmt.Sprintf("failed %s validation", fe.Tag())
	}
	return fields
}
