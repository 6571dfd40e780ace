// Package validator envuelve go-playground/validator con los nombres JSON de los campos
// y soporte para shopspring/decimal.
package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldError campo que no pasó la validación.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

var validate = validator.New()

func init() {
	// Reportar el nombre JSON del campo en lugar del nombre Go.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// decimal.Decimal se valida como número (gte, gt, lte...).
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// ValidateStruct valida data y devuelve los campos con error (nil si es válido).
func ValidateStruct(data interface{}) []*FieldError {
	var errs []*FieldError
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []*FieldError{{Field: "", Tag: "invalid"}}
	}
	for _, fe := range verrs {
		errs = append(errs, &FieldError{
			Field: fieldPath(fe.Namespace()),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return errs
}

// Message resumen legible para el campo "error" de la respuesta.
func Message(errs []*FieldError) string {
	if len(errs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		p := e.Field + " (" + e.Tag
		if e.Param != "" {
			p += "=" + e.Param
		}
		parts = append(parts, p+")")
	}
	return "campos inválidos: " + strings.Join(parts, ", ")
}

// fieldPath quita el nombre del struct raíz: "CreateInvoiceRequest.items[0].quantity" -> "items[0].quantity".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
