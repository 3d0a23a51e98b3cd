// Package validation schema-checks incoming Company and Freight payloads.
// It is purely structural (types, ranges, enum membership) and knows nothing
// about persistence or the caller's identity.
package validation

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CompanyInput carries the client-supplied company fields. The administrator
// is never part of the payload; the handler binds it from the token.
type CompanyInput struct {
	CompanyName string `json:"companyName" validate:"required,min=3,max=596"`
	CUI         string `json:"cui" validate:"required,min=3,max=72"`
	FromYear    int    `json:"fromYear" validate:"required,gte=1800,lte=2100"`
	Address     string `json:"address" validate:"required,min=5,max=596"`
	Activity    string `json:"activity" validate:"required,oneof=transporter expeditor 'casa de expeditii' altele"`
}

// FreightInput carries the client-supplied freight fields. Optional numerics
// are pointers so that "absent" and "zero" stay distinguishable.
type FreightInput struct {
	Location      string   `json:"location" validate:"required,min=3,max=256"`
	Destination   string   `json:"destination" validate:"required,min=3,max=256"`
	Details       string   `json:"details" validate:"omitempty,max=596"`
	Distance      string   `json:"distance" validate:"required,distance"`
	InitialOffer  *float64 `json:"initialoffer" validate:"omitempty,gte=0,lte=700000"`
	TVA           string   `json:"TVA" validate:"required,oneof=included without"`
	Regime        string   `json:"regime" validate:"required,oneof=LTL FTL ANY"`
	Tonnage       *float64 `json:"tonnage" validate:"omitempty,gte=0,lte=17000"`
	PalletName    string   `json:"palletName" validate:"omitempty,oneof=europallet industrialpallet other"`
	PalletNumber  *float64 `json:"palletNumber" validate:"omitempty,gte=0,lte=17000"`
	Volume        *float64 `json:"volume" validate:"omitempty,gte=0,lte=30000"`
	FreightLength *float64 `json:"freightLength" validate:"omitempty,gte=0,lte=2000"`
	Width         *float64 `json:"width" validate:"omitempty,gte=0,lte=2000"`
	Height        *float64 `json:"height" validate:"omitempty,gte=0,lte=2000"`
	Valability    string   `json:"valability" validate:"omitempty,oneof=1days 3days 7days 14days 30days"`
	TruckType     []string `json:"trucktype" validate:"omitempty,max=3,dive,oneof=duba decopertat basculanta 'transport auto' prelata agabaritic container"`
	Features      []string `json:"features" validate:"omitempty,dive,oneof=walkingfloor ADR FRIGO izoterm lift MEGAtrailer"`
}

// FieldError is one violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors aggregates every violated constraint of a payload. The caller maps
// it to a client error and never partially accepts the payload.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+" "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields under their wire names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// distance arrives as a numeric string; its value must be in [1,20000]
	_ = v.RegisterValidation("distance", func(fl validator.FieldLevel) bool {
		n, err := strconv.ParseFloat(fl.Field().String(), 64)
		if err != nil {
			return false
		}
		return n >= 1 && n <= 20000
	})
	return v
}

// Validate checks the payload, returning nil or an Errors value.
func (in *CompanyInput) Validate() error {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.CUI = strings.TrimSpace(in.CUI)
	in.Address = strings.TrimSpace(in.Address)
	in.Activity = strings.TrimSpace(in.Activity)
	return wrap(validate.Struct(in))
}

// Validate checks the payload, returning nil or an Errors value.
// The pallet name/number cross-field rule is a business rule checked by the
// handler before this runs.
func (in *FreightInput) Validate() error {
	in.Location = strings.TrimSpace(in.Location)
	in.Destination = strings.TrimSpace(in.Destination)
	in.Details = strings.TrimSpace(in.Details)
	in.Distance = strings.TrimSpace(in.Distance)
	in.TVA = strings.TrimSpace(in.TVA)
	in.Regime = strings.TrimSpace(in.Regime)
	in.PalletName = strings.TrimSpace(in.PalletName)
	in.Valability = strings.TrimSpace(in.Valability)
	for i := range in.TruckType {
		in.TruckType[i] = strings.TrimSpace(in.TruckType[i])
	}
	for i := range in.Features {
		in.Features[i] = strings.TrimSpace(in.Features[i])
	}

	var errs Errors
	if err := validate.Struct(in); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = fields(verrs)
	}
	// tonnage is required but 0 is a legal value, so presence is checked here
	// instead of with the required tag (which treats 0 as absent)
	if in.Tonnage == nil {
		errs = append(errs, FieldError{Field: "tonnage", Message: "is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	return fields(verrs)
}

func fields(verrs validator.ValidationErrors) Errors {
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at most %s items", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "distance":
		return "must be a number between 1 and 20000"
	}
	return "is invalid"
}
