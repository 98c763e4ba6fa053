package usecase

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\(?([0-9]{3})\)?[-. ]?([0-9]{3})[-. ]?([0-9]{4})$`)
)

const (
	MsgMissingFields = "Missing required fields: name, email, and phone are required"
	MsgInvalidEmail  = "Invalid email format"
)

// Mensagens exibidas no formulário, por campo e por tag que falhou.
var fieldMessages = map[string]map[string]string{
	"name": {
		"notblank": "Name is required",
	},
	"email": {
		"notblank":  "Email is required",
		"leademail": "Please enter a valid email address",
	},
	"phone": {
		"notblank": "Phone number is required",
		"naphone":  "Please enter a valid phone number",
	},
	"company": {
		"notblank": "Company/Brokerage is required",
	},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return jsonName(f.Tag.Get("json"))
	})
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterValidation("leademail", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	v.RegisterValidation("naphone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})
	return v
}

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidPhone aceita formatos norte-americanos: (555) 123-4567, 555.123.4567, 5551234567.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// LeadForm são os campos do formulário de contato do site.
type LeadForm struct {
	Name    string `json:"name" validate:"notblank"`
	Email   string `json:"email" validate:"notblank,leademail"`
	Phone   string `json:"phone" validate:"notblank,naphone"`
	Company string `json:"company" validate:"notblank"`
	Message string `json:"message"`
}

// ValidateLeadForm aplica as regras do formulário e devolve campo -> mensagem.
// Mapa vazio quando tudo passa.
func ValidateLeadForm(form LeadForm) map[string]string {
	return fieldErrors(validate.Struct(form))
}

type submission struct {
	Name  string `json:"name" validate:"notblank"`
	Email string `json:"email" validate:"notblank,leademail"`
	Phone string `json:"phone" validate:"notblank"`
}

// ValidateSubmission é a checagem do servidor: company é opcional aqui.
func ValidateSubmission(input SubmitLeadInput) error {
	err := validate.Struct(submission{
		Name:  input.Name,
		Email: strings.TrimSpace(input.Email),
		Phone: input.Phone,
	})
	if err == nil {
		return nil
	}

	msg := MsgInvalidEmail
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			if fe.Tag() == "notblank" {
				msg = MsgMissingFields
				break
			}
		}
	}
	return &ValidationError{Message: msg, Fields: fieldErrors(err)}
}

func fieldErrors(err error) map[string]string {
	errs := make(map[string]string)
	if err == nil {
		return errs
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["form"] = err.Error()
		return errs
	}

	for _, fe := range verrs {
		field := fe.Field()
		msg, ok := fieldMessages[field][fe.Tag()]
		if !ok {
			msg = field + " is invalid"
		}
		errs[field] = msg
	}
	return errs
}

func jsonName(tag string) string {
	name := strings.SplitN(tag, ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
