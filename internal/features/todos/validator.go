package todos

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apperrors "github.com/xyz-asif/todoapi/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("todo_status", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
	return v
}

var jsonFieldNames = map[string]string{
	"Title":       "title",
	"Description": "description",
	"Status":      "status",
	"Priority":    "priority",
	"DueDate":     "due_date",
	"Skip":        "skip",
	"Limit":       "limit",
}

// ValidateUpdateTodo checks every field present in the body. Absent fields
// are not checked; null is only allowed where the column is nullable.
func ValidateUpdateTodo(req *UpdateTodoRequest) error {
	var problems []string

	if req.Title.Set {
		if !req.Title.Valid {
			problems = append(problems, "title: must not be null")
		} else if err := validate.Var(req.Title.Value, "min=1,max=255"); err != nil {
			problems = append(problems, describe("title", err)...)
		}
	}

	if req.Description.Valid {
		if err := validate.Var(req.Description.Value, "max=5000"); err != nil {
			problems = append(problems, describe("description", err)...)
		}
	}

	if req.Status.Set {
		if !req.Status.Valid {
			problems = append(problems, "status: must not be null")
		} else if err := validate.Var(req.Status.Value, "todo_status"); err != nil {
			problems = append(problems, describe("status", err)...)
		}
	}

	if req.Priority.Set {
		if !req.Priority.Valid {
			problems = append(problems, "priority: must not be null")
		} else if err := validate.Var(req.Priority.Value, "min=0,max=5"); err != nil {
			problems = append(problems, describe("priority", err)...)
		}
	}

	if len(problems) > 0 {
		return apperrors.Validation(strings.Join(problems, "; "))
	}
	return nil
}

// ParseID validates the {id} path segment.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.Validation("id: must be a valid UUID")
	}
	return id, nil
}

// TranslateBindError turns gin binding failures (JSON decoding, query
// parsing, struct validation) into a validation error with a readable detail.
func TranslateBindError(err error) *apperrors.Error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		var problems []string
		for _, fe := range verrs {
			problems = append(problems, fieldMessage(fieldName(fe.Field()), fe))
		}
		return apperrors.Validation(strings.Join(problems, "; "))
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var timeErr *time.ParseError
	var numErr *strconv.NumError

	switch {
	case errors.Is(err, io.EOF):
		return apperrors.Validation("body: field required")
	case errors.Is(err, io.ErrUnexpectedEOF), errors.As(err, &syntaxErr):
		return apperrors.Validation("body: invalid JSON")
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return apperrors.Validation(fmt.Sprintf("%s: expected %s", field, typeName(typeErr.Type)))
	case errors.As(err, &timeErr):
		return apperrors.Validation("due_date: must be an RFC 3339 timestamp")
	case errors.As(err, &numErr):
		return apperrors.Validation(fmt.Sprintf("query: %q is not a valid integer", numErr.Num))
	}

	return apperrors.Validation(err.Error())
}

func describe(field string, err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{field + ": " + err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldMessage(field, fe))
	}
	return out
}

func fieldName(structField string) string {
	if name, ok := jsonFieldNames[structField]; ok {
		return name
	}
	return strings.ToLower(structField)
}

func fieldMessage(field string, fe validator.FieldError) string {
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return field + ": field required"
	case "min":
		if isText {
			return fmt.Sprintf("%s: must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s: must be greater than or equal to %s", field, fe.Param())
	case "max":
		if isText {
			return fmt.Sprintf("%s: must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s: must be less than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s: must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "todo_status":
		return fmt.Sprintf("%s: must be one of %s, %s, %s", field, StatusPending, StatusInProgress, StatusCompleted)
	}
	return fmt.Sprintf("%s: failed on %s", field, fe.Tag())
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "a different type"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.String:
		return "a string"
	case reflect.Struct:
		if t == reflect.TypeOf(time.Time{}) {
			return "an RFC 3339 timestamp"
		}
		return "an object"
	}
	return t.Kind().String()
}
