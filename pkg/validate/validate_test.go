package validate_test

import (
	"testing"

	"github.com/Astemirdum/bookstore-service/pkg/validate"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  *string `json:"name" validate:"required,notblank,max=5"`
	Code  *string `json:"code" validate:"required,even"`
	Inner string  `json:"-"`
}

func strPtr(s string) *string { return &s }

func TestCustomValidator_Validate(t *testing.T) {
	t.Parallel()
	cv := validate.NewCustomValidator(validate.Rule{
		Tag: "even",
		Fn: func(fl validator.FieldLevel) bool {
			return len(fl.Field().String())%2 == 0
		},
		Message: func(validator.FieldError) string { return "Must be even." },
	})

	tests := []struct {
		name string
		in   payload
		want validate.FieldErrors
	}{
		{
			name: "ok",
			in:   payload{Name: strPtr("abc"), Code: strPtr("ab")},
		},
		{
			name: "required",
			in:   payload{Name: strPtr("abc")},
			want: validate.FieldErrors{"code": {"This field is required."}},
		},
		{
			name: "blank and too long",
			in:   payload{Name: strPtr("   "), Code: strPtr("abcdef")},
			want: validate.FieldErrors{"name": {"This field may not be blank."}},
		},
		{
			name: "max and custom",
			in:   payload{Name: strPtr("abcdefg"), Code: strPtr("abc")},
			want: validate.FieldErrors{
				"name": {"Ensure this field has no more than 5 characters."},
				"code": {"Must be even."},
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := cv.Validate(tt.in)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			var fe validate.FieldErrors
			require.ErrorAs(t, err, &fe)
			require.Equal(t, tt.want, fe)
		})
	}
}

func TestCustomValidator_ValidatePartial(t *testing.T) {
	t.Parallel()
	cv := validate.NewCustomValidator(validate.Rule{
		Tag: "even",
		Fn:  func(fl validator.FieldLevel) bool { return len(fl.Field().String())%2 == 0 },
	})

	require.NoError(t, cv.ValidatePartial(payload{Name: strPtr("abc")}, "Name"))
	require.NoError(t, cv.ValidatePartial(payload{}))

	err := cv.ValidatePartial(payload{Name: strPtr("abc"), Code: strPtr("a")}, "Name", "Code")
	var fe validate.FieldErrors
	require.ErrorAs(t, err, &fe)
	require.Equal(t, validate.FieldErrors{"code": {"Invalid value."}}, fe)
}
