package utils

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validators
	validate.RegisterValidation("difficulty", validateDifficulty)
	validate.RegisterValidation("rating", validateRating)
	validate.RegisterValidation("coordinates", validateCoordinates)
	validate.RegisterValidation("role", validateRole)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateDifficulty(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "easy", "medium", "difficult":
		return true
	}
	return false
}

func validateRating(fl validator.FieldLevel) bool {
	rating := fl.Field().Float()
	return rating >= MinRating && rating <= MaxRating
}

func validateCoordinates(fl validator.FieldLevel) bool {
	coords, ok := fl.Field().Interface().([]float64)
	if !ok || len(coords) != 2 {
		return false
	}

	lng, lat := coords[0], coords[1]
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}

func validateRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "user", "guide", "lead-guide", "admin":
		return true
	}
	return false
}
