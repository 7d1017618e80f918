package validator

import "github.com/go-playground/validator/v10"

func RegisterCustomValidations(validate *validator.Validate) {
	validate.RegisterValidation("lat", validateLat)
	validate.RegisterValidation("lng", validateLng)
	validate.RegisterValidation("zone", validateZone)
	validate.RegisterValidation("incident_status", validateIncidentStatus)
}

func validateLat(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	return lat >= -90.0 && lat <= 90.0
}

func validateLng(fl validator.FieldLevel) bool {
	lng := fl.Field().Float()
	return lng >= -180.0 && lng <= 180.0
}

func validateZone(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "green", "yellow", "red":
		return true
	}
	return false
}

func validateIncidentStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "unverified", "verified", "handled", "resolved":
		return true
	}
	return false
}
