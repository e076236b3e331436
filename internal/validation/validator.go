package validation

import (
	"strconv"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a validator with the custom tags used across the service.
//
//	tcpport: string or integer holding a port in 1..65535
func New() *validatorv10.Validate {
	v := validatorv10.New()
	// registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("tcpport", tcpPort)
	return v
}

func tcpPort(fl validatorv10.FieldLevel) bool {
	f := fl.Field()
	var n int64
	switch f.Interface().(type) {
	case string:
		p, err := strconv.ParseInt(f.String(), 10, 32)
		if err != nil {
			return false
		}
		n = p
	case int, int32, int64:
		n = f.Int()
	default:
		return false
	}
	return n >= 1 && n <= 65535
}
