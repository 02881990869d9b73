package validator

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// GetValidator returns the validator instance from Gin binding
func GetValidator() (*validator.Validate, error) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil, fmt.Errorf("gin validator engine is not go-playground/validator")
	}
	return v, nil
}

// RegisterAll registers all common validators defined in this package.
// Safe to call more than once; tests call it for every router.
func RegisterAll() error {
	var err error
	registerOnce.Do(func() {
		err = register()
	})
	return err
}

func register() error {
	v, err := GetValidator()
	if err != nil {
		return fmt.Errorf("get validator engine: %w", err)
	}

	if err := v.RegisterValidation("dni", ValidateDNI); err != nil {
		return fmt.Errorf("register dni validator: %w", err)
	}
	if err := v.RegisterValidation("civildate", ValidateCivilDate); err != nil {
		return fmt.Errorf("register civildate validator: %w", err)
	}

	slog.Info("Common validators registered", "validators", "dni,civildate")
	return nil
}
