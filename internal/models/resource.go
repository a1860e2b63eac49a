package models

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ResourceType identifies the kind of cloud resource being tracked.
type ResourceType string

const (
	ResourceCompute  ResourceType = "compute"
	ResourceStorage  ResourceType = "storage"
	ResourceDatabase ResourceType = "database"
	ResourceCache    ResourceType = "cache"
)

// CloudProvider identifies the cloud vendor hosting a resource.
type CloudProvider string

const (
	ProviderAWS   CloudProvider = "aws"
	ProviderAzure CloudProvider = "azure"
	ProviderGCP   CloudProvider = "gcp"
)

// Resource is a single tracked cloud resource. It is the sole input unit of
// the recommendation engine and is never mutated by it.
//
// Utilization and storage fields are pointers: nil means "not measured" and
// causes every rule depending on that field to be skipped. A measured value
// of 0 is a real reading.
type Resource struct {
	ID           int64         `json:"id" yaml:"id,omitempty"`
	Name         string        `json:"name" yaml:"name" validate:"required,max=255"`
	ResourceType ResourceType  `json:"resource_type" yaml:"resource_type" validate:"required,oneof=compute storage database cache"`
	Provider     CloudProvider `json:"provider" yaml:"provider" validate:"required,oneof=aws azure gcp"`
	InstanceType string        `json:"instance_type" yaml:"instance_type" validate:"required,max=100"`
	Region       string        `json:"region,omitempty" yaml:"region,omitempty" validate:"max=50"`
	Size         string        `json:"size,omitempty" yaml:"size,omitempty" validate:"max=50"`

	CPUUtilization    *float64 `json:"cpu_utilization,omitempty" yaml:"cpu_utilization,omitempty" validate:"omitnil,gte=0,lte=100"`
	MemoryUtilization *float64 `json:"memory_utilization,omitempty" yaml:"memory_utilization,omitempty" validate:"omitnil,gte=0,lte=100"`
	StorageUsage      *float64 `json:"storage_usage,omitempty" yaml:"storage_usage,omitempty" validate:"omitnil,finite,gte=0"`

	MonthlyCost float64 `json:"monthly_cost" yaml:"monthly_cost" validate:"finite,gt=0"`

	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// Float returns a pointer to v. Used to populate optional utilization fields.
func Float(v float64) *float64 { return &v }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// gt and gte accept +Inf, so unbounded numbers also need finite.
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		switch f.Kind() {
		case reflect.Float32, reflect.Float64:
			return !math.IsInf(f.Float(), 0) && !math.IsNaN(f.Float())
		}
		return true
	})
	return v
}

// Validate enforces the ingestion invariants: positive finite monthly cost,
// utilization within [0,100], known type and provider. It reports every
// violated field, not only the first.
func (r Resource) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("resource %q: %s", r.Name, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := jsonFieldNames[fe.Field()]
	if field == "" {
		field = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("%s out of range (%s %s)", field, fe.Tag(), fe.Param())
	case "finite":
		return field + " must be a finite number"
	case "max":
		return fmt.Sprintf("%s exceeds %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

var jsonFieldNames = map[string]string{
	"Name":              "name",
	"ResourceType":      "resource_type",
	"Provider":          "provider",
	"InstanceType":      "instance_type",
	"Region":            "region",
	"Size":              "size",
	"CPUUtilization":    "cpu_utilization",
	"MemoryUtilization": "memory_utilization",
	"StorageUsage":      "storage_usage",
	"MonthlyCost":       "monthly_cost",
}
