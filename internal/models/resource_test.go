package models

import (
	"math"
	"strings"
	"testing"
)

func validResource() Resource {
	return Resource{
		Name:              "web-server-1",
		ResourceType:      ResourceCompute,
		Provider:          ProviderAWS,
		InstanceType:      "t3.xlarge",
		CPUUtilization:    Float(15),
		MemoryUtilization: Float(25),
		MonthlyCost:       150,
	}
}

func TestResourceValidate_Valid(t *testing.T) {
	if err := validResource().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResourceValidate_ZeroUtilizationIsValid(t *testing.T) {
	r := validResource()
	r.CPUUtilization = Float(0)
	r.MemoryUtilization = Float(0)
	if err := r.Validate(); err != nil {
		t.Fatalf("0%% utilization must be accepted; got %v", err)
	}
}

func TestResourceValidate_AbsentOptionalFields(t *testing.T) {
	r := validResource()
	r.CPUUtilization = nil
	r.MemoryUtilization = nil
	r.StorageUsage = nil
	if err := r.Validate(); err != nil {
		t.Fatalf("absent utilization must be accepted; got %v", err)
	}
}

func TestResourceValidate_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Resource)
		want   string
	}{
		{"zero cost", func(r *Resource) { r.MonthlyCost = 0 }, "monthly_cost"},
		{"negative cost", func(r *Resource) { r.MonthlyCost = -5 }, "monthly_cost"},
		{"cpu above 100", func(r *Resource) { r.CPUUtilization = Float(101) }, "cpu_utilization"},
		{"memory below 0", func(r *Resource) { r.MemoryUtilization = Float(-1) }, "memory_utilization"},
		{"negative storage", func(r *Resource) { r.StorageUsage = Float(-10) }, "storage_usage"},
		{"unknown type", func(r *Resource) { r.ResourceType = "network" }, "resource_type"},
		{"unknown provider", func(r *Resource) { r.Provider = "oracle" }, "provider"},
		{"missing name", func(r *Resource) { r.Name = "" }, "name is required"},
		{"infinite cost", func(r *Resource) { r.MonthlyCost = math.Inf(1) }, "monthly_cost must be a finite number"},
		{"NaN cost", func(r *Resource) { r.MonthlyCost = math.NaN() }, "monthly_cost"},
		{"infinite storage", func(r *Resource) { r.StorageUsage = Float(math.Inf(1)) }, "storage_usage must be a finite number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validResource()
			tt.mutate(&r)
			err := r.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestResourceValidate_ReportsAllFields(t *testing.T) {
	r := validResource()
	r.MonthlyCost = 0
	r.CPUUtilization = Float(150)
	err := r.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, field := range []string{"monthly_cost", "cpu_utilization"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error %q does not mention %q", err.Error(), field)
		}
	}
}
