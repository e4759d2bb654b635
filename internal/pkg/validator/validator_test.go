package validator

import "testing"

func TestValidCNPJ(t *testing.T) {
	tests := []struct {
		cnpj string
		want bool
	}{
		{"11222333000181", true},
		{"12345678000195", true},
		{"12345678000190", false},
		{"11111111111111", false},
		{"1122233300018", false},
		{"11.222.333/0001-81", false},
	}

	for _, tt := range tests {
		t.Run(tt.cnpj, func(t *testing.T) {
			if got := ValidCNPJ(tt.cnpj); got != tt.want {
				t.Errorf("ValidCNPJ(%q) = %v, want %v", tt.cnpj, got, tt.want)
			}
		})
	}
}

func TestValidator_Validate(t *testing.T) {
	type request struct {
		Name string `json:"name" validate:"required"`
		CNPJ string `json:"cnpj" validate:"required,cnpj"`
	}

	v := New()
	if errs := v.Validate(request{Name: "Acme", CNPJ: "11222333000181"}); len(errs) != 0 {
		t.Errorf("Validate(valid) = %+v", errs)
	}

	errs := v.Validate(request{CNPJ: "11222333000180"})
	if len(errs) != 2 {
		t.Fatalf("Validate(invalid) returned %d errors, want 2", len(errs))
	}
	if errs[0].Field != "name" || errs[1].Message != "cnpj must be a valid CNPJ" {
		t.Errorf("Validate(invalid) = %+v", errs)
	}
}
