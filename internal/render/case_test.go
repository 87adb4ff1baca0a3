package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"Pet":              "pet",
		"PetIn":            "pet_in",
		"endpoint-headers": "endpoint_headers",
		"idempotency-key":  "idempotency_key",
		"HTTPError":        "http_error",
		"already_snake":    "already_snake",
		"2fa":              "_2fa",
		"":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, toSnakeCase(in), in)
	}
}

func TestToPascalCase(t *testing.T) {
	cases := map[string]string{
		"pet":             "Pet",
		"pet_in":          "PetIn",
		"idempotency-key": "IdempotencyKey",
		"createdAt":       "CreatedAt",
		"":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, toPascalCase(in), in)
	}
}

func TestToCamelCase(t *testing.T) {
	cases := map[string]string{
		"pet_in":          "petIn",
		"idempotency-key": "idempotencyKey",
		"Pet":             "pet",
		"":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, toCamelCase(in), in)
	}
}
