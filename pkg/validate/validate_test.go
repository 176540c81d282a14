package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type customerForm struct {
	Name  string  `json:"name"  validate:"required,max=10"`
	Email string  `json:"email" validate:"nullable,email"`
	Stock int     `json:"stock" validate:"gte=0"`
	Price float64 `json:"price" validate:"gte=0,lte=1000"`
	Role  string  `json:"role"  validate:"required,in=OWNER,ADMIN,MANAGER"`
}

func TestStruct(t *testing.T) {
	errs := Struct(&customerForm{
		Name: "Acme", Email: "buy@acme.test", Stock: 3, Price: 10, Role: "ADMIN",
	})
	assert.Empty(t, errs)

	errs = Struct(&customerForm{Role: "ADMIN"})
	assert.Contains(t, errs, "name")
	assert.NotContains(t, errs, "email") // nullable and empty

	errs = Struct(&customerForm{Name: "Acme", Email: "not-an-email", Role: "ADMIN"})
	assert.Contains(t, errs, "email")

	errs = Struct(&customerForm{Name: "Acme", Stock: -1, Role: "ADMIN"})
	assert.Contains(t, errs, "stock")

	errs = Struct(&customerForm{Name: "Acme", Price: 2000, Role: "ADMIN"})
	assert.Contains(t, errs, "price")

	errs = Struct(&customerForm{Name: "Acme", Role: "INTRUDER"})
	assert.Contains(t, errs, "role")

	errs = Struct(&customerForm{Name: "way too long a name", Role: "ADMIN"})
	assert.Contains(t, errs, "name")
}
