package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstInputColumn(t *testing.T) {
	assert.Equal(t, "ssn", firstInputColumn("{ssn}"))
	assert.Equal(t, "ssn", firstInputColumn("ssn"))
	assert.Equal(t, "ssn", firstInputColumn("{ssn, other}"))
	assert.Equal(t, "", firstInputColumn("{}"))
}
