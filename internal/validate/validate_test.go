package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMailbox(t *testing.T) {
	valid := []string{"a@b.com", "first.last@sub.example.org", "x+tag@y.io"}
	invalid := []string{"", "   ", "plain", "a@", "@b.com", "A <a@b.com>", "a@b.com, c@d.com"}

	for _, s := range valid {
		assert.True(t, IsMailbox(s), s)
	}
	for _, s := range invalid {
		assert.False(t, IsMailbox(s), s)
	}
}

type sample struct {
	Name   string `validate:"required"`
	Email  string `validate:"required,mailbox"`
	Port   string `validate:"required,number"`
	Toggle bool
	Extra  string `validate:"required_if=Toggle true"`
}

var sampleMessages = Messages{
	"Name":  {"required": "Please enter name"},
	"Email": {"required": "Please enter email", "mailbox": "Please enter valid email"},
	"Port":  {"*": "Please enter valid port"},
}

func TestStruct_OK(t *testing.T) {
	res := Struct(sample{Name: "n", Email: "a@b.com", Port: "25"}, sampleMessages)
	assert.True(t, res.OK())
}

func TestStruct_CollectsFieldErrors(t *testing.T) {
	res := Struct(sample{Email: "nope", Port: "2x", Toggle: true}, sampleMessages)
	require.False(t, res.OK())
	require.Len(t, res.Errors, 4)

	e, ok := res.For("Name")
	require.True(t, ok)
	assert.Equal(t, "Please enter name", e.Message)

	e, ok = res.For("Email")
	require.True(t, ok)
	assert.Equal(t, "mailbox", e.Tag)
	assert.Equal(t, "Please enter valid email", e.Message)

	e, ok = res.For("Port")
	require.True(t, ok)
	assert.Equal(t, "Please enter valid port", e.Message)

	e, ok = res.For("Extra")
	require.True(t, ok)
	assert.Equal(t, "required_if", e.Tag)
	assert.Contains(t, e.Message, "Extra")
}

func TestStruct_ConditionalRequirementOff(t *testing.T) {
	res := Struct(sample{Name: "n", Email: "a@b.com", Port: "1"}, sampleMessages)
	_, ok := res.For("Extra")
	assert.False(t, ok)
}
