package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLiteral(t *testing.T) {
	assert.Equal(t, "'plain'", Literal("plain"))
	assert.Equal(t, `"it's"`, Literal("it's"))
	assert.Equal(t, `'say "hi"'`, Literal(`say "hi"`))
	assert.Equal(t, `concat('it', "'", 's "x"')`, Literal(`it's "x"`))
	assert.Equal(t, `concat('', "'", '"')`, Literal(`'"`))
}

func TestNormalizeSpace(t *testing.T) {
	assert.Equal(t, "First Name", NormalizeSpace("  First \n\t Name "))
	assert.Equal(t, "", NormalizeSpace(" \n "))
}

func TestLocatorString(t *testing.T) {
	assert.Equal(t, "id=email", ID("email").String())
	assert.Equal(t, "xpath=//a", XPath("//a").String())
}
